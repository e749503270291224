package workflow

import "go.uber.org/zap"

// Notifier receives the single success or failure notification each
// workflow invocation emits.
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
}

// Navigator is asked to open the created or updated record.
type Navigator interface {
	OpenRecord(recordID, recordType string)
}

// LogNotifier writes notifications to the process log.
type LogNotifier struct{}

func (LogNotifier) Success(title, message string) {
	zap.L().Info("workflow: "+title, zap.String("detail", message))
}

func (LogNotifier) Error(title, message string) {
	zap.L().Error("workflow: "+title, zap.String("detail", message))
}

// NopNavigator ignores navigation requests, for contexts with no UI.
type NopNavigator struct{}

func (NopNavigator) OpenRecord(string, string) {}
