package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sells-group/pappers-sync/internal/model"
	"github.com/sells-group/pappers-sync/internal/store"
)

// notification is one user-facing message collected during a workflow
// invocation and returned in the response body.
type notification struct {
	Level   string `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// notifyRecorder implements workflow.Notifier and workflow.Navigator,
// buffering notifications for the HTTP response instead of a UI toast.
type notifyRecorder struct {
	notifications []notification
	recordID      string
	recordType    string
}

func (r *notifyRecorder) Success(title, message string) {
	r.notifications = append(r.notifications, notification{Level: "success", Title: title, Message: message})
}

func (r *notifyRecorder) Error(title, message string) {
	r.notifications = append(r.notifications, notification{Level: "error", Title: title, Message: message})
}

func (r *notifyRecorder) OpenRecord(recordID, recordType string) {
	r.recordID = recordID
	r.recordType = recordType
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Warn("server: response encoding failed", zap.Error(err))
	}
}

// writeError maps domain errors onto HTTP statuses: incomplete registry
// payloads are the client's problem (422), missing entities 404, a rejected
// concurrent run 409, CRM persistence failures 502, everything else 500.
func writeError(w http.ResponseWriter, err error, notifications []notification) {
	var (
		incomplete *model.DataIncompleteError
		notFound   *model.NotFoundError
		persist    *model.PersistenceError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &incomplete):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrRunInFlight):
		status = http.StatusConflict
	case errors.As(err, &persist):
		status = http.StatusBadGateway
	}

	body := map[string]any{"error": err.Error()}
	if len(notifications) > 0 {
		body["notifications"] = notifications
	}
	writeJSON(w, status, body)
}
