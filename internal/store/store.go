// Package store persists workflow runs. A partial unique index on running
// runs makes the store the arbiter for concurrent invocations targeting the
// same establishment.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/pappers-sync/internal/model"
)

// ErrRunInFlight is returned by BeginRun when a running run already exists
// for the same entity key.
var ErrRunInFlight = eris.New("store: run already in flight for entity")

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	State     model.RunState `json:"state,omitempty"`
	EntityKey string         `json:"entity_key,omitempty"`
	Kind      model.RunKind  `json:"kind,omitempty"`
	Limit     int            `json:"limit,omitempty"`
	Offset    int            `json:"offset,omitempty"`
}

// RunStore defines the persistence interface for workflow runs.
type RunStore interface {
	// BeginRun records a new running run for the entity key. At most one
	// running run may exist per key; a second attempt fails with
	// ErrRunInFlight.
	BeginRun(ctx context.Context, entityKey string, kind model.RunKind) (*model.WorkflowRun, error)

	// CompleteRun marks a run linked to the account it produced.
	CompleteRun(ctx context.Context, runID, accountID string) error

	// FailRun marks a run failed with its cause.
	FailRun(ctx context.Context, runID string, cause error) error

	GetRun(ctx context.Context, runID string) (*model.WorkflowRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.WorkflowRun, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
