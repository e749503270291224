package model

import "time"

// RunKind distinguishes workflow invocations.
type RunKind string

const (
	RunKindCreate RunKind = "create"
	RunKindUpdate RunKind = "update"
)

// RunState tracks a workflow run through its lifecycle.
type RunState string

const (
	RunStateRunning RunState = "running"
	RunStateLinked  RunState = "linked"
	RunStateFailed  RunState = "failed"
)

// WorkflowRun is one orchestrator invocation, recorded for auditing and to
// reject concurrent invocations targeting the same establishment.
type WorkflowRun struct {
	ID        string    `json:"id"`         // per-invocation idempotency token
	EntityKey string    `json:"entity_key"` // establishment SIRET
	Kind      RunKind   `json:"kind"`
	State     RunState  `json:"state"`
	AccountID string    `json:"account_id,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
