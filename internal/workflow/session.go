// Package workflow drives the account upsert: search, preview, create and
// update, with one explicit session object per operator interaction.
package workflow

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/pappers-sync/internal/model"
)

// State is the lifecycle position of a session.
type State string

const (
	StateIdle          State = "idle"
	StateResolving     State = "resolving"
	StateDetailFetched State = "detail_fetched"
	StateCreating      State = "creating"
	StateLinked        State = "linked"
	StateFailed        State = "failed"
)

// Session carries the state of one operator interaction from first
// keystroke to a linked account. All workflow state lives here, never in
// package globals, so concurrent sessions cannot bleed into each other.
type Session struct {
	Query      string
	Candidates []model.CompanyCandidate
	Detail     *model.CompanyDetail
	Selected   *model.Establishment
	RunToken   string

	state State
}

// NewSession returns an idle session.
func NewSession() *Session {
	return &Session{state: StateIdle}
}

// State reports the current lifecycle position.
func (s *Session) State() State { return s.state }

func (s *Session) setCandidates(query string, candidates []model.CompanyCandidate) {
	s.Query = query
	s.Candidates = candidates
	s.Detail = nil
	s.Selected = nil
	s.RunToken = ""
	s.state = StateResolving
}

func (s *Session) setDetail(detail *model.CompanyDetail) {
	s.Detail = detail
	s.Selected = nil
	if detail != nil {
		s.state = StateDetailFetched
	}
}

// Select marks the establishment with the given SIRET as the workflow
// target. An empty SIRET resets the selection to the headquarters.
func (s *Session) Select(siret string) error {
	if s.Detail == nil {
		return eris.New("workflow: no company detail fetched")
	}
	if siret == "" {
		s.Selected = nil
		return nil
	}

	normalized := model.NormalizeSiren(siret)
	for i := range s.Detail.Establishments {
		if model.NormalizeSiren(s.Detail.Establishments[i].Siret) == normalized {
			s.Selected = &s.Detail.Establishments[i]
			return nil
		}
	}
	return &model.NotFoundError{Entity: "establishment", Key: siret}
}

// TargetSiret is the SIRET the next create/update applies to: the selected
// establishment, falling back to the headquarters.
func (s *Session) TargetSiret() string {
	if s.Selected != nil {
		return model.NormalizeSiren(s.Selected.Siret)
	}
	if s.Detail != nil {
		return model.NormalizeSiren(s.Detail.Headquarters.Siret)
	}
	return ""
}

// targetsSecondary reports whether the selection points at a non-HQ
// establishment.
func (s *Session) targetsSecondary() bool {
	return s.Selected != nil && !s.Selected.IsHeadquarters
}
