package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sells-group/pappers-sync/internal/model"
	"github.com/sells-group/pappers-sync/internal/store"
	"github.com/sells-group/pappers-sync/internal/workflow"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSuggest serves typeahead candidates. Calls are debounced per client
// session: a superseded request returns 204 without hitting the registry.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing query parameter q"})
		return
	}

	key := r.Header.Get("X-Session-ID")
	if key == "" {
		key = r.RemoteAddr
	}

	var candidates []model.CompanyCandidate
	ran := s.debouncer.Do(r.Context(), key, func() {
		sess := workflow.NewSession()
		candidates = s.orchestrator(&notifyRecorder{}).Search(r.Context(), sess, query)
	})
	if !ran {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query":      query,
		"candidates": candidates,
	})
}

// handleCompany serves the full profile for a SIRET. ?scoring=true folds the
// supplementary financial-scoring fields into the fetch.
func (s *Server) handleCompany(w http.ResponseWriter, r *http.Request) {
	siret := model.NormalizeSiren(chi.URLParam(r, "siret"))
	if !model.ValidSiret(siret) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "siret must be 14 digits"})
		return
	}
	includeScoring := r.URL.Query().Get("scoring") == "true"

	sess := workflow.NewSession()
	detail, err := s.orchestrator(&notifyRecorder{}).Preview(r.Context(), sess, siret, includeScoring)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	if detail == nil {
		writeError(w, &model.NotFoundError{Entity: "company", Key: siret}, nil)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// handleEstablishments lists the open establishments of a company, with CRM
// existence stamped on each. The path accepts a SIRET or a bare SIREN.
func (s *Server) handleEstablishments(w http.ResponseWriter, r *http.Request) {
	id := model.NormalizeSiren(chi.URLParam(r, "siret"))
	siren := id
	if model.ValidSiret(id) {
		siren = model.SirenFromSiret(id)
	}
	if !model.ValidSiren(siren) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "identifier must be a 9-digit siren or 14-digit siret"})
		return
	}

	establishments, err := s.cfg.Registry.FetchEstablishments(r.Context(), siren)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	establishments = s.cfg.Resolver.AnnotateEstablishments(r.Context(), establishments)

	writeJSON(w, http.StatusOK, map[string]any{
		"siren":          siren,
		"establishments": establishments,
	})
}

type createAccountRequest struct {
	Siret              string `json:"siret"`
	EstablishmentSiret string `json:"establishment_siret,omitempty"`
}

// handleCreateAccount runs the create workflow: fetch the profile for the
// requested SIRET, optionally select a secondary establishment, and create
// the account hierarchy.
func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	siret := model.NormalizeSiren(req.Siret)
	if !model.ValidSiret(siret) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "siret must be 14 digits"})
		return
	}

	rec := &notifyRecorder{}
	orch := s.orchestrator(rec)

	sess := workflow.NewSession()
	detail, err := orch.Preview(r.Context(), sess, siret, false)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	if detail == nil {
		writeError(w, &model.NotFoundError{Entity: "company", Key: siret}, nil)
		return
	}
	if req.EstablishmentSiret != "" {
		if err := sess.Select(req.EstablishmentSiret); err != nil {
			writeError(w, err, nil)
			return
		}
	}

	result, err := orch.CreateAccount(r.Context(), sess)
	if err != nil {
		writeError(w, err, rec.notifications)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"run_id":        result.RunID,
		"account_id":    result.AccountID,
		"notifications": rec.notifications,
	})
}

type updateFinancialsRequest struct {
	Siren string `json:"siren"`
	Siret string `json:"siret,omitempty"`
}

// handleUpdateFinancials refreshes the financial history of the account
// backing a company. The body names the company by SIREN; when only the
// SIREN is given the siège SIRET is resolved from the establishment list.
func (s *Server) handleUpdateFinancials(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	var req updateFinancialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	siret := model.NormalizeSiren(req.Siret)
	if siret == "" {
		resolved, err := s.headquartersSiret(r, model.NormalizeSiren(req.Siren))
		if err != nil {
			writeError(w, err, nil)
			return
		}
		if resolved == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "siren must be 9 digits"})
			return
		}
		siret = resolved
	}
	if !model.ValidSiret(siret) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "siret must be 14 digits"})
		return
	}

	rec := &notifyRecorder{}
	orch := s.orchestrator(rec)

	sess := workflow.NewSession()
	detail, err := orch.Preview(r.Context(), sess, siret, true)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	if detail == nil {
		writeError(w, &model.NotFoundError{Entity: "company", Key: siret}, nil)
		return
	}

	result, err := orch.UpdateAccount(r.Context(), sess)
	if err != nil {
		writeError(w, err, rec.notifications)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run_id":        result.RunID,
		"account_id":    result.AccountID,
		"requested_for": accountID,
		"notifications": rec.notifications,
	})
}

// headquartersSiret resolves the siège SIRET of a SIREN from its
// establishment list. Returns "" when the SIREN is malformed.
func (s *Server) headquartersSiret(r *http.Request, siren string) (string, error) {
	if !model.ValidSiren(siren) {
		return "", nil
	}
	establishments, err := s.cfg.Registry.FetchEstablishments(r.Context(), siren)
	if err != nil {
		return "", err
	}
	for _, e := range establishments {
		if e.IsHeadquarters {
			return model.NormalizeSiren(e.Siret), nil
		}
	}
	return "", &model.NotFoundError{Entity: "headquarters", Key: siren}
}

// handleListRuns lists recorded workflow runs, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.RunFilter{
		State:     model.RunState(q.Get("state")),
		Kind:      model.RunKind(q.Get("kind")),
		EntityKey: model.NormalizeSiren(q.Get("entity_key")),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
			return
		}
		filter.Limit = n
	}

	runs, err := s.cfg.Runs.ListRuns(r.Context(), filter)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}
