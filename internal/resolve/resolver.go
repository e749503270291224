// Package resolve decides how registry entities line up with existing CRM
// accounts: existence checks for suggestion lists, parent resolution for
// secondary establishments, and name matching for cartography nodes.
package resolve

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/pappers-sync/internal/crm"
	"github.com/sells-group/pappers-sync/internal/model"
)

// Resolver answers existence questions against the account store.
type Resolver struct {
	store crm.AccountDataStore
}

// New creates a Resolver over the given store.
func New(store crm.AccountDataStore) *Resolver {
	return &Resolver{store: store}
}

// FindExistingAccount looks up an account by exact name or SIREN.
func (r *Resolver) FindExistingAccount(ctx context.Context, name, siren string) (crm.Existing, error) {
	existing, err := r.store.ExistingAccount(ctx, name, siren)
	if err != nil {
		return crm.Existing{}, eris.Wrap(err, "resolve: find existing account")
	}
	return existing, nil
}

// MatchCandidate reports whether a cartography node corresponds to an
// existing account. A SIREN hit is authoritative; a name-only hit counts
// when the names match ignoring case, accents and spacing.
func (r *Resolver) MatchCandidate(ctx context.Context, name, siren string) (crm.Existing, error) {
	existing, err := r.store.ExistingAccount(ctx, name, siren)
	if err != nil {
		return crm.Existing{}, eris.Wrap(err, "resolve: match candidate")
	}
	if !existing.Exists {
		return crm.Existing{}, nil
	}
	if siren != "" && model.NormalizeSiren(siren) != "" {
		return existing, nil
	}
	if !SameCompanyName(existing.AccountName, name) {
		return crm.Existing{}, nil
	}
	return existing, nil
}

// ResolveParentForSecondary returns the account ID of the headquarters
// carrying the given SIRET. Returns a NotFoundError when no account exists:
// an update targeting a secondary establishment has nowhere to persist.
func (r *Resolver) ResolveParentForSecondary(ctx context.Context, siret string) (string, error) {
	id, err := r.store.ParentAccountBySiret(ctx, siret)
	if err != nil {
		return "", eris.Wrap(err, "resolve: parent account")
	}
	if id == "" {
		return "", &model.NotFoundError{Entity: "parent account", Key: siret}
	}
	return id, nil
}

// AnnotateCandidates marks each suggestion that already has an account. The
// check degrades: on failure the list comes back unannotated.
func (r *Resolver) AnnotateCandidates(ctx context.Context, candidates []model.CompanyCandidate) []model.CompanyCandidate {
	sirets := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c.Siret != "" {
			sirets = append(sirets, c.Siret)
		}
	}

	exists, err := r.store.AccountsExistBySiret(ctx, sirets)
	if err != nil {
		zap.L().Warn("resolve: candidate existence check failed", zap.Error(err))
		return candidates
	}

	out := make([]model.CompanyCandidate, len(candidates))
	for i, c := range candidates {
		c.ExistsInCRM = exists[model.NormalizeSiren(c.Siret)]
		out[i] = c
	}
	return out
}

// AnnotateEstablishments marks each establishment that already has an
// account, same degradation rule as AnnotateCandidates.
func (r *Resolver) AnnotateEstablishments(ctx context.Context, establishments []model.Establishment) []model.Establishment {
	sirets := make([]string, 0, len(establishments))
	for _, e := range establishments {
		if e.Siret != "" {
			sirets = append(sirets, e.Siret)
		}
	}

	exists, err := r.store.AccountsExistBySiret(ctx, sirets)
	if err != nil {
		zap.L().Warn("resolve: establishment existence check failed", zap.Error(err))
		return establishments
	}

	out := make([]model.Establishment, len(establishments))
	for i, e := range establishments {
		e.ExistsInCRM = exists[model.NormalizeSiren(e.Siret)]
		out[i] = e
	}
	return out
}
