package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/pappers-sync/internal/crm"
	"github.com/sells-group/pappers-sync/internal/finance"
	"github.com/sells-group/pappers-sync/internal/model"
	"github.com/sells-group/pappers-sync/internal/resolve"
	"github.com/sells-group/pappers-sync/internal/store"
	"github.com/sells-group/pappers-sync/pkg/pappers"
)

// Result reports the outcome of a create or update invocation.
type Result struct {
	RunID     string `json:"run_id"`
	AccountID string `json:"account_id"`
}

// Config wires an Orchestrator.
type Config struct {
	Registry  pappers.Client
	Accounts  crm.AccountDataStore
	Resolver  *resolve.Resolver
	Runs      store.RunStore
	Notifier  Notifier
	Navigator Navigator

	// RetentionYears bounds the financial history window. Zero means the
	// default.
	RetentionYears int

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// Orchestrator runs the account upsert workflow over a session.
type Orchestrator struct {
	registry  pappers.Client
	accounts  crm.AccountDataStore
	resolver  *resolve.Resolver
	runs      store.RunStore
	notifier  Notifier
	navigator Navigator
	retention int
	now       func() time.Time
}

// New creates an Orchestrator from the given wiring.
func New(cfg Config) *Orchestrator {
	o := &Orchestrator{
		registry:  cfg.Registry,
		accounts:  cfg.Accounts,
		resolver:  cfg.Resolver,
		runs:      cfg.Runs,
		notifier:  cfg.Notifier,
		navigator: cfg.Navigator,
		retention: cfg.RetentionYears,
		now:       cfg.Now,
	}
	if o.notifier == nil {
		o.notifier = LogNotifier{}
	}
	if o.navigator == nil {
		o.navigator = NopNavigator{}
	}
	if o.retention <= 0 {
		o.retention = finance.DefaultRetentionYears
	}
	if o.now == nil {
		o.now = time.Now
	}
	return o
}

// Search queries the registry and stamps CRM existence on each candidate.
// It never fails: search degrades to an empty list.
func (o *Orchestrator) Search(ctx context.Context, s *Session, query string) []model.CompanyCandidate {
	candidates := o.registry.SearchByText(ctx, query)
	candidates = o.resolver.AnnotateCandidates(ctx, candidates)
	s.setCandidates(query, candidates)
	return candidates
}

// Preview fetches the full profile for a SIRET and annotates its
// establishments. A degraded fetch yields (nil, nil); an incomplete payload
// propagates as DataIncompleteError.
func (o *Orchestrator) Preview(ctx context.Context, s *Session, siret string, includeScoring bool) (*model.CompanyDetail, error) {
	detail, err := o.registry.FetchDetail(ctx, siret, includeScoring)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, nil
	}

	detail.Establishments = o.resolver.AnnotateEstablishments(ctx, detail.Establishments)
	s.setDetail(detail)
	return detail, nil
}

// CreateAccount creates the account hierarchy for the session's target:
// the headquarters with financial history and cartography, or a secondary
// establishment parented under its headquarters account.
func (o *Orchestrator) CreateAccount(ctx context.Context, s *Session) (*Result, error) {
	if s.Detail == nil {
		return nil, eris.New("workflow: create requires a fetched company detail")
	}

	run, err := o.runs.BeginRun(ctx, s.TargetSiret(), model.RunKindCreate)
	if err != nil {
		o.notifier.Error("Création impossible", err.Error())
		return nil, err
	}
	s.RunToken = run.ID
	s.state = StateCreating

	var accountID string
	if s.targetsSecondary() {
		accountID, err = o.createSecondary(ctx, s)
	} else {
		accountID, err = o.createHeadquarters(ctx, s)
	}
	if err != nil {
		return nil, o.fail(ctx, s, run.ID, "Création du compte échouée", err)
	}

	if err := o.runs.CompleteRun(ctx, run.ID, accountID); err != nil {
		zap.L().Warn("workflow: run completion not recorded", zap.String("run_id", run.ID), zap.Error(err))
	}
	s.state = StateLinked

	o.notifier.Success("Compte créé", fmt.Sprintf("%s (%s)", s.Detail.Name, s.TargetSiret()))
	o.navigator.OpenRecord(accountID, "Account")
	return &Result{RunID: run.ID, AccountID: accountID}, nil
}

// createHeadquarters creates the siège account with its financial history,
// then fetches and attaches the cartography. A cartography failure is fatal
// to the invocation; the created account stands.
func (o *Orchestrator) createHeadquarters(ctx context.Context, s *Session) (string, error) {
	detail := o.scoredDetail(ctx, s.Detail)
	history := finance.Extract(detail.Finances, o.now(), o.retention)

	accountID, err := o.accounts.CreateAccount(ctx,
		headquartersFields(detail), history, profileFields(detail))
	if err != nil {
		return "", err
	}

	snap, err := o.registry.FetchCartography(ctx, detail.Siren)
	if err != nil {
		return "", eris.Wrap(err, "workflow: cartography fetch")
	}
	if err := o.accounts.AttachCartography(ctx, accountID, snap); err != nil {
		return "", err
	}
	return accountID, nil
}

// createSecondary parents the selected establishment under the headquarters
// account, creating the headquarters first when it does not exist yet. The
// secondary carries no financial history and inherits the company profile
// fields of the headquarters.
func (o *Orchestrator) createSecondary(ctx context.Context, s *Session) (string, error) {
	hqSiret := model.NormalizeSiren(s.Detail.Headquarters.Siret)

	parentID, err := o.accounts.ParentAccountBySiret(ctx, hqSiret)
	if err != nil {
		return "", err
	}

	detail := s.Detail
	if parentID == "" {
		scored := o.scoredDetail(ctx, s.Detail)
		history := finance.Extract(scored.Finances, o.now(), o.retention)

		parentID, err = o.accounts.CreateAccount(ctx,
			headquartersFields(scored), history, profileFields(scored))
		if err != nil {
			return "", err
		}
		detail = scored
	}

	return o.accounts.CreateAccount(ctx,
		secondaryFields(detail, *s.Selected, parentID), nil, profileFields(detail))
}

// UpdateAccount overwrites the financial history of the account backing the
// session's company. When the target is a secondary establishment the
// update lands on its parent; an unresolvable parent fails the run without
// touching the CRM.
func (o *Orchestrator) UpdateAccount(ctx context.Context, s *Session) (*Result, error) {
	if s.Detail == nil {
		return nil, eris.New("workflow: update requires a fetched company detail")
	}

	hqSiret := model.NormalizeSiren(s.Detail.Headquarters.Siret)
	run, err := o.runs.BeginRun(ctx, hqSiret, model.RunKindUpdate)
	if err != nil {
		o.notifier.Error("Mise à jour impossible", err.Error())
		return nil, err
	}
	s.RunToken = run.ID
	s.state = StateCreating

	accountID, err := o.resolver.ResolveParentForSecondary(ctx, hqSiret)
	if err != nil {
		return nil, o.fail(ctx, s, run.ID, "Compte introuvable", err)
	}

	detail := o.scoredDetail(ctx, s.Detail)
	history := finance.Extract(detail.Finances, o.now(), o.retention)
	if err := o.accounts.UpdateFinancialHistory(ctx, accountID, history); err != nil {
		return nil, o.fail(ctx, s, run.ID, "Mise à jour des données financières échouée", err)
	}

	if err := o.runs.CompleteRun(ctx, run.ID, accountID); err != nil {
		zap.L().Warn("workflow: run completion not recorded", zap.String("run_id", run.ID), zap.Error(err))
	}
	s.state = StateLinked

	o.notifier.Success("Données financières mises à jour", s.Detail.Name)
	o.navigator.OpenRecord(accountID, "Account")
	return &Result{RunID: run.ID, AccountID: accountID}, nil
}

// scoredDetail re-fetches the profile with financial scoring. The fetch
// degrades: on failure the already-held detail is used as is.
func (o *Orchestrator) scoredDetail(ctx context.Context, detail *model.CompanyDetail) *model.CompanyDetail {
	if detail.Scoring != nil {
		return detail
	}
	scored, err := o.registry.FetchDetail(ctx, detail.Headquarters.Siret, true)
	if err != nil || scored == nil {
		zap.L().Warn("workflow: scoring fetch degraded",
			zap.String("siret", detail.Headquarters.Siret),
			zap.Error(err),
		)
		return detail
	}
	return scored
}

// fail records the run failure and emits the single error notification.
func (o *Orchestrator) fail(ctx context.Context, s *Session, runID, title string, cause error) error {
	if err := o.runs.FailRun(ctx, runID, cause); err != nil {
		zap.L().Warn("workflow: run failure not recorded", zap.String("run_id", runID), zap.Error(err))
	}
	s.state = StateFailed
	o.notifier.Error(title, cause.Error())
	return cause
}

// headquartersFields maps a company profile to the siège account record.
func headquartersFields(detail *model.CompanyDetail) crm.AccountFields {
	hq := detail.Headquarters
	return crm.AccountFields{
		Name:           detail.Name,
		Siret:          model.NormalizeSiren(hq.Siret),
		Siren:          model.NormalizeSiren(detail.Siren),
		IsHeadquarters: true,
		AddressLine1:   hq.AddressLine1,
		City:           hq.City,
		PostalCode:     hq.PostalCode,
		Country:        hq.Country,
		ActivityLabel:  firstNonEmpty(hq.ActivityLabel, detail.NAFLabel),
	}
}

// secondaryFields maps an establishment to its account record, parented
// under the headquarters account.
func secondaryFields(detail *model.CompanyDetail, est model.Establishment, parentID string) crm.AccountFields {
	name := detail.Name
	if est.City != "" {
		name = fmt.Sprintf("%s - %s", detail.Name, est.City)
	}
	return crm.AccountFields{
		Name:            name,
		Siret:           model.NormalizeSiren(est.Siret),
		Siren:           model.NormalizeSiren(detail.Siren),
		IsHeadquarters:  false,
		ParentAccountID: parentID,
		AddressLine1:    est.AddressLine1,
		City:            est.City,
		PostalCode:      est.PostalCode,
		Country:         est.Country,
		ActivityLabel:   firstNonEmpty(est.ActivityLabel, detail.NAFLabel),
	}
}

// profileFields maps the company-level registry profile to the
// supplementary account fields. Secondary establishments get the same
// values as their headquarters.
func profileFields(detail *model.CompanyDetail) crm.AdditionalFields {
	extra := crm.AdditionalFields{
		LegalForm:       detail.LegalForm,
		NAFCode:         detail.NAFCode,
		VATNumber:       detail.VATNumber,
		RCSNumber:       detail.RCSNumber,
		CreationDate:    detail.CreationDate,
		EmployeeBracket: detail.EmployeeBracket,
		Capital:         detail.Capital,
	}
	if detail.Scoring != nil {
		extra.ScoringNote = detail.Scoring.Note
		score := detail.Scoring.Score
		extra.ScoringScore = &score
	}
	return extra
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
