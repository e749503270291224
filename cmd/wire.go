package main

import (
	"context"
	"net/http"
	"os"
	"time"

	gosf "github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"

	"github.com/sells-group/pappers-sync/internal/crm"
	"github.com/sells-group/pappers-sync/internal/resolve"
	"github.com/sells-group/pappers-sync/internal/store"
	"github.com/sells-group/pappers-sync/internal/workflow"
	"github.com/sells-group/pappers-sync/pkg/pappers"
	sfpkg "github.com/sells-group/pappers-sync/pkg/salesforce"
)

// env bundles the wired dependencies of a workflow invocation.
type env struct {
	registry pappers.Client
	accounts crm.AccountDataStore
	resolver *resolve.Resolver
	runs     store.RunStore
}

func (e *env) Close() {
	if e.runs != nil {
		e.runs.Close() //nolint:errcheck
	}
}

func (e *env) orchestrator() *workflow.Orchestrator {
	return workflow.New(workflow.Config{
		Registry:       e.registry,
		Accounts:       e.accounts,
		Resolver:       e.resolver,
		Runs:           e.runs,
		RetentionYears: cfg.Finance.RetentionYears,
	})
}

// initEnv wires the registry client, the Salesforce account store, and the
// run store for commands that touch the CRM.
func initEnv(ctx context.Context) (*env, error) {
	if err := cfg.Validate("sync"); err != nil {
		return nil, err
	}

	sf, err := initSalesforce()
	if err != nil {
		return nil, err
	}
	accounts := crm.NewSalesforceStore(sf)

	runs, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	return &env{
		registry: initRegistry(),
		accounts: accounts,
		resolver: resolve.New(accounts),
		runs:     runs,
	}, nil
}

// initRegistryOnly wires just the registry client, for commands that never
// touch the CRM.
func initRegistryOnly() (pappers.Client, error) {
	if err := cfg.Validate("registry"); err != nil {
		return nil, err
	}
	return initRegistry(), nil
}

func initRegistry() pappers.Client {
	opts := []pappers.Option{
		pappers.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Pappers.TimeoutSecs) * time.Second}),
		pappers.WithRateLimit(cfg.Pappers.RateLimit),
	}
	if cfg.Pappers.BaseURL != "" {
		opts = append(opts, pappers.WithBaseURL(cfg.Pappers.BaseURL))
	}
	if cfg.Pappers.SuggestionsURL != "" {
		opts = append(opts, pappers.WithSuggestionsURL(cfg.Pappers.SuggestionsURL))
	}
	if cfg.Pappers.SuggestionLen > 0 {
		opts = append(opts, pappers.WithSuggestionLen(cfg.Pappers.SuggestionLen))
	}
	return pappers.NewClient(cfg.Pappers.APIToken, opts...)
}

func initSalesforce() (sfpkg.Client, error) {
	pemData, err := os.ReadFile(cfg.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	sf, err := gosf.Init(gosf.Creds{
		Domain:         cfg.Salesforce.LoginURL,
		Username:       cfg.Salesforce.Username,
		ConsumerKey:    cfg.Salesforce.ClientID,
		ConsumerRSAPem: string(pemData),
	})
	if err != nil {
		return nil, eris.Wrap(err, "init salesforce")
	}

	return sfpkg.NewClient(sf, sfpkg.WithRateLimit(cfg.Salesforce.RateLimit)), nil
}

func initStore(ctx context.Context) (store.RunStore, error) {
	var (
		st  store.RunStore
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "pappers-sync.db"
		}
		st, err = store.NewSQLite(dsn)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}
