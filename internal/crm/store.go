// Package crm defines the account data store contract the upsert workflow
// persists through, plus its Salesforce implementation.
package crm

import (
	"context"

	"github.com/sells-group/pappers-sync/internal/model"
)

// Existing reports whether an account already covers a company.
type Existing struct {
	Exists      bool   `json:"exists"`
	AccountID   string `json:"account_id,omitempty"`
	AccountName string `json:"account_name,omitempty"`
}

// AccountFields carries the identity and address of the account to create.
type AccountFields struct {
	Name            string
	Siret           string
	Siren           string
	IsHeadquarters  bool
	ParentAccountID string
	AddressLine1    string
	City            string
	PostalCode      string
	Country         string
	ActivityLabel   string
}

// AdditionalFields carries the registry profile fields stored alongside the
// account. Secondary establishments inherit these from the parent company.
type AdditionalFields struct {
	LegalForm       string
	NAFCode         string
	VATNumber       string
	RCSNumber       string
	CreationDate    string
	EmployeeBracket string
	Capital         *float64
	ScoringNote     string
	ScoringScore    *float64
}

// AccountDataStore is the persistence contract for the upsert workflow.
type AccountDataStore interface {
	// ExistingAccount looks up an account by exact name or SIREN.
	ExistingAccount(ctx context.Context, name, siren string) (Existing, error)

	// AccountsExistBySiret reports, for each SIRET in the set, whether an
	// account already carries it.
	AccountsExistBySiret(ctx context.Context, sirets []string) (map[string]bool, error)

	// ParentAccountBySiret returns the account ID carrying the SIRET, or ""
	// when none exists.
	ParentAccountBySiret(ctx context.Context, siret string) (string, error)

	// CreateAccount inserts an account and its financial history. When the
	// account insert succeeds but the history insert fails, the returned ID
	// is valid and the error is a PersistenceError: nothing is rolled back.
	CreateAccount(ctx context.Context, acc AccountFields, history []model.FinancialYear, extra AdditionalFields) (string, error)

	// UpdateFinancialHistory replaces the stored history of an account.
	UpdateFinancialHistory(ctx context.Context, accountID string, history []model.FinancialYear) error

	// AttachCartography persists a relationship graph snapshot under an
	// account. Edges referencing unknown nodes are dropped.
	AttachCartography(ctx context.Context, accountID string, snap *model.CartographySnapshot) error
}
