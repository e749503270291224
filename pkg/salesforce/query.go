package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Account represents a Salesforce Account record in the registry sync.
type Account struct {
	ID                string `json:"Id" salesforce:"Id"`
	Name              string `json:"Name" salesforce:"Name"`
	ParentID          string `json:"ParentId" salesforce:"ParentId"`
	Siret             string `json:"SIRET__c" salesforce:"SIRET__c"`
	Siren             string `json:"SIREN__c" salesforce:"SIREN__c"`
	BillingStreet     string `json:"BillingStreet" salesforce:"BillingStreet"`
	BillingCity       string `json:"BillingCity" salesforce:"BillingCity"`
	BillingPostalCode string `json:"BillingPostalCode" salesforce:"BillingPostalCode"`
	BillingCountry    string `json:"BillingCountry" salesforce:"BillingCountry"`
	Industry          string `json:"Industry" salesforce:"Industry"`
}

// accountFields are the SOQL fields selected for Account queries.
var accountFields = []string{
	"Id", "Name", "ParentId", "SIRET__c", "SIREN__c",
	"BillingStreet", "BillingCity", "BillingPostalCode", "BillingCountry",
	"Industry",
}

// FindAccountBySiret queries Salesforce for the Account carrying the given SIRET.
// Returns nil if no account is found.
func FindAccountBySiret(ctx context.Context, c Client, siret string) (*Account, error) {
	soql := fmt.Sprintf(
		"SELECT %s FROM Account WHERE SIRET__c = '%s' LIMIT 1",
		strings.Join(accountFields, ", "),
		escapeSoql(siret),
	)

	var accounts []Account
	if err := c.Query(ctx, soql, &accounts); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("sf: find account by siret %s", siret))
	}
	if len(accounts) == 0 {
		return nil, nil
	}
	return &accounts[0], nil
}

// FindAccountsBySiret queries Salesforce for all Accounts whose SIRET is in the
// given set. Callers chunk the set; one call issues one SOQL query.
func FindAccountsBySiret(ctx context.Context, c Client, sirets []string) ([]Account, error) {
	if len(sirets) == 0 {
		return nil, nil
	}

	quoted := make([]string, len(sirets))
	for i, s := range sirets {
		quoted[i] = "'" + escapeSoql(s) + "'"
	}
	soql := fmt.Sprintf(
		"SELECT %s FROM Account WHERE SIRET__c IN (%s)",
		strings.Join(accountFields, ", "),
		strings.Join(quoted, ", "),
	)

	var accounts []Account
	if err := c.Query(ctx, soql, &accounts); err != nil {
		return nil, eris.Wrap(err, "sf: find accounts by siret")
	}
	return accounts, nil
}

// FindAccountByNameOrSiren queries Salesforce for an Account matching either
// the exact name or the SIREN. SIREN matches take precedence over name matches.
// Returns nil if no account is found.
func FindAccountByNameOrSiren(ctx context.Context, c Client, name, siren string) (*Account, error) {
	soql := fmt.Sprintf(
		"SELECT %s FROM Account WHERE SIREN__c = '%s' OR Name = '%s' ORDER BY SIREN__c DESC NULLS LAST LIMIT 1",
		strings.Join(accountFields, ", "),
		escapeSoql(siren),
		escapeSoql(name),
	)

	var accounts []Account
	if err := c.Query(ctx, soql, &accounts); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("sf: find account %q / %s", name, siren))
	}
	if len(accounts) == 0 {
		return nil, nil
	}
	return &accounts[0], nil
}

// FinancialStatementIDs returns the IDs of the FinancialStatement__c records
// attached to an account, used to overwrite history on update.
func FinancialStatementIDs(ctx context.Context, c Client, accountID string) ([]string, error) {
	soql := fmt.Sprintf(
		"SELECT Id FROM FinancialStatement__c WHERE Account__c = '%s'",
		escapeSoql(accountID),
	)

	var rows []struct {
		ID string `json:"Id" salesforce:"Id"`
	}
	if err := c.Query(ctx, soql, &rows); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("sf: financial statements for %s", accountID))
	}

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids, nil
}

// escapeSoql escapes single quotes in SOQL string literals to prevent injection.
func escapeSoql(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
