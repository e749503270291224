// Package model defines the typed domain entities shared across the
// registry client, the resolver, and the account-upsert workflow.
package model

import (
	"strings"
)

// CompanyCandidate is one result of a registry suggestion search.
type CompanyCandidate struct {
	Name          string `json:"name"`
	Siren         string `json:"siren"`
	Siret         string `json:"siret"`
	PostalCode    string `json:"postal_code"`
	ActivityLabel string `json:"activity_label"`
	ExistsInCRM   bool   `json:"exists_in_crm"`
}

// DedupeKey identifies a candidate for deduplication: SIREN when present,
// otherwise the headquarters SIRET.
func (c CompanyCandidate) DedupeKey() string {
	if c.Siren != "" {
		return c.Siren
	}
	return c.Siret
}

// Label renders the candidate the way operators see it in suggestion lists.
func (c CompanyCandidate) Label() string {
	var b strings.Builder
	b.WriteString(c.Name)
	if c.PostalCode != "" {
		b.WriteString(" (" + c.PostalCode + ")")
	}
	if c.ActivityLabel != "" {
		b.WriteString(" " + c.ActivityLabel)
	}
	return b.String()
}

// Establishment is a single SIRET-identified establishment of a company.
type Establishment struct {
	Siret           string  `json:"siret"`
	FormattedSiret  string  `json:"formatted_siret"`
	IsHeadquarters  bool    `json:"is_headquarters"`
	AddressLine1    string  `json:"address_line_1"`
	City            string  `json:"city"`
	PostalCode      string  `json:"postal_code"`
	Country         string  `json:"country"`
	ActivityLabel   string  `json:"activity_label"`
	EmployeeBracket string  `json:"employee_bracket"`
	CreationDate    string  `json:"creation_date"`
	Latitude        float64 `json:"latitude,omitempty"`
	Longitude       float64 `json:"longitude,omitempty"`
	Closed          bool    `json:"closed"`
	ExistsInCRM     bool    `json:"exists_in_crm"`
}

// Address renders the establishment address as a single line.
func (e Establishment) Address() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{e.AddressLine1, e.City, e.PostalCode, e.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// FinancialScoring holds the supplementary financial-scoring fields
// returned when the detail fetch requests them.
type FinancialScoring struct {
	Note  string  `json:"note"`
	Score float64 `json:"score"`
}

// CompanyDetail is the full profile of one legal entity, fetched fresh per
// user selection. It is never cached across workflow invocations.
type CompanyDetail struct {
	Name                 string   `json:"name"`
	Siren                string   `json:"siren"`
	FormattedSiren       string   `json:"formatted_siren"`
	LegalForm            string   `json:"legal_form"`
	NAFCode              string   `json:"naf_code"`
	NAFLabel             string   `json:"naf_label"`
	Capital              *float64 `json:"capital"`
	CreationDate         string   `json:"creation_date"`
	EmployeeBracket      string   `json:"employee_bracket"`
	MaxEmployees         *int     `json:"max_employees"`
	VATNumber            string   `json:"vat_number"`
	RCSNumber            string   `json:"rcs_number"`
	RCSRegistrationDate  string   `json:"rcs_registration_date"`
	RNERegistrationDate  string   `json:"rne_registration_date"`
	CorporatePurpose     string   `json:"corporate_purpose"`
	ExerciseForm         string   `json:"exercise_form"`
	CollectiveAgreements []string `json:"collective_agreements"`
	NextClosingDate      string   `json:"next_closing_date"`
	LastRCSUpdate        string   `json:"last_rcs_update"`
	LastSireneUpdate     string   `json:"last_sirene_update"`

	Headquarters   Establishment     `json:"headquarters"`
	Establishments []Establishment   `json:"establishments"`
	Finances       []FinancialYear   `json:"finances"`
	Scoring        *FinancialScoring `json:"scoring,omitempty"`
}

// OpenEstablishments returns the establishments that are not closed.
func (d *CompanyDetail) OpenEstablishments() []Establishment {
	out := make([]Establishment, 0, len(d.Establishments))
	for _, e := range d.Establishments {
		if !e.Closed {
			out = append(out, e)
		}
	}
	return out
}

// NormalizeSiren strips whitespace from a SIREN/SIRET identifier. Formatted
// identifiers from the registry carry grouping spaces ("123 456 789").
func NormalizeSiren(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// SirenFromSiret derives the 9-digit SIREN from a 14-digit SIRET.
// Returns the input unchanged when it is too short to split.
func SirenFromSiret(siret string) string {
	siret = NormalizeSiren(siret)
	if len(siret) < 9 {
		return siret
	}
	return siret[:9]
}

// ValidSiren reports whether s is a 9-digit identifier.
func ValidSiren(s string) bool {
	return allDigits(NormalizeSiren(s), 9)
}

// ValidSiret reports whether s is a 14-digit identifier.
func ValidSiret(s string) bool {
	return allDigits(NormalizeSiren(s), 14)
}

func allDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
