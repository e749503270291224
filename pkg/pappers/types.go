package pappers

import (
	"github.com/sells-group/pappers-sync/internal/model"
)

// Raw payload shapes as returned by the registry. Parsing into the typed
// domain model happens here, in one place, so missing required fields fail
// fast instead of propagating empty values through the workflow.

type rawSuggestions struct {
	ByName  []rawCompany `json:"resultats_nom_entreprise"`
	BySiren []rawCompany `json:"resultats_siren"`
	BySiret []rawCompany `json:"resultats_siret"`
}

type rawCompany struct {
	Name                 string             `json:"nom_entreprise"`
	Siren                string             `json:"siren"`
	FormattedSiren       string             `json:"siren_formate"`
	LegalForm            string             `json:"forme_juridique"`
	NAFCode              string             `json:"code_naf"`
	NAFLabel             string             `json:"libelle_code_naf"`
	Capital              *float64           `json:"capital"`
	CreationDate         string             `json:"date_creation"`
	EmployeeBracket      string             `json:"effectif"`
	MaxEmployees         *int               `json:"effectif_max"`
	VATNumber            string             `json:"numero_tva_intracommunautaire"`
	RCSNumber            string             `json:"numero_rcs"`
	RCSRegistrationDate  string             `json:"date_immatriculation_rcs"`
	RNERegistrationDate  string             `json:"date_immatriculation_rne"`
	CorporatePurpose     string             `json:"objet_social"`
	ExerciseForm         string             `json:"forme_exercice"`
	CollectiveAgreements []rawAgreement     `json:"conventions_collectives"`
	NextClosingDate      string             `json:"prochaine_date_cloture_exercice"`
	LastRCSUpdate        string             `json:"derniere_mise_a_jour_rcs"`
	LastSireneUpdate     string             `json:"derniere_mise_a_jour_sirene"`
	Headquarters         *rawEstablishment  `json:"siege"`
	Establishments       []rawEstablishment `json:"etablissements"`
	Finances             []rawFinancialYear `json:"finances"`
	Scoring              *rawScoring        `json:"scoring_financier"`
}

type rawAgreement struct {
	Name string `json:"nom"`
	IDCC int    `json:"idcc"`
}

type rawEstablishment struct {
	Siret           string  `json:"siret"`
	FormattedSiret  string  `json:"siret_formate"`
	IsHeadquarters  bool    `json:"siege"`
	AddressLine1    string  `json:"adresse_ligne_1"`
	City            string  `json:"ville"`
	PostalCode      string  `json:"code_postal"`
	Country         string  `json:"pays"`
	NAFLabel        string  `json:"libelle_code_naf"`
	EmployeeBracket string  `json:"effectif"`
	CreationDate    string  `json:"date_de_creation"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	Closed          bool    `json:"etablissement_cesse"`
}

type rawFinancialYear struct {
	Year                  int      `json:"annee"`
	Revenue               *float64 `json:"chiffre_affaires"`
	GrossMargin           *float64 `json:"marge_brute"`
	EBITDAMarginRate      *float64 `json:"taux_marge_EBITDA"`
	OperatingResult       *float64 `json:"resultat_exploitation"`
	NetResult             *float64 `json:"resultat"`
	RevenueGrowthRate     *float64 `json:"taux_croissance_chiffre_affaires"`
	GrossMarginRate       *float64 `json:"taux_marge_brute"`
	OperatingMarginRate   *float64 `json:"taux_marge_operationnelle"`
	WorkingCapital        *float64 `json:"BFR"`
	OperatingWC           *float64 `json:"BFR_exploitation"`
	NonOperatingWC        *float64 `json:"BFR_hors_exploitation"`
	WorkingCapitalDays    *float64 `json:"BFR_jours_CA"`
	SelfFinancingCapacity *float64 `json:"capacite_autofinancement"`
	NetGlobalWC           *float64 `json:"fonds_roulement_net_global"`
	Cash                  *float64 `json:"tresorerie"`
	FinancialDebt         *float64 `json:"dettes_financieres"`
	RepaymentCapacity     *float64 `json:"capacite_remboursement"`
	DebtRatio             *float64 `json:"ratio_endettement"`
	FinancialAutonomy     *float64 `json:"autonomie_financiere"`
	ShortTermDebt         *float64 `json:"etat_dettes_1_an_au_plus"`
	GeneralLiquidity      *float64 `json:"liquidite_generale"`
	DebtCoverage          *float64 `json:"couverture_dettes"`
	Equity                *float64 `json:"fonds_propres"`
	NetMarginRate         *float64 `json:"marge_nette"`
	ReturnOnEquity        *float64 `json:"rentabilite_fonds_propres"`
	EconomicProfitability *float64 `json:"rentabilite_economique"`
	ValueAdded            *float64 `json:"valeur_ajoutee"`
	PayrollCharges        *float64 `json:"salaires_charges_sociales"`
	PayrollToRevenue      *float64 `json:"salaires_CA"`
	Taxes                 *float64 `json:"impots_taxes"`
}

type rawScoring struct {
	Note  string  `json:"note"`
	Score float64 `json:"score"`
}

type rawCartography struct {
	CentralNode rawCartoNode `json:"centralNode"`
	Companies   []rawCartoNode `json:"entreprises"`
	Links       [][2]string  `json:"liens_entreprises_entreprises"`
}

type rawCartoNode struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Siren string `json:"siren"`
}

// toCandidate maps a suggestion result to a candidate. The headquarters
// block may be absent for foreign or unregistered entities.
func (rc rawCompany) toCandidate() model.CompanyCandidate {
	cand := model.CompanyCandidate{
		Name:          rc.Name,
		Siren:         rc.Siren,
		ActivityLabel: rc.NAFLabel,
	}
	if rc.Headquarters != nil {
		cand.Siret = rc.Headquarters.Siret
		cand.PostalCode = rc.Headquarters.PostalCode
	}
	return cand
}

func (re rawEstablishment) toModel() model.Establishment {
	return model.Establishment{
		Siret:           re.Siret,
		FormattedSiret:  re.FormattedSiret,
		IsHeadquarters:  re.IsHeadquarters,
		AddressLine1:    re.AddressLine1,
		City:            re.City,
		PostalCode:      re.PostalCode,
		Country:         re.Country,
		ActivityLabel:   re.NAFLabel,
		EmployeeBracket: re.EmployeeBracket,
		CreationDate:    re.CreationDate,
		Latitude:        re.Latitude,
		Longitude:       re.Longitude,
		Closed:          re.Closed,
	}
}

func (rf rawFinancialYear) toModel() model.FinancialYear {
	return model.FinancialYear{
		Year:                  rf.Year,
		Revenue:               rf.Revenue,
		GrossMargin:           rf.GrossMargin,
		EBITDA:                rf.EBITDAMarginRate,
		OperatingResult:       rf.OperatingResult,
		NetResult:             rf.NetResult,
		RevenueGrowthRate:     rf.RevenueGrowthRate,
		GrossMarginRate:       rf.GrossMarginRate,
		EBITDAMarginRate:      rf.EBITDAMarginRate,
		OperatingMarginRate:   rf.OperatingMarginRate,
		WorkingCapital:        rf.WorkingCapital,
		OperatingWC:           rf.OperatingWC,
		NonOperatingWC:        rf.NonOperatingWC,
		WorkingCapitalDays:    rf.WorkingCapitalDays,
		SelfFinancingCapacity: rf.SelfFinancingCapacity,
		NetGlobalWC:           rf.NetGlobalWC,
		Cash:                  rf.Cash,
		FinancialDebt:         rf.FinancialDebt,
		RepaymentCapacity:     rf.RepaymentCapacity,
		DebtRatio:             rf.DebtRatio,
		FinancialAutonomy:     rf.FinancialAutonomy,
		ShortTermDebt:         rf.ShortTermDebt,
		GeneralLiquidity:      rf.GeneralLiquidity,
		DebtCoverage:          rf.DebtCoverage,
		Equity:                rf.Equity,
		NetMarginRate:         rf.NetMarginRate,
		ReturnOnEquity:        rf.ReturnOnEquity,
		EconomicProfitability: rf.EconomicProfitability,
		ValueAdded:            rf.ValueAdded,
		PayrollCharges:        rf.PayrollCharges,
		PayrollToRevenue:      rf.PayrollToRevenue,
		Taxes:                 rf.Taxes,
	}
}

// toDetail validates and converts a full profile payload. Name, SIREN and
// the headquarters block are required; anything else may be absent.
func (rc rawCompany) toDetail() (*model.CompanyDetail, error) {
	if rc.Name == "" {
		return nil, &model.DataIncompleteError{Entity: "company", Field: "nom_entreprise"}
	}
	if rc.Siren == "" {
		return nil, &model.DataIncompleteError{Entity: "company", Field: "siren"}
	}
	if rc.Headquarters == nil || rc.Headquarters.Siret == "" {
		return nil, &model.DataIncompleteError{Entity: "company", Field: "siege.siret"}
	}

	d := &model.CompanyDetail{
		Name:                rc.Name,
		Siren:               rc.Siren,
		FormattedSiren:      rc.FormattedSiren,
		LegalForm:           rc.LegalForm,
		NAFCode:             rc.NAFCode,
		NAFLabel:            rc.NAFLabel,
		Capital:             rc.Capital,
		CreationDate:        rc.CreationDate,
		EmployeeBracket:     rc.EmployeeBracket,
		MaxEmployees:        rc.MaxEmployees,
		VATNumber:           rc.VATNumber,
		RCSNumber:           rc.RCSNumber,
		RCSRegistrationDate: rc.RCSRegistrationDate,
		RNERegistrationDate: rc.RNERegistrationDate,
		CorporatePurpose:    rc.CorporatePurpose,
		ExerciseForm:        rc.ExerciseForm,
		NextClosingDate:     rc.NextClosingDate,
		LastRCSUpdate:       rc.LastRCSUpdate,
		LastSireneUpdate:    rc.LastSireneUpdate,
		Headquarters:        rc.Headquarters.toModel(),
	}
	if rc.FormattedSiren == "" {
		d.FormattedSiren = rc.Siren
	}

	for _, agr := range rc.CollectiveAgreements {
		if agr.Name != "" {
			d.CollectiveAgreements = append(d.CollectiveAgreements, agr.Name)
		}
	}

	for _, re := range rc.Establishments {
		d.Establishments = append(d.Establishments, re.toModel())
	}

	for _, rf := range rc.Finances {
		d.Finances = append(d.Finances, rf.toModel())
	}

	if rc.Scoring != nil {
		d.Scoring = &model.FinancialScoring{Note: rc.Scoring.Note, Score: rc.Scoring.Score}
	}

	return d, nil
}

func (rc rawCartography) toSnapshot() *model.CartographySnapshot {
	s := &model.CartographySnapshot{
		CentralNode: model.CartographyEntity(rc.CentralNode),
	}
	for _, n := range rc.Companies {
		s.Nodes = append(s.Nodes, model.CartographyEntity(n))
	}
	for _, l := range rc.Links {
		s.Edges = append(s.Edges, model.CartographyEdge{SourceID: l[0], TargetID: l[1]})
	}
	return s
}
