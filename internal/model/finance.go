package model

// FinancialYear holds one fiscal year's metrics in the canonical field set
// persisted to the CRM. Every metric is a pointer: a nil value means the
// registry reported no data for it, which downstream persistence must keep
// distinct from an actual zero.
type FinancialYear struct {
	Year int `json:"annee"`

	Revenue               *float64 `json:"chiffre_affaires"`
	GrossMargin           *float64 `json:"marge_brute"`
	EBITDA                *float64 `json:"ebitda"`
	OperatingResult       *float64 `json:"resultat_exploitation"`
	NetResult             *float64 `json:"resultat_net"`
	RevenueGrowthRate     *float64 `json:"taux_croissance_ca"`
	GrossMarginRate       *float64 `json:"taux_marge_brute"`
	EBITDAMarginRate      *float64 `json:"taux_marge_ebitda"`
	OperatingMarginRate   *float64 `json:"taux_marge_operationnelle"`
	WorkingCapital        *float64 `json:"bfr"`
	OperatingWC           *float64 `json:"bfr_exploitation"`
	NonOperatingWC        *float64 `json:"bfr_hors_exploitation"`
	WorkingCapitalDays    *float64 `json:"bfr_jours_ca"`
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
	PayrollToRevenue      *float64 `json:"salaires_ca"`
	Taxes                 *float64 `json:"impots_taxes"`
}
