// Package export writes a company's financial history to an XLSX workbook,
// one column per fiscal year, for operators working outside the CRM.
package export

import (
	"sort"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/pappers-sync/internal/model"
)

// metric is one exported row: a label and the accessor picking the value
// out of a fiscal year.
type metric struct {
	label string
	value func(model.FinancialYear) *float64
}

// metrics lists the exported rows in workbook order, matching the canonical
// financial field set.
var metrics = []metric{
	{"Chiffre d'affaires", func(y model.FinancialYear) *float64 { return y.Revenue }},
	{"Marge brute", func(y model.FinancialYear) *float64 { return y.GrossMargin }},
	{"EBITDA", func(y model.FinancialYear) *float64 { return y.EBITDA }},
	{"Résultat d'exploitation", func(y model.FinancialYear) *float64 { return y.OperatingResult }},
	{"Résultat net", func(y model.FinancialYear) *float64 { return y.NetResult }},
	{"Taux de croissance du CA (%)", func(y model.FinancialYear) *float64 { return y.RevenueGrowthRate }},
	{"Taux de marge brute (%)", func(y model.FinancialYear) *float64 { return y.GrossMarginRate }},
	{"Taux de marge d'EBITDA (%)", func(y model.FinancialYear) *float64 { return y.EBITDAMarginRate }},
	{"Taux de marge opérationnelle (%)", func(y model.FinancialYear) *float64 { return y.OperatingMarginRate }},
	{"BFR", func(y model.FinancialYear) *float64 { return y.WorkingCapital }},
	{"BFR exploitation", func(y model.FinancialYear) *float64 { return y.OperatingWC }},
	{"BFR hors exploitation", func(y model.FinancialYear) *float64 { return y.NonOperatingWC }},
	{"BFR en jours de CA", func(y model.FinancialYear) *float64 { return y.WorkingCapitalDays }},
	{"Capacité d'autofinancement", func(y model.FinancialYear) *float64 { return y.SelfFinancingCapacity }},
	{"Fonds de roulement net global", func(y model.FinancialYear) *float64 { return y.NetGlobalWC }},
	{"Trésorerie", func(y model.FinancialYear) *float64 { return y.Cash }},
	{"Dettes financières", func(y model.FinancialYear) *float64 { return y.FinancialDebt }},
	{"Capacité de remboursement", func(y model.FinancialYear) *float64 { return y.RepaymentCapacity }},
	{"Ratio d'endettement", func(y model.FinancialYear) *float64 { return y.DebtRatio }},
	{"Autonomie financière (%)", func(y model.FinancialYear) *float64 { return y.FinancialAutonomy }},
	{"Dettes à 1 an au plus", func(y model.FinancialYear) *float64 { return y.ShortTermDebt }},
	{"Liquidité générale", func(y model.FinancialYear) *float64 { return y.GeneralLiquidity }},
	{"Couverture des dettes", func(y model.FinancialYear) *float64 { return y.DebtCoverage }},
	{"Fonds propres", func(y model.FinancialYear) *float64 { return y.Equity }},
	{"Marge nette (%)", func(y model.FinancialYear) *float64 { return y.NetMarginRate }},
	{"Rentabilité des fonds propres (%)", func(y model.FinancialYear) *float64 { return y.ReturnOnEquity }},
	{"Rentabilité économique (%)", func(y model.FinancialYear) *float64 { return y.EconomicProfitability }},
	{"Valeur ajoutée", func(y model.FinancialYear) *float64 { return y.ValueAdded }},
	{"Salaires et charges sociales", func(y model.FinancialYear) *float64 { return y.PayrollCharges }},
	{"Salaires / CA (%)", func(y model.FinancialYear) *float64 { return y.PayrollToRevenue }},
	{"Impôts et taxes", func(y model.FinancialYear) *float64 { return y.Taxes }},
}

// WriteHistory writes the financial history of a company to path. Years are
// laid out as columns, newest first; metrics the registry did not report
// stay as empty cells.
func WriteHistory(path string, detail *model.CompanyDetail, history []model.FinancialYear) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Données financières")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	years := make([]model.FinancialYear, len(history))
	copy(years, history)
	sort.Slice(years, func(i, j int) bool { return years[i].Year > years[j].Year })

	title := sheet.AddRow()
	title.AddCell().SetString(detail.Name)
	siren := sheet.AddRow()
	siren.AddCell().SetString("SIREN")
	siren.AddCell().SetString(detail.Siren)

	header := sheet.AddRow()
	header.AddCell().SetString("Exercice")
	for _, y := range years {
		header.AddCell().SetInt(y.Year)
	}

	for _, m := range metrics {
		row := sheet.AddRow()
		row.AddCell().SetString(m.label)
		for _, y := range years {
			cell := row.AddCell()
			if v := m.value(y); v != nil {
				cell.SetFloat(*v)
			}
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}
