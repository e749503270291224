// Package finance derives the financial history window persisted with an
// account from the raw yearly data returned by the registry.
package finance

import (
	"sort"
	"time"

	"github.com/sells-group/pappers-sync/internal/model"
)

// DefaultRetentionYears is how far back the history window reaches from the
// current year, inclusive.
const DefaultRetentionYears = 5

// Extract returns the financial years falling inside the retention window
// [now.Year()-retention, now.Year()], newest first. Years outside the window
// are dropped, including future-dated entries. Zero-valued metrics are
// normalized to nil: the registry reports both "absent" and "zero" and the
// CRM must not show a hard 0 where no filing exists.
func Extract(finances []model.FinancialYear, now time.Time, retention int) []model.FinancialYear {
	if retention < 0 {
		retention = DefaultRetentionYears
	}
	year := now.Year()
	floor := year - retention

	out := make([]model.FinancialYear, 0, len(finances))
	for _, fy := range finances {
		if fy.Year < floor || fy.Year > year {
			continue
		}
		out = append(out, normalize(fy))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out
}

// nullifyZero collapses absent and zero metrics into nil.
func nullifyZero(p *float64) *float64 {
	if p == nil || *p == 0 {
		return nil
	}
	return p
}

func normalize(fy model.FinancialYear) model.FinancialYear {
	return model.FinancialYear{
		Year:                  fy.Year,
		Revenue:               nullifyZero(fy.Revenue),
		GrossMargin:           nullifyZero(fy.GrossMargin),
		EBITDA:                nullifyZero(fy.EBITDA),
		OperatingResult:       nullifyZero(fy.OperatingResult),
		NetResult:             nullifyZero(fy.NetResult),
		RevenueGrowthRate:     nullifyZero(fy.RevenueGrowthRate),
		GrossMarginRate:       nullifyZero(fy.GrossMarginRate),
		EBITDAMarginRate:      nullifyZero(fy.EBITDAMarginRate),
		OperatingMarginRate:   nullifyZero(fy.OperatingMarginRate),
		WorkingCapital:        nullifyZero(fy.WorkingCapital),
		OperatingWC:           nullifyZero(fy.OperatingWC),
		NonOperatingWC:        nullifyZero(fy.NonOperatingWC),
		WorkingCapitalDays:    nullifyZero(fy.WorkingCapitalDays),
		SelfFinancingCapacity: nullifyZero(fy.SelfFinancingCapacity),
		NetGlobalWC:           nullifyZero(fy.NetGlobalWC),
		Cash:                  nullifyZero(fy.Cash),
		FinancialDebt:         nullifyZero(fy.FinancialDebt),
		RepaymentCapacity:     nullifyZero(fy.RepaymentCapacity),
		DebtRatio:             nullifyZero(fy.DebtRatio),
		FinancialAutonomy:     nullifyZero(fy.FinancialAutonomy),
		ShortTermDebt:         nullifyZero(fy.ShortTermDebt),
		GeneralLiquidity:      nullifyZero(fy.GeneralLiquidity),
		DebtCoverage:          nullifyZero(fy.DebtCoverage),
		Equity:                nullifyZero(fy.Equity),
		NetMarginRate:         nullifyZero(fy.NetMarginRate),
		ReturnOnEquity:        nullifyZero(fy.ReturnOnEquity),
		EconomicProfitability: nullifyZero(fy.EconomicProfitability),
		ValueAdded:            nullifyZero(fy.ValueAdded),
		PayrollCharges:        nullifyZero(fy.PayrollCharges),
		PayrollToRevenue:      nullifyZero(fy.PayrollToRevenue),
		Taxes:                 nullifyZero(fy.Taxes),
	}
}
