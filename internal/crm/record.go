package crm

import (
	"github.com/sells-group/pappers-sync/internal/model"
)

// accountRecord builds the Account insert payload. Empty optional fields are
// omitted so the org's defaults apply.
func accountRecord(acc AccountFields, extra AdditionalFields) map[string]any {
	record := map[string]any{
		"Name":              acc.Name,
		"SIRET__c":          acc.Siret,
		"SIREN__c":          acc.Siren,
		"IsHeadquarters__c": acc.IsHeadquarters,
	}
	if acc.ParentAccountID != "" {
		record["ParentId"] = acc.ParentAccountID
	}

	putString(record, "BillingStreet", acc.AddressLine1)
	putString(record, "BillingCity", acc.City)
	putString(record, "BillingPostalCode", acc.PostalCode)
	putString(record, "BillingCountry", acc.Country)
	putString(record, "Industry", acc.ActivityLabel)

	putString(record, "LegalForm__c", extra.LegalForm)
	putString(record, "NAFCode__c", extra.NAFCode)
	putString(record, "VATNumber__c", extra.VATNumber)
	putString(record, "RCSNumber__c", extra.RCSNumber)
	putString(record, "RegistryCreationDate__c", extra.CreationDate)
	putString(record, "EmployeeBracket__c", extra.EmployeeBracket)
	putString(record, "FinancialScoreNote__c", extra.ScoringNote)
	putFloat(record, "Capital__c", extra.Capital)
	putFloat(record, "FinancialScore__c", extra.ScoringScore)

	return record
}

// statementRecord builds one FinancialStatement__c insert payload. Nil
// metrics stay absent so the CRM renders a blank, not a zero.
func statementRecord(accountID string, fy model.FinancialYear) map[string]any {
	record := map[string]any{
		"Account__c": accountID,
		"Year__c":    fy.Year,
	}

	putFloat(record, "Revenue__c", fy.Revenue)
	putFloat(record, "GrossMargin__c", fy.GrossMargin)
	putFloat(record, "EBITDA__c", fy.EBITDA)
	putFloat(record, "OperatingResult__c", fy.OperatingResult)
	putFloat(record, "NetResult__c", fy.NetResult)
	putFloat(record, "RevenueGrowthRate__c", fy.RevenueGrowthRate)
	putFloat(record, "GrossMarginRate__c", fy.GrossMarginRate)
	putFloat(record, "EBITDAMarginRate__c", fy.EBITDAMarginRate)
	putFloat(record, "OperatingMarginRate__c", fy.OperatingMarginRate)
	putFloat(record, "WorkingCapital__c", fy.WorkingCapital)
	putFloat(record, "OperatingWC__c", fy.OperatingWC)
	putFloat(record, "NonOperatingWC__c", fy.NonOperatingWC)
	putFloat(record, "WorkingCapitalDays__c", fy.WorkingCapitalDays)
	putFloat(record, "SelfFinancingCapacity__c", fy.SelfFinancingCapacity)
	putFloat(record, "NetGlobalWC__c", fy.NetGlobalWC)
	putFloat(record, "Cash__c", fy.Cash)
	putFloat(record, "FinancialDebt__c", fy.FinancialDebt)
	putFloat(record, "RepaymentCapacity__c", fy.RepaymentCapacity)
	putFloat(record, "DebtRatio__c", fy.DebtRatio)
	putFloat(record, "FinancialAutonomy__c", fy.FinancialAutonomy)
	putFloat(record, "ShortTermDebt__c", fy.ShortTermDebt)
	putFloat(record, "GeneralLiquidity__c", fy.GeneralLiquidity)
	putFloat(record, "DebtCoverage__c", fy.DebtCoverage)
	putFloat(record, "Equity__c", fy.Equity)
	putFloat(record, "NetMarginRate__c", fy.NetMarginRate)
	putFloat(record, "ReturnOnEquity__c", fy.ReturnOnEquity)
	putFloat(record, "EconomicProfitability__c", fy.EconomicProfitability)
	putFloat(record, "ValueAdded__c", fy.ValueAdded)
	putFloat(record, "PayrollCharges__c", fy.PayrollCharges)
	putFloat(record, "PayrollToRevenue__c", fy.PayrollToRevenue)
	putFloat(record, "Taxes__c", fy.Taxes)

	return record
}

// nodeRecord builds one Cartographie__c insert payload.
func nodeRecord(accountID string, node model.CartographyEntity, central bool) map[string]any {
	record := map[string]any{
		"Account__c": accountID,
		"NodeId__c":  node.ID,
		"Name":       node.Name,
		"Central__c": central,
	}
	putString(record, "SIREN__c", node.Siren)
	return record
}

// edgeRecord builds one CartographyLink__c insert payload.
func edgeRecord(accountID string, edge model.CartographyEdge) map[string]any {
	return map[string]any{
		"Account__c":  accountID,
		"SourceId__c": edge.SourceID,
		"TargetId__c": edge.TargetID,
	}
}

func putString(record map[string]any, key, value string) {
	if value != "" {
		record[key] = value
	}
}

func putFloat(record map[string]any, key string, value *float64) {
	if value != nil {
		record[key] = *value
	}
}
