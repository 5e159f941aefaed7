// backend/src/processors/report_lines.go
package processors

import (
	"github.com/shopspring/decimal"
	"github.com/username/vatrecon/backend/src/models"
)

// lineMatchThreshold is the largest absolute difference still treated as a match (exclusive).
var lineMatchThreshold = decimal.RequireFromString("0.01")

type reportLineDef struct {
	key   string
	label string
	value func(models.VatSummary) decimal.Decimal
}

// reportLineTable is the fixed tax-report template. Order is the order lines are rendered in.
var reportLineTable = []reportLineDef{
	{"vatable_sales", "Vatable Sales", func(s models.VatSummary) decimal.Decimal { return s.VatableSales }},
	{"sales_to_government", "Sales to Government", func(s models.VatSummary) decimal.Decimal { return s.SalesToGovernment }},
	{"zero_rated_sales", "Zero-Rated Sales", func(s models.VatSummary) decimal.Decimal { return s.ZeroRatedSales }},
	{"vat_exempt_sales", "VAT-Exempt Sales", func(s models.VatSummary) decimal.Decimal { return s.VatExemptSales }},
	{"total_sales", "Total Sales", func(s models.VatSummary) decimal.Decimal { return s.TotalSales }},
	{"output_vat", "Output VAT (12%)", func(s models.VatSummary) decimal.Decimal { return s.OutputVat }},
	{"output_vat_government", "Output VAT on Government Sales (5%)", func(s models.VatSummary) decimal.Decimal { return s.OutputVatGovernment }},
	{"total_output_vat", "Total Output VAT", func(s models.VatSummary) decimal.Decimal { return s.TotalOutputVat }},
	{"input_vat_goods", "Input VAT - Goods", func(s models.VatSummary) decimal.Decimal { return s.InputVatGoods }},
	{"input_vat_capital", "Input VAT - Capital Goods", func(s models.VatSummary) decimal.Decimal { return s.InputVatCapital }},
	{"input_vat_services", "Input VAT - Services", func(s models.VatSummary) decimal.Decimal { return s.InputVatServices }},
	{"input_vat_imports", "Input VAT - Imports", func(s models.VatSummary) decimal.Decimal { return s.InputVatImports }},
	{"total_input_vat", "Total Input VAT", func(s models.VatSummary) decimal.Decimal { return s.TotalInputVat }},
}

// ReportLineKeys returns the keys of the tax-report template in display order.
func ReportLineKeys() []string {
	keys := make([]string, len(reportLineTable))
	for i, def := range reportLineTable {
		keys[i] = def.key
	}
	return keys
}

// IsReportLineKey reports whether key names one of the template lines.
func IsReportLineKey(key string) bool {
	for _, def := range reportLineTable {
		if def.key == key {
			return true
		}
	}
	return false
}

// ReportLines pre-fills the tax-report template from a summary. Values are rounded for display.
func ReportLines(summary models.VatSummary) []models.ReportLine {
	lines := make([]models.ReportLine, len(reportLineTable))
	for i, def := range reportLineTable {
		lines[i] = models.ReportLine{
			Key:   def.key,
			Label: def.label,
			Value: def.value(summary).Round(2),
		}
	}
	return lines
}

// CompareLines checks every template line of the summary against the declared values.
// A key absent from declared is compared as zero.
func CompareLines(summary models.VatSummary, declared map[string]decimal.Decimal) models.Comparison {
	cmp := models.Comparison{
		Lines: make([]models.ComparisonLine, 0, len(reportLineTable)),
	}

	for _, def := range reportLineTable {
		computed := def.value(summary)
		declaredValue := declared[def.key] // zero value when missing
		diff := computed.Sub(declaredValue).Abs()
		matched := diff.LessThan(lineMatchThreshold)

		cmp.Lines = append(cmp.Lines, models.ComparisonLine{
			Key:        def.key,
			Label:      def.label,
			Computed:   computed,
			Declared:   declaredValue,
			Difference: diff,
			Matched:    matched,
		})
		if matched {
			cmp.MatchedCount++
		} else {
			cmp.MismatchCount++
		}
	}

	cmp.FullyMatched = cmp.MismatchCount == 0
	return cmp
}
