package processors

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/vatrecon/backend/src/models"
)

func TestReportLines(t *testing.T) {
	s := Summarize([]models.Transaction{sale("s1", "100000", models.VatTypeVatable)}, "2026-01")

	lines := ReportLines(s)

	require.Len(t, lines, 13)
	assert.Equal(t, ReportLineKeys()[0], lines[0].Key)
	assert.Equal(t, "vatable_sales", lines[0].Key)
	assert.Equal(t, "total_input_vat", lines[12].Key)
	assert.Equal(t, "12000.00", lines[5].Value.StringFixed(2))
	assert.True(t, IsReportLineKey("output_vat_government"))
	assert.False(t, IsReportLineKey("net_vat"))
}

func TestCompareLines(t *testing.T) {
	s := Summarize([]models.Transaction{
		sale("s1", "100000", models.VatTypeVatable),
		purchase("p1", "10000", "1200", models.CategoryGoods),
	}, "2026-01")

	declared := map[string]decimal.Decimal{
		"vatable_sales":    dec("100000"),
		"total_sales":      dec("100000.005"),
		"output_vat":       dec("12000"),
		"total_output_vat": dec("12000"),
		"input_vat_goods":  dec("1000"),
		"total_input_vat":  dec("1200"),
	}

	cmp := CompareLines(s, declared)

	require.Len(t, cmp.Lines, 13)
	assert.Equal(t, 12, cmp.MatchedCount)
	assert.Equal(t, 1, cmp.MismatchCount)
	assert.False(t, cmp.FullyMatched)

	byKey := map[string]models.ComparisonLine{}
	for _, l := range cmp.Lines {
		byKey[l.Key] = l
	}
	assert.False(t, byKey["input_vat_goods"].Matched)
	assert.True(t, dec("200").Equal(byKey["input_vat_goods"].Difference))
	assert.True(t, byKey["total_sales"].Matched, "half a cent is within tolerance")
	assert.True(t, byKey["zero_rated_sales"].Declared.IsZero(), "missing keys compare as zero")
}

func TestCompareLines_FullyMatched(t *testing.T) {
	s := Summarize(nil, "2026-01")
	cmp := CompareLines(s, nil)

	assert.True(t, cmp.FullyMatched)
	assert.Equal(t, 13, cmp.MatchedCount)
}

func TestReconcile_WithBankAndDeclared(t *testing.T) {
	sales := []models.Transaction{dated(sale("s1", "1000.00", models.VatTypeVatable), "2026-01-05")}
	purchases := []models.Transaction{dated(purchase("p1", "500", "60", models.CategoryGoods), "2026-01-06")}
	bank := []models.BankEntry{
		bankLine("b1", "1000.00", "2026-01-07", models.EntryCredit),
		bankLine("b2", "77", "2026-01-07", models.EntryDebit),
	}
	declared := &models.DeclaredReport{
		Period:         "2026-01",
		CalculatedData: map[string]decimal.Decimal{"vatable_sales": dec("1000")},
	}

	res := Reconcile(sales, purchases, bank, declared, "2026-01", dec("0.01"), 3)

	assert.Equal(t, "2026-01", res.Period)
	assert.True(t, dec("1000").Equal(res.Summary.VatableSales))
	assert.True(t, dec("60").Equal(res.Summary.InputVatGoods))

	ms := res.MatchStats
	assert.Equal(t, 2, ms.TotalRecords)
	assert.Equal(t, 2, ms.TotalBankEntries)
	assert.Equal(t, 1, ms.MatchedCount)
	assert.Equal(t, 1, ms.UnmatchedRecordCount)
	assert.Equal(t, 1, ms.UnmatchedBankCount)
	assert.Equal(t, 0.5, ms.MatchRate)
	assert.Empty(t, ms.Note)

	require.NotNil(t, res.Comparison)
	assert.Equal(t, "2026-01", res.Comparison.DeclaredPeriod)
	assert.False(t, res.Comparison.FullyMatched)
	assert.Equal(t, 0, res.AnomalyCount)
}

func TestReconcile_WithoutBank(t *testing.T) {
	sales := []models.Transaction{sale("s1", "1000", models.VatTypeVatable)}

	res := Reconcile(sales, nil, nil, nil, "2026-01", dec("0.01"), 3)

	assert.Nil(t, res.Comparison)
	assert.Equal(t, NoBankStatementNote, res.MatchStats.Note)
	assert.Equal(t, 1, res.MatchStats.TotalRecords)
	assert.Equal(t, 0, res.MatchStats.MatchedCount)
	assert.Equal(t, 0.0, res.MatchStats.MatchRate)
	assert.NotNil(t, res.MatchStats.MatchedPairs)
}

func TestReconcile_DoesNotMutateInputs(t *testing.T) {
	sales := make([]models.Transaction, 1, 4)
	sales[0] = sale("s1", "1000", models.VatTypeVatable)
	purchases := []models.Transaction{purchase("p1", "100", "12", models.CategoryGoods)}

	Reconcile(sales, purchases, nil, nil, "2026-01", dec("0.01"), 3)

	assert.Equal(t, "s1", sales[:2][0].ID)
	assert.Empty(t, sales[:2][1].ID, "spare capacity of sales must not be written")
}

func TestSnapshot(t *testing.T) {
	all := Snapshot(
		[]models.Transaction{sale("s1", "1", models.VatTypeVatable)},
		[]models.Transaction{purchase("p1", "1", "0", models.CategoryGoods)},
		[]models.BankEntry{bankLine("b1", "1", "", models.EntryDebit)},
	)

	require.Len(t, all, 3)
	assert.True(t, all[2].IsBank())
}
