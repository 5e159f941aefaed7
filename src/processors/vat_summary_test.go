package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/username/vatrecon/backend/src/models"
)

func TestSummarize_SalesBuckets(t *testing.T) {
	txs := []models.Transaction{
		sale("s1", "100000", models.VatTypeVatable),
		sale("s2", "50000", models.VatTypeGovernment),
		sale("s3", "30000", models.VatTypeZeroRated),
		sale("s4", "20000", models.VatTypeExempt),
	}

	s := Summarize(txs, "2026-01")

	assert.Equal(t, "2026-01", s.Period)
	assert.True(t, dec("100000").Equal(s.VatableSales))
	assert.True(t, dec("50000").Equal(s.SalesToGovernment))
	assert.True(t, dec("30000").Equal(s.ZeroRatedSales))
	assert.True(t, dec("20000").Equal(s.VatExemptSales))
	assert.True(t, dec("200000").Equal(s.TotalSales))
	assert.Equal(t, "12000.00", s.OutputVat.StringFixed(2))
	assert.Equal(t, "2500.00", s.OutputVatGovernment.StringFixed(2))
	assert.Equal(t, "14500.00", s.TotalOutputVat.StringFixed(2))
	assert.Equal(t, 4, s.TransactionCount)
	assert.Equal(t, 1, s.ByVatType[models.VatTypeGovernment])
	assert.Equal(t, 4, s.ByCategory[models.CategorySale])
}

func TestSummarize_PurchaseBuckets(t *testing.T) {
	txs := []models.Transaction{
		purchase("p1", "1000", "120", models.CategoryGoods),
		purchase("p2", "5000", "0", models.CategoryCapital), // fallback 12%
		purchase("p3", "2000", "240", models.CategoryServices),
		purchase("p4", "3000", "360", models.CategoryImports),
		purchase("p5", "500", "60", ""), // no category → goods
	}

	s := Summarize(txs, "2026-01")

	assert.True(t, dec("180").Equal(s.InputVatGoods))
	assert.True(t, dec("600").Equal(s.InputVatCapital))
	assert.True(t, dec("240").Equal(s.InputVatServices))
	assert.True(t, dec("360").Equal(s.InputVatImports))
	assert.True(t, dec("1380").Equal(s.TotalInputVat))
	assert.True(t, dec("-1380").Equal(s.NetVat), "net VAT is not clamped")
	assert.True(t, s.TotalSales.IsZero())
	assert.Equal(t, 5, s.TransactionCount)
}

func TestSummarize_SkipsBankAndTreatsSaleCategoryAsSale(t *testing.T) {
	saleTaggedPurchase := purchase("p1", "1000", "0", models.CategorySale)
	txs := []models.Transaction{
		saleTaggedPurchase,
		bankLine("b1", "99999", "2026-01-02", models.EntryCredit).AsTransaction(),
	}

	s := Summarize(txs, "2026-01")

	assert.True(t, dec("1000").Equal(s.VatableSales))
	assert.True(t, s.TotalInputVat.IsZero())
	assert.Equal(t, 1, s.TransactionCount)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, "2026-02")

	assert.Equal(t, 0, s.TransactionCount)
	assert.True(t, s.TotalSales.IsZero())
	assert.True(t, s.NetVat.IsZero())
	assert.NotNil(t, s.ByVatType)
}

func TestSummarize_ConservationAndRounding(t *testing.T) {
	txs := []models.Transaction{
		sale("s1", "0.05", models.VatTypeVatable),
		sale("s2", "333.33", models.VatTypeGovernment),
		sale("s3", "10.10", models.VatTypeZeroRated),
		sale("s4", "7.77", ""),
	}

	s := Summarize(txs, "2026-01")

	assert.True(t, s.TotalSales.Equal(s.VatableSales.Add(s.SalesToGovernment).Add(s.ZeroRatedSales).Add(s.VatExemptSales)))
	assert.True(t, s.TotalOutputVat.Equal(s.OutputVat.Add(s.OutputVatGovernment)))

	r := s.Rounded()
	assert.Equal(t, "0.94", r.OutputVat.StringFixed(2)) // 0.006 + 0.9324
	assert.Equal(t, "16.67", r.OutputVatGovernment.StringFixed(2))
	assert.Equal(t, "0.9384", s.OutputVat.String(), "raw totals stay unrounded")
}
