// backend/src/processors/vat_summary.go
package processors

import (
	"github.com/username/vatrecon/backend/src/models"
	"github.com/username/vatrecon/backend/src/money"
)

// Summarize classifies transactions into output/input VAT buckets for a period.
// Bank statement lines are ignored. A transaction lands in exactly one bucket.
func Summarize(transactions []models.Transaction, period string) models.VatSummary {
	s := models.VatSummary{
		Period:     period,
		ByVatType:  make(map[models.VatType]int),
		ByCategory: make(map[models.Category]int),
	}

	for _, tx := range transactions {
		if tx.IsBank() {
			continue
		}

		switch {
		case tx.IsSale():
			addSale(&s, tx)
		case tx.SourceType == models.SourcePurchaseRecord:
			addPurchase(&s, tx)
		default:
			continue
		}

		s.TransactionCount++
		s.ByVatType[effectiveVatType(tx)]++
		s.ByCategory[effectiveCategory(tx)]++
	}

	s.TotalSales = money.Sum(s.VatableSales, s.SalesToGovernment, s.ZeroRatedSales, s.VatExemptSales)
	s.TotalOutputVat = s.OutputVat.Add(s.OutputVatGovernment)
	s.TotalInputVat = money.Sum(s.InputVatGoods, s.InputVatCapital, s.InputVatServices, s.InputVatImports)
	s.NetVat = s.TotalOutputVat.Sub(s.TotalInputVat)
	return s
}

func addSale(s *models.VatSummary, tx models.Transaction) {
	switch effectiveVatType(tx) {
	case models.VatTypeGovernment:
		s.SalesToGovernment = s.SalesToGovernment.Add(tx.Amount)
		s.OutputVatGovernment = s.OutputVatGovernment.Add(money.Percent(tx.Amount, money.GovernmentVATRate))
	case models.VatTypeZeroRated:
		s.ZeroRatedSales = s.ZeroRatedSales.Add(tx.Amount)
	case models.VatTypeExempt:
		s.VatExemptSales = s.VatExemptSales.Add(tx.Amount)
	default:
		s.VatableSales = s.VatableSales.Add(tx.Amount)
		s.OutputVat = s.OutputVat.Add(money.Percent(tx.Amount, money.VATRate))
	}
}

func addPurchase(s *models.VatSummary, tx models.Transaction) {
	// Un-itemized purchases carry no VAT amount; assume the standard rate.
	vat := tx.VatAmount
	if vat.IsZero() {
		vat = money.Percent(tx.Amount, money.VATRate)
	}

	switch effectiveCategory(tx) {
	case models.CategoryCapital:
		s.InputVatCapital = s.InputVatCapital.Add(vat)
	case models.CategoryServices:
		s.InputVatServices = s.InputVatServices.Add(vat)
	case models.CategoryImports:
		s.InputVatImports = s.InputVatImports.Add(vat)
	default:
		s.InputVatGoods = s.InputVatGoods.Add(vat)
	}
}

// effectiveVatType treats an unclassified accounting record as vatable.
func effectiveVatType(tx models.Transaction) models.VatType {
	if tx.VatType == "" && !tx.IsBank() {
		return models.VatTypeVatable
	}
	return tx.VatType
}

func effectiveCategory(tx models.Transaction) models.Category {
	if tx.Category != "" {
		return tx.Category
	}
	if tx.SourceType == models.SourceSalesRecord {
		return models.CategorySale
	}
	return models.CategoryGoods
}
