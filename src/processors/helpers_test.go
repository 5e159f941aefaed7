package processors

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/vatrecon/backend/src/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) *time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func strPtr(s string) *string { return &s }

func sale(id, amount string, vatType models.VatType) models.Transaction {
	return models.Transaction{
		ID:         id,
		SourceType: models.SourceSalesRecord,
		Amount:     dec(amount),
		VatType:    vatType,
		Category:   models.CategorySale,
	}
}

func purchase(id, amount, vat string, category models.Category) models.Transaction {
	return models.Transaction{
		ID:         id,
		SourceType: models.SourcePurchaseRecord,
		Amount:     dec(amount),
		VatAmount:  dec(vat),
		VatType:    models.VatTypeVatable,
		Category:   category,
	}
}

func bankLine(id, amount, date string, entryType models.EntryType) models.BankEntry {
	b := models.BankEntry{
		ID:         id,
		SourceType: models.SourceBankStatement,
		Amount:     dec(amount),
		Type:       entryType,
	}
	if date != "" {
		b.Date = day(date)
	}
	return b
}

func dated(tx models.Transaction, date string) models.Transaction {
	tx.Date = day(date)
	return tx
}
