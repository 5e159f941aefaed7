package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceType tells where a row came from.
type SourceType string

const (
	SourceSalesRecord    SourceType = "sales_record"
	SourcePurchaseRecord SourceType = "purchase_record"
	SourceBankStatement  SourceType = "bank_statement"
)

// VatType is the tax treatment assigned upstream by the classifier.
type VatType string

const (
	VatTypeVatable    VatType = "vatable"
	VatTypeExempt     VatType = "exempt"
	VatTypeZeroRated  VatType = "zero_rated"
	VatTypeGovernment VatType = "government"
)

// Category drives input-VAT bucketing for purchases.
type Category string

const (
	CategoryGoods    Category = "goods"
	CategoryServices Category = "services"
	CategoryCapital  Category = "capital"
	CategoryImports  Category = "imports"
	CategorySale     Category = "sale"
)

// EntryType is the debit/credit tag a bank parser puts on a statement line.
type EntryType string

const (
	EntryDebit  EntryType = "debit"
	EntryCredit EntryType = "credit"
)

// Transaction is a classified accounting or bank row. The engine treats it as read-only.
type Transaction struct {
	ID          string          `json:"id"`
	SourceType  SourceType      `json:"source_type"`
	Date        *time.Time      `json:"date,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	VatAmount   decimal.Decimal `json:"vat_amount"`
	VatType     VatType         `json:"vat_type,omitempty"`
	Category    Category        `json:"category,omitempty"`
	TIN         *string         `json:"tin,omitempty"`
	Confidence  decimal.Decimal `json:"confidence"`   // informational only
	Type        EntryType       `json:"type,omitempty"` // bank lines only
}

// BankEntry is a Transaction restricted to source_type bank_statement.
// It shares Transaction's layout, so conversions between the two are free.
type BankEntry Transaction

// AsTransaction converts a bank entry back to the common row shape.
func (b BankEntry) AsTransaction() Transaction {
	return Transaction(b)
}

// IsBank reports whether the row came from a bank statement.
func (t Transaction) IsBank() bool {
	return t.SourceType == SourceBankStatement
}

// IsSale reports whether the row belongs on the output-VAT side.
func (t Transaction) IsSale() bool {
	return t.SourceType == SourceSalesRecord || t.Category == CategorySale
}

// TINValue returns the tax id or "" when absent.
func (t Transaction) TINValue() string {
	if t.TIN == nil {
		return ""
	}
	return *t.TIN
}

// DateKey formats the date as YYYY-MM-DD, or "" when missing.
func (t Transaction) DateKey() string {
	if t.Date == nil {
		return ""
	}
	return t.Date.Format(time.DateOnly)
}

// BankEntries converts a slice of transactions into bank entries.
func BankEntries(txs []Transaction) []BankEntry {
	if txs == nil {
		return nil
	}
	out := make([]BankEntry, len(txs))
	for i, tx := range txs {
		out[i] = BankEntry(tx)
	}
	return out
}

// Transactions converts a slice of bank entries into transactions.
func Transactions(entries []BankEntry) []Transaction {
	if entries == nil {
		return nil
	}
	out := make([]Transaction, len(entries))
	for i, e := range entries {
		out[i] = e.AsTransaction()
	}
	return out
}
