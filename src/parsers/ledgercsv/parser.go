// backend/src/parsers/ledgercsv/parser.go
package ledgercsv

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/username/vatrecon/backend/src/logger"
	"github.com/username/vatrecon/backend/src/models"
	"github.com/username/vatrecon/backend/src/money"
	"github.com/username/vatrecon/backend/src/parsers/csvutil"
	"github.com/username/vatrecon/backend/src/security/validation"
)

// LedgerParser reads sales or purchase exports:
//
//	id,date,description,amount,vat_amount,vat_type,category,tin,confidence
//
// Only amount is required. Column order does not matter.
type LedgerParser struct {
	source models.SourceType
}

// NewSalesParser creates a parser whose rows are sales records.
func NewSalesParser() *LedgerParser {
	return &LedgerParser{source: models.SourceSalesRecord}
}

// NewPurchasesParser creates a parser whose rows are purchase records.
func NewPurchasesParser() *LedgerParser {
	return &LedgerParser{source: models.SourcePurchaseRecord}
}

type columns struct {
	id, date, description, amount, vatAmount, vatType, category, tin, confidence int
}

// Parse converts the CSV rows into transactions. Unreadable amounts become 0 and unreadable
// dates become "no date"; only a broken file or a missing amount column is an error.
func (p *LedgerParser) Parse(file io.Reader) ([]models.Transaction, error) {
	tbl, err := csvutil.Read(file)
	if err != nil {
		return nil, fmt.Errorf("ledger parser: %w", err)
	}

	amountIdx, err := tbl.Require("amount", "gross_amount", "total")
	if err != nil {
		return nil, fmt.Errorf("ledger parser: %w", err)
	}
	cols := columns{amount: amountIdx}
	cols.id, _ = tbl.Index("id", "transaction_id", "invoice_no", "reference")
	cols.date, _ = tbl.Index("date", "transaction_date", "invoice_date")
	cols.description, _ = tbl.Index("description", "particulars", "memo")
	cols.vatAmount, _ = tbl.Index("vat_amount", "vat", "input_vat", "output_vat")
	cols.vatType, _ = tbl.Index("vat_type", "tax_type")
	cols.category, _ = tbl.Index("category")
	cols.tin, _ = tbl.Index("tin", "tax_id")
	cols.confidence, _ = tbl.Index("confidence")

	txs := make([]models.Transaction, 0, len(tbl.Rows))
	ids := make(csvutil.IDSet, len(tbl.Rows))
	for i, row := range tbl.Rows {
		if csvutil.IsBlank(row) {
			continue
		}
		tx := p.toTransaction(row, i+1, cols)
		tx.ID = ids.Unique(tx.ID, i+1)
		txs = append(txs, tx)
	}

	logger.L.Debug("Ledger file parsed", "source", p.source, "rows", len(tbl.Rows), "transactions", len(txs))
	return txs, nil
}

func (p *LedgerParser) toTransaction(row []string, rowNumber int, cols columns) models.Transaction {
	tx := models.Transaction{
		ID:          csvutil.Field(row, cols.id),
		SourceType:  p.source,
		Description: validation.CleanDescription(csvutil.Field(row, cols.description)),
		Amount:      money.Parse(csvutil.Field(row, cols.amount)),
		VatAmount:   money.Parse(csvutil.Field(row, cols.vatAmount)),
		VatType:     NormalizeVatType(csvutil.Field(row, cols.vatType)),
		Category:    p.normalizeCategory(csvutil.Field(row, cols.category)),
		Confidence:  parseConfidence(csvutil.Field(row, cols.confidence)),
	}

	if err := validation.ValidateTransactionID(tx.ID); err != nil || tx.ID == "" {
		if err != nil {
			logger.L.Debug("Replacing invalid transaction id", "row", rowNumber, "error", err)
		}
		tx.ID = csvutil.Fingerprint(string(p.source), rowNumber, row)
	}

	rawDate := csvutil.Field(row, cols.date)
	if date, ok := csvutil.ParseDate(rawDate); ok {
		tx.Date = date
	} else if rawDate != "" {
		logger.L.Debug("Unreadable date, treating row as undated", "row", rowNumber, "value", rawDate)
	}

	if tin := csvutil.Field(row, cols.tin); tin != "" {
		tx.TIN = &tin
	}
	return tx
}

// NormalizeVatType maps the spellings found in exports onto the four treatments.
// Empty or unknown values mean vatable.
func NormalizeVatType(raw string) models.VatType {
	key := strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(strings.TrimSpace(raw)))
	switch key {
	case "exempt", "vat_exempt":
		return models.VatTypeExempt
	case "zero_rated", "zerorated", "zero":
		return models.VatTypeZeroRated
	case "government", "gov", "govt":
		return models.VatTypeGovernment
	}
	return models.VatTypeVatable
}

func (p *LedgerParser) normalizeCategory(raw string) models.Category {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), " ", "_")
	switch c := models.Category(key); c {
	case models.CategoryGoods, models.CategoryServices, models.CategoryCapital, models.CategoryImports, models.CategorySale:
		return c
	case "capital_goods":
		return models.CategoryCapital
	case "import":
		return models.CategoryImports
	case "service":
		return models.CategoryServices
	}
	if p.source == models.SourceSalesRecord {
		return models.CategorySale
	}
	return models.CategoryGoods
}

// parseConfidence keeps values in [0,1]; anything else reads as full confidence.
func parseConfidence(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.NewFromInt(1)
	}
	c, err := decimal.NewFromString(raw)
	if err != nil || c.IsNegative() || c.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return c
}
