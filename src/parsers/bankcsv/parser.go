// backend/src/parsers/bankcsv/parser.go
package bankcsv

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

const source = "bank"

// BankParser reads normalized bank statements:
//
//	id,date,description,amount,type
//
// Statements with separate debit and credit columns instead of amount are accepted too.
// A signed amount without a type is a debit when negative and a credit otherwise.
type BankParser struct{}

// NewParser creates a new instance of the BankParser.
func NewParser() *BankParser {
	return &BankParser{}
}

type columns struct {
	id, date, description, amount, entryType, debit, credit int
}

// Parse converts statement lines into bank_statement transactions with non-negative amounts.
func (p *BankParser) Parse(file io.Reader) ([]models.Transaction, error) {
	tbl, err := csvutil.Read(file)
	if err != nil {
		return nil, fmt.Errorf("bank parser: %w", err)
	}

	var cols columns
	cols.amount, _ = tbl.Index("amount")
	cols.debit, _ = tbl.Index("debit", "withdrawal", "withdrawals")
	cols.credit, _ = tbl.Index("credit", "deposit", "deposits")
	if cols.amount < 0 && cols.debit < 0 && cols.credit < 0 {
		return nil, fmt.Errorf("bank parser: %w: amount (or debit/credit)", csvutil.ErrMissingColumn)
	}
	cols.id, _ = tbl.Index("id", "reference", "ref_no")
	cols.date, _ = tbl.Index("date", "transaction_date", "posting_date", "value_date")
	cols.description, _ = tbl.Index("description", "particulars", "narrative", "memo")
	cols.entryType, _ = tbl.Index("type", "dr_cr", "entry_type")

	txs := make([]models.Transaction, 0, len(tbl.Rows))
	ids := make(csvutil.IDSet, len(tbl.Rows))
	for i, row := range tbl.Rows {
		if csvutil.IsBlank(row) {
			continue
		}
		tx := toBankTransaction(row, i+1, cols)
		tx.ID = ids.Unique(tx.ID, i+1)
		txs = append(txs, tx)
	}

	logger.L.Debug("Bank statement parsed", "rows", len(tbl.Rows), "entries", len(txs))
	return txs, nil
}

func toBankTransaction(row []string, rowNumber int, cols columns) models.Transaction {
	amount, entryType := resolveAmount(row, cols)

	tx := models.Transaction{
		ID:          csvutil.Field(row, cols.id),
		SourceType:  models.SourceBankStatement,
		Description: validation.CleanDescription(csvutil.Field(row, cols.description)),
		Amount:      amount,
		Confidence:  decimal.NewFromInt(1),
		Type:        entryType,
	}

	if err := validation.ValidateTransactionID(tx.ID); err != nil || tx.ID == "" {
		tx.ID = csvutil.Fingerprint(source, rowNumber, row)
	}

	rawDate := csvutil.Field(row, cols.date)
	if date, ok := csvutil.ParseDate(rawDate); ok {
		tx.Date = date
	} else if rawDate != "" {
		logger.L.Debug("Unreadable date, treating bank line as undated", "row", rowNumber, "value", rawDate)
	}
	return tx
}

// resolveAmount returns the absolute amount and the debit/credit tag of a statement line.
func resolveAmount(row []string, cols columns) (decimal.Decimal, models.EntryType) {
	if cols.amount >= 0 && csvutil.Field(row, cols.amount) != "" {
		amount := money.Parse(csvutil.Field(row, cols.amount))
		if t, ok := ParseEntryType(csvutil.Field(row, cols.entryType)); ok {
			return amount.Abs(), t
		}
		if amount.IsNegative() {
			return amount.Abs(), models.EntryDebit
		}
		return amount, models.EntryCredit
	}

	debit := money.Parse(csvutil.Field(row, cols.debit)).Abs()
	credit := money.Parse(csvutil.Field(row, cols.credit)).Abs()
	if debit.IsPositive() {
		return debit, models.EntryDebit
	}
	return credit, models.EntryCredit
}

// ParseEntryType reads the many ways banks spell debit and credit.
func ParseEntryType(raw string) (models.EntryType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debit", "dr", "d", "withdrawal", "payment":
		return models.EntryDebit, true
	case "credit", "cr", "c", "deposit":
		return models.EntryCredit, true
	}
	return "", false
}
