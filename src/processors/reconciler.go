// backend/src/processors/reconciler.go
package processors

import (
	"github.com/shopspring/decimal"
	"github.com/username/vatrecon/backend/src/models"
)

// NoBankStatementNote is reported in MatchStats when reconciliation ran without bank data.
const NoBankStatementNote = "no bank statement provided."

// Reconcile runs summary, matching and the optional declared-report comparison over one
// period. It never fails: bad rows only degrade the result. Anomaly detection is left to the
// caller, which fills in AnomalyCount.
func Reconcile(
	sales, purchases []models.Transaction,
	bank []models.BankEntry,
	declared *models.DeclaredReport,
	period string,
	amountTolerance decimal.Decimal,
	dateToleranceDays int,
) models.ReconciliationResult {
	records := make([]models.Transaction, 0, len(sales)+len(purchases))
	records = append(records, sales...)
	records = append(records, purchases...)

	result := models.ReconciliationResult{
		Period:  period,
		Summary: Summarize(records, period),
	}

	if len(bank) > 0 {
		m := Match(records, bank, amountTolerance, dateToleranceDays)
		result.MatchStats = models.MatchStats{
			TotalRecords:         len(records),
			TotalBankEntries:     len(bank),
			MatchedCount:         len(m.MatchedPairs),
			UnmatchedRecordCount: len(m.UnmatchedRecords),
			UnmatchedBankCount:   len(m.UnmatchedBankEntries),
			MatchRate:            m.MatchRate,
			MatchedPairs:         m.MatchedPairs,
			UnmatchedRecords:     m.UnmatchedRecords,
			UnmatchedBankEntries: m.UnmatchedBankEntries,
		}
	} else {
		result.MatchStats = models.MatchStats{
			TotalRecords:         len(records),
			MatchedPairs:         make([]models.MatchedPair, 0),
			UnmatchedRecords:     make([]models.Transaction, 0),
			UnmatchedBankEntries: make([]models.BankEntry, 0),
			Note:                 NoBankStatementNote,
		}
	}

	if declared != nil {
		cmp := CompareLines(result.Summary, declared.CalculatedData)
		cmp.DeclaredPeriod = declared.Period
		result.Comparison = &cmp
	}

	return result
}

// Snapshot flattens sales, purchases and bank lines into the single slice the detectors take.
func Snapshot(sales, purchases []models.Transaction, bank []models.BankEntry) []models.Transaction {
	all := make([]models.Transaction, 0, len(sales)+len(purchases)+len(bank))
	all = append(all, sales...)
	all = append(all, purchases...)
	all = append(all, models.Transactions(bank)...)
	return all
}
