// backend/src/processors/anomaly_detectors.go
package processors

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/username/vatrecon/backend/src/models"
	"github.com/username/vatrecon/backend/src/money"
)

var (
	vatMismatchTolerance   = decimal.RequireFromString("0.02")
	tinRequiredFrom        = decimal.NewFromInt(1000)
	highValueBankThreshold = decimal.NewFromInt(10000)
)

const (
	minUnusualSample = 5
	unusualZMedium   = 3.0
	unusualZHigh     = 5.0
	zScorePrecision  = 100.0
)

// AnomalyDetector inspects a snapshot of transactions and reports what looks wrong.
// Implementations are pure and may run in any order.
type AnomalyDetector interface {
	Name() string
	Detect(transactions []models.Transaction) []models.DetectedAnomaly
}

// DetectorFunc adapts a plain function to the AnomalyDetector interface.
type DetectorFunc struct {
	name string
	fn   func([]models.Transaction) []models.DetectedAnomaly
}

func NewDetectorFunc(name string, fn func([]models.Transaction) []models.DetectedAnomaly) DetectorFunc {
	return DetectorFunc{name: name, fn: fn}
}

func (d DetectorFunc) Name() string { return d.name }

func (d DetectorFunc) Detect(transactions []models.Transaction) []models.DetectedAnomaly {
	return d.fn(transactions)
}

// DefaultDetectors returns the five built-in detectors in a fixed order. The tolerances
// are used by the missing-invoice cross-match.
func DefaultDetectors(amountTolerance decimal.Decimal, dateToleranceDays int) []AnomalyDetector {
	return []AnomalyDetector{
		NewDetectorFunc("duplicates", DetectDuplicates),
		NewDetectorFunc("vat_mismatch", DetectVatMismatches),
		NewDetectorFunc("incomplete_tin", DetectIncompleteTINs),
		NewDetectorFunc("unusual_amount", DetectUnusualAmounts),
		NewDetectorFunc("missing_invoice", func(txs []models.Transaction) []models.DetectedAnomaly {
			return DetectMissingInvoices(txs, amountTolerance, dateToleranceDays)
		}),
	}
}

// DetectAll runs every detector over the same snapshot and concatenates their output.
func DetectAll(transactions []models.Transaction, detectors []AnomalyDetector) []models.DetectedAnomaly {
	all := make([]models.DetectedAnomaly, 0)
	for _, d := range detectors {
		all = append(all, d.Detect(transactions)...)
	}
	return all
}

// SortAnomalies orders anomalies high severity first, keeping detector order within a severity.
func SortAnomalies(anomalies []models.DetectedAnomaly) {
	sort.SliceStable(anomalies, func(i, j int) bool {
		return anomalies[i].Severity.Rank() < anomalies[j].Severity.Rank()
	})
}

// DetectDuplicates groups rows by date, amount and normalized description. Every group with
// two or more members yields one anomaly pointing at its first member.
func DetectDuplicates(transactions []models.Transaction) []models.DetectedAnomaly {
	groups := make(map[string][]models.Transaction)
	var order []string

	for _, tx := range transactions {
		if tx.IsBank() {
			continue
		}
		key := fmt.Sprintf("%s|%s|%s", tx.DateKey(), tx.Amount.String(), strings.ToLower(strings.TrimSpace(tx.Description)))
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], tx)
	}

	anomalies := make([]models.DetectedAnomaly, 0)
	for _, key := range order {
		group := groups[key]
		if len(group) < 2 {
			continue
		}
		first := group[0]
		ids := make([]string, len(group))
		for i, tx := range group {
			ids[i] = tx.ID
		}

		anomalies = append(anomalies, models.DetectedAnomaly{
			AnomalyType: models.AnomalyDuplicate,
			Severity:    models.SeverityMedium,
			Description: fmt.Sprintf("%d transactions share date %s, amount %s and description %q",
				len(group), displayDate(first), money.Format(first.Amount), first.Description),
			Details: map[string]any{
				"count":           len(group),
				"transaction_ids": ids,
				"amount":          money.Round(first.Amount),
				"date":            first.DateKey(),
				"description":     first.Description,
			},
			TransactionID: txRef(first),
		})
	}
	return anomalies
}

// DetectVatMismatches flags vatable rows whose declared VAT is more than 2% away from 12% of the amount.
func DetectVatMismatches(transactions []models.Transaction) []models.DetectedAnomaly {
	anomalies := make([]models.DetectedAnomaly, 0)
	for _, tx := range transactions {
		if tx.IsBank() || tx.VatType != models.VatTypeVatable || !tx.Amount.IsPositive() {
			continue
		}

		expected := money.Percent(tx.Amount, money.VATRate)
		tolerance := expected.Mul(vatMismatchTolerance)
		diff := tx.VatAmount.Sub(expected)
		if diff.Abs().LessThanOrEqual(tolerance) {
			continue
		}

		anomalies = append(anomalies, models.DetectedAnomaly{
			AnomalyType: models.AnomalyVatMismatch,
			Severity:    models.SeverityHigh,
			Description: fmt.Sprintf("VAT of %s on %s differs from the expected %s",
				money.Format(tx.VatAmount), money.Format(tx.Amount), money.Format(expected)),
			Details: map[string]any{
				"expected_vat": money.Round(expected),
				"actual_vat":   money.Round(tx.VatAmount),
				"difference":   money.Round(diff),
				"tolerance":    money.Round(tolerance),
			},
			TransactionID: txRef(tx),
		})
	}
	return anomalies
}

// DetectIncompleteTINs flags rows of 1,000 or more with no usable tax id.
func DetectIncompleteTINs(transactions []models.Transaction) []models.DetectedAnomaly {
	anomalies := make([]models.DetectedAnomaly, 0)
	for _, tx := range transactions {
		if tx.IsBank() || tx.Amount.LessThan(tinRequiredFrom) || hasTIN(tx) {
			continue
		}
		anomalies = append(anomalies, models.DetectedAnomaly{
			AnomalyType: models.AnomalyIncompleteTIN,
			Severity:    models.SeverityMedium,
			Description: fmt.Sprintf("Transaction of %s has no TIN", money.Format(tx.Amount)),
			Details: map[string]any{
				"amount": money.Round(tx.Amount),
				"tin":    tx.TINValue(),
			},
			TransactionID: txRef(tx),
		})
	}
	return anomalies
}

func hasTIN(tx models.Transaction) bool {
	tin := strings.TrimSpace(tx.TINValue())
	return tin != "" && !strings.EqualFold(tin, "none")
}

// DetectUnusualAmounts flags rows whose amount lies 3 or more standard deviations from the mean.
// Needs at least five positive amounts and a non-zero spread; otherwise reports nothing.
func DetectUnusualAmounts(transactions []models.Transaction) []models.DetectedAnomaly {
	anomalies := make([]models.DetectedAnomaly, 0)

	var sample []models.Transaction
	for _, tx := range transactions {
		if tx.IsBank() || !tx.Amount.IsPositive() {
			continue
		}
		sample = append(sample, tx)
	}
	if len(sample) < minUnusualSample {
		return anomalies
	}

	values := make([]float64, len(sample))
	var sum float64
	for i, tx := range sample {
		values[i] = tx.Amount.InexactFloat64()
		sum += values[i]
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	stdDev := math.Sqrt(sq / float64(len(values)-1))
	if stdDev == 0 {
		return anomalies
	}

	for i, tx := range sample {
		z := (values[i] - mean) / stdDev
		if math.Abs(z) < unusualZMedium {
			continue
		}
		severity := models.SeverityMedium
		if math.Abs(z) >= unusualZHigh {
			severity = models.SeverityHigh
		}

		anomalies = append(anomalies, models.DetectedAnomaly{
			AnomalyType: models.AnomalyUnusualAmount,
			Severity:    severity,
			Description: fmt.Sprintf("Amount %s is %.1f standard deviations from the mean of %.2f",
				money.Format(tx.Amount), math.Abs(z), mean),
			Details: map[string]any{
				"z_score": roundFloat(z),
				"mean":    roundFloat(mean),
				"std_dev": roundFloat(stdDev),
				"amount":  money.Round(tx.Amount),
			},
			TransactionID: txRef(tx),
		})
	}
	return anomalies
}

// DetectMissingInvoices cross-matches bank lines against accounting records with its own
// greedy pass. Unmatched bank credits become unexplained deposits, other unmatched bank lines
// unexplained payments, and unmatched records missing invoices. Without bank lines it reports nothing.
func DetectMissingInvoices(transactions []models.Transaction, amountTolerance decimal.Decimal, dateToleranceDays int) []models.DetectedAnomaly {
	anomalies := make([]models.DetectedAnomaly, 0)

	var bank, records []models.Transaction
	for _, tx := range transactions {
		if tx.IsBank() {
			bank = append(bank, tx)
		} else {
			records = append(records, tx)
		}
	}
	if len(bank) == 0 {
		return anomalies
	}

	g := GreedyMatch(bank, records, amountTolerance, dateToleranceDays)

	for _, i := range g.UnmatchedLeft {
		entry := bank[i]
		kind, what := models.AnomalyUnmatchedPayment, "payment"
		if entry.Type == models.EntryCredit {
			kind, what = models.AnomalyUnmatchedDeposit, "deposit"
		}
		severity := models.SeverityMedium
		if entry.Amount.GreaterThanOrEqual(highValueBankThreshold) {
			severity = models.SeverityHigh
		}

		anomalies = append(anomalies, models.DetectedAnomaly{
			AnomalyType: kind,
			Severity:    severity,
			Description: fmt.Sprintf("Bank %s of %s on %s has no matching record", what, money.Format(entry.Amount), displayDate(entry)),
			Details: map[string]any{
				"amount":      money.Round(entry.Amount),
				"date":        entry.DateKey(),
				"description": entry.Description,
				"entry_type":  string(entry.Type),
			},
			TransactionID: txRef(entry),
		})
	}

	for _, i := range g.UnmatchedRight {
		rec := records[i]
		anomalies = append(anomalies, models.DetectedAnomaly{
			AnomalyType: models.AnomalyMissingInvoice,
			Severity:    models.SeverityMedium,
			Description: fmt.Sprintf("Record of %s on %s has no matching bank movement", money.Format(rec.Amount), displayDate(rec)),
			Details: map[string]any{
				"amount":      money.Round(rec.Amount),
				"date":        rec.DateKey(),
				"description": rec.Description,
				"source_type": string(rec.SourceType),
			},
			TransactionID: txRef(rec),
		})
	}
	return anomalies
}

func txRef(tx models.Transaction) *string {
	if tx.ID == "" {
		return nil
	}
	id := tx.ID
	return &id
}

func displayDate(tx models.Transaction) string {
	if d := tx.DateKey(); d != "" {
		return d
	}
	return "an unknown date"
}

func roundFloat(f float64) float64 {
	return math.Round(f*zScorePrecision) / zScorePrecision
}
