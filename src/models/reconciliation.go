package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VatSummary holds the per-period VAT aggregates. Totals are kept unrounded;
// call Rounded before presenting them.
type VatSummary struct {
	Period string `json:"period"`

	VatableSales      decimal.Decimal `json:"vatable_sales"`
	SalesToGovernment decimal.Decimal `json:"sales_to_government"`
	ZeroRatedSales    decimal.Decimal `json:"zero_rated_sales"`
	VatExemptSales    decimal.Decimal `json:"vat_exempt_sales"`
	TotalSales        decimal.Decimal `json:"total_sales"`

	OutputVat           decimal.Decimal `json:"output_vat"`
	OutputVatGovernment decimal.Decimal `json:"output_vat_government"`
	TotalOutputVat      decimal.Decimal `json:"total_output_vat"`

	InputVatGoods    decimal.Decimal `json:"input_vat_goods"`
	InputVatCapital  decimal.Decimal `json:"input_vat_capital"`
	InputVatServices decimal.Decimal `json:"input_vat_services"`
	InputVatImports  decimal.Decimal `json:"input_vat_imports"`
	TotalInputVat    decimal.Decimal `json:"total_input_vat"`

	NetVat decimal.Decimal `json:"net_vat"`

	TransactionCount int              `json:"transaction_count"`
	ByVatType        map[VatType]int  `json:"by_vat_type"`
	ByCategory       map[Category]int `json:"by_category"`
}

// Rounded returns a copy with every amount rounded half-up to 2 decimals.
func (s VatSummary) Rounded() VatSummary {
	r := s
	for _, f := range []*decimal.Decimal{
		&r.VatableSales, &r.SalesToGovernment, &r.ZeroRatedSales, &r.VatExemptSales, &r.TotalSales,
		&r.OutputVat, &r.OutputVatGovernment, &r.TotalOutputVat,
		&r.InputVatGoods, &r.InputVatCapital, &r.InputVatServices, &r.InputVatImports, &r.TotalInputVat,
		&r.NetVat,
	} {
		*f = f.Round(2)
	}
	return r
}

// MatchedPair links one accounting record to the bank line it was paired with.
type MatchedPair struct {
	MatchGroupID string          `json:"match_group_id"`
	RecordID     string          `json:"record_id"`
	BankID       string          `json:"bank_id"`
	RecordAmount decimal.Decimal `json:"record_amount"`
	BankAmount   decimal.Decimal `json:"bank_amount"`
	DateDiffDays *int            `json:"date_diff_days"`
}

// MatchResult is the output of one matcher pass.
type MatchResult struct {
	MatchedPairs         []MatchedPair `json:"matched_pairs"`
	UnmatchedRecords     []Transaction `json:"unmatched_records"`
	UnmatchedBankEntries []BankEntry   `json:"unmatched_bank_entries"`
	MatchRate            float64       `json:"match_rate"`
}

// MatchStats is the matching section of a ReconciliationResult.
type MatchStats struct {
	TotalRecords         int           `json:"total_records"`
	TotalBankEntries     int           `json:"total_bank_entries"`
	MatchedCount         int           `json:"matched_count"`
	UnmatchedRecordCount int           `json:"unmatched_record_count"`
	UnmatchedBankCount   int           `json:"unmatched_bank_count"`
	MatchRate            float64       `json:"match_rate"`
	MatchedPairs         []MatchedPair `json:"matched_pairs"`
	UnmatchedRecords     []Transaction `json:"unmatched_records"`
	UnmatchedBankEntries []BankEntry   `json:"unmatched_bank_entries"`
	Note                 string        `json:"note,omitempty"`
}

// DeclaredReport is a previously filed or calculated tax report. CalculatedData is
// keyed by the report line names (see processors.ReportLineKeys).
type DeclaredReport struct {
	ID             string                     `json:"id,omitempty"`
	Period         string                     `json:"period"`
	CalculatedData map[string]decimal.Decimal `json:"calculated_data"`
}

// ComparisonLine is one row of the computed-vs-declared table.
type ComparisonLine struct {
	Key        string          `json:"key"`
	Label      string          `json:"label"`
	Computed   decimal.Decimal `json:"computed"`
	Declared   decimal.Decimal `json:"declared"`
	Difference decimal.Decimal `json:"difference"`
	Matched    bool            `json:"matched"`
}

// Comparison is the line-by-line check against a declared report.
type Comparison struct {
	Lines          []ComparisonLine `json:"lines"`
	MatchedCount   int              `json:"matched_count"`
	MismatchCount  int              `json:"mismatch_count"`
	FullyMatched   bool             `json:"fully_matched"`
	DeclaredPeriod string           `json:"declared_period,omitempty"`
}

// ReconciliationResult is the orchestrator's single output document.
type ReconciliationResult struct {
	Period       string      `json:"period"`
	Summary      VatSummary  `json:"summary"`
	Comparison   *Comparison `json:"comparison,omitempty"`
	MatchStats   MatchStats  `json:"match_stats"`
	AnomalyCount int         `json:"anomaly_count"`
}

// SessionStatus tracks where a reconciliation session is in the pipeline.
type SessionStatus string

const (
	SessionDraft     SessionStatus = "draft"
	SessionParsed    SessionStatus = "parsed"
	SessionMatched   SessionStatus = "matched"
	SessionCompleted SessionStatus = "completed"
	SessionFailed    SessionStatus = "failed"
)

// Session groups the uploads and results of one filing period.
type Session struct {
	ID           string        `json:"id"`
	Period       string        `json:"period"`
	Status       SessionStatus `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`

	// Stored rows per source; filled by the service, not persisted.
	TransactionCounts map[SourceType]int `json:"transaction_counts,omitempty"`
}

// ReportLine is one named line of the tax-report template.
type ReportLine struct {
	Key   string          `json:"key"`
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// Rounded returns a copy of the result with summary and comparison amounts rounded
// half-up to 2 decimals, ready to be rendered or stored.
func (r ReconciliationResult) Rounded() ReconciliationResult {
	out := r
	out.Summary = r.Summary.Rounded()
	if r.Comparison != nil {
		c := *r.Comparison
		c.Lines = make([]ComparisonLine, len(r.Comparison.Lines))
		for i, line := range r.Comparison.Lines {
			line.Computed = line.Computed.Round(2)
			line.Declared = line.Declared.Round(2)
			line.Difference = line.Difference.Round(2)
			c.Lines[i] = line
		}
		out.Comparison = &c
	}
	return out
}

// Clone returns a copy that shares no maps or slices with s.
func (s VatSummary) Clone() VatSummary {
	out := s
	if s.ByVatType != nil {
		out.ByVatType = make(map[VatType]int, len(s.ByVatType))
		for k, v := range s.ByVatType {
			out.ByVatType[k] = v
		}
	}
	if s.ByCategory != nil {
		out.ByCategory = make(map[Category]int, len(s.ByCategory))
		for k, v := range s.ByCategory {
			out.ByCategory[k] = v
		}
	}
	return out
}

// Clone returns a copy that shares no maps, slices or comparison with r.
func (r ReconciliationResult) Clone() ReconciliationResult {
	out := r
	out.Summary = r.Summary.Clone()
	if r.Comparison != nil {
		c := *r.Comparison
		c.Lines = cloneSlice(r.Comparison.Lines)
		out.Comparison = &c
	}
	out.MatchStats.MatchedPairs = cloneSlice(r.MatchStats.MatchedPairs)
	out.MatchStats.UnmatchedRecords = cloneSlice(r.MatchStats.UnmatchedRecords)
	out.MatchStats.UnmatchedBankEntries = cloneSlice(r.MatchStats.UnmatchedBankEntries)
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return append(make([]T, 0, len(in)), in...)
}
