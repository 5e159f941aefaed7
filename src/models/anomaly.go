package models

// AnomalyType names the kind of data-quality problem found.
type AnomalyType string

const (
	AnomalyDuplicate        AnomalyType = "duplicate"
	AnomalyVatMismatch      AnomalyType = "vat_mismatch"
	AnomalyIncompleteTIN    AnomalyType = "incomplete_tin"
	AnomalyUnusualAmount    AnomalyType = "unusual_amount"
	AnomalyUnmatchedDeposit AnomalyType = "unmatched_deposit"
	AnomalyUnmatchedPayment AnomalyType = "unmatched_payment"
	AnomalyMissingInvoice   AnomalyType = "missing_invoice"
)

// Severity of a detected anomaly.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Rank orders severities for display, high first.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 2
	}
	return 3
}

// DetectedAnomaly is a fact about a snapshot of transactions. It has no identity
// until persisted; ID and SessionID are filled in by the storage layer.
type DetectedAnomaly struct {
	ID            string         `json:"id,omitempty"`
	SessionID     string         `json:"session_id,omitempty"`
	AnomalyType   AnomalyType    `json:"anomaly_type"`
	Severity      Severity       `json:"severity"`
	Description   string         `json:"description"`
	Details       map[string]any `json:"details"`
	TransactionID *string        `json:"transaction_id,omitempty"`
}

// CloneAnomalies copies the slice and each Details map.
func CloneAnomalies(in []DetectedAnomaly) []DetectedAnomaly {
	if in == nil {
		return nil
	}
	out := make([]DetectedAnomaly, len(in))
	for i, a := range in {
		if a.Details != nil {
			details := make(map[string]any, len(a.Details))
			for k, v := range a.Details {
				details[k] = v
			}
			a.Details = details
		}
		out[i] = a
	}
	return out
}
