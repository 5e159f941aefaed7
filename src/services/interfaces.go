// backend/src/services/interfaces.go
package services

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_services.go -package=mocks

import (
	"context"
	"errors"
	"io"

	"github.com/shopspring/decimal"
	"github.com/username/vatrecon/backend/src/models"
)

// Define common service errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrResultNotFound  = errors.New("session has not been reconciled yet")
	ErrNoTransactions  = errors.New("session has no sales or purchase records")
	ErrParsingFailed   = errors.New("csv parsing failed")
	ErrInvalidSource   = errors.New("invalid upload source")
)

// Tolerances are the matching tolerances used for both the primary matcher and the
// missing-invoice cross-match.
type Tolerances struct {
	Amount decimal.Decimal
	Days   int
}

// ReconciliationService runs the session pipeline: import, reconcile, detect, persist.
type ReconciliationService interface {
	CreateSession(ctx context.Context, period string) (*models.Session, error)
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)

	// ImportTransactions parses one uploaded file and upserts its rows. Returns the number of rows read.
	ImportTransactions(ctx context.Context, sessionID, source string, file io.Reader) (int, error)
	SetDeclaredReport(ctx context.Context, sessionID string, report models.DeclaredReport) error

	RunReconciliation(ctx context.Context, sessionID string) (*models.ReconciliationResult, error)
	GetResult(ctx context.Context, sessionID string) (*models.ReconciliationResult, error)
	GetAnomalies(ctx context.Context, sessionID string) ([]models.DetectedAnomaly, error)
	GetSummary(ctx context.Context, sessionID string) (*models.VatSummary, error)
	GetReportLines(ctx context.Context, sessionID string) ([]models.ReportLine, error)

	InvalidateSessionCache(sessionID string)
}
