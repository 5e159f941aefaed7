// backend/src/services/reconciliation_service.go
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/vatrecon/backend/src/logger"
	"github.com/username/vatrecon/backend/src/model"
	"github.com/username/vatrecon/backend/src/models"
	"github.com/username/vatrecon/backend/src/parsers"
	"github.com/username/vatrecon/backend/src/processors"
	"github.com/username/vatrecon/backend/src/security/validation"
)

const (
	ckSessionResult        = "res_reconciliation_session_%s"
	ckSessionAnomalies     = "res_anomalies_session_%s"
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

type reconciliationServiceImpl struct {
	db          *sql.DB
	reportCache *cache.Cache
	tolerances  Tolerances
}

func NewReconciliationService(db *sql.DB, reportCache *cache.Cache, tolerances Tolerances) ReconciliationService {
	return &reconciliationServiceImpl{
		db:          db,
		reportCache: reportCache,
		tolerances:  tolerances,
	}
}

// NewReportCache builds the result cache the service expects.
func NewReportCache(ttl time.Duration) *cache.Cache {
	if ttl <= 0 {
		ttl = DefaultCacheExpiration
	}
	return cache.New(ttl, CacheCleanupInterval)
}

func (s *reconciliationServiceImpl) CreateSession(ctx context.Context, period string) (*models.Session, error) {
	if err := validation.ValidatePeriod(period); err != nil {
		return nil, err
	}
	session := &models.Session{
		ID:     uuid.NewString(),
		Period: strings.TrimSpace(period),
		Status: models.SessionDraft,
	}
	if err := model.CreateSession(s.db, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	logger.FromContext(ctx).Info("Reconciliation session created", "sessionID", session.ID, "period", session.Period)
	return session, nil
}

// GetSession returns the session together with its stored row counts per source.
func (s *reconciliationServiceImpl) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.loadSession(sessionID)
	if err != nil {
		return nil, err
	}
	counts, err := model.CountTransactions(s.db, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions for session %s: %w", sessionID, err)
	}
	session.TransactionCounts = counts
	return session, nil
}

func (s *reconciliationServiceImpl) loadSession(sessionID string) (*models.Session, error) {
	session, err := model.GetSessionByID(s.db, sessionID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	return session, nil
}

func (s *reconciliationServiceImpl) ImportTransactions(ctx context.Context, sessionID, source string, file io.Reader) (int, error) {
	startTime := time.Now()
	log := logger.FromContext(ctx).With("sessionID", sessionID, "source", source)

	if _, err := s.loadSession(sessionID); err != nil {
		return 0, err
	}

	sourceType, err := parsers.SourceTypeOf(source)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}
	parser, err := parsers.GetParser(source)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}
	txs, err := parser.Parse(file)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	for _, tx := range txs {
		if tx.SourceType != sourceType {
			return 0, fmt.Errorf("%w: %s parser produced a %s row", ErrParsingFailed, source, tx.SourceType)
		}
	}

	if err := model.UpsertTransactions(s.db, sessionID, txs); err != nil {
		return 0, fmt.Errorf("failed to store transactions: %w", err)
	}
	if err := model.UpdateSessionStatus(s.db, sessionID, models.SessionParsed, ""); err != nil {
		return 0, fmt.Errorf("failed to update session status: %w", err)
	}
	s.InvalidateSessionCache(sessionID)

	log.Info("Transactions imported", "sourceType", sourceType, "count", len(txs), "duration", time.Since(startTime))
	return len(txs), nil
}

func (s *reconciliationServiceImpl) SetDeclaredReport(ctx context.Context, sessionID string, report models.DeclaredReport) error {
	session, err := s.loadSession(sessionID)
	if err != nil {
		return err
	}
	if err := validation.ValidateDeclaredValues(report.CalculatedData, processors.IsReportLineKey); err != nil {
		return err
	}
	if strings.TrimSpace(report.Period) == "" {
		report.Period = session.Period
	}

	if err := model.SaveDeclaredReport(s.db, sessionID, &report); err != nil {
		return fmt.Errorf("failed to save declared report: %w", err)
	}
	s.InvalidateSessionCache(sessionID)
	logger.FromContext(ctx).Info("Declared report saved", "sessionID", sessionID, "lines", len(report.CalculatedData))
	return nil
}

// RunReconciliation reconciles everything imported into the session, runs the detectors
// and replaces any earlier result. On failure the session is marked failed with the reason.
func (s *reconciliationServiceImpl) RunReconciliation(ctx context.Context, sessionID string) (result *models.ReconciliationResult, err error) {
	startTime := time.Now()
	log := logger.FromContext(ctx).With("sessionID", sessionID)

	session, err := s.loadSession(sessionID)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reconciliation panicked: %v", r)
		}
		if err != nil {
			log.Error("Reconciliation failed", "error", err)
			if statusErr := model.UpdateSessionStatus(s.db, sessionID, models.SessionFailed, err.Error()); statusErr != nil {
				log.Error("Failed to mark session as failed", "error", statusErr)
			}
			result = nil
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sales, err := model.ListTransactions(s.db, sessionID, models.SourceSalesRecord)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	purchases, err := model.ListTransactions(s.db, sessionID, models.SourcePurchaseRecord)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}
	bankTxs, err := model.ListTransactions(s.db, sessionID, models.SourceBankStatement)
	if err != nil {
		return nil, fmt.Errorf("failed to load bank statement: %w", err)
	}
	if len(sales)+len(purchases) == 0 {
		return nil, ErrNoTransactions
	}
	declared, err := model.GetDeclaredReport(s.db, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load declared report: %w", err)
	}

	bank := models.BankEntries(bankTxs)
	reconciled := processors.Reconcile(sales, purchases, bank, declared, session.Period, s.tolerances.Amount, s.tolerances.Days)
	if err := model.UpdateSessionStatus(s.db, sessionID, models.SessionMatched, ""); err != nil {
		return nil, fmt.Errorf("failed to update session status: %w", err)
	}
	log.Info("Matching finished",
		"records", reconciled.MatchStats.TotalRecords,
		"bankEntries", reconciled.MatchStats.TotalBankEntries,
		"matched", reconciled.MatchStats.MatchedCount,
		"matchRate", reconciled.MatchStats.MatchRate)

	anomalies := processors.DetectAll(
		processors.Snapshot(sales, purchases, bank),
		processors.DefaultDetectors(s.tolerances.Amount, s.tolerances.Days),
	)
	reconciled.AnomalyCount = len(anomalies)
	rounded := reconciled.Rounded()

	if err := model.SaveRunOutput(s.db, sessionID, rounded, anomalies); err != nil {
		return nil, fmt.Errorf("failed to persist reconciliation: %w", err)
	}
	if err := model.UpdateSessionStatus(s.db, sessionID, models.SessionCompleted, ""); err != nil {
		return nil, fmt.Errorf("failed to update session status: %w", err)
	}

	s.InvalidateSessionCache(sessionID)
	cached := rounded.Clone()
	s.reportCache.Set(fmt.Sprintf(ckSessionResult, sessionID), &cached, cache.DefaultExpiration)

	log.Info("Reconciliation completed", "anomalies", len(anomalies), "duration", time.Since(startTime))
	return &rounded, nil
}

func (s *reconciliationServiceImpl) GetResult(ctx context.Context, sessionID string) (*models.ReconciliationResult, error) {
	cacheKey := fmt.Sprintf(ckSessionResult, sessionID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		logger.FromContext(ctx).Debug("Reconciliation result served from cache", "sessionID", sessionID)
		result := cached.(*models.ReconciliationResult).Clone()
		return &result, nil
	}

	if _, err := s.loadSession(sessionID); err != nil {
		return nil, err
	}
	result, err := model.GetResult(s.db, sessionID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrResultNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to load result: %w", err)
	}

	cached := result.Clone()
	s.reportCache.Set(cacheKey, &cached, cache.DefaultExpiration)
	return result, nil
}

// GetAnomalies returns the anomalies of the latest run, most severe first.
func (s *reconciliationServiceImpl) GetAnomalies(ctx context.Context, sessionID string) ([]models.DetectedAnomaly, error) {
	cacheKey := fmt.Sprintf(ckSessionAnomalies, sessionID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return models.CloneAnomalies(cached.([]models.DetectedAnomaly)), nil
	}

	if _, err := s.GetResult(ctx, sessionID); err != nil {
		return nil, err
	}
	anomalies, err := model.ListAnomalies(s.db, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load anomalies: %w", err)
	}
	processors.SortAnomalies(anomalies)

	s.reportCache.Set(cacheKey, models.CloneAnomalies(anomalies), cache.DefaultExpiration)
	return anomalies, nil
}

func (s *reconciliationServiceImpl) GetSummary(ctx context.Context, sessionID string) (*models.VatSummary, error) {
	result, err := s.GetResult(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	summary := result.Summary.Clone()
	return &summary, nil
}

func (s *reconciliationServiceImpl) GetReportLines(ctx context.Context, sessionID string) ([]models.ReportLine, error) {
	summary, err := s.GetSummary(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return processors.ReportLines(*summary), nil
}

func (s *reconciliationServiceImpl) InvalidateSessionCache(sessionID string) {
	s.reportCache.Delete(fmt.Sprintf(ckSessionResult, sessionID))
	s.reportCache.Delete(fmt.Sprintf(ckSessionAnomalies, sessionID))
}
