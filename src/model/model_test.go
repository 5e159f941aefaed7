package model

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/vatrecon/backend/src/database"
	"github.com/username/vatrecon/backend/src/models"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenAndMigrate(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newSession(t *testing.T, db *sql.DB) *models.Session {
	t.Helper()
	s := &models.Session{ID: uuid.NewString(), Period: "2026-01"}
	require.NoError(t, CreateSession(db, s))
	return s
}

func TestSessionLifecycle(t *testing.T) {
	db := setupDB(t)
	s := newSession(t, db)

	got, err := GetSessionByID(db, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionDraft, got.Status)
	assert.Equal(t, "2026-01", got.Period)

	require.NoError(t, UpdateSessionStatus(db, s.ID, models.SessionFailed, "boom"))
	got, err = GetSessionByID(db, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionFailed, got.Status)
	assert.Equal(t, "boom", got.ErrorMessage)

	require.NoError(t, UpdateSessionStatus(db, s.ID, models.SessionCompleted, "ignored"))
	got, err = GetSessionByID(db, s.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ErrorMessage)

	_, err = GetSessionByID(db, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, UpdateSessionStatus(db, "missing", models.SessionParsed, ""), ErrNotFound)
}

func TestUpsertAndListTransactions(t *testing.T) {
	db := setupDB(t)
	s := newSession(t, db)

	d := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	tin := "123-456"
	txs := []models.Transaction{
		{ID: "S2", SourceType: models.SourceSalesRecord, Date: &d, Description: "Consulting", Amount: decimal.RequireFromString("1000.50"),
			VatAmount: decimal.RequireFromString("120.06"), VatType: models.VatTypeVatable, Category: models.CategorySale, TIN: &tin, Confidence: decimal.NewFromInt(1)},
		{ID: "S1", SourceType: models.SourceSalesRecord, Description: "Undated", Amount: decimal.NewFromInt(5), Confidence: decimal.NewFromInt(1)},
	}

	require.NoError(t, UpsertTransactions(db, s.ID, txs))
	require.NoError(t, UpsertTransactions(db, s.ID, txs), "re-import is idempotent")

	got, err := ListTransactions(db, s.ID, models.SourceSalesRecord)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "S2", got[0].ID, "import order is kept")
	assert.Equal(t, "2026-01-05", got[0].DateKey())
	assert.True(t, decimal.RequireFromString("1000.50").Equal(got[0].Amount))
	assert.Equal(t, "123-456", got[0].TINValue())
	assert.Nil(t, got[1].Date)
	assert.Nil(t, got[1].TIN)

	bank := []models.Transaction{{ID: "S1", SourceType: models.SourceBankStatement, Amount: decimal.NewFromInt(5), Type: models.EntryDebit, Confidence: decimal.NewFromInt(1)}}
	require.NoError(t, UpsertTransactions(db, s.ID, bank), "same id under another source does not collide")

	counts, err := CountTransactions(db, s.ID)
	require.NoError(t, err)
	assert.Equal(t, map[models.SourceType]int{models.SourceSalesRecord: 2, models.SourceBankStatement: 1}, counts)

	purchases, err := ListTransactions(db, s.ID, models.SourcePurchaseRecord)
	require.NoError(t, err)
	assert.Empty(t, purchases)
}

func TestDeclaredReport(t *testing.T) {
	db := setupDB(t)
	s := newSession(t, db)

	none, err := GetDeclaredReport(db, s.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	report := &models.DeclaredReport{Period: "2026-01", CalculatedData: map[string]decimal.Decimal{"vatable_sales": decimal.RequireFromString("100000.00")}}
	require.NoError(t, SaveDeclaredReport(db, s.ID, report))
	assert.NotEmpty(t, report.ID)

	report2 := &models.DeclaredReport{Period: "2026-01", CalculatedData: map[string]decimal.Decimal{"output_vat": decimal.NewFromInt(12000)}}
	require.NoError(t, SaveDeclaredReport(db, s.ID, report2))

	got, err := GetDeclaredReport(db, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, report2.ID, got.ID)
	assert.Len(t, got.CalculatedData, 1)
	assert.True(t, decimal.NewFromInt(12000).Equal(got.CalculatedData["output_vat"]))
}

func TestSaveRunOutput_ReplacesPreviousRun(t *testing.T) {
	db := setupDB(t)
	s := newSession(t, db)

	_, err := GetResult(db, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	txID := "P1"
	first := []models.DetectedAnomaly{
		{AnomalyType: models.AnomalyDuplicate, Severity: models.SeverityMedium, Description: "dup", Details: map[string]any{"count": 2}, TransactionID: &txID},
		{AnomalyType: models.AnomalyVatMismatch, Severity: models.SeverityHigh, Description: "vat", Details: map[string]any{}},
	}
	result := models.ReconciliationResult{Period: "2026-01", AnomalyCount: 2, Summary: models.VatSummary{Period: "2026-01", NetVat: decimal.NewFromInt(10)}}
	require.NoError(t, SaveRunOutput(db, s.ID, result, first))

	stored, err := ListAnomalies(db, s.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, models.AnomalyDuplicate, stored[0].AnomalyType)
	assert.Equal(t, s.ID, stored[0].SessionID)
	assert.NotEmpty(t, stored[0].ID)
	assert.Equal(t, float64(2), stored[0].Details["count"], "details round-trip through JSON")
	require.NotNil(t, stored[0].TransactionID)
	assert.Nil(t, stored[1].TransactionID)

	result.AnomalyCount = 0
	require.NoError(t, SaveRunOutput(db, s.ID, result, nil))

	stored, err = ListAnomalies(db, s.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)

	got, err := GetResult(db, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.AnomalyCount)
	assert.True(t, decimal.NewFromInt(10).Equal(got.Summary.NetVat))
}
