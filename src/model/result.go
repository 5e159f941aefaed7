package model

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/username/vatrecon/backend/src/models"
)

// SaveDeclaredReport stores the declared report of a session, replacing any earlier one.
func SaveDeclaredReport(db *sql.DB, sessionID string, report *models.DeclaredReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	data, err := json.Marshal(report.CalculatedData)
	if err != nil {
		return fmt.Errorf("encode calculated data: %w", err)
	}

	_, err = db.Exec(`
        INSERT INTO declared_reports (session_id, id, period, calculated_data, created_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(session_id) DO UPDATE SET
            id = excluded.id,
            period = excluded.period,
            calculated_data = excluded.calculated_data,
            created_at = excluded.created_at;
    `, sessionID, report.ID, report.Period, string(data), time.Now().UTC())
	return err
}

// GetDeclaredReport returns nil, nil when the session has no declared report.
func GetDeclaredReport(db *sql.DB, sessionID string) (*models.DeclaredReport, error) {
	var report models.DeclaredReport
	var data string
	err := db.QueryRow(`SELECT id, period, calculated_data FROM declared_reports WHERE session_id = ?`, sessionID).
		Scan(&report.ID, &report.Period, &data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	report.CalculatedData = map[string]decimal.Decimal{}
	if err := json.Unmarshal([]byte(data), &report.CalculatedData); err != nil {
		return nil, fmt.Errorf("decode calculated data: %w", err)
	}
	return &report, nil
}

// SaveRunOutput replaces a session's reconciliation result and anomalies atomically.
// Anomalies get fresh ids and keep their slice order.
func SaveRunOutput(db *sql.DB, sessionID string, result models.ReconciliationResult, anomalies []models.DetectedAnomaly) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	dbTx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.Exec(`
        INSERT INTO reconciliation_results (session_id, result_json, anomaly_count, created_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(session_id) DO UPDATE SET
            result_json = excluded.result_json,
            anomaly_count = excluded.anomaly_count,
            created_at = excluded.created_at;
    `, sessionID, string(payload), result.AnomalyCount, time.Now().UTC()); err != nil {
		return fmt.Errorf("save result: %w", err)
	}

	if _, err := dbTx.Exec(`DELETE FROM anomalies WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("clear anomalies: %w", err)
	}

	stmt, err := dbTx.Prepare(`
	INSERT INTO anomalies (id, session_id, position, anomaly_type, severity, description, details, transaction_id)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare anomaly insert: %w", err)
	}
	defer stmt.Close()

	for i, a := range anomalies {
		details, err := json.Marshal(a.Details)
		if err != nil {
			return fmt.Errorf("encode anomaly details: %w", err)
		}
		var txID any
		if a.TransactionID != nil {
			txID = *a.TransactionID
		}
		if _, err := stmt.Exec(uuid.NewString(), sessionID, i, a.AnomalyType, a.Severity, a.Description, string(details), txID); err != nil {
			return fmt.Errorf("save anomaly: %w", err)
		}
	}

	return dbTx.Commit()
}

// GetResult loads the stored result of a session.
func GetResult(db *sql.DB, sessionID string) (*models.ReconciliationResult, error) {
	var payload string
	err := db.QueryRow(`SELECT result_json FROM reconciliation_results WHERE session_id = ?`, sessionID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("result for session %s: %w", sessionID, ErrNotFound)
		}
		return nil, err
	}

	var result models.ReconciliationResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &result, nil
}

// ListAnomalies returns the stored anomalies of a session in detection order.
func ListAnomalies(db *sql.DB, sessionID string) ([]models.DetectedAnomaly, error) {
	rows, err := db.Query(`
	SELECT id, session_id, anomaly_type, severity, description, details, transaction_id
	FROM anomalies
	WHERE session_id = ?
	ORDER BY position ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	anomalies := []models.DetectedAnomaly{}
	for rows.Next() {
		var a models.DetectedAnomaly
		var details string
		var txID sql.NullString
		if err := rows.Scan(&a.ID, &a.SessionID, &a.AnomalyType, &a.Severity, &a.Description, &details, &txID); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(details), &a.Details); err != nil {
			return nil, fmt.Errorf("decode anomaly details: %w", err)
		}
		if txID.Valid {
			v := txID.String
			a.TransactionID = &v
		}
		anomalies = append(anomalies, a)
	}
	return anomalies, rows.Err()
}
