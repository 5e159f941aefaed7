package model

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/username/vatrecon/backend/src/models"
)

// UpsertTransactions saves parsed rows for a session in one transaction. Rows are keyed by
// (session, source_type, id), so importing the same file twice leaves one copy of each row.
// Position follows the slice order and is what ListTransactions sorts by.
func UpsertTransactions(db *sql.DB, sessionID string, txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	dbTx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	// New rows go after what the session already holds for this source.
	var next int
	if err := dbTx.QueryRow(`SELECT COALESCE(MAX(position), -1) + 1 FROM transactions WHERE session_id = ? AND source_type = ?`,
		sessionID, txs[0].SourceType).Scan(&next); err != nil {
		return fmt.Errorf("read next position: %w", err)
	}

	stmt, err := dbTx.Prepare(`
        INSERT INTO transactions (session_id, source_type, id, position, date, description, amount, vat_amount, vat_type, category, tin, confidence, entry_type)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(session_id, source_type, id) DO UPDATE SET
            date = excluded.date,
            description = excluded.description,
            amount = excluded.amount,
            vat_amount = excluded.vat_amount,
            vat_type = excluded.vat_type,
            category = excluded.category,
            tin = excluded.tin,
            confidence = excluded.confidence,
            entry_type = excluded.entry_type;
    `)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for i, tx := range txs {
		var date, tin any
		if tx.Date != nil {
			date = tx.DateKey()
		}
		if tx.TIN != nil {
			tin = *tx.TIN
		}
		if _, err := stmt.Exec(
			sessionID, tx.SourceType, tx.ID, next+i, date, tx.Description,
			tx.Amount.String(), tx.VatAmount.String(), tx.VatType, tx.Category, tin, tx.Confidence.String(), tx.Type,
		); err != nil {
			return fmt.Errorf("upsert transaction %s: %w", tx.ID, err)
		}
	}

	return dbTx.Commit()
}

// ListTransactions returns a session's rows of one source type in import order.
func ListTransactions(db *sql.DB, sessionID string, sourceType models.SourceType) ([]models.Transaction, error) {
	rows, err := db.Query(`
	SELECT id, source_type, date, description, amount, vat_amount, vat_type, category, tin, confidence, entry_type
	FROM transactions
	WHERE session_id = ? AND source_type = ?
	ORDER BY position ASC`, sessionID, sourceType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := []models.Transaction{}
	for rows.Next() {
		var tx models.Transaction
		var date, tin sql.NullString
		if err := rows.Scan(
			&tx.ID,
			&tx.SourceType,
			&date,
			&tx.Description,
			&tx.Amount,
			&tx.VatAmount,
			&tx.VatType,
			&tx.Category,
			&tin,
			&tx.Confidence,
			&tx.Type,
		); err != nil {
			return nil, err
		}
		if date.Valid {
			if d, err := time.Parse(time.DateOnly, date.String); err == nil {
				tx.Date = &d
			}
		}
		if tin.Valid {
			v := tin.String
			tx.TIN = &v
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// CountTransactions returns the number of stored rows per source type for a session.
func CountTransactions(db *sql.DB, sessionID string) (map[models.SourceType]int, error) {
	rows, err := db.Query(`SELECT source_type, COUNT(*) FROM transactions WHERE session_id = ? GROUP BY source_type`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.SourceType]int)
	for rows.Next() {
		var st models.SourceType
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, err
		}
		counts[st] = n
	}
	return counts, rows.Err()
}
