package model

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/username/vatrecon/backend/src/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

func CreateSession(db *sql.DB, session *models.Session) error {
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now
	if session.Status == "" {
		session.Status = models.SessionDraft
	}

	query := `
	INSERT INTO sessions (id, period, status, error_message, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)`
	stmt, err := db.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(session.ID, session.Period, session.Status, session.ErrorMessage, session.CreatedAt, session.UpdatedAt)
	return err
}

func GetSessionByID(db *sql.DB, id string) (*models.Session, error) {
	query := `
	SELECT id, period, status, error_message, created_at, updated_at
	FROM sessions
	WHERE id = ?`

	var session models.Session
	err := db.QueryRow(query, id).Scan(
		&session.ID,
		&session.Period,
		&session.Status,
		&session.ErrorMessage,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &session, nil
}

// UpdateSessionStatus moves a session to status. errorMessage is cleared unless the status is failed.
func UpdateSessionStatus(db *sql.DB, id string, status models.SessionStatus, errorMessage string) error {
	if status != models.SessionFailed {
		errorMessage = ""
	}
	res, err := db.Exec(`UPDATE sessions SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		status, errorMessage, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return nil
}
