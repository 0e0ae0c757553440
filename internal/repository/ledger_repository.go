package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"studytrack/backend/internal/model"
)

// LedgerRepository accumulates studied hours per (user, date, subject)
// key. Writes are additive: committing the same key twice sums the
// hours instead of overwriting them.
type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) AddStudyTime(ctx context.Context, userID, date, subject string, hours float64) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO study_time (user_id, date, subject, hours, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, date, subject) DO UPDATE SET
		     hours = ROUND(study_time.hours + excluded.hours, 1),
		     updated_at = excluded.updated_at`,
		userID,
		date,
		subject,
		hours,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("add study time: %w", err)
	}
	return nil
}

// ListRange returns ledger rows for dates in [from, to], ordered by
// date then subject. Dates use the YYYY-MM-DD format, which sorts
// lexicographically.
func (r *LedgerRepository) ListRange(ctx context.Context, userID, from, to string) ([]model.StudyRecord, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT date, subject, hours
		 FROM study_time
		 WHERE user_id = ? AND date >= ? AND date <= ?
		 ORDER BY date ASC, subject ASC`,
		userID,
		from,
		to,
	)
	if err != nil {
		return nil, fmt.Errorf("list study time: %w", err)
	}
	defer rows.Close()

	records := make([]model.StudyRecord, 0)
	for rows.Next() {
		var record model.StudyRecord
		if err := rows.Scan(&record.Date, &record.Subject, &record.Hours); err != nil {
			return nil, fmt.Errorf("scan study record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate study records: %w", err)
	}
	return records, nil
}

// TotalsBySubject returns the all-time hours studied per subject.
func (r *LedgerRepository) TotalsBySubject(ctx context.Context, userID string) (map[string]float64, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT subject, ROUND(SUM(hours), 1)
		 FROM study_time
		 WHERE user_id = ?
		 GROUP BY subject`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("subject totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]float64)
	for rows.Next() {
		var subject string
		var hours float64
		if err := rows.Scan(&subject, &hours); err != nil {
			return nil, fmt.Errorf("scan subject total: %w", err)
		}
		totals[subject] = hours
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subject totals: %w", err)
	}
	return totals, nil
}
