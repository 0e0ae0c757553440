package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"studytrack/backend/internal/model"
)

// PreferencesRepository stores each user's subject document as JSON
// columns in a single row. The preferences are a document, not a
// relational schema; uniqueness rules live in the service layer.
type PreferencesRepository struct {
	db *sql.DB
}

func NewPreferencesRepository(db *sql.DB) *PreferencesRepository {
	return &PreferencesRepository{db: db}
}

func (r *PreferencesRepository) Create(ctx context.Context, userID string, prefs model.Preferences) error {
	subjects, colors, err := encodePreferences(prefs)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(
		ctx,
		`INSERT INTO preferences (user_id, subjects, colors, updated_at)
		 VALUES (?, ?, ?, ?)`,
		userID,
		subjects,
		colors,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("create preferences: %w", err)
	}
	return nil
}

func (r *PreferencesRepository) Get(ctx context.Context, userID string) (*model.Preferences, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT subjects, colors FROM preferences WHERE user_id = ?`,
		userID,
	)

	var subjectsRaw, colorsRaw string
	if err := row.Scan(&subjectsRaw, &colorsRaw); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get preferences: %w", err)
	}

	prefs := model.Preferences{
		Subjects: []string{},
		Colors:   map[string]string{},
	}
	if err := json.Unmarshal([]byte(subjectsRaw), &prefs.Subjects); err != nil {
		return nil, fmt.Errorf("decode preferences subjects: %w", err)
	}
	if err := json.Unmarshal([]byte(colorsRaw), &prefs.Colors); err != nil {
		return nil, fmt.Errorf("decode preferences colors: %w", err)
	}
	return &prefs, nil
}

func (r *PreferencesRepository) Put(ctx context.Context, userID string, prefs model.Preferences) error {
	subjects, colors, err := encodePreferences(prefs)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(
		ctx,
		`INSERT INTO preferences (user_id, subjects, colors, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		     subjects = excluded.subjects,
		     colors = excluded.colors,
		     updated_at = excluded.updated_at`,
		userID,
		subjects,
		colors,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("put preferences: %w", err)
	}
	return nil
}

func encodePreferences(prefs model.Preferences) (string, string, error) {
	if prefs.Subjects == nil {
		prefs.Subjects = []string{}
	}
	if prefs.Colors == nil {
		prefs.Colors = map[string]string{}
	}
	subjects, err := json.Marshal(prefs.Subjects)
	if err != nil {
		return "", "", fmt.Errorf("encode preferences subjects: %w", err)
	}
	colors, err := json.Marshal(prefs.Colors)
	if err != nil {
		return "", "", fmt.Errorf("encode preferences colors: %w", err)
	}
	return string(subjects), string(colors), nil
}
