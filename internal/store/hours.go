package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"creneau/internal/model"
)

// GetOpeningHours returns the club's opening-hours configuration.
// Returns sql.ErrNoRows when the configuration was never seeded.
func (db *DB) GetOpeningHours(ctx context.Context) (model.OpeningHoursSettings, error) {
	var doc string
	err := db.QueryRowContext(ctx,
		`SELECT document FROM opening_hours WHERE id = 1`).Scan(&doc)
	if err != nil {
		return model.OpeningHoursSettings{}, err
	}
	var s model.OpeningHoursSettings
	if err := json.Unmarshal([]byte(doc), &s); err != nil {
		return model.OpeningHoursSettings{}, fmt.Errorf("decode opening hours: %w", err)
	}
	return s, nil
}

// SaveOpeningHours replaces the configuration. Holidays are kept sorted
// by date so listings and exports come out chronological.
func (db *DB) SaveOpeningHours(ctx context.Context, s model.OpeningHoursSettings) error {
	sort.Slice(s.Holidays, func(i, j int) bool {
		return s.Holidays[i].Date < s.Holidays[j].Date
	})
	doc, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode opening hours: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO opening_hours (id, document, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at`,
		string(doc), time.Now())
	if err != nil {
		return fmt.Errorf("save opening hours: %w", err)
	}
	return nil
}

// SeedOpeningHoursIfEmpty writes the given configuration only when none
// exists yet. Returns true when the seed was applied.
func (db *DB) SeedOpeningHoursIfEmpty(ctx context.Context, s model.OpeningHoursSettings) (bool, error) {
	_, err := db.GetOpeningHours(ctx)
	if err == nil {
		return false, nil
	}
	if err != sql.ErrNoRows {
		return false, err
	}
	if err := db.SaveOpeningHours(ctx, s); err != nil {
		return false, err
	}
	return true, nil
}
