package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"creneau/internal/model"
)

// GetSettings returns the club-wide reminder settings.
// Defaults are returned when nothing has been saved yet.
func (db *DB) GetSettings(ctx context.Context) (model.Settings, error) {
	var s model.Settings
	err := db.QueryRowContext(ctx, `
		SELECT reminder_start_day, min_slots_required FROM settings WHERE id = 1`).
		Scan(&s.ReminderStartDay, &s.MinSlotsRequired)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.DefaultSettings(), nil
		}
		return model.Settings{}, err
	}
	return s.Normalize(), nil
}

// UpdateSettings replaces club-wide reminder settings. Values are
// clamped into their valid ranges before the write.
func (db *DB) UpdateSettings(ctx context.Context, s model.Settings) (model.Settings, error) {
	s = s.Normalize()
	_, err := db.ExecContext(ctx, `
		INSERT INTO settings (id, reminder_start_day, min_slots_required, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			reminder_start_day = excluded.reminder_start_day,
			min_slots_required = excluded.min_slots_required,
			updated_at = excluded.updated_at`,
		s.ReminderStartDay, s.MinSlotsRequired, time.Now())
	if err != nil {
		return model.Settings{}, fmt.Errorf("update settings: %w", err)
	}
	return s, nil
}
