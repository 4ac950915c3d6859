package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"creneau/internal/model"
)

const slotColumns = `id, user_id, user_name, start_time, end_time, created_at, updated_at`

// CreateSlot persists a new reservation and returns it with its id set.
func (db *DB) CreateSlot(ctx context.Context, draft model.SlotDraft) (*model.Slot, error) {
	now := time.Now()
	s := &model.Slot{
		ID:        uuid.NewString(),
		UserID:    draft.UserID,
		UserName:  draft.UserName,
		Start:     draft.Start,
		End:       draft.End,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO slots (id, user_id, user_name, start_time, end_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.UserName, s.Start, s.End, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}
	return s, nil
}

// CreateSlots persists a batch of drafts in one transaction. Used by the
// template applier so a month either lands whole or not at all.
func (db *DB) CreateSlots(ctx context.Context, drafts []model.SlotDraft) ([]model.Slot, error) {
	if len(drafts) == 0 {
		return nil, nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO slots (id, user_id, user_name, start_time, end_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	out := make([]model.Slot, 0, len(drafts))
	for _, d := range drafts {
		s := model.Slot{
			ID:        uuid.NewString(),
			UserID:    d.UserID,
			UserName:  d.UserName,
			Start:     d.Start,
			End:       d.End,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := stmt.ExecContext(ctx, s.ID, s.UserID, s.UserName, s.Start, s.End, s.CreatedAt, s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("insert slot %s: %w", s.Start.Format(model.DateLayout), err)
		}
		out = append(out, s)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return out, nil
}

// GetSlot returns one reservation by id.
func (db *DB) GetSlot(ctx context.Context, id string) (*model.Slot, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+slotColumns+` FROM slots WHERE id = ?`, id)
	var s model.Slot
	err := row.Scan(&s.ID, &s.UserID, &s.UserName, &s.Start, &s.End, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSlot rewrites the slot's time range.
func (db *DB) UpdateSlot(ctx context.Context, id string, start, end time.Time) error {
	res, err := db.ExecContext(ctx, `
		UPDATE slots SET start_time = ?, end_time = ?, updated_at = ? WHERE id = ?`,
		start, end, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update slot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteSlot removes a reservation.
func (db *DB) DeleteSlot(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM slots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetUserSlots returns every reservation of one member, soonest first.
func (db *DB) GetUserSlots(ctx context.Context, userID string) ([]model.Slot, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+slotColumns+` FROM slots WHERE user_id = ? ORDER BY start_time ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSlots(rows)
}

// GetSlotsForMonth returns all reservations whose start falls in the month.
func (db *DB) GetSlotsForMonth(ctx context.Context, year int, month time.Month) ([]model.Slot, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 1, 0)
	return db.GetSlotsForRange(ctx, from, to)
}

// GetSlotsForRange returns reservations starting in [from, to), soonest first.
func (db *DB) GetSlotsForRange(ctx context.Context, from, to time.Time) ([]model.Slot, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+slotColumns+` FROM slots
		WHERE start_time >= ? AND start_time < ?
		ORDER BY start_time ASC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSlots(rows)
}

func collectSlots(rows *sql.Rows) ([]model.Slot, error) {
	var slots []model.Slot
	for rows.Next() {
		var s model.Slot
		if err := rows.Scan(&s.ID, &s.UserID, &s.UserName, &s.Start, &s.End, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}
