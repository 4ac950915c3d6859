package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"creneau/internal/model"
)

// CreateEvent publishes a club event on the calendar.
func (db *DB) CreateEvent(ctx context.Context, title string, start, end time.Time, allDay bool) (*model.Event, error) {
	now := time.Now()
	e := &model.Event{
		ID:        uuid.NewString(),
		Title:     title,
		Start:     start,
		End:       end,
		AllDay:    allDay,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO club_events (id, title, start_time, end_time, all_day, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.Start, e.End, e.AllDay, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return e, nil
}

// DeleteEvent removes a club event.
func (db *DB) DeleteEvent(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM club_events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
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

// GetEventsForRange returns events starting in [from, to), soonest first.
func (db *DB) GetEventsForRange(ctx context.Context, from, to time.Time) ([]model.Event, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, title, start_time, end_time, all_day, created_at, updated_at
		FROM club_events
		WHERE start_time >= ? AND start_time < ?
		ORDER BY start_time ASC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Start, &e.End, &e.AllDay, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
