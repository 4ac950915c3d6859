package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"creneau/internal/model"
)

// GetUserByTelegramID returns the member bound to a Telegram account.
// Returns sql.ErrNoRows when the account is unknown.
func (db *DB) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, telegram_id, name, role, template, created_at, updated_at
		FROM users WHERE telegram_id = ?`, telegramID)
	return scanUser(row)
}

// GetUserByID returns the member with the given internal id.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, telegram_id, name, role, template, created_at, updated_at
		FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	var tpl sql.NullString
	err := row.Scan(&u.ID, &u.TelegramID, &u.Name, &u.Role, &tpl, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if tpl.Valid && tpl.String != "" {
		if err := json.Unmarshal([]byte(tpl.String), &u.Template); err != nil {
			return nil, fmt.Errorf("decode template for %s: %w", u.ID, err)
		}
	}
	return &u, nil
}

// CreateOrUpdateUser registers a member on first contact and refreshes
// the display name on subsequent ones. The role is never downgraded here.
func (db *DB) CreateOrUpdateUser(ctx context.Context, telegramID int64, name string, role model.Role) (*model.User, error) {
	existing, err := db.GetUserByTelegramID(ctx, telegramID)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	now := time.Now()
	if err == sql.ErrNoRows {
		u := &model.User{
			ID:         uuid.NewString(),
			TelegramID: telegramID,
			Name:       name,
			Role:       role,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		_, err := db.ExecContext(ctx, `
			INSERT INTO users (id, telegram_id, name, role, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			u.ID, u.TelegramID, u.Name, string(u.Role), u.CreatedAt, u.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return u, nil
	}

	keepRole := existing.Role
	if role == model.RoleAdmin {
		keepRole = model.RoleAdmin
	}
	_, err = db.ExecContext(ctx, `
		UPDATE users SET name = ?, role = ?, updated_at = ? WHERE id = ?`,
		name, string(keepRole), now, existing.ID)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	existing.Name = name
	existing.Role = keepRole
	existing.UpdatedAt = now
	return existing, nil
}

// GetAllUsers returns every member, ordered by name.
func (db *DB) GetAllUsers(ctx context.Context) ([]model.User, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, telegram_id, name, role, template, created_at, updated_at
		FROM users ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		var tpl sql.NullString
		if err := rows.Scan(&u.ID, &u.TelegramID, &u.Name, &u.Role, &tpl, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		if tpl.Valid && tpl.String != "" {
			if err := json.Unmarshal([]byte(tpl.String), &u.Template); err != nil {
				return nil, fmt.Errorf("decode template for %s: %w", u.ID, err)
			}
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// SaveTemplate replaces the member's weekly template.
func (db *DB) SaveTemplate(ctx context.Context, userID string, tpl model.WeeklyTemplate) error {
	data, err := json.Marshal(tpl)
	if err != nil {
		return fmt.Errorf("encode template: %w", err)
	}
	res, err := db.ExecContext(ctx, `
		UPDATE users SET template = ?, updated_at = ? WHERE id = ?`,
		string(data), time.Now(), userID)
	if err != nil {
		return fmt.Errorf("save template: %w", err)
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

// GetTemplate returns the member's weekly template, empty when unset.
func (db *DB) GetTemplate(ctx context.Context, userID string) (model.WeeklyTemplate, error) {
	var tpl sql.NullString
	err := db.QueryRowContext(ctx, `SELECT template FROM users WHERE id = ?`, userID).Scan(&tpl)
	if err != nil {
		return nil, err
	}
	if !tpl.Valid || tpl.String == "" {
		return nil, nil
	}
	var out model.WeeklyTemplate
	if err := json.Unmarshal([]byte(tpl.String), &out); err != nil {
		return nil, fmt.Errorf("decode template for %s: %w", userID, err)
	}
	return out, nil
}
