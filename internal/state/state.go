// Package state keeps short-lived conversational and coordination data
// in Redis: bot dialog drafts, reminder dedupe marks and the
// availability cache. Everything here is disposable; the store package
// holds the durable state.
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Dialog TTL. An abandoned booking draft should not greet the member a
// week later.
const dialogTTL = 24 * time.Hour

// Store wraps the Redis client.
type Store struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Ping verifies the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func dialogKey(telegramID int64) string {
	return fmt.Sprintf("dialog:%d", telegramID)
}

// SaveDialog persists the member's in-flight dialog value as JSON.
func (s *Store) SaveDialog(ctx context.Context, telegramID int64, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode dialog: %w", err)
	}
	return s.rdb.Set(ctx, dialogKey(telegramID), data, dialogTTL).Err()
}

// LoadDialog restores the member's dialog into v. Returns false when no
// dialog is in flight.
func (s *Store) LoadDialog(ctx context.Context, telegramID int64, v any) (bool, error) {
	data, err := s.rdb.Get(ctx, dialogKey(telegramID)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode dialog: %w", err)
	}
	return true, nil
}

// ResetDialog drops the member's dialog.
func (s *Store) ResetDialog(ctx context.Context, telegramID int64) error {
	return s.rdb.Del(ctx, dialogKey(telegramID)).Err()
}

// MarkReminderSent records that the quota reminder for the given month
// went out. Returns false when another worker already sent it. The mark
// expires after ttl so a new month starts clean even if cleanup never
// runs.
func (s *Store) MarkReminderSent(ctx context.Context, userID string, monthKey string, ttl time.Duration) (bool, error) {
	key := reminderKey(userID, monthKey)
	return s.rdb.SetNX(ctx, key, time.Now().Format(time.RFC3339), ttl).Result()
}

// ClearReminderMark releases a sent mark so the reminder can be retried,
// used when the delivery behind the mark failed.
func (s *Store) ClearReminderMark(ctx context.Context, userID string, monthKey string) error {
	return s.rdb.Del(ctx, reminderKey(userID, monthKey)).Err()
}

func reminderKey(userID, monthKey string) string {
	return fmt.Sprintf("reminder:%s:%s", userID, monthKey)
}

// CacheAvailability stores a rendered availability payload for reuse by
// the HTTP API.
func (s *Store) CacheAvailability(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, "avail:"+key, payload, ttl).Err()
}

// CachedAvailability returns a previously cached payload, nil on miss.
func (s *Store) CachedAvailability(ctx context.Context, key string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, "avail:"+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// InvalidateAvailability drops all cached availability payloads. Called
// after any slot or opening-hours change.
func (s *Store) InvalidateAvailability(ctx context.Context) error {
	iter := s.rdb.Scan(ctx, 0, "avail:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}
