// Package reminders runs the monthly quota reminder loop: from the
// configured day of month, members whose next-month slot count is below
// the quota get one nudge. Redis keeps the sent mark so restarts and
// multiple instances never double-send.
package reminders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"creneau/internal/metrics"
	"creneau/internal/model"
	"creneau/internal/quota"
	"creneau/internal/template"
)

// The sent mark outlives the month it guards, then expires on its own.
const dedupeTTL = 45 * 24 * time.Hour

// Store is the persistent data the loop reads.
type Store interface {
	GetAllUsers(ctx context.Context) ([]model.User, error)
	GetUserSlots(ctx context.Context, userID string) ([]model.Slot, error)
	GetSettings(ctx context.Context) (model.Settings, error)
}

// Dedupe records sent reminders. Implemented by state.Store.
type Dedupe interface {
	MarkReminderSent(ctx context.Context, userID string, monthKey string, ttl time.Duration) (bool, error)
	ClearReminderMark(ctx context.Context, userID string, monthKey string) error
}

// Notifier delivers the reminder to the member.
type Notifier interface {
	SendQuotaReminder(ctx context.Context, user model.User, year int, month time.Month, missing int) error
}

// Config for the reminder loop.
type Config struct {
	CheckInterval time.Duration
	SendRate      rate.Limit
	SendBurst     int
}

// Service is the reminder loop.
type Service struct {
	cfg      Config
	store    Store
	dedupe   Dedupe
	notifier Notifier
	limiter  *rate.Limiter
	logger   *zerolog.Logger

	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool

	// Test seam; defaults to time.Now.
	now func() time.Time
}

func NewService(cfg Config, store Store, dedupe Dedupe, notifier Notifier, logger *zerolog.Logger) *Service {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Hour
	}
	if cfg.SendRate <= 0 {
		cfg.SendRate = 20
	}
	if cfg.SendBurst <= 0 {
		cfg.SendBurst = 30
	}
	return &Service{
		cfg:      cfg,
		store:    store,
		dedupe:   dedupe,
		notifier: notifier,
		limiter:  rate.NewLimiter(cfg.SendRate, cfg.SendBurst),
		logger:   logger,
		stopCh:   make(chan struct{}),
		now:      time.Now,
	}
}

// Start begins the check loop.
func (s *Service) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop()

	s.logger.Info().
		Dur("check_interval", s.cfg.CheckInterval).
		Msg("reminder service started")
}

// Stop gracefully stops the loop.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	s.logger.Info().Msg("reminder service stopped")
}

func (s *Service) loop() {
	defer s.wg.Done()

	s.runOnce()

	ticker := time.NewTicker(s.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.runOnce()
		}
	}
}

func (s *Service) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := s.CheckAndSend(ctx); err != nil {
		s.logger.Error().Err(err).Msg("reminder pass failed")
	}
}

// CheckAndSend walks every member once and sends due reminders.
func (s *Service) CheckAndSend(ctx context.Context) error {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	users, err := s.store.GetAllUsers(ctx)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}

	now := s.now()
	year, month := template.NextMonth(now)
	monthKey := fmt.Sprintf("%04d-%02d", year, int(month))

	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		slots, err := s.store.GetUserSlots(ctx, user.ID)
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", user.ID).Msg("load slots")
			continue
		}
		if !quota.ReminderDue(now, user, slots, settings) {
			continue
		}

		first, err := s.dedupe.MarkReminderSent(ctx, user.ID, monthKey, dedupeTTL)
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", user.ID).Msg("dedupe check")
			continue
		}
		if !first {
			continue
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}

		missing := settings.MinSlotsRequired - quota.Count(user.ID, slots, year, month)
		if err := s.notifier.SendQuotaReminder(ctx, user, year, month, missing); err != nil {
			s.logger.Error().Err(err).Str("user_id", user.ID).Msg("send reminder")
			// Release the mark so the next pass retries the member.
			if clearErr := s.dedupe.ClearReminderMark(ctx, user.ID, monthKey); clearErr != nil {
				s.logger.Error().Err(clearErr).Str("user_id", user.ID).Msg("release reminder mark")
			}
			continue
		}

		metrics.IncReminderSent()
		s.logger.Info().
			Str("user_id", user.ID).
			Str("month", monthKey).
			Int("missing", missing).
			Msg("quota reminder sent")
	}
	return nil
}
