// Package service coordinates the scheduling engine with storage and
// eventing. Handlers (Telegram bot, HTTP API) go through here; nothing
// below this layer knows about transports.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"creneau/internal/booking"
	"creneau/internal/events"
	"creneau/internal/hours"
	"creneau/internal/metrics"
	"creneau/internal/model"
	"creneau/internal/quota"
	"creneau/internal/template"
)

// Repo is the storage surface the service needs.
type Repo interface {
	GetOpeningHours(ctx context.Context) (model.OpeningHoursSettings, error)
	SaveOpeningHours(ctx context.Context, s model.OpeningHoursSettings) error
	GetSettings(ctx context.Context) (model.Settings, error)
	UpdateSettings(ctx context.Context, s model.Settings) (model.Settings, error)

	CreateSlot(ctx context.Context, draft model.SlotDraft) (*model.Slot, error)
	CreateSlots(ctx context.Context, drafts []model.SlotDraft) ([]model.Slot, error)
	GetSlot(ctx context.Context, id string) (*model.Slot, error)
	UpdateSlot(ctx context.Context, id string, start, end time.Time) error
	DeleteSlot(ctx context.Context, id string) error
	GetUserSlots(ctx context.Context, userID string) ([]model.Slot, error)
	GetSlotsForMonth(ctx context.Context, year int, month time.Month) ([]model.Slot, error)
	GetSlotsForRange(ctx context.Context, from, to time.Time) ([]model.Slot, error)

	GetTemplate(ctx context.Context, userID string) (model.WeeklyTemplate, error)
	SaveTemplate(ctx context.Context, userID string, tpl model.WeeklyTemplate) error
}

// Bus publishes domain events.
type Bus interface {
	Publish(event events.Event)
}

// BookingService owns slot lifecycle and template application.
type BookingService struct {
	repo   Repo
	bus    Bus
	logger *zerolog.Logger

	// Serializes template application per member so the duplicate
	// guard in the applier stays sound.
	applyMu  sync.Mutex
	applying map[string]*sync.Mutex
}

func NewBookingService(repo Repo, bus Bus, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		bus:      bus,
		logger:   logger,
		applying: make(map[string]*sync.Mutex),
	}
}

// CreateSlot validates and persists a manual reservation.
func (s *BookingService) CreateSlot(ctx context.Context, user *model.User, start, end time.Time) (*model.Slot, error) {
	if user == nil {
		return nil, booking.ErrNotAuthenticated
	}

	settings, err := s.repo.GetOpeningHours(ctx)
	if err != nil {
		return nil, fmt.Errorf("load opening hours: %w", err)
	}
	if err := booking.Validate(start, end, settings); err != nil {
		metrics.IncBookingRejected(rejectReason(err))
		return nil, err
	}

	slot, err := s.repo.CreateSlot(ctx, model.SlotDraft{
		UserID:   user.ID,
		UserName: user.Name,
		Start:    start,
		End:      end,
	})
	if err != nil {
		return nil, err
	}

	metrics.IncSlotCreated(metrics.OriginManual)
	s.bus.Publish(events.Event{Type: events.TypeSlotCreated, UserID: user.ID, SlotID: slot.ID})
	s.logger.Info().
		Str("user_id", user.ID).
		Str("slot_id", slot.ID).
		Time("start", start).
		Msg("slot created")
	return slot, nil
}

// UpdateSlot moves a reservation. Only the owner may move a slot.
func (s *BookingService) UpdateSlot(ctx context.Context, user *model.User, slotID string, start, end time.Time) error {
	if user == nil {
		return booking.ErrNotAuthenticated
	}
	slot, err := s.repo.GetSlot(ctx, slotID)
	if err != nil {
		return err
	}
	if slot.UserID != user.ID {
		return booking.ErrNotSlotOwner
	}

	settings, err := s.repo.GetOpeningHours(ctx)
	if err != nil {
		return fmt.Errorf("load opening hours: %w", err)
	}
	if err := booking.Validate(start, end, settings); err != nil {
		metrics.IncBookingRejected(rejectReason(err))
		return err
	}

	if err := s.repo.UpdateSlot(ctx, slotID, start, end); err != nil {
		return err
	}
	s.bus.Publish(events.Event{Type: events.TypeSlotUpdated, UserID: user.ID, SlotID: slotID})
	return nil
}

// DeleteSlot removes a reservation. Admins may remove anyone's slot,
// members only their own.
func (s *BookingService) DeleteSlot(ctx context.Context, user *model.User, slotID string) error {
	if user == nil {
		return booking.ErrNotAuthenticated
	}
	slot, err := s.repo.GetSlot(ctx, slotID)
	if err != nil {
		return err
	}
	if slot.UserID != user.ID && !user.IsAdmin() {
		return booking.ErrNotSlotOwner
	}

	if err := s.repo.DeleteSlot(ctx, slotID); err != nil {
		return err
	}
	metrics.IncSlotDeleted()
	s.bus.Publish(events.Event{Type: events.TypeSlotDeleted, UserID: slot.UserID, SlotID: slotID})
	s.logger.Info().
		Str("actor_id", user.ID).
		Str("slot_id", slotID).
		Msg("slot deleted")
	return nil
}

// ApplyTemplate expands the member's weekly template over the given
// month. Applications for one member are serialized; two concurrent
// calls yield the union, not doubles.
func (s *BookingService) ApplyTemplate(ctx context.Context, user *model.User, year int, month time.Month) (template.Result, error) {
	if user == nil {
		return template.Result{}, booking.ErrNotAuthenticated
	}

	mu := s.memberLock(user.ID)
	mu.Lock()
	defer mu.Unlock()

	tpl, err := s.repo.GetTemplate(ctx, user.ID)
	if err != nil {
		return template.Result{}, fmt.Errorf("load template: %w", err)
	}
	settings, err := s.repo.GetOpeningHours(ctx)
	if err != nil {
		return template.Result{}, fmt.Errorf("load opening hours: %w", err)
	}
	existing, err := s.repo.GetSlotsForMonth(ctx, year, month)
	if err != nil {
		return template.Result{}, fmt.Errorf("load month slots: %w", err)
	}

	result := template.Apply(tpl, year, month, existing, settings, *user)
	if len(result.ToCreate) > 0 {
		if _, err := s.repo.CreateSlots(ctx, result.ToCreate); err != nil {
			return template.Result{}, fmt.Errorf("persist slots: %w", err)
		}
	}

	metrics.IncTemplateApplied()
	for range result.ToCreate {
		metrics.IncSlotCreated(metrics.OriginTemplate)
	}
	s.bus.Publish(events.Event{Type: events.TypeTemplateApplied, UserID: user.ID})
	s.logger.Info().
		Str("user_id", user.ID).
		Int("year", year).
		Str("month", month.String()).
		Int("created", len(result.ToCreate)).
		Int("skipped", len(result.Skipped)).
		Msg("template applied")
	return result, nil
}

// SaveTemplate replaces the member's weekly template after a shape check.
func (s *BookingService) SaveTemplate(ctx context.Context, user *model.User, tpl model.WeeklyTemplate) error {
	if user == nil {
		return booking.ErrNotAuthenticated
	}
	for _, d := range tpl {
		if d.DayOfWeek < 0 || d.DayOfWeek > 6 {
			return fmt.Errorf("template day %d out of range", d.DayOfWeek)
		}
		if d.StartTime >= d.EndTime {
			return booking.ErrInvalidOrdering
		}
	}
	return s.repo.SaveTemplate(ctx, user.ID, tpl)
}

// SaveOpeningHours replaces the opening-hours configuration. Admin
// only. The shipped bot edits hours through the seed file and its
// watcher; this is the entry point for authenticated admin surfaces
// (a future admin UI or API) so validation and the hours.changed event
// stay in one place.
func (s *BookingService) SaveOpeningHours(ctx context.Context, user *model.User, cfg model.OpeningHoursSettings) error {
	if user == nil {
		return booking.ErrNotAuthenticated
	}
	if !user.IsAdmin() {
		return booking.ErrNotSlotOwner
	}
	if err := hours.ValidateConfiguration(cfg); err != nil {
		return err
	}
	if err := s.repo.SaveOpeningHours(ctx, cfg); err != nil {
		return err
	}
	s.bus.Publish(events.Event{Type: events.TypeHoursChanged, UserID: user.ID})
	return nil
}

// UpdateSettings replaces club reminder settings. Admin only.
func (s *BookingService) UpdateSettings(ctx context.Context, user *model.User, settings model.Settings) (model.Settings, error) {
	if user == nil {
		return model.Settings{}, booking.ErrNotAuthenticated
	}
	if !user.IsAdmin() {
		return model.Settings{}, booking.ErrNotSlotOwner
	}
	return s.repo.UpdateSettings(ctx, settings)
}

// QuotaStatus reports the member's slot count against the monthly quota.
func (s *BookingService) QuotaStatus(ctx context.Context, user *model.User, year int, month time.Month) (count int, met bool, err error) {
	if user == nil {
		return 0, false, booking.ErrNotAuthenticated
	}
	slots, err := s.repo.GetUserSlots(ctx, user.ID)
	if err != nil {
		return 0, false, err
	}
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return 0, false, err
	}
	count = quota.Count(user.ID, slots, year, month)
	met = quota.IsMet(user.ID, user.Role, slots, settings, year, month)
	return count, met, nil
}

func (s *BookingService) memberLock(userID string) *sync.Mutex {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()
	mu := s.applying[userID]
	if mu == nil {
		mu = &sync.Mutex{}
		s.applying[userID] = mu
	}
	return mu
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, booking.ErrOutsideOpeningHours):
		return "outside_hours"
	case errors.Is(err, booking.ErrInvalidOrdering):
		return "ordering"
	default:
		return "other"
	}
}
