package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"creneau/internal/booking"
	"creneau/internal/events"
	"creneau/internal/model"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetOpeningHours(ctx context.Context) (model.OpeningHoursSettings, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.OpeningHoursSettings), args.Error(1)
}
func (m *mockRepo) SaveOpeningHours(ctx context.Context, s model.OpeningHoursSettings) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockRepo) GetSettings(ctx context.Context) (model.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Settings), args.Error(1)
}
func (m *mockRepo) UpdateSettings(ctx context.Context, s model.Settings) (model.Settings, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(model.Settings), args.Error(1)
}
func (m *mockRepo) CreateSlot(ctx context.Context, d model.SlotDraft) (*model.Slot, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Slot), args.Error(1)
}
func (m *mockRepo) CreateSlots(ctx context.Context, d []model.SlotDraft) ([]model.Slot, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Slot), args.Error(1)
}
func (m *mockRepo) GetSlot(ctx context.Context, id string) (*model.Slot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Slot), args.Error(1)
}
func (m *mockRepo) UpdateSlot(ctx context.Context, id string, s, e time.Time) error {
	return m.Called(ctx, id, s, e).Error(0)
}
func (m *mockRepo) DeleteSlot(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockRepo) GetUserSlots(ctx context.Context, uid string) ([]model.Slot, error) {
	args := m.Called(ctx, uid)
	return args.Get(0).([]model.Slot), args.Error(1)
}
func (m *mockRepo) GetSlotsForMonth(ctx context.Context, y int, mo time.Month) ([]model.Slot, error) {
	args := m.Called(ctx, y, mo)
	return args.Get(0).([]model.Slot), args.Error(1)
}
func (m *mockRepo) GetSlotsForRange(ctx context.Context, f, t time.Time) ([]model.Slot, error) {
	args := m.Called(ctx, f, t)
	return args.Get(0).([]model.Slot), args.Error(1)
}
func (m *mockRepo) GetTemplate(ctx context.Context, uid string) (model.WeeklyTemplate, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.WeeklyTemplate), args.Error(1)
}
func (m *mockRepo) SaveTemplate(ctx context.Context, uid string, tpl model.WeeklyTemplate) error {
	return m.Called(ctx, uid, tpl).Error(0)
}

type mockBus struct {
	mock.Mock
}

func (m *mockBus) Publish(e events.Event) { m.Called(e) }

func allWeekOpen() model.OpeningHoursSettings {
	var week model.WeeklyHours
	for d := 0; d < 7; d++ {
		week = append(week, model.WeeklyHoursDay{
			DayOfWeek:  d,
			DailyHours: model.DailyHours{IsOpen: true, Start: "09:00", End: "21:00"},
		})
	}
	return model.OpeningHoursSettings{DefaultHours: week}
}

func newTestService() (*BookingService, *mockRepo, *mockBus) {
	repo := new(mockRepo)
	bus := new(mockBus)
	logger := zerolog.New(io.Discard)
	return NewBookingService(repo, bus, &logger), repo, bus
}

func TestCreateSlot(t *testing.T) {
	svc, repo, bus := newTestService()
	ctx := context.Background()
	member := &model.User{ID: "u1", Name: "Alice", Role: model.RoleUser}
	start := time.Date(2025, 12, 1, 18, 0, 0, 0, time.Local)
	end := start.Add(2 * time.Hour)

	t.Run("nil user", func(t *testing.T) {
		_, err := svc.CreateSlot(ctx, nil, start, end)
		assert.ErrorIs(t, err, booking.ErrNotAuthenticated)
	})

	t.Run("valid", func(t *testing.T) {
		repo.On("GetOpeningHours", ctx).Return(allWeekOpen(), nil).Once()
		repo.On("CreateSlot", ctx, mock.Anything).Return(&model.Slot{ID: "s1", UserID: "u1"}, nil).Once()
		bus.On("Publish", mock.MatchedBy(func(e events.Event) bool {
			return e.Type == events.TypeSlotCreated && e.SlotID == "s1"
		})).Once()

		slot, err := svc.CreateSlot(ctx, member, start, end)
		require.NoError(t, err)
		assert.Equal(t, "s1", slot.ID)
		repo.AssertExpectations(t)
		bus.AssertExpectations(t)
	})

	t.Run("outside hours", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("GetOpeningHours", ctx).Return(allWeekOpen(), nil).Once()
		late := time.Date(2025, 12, 1, 22, 0, 0, 0, time.Local)
		_, err := svc.CreateSlot(ctx, member, late, late.Add(time.Hour))
		assert.ErrorIs(t, err, booking.ErrOutsideOpeningHours)
		repo.AssertNotCalled(t, "CreateSlot", ctx, mock.Anything)
	})
}

func TestDeleteSlot(t *testing.T) {
	svc, repo, bus := newTestService()
	ctx := context.Background()
	owner := &model.User{ID: "u1", Role: model.RoleUser}
	other := &model.User{ID: "u2", Role: model.RoleUser}
	admin := &model.User{ID: "a1", Role: model.RoleAdmin}

	t.Run("owner", func(t *testing.T) {
		repo.On("GetSlot", ctx, "s1").Return(&model.Slot{ID: "s1", UserID: "u1"}, nil).Once()
		repo.On("DeleteSlot", ctx, "s1").Return(nil).Once()
		bus.On("Publish", mock.Anything).Once()
		assert.NoError(t, svc.DeleteSlot(ctx, owner, "s1"))
	})

	t.Run("not owner", func(t *testing.T) {
		repo.On("GetSlot", ctx, "s1").Return(&model.Slot{ID: "s1", UserID: "u1"}, nil).Once()
		err := svc.DeleteSlot(ctx, other, "s1")
		assert.ErrorIs(t, err, booking.ErrNotSlotOwner)
	})

	t.Run("admin may delete any", func(t *testing.T) {
		repo.On("GetSlot", ctx, "s1").Return(&model.Slot{ID: "s1", UserID: "u1"}, nil).Once()
		repo.On("DeleteSlot", ctx, "s1").Return(nil).Once()
		bus.On("Publish", mock.Anything).Once()
		assert.NoError(t, svc.DeleteSlot(ctx, admin, "s1"))
	})
}

func TestUpdateSlotOwnerOnly(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	admin := &model.User{ID: "a1", Role: model.RoleAdmin}

	repo.On("GetSlot", ctx, "s1").Return(&model.Slot{ID: "s1", UserID: "u1"}, nil).Once()
	start := time.Date(2025, 12, 1, 10, 0, 0, 0, time.Local)
	err := svc.UpdateSlot(ctx, admin, "s1", start, start.Add(time.Hour))
	assert.ErrorIs(t, err, booking.ErrNotSlotOwner)
}

func TestApplyTemplate(t *testing.T) {
	svc, repo, bus := newTestService()
	ctx := context.Background()
	member := &model.User{ID: "u1", Name: "Alice", Role: model.RoleUser}
	tpl := model.WeeklyTemplate{{DayOfWeek: 1, StartTime: "18:00", EndTime: "20:00"}}

	t.Run("first apply creates", func(t *testing.T) {
		repo.On("GetTemplate", ctx, "u1").Return(tpl, nil).Once()
		repo.On("GetOpeningHours", ctx).Return(allWeekOpen(), nil).Once()
		repo.On("GetSlotsForMonth", ctx, 2025, time.December).Return([]model.Slot{}, nil).Once()
		repo.On("CreateSlots", ctx, mock.MatchedBy(func(d []model.SlotDraft) bool {
			return len(d) == 5 // five Mondays in December 2025
		})).Return([]model.Slot{}, nil).Once()
		bus.On("Publish", mock.Anything).Once()

		result, err := svc.ApplyTemplate(ctx, member, 2025, time.December)
		require.NoError(t, err)
		assert.Len(t, result.ToCreate, 5)
		assert.Empty(t, result.Skipped)
		repo.AssertExpectations(t)
	})

	t.Run("second apply is a no-op", func(t *testing.T) {
		svc, repo, bus := newTestService()
		existing := make([]model.Slot, 0, 5)
		for _, day := range []int{1, 8, 15, 22, 29} {
			start := time.Date(2025, 12, day, 18, 0, 0, 0, time.Local)
			existing = append(existing, model.Slot{UserID: "u1", Start: start, End: start.Add(2 * time.Hour)})
		}
		repo.On("GetTemplate", ctx, "u1").Return(tpl, nil).Once()
		repo.On("GetOpeningHours", ctx).Return(allWeekOpen(), nil).Once()
		repo.On("GetSlotsForMonth", ctx, 2025, time.December).Return(existing, nil).Once()
		bus.On("Publish", mock.Anything).Once()

		result, err := svc.ApplyTemplate(ctx, member, 2025, time.December)
		require.NoError(t, err)
		assert.Empty(t, result.ToCreate)
		assert.Len(t, result.Skipped, 5)
		repo.AssertNotCalled(t, "CreateSlots", ctx, mock.Anything)
	})
}

func TestSaveOpeningHoursAdminOnly(t *testing.T) {
	svc, repo, bus := newTestService()
	ctx := context.Background()

	err := svc.SaveOpeningHours(ctx, &model.User{ID: "u1", Role: model.RoleUser}, allWeekOpen())
	assert.ErrorIs(t, err, booking.ErrNotSlotOwner)

	admin := &model.User{ID: "a1", Role: model.RoleAdmin}

	// Invalid configuration never reaches the repo.
	bad := allWeekOpen()
	bad.DefaultHours = bad.DefaultHours[:5]
	assert.Error(t, svc.SaveOpeningHours(ctx, admin, bad))
	repo.AssertNotCalled(t, "SaveOpeningHours", ctx, mock.Anything)

	cfg := allWeekOpen()
	repo.On("SaveOpeningHours", ctx, cfg).Return(nil).Once()
	bus.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		return e.Type == events.TypeHoursChanged
	})).Once()
	assert.NoError(t, svc.SaveOpeningHours(ctx, admin, cfg))
	repo.AssertExpectations(t)
}

func TestSaveTemplateValidation(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	member := &model.User{ID: "u1", Role: model.RoleUser}

	err := svc.SaveTemplate(ctx, member, model.WeeklyTemplate{{DayOfWeek: 9, StartTime: "10:00", EndTime: "11:00"}})
	assert.Error(t, err)

	err = svc.SaveTemplate(ctx, member, model.WeeklyTemplate{{DayOfWeek: 1, StartTime: "11:00", EndTime: "10:00"}})
	assert.ErrorIs(t, err, booking.ErrInvalidOrdering)

	tpl := model.WeeklyTemplate{{DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00"}}
	repo.On("SaveTemplate", ctx, "u1", tpl).Return(nil).Once()
	assert.NoError(t, svc.SaveTemplate(ctx, member, tpl))
}

func TestQuotaStatus(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	member := &model.User{ID: "u1", Role: model.RoleUser}

	start := time.Date(2025, 12, 3, 10, 0, 0, 0, time.Local)
	repo.On("GetUserSlots", ctx, "u1").Return([]model.Slot{
		{UserID: "u1", Start: start, End: start.Add(time.Hour)},
	}, nil).Once()
	repo.On("GetSettings", ctx).Return(model.Settings{ReminderStartDay: 20, MinSlotsRequired: 1}, nil).Once()

	count, met, err := svc.QuotaStatus(ctx, member, 2025, time.December)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, met)
}
