package bot

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creneau/internal/booking"
	"creneau/internal/model"
)

func TestParseTemplateSpec(t *testing.T) {
	tests := []struct {
		input    string
		expected model.WeeklyTemplate
		ok       bool
	}{
		{
			input: "lun 18:00-20:00",
			expected: model.WeeklyTemplate{
				{DayOfWeek: 1, StartTime: "18:00", EndTime: "20:00"},
			},
			ok: true,
		},
		{
			input: "lun 18:00-20:00 mer 09:00-10:30",
			expected: model.WeeklyTemplate{
				{DayOfWeek: 1, StartTime: "18:00", EndTime: "20:00"},
				{DayOfWeek: 3, StartTime: "09:00", EndTime: "10:30"},
			},
			ok: true,
		},
		{
			// Same day twice is allowed.
			input: "sam 09:00-10:00 sam 14:00-16:00",
			expected: model.WeeklyTemplate{
				{DayOfWeek: 6, StartTime: "09:00", EndTime: "10:00"},
				{DayOfWeek: 6, StartTime: "14:00", EndTime: "16:00"},
			},
			ok: true,
		},
		{input: "", ok: false},
		{input: "lun", ok: false},
		{input: "xyz 18:00-20:00", ok: false},
		{input: "lun 18:00", ok: false},
		{input: "lun 20:00-18:00", ok: false},
		{input: "lun 8:00-20:00", ok: false}, // must be zero-padded
	}

	for _, tt := range tests {
		tpl, err := parseTemplateSpec(tt.input)
		if tt.ok {
			require.NoError(t, err, "input: %s", tt.input)
			assert.Equal(t, tt.expected, tpl, "input: %s", tt.input)
		} else {
			assert.Error(t, err, "input: %s", tt.input)
		}
	}
}

func TestCombineDateClock(t *testing.T) {
	got, err := combineDateClock("2025-12-01", "18:30")
	require.NoError(t, err)
	assert.Equal(t, 2025, got.Year())
	assert.Equal(t, time.December, got.Month())
	assert.Equal(t, 1, got.Day())
	assert.Equal(t, 18, got.Hour())
	assert.Equal(t, 30, got.Minute())

	_, err = combineDateClock("2025-13-01", "18:30")
	assert.Error(t, err)
}

func TestFormatTemplate(t *testing.T) {
	assert.Equal(t, "Aucun modèle enregistré.", formatTemplate(nil))

	tpl := model.WeeklyTemplate{
		{DayOfWeek: 1, StartTime: "18:00", EndTime: "20:00"},
		{DayOfWeek: 6, StartTime: "09:00", EndTime: "12:00"},
	}
	got := formatTemplate(tpl)
	assert.Contains(t, got, "Lundi 18:00-20:00")
	assert.Contains(t, got, "Samedi 09:00-12:00")
}

func TestMonthCalendarKeyboard(t *testing.T) {
	open := map[string]bool{
		"2025-12-01": true,
		"2025-12-25": false,
	}
	kb := monthCalendarKeyboard(2025, time.December, open)

	// Header, weekday row, five week rows, cancel row.
	require.GreaterOrEqual(t, len(kb.InlineKeyboard), 8)

	// December 2025 starts on a Monday, so day 1 is the first cell of
	// the first week row.
	day1 := kb.InlineKeyboard[2][0]
	assert.Equal(t, "1", day1.Text)
	assert.Equal(t, "date:2025-12-01", *day1.CallbackData)

	// Closed day renders as a dot and is inert.
	day2 := kb.InlineKeyboard[2][1]
	assert.Equal(t, "·", day2.Text)
	assert.Equal(t, "noop", *day2.CallbackData)

	// Navigation header points at adjacent months.
	nav := kb.InlineKeyboard[0]
	assert.Equal(t, "cal:2025-11", *nav[0].CallbackData)
	assert.Equal(t, "cal:2026-01", *nav[2].CallbackData)
}

func TestClockKeyboard(t *testing.T) {
	options := []string{"09:00", "09:30", "10:00", "10:30", "11:00"}
	kb := clockKeyboard(options, "start:")

	// Four per row, remainder, then cancel row.
	require.Len(t, kb.InlineKeyboard, 3)
	assert.Len(t, kb.InlineKeyboard[0], 4)
	assert.Len(t, kb.InlineKeyboard[1], 1)
	assert.Equal(t, "start:09:00", *kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "start:11:00", *kb.InlineKeyboard[1][0].CallbackData)
}

func TestSlotListKeyboard(t *testing.T) {
	start := time.Date(2025, 12, 1, 18, 0, 0, 0, time.Local)
	slots := []model.Slot{
		{ID: "s1", Start: start, End: start.Add(2 * time.Hour)},
	}
	kb := slotListKeyboard(slots)
	require.Len(t, kb.InlineKeyboard, 1)
	require.Len(t, kb.InlineKeyboard[0], 2)
	assert.Equal(t, "✏️ 2025-12-01 18:00-20:00", kb.InlineKeyboard[0][0].Text)
	assert.Equal(t, "mv:s1", *kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "🗑", kb.InlineKeyboard[0][1].Text)
	assert.Equal(t, "del:s1", *kb.InlineKeyboard[0][1].CallbackData)
}

func TestBookingErrorText(t *testing.T) {
	assert.Contains(t, bookingErrorText(booking.ErrOutsideOpeningHours), "horaires")
	assert.Contains(t, bookingErrorText(booking.ErrNotSlotOwner), "appartient")
	assert.Contains(t, bookingErrorText(errors.New("db down")), "Erreur interne")
}
