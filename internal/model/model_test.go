package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func datetime(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.Local)
}

func TestSlot_DateAndClock(t *testing.T) {
	s := Slot{
		Start: datetime(2025, time.December, 22, 9, 30),
		End:   datetime(2025, time.December, 22, 11, 0),
	}
	assert.Equal(t, "2025-12-22", s.Date())
	assert.Equal(t, "09:30", s.StartClock())
	assert.Equal(t, 90*time.Minute, s.Duration())
}

func TestSlot_InMonth(t *testing.T) {
	s := Slot{Start: datetime(2025, time.July, 1, 10, 0), End: datetime(2025, time.July, 1, 11, 0)}
	assert.True(t, s.InMonth(2025, time.July))
	assert.False(t, s.InMonth(2025, time.June))
	assert.False(t, s.InMonth(2024, time.July))
}

func TestSlot_OverlapsWith(t *testing.T) {
	a := Slot{Start: datetime(2025, time.July, 1, 10, 0), End: datetime(2025, time.July, 1, 12, 0)}

	before := Slot{Start: datetime(2025, time.July, 1, 8, 0), End: datetime(2025, time.July, 1, 10, 0)}
	assert.False(t, a.OverlapsWith(before))

	during := Slot{Start: datetime(2025, time.July, 1, 11, 0), End: datetime(2025, time.July, 1, 13, 0)}
	assert.True(t, a.OverlapsWith(during))
}

func TestWeeklyHours_ForWeekday(t *testing.T) {
	w := WeeklyHours{
		{DayOfWeek: 1, DailyHours: DailyHours{IsOpen: true, Start: "09:00", End: "21:00"}},
	}

	monday, ok := w.ForWeekday(time.Monday)
	assert.True(t, ok)
	assert.Equal(t, "09:00", monday.Start)

	_, ok = w.ForWeekday(time.Tuesday)
	assert.False(t, ok)
}

func TestSpecialPeriod_Contains(t *testing.T) {
	p := SpecialPeriod{Start: "2025-07-01", End: "2025-08-31"}

	assert.True(t, p.Contains("2025-07-01"))
	assert.True(t, p.Contains("2025-08-31"))
	assert.True(t, p.Contains("2025-07-15"))
	assert.False(t, p.Contains("2025-06-30"))
	assert.False(t, p.Contains("2025-09-01"))
}

func TestOpeningHoursSettings_PeriodFor_FirstMatchWins(t *testing.T) {
	s := OpeningHoursSettings{
		SpecialPeriods: []SpecialPeriod{
			{Name: "first", Start: "2025-07-01", End: "2025-07-31"},
			{Name: "second", Start: "2025-07-15", End: "2025-08-15"},
		},
	}

	p, ok := s.PeriodFor("2025-07-20")
	assert.True(t, ok)
	assert.Equal(t, "first", p.Name)
}

func TestWeeklyTemplate_DaysFor(t *testing.T) {
	tpl := WeeklyTemplate{
		{DayOfWeek: 1, StartTime: "16:00", EndTime: "20:00"},
		{DayOfWeek: 1, StartTime: "08:00", EndTime: "09:00"},
		{DayOfWeek: 3, StartTime: "16:00", EndTime: "20:00"},
	}

	assert.Len(t, tpl.DaysFor(time.Monday), 2)
	assert.Len(t, tpl.DaysFor(time.Wednesday), 1)
	assert.Empty(t, tpl.DaysFor(time.Friday))
}

func TestSettings_Normalize(t *testing.T) {
	s := Settings{ReminderStartDay: 31, MinSlotsRequired: -1}.Normalize()
	assert.Equal(t, 28, s.ReminderStartDay)
	assert.Equal(t, 0, s.MinSlotsRequired)

	s = Settings{ReminderStartDay: 0, MinSlotsRequired: 2}.Normalize()
	assert.Equal(t, 1, s.ReminderStartDay)
	assert.Equal(t, 2, s.MinSlotsRequired)
}
