package model

import "time"

// Layouts used everywhere a date or a clock time crosses a boundary.
// Dates are zero-padded big-endian so lexicographic comparison works.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// DailyHours is one day's operating window.
type DailyHours struct {
	IsOpen bool   `json:"isOpen"`
	Start  string `json:"start"` // "09:00"
	End    string `json:"end"`   // "21:00"
}

// WeeklyHoursDay tags DailyHours with a weekday (0 = Sunday .. 6 = Saturday).
type WeeklyHoursDay struct {
	DayOfWeek  int `json:"dayOfWeek"`
	DailyHours     // embedded; json keys stay flat
}

// WeeklyHours holds at most one entry per weekday; a complete
// configuration has exactly seven.
type WeeklyHours []WeeklyHoursDay

// ForWeekday returns the entry for the given weekday, or false if the
// configuration has none.
func (w WeeklyHours) ForWeekday(day time.Weekday) (WeeklyHoursDay, bool) {
	for _, h := range w {
		if h.DayOfWeek == int(day) {
			return h, true
		}
	}
	return WeeklyHoursDay{}, false
}

// SpecialPeriod is a date-inclusive range with its own weekly schedule
// overriding the defaults (e.g. school holidays).
type SpecialPeriod struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Start string      `json:"start"` // "YYYY-MM-DD"
	End   string      `json:"end"`   // "YYYY-MM-DD", inclusive
	Hours WeeklyHours `json:"hours"`
}

// Contains reports whether the date (YYYY-MM-DD) falls inside the period.
func (p SpecialPeriod) Contains(date string) bool {
	return date >= p.Start && date <= p.End
}

// Holiday is a single calendar day forced fully closed.
type Holiday struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"` // "YYYY-MM-DD"
}

// OpeningHoursSettings is the club-wide layered hours configuration.
// Mutated only through admin actions.
type OpeningHoursSettings struct {
	DefaultHours   WeeklyHours     `json:"defaultHours"`
	SpecialPeriods []SpecialPeriod `json:"specialPeriods"`
	Holidays       []Holiday       `json:"holidays"`
}

// HolidayFor returns the holiday matching the date, if any.
func (s OpeningHoursSettings) HolidayFor(date string) (Holiday, bool) {
	for _, h := range s.Holidays {
		if h.Date == date {
			return h, true
		}
	}
	return Holiday{}, false
}

// PeriodFor returns the first special period containing the date.
// Overlapping periods are a configuration smell; first match wins.
func (s OpeningHoursSettings) PeriodFor(date string) (SpecialPeriod, bool) {
	for _, p := range s.SpecialPeriods {
		if p.Contains(date) {
			return p, true
		}
	}
	return SpecialPeriod{}, false
}
