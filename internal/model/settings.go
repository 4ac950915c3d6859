package model

import "time"

// Settings holds club-wide reminder policy.
type Settings struct {
	// ReminderStartDay is the day of month (1-28) from which the
	// next-month quota reminder may fire.
	ReminderStartDay int `json:"reminderStartDay"`
	// MinSlotsRequired is the monthly quota for non-admin members.
	MinSlotsRequired int `json:"minSlotsRequired"`
}

// DefaultSettings matches the club's initial configuration.
func DefaultSettings() Settings {
	return Settings{ReminderStartDay: 20, MinSlotsRequired: 1}
}

// Normalize clamps values into their valid ranges.
func (s Settings) Normalize() Settings {
	if s.ReminderStartDay < 1 {
		s.ReminderStartDay = 1
	}
	if s.ReminderStartDay > 28 {
		s.ReminderStartDay = 28
	}
	if s.MinSlotsRequired < 0 {
		s.MinSlotsRequired = 0
	}
	return s
}

// Event is an admin-published club event shown on the calendar.
// Events do not interact with slot booking.
type Event struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	AllDay    bool      `json:"all_day"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
