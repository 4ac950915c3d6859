package model

import "time"

// Slot is one member's reservation on the shared calendar.
type Slot struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SlotDraft is a slot not yet persisted, produced by the template applier.
type SlotDraft struct {
	UserID   string    `json:"user_id"`
	UserName string    `json:"user_name"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// Duration returns the slot length.
func (s Slot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Date returns the slot's calendar date as YYYY-MM-DD.
func (s Slot) Date() string {
	return s.Start.Format(DateLayout)
}

// StartClock returns the start time of day as HH:MM.
func (s Slot) StartClock() string {
	return s.Start.Format(TimeLayout)
}

// InMonth reports whether the slot's date falls in the given year/month.
func (s Slot) InMonth(year int, month time.Month) bool {
	return s.Start.Year() == year && s.Start.Month() == month
}

// OverlapsWith reports whether two slots share any time.
func (s Slot) OverlapsWith(other Slot) bool {
	return s.Start.Before(other.End) && other.Start.Before(s.End)
}
