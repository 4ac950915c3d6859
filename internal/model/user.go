package model

import "time"

// Role of a club member.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is a club member profile.
type User struct {
	ID         string         `json:"id"`
	TelegramID int64          `json:"telegram_id"`
	Name       string         `json:"name"`
	Role       Role           `json:"role"`
	Template   WeeklyTemplate `json:"template,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// TemplateDay is one recurring weekly commitment.
type TemplateDay struct {
	DayOfWeek int    `json:"dayOfWeek"` // 0 = Sunday .. 6 = Saturday
	StartTime string `json:"startTime"` // "16:00"
	EndTime   string `json:"endTime"`   // "20:00"
}

// WeeklyTemplate is a member-owned recurring weekly pattern.
// A weekday may appear zero, one or several times.
type WeeklyTemplate []TemplateDay

// DaysFor returns all template entries for the given weekday.
func (t WeeklyTemplate) DaysFor(day time.Weekday) []TemplateDay {
	var out []TemplateDay
	for _, d := range t {
		if d.DayOfWeek == int(day) {
			out = append(out, d)
		}
	}
	return out
}
