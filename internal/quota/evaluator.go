// Package quota decides whether a member meets the monthly minimum
// of booked slots, and when the reminder about it may fire.
package quota

import (
	"time"

	"creneau/internal/model"
)

// IsMet reports whether the member satisfies the monthly quota for the
// reference month. Admins always do.
func IsMet(userID string, role model.Role, slots []model.Slot, settings model.Settings, refYear int, refMonth time.Month) bool {
	if role == model.RoleAdmin {
		return true
	}
	return Count(userID, slots, refYear, refMonth) >= settings.MinSlotsRequired
}

// Count returns the member's slots whose date falls in the month.
func Count(userID string, slots []model.Slot, year int, month time.Month) int {
	n := 0
	for _, s := range slots {
		if s.UserID == userID && s.InMonth(year, month) {
			n++
		}
	}
	return n
}

// ReminderDue is the caller-side gating policy: the reminder window
// opens on settings.ReminderStartDay and targets the month after now.
// It returns false for admins and for members already meeting the
// quota for next month.
func ReminderDue(now time.Time, user model.User, slots []model.Slot, settings model.Settings) bool {
	if user.IsAdmin() {
		return false
	}
	if now.Day() < settings.ReminderStartDay {
		return false
	}

	next := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
	return !IsMet(user.ID, user.Role, slots, settings, next.Year(), next.Month())
}
