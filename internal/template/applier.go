// Package template expands a member's recurring weekly pattern into
// concrete slot drafts for a target month.
package template

import (
	"fmt"
	"time"

	"creneau/internal/booking"
	"creneau/internal/model"
)

// SkipReason records one template entry that could not be applied.
type SkipReason struct {
	Date      string // "YYYY-MM-DD"
	StartTime string // template entry start, "HH:MM"
	Reason    error  // booking validation error, or nil for duplicates
	Duplicate bool
}

func (s SkipReason) String() string {
	if s.Duplicate {
		return fmt.Sprintf("%s %s: already booked", s.Date, s.StartTime)
	}
	return fmt.Sprintf("%s %s: %v", s.Date, s.StartTime, s.Reason)
}

// Result of applying a template to a month.
type Result struct {
	ToCreate []model.SlotDraft
	Skipped  []SkipReason
}

// Apply walks every date of the target month and turns matching
// template entries into slot drafts. A single bad day (holiday,
// closure, malformed entry) is recorded and skipped, never aborting
// the batch. Entries whose exact (date, start) already exists for the
// owner are skipped, which makes a repeated apply a no-op.
//
// The duplicate guard is only sound when applies for one member are
// serialized; the caller owns that discipline.
func Apply(
	tpl model.WeeklyTemplate,
	year int,
	month time.Month,
	existing []model.Slot,
	settings model.OpeningHoursSettings,
	owner model.User,
) Result {
	var result Result

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	for date := first; date.Month() == month; date = date.AddDate(0, 0, 1) {
		for _, entry := range tpl.DaysFor(date.Weekday()) {
			draft, err := draftFor(date, entry, owner)
			if err != nil {
				result.Skipped = append(result.Skipped, SkipReason{
					Date:      date.Format(model.DateLayout),
					StartTime: entry.StartTime,
					Reason:    err,
				})
				continue
			}

			if err := booking.Validate(draft.Start, draft.End, settings); err != nil {
				result.Skipped = append(result.Skipped, SkipReason{
					Date:      date.Format(model.DateLayout),
					StartTime: entry.StartTime,
					Reason:    err,
				})
				continue
			}

			if hasSlotAt(existing, owner.ID, draft.Start) {
				result.Skipped = append(result.Skipped, SkipReason{
					Date:      date.Format(model.DateLayout),
					StartTime: entry.StartTime,
					Duplicate: true,
				})
				continue
			}

			result.ToCreate = append(result.ToCreate, draft)
		}
	}

	return result
}

// NextMonth returns the year and month following the given reference.
func NextMonth(ref time.Time) (int, time.Month) {
	next := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.Local).AddDate(0, 1, 0)
	return next.Year(), next.Month()
}

func draftFor(date time.Time, entry model.TemplateDay, owner model.User) (model.SlotDraft, error) {
	start, err := combine(date, entry.StartTime)
	if err != nil {
		return model.SlotDraft{}, err
	}
	end, err := combine(date, entry.EndTime)
	if err != nil {
		return model.SlotDraft{}, err
	}
	return model.SlotDraft{
		UserID:   owner.ID,
		UserName: owner.Name,
		Start:    start,
		End:      end,
	}, nil
}

func combine(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse(model.TimeLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}

// hasSlotAt matches on owner plus exact start instant. A template
// edited to a different start time will not replace an older slot;
// preserved behavior, flagged for product clarification.
func hasSlotAt(existing []model.Slot, ownerID string, start time.Time) bool {
	for _, s := range existing {
		if s.UserID == ownerID && s.Start.Equal(start) {
			return true
		}
	}
	return false
}
