// Package booking validates candidate reservations against the
// club's opening hours.
package booking

import "errors"

// Engine failures are sentinel values, never panics: callers such as
// the template applier inspect them and continue their batch.
var (
	// ErrOutsideOpeningHours rejects a booking on a closed day or one
	// extending beyond the day's open window.
	ErrOutsideOpeningHours = errors.New("outside opening hours")

	// ErrInvalidOrdering rejects a booking whose end is not after its start.
	ErrInvalidOrdering = errors.New("end must be after start")

	// ErrNotAuthenticated rejects a booking attempted without a member
	// identity. Surfaced to the caller, never recovered.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotSlotOwner rejects mutation of another member's slot.
	ErrNotSlotOwner = errors.New("not the slot owner")
)
