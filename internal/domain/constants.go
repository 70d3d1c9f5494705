package domain

import "time"

// Booking policy constants
const (
	// MinBookingDuration is the shortest interval a booking may cover
	MinBookingDuration = 30 * time.Minute

	// MaxBookingDuration is the longest interval a booking may cover
	MaxBookingDuration = 3 * time.Hour

	// MinAdvanceNotice is how far in the future a booking must start,
	// relative to the moment of the request. Equality is accepted.
	MinAdvanceNotice = 30 * time.Minute

	// MaxAdvanceWindow is how far ahead a booking may start. A start on the
	// same calendar day as the boundary is still accepted.
	MaxAdvanceWindow = 14 * 24 * time.Hour

	// MaxActiveBookingsPerDay caps a user's active bookings starting on one calendar date
	MaxActiveBookingsPerDay = 3

	// CancellationNotice is the minimum lead time required to cancel a booking
	CancellationNotice = time.Hour
)

// Business hours: a booking may start or end exactly at the opening or closing
// hour, but not outside [OpenHour, CloseHour].
const (
	OpenHour  = 8
	CloseHour = 22
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
