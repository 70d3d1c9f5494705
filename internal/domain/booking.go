package domain

import "time"

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	StatusActive    BookingStatus = "active"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// Booking represents a facility reservation in the system
type Booking struct {
	ID         int64
	FacilityID string
	UserID     string
	Start      time.Time
	End        time.Time
	Status     BookingStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking has not been cancelled or completed
func (b *Booking) IsActive() bool {
	return b.Status == StatusActive
}

// IsTerminal returns true if the booking is in a terminal state
// (cancelled and completed bookings never transition again)
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusCompleted
}

// Duration returns the length of the booked interval
func (b *Booking) Duration() time.Duration {
	return b.End.Sub(b.Start)
}

// Overlaps reports whether the booking's interval overlaps [start, end).
// Intervals are half-open: a booking ending exactly at start does not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return IntervalsOverlap(b.Start, b.End, start, end)
}

// IntervalsOverlap reports whether two half-open intervals [s1, e1) and [s2, e2)
// share at least one instant
func IntervalsOverlap(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// SameCalendarDay reports whether two instants fall on the same calendar date
func SameCalendarDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// BookingsFilter фильтр для выборки бронирований
type BookingsFilter struct {
	FacilityID *string        // Фильтр по помещению (опционально)
	UserID     *string        // Фильтр по пользователю (опционально)
	Status     *BookingStatus // Фильтр по статусу (опционально)
	StartFrom  *time.Time     // Начало периода по времени начала брони (опционально)
	StartTo    *time.Time     // Конец периода по времени начала брони (опционально)
}
