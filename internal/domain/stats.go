package domain

// BookingStats aggregate counters over the booking ledger
type BookingStats struct {
	Total     int64
	Active    int64
	Cancelled int64
	Completed int64
}

// FacilityStats aggregate counters over the facility registry
type FacilityStats struct {
	Total     int64
	Available int64
	Booked    int64
	Closed    int64
}
