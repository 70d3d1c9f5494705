package request_booking

import (
	"time"

	"github.com/m04kA/LMS-FacilityService/internal/domain"
)

// Request запрос на бронирование помещения
type Request struct {
	UserID     string
	FacilityID string
	Start      time.Time
	End        time.Time
}

// Response созданная бронь
type Response struct {
	ID         int64
	FacilityID string
	UserID     string
	Start      time.Time
	End        time.Time
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FromDomainBooking конвертирует domain модель в response
func FromDomainBooking(b *domain.Booking) *Response {
	return &Response{
		ID:         b.ID,
		FacilityID: b.FacilityID,
		UserID:     b.UserID,
		Start:      b.Start,
		End:        b.End,
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}
