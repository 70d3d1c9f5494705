package models

import (
	"errors"
	"time"

	"github.com/m04kA/LMS-FacilityService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену брони
type CancelBookingRequest struct {
	BookingID int64  `json:"bookingId"`
	UserID    string `json:"userId"`
}

// GetUserBookingsRequest запрос на получение броней пользователя.
// ActorID - кто спрашивает; чужую историю видит только администратор.
type GetUserBookingsRequest struct {
	UserID  string  `json:"userId"`
	ActorID string  `json:"-"`
	Status  *string `json:"status,omitempty"` // Фильтр по статусу (опционально)
}

// Response модели

// BookingResponse ответ с данными брони
type BookingResponse struct {
	ID         int64     `json:"id"`
	FacilityID string    `json:"facilityId"`
	UserID     string    `json:"userId"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком броней
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int                `json:"total"`
}

// BookingStatsResponse агрегированные счетчики книги броней
type BookingStatsResponse struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Cancelled int64 `json:"cancelled"`
	Completed int64 `json:"completed"`
}

// FromDomainBooking конвертирует domain модель в response
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
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

// FromDomainBookingList конвертирует список domain моделей в response
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	out := make([]*BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, FromDomainBooking(b))
	}
	return &BookingListResponse{Bookings: out, Total: len(out)}
}

// FromDomainBookingStats конвертирует domain статистику в response
func FromDomainBookingStats(s *domain.BookingStats) *BookingStatsResponse {
	return &BookingStatsResponse{
		Total:     s.Total,
		Active:    s.Active,
		Cancelled: s.Cancelled,
		Completed: s.Completed,
	}
}

// ToDomainBookingStatus конвертирует строку в domain статус
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(s) {
	case domain.StatusActive, domain.StatusCancelled, domain.StatusCompleted:
		return domain.BookingStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}
