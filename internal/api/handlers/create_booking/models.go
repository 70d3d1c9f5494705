package create_booking

import (
	"errors"
	"time"

	requestBooking "github.com/m04kA/LMS-FacilityService/internal/usecase/request_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	FacilityID string `json:"facilityId"`
	Start      string `json:"start"` // RFC3339, например "2026-09-01T10:00:00+03:00"
	End        string `json:"end"`   // RFC3339
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID         int64  `json:"id"`
	FacilityID string `json:"facilityId"`
	UserID     string `json:"userId"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID string) (*requestBooking.Request, error) {
	start, err := time.Parse(time.RFC3339, r.Start)
	if err != nil {
		return nil, errors.New("invalid start time format")
	}
	end, err := time.Parse(time.RFC3339, r.End)
	if err != nil {
		return nil, errors.New("invalid end time format")
	}

	return &requestBooking.Request{
		UserID:     userID,
		FacilityID: r.FacilityID,
		Start:      start,
		End:        end,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *requestBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:         resp.ID,
		FacilityID: resp.FacilityID,
		UserID:     resp.UserID,
		Start:      resp.Start.Format(time.RFC3339),
		End:        resp.End.Format(time.RFC3339),
		Status:     resp.Status,
		CreatedAt:  resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  resp.UpdatedAt.Format(time.RFC3339),
	}
}
