package extend_booking

import (
	"errors"
	"time"

	extendBooking "github.com/m04kA/LMS-FacilityService/internal/usecase/extend_booking"
)

// ExtendBookingRequest HTTP request model
type ExtendBookingRequest struct {
	NewEnd string `json:"newEnd"` // RFC3339
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
func (r *ExtendBookingRequest) ToUseCaseRequest(bookingID int64, userID string) (*extendBooking.Request, error) {
	newEnd, err := time.Parse(time.RFC3339, r.NewEnd)
	if err != nil {
		return nil, errors.New("invalid newEnd time format")
	}
	return &extendBooking.Request{
		BookingID: bookingID,
		UserID:    userID,
		NewEnd:    newEnd,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *extendBooking.Response) *BookingResponse {
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
