package cancel_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/LMS-FacilityService/internal/api/handlers"
	"github.com/m04kA/LMS-FacilityService/internal/api/middleware"
	"github.com/m04kA/LMS-FacilityService/internal/service/bookings"
	"github.com/m04kA/LMS-FacilityService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID = "некорректный ID брони"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "бронь не найдена"
	msgForbidden        = "доступ запрещен"
	msgAlreadyTerminal  = "бронь уже отменена или завершена"
	msgTooLateToCancel  = "отмена возможна не позднее чем за час до начала брони"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.Cancel(r.Context(), &models.CancelBookingRequest{
		BookingID: bookingID,
		UserID:    userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Access denied: booking_id=%d, user_id=%s", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrAlreadyTerminal):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Already terminal: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgAlreadyTerminal)

		case errors.Is(err, bookings.ErrCancellationTooLate):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Too late: booking_id=%d", bookingID)
			handlers.RespondUnprocessable(w, msgTooLateToCancel)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidBookingID)

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled: booking_id=%d, user_id=%s", bookingID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
