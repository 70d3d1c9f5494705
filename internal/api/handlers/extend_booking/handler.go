package extend_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/LMS-FacilityService/internal/api/handlers"
	"github.com/m04kA/LMS-FacilityService/internal/api/middleware"
	"github.com/m04kA/LMS-FacilityService/internal/policy"
	extendBooking "github.com/m04kA/LMS-FacilityService/internal/usecase/extend_booking"
)

const (
	msgInvalidBookingID     = "некорректный ID брони"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidTimeFormat    = "некорректный формат времени, ожидается RFC3339"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "бронь не найдена"
	msgForbidden            = "доступ запрещен"
	msgNotActive            = "продлить можно только активную бронь"
	msgInvalidExtension     = "новое время окончания должно быть позже текущего"
	msgTooLong              = "итоговая длительность превышает максимум (3 часа)"
	msgFacilityTimeConflict = "продление пересекается с другой бронью помещения"
	msgOutsideBusinessHours = "продление выходит за рабочие часы (08:00-22:00)"
)

type Handler struct {
	useCase ExtendBookingUseCase
	logger  Logger
}

func NewHandler(useCase ExtendBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/extend
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/extend - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/extend - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ExtendBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/extend - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID, userID)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/extend - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTimeFormat)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, extendBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, extendBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/extend - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, extendBooking.ErrNotOwner):
			h.logger.Warn("PATCH /bookings/{id}/extend - Access denied: booking_id=%d, user_id=%s", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, extendBooking.ErrNotActive):
			h.logger.Warn("PATCH /bookings/{id}/extend - Not active: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgNotActive)

		case errors.Is(err, policy.ErrInvalidRequest), errors.Is(err, policy.ErrInvalidInterval):
			handlers.RespondUnprocessable(w, msgInvalidExtension)

		case errors.Is(err, policy.ErrTooLong):
			handlers.RespondUnprocessable(w, msgTooLong)

		case errors.Is(err, policy.ErrFacilityTimeConflict):
			h.logger.Warn("PATCH /bookings/{id}/extend - Facility time conflict: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgFacilityTimeConflict)

		case errors.Is(err, policy.ErrOutsideBusinessHours):
			handlers.RespondUnprocessable(w, msgOutsideBusinessHours)

		default:
			h.logger.Error("PATCH /bookings/{id}/extend - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/extend - Booking extended: booking_id=%d, user_id=%s", bookingID, userID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
