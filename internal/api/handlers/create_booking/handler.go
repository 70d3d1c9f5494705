package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/LMS-FacilityService/internal/api/handlers"
	"github.com/m04kA/LMS-FacilityService/internal/api/middleware"
	"github.com/m04kA/LMS-FacilityService/internal/policy"
	requestBooking "github.com/m04kA/LMS-FacilityService/internal/usecase/request_booking"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidTimeFormat     = "некорректный формат времени, ожидается RFC3339"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgUserNotFound          = "пользователь не найден"
	msgFacilityNotFound      = "помещение не найдено"
	msgFacilityUnavailable   = "помещение недоступно для бронирования"
	msgInsufficientPrivilege = "недостаточно прав для бронирования этого помещения"
	msgInvalidInterval       = "некорректный интервал бронирования"
	msgTooShort              = "бронь короче минимальной длительности (30 минут)"
	msgTooLong               = "бронь длиннее максимальной длительности (3 часа)"
	msgTooSoon               = "до начала брони должно оставаться не менее 30 минут"
	msgTooFarAhead           = "бронь слишком далеко в будущем (максимум 14 дней)"
	msgDailyLimitExceeded    = "превышен дневной лимит активных броней"
	msgUserTimeConflict      = "интервал пересекается с другой вашей бронью"
	msgFacilityTimeConflict  = "интервал пересекается с другой бронью помещения"
	msgOutsideBusinessHours  = "бронь выходит за рабочие часы (08:00-22:00)"
)

type Handler struct {
	useCase RequestBookingUseCase
	logger  Logger
}

func NewHandler(useCase RequestBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTimeFormat)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, requestBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%s, facility_id=%s", userID, req.FacilityID)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, requestBooking.ErrUserNotFound):
			h.logger.Warn("POST /bookings - User not found: user_id=%s", userID)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, requestBooking.ErrFacilityNotFound):
			h.logger.Warn("POST /bookings - Facility not found: facility_id=%s", req.FacilityID)
			handlers.RespondNotFound(w, msgFacilityNotFound)

		case errors.Is(err, policy.ErrInvalidRequest):
			h.logger.Warn("POST /bookings - Invalid request: user_id=%s, facility_id=%s", userID, req.FacilityID)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, policy.ErrFacilityUnavailable):
			h.logger.Warn("POST /bookings - Facility unavailable: facility_id=%s", req.FacilityID)
			handlers.RespondConflict(w, msgFacilityUnavailable)

		case errors.Is(err, policy.ErrInsufficientPrivilege):
			h.logger.Warn("POST /bookings - Insufficient privilege: user_id=%s, facility_id=%s", userID, req.FacilityID)
			handlers.RespondForbidden(w, msgInsufficientPrivilege)

		case errors.Is(err, policy.ErrInvalidInterval):
			handlers.RespondUnprocessable(w, msgInvalidInterval)

		case errors.Is(err, policy.ErrTooShort):
			handlers.RespondUnprocessable(w, msgTooShort)

		case errors.Is(err, policy.ErrTooLong):
			handlers.RespondUnprocessable(w, msgTooLong)

		case errors.Is(err, policy.ErrTooSoon):
			handlers.RespondUnprocessable(w, msgTooSoon)

		case errors.Is(err, policy.ErrTooFarAhead):
			handlers.RespondUnprocessable(w, msgTooFarAhead)

		case errors.Is(err, policy.ErrDailyLimitExceeded):
			h.logger.Warn("POST /bookings - Daily limit exceeded: user_id=%s", userID)
			handlers.RespondConflict(w, msgDailyLimitExceeded)

		case errors.Is(err, policy.ErrUserTimeConflict):
			h.logger.Warn("POST /bookings - User time conflict: user_id=%s", userID)
			handlers.RespondConflict(w, msgUserTimeConflict)

		case errors.Is(err, policy.ErrFacilityTimeConflict):
			h.logger.Warn("POST /bookings - Facility time conflict: facility_id=%s", req.FacilityID)
			handlers.RespondConflict(w, msgFacilityTimeConflict)

		case errors.Is(err, policy.ErrOutsideBusinessHours):
			handlers.RespondUnprocessable(w, msgOutsideBusinessHours)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%s, facility_id=%s, error=%v",
				userID, req.FacilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, user_id=%s, facility_id=%s",
		result.ID, userID, req.FacilityID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
