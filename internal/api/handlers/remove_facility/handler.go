package remove_facility

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/LMS-FacilityService/internal/api/handlers"
	"github.com/m04kA/LMS-FacilityService/internal/api/middleware"
	"github.com/m04kA/LMS-FacilityService/internal/service/facilities"
)

const (
	msgMissingUserID     = "отсутствует ID пользователя"
	msgForbidden         = "операция доступна только администратору"
	msgNotFound          = "помещение не найдено"
	msgHasActiveBookings = "нельзя удалить помещение с активными бронями"
)

type Handler struct {
	service FacilityService
	logger  Logger
}

func NewHandler(service FacilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/facilities/{facilityId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	facilityID := vars["facilityId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /facilities/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.Remove(r.Context(), facilityID, userID); err != nil {
		switch {
		case errors.Is(err, facilities.ErrAccessDenied):
			h.logger.Warn("DELETE /facilities/{id} - Access denied: user_id=%s", userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, facilities.ErrFacilityNotFound):
			h.logger.Warn("DELETE /facilities/{id} - Facility not found: facility_id=%s", facilityID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, facilities.ErrHasActiveBookings):
			h.logger.Warn("DELETE /facilities/{id} - Has active bookings: facility_id=%s", facilityID)
			handlers.RespondConflict(w, msgHasActiveBookings)

		case errors.Is(err, facilities.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgNotFound)

		default:
			h.logger.Error("DELETE /facilities/{id} - Failed: facility_id=%s, error=%v", facilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /facilities/{id} - Facility removed: facility_id=%s, user_id=%s", facilityID, userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
