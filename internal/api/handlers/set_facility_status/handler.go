package set_facility_status

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/LMS-FacilityService/internal/api/handlers"
	"github.com/m04kA/LMS-FacilityService/internal/api/middleware"
	"github.com/m04kA/LMS-FacilityService/internal/service/facilities"
	"github.com/m04kA/LMS-FacilityService/internal/service/facilities/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "операция доступна только администратору"
	msgNotFound           = "помещение не найдено"
)

// StatusRequest тело запроса со статусом
type StatusRequest struct {
	Status string `json:"status"`
}

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

// Handle PATCH /api/v1/facilities/{facilityId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	facilityID := vars["facilityId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /facilities/{id}/status - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req StatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /facilities/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SetStatus(r.Context(), &models.SetFacilityStatusRequest{
		UserID:     userID,
		FacilityID: facilityID,
		Status:     req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, facilities.ErrAccessDenied):
			h.logger.Warn("PATCH /facilities/{id}/status - Access denied: user_id=%s", userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, facilities.ErrFacilityNotFound):
			h.logger.Warn("PATCH /facilities/{id}/status - Facility not found: facility_id=%s", facilityID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, facilities.ErrInvalidInput):
			h.logger.Warn("PATCH /facilities/{id}/status - Invalid status: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /facilities/{id}/status - Failed: facility_id=%s, error=%v", facilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /facilities/{id}/status - Status updated: facility_id=%s, status=%s, user_id=%s",
		facilityID, req.Status, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
