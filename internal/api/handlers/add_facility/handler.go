package add_facility

import (
	"errors"
	"net/http"

	"github.com/m04kA/LMS-FacilityService/internal/api/handlers"
	"github.com/m04kA/LMS-FacilityService/internal/api/middleware"
	"github.com/m04kA/LMS-FacilityService/internal/service/facilities"
	"github.com/m04kA/LMS-FacilityService/internal/service/facilities/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "операция доступна только администратору"
	msgDuplicateID        = "помещение с таким ID уже существует"
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

// Handle POST /api/v1/facilities
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /facilities - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.AddFacilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /facilities - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID

	result, err := h.service.Add(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, facilities.ErrAccessDenied):
			h.logger.Warn("POST /facilities - Access denied: user_id=%s", userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, facilities.ErrDuplicateID):
			h.logger.Warn("POST /facilities - Duplicate facility ID: facility_id=%s", req.ID)
			handlers.RespondConflict(w, msgDuplicateID)

		case errors.Is(err, facilities.ErrInvalidInput):
			h.logger.Warn("POST /facilities - Invalid facility data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /facilities - Failed: facility_id=%s, error=%v", req.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /facilities - Facility added: facility_id=%s, user_id=%s", req.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
