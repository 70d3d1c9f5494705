package list_facilities

import (
	"errors"
	"net/http"

	"github.com/m04kA/LMS-FacilityService/internal/api/handlers"
	"github.com/m04kA/LMS-FacilityService/internal/service/facilities"
	"github.com/m04kA/LMS-FacilityService/internal/service/facilities/models"
)

const (
	msgInvalidFilter = "некорректные параметры фильтрации"
	msgUserNotFound  = "пользователь не найден"
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

// Handle GET /api/v1/facilities?type=&status=&privilege=&location=&q=&eligibleFor=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req := &models.ListFacilitiesRequest{}

	q := r.URL.Query()
	if v := q.Get("type"); v != "" {
		req.Type = &v
	}
	if v := q.Get("status"); v != "" {
		req.Status = &v
	}
	if v := q.Get("privilege"); v != "" {
		req.Privilege = &v
	}
	if v := q.Get("location"); v != "" {
		req.Location = &v
	}
	if v := q.Get("q"); v != "" {
		req.Query = &v
	}
	if v := q.Get("eligibleFor"); v != "" {
		req.EligibleFor = &v
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, facilities.ErrInvalidInput):
			h.logger.Warn("GET /facilities - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		case errors.Is(err, facilities.ErrUserNotFound):
			h.logger.Warn("GET /facilities - EligibleFor user not found")
			handlers.RespondNotFound(w, msgUserNotFound)

		default:
			h.logger.Error("GET /facilities - Failed: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
