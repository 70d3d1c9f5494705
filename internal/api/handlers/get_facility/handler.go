package get_facility

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/LMS-FacilityService/internal/api/handlers"
	"github.com/m04kA/LMS-FacilityService/internal/service/facilities"
)

const (
	msgNotFound = "помещение не найдено"
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

// Handle GET /api/v1/facilities/{facilityId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	facilityID := vars["facilityId"]

	facility, err := h.service.Get(r.Context(), facilityID)
	if err != nil {
		switch {
		case errors.Is(err, facilities.ErrFacilityNotFound):
			h.logger.Warn("GET /facilities/{id} - Facility not found: facility_id=%s", facilityID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, facilities.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgNotFound)

		default:
			h.logger.Error("GET /facilities/{id} - Failed: facility_id=%s, error=%v", facilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, facility)
}
