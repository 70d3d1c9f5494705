package get_stats

import (
	"net/http"

	"github.com/m04kA/LMS-FacilityService/internal/api/handlers"
	bookingModels "github.com/m04kA/LMS-FacilityService/internal/service/bookings/models"
	facilityModels "github.com/m04kA/LMS-FacilityService/internal/service/facilities/models"
)

// StatsResponse сводная статистика сервиса
type StatsResponse struct {
	Bookings   *bookingModels.BookingStatsResponse   `json:"bookings"`
	Facilities *facilityModels.FacilityStatsResponse `json:"facilities"`
}

type Handler struct {
	bookingService  BookingService
	facilityService FacilityService
	logger          Logger
}

func NewHandler(bookingService BookingService, facilityService FacilityService, logger Logger) *Handler {
	return &Handler{
		bookingService:  bookingService,
		facilityService: facilityService,
		logger:          logger,
	}
}

// Handle GET /api/v1/stats
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingStats, err := h.bookingService.Stats(r.Context())
	if err != nil {
		h.logger.Error("GET /stats - Booking stats failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	facilityStats, err := h.facilityService.Stats(r.Context())
	if err != nil {
		h.logger.Error("GET /stats - Facility stats failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, StatsResponse{
		Bookings:   bookingStats,
		Facilities: facilityStats,
	})
}
