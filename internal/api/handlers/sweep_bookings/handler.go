package sweep_bookings

import (
	"net/http"

	"github.com/m04kA/LMS-FacilityService/internal/api/handlers"
)

// SweepResponse результат ручного запуска sweep-прохода
type SweepResponse struct {
	Completed int `json:"completed"`
}

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

// Handle POST /internal/sweep
// Служебный эндпоинт: запускает sweep вне расписания (для отладки и тестов)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.SweepExpired(r.Context())
	if err != nil {
		h.logger.Error("POST /internal/sweep - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /internal/sweep - Completed %d bookings", n)
	handlers.RespondJSON(w, http.StatusOK, SweepResponse{Completed: n})
}
