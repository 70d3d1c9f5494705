package get_stats

import (
	"context"

	bookingModels "github.com/m04kA/LMS-FacilityService/internal/service/bookings/models"
	facilityModels "github.com/m04kA/LMS-FacilityService/internal/service/facilities/models"
)

type BookingService interface {
	Stats(ctx context.Context) (*bookingModels.BookingStatsResponse, error)
}

type FacilityService interface {
	Stats(ctx context.Context) (*facilityModels.FacilityStatsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
