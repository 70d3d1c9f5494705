package add_facility

import (
	"context"

	"github.com/m04kA/LMS-FacilityService/internal/service/facilities/models"
)

type FacilityService interface {
	Add(ctx context.Context, req *models.AddFacilityRequest) (*models.FacilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
