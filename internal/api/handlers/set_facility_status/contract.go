package set_facility_status

import (
	"context"

	"github.com/m04kA/LMS-FacilityService/internal/service/facilities/models"
)

type FacilityService interface {
	SetStatus(ctx context.Context, req *models.SetFacilityStatusRequest) (*models.FacilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
