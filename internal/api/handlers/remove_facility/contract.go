package remove_facility

import "context"

type FacilityService interface {
	Remove(ctx context.Context, facilityID, userID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
