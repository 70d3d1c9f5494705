package sweep_bookings

import "context"

type BookingService interface {
	SweepExpired(ctx context.Context) (int, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
