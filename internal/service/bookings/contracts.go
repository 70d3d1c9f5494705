package bookings

import (
	"context"
	"time"

	"github.com/m04kA/LMS-FacilityService/internal/domain"
)

// LedgerRepository интерфейс книги броней
type LedgerRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ActiveForFacility(ctx context.Context, facilityID string) ([]*domain.Booking, error)
	ActiveEndingBefore(ctx context.Context, now time.Time) ([]*domain.Booking, error)
	SetStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	Stats(ctx context.Context) (*domain.BookingStats, error)
}

// FacilityRepository интерфейс реестра помещений
type FacilityRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Facility, error)
	SetStatus(ctx context.Context, id string, status domain.FacilityStatus) error
}

// UserRepository интерфейс хранилища пользователей
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	RemoveBookingID(ctx context.Context, userID string, bookingID int64) error
}

// FacilityLocker сериализует критические секции по ID помещения
type FacilityLocker interface {
	Lock(key string)
	Unlock(key string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Recorder интерфейс для доменных метрик
type Recorder interface {
	IncBookingCancelled()
	AddSweepTransitions(n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
