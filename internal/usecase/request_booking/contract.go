package request_booking

import (
	"context"
	"time"

	"github.com/m04kA/LMS-FacilityService/internal/domain"
)

// LedgerRepository интерфейс книги броней
type LedgerRepository interface {
	Insert(ctx context.Context, facilityID, userID string, start, end time.Time) (*domain.Booking, error)
	ActiveForFacility(ctx context.Context, facilityID string) ([]*domain.Booking, error)
	ActiveForUser(ctx context.Context, userID string) ([]*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
}

// FacilityRepository интерфейс реестра помещений
type FacilityRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Facility, error)
	SetStatus(ctx context.Context, id string, status domain.FacilityStatus) error
}

// UserRepository интерфейс хранилища пользователей
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	AppendBookingID(ctx context.Context, userID string, bookingID int64) error
	RemoveBookingID(ctx context.Context, userID string, bookingID int64) error
}

// PolicyEngine интерфейс движка правил бронирования
type PolicyEngine interface {
	Evaluate(
		user *domain.User,
		facility *domain.Facility,
		start, end time.Time,
		now time.Time,
		userActive []*domain.Booking,
		facilityActive []*domain.Booking,
	) error
}

// FacilityLocker сериализует критические секции по ID помещения
type FacilityLocker interface {
	Lock(key string)
	Unlock(key string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Recorder интерфейс для доменных метрик
type Recorder interface {
	IncBookingCreated()
	IncBookingRejected(reason string)
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
