package extend_booking

import (
	"context"
	"time"

	"github.com/m04kA/LMS-FacilityService/internal/domain"
)

// LedgerRepository интерфейс книги броней
type LedgerRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ActiveForFacility(ctx context.Context, facilityID string) ([]*domain.Booking, error)
	UpdateEnd(ctx context.Context, id int64, end time.Time) error
}

// PolicyEngine интерфейс движка правил продления брони
type PolicyEngine interface {
	EvaluateExtension(
		booking *domain.Booking,
		newEnd time.Time,
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

// Recorder интерфейс для доменных метрик
type Recorder interface {
	IncBookingExtended()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
