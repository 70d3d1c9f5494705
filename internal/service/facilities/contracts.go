package facilities

import (
	"context"

	"github.com/m04kA/LMS-FacilityService/internal/domain"
)

// FacilityRepository интерфейс реестра помещений
type FacilityRepository interface {
	Create(ctx context.Context, f *domain.Facility) error
	GetByID(ctx context.Context, id string) (*domain.Facility, error)
	ListWithFilter(ctx context.Context, filter domain.FacilitiesFilter) ([]*domain.Facility, error)
	SetStatus(ctx context.Context, id string, status domain.FacilityStatus) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*domain.FacilityStats, error)
}

// LedgerRepository интерфейс книги броней
type LedgerRepository interface {
	ActiveForFacility(ctx context.Context, facilityID string) ([]*domain.Booking, error)
}

// UserRepository интерфейс хранилища пользователей
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// PolicyEngine интерфейс движка правил для предфильтрации помещений
type PolicyEngine interface {
	IsEligible(user *domain.User, facility *domain.Facility) bool
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

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
