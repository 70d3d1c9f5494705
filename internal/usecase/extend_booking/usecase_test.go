package extend_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LMS-FacilityService/internal/domain"
	memledger "github.com/m04kA/LMS-FacilityService/internal/infra/memstorage/ledger"
	"github.com/m04kA/LMS-FacilityService/internal/policy"
	"github.com/m04kA/LMS-FacilityService/pkg/keyedmutex"
	"github.com/m04kA/LMS-FacilityService/pkg/metrics"
	"github.com/m04kA/LMS-FacilityService/pkg/simpletxmanager"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func at(hour, min int) time.Time {
	return time.Date(2026, 9, 1, hour, min, 0, 0, time.UTC)
}

func newUseCase(ledger *memledger.Repository) *UseCase {
	return NewUseCase(
		ledger,
		policy.NewEngine(),
		keyedmutex.New(),
		simpletxmanager.NewTransactionManager(),
		metrics.Nop{},
		nopLogger{},
	)
}

func TestExecute_ExtendsOwnActiveBooking(t *testing.T) {
	ledger := memledger.NewRepository()
	ctx := context.Background()

	b, err := ledger.Insert(ctx, "DR-101", "student-1", at(14, 0), at(15, 0))
	require.NoError(t, err)

	uc := newUseCase(ledger)
	resp, err := uc.Execute(ctx, &Request{BookingID: b.ID, UserID: "student-1", NewEnd: at(16, 0)})
	require.NoError(t, err)
	assert.Equal(t, at(16, 0), resp.End)

	got, err := ledger.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, at(16, 0), got.End)
}

func TestExecute_OwnershipAndStatusChecks(t *testing.T) {
	ledger := memledger.NewRepository()
	ctx := context.Background()

	b, err := ledger.Insert(ctx, "DR-101", "student-1", at(14, 0), at(15, 0))
	require.NoError(t, err)

	uc := newUseCase(ledger)

	_, err = uc.Execute(ctx, &Request{BookingID: b.ID, UserID: "student-2", NewEnd: at(16, 0)})
	assert.ErrorIs(t, err, ErrNotOwner)

	require.NoError(t, ledger.SetStatus(ctx, b.ID, domain.StatusCancelled))
	_, err = uc.Execute(ctx, &Request{BookingID: b.ID, UserID: "student-1", NewEnd: at(16, 0)})
	assert.ErrorIs(t, err, ErrNotActive)

	_, err = uc.Execute(ctx, &Request{BookingID: 99, UserID: "student-1", NewEnd: at(16, 0)})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_PolicyRejections(t *testing.T) {
	ledger := memledger.NewRepository()
	ctx := context.Background()

	b, err := ledger.Insert(ctx, "DR-101", "student-1", at(14, 0), at(15, 0))
	require.NoError(t, err)
	_, err = ledger.Insert(ctx, "DR-101", "student-2", at(15, 30), at(16, 30))
	require.NoError(t, err)

	uc := newUseCase(ledger)

	// Сокращение не допускается
	_, err = uc.Execute(ctx, &Request{BookingID: b.ID, UserID: "student-1", NewEnd: at(14, 30)})
	assert.ErrorIs(t, err, policy.ErrInvalidInterval)

	// Итоговая длительность за пределами максимума
	_, err = uc.Execute(ctx, &Request{BookingID: b.ID, UserID: "student-1", NewEnd: at(17, 30)})
	assert.ErrorIs(t, err, policy.ErrTooLong)

	// Хвост пересекается с чужой бронью
	_, err = uc.Execute(ctx, &Request{BookingID: b.ID, UserID: "student-1", NewEnd: at(16, 0)})
	assert.ErrorIs(t, err, policy.ErrFacilityTimeConflict)

	// До стыка с чужой бронью продлить можно
	resp, err := uc.Execute(ctx, &Request{BookingID: b.ID, UserID: "student-1", NewEnd: at(15, 30)})
	require.NoError(t, err)
	assert.Equal(t, at(15, 30), resp.End)
}

func TestExecute_InputValidation(t *testing.T) {
	uc := newUseCase(memledger.NewRepository())
	ctx := context.Background()

	_, err := uc.Execute(ctx, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(ctx, &Request{UserID: "u", NewEnd: at(16, 0)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(ctx, &Request{BookingID: 1, NewEnd: at(16, 0)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(ctx, &Request{BookingID: 1, UserID: "u"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
