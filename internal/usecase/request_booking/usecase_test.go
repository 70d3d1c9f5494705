package request_booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LMS-FacilityService/internal/domain"
	memfacility "github.com/m04kA/LMS-FacilityService/internal/infra/memstorage/facility"
	memledger "github.com/m04kA/LMS-FacilityService/internal/infra/memstorage/ledger"
	memusers "github.com/m04kA/LMS-FacilityService/internal/infra/memstorage/users"
	"github.com/m04kA/LMS-FacilityService/internal/policy"
	"github.com/m04kA/LMS-FacilityService/pkg/keyedmutex"
	"github.com/m04kA/LMS-FacilityService/pkg/metrics"
	"github.com/m04kA/LMS-FacilityService/pkg/simpletxmanager"
)

var testNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type env struct {
	ledger     *memledger.Repository
	facilities *memfacility.Repository
	users      *memusers.Repository
	uc         *UseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		ledger:     memledger.NewRepository(),
		facilities: memfacility.NewRepository(),
		users:      memusers.NewRepository(),
	}
	e.uc = NewUseCase(
		e.ledger,
		e.facilities,
		e.users,
		policy.NewEngine(),
		keyedmutex.New(),
		simpletxmanager.NewTransactionManager(),
		metrics.Nop{},
		nopLogger{},
	).WithTimeProvider(fixedClock{testNow})

	ctx := context.Background()
	require.NoError(t, e.users.Create(ctx, &domain.User{ID: "student-1", Role: domain.RoleStudent}))
	require.NoError(t, e.users.Create(ctx, &domain.User{ID: "student-2", Role: domain.RoleStudent}))
	require.NoError(t, e.facilities.Create(ctx, &domain.Facility{
		ID:        "DR-101",
		Name:      "Discussion Room 101",
		Type:      domain.TypeDiscussionRoom,
		Privilege: domain.PrivilegeOpen,
		Status:    domain.FacilityAvailable,
	}))
	return e
}

func at(hour, min int) time.Time {
	return time.Date(2026, 9, 1, hour, min, 0, 0, time.UTC)
}

func TestExecute_Success(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	resp, err := e.uc.Execute(ctx, &Request{
		UserID:     "student-1",
		FacilityID: "DR-101",
		Start:      at(14, 0),
		End:        at(15, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, string(domain.StatusActive), resp.Status)

	// Помещение переходит в booked
	f, err := e.facilities.GetByID(ctx, "DR-101")
	require.NoError(t, err)
	assert.Equal(t, domain.FacilityBooked, f.Status)

	// Бронь привязана к пользователю
	u, err := e.users.GetByID(ctx, "student-1")
	require.NoError(t, err)
	assert.Contains(t, u.BookingIDs, resp.ID)
}

func TestExecute_ValidationErrors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.uc.Execute(ctx, &Request{FacilityID: "DR-101", Start: at(14, 0), End: at(15, 0)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.uc.Execute(ctx, &Request{UserID: "student-1", Start: at(14, 0), End: at(15, 0)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.uc.Execute(ctx, &Request{UserID: "student-1", FacilityID: "DR-101"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_UnknownUserAndFacility(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.uc.Execute(ctx, &Request{
		UserID: "ghost", FacilityID: "DR-101", Start: at(14, 0), End: at(15, 0),
	})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = e.uc.Execute(ctx, &Request{
		UserID: "student-1", FacilityID: "ghost", Start: at(14, 0), End: at(15, 0),
	})
	assert.ErrorIs(t, err, ErrFacilityNotFound)
}

func TestExecute_RejectionLeavesNoSideEffects(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// Слишком короткая бронь
	_, err := e.uc.Execute(ctx, &Request{
		UserID: "student-1", FacilityID: "DR-101", Start: at(14, 0), End: at(14, 10),
	})
	require.ErrorIs(t, err, policy.ErrTooShort)

	all, err := e.ledger.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	f, err := e.facilities.GetByID(ctx, "DR-101")
	require.NoError(t, err)
	assert.Equal(t, domain.FacilityAvailable, f.Status)

	u, err := e.users.GetByID(ctx, "student-1")
	require.NoError(t, err)
	assert.Empty(t, u.BookingIDs)
}

func TestExecute_SecondBookingRejectedByStatus(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.uc.Execute(ctx, &Request{
		UserID: "student-1", FacilityID: "DR-101", Start: at(14, 0), End: at(15, 0),
	})
	require.NoError(t, err)

	// Даже непересекающийся интервал отклоняется: помещение уже booked
	_, err = e.uc.Execute(ctx, &Request{
		UserID: "student-2", FacilityID: "DR-101", Start: at(16, 0), End: at(17, 0),
	})
	assert.ErrorIs(t, err, policy.ErrFacilityUnavailable)
}

func TestExecute_FacilityConflictAfterStatusReset(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.uc.Execute(ctx, &Request{
		UserID: "student-1", FacilityID: "DR-101", Start: at(14, 0), End: at(15, 0),
	})
	require.NoError(t, err)

	// Администратор вернул помещение в available при живой будущей брони
	require.NoError(t, e.facilities.SetStatus(ctx, "DR-101", domain.FacilityAvailable))

	// Пересекающийся интервал отклоняет правило конфликта помещения
	_, err = e.uc.Execute(ctx, &Request{
		UserID: "student-2", FacilityID: "DR-101", Start: at(14, 30), End: at(15, 30),
	})
	assert.ErrorIs(t, err, policy.ErrFacilityTimeConflict)

	// Непересекающийся интервал проходит
	_, err = e.uc.Execute(ctx, &Request{
		UserID: "student-2", FacilityID: "DR-101", Start: at(15, 0), End: at(16, 0),
	})
	assert.NoError(t, err)
}

func TestExecute_ConcurrentRequests_OnlyOneWins(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	const goroutines = 8
	var wg sync.WaitGroup
	errs := make([]error, goroutines)

	users := []string{"student-1", "student-2"}
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.uc.Execute(ctx, &Request{
				UserID:     users[i%len(users)],
				FacilityID: "DR-101",
				Start:      at(14, 0),
				End:        at(15, 0),
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)

	all, err := e.ledger.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
