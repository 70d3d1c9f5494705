package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LMS-FacilityService/internal/domain"
	memfacility "github.com/m04kA/LMS-FacilityService/internal/infra/memstorage/facility"
	memledger "github.com/m04kA/LMS-FacilityService/internal/infra/memstorage/ledger"
	memusers "github.com/m04kA/LMS-FacilityService/internal/infra/memstorage/users"
	"github.com/m04kA/LMS-FacilityService/internal/service/bookings/models"
	"github.com/m04kA/LMS-FacilityService/pkg/keyedmutex"
	"github.com/m04kA/LMS-FacilityService/pkg/metrics"
	"github.com/m04kA/LMS-FacilityService/pkg/ptr"
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
	svc        *Service
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		ledger:     memledger.NewRepository(),
		facilities: memfacility.NewRepository(),
		users:      memusers.NewRepository(),
	}
	e.svc = NewService(
		e.ledger,
		e.facilities,
		e.users,
		keyedmutex.New(),
		simpletxmanager.NewTransactionManager(),
		metrics.Nop{},
		nopLogger{},
	).WithTimeProvider(fixedClock{testNow})

	ctx := context.Background()
	require.NoError(t, e.users.Create(ctx, &domain.User{ID: "student-1", Role: domain.RoleStudent}))
	require.NoError(t, e.users.Create(ctx, &domain.User{ID: "student-2", Role: domain.RoleStudent}))
	require.NoError(t, e.users.Create(ctx, &domain.User{ID: "admin-1", Role: domain.RoleAdmin}))
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

// book вставляет активную бронь и помечает помещение booked,
// как это делает критическая секция оркестратора
func (e *env) book(t *testing.T, userID string, start, end time.Time) *domain.Booking {
	t.Helper()
	ctx := context.Background()

	b, err := e.ledger.Insert(ctx, "DR-101", userID, start, end)
	require.NoError(t, err)
	require.NoError(t, e.facilities.SetStatus(ctx, "DR-101", domain.FacilityBooked))
	require.NoError(t, e.users.AppendBookingID(ctx, userID, b.ID))
	return b
}

func TestCancel_OwnerWithinWindow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	b := e.book(t, "student-1", at(14, 0), at(15, 0))

	resp, err := e.svc.Cancel(ctx, &models.CancelBookingRequest{BookingID: b.ID, UserID: "student-1"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)

	// Помещение освобождается
	f, _ := e.facilities.GetByID(ctx, "DR-101")
	assert.Equal(t, domain.FacilityAvailable, f.Status)

	// Бронь отвязана от пользователя
	u, _ := e.users.GetByID(ctx, "student-1")
	assert.NotContains(t, u.BookingIDs, b.ID)
}

func TestCancel_TooLateForOwner(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// До начала меньше часа
	b := e.book(t, "student-1", at(10, 30), at(11, 30))

	_, err := e.svc.Cancel(ctx, &models.CancelBookingRequest{BookingID: b.ID, UserID: "student-1"})
	assert.ErrorIs(t, err, ErrCancellationTooLate)

	// Администратору окно не мешает
	resp, err := e.svc.Cancel(ctx, &models.CancelBookingRequest{BookingID: b.ID, UserID: "admin-1"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
}

func TestCancel_ExactlyOneHourBefore(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// Ровно час до начала: равенство проходит
	b := e.book(t, "student-1", at(11, 0), at(12, 0))

	_, err := e.svc.Cancel(ctx, &models.CancelBookingRequest{BookingID: b.ID, UserID: "student-1"})
	assert.NoError(t, err)
}

func TestCancel_AccessAndStatusChecks(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	b := e.book(t, "student-1", at(14, 0), at(15, 0))

	_, err := e.svc.Cancel(ctx, &models.CancelBookingRequest{BookingID: 99, UserID: "student-1"})
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = e.svc.Cancel(ctx, &models.CancelBookingRequest{BookingID: b.ID, UserID: "student-2"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = e.svc.Cancel(ctx, &models.CancelBookingRequest{BookingID: b.ID, UserID: "student-1"})
	require.NoError(t, err)

	// Повторная отмена
	_, err = e.svc.Cancel(ctx, &models.CancelBookingRequest{BookingID: b.ID, UserID: "student-1"})
	assert.ErrorIs(t, err, ErrAlreadyTerminal)
}

func TestCancel_FacilityStaysBookedWithRemainingBookings(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	b1 := e.book(t, "student-1", at(14, 0), at(15, 0))
	e.book(t, "student-2", at(16, 0), at(17, 0))

	_, err := e.svc.Cancel(ctx, &models.CancelBookingRequest{BookingID: b1.ID, UserID: "student-1"})
	require.NoError(t, err)

	f, _ := e.facilities.GetByID(ctx, "DR-101")
	assert.Equal(t, domain.FacilityBooked, f.Status)
}

func TestCancel_AdminForcedStatusUntouched(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	b := e.book(t, "student-1", at(14, 0), at(15, 0))
	require.NoError(t, e.facilities.SetStatus(ctx, "DR-101", domain.FacilityMaintenance))

	_, err := e.svc.Cancel(ctx, &models.CancelBookingRequest{BookingID: b.ID, UserID: "student-1"})
	require.NoError(t, err)

	f, _ := e.facilities.GetByID(ctx, "DR-101")
	assert.Equal(t, domain.FacilityMaintenance, f.Status)
}

func TestSweepExpired(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// Конец в прошлом и конец ровно в now истекли, будущая бронь остается
	expired1 := e.book(t, "student-1", at(8, 0), at(9, 0))
	expired2 := e.book(t, "student-2", at(9, 0), at(10, 0))
	future := e.book(t, "student-1", at(14, 0), at(15, 0))

	n, err := e.svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got1, _ := e.ledger.GetByID(ctx, expired1.ID)
	got2, _ := e.ledger.GetByID(ctx, expired2.ID)
	got3, _ := e.ledger.GetByID(ctx, future.ID)
	assert.Equal(t, domain.StatusCompleted, got1.Status)
	assert.Equal(t, domain.StatusCompleted, got2.Status)
	assert.Equal(t, domain.StatusActive, got3.Status)

	// Будущая бронь держит помещение booked
	f, _ := e.facilities.GetByID(ctx, "DR-101")
	assert.Equal(t, domain.FacilityBooked, f.Status)

	// Повторный проход идемпотентен
	n, err = e.svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSweepExpired_ReleasesFacility(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.book(t, "student-1", at(8, 0), at(9, 0))

	n, err := e.svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	f, _ := e.facilities.GetByID(ctx, "DR-101")
	assert.Equal(t, domain.FacilityAvailable, f.Status)
}

func TestGetByID_Access(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	b := e.book(t, "student-1", at(14, 0), at(15, 0))

	// Владелец видит свою бронь
	got, err := e.svc.GetByID(ctx, b.ID, "student-1")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	// Администратор видит любую
	_, err = e.svc.GetByID(ctx, b.ID, "admin-1")
	assert.NoError(t, err)

	// Чужой пользователь - нет
	_, err = e.svc.GetByID(ctx, b.ID, "student-2")
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = e.svc.GetByID(ctx, 99, "student-1")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetUserBookings(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	b1 := e.book(t, "student-1", at(14, 0), at(15, 0))
	b2 := e.book(t, "student-1", at(16, 0), at(17, 0))
	require.NoError(t, e.ledger.SetStatus(ctx, b2.ID, domain.StatusCancelled))

	// Вся история
	resp, err := e.svc.GetUserBookings(ctx, &models.GetUserBookingsRequest{
		UserID: "student-1", ActorID: "student-1",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)

	// Фильтр по статусу
	resp, err = e.svc.GetUserBookings(ctx, &models.GetUserBookingsRequest{
		UserID: "student-1", ActorID: "student-1", Status: ptr.Ptr("active"),
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, b1.ID, resp.Bookings[0].ID)

	// Некорректный статус
	_, err = e.svc.GetUserBookings(ctx, &models.GetUserBookingsRequest{
		UserID: "student-1", ActorID: "student-1", Status: ptr.Ptr("paused"),
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// Чужая история запрещена, администратору доступна
	_, err = e.svc.GetUserBookings(ctx, &models.GetUserBookingsRequest{
		UserID: "student-1", ActorID: "student-2",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = e.svc.GetUserBookings(ctx, &models.GetUserBookingsRequest{
		UserID: "student-1", ActorID: "admin-1",
	})
	assert.NoError(t, err)
}

func TestStats(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	b1 := e.book(t, "student-1", at(8, 0), at(9, 0))
	e.book(t, "student-2", at(14, 0), at(15, 0))
	require.NoError(t, e.ledger.SetStatus(ctx, b1.ID, domain.StatusCancelled))

	stats, err := e.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Active)
	assert.Equal(t, int64(1), stats.Cancelled)
}
