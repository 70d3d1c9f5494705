package facilities

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
	"github.com/m04kA/LMS-FacilityService/internal/policy"
	"github.com/m04kA/LMS-FacilityService/internal/service/facilities/models"
	"github.com/m04kA/LMS-FacilityService/pkg/keyedmutex"
	"github.com/m04kA/LMS-FacilityService/pkg/ptr"
	"github.com/m04kA/LMS-FacilityService/pkg/simpletxmanager"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type env struct {
	facilities *memfacility.Repository
	ledger     *memledger.Repository
	users      *memusers.Repository
	svc        *Service
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		facilities: memfacility.NewRepository(),
		ledger:     memledger.NewRepository(),
		users:      memusers.NewRepository(),
	}
	e.svc = NewService(
		e.facilities,
		e.ledger,
		e.users,
		policy.NewEngine(),
		keyedmutex.New(),
		simpletxmanager.NewTransactionManager(),
		nopLogger{},
	)

	ctx := context.Background()
	require.NoError(t, e.users.Create(ctx, &domain.User{ID: "admin-1", Role: domain.RoleAdmin}))
	require.NoError(t, e.users.Create(ctx, &domain.User{ID: "student-1", Role: domain.RoleStudent}))
	require.NoError(t, e.users.Create(ctx, &domain.User{ID: "staff-1", Role: domain.RoleStaff}))
	return e
}

func addRoom(id string) *models.AddFacilityRequest {
	return &models.AddFacilityRequest{
		UserID:    "admin-1",
		ID:        id,
		Name:      "Room " + id,
		Type:      string(domain.TypeDiscussionRoom),
		Location:  "Library, Level 1",
		Capacity:  8,
		Privilege: string(domain.PrivilegeOpen),
	}
}

func TestAdd(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	resp, err := e.svc.Add(ctx, addRoom("DR-101"))
	require.NoError(t, err)
	assert.Equal(t, "DR-101", resp.ID)
	assert.Equal(t, string(domain.FacilityAvailable), resp.Status)

	// Повторный ID отклоняется
	_, err = e.svc.Add(ctx, addRoom("DR-101"))
	assert.ErrorIs(t, err, ErrDuplicateID)

	// Не администратор не может добавлять
	req := addRoom("DR-102")
	req.UserID = "student-1"
	_, err = e.svc.Add(ctx, req)
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Неизвестный тип не принимается
	req = addRoom("DR-103")
	req.Type = "ballroom"
	_, err = e.svc.Add(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRemove(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.Add(ctx, addRoom("DR-101"))
	require.NoError(t, err)

	assert.ErrorIs(t, e.svc.Remove(ctx, "DR-101", "student-1"), ErrAccessDenied)
	assert.ErrorIs(t, e.svc.Remove(ctx, "missing", "admin-1"), ErrFacilityNotFound)

	// Активная бронь блокирует удаление
	start := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)
	_, err = e.ledger.Insert(ctx, "DR-101", "student-1", start, start.Add(time.Hour))
	require.NoError(t, err)
	assert.ErrorIs(t, e.svc.Remove(ctx, "DR-101", "admin-1"), ErrHasActiveBookings)

	// После завершения брони удаление проходит
	require.NoError(t, e.ledger.SetStatus(ctx, 1, domain.StatusCompleted))
	require.NoError(t, e.svc.Remove(ctx, "DR-101", "admin-1"))

	_, err = e.svc.Get(ctx, "DR-101")
	assert.ErrorIs(t, err, ErrFacilityNotFound)
}

func TestSetStatus(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.Add(ctx, addRoom("DR-101"))
	require.NoError(t, err)

	resp, err := e.svc.SetStatus(ctx, &models.SetFacilityStatusRequest{
		UserID: "admin-1", FacilityID: "DR-101", Status: string(domain.FacilityMaintenance),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.FacilityMaintenance), resp.Status)

	_, err = e.svc.SetStatus(ctx, &models.SetFacilityStatusRequest{
		UserID: "student-1", FacilityID: "DR-101", Status: string(domain.FacilityAvailable),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = e.svc.SetStatus(ctx, &models.SetFacilityStatusRequest{
		UserID: "admin-1", FacilityID: "DR-101", Status: "frozen",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.svc.SetStatus(ctx, &models.SetFacilityStatusRequest{
		UserID: "admin-1", FacilityID: "missing", Status: string(domain.FacilityAvailable),
	})
	assert.ErrorIs(t, err, ErrFacilityNotFound)
}

func TestList(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.Add(ctx, addRoom("DR-101"))
	require.NoError(t, err)

	lab := addRoom("CL-1")
	lab.Name = "Computer Lab"
	lab.Type = string(domain.TypeComputerLab)
	lab.Privilege = string(domain.PrivilegeStaffOnly)
	_, err = e.svc.Add(ctx, lab)
	require.NoError(t, err)

	resp, err := e.svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)

	resp, err = e.svc.List(ctx, &models.ListFacilitiesRequest{Type: ptr.Ptr(string(domain.TypeComputerLab))})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "CL-1", resp.Facilities[0].ID)

	_, err = e.svc.List(ctx, &models.ListFacilitiesRequest{Type: ptr.Ptr("ballroom")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestList_EligibleFor(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.Add(ctx, addRoom("DR-101"))
	require.NoError(t, err)

	lab := addRoom("CL-1")
	lab.Type = string(domain.TypeComputerLab)
	lab.Privilege = string(domain.PrivilegeStaffOnly)
	_, err = e.svc.Add(ctx, lab)
	require.NoError(t, err)

	// Студенту доступно только открытое помещение
	resp, err := e.svc.List(ctx, &models.ListFacilitiesRequest{EligibleFor: ptr.Ptr("student-1")})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "DR-101", resp.Facilities[0].ID)

	// Сотруднику доступны оба
	resp, err = e.svc.List(ctx, &models.ListFacilitiesRequest{EligibleFor: ptr.Ptr("staff-1")})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)

	_, err = e.svc.List(ctx, &models.ListFacilitiesRequest{EligibleFor: ptr.Ptr("ghost")})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStats(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.Add(ctx, addRoom("DR-101"))
	require.NoError(t, err)

	booked := addRoom("DR-102")
	booked.Status = string(domain.FacilityBooked)
	_, err = e.svc.Add(ctx, booked)
	require.NoError(t, err)

	stats, err := e.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Available)
	assert.Equal(t, int64(1), stats.Booked)
}
