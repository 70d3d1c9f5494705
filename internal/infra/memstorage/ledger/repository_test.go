package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LMS-FacilityService/internal/domain"
)

var base = time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)

func TestInsert_AssignsMonotonicIDs(t *testing.T) {
	r := NewRepository()
	ctx := context.Background()

	b1, err := r.Insert(ctx, "F1", "u1", base, base.Add(time.Hour))
	require.NoError(t, err)
	b2, err := r.Insert(ctx, "F1", "u2", base.Add(2*time.Hour), base.Add(3*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, int64(1), b1.ID)
	assert.Equal(t, int64(2), b2.ID)
	assert.Equal(t, domain.StatusActive, b1.Status)
	assert.False(t, b1.CreatedAt.IsZero())
}

func TestInsert_RejectsInvalid(t *testing.T) {
	r := NewRepository()
	ctx := context.Background()

	_, err := r.Insert(ctx, "", "u1", base, base.Add(time.Hour))
	assert.ErrorIs(t, err, ErrInvalidBooking)

	_, err = r.Insert(ctx, "F1", "", base, base.Add(time.Hour))
	assert.ErrorIs(t, err, ErrInvalidBooking)

	_, err = r.Insert(ctx, "F1", "u1", base.Add(time.Hour), base)
	assert.ErrorIs(t, err, ErrInvalidBooking)
}

func TestGetByID_ReturnsCopy(t *testing.T) {
	r := NewRepository()
	ctx := context.Background()

	created, err := r.Insert(ctx, "F1", "u1", base, base.Add(time.Hour))
	require.NoError(t, err)

	got, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)

	// Мутация копии не должна влиять на хранилище
	got.Status = domain.StatusCancelled

	again, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, again.Status)
}

func TestGetByID_NotFound(t *testing.T) {
	r := NewRepository()

	_, err := r.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestActiveQueries_SkipTerminal(t *testing.T) {
	r := NewRepository()
	ctx := context.Background()

	b1, _ := r.Insert(ctx, "F1", "u1", base, base.Add(time.Hour))
	b2, _ := r.Insert(ctx, "F1", "u1", base.Add(2*time.Hour), base.Add(3*time.Hour))
	require.NoError(t, r.SetStatus(ctx, b1.ID, domain.StatusCancelled))

	forFacility, err := r.ActiveForFacility(ctx, "F1")
	require.NoError(t, err)
	require.Len(t, forFacility, 1)
	assert.Equal(t, b2.ID, forFacility[0].ID)

	forUser, err := r.ActiveForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, forUser, 1)
	assert.Equal(t, b2.ID, forUser[0].ID)
}

func TestHasConflict_HalfOpenIntervals(t *testing.T) {
	r := NewRepository()
	ctx := context.Background()

	_, err := r.Insert(ctx, "F1", "u1", base, base.Add(time.Hour))
	require.NoError(t, err)

	conflict, err := r.HasConflict(ctx, "F1", base.Add(30*time.Minute), base.Add(90*time.Minute))
	require.NoError(t, err)
	assert.True(t, conflict)

	// Стык впритык не конфликтует
	conflict, err = r.HasConflict(ctx, "F1", base.Add(time.Hour), base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.False(t, conflict)

	// Другое помещение не конфликтует
	conflict, err = r.HasConflict(ctx, "F2", base, base.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, conflict)
}

func TestUpdateEnd(t *testing.T) {
	r := NewRepository()
	ctx := context.Background()

	b, _ := r.Insert(ctx, "F1", "u1", base, base.Add(time.Hour))

	require.NoError(t, r.UpdateEnd(ctx, b.ID, base.Add(2*time.Hour)))

	got, err := r.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, base.Add(2*time.Hour), got.End)

	// Конец раньше начала не принимается
	assert.ErrorIs(t, r.UpdateEnd(ctx, b.ID, base.Add(-time.Hour)), ErrInvalidBooking)
	assert.ErrorIs(t, r.UpdateEnd(ctx, 99, base.Add(2*time.Hour)), ErrBookingNotFound)
}

func TestDelete(t *testing.T) {
	r := NewRepository()
	ctx := context.Background()

	b, _ := r.Insert(ctx, "F1", "u1", base, base.Add(time.Hour))

	require.NoError(t, r.Delete(ctx, b.ID))

	_, err := r.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.ErrorIs(t, r.Delete(ctx, b.ID), ErrBookingNotFound)

	all, err := r.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestListWithFilter(t *testing.T) {
	r := NewRepository()
	ctx := context.Background()

	b1, _ := r.Insert(ctx, "F1", "u1", base, base.Add(time.Hour))
	b2, _ := r.Insert(ctx, "F2", "u1", base.Add(2*time.Hour), base.Add(3*time.Hour))
	_, _ = r.Insert(ctx, "F1", "u2", base.Add(4*time.Hour), base.Add(5*time.Hour))
	require.NoError(t, r.SetStatus(ctx, b2.ID, domain.StatusCancelled))

	u1 := "u1"
	got, err := r.ListWithFilter(ctx, domain.BookingsFilter{UserID: &u1})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	active := domain.StatusActive
	got, err = r.ListWithFilter(ctx, domain.BookingsFilter{UserID: &u1, Status: &active})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, b1.ID, got[0].ID)

	from := base.Add(90 * time.Minute)
	got, err = r.ListWithFilter(ctx, domain.BookingsFilter{StartFrom: &from})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestActiveEndingBefore(t *testing.T) {
	r := NewRepository()
	ctx := context.Background()

	b1, _ := r.Insert(ctx, "F1", "u1", base, base.Add(time.Hour))
	_, _ = r.Insert(ctx, "F1", "u2", base.Add(2*time.Hour), base.Add(3*time.Hour))

	// Конец ровно в now уже считается истекшим
	expired, err := r.ActiveEndingBefore(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, b1.ID, expired[0].ID)

	// До конца первой брони ничего не истекло
	expired, err = r.ActiveEndingBefore(ctx, base.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Empty(t, expired)
}

func TestStats(t *testing.T) {
	r := NewRepository()
	ctx := context.Background()

	b1, _ := r.Insert(ctx, "F1", "u1", base, base.Add(time.Hour))
	b2, _ := r.Insert(ctx, "F1", "u2", base.Add(2*time.Hour), base.Add(3*time.Hour))
	_, _ = r.Insert(ctx, "F2", "u3", base.Add(4*time.Hour), base.Add(5*time.Hour))
	require.NoError(t, r.SetStatus(ctx, b1.ID, domain.StatusCancelled))
	require.NoError(t, r.SetStatus(ctx, b2.ID, domain.StatusCompleted))

	stats, err := r.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.Active)
	assert.Equal(t, int64(1), stats.Cancelled)
	assert.Equal(t, int64(1), stats.Completed)
}
