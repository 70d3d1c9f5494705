// Package ledger provides the in-memory booking ledger.
//
// The ledger is a pure data structure: it assigns ids, stores records and
// answers conflict queries, but performs no policy checking. Ids are assigned
// monotonically. All reads return copies so concurrent readers never observe a
// record mid-update. A facility may hold any number of non-overlapping active
// bookings; keeping them non-overlapping is the orchestrator's job.
package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/LMS-FacilityService/internal/domain"
)

// Repository потокобезопасная книга броней в памяти
type Repository struct {
	mu     sync.RWMutex
	nextID int64
	order  []int64
	items  map[int64]*domain.Booking

	now func() time.Time
}

// NewRepository создает пустую книгу броней
func NewRepository() *Repository {
	return &Repository{
		nextID: 1,
		items:  make(map[int64]*domain.Booking),
		now:    time.Now,
	}
}

// Insert записывает новую активную бронь и присваивает ей следующий ID
func (r *Repository) Insert(_ context.Context, facilityID, userID string, start, end time.Time) (*domain.Booking, error) {
	if facilityID == "" || userID == "" || !start.Before(end) {
		return nil, ErrInvalidBooking
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	b := &domain.Booking{
		ID:         r.nextID,
		FacilityID: facilityID,
		UserID:     userID,
		Start:      start,
		End:        end,
		Status:     domain.StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.nextID++

	r.items[b.ID] = b
	r.order = append(r.order, b.ID)

	c := *b
	return &c, nil
}

// GetByID возвращает бронь по ID
func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.items[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	c := *b
	return &c, nil
}

// ActiveForFacility возвращает активные брони помещения в порядке создания
func (r *Repository) ActiveForFacility(_ context.Context, facilityID string) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Booking, 0)
	for _, id := range r.order {
		b := r.items[id]
		if b.FacilityID == facilityID && b.IsActive() {
			c := *b
			out = append(out, &c)
		}
	}
	return out, nil
}

// ActiveForUser возвращает активные брони пользователя в порядке создания
func (r *Repository) ActiveForUser(_ context.Context, userID string) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Booking, 0)
	for _, id := range r.order {
		b := r.items[id]
		if b.UserID == userID && b.IsActive() {
			c := *b
			out = append(out, &c)
		}
	}
	return out, nil
}

// HasConflict проверяет, пересекается ли [start, end) с активной бронью помещения
func (r *Repository) HasConflict(_ context.Context, facilityID string, start, end time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		b := r.items[id]
		if b.FacilityID == facilityID && b.IsActive() && b.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}

// SetStatus обновляет статус брони.
// Допустимость перехода контролирует вызывающая сторона.
func (r *Repository) SetStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.items[id]
	if !ok {
		return ErrBookingNotFound
	}
	b.Status = status
	b.UpdatedAt = r.now()
	return nil
}

// UpdateEnd переносит конец брони (используется продлением)
func (r *Repository) UpdateEnd(_ context.Context, id int64, end time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.items[id]
	if !ok {
		return ErrBookingNotFound
	}
	if !b.Start.Before(end) {
		return ErrInvalidBooking
	}
	b.End = end
	b.UpdatedAt = r.now()
	return nil
}

// Delete физически удаляет бронь.
// Используется только компенсацией при сбое критической секции.
func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ErrBookingNotFound
	}
	delete(r.items, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// All возвращает все брони в порядке создания
func (r *Repository) All(_ context.Context) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Booking, 0, len(r.order))
	for _, id := range r.order {
		c := *r.items[id]
		out = append(out, &c)
	}
	return out, nil
}

// ListWithFilter возвращает брони, удовлетворяющие фильтру, в порядке создания
func (r *Repository) ListWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Booking, 0)
	for _, id := range r.order {
		b := r.items[id]
		if filter.FacilityID != nil && b.FacilityID != *filter.FacilityID {
			continue
		}
		if filter.UserID != nil && b.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.StartFrom != nil && b.Start.Before(*filter.StartFrom) {
			continue
		}
		if filter.StartTo != nil && b.Start.After(*filter.StartTo) {
			continue
		}
		c := *b
		out = append(out, &c)
	}
	return out, nil
}

// ActiveEndingBefore возвращает активные брони, закончившиеся к моменту now.
// Используется sweep-проходом: конец брони, равный now, уже считается истекшим.
func (r *Repository) ActiveEndingBefore(_ context.Context, now time.Time) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Booking, 0)
	for _, id := range r.order {
		b := r.items[id]
		if b.IsActive() && !b.End.After(now) {
			c := *b
			out = append(out, &c)
		}
	}
	return out, nil
}

// Stats возвращает агрегированные счетчики по книге броней
func (r *Repository) Stats(_ context.Context) (*domain.BookingStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &domain.BookingStats{Total: int64(len(r.items))}
	for _, b := range r.items {
		switch b.Status {
		case domain.StatusActive:
			stats.Active++
		case domain.StatusCancelled:
			stats.Cancelled++
		case domain.StatusCompleted:
			stats.Completed++
		}
	}
	return stats, nil
}
