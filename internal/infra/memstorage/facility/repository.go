// Package facility provides the in-memory facility registry.
//
// All reads return copies, so callers observe consistent snapshots and can
// never tear a record that a concurrent writer is updating. Insertion order is
// preserved for List.
package facility

import (
	"context"
	"strings"
	"sync"

	"github.com/m04kA/LMS-FacilityService/internal/domain"
)

// Repository потокобезопасный реестр помещений в памяти
type Repository struct {
	mu    sync.RWMutex
	order []string
	items map[string]*domain.Facility
}

// NewRepository создает пустой реестр помещений
func NewRepository() *Repository {
	return &Repository{items: make(map[string]*domain.Facility)}
}

// Create добавляет помещение в реестр
func (r *Repository) Create(_ context.Context, f *domain.Facility) error {
	if f == nil || f.ID == "" {
		return ErrInvalidFacility
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[f.ID]; ok {
		return ErrDuplicateID
	}

	stored := cloneFacility(f)
	if stored.Status == "" {
		stored.Status = domain.FacilityAvailable
	}

	r.items[f.ID] = stored
	r.order = append(r.order, f.ID)
	return nil
}

// GetByID возвращает помещение по ID
func (r *Repository) GetByID(_ context.Context, id string) (*domain.Facility, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.items[id]
	if !ok {
		return nil, ErrFacilityNotFound
	}
	return cloneFacility(f), nil
}

// List возвращает все помещения в порядке добавления
func (r *Repository) List(_ context.Context) ([]*domain.Facility, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Facility, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneFacility(r.items[id]))
	}
	return out, nil
}

// ListWithFilter возвращает помещения, удовлетворяющие фильтру, в порядке добавления
func (r *Repository) ListWithFilter(_ context.Context, filter domain.FacilitiesFilter) ([]*domain.Facility, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Facility, 0)
	for _, id := range r.order {
		f := r.items[id]
		if !matches(f, filter) {
			continue
		}
		out = append(out, cloneFacility(f))
	}
	return out, nil
}

// SetStatus обновляет статус помещения.
// Консистентность статуса с книгой броней обеспечивает вызывающая сторона.
func (r *Repository) SetStatus(_ context.Context, id string, status domain.FacilityStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.items[id]
	if !ok {
		return ErrFacilityNotFound
	}
	f.Status = status
	return nil
}

// Delete удаляет помещение из реестра.
// Проверку на отсутствие активных броней выполняет сервисный слой.
func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ErrFacilityNotFound
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

// Stats возвращает агрегированные счетчики по реестру
func (r *Repository) Stats(_ context.Context) (*domain.FacilityStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &domain.FacilityStats{Total: int64(len(r.items))}
	for _, f := range r.items {
		switch f.Status {
		case domain.FacilityAvailable:
			stats.Available++
		case domain.FacilityBooked:
			stats.Booked++
		case domain.FacilityTemporarilyClosed:
			stats.Closed++
		}
	}
	return stats, nil
}

func matches(f *domain.Facility, filter domain.FacilitiesFilter) bool {
	if filter.Type != nil && f.Type != *filter.Type {
		return false
	}
	if filter.Status != nil && f.Status != *filter.Status {
		return false
	}
	if filter.Privilege != nil && f.Privilege != *filter.Privilege {
		return false
	}
	if filter.Location != nil &&
		!strings.Contains(strings.ToLower(f.Location), strings.ToLower(*filter.Location)) {
		return false
	}
	if filter.Query != nil {
		q := strings.ToLower(*filter.Query)
		if !strings.Contains(strings.ToLower(f.Name), q) &&
			!strings.Contains(strings.ToLower(f.ID), q) {
			return false
		}
	}
	return true
}

func cloneFacility(f *domain.Facility) *domain.Facility {
	c := *f
	if f.Equipment != nil {
		c.Equipment = append([]string(nil), f.Equipment...)
	}
	return &c
}
