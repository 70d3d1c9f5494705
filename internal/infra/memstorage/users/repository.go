// Package users provides the in-memory user store. The service receives
// already-authenticated users; this store only resolves ids to roles and
// tracks which bookings each user owns.
package users

import (
	"context"
	"sync"

	"github.com/m04kA/LMS-FacilityService/internal/domain"
)

// Repository потокобезопасное хранилище пользователей в памяти
type Repository struct {
	mu    sync.RWMutex
	order []string
	items map[string]*domain.User
}

// NewRepository создает пустое хранилище пользователей
func NewRepository() *Repository {
	return &Repository{items: make(map[string]*domain.User)}
}

// Create добавляет пользователя
func (r *Repository) Create(_ context.Context, u *domain.User) error {
	if u == nil || u.ID == "" || !domain.ValidRole(u.Role) {
		return ErrInvalidUser
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[u.ID]; ok {
		return ErrDuplicateID
	}

	c := cloneUser(u)
	r.items[u.ID] = c
	r.order = append(r.order, u.ID)
	return nil
}

// GetByID возвращает пользователя по ID
func (r *Repository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return cloneUser(u), nil
}

// List возвращает всех пользователей в порядке добавления
func (r *Repository) List(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneUser(r.items[id]))
	}
	return out, nil
}

// AppendBookingID добавляет бронь в коллекцию пользователя
func (r *Repository) AppendBookingID(_ context.Context, userID string, bookingID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.BookingIDs = append(u.BookingIDs, bookingID)
	return nil
}

// RemoveBookingID убирает бронь из коллекции пользователя.
// Используется компенсацией при сбое критической секции.
func (r *Repository) RemoveBookingID(_ context.Context, userID string, bookingID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[userID]
	if !ok {
		return ErrUserNotFound
	}
	for i, id := range u.BookingIDs {
		if id == bookingID {
			u.BookingIDs = append(u.BookingIDs[:i], u.BookingIDs[i+1:]...)
			break
		}
	}
	return nil
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	if u.BookingIDs != nil {
		c.BookingIDs = append([]int64(nil), u.BookingIDs...)
	}
	return &c
}
