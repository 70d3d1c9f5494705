// Package users provides the PostgreSQL implementation of the user store
// contract. Booking ownership lives in the bookings table, so the booking id
// collection is derived rather than stored.
package users

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/LMS-FacilityService/internal/domain"
	"github.com/m04kA/LMS-FacilityService/pkg/dbmetrics"
	"github.com/m04kA/LMS-FacilityService/pkg/psqlbuilder"
)

const usersTable = "users"

// Repository репозиторий пользователей поверх PostgreSQL
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория пользователей
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет пользователя
func (r *Repository) Create(ctx context.Context, u *domain.User) error {
	if u == nil || u.ID == "" || !domain.ValidRole(u.Role) {
		return ErrInvalidUser
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(usersTable).
		Columns("id", "name", "role").
		Values(u.ID, u.Name, u.Role).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Create - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrDuplicateID
	}
	return nil
}

// GetByID получает пользователя по ID вместе с его бронями
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "role").
		From(usersTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var u domain.User
	err = executor.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.Name, &u.Role)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan user: %v", ErrScanRow, err)
	}

	bookingIDs, err := r.bookingIDs(ctx, executor, id)
	if err != nil {
		return nil, err
	}
	u.BookingIDs = bookingIDs
	return &u, nil
}

// List получает всех пользователей в порядке добавления
func (r *Repository) List(ctx context.Context) ([]*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "role").
		From(usersTable).
		OrderBy("created_at ASC, id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	out := make([]*domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Role); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		out = append(out, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}
	return out, nil
}

// AppendBookingID ничего не записывает: принадлежность брони пользователю
// уже зафиксирована строкой в bookings. Метод оставлен для симметрии контракта.
func (r *Repository) AppendBookingID(_ context.Context, _ string, _ int64) error {
	return nil
}

// RemoveBookingID симметричен AppendBookingID
func (r *Repository) RemoveBookingID(_ context.Context, _ string, _ int64) error {
	return nil
}

func (r *Repository) bookingIDs(ctx context.Context, executor dbmetrics.DBExecutor, userID string) ([]int64, error) {
	query, args, err := psqlbuilder.Select("id").
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: bookingIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: bookingIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: bookingIDs - scan row: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: bookingIDs - rows error: %v", ErrScanRow, err)
	}
	return ids, nil
}
