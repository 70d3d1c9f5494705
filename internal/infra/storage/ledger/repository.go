// Package ledger provides the PostgreSQL implementation of the booking ledger
// contract. It mirrors the in-memory ledger operation for operation, so the
// orchestrator does not know which driver it is running on.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/LMS-FacilityService/internal/domain"
	"github.com/m04kA/LMS-FacilityService/pkg/dbmetrics"
	"github.com/m04kA/LMS-FacilityService/pkg/psqlbuilder"
)

const bookingsTable = "bookings"

var bookingColumns = []string{
	"id",
	"facility_id",
	"user_id",
	"start_time",
	"end_time",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий книги броней поверх PostgreSQL
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория броней
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Insert записывает новую активную бронь; ID присваивает bigserial (монотонно)
func (r *Repository) Insert(ctx context.Context, facilityID, userID string, start, end time.Time) (*domain.Booking, error) {
	if facilityID == "" || userID == "" || !start.Before(end) {
		return nil, ErrInvalidBooking
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(bookingsTable).
		Columns("facility_id", "user_id", "start_time", "end_time", "status").
		Values(facilityID, userID, start, end, domain.StatusActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Insert - build insert query: %v", ErrBuildQuery, err)
	}

	booking := &domain.Booking{
		FacilityID: facilityID,
		UserID:     userID,
		Start:      start,
		End:        end,
		Status:     domain.StatusActive,
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Insert - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time
	return booking, nil
}

// GetByID получает бронь по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}
	return booking, nil
}

// ActiveForFacility получает активные брони помещения в порядке создания.
// Внутри транзакции блокирует строки (FOR UPDATE) - критическая секция
// бронирования читает эти строки перед вставкой.
func (r *Repository) ActiveForFacility(ctx context.Context, facilityID string) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"facility_id": facilityID, "status": domain.StatusActive}).
		OrderBy("id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ActiveForFacility - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ActiveForFacility - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ActiveForUser получает активные брони пользователя в порядке создания
func (r *Repository) ActiveForUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"user_id": userID, "status": domain.StatusActive}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ActiveForUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ActiveForUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// HasConflict проверяет пересечение [start, end) с активными бронями помещения.
// Интервалы полуоткрытые: бронь, заканчивающаяся ровно в start, не пересекается.
func (r *Repository) HasConflict(ctx context.Context, facilityID string, start, end time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From(bookingsTable).
		Where(squirrel.Eq{"facility_id": facilityID, "status": domain.StatusActive}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasConflict - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: HasConflict - scan result: %v", ErrScanRow, err)
	}
	return true, nil
}

// SetStatus обновляет статус брони
func (r *Repository) SetStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(bookingsTable).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "SetStatus", query, args)
}

// UpdateEnd переносит конец брони (используется продлением)
func (r *Repository) UpdateEnd(ctx context.Context, id int64, end time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(bookingsTable).
		Set("end_time", end).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Lt{"start_time": end}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateEnd - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "UpdateEnd", query, args)
}

// Delete физически удаляет бронь.
// Используется только компенсацией при сбое критической секции.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(bookingsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "Delete", query, args)
}

// All получает все брони в порядке создания
func (r *Repository) All(ctx context.Context) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: All - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: All - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListWithFilter получает брони с гибкой фильтрацией
func (r *Repository) ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		OrderBy("id ASC")

	if filter.FacilityID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"facility_id": *filter.FacilityID})
	}
	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.StartFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_time": *filter.StartFrom})
	}
	if filter.StartTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"start_time": *filter.StartTo})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ActiveEndingBefore получает активные брони, закончившиеся к моменту now
func (r *Repository) ActiveEndingBefore(ctx context.Context, now time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"status": domain.StatusActive}).
		Where(squirrel.LtOrEq{"end_time": now}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ActiveEndingBefore - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ActiveEndingBefore - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Stats получает агрегированные счетчики по книге броней
func (r *Repository) Stats(ctx context.Context) (*domain.BookingStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("status", "COUNT(*)").
		From(bookingsTable).
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Stats - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Stats - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	stats := &domain.BookingStats{}
	for rows.Next() {
		var status domain.BookingStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("%w: Stats - scan row: %v", ErrScanRow, err)
		}
		stats.Total += count
		switch status {
		case domain.StatusActive:
			stats.Active = count
		case domain.StatusCancelled:
			stats.Cancelled = count
		case domain.StatusCompleted:
			stats.Completed = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Stats - rows error: %v", ErrScanRow, err)
	}
	return stats, nil
}

func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.FacilityID,
		&booking.UserID,
		&booking.Start,
		&booking.End,
		&booking.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time
	return &booking, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}
	return bookings, nil
}
