// Package facility provides the PostgreSQL implementation of the facility
// registry contract, mirroring the in-memory registry operation for operation.
package facility

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/LMS-FacilityService/internal/domain"
	"github.com/m04kA/LMS-FacilityService/pkg/dbmetrics"
	"github.com/m04kA/LMS-FacilityService/pkg/psqlbuilder"
)

const facilitiesTable = "facilities"

var facilityColumns = []string{
	"id",
	"name",
	"type",
	"location",
	"capacity",
	"privilege",
	"status",
	"notes",
	"equipment",
}

// Repository репозиторий реестра помещений поверх PostgreSQL
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория помещений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет помещение в реестр
func (r *Repository) Create(ctx context.Context, f *domain.Facility) error {
	if f == nil || f.ID == "" {
		return ErrInvalidFacility
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	status := f.Status
	if status == "" {
		status = domain.FacilityAvailable
	}

	query, args, err := psqlbuilder.Insert(facilitiesTable).
		Columns(facilityColumns...).
		Values(
			f.ID,
			f.Name,
			f.Type,
			f.Location,
			f.Capacity,
			f.Privilege,
			status,
			f.Notes,
			pq.Array(f.Equipment),
		).
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

// GetByID получает помещение по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Facility, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(facilityColumns...).
		From(facilitiesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	f, err := scanFacility(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrFacilityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan facility: %v", ErrScanRow, err)
	}
	return f, nil
}

// List получает все помещения в стабильном порядке добавления
func (r *Repository) List(ctx context.Context) ([]*domain.Facility, error) {
	return r.list(ctx, "List", psqlbuilder.Select(facilityColumns...).
		From(facilitiesTable).
		OrderBy("created_at ASC, id ASC"))
}

// ListWithFilter получает помещения, удовлетворяющие фильтру
func (r *Repository) ListWithFilter(ctx context.Context, filter domain.FacilitiesFilter) ([]*domain.Facility, error) {
	selectBuilder := psqlbuilder.Select(facilityColumns...).
		From(facilitiesTable).
		OrderBy("created_at ASC, id ASC")

	if filter.Type != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"type": *filter.Type})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.Privilege != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"privilege": *filter.Privilege})
	}
	if filter.Location != nil {
		selectBuilder = selectBuilder.Where(squirrel.ILike{"location": "%" + *filter.Location + "%"})
	}
	if filter.Query != nil {
		pattern := "%" + strings.TrimSpace(*filter.Query) + "%"
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"id": pattern},
		})
	}

	return r.list(ctx, "ListWithFilter", selectBuilder)
}

// SetStatus обновляет статус помещения.
// Консистентность статуса с книгой броней обеспечивает вызывающая сторона.
func (r *Repository) SetStatus(ctx context.Context, id string, status domain.FacilityStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(facilitiesTable).
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrFacilityNotFound
	}
	return nil
}

// Delete удаляет помещение из реестра.
// Проверку на отсутствие активных броней выполняет сервисный слой.
func (r *Repository) Delete(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(facilitiesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrFacilityNotFound
	}
	return nil
}

// Stats получает агрегированные счетчики по реестру
func (r *Repository) Stats(ctx context.Context) (*domain.FacilityStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("status", "COUNT(*)").
		From(facilitiesTable).
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

	stats := &domain.FacilityStats{}
	for rows.Next() {
		var status domain.FacilityStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("%w: Stats - scan row: %v", ErrScanRow, err)
		}
		stats.Total += count
		switch status {
		case domain.FacilityAvailable:
			stats.Available = count
		case domain.FacilityBooked:
			stats.Booked = count
		case domain.FacilityTemporarilyClosed:
			stats.Closed = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Stats - rows error: %v", ErrScanRow, err)
	}
	return stats, nil
}

func (r *Repository) list(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.Facility, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	facilities := make([]*domain.Facility, 0)
	for rows.Next() {
		f, err := scanFacility(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		facilities = append(facilities, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}
	return facilities, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFacility(row rowScanner) (*domain.Facility, error) {
	var f domain.Facility
	var equipment pq.StringArray

	err := row.Scan(
		&f.ID,
		&f.Name,
		&f.Type,
		&f.Location,
		&f.Capacity,
		&f.Privilege,
		&f.Status,
		&f.Notes,
		&equipment,
	)
	if err != nil {
		return nil, err
	}

	f.Equipment = []string(equipment)
	return &f, nil
}
