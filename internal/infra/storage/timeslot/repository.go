package timeslot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/PC-ReservationService/internal/domain"
	"github.com/m04kA/PC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/PC-ReservationService/pkg/psqlbuilder"
	"github.com/m04kA/PC-ReservationService/pkg/types"
)

// Repository реестр занятости слотов — единственная точка мутации счётчика
// current_reservations. Обе мутации (резерв и освобождение) выполняются
// одним условным UPDATE: раздельные чтение и запись здесь недопустимы,
// два конкурентных запроса на последнее место обязаны сериализоваться в БД
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр реестра слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var slotColumns = []string{
	"id",
	"slot_date",
	"start_time",
	"duration_minutes",
	"max_capacity",
	"current_reservations",
	"is_available",
	"created_at",
	"updated_at",
}

// FindByDateTime ищет слот по уникальному ключу (дата, время начала)
// Дата нормализуется к началу суток UTC, чтобы клиентские даты с временной
// компонентой не промахивались мимо хранимого ключа
func (r *Repository) FindByDateTime(ctx context.Context, date time.Time, startTime types.TimeString) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.Eq{
			"slot_date":  domain.NormalizeDate(date),
			"start_time": startTime,
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindByDateTime - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := r.scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindByDateTime - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// ListStartTimesByDate возвращает отсортированные времена начала слотов
// с доступными местами на указанную дату
func (r *Repository) ListStartTimesByDate(ctx context.Context, date time.Time) ([]types.TimeString, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("start_time").
		From("time_slots").
		Where(squirrel.Eq{"slot_date": domain.NormalizeDate(date)}).
		Where("current_reservations < max_capacity").
		Where(squirrel.Eq{"is_available": true}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListStartTimesByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStartTimesByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	times := make([]types.TimeString, 0)
	for rows.Next() {
		var t types.TimeString
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("%w: ListStartTimesByDate - scan start_time: %v", ErrScanRow, err)
		}
		times = append(times, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListStartTimesByDate - rows error: %v", ErrScanRow, err)
	}

	return times, nil
}

// TryReserve атомарно занимает одно место в слоте
//
// Инкремент и проверка вместимости выполняются одним условным UPDATE
// (compare-and-swap по счётчику): условие current_reservations < max_capacity
// проверяется базой в момент мутации, поэтому наблюдаемое значение счётчика
// никогда не превышает max_capacity независимо от числа конкурентных вызовов.
// is_available пересчитывается тем же оператором
func (r *Repository) TryReserve(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("current_reservations", squirrel.Expr("current_reservations + 1")).
		Set("is_available", squirrel.Expr("current_reservations + 1 < max_capacity")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where("current_reservations < max_capacity").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: TryReserve - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: TryReserve - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: TryReserve - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotUnavailable
	}

	return nil
}

// Release атомарно освобождает одно место в слоте
// Счётчик никогда не уходит ниже нуля; идемпотентность на совести вызывающего —
// освобождение не должно вызываться дважды для одной резервации
func (r *Repository) Release(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("current_reservations", squirrel.Expr("current_reservations - 1")).
		Set("is_available", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where("current_reservations > 0").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Release - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Release - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotOccupied
	}

	return nil
}

// BulkCreate вставляет пачку слотов (используется процессом генерации)
func (r *Repository) BulkCreate(ctx context.Context, slots []domain.TimeSlot) error {
	if len(slots) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Insert("time_slots").
		Columns("slot_date", "start_time", "duration_minutes", "max_capacity", "current_reservations", "is_available")

	for _, slot := range slots {
		builder = builder.Values(
			domain.NormalizeDate(slot.Date),
			slot.StartTime,
			slot.DurationMinutes,
			slot.MaxCapacity,
			slot.CurrentReservations,
			slot.CurrentReservations < slot.MaxCapacity,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: BulkCreate - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: BulkCreate - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// DeleteFromDate удаляет слоты начиная с указанной даты (для повторной генерации)
func (r *Repository) DeleteFromDate(ctx context.Context, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("time_slots").
		Where(squirrel.GtOrEq{"slot_date": domain.NormalizeDate(date)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteFromDate - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteFromDate - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanSlot(row rowScanner) (*domain.TimeSlot, error) {
	var slot domain.TimeSlot
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&slot.ID,
		&slot.Date,
		&slot.StartTime,
		&slot.DurationMinutes,
		&slot.MaxCapacity,
		&slot.CurrentReservations,
		&slot.IsAvailable,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	slot.Date = domain.NormalizeDate(slot.Date)
	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}
