package reservation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/PC-ReservationService/internal/domain"
	"github.com/m04kA/PC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/PC-ReservationService/pkg/psqlbuilder"
)

// Repository репозиторий резерваций
// Резервация владеет своими позициями: позиции пишутся и читаются только
// вместе с резервацией, отдельного доступа к ним нет
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория резерваций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var reservationColumns = []string{
	"id",
	"slot_id",
	"customer_name",
	"customer_email",
	"customer_phone",
	"reservation_date",
	"start_time",
	"total_price",
	"payment_method",
	"currency",
	"storm_insurance",
	"status",
	"payment_due",
	"payment_transaction_id",
	"payment_amount_paid",
	"payment_status",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Create создает резервацию вместе с позициями
// Вызывается внутри транзакции вместе с атомарным резервированием слота:
// если резерв слота не удался, откат транзакции убирает и эту запись
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"slot_id",
			"customer_name",
			"customer_email",
			"customer_phone",
			"reservation_date",
			"start_time",
			"total_price",
			"payment_method",
			"currency",
			"storm_insurance",
			"status",
			"payment_due",
			"payment_status",
		).
		Values(
			res.SlotID,
			res.Customer.FullName,
			res.Customer.Email,
			res.Customer.Phone,
			domain.NormalizeDate(res.Date),
			res.StartTime,
			res.TotalPrice,
			res.PaymentMethod,
			res.Currency,
			res.StormInsurance,
			res.Status,
			res.PaymentDue,
			res.Payment.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	if err := r.insertItems(ctx, executor, res.ID, res.Items); err != nil {
		return nil, err
	}

	return res, nil
}

func (r *Repository) insertItems(ctx context.Context, executor DBExecutor, reservationID int64, items []domain.ReservationItem) error {
	if len(items) == 0 {
		return nil
	}

	builder := psqlbuilder.Insert("reservation_items").
		Columns("reservation_id", "product_id", "product_name", "unit_price", "quantity", "slots", "helmets", "vests")

	for _, item := range items {
		builder = builder.Values(
			reservationID,
			item.ProductID,
			item.ProductName,
			item.UnitPrice,
			item.Quantity,
			item.Slots,
			item.Helmets,
			item.Vests,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build items insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Create - execute items insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByID получает резервацию по ID вместе с позициями
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	if err := r.loadItems(ctx, executor, []*domain.Reservation{res}); err != nil {
		return nil, err
	}

	return res, nil
}

// GetByEmail получает резервации клиента по email, новые первыми
func (r *Repository) GetByEmail(ctx context.Context, email string) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"customer_email": email}).
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByEmail - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEmail - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	reservations, err := scanReservations(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, executor, reservations); err != nil {
		return nil, err
	}

	return reservations, nil
}

// Cancel переводит резервацию в статус cancelled
// Условный UPDATE: переход выполняется ровно один раз даже при
// параллельных отменах, проигравший получает ErrAlreadyCancelled
func (r *Repository) Cancel(ctx context.Context, id int64, cancelledAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusCancelled).
		Set("cancelled_at", cancelledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAlreadyCancelled
	}

	return nil
}

// ConfirmPending подтверждает резервацию, если она все еще pending
// Условный UPDATE: cancelled — терминальный статус, webhook об оплате
// не должен его перезаписать
func (r *Repository) ConfirmPending(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusConfirmed).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusPending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ConfirmPending - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ConfirmPending - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ConfirmPending - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrNotPending
	}

	return nil
}

// SetPaymentIntent привязывает идентификатор транзакции платёжного шлюза
func (r *Repository) SetPaymentIntent(ctx context.Context, id int64, transactionID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("payment_transaction_id", transactionID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetPaymentIntent - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetPaymentIntent - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetPaymentIntent - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// SetPaymentResult фиксирует исход платежа из webhook события
func (r *Repository) SetPaymentResult(ctx context.Context, id int64, transactionID string, amountPaid *float64, status domain.PaymentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update("reservations").
		Set("payment_transaction_id", transactionID).
		Set("payment_status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if amountPaid != nil {
		builder = builder.Set("payment_amount_paid", *amountPaid)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetPaymentResult - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetPaymentResult - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetPaymentResult - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// ListExpiredPending возвращает pending-резервации с проваленным платежом,
// не менявшиеся с момента cutoff — кандидаты на уборку sweep-процессом
func (r *Repository) ListExpiredPending(ctx context.Context, cutoff time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"status": domain.StatusPending}).
		Where(squirrel.Eq{"payment_status": domain.PaymentStatusFailed}).
		Where(squirrel.Lt{"updated_at": cutoff}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredPending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredPending - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// Delete физически удаляет резервацию (каскадно вместе с позициями)
// Используется только sweep-процессом для брошенных pending-резерваций
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("reservations").
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
		return ErrReservationNotFound
	}

	return nil
}

// loadItems подгружает позиции для набора резерваций одним запросом
func (r *Repository) loadItems(ctx context.Context, executor DBExecutor, reservations []*domain.Reservation) error {
	if len(reservations) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Reservation, len(reservations))
	ids := make([]int64, 0, len(reservations))
	for _, res := range reservations {
		byID[res.ID] = res
		ids = append(ids, res.ID)
	}

	query, args, err := psqlbuilder.Select(
		"id",
		"reservation_id",
		"product_id",
		"product_name",
		"unit_price",
		"quantity",
		"slots",
		"helmets",
		"vests",
	).
		From("reservation_items").
		Where(squirrel.Eq{"reservation_id": ids}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadItems - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadItems - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.ReservationItem
		var reservationID int64

		err := rows.Scan(
			&item.ID,
			&reservationID,
			&item.ProductID,
			&item.ProductName,
			&item.UnitPrice,
			&item.Quantity,
			&item.Slots,
			&item.Helmets,
			&item.Vests,
		)
		if err != nil {
			return fmt.Errorf("%w: loadItems - scan item: %v", ErrScanRow, err)
		}

		if res, ok := byID[reservationID]; ok {
			res.Items = append(res.Items, item)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadItems - rows error: %v", ErrScanRow, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var paymentDue, cancelledAt, createdAt, updatedAt sql.NullTime
	var transactionID sql.NullString
	var amountPaid sql.NullFloat64

	err := row.Scan(
		&res.ID,
		&res.SlotID,
		&res.Customer.FullName,
		&res.Customer.Email,
		&res.Customer.Phone,
		&res.Date,
		&res.StartTime,
		&res.TotalPrice,
		&res.PaymentMethod,
		&res.Currency,
		&res.StormInsurance,
		&res.Status,
		&paymentDue,
		&transactionID,
		&amountPaid,
		&res.Payment.Status,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.Date = domain.NormalizeDate(res.Date)
	if paymentDue.Valid {
		res.PaymentDue = &paymentDue.Time
	}
	if cancelledAt.Valid {
		res.CancelledAt = &cancelledAt.Time
	}
	if transactionID.Valid {
		res.Payment.TransactionID = &transactionID.String
	}
	if amountPaid.Valid {
		res.Payment.AmountPaid = &amountPaid.Float64
	}
	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

func scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}
