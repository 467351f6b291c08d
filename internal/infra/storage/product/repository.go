package product

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/PC-ReservationService/internal/domain"
	"github.com/m04kA/PC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/PC-ReservationService/pkg/psqlbuilder"
)

// Repository каталог продуктов проката
// Для движка резерваций каталог только читается; запись есть лишь
// у процесса начальной загрузки (Upsert)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

var productColumns = []string{
	"id",
	"name",
	"price",
	"requires_helmet",
	"requires_vest",
	"max_people",
	"max_consecutive_slots",
	"description",
	"created_at",
	"updated_at",
}

// List возвращает весь каталог
func (r *Repository) List(ctx context.Context) ([]*domain.Product, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(productColumns...).
		From("products").
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// GetByIDs возвращает продукты по набору идентификаторов
// Отсутствующие идентификаторы не являются ошибкой на этом уровне:
// полноту набора проверяет вызывающий
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Product, error) {
	if len(ids) == 0 {
		return []*domain.Product{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(productColumns...).
		From("products").
		Where(squirrel.Eq{"id": ids}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// Upsert вставляет продукт или обновляет существующий по имени
// Используется только процессом начальной загрузки каталога
func (r *Repository) Upsert(ctx context.Context, p *domain.Product) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("products").
		Columns("name", "price", "requires_helmet", "requires_vest", "max_people", "max_consecutive_slots", "description").
		Values(p.Name, p.Price, p.RequiresHelmet, p.RequiresVest, p.MaxPeople, p.MaxConsecutiveSlots, p.Description).
		Suffix(`ON CONFLICT (name) DO UPDATE SET
			price = EXCLUDED.price,
			requires_helmet = EXCLUDED.requires_helmet,
			requires_vest = EXCLUDED.requires_vest,
			max_people = EXCLUDED.max_people,
			max_consecutive_slots = EXCLUDED.max_consecutive_slots,
			description = EXCLUDED.description,
			updated_at = NOW()
		RETURNING id`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&p.ID); err != nil {
		return fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func scanProducts(rows *sql.Rows) ([]*domain.Product, error) {
	products := make([]*domain.Product, 0)

	for rows.Next() {
		var p domain.Product
		var description sql.NullString
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Price,
			&p.RequiresHelmet,
			&p.RequiresVest,
			&p.MaxPeople,
			&p.MaxConsecutiveSlots,
			&description,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanProducts - scan row: %v", ErrScanRow, err)
		}

		if description.Valid {
			p.Description = &description.String
		}
		p.CreatedAt = createdAt.Time
		p.UpdatedAt = updatedAt.Time

		products = append(products, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanProducts - rows error: %v", ErrScanRow, err)
	}

	return products, nil
}
