package pgdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/DRSN-tech/products-api/internal/domain"
	"github.com/DRSN-tech/products-api/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/products-api/pkg/e"
	"github.com/DRSN-tech/products-api/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
// Чтения идут через пул, записи — через транзакцию из контекста.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// List возвращает все позиции каталога, отсортированные по имени.
func (p *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, name, price, created_at, updated_at
		FROM products
		ORDER BY name
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	models := make([]*converter.ProductModel, 0)
	for rows.Next() {
		var model converter.ProductModel
		if err := rows.Scan(&model.ID, &model.Name, &model.Price, &model.CreatedAt, &model.UpdatedAt); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, &model)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToArrEntity(models), nil
}

// GetByID возвращает e.ErrProductNotFound, если записи с таким ID нет.
func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, name, price, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var model converter.ProductModel
	err := p.pool.QueryRow(ctx, query, id).
		Scan(&model.ID, &model.Name, &model.Price, &model.CreatedAt, &model.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrProductNotFound
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// Insert вставляет позицию с клиентским идентификатором.
// Повторный ID — нарушение уникальности, ошибка уходит вызывающему как есть.
func (p *ProductRepo) Insert(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO products (id, name, price)
		VALUES ($1, $2, $3)
		RETURNING id, name, price, created_at, updated_at
	`

	var model converter.ProductModel
	err = tx.QueryRow(ctx, query, product.ID, product.Name, product.Price).
		Scan(&model.ID, &model.Name, &model.Price, &model.CreatedAt, &model.UpdatedAt)
	if err != nil {
		if postgresDuplicate(err) {
			return nil, fmt.Errorf("%s: product with id %d already exists: %w", whereami.WhereAmI(), product.ID, err)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// Update полностью перезаписывает запись по ID.
// Отсутствие строки — e.ErrProductNotFound: полная замена несуществующей
// записи является ошибкой хранилища, в отличие от чтения.
func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		UPDATE products
		SET name = $2, price = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, price, created_at, updated_at
	`

	var model converter.ProductModel
	err = tx.QueryRow(ctx, query, product.ID, product.Name, product.Price).
		Scan(&model.ID, &model.Name, &model.Price, &model.CreatedAt, &model.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// Delete удаляет запись по ID. Нулевое число затронутых строк не считается
// ошибкой: проверка существования — забота вызывающего.
func (p *ProductRepo) Delete(ctx context.Context, id int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
