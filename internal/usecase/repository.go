package usecase

import (
	"context"

	"github.com/DRSN-tech/products-api/internal/domain"
)

type ProductRepository interface {
	// List возвращает все позиции каталога, отсортированные по имени.
	List(ctx context.Context) ([]domain.Product, error)
	// GetByID возвращает e.ErrProductNotFound, если записи нет.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Insert(ctx context.Context, product *domain.Product) (*domain.Product, error)
	// Update полностью перезаписывает запись; при отсутствии строки возвращает ошибку.
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

type CacheRepository interface {
	// GetProduct возвращает (nil, nil) при промахе кэша.
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	SetProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}
