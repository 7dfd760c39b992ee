package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/DRSN-tech/products-api/internal/domain"
	"github.com/DRSN-tech/products-api/pkg/e"
	"github.com/DRSN-tech/products-api/pkg/logger"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductUseCase реализует операции каталога поверх репозитория продуктов.
// Кэш и outbox-репозиторий опциональны: nil отключает соответствующий контур.
type ProductUseCase struct {
	productRepo ProductRepository
	outboxRepo  OutboxRepository
	cacheRepo   CacheRepository
	dbPool      transaction.Transactional
	logger      logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	outboxRepo OutboxRepository,
	cacheRepo CacheRepository,
	dbPool transaction.Transactional,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		cacheRepo:   cacheRepo,
		dbPool:      dbPool,
		logger:      logger,
	}
}

// ListProducts возвращает весь каталог, отсортированный по имени.
func (p *ProductUseCase) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "ProductUseCase.ListProducts"

	products, err := p.productRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

// GetProduct возвращает позицию каталога по идентификатору.
// Отсутствие записи не является ошибкой: возвращается (nil, nil),
// транспортный слой отдаёт клиенту null.
func (p *ProductUseCase) GetProduct(ctx context.Context, req *GetProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.GetProduct"

	// Поиск продукта в кэше
	if p.cacheRepo != nil {
		cached, err := p.cacheRepo.GetProduct(ctx, req.ID)
		if err != nil {
			p.logger.Warnf("cache lookup failed, falling back to db: %v", e.Wrap(op, err))
		} else if cached != nil {
			return cached, nil
		}
	}

	product, err := p.productRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, e.ErrProductNotFound) {
			return nil, nil
		}
		return nil, e.Wrap(op, err)
	}

	// Фоновое добавление продукта в кэш
	if p.cacheRepo != nil {
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			if err := p.cacheRepo.SetProduct(bgCtx, product); err != nil {
				p.logger.Warnf("Failed to cache product in background: %v", e.Wrap(op, err))
			}
		}()
	}

	return product, nil
}

// CreateProduct вставляет новую позицию с клиентским идентификатором.
// Дубликат ID приводит к нарушению уникальности и ошибке хранилища;
// предварительной проверки нет, это контракт API.
func (p *ProductUseCase) CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.CreateProduct"

	var created *domain.Product
	err := p.inTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = p.productRepo.Insert(txCtx, domain.NewProduct(req.ID, req.Name, req.Price))
		if err != nil {
			return err
		}

		return p.emitChangeEvent(txCtx, ProductCreated, created)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidateCache(ctx, created.ID)

	return created, nil
}

// UpdateProduct полностью заменяет запись по ID из запроса.
// Отсутствующая строка — ошибка хранилища, как при перезаписи
// несуществующей отслеживаемой сущности.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, req *UpdateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.UpdateProduct"

	var updated *domain.Product
	err := p.inTx(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = p.productRepo.Update(txCtx, domain.NewProduct(req.ID, req.Name, req.Price))
		if err != nil {
			return err
		}

		return p.emitChangeEvent(txCtx, ProductUpdated, updated)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidateCache(ctx, updated.ID)

	return updated, nil
}

// DeleteProduct удаляет позицию каталога. Удаление отсутствующей записи —
// успешный no-op: клиент получает тот же ответ, что и при реальном удалении.
func (p *ProductUseCase) DeleteProduct(ctx context.Context, req *DeleteProductReq) error {
	const op = "ProductUseCase.DeleteProduct"

	product, err := p.productRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, e.ErrProductNotFound) {
			return nil
		}
		return e.Wrap(op, err)
	}

	err = p.inTx(ctx, func(txCtx context.Context) error {
		if err := p.productRepo.Delete(txCtx, req.ID); err != nil {
			return err
		}

		return p.emitChangeEvent(txCtx, ProductDeleted, product)
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	p.invalidateCache(ctx, req.ID)

	return nil
}

// inTx выполняет fn в одной транзакции: репозитории достают её из контекста.
func (p *ProductUseCase) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, p.dbPool)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if err = fn(ctx); err != nil {
		return err
	}

	err = tx.Commit(ctx)
	return err
}

// emitChangeEvent пишет событие об изменении каталога в outbox в той же
// транзакции, что и само изменение. При выключенной публикации — no-op.
func (p *ProductUseCase) emitChangeEvent(ctx context.Context, eventType OutboxEventType, product *domain.Product) error {
	if p.outboxRepo == nil {
		return nil
	}

	eventID := uuid.NewString()
	payload, err := json.Marshal(ProductChangePayload{
		EventID:    eventID,
		EventType:  eventType,
		ProductID:  product.ID,
		Name:       product.Name,
		Price:      product.Price,
		OccurredAt: time.Now().UnixNano(),
	})
	if err != nil {
		return err
	}

	_, err = p.outboxRepo.Create(ctx, NewOutboxEvent(eventID, eventType, product.ID, payload))
	return err
}

// invalidateCache удаляет устаревшую запись после успешного коммита.
// Ошибка кэша не влияет на результат операции.
func (p *ProductUseCase) invalidateCache(ctx context.Context, id int64) {
	if p.cacheRepo == nil {
		return
	}

	if err := p.cacheRepo.DeleteProduct(ctx, id); err != nil {
		p.logger.Warnf("Failed to invalidate product cache: %v", err)
	}
}
