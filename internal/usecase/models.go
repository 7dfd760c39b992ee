package usecase

import (
	"time"

	"github.com/shopspring/decimal"
)

// PRODUCT USECASE

// GetProductReq — запрос одной позиции каталога по идентификатору.
type GetProductReq struct {
	ID int64
}

// CreateProductReq — команда на вставку новой позиции каталога.
// Идентификатор приходит от клиента как есть, без генерации на стороне сервиса.
type CreateProductReq struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}

// UpdateProductReq — команда на полную замену позиции каталога по ID.
type UpdateProductReq struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}

// DeleteProductReq — команда на удаление позиции каталога.
type DeleteProductReq struct {
	ID int64
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	ProductCreated OutboxEventType = "product_created"
	ProductUpdated OutboxEventType = "product_updated"
	ProductDeleted OutboxEventType = "product_deleted"
)

// OutboxEvent — запись об изменении каталога, ожидающая публикации в Kafka.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	ProductID   int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// ProductChangePayload — сериализуемое тело события об изменении позиции.
type ProductChangePayload struct {
	EventID    string          `json:"event_id"`
	EventType  OutboxEventType `json:"event_type"`
	ProductID  int64           `json:"product_id"`
	Name       string          `json:"productName"`
	Price      decimal.Decimal `json:"unitPrice"`
	OccurredAt int64           `json:"occurred_at"`
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	ProductID int64
	Payload   []byte
}

// MAPPERS

func NewGetProductReq(id int64) *GetProductReq {
	return &GetProductReq{ID: id}
}

func NewCreateProductReq(id int64, name string, price decimal.Decimal) *CreateProductReq {
	return &CreateProductReq{
		ID:    id,
		Name:  name,
		Price: price,
	}
}

func NewUpdateProductReq(id int64, name string, price decimal.Decimal) *UpdateProductReq {
	return &UpdateProductReq{
		ID:    id,
		Name:  name,
		Price: price,
	}
}

func NewDeleteProductReq(id int64) *DeleteProductReq {
	return &DeleteProductReq{ID: id}
}

func NewOutboxEvent(eventID string, eventType OutboxEventType, productID int64, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		ProductID: productID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: time.Now().UTC(),
	}
}

func NewWriteRawMessageReq(productID int64, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		ProductID: productID,
		Payload:   payload,
	}
}
