package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product описывает позицию каталога. Идентификатор задаётся клиентом
// при создании, база его не генерирует.
type Product struct {
	ID        int64
	Name      string
	Price     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func NewProduct(id int64, name string, price decimal.Decimal) *Product {
	return &Product{
		ID:    id,
		Name:  name,
		Price: price,
	}
}
