package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/DRSN-tech/products-api/internal/domain"
	"github.com/DRSN-tech/products-api/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ProductPayload — JSON-представление продукта во внешнем API.
// unitPrice сериализуется числом без кавычек (см. настройку decimal в app).
type ProductPayload struct {
	ID    int64           `json:"id"`
	Name  string          `json:"productName"`
	Price decimal.Decimal `json:"unitPrice"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrInvalidProductID):
		return http.StatusBadRequest, e.ErrInvalidProductID.Error()
	case errors.Is(err, e.ErrInvalidBody):
		return http.StatusBadRequest, e.ErrInvalidBody.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parseProductID читает {id} из пути. Нечисловой идентификатор — это
// ошибка формата запроса, а не отсутствующая запись.
func parseProductID(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "id")

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), e.ErrInvalidProductID)
	}

	return id, nil
}

// parseProductBody декодирует тело запроса как есть, без валидации полей.
func parseProductBody(r *http.Request) (*ProductPayload, error) {
	var payload ProductPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrInvalidBody)
	}

	return &payload, nil
}

// toPayload переводит доменную сущность в JSON-представление.
// nil остаётся nil, чтобы отсутствующая запись сериализовалась как null.
func toPayload(product *domain.Product) *ProductPayload {
	if product == nil {
		return nil
	}

	return &ProductPayload{
		ID:    product.ID,
		Name:  product.Name,
		Price: product.Price,
	}
}

func toArrPayload(products []domain.Product) []ProductPayload {
	result := make([]ProductPayload, 0, len(products))
	for _, product := range products {
		result = append(result, *toPayload(&product))
	}

	return result
}
