package http

import (
	"net/http"

	"github.com/DRSN-tech/products-api/internal/usecase"
	"github.com/DRSN-tech/products-api/pkg/logger"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

// listProducts
//
//	@Summary		Список товаров
//	@Description	Возвращает весь каталог, отсортированный по имени товара
//	@Tags			products
//	@Produce		json
//	@Success		200	{array}	ProductPayload
//	@Failure		500	{object}	ErrorResponse
//	@Router			/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := p.productUsecase.ListProducts(r.Context())
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toArrPayload(products))
}

// getProduct
//
//	@Summary		Товар по идентификатору
//	@Description	Возвращает товар или null, если записи нет (статус всегда 200)
//	@Tags			products
//	@Produce		json
//	@Param			id	path		int	true	"Идентификатор товара"
//	@Success		200	{object}	ProductPayload
//	@Failure		400	{object}	ErrorResponse
//	@Router			/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, "invalid path id", err.Error())
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.GetProduct(r.Context(), usecase.NewGetProductReq(id))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	// Отсутствующая запись — это 200 + null, не 404: так ведёт себя API по контракту.
	WriteSuccess(w, http.StatusOK, toPayload(product))
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Вставляет товар с клиентским идентификатором и возвращает его же
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		ProductPayload	true	"Товар"
//	@Success		200		{object}	ProductPayload
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	payload, err := parseProductBody(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, "invalid body", err.Error())
		WriteError(w, err)
		return
	}

	created, err := p.productUsecase.CreateProduct(r.Context(), usecase.NewCreateProductReq(payload.ID, payload.Name, payload.Price))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toPayload(created))
}

// updateProduct
//
//	@Summary		Полная замена товара
//	@Description	Перезаписывает все поля товара по идентификатору из тела запроса
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		ProductPayload	true	"Товар"
//	@Success		200		{object}	ProductPayload
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/products [put]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	payload, err := parseProductBody(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, "invalid body", err.Error())
		WriteError(w, err)
		return
	}

	updated, err := p.productUsecase.UpdateProduct(r.Context(), usecase.NewUpdateProductReq(payload.ID, payload.Name, payload.Price))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toPayload(updated))
}

// deleteProduct
//
//	@Summary		Удаление товара
//	@Description	Удаляет товар; отсутствующий идентификатор — успешный no-op
//	@Tags			products
//	@Param			id	path	int	true	"Идентификатор товара"
//	@Success		200
//	@Failure		400	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, "invalid path id", err.Error())
		WriteError(w, err)
		return
	}

	if err := p.productUsecase.DeleteProduct(r.Context(), usecase.NewDeleteProductReq(id)); err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
