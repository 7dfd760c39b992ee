package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/DRSN-tech/products-api/internal/domain"
	"github.com/DRSN-tech/products-api/internal/usecase"
	"github.com/DRSN-tech/products-api/internal/usecase/mocks"
	"github.com/DRSN-tech/products-api/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Контракт API: unitPrice — число, не строка.
	decimal.MarshalJSONWithoutQuotes = true
	os.Exit(m.Run())
}

func newTestRouter(uc usecase.ProductUC) *chi.Mux {
	handler := NewProductHandler(uc, logger.NewSlogLogger())

	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		registerProductRoutes(api, handler)
	})

	return r
}

func TestListProducts(t *testing.T) {
	uc := new(mocks.MockProductUC)
	uc.On("ListProducts", mock.Anything).Return([]domain.Product{
		{ID: 3, Name: "Aniseed Syrup", Price: decimal.NewFromInt(12)},
		{ID: 1, Name: "Chai", Price: decimal.NewFromInt(10)},
		{ID: 2, Name: "Chang", Price: decimal.NewFromInt(11)},
	}, nil).Once()

	r := newTestRouter(uc)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var products []ProductPayload
	require.NoError(t, json.NewDecoder(w.Body).Decode(&products))
	require.Len(t, products, 3)

	// Порядок отдаётся как есть из usecase: сортировка по имени.
	require.Equal(t, "Aniseed Syrup", products[0].Name)
	require.Equal(t, "Chai", products[1].Name)
	require.Equal(t, "Chang", products[2].Name)
	require.True(t, products[1].Price.Equal(decimal.NewFromInt(10)))

	uc.AssertExpectations(t)
}

func TestGetProduct_Found(t *testing.T) {
	uc := new(mocks.MockProductUC)
	uc.On("GetProduct", mock.Anything, usecase.NewGetProductReq(4)).
		Return(&domain.Product{ID: 4, Name: "Ikura", Price: decimal.NewFromInt(12)}, nil).Once()

	r := newTestRouter(uc)

	req := httptest.NewRequest(http.MethodGet, "/api/products/4", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var product ProductPayload
	require.NoError(t, json.NewDecoder(w.Body).Decode(&product))
	require.Equal(t, int64(4), product.ID)
	require.Equal(t, "Ikura", product.Name)
	require.True(t, product.Price.Equal(decimal.NewFromInt(12)))

	uc.AssertExpectations(t)
}

func TestGetProduct_AbsentReturnsNull(t *testing.T) {
	uc := new(mocks.MockProductUC)
	uc.On("GetProduct", mock.Anything, usecase.NewGetProductReq(999)).
		Return(nil, nil).Once()

	r := newTestRouter(uc)

	req := httptest.NewRequest(http.MethodGet, "/api/products/999", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// Отсутствующая запись — 200 + null, не 404.
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "null", strings.TrimSpace(w.Body.String()))

	uc.AssertExpectations(t)
}

func TestGetProduct_InvalidID(t *testing.T) {
	uc := new(mocks.MockProductUC)
	r := newTestRouter(uc)

	for _, id := range []string{"abc", "12.5", "4x"} {
		req := httptest.NewRequest(http.MethodGet, "/api/products/"+id, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code, "id %q", id)

		var resp ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Equal(t, http.StatusBadRequest, resp.Code)
	}

	uc.AssertNotCalled(t, "GetProduct", mock.Anything, mock.Anything)
}

func TestCreateProduct_EchoesProduct(t *testing.T) {
	uc := new(mocks.MockProductUC)
	uc.On("CreateProduct", mock.Anything, mock.Anything).
		Return(&domain.Product{ID: 4, Name: "Ikura", Price: decimal.NewFromInt(12)}, nil).Once()

	r := newTestRouter(uc)

	body := `{"id":4,"productName":"Ikura","unitPrice":12}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var product ProductPayload
	require.NoError(t, json.NewDecoder(w.Body).Decode(&product))
	require.Equal(t, int64(4), product.ID)
	require.Equal(t, "Ikura", product.Name)
	require.True(t, product.Price.Equal(decimal.NewFromInt(12)))

	uc.AssertExpectations(t)
}

func TestCreateProduct_InvalidBody(t *testing.T) {
	uc := new(mocks.MockProductUC)
	r := newTestRouter(uc)

	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
}

func TestCreateProduct_StorageError(t *testing.T) {
	uc := new(mocks.MockProductUC)
	uc.On("CreateProduct", mock.Anything, mock.Anything).
		Return(nil, errors.New("duplicate key value violates unique constraint")).Once()

	r := newTestRouter(uc)

	body := `{"id":1,"productName":"Chai","unitPrice":10}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// Дубликат ID и прочие ошибки хранилища уходят как 500 без деталей.
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, http.StatusInternalServerError, resp.Code)

	uc.AssertExpectations(t)
}

func TestUpdateProduct_EchoesProduct(t *testing.T) {
	uc := new(mocks.MockProductUC)
	uc.On("UpdateProduct", mock.Anything, mock.Anything).
		Return(&domain.Product{ID: 4, Name: "Ikura", Price: decimal.NewFromInt(13)}, nil).Once()

	r := newTestRouter(uc)

	body := `{"id":4,"productName":"Ikura","unitPrice":13}`
	req := httptest.NewRequest(http.MethodPut, "/api/products", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var product ProductPayload
	require.NoError(t, json.NewDecoder(w.Body).Decode(&product))
	require.True(t, product.Price.Equal(decimal.NewFromInt(13)))

	uc.AssertExpectations(t)
}

func TestDeleteProduct(t *testing.T) {
	uc := new(mocks.MockProductUC)
	uc.On("DeleteProduct", mock.Anything, usecase.NewDeleteProductReq(4)).
		Return(nil).Once()

	r := newTestRouter(uc)

	req := httptest.NewRequest(http.MethodDelete, "/api/products/4", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, w.Body.String())

	uc.AssertExpectations(t)
}

func TestDeleteProduct_AbsentIsNoop(t *testing.T) {
	uc := new(mocks.MockProductUC)
	uc.On("DeleteProduct", mock.Anything, usecase.NewDeleteProductReq(999)).
		Return(nil).Once()

	r := newTestRouter(uc)

	req := httptest.NewRequest(http.MethodDelete, "/api/products/999", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, w.Body.String())

	uc.AssertExpectations(t)
}
