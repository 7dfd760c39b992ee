package mocks

import (
	"context"

	"github.com/DRSN-tech/products-api/internal/domain"
	"github.com/DRSN-tech/products-api/internal/usecase"

	"github.com/stretchr/testify/mock"
)

type MockProductUC struct {
	mock.Mock
}

func (m *MockProductUC) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductUC) GetProduct(ctx context.Context, req *usecase.GetProductReq) (*domain.Product, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductUC) CreateProduct(ctx context.Context, req *usecase.CreateProductReq) (*domain.Product, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductUC) UpdateProduct(ctx context.Context, req *usecase.UpdateProductReq) (*domain.Product, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductUC) DeleteProduct(ctx context.Context, req *usecase.DeleteProductReq) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
