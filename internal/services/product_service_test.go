package services_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/internal/services"
)

// MockCategoryRepository is a mock implementation of repositories.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetAll() ([]models.Category, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByID(id string) (*models.Category, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(category *models.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(category *models.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func TestProductService_CreateProductChecksCategory(t *testing.T) {
	mockProducts := new(MockProductRepository)
	mockCategories := new(MockCategoryRepository)
	service := services.NewProductService(mockProducts, mockCategories)

	product := &models.Product{Name: "Laptop", CategoryID: "cat-1", SellerID: "seller-1"}

	// Test successful creation
	mockCategories.On("GetByID", "cat-1").Return(&models.Category{ID: "cat-1"}, nil).Once()
	mockProducts.On("Create", product).Return(nil).Once()
	assert.NoError(t, service.CreateProduct(product))
	mockProducts.AssertExpectations(t)
	mockCategories.AssertExpectations(t)

	// Test unknown category
	mockCategories.On("GetByID", "cat-1").
		Return(nil, fmt.Errorf("category cat-1: %w", repositories.ErrNotFound)).Once()
	err := service.CreateProduct(product)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	mockProducts.AssertNumberOfCalls(t, "Create", 1)
}

func TestProductService_UpdateAppliesOnlyChangedFields(t *testing.T) {
	mockProducts := new(MockProductRepository)
	mockCategories := new(MockCategoryRepository)
	service := services.NewProductService(mockProducts, mockCategories)

	stored := &models.Product{
		ID: 7, Name: "Laptop", Description: "14 inch", Price: 1200, Stock: 3,
		CategoryID: "cat-1", SellerID: "seller-1",
	}
	mockProducts.On("GetByID", uint(7)).Return(stored, nil).Twice()
	mockProducts.On("Update", mock.AnythingOfType("*models.Product")).Return(nil).Once()

	price := 999.0
	updated, err := service.UpdateProduct(7, models.RoleSeller, "seller-1", services.ProductUpdate{
		Price: &price,
	})

	assert.NoError(t, err)
	assert.Equal(t, 999.0, updated.Price)
	assert.Equal(t, "Laptop", updated.Name)
	assert.Equal(t, "14 inch", updated.Description)
	mockProducts.AssertExpectations(t)
	// The category repository is consulted only when the category changes.
	mockCategories.AssertNotCalled(t, "GetByID")
}

func TestProductService_UpdateForbiddenForOtherSeller(t *testing.T) {
	mockProducts := new(MockProductRepository)
	mockCategories := new(MockCategoryRepository)
	service := services.NewProductService(mockProducts, mockCategories)

	stored := &models.Product{ID: 7, Name: "Laptop", SellerID: "seller-1"}
	mockProducts.On("GetByID", uint(7)).Return(stored, nil).Once()

	name := "Hijacked"
	_, err := service.UpdateProduct(7, models.RoleSeller, "seller-2", services.ProductUpdate{Name: &name})

	assert.ErrorIs(t, err, services.ErrForbidden)
	mockProducts.AssertNotCalled(t, "Update")
}

func TestProductService_AdminMayUpdateAnyProduct(t *testing.T) {
	mockProducts := new(MockProductRepository)
	mockCategories := new(MockCategoryRepository)
	service := services.NewProductService(mockProducts, mockCategories)

	stored := &models.Product{ID: 7, Name: "Laptop", SellerID: "seller-1"}
	mockProducts.On("GetByID", uint(7)).Return(stored, nil).Twice()
	mockProducts.On("Update", mock.AnythingOfType("*models.Product")).Return(nil).Once()

	stock := 0
	_, err := service.UpdateProduct(7, models.RoleAdmin, "admin-1", services.ProductUpdate{Stock: &stock})

	assert.NoError(t, err)
	mockProducts.AssertExpectations(t)
}

func TestProductService_DeleteEnforcesOwnership(t *testing.T) {
	mockProducts := new(MockProductRepository)
	mockCategories := new(MockCategoryRepository)
	service := services.NewProductService(mockProducts, mockCategories)

	stored := &models.Product{ID: 7, SellerID: "seller-1"}

	mockProducts.On("GetByID", uint(7)).Return(stored, nil).Once()
	err := service.DeleteProduct(7, models.RoleCustomer, "cust-1")
	assert.ErrorIs(t, err, services.ErrForbidden)
	mockProducts.AssertNotCalled(t, "Delete")

	mockProducts.On("GetByID", uint(7)).Return(stored, nil).Once()
	mockProducts.On("Delete", uint(7)).Return(nil).Once()
	assert.NoError(t, service.DeleteProduct(7, models.RoleSeller, "seller-1"))
	mockProducts.AssertExpectations(t)
}
