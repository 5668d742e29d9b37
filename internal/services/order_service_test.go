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

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) GetAll() ([]models.Order, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByCustomer(customerID string) ([]models.Order, error) {
	args := m.Called(customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) Create(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(id string, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(exchange, routingKey string, body []byte) error {
	args := m.Called(exchange, routingKey, body)
	return args.Error(0)
}

func TestOrderService_CreateOrderFromCartSnapshotsPrices(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	cartRepo := repositories.NewMockCartRepository()
	orderRepo := new(MockOrderRepository)
	publisher := new(MockPublisher)
	service := services.NewOrderService(orderRepo, productRepo, cartRepo, publisher)

	assert.NoError(t, productRepo.Create(&models.Product{ID: 1, Name: "Laptop", Price: 1200, Stock: 10}))
	assert.NoError(t, productRepo.Create(&models.Product{ID: 2, Name: "Mouse", Price: 25, Stock: 50}))
	assert.NoError(t, cartRepo.Create(&models.Cart{CustomerID: "cust-1", Lines: []models.CartLine{
		{ProductID: 1, Quantity: 1},
		{ProductID: 2, Quantity: 2},
	}}))

	orderRepo.On("Create", mock.Anything).Return(nil).Once()
	publisher.On("Publish", "order", "order.created", mock.Anything).Return(nil).Once()

	order, err := service.CreateOrderFromCart("cust-1")

	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPlaced, order.Status)
	assert.Equal(t, 1250.0, order.Total)
	if assert.Len(t, order.Lines, 2) {
		assert.Equal(t, 1200.0, order.Lines[0].PriceAtCheckout)
		assert.Equal(t, 25.0, order.Lines[1].PriceAtCheckout)
	}
	orderRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_CreateOrderFailsOnInsufficientStock(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	cartRepo := repositories.NewMockCartRepository()
	orderRepo := new(MockOrderRepository)
	service := services.NewOrderService(orderRepo, productRepo, cartRepo, nil)

	assert.NoError(t, productRepo.Create(&models.Product{ID: 1, Name: "Laptop", Price: 1200, Stock: 1}))
	assert.NoError(t, cartRepo.Create(&models.Cart{CustomerID: "cust-1", Lines: []models.CartLine{
		{ProductID: 1, Quantity: 3},
	}}))

	_, err := service.CreateOrderFromCart("cust-1")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient stock")
	orderRepo.AssertNotCalled(t, "Create")
}

func TestOrderService_CreateOrderFromEmptyCart(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	cartRepo := repositories.NewMockCartRepository()
	orderRepo := new(MockOrderRepository)
	service := services.NewOrderService(orderRepo, productRepo, cartRepo, nil)

	assert.NoError(t, cartRepo.Create(&models.Cart{CustomerID: "cust-1"}))

	_, err := service.CreateOrderFromCart("cust-1")
	assert.ErrorIs(t, err, services.ErrEmptyCart)
}

func TestOrderService_CreateOrderWithoutCart(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	cartRepo := repositories.NewMockCartRepository()
	orderRepo := new(MockOrderRepository)
	service := services.NewOrderService(orderRepo, productRepo, cartRepo, nil)

	_, err := service.CreateOrderFromCart("cust-unknown")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestOrderService_PublishFailureDoesNotFailTheOrder(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	cartRepo := repositories.NewMockCartRepository()
	orderRepo := new(MockOrderRepository)
	publisher := new(MockPublisher)
	service := services.NewOrderService(orderRepo, productRepo, cartRepo, publisher)

	assert.NoError(t, productRepo.Create(&models.Product{ID: 1, Name: "Mouse", Price: 25, Stock: 5}))
	assert.NoError(t, cartRepo.Create(&models.Cart{CustomerID: "cust-1", Lines: []models.CartLine{
		{ProductID: 1, Quantity: 1},
	}}))

	orderRepo.On("Create", mock.Anything).Return(nil).Once()
	publisher.On("Publish", "order", "order.created", mock.Anything).Return(fmt.Errorf("broker down")).Once()

	order, err := service.CreateOrderFromCart("cust-1")

	assert.NoError(t, err)
	assert.NotNil(t, order)
	publisher.AssertExpectations(t)
}

func TestOrderService_UpdateOrderStatusFollowsLifecycle(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	publisher := new(MockPublisher)
	service := services.NewOrderService(orderRepo, repositories.NewMockProductRepository(), repositories.NewMockCartRepository(), publisher)

	orderRepo.On("GetByID", "order-1").Return(&models.Order{ID: "order-1", Status: models.OrderStatusPlaced}, nil).Once()
	orderRepo.On("UpdateStatus", "order-1", models.OrderStatusPaid).Return(nil).Once()
	publisher.On("Publish", "order", "order.status.updated", mock.Anything).Return(nil).Once()

	err := service.UpdateOrderStatus("order-1", models.OrderStatusPaid)
	assert.NoError(t, err)
	orderRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_UpdateOrderStatusRejectsIllegalTransitions(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := services.NewOrderService(orderRepo, repositories.NewMockProductRepository(), repositories.NewMockCartRepository(), nil)

	// Skipping Paid is not allowed.
	orderRepo.On("GetByID", "order-1").Return(&models.Order{ID: "order-1", Status: models.OrderStatusPlaced}, nil).Once()
	err := service.UpdateOrderStatus("order-1", models.OrderStatusShipped)
	assert.ErrorIs(t, err, services.ErrInvalidStatusTransition)

	// Delivered is terminal.
	orderRepo.On("GetByID", "order-2").Return(&models.Order{ID: "order-2", Status: models.OrderStatusDelivered}, nil).Once()
	err = service.UpdateOrderStatus("order-2", models.OrderStatusCancelled)
	assert.ErrorIs(t, err, services.ErrInvalidStatusTransition)

	// Unknown statuses are rejected before any lookup.
	err = service.UpdateOrderStatus("order-3", "Refunded")
	assert.ErrorIs(t, err, services.ErrInvalidStatusTransition)

	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}
