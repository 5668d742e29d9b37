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

// MockCartRepository is a mock implementation of repositories.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Create(cart *models.Cart) error {
	args := m.Called(cart)
	return args.Error(0)
}

func (m *MockCartRepository) GetAll() ([]models.Cart, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Cart), args.Error(1)
}

func (m *MockCartRepository) GetByID(id string) (*models.Cart, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartRepository) GetByCustomer(customerID string) (*models.Cart, error) {
	args := m.Called(customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartRepository) AddLine(cartID string, line *models.CartLine) error {
	args := m.Called(cartID, line)
	return args.Error(0)
}

func (m *MockCartRepository) RemoveLines(cartID string, productID uint) error {
	args := m.Called(cartID, productID)
	return args.Error(0)
}

func (m *MockCartRepository) UpdateLines(cartID string, productID uint, quantity *int, priceAtAdd *float64) error {
	args := m.Called(cartID, productID, quantity, priceAtAdd)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

// newSeededCart stands up an in-memory cart with the given lines.
func newSeededCart(t *testing.T, repo *repositories.MockCartRepository, customerID string, lines ...models.CartLine) *models.Cart {
	t.Helper()
	cart := &models.Cart{CustomerID: customerID, Lines: lines}
	assert.NoError(t, repo.Create(cart))
	return cart
}

func TestCartService_BatchAppliesActionsInOrder(t *testing.T) {
	repo := repositories.NewMockCartRepository()
	service := services.NewCartService(repo)

	// Cart [{A qty 2}, {B qty 1}]; batch [update A qty 3, add C qty 1,
	// remove B] must yield [{A qty 3}, {C qty 1}].
	cart := newSeededCart(t, repo, "cust-1",
		models.CartLine{ProductID: 1, Quantity: 2},
		models.CartLine{ProductID: 2, Quantity: 1},
	)

	result, err := service.ApplyActions(cart, []models.CartAction{
		{ProductID: 1, Quantity: intPtr(3), Action: models.CartActionUpdate},
		{ProductID: 3, Quantity: intPtr(1), Action: models.CartActionAdd},
		{ProductID: 2, Action: models.CartActionRemove},
	})

	assert.NoError(t, err)
	if assert.Len(t, result.Lines, 2) {
		assert.Equal(t, uint(1), result.Lines[0].ProductID)
		assert.Equal(t, 3, result.Lines[0].Quantity)
		assert.Equal(t, uint(3), result.Lines[1].ProductID)
		assert.Equal(t, 1, result.Lines[1].Quantity)
	}
}

func TestCartService_RepeatedAddProducesDuplicateLines(t *testing.T) {
	repo := repositories.NewMockCartRepository()
	service := services.NewCartService(repo)
	cart := newSeededCart(t, repo, "cust-1")

	// add does not upsert: two adds of the same product are two lines.
	result, err := service.ApplyActions(cart, []models.CartAction{
		{ProductID: 7, Quantity: intPtr(1), Action: models.CartActionAdd},
		{ProductID: 7, Quantity: intPtr(2), Action: models.CartActionAdd},
	})

	assert.NoError(t, err)
	assert.Len(t, result.Lines, 2)
}

func TestCartService_RemoveDeletesEveryLineOfTheProduct(t *testing.T) {
	repo := repositories.NewMockCartRepository()
	service := services.NewCartService(repo)

	// Duplicate-add scenario: two lines for the same product, one remove
	// takes out both.
	cart := newSeededCart(t, repo, "cust-1",
		models.CartLine{ProductID: 7, Quantity: 1},
		models.CartLine{ProductID: 7, Quantity: 2},
		models.CartLine{ProductID: 8, Quantity: 1},
	)

	result, err := service.ApplyActions(cart, []models.CartAction{
		{ProductID: 7, Action: models.CartActionRemove},
	})

	assert.NoError(t, err)
	if assert.Len(t, result.Lines, 1) {
		assert.Equal(t, uint(8), result.Lines[0].ProductID)
	}
}

func TestCartService_UpdateChangesOnlyNamedFields(t *testing.T) {
	repo := repositories.NewMockCartRepository()
	service := services.NewCartService(repo)

	cart := newSeededCart(t, repo, "cust-1",
		models.CartLine{ProductID: 1, Quantity: 2, PriceAtAdd: floatPtr(9.99)},
		models.CartLine{ProductID: 2, Quantity: 4, PriceAtAdd: floatPtr(5.00)},
	)

	result, err := service.ApplyActions(cart, []models.CartAction{
		{ProductID: 1, Quantity: intPtr(5), Action: models.CartActionUpdate},
	})

	assert.NoError(t, err)
	if assert.Len(t, result.Lines, 2) {
		// Quantity changed, price-at-add untouched.
		assert.Equal(t, 5, result.Lines[0].Quantity)
		assert.Equal(t, 9.99, *result.Lines[0].PriceAtAdd)
		// The other line is untouched entirely.
		assert.Equal(t, 4, result.Lines[1].Quantity)
		assert.Equal(t, 5.00, *result.Lines[1].PriceAtAdd)
	}
}

func TestCartService_UpdateWithoutMatchingLineIsANoOp(t *testing.T) {
	repo := repositories.NewMockCartRepository()
	service := services.NewCartService(repo)
	cart := newSeededCart(t, repo, "cust-1",
		models.CartLine{ProductID: 1, Quantity: 2},
	)

	result, err := service.ApplyActions(cart, []models.CartAction{
		{ProductID: 99, Quantity: intPtr(5), Action: models.CartActionUpdate},
	})

	assert.NoError(t, err)
	assert.Len(t, result.Lines, 1)
	assert.Equal(t, 2, result.Lines[0].Quantity)
}

func TestCartService_UnknownActionIsIgnored(t *testing.T) {
	repo := repositories.NewMockCartRepository()
	service := services.NewCartService(repo)
	cart := newSeededCart(t, repo, "cust-1",
		models.CartLine{ProductID: 1, Quantity: 2},
	)

	result, err := service.ApplyActions(cart, []models.CartAction{
		{ProductID: 1, Action: "increment"},
	})

	assert.NoError(t, err)
	assert.Len(t, result.Lines, 1)
}

func TestCartService_MidBatchFailureLeavesEarlierActionsApplied(t *testing.T) {
	// The batch is not atomic: when the second action's storage call
	// fails, the first stays applied and nothing is rolled back.
	mockRepo := new(MockCartRepository)
	service := services.NewCartService(mockRepo)
	cart := &models.Cart{ID: "cart-1", CustomerID: "cust-1"}

	mockRepo.On("AddLine", "cart-1", mock.Anything).Return(nil).Once()
	mockRepo.On("RemoveLines", "cart-1", uint(2)).Return(fmt.Errorf("connection reset")).Once()

	result, err := service.ApplyActions(cart, []models.CartAction{
		{ProductID: 1, Quantity: intPtr(1), Action: models.CartActionAdd},
		{ProductID: 2, Action: models.CartActionRemove},
		{ProductID: 3, Quantity: intPtr(1), Action: models.CartActionAdd},
	})

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	// The first add went through, the trailing add never ran, and no
	// compensating call was issued.
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNumberOfCalls(t, "AddLine", 1)
	mockRepo.AssertNotCalled(t, "GetByID", "cart-1")
}

func TestCartService_MutateCreatesCartLazily(t *testing.T) {
	repo := repositories.NewMockCartRepository()
	service := services.NewCartService(repo)

	// No cart exists for the customer yet; the first mutation creates it.
	result, err := service.MutateCartOfCustomer("cust-9", []models.CartAction{
		{ProductID: 4, Quantity: intPtr(2), Action: models.CartActionAdd},
	})

	assert.NoError(t, err)
	assert.Equal(t, "cust-9", result.CustomerID)
	if assert.Len(t, result.Lines, 1) {
		assert.Equal(t, uint(4), result.Lines[0].ProductID)
	}
}

func TestCartService_CreateCartTurnsEveryItemIntoALine(t *testing.T) {
	repo := repositories.NewMockCartRepository()
	service := services.NewCartService(repo)

	// Initial items carry no action; each one becomes a line, with the
	// quantity defaulting to 1.
	cart, err := service.CreateCart("cust-1", []models.CartItem{
		{ProductID: 1, Quantity: intPtr(2), PriceAtAdd: floatPtr(9.99)},
		{ProductID: 2},
	})

	assert.NoError(t, err)
	if assert.Len(t, cart.Lines, 2) {
		assert.Equal(t, uint(1), cart.Lines[0].ProductID)
		assert.Equal(t, 2, cart.Lines[0].Quantity)
		assert.Equal(t, 9.99, *cart.Lines[0].PriceAtAdd)
		assert.Equal(t, uint(2), cart.Lines[1].ProductID)
		assert.Equal(t, 1, cart.Lines[1].Quantity)
	}
}

func TestCartService_HeldCartIsNotRewrittenByLaterMutations(t *testing.T) {
	repo := repositories.NewMockCartRepository()
	service := services.NewCartService(repo)
	cart := newSeededCart(t, repo, "cust-1",
		models.CartLine{ProductID: 1, Quantity: 2},
		models.CartLine{ProductID: 2, Quantity: 4},
	)

	held, err := service.GetCartByID(cart.ID)
	assert.NoError(t, err)

	_, err = service.ApplyActions(cart, []models.CartAction{
		{ProductID: 2, Quantity: intPtr(9), Action: models.CartActionUpdate},
		{ProductID: 1, Action: models.CartActionRemove},
	})
	assert.NoError(t, err)

	// The copy read before the batch keeps the lines it was read with.
	if assert.Len(t, held.Lines, 2) {
		assert.Equal(t, uint(1), held.Lines[0].ProductID)
		assert.Equal(t, 2, held.Lines[0].Quantity)
		assert.Equal(t, uint(2), held.Lines[1].ProductID)
		assert.Equal(t, 4, held.Lines[1].Quantity)
	}
}

func TestCartService_CreateCartRejectsSecondCart(t *testing.T) {
	repo := repositories.NewMockCartRepository()
	service := services.NewCartService(repo)

	_, err := service.CreateCart("cust-1", nil)
	assert.NoError(t, err)

	_, err = service.CreateCart("cust-1", nil)
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
}
