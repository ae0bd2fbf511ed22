// internal/services/order_service_test.go
package services

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/shopkit/storefront-backend/internal/models"
	"github.com/shopkit/storefront-backend/internal/utils"
)

type OrderServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *OrderService
	user    *models.User
	admin   *models.User
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.service = NewOrderService(s.db)
	s.user = createTestUser(s.T(), s.db, "Alice", "alice@example.com", models.UserRoleUser)
	s.admin = createTestUser(s.T(), s.db, "Admin", "admin@example.com", models.UserRoleAdmin)
}

func (s *OrderServiceTestSuite) shippingAddress() ShippingAddressInput {
	return ShippingAddressInput{
		Street:  "1 Main St",
		City:    "Springfield",
		State:   "IL",
		ZipCode: "62701",
	}
}

func (s *OrderServiceTestSuite) TestCreateOrderComputesTotalAndDecrementsStock() {
	laptop := createTestProduct(s.T(), s.db, "Laptop", 999.99, "electronics", 10)
	book := createTestProduct(s.T(), s.db, "Novel", 12.50, "Books", 7)

	order, err := s.service.CreateOrder(s.user.ID, &CreateOrderRequest{
		Items: []OrderItemInput{
			{ProductID: laptop.ID, Quantity: 2},
			{ProductID: book.ID, Quantity: 3},
		},
		ShippingAddress: s.shippingAddress(),
	})
	require.NoError(s.T(), err)

	assert.Equal(s.T(), models.OrderStatusPending, order.Status)
	assert.InDelta(s.T(), 2*999.99+3*12.50, order.TotalAmount, 1e-9)
	assert.Len(s.T(), order.Items, 2)
	assert.Equal(s.T(), s.user.ID, order.UserID)
	assert.Equal(s.T(), "alice@example.com", order.User.Email)
	assert.Equal(s.T(), "Laptop", order.Items[0].Product.Name)

	var reloadedLaptop, reloadedBook models.Product
	require.NoError(s.T(), s.db.First(&reloadedLaptop, "id = ?", laptop.ID).Error)
	require.NoError(s.T(), s.db.First(&reloadedBook, "id = ?", book.ID).Error)
	assert.Equal(s.T(), 8, reloadedLaptop.Stock)
	assert.Equal(s.T(), 4, reloadedBook.Stock)
}

func (s *OrderServiceTestSuite) TestCreateOrderEmptyItems() {
	_, err := s.service.CreateOrder(s.user.ID, &CreateOrderRequest{
		Items:           nil,
		ShippingAddress: s.shippingAddress(),
	})

	var appErr *utils.AppError
	require.ErrorAs(s.T(), err, &appErr)
	assert.Equal(s.T(), http.StatusBadRequest, appErr.Status)
	assert.Equal(s.T(), "Order must have at least one item", appErr.Message)
}

func (s *OrderServiceTestSuite) TestCreateOrderUnknownProduct() {
	laptop := createTestProduct(s.T(), s.db, "Laptop", 999.99, "electronics", 10)
	missingID := uuid.New()

	_, err := s.service.CreateOrder(s.user.ID, &CreateOrderRequest{
		Items: []OrderItemInput{
			{ProductID: laptop.ID, Quantity: 2},
			{ProductID: missingID, Quantity: 1},
		},
		ShippingAddress: s.shippingAddress(),
	})

	var appErr *utils.AppError
	require.ErrorAs(s.T(), err, &appErr)
	assert.Equal(s.T(), http.StatusNotFound, appErr.Status)
	assert.Contains(s.T(), appErr.Message, missingID.String())

	// Transaction rolled back: no order exists and the first item's stock
	// is untouched
	var orderCount int64
	s.db.Model(&models.Order{}).Count(&orderCount)
	assert.Zero(s.T(), orderCount)

	var reloaded models.Product
	require.NoError(s.T(), s.db.First(&reloaded, "id = ?", laptop.ID).Error)
	assert.Equal(s.T(), 10, reloaded.Stock)
}

func (s *OrderServiceTestSuite) TestCreateOrderInsufficientStock() {
	widget := createTestProduct(s.T(), s.db, "Widget", 4.00, "gadgets", 5)

	// First order within stock succeeds
	order, err := s.service.CreateOrder(s.user.ID, &CreateOrderRequest{
		Items:           []OrderItemInput{{ProductID: widget.ID, Quantity: 3}},
		ShippingAddress: s.shippingAddress(),
	})
	require.NoError(s.T(), err)
	assert.InDelta(s.T(), 12.00, order.TotalAmount, 1e-9)

	var reloaded models.Product
	require.NoError(s.T(), s.db.First(&reloaded, "id = ?", widget.ID).Error)
	assert.Equal(s.T(), 2, reloaded.Stock)

	// Second order exceeding remaining stock fails and leaves stock alone
	_, err = s.service.CreateOrder(s.user.ID, &CreateOrderRequest{
		Items:           []OrderItemInput{{ProductID: widget.ID, Quantity: 4}},
		ShippingAddress: s.shippingAddress(),
	})

	var appErr *utils.AppError
	require.ErrorAs(s.T(), err, &appErr)
	assert.Equal(s.T(), http.StatusBadRequest, appErr.Status)
	assert.Contains(s.T(), appErr.Message, "Widget")

	require.NoError(s.T(), s.db.First(&reloaded, "id = ?", widget.ID).Error)
	assert.Equal(s.T(), 2, reloaded.Stock)

	var orderCount int64
	s.db.Model(&models.Order{}).Count(&orderCount)
	assert.Equal(s.T(), int64(1), orderCount)
}

func (s *OrderServiceTestSuite) TestCreateOrderMissingShippingField() {
	widget := createTestProduct(s.T(), s.db, "Widget", 4.00, "gadgets", 5)

	addr := s.shippingAddress()
	addr.ZipCode = ""

	_, err := s.service.CreateOrder(s.user.ID, &CreateOrderRequest{
		Items:           []OrderItemInput{{ProductID: widget.ID, Quantity: 1}},
		ShippingAddress: addr,
	})

	var appErr *utils.AppError
	require.ErrorAs(s.T(), err, &appErr)
	assert.Equal(s.T(), http.StatusBadRequest, appErr.Status)
}

func (s *OrderServiceTestSuite) TestPriceSnapshotFrozen() {
	widget := createTestProduct(s.T(), s.db, "Widget", 4.00, "gadgets", 5)

	order, err := s.service.CreateOrder(s.user.ID, &CreateOrderRequest{
		Items:           []OrderItemInput{{ProductID: widget.ID, Quantity: 1}},
		ShippingAddress: s.shippingAddress(),
	})
	require.NoError(s.T(), err)

	// Later price change must not leak into the historical order
	require.NoError(s.T(), s.db.Model(&models.Product{}).
		Where("id = ?", widget.ID).Update("price", 99.00).Error)

	reloaded, err := s.service.GetOrderByID(order.ID, s.user.ID, models.UserRoleUser)
	require.NoError(s.T(), err)
	assert.InDelta(s.T(), 4.00, reloaded.Items[0].Price, 1e-9)
	assert.InDelta(s.T(), 4.00, reloaded.TotalAmount, 1e-9)
}

func (s *OrderServiceTestSuite) TestGetUserOrdersOwnershipAndOrdering() {
	widget := createTestProduct(s.T(), s.db, "Widget", 4.00, "gadgets", 100)
	other := createTestUser(s.T(), s.db, "Bob", "bob@example.com", models.UserRoleUser)

	for i := 0; i < 3; i++ {
		_, err := s.service.CreateOrder(s.user.ID, &CreateOrderRequest{
			Items:           []OrderItemInput{{ProductID: widget.ID, Quantity: 1}},
			ShippingAddress: s.shippingAddress(),
		})
		require.NoError(s.T(), err)
	}
	_, err := s.service.CreateOrder(other.ID, &CreateOrderRequest{
		Items:           []OrderItemInput{{ProductID: widget.ID, Quantity: 1}},
		ShippingAddress: s.shippingAddress(),
	})
	require.NoError(s.T(), err)

	orders, pagination, err := s.service.GetUserOrders(s.user.ID, utils.PaginationParams{Page: 1, Limit: 10})
	require.NoError(s.T(), err)
	assert.Len(s.T(), orders, 3)
	assert.Equal(s.T(), int64(3), pagination.Total)

	for _, order := range orders {
		assert.Equal(s.T(), s.user.ID, order.UserID)
	}

	// Newest first
	for i := 1; i < len(orders); i++ {
		assert.False(s.T(), orders[i-1].CreatedAt.Before(orders[i].CreatedAt))
	}
}

func (s *OrderServiceTestSuite) TestGetUserOrdersPagination() {
	widget := createTestProduct(s.T(), s.db, "Widget", 1.00, "gadgets", 1000)

	for i := 0; i < 25; i++ {
		order := &models.Order{
			UserID:      s.user.ID,
			TotalAmount: 1.00,
			Status:      models.OrderStatusPending,
			Items: []models.OrderItem{
				{ProductID: widget.ID, Quantity: 1, Price: 1.00},
			},
			ShippingAddress: models.ShippingAddress{
				Street: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701",
			},
		}
		order.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		require.NoError(s.T(), s.db.Create(order).Error)
	}

	orders, pagination, err := s.service.GetUserOrders(s.user.ID, utils.PaginationParams{Page: 1, Limit: 10})
	require.NoError(s.T(), err)
	assert.Len(s.T(), orders, 10)
	assert.Equal(s.T(), int64(25), pagination.Total)
	assert.Equal(s.T(), 3, pagination.Pages)

	// Past the last page yields an empty list, not an error
	orders, pagination, err = s.service.GetUserOrders(s.user.ID, utils.PaginationParams{Page: 4, Limit: 10})
	require.NoError(s.T(), err)
	assert.Empty(s.T(), orders)
	assert.Equal(s.T(), 3, pagination.Pages)
}

func (s *OrderServiceTestSuite) TestGetOrderByIDAccessControl() {
	widget := createTestProduct(s.T(), s.db, "Widget", 4.00, "gadgets", 10)
	other := createTestUser(s.T(), s.db, "Bob", "bob@example.com", models.UserRoleUser)

	order, err := s.service.CreateOrder(s.user.ID, &CreateOrderRequest{
		Items:           []OrderItemInput{{ProductID: widget.ID, Quantity: 1}},
		ShippingAddress: s.shippingAddress(),
	})
	require.NoError(s.T(), err)

	// Owner sees it
	_, err = s.service.GetOrderByID(order.ID, s.user.ID, models.UserRoleUser)
	assert.NoError(s.T(), err)

	// Admin sees it
	_, err = s.service.GetOrderByID(order.ID, s.admin.ID, models.UserRoleAdmin)
	assert.NoError(s.T(), err)

	// Another user does not
	_, err = s.service.GetOrderByID(order.ID, other.ID, models.UserRoleUser)
	var appErr *utils.AppError
	require.ErrorAs(s.T(), err, &appErr)
	assert.Equal(s.T(), http.StatusForbidden, appErr.Status)

	// Missing order
	_, err = s.service.GetOrderByID(uuid.New(), s.user.ID, models.UserRoleUser)
	require.ErrorAs(s.T(), err, &appErr)
	assert.Equal(s.T(), http.StatusNotFound, appErr.Status)
}

func (s *OrderServiceTestSuite) TestGetAllOrdersStatusFilter() {
	widget := createTestProduct(s.T(), s.db, "Widget", 4.00, "gadgets", 100)

	for i := 0; i < 4; i++ {
		order, err := s.service.CreateOrder(s.user.ID, &CreateOrderRequest{
			Items:           []OrderItemInput{{ProductID: widget.ID, Quantity: 1}},
			ShippingAddress: s.shippingAddress(),
		})
		require.NoError(s.T(), err)

		if i%2 == 0 {
			_, err = s.service.UpdateOrderStatus(order.ID, models.OrderStatusShipped)
			require.NoError(s.T(), err)
		}
	}

	orders, pagination, err := s.service.GetAllOrders(utils.PaginationParams{Page: 1, Limit: 10, Status: "shipped"})
	require.NoError(s.T(), err)
	assert.Len(s.T(), orders, 2)
	assert.Equal(s.T(), int64(2), pagination.Total)

	orders, pagination, err = s.service.GetAllOrders(utils.PaginationParams{Page: 1, Limit: 10})
	require.NoError(s.T(), err)
	assert.Len(s.T(), orders, 4)
	assert.Equal(s.T(), int64(4), pagination.Total)
}

func (s *OrderServiceTestSuite) TestUpdateOrderStatus() {
	widget := createTestProduct(s.T(), s.db, "Widget", 4.00, "gadgets", 10)

	order, err := s.service.CreateOrder(s.user.ID, &CreateOrderRequest{
		Items:           []OrderItemInput{{ProductID: widget.ID, Quantity: 1}},
		ShippingAddress: s.shippingAddress(),
	})
	require.NoError(s.T(), err)

	// Rejects a status outside the fixed set and leaves the order unchanged
	_, err = s.service.UpdateOrderStatus(order.ID, "returned")
	var appErr *utils.AppError
	require.ErrorAs(s.T(), err, &appErr)
	assert.Equal(s.T(), http.StatusBadRequest, appErr.Status)
	assert.Equal(s.T(), "Invalid order status", appErr.Message)

	reloaded, err := s.service.GetOrderByID(order.ID, s.user.ID, models.UserRoleUser)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.OrderStatusPending, reloaded.Status)

	// Any valid status is accepted, including moving out of a terminal one
	updated, err := s.service.UpdateOrderStatus(order.ID, models.OrderStatusCancelled)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.OrderStatusCancelled, updated.Status)

	updated, err = s.service.UpdateOrderStatus(order.ID, models.OrderStatusProcessing)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.OrderStatusProcessing, updated.Status)

	// Missing order
	_, err = s.service.UpdateOrderStatus(uuid.New(), models.OrderStatusShipped)
	require.ErrorAs(s.T(), err, &appErr)
	assert.Equal(s.T(), http.StatusNotFound, appErr.Status)
}

func (s *OrderServiceTestSuite) TestCreateOrderManyItemsTotal() {
	var items []OrderItemInput
	expected := 0.0
	for i := 0; i < 5; i++ {
		price := float64(i+1) * 1.25
		product := createTestProduct(s.T(), s.db, fmt.Sprintf("Item %d", i), price, "misc", 50)
		items = append(items, OrderItemInput{ProductID: product.ID, Quantity: i + 1})
		expected += price * float64(i+1)
	}

	order, err := s.service.CreateOrder(s.user.ID, &CreateOrderRequest{
		Items:           items,
		ShippingAddress: s.shippingAddress(),
	})
	require.NoError(s.T(), err)
	assert.InDelta(s.T(), expected, order.TotalAmount, 1e-9)
	assert.Len(s.T(), order.Items, 5)
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}
