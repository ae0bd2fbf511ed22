// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopkit/storefront-backend/internal/models"
	"github.com/shopkit/storefront-backend/internal/utils"
)

type OrderService struct {
	db *gorm.DB
}

type OrderItemInput struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type ShippingAddressInput struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zipCode" validate:"required"`
}

type CreateOrderRequest struct {
	Items           []OrderItemInput     `json:"items" validate:"min=1,dive"`
	ShippingAddress ShippingAddressInput `json:"shippingAddress"`
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// CreateOrder validates every line item against current stock, snapshots
// prices, decrements stock, and persists the order. The whole sequence runs
// in one transaction: if any item fails its stock check, nothing is
// decremented and no order is created.
func (s *OrderService) CreateOrder(userID uuid.UUID, req *CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, utils.BadRequestError("Order must have at least one item")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationFailedError(err)
	}

	var order *models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var totalAmount float64
		var orderItems []models.OrderItem

		for _, item := range req.Items {
			var product models.Product
			if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return utils.NotFoundError("Product %s not found", item.ProductID)
				}
				return fmt.Errorf("database error: %w", err)
			}

			if product.Stock < item.Quantity {
				return utils.BadRequestError("Insufficient stock for %s", product.Name)
			}

			// Conditional decrement; a concurrent order that drained the
			// stock between the read and the write leaves zero rows affected.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to update stock: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return utils.BadRequestError("Insufficient stock for %s", product.Name)
			}

			totalAmount += product.Price * float64(item.Quantity)

			orderItems = append(orderItems, models.OrderItem{
				ProductID: product.ID,
				Quantity:  item.Quantity,
				Price:     product.Price,
			})
		}

		order = &models.Order{
			UserID:      userID,
			Items:       orderItems,
			TotalAmount: totalAmount,
			Status:      models.OrderStatusPending,
			ShippingAddress: models.ShippingAddress{
				Street:  req.ShippingAddress.Street,
				City:    req.ShippingAddress.City,
				State:   req.ShippingAddress.State,
				ZipCode: req.ShippingAddress.ZipCode,
			},
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	// Reload with product and user display fields for immediate rendering
	if err := s.db.Preload("Items.Product").Preload("User").
		First(order, "id = ?", order.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load created order: %w", err)
	}

	return order, nil
}

// GetUserOrders returns the user's own orders, newest first.
func (s *OrderService) GetUserOrders(userID uuid.UUID, params utils.PaginationParams) ([]models.Order, utils.Pagination, error) {
	query := s.db.Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, utils.Pagination{}, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	if err := utils.ApplyPagination(query.Preload("Items.Product").Order("created_at DESC"), params).
		Find(&orders).Error; err != nil {
		return nil, utils.Pagination{}, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, utils.NewPagination(total, params), nil
}

// GetOrderByID enforces ownership: users see only their own orders, admins
// see any.
func (s *OrderService) GetOrderByID(orderID, requesterID uuid.UUID, requesterRole models.UserRole) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items.Product").Preload("User").
		First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError("Order not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !requesterRole.IsAdmin() && order.UserID != requesterID {
		return nil, utils.ForbiddenError("Access denied")
	}

	return &order, nil
}

// GetAllOrders is admin-only by caller contract; the route guard enforces it.
func (s *OrderService) GetAllOrders(params utils.PaginationParams) ([]models.Order, utils.Pagination, error) {
	query := s.db.Model(&models.Order{})

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, utils.Pagination{}, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	if err := utils.ApplyPagination(query.Preload("Items.Product").Preload("User").Order("created_at DESC"), params).
		Find(&orders).Error; err != nil {
		return nil, utils.Pagination{}, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, utils.NewPagination(total, params), nil
}

// UpdateOrderStatus accepts any of the five statuses; no transition graph is
// enforced, a terminal status may move back to any other.
func (s *OrderService) UpdateOrderStatus(orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, utils.BadRequestError("Invalid order status")
	}

	var order models.Order
	if err := s.db.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError("Order not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&order).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if err := s.db.Preload("Items.Product").Preload("User").
		First(&order, "id = ?", orderID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}

	return &order, nil
}
