// internal/handlers/order.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopkit/storefront-backend/internal/models"
	"github.com/shopkit/storefront-backend/internal/services"
	"github.com/shopkit/storefront-backend/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func requesterFromContext(c *gin.Context) (uuid.UUID, models.UserRole, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		return uuid.Nil, "", false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, "", false
	}

	role, _ := utils.GetUserRoleFromContext(c)
	return userID, models.UserRole(role), true
}

// POST /api/orders
func (h *OrderHandler) Create(c *gin.Context) {
	userID, _, ok := requesterFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Missing token")
		return
	}

	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	order, err := h.orderService.CreateOrder(userID, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"order": order})
}

// GET /api/orders/my-orders
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	userID, _, ok := requesterFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Missing token")
		return
	}

	params := utils.GetPaginationParams(c)

	orders, pagination, err := h.orderService.GetUserOrders(userID, params)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"orders":     orders,
		"pagination": pagination,
	})
}

// GET /api/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	requesterID, role, ok := requesterFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Missing token")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrderByID(orderID, requesterID, role)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"order": order})
}

// GET /api/orders/admin/all
func (h *OrderHandler) GetAll(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	orders, pagination, err := h.orderService.GetAllOrders(params)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"orders":     orders,
		"pagination": pagination,
	})
}

// PUT /api/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID")
		return
	}

	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	order, err := h.orderService.UpdateOrderStatus(orderID, models.OrderStatus(req.Status))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"order": order})
}
