package handlers

import (
	"net/http"

	"gasflow/internal/models"
	"gasflow/internal/services"

	"github.com/gin-gonic/gin"
)

type createOrderRequest struct {
	ProductID     string               `json:"productId" binding:"required"`
	AddressID     string               `json:"addressId" binding:"required"`
	Quantity      int                  `json:"quantity" binding:"required"`
	Type          models.OrderType     `json:"type" binding:"required"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	Notes         string               `json:"notes"`
}

type posSaleRequest struct {
	CustomerID string `json:"customerId"`
	Items      []struct {
		ProductID string           `json:"productId" binding:"required"`
		Quantity  int              `json:"quantity" binding:"required"`
		Type      models.OrderType `json:"type" binding:"required"`
	} `json:"items" binding:"required,dive"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	Notes         string               `json:"notes"`
}

func (h *APIHandler) ListOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context(), currentUser(c), models.OrderStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *APIHandler) GetOrder(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *APIHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), currentUser(c).ID, services.CreateOrderInput{
		ProductID:     req.ProductID,
		AddressID:     req.AddressID,
		Quantity:      req.Quantity,
		Type:          req.Type,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *APIHandler) UpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *APIHandler) GetReceipt(c *gin.Context) {
	receipt, err := h.orders.GetReceipt(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

func (h *APIHandler) TrackOrders(c *gin.Context) {
	orders, err := h.orders.ListTracking(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *APIHandler) CreatePOSSale(c *gin.Context) {
	var req posSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	input := services.POSSaleInput{
		CustomerID:    req.CustomerID,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, services.POSItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Type:      item.Type,
		})
	}

	result, err := h.orders.CreatePOSSale(c.Request.Context(), currentUser(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
