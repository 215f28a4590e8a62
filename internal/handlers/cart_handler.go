package handlers

import (
	"net/http"

	"gasflow/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *APIHandler) GetCart(c *gin.Context) {
	items, err := h.cart.GetCart(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *APIHandler) AddToCart(c *gin.Context) {
	var req struct {
		ProductID string           `json:"productId" binding:"required"`
		Type      models.OrderType `json:"type" binding:"required"`
		Quantity  int              `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item, err := h.cart.AddItem(c.Request.Context(), currentUser(c).ID, req.ProductID, req.Type, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *APIHandler) UpdateCartItem(c *gin.Context) {
	var req struct {
		Quantity int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	item, err := h.cart.UpdateQuantity(c.Request.Context(), currentUser(c).ID, c.Param("id"), req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *APIHandler) RemoveCartItem(c *gin.Context) {
	if err := h.cart.RemoveItem(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed"})
}

func (h *APIHandler) ClearCart(c *gin.Context) {
	if err := h.cart.Clear(c.Request.Context(), currentUser(c).ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
