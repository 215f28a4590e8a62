package handlers

import (
	"net/http"

	"gasflow/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type productRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Weight      *string          `json:"weight"`
	NewPrice    *decimal.Decimal `json:"newPrice"`
	SwapPrice   *decimal.Decimal `json:"swapPrice"`
	Stock       *int             `json:"stock"`
	ImageURL    *string          `json:"imageUrl"`
	IsActive    *bool            `json:"isActive"`
}

// ListProducts shows the active catalog. Admins may pass ?all=true to
// include deactivated products.
func (h *APIHandler) ListProducts(c *gin.Context) {
	user := currentUser(c)
	includeInactive := c.Query("all") == "true" && user != nil && user.IsAdmin()

	products, err := h.products.ListProducts(c.Request.Context(), includeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *APIHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	if req.Name == nil || req.Weight == nil || req.NewPrice == nil || req.SwapPrice == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name, weight, newPrice and swapPrice are required"})
		return
	}

	input := services.ProductInput{
		Name:      *req.Name,
		Weight:    *req.Weight,
		NewPrice:  *req.NewPrice,
		SwapPrice: *req.SwapPrice,
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.Stock != nil {
		input.Stock = *req.Stock
	}
	if req.ImageURL != nil {
		input.ImageURL = *req.ImageURL
	}

	product, err := h.products.CreateProduct(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *APIHandler) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	product, err := h.products.UpdateProduct(c.Request.Context(), c.Param("id"), services.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Weight:      req.Weight,
		NewPrice:    req.NewPrice,
		SwapPrice:   req.SwapPrice,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *APIHandler) DeleteProduct(c *gin.Context) {
	if err := h.products.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deactivated"})
}

// ImportProducts takes a multipart "file" holding an xlsx workbook.
func (h *APIHandler) ImportProducts(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "File is required"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to open file"})
		return
	}
	defer f.Close()

	result, err := h.products.ImportProducts(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
