package handlers

import (
	"net/http"

	"gasflow/internal/models"
	"gasflow/internal/services"

	"github.com/gin-gonic/gin"
)

type addressRequest struct {
	Label       string              `json:"label"`
	Street      string              `json:"street"`
	City        string              `json:"city"`
	Province    string              `json:"province"`
	ZipCode     string              `json:"zipCode"`
	Coordinates *models.Coordinates `json:"coordinates"`
	IsDefault   bool                `json:"isDefault"`
}

func (r addressRequest) input() services.AddressInput {
	return services.AddressInput{
		Label:       r.Label,
		Street:      r.Street,
		City:        r.City,
		Province:    r.Province,
		ZipCode:     r.ZipCode,
		Coordinates: r.Coordinates,
		IsDefault:   r.IsDefault,
	}
}

func (h *APIHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		Phone     *string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), currentUser(c).ID, services.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *APIHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListCustomers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *APIHandler) ListAddresses(c *gin.Context) {
	addresses, err := h.users.ListAddresses(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, addresses)
}

func (h *APIHandler) ListAllAddresses(c *gin.Context) {
	addresses, err := h.users.ListAllAddresses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, addresses)
}

func (h *APIHandler) CreateAddress(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	address, err := h.users.CreateAddress(c.Request.Context(), currentUser(c).ID, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, address)
}

func (h *APIHandler) UpdateAddress(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	address, err := h.users.UpdateAddress(c.Request.Context(), currentUser(c).ID, c.Param("id"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, address)
}

func (h *APIHandler) DeleteAddress(c *gin.Context) {
	if err := h.users.DeleteAddress(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
}
