package handlers

import (
	"net/http"

	"gasflow/internal/models"
	"gasflow/internal/services"

	"github.com/gin-gonic/gin"
)

type scheduleRequest struct {
	ProductID  string                   `json:"productId"`
	AddressID  string                   `json:"addressId"`
	Quantity   int                      `json:"quantity"`
	Type       models.OrderType         `json:"type"`
	Frequency  models.ScheduleFrequency `json:"frequency"`
	DayOfWeek  *int                     `json:"dayOfWeek"`
	DayOfMonth *int                     `json:"dayOfMonth"`
	IsActive   *bool                    `json:"isActive"`
}

func (r scheduleRequest) input() services.ScheduleInput {
	return services.ScheduleInput{
		ProductID:  r.ProductID,
		AddressID:  r.AddressID,
		Quantity:   r.Quantity,
		Type:       r.Type,
		Frequency:  r.Frequency,
		DayOfWeek:  r.DayOfWeek,
		DayOfMonth: r.DayOfMonth,
	}
}

func (h *APIHandler) ListSchedules(c *gin.Context) {
	schedules, err := h.schedules.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

func (h *APIHandler) ListAllSchedules(c *gin.Context) {
	schedules, err := h.schedules.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

func (h *APIHandler) CreateSchedule(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	schedule, err := h.schedules.Create(c.Request.Context(), currentUser(c).ID, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, schedule)
}

func (h *APIHandler) UpdateSchedule(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	schedule, err := h.schedules.Update(c.Request.Context(), currentUser(c).ID, c.Param("id"), services.ScheduleUpdate{
		ScheduleInput: req.input(),
		IsActive:      req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}

func (h *APIHandler) DeleteSchedule(c *gin.Context) {
	if err := h.schedules.Delete(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Schedule deleted"})
}
