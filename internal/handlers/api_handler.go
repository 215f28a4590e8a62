package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"gasflow/internal/middleware"
	"gasflow/internal/models"
	"gasflow/internal/services"

	"github.com/gin-gonic/gin"
)

// Services is everything the REST handlers call into.
type Services struct {
	Auth          services.AuthService
	Users         services.UserService
	Products      services.ProductService
	Cart          services.CartService
	Orders        services.OrderService
	Chat          services.ChatService
	Notifications services.NotificationService
	Schedules     services.ScheduleService
	Analytics     services.AnalyticsService
	Uploads       services.UploadService
}

type APIHandler struct {
	auth          services.AuthService
	users         services.UserService
	products      services.ProductService
	cart          services.CartService
	orders        services.OrderService
	chat          services.ChatService
	notifications services.NotificationService
	schedules     services.ScheduleService
	analytics     services.AnalyticsService
	uploads       services.UploadService
}

func NewAPIHandler(svc Services) *APIHandler {
	return &APIHandler{
		auth:          svc.Auth,
		users:         svc.Users,
		products:      svc.Products,
		cart:          svc.Cart,
		orders:        svc.Orders,
		chat:          svc.Chat,
		notifications: svc.Notifications,
		schedules:     svc.Schedules,
		analytics:     svc.Analytics,
		uploads:       svc.Uploads,
	}
}

func currentUser(c *gin.Context) *models.User {
	return middleware.CurrentUser(c)
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request format"})
}

// respondError maps service errors onto HTTP status codes. Anything not
// recognised is logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidTransition):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrInsufficientStock):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"message": err.Error()})
}
