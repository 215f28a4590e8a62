package handlers

import (
	"time"

	"gasflow/internal/middleware"
	"gasflow/internal/realtime"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	Services          Services
	Hub               *realtime.Hub
	Limiter           middleware.Limiter
	RateLimitRequests int
	RateLimitWindow   time.Duration
	FrontendURL       string
	UploadDir         string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.FrontendURL != "" {
		corsConfig.AllowOrigins = []string{cfg.FrontendURL}
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))

	if cfg.UploadDir != "" {
		router.Static("/uploads", cfg.UploadDir)
	}

	api := NewAPIHandler(cfg.Services)
	authMW := middleware.NewAuthMiddleware(cfg.Services.Auth)
	requireAuth := authMW.RequireAuth()
	requireAdmin := authMW.RequireAdmin()
	limit := middleware.RateLimit(cfg.Limiter, "auth", cfg.RateLimitRequests, cfg.RateLimitWindow)

	router.GET("/health", Health)
	router.GET("/ws", NewWSHandler(cfg.Hub, cfg.Services.Auth, cfg.FrontendURL).Serve)

	auth := router.Group("/api/auth")
	{
		auth.POST("/register", limit, api.Register)
		auth.POST("/login", limit, api.Login)
		auth.POST("/forgot-password", limit, api.ForgotPassword)
		auth.POST("/reset-password", limit, api.ResetPassword)
		auth.GET("/verify-email", api.VerifyEmail)
		auth.POST("/resend-verification", limit, requireAuth, api.ResendVerification)
		auth.GET("/me", requireAuth, api.Me)
		auth.PUT("/change-password", requireAuth, api.ChangePassword)
	}

	router.GET("/api/products", authMW.OptionalAuth(), api.ListProducts)

	protected := router.Group("/api")
	protected.Use(requireAuth)
	{
		protected.PUT("/users/me", api.UpdateProfile)
		protected.GET("/users/addresses", api.ListAddresses)
		protected.POST("/users/addresses", api.CreateAddress)
		protected.PUT("/users/addresses/:id", api.UpdateAddress)
		protected.DELETE("/users/addresses/:id", api.DeleteAddress)

		protected.GET("/cart", api.GetCart)
		protected.POST("/cart", api.AddToCart)
		protected.DELETE("/cart", api.ClearCart)
		protected.PUT("/cart/:id", api.UpdateCartItem)
		protected.DELETE("/cart/:id", api.RemoveCartItem)

		protected.GET("/orders", api.ListOrders)
		protected.POST("/orders", api.CreateOrder)
		protected.GET("/orders/:id", api.GetOrder)
		protected.GET("/orders/:id/receipt", api.GetReceipt)

		protected.GET("/chat/messages", api.GetMessages)
		protected.POST("/chat/messages", api.SendMessage)
		protected.POST("/chat/messages/read", api.MarkMessagesRead)
		protected.PUT("/chat/messages/:id", api.EditMessage)
		protected.DELETE("/chat/messages/:id", api.DeleteMessage)
		protected.DELETE("/chat/messages/:id/unsend", api.UnsendMessage)

		protected.GET("/notifications", api.ListNotifications)
		protected.PUT("/notifications/:id/read", api.MarkNotificationRead)
		protected.DELETE("/notifications/:id", api.DeleteNotification)

		protected.GET("/schedules", api.ListSchedules)
		protected.POST("/schedules", api.CreateSchedule)
		protected.PUT("/schedules/:id", api.UpdateSchedule)
		protected.DELETE("/schedules/:id", api.DeleteSchedule)
	}

	admin := router.Group("/api")
	admin.Use(requireAuth, requireAdmin)
	{
		admin.POST("/products", api.CreateProduct)
		admin.POST("/products/import", api.ImportProducts)
		admin.PUT("/products/:id", api.UpdateProduct)
		admin.DELETE("/products/:id", api.DeleteProduct)

		admin.PUT("/orders/:id/status", api.UpdateOrderStatus)
		admin.POST("/pos/sale", api.CreatePOSSale)

		admin.GET("/users", api.ListUsers)
		admin.GET("/admin/addresses", api.ListAllAddresses)
		admin.GET("/admin/orders/tracking", api.TrackOrders)
		admin.GET("/admin/schedules", api.ListAllSchedules)

		admin.GET("/chat/customers", api.ListChatCustomers)
		admin.GET("/chat/conversation/:customerId", api.GetConversation)

		admin.GET("/analytics/dashboard", api.Dashboard)
		admin.POST("/upload/image", api.UploadImage)
	}

	return router
}
