package routes

import (
	"livra_back_end/internal/handlers"
	"livra_back_end/internal/middleware"
	"livra_back_end/internal/models"
	"livra_back_end/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Cart          *handlers.CartHandler
	Orders        *handlers.OrderHandler
	Delivery      *handlers.DeliveryHandler
	Notifications *handlers.NotificationHandler
	WS            *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, h *Handlers) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())
	api.Use(middleware.AuthRequired())

	// --- Panier (client uniquement) ---
	cart := api.Group("/cart")
	cart.Use(middleware.RequireRole(models.RoleCustomer))
	{
		cart.GET("", h.Cart.Get)
		cart.POST("/add", h.Cart.Add)
		cart.PUT("/item", h.Cart.UpdateItem)
		cart.DELETE("/item/:menuItemId", h.Cart.Remove)
		cart.DELETE("", h.Cart.Clear)
		cart.POST("/validate", h.Cart.Validate)
	}

	// --- Commandes ---
	orders := api.Group("/orders")
	{
		orders.POST("", middleware.RequireRole(models.RoleCustomer),
			middleware.AuditAction(store.ActionOrderCreate), h.Orders.Create)
		orders.GET("", middleware.RequireRole(models.RoleCustomer), h.Orders.ListMine)
		orders.GET("/:id", h.Orders.GetByID)
		orders.GET("/:id/track", h.Orders.Track)
		orders.GET("/:id/ws", h.WS.OrderWS)
		orders.PUT("/:id/status", middleware.RequireRole(
			models.RoleAdmin, models.RoleRestaurantAdmin, models.RoleDeliveryPartner),
			middleware.AuditAction(store.ActionOrderStatus), h.Orders.UpdateStatus)
		orders.POST("/:id/cancel", middleware.RequireRole(
			models.RoleCustomer, models.RoleRestaurantAdmin, models.RoleAdmin),
			middleware.AuditAction(store.ActionOrderCancel), h.Orders.Cancel)
	}

	// --- Livraison (livreurs uniquement) ---
	delivery := api.Group("/delivery")
	delivery.Use(middleware.RequireRole(models.RoleDeliveryPartner))
	{
		delivery.GET("/claimable", h.Delivery.Claimable)
		delivery.POST("/claim/:orderId", middleware.AuditAction(store.ActionOrderClaim), h.Delivery.Claim)
	}

	// --- Notifications (tout rôle authentifié) ---
	notifications := api.Group("/notifications")
	{
		notifications.GET("", h.Notifications.List)
		notifications.PUT("/:id/read", h.Notifications.MarkRead)
		notifications.DELETE("", middleware.AuditAction(store.ActionNotifsClear), h.Notifications.ClearAll)
		notifications.GET("/ws", h.WS.NotificationsWS)
	}
}
