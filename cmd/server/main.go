package main

import (
	"log"
	"os"

	"livra_back_end/internal/cart"
	"livra_back_end/internal/catalog"
	"livra_back_end/internal/config"
	"livra_back_end/internal/database"
	"livra_back_end/internal/delivery"
	"livra_back_end/internal/handlers"
	"livra_back_end/internal/notify"
	"livra_back_end/internal/orders"
	"livra_back_end/internal/routes"
	"livra_back_end/internal/store"

	"github.com/gin-gonic/gin"
)

func main() {
	config.Load()

	database.ConnectDatabases()
	defer database.CloseScylla()

	// --- Stores & collaborateurs ---
	cat := catalog.NewScyllaCatalog()
	userStore := store.NewScyllaUserStore()
	orderStore := store.NewScyllaOrderStore()

	// --- Notifications : push + journal durable + e-mail ---
	presence := notify.NewPresence()
	push := notify.NewWSPush(presence, database.Redis)
	durable := notify.NewLog(notify.NewRedisListStore(database.Redis))
	dispatcher := notify.NewDispatcher(push, durable, userStore, notify.NewSMTPMailer())

	// --- Cœur métier ---
	cartSvc := cart.NewService(cart.NewRedisKV(database.Redis), cat)
	engine := delivery.NewEngine(orderStore, userStore, dispatcher)
	orderSvc := orders.NewService(orderStore, userStore, cartSvc, cat, dispatcher)
	orderSvc.Assign = engine

	r := gin.Default()
	routes.RegisterRoutes(r, &routes.Handlers{
		Cart:          handlers.NewCartHandler(cartSvc),
		Orders:        handlers.NewOrderHandler(orderSvc),
		Delivery:      handlers.NewDeliveryHandler(engine, userStore),
		Notifications: handlers.NewNotificationHandler(durable),
		WS:            handlers.NewWSHandler(presence, database.Redis, orderSvc),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur Livra lancé sur le port", port)
	r.Run(":" + port)
}
