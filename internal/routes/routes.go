package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/sahara/internal/config"
	"github.com/example/sahara/internal/handlers"
	"github.com/example/sahara/internal/middleware"
	"github.com/example/sahara/internal/repository"
	"github.com/example/sahara/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	ziina := services.NewZiinaService(cfg.ZiinaBaseURL, cfg.ZiinaAPIKey, cfg.ZiinaTestMode)
	notifier := services.NewNotifier(cfg.CheckoutWebhook, cfg.TelegramBotToken, cfg.TelegramAdminChat)
	kitchenQueue := services.NewKitchenPublisher(cfg.RabbitURL, cfg.KitchenQueue)

	authHandler := handlers.NewAuthHandler(cfg)
	menuHandler := handlers.NewMenuHandler(db)
	checkoutHandler := handlers.NewCheckoutHandler(repository.NewOrderStore(db), ziina, notifier, kitchenQueue, cfg)
	kitchenHandler := handlers.NewKitchenHandler(db, cfg)
	analyticsHandler := handlers.NewAnalyticsHandler(db)
	contentHandler := handlers.NewContentHandler(db)

	api := app.Group("/api")

	// Public catalog and site content
	menu := api.Group("/menu")
	menu.Get("/", menuHandler.ListPublic)
	menu.Get("/:id", menuHandler.GetPublic)
	api.Get("/content", contentHandler.Get)

	// Checkout and payment verification
	api.Post("/checkout", checkoutHandler.CreateCheckout)
	api.Post("/checkout/verify", checkoutHandler.VerifyPayment)
	api.Get("/orders/:orderNumber", checkoutHandler.GetOrderByNumber)

	// Visitor telemetry (no auth)
	track := api.Group("/track")
	track.Post("/visitor", analyticsHandler.TrackVisitor)
	track.Post("/session", analyticsHandler.TrackSession)
	track.Post("/pageview", analyticsHandler.TrackPageView)
	track.Post("/menu-view", analyticsHandler.TrackMenuView)
	track.Post("/event", analyticsHandler.TrackEvent)

	// Kitchen dashboard
	api.Post("/kitchen/login", kitchenHandler.Login)
	kitchen := api.Group("/kitchen", middleware.StaffAuth(cfg))
	kitchen.Get("/orders", kitchenHandler.ListOrders)
	kitchen.Get("/orders/:id", kitchenHandler.GetOrder)
	kitchen.Patch("/orders/:id/status", kitchenHandler.UpdateStatus)

	// Admin panel
	api.Post("/admin/login", authHandler.AdminLogin)
	admin := api.Group("/admin", middleware.AdminAuth(cfg))
	admin.Get("/menu", menuHandler.ListAll)
	admin.Get("/menu/:id", menuHandler.GetAny)
	admin.Post("/menu", menuHandler.Create)
	admin.Put("/menu/:id", menuHandler.Update)
	admin.Delete("/menu/:id", menuHandler.Delete)
	admin.Post("/uploads", menuHandler.GenerateUploadPath)
	admin.Put("/content", contentHandler.Update)
	admin.Get("/analytics/summary", analyticsHandler.Summary)
}
