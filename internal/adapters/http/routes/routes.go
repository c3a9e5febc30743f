package routes

import (
	"time"

	"github.com/joel-wlf/bbg-lager/internal/adapters/http/handlers"
	"github.com/joel-wlf/bbg-lager/internal/adapters/http/middleware"
	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/repositories"
	"github.com/joel-wlf/bbg-lager/internal/config"
	"github.com/joel-wlf/bbg-lager/internal/core/services"
	"github.com/joel-wlf/bbg-lager/internal/pkg/files"
	"github.com/joel-wlf/bbg-lager/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, fileStore *files.Store, notify *services.NotificationService) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	itemRepo := repositories.NewItemRepository(db)
	boxRepo := repositories.NewBoxRepository(db)
	groupRepo := repositories.NewGroupRepository(db)
	checkoutRepo := repositories.NewCheckoutRepository(db)
	requestRepo := repositories.NewRequestRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	itemService := services.NewItemService(itemRepo, groupRepo, fileStore)
	checkoutService := services.NewCheckoutService(checkoutRepo, itemRepo, userRepo, fileStore, notify)
	requestService := services.NewRequestService(requestRepo, itemRepo, checkoutService, notify)
	dashboardService := services.NewDashboardService(db)

	validate := validation.New()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, validate, cfg)
	itemHandler := handlers.NewItemHandler(itemService)
	catalogHandler := handlers.NewCatalogHandler(boxRepo, groupRepo)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	requestHandler := handlers.NewRequestHandler(requestService)
	fileHandler := handlers.NewFileHandler(fileStore)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	apiV1 := app.Group("/api/v1")

	// Public routes: the request form needs the item catalog and intake
	// without a login, file URLs are embedded in shared records.
	apiV1.Get("/items", itemHandler.List)
	apiV1.Get("/items/:id", itemHandler.Get)
	apiV1.Post("/requests", middleware.PublicIntakeRateLimiter(), requestHandler.Submit)
	apiV1.Get("/files/:collection/:recordId/:filename",
		middleware.CacheControl(24*time.Hour), fileHandler.Serve)

	// Auth routes
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authRoutes.Post("/refresh", authHandler.Refresh)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)
	authRoutes.Post("/logout-all", middleware.AuthMiddleware(cfg), authHandler.LogoutAll)

	// Staff routes
	staff := apiV1.Group("")
	staff.Use(middleware.AuthMiddleware(cfg))
	staff.Use(middleware.StaffOrAdmin())

	// Items (mutations)
	staff.Post("/items", itemHandler.Create)
	staff.Put("/items/:id", itemHandler.Update)
	staff.Delete("/items/:id", itemHandler.Delete)
	staff.Post("/items/:id/image", itemHandler.UploadImage)

	// Boxes
	staff.Get("/boxes", catalogHandler.ListBoxes)
	staff.Get("/boxes/:id", catalogHandler.GetBox)
	staff.Post("/boxes", catalogHandler.CreateBox)
	staff.Put("/boxes/:id", catalogHandler.UpdateBox)
	staff.Delete("/boxes/:id", catalogHandler.DeleteBox)

	// Groups
	staff.Get("/groups", catalogHandler.ListGroups)
	staff.Get("/groups/:id", catalogHandler.GetGroup)
	staff.Post("/groups", catalogHandler.CreateGroup)
	staff.Put("/groups/:id", catalogHandler.UpdateGroup)
	staff.Delete("/groups/:id", catalogHandler.DeleteGroup)

	// Checkouts
	staff.Post("/checkouts", checkoutHandler.Create)
	staff.Get("/checkouts", checkoutHandler.List)
	staff.Get("/checkouts/:id", checkoutHandler.Get)
	staff.Post("/checkouts/:id/return", checkoutHandler.SubmitReturn)

	// Requests (staff side)
	staff.Get("/requests", requestHandler.List)
	staff.Get("/requests/:id", requestHandler.Get)
	staff.Post("/requests/:id/convert", requestHandler.Convert)

	// Dashboard
	staff.Get("/dashboard", dashboardHandler.Stats)
}
