package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joel-wlf/bbg-lager/internal/adapters/http/middleware"
	"github.com/joel-wlf/bbg-lager/internal/adapters/http/routes"
	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/models"
	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/repositories"
	"github.com/joel-wlf/bbg-lager/internal/config"
	"github.com/joel-wlf/bbg-lager/internal/core/services"
	"github.com/joel-wlf/bbg-lager/internal/pkg/files"

	"github.com/gofiber/fiber/v2"

	_ "github.com/joel-wlf/bbg-lager/docs" // Swagger docs
)

// @title BBG Lager API
// @version 1.0
// @description Lagerverwaltung der BBG Jugend: Inventar, Entnahmen und Anfragen
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email lager@bbg-jugend.de

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host lager.bbg-jugend.de
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed initial admin account
	if err := config.NewSeeder(db, cfg).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed database: %v", err)
	}

	// File storage for item images and return signatures
	fileStore, err := files.NewStore(cfg.Files.Dir)
	if err != nil {
		log.Fatalf("❌ Failed to init file storage: %v", err)
	}

	// Push notifications (ntfy), disabled when no topic is configured
	notify := services.NewNotificationService(cfg.Ntfy.TopicURL)
	defer notify.Close()

	// Daily backlog reminder (08:30)
	reminder := services.NewReminderService(
		repositories.NewCheckoutRepository(db),
		repositories.NewRequestRepository(db),
		notify,
	)
	reminder.Start()
	defer reminder.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "BBG Lager API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    16 << 20,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, db, cfg, fileStore, notify)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
