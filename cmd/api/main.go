package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"talentvet/internal/config"
	"talentvet/internal/domain"
	"talentvet/internal/handler"
	"talentvet/internal/middleware"
	"talentvet/internal/repository"
	"talentvet/internal/service"
	"talentvet/internal/service/scheduler"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	zapLogger, err := newLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to MinIO: %v (candidate archival export disabled)", err)
		minioClient = nil
	}

	ctx := context.Background()

	repos := repository.NewRepositories(db)
	services, err := service.NewServices(ctx, repos, redisClient, minioClient, cfg, zapLogger)
	if err != nil {
		log.Fatalf("Failed to build services: %v", err)
	}
	handlers := handler.NewHandlers(services)

	sched := scheduler.New(zapLogger.Named("scheduler"))
	scheduler.RegisterJobs(sched, cfg, services.Screening, services.Maintenance, zapLogger.Named("jobs"))
	sched.Start(ctx)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, cfg, repos)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server starting on port %s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	sched.Stop()
	if err := app.Shutdown(); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func setupRoutes(app *fiber.App, h *handler.Handlers, cfg *config.Config, repos *repository.Repositories) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	protected := v1.Group("", middleware.AuthRequired(cfg.JWTSecret, repos.User))

	candidates := protected.Group("/candidates")
	candidates.Post("/", middleware.RequireRole(domain.RoleAdmin, domain.RoleManager, domain.RoleRecruiter), h.Candidate.Create)
	candidates.Get("/", h.Candidate.List)
	candidates.Get("/:candidateId", h.Candidate.Get)
	candidates.Get("/:candidateId/profiles", h.Candidate.ListProfiles)
	candidates.Post("/:candidateId/screenings", middleware.RequireRole(domain.RoleAdmin, domain.RoleManager), h.Screening.Trigger)
	candidates.Get("/:candidateId/screenings", h.Screening.ListByCandidate)
	candidates.Get("/:candidateId/screenings/latest", h.Screening.Latest)

	screenings := protected.Group("/screenings")
	screenings.Get("/:screeningId", h.Screening.Get)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)
	notifications.Get("/preferences", h.Notification.GetPreferences)
	notifications.Put("/preferences", h.Notification.UpdatePreferences)
}
