package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"movie-review-service/internal/catalog"
	"movie-review-service/internal/config"
	"movie-review-service/internal/database"
	"movie-review-service/internal/handler"
	"movie-review-service/internal/session"
	"movie-review-service/internal/storage"
)

func main() {
	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Load the fixed movie catalog
	cat, err := loadCatalog(cfg)
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("catalog loaded", "source", cfg.CatalogSource, "movies", cat.Len())

	// Connect the slice store (non-durable fallback if Redis is down)
	var store storage.Store
	if rdb, err := database.NewRedis(cfg.Redis); err != nil {
		slog.Warn("Redis unavailable, state will not survive restarts", "error", err)
		store = storage.NewMemoryStore()
	} else {
		store = storage.NewRedisStore(rdb)
	}

	// Build the session from the persisted slices
	ctx := context.Background()
	gateway := storage.NewGateway(store, cfg.KeyPrefix)
	sess := session.New(ctx, gateway, cat)

	// Pick today's featured movie up front
	if movie, rec, err := sess.Featured(ctx); err != nil {
		slog.Error("failed to select featured movie", "error", err)
	} else {
		slog.Info("movie of the day", "title", movie.Title, "date", rec.Date)
	}

	// Initialize handlers
	movieHandler := handler.NewMovieHandler(sess)
	reviewHandler := handler.NewReviewHandler(sess)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Movie Review Service",
		ServerHeader: "Movie-Review-Service",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled error", "error", err, "status", code)
			return c.Status(code).JSON(handler.ErrorResponse{Error: err.Error()})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// Swagger docs
	swaggerYAML, err := os.ReadFile("docs/swagger.yaml")
	if err != nil {
		slog.Warn("swagger.yaml not found, swagger UI will be unavailable", "error", err)
	} else {
		handler.RegisterSwagger(app, swaggerYAML)
	}

	// API routes
	api := app.Group("/api/v1")
	api.Get("/health", movieHandler.Health)
	api.Get("/movies", movieHandler.ListMovies)
	api.Get("/movies/compare", movieHandler.CompareMovies)
	api.Get("/movies/:id", movieHandler.GetMovieDetail)
	api.Get("/movies/:id/reviews", reviewHandler.ListReviews)
	api.Get("/movies/:id/share", movieHandler.ShareMovie)
	api.Post("/movies/:id/like", movieHandler.LikeMovie)
	api.Post("/movies/:id/watchlist", movieHandler.ToggleWatchlist)
	api.Get("/watchlist", movieHandler.GetWatchlist)
	api.Get("/featured", movieHandler.GetFeatured)
	api.Post("/reviews", reviewHandler.CreateReview)
	api.Put("/reviews/:id", reviewHandler.EditReview)
	api.Delete("/reviews/:id", reviewHandler.DeleteReview)
	api.Post("/reviews/:id/like", reviewHandler.LikeReview)
	api.Get("/leaderboard", reviewHandler.GetLeaderboard)
	api.Get("/badges", reviewHandler.GetBadges)
	api.Get("/notifications", reviewHandler.GetNotifications)
	api.Get("/preferences", reviewHandler.GetPreferences)
	api.Put("/preferences", reviewHandler.UpdatePreferences)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down movie review service...")
		_ = app.Shutdown()
	}()

	// Start server
	addr := ":" + cfg.Port
	slog.Info("starting movie review service", "addr", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// loadCatalog builds the catalog from the configured source. The
// Postgres source seeds empty reference tables from the embedded data
// so a fresh database starts usable.
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	switch cfg.CatalogSource {
	case config.CatalogFile:
		return catalog.LoadFile(cfg.CatalogPath)
	case config.CatalogPostgres:
		db, err := database.NewPostgres(cfg.DB)
		if err != nil {
			return nil, err
		}
		embedded, err := catalog.LoadEmbedded()
		if err != nil {
			return nil, err
		}
		if err := catalog.SeedPostgres(db, embedded.All()); err != nil {
			return nil, err
		}
		return catalog.LoadPostgres(db)
	default:
		return catalog.LoadEmbedded()
	}
}
