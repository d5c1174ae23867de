package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/coursekit/playground/docs"
	"github.com/coursekit/playground/internal/auth"
	"github.com/coursekit/playground/internal/catalog"
	"github.com/coursekit/playground/internal/config"
	"github.com/coursekit/playground/internal/handlers"
	"github.com/coursekit/playground/internal/llm"
	"github.com/coursekit/playground/internal/logger"
	"github.com/coursekit/playground/internal/metrics"
	"github.com/coursekit/playground/internal/middleware"
	"github.com/coursekit/playground/internal/render"
	"github.com/coursekit/playground/internal/repositories"
	"github.com/coursekit/playground/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title Lesson Playground API
// @version 1.0
// @description API for interactive course lessons: section inputs, rendered outputs and exports

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Lesson Playground Service")

	// Load course catalog
	courses, err := catalog.Load(cfg.Playground.CoursesFile)
	if err != nil {
		logger.Logger.Fatal("Failed to load course catalog", zap.Error(err))
	}

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// Initialize text generation
	retry := llm.DefaultRetryConfig()
	retry.MaxAttempts = cfg.LLM.MaxAttempts
	generator, err := llm.NewGenerator(llm.Config{
		Provider:  cfg.LLM.Provider,
		Model:     cfg.LLM.Model,
		APIKey:    cfg.LLM.APIKey,
		BaseURL:   cfg.LLM.BaseURL,
		MaxTokens: cfg.LLM.MaxTokens,
		Retry:     retry,
		CacheTTL:  cfg.LLM.CacheTTL,
	}, rdb, logger.Logger)
	if err != nil {
		logger.Logger.Fatal("Failed to initialize text generation", zap.Error(err))
	}

	metrics.Init()

	// Initialize repositories
	progressRepo := repositories.NewProgressRepository(db, logger.Logger)
	guestProgressRepo := repositories.NewGuestProgressRepository(rdb, cfg.Playground.GuestProgressTTL, logger.Logger)
	lessonBlockRepo := repositories.NewLessonBlockRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	exportRepo := repositories.NewExportRepository(db)

	// Initialize services
	playgroundService := services.NewPlaygroundService(
		courses,
		services.ProgressStores{Users: progressRepo, Guests: guestProgressRepo},
		lessonBlockRepo,
		profileRepo,
		render.NewRenderer(generator),
		cfg.Playground.WriteTimeout,
		logger.Logger,
	)
	exportService := services.NewExportService(courses, progressRepo, exportRepo, profileRepo, logger.Logger)

	// Initialize handlers
	playgroundHandler := handlers.NewPlaygroundHandler(playgroundService, logger.Logger)
	exportHandler := handlers.NewExportHandler(exportService, logger.Logger)
	healthHandler := handlers.NewHealthHandler(map[string]handlers.Pinger{
		"database": db,
		"redis": handlers.PingerFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}),
	}, logger.Logger)

	// Initialize identity middleware
	identityMiddleware := auth.IdentityMiddleware(auth.NewTokenValidator(cfg.JWT.Secret), auth.CookieOptions{
		Secure: cfg.Server.CookieSecure,
		MaxAge: int(cfg.Playground.GuestProgressTTL.Seconds()),
	})

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggerMiddleware(logger.Logger))
	r.Use(middleware.RecoveryMiddleware(logger.Logger))
	r.Use(middleware.MetricsMiddleware)
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middleware.RequestSizeLimitMiddleware(cfg.Server.MaxRequestSize))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Operational endpoints
	healthHandler.RegisterRoutes(r)
	r.Handle("/metrics", promhttp.Handler())

	// Scope router to /api/v1
	r.Route("/api/v1", func(r chi.Router) {
		playgroundHandler.RegisterRoutes(r, identityMiddleware)
		exportHandler.RegisterRoutes(r, identityMiddleware, auth.RequireUser)
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Playground.WriteTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: "playground_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Get the working directory or use migrations folder relative to the binary
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directory if running from cmd
		if _, err := os.Stat("../migrations"); err == nil {
			migrationPath = "file://../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(migrationPath, "mysql", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
