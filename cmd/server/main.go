package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/IamTkle/capstone1-dashboard/internal/delivery/http"
	"github.com/IamTkle/capstone1-dashboard/internal/domain"
	"github.com/IamTkle/capstone1-dashboard/internal/repository/file"
	"github.com/IamTkle/capstone1-dashboard/internal/repository/postgres"
	"github.com/IamTkle/capstone1-dashboard/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Configuration
	cfg := loadConfig()

	schema, err := domain.SchemaByName(cfg.SchemaVariant)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Dataset source: PostgreSQL, then a data directory, then the built-in demo
	var dataRepo service.DataRepository
	switch {
	case cfg.DatabaseURL != "":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err == nil {
			err = pool.Ping(ctx)
		}
		if err != nil {
			log.Fatalf("Could not connect to database: %v", err)
		}
		defer pool.Close()
		log.Println("Connected to PostgreSQL")
		dataRepo = postgres.NewPostgresRepository(pool)
	case cfg.DatasetDir != "":
		log.Printf("Loading dataset from %s", cfg.DatasetDir)
		dataRepo = file.NewRepository(cfg.DatasetDir)
	default:
		log.Println("Running with mock data only")
		dataRepo = postgres.NewMockRepository(schema, cfg.MockSeriesLength)
	}

	data, report, err := service.LoadMapData(ctx, dataRepo, schema, cfg.CurrentYear)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	log.Printf("Loaded %d regions (%d rejected), %d parcels, %d boundaries; years %d-%d",
		report.Loaded, len(report.Rejected), len(data.Parcels), len(data.Boundaries),
		data.Regions.EarliestYear(), data.Regions.LatestYear())

	mapSvc := service.NewMapService(data, dataRepo, cfg.Defaults)

	// Idle session expiry, stopped on shutdown
	expiryCtx, stopExpiry := context.WithCancel(context.Background())
	defer stopExpiry()
	go mapSvc.RunExpiry(expiryCtx, cfg.SessionIdleTimeout/2, cfg.SessionIdleTimeout)

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:               "Food Supply Map API v1.0",
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: cfg.Env == "production",
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Routes
	http.SetupRoutes(app, mapSvc)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s (%s)", cfg.Port, cfg.Env)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopExpiry()
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited gracefully")
}

type Config struct {
	DatabaseURL        string
	DatasetDir         string
	SchemaVariant      string
	CurrentYear        int
	MockSeriesLength   int
	Defaults           domain.LayerParams
	SessionIdleTimeout time.Duration
	Port               string
	Env                string
}

func loadConfig() *Config {
	defaults := domain.DefaultLayerParams()
	defaults.Mode = domain.DisplayMode(getEnv("DEFAULT_MODE", string(defaults.Mode)))
	defaults.Category = getEnv("DEFAULT_CATEGORY", defaults.Category)
	defaults.ElevationScale = getEnvFloat("DEFAULT_ELEVATION_SCALE", defaults.ElevationScale)
	defaults.Radius = getEnvFloat("DEFAULT_RADIUS", defaults.Radius)

	return &Config{
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		DatasetDir:         getEnv("DATASET_DIR", ""),
		SchemaVariant:      getEnv("SCHEMA_VARIANT", "six"),
		CurrentYear:        getEnvInt("CURRENT_YEAR", time.Now().Year()),
		MockSeriesLength:   getEnvInt("MOCK_SERIES_LENGTH", 7),
		Defaults:           defaults,
		SessionIdleTimeout: getEnvDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("GO_ENV", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Ignoring invalid %s=%q", key, value)
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("Ignoring invalid %s=%q", key, value)
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d >= time.Second {
			return d
		}
		log.Printf("Ignoring invalid %s=%q", key, value)
	}
	return defaultValue
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
