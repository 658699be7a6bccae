package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jinitha01/ecom-demo/internal/cart"
	"github.com/jinitha01/ecom-demo/internal/catalog"
	h "github.com/jinitha01/ecom-demo/internal/http"
	"github.com/jinitha01/ecom-demo/internal/session"
)

type Config struct {
	HTTPPort        string
	DatabaseDSN     string
	MigrationsPath  string
	RedisAddr       string
	RedisPassword   string
	SessionTTL      time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:     getEnv("DATABASE_DSN", "storefront.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		SessionTTL:      getDurationEnv("SESSION_TTL", 24*time.Hour),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("invalid duration for %s, using default %s", key, defaultValue)
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	// Catalog store
	repo, err := catalog.NewSQLRepository(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to open catalog store: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Printf("Catalog store ready (%s)", cfg.DatabaseDSN)

	// Session store: Redis when configured, in-memory otherwise
	var store session.Store
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Redis connection failed:", err)
		}
		log.Printf("Sessions backed by Redis at %s", cfg.RedisAddr)
		store = session.NewRedisStore(redisClient, cfg.SessionTTL)
	} else {
		log.Printf("REDIS_ADDR not set, sessions held in memory")
		store = session.NewMemoryStore()
	}

	engine := cart.NewService(store, repo)
	pageHandler := h.NewPageHandler(repo, engine, cfg.RequestTimeout)
	cartHandler := h.NewCartHandler(engine, cfg.RequestTimeout)

	router := h.NewRouter(pageHandler, cartHandler, cfg.SessionTTL, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
