package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/ruralpay/webbank/docs"
	"github.com/ruralpay/webbank/internal/audit"
	"github.com/ruralpay/webbank/internal/config"
	"github.com/ruralpay/webbank/internal/database"
	"github.com/ruralpay/webbank/internal/handlers"
	"github.com/ruralpay/webbank/internal/lock"
	mW "github.com/ruralpay/webbank/internal/middleware"
	"github.com/ruralpay/webbank/internal/services"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Web Bank Ledger API
// @version 1.0
// @description Deposits, withdrawals with overdraft, and fraud disputes
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Initialize config
	cfg, err := config.Load(".env")
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	logger := config.InitLogger(cfg.Log)

	rules, err := cfg.Ledger.Rules()
	if err != nil {
		logrus.Fatalf("Invalid ledger settings: %v", err)
	}

	docs.SwaggerInfo.Host = "localhost:" + cfg.Server.Port

	// Initialize services
	db := database.InitDatabase(cfg.Database)
	defer db.Close()

	applied, err := database.Migrate(db, cfg.Database.Driver, migrate.Up, 0)
	if err != nil {
		logrus.Fatalf("Failed to apply migrations: %v", err)
	}
	logrus.Infof("Applied %d migrations", applied)

	redisClient := database.InitRedis(cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}

	store := database.NewLedgerStore(db, cfg.Database.Driver)
	authService := services.NewAuthService(store, redisClient, cfg.Auth)

	opts := []services.LedgerOption{
		services.WithAuditLogger(audit.NewAuditLogger(logger)),
		services.WithHistoryLimit(cfg.Ledger.HistoryLimit),
	}
	if redisClient != nil {
		opts = append(opts, services.WithLocker(lock.NewAccountLocker(redisClient, cfg.Redis.LockTTL, cfg.Redis.LockWait)))
	} else {
		logrus.Warn("Redis unavailable, relying on database row locks only")
	}
	ledgerService := services.NewLedgerService(store, authService, rules, opts...)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService, authService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(mW.CORS(cfg.CORS))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status, code := "healthy", http.StatusOK
		if err := db.PingContext(r.Context()); err != nil {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{"status": status})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	ledgerHandler.Mount(r, mW.AuthMiddleware(authService), mW.RateLimit(cfg.RateLimit))

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logrus.Infof("Server starting on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server stopped")
}
