package main

import (
	"context"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/wheeldeal/wheeldeal-backend/api/routes"
	"github.com/wheeldeal/wheeldeal-backend/internal/config"
	"github.com/wheeldeal/wheeldeal-backend/internal/handlers"
	"github.com/wheeldeal/wheeldeal-backend/internal/repositories"
	"github.com/wheeldeal/wheeldeal-backend/internal/repositories/memory"
	mongorepo "github.com/wheeldeal/wheeldeal-backend/internal/repositories/mongodb"
	"github.com/wheeldeal/wheeldeal-backend/internal/services"
	"github.com/wheeldeal/wheeldeal-backend/internal/wheel"
	"github.com/wheeldeal/wheeldeal-backend/pkg/mongodb"
)

func main() {
	// .env is optional; real deployments set environment variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)
	gin.SetMode(config.GetEnv("GIN_MODE", gin.ReleaseMode))

	var (
		issuer       repositories.SpinIssuer
		spinRepo     repositories.SpinRepository
		quotaRepo    repositories.QuotaRepository
		aggRepo      repositories.AggregateRepository
		merchantRepo repositories.MerchantRepository
		staffRepo    repositories.StaffRepository
	)

	// The in-memory store is for local development only; everything persisted
	// lives in MongoDB (replica set, for multi-document transactions).
	if config.GetEnvAsBool("WHEELDEAL_MEMORY_STORE", false) {
		slog.Warn("Using in-memory storage, all state is lost on shutdown")
		store := memory.NewStore()
		issuer, spinRepo, quotaRepo, aggRepo, merchantRepo, staffRepo =
			store, store, store, store, store, store.Staff()
	} else {
		mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
		if err != nil {
			slog.Error("Failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				slog.Error("Error disconnecting from MongoDB", "error", err)
			}
		}()

		db := mongoClient.Database(cfg.MongoDB.Database)
		if err := mongodb.EnsureIndexes(context.Background(), db); err != nil {
			slog.Error("Failed to create indexes", "error", err)
			os.Exit(1)
		}

		issuer = mongorepo.NewIssuanceRepository(mongoClient.Raw(), db)
		spinRepo = mongorepo.NewSpinRepository(db)
		quotaRepo = mongorepo.NewQuotaRepository(db)
		aggRepo = mongorepo.NewAggregateRepository(db)
		merchantRepo = mongorepo.NewMerchantRepository(db)
		staffRepo = mongorepo.NewStaffRepository(db)
	}

	loc := cfg.Spin.Location()
	selector := wheel.NewSelector(rand.NewSource(time.Now().UnixNano()))

	spinService := services.NewSpinService(issuer, spinRepo, quotaRepo, merchantRepo, selector,
		cfg.Spin.DailyLimit, cfg.Spin.ExpiryDays, loc)
	reportService := services.NewReportService(aggRepo, spinRepo, cfg.Spin.PricePerSpin, cfg.Spin.PayoutRate, loc)
	merchantService := services.NewMerchantService(merchantRepo)
	authService := services.NewAuthService(staffRepo, cfg)

	deps := routes.HandlerDependencies{
		AuthHandler:       handlers.NewAuthHandler(authService),
		MerchantHandler:   handlers.NewMerchantHandler(merchantService),
		SpinHandler:       handlers.NewSpinHandler(spinService),
		RedemptionHandler: handlers.NewRedemptionHandler(spinService),
		DashboardHandler:  handlers.NewDashboardHandler(reportService, loc),
	}

	router := routes.SetupRouter(cfg, deps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	slog.Info("Server starting", "port", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}

func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}
