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

	"go.uber.org/zap"

	"github.com/agendafacil/agendafacil-backend/internal/app"
	"github.com/agendafacil/agendafacil-backend/internal/config"
	"github.com/agendafacil/agendafacil-backend/internal/db"
	"github.com/agendafacil/agendafacil-backend/internal/logger"
	"github.com/agendafacil/agendafacil-backend/internal/pkg/storage"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.IsProduction)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		zapLogger.Fatal("failed to connect to db", zap.Error(err))
	}
	defer pool.Close()

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		zapLogger.Fatal("failed to init storage", zap.Error(err))
	}

	container := app.NewContainer(app.Config{
		IsProduction:      cfg.IsProduction,
		ProdOrigins:       cfg.ProdOrigins,
		DBPool:            pool,
		JWTSecret:         cfg.JWTSecret,
		JWTTTL:            cfg.JWTAccessTokenTTL,
		BcryptCost:        cfg.BcryptCost,
		Storage:           store,
		CountryCode:       cfg.CountryCallingCode,
		BookingWindowDays: cfg.BookingWindowDays,
		Logger:            zapLogger,
	})

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	go func() {
		zapLogger.Info("server running", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("server exited gracefully")
}
