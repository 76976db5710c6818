package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/HadiaEL/CABINET-MEDICAL/internal/api"
	"github.com/HadiaEL/CABINET-MEDICAL/internal/auth"
	"github.com/HadiaEL/CABINET-MEDICAL/internal/config"
	"github.com/HadiaEL/CABINET-MEDICAL/internal/db"
	"github.com/HadiaEL/CABINET-MEDICAL/internal/directory"
	"github.com/HadiaEL/CABINET-MEDICAL/internal/logger"
	redisclient "github.com/HadiaEL/CABINET-MEDICAL/internal/redis"
	"github.com/HadiaEL/CABINET-MEDICAL/internal/scheduling"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("api-server starting up",
		zap.String("env", cfg.Env),
		zap.String("http_port", cfg.HTTPPort),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatal("postgres connection error", zap.Error(err))
	}
	defer pgPool.Close()
	log.Info("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatal("redis connection error", zap.Error(err))
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn("error closing redis", zap.Error(err))
		}
	}()
	log.Info("connected to Redis")

	locker := redisclient.NewRedisAgendaLocker(rdb, cfg.LockTTL)

	authSvc := auth.NewService(auth.NewPgRepository(pgPool), log)
	directorySvc := directory.NewService(directory.NewPgRepository(pgPool), log)
	schedulingSvc := scheduling.NewService(scheduling.NewPgRepository(pgPool), locker, log)

	router := api.NewRouter(api.RouterConfig{
		Auth:       authSvc,
		Directory:  directorySvc,
		Scheduling: schedulingSvc,
		PgPool:     pgPool,
		Redis:      rdb,
		Logger:     log,
		Env:        cfg.Env,
		Version:    version,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server error", zap.Error(err))
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown error", zap.Error(err))
	}

	log.Info("api-server stopped")
}
