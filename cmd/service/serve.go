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

	"recipe-api/internal/api"
	"recipe-api/internal/cache"
	"recipe-api/internal/config"
	"recipe-api/internal/database"
	"recipe-api/internal/handler/users"
	"recipe-api/internal/logging"
	"recipe-api/internal/middleware"
	"recipe-api/internal/router"
	"recipe-api/internal/service"
	"recipe-api/internal/storage"
	"recipe-api/internal/worker"

	_ "recipe-api/docs" // 引入 swag 產出的 docs

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 10 * time.Second

var (
	loadConfig     = config.Load
	newLogger      = logging.New
	newPgxPool     = database.NewPgxPool
	newRedisClient = cache.NewRedisClient
	runMigrations  = database.RunMigrations
	rollbackAll    = database.RollbackAll
	newWorkerPool  = worker.NewPool
	setJWTSecret   = service.SetJWTSecret
	startServer    = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	signalContext  = func() (context.Context, context.CancelFunc) {
		return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	}
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()
	return serve(ctx)
}

// newEcho 建立掛好驗證器與共用中介層的 echo
func newEcho(log *zap.Logger, reg prometheus.Registerer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = api.NewValidator()
	e.Use(echomw.Recover())
	e.Use(logging.RequestLogger(log))
	e.Use(middleware.NewMetrics(reg).Middleware())
	return e
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	setJWTSecret(cfg.JWTSecret)

	log, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("logger 建立失敗: %w", err)
	}
	defer func() { _ = log.Sync() }()

	db, err := newPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer db.Close()

	cch, err := newRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %w", err)
	}
	defer cch.Close()

	if err := runMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %w", err)
	}

	images, err := storage.NewImages(cfg.MediaRoot, cfg.MediaURL)
	if err != nil {
		return err
	}

	// 先於 db.Close 停止，讓排隊中的圖片工作寫完
	wp := newWorkerPool(cfg.WorkerCount, log)
	defer wp.Stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	e := newEcho(log, reg)
	router.Setup(e, router.Deps{
		DB:     db,
		Cache:  cch,
		Images: images,
		ImageJobs: &worker.ImageJobs{
			Pool:      wp,
			Processor: &worker.ImageProcessor{DB: db, Images: images, Log: log},
		},
		Limiter:        middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		Gatherer:       reg,
		Log:            log,
		TokenTTL:       users.TokenTTL{Access: cfg.AccessTokenTTL, Refresh: cfg.RefreshTokenTTL},
		MediaURL:       cfg.MediaURL,
		MediaRoot:      cfg.MediaRoot,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		errCh <- startServer(e, cfg.HTTPAddr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server 錯誤: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(sctx); err != nil {
			return fmt.Errorf("HTTP server 關閉失敗: %w", err)
		}
		return nil
	}
}
