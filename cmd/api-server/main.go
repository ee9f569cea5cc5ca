package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"unihub/internal/auth"
	"unihub/internal/httpmw"
	"unihub/internal/logbuf"
	"unihub/internal/logtail"
	"unihub/internal/metrics"
	"unihub/pkg/cache"
	"unihub/pkg/database"
	"unihub/pkg/logger"
	"unihub/pkg/utils"
)

func main() {
	configPath := flag.String("config", "", "config file (YAML); defaults to $UNIHUB_CONFIG")
	flag.Parse()

	cfg, v, err := utils.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	lg, err := logger.Init(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = lg.Sync() }()

	utils.Watch(v, func(next *utils.AppConfig) {
		if err := logger.SetLevel(next.Log.Level); err != nil {
			zap.L().Warn("ignoring log level change", zap.Error(err))
			return
		}
		zap.L().Info("log level changed", zap.String("level", logger.Level().String()))
	})

	gin.SetMode(cfg.App.Mode)

	db := database.MustOpen(cfg.Database)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		zap.L().Fatal("db migrate failed", zap.Error(err))
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	rdb, err := cache.New(ctx, cfg.Redis)
	if err != nil {
		// reference lists fall back to the store
		zap.L().Warn("redis unavailable, caching disabled", zap.Error(err))
	}
	defer rdb.Close()

	hub := logtail.NewHub(256)
	go hub.Run(ctx)

	logs := logbuf.New(logbuf.DefaultCapacity)
	logs.AddSink(logbuf.ZapSink{Logger: lg})
	logs.AddSink(logtail.Sink{Hub: hub})

	if err := metrics.RegisterGauge("log_buffer_entries", "Entries held in the in-memory log buffer.", func() float64 {
		return float64(logs.Len())
	}); err != nil {
		zap.L().Warn("register log buffer gauge", zap.Error(err))
	}

	router := newRouter(deps{
		DB:    db,
		Cache: rdb,
		Logs:  logs,
		Hub:   hub,
		Tokens: auth.TokenService{
			Secret:   []byte(cfg.Auth.JWTSecret),
			Issuer:   cfg.Auth.JWTIssuer,
			Duration: cfg.Auth.JWTDuration,
		},
		Limiter: httpmw.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	})

	httpSrv := &http.Server{
		Addr:              cfg.App.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	var tailSrv *logtail.Server
	if cfg.Tail.Addr != "" {
		tailSrv = logtail.NewServer(cfg.Tail.Addr, hub)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := tailSrv.Run(); err != nil {
				errCh <- err
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		zap.L().Info("HTTP API server listening", zap.String("addr", cfg.App.HTTPAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	logs.Info("server", "API server started", map[string]any{"addr": cfg.App.HTTPAddr})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zap.L().Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		zap.L().Error("server error", zap.Error(err))
	}

	zap.L().Info("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("http shutdown error", zap.Error(err))
	}
	if tailSrv != nil {
		if err := tailSrv.Close(); err != nil {
			zap.L().Error("tail shutdown error", zap.Error(err))
		}
	}
	stop()

	wg.Wait()
	zap.L().Info("servers stopped")
}
