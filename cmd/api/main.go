package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paygate-telemetry/internal/auth"
	"paygate-telemetry/internal/config"
	"paygate-telemetry/internal/telemetry"
	"paygate-telemetry/pkg/logger"
	"paygate-telemetry/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	verifier, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	// One shared sink handle per process. Both targets are optional; with
	// neither configured the recorder degrades to a local diagnostic log.
	var sinks []telemetry.Sink
	if cfg.Sink.Enabled() {
		db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.Sink.PostgresDSN(), utils.PostgresPoolConfig{})
		if err != nil {
			log.Error("telemetry postgres init failed", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		sinks = append(sinks, telemetry.NewPostgresSink(db))
	}
	if cfg.LiveTail.Enabled() {
		rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.LiveTail.Addr()})
		if err != nil {
			log.Error("telemetry redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		sinks = append(sinks, telemetry.NewRedisSink(rdb, cfg.LiveTail.Key, int64(cfg.LiveTail.MaxEntries)))
	}

	var sink telemetry.Sink
	switch len(sinks) {
	case 0:
		log.Warn("no telemetry sink configured; invocation records will be dropped")
	case 1:
		sink = sinks[0]
	default:
		sink = telemetry.NewMultiSink(sinks...)
	}

	rec := telemetry.NewRecorder(sink, log)
	ic := telemetry.NewInterceptor(rec, cfg.App.Origin)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, ic, verifier)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env, "origin", cfg.App.Origin)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}

	// Let in-flight invocation writes drain before the process exits.
	if err := rec.Flush(shutdownCtx); err != nil {
		log.Error("telemetry flush incomplete", "err", err)
	}
}
