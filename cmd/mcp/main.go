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

	"clickshift-alpha/internal/app"
	"clickshift-alpha/internal/cache"
	"clickshift-alpha/internal/config"
	"clickshift-alpha/internal/mcptool"
	"clickshift-alpha/pkg/logging"
	"clickshift-alpha/pkg/tracing"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

const version = "1.0.0"

var (
	loadEnvFunc       = godotenv.Load
	loadConfigFunc    = config.Load
	initRedisFunc     = cache.InitRedis
	initTracerFunc    = tracing.InitTracer
	newEngineFunc     = app.NewEngine
	setupSignalNotify = signal.Notify
	runStdioFunc      = func(ctx context.Context, s *mcp.Server) error { return s.Run(ctx, &mcp.StdioTransport{}) }
	startHTTPFunc     = func(srv *http.Server) error { return srv.ListenAndServe() }
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("mcp server failed")
	}
}

func run() error {
	loadEnvFunc()

	cfg := loadConfigFunc()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	for _, w := range cfg.Warnings {
		log.Warn().Msg(w)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-quit:
			stop()
		case <-ctx.Done():
		}
	}()

	tp, tracer, err := initTracerFunc(ctx, tracing.Options{Enabled: cfg.TracingEnabled, Endpoint: cfg.OTLPEndpoint})
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer tp.Shutdown(context.Background())

	rdb, err := initRedisFunc(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, market cache disabled")
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	engine, err := newEngineFunc(cfg, tracer, rdb, nil)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}
	server := mcptool.NewServer(tracer, engine, version)

	if cfg.MCPTransport == "http" {
		return serveHTTP(ctx, cfg, server)
	}
	log.Info().Msg("mcp server running on stdio")
	if err := runStdioFunc(ctx, server); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func serveHTTP(ctx context.Context, cfg *config.Config, server *mcp.Server) error {
	addr := fmt.Sprintf("%s:%d", cfg.MCPHTTPBind, cfg.MCPHTTPPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mcptool.HTTPHandler(server),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("mcp server listening")
		errCh <- startHTTPFunc(srv)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
