package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clickshift-alpha/internal/app"
	"clickshift-alpha/internal/bot"
	"clickshift-alpha/internal/cache"
	"clickshift-alpha/internal/caption"
	"clickshift-alpha/internal/config"
	"clickshift-alpha/internal/handler"
	"clickshift-alpha/internal/job"
	"clickshift-alpha/internal/metrics"
	"clickshift-alpha/internal/service"
	"clickshift-alpha/pkg/logging"
	"clickshift-alpha/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "clickshift-alpha/docs"
)

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	initRedisFunc          = cache.InitRedis
	initTracerFunc         = tracing.InitTracer
	newEngineFunc          = app.NewEngine
	newLLMClientFunc       = caption.NewOpenAIClient
	startTelegramBotFunc   = bot.StartTelegramBot
	startWatchlistFunc     = func(w *job.Watchlist, ctx context.Context) { go w.Start(ctx) }
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           ClickShift Alpha API
// @version         1.0
// @description     Solana token signal analysis: market, holder and indicator data scored into BUY, WAIT or AVOID.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	for _, w := range cfg.Warnings {
		log.Warn().Msg(w)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, tracing.Options{Enabled: cfg.TracingEnabled, Endpoint: cfg.OTLPEndpoint})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracer")
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Msg("error shutting down tracer provider")
		}
	}()

	rdb, err := initRedisFunc(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, market cache disabled")
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.New(reg)

	engine, err := newEngineFunc(cfg, tracer, rdb, recorder)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build analysis engine")
	}

	var llm caption.LLMClient
	if cfg.OpenAIAPIKey != "" {
		llm = newLLMClientFunc(cfg.OpenAIAPIKey)
	}
	captions := caption.NewGenerator(tracer, llm, cfg.OpenAIModel)

	tgBot, err := startTelegramBotFunc(cfg.TelegramBotToken, engine)
	if err != nil {
		log.Error().Err(err).Msg("telegram bot unavailable")
	}
	var sender bot.Sender
	if tgBot != nil {
		sender = tgBot
		defer tgBot.Stop()
	}
	publisher := bot.NewPublisher(tracer, sender, cfg.TelegramChannelID)

	analysisService := service.NewAnalysisService(tracer, engine, captions, publisher, recorder)

	watchlist := job.NewWatchlist(tracer, analysisService, cfg.WatchlistAddresses, cfg.WatchlistPollSecs, cfg.WatchlistAutoPost)
	startWatchlistFunc(watchlist, ctx)

	h := handler.New(tracer, analysisService)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("clickshift-alpha"))

	h.RegisterRoutes(r, cfg.APIKey)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Info().Msg("shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exiting")
}
