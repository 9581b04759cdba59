// Package app assembles the analysis engine from configuration. Both
// binaries share it.
package app

import (
	"clickshift-alpha/internal/config"
	"clickshift-alpha/internal/provider"
	"clickshift-alpha/internal/service"
	"clickshift-alpha/internal/signal"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// NewIndicatorSource picks the technical indicator adapter named in cfg.
func NewIndicatorSource(tracer trace.Tracer, cfg config.Providers) signal.IndicatorSource {
	if cfg.IndicatorSource == config.IndicatorSourceHelloMoon {
		return provider.NewHelloMoonProvider(tracer, cfg.HelloMoonBaseURL, cfg.HelloMoonAPIKey)
	}
	return provider.NewGeckoTerminalProvider(tracer, cfg.GeckoTerminalBaseURL)
}

// NewEngine wires the three provider adapters into an engine. rdb may be nil,
// in which case market snapshots are not cached.
func NewEngine(cfg *config.Config, tracer trace.Tracer, rdb *redis.Client, recorder signal.Recorder) (*signal.Engine, error) {
	var market signal.MarketSource = provider.NewDexScreenerProvider(tracer, cfg.Providers.DexScreenerBaseURL)
	if rdb != nil {
		market = service.NewCachedMarketSource(tracer, market, rdb, cfg.MarketCacheTTL)
	}
	holders := provider.NewHeliusProvider(tracer, cfg.Providers.HeliusRPCURL, cfg.Providers.HolderCountMaxPages)
	indicators := NewIndicatorSource(tracer, cfg.Providers)

	log.Info().
		Str("indicator_source", cfg.Providers.IndicatorSource).
		Bool("market_cache", rdb != nil).
		Dur("deadline", cfg.AnalysisDeadline).
		Msg("analysis engine configured")

	return signal.NewEngine(market, holders, indicators, signal.Config{
		Deadline: cfg.AnalysisDeadline,
		Policy:   cfg.Policy,
	}, tracer, recorder)
}
