package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"clickshift-alpha/internal/signal"
)

const (
	IndicatorSourceHelloMoon     = "hellomoon"
	IndicatorSourceGeckoTerminal = "geckoterminal"
)

type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	RedisURL         string
	MarketCacheTTL   time.Duration
	AnalysisDeadline time.Duration

	Providers Providers
	Policy    signal.Policy

	OpenAIAPIKey string
	OpenAIModel  string

	TelegramBotToken  string
	TelegramChannelID string
	APIKey            string

	WatchlistAddresses []string
	WatchlistPollSecs  int
	WatchlistAutoPost  bool

	MCPTransport string
	MCPHTTPBind  string
	MCPHTTPPort  int

	TracingEnabled bool
	OTLPEndpoint   string

	// Warnings collects notes about missing optional settings. They are
	// logged once the logger is configured.
	Warnings []string
}

// Providers holds credentials and endpoints for the data sources.
type Providers struct {
	DexScreenerBaseURL   string
	HeliusRPCURL         string
	HolderCountMaxPages  int
	IndicatorSource      string
	HelloMoonAPIKey      string
	HelloMoonBaseURL     string
	GeckoTerminalBaseURL string
}

func Load() *Config {
	cfg := &Config{
		LogLevel:          envString("LOG_LEVEL", "info"),
		LogFormat:         envString("LOG_FORMAT", "console"),
		HTTPAddr:          envString("HTTP_ADDR", ":8080"),
		RedisURL:          strings.TrimSpace(os.Getenv("REDIS_URL")),
		OpenAIAPIKey:      strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:       envString("OPENAI_MODEL", "gpt-4o-mini"),
		TelegramBotToken:  strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		TelegramChannelID: strings.TrimSpace(os.Getenv("TELEGRAM_CHANNEL_ID")),
		APIKey:            strings.TrimSpace(os.Getenv("API_KEY")),
		OTLPEndpoint:      envString("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}

	cfg.MarketCacheTTL = time.Duration(envInt("MARKET_CACHE_TTL_SECS", 30)) * time.Second
	cfg.AnalysisDeadline = time.Duration(envInt("ANALYSIS_DEADLINE_MS", 8000)) * time.Millisecond
	cfg.TracingEnabled = !strings.EqualFold(strings.TrimSpace(os.Getenv("TRACING_ENABLED")), "false")

	cfg.Providers = Providers{
		DexScreenerBaseURL:   envString("DEXSCREENER_BASE_URL", "https://api.dexscreener.com"),
		HeliusRPCURL:         strings.TrimSpace(os.Getenv("HELIUS_RPC_URL")),
		HolderCountMaxPages:  envInt("HOLDER_COUNT_MAX_PAGES", 5),
		HelloMoonAPIKey:      strings.TrimSpace(os.Getenv("HELLO_MOON_API_KEY")),
		HelloMoonBaseURL:     envString("HELLO_MOON_BASE_URL", "https://api.hellomoon.io"),
		GeckoTerminalBaseURL: envString("GECKOTERMINAL_BASE_URL", "https://api.geckoterminal.com/api/v2"),
	}

	source := strings.ToLower(strings.TrimSpace(os.Getenv("INDICATOR_SOURCE")))
	switch source {
	case IndicatorSourceHelloMoon, IndicatorSourceGeckoTerminal:
	case "":
		source = IndicatorSourceGeckoTerminal
		if cfg.Providers.HelloMoonAPIKey != "" {
			source = IndicatorSourceHelloMoon
		}
	default:
		cfg.warn("unsupported INDICATOR_SOURCE=%q, defaulting to %s", source, IndicatorSourceGeckoTerminal)
		source = IndicatorSourceGeckoTerminal
	}
	if source == IndicatorSourceHelloMoon && cfg.Providers.HelloMoonAPIKey == "" {
		cfg.warn("INDICATOR_SOURCE=hellomoon without HELLO_MOON_API_KEY, technical data will be missing")
	}
	cfg.Providers.IndicatorSource = source

	cfg.Policy = loadPolicy()

	cfg.WatchlistAddresses = splitList(os.Getenv("WATCHLIST_ADDRESSES"))
	cfg.WatchlistPollSecs = envInt("WATCHLIST_POLL_SECS", 0)
	cfg.WatchlistAutoPost = strings.EqualFold(strings.TrimSpace(os.Getenv("WATCHLIST_AUTO_POST")), "true")

	cfg.MCPTransport = strings.ToLower(envString("MCP_TRANSPORT", "stdio"))
	if cfg.MCPTransport != "stdio" && cfg.MCPTransport != "http" {
		cfg.warn("unsupported MCP_TRANSPORT=%q, defaulting to stdio", cfg.MCPTransport)
		cfg.MCPTransport = "stdio"
	}
	cfg.MCPHTTPBind = envString("MCP_HTTP_BIND", "127.0.0.1")
	cfg.MCPHTTPPort = envInt("MCP_HTTP_PORT", 8090)

	if cfg.Providers.HeliusRPCURL == "" {
		cfg.warn("HELIUS_RPC_URL not set, holder data will be missing")
	}
	if cfg.OpenAIAPIKey == "" {
		cfg.warn("OPENAI_API_KEY not set, captions will use the fallback message")
	}
	if cfg.TelegramBotToken == "" {
		cfg.warn("TELEGRAM_BOT_TOKEN not set, telegram bot disabled")
	}
	if cfg.TelegramBotToken != "" && cfg.TelegramChannelID == "" {
		cfg.warn("TELEGRAM_CHANNEL_ID not set, channel posting disabled")
	}
	if cfg.APIKey == "" {
		cfg.warn("API_KEY not set, post-analysis endpoint is unauthenticated")
	}
	if len(cfg.WatchlistAddresses) > 0 && cfg.WatchlistPollSecs == 0 {
		cfg.warn("WATCHLIST_ADDRESSES set but WATCHLIST_POLL_SECS is 0, watchlist disabled")
	}

	return cfg
}

// loadPolicy applies SIGNAL_* overrides to the default policy. Engine
// construction validates the combined result.
func loadPolicy() signal.Policy {
	p := signal.DefaultPolicy()
	p.RSIOversold = envFloat("SIGNAL_RSI_OVERSOLD", p.RSIOversold)
	p.RSIOverbought = envFloat("SIGNAL_RSI_OVERBOUGHT", p.RSIOverbought)
	p.ConcentrationDangerPct = envFloat("SIGNAL_CONCENTRATION_DANGER_PCT", p.ConcentrationDangerPct)
	p.ModerateRiskCeiling = envInt("SIGNAL_MODERATE_RISK_CEILING", p.ModerateRiskCeiling)
	p.StopLossATRMult = envFloat("SIGNAL_STOP_ATR_MULT", p.StopLossATRMult)
	p.TakeProfitATRMult = envFloat("SIGNAL_TARGET_ATR_MULT", p.TakeProfitATRMult)
	p.ConfidenceBaseline = envInt("SIGNAL_CONFIDENCE_BASELINE", p.ConfidenceBaseline)
	p.ConfidenceFloor = envInt("SIGNAL_CONFIDENCE_FLOOR", p.ConfidenceFloor)
	return p
}

func (c *Config) warn(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt returns def unless the variable holds a non-negative integer.
func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' || r == '\n' }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
