package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"clickshift-alpha/internal/domain"
	"clickshift-alpha/internal/ta"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	geckoTerminalBaseURL = "https://api.geckoterminal.com/api/v2"
	geckoNetwork         = "solana"
	indicatorPeriod      = 14
	ohlcvLimit           = 100
)

// GeckoTerminalProvider derives RSI(14) and ATR(14) from hourly candles of
// the token's top pool.
type GeckoTerminalProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewGeckoTerminalProvider is limited to 30 requests per minute.
func NewGeckoTerminalProvider(tracer trace.Tracer, baseURL string) *GeckoTerminalProvider {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = geckoTerminalBaseURL
	}
	return &GeckoTerminalProvider{
		client:  &http.Client{Timeout: 20 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		tracer:  tracer,
		limiter: NewRateLimiter(5, 2*time.Second),
	}
}

func (p *GeckoTerminalProvider) FetchIndicators(ctx context.Context, address string) Outcome[RawIndicators] {
	ctx, span := p.tracer.Start(ctx, "geckoterminal.fetch-indicators",
		trace.WithAttributes(attribute.String("token.address", address)))
	defer span.End()

	candles, err := p.fetchCandles(ctx, address)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Failure[RawIndicators](fmt.Errorf("fetch indicators: %w", err))
	}
	span.SetAttributes(attribute.Int("candles", len(candles)))

	// too few candles leaves the indicator absent rather than failing the source
	out := &RawIndicators{}
	if rsi, ok := ta.Last(ta.RSISeries(domain.Closes(candles), indicatorPeriod)); ok {
		out.RSI = rsi
	}
	if atr, ok := ta.Last(ta.ATRSeries(candles, indicatorPeriod)); ok {
		out.ATR = atr
	}
	return Success(out)
}

func (p *GeckoTerminalProvider) fetchCandles(ctx context.Context, address string) ([]domain.Candle, error) {
	pool, err := p.topPool(ctx, address)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/networks/%s/pools/%s/ohlcv/hour?aggregate=1&limit=%d&currency=usd&token=base",
		p.baseURL, geckoNetwork, url.PathEscape(pool), ohlcvLimit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data struct {
			Attributes struct {
				OHLCVList [][]any `json:"ohlcv_list"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := doJSON(ctx, p.client, p.limiter, req, "geckoterminal", &payload); err != nil {
		return nil, err
	}
	return parseOHLCV(payload.Data.Attributes.OHLCVList), nil
}

func (p *GeckoTerminalProvider) topPool(ctx context.Context, address string) (string, error) {
	endpoint := fmt.Sprintf("%s/networks/%s/tokens/%s/pools?page=1", p.baseURL, geckoNetwork, url.PathEscape(address))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	var payload struct {
		Data []struct {
			Attributes struct {
				Address string `json:"address"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := doJSON(ctx, p.client, p.limiter, req, "geckoterminal", &payload); err != nil {
		return "", err
	}
	for _, pool := range payload.Data {
		if pool.Attributes.Address != "" {
			return pool.Attributes.Address, nil
		}
	}
	return "", ErrNoPairs
}

// parseOHLCV converts [ts, o, h, l, c, v] rows, newest first, into candles
// oldest first. Malformed rows are dropped.
func parseOHLCV(rows [][]any) []domain.Candle {
	candles := make([]domain.Candle, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		if len(row) < 6 {
			continue
		}
		var vals [6]float64
		valid := true
		for j := range vals {
			v, ok := AsFloat(row[j])
			if !ok {
				valid = false
				break
			}
			vals[j] = v
		}
		if !valid {
			continue
		}
		candles = append(candles, domain.Candle{
			OpenTime: time.Unix(int64(vals[0]), 0).UTC(),
			Open:     vals[1],
			High:     vals[2],
			Low:      vals[3],
			Close:    vals[4],
			Volume:   vals[5],
		})
	}
	return candles
}
