package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const dexScreenerBaseURL = "https://api.dexscreener.com"

var ErrNoPairs = errors.New("no trading pairs for token")

// DexScreenerProvider reads price, volume and liquidity for a token from its
// most liquid DEX pair.
type DexScreenerProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewDexScreenerProvider is limited to 300 requests per minute.
func NewDexScreenerProvider(tracer trace.Tracer, baseURL string) *DexScreenerProvider {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = dexScreenerBaseURL
	}
	return &DexScreenerProvider{
		client:  &http.Client{Timeout: 20 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		tracer:  tracer,
		limiter: NewRateLimiter(5, 200*time.Millisecond),
	}
}

type dexPair struct {
	ChainID   string `json:"chainId"`
	BaseToken struct {
		Address string `json:"address"`
		Name    any    `json:"name"`
		Symbol  any    `json:"symbol"`
	} `json:"baseToken"`
	PriceUSD any `json:"priceUsd"`
	Volume   struct {
		H24 any `json:"h24"`
	} `json:"volume"`
	PriceChange struct {
		H24 any `json:"h24"`
	} `json:"priceChange"`
	Liquidity struct {
		USD any `json:"usd"`
	} `json:"liquidity"`
	MarketCap any `json:"marketCap"`
	FDV       any `json:"fdv"`
}

func (p *DexScreenerProvider) FetchMarket(ctx context.Context, address string) Outcome[RawMarket] {
	ctx, span := p.tracer.Start(ctx, "dexscreener.fetch-market",
		trace.WithAttributes(attribute.String("token.address", address)))
	defer span.End()

	market, err := p.fetch(ctx, address)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Failure[RawMarket](fmt.Errorf("fetch market: %w", err))
	}
	return Success(market)
}

func (p *DexScreenerProvider) fetch(ctx context.Context, address string) (*RawMarket, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.baseURL+"/latest/dex/tokens/"+url.PathEscape(address), nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Pairs []dexPair `json:"pairs"`
	}
	if err := doJSON(ctx, p.client, p.limiter, req, "dexscreener", &payload); err != nil {
		return nil, err
	}

	pair := pickPair(payload.Pairs, address)
	if pair == nil {
		return nil, ErrNoPairs
	}

	marketCap := pair.MarketCap
	if marketCap == nil {
		marketCap = pair.FDV
	}
	return &RawMarket{
		Symbol:         pair.BaseToken.Symbol,
		Name:           pair.BaseToken.Name,
		Price:          pair.PriceUSD,
		Volume24h:      pair.Volume.H24,
		PriceChange24h: pair.PriceChange.H24,
		MarketCap:      marketCap,
		Liquidity:      pair.Liquidity.USD,
	}, nil
}

// pickPair prefers pairs where the token is the base asset, then the highest
// USD liquidity. Pairs with unknown liquidity lose to any known value.
func pickPair(pairs []dexPair, address string) *dexPair {
	candidates := make([]*dexPair, 0, len(pairs))
	for i := range pairs {
		if pairs[i].BaseToken.Address == address {
			candidates = append(candidates, &pairs[i])
		}
	}
	if len(candidates) == 0 {
		for i := range pairs {
			candidates = append(candidates, &pairs[i])
		}
	}

	var best *dexPair
	bestLiquidity := -1.0
	for _, pair := range candidates {
		liq, ok := AsFloat(pair.Liquidity.USD)
		if !ok {
			liq = -0.5
		}
		if best == nil || liq > bestLiquidity {
			best, bestLiquidity = pair, liq
		}
	}
	return best
}
