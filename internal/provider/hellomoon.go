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

const helloMoonBaseURL = "https://api.hellomoon.io"

var ErrNoAPIKey = errors.New("api key not configured")

// HelloMoonProvider reads precomputed RSI and ATR for a token.
type HelloMoonProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
	limiter *RateLimiter
}

func NewHelloMoonProvider(tracer trace.Tracer, baseURL, apiKey string) *HelloMoonProvider {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = helloMoonBaseURL
	}
	return &HelloMoonProvider{
		client:  &http.Client{Timeout: 20 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  strings.TrimSpace(apiKey),
		tracer:  tracer,
		limiter: NewRateLimiter(5, 200*time.Millisecond),
	}
}

func (p *HelloMoonProvider) FetchIndicators(ctx context.Context, address string) Outcome[RawIndicators] {
	ctx, span := p.tracer.Start(ctx, "hellomoon.fetch-indicators",
		trace.WithAttributes(attribute.String("token.address", address)))
	defer span.End()

	indicators, err := p.fetch(ctx, address)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Failure[RawIndicators](fmt.Errorf("fetch indicators: %w", err))
	}
	return Success(indicators)
}

func (p *HelloMoonProvider) fetch(ctx context.Context, address string) (*RawIndicators, error) {
	if p.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.baseURL+"/v0/defi/token/"+url.PathEscape(address)+"/indicators", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	var payload map[string]any
	if err := doJSON(ctx, p.client, p.limiter, req, "hellomoon", &payload); err != nil {
		return nil, err
	}

	// indicators arrive at the top level or nested under "data"
	if data, ok := payload["data"].(map[string]any); ok {
		if _, hasRSI := payload["rsi"]; !hasRSI {
			if _, hasATR := payload["atr"]; !hasATR {
				payload = data
			}
		}
	}
	return &RawIndicators{RSI: payload["rsi"], ATR: payload["atr"]}, nil
}
