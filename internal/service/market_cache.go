package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"clickshift-alpha/internal/provider"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const DefaultMarketCacheTTL = 30 * time.Second

type MarketFetcher interface {
	FetchMarket(ctx context.Context, address string) provider.Outcome[provider.RawMarket]
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// CachedMarketSource serves market snapshots from Redis for ttl before
// asking the wrapped source. Only successful outcomes are cached.
type CachedMarketSource struct {
	tracer trace.Tracer
	next   MarketFetcher
	redis  RedisClient
	ttl    time.Duration
}

func NewCachedMarketSource(tracer trace.Tracer, next MarketFetcher, redisClient RedisClient, ttl time.Duration) *CachedMarketSource {
	if ttl <= 0 {
		ttl = DefaultMarketCacheTTL
	}
	return &CachedMarketSource{tracer: tracer, next: next, redis: redisClient, ttl: ttl}
}

func (s *CachedMarketSource) FetchMarket(ctx context.Context, address string) provider.Outcome[provider.RawMarket] {
	ctx, span := s.tracer.Start(ctx, "market-cache.fetch", trace.WithAttributes(attribute.String("token.address", address)))
	defer span.End()

	if s.redis != nil {
		cached, err := s.getMarketCache(ctx, address)
		if err != nil {
			log.Warn().Err(err).Str("address", address).Msg("redis cache read error")
		}
		if cached != nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return provider.Success(cached)
		}
	}

	out := s.next.FetchMarket(ctx, address)
	if out.Status == provider.StatusOK && out.Payload != nil && s.redis != nil {
		if err := s.setMarketCache(ctx, address, out.Payload); err != nil {
			log.Warn().Err(err).Str("address", address).Msg("redis cache write error")
		}
	}
	return out
}

func marketKey(address string) string {
	return "market:" + address
}

func (s *CachedMarketSource) setMarketCache(ctx context.Context, address string, m *provider.RawMarket) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, marketKey(address), data, s.ttl).Err()
}

func (s *CachedMarketSource) getMarketCache(ctx context.Context, address string) (*provider.RawMarket, error) {
	data, err := s.redis.Get(ctx, marketKey(address)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m provider.RawMarket
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}
