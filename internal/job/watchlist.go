package job

import (
	"context"
	"sync"
	"time"

	"clickshift-alpha/internal/domain"
	"clickshift-alpha/internal/service"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type WatchlistService interface {
	Analyze(ctx context.Context, address string) (*domain.AnalysisResult, error)
	Post(ctx context.Context, result *domain.AnalysisResult) *service.PostResult
}

// Watchlist re-analyzes a fixed set of addresses on an interval. With
// autoPost it posts an address whenever its signal differs from the previous
// run. Signal history lives in memory only.
type Watchlist struct {
	tracer       trace.Tracer
	service      WatchlistService
	addresses    []string
	pollInterval time.Duration
	autoPost     bool

	mu   sync.Mutex
	last map[string]domain.SignalClass
}

func NewWatchlist(tracer trace.Tracer, svc WatchlistService, addresses []string, pollIntervalSecs int, autoPost bool) *Watchlist {
	return &Watchlist{
		tracer:       tracer,
		service:      svc,
		addresses:    addresses,
		pollInterval: time.Duration(pollIntervalSecs) * time.Second,
		autoPost:     autoPost,
		last:         make(map[string]domain.SignalClass),
	}
}

// Start blocks until ctx is cancelled.
func (w *Watchlist) Start(ctx context.Context) {
	if len(w.addresses) == 0 || w.pollInterval <= 0 {
		log.Info().Msg("watchlist disabled")
		return
	}
	log.Info().Int("addresses", len(w.addresses)).Dur("interval", w.pollInterval).Msg("watchlist starting")

	w.runOnce(ctx)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("watchlist stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *Watchlist) runOnce(ctx context.Context) {
	ctx, span := w.tracer.Start(ctx, "job.watchlist", trace.WithAttributes(attribute.Int("watchlist.size", len(w.addresses))))
	defer span.End()

	for _, address := range w.addresses {
		if ctx.Err() != nil {
			return
		}
		w.check(ctx, address)
	}
}

func (w *Watchlist) check(ctx context.Context, address string) {
	result, err := w.service.Analyze(ctx, address)
	if err != nil {
		log.Warn().Err(err).Str("address", address).Msg("watchlist analysis failed")
		return
	}

	prev, seen := w.swap(address, result.Signal)
	log.Info().
		Str("address", address).
		Str("symbol", result.Symbol("")).
		Str("signal", string(result.Signal)).
		Str("previous", string(prev)).
		Int("risk", result.RiskScore).
		Int("confidence", result.Confidence).
		Msg("watchlist analysis")

	if !w.autoPost || !seen || prev == result.Signal {
		return
	}
	if res := w.service.Post(ctx, result); !res.Success {
		log.Warn().Str("address", address).Str("error", res.Telegram.Error).Msg("watchlist post failed")
	}
}

// swap stores the new signal and returns the previous one.
func (w *Watchlist) swap(address string, signal domain.SignalClass) (domain.SignalClass, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	prev, ok := w.last[address]
	w.last[address] = signal
	return prev, ok
}

func (w *Watchlist) LastSignal(address string) (domain.SignalClass, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.last[address]
	return s, ok
}
