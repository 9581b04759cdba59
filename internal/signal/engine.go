package signal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clickshift-alpha/internal/domain"
	"clickshift-alpha/internal/provider"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"
)

const DefaultDeadline = 8 * time.Second

type MarketSource interface {
	FetchMarket(ctx context.Context, address string) provider.Outcome[provider.RawMarket]
}

type HolderSource interface {
	FetchHolders(ctx context.Context, address string) provider.Outcome[provider.RawHolders]
}

type IndicatorSource interface {
	FetchIndicators(ctx context.Context, address string) provider.Outcome[provider.RawIndicators]
}

// Recorder receives per-source and per-analysis measurements.
type Recorder interface {
	ObserveProvider(source, status string, elapsed time.Duration)
	ObserveAnalysis(signal domain.SignalClass, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveProvider(string, string, time.Duration) {}
func (nopRecorder) ObserveAnalysis(domain.SignalClass, time.Duration) {}

type Config struct {
	// Deadline bounds all three provider calls together.
	Deadline time.Duration
	Policy   Policy
}

// Engine runs one analysis per call. It holds no per-request state.
type Engine struct {
	market     MarketSource
	holders    HolderSource
	indicators IndicatorSource
	deadline   time.Duration
	policy     Policy
	tracer     trace.Tracer
	recorder   Recorder
	now        func() time.Time
	newID      func() string
}

func NewEngine(market MarketSource, holders HolderSource, indicators IndicatorSource, cfg Config, tracer trace.Tracer, recorder Recorder) (*Engine, error) {
	if market == nil || holders == nil || indicators == nil {
		return nil, errors.New("all three data sources are required")
	}
	if err := cfg.Policy.Validate(); err != nil {
		return nil, err
	}
	if cfg.Deadline <= 0 {
		cfg.Deadline = DefaultDeadline
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("signal")
	}
	return &Engine{
		market:     market,
		holders:    holders,
		indicators: indicators,
		deadline:   cfg.Deadline,
		policy:     cfg.Policy,
		tracer:     tracer,
		recorder:   recorder,
		now:        time.Now,
		newID:      uuid.NewString,
	}, nil
}

func (e *Engine) Policy() Policy {
	return e.policy
}

// Analyze validates the address, queries the three sources concurrently under
// one deadline and scores whatever arrived. Provider failures only mark data
// missing. Errors are a *ValidationError, a *ComputationDefect or the
// caller's context error.
func (e *Engine) Analyze(ctx context.Context, address string) (*domain.AnalysisResult, error) {
	address, err := ValidateAddress(address)
	if err != nil {
		return nil, err
	}

	ctx, span := e.tracer.Start(ctx, "signal.analyze", trace.WithAttributes(attribute.String("token.address", address)))
	defer span.End()
	started := time.Now()

	raw, err := e.gather(ctx, address)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result, err := e.score(address, raw)
	if err != nil {
		log.Error().Err(err).Str("address", address).Msg("analysis invariant violated")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	elapsed := time.Since(started)
	e.recorder.ObserveAnalysis(result.Signal, elapsed)
	span.SetAttributes(
		attribute.String("signal", string(result.Signal)),
		attribute.String("rule", result.MatchedRule),
		attribute.Int("risk", result.RiskScore),
		attribute.Int("confidence", result.Confidence),
	)
	log.Info().
		Str("address", address).
		Str("signal", string(result.Signal)).
		Str("rule", result.MatchedRule).
		Int("risk", result.RiskScore).
		Int("confidence", result.Confidence).
		Dur("elapsed", elapsed).
		Msg("analysis complete")
	return result, nil
}

// gather runs the provider calls in parallel. Each task writes only its own
// slot and the slots are read after Wait.
func (e *Engine) gather(ctx context.Context, address string) (RawInputs, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, e.deadline)
	defer cancel()

	var raw RawInputs
	g, gctx := errgroup.WithContext(fetchCtx)
	g.Go(func() error {
		raw.Market = settle(gctx, e, domain.SourceMarket, address, e.market.FetchMarket)
		return nil
	})
	g.Go(func() error {
		raw.Holders = settle(gctx, e, domain.SourceHolders, address, e.holders.FetchHolders)
		return nil
	})
	g.Go(func() error {
		raw.Technicals = settle(gctx, e, domain.SourceTechnicals, address, e.indicators.FetchIndicators)
		return nil
	})
	_ = g.Wait()

	// caller cancellation discards whatever arrived
	if err := ctx.Err(); err != nil {
		return RawInputs{}, err
	}
	return raw, nil
}

// settle waits for one call or the shared deadline, whichever comes first.
// A call still running at the deadline is abandoned as a timeout.
func settle[T any](ctx context.Context, e *Engine, source, address string, call func(context.Context, string) provider.Outcome[T]) provider.Outcome[T] {
	started := time.Now()
	done := make(chan provider.Outcome[T], 1)
	go func() {
		done <- call(ctx, address)
	}()

	var out provider.Outcome[T]
	select {
	case out = <-done:
		if out.Status == provider.StatusError && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			out.Status = provider.StatusTimeout
		}
	case <-ctx.Done():
		out = provider.Failure[T](fmt.Errorf("%s source: %w", source, ctx.Err()))
	}

	e.recorder.ObserveProvider(source, out.Status.String(), time.Since(started))
	if out.Status != provider.StatusOK {
		log.Warn().
			Err(out.Err).
			Str("source", source).
			Str("status", out.Status.String()).
			Str("address", address).
			Msg("provider data unavailable")
	}
	return out
}

func (e *Engine) score(address string, raw RawInputs) (*domain.AnalysisResult, error) {
	p := e.policy
	inputs := Normalize(raw)
	inputs.Holders.Warning = holderWarning(inputs.Holders, p)
	if err := checkInputs(inputs); err != nil {
		return nil, err
	}

	risk := ScoreRisk(inputs.Holders, p)
	class := Classify(inputs, risk, p)
	result := &domain.AnalysisResult{
		ID:               e.newID(),
		ContractAddress:  address,
		AnalyzedAt:       e.now().UTC(),
		Signal:           class.Signal,
		MatchedRule:      string(class.Rule),
		RiskScore:        risk.Score,
		RiskPartial:      risk.Partial,
		Confidence:       EstimateConfidence(inputs, risk, p),
		Recommendations:  Recommend(inputs.Market.Price, inputs.Technicals.ATR, class.Signal, p),
		KeyInsight:       KeyInsight(inputs, risk, class, p),
		NormalizedInputs: inputs,
	}
	if err := checkResult(result); err != nil {
		return nil, err
	}
	return result, nil
}

func checkResult(r *domain.AnalysisResult) error {
	const stage = "result"
	if !r.Signal.IsValid() {
		return defect(stage, "unknown signal %q", r.Signal)
	}
	if r.RiskScore < 0 || r.RiskScore > 100 {
		return defect(stage, "risk score %d outside [0,100]", r.RiskScore)
	}
	if r.Confidence < 0 || r.Confidence > 100 {
		return defect(stage, "confidence %d outside [0,100]", r.Confidence)
	}
	rec := r.Recommendations
	if rec.Actionable {
		if r.Signal != domain.SignalBuy {
			return defect(stage, "actionable levels on %s", r.Signal)
		}
		if rec.Entry == nil || rec.StopLoss == nil || rec.TakeProfit == nil {
			return defect(stage, "actionable recommendation with null levels")
		}
		if !rec.StopLoss.LessThan(*rec.Entry) || !rec.Entry.LessThan(*rec.TakeProfit) {
			return defect(stage, "levels out of order: stop %s entry %s target %s", rec.StopLoss, rec.Entry, rec.TakeProfit)
		}
	} else if rec.Entry != nil || rec.StopLoss != nil || rec.TakeProfit != nil {
		return defect(stage, "non-actionable recommendation with levels")
	}
	return nil
}
