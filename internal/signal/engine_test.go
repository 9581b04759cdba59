package signal

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"clickshift-alpha/internal/domain"
	"clickshift-alpha/internal/provider"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
)

func newTestEngine(t *testing.T, m MarketSource, h HolderSource, i IndicatorSource, deadline time.Duration, rec Recorder) *Engine {
	t.Helper()
	engine, err := NewEngine(m, h, i, Config{Deadline: deadline, Policy: DefaultPolicy()}, trace.NewNoopTracerProvider().Tracer("test"), rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	engine.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	engine.newID = func() string { return "fixed-id" }
	return engine
}

func TestEngineBuyScenario(t *testing.T) {
	rec := &stubRecorder{}
	engine := newTestEngine(t,
		stubMarket{stub[provider.RawMarket]{out: buyMarket()}},
		stubHolders{stub[provider.RawHolders]{out: buyHolders()}},
		stubIndicators{stub[provider.RawIndicators]{out: buyIndicators()}},
		time.Second, rec)

	result, err := engine.Analyze(context.Background(), testAddress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Signal != domain.SignalBuy || result.MatchedRule != string(RuleOversoldLowRisk) {
		t.Fatalf("expected BUY, got %s via %s", result.Signal, result.MatchedRule)
	}
	if ceiling := DefaultPolicy().ModerateRiskCeiling; result.RiskScore <= 0 || result.RiskScore >= ceiling {
		t.Fatalf("risk should sit in the moderate band (0, %d), got %d", ceiling, result.RiskScore)
	}
	if result.Confidence != DefaultPolicy().ConfidenceBaseline {
		t.Fatalf("complete data should keep baseline confidence, got %d", result.Confidence)
	}
	levels := result.Recommendations
	if !levels.Entry.Equal(decimal.RequireFromString("0.01")) ||
		!levels.StopLoss.Equal(decimal.RequireFromString("0.0065")) ||
		!levels.TakeProfit.Equal(decimal.RequireFromString("0.016")) {
		t.Fatalf("unexpected levels: entry=%s stop=%s target=%s", levels.Entry, levels.StopLoss, levels.TakeProfit)
	}
	if result.ID != "fixed-id" || result.ContractAddress != testAddress || result.Symbol("?") != "BONK" {
		t.Fatalf("unexpected identity fields: %+v", result)
	}
	if len(rec.providers) != 3 || len(rec.signals) != 1 || rec.signals[0] != domain.SignalBuy {
		t.Fatalf("unexpected recorder calls: %+v", rec)
	}
}

func TestEngineConcentrationScenario(t *testing.T) {
	holders := provider.Success(&provider.RawHolders{
		Accounts: []provider.RawHolderAccount{
			{Address: "whale", Amount: "600"},
			{Address: "b", Amount: "100"},
			{Address: "c", Amount: "50"},
		},
		Supply:      "1000",
		HolderCount: int64(1200),
	})
	engine := newTestEngine(t,
		stubMarket{stub[provider.RawMarket]{out: buyMarket()}},
		stubHolders{stub[provider.RawHolders]{out: holders}},
		stubIndicators{stub[provider.RawIndicators]{out: provider.Failure[provider.RawIndicators](errors.New("indicator api down"))}},
		time.Second, nil)

	result, err := engine.Analyze(context.Background(), testAddress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Signal != domain.SignalAvoid || result.MatchedRule != string(RuleConcentration) {
		t.Fatalf("expected concentration AVOID, got %s via %s", result.Signal, result.MatchedRule)
	}
	levels := result.Recommendations
	if levels.Entry != nil || levels.StopLoss != nil || levels.TakeProfit != nil || levels.Actionable {
		t.Fatalf("avoid should have null levels, got %+v", levels)
	}
	p := DefaultPolicy()
	if want := p.ConfidenceBaseline - 2*p.MissingFieldPenalty; result.Confidence != want {
		t.Fatalf("expected confidence %d for two missing fields, got %d", want, result.Confidence)
	}
	if result.Confidence < p.ConfidenceFloor {
		t.Fatalf("confidence %d under floor", result.Confidence)
	}
	if result.Sources[domain.SourceTechnicals] != domain.SourceError {
		t.Fatalf("expected technical source error, got %s", result.Sources[domain.SourceTechnicals])
	}
	if !strings.Contains(result.Holders.Warning, "60.0%") {
		t.Fatalf("expected concentration warning, got %q", result.Holders.Warning)
	}
	if !strings.Contains(result.KeyInsight, "rsi, atr") {
		t.Fatalf("insight should list missing fields, got %q", result.KeyInsight)
	}
}

func TestEngineSurvivesSingleSourceTimeout(t *testing.T) {
	rec := &stubRecorder{}
	slow := stubHolders{stub[provider.RawHolders]{out: buyHolders(), delay: 2 * time.Second, ignoreCtx: true}}
	engine := newTestEngine(t,
		stubMarket{stub[provider.RawMarket]{out: buyMarket()}},
		slow,
		stubIndicators{stub[provider.RawIndicators]{out: buyIndicators()}},
		50*time.Millisecond, rec)

	start := time.Now()
	result, err := engine.Analyze(context.Background(), testAddress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("deadline not enforced, took %v", time.Since(start))
	}
	if result.Sources[domain.SourceHolders] != domain.SourceTimeout {
		t.Fatalf("expected holders timeout, got %s", result.Sources[domain.SourceHolders])
	}
	if result.Holders.Top1Share != nil || result.Completeness.Has(domain.FieldTop1Share) {
		t.Fatal("timed out source fields should be missing")
	}
	if result.Confidence >= DefaultPolicy().ConfidenceBaseline {
		t.Fatalf("confidence should drop, got %d", result.Confidence)
	}
	if result.Signal == domain.SignalBuy {
		t.Fatal("no buy without holder data")
	}

	var timeouts int
	for _, call := range rec.providers {
		if call.status == "timeout" {
			timeouts++
		}
	}
	if timeouts != 1 {
		t.Fatalf("expected one timeout observation, got %+v", rec.providers)
	}
}

func TestEngineAllSourcesFailStillProducesWait(t *testing.T) {
	boom := errors.New("boom")
	engine := newTestEngine(t,
		stubMarket{stub[provider.RawMarket]{out: provider.Failure[provider.RawMarket](boom)}},
		stubHolders{stub[provider.RawHolders]{out: provider.Failure[provider.RawHolders](boom)}},
		stubIndicators{stub[provider.RawIndicators]{out: provider.Failure[provider.RawIndicators](boom)}},
		time.Second, nil)

	result, err := engine.Analyze(context.Background(), testAddress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Signal != domain.SignalWait || result.Confidence != DefaultPolicy().ConfidenceFloor {
		t.Fatalf("expected floor-confidence WAIT, got %s at %d", result.Signal, result.Confidence)
	}
}

func TestEngineRejectsInvalidAddressWithoutCalls(t *testing.T) {
	calls := 0
	engine := newTestEngine(t,
		stubMarket{stub[provider.RawMarket]{out: buyMarket(), calls: &calls}},
		stubHolders{stub[provider.RawHolders]{out: buyHolders(), calls: &calls}},
		stubIndicators{stub[provider.RawIndicators]{out: buyIndicators(), calls: &calls}},
		time.Second, nil)

	_, err := engine.Analyze(context.Background(), "not-an-address")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("providers should not be called, got %d calls", calls)
	}
}

func TestEngineCallerCancellation(t *testing.T) {
	engine := newTestEngine(t,
		stubMarket{stub[provider.RawMarket]{out: buyMarket(), delay: time.Second}},
		stubHolders{stub[provider.RawHolders]{out: buyHolders(), delay: time.Second}},
		stubIndicators{stub[provider.RawIndicators]{out: buyIndicators(), delay: time.Second}},
		5*time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	result, err := engine.Analyze(ctx, testAddress)
	if !errors.Is(err, context.Canceled) || result != nil {
		t.Fatalf("expected cancellation error, got %v %+v", err, result)
	}
}

func TestEngineIsIdempotent(t *testing.T) {
	engine := newTestEngine(t,
		stubMarket{stub[provider.RawMarket]{out: buyMarket()}},
		stubHolders{stub[provider.RawHolders]{out: buyHolders()}},
		stubIndicators{stub[provider.RawIndicators]{out: buyIndicators()}},
		time.Second, nil)

	first, err := engine.Analyze(context.Background(), testAddress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := engine.Analyze(context.Background(), testAddress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different results:\n%+v\n%+v", first, second)
	}
}

func TestNewEngineValidatesConfig(t *testing.T) {
	tracer := trace.NewNoopTracerProvider().Tracer("test")
	m := stubMarket{stub[provider.RawMarket]{out: buyMarket()}}
	h := stubHolders{stub[provider.RawHolders]{out: buyHolders()}}
	i := stubIndicators{stub[provider.RawIndicators]{out: buyIndicators()}}

	bad := DefaultPolicy()
	bad.StopLossATRMult = 3
	if _, err := NewEngine(m, h, i, Config{Policy: bad}, tracer, nil); err == nil {
		t.Fatal("expected invalid policy error")
	}
	if _, err := NewEngine(nil, h, i, Config{Policy: DefaultPolicy()}, tracer, nil); err == nil {
		t.Fatal("expected missing source error")
	}
	engine, err := NewEngine(m, h, i, Config{Policy: DefaultPolicy()}, tracer, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if engine.deadline != DefaultDeadline {
		t.Fatalf("expected default deadline, got %v", engine.deadline)
	}
}

func TestNewEngineDefaultsNilTracer(t *testing.T) {
	m := stubMarket{stub[provider.RawMarket]{out: buyMarket()}}
	h := stubHolders{stub[provider.RawHolders]{out: buyHolders()}}
	i := stubIndicators{stub[provider.RawIndicators]{out: buyIndicators()}}
	engine, err := NewEngine(m, h, i, Config{Policy: DefaultPolicy()}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := engine.Analyze(context.Background(), testAddress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Signal != domain.SignalBuy {
		t.Fatalf("expected BUY, got %s", result.Signal)
	}
}

func TestCheckResultFlagsOutOfOrderLevels(t *testing.T) {
	result := &domain.AnalysisResult{
		Signal:     domain.SignalBuy,
		RiskScore:  10,
		Confidence: 50,
		Recommendations: domain.Recommendation{
			Entry:      dec("1"),
			StopLoss:   dec("1.2"),
			TakeProfit: dec("2"),
			Actionable: true,
		},
	}
	var d *ComputationDefect
	if err := checkResult(result); !errors.As(err, &d) {
		t.Fatalf("expected defect, got %v", err)
	}

	result.Signal = domain.SignalWait
	result.Recommendations = domain.Recommendation{Entry: dec("1")}
	if err := checkResult(result); !errors.As(err, &d) {
		t.Fatalf("expected defect for levels on non-actionable result, got %v", err)
	}
}
