package service

import (
	"context"
	"encoding/json"
	"time"

	"clickshift-alpha/internal/bot"
	"clickshift-alpha/internal/domain"
	"clickshift-alpha/internal/provider"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

const testAddress = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

type fakeRedis struct {
	data   map[string][]byte
	ttls   map[string]time.Duration
	setErr error
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = append([]byte(nil), v...)
	case string:
		f.data[key] = []byte(v)
	default:
		bytes, _ := json.Marshal(v)
		f.data[key] = bytes
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(string(v), nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

type fakeMarket struct {
	out   provider.Outcome[provider.RawMarket]
	calls int
}

func (f *fakeMarket) FetchMarket(ctx context.Context, address string) provider.Outcome[provider.RawMarket] {
	f.calls++
	return f.out
}

type fakeAnalyzer struct {
	result *domain.AnalysisResult
	err    error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, address string) (*domain.AnalysisResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	r := *f.result
	r.ContractAddress = address
	return &r, nil
}

type fakeCaptions struct{ text string }

func (f fakeCaptions) Generate(ctx context.Context, result *domain.AnalysisResult) string {
	return f.text
}

type fakePublisher struct {
	enabled bool
	err     error
	texts   []string
}

func (f *fakePublisher) Enabled() bool { return f.enabled }

func (f *fakePublisher) Publish(ctx context.Context, text string) (*bot.PostReceipt, error) {
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	return &bot.PostReceipt{MessageID: 7, ChatID: -100}, nil
}

type fakePostRecorder struct{ ok, failed int }

func (f *fakePostRecorder) ObservePost(ok bool) {
	if ok {
		f.ok++
	} else {
		f.failed++
	}
}
