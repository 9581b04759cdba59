package signal

import (
	"context"
	"sync"
	"time"

	"clickshift-alpha/internal/domain"
	"clickshift-alpha/internal/provider"

	"github.com/shopspring/decimal"
)

const testAddress = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"

func f64(v float64) *float64 { return &v }

func i64(v int64) *int64 { return &v }

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// withCompleteness recomputes the completeness map from the values present.
func withCompleteness(in domain.NormalizedInputs) domain.NormalizedInputs {
	in.Completeness = domain.Completeness{
		domain.FieldSymbol:         in.Market.Symbol != nil,
		domain.FieldName:           in.Market.Name != nil,
		domain.FieldPrice:          in.Market.Price != nil,
		domain.FieldVolume24h:      in.Market.Volume24h != nil,
		domain.FieldPriceChange24h: in.Market.PriceChange24h != nil,
		domain.FieldMarketCap:      in.Market.MarketCap != nil,
		domain.FieldLiquidity:      in.Market.Liquidity != nil,
		domain.FieldTop1Share:      in.Holders.Top1Share != nil,
		domain.FieldTop10Share:     in.Holders.Top10Share != nil,
		domain.FieldHolderCount:    in.Holders.HolderCount != nil,
		domain.FieldRSI:            in.Technicals.RSI != nil,
		domain.FieldATR:            in.Technicals.ATR != nil,
	}
	return in
}

// buyInputs is the healthy oversold token: RSI 25, ATR 0.002, price 0.01,
// top1 8%, top10 35%, 5000 holders.
func buyInputs() domain.NormalizedInputs {
	return withCompleteness(domain.NormalizedInputs{
		Market: domain.MarketSnapshot{Price: dec("0.01")},
		Holders: domain.HolderDistribution{
			Top1Share:   f64(8),
			Top10Share:  f64(35),
			HolderCount: i64(5000),
		},
		Technicals: domain.TechnicalIndicatorSet{RSI: f64(25), ATR: dec("0.002")},
	})
}

func buyMarket() provider.Outcome[provider.RawMarket] {
	return provider.Success(&provider.RawMarket{
		Symbol:    "BONK",
		Name:      "Bonk",
		Price:     "0.01",
		Volume24h: 125000.5,
		Liquidity: 98000,
	})
}

func buyHolders() provider.Outcome[provider.RawHolders] {
	amounts := []string{"30", "80", "50", "40", "30", "30", "30", "30", "20", "10", "5"}
	accounts := make([]provider.RawHolderAccount, len(amounts))
	for i, a := range amounts {
		accounts[i] = provider.RawHolderAccount{Address: "holder" + a, Amount: a}
	}
	return provider.Success(&provider.RawHolders{Accounts: accounts, Supply: "1000", HolderCount: int64(5000)})
}

func buyIndicators() provider.Outcome[provider.RawIndicators] {
	return provider.Success(&provider.RawIndicators{RSI: 25.0, ATR: "0.002"})
}

type stub[T any] struct {
	out       provider.Outcome[T]
	delay     time.Duration
	ignoreCtx bool
	calls     *int
}

func (s stub[T]) get(ctx context.Context) provider.Outcome[T] {
	if s.calls != nil {
		*s.calls++
	}
	if s.delay > 0 {
		if s.ignoreCtx {
			time.Sleep(s.delay)
			return s.out
		}
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return provider.Failure[T](ctx.Err())
		}
	}
	return s.out
}

type stubMarket struct{ stub[provider.RawMarket] }

func (s stubMarket) FetchMarket(ctx context.Context, _ string) provider.Outcome[provider.RawMarket] {
	return s.get(ctx)
}

type stubHolders struct{ stub[provider.RawHolders] }

func (s stubHolders) FetchHolders(ctx context.Context, _ string) provider.Outcome[provider.RawHolders] {
	return s.get(ctx)
}

type stubIndicators struct{ stub[provider.RawIndicators] }

func (s stubIndicators) FetchIndicators(ctx context.Context, _ string) provider.Outcome[provider.RawIndicators] {
	return s.get(ctx)
}

type recordedCall struct {
	source string
	status string
}

type stubRecorder struct {
	mu        sync.Mutex
	providers []recordedCall
	signals   []domain.SignalClass
}

func (r *stubRecorder) ObserveProvider(source, status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers = append(r.providers, recordedCall{source: source, status: status})
}

func (r *stubRecorder) ObserveAnalysis(signal domain.SignalClass, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signals = append(r.signals, signal)
}
