package signal

import (
	"math"
	"sort"

	"clickshift-alpha/internal/domain"
	"clickshift-alpha/internal/provider"

	"github.com/shopspring/decimal"
)

// shareTolerance absorbs rounding in provider-reported balances.
const shareTolerance = 1e-6

// RawInputs are the three provider outcomes as they settled.
type RawInputs struct {
	Market     provider.Outcome[provider.RawMarket]
	Holders    provider.Outcome[provider.RawHolders]
	Technicals provider.Outcome[provider.RawIndicators]
}

// Normalize coerces raw payloads into typed inputs. Absent, malformed or
// out-of-range values are left nil and marked missing; nothing is defaulted.
func Normalize(raw RawInputs) domain.NormalizedInputs {
	out := domain.NormalizedInputs{
		Completeness: make(domain.Completeness, len(domain.AllFields)),
		Sources: map[string]domain.SourceStatus{
			domain.SourceMarket:     sourceStatus(raw.Market.Status),
			domain.SourceHolders:    sourceStatus(raw.Holders.Status),
			domain.SourceTechnicals: sourceStatus(raw.Technicals.Status),
		},
	}

	if raw.Market.Status == provider.StatusOK && raw.Market.Payload != nil {
		out.Market = normalizeMarket(raw.Market.Payload)
	}
	if raw.Holders.Status == provider.StatusOK && raw.Holders.Payload != nil {
		out.Holders = normalizeHolders(raw.Holders.Payload)
	}
	if raw.Technicals.Status == provider.StatusOK && raw.Technicals.Payload != nil {
		out.Technicals = normalizeTechnicals(raw.Technicals.Payload)
	}

	c := out.Completeness
	c[domain.FieldSymbol] = out.Market.Symbol != nil
	c[domain.FieldName] = out.Market.Name != nil
	c[domain.FieldPrice] = out.Market.Price != nil
	c[domain.FieldVolume24h] = out.Market.Volume24h != nil
	c[domain.FieldPriceChange24h] = out.Market.PriceChange24h != nil
	c[domain.FieldMarketCap] = out.Market.MarketCap != nil
	c[domain.FieldLiquidity] = out.Market.Liquidity != nil
	c[domain.FieldTop1Share] = out.Holders.Top1Share != nil
	c[domain.FieldTop10Share] = out.Holders.Top10Share != nil
	c[domain.FieldHolderCount] = out.Holders.HolderCount != nil
	c[domain.FieldRSI] = out.Technicals.RSI != nil
	c[domain.FieldATR] = out.Technicals.ATR != nil
	return out
}

func sourceStatus(s provider.Status) domain.SourceStatus {
	switch s {
	case provider.StatusOK:
		return domain.SourceOK
	case provider.StatusTimeout:
		return domain.SourceTimeout
	default:
		return domain.SourceError
	}
}

func normalizeMarket(raw *provider.RawMarket) domain.MarketSnapshot {
	var m domain.MarketSnapshot
	if s, ok := provider.AsString(raw.Symbol); ok {
		m.Symbol = &s
	}
	if s, ok := provider.AsString(raw.Name); ok {
		m.Name = &s
	}
	if d, ok := provider.AsDecimal(raw.Price); ok && d.IsPositive() {
		m.Price = &d
	}
	m.Volume24h = nonNegative(raw.Volume24h)
	m.MarketCap = nonNegative(raw.MarketCap)
	m.Liquidity = nonNegative(raw.Liquidity)
	// a price cannot fall by more than 100%
	if v, ok := provider.AsFloat(raw.PriceChange24h); ok && v >= -100 {
		m.PriceChange24h = &v
	}
	return m
}

func normalizeHolders(raw *provider.RawHolders) domain.HolderDistribution {
	var h domain.HolderDistribution

	if n, ok := provider.AsInt(raw.HolderCount); ok && n >= 0 {
		h.HolderCount = &n
		h.HolderCountIsLowerBound = raw.HolderCountCapped
	}

	supply, ok := provider.AsFloat(raw.Supply)
	if !ok || supply <= 0 {
		return h
	}

	balances := make([]float64, 0, len(raw.Accounts))
	for _, acct := range raw.Accounts {
		amt, ok := provider.AsFloat(acct.Amount)
		if !ok || amt < 0 {
			continue
		}
		balances = append(balances, amt)
	}
	if len(balances) == 0 {
		return h
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(balances)))

	var top10 float64
	for i := 0; i < len(balances) && i < 10; i++ {
		top10 += balances[i]
	}
	h.Top1Share = sharePct(balances[0], supply)
	h.Top10Share = sharePct(top10, supply)
	if h.Top1Share != nil && h.Top10Share != nil && *h.Top10Share < *h.Top1Share {
		h.Top10Share = nil
	}
	return h
}

func sharePct(amount, supply float64) *float64 {
	pct := amount / supply * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) || pct < 0 || pct > 100+shareTolerance {
		return nil
	}
	pct = math.Min(pct, 100)
	return &pct
}

func normalizeTechnicals(raw *provider.RawIndicators) domain.TechnicalIndicatorSet {
	var t domain.TechnicalIndicatorSet
	if v, ok := provider.AsFloat(raw.RSI); ok && v >= 0 && v <= 100 {
		t.RSI = &v
	}
	if d, ok := provider.AsDecimal(raw.ATR); ok && d.IsPositive() {
		t.ATR = &d
	}
	return t
}

func nonNegative(v any) *float64 {
	f, ok := provider.AsFloat(v)
	if !ok || f < 0 {
		return nil
	}
	return &f
}

// checkInputs re-verifies what Normalize guarantees. A failure is a defect.
func checkInputs(in domain.NormalizedInputs) error {
	const stage = "normalize"
	if in.Technicals.RSI != nil && (*in.Technicals.RSI < 0 || *in.Technicals.RSI > 100) {
		return defect(stage, "rsi %v outside [0,100]", *in.Technicals.RSI)
	}
	if in.Technicals.ATR != nil && !in.Technicals.ATR.IsPositive() {
		return defect(stage, "atr %s not positive", in.Technicals.ATR)
	}
	if in.Market.Price != nil && !in.Market.Price.IsPositive() {
		return defect(stage, "price %s not positive", in.Market.Price)
	}
	for name, share := range map[string]*float64{"top1": in.Holders.Top1Share, "top10": in.Holders.Top10Share} {
		if share != nil && (*share < 0 || *share > 100) {
			return defect(stage, "%s share %v outside [0,100]", name, *share)
		}
	}
	if in.Holders.Top1Share != nil && in.Holders.Top10Share != nil && *in.Holders.Top10Share < *in.Holders.Top1Share {
		return defect(stage, "top10 share %v below top1 share %v", *in.Holders.Top10Share, *in.Holders.Top1Share)
	}
	if in.Holders.HolderCount != nil && *in.Holders.HolderCount < 0 {
		return defect(stage, "holder count %d negative", *in.Holders.HolderCount)
	}
	for _, f := range domain.RequiredFields {
		if in.Completeness.Has(f) != fieldPresent(in, f) {
			return defect(stage, "completeness for %s disagrees with value", f)
		}
	}
	return nil
}

func fieldPresent(in domain.NormalizedInputs, f domain.Field) bool {
	switch f {
	case domain.FieldRSI:
		return in.Technicals.RSI != nil
	case domain.FieldATR:
		return in.Technicals.ATR != nil
	case domain.FieldTop1Share:
		return in.Holders.Top1Share != nil
	case domain.FieldHolderCount:
		return in.Holders.HolderCount != nil
	case domain.FieldPrice:
		return in.Market.Price != nil
	default:
		return in.Completeness.Has(f)
	}
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
