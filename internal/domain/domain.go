package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SignalClass string

const (
	SignalBuy   SignalClass = "BUY"
	SignalWait  SignalClass = "WAIT"
	SignalAvoid SignalClass = "AVOID"
)

func (s SignalClass) IsValid() bool {
	switch s {
	case SignalBuy, SignalWait, SignalAvoid:
		return true
	default:
		return false
	}
}

// Field names one normalized input value. Completeness maps are keyed by Field.
type Field string

const (
	FieldSymbol         Field = "symbol"
	FieldName           Field = "name"
	FieldPrice          Field = "price"
	FieldVolume24h      Field = "volume24h"
	FieldPriceChange24h Field = "priceChange24h"
	FieldMarketCap      Field = "marketCap"
	FieldLiquidity      Field = "liquidity"
	FieldTop1Share      Field = "topHolder"
	FieldTop10Share     Field = "top10"
	FieldHolderCount    Field = "totalHolders"
	FieldRSI            Field = "rsi"
	FieldATR            Field = "atr"
)

// AllFields lists every field in display order.
var AllFields = []Field{
	FieldSymbol, FieldName, FieldPrice, FieldVolume24h, FieldPriceChange24h, FieldMarketCap, FieldLiquidity,
	FieldTop1Share, FieldTop10Share, FieldHolderCount,
	FieldRSI, FieldATR,
}

// RequiredFields are the fields whose absence lowers confidence.
var RequiredFields = []Field{FieldRSI, FieldATR, FieldTop1Share, FieldHolderCount}

// Completeness records which fields were present after normalization.
type Completeness map[Field]bool

func (c Completeness) Has(f Field) bool {
	return c[f]
}

// Missing returns the absent fields among the given ones, in the given order.
func (c Completeness) Missing(fields []Field) []Field {
	var out []Field
	for _, f := range fields {
		if !c[f] {
			out = append(out, f)
		}
	}
	return out
}

// MarketSnapshot is the market/liquidity view of a token. Nil means the provider omitted it.
type MarketSnapshot struct {
	Symbol         *string          `json:"symbol"`
	Name           *string          `json:"name"`
	Price          *decimal.Decimal `json:"price"`
	Volume24h      *float64         `json:"volume24h"`
	PriceChange24h *float64         `json:"priceChange24h"`
	MarketCap      *float64         `json:"marketCap"`
	Liquidity      *float64         `json:"liquidity"`
}

// HolderDistribution holds concentration shares in percent (0-100).
type HolderDistribution struct {
	Top1Share   *float64 `json:"topHolder"`
	Top10Share  *float64 `json:"top10"`
	HolderCount *int64   `json:"totalHolders"`
	// HolderCountIsLowerBound is set when counting stopped at the pagination cap.
	HolderCountIsLowerBound bool   `json:"totalHoldersIsLowerBound,omitempty"`
	Warning                 string `json:"warning,omitempty"`
}

type TechnicalIndicatorSet struct {
	RSI *float64         `json:"rsi"`
	ATR *decimal.Decimal `json:"atr"`
}

type SourceStatus string

const (
	SourceOK      SourceStatus = "ok"
	SourceError   SourceStatus = "error"
	SourceTimeout SourceStatus = "timeout"
)

// Source names, used for status reporting, metrics and logs.
const (
	SourceMarket     = "market"
	SourceHolders    = "holders"
	SourceTechnicals = "technical"
)

// NormalizedInputs is the only input the scoring components see.
type NormalizedInputs struct {
	Market       MarketSnapshot          `json:"tokenData"`
	Holders      HolderDistribution      `json:"holderAnalysis"`
	Technicals   TechnicalIndicatorSet   `json:"technical"`
	Completeness Completeness            `json:"completeness"`
	Sources      map[string]SourceStatus `json:"sources"`
}

// Recommendation levels are nil when no actionable order exists.
type Recommendation struct {
	Entry      *decimal.Decimal `json:"entry"`
	TakeProfit *decimal.Decimal `json:"takeProfit"`
	StopLoss   *decimal.Decimal `json:"stopLoss"`
	Actionable bool             `json:"actionable"`
}

type AnalysisResult struct {
	ID              string         `json:"id"`
	ContractAddress string         `json:"contractAddress"`
	AnalyzedAt      time.Time      `json:"analyzedAt"`
	Signal          SignalClass    `json:"signal"`
	MatchedRule     string         `json:"matchedRule"`
	RiskScore       int            `json:"riskScore"`
	RiskPartial     bool           `json:"riskPartial"`
	Confidence      int            `json:"confidence"`
	Recommendations Recommendation `json:"recommendations"`
	KeyInsight      string         `json:"keyInsight"`
	NormalizedInputs
}

// Symbol returns the token symbol or fallback when unknown.
func (r *AnalysisResult) Symbol(fallback string) string {
	if r == nil || r.Market.Symbol == nil || *r.Market.Symbol == "" {
		return fallback
	}
	return *r.Market.Symbol
}
