package signal

import (
	"clickshift-alpha/internal/domain"

	"github.com/shopspring/decimal"
)

// Recommend emits ATR-sized levels for BUY only. WAIT and AVOID, or a BUY
// without price or ATR, get null levels and actionable=false.
func Recommend(price, atr *decimal.Decimal, signal domain.SignalClass, p Policy) domain.Recommendation {
	if signal != domain.SignalBuy || price == nil || atr == nil || !price.IsPositive() || !atr.IsPositive() {
		return domain.Recommendation{}
	}

	entry := *price
	stopDistance := atr.Mul(decimal.NewFromFloat(p.StopLossATRMult))
	// keep the stop above zero on very volatile tokens
	if maxDistance := entry.Mul(decimal.NewFromFloat(p.MaxStopLossFraction)); stopDistance.GreaterThan(maxDistance) {
		stopDistance = maxDistance
	}
	takeProfit := entry.Add(atr.Mul(decimal.NewFromFloat(p.TakeProfitATRMult)))

	return domain.Recommendation{
		Entry:      decimalPtr(entry),
		StopLoss:   decimalPtr(entry.Sub(stopDistance)),
		TakeProfit: decimalPtr(takeProfit),
		Actionable: true,
	}
}
