package ta

import (
	"math"

	"clickshift-alpha/internal/domain"
)

// RSISeries returns Wilder RSI values aligned with closes. Entries before the
// first full period are NaN. Returns nil when there are not enough closes.
func RSISeries(closes []float64, period int) []float64 {
	if period <= 0 || len(closes) <= period {
		return nil
	}
	series := nanSeries(len(closes))

	var gainSum float64
	var lossSum float64
	for i := 1; i <= period; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum -= delta
		}
	}
	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)
	series[period] = rsiFromAvg(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gain := math.Max(delta, 0)
		loss := math.Max(-delta, 0)
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		series[i] = rsiFromAvg(avgGain, avgLoss)
	}
	return series
}

func rsiFromAvg(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// ATRSeries returns Wilder ATR values aligned with candles (oldest first).
// Entries before the first full period are NaN.
func ATRSeries(candles []domain.Candle, period int) []float64 {
	if period <= 0 || len(candles) <= period {
		return nil
	}
	series := nanSeries(len(candles))

	var sum float64
	for i := 1; i <= period; i++ {
		sum += trueRange(candles[i], candles[i-1].Close)
	}
	atr := sum / float64(period)
	series[period] = atr

	for i := period + 1; i < len(candles); i++ {
		atr = (atr*float64(period-1) + trueRange(candles[i], candles[i-1].Close)) / float64(period)
		series[i] = atr
	}
	return series
}

func trueRange(c domain.Candle, prevClose float64) float64 {
	return math.Max(c.High-c.Low, math.Max(math.Abs(c.High-prevClose), math.Abs(c.Low-prevClose)))
}

// Last returns the final non-NaN value of a series.
func Last(series []float64) (float64, bool) {
	for i := len(series) - 1; i >= 0; i-- {
		if !math.IsNaN(series[i]) {
			return series[i], true
		}
	}
	return 0, false
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
