package signal

import (
	"math"

	"clickshift-alpha/internal/domain"
)

// RiskAssessment is a 0-100 concentration risk score. Partial is set when any
// holder field was missing.
type RiskAssessment struct {
	Score   int
	Partial bool
}

// ScoreRisk weighs top-1 and top-10 concentration, then damps the result for
// a broad holder base. Missing shares drop out and the remaining weight is
// rescaled. For a fixed holder count, larger shares never lower the score.
func ScoreRisk(h domain.HolderDistribution, p Policy) RiskAssessment {
	var weighted, weight float64
	partial := false

	if h.Top1Share != nil {
		weighted += p.Top1Weight * saturate(*h.Top1Share, p.Top1Saturation)
		weight += p.Top1Weight
	} else {
		partial = true
	}
	if h.Top10Share != nil {
		weighted += p.Top10Weight * saturate(*h.Top10Share, p.Top10Saturation)
		weight += p.Top10Weight
	} else {
		partial = true
	}
	if h.HolderCount == nil {
		partial = true
	}

	if weight == 0 {
		return RiskAssessment{Score: clampInt(p.UnknownRisk, 0, 100), Partial: true}
	}

	base := weighted / weight * 100
	score := base * (1 - holderDamping(h.HolderCount, p))
	return RiskAssessment{Score: clampInt(int(math.Round(score)), 0, 100), Partial: partial}
}

func saturate(share, at float64) float64 {
	return math.Min(math.Max(share/at, 0), 1)
}

// holderDamping grows with log10 of the holder count and stops growing at
// the policy threshold.
func holderDamping(count *int64, p Policy) float64 {
	if count == nil || *count <= 0 {
		return 0
	}
	n := math.Min(float64(*count), float64(p.HolderCountThreshold))
	return p.HolderDamping * math.Log10(1+n) / math.Log10(1+float64(p.HolderCountThreshold))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
