package signal

import "clickshift-alpha/internal/domain"

// EstimateConfidence starts from the policy baseline and subtracts fixed
// penalties for missing data and for oversold momentum that disagrees with
// elevated risk. The result never drops below the floor.
func EstimateConfidence(in domain.NormalizedInputs, risk RiskAssessment, p Policy) int {
	score := p.ConfidenceBaseline
	score -= p.MissingFieldPenalty * len(in.Completeness.Missing(domain.RequiredFields))
	if !in.Completeness.Has(domain.FieldPrice) {
		score -= p.MissingPricePenalty
	}
	if risk.Partial {
		score -= p.PartialRiskPenalty
	}
	if rsi := in.Technicals.RSI; rsi != nil && *rsi < p.RSIOversold && risk.Score >= p.ModerateRiskCeiling {
		score -= p.ConflictPenalty
	}
	return clampInt(score, p.ConfidenceFloor, 100)
}
