package signal

import "clickshift-alpha/internal/domain"

type Rule string

const (
	RuleConcentration   Rule = "concentration_override"
	RuleOversoldLowRisk Rule = "oversold_low_risk"
	RuleOverbought      Rule = "overbought"
	RuleElevatedRisk    Rule = "elevated_risk"
	RuleDefault         Rule = "default"
)

type Classification struct {
	Signal domain.SignalClass
	Rule   Rule
}

// Classify evaluates the rules in priority order; the first match wins.
func Classify(in domain.NormalizedInputs, risk RiskAssessment, p Policy) Classification {
	top1 := in.Holders.Top1Share
	rsi := in.Technicals.RSI

	if top1 != nil && *top1 > p.ConcentrationDangerPct {
		return Classification{Signal: domain.SignalAvoid, Rule: RuleConcentration}
	}
	// a buy needs the top holder share, otherwise the override above was never checked
	if rsi != nil && *rsi < p.RSIOversold && risk.Score < p.ModerateRiskCeiling && top1 != nil {
		return Classification{Signal: domain.SignalBuy, Rule: RuleOversoldLowRisk}
	}
	if rsi != nil && *rsi > p.RSIOverbought {
		return Classification{Signal: domain.SignalAvoid, Rule: RuleOverbought}
	}
	if risk.Score > p.ModerateRiskCeiling && momentumNeutral(rsi, p) {
		return Classification{Signal: domain.SignalWait, Rule: RuleElevatedRisk}
	}
	return Classification{Signal: domain.SignalWait, Rule: RuleDefault}
}

func momentumNeutral(rsi *float64, p Policy) bool {
	return rsi == nil || (*rsi >= p.RSIOversold && *rsi <= p.RSIOverbought)
}
