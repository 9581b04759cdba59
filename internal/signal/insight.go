package signal

import (
	"fmt"
	"strings"

	"clickshift-alpha/internal/domain"
)

// KeyInsight renders a one-line rationale for the matched rule.
func KeyInsight(in domain.NormalizedInputs, risk RiskAssessment, c Classification, p Policy) string {
	var msg string
	switch c.Rule {
	case RuleConcentration:
		msg = fmt.Sprintf("Top holder controls %.1f%% of supply, above the %.0f%% danger line; avoid regardless of momentum.",
			*in.Holders.Top1Share, p.ConcentrationDangerPct)
	case RuleOversoldLowRisk:
		msg = fmt.Sprintf("RSI %.1f is oversold while holder risk is low (%d/100).", *in.Technicals.RSI, risk.Score)
	case RuleOverbought:
		msg = fmt.Sprintf("RSI %.1f is overbought; momentum looks exhausted.", *in.Technicals.RSI)
	case RuleElevatedRisk:
		msg = fmt.Sprintf("Holder risk is elevated (%d/100) with no clear momentum.", risk.Score)
	default:
		msg = "No directional signal cleared its threshold."
	}

	if missing := in.Completeness.Missing(domain.RequiredFields); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = string(f)
		}
		msg += " Missing: " + strings.Join(names, ", ") + "."
	}
	return msg
}

// holderWarning flags dangerous concentration and capped holder counts.
func holderWarning(h domain.HolderDistribution, p Policy) string {
	var parts []string
	if h.Top1Share != nil && *h.Top1Share > p.ConcentrationDangerPct {
		parts = append(parts, fmt.Sprintf("top holder owns %.1f%% of supply", *h.Top1Share))
	}
	if h.HolderCount != nil && h.HolderCountIsLowerBound {
		parts = append(parts, fmt.Sprintf("holder count is a lower bound (%d+)", *h.HolderCount))
	}
	return strings.Join(parts, "; ")
}
