package caption

import (
	"fmt"
	"strings"

	"clickshift-alpha/internal/domain"
)

const promptTemplate = `Generate an engaging social post about this Solana token analysis:
Token: %s (%s)
Price: $%s
Signal: %s
Risk score: %d/100
Confidence: %d%%
Key Insight: %s

Requirements:
- Use 2-4 emojis
- Keep it under 280 characters
- Make it exciting but keep professional credibility
- Include a call-to-action to analyze on ClickShift Alpha
- Include relevant hashtags (#Solana #DeFi #CryptoAlpha)
- Never invent numbers that are not listed above`

func BuildPrompt(r *domain.AnalysisResult) string {
	name := "unknown"
	if r.Market.Name != nil {
		name = *r.Market.Name
	}
	return fmt.Sprintf(promptTemplate,
		r.Symbol("UNKNOWN"), name, priceText(r),
		r.Signal, r.RiskScore, r.Confidence, r.KeyInsight)
}

// Fallback is the fixed caption used whenever the LLM is unavailable.
func Fallback(r *domain.AnalysisResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🚨 $%s Analysis Complete!\n", r.Symbol("TOKEN")))
	sb.WriteString(fmt.Sprintf("%s Signal Detected\n\n", strings.ToUpper(string(r.Signal))))
	sb.WriteString("📊 Get full analysis: alpha.clickshift.io\n\n")
	sb.WriteString("#Solana #DeFi #CryptoTrading")
	return Truncate(sb.String(), MaxLength)
}

func priceText(r *domain.AnalysisResult) string {
	if r.Market.Price == nil {
		return "N/A"
	}
	return r.Market.Price.String()
}
