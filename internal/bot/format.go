package bot

import (
	"fmt"
	"html"
	"strings"

	"clickshift-alpha/internal/domain"

	"github.com/shopspring/decimal"
)

const na = "N/A"

// FormatAnalysis renders a result as a Telegram HTML message. Missing
// values print as N/A.
func FormatAnalysis(r *domain.AnalysisResult) string {
	var sb strings.Builder

	name := ""
	if r.Market.Name != nil {
		name = " (" + html.EscapeString(*r.Market.Name) + ")"
	}
	sb.WriteString(fmt.Sprintf("<b>%s</b>%s\n", html.EscapeString(r.Symbol("Unknown token")), name))
	sb.WriteString(fmt.Sprintf("Signal: <b>%s</b> | Risk %d/100 | Confidence %d%%\n", r.Signal, r.RiskScore, r.Confidence))
	sb.WriteString(fmt.Sprintf("Price: %s\n", usd(r.Market.Price)))

	rec := r.Recommendations
	if rec.Actionable {
		sb.WriteString(fmt.Sprintf("Entry: %s | Take profit: %s | Stop loss: %s\n",
			usd(rec.Entry), usd(rec.TakeProfit), usd(rec.StopLoss)))
	}

	h := r.Holders
	holders := na
	if h.HolderCount != nil {
		holders = fmt.Sprintf("%d", *h.HolderCount)
		if h.HolderCountIsLowerBound {
			holders += "+"
		}
	}
	sb.WriteString(fmt.Sprintf("Top holder: %s | Top 10: %s | Holders: %s\n", pct(h.Top1Share), pct(h.Top10Share), holders))

	rsi := na
	if r.Technicals.RSI != nil {
		rsi = fmt.Sprintf("%.1f", *r.Technicals.RSI)
	}
	atr := na
	if r.Technicals.ATR != nil {
		atr = r.Technicals.ATR.String()
	}
	sb.WriteString(fmt.Sprintf("RSI: %s | ATR: %s\n", rsi, atr))

	if h.Warning != "" {
		sb.WriteString("⚠️ " + html.EscapeString(h.Warning) + "\n")
	}
	sb.WriteString("💡 " + html.EscapeString(r.KeyInsight))
	return sb.String()
}

func usd(d *decimal.Decimal) string {
	if d == nil {
		return na
	}
	return "$" + d.String()
}

func pct(v *float64) string {
	if v == nil {
		return na
	}
	return fmt.Sprintf("%.1f%%", *v)
}
