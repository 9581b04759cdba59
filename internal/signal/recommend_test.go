package signal

import (
	"testing"

	"clickshift-alpha/internal/domain"

	"github.com/shopspring/decimal"
)

func TestRecommendBuyWorkedExample(t *testing.T) {
	rec := Recommend(dec("0.01"), dec("0.002"), domain.SignalBuy, DefaultPolicy())
	if !rec.Actionable {
		t.Fatal("buy with price and atr should be actionable")
	}
	if !rec.Entry.Equal(decimal.RequireFromString("0.01")) {
		t.Fatalf("unexpected entry %s", rec.Entry)
	}
	if !rec.StopLoss.Equal(decimal.RequireFromString("0.0065")) {
		t.Fatalf("unexpected stop loss %s", rec.StopLoss)
	}
	if !rec.TakeProfit.Equal(decimal.RequireFromString("0.016")) {
		t.Fatalf("unexpected take profit %s", rec.TakeProfit)
	}
}

func TestRecommendBuyOrderingHolds(t *testing.T) {
	p := DefaultPolicy()
	prices := []string{"0.00000123", "0.01", "1", "250.5"}
	atrs := []string{"0.000000001", "0.002", "0.5", "3", "1000"}
	for _, price := range prices {
		for _, atr := range atrs {
			rec := Recommend(dec(price), dec(atr), domain.SignalBuy, p)
			if !rec.StopLoss.LessThan(*rec.Entry) || !rec.Entry.LessThan(*rec.TakeProfit) {
				t.Fatalf("price=%s atr=%s: levels out of order %s < %s < %s", price, atr, rec.StopLoss, rec.Entry, rec.TakeProfit)
			}
			if !rec.StopLoss.IsPositive() {
				t.Fatalf("price=%s atr=%s: stop loss %s not positive", price, atr, rec.StopLoss)
			}
			reward := rec.TakeProfit.Sub(*rec.Entry)
			risk := rec.Entry.Sub(*rec.StopLoss)
			if !reward.GreaterThan(risk) {
				t.Fatalf("price=%s atr=%s: reward %s should exceed risk %s", price, atr, reward, risk)
			}
		}
	}
}

func TestRecommendNonBuyIsNull(t *testing.T) {
	for _, sig := range []domain.SignalClass{domain.SignalWait, domain.SignalAvoid} {
		rec := Recommend(dec("0.01"), dec("0.002"), sig, DefaultPolicy())
		if rec.Actionable || rec.Entry != nil || rec.StopLoss != nil || rec.TakeProfit != nil {
			t.Fatalf("%s should have null levels, got %+v", sig, rec)
		}
	}
}

func TestRecommendBuyWithoutPriceOrATR(t *testing.T) {
	p := DefaultPolicy()
	if rec := Recommend(nil, dec("0.002"), domain.SignalBuy, p); rec.Actionable || rec.Entry != nil {
		t.Fatalf("missing price should give null levels, got %+v", rec)
	}
	if rec := Recommend(dec("0.01"), nil, domain.SignalBuy, p); rec.Actionable || rec.Entry != nil {
		t.Fatalf("missing atr should give null levels, got %+v", rec)
	}
}

func TestScoringIsDeterministic(t *testing.T) {
	p := DefaultPolicy()
	in := buyInputs()
	first := ScoreRisk(in.Holders, p)
	firstClass := Classify(in, first, p)
	firstConf := EstimateConfidence(in, first, p)
	firstRec := Recommend(in.Market.Price, in.Technicals.ATR, firstClass.Signal, p)
	for i := 0; i < 50; i++ {
		risk := ScoreRisk(in.Holders, p)
		class := Classify(in, risk, p)
		if risk != first || class != firstClass || EstimateConfidence(in, risk, p) != firstConf {
			t.Fatalf("iteration %d diverged", i)
		}
		rec := Recommend(in.Market.Price, in.Technicals.ATR, class.Signal, p)
		if !rec.StopLoss.Equal(*firstRec.StopLoss) || !rec.TakeProfit.Equal(*firstRec.TakeProfit) {
			t.Fatalf("iteration %d produced different levels", i)
		}
	}
}
