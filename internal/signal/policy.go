package signal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Policy holds every threshold and coefficient used by the scoring functions.
// The defaults are a starting calibration, not a profitable strategy.
type Policy struct {
	RSIOversold            float64 `validate:"gt=0,lt=100"`
	RSIOverbought          float64 `validate:"gt=0,lt=100,gtfield=RSIOversold"`
	ConcentrationDangerPct float64 `validate:"gt=0,lte=100"`
	ModerateRiskCeiling    int     `validate:"gt=0,lte=100"`

	Top1Weight      float64 `validate:"gt=0"`
	Top10Weight     float64 `validate:"gt=0"`
	Top1Saturation  float64 `validate:"gt=0,lte=100"`
	Top10Saturation float64 `validate:"gt=0,lte=100"`
	// HolderDamping is the largest fractional reduction a broad holder base
	// can apply, reached at HolderCountThreshold holders.
	HolderDamping        float64 `validate:"gte=0,lt=1"`
	HolderCountThreshold int64   `validate:"gt=0"`
	UnknownRisk          int     `validate:"gte=0,lte=100"`

	ConfidenceBaseline  int `validate:"gt=0,lte=100"`
	ConfidenceFloor     int `validate:"gt=0,ltefield=ConfidenceBaseline"`
	MissingFieldPenalty int `validate:"gte=0"`
	MissingPricePenalty int `validate:"gte=0"`
	PartialRiskPenalty  int `validate:"gte=0"`
	// ConflictPenalty must stay below MissingFieldPenalty: a missing RSI
	// removes the conflict and must still lower confidence.
	ConflictPenalty int `validate:"gte=0,ltfield=MissingFieldPenalty"`

	StopLossATRMult     float64 `validate:"gte=1.5,lte=2"`
	TakeProfitATRMult   float64 `validate:"gte=2.5,lte=4,gtfield=StopLossATRMult"`
	MaxStopLossFraction float64 `validate:"gt=0,lt=1"`
}

func DefaultPolicy() Policy {
	return Policy{
		RSIOversold:            30,
		RSIOverbought:          70,
		ConcentrationDangerPct: 50,
		ModerateRiskCeiling:    60,

		Top1Weight:           0.55,
		Top10Weight:          0.45,
		Top1Saturation:       50,
		Top10Saturation:      90,
		HolderDamping:        0.30,
		HolderCountThreshold: 10000,
		UnknownRisk:          50,

		ConfidenceBaseline:  73,
		ConfidenceFloor:     25,
		MissingFieldPenalty: 12,
		MissingPricePenalty: 5,
		PartialRiskPenalty:  4,
		ConflictPenalty:     6,

		StopLossATRMult:     1.75,
		TakeProfitATRMult:   3.0,
		MaxStopLossFraction: 0.9,
	}
}

var policyValidator = validator.New()

func (p Policy) Validate() error {
	err := policyValidator.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
	}
	return fmt.Errorf("invalid policy: %s", strings.Join(msgs, "; "))
}
