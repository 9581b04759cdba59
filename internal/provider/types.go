package provider

import (
	"context"
	"errors"
)

type Status int

const (
	StatusOK Status = iota
	StatusError
	StatusTimeout
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusTimeout:
		return "timeout"
	default:
		return "error"
	}
}

// Outcome is the result of one provider call: a payload, an error, or a timeout.
// Payload is non-nil only when Status is StatusOK.
type Outcome[T any] struct {
	Status  Status
	Payload *T
	Err     error
}

func Success[T any](payload *T) Outcome[T] {
	if payload == nil {
		return Outcome[T]{Status: StatusError, Err: errors.New("empty payload")}
	}
	return Outcome[T]{Status: StatusOK, Payload: payload}
}

// Failure tags err as a timeout when it stems from a deadline, otherwise as an error.
func Failure[T any](err error) Outcome[T] {
	if err == nil {
		err = errors.New("unknown provider failure")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Outcome[T]{Status: StatusTimeout, Err: err}
	}
	return Outcome[T]{Status: StatusError, Err: err}
}

// RawMarket carries market fields as the provider sent them; numbers may be
// JSON numbers or strings and any field may be nil.
type RawMarket struct {
	Symbol         any `json:"symbol"`
	Name           any `json:"name"`
	Price          any `json:"price"`
	Volume24h      any `json:"volume24h"`
	PriceChange24h any `json:"priceChange24h"`
	MarketCap      any `json:"marketCap"`
	Liquidity      any `json:"liquidity"`
}

type RawHolderAccount struct {
	Address string `json:"address"`
	Amount  any    `json:"amount"`
}

// RawHolders is the largest-accounts list plus the supply it is relative to.
type RawHolders struct {
	Accounts          []RawHolderAccount `json:"accounts"`
	Supply            any                `json:"supply"`
	HolderCount       any                `json:"holderCount"`
	HolderCountCapped bool               `json:"holderCountCapped"`
}

type RawIndicators struct {
	RSI any `json:"rsi"`
	ATR any `json:"atr"`
}
