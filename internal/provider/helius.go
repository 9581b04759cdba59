package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	heliusPageLimit       = 1000
	defaultHolderMaxPages = 5
)

var ErrNoRPCURL = errors.New("helius rpc url not configured")

// HeliusProvider reads holder concentration from Solana JSON-RPC and counts
// holders through the DAS getTokenAccounts method.
type HeliusProvider struct {
	client   *http.Client
	rpcURL   string
	maxPages int
	tracer   trace.Tracer
	limiter  *RateLimiter
}

// NewHeliusProvider is limited to 10 requests per second. maxPages bounds the
// holder count pagination; counts that hit it are reported as lower bounds.
func NewHeliusProvider(tracer trace.Tracer, rpcURL string, maxPages int) *HeliusProvider {
	if maxPages <= 0 {
		maxPages = defaultHolderMaxPages
	}
	return &HeliusProvider{
		client:   &http.Client{Timeout: 20 * time.Second},
		rpcURL:   strings.TrimSpace(rpcURL),
		maxPages: maxPages,
		tracer:   tracer,
		limiter:  NewRateLimiter(10, 100*time.Millisecond),
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcResponse struct {
	ID     json.Number     `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type tokenAmount struct {
	Address        string `json:"address"`
	Amount         string `json:"amount"`
	UIAmountString string `json:"uiAmountString"`
}

func (p *HeliusProvider) FetchHolders(ctx context.Context, address string) Outcome[RawHolders] {
	ctx, span := p.tracer.Start(ctx, "helius.fetch-holders",
		trace.WithAttributes(attribute.String("token.address", address)))
	defer span.End()

	holders, err := p.fetchConcentration(ctx, address)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Failure[RawHolders](fmt.Errorf("fetch holders: %w", err))
	}

	count, capped, err := p.countHolders(ctx, address)
	if err != nil {
		// concentration is still usable without a count
		log.Warn().Err(err).Str("address", address).Msg("holder count unavailable")
		span.RecordError(err)
	} else {
		holders.HolderCount = count
		holders.HolderCountCapped = capped
		span.SetAttributes(attribute.Int64("holders.count", count), attribute.Bool("holders.capped", capped))
	}
	return Success(holders)
}

func (p *HeliusProvider) fetchConcentration(ctx context.Context, address string) (*RawHolders, error) {
	if p.rpcURL == "" {
		return nil, ErrNoRPCURL
	}

	batch := []rpcRequest{
		{JSONRPC: "2.0", ID: 1, Method: "getTokenLargestAccounts", Params: []any{address}},
		{JSONRPC: "2.0", ID: 2, Method: "getTokenSupply", Params: []any{address}},
	}
	req, err := newJSONPost(ctx, p.rpcURL, batch)
	if err != nil {
		return nil, err
	}

	var responses []rpcResponse
	if err := doJSON(ctx, p.client, p.limiter, req, "helius", &responses); err != nil {
		return nil, err
	}

	byID := make(map[string]rpcResponse, len(responses))
	for _, resp := range responses {
		byID[resp.ID.String()] = resp
	}

	largest, ok := byID["1"]
	if !ok {
		return nil, errors.New("missing getTokenLargestAccounts response")
	}
	if largest.Error != nil {
		return nil, fmt.Errorf("getTokenLargestAccounts: %w", largest.Error)
	}
	var accounts struct {
		Value []tokenAmount `json:"value"`
	}
	if err := json.Unmarshal(largest.Result, &accounts); err != nil {
		return nil, fmt.Errorf("parse largest accounts: %w", err)
	}

	supplyResp, ok := byID["2"]
	if !ok {
		return nil, errors.New("missing getTokenSupply response")
	}
	if supplyResp.Error != nil {
		return nil, fmt.Errorf("getTokenSupply: %w", supplyResp.Error)
	}
	var supply struct {
		Value tokenAmount `json:"value"`
	}
	if err := json.Unmarshal(supplyResp.Result, &supply); err != nil {
		return nil, fmt.Errorf("parse token supply: %w", err)
	}

	holders := &RawHolders{Accounts: make([]RawHolderAccount, 0, len(accounts.Value))}
	for _, acct := range accounts.Value {
		holders.Accounts = append(holders.Accounts, RawHolderAccount{
			Address: acct.Address,
			Amount:  acct.UIAmountString,
		})
	}
	if supply.Value.UIAmountString != "" {
		holders.Supply = supply.Value.UIAmountString
	}
	return holders, nil
}

// countHolders pages through token accounts counting non-zero balances. The
// count is capped when the last permitted page was full.
func (p *HeliusProvider) countHolders(ctx context.Context, address string) (int64, bool, error) {
	var count int64
	for page := 1; page <= p.maxPages; page++ {
		req, err := newJSONPost(ctx, p.rpcURL, rpcRequest{
			JSONRPC: "2.0",
			ID:      "holders",
			Method:  "getTokenAccounts",
			Params: map[string]any{
				"mint":  address,
				"page":  page,
				"limit": heliusPageLimit,
			},
		})
		if err != nil {
			return 0, false, err
		}

		var resp struct {
			Result struct {
				TokenAccounts []struct {
					Amount json.Number `json:"amount"`
				} `json:"token_accounts"`
			} `json:"result"`
			Error *rpcError `json:"error"`
		}
		if err := doJSON(ctx, p.client, p.limiter, req, "helius das", &resp); err != nil {
			return 0, false, err
		}
		if resp.Error != nil {
			return 0, false, fmt.Errorf("getTokenAccounts: %w", resp.Error)
		}

		for _, acct := range resp.Result.TokenAccounts {
			if amt, ok := AsFloat(acct.Amount); ok && amt > 0 {
				count++
			}
		}
		if len(resp.Result.TokenAccounts) < heliusPageLimit {
			return count, false, nil
		}
	}
	return count, true, nil
}
