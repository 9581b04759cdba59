package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const maxErrorBody = 512

// doJSON sends req after a limiter token and decodes a 200 response into out.
// Numbers are decoded as json.Number so string/number coercion happens later.
func doJSON(ctx context.Context, client *http.Client, limiter *RateLimiter, req *http.Request, label string, out any) error {
	if err := limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s rate limit wait: %w", label, ctxErr)
		}
		if _, ok := ctx.Deadline(); ok {
			// the limiter refuses waits that would outlive the deadline
			return fmt.Errorf("%s rate limit wait: %w", label, context.DeadlineExceeded)
		}
		return fmt.Errorf("%s rate limit wait: %w", label, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%s API error %d: %s", label, resp.StatusCode, string(body))
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode %s payload: %w", label, err)
	}
	return nil
}

func newJSONPost(ctx context.Context, url string, body any) (*http.Request, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}
