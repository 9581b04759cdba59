package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clickshift-alpha/internal/domain"
	"clickshift-alpha/internal/service"
	"clickshift-alpha/internal/signal"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

const testAddress = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"

type stubAnalysis struct {
	result  *domain.AnalysisResult
	post    *service.PostResult
	err     error
	address string
}

func (s *stubAnalysis) Analyze(ctx context.Context, address string) (*domain.AnalysisResult, error) {
	s.address = address
	return s.result, s.err
}

func (s *stubAnalysis) PostAnalysis(ctx context.Context, address string) (*service.PostResult, error) {
	s.address = address
	return s.post, s.err
}

func newRouter(svc *stubAnalysis, apiKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(trace.NewNoopTracerProvider().Tracer("test"), svc).RegisterRoutes(r, apiKey)
	return r
}

func do(r *gin.Engine, path, body string, header map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAnalyzeReturnsResult(t *testing.T) {
	svc := &stubAnalysis{result: &domain.AnalysisResult{
		ContractAddress: testAddress,
		Signal:          domain.SignalWait,
		MatchedRule:     "default",
		RiskScore:       41,
		Confidence:      61,
	}}
	w := do(newRouter(svc, ""), "/api/analyze", `{"contractAddress":"`+testAddress+`"}`, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if svc.address != testAddress {
		t.Fatalf("service got %q", svc.address)
	}
	var got map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["signal"] != "WAIT" || got["riskScore"] != float64(41) {
		t.Fatalf("unexpected body %v", got)
	}
	rec, ok := got["recommendations"].(map[string]any)
	if !ok || rec["entry"] != nil || rec["actionable"] != false {
		t.Fatalf("expected null levels for WAIT, got %v", got["recommendations"])
	}
}

func TestAnalyzeValidationError(t *testing.T) {
	svc := &stubAnalysis{err: &signal.ValidationError{Field: "contractAddress", Reason: "is required"}}
	w := do(newRouter(svc, ""), "/api/analyze", `{"contractAddress":""}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "invalid contractAddress: is required") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestAnalyzeMalformedBody(t *testing.T) {
	w := do(newRouter(&stubAnalysis{}, ""), "/api/analyze", `{`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAnalyzeErrorMapping(t *testing.T) {
	cases := map[error]int{
		&signal.ComputationDefect{Stage: "result", Detail: "confidence out of range"}: http.StatusInternalServerError,
		errors.New("unexpected"): http.StatusInternalServerError,
		context.Canceled:         statusClientClosedRequest,
		context.DeadlineExceeded: http.StatusGatewayTimeout,
	}
	for err, want := range cases {
		w := do(newRouter(&stubAnalysis{err: err}, ""), "/api/analyze", `{"contractAddress":"`+testAddress+`"}`, nil)
		if w.Code != want {
			t.Errorf("%v: expected %d, got %d", err, want, w.Code)
		}
	}
}

func TestPostAnalysisRequiresAPIKey(t *testing.T) {
	svc := &stubAnalysis{post: &service.PostResult{Success: true, Message: "hi"}}
	r := newRouter(svc, "secret")
	body := `{"contractAddress":"` + testAddress + `"}`

	if w := do(r, "/api/post-analysis", body, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if w := do(r, "/api/post-analysis", body, map[string]string{"X-API-Key": "wrong"}); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if svc.address != "" {
		t.Fatal("service should not run without a valid key")
	}

	w := do(r, "/api/post-analysis", body, map[string]string{"X-API-Key": "secret"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var got service.PostResult
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Success || got.Message != "hi" {
		t.Fatalf("unexpected body %+v", got)
	}
}
