package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ireish/healthcare-query-tool/cmd/hqt/nlp/pipeline"
)

type stubStrategy struct {
	result   pipeline.Result
	gotQuery string
}

func (s *stubStrategy) Process(ctx context.Context, query string) (pipeline.Result, error) {
	s.gotQuery = query
	return s.result, nil
}

func newTestRouter(strategy pipeline.Strategy) http.Handler {
	qr := NewQueryRouter(strategy, nil, []string{"http://localhost:3000"}, zerolog.Nop())
	return qr.SetupRoutes()
}

func postNLP(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/nlp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleNLPQuery_Success(t *testing.T) {
	strategy := &stubStrategy{result: pipeline.Result{
		ConditionQuery: "GET [base]/Condition?code=73211009&_count=1000",
		PatientQuery:   "GET [base]/Patient?_id=p1",
		Outcome:        pipeline.OutcomeOK,
	}}
	handler := newTestRouter(strategy)

	rec := postNLP(t, handler, `{"query": "  patients with diabetes  "}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	if strategy.gotQuery != "patients with diabetes" {
		t.Errorf("strategy received %q, want the trimmed query", strategy.gotQuery)
	}

	var resp QueryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || resp.Error != "" {
		t.Errorf("response = %+v, want success", resp)
	}
	if resp.ConditionQuery == "" || resp.PatientQuery == "" {
		t.Errorf("response = %+v, want both queries", resp)
	}
}

func TestHandleNLPQuery_EmptyQueryRejected(t *testing.T) {
	handler := newTestRouter(&stubStrategy{})

	for _, body := range []string{`{"query": ""}`, `{"query": "   "}`, `{}`} {
		rec := postNLP(t, handler, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestHandleNLPQuery_InvalidBody(t *testing.T) {
	handler := newTestRouter(&stubStrategy{})

	rec := postNLP(t, handler, `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleNLPQuery_UnsupportedConditionSentinel(t *testing.T) {
	strategy := &stubStrategy{result: pipeline.Result{Outcome: pipeline.OutcomeUnsupportedCondition}}
	handler := newTestRouter(strategy)

	rec := postNLP(t, handler, `{"query": "patients with unobtainium"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp QueryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Success {
		t.Error("sentinel outcome must not report success")
	}
	if resp.Error == "" {
		t.Error("sentinel outcome must carry an explanation")
	}
	if resp.PatientQuery != "" {
		t.Errorf("patient query = %q, want none for the sentinel", resp.PatientQuery)
	}
}

func TestHealthEndpoints(t *testing.T) {
	handler := newTestRouter(&stubStrategy{})

	for _, path := range []string{"/", "/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s: status = %d, want 200", path, rec.Code)
		}
	}
}

func TestRequestIDHeader(t *testing.T) {
	handler := newTestRouter(&stubStrategy{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected a generated X-Request-ID header")
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want the caller's value echoed", got)
	}
}
