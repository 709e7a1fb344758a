package validate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/jimaku/internal/model"
)

func newTestValidator(t *testing.T, workers int) *Validator {
	t.Helper()
	v, err := NewValidator(5*time.Second, workers, "")
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	v.SetRetry(3, time.Millisecond)
	return v
}

func TestValidator_Probe_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "secret" {
			t.Errorf("expected apikey header, got %q", r.Header.Get("apikey"))
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[{"word":"猫"}]`))
	}))
	defer server.Close()

	v := newTestValidator(t, 2)
	results := v.Validate(context.Background(), []Endpoint{
		{Name: "lookup:bccwj", URL: server.URL, Headers: map[string]string{"apikey": "secret"}},
	})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if !r.Reachable || r.StatusCode != http.StatusOK || r.Error != "" {
		t.Errorf("unexpected result %+v", r)
	}
	if r.Attempts != 1 {
		t.Errorf("expected a single attempt, got %d", r.Attempts)
	}
}

func TestValidator_Probe_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	v := newTestValidator(t, 1)
	r := v.Validate(context.Background(), []Endpoint{{Name: "x", URL: server.URL}})[0]

	if r.Reachable {
		t.Error("401 must not count as reachable")
	}
	if r.Error != "Unauthorized" {
		t.Errorf("expected status text error, got %q", r.Error)
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 call, got %d", calls.Load())
	}
}

func TestValidator_Probe_TransientThenSuccess(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	v := newTestValidator(t, 1)
	r := v.Validate(context.Background(), []Endpoint{{Name: "x", URL: server.URL}})[0]

	if !r.Reachable {
		t.Errorf("expected success after retries, got %+v", r)
	}
	if r.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", r.Attempts)
	}
}

func TestValidator_Probe_RetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	v := newTestValidator(t, 1)
	r := v.Validate(context.Background(), []Endpoint{{Name: "x", URL: server.URL}})[0]

	if r.Reachable || r.StatusCode != http.StatusTooManyRequests {
		t.Errorf("unexpected result %+v", r)
	}
	if calls.Load() != 3 || r.Attempts != 3 {
		t.Errorf("expected 3 attempts, got calls=%d attempts=%d", calls.Load(), r.Attempts)
	}
}

func TestValidator_Validate_ConcurrencyAndOrder(t *testing.T) {
	var active, peak atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		active.Add(-1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var endpoints []Endpoint
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		endpoints = append(endpoints, Endpoint{Name: name, URL: server.URL + "/" + name})
	}

	v := newTestValidator(t, 2)
	results := v.Validate(context.Background(), endpoints)

	for i, r := range results {
		if r.Name != endpoints[i].Name {
			t.Errorf("result %d is %q, want %q", i, r.Name, endpoints[i].Name)
		}
		if !r.Reachable {
			t.Errorf("%s not reachable: %+v", r.Name, r)
		}
	}
	if peak.Load() > 2 {
		t.Errorf("expected at most 2 concurrent probes, saw %d", peak.Load())
	}
}

func TestValidator_Validate_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := newTestValidator(t, 1)
	results := v.Validate(ctx, []Endpoint{{Name: "x", URL: "http://127.0.0.1:1"}, {Name: "y", URL: "http://127.0.0.1:1"}})

	for _, r := range results {
		if r.Reachable || r.Error == "" {
			t.Errorf("expected failure on cancelled context, got %+v", r)
		}
	}
}

func TestValidator_Validate_Empty(t *testing.T) {
	v := newTestValidator(t, 1)
	if results := v.Validate(context.Background(), nil); len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestNewValidator_BadProxy(t *testing.T) {
	if _, err := NewValidator(time.Second, 1, "not a proxy"); err == nil {
		t.Error("expected error for malformed proxy")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   bool
	}{
		{"server error", Result{StatusCode: 502}, true},
		{"rate limited", Result{StatusCode: 429}, true},
		{"not found", Result{StatusCode: 404}, false},
		{"ok", Result{StatusCode: 200, Reachable: true}, false},
		{"connection refused", Result{Error: "request failed: dial tcp: connection refused"}, true},
		{"timeout", Result{Error: "request failed: context deadline exceeded (Client.Timeout exceeded)"}, true},
		{"bad url", Result{Error: "create request: parse error"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryable(tt.result); got != tt.want {
				t.Errorf("isRetryable(%+v) = %v, want %v", tt.result, got, tt.want)
			}
		})
	}
}

func TestEndpointsFromConfig(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Lookup.BaseURL = "https://ref.example.com/"
	cfg.Lookup.APIKey = "anon"
	cfg.LLM.Provider = "ollama"

	endpoints := EndpointsFromConfig(cfg)
	if len(endpoints) != 3 {
		t.Fatalf("expected 3 endpoints, got %d", len(endpoints))
	}
	if endpoints[0].URL != "https://ref.example.com/rest/v1/bccwj?limit=1&select=word" {
		t.Errorf("unexpected bccwj URL %q", endpoints[0].URL)
	}
	if endpoints[1].Name != "lookup:jlpt" {
		t.Errorf("unexpected second endpoint %q", endpoints[1].Name)
	}
	if endpoints[0].Headers["Authorization"] != "Bearer anon" {
		t.Errorf("expected bearer header, got %v", endpoints[0].Headers)
	}
	if endpoints[2].URL != "http://localhost:11434/api/tags" {
		t.Errorf("unexpected ollama URL %q", endpoints[2].URL)
	}

	cfg.Lookup.BaseURL = ""
	cfg.LLM.Provider = ""
	if got := EndpointsFromConfig(cfg); len(got) != 0 {
		t.Errorf("expected no endpoints for empty config, got %v", got)
	}
}

func TestEndpointsFromConfig_LLMProviders(t *testing.T) {
	tests := []struct {
		provider string
		baseURL  string
		wantURL  string
	}{
		{"openai", "", "https://api.openai.com/v1/models"},
		{"openai", "http://gateway.local/v1/", "http://gateway.local/v1/models"},
		{"claude", "", "https://api.anthropic.com/v1/models"},
	}

	for _, tt := range tests {
		t.Run(tt.provider+tt.baseURL, func(t *testing.T) {
			cfg := model.DefaultConfig()
			cfg.LLM.Provider = tt.provider
			cfg.LLM.BaseURL = tt.baseURL
			cfg.LLM.APIKey = "k"

			endpoints := EndpointsFromConfig(cfg)
			if len(endpoints) != 1 || endpoints[0].URL != tt.wantURL {
				t.Errorf("got %+v, want URL %s", endpoints, tt.wantURL)
			}
			if !strings.HasPrefix(endpoints[0].Name, "llm:") {
				t.Errorf("unexpected name %q", endpoints[0].Name)
			}
		})
	}
}
