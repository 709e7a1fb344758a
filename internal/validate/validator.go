package validate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/ppiankov/jimaku/internal/model"
	"github.com/ppiankov/jimaku/internal/util"
)

const (
	defaultMaxAttempts = 3
	defaultBackoff     = time.Second
)

// Endpoint is a remote service the configuration depends on
type Endpoint struct {
	Name    string
	URL     string
	Headers map[string]string
}

// Result is the outcome of probing one endpoint
type Result struct {
	Name       string        `json:"name"`
	URL        string        `json:"url"`
	StatusCode int           `json:"status_code,omitempty"`
	Reachable  bool          `json:"reachable"` // 2xx response
	Latency    time.Duration `json:"latency"`
	Attempts   int           `json:"attempts"`
	Error      string        `json:"error,omitempty"`
}

// Validator probes endpoints concurrently
type Validator struct {
	httpClient  *http.Client
	maxWorkers  int
	maxAttempts int
	backoff     time.Duration
	userAgent   string
}

// NewValidator creates a new validator
func NewValidator(timeout time.Duration, maxWorkers int, proxyURL string) (*Validator, error) {
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	client, err := util.NewHTTPClient(timeout, proxyURL)
	if err != nil {
		return nil, err
	}
	return &Validator{
		httpClient:  client,
		maxWorkers:  maxWorkers,
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
		userAgent:   "jimaku (+https://github.com/ppiankov/jimaku)",
	}, nil
}

// SetRetry changes the attempt count and the first backoff delay
func (v *Validator) SetRetry(maxAttempts int, backoff time.Duration) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	v.maxAttempts = maxAttempts
	v.backoff = backoff
}

// Validate probes every endpoint, at most maxWorkers at a time. Results
// keep the input order.
func (v *Validator) Validate(ctx context.Context, endpoints []Endpoint) []Result {
	results := make([]Result, len(endpoints))
	var wg sync.WaitGroup

	// Create semaphore to limit concurrent requests
	semaphore := make(chan struct{}, v.maxWorkers)

	for i, ep := range endpoints {
		wg.Add(1)
		go func(idx int, e Endpoint) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = Result{Name: e.Name, URL: e.URL, Error: "context cancelled"}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = v.probeWithRetry(ctx, e)
		}(i, ep)
	}

	wg.Wait()
	return results
}

// probeWithRetry retries transient failures with exponential backoff
func (v *Validator) probeWithRetry(ctx context.Context, e Endpoint) Result {
	var result Result
	attempts := 0

	backoff := retry.WithMaxRetries(uint64(v.maxAttempts-1), retry.NewExponential(max(v.backoff, time.Millisecond)))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		result = v.probe(ctx, e)
		if isRetryable(result) {
			return retry.RetryableError(fmt.Errorf("%s: %s", e.Name, result.Error))
		}
		return nil
	})

	if attempts == 0 {
		result = Result{Name: e.Name, URL: e.URL, Error: err.Error()}
	}
	result.Attempts = attempts
	return result
}

// probe issues one GET to the endpoint
func (v *Validator) probe(ctx context.Context, e Endpoint) Result {
	result := Result{Name: e.Name, URL: e.URL}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.URL, nil)
	if err != nil {
		result.Error = fmt.Sprintf("create request: %v", err)
		return result
	}
	req.Header.Set("User-Agent", v.userAgent)
	for k, val := range e.Headers {
		req.Header.Set(k, val)
	}

	start := time.Now()
	resp, err := v.httpClient.Do(req)
	result.Latency = time.Since(start)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	result.StatusCode = resp.StatusCode
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		result.Reachable = true
	} else {
		result.Error = http.StatusText(resp.StatusCode)
	}
	return result
}

// isRetryable returns true for results that indicate transient failures
func isRetryable(result Result) bool {
	if result.StatusCode >= 500 && result.StatusCode < 600 {
		return true
	}
	if result.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if result.StatusCode == 0 && result.Error != "" {
		return isRetryableNetworkError(result.Error)
	}
	return false
}

// isRetryableNetworkError checks error strings for transient network failures
func isRetryableNetworkError(errMsg string) bool {
	s := strings.ToLower(errMsg)
	return strings.Contains(s, "timeout") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset")
}

// EndpointsFromConfig lists the endpoints cfg depends on: both reference
// tables, and the LLM provider when one is configured
func EndpointsFromConfig(cfg *model.Config) []Endpoint {
	var endpoints []Endpoint

	if base := strings.TrimRight(cfg.Lookup.BaseURL, "/"); base != "" {
		headers := map[string]string{"Accept": "application/json"}
		if cfg.Lookup.APIKey != "" {
			headers["apikey"] = cfg.Lookup.APIKey
			headers["Authorization"] = "Bearer " + cfg.Lookup.APIKey
		}
		for _, table := range []string{cfg.Lookup.BCCWJTable, cfg.Lookup.JLPTTable} {
			if table == "" {
				continue
			}
			q := url.Values{}
			q.Set("select", "word")
			q.Set("limit", "1")
			endpoints = append(endpoints, Endpoint{
				Name:    "lookup:" + table,
				URL:     fmt.Sprintf("%s/rest/v1/%s?%s", base, url.PathEscape(table), q.Encode()),
				Headers: headers,
			})
		}
	}

	switch strings.ToLower(cfg.LLM.Provider) {
	case "openai":
		base := strings.TrimRight(cfg.LLM.BaseURL, "/")
		if base == "" {
			base = "https://api.openai.com/v1"
		}
		endpoints = append(endpoints, Endpoint{
			Name:    "llm:openai",
			URL:     base + "/models",
			Headers: map[string]string{"Authorization": "Bearer " + cfg.LLM.APIKey},
		})
	case "anthropic", "claude":
		base := strings.TrimRight(cfg.LLM.BaseURL, "/")
		if base == "" {
			base = "https://api.anthropic.com"
		}
		endpoints = append(endpoints, Endpoint{
			Name: "llm:anthropic",
			URL:  base + "/v1/models",
			Headers: map[string]string{
				"x-api-key":         cfg.LLM.APIKey,
				"anthropic-version": "2023-06-01",
			},
		})
	case "ollama":
		base := strings.TrimRight(cfg.LLM.BaseURL, "/")
		if base == "" {
			base = "http://localhost:11434"
		}
		endpoints = append(endpoints, Endpoint{Name: "llm:ollama", URL: base + "/api/tags"})
	}

	return endpoints
}
