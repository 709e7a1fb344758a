// Package lookup resolves lemmas against the hosted BCCWJ frequency and JLPT
// reference tables through a PostgREST-style REST API.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/ppiankov/jimaku/internal/cache"
	"github.com/ppiankov/jimaku/internal/logger"
	"github.com/ppiankov/jimaku/internal/model"
	"github.com/ppiankov/jimaku/internal/util"
	"github.com/ppiankov/jimaku/internal/worker"
)

const maxResponseBytes = 8 << 20

var (
	// ErrStatus is returned for non-2xx API responses
	ErrStatus = errors.New("unexpected status")

	// ErrNoBaseURL is returned when the API endpoint is not configured
	ErrNoBaseURL = errors.New("lookup base url is not configured")
)

// Result is the outcome of one Lookup call
type Result struct {
	Entries       map[string]model.ReferenceEntry // Words found in BCCWJ only
	Queried       int                             // Words sent to the API (cache misses)
	CacheHits     int
	FailedBatches int // Batches skipped after exhausting retries
}

// Client queries the reference tables in batches with retry and pacing
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	userAgent   string
	bccwjTable  string
	jlptTable   string
	batchSize   int
	maxAttempts int
	backoffStep time.Duration

	limiter  *worker.Limiter
	cache    cache.Cache
	cacheTTL time.Duration
	log      logger.Logger
	progress func(done, total int)
}

// Option customises a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLimiter paces batches through l
func WithLimiter(l *worker.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithCache stores per-word results (including misses) in store
func WithCache(store cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = store
		c.cacheTTL = ttl
	}
}

// WithLogger sets the logger for skipped batches
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithProgress registers a callback invoked before each batch and once at the end
func WithProgress(fn func(done, total int)) Option {
	return func(c *Client) { c.progress = fn }
}

// NewClient creates a lookup client from configuration
func NewClient(cfg model.LookupConfig, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNoBaseURL
	}

	c := &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		userAgent:   cfg.UserAgent,
		bccwjTable:  cfg.BCCWJTable,
		jlptTable:   cfg.JLPTTable,
		batchSize:   cfg.BatchSize,
		maxAttempts: cfg.MaxAttempts,
		backoffStep: cfg.BackoffStep,
		cache:       cache.NopCache{},
		log:         logger.Default(),
	}
	if c.batchSize <= 0 {
		c.batchSize = 35
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = 1
	}
	if c.bccwjTable == "" {
		c.bccwjTable = "bccwj"
	}
	if c.jlptTable == "" {
		c.jlptTable = "jlpt"
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		hc, err := util.NewHTTPClient(cfg.Timeout, cfg.Proxy)
		if err != nil {
			return nil, err
		}
		c.httpClient = hc
	}

	return c, nil
}

// Lookup resolves words (deduplicated, empty strings ignored). A batch that
// still fails after every retry is skipped with a warning; only context
// cancellation is returned as an error.
func (c *Client) Lookup(ctx context.Context, words []string) (*Result, error) {
	res := &Result{Entries: make(map[string]model.ReferenceEntry)}

	var pending []string
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true

		if e, ok := cache.GetJSON[model.ReferenceEntry](c.cache, c.cacheKey(w)); ok {
			res.CacheHits++
			if e.Found {
				res.Entries[w] = e
			}
			continue
		}
		pending = append(pending, w)
	}

	total := len(pending)
	res.Queried = total

	for start := 0; start < total; start += c.batchSize {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		batch := pending[start:min(start+c.batchSize, total)]

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx, c.baseURL); err != nil {
				return res, err
			}
		}
		c.report(start, total)

		found, complete, err := c.lookupBatch(ctx, batch)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return res, ctxErr
			}
			res.FailedBatches++
			c.log.Warn("lookup batch skipped", "table", c.bccwjTable, "words", len(batch), "err", err)
			continue
		}

		for _, w := range batch {
			e, ok := found[w]
			if ok {
				res.Entries[w] = e
			} else {
				e = model.ReferenceEntry{Word: w}
			}
			// a found word without its JLPT answer is not cached
			if ok && !complete {
				continue
			}
			if err := cache.SetJSON(c.cache, c.cacheKey(w), e, c.cacheTTL); err != nil {
				c.log.Debug("cache write failed", "word", w, "err", err)
			}
		}
	}

	c.report(total, total)
	return res, nil
}

// lookupBatch queries BCCWJ, then JLPT for the same batch. JLPT levels
// attach only to words BCCWJ knows. complete is false when the JLPT query
// failed and the entries lack levels.
func (c *Client) lookupBatch(ctx context.Context, batch []string) (map[string]model.ReferenceEntry, bool, error) {
	rows, err := fetchRows[bccwjRow](ctx, c, c.bccwjTable, "id,word,reading", batch)
	if err != nil {
		return nil, false, fmt.Errorf("query %s: %w", c.bccwjTable, err)
	}

	found := make(map[string]model.ReferenceEntry, len(rows))
	for _, row := range rows {
		if _, dup := found[row.Word]; dup {
			continue
		}
		found[row.Word] = model.ReferenceEntry{
			Word:    row.Word,
			Reading: row.Reading,
			Rank:    row.ID,
			Found:   true,
		}
	}

	levels, err := fetchRows[jlptRow](ctx, c, c.jlptTable, "word,tags", batch)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, err
		}
		c.log.Warn("jlpt batch skipped", "table", c.jlptTable, "words", len(batch), "err", err)
		return found, false, nil
	}

	for _, row := range levels {
		e, ok := found[row.Word]
		if !ok {
			continue
		}
		e.JLPT = model.JLPTLevel(row.Tags)
		found[row.Word] = e
	}

	return found, true, nil
}

// fetchRows runs one filtered select against table, retrying with linear
// backoff (attempt n waits n*backoffStep)
func fetchRows[T any](ctx context.Context, c *Client, table, columns string, words []string) ([]T, error) {
	query := url.Values{}
	query.Set("select", columns)
	query.Set("word", inFilter(words))
	endpoint := c.baseURL + "/rest/v1/" + url.PathEscape(table) + "?" + query.Encode()

	var rows []T
	backoff := retry.WithMaxRetries(uint64(c.maxAttempts-1), linearBackoff(c.backoffStep))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		body, err := c.get(ctx, endpoint)
		if err != nil {
			if isPermanent(err) {
				return err
			}
			return retry.RetryableError(err)
		}
		var decoded []T
		if err := json.Unmarshal(body, &decoded); err != nil {
			return retry.RetryableError(fmt.Errorf("decode rows: %w", err))
		}
		rows = decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func linearBackoff(step time.Duration) retry.Backoff {
	attempt := 0
	return retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return time.Duration(attempt) * step, false
	})
}

// statusError carries the HTTP status of a failed request
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("%s: %d", ErrStatus, e.code)
	}
	return fmt.Sprintf("%s: %d: %s", ErrStatus, e.code, e.body)
}

func (e *statusError) Unwrap() error { return ErrStatus }

// isPermanent reports client errors that a retry cannot fix
func isPermanent(err error) bool {
	var se *statusError
	if !errors.As(err, &se) {
		return false
	}
	return se.code >= 400 && se.code < 500 &&
		se.code != http.StatusRequestTimeout && se.code != http.StatusTooManyRequests
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, &statusError{code: resp.StatusCode, body: snippet}
	}

	return body, nil
}

func (c *Client) cacheKey(word string) string {
	return cache.Key(c.bccwjTable+"+"+c.jlptTable, word)
}

func (c *Client) report(done, total int) {
	if c.progress != nil {
		c.progress(done, total)
	}
}
