package api

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/peggalex/rchkChampionships/internal/constants"
	"github.com/peggalex/rchkChampionships/internal/metrics"
)

var (
	ErrNotFound       = errors.New("resource not found")
	ErrTooManyRetries = errors.New("too many retries")
)

// Transport is the part of *fasthttp.Client the fetch loop needs.
type Transport interface {
	Do(req *fasthttp.Request, resp *fasthttp.Response) error
	DoDeadline(req *fasthttp.Request, resp *fasthttp.Response, deadline time.Time) error
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeRateLimited
	outcomeNotFound
	outcomeTransient
)

func (o outcome) String() string {
	switch o {
	case outcomeSuccess:
		return "success"
	case outcomeRateLimited:
		return "rate_limited"
	case outcomeNotFound:
		return "not_found"
	default:
		return "transient"
	}
}

// classify maps one response onto the retry policy and the wait before the
// next attempt. A 429 without a usable Retry-After waits the short delay.
func classify(status int, retryAfter string, shortDelay time.Duration) (outcome, time.Duration) {
	switch status {
	case fasthttp.StatusOK:
		return outcomeSuccess, 0
	case fasthttp.StatusNotFound:
		return outcomeNotFound, 0
	case fasthttp.StatusTooManyRequests:
		secs, err := strconv.Atoi(strings.TrimSpace(retryAfter))
		if err != nil || secs < 0 {
			return outcomeRateLimited, shortDelay
		}
		return outcomeRateLimited, time.Duration(secs) * time.Second
	default:
		return outcomeTransient, shortDelay
	}
}

type RateLimitInfo struct {
	AppLimit    string    `json:"appLimit"`
	AppCount    string    `json:"appCount"`
	MethodLimit string    `json:"methodLimit"`
	MethodCount string    `json:"methodCount"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Client issues GET requests and decodes JSON bodies, retrying rate limits
// and transient failures a bounded number of times.
type Client struct {
	apiKey     string
	transport  Transport
	sleep      Sleeper
	maxRetries int
	shortDelay time.Duration
	metrics    *metrics.Metrics
	logger     zerolog.Logger

	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

type Option func(*Client)

func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

func WithSleeper(s Sleeper) Option {
	return func(c *Client) { c.sleep = s }
}

func WithRetryPolicy(maxRetries int, shortDelay time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.shortDelay = shortDelay
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		apiKey: apiKey,
		transport: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		sleep:      sleepContext,
		maxRetries: constants.MaxFetchRetries,
		shortDelay: constants.RetryDelay,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *Client) updateRateLimit(resp *fasthttp.Response) {
	appLimit := string(resp.Header.Peek("X-App-Rate-Limit"))
	if appLimit == "" {
		return
	}

	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()
	c.rateLimit.AppLimit = appLimit
	c.rateLimit.AppCount = string(resp.Header.Peek("X-App-Rate-Limit-Count"))
	c.rateLimit.MethodLimit = string(resp.Header.Peek("X-Method-Rate-Limit"))
	c.rateLimit.MethodCount = string(resp.Header.Peek("X-Method-Rate-Limit-Count"))
	c.rateLimit.UpdatedAt = time.Now()
}

// GetJSON fetches url into target. It makes at most maxRetries+1 requests.
func (c *Client) GetJSON(ctx context.Context, url string, target any) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	if c.apiKey != "" {
		req.Header.Set(constants.RiotTokenHeader, c.apiKey)
	}

	logger := c.logger.With().Str("url", url).Logger()

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		resp.Reset()
		kind, wait, status := outcomeTransient, c.shortDelay, 0
		if err := c.do(ctx, req, resp); err != nil {
			logger.Warn().Err(err).Int("attempt", attempt).Msg("request failed")
		} else {
			status = resp.StatusCode()
			c.updateRateLimit(resp)
			kind, wait = classify(status, string(resp.Header.Peek(fasthttp.HeaderRetryAfter)), c.shortDelay)
		}

		switch kind {
		case outcomeSuccess:
			if err := sonic.Unmarshal(resp.Body(), target); err != nil {
				return fmt.Errorf("failed to decode %s: %w", url, err)
			}
			return nil
		case outcomeNotFound:
			c.metrics.FetchFailure(kind.String())
			return fmt.Errorf("%w: %s", ErrNotFound, url)
		}

		if attempt == c.maxRetries {
			break
		}

		logger.Debug().
			Int("status", status).
			Str("reason", kind.String()).
			Int("attempt", attempt).
			Dur("wait", wait).
			Msg("retrying request")
		c.metrics.FetchRetry(kind.String())

		if err := c.sleep(ctx, wait); err != nil {
			return err
		}
	}

	c.metrics.FetchFailure("too_many_retries")
	logger.Error().Int("attempts", c.maxRetries+1).Msg("giving up on request")
	return fmt.Errorf("%w: %s after %d attempts", ErrTooManyRetries, url, c.maxRetries+1)
}

func (c *Client) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	if deadline, ok := ctx.Deadline(); ok {
		return c.transport.DoDeadline(req, resp, deadline)
	}
	return c.transport.Do(req, resp)
}
