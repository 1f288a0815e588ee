package sparql

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/agenthands/wikigraph/internal/config"
	"github.com/agenthands/wikigraph/internal/logging"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Querier runs a SELECT query and returns its decoded result set.
type Querier interface {
	Query(ctx context.Context, query string) (*Response, error)
}

// Client talks to a SPARQL endpoint over HTTP GET.
type Client struct {
	Endpoint  string
	UserAgent string
	HTTP      *http.Client
	Retry     config.RetryConfig
	Logger    *zap.Logger
}

func NewClient(cfg config.SPARQLConfig, logger *zap.Logger) *Client {
	return &Client{
		Endpoint:  cfg.Endpoint,
		UserAgent: cfg.UserAgent,
		HTTP:      &http.Client{Timeout: cfg.Timeout.Duration},
		Retry:     cfg.Retry,
		Logger:    logging.OrNop(logger),
	}
}

// Query sends query and decodes the JSON result. Transport errors, 429 and
// 5xx answers are retried with exponential backoff up to Retry.MaxAttempts
// attempts in total; everything else fails on the first attempt.
func (c *Client) Query(ctx context.Context, query string) (*Response, error) {
	attempts := c.Retry.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	b := backoff.NewExponentialBackOff()
	if c.Retry.InitialInterval.Duration > 0 {
		b.InitialInterval = c.Retry.InitialInterval.Duration
	}
	if c.Retry.MaxInterval.Duration > 0 {
		b.MaxInterval = c.Retry.MaxInterval.Duration
	}

	op := func() (*Response, error) {
		resp, err := c.do(ctx, query)
		if err != nil && !Retryable(err) {
			return nil, backoff.Permanent(err)
		}
		return resp, err
	}

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(attempts)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			c.Logger.Warn("sparql query failed, retrying",
				zap.Error(err),
				zap.Duration("backoff", wait),
			)
		}),
	)
}

func (c *Client) do(ctx context.Context, query string) (*Response, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/sparql-results+json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	start := time.Now()
	res, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, &StatusError{StatusCode: res.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out Response
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, &ParseError{Reason: "failed to decode result document", Err: err}
	}

	c.Logger.Debug("sparql query done",
		zap.Int("rows", len(out.Results.Bindings)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &out, nil
}
