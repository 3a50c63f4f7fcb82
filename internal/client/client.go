// Package client talks to a running SmartFlow API server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/smartflow-ai/smartflow/internal/api"
	"github.com/smartflow-ai/smartflow/internal/model"
	"github.com/smartflow-ai/smartflow/internal/roi"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

const (
	requestTimeout  = 10 * time.Second
	maxBodySize     = 1 << 20 // 1 MB
	defaultMaxTries = 3
	retryDelay      = 200 * time.Millisecond
)

// ErrUnavailable indicates the server could not be reached.
var ErrUnavailable = errors.New("smartflow: server unavailable")

// APIError is a non-2xx answer carrying the server's error body.
type APIError struct {
	Status int
	Body   api.ErrorBody
}

func (e *APIError) Error() string {
	if e.Body.Field != "" {
		return fmt.Sprintf("smartflow: %s (%s): %s", e.Body.Code, e.Body.Field, e.Body.Message)
	}
	return fmt.Sprintf("smartflow: %s: %s", e.Body.Code, e.Body.Message)
}

// Is lets errors.Is match the engine's validation sentinels by code.
func (e *APIError) Is(target error) bool {
	switch roi.ErrorCode(e.Body.Code) {
	case roi.CodeCategoryNotFound:
		return target == roi.ErrCategoryNotFound
	case roi.CodeInvalidRevenue:
		return target == roi.ErrInvalidRevenue
	case roi.CodePlanNotFound:
		return target == roi.ErrPlanNotFound
	case roi.CodeInvalidInput:
		return target == roi.ErrInvalidInput
	case roi.CodeOutOfRange:
		return target == roi.ErrOutOfRange
	}
	return false
}

// Client calls the SmartFlow HTTP API.
type Client struct {
	baseURL  string
	http     *http.Client
	maxTries uint
	log      *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithMaxTries sets how many attempts a request gets when the server is
// unreachable or answers 503. Values below 1 mean one attempt.
func WithMaxTries(n int) Option {
	return func(c *Client) {
		if n < 1 {
			n = 1
		}
		c.maxTries = uint(n)
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger logs retries to log.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a client for baseURL, e.g. "http://127.0.0.1:8797".
// A bare host:port gets an http:// scheme.
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	c := &Client{
		baseURL:  baseURL,
		http:     &http.Client{},
		maxTries: defaultMaxTries,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health reports whether the server answers /healthz.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	return err
}

// Catalog fetches the server's resolved catalog.
func (c *Client) Catalog(ctx context.Context) (api.CatalogResponse, error) {
	var out api.CatalogResponse
	body, err := c.do(ctx, http.MethodGet, "/v1/catalog", nil)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("smartflow: parsing catalog: %w", err)
	}
	return out, nil
}

// ROI projects one plan on the server.
func (c *Client) ROI(ctx context.Context, p model.BusinessProfile, plan string) (model.Projection, error) {
	var out model.Projection
	body, err := c.do(ctx, http.MethodPost, "/v1/roi", api.ROIRequest{Profile: p, Plan: plan})
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("smartflow: parsing projection: %w", err)
	}
	return out, nil
}

// Compare projects every plan on the server.
func (c *Client) Compare(ctx context.Context, p model.BusinessProfile) (api.CompareResponse, error) {
	var out api.CompareResponse
	body, err := c.do(ctx, http.MethodPost, "/v1/roi/compare", api.ROIRequest{Profile: p})
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("smartflow: parsing comparison: %w", err)
	}
	return out, nil
}

// do sends a request with an optional JSON body and returns the response body.
// All calls made here are read-only, so transport failures and 503s are retried.
func (c *Client) do(ctx context.Context, method, path string, in any) ([]byte, error) {
	var raw []byte
	if in != nil {
		var err error
		if raw, err = json.Marshal(in); err != nil {
			return nil, fmt.Errorf("smartflow: encoding request: %w", err)
		}
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = retryDelay
	policy.MaxInterval = retryDelay * 10

	notify := func(err error, wait time.Duration) {
		c.log.Debug("retrying request", zap.String("path", path), zap.Error(err), zap.Duration("backoff", wait))
	}

	operation := func() ([]byte, error) {
		body, err := c.once(ctx, method, path, raw)
		if err == nil || retryable(err) {
			return body, err
		}
		return nil, backoff.Permanent(err)
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithNotify(notify),
	)
}

func retryable(err error) bool {
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusServiceUnavailable
}

// once performs a single attempt.
func (c *Client) once(ctx context.Context, method, path string, raw []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var reqBody io.Reader
	if raw != nil {
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("smartflow: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if raw != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("smartflow: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(body, &apiErr.Body) != nil || apiErr.Body.Code == "" {
			apiErr.Body = api.ErrorBody{
				Code:    "HTTP_" + fmt.Sprint(resp.StatusCode),
				Message: strings.TrimSpace(string(body)),
			}
		}
		return nil, apiErr
	}
	return body, nil
}
