// Package analysis fetches dependency graphs from the contract analysis API.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"contractlens/internal/domain"
	"contractlens/internal/metrics"
)

var (
	// ErrNotFound is returned when the API has no analysis for an address
	ErrNotFound = errors.New("analysis not found")
	// ErrUpstream is returned for failed API responses
	ErrUpstream = errors.New("analysis api error")
	// ErrInvalidRequest is returned when a request fails validation
	ErrInvalidRequest = errors.New("invalid request")
)

const maxResponseBytes = 32 << 20

var validate = validator.New()

// Request selects the contract and block range to analyse
type Request struct {
	Address   string `json:"address" validate:"required,startswith=0x,hexadecimal"`
	FromBlock *int64 `json:"from_block,omitempty" validate:"omitempty,gte=0"`
	ToBlock   *int64 `json:"to_block,omitempty" validate:"omitempty,gte=0"`
}

// Validate checks the address format and the block range
func (r *Request) Validate() error {
	r.Address = strings.TrimSpace(r.Address)
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, formatValidationError(err))
	}
	if r.FromBlock != nil && r.ToBlock != nil && *r.FromBlock > *r.ToBlock {
		return fmt.Errorf("%w: from_block must not exceed to_block", ErrInvalidRequest)
	}
	return nil
}

// Config configures the API client
type Config struct {
	BaseURL string        `yaml:"base_url" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

// Client calls the analysis API. It does not retry.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Registry
}

// NewClient creates a client. reg may be nil.
func NewClient(cfg Config, reg *metrics.Registry) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		metrics:    reg,
	}
}

// DependenciesURL builds the request URL for an analysis request
func (c *Client) DependenciesURL(req Request) string {
	u := fmt.Sprintf("%s/v1/analysis/%s/dependencies", c.baseURL, url.PathEscape(req.Address))

	query := url.Values{}
	if req.FromBlock != nil {
		query.Set("from_block", strconv.FormatInt(*req.FromBlock, 10))
	}
	if req.ToBlock != nil {
		query.Set("to_block", strconv.FormatInt(*req.ToBlock, 10))
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Dependencies fetches the dependency payload for a contract
func (c *Client) Dependencies(ctx context.Context, req Request) (*domain.GraphPayload, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	payload, err := c.fetch(ctx, req)
	c.record(err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) fetch(ctx context.Context, req Request) (*domain.GraphPayload, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DependenciesURL(req), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch dependencies: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", req.Address, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, summarize(body))
	}

	payload, err := domain.DecodePayload(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrUpstream, err)
	}

	if payload.Address == "" {
		payload.Address = req.Address
	}
	if payload.FromBlock == nil {
		payload.FromBlock = req.FromBlock
	}
	if payload.ToBlock == nil {
		payload.ToBlock = req.ToBlock
	}
	return payload, nil
}

func (c *Client) record(err error, elapsed time.Duration) {
	if c.metrics == nil {
		return
	}
	status := "ok"
	switch {
	case errors.Is(err, ErrNotFound):
		status = "not_found"
	case errors.Is(err, ErrUpstream):
		status = "upstream_error"
	case err != nil:
		status = "error"
	}
	c.metrics.RecordFetch(status, elapsed)
}

// summarize trims an error body for inclusion in an error message
func summarize(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	for _, e := range validationErrs {
		field := e.Field()
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "startswith":
			return fmt.Errorf("%s: must start with %s", field, e.Param())
		case "hexadecimal":
			return fmt.Errorf("%s: must be a hex address", field)
		case "gte":
			return fmt.Errorf("%s: must be at least %s", field, e.Param())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}
