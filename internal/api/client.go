package api

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

	"github.com/rshade/enviroimpact/internal/logging"
)

// Service endpoints.
const (
	PathRegions       = "/regions"
	PathFacilityTypes = "/facility-types"
	PathCalculate     = "/calculate"
)

// maxBodyBytes caps how much of any response is read.
const maxBodyBytes = 1 << 20

// Client talks to the calculation service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// NewClient returns a client for the service rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// Regions fetches the valid region names.
func (c *Client) Regions(ctx context.Context) ([]string, error) {
	var resp regionsResponse
	if err := c.getJSON(ctx, PathRegions, &resp); err != nil {
		return nil, &ReferenceDataLoadError{Endpoint: PathRegions, Err: err}
	}
	if resp.Regions == nil {
		return nil, &ReferenceDataLoadError{Endpoint: PathRegions, Err: errors.New(`response has no "regions" field`)}
	}
	return *resp.Regions, nil
}

// FacilityTypes fetches the valid facility type identifiers.
func (c *Client) FacilityTypes(ctx context.Context) ([]string, error) {
	var resp facilityTypesResponse
	if err := c.getJSON(ctx, PathFacilityTypes, &resp); err != nil {
		return nil, &ReferenceDataLoadError{Endpoint: PathFacilityTypes, Err: err}
	}
	if resp.FacilityTypes == nil {
		return nil, &ReferenceDataLoadError{
			Endpoint: PathFacilityTypes,
			Err:      errors.New(`response has no "facility_types" field`),
		}
	}
	return *resp.FacilityTypes, nil
}

// Calculate submits req. Non-success responses come back as one of
// *ValidationError, *DetailError, *UnclassifiedError or *ConnectionError.
// A success body missing required fields yields ErrMalformedResult.
func (c *Client) Calculate(ctx context.Context, req CalculationRequest) (*CalculationResult, error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding calculation request: %w", err)
	}

	log.Debug().Ctx(ctx).
		Str("operation", "calculate").
		Str("region", req.Region).
		Str("facility_type", req.FacilityType).
		Str("size", req.Size).
		Msg("submitting calculation request")

	status, body, err := c.do(ctx, http.MethodPost, PathCalculate, payload)
	if err != nil {
		log.Warn().Ctx(ctx).Err(err).Msg("calculation request failed in transport")
		return nil, err
	}

	if status < 200 || status >= 300 {
		classified := ClassifyErrorBody("calculate", status, body)
		log.Info().Ctx(ctx).
			Int("status", status).
			Str("kind", KindOf(classified).String()).
			Msg("calculation rejected")
		return nil, classified
	}

	result, err := decodeResult(body)
	if err != nil {
		var connErr *ConnectionError
		if !errors.As(err, &connErr) {
			log.Error().Ctx(ctx).Err(err).Msg("calculation result violates contract")
		}
		return nil, err
	}

	log.Debug().Ctx(ctx).
		Str("operation", "calculate").
		Dur("duration_ms", time.Since(start)).
		Float64("estimated_kwh", result.EstimatedKwh).
		Msg("calculation complete")

	return result, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	status, body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return ClassifyErrorBody(strings.TrimPrefix(path, "/"), status, body)
	}
	if err = json.Unmarshal(body, out); err != nil {
		return &ConnectionError{Op: strings.TrimPrefix(path, "/"), Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// do performs one request and reads the whole body. Any failure before a
// status code and body are in hand is a *ConnectionError.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) (int, []byte, error) {
	op := strings.TrimPrefix(path, "/")

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, &ConnectionError{Op: op, Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if traceID := logging.TraceIDFromContext(ctx); traceID != "" {
		httpReq.Header.Set("X-Trace-Id", traceID)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, &ConnectionError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, &ConnectionError{Op: op, Err: fmt.Errorf("reading response: %w", err)}
	}
	return resp.StatusCode, body, nil
}
