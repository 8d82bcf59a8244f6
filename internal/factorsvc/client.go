// Package factorsvc is a client for the external Emission Factor Service,
// a JSON-over-HTTP API that converts activity data into tonnes CO2e.
package factorsvc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the production service root.
	DefaultBaseURL = "https://api.emissions.ibm.com"

	// DefaultTimeout bounds each individual service call.
	DefaultTimeout = 10 * time.Second

	// DefaultRateLimit is the default outbound request rate (requests/second).
	DefaultRateLimit = 10.0
)

// Option configures the Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-call timeout. Zero or negative keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit caps outbound requests per second. Zero or negative disables limiting.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger.With().Str("component", "factorsvc").Logger()
	}
}

// WithMetrics records request outcomes.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// Client talks to the Emission Factor Service. It is safe for concurrent use
// once Authenticate has returned.
type Client struct {
	apiKey   string
	clientID string
	baseURL  string
	timeout  time.Duration
	http     *http.Client
	limiter  *rate.Limiter
	logger   zerolog.Logger
	metrics  *Metrics

	mu    sync.RWMutex
	token string
}

// NewClient creates a client for the given credentials.
func NewClient(apiKey, clientID string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		clientID: clientID,
		baseURL:  DefaultBaseURL,
		timeout:  DefaultTimeout,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticate exchanges the API key and client ID for a bearer token.
// Any failure is wrapped in ErrAuthFailed.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.apiKey == "" || c.clientID == "" {
		return fmt.Errorf("%w: api key and client id are required", ErrAuthFailed)
	}

	body, err := json.Marshal(authRequest{APIKey: c.apiKey, ClientID: c.clientID})
	if err != nil {
		return fmt.Errorf("%w: encode request: %w", ErrAuthFailed, err)
	}

	respBody, status, err := c.post(ctx, c.baseURL+"/v1/auth/token", body, "")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("%w: status %d: %s", ErrAuthFailed, status, truncateBody(respBody))
	}

	var auth authResponse
	if err := json.Unmarshal(respBody, &auth); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrAuthFailed, err)
	}
	if auth.AccessToken == "" {
		return fmt.Errorf("%w: response has no access_token", ErrAuthFailed)
	}

	c.mu.Lock()
	c.token = auth.AccessToken
	c.mu.Unlock()

	c.logger.Debug().Str("base_url", c.baseURL).Msg("authenticated with emission factor service")
	return nil
}

// Authenticated reports whether a token is held.
func (c *Client) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// Calculate posts req to /v1/emissions/{endpoint} and returns the normalized result.
// Every failure matches errors.Is(err, ErrServiceUnavailable).
func (c *Client) Calculate(ctx context.Context, endpoint string, req Request) (Result, error) {
	result, err := c.calculate(ctx, endpoint, req)
	c.metrics.observe(endpoint, err)
	return result, err
}

func (c *Client) calculate(ctx context.Context, endpoint string, req Request) (Result, error) {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token == "" {
		return Result{}, ErrNotAuthenticated
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Result{}, fmt.Errorf("%w: %s: rate limit wait: %w", ErrServiceUnavailable, endpoint, err)
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: encode request: %w", ErrServiceUnavailable, endpoint, err)
	}

	start := time.Now()
	respBody, status, err := c.post(ctx, c.baseURL+"/v1/emissions/"+endpoint, body, token)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrServiceUnavailable, endpoint, err)
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("status", status).
		Dur("duration", time.Since(start)).
		Msg("emission factor service call")

	if status < 200 || status > 299 {
		return Result{}, &StatusError{Endpoint: endpoint, StatusCode: status, Body: truncateBody(respBody)}
	}

	return decodeResult(endpoint, respBody)
}

func (c *Client) post(ctx context.Context, url string, body []byte, token string) ([]byte, int, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}
	return respBody, resp.StatusCode, nil
}

func decodeResult(endpoint string, body []byte) (Result, error) {
	var wire wireResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrMalformedResponse, endpoint, err)
	}
	if wire.Emissions == nil || wire.Emissions.CO2e == nil {
		return Result{}, fmt.Errorf("%w: %s: missing emissions.CO2e", ErrMalformedResponse, endpoint)
	}

	scale, err := tonnesScale(wire.Emissions.UnitOfMeasurement)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrMalformedResponse, endpoint, err)
	}

	co2e := *wire.Emissions.CO2e * scale
	if co2e < 0 {
		return Result{}, fmt.Errorf("%w: %s: negative CO2e %g", ErrMalformedResponse, endpoint, co2e)
	}

	result := Result{
		CO2e:              co2e,
		Unit:              wire.Emissions.UnitOfMeasurement,
		EmissionFactor:    wire.EmissionFactor,
		GridMix:           wire.GridMix,
		ResidualMixSource: wire.ResidualMixSource,
	}

	e := wire.Emissions
	if e.FossilFuelCO2 != nil || e.BiogenicCO2 != nil || e.CH4 != nil || e.N2O != nil {
		result.Gases = &Gases{
			FossilCO2:   deref(e.FossilFuelCO2) * scale,
			BiogenicCO2: deref(e.BiogenicCO2) * scale,
			CH4:         deref(e.CH4) * scale,
			N2O:         deref(e.N2O) * scale,
		}
	}
	return result, nil
}

// tonnesScale converts a reported unit into a multiplier to metric tonnes.
// An empty unit is taken as tonnes.
func tonnesScale(unit string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "", "t", "tonne", "tonnes", "metric ton", "metric tons", "mt", "tco2e":
		return 1, nil
	case "kg", "kgs", "kilogram", "kilograms", "kgco2e":
		return 1e-3, nil
	case "g", "gram", "grams", "gco2e":
		return 1e-6, nil
	default:
		return 0, fmt.Errorf("unknown unit of measurement %q", unit)
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
