package ecowitt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
)

const defaultBaseURL = "https://api.ecowitt.net/api/v3/device/real_time"

// stripRequestURL drops the URL from *url.Error values. Both url parsing
// and transport failures embed the full request URL in their message, query
// credentials included; only the operation and the underlying cause may
// reach a log line.
func stripRequestURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s request failed: %w", uerr.Op, uerr.Err)
	}
	return err
}

var errNoHTTPClient = errors.New("http client not configured")

// Credentials identifies one station to the vendor cloud. All three values
// are secrets as far as logging is concerned; the client never exposes the
// URL it builds from them.
type Credentials struct {
	ApplicationKey string
	APIKey         string
	MAC            string
}

// Client fetches real-time data for a single device. It performs exactly
// one attempt per call; the interval cadence is the retry policy. A
// circuit breaker makes repeated upstream failures fail fast instead of
// burning the whole request timeout every interval.
type Client struct {
	baseURL string
	creds   Credentials
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewClient creates a Client talking to the vendor endpoint. baseURL is
// overridable for tests; pass "" for the production endpoint.
func NewClient(httpClient *http.Client, creds Credentials, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ecowitt-realtime",
		MaxRequests: 1,
		Interval:    5 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &Client{
		baseURL: baseURL,
		creds:   creds,
		client:  httpClient,
		circuit: cb,
	}
}

// RealTime performs one GET against the real-time endpoint and returns the
// decoded envelope. Failures are typed: *NetworkError for transport,
// status, or breaker failures; *DecodeError for an unparseable body.
func (c *Client) RealTime(ctx context.Context) (*Envelope, error) {
	if c.client == nil {
		return nil, &NetworkError{Err: errNoHTTPClient}
	}

	values := url.Values{}
	values.Set("application_key", c.creds.ApplicationKey)
	values.Set("api_key", c.creds.APIKey)
	values.Set("mac", c.creds.MAC)
	values.Set("call_back", "all")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return nil, &NetworkError{Err: stripRequestURL(err)}
	}

	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, execErr := c.client.Do(req)
		if execErr != nil {
			return nil, stripRequestURL(execErr)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &NetworkError{Err: fmt.Errorf("circuit breaker open: %w", err)}
		}
		return nil, &NetworkError{Err: err}
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, &NetworkError{Err: errors.New("unexpected result type from circuit breaker")}
	}
	defer resp.Body.Close()

	var envelope Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &envelope, nil
}
