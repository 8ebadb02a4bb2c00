package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/studyglobal/fxcore/currency"
)

var errMissingRate = errors.New("rate missing from provider response")

// Provider is a single external exchange rate provider
type Provider interface {
	// Name returns the human-readable name of the provider
	Name() string

	// FetchRate fetches the live rate for the ordered currency pair
	FetchRate(ctx context.Context, from, to currency.Code) (float64, error)

	// Probe runs a cheap connectivity check against the provider
	Probe(ctx context.Context) error
}

// HTTPProvider fetches rates from a JSON HTTP rate API
// shaped as GET <base-url>/rates?base=<CODE>
type HTTPProvider struct {
	client *http.Client
	url    string
	name   string
}

// ratesResponse is the provider's rate payload
type ratesResponse struct {
	Rates     map[string]float64 `json:"rates"`
	Base      string             `json:"base"`
	Timestamp int64              `json:"timestamp"`
}

// NewHTTPProvider creates a new JSON HTTP rate provider
func NewHTTPProvider(name, url string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		client: &http.Client{
			Timeout: timeout,
		},
		url:  url,
		name: name,
	}
}

func (p *HTTPProvider) Name() string {
	return p.name
}

func (p *HTTPProvider) FetchRate(
	ctx context.Context,
	from, to currency.Code,
) (float64, error) {
	// Prepare the request
	endpoint := fmt.Sprintf(
		"%s/rates?base=%s",
		p.url,
		url.QueryEscape(from.String()),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("unable to create new GET request: %w", err)
	}

	// Execute the request
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("unable to execute GET request: %w", err)
	}
	defer resp.Body.Close()

	// Any non-2xx response is a retryable failure
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("invalid status code received: %d", resp.StatusCode)
	}

	var payload ratesResponse

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("unable to parse provider response: %w", err)
	}

	rate, ok := payload.Rates[to.String()]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("%w: %s->%s", errMissingRate, from, to)
	}

	return rate, nil
}

// Probe issues a minimal HEAD request to check the link is alive.
// Any response, regardless of status, counts as reachable
func (p *HTTPProvider) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, http.NoBody)
	if err != nil {
		return fmt.Errorf("unable to create new HEAD request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("unable to reach provider: %w", err)
	}

	_ = resp.Body.Close()

	return nil
}
