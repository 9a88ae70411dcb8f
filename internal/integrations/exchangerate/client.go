// Package exchangerate fetches the KRW to USD conversion rate.
package exchangerate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	tracerName = "github.com/stagedoor/proposals/internal/integrations/exchangerate"

	// DefaultURL is the public rate endpoint.
	DefaultURL = "https://api.exchangerate.host/latest"
)

// ErrRateUnavailable is returned when the response carries no usable rate.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// Client queries a latest-rates endpoint.
type Client struct {
	url    string
	client *http.Client
}

// NewClient creates a rate client. An empty endpoint uses DefaultURL and a nil
// client uses http.DefaultClient.
func NewClient(endpoint string, client *http.Client) *Client {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = DefaultURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{url: endpoint, client: client}
}

type latestResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// KRWToUSD returns how many US dollars one won buys.
func (c *Client) KRWToUSD(ctx context.Context) (_ float64, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "exchangerate.KRWToUSD")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	endpoint, err := url.Parse(c.url)
	if err != nil {
		return 0, fmt.Errorf("parse rate url: %w", err)
	}
	query := endpoint.Query()
	query.Set("base", "KRW")
	query.Set("symbols", "USD")
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("build rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("rate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate endpoint returned %s", resp.Status)
	}

	var decoded latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("decode rate response: %w", err)
	}
	rate, ok := decoded.Rates["USD"]
	if !ok || rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, ErrRateUnavailable
	}
	span.SetAttributes(attribute.Float64("exchange.krw_usd", rate))
	return rate, nil
}
