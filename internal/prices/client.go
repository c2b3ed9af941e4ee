// Package prices looks up spot USD prices from a CoinGecko-compatible API.
package prices

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-resty/resty/v2"

	"github.com/quantumauth-io/quantum-wallet/internal/metrics"
)

const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// Price is the USD spot price and 24h change (percent) for one coin.
type Price struct {
	ID        string  `json:"id"`
	USD       float64 `json:"usd"`
	Change24h float64 `json:"change24h"`
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	http *resty.Client
}

type simplePriceEntry struct {
	USD       *float64 `json:"usd"`
	Change24h float64  `json:"usd_24h_change"`
}

func NewClient(cfg Config) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	hc := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		hc.SetHeader("x-cg-demo-api-key", key)
	}

	return &Client{http: hc}
}

// Price fetches the current USD price for a price-API id.
func (c *Client) Price(ctx context.Context, id string) (Price, error) {
	p, err := c.price(ctx, id)
	metrics.PriceRequestsTotal.WithLabelValues(metrics.Result(err)).Inc()
	return p, err
}

func (c *Client) price(ctx context.Context, id string) (Price, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Price{}, errors.New("prices: empty id")
	}

	var out map[string]simplePriceEntry
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ids":                 id,
			"vs_currencies":       "usd",
			"include_24hr_change": "true",
		}).
		SetResult(&out).
		Get("/simple/price")
	if err != nil {
		return Price{}, errors.Wrapf(err, "prices: request %s", id)
	}
	if res.IsError() {
		return Price{}, errors.Newf("prices: %s: status %d", id, res.StatusCode())
	}

	entry, ok := out[id]
	if !ok || entry.USD == nil {
		return Price{}, errors.Newf("prices: no usd price for %s", id)
	}

	return Price{
		ID:        id,
		USD:       *entry.USD,
		Change24h: entry.Change24h,
	}, nil
}
