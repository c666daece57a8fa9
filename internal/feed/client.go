// Package feed fetches daily evidence snapshots from the upstream factor
// service. All governance computation is I/O-free; this client is the only
// place a network touches evidence, and it hands the core plain in-memory
// snapshots.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/unifiedrisk/governor/internal/evidence"
)

// Cache stores serialized snapshots keyed by trade date and market.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
}

// ClientConfig tunes the snapshot client.
type ClientConfig struct {
	BaseURL        string        `yaml:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RatePerSecond  float64       `yaml:"rate_per_second"`
	RateBurst      int           `yaml:"rate_burst"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	BreakerName    string        `yaml:"breaker_name"`
}

// DefaultClientConfig returns conservative production defaults.
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL:        baseURL,
		RequestTimeout: 10 * time.Second,
		RatePerSecond:  2.0,
		RateBurst:      4,
		CacheTTL:       6 * time.Hour,
		BreakerName:    "evidence-feed",
	}
}

// Client fetches evidence snapshots with a circuit breaker, client-side rate
// limiting, and an optional cache in front of the HTTP call.
type Client struct {
	config  ClientConfig
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	cache   Cache
	logger  zerolog.Logger
}

// NewClient creates a snapshot client. cache may be nil.
func NewClient(cfg ClientConfig, cache Cache, logger zerolog.Logger) *Client {
	settings := gobreaker.Settings{
		Name:    cfg.BreakerName,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	return &Client{
		config:  cfg,
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		breaker: gobreaker.NewCircuitBreaker(settings),
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
		cache:   cache,
		logger:  logger,
	}
}

// FetchSnapshot returns the evidence snapshot for one trade date and market.
func (c *Client) FetchSnapshot(ctx context.Context, tradeDate, market string) (*evidence.Snapshot, error) {
	key := fmt.Sprintf("snapshot:%s:%s", market, tradeDate)

	if c.cache != nil {
		if raw, ok := c.cache.Get(ctx, key); ok {
			var snap evidence.Snapshot
			if err := json.Unmarshal([]byte(raw), &snap); err == nil {
				c.logger.Debug().Str("key", key).Msg("snapshot cache hit")
				return &snap, nil
			}
			// A corrupt cache entry falls through to a fresh fetch.
			c.logger.Warn().Str("key", key).Msg("discarding corrupt cached snapshot")
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait aborted: %w", err)
	}

	body, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, tradeDate, market)
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot fetch failed: %w", err)
	}
	raw := body.([]byte)

	var snap evidence.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("snapshot decode failed: %w", err)
	}
	if snap.TradeDate == "" {
		snap.TradeDate = tradeDate
	}
	if snap.Market == "" {
		snap.Market = market
	}

	if c.cache != nil {
		c.cache.Set(ctx, key, string(raw), c.config.CacheTTL)
	}
	return &snap, nil
}

func (c *Client) fetch(ctx context.Context, tradeDate, market string) ([]byte, error) {
	url := fmt.Sprintf("%s/v1/snapshots/%s/%s", c.config.BaseURL, market, tradeDate)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("snapshot endpoint returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
