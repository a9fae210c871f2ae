// Package sorare talks to the Sorare GraphQL API. Every operation degrades to
// an empty or absent result on failure; errors never reach the caller.
package sorare

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

	"github.com/sorare-price-bot/server/internal/bot/cache"
	"github.com/sorare-price-bot/server/internal/bot/model"
	errx "github.com/sorare-price-bot/server/internal/core/error"
	logx "github.com/sorare-price-bot/server/pkg/logger"
)

const (
	DefaultEndpoint      = "https://api.sorare.com/graphql"
	DefaultSearchTimeout = 10 * time.Second
	DefaultPriceTimeout  = 15 * time.Second
)

// Client is safe for concurrent use by many dialog sessions.
type Client struct {
	endpoint      string
	apiKey        string
	schema        SearchSchema
	httpClient    *http.Client
	searchTimeout time.Duration
	priceTimeout  time.Duration

	players cache.Cache[[]model.Player]
	prices  cache.Cache[float64]
}

type Option func(*Client)

func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = strings.TrimSpace(endpoint)
	}
}

func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(key)
	}
}

func WithSearchSchema(schema SearchSchema) Option {
	return func(c *Client) {
		c.schema = schema
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeouts overrides the per-request deadlines; zero keeps the default.
func WithTimeouts(search, price time.Duration) Option {
	return func(c *Client) {
		if search > 0 {
			c.searchTimeout = search
		}
		if price > 0 {
			c.priceTimeout = price
		}
	}
}

// NewClient wires the two caches owned by the caller into a client.
func NewClient(players cache.Cache[[]model.Player], prices cache.Cache[float64], opts ...Option) (*Client, error) {
	if players == nil || prices == nil {
		return nil, errors.New("sorare: caches must not be nil")
	}
	c := &Client{
		endpoint:      DefaultEndpoint,
		schema:        SchemaLegacy,
		httpClient:    &http.Client{},
		searchTimeout: DefaultSearchTimeout,
		priceTimeout:  DefaultPriceTimeout,
		players:       players,
		prices:        prices,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.endpoint == "" {
		return nil, errors.New("sorare: endpoint must not be empty")
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	return c, nil
}

// query posts one GraphQL operation and decodes its data object into out.
func (c *Client) query(ctx context.Context, timeout time.Duration, q string, vars map[string]any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(graphQLRequest{Query: q, Variables: vars})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("APIKEY", c.apiKey)
	}

	raw, err := c.doJSONRequest(req)
	if err != nil {
		return errx.WrapUpstream(err)
	}
	logx.Debug().Str("endpoint", c.endpoint).Str("body", truncate(raw, 2048)).Msg("API response")

	var envelope graphQLResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return errx.WrapDecode(fmt.Errorf("decode envelope: %w", err))
	}
	if len(envelope.Errors) > 0 && isNull(envelope.Data) {
		return errx.WrapDecode(fmt.Errorf("graphql: %s", envelope.Errors[0].Message))
	}
	if isNull(envelope.Data) {
		return errx.WrapDecode(errors.New("response has no data"))
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return errx.WrapDecode(fmt.Errorf("decode data: %w", err))
	}
	return nil
}

func (c *Client) doJSONRequest(req *http.Request) ([]byte, error) {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &errx.UpstreamStatusError{
			StatusCode: res.StatusCode,
			URL:        req.URL.String(),
			Body:       string(buf),
		}
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return buf, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
