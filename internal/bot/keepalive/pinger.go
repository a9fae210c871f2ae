// Package keepalive pings an external URL so the hosting platform does not
// idle the process out.
package keepalive

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	errx "github.com/sorare-price-bot/server/internal/core/error"
	logx "github.com/sorare-price-bot/server/pkg/logger"
)

const (
	DefaultURL      = "https://google.com"
	DefaultInterval = 300 * time.Second
	DefaultTimeout  = 10 * time.Second
)

// Pinger shares nothing with the dialog besides the logger.
type Pinger struct {
	url        string
	interval   time.Duration
	timeout    time.Duration
	httpClient *http.Client
}

type Option func(*Pinger)

func WithInterval(d time.Duration) Option {
	return func(p *Pinger) {
		if d > 0 {
			p.interval = d
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(p *Pinger) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(p *Pinger) {
		if c != nil {
			p.httpClient = c
		}
	}
}

func NewPinger(url string, opts ...Option) (*Pinger, error) {
	if url == "" {
		return nil, errors.New("keepalive: url must not be empty")
	}
	p := &Pinger{
		url:        url,
		interval:   DefaultInterval,
		timeout:    DefaultTimeout,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run pings once immediately and then once per interval until ctx is done.
// Failures are logged and never stop the loop.
func (p *Pinger) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	logx.Info().Str("url", p.url).Dur("interval", p.interval).Msg("keep-alive loop started")
	p.Ping(ctx)

	for {
		select {
		case <-ctx.Done():
			logx.Info().Msg("keep-alive loop stopped")
			return nil
		case <-ticker.C:
			p.Ping(ctx)
		}
	}
}

// Ping issues a single GET and reports the outcome through the log.
func (p *Pinger) Ping(ctx context.Context) {
	status, err := p.get(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logx.Error().Err(err).Str("url", p.url).Msg("self-ping failed")
		return
	}
	logx.Info().Int("status", status).Str("url", p.url).Msg("self-ping")
}

func (p *Pinger) get(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return 0, err
	}
	res, err := p.httpClient.Do(req)
	if err != nil {
		return 0, errx.WrapUpstream(err)
	}
	defer func() { _ = res.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 64<<10))

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return res.StatusCode, errx.WrapUpstream(&errx.UpstreamStatusError{StatusCode: res.StatusCode, URL: p.url})
	}
	return res.StatusCode, nil
}
