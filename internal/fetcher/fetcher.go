// Package fetcher retrieves product pages over HTTP with per-host
// pacing, bounded timeouts and a retry policy tuned to not aggravate
// anti-bot defenses.
package fetcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/domain"
)

// Limiter provides per-host request pacing.
type Limiter interface {
	Acquire(ctx context.Context, host string) error
}

// Config holds HTTP and retry settings.
type Config struct {
	Timeout        time.Duration
	UserAgent      string
	AcceptLanguage string
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Fetcher performs rate-limited GETs and classifies failures.
type Fetcher struct {
	httpClient     *http.Client
	limiter        Limiter
	userAgent      string
	acceptLanguage string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger

	// Injected for deterministic tests.
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func(d time.Duration) time.Duration
}

func New(cfg Config, limiter Limiter, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:        limiter,
		userAgent:      cfg.UserAgent,
		acceptLanguage: cfg.AcceptLanguage,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger,
		sleep:          sleepCtx,
		jitter: func(d time.Duration) time.Duration {
			// Up to +50% on top of the base backoff.
			return d + time.Duration(rand.Int63n(int64(d)/2+1))
		},
	}
}

// Fetch retrieves the page at rawURL. Transient failures (timeout,
// network, server error) are retried with exponential backoff plus
// jitter up to the attempt cap. A Blocked failure (403/429) is returned
// immediately: hammering a host that just refused us only compounds
// suspicion, so it is retried no earlier than the next poll cycle.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &domain.ValidationError{URL: rawURL, Reason: "unparseable URL"}
	}

	var lastErr error
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		if err := f.limiter.Acquire(ctx, u.Hostname()); err != nil {
			return nil, err
		}

		page, err := f.doRequest(ctx, rawURL)
		if err == nil {
			return page, nil
		}
		lastErr = err

		var fetchErr *domain.FetchError
		if errors.As(err, &fetchErr) && !fetchErr.Transient() {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt == f.maxAttempts {
			break
		}

		backoff := f.jitter(f.calculateBackoff(attempt))
		f.logger.Warn("fetch failed, retrying",
			"url", rawURL,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)
		if err := f.sleep(ctx, backoff); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func (f *Fetcher) doRequest(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &domain.ValidationError{URL: rawURL, Reason: "cannot build request"}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	if f.acceptLanguage != "" {
		req.Header.Set("Accept-Language", f.acceptLanguage)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(rawURL, err)
	}
	defer resp.Body.Close()

	if kind, failed := classifyStatus(resp.StatusCode); failed {
		return nil, &domain.FetchError{Kind: kind, URL: rawURL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(rawURL, err)
	}
	if len(body) == 0 {
		return nil, &domain.FetchError{Kind: domain.FetchServerError, URL: rawURL, Status: resp.StatusCode}
	}
	return body, nil
}

// classifyStatus maps a response status to a failure kind. 403 and 429
// mean the site is pushing back on scraping; everything else non-2xx is
// treated as a server-side problem.
func classifyStatus(status int) (domain.FetchErrorKind, bool) {
	switch {
	case status >= 200 && status < 300:
		return "", false
	case status == http.StatusForbidden || status == http.StatusTooManyRequests:
		return domain.FetchBlocked, true
	default:
		return domain.FetchServerError, true
	}
}

func classifyTransportError(rawURL string, err error) *domain.FetchError {
	kind := domain.FetchNetwork
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = domain.FetchTimeout
	}
	return &domain.FetchError{Kind: kind, URL: rawURL, Err: err}
}

func (f *Fetcher) calculateBackoff(attempt int) time.Duration {
	backoff := f.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > f.maxBackoff {
		backoff = f.maxBackoff
	}
	return backoff
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
