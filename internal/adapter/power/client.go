// Package power fetches daily point series from the NASA POWER API.
package power

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/climate-stats-service/internal/config"
	"github.com/couchcryptid/climate-stats-service/internal/domain"
	"github.com/couchcryptid/climate-stats-service/internal/observability"
)

const (
	community          = "RE"
	defaultRetryStart  = 500 * time.Millisecond
	defaultRetryMaxGap = 10 * time.Second
)

// Client implements domain.SeriesFetcher against the POWER daily point endpoint.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	startYear     int
	maxRetries    int
	retryInterval time.Duration
	clock         clockwork.Clock
	metrics       *observability.Metrics
	logger        *slog.Logger
}

// NewClient creates a POWER client from the service configuration.
func NewClient(cfg *config.Config, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:       cfg.PowerBaseURL,
		httpClient:    &http.Client{Timeout: cfg.PowerTimeout},
		startYear:     cfg.PowerStartYear,
		maxRetries:    cfg.PowerMaxRetries,
		retryInterval: defaultRetryStart,
		clock:         clock,
		metrics:       metrics,
		logger:        logger,
	}
}

// FetchDaily returns every day from January 1 of the configured start year to
// December 31 of the last completed year, sorted by date. Transport failures,
// 429 and 5xx responses are retried with exponential backoff.
func (c *Client) FetchDaily(ctx context.Context, lat, lon float64) ([]domain.DailyRecord, error) {
	if err := (domain.Location{Lat: lat, Lon: lon}).Validate(); err != nil {
		return nil, err
	}

	endYear := c.clock.Now().UTC().Year() - 1
	if endYear < c.startYear {
		return nil, fmt.Errorf("%w: start year %d is after last completed year %d", domain.ErrUpstream, c.startYear, endYear)
	}

	u, err := c.requestURL(lat, lon, endYear)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}

	start := c.clock.Now()
	var records []domain.DailyRecord
	op := func() error {
		var opErr error
		records, opErr = c.fetchOnce(ctx, u)
		return opErr
	}
	notify := func(err error, wait time.Duration) {
		c.metrics.UpstreamRequests.WithLabelValues("retry").Inc()
		c.logger.Warn("upstream fetch failed, retrying", "error", err, "wait", wait, "lat", lat, "lon", lon)
	}

	err = backoff.RetryNotify(op, c.newBackOff(ctx), notify)
	c.metrics.UpstreamDuration.Observe(c.clock.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("error").Inc()
		c.logger.Error("upstream fetch failed", "error", err, "lat", lat, "lon", lon)
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}

	c.metrics.UpstreamRequests.WithLabelValues("success").Inc()
	c.logger.Debug("upstream fetch completed", "lat", lat, "lon", lon, "days", len(records))
	return records, nil
}

func (c *Client) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval
	b.MaxInterval = defaultRetryMaxGap
	b.MaxElapsedTime = 0
	b.Clock = c.clock
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.maxRetries)), ctx)
}

func (c *Client) requestURL(lat, lon float64, endYear int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	q.Set("parameters", Parameters)
	q.Set("community", community)
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("start", fmt.Sprintf("%d0101", c.startYear))
	q.Set("end", fmt.Sprintf("%d1231", endYear))
	q.Set("format", "JSON")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// fetchOnce performs one request. Errors that retrying cannot fix are wrapped
// with backoff.Permanent.
func (c *Client) fetchOnce(ctx context.Context, u string) ([]domain.DailyRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		return nil, fmt.Errorf("power request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		statusErr := &StatusError{Code: resp.StatusCode, Body: string(body)}
		if statusErr.Retryable() {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}

	records, err := ParseResponse(resp.Body)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	return records, nil
}

// StatusError is a non-200 response from the POWER API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("power API error: status %d: %s", e.Code, e.Body)
}

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= http.StatusInternalServerError
}

// IsStatus reports whether err carries a POWER response with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
