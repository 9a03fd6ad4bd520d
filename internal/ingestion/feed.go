package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/guttosm/cnbpulse/internal/logger"
)

const (
	// DefaultFeedURL is the CNB daily exchange rate text endpoint.
	DefaultFeedURL = "https://www.cnb.cz/cs/financni-trhy/devizovy-trh/kurzy-devizoveho-trhu/kurzy-devizoveho-trhu/denni_kurz.txt"

	feedDateLayout = "02.01.2006" // DD.MM.YYYY
)

// ErrNoPublication is returned when the feed answers with a non-200 status for a day.
var ErrNoPublication = errors.New("no publication for day")

// Fetcher retrieves the raw feed text for one calendar day.
type Fetcher interface {
	Fetch(ctx context.Context, day time.Time) (string, error)
}

// FeedOptions parameterise the HTTP feed client.
type FeedOptions struct {
	URL       string
	DateParam string
	Timeout   time.Duration
	UserAgent string
}

// FeedClient fetches daily publications over HTTP. One request per call, no retries.
type FeedClient struct {
	opts   FeedOptions
	client *http.Client
}

// NewFeedClient builds a FeedClient, filling unset options with defaults.
func NewFeedClient(opts FeedOptions) *FeedClient {
	if strings.TrimSpace(opts.URL) == "" {
		opts.URL = DefaultFeedURL
	}
	if opts.DateParam == "" {
		opts.DateParam = "date"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "cnbpulse/1.0"
	}

	return &FeedClient{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
	}
}

// Fetch issues GET <url>?<param>=DD.MM.YYYY.
//
// Returns:
//   - the body on 200 OK
//   - ErrNoPublication (wrapped with the status) on any other status
//   - a wrapped transport error otherwise
func (c *FeedClient) Fetch(ctx context.Context, day time.Time) (string, error) {
	endpoint, err := c.endpoint(day)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "text/plain")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch feed for %s: %w", day.Format(feedDateLayout), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		logger.L().Debug().Str("day", day.Format(feedDateLayout)).Int("status", resp.StatusCode).Msg("feed unavailable")
		return "", fmt.Errorf("%w: status %d", ErrNoPublication, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read feed body: %w", err)
	}
	return string(body), nil
}

func (c *FeedClient) endpoint(day time.Time) (string, error) {
	u, err := url.Parse(c.opts.URL)
	if err != nil {
		return "", fmt.Errorf("invalid feed url: %w", err)
	}
	q := u.Query()
	q.Set(c.opts.DateParam, day.Format(feedDateLayout))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

var _ Fetcher = (*FeedClient)(nil)
