// Package scryfall implements the catalog.Catalog provider against the
// Scryfall REST API. Requests are issued strictly sequentially through a
// client-side rate limiter (Scryfall asks for 50-100ms between calls) and
// retried on 429/5xx with exponential backoff and jitter.
package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/kosarica/cardpricer/internal/card"
	"github.com/kosarica/cardpricer/internal/catalog"
)

const DefaultBaseURL = "https://api.scryfall.com"

// Options configures the client.
type Options struct {
	BaseURL        string
	RequestDelay   time.Duration // minimum inter-request delay
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Logger         zerolog.Logger
}

// DefaultOptions returns conservative defaults within Scryfall's published
// rate guidance.
func DefaultOptions() Options {
	return Options{
		BaseURL:        DefaultBaseURL,
		RequestDelay:   100 * time.Millisecond,
		MaxRetries:     3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     30 * time.Second,
		Logger:         zerolog.Nop(),
	}
}

// Client is a rate-limited Scryfall catalog client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	opts       Options
	log        zerolog.Logger
}

// NewClient creates a client from options, filling in defaults for zero
// fields.
func NewClient(opts Options) *Client {
	def := DefaultOptions()
	if opts.BaseURL == "" {
		opts.BaseURL = def.BaseURL
	}
	if opts.RequestDelay <= 0 {
		opts.RequestDelay = def.RequestDelay
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = def.MaxRetries
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = def.InitialBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = def.MaxBackoff
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(opts.RequestDelay), 1),
		opts:       opts,
		log:        opts.Logger,
	}
}

// Lookup implements catalog.Catalog. With a collector number it fetches the
// single printing; otherwise it searches all printings of the exact name,
// optionally narrowed to a set.
func (c *Client) Lookup(ctx context.Context, name, setCode, collectorNumber string) ([]card.Printing, error) {
	if setCode != "" && collectorNumber != "" {
		u := fmt.Sprintf("%s/cards/%s/%s", c.baseURL, url.PathEscape(strings.ToLower(setCode)), url.PathEscape(collectorNumber))
		var cardResp apiCard
		if err := c.getJSON(ctx, u, &cardResp); err != nil {
			return nil, err
		}
		return []card.Printing{cardResp.toPrinting()}, nil
	}

	query := fmt.Sprintf("!%q", name)
	if setCode != "" {
		query += " set:" + strings.ToLower(setCode)
	}
	return c.search(ctx, query, "released")
}

// ListSet implements catalog.Catalog.
func (c *Client) ListSet(ctx context.Context, setCode string) ([]card.Printing, error) {
	return c.search(ctx, "set:"+strings.ToLower(setCode), "set")
}

// search runs a paginated /cards/search query.
func (c *Client) search(ctx context.Context, query, order string) ([]card.Printing, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("unique", "prints")
	params.Set("order", order)
	next := c.baseURL + "/cards/search?" + params.Encode()

	var printings []card.Printing
	for next != "" {
		var page searchPage
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, err
		}
		for _, ac := range page.Data {
			printings = append(printings, ac.toPrinting())
		}
		next = ""
		if page.HasMore {
			next = page.NextPage
		}
	}
	if len(printings) == 0 {
		return nil, catalog.ErrNotFound
	}
	return printings, nil
}

// getJSON performs a rate-limited GET with retry, decoding the body into
// out. A 404 maps to catalog.ErrNotFound; exhausted retries or transport
// failures map to *catalog.FetchError.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	var lastErr error

	for attempt := 0; attempt <= c.opts.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return &catalog.FetchError{Op: rawURL, Err: err}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return &catalog.FetchError{Op: rawURL, Err: err}
		}
		req.Header.Set("User-Agent", "cardpricer/1.0")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			c.log.Warn().Err(err).Int("attempt", attempt+1).Str("url", rawURL).Msg("request failed")
			if attempt < c.opts.MaxRetries {
				c.sleepBackoff(ctx, attempt, nil)
			}
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			err = json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return &catalog.FetchError{Op: rawURL, Err: fmt.Errorf("decoding response: %w", err)}
			}
			return nil

		case resp.StatusCode == http.StatusNotFound:
			drain(resp)
			return catalog.ErrNotFound

		case isRetryable(resp.StatusCode):
			retryAfter := resp.Header.Get("Retry-After")
			drain(resp)
			lastErr = fmt.Errorf("HTTP %d", resp.StatusCode)
			c.log.Warn().Int("status", resp.StatusCode).Int("attempt", attempt+1).Str("url", rawURL).Msg("retryable response")
			// No point backing off after the last attempt.
			if attempt < c.opts.MaxRetries {
				c.sleepBackoff(ctx, attempt, &retryAfter)
			}
			continue

		default:
			apiErr := decodeAPIError(resp)
			drain(resp)
			return &catalog.FetchError{Op: rawURL, Err: apiErr}
		}
	}

	return &catalog.FetchError{
		Op:  rawURL,
		Err: fmt.Errorf("giving up after %d attempts: %w", c.opts.MaxRetries+1, lastErr),
	}
}

// Retryable: 429 and 5xx.
func isRetryable(status int) bool {
	return status == http.StatusTooManyRequests || (status >= 500 && status < 600)
}

// sleepBackoff waits out the exponential backoff for attempt, honoring a
// server-provided Retry-After when present.
func (c *Client) sleepBackoff(ctx context.Context, attempt int, retryAfter *string) {
	var delay time.Duration
	if retryAfter != nil {
		if seconds, err := strconv.Atoi(*retryAfter); err == nil && seconds > 0 {
			delay = time.Duration(seconds) * time.Second
		}
	}
	if delay == 0 {
		exp := float64(c.opts.InitialBackoff) * math.Pow(2, float64(attempt))
		capped := math.Min(exp, float64(c.opts.MaxBackoff))
		// 0-25% jitter
		delay = time.Duration(capped * (1 + rand.Float64()*0.25))
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func decodeAPIError(resp *http.Response) error {
	var ae apiError
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&ae); err == nil && ae.Details != "" {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, ae.Details)
	}
	return fmt.Errorf("HTTP %d", resp.StatusCode)
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
