// Package shortener shortens verification deep links through the currently
// selected shortening service, degrading to the long URL on any failure.
package shortener

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/botzwala/terasaver/internal/store"
)

// Client calls the rotating shortening endpoints.
type Client struct {
	store  *store.Service
	client *http.Client
	logger *slog.Logger
}

// NewClient creates a shortener client reading the active endpoint from st.
func NewClient(log *slog.Logger, st *store.Service, client *http.Client) *Client {
	if log == nil {
		log = slog.Default()
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		store:  st,
		client: client,
		logger: log.With(slog.String("service", "shortener")),
	}
}

type shortenResponse struct {
	ShortenedURL string `json:"shortenedUrl"`
}

// Shorten returns a shortened form of longURL, or longURL itself when the
// shortening service is unavailable, answers with a non-200 status, or omits
// the shortened URL. Shortening never fails the caller.
func (c *Client) Shorten(ctx context.Context, longURL string) string {
	endpoint := c.store.CurrentAPI(ctx)
	if endpoint == "" {
		return longURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+longURL, nil)
	if err != nil {
		c.logger.Warn("build shorten request failed", slog.Any("error", err))
		return longURL
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("shorten call failed", slog.Any("error", err))
		return longURL
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("shortener returned non-200", slog.Int("status", resp.StatusCode))
		return longURL
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("read shortener response failed", slog.Any("error", err))
		return longURL
	}
	var decoded shortenResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		c.logger.Warn("decode shortener response failed", slog.Any("error", err))
		return longURL
	}
	if strings.TrimSpace(decoded.ShortenedURL) == "" {
		return longURL
	}
	return decoded.ShortenedURL
}
