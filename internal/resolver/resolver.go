// Package resolver recognizes Terabox share links and resolves them into
// direct video URLs through the external resolver endpoint.
package resolver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// linkPattern matches the recognized file-sharing domains. Anything else in
// a message is ignored by the bot.
var linkPattern = regexp.MustCompile(`https://(1024terabox|teraboxapp|freeterabox)\.com/s/\S+`)

// Recognize reports whether text contains a supported share link and returns
// the matched link.
func Recognize(text string) (string, bool) {
	match := linkPattern.FindString(text)
	return match, match != ""
}

// Client resolves share links against the external resolver endpoint.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient creates a resolver client for baseURL.
func NewClient(log *slog.Logger, baseURL string, client *http.Client) *Client {
	if log == nil {
		log = slog.Default()
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: baseURL,
		client:  client,
		logger:  log.With(slog.String("service", "resolver")),
	}
}

// Resolve issues one call to the resolver and returns the direct video URL.
// Any non-200 response or transport failure is a resolution failure; there
// is no retry.
func (c *Client) Resolve(ctx context.Context, link string) (string, error) {
	endpoint := c.baseURL + "?link=" + url.QueryEscape(link)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build resolver request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call resolver: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("resolver returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read resolver response: %w", err)
	}
	videoURL := strings.TrimSpace(string(body))
	if videoURL == "" {
		return "", fmt.Errorf("resolver returned an empty URL")
	}
	c.logger.Debug("link resolved", slog.String("link", link))
	return videoURL, nil
}
