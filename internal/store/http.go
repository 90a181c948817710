package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPBackend persists the store at a remote key-value endpoint supporting
// GET (whole blob) and POST (replace blob).
type HTTPBackend struct {
	url    string
	client *http.Client
}

// NewHTTPBackend creates a backend talking to url with the given client.
func NewHTTPBackend(url string, client *http.Client) *HTTPBackend {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPBackend{url: url, client: client}
}

// Load fetches the blob with a GET.
func (b *HTTPBackend) Load(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("load store: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Save replaces the blob with a POST.
func (b *HTTPBackend) Save(ctx context.Context, blob []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(blob))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("save store: unexpected status %d", resp.StatusCode)
	}
	return nil
}
