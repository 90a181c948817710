// Package relay stream-downloads resolved videos into transient local files
// for re-upload into the chat.
package relay

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// Service downloads videos into a per-request subdirectory of the downloads
// directory. The unique subdirectory keeps concurrent downloads of
// identically named assets from clobbering each other.
type Service struct {
	dir    string
	client *http.Client
	logger *slog.Logger
}

// NewService creates a relay writing under dir.
func NewService(log *slog.Logger, dir string, client *http.Client) *Service {
	if log == nil {
		log = slog.Default()
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Service{
		dir:    dir,
		client: client,
		logger: log.With(slog.String("service", "relay")),
	}
}

// Dir returns the downloads directory.
func (s *Service) Dir() string { return s.dir }

// Fetch downloads videoURL and returns the local file path. The file is
// named from the URL's path component inside a fresh per-request directory.
// Nothing is written to disk until the remote answers 200, so a failed fetch
// leaves no file behind.
func (s *Service) Fetch(ctx context.Context, videoURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, videoURL, nil)
	if err != nil {
		return "", fmt.Errorf("build download request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	target := filepath.Join(s.dir, uuid.NewString(), fileName(videoURL))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	file, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create video file: %w", err)
	}
	written, err := io.Copy(file, resp.Body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		s.Discard(target)
		return "", fmt.Errorf("write video file: %w", err)
	}
	s.logger.Debug("video downloaded", slog.String("path", target), slog.Int64("bytes", written))
	return target, nil
}

// Discard removes a fetched file and its per-request directory.
func (s *Service) Discard(localPath string) {
	if localPath == "" {
		return
	}
	if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("remove video file failed", slog.String("path", localPath), slog.Any("error", err))
	}
	if err := os.Remove(filepath.Dir(localPath)); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("remove download dir failed", slog.Any("error", err))
	}
}

func fileName(videoURL string) string {
	parsed, err := url.Parse(videoURL)
	if err != nil {
		return "video"
	}
	base := path.Base(parsed.Path)
	if base == "." || base == "/" || base == "" {
		return "video"
	}
	return base
}
