package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWritesFileNamedFromURLPath(t *testing.T) {
	t.Parallel()
	payload := []byte("not really an mp4")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	dir := t.TempDir()
	svc := NewService(nil, dir, server.Client())

	localPath, err := svc.Fetch(context.Background(), server.URL+"/video/clip123.mp4")
	require.NoError(t, err)
	assert.Equal(t, "clip123.mp4", filepath.Base(localPath))

	content, err := os.ReadFile(localPath)
	require.NoError(t, err)
	assert.Equal(t, payload, content)

	svc.Discard(localPath)
	_, err = os.Stat(localPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Dir(localPath))
	assert.True(t, os.IsNotExist(err), "per-request dir should be removed")
}

func TestFetchSameNameDoesNotCollide(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.URL.Query().Get("v")))
	}))
	defer server.Close()

	svc := NewService(nil, t.TempDir(), server.Client())

	first, err := svc.Fetch(context.Background(), server.URL+"/clip.mp4?v=one")
	require.NoError(t, err)
	second, err := svc.Fetch(context.Background(), server.URL+"/clip.mp4?v=two")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	one, _ := os.ReadFile(first)
	two, _ := os.ReadFile(second)
	assert.Equal(t, "one", string(one))
	assert.Equal(t, "two", string(two))
}

func TestFetchNon200LeavesNoFile(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	dir := t.TempDir()
	svc := NewService(nil, dir, server.Client())

	_, err := svc.Fetch(context.Background(), server.URL+"/gone.mp4")
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "failed download must not leave residue")
}

func TestFileNameFallback(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "video", fileName("https://cdn.example.com/"))
	assert.Equal(t, "clip.mp4", fileName("https://cdn.example.com/a/b/clip.mp4?sig=abc"))
}
