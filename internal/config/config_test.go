package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultHTTPAddr, cfg.Server.Addr)
	assert.Equal(t, DefaultStorePath, cfg.Store.Path)
	assert.Equal(t, DefaultResolverURL, cfg.Resolver.URL)
	assert.Equal(t, DefaultVerifyWindow, cfg.Bot.VerifyWindow.Std())
	assert.Equal(t, time.Duration(0), cfg.Bot.Cooldown.Std())
	assert.Equal(t, DefaultJanitorSpec, cfg.Janitor.Spec)
}

func TestLoadParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[log]
level = "debug"
format = "json"

[server]
addr = ":8090"

[bot]
token = "123:abc"
channel_username = "@BotzWala"
admin_ids = ["6135009699", "1287563568"]
tutorial_url = "https://t.me/dterabox/4"
verify_window = "6h"
cooldown = "20s"

[store]
url = "https://mlobd.online/data/"

[shortener]
endpoints = [
  "https://publicearn.com/api?api=aaa&url=",
  "https://publicearn.com/api?api=bbb&url=",
]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":8090", cfg.Server.Addr)
	assert.Equal(t, "123:abc", cfg.Bot.Token)
	assert.Equal(t, "@BotzWala", cfg.Bot.ChannelUsername)
	assert.Equal(t, []string{"6135009699", "1287563568"}, cfg.Bot.AdminIDs)
	assert.Equal(t, 6*time.Hour, cfg.Bot.VerifyWindow.Std())
	assert.Equal(t, 20*time.Second, cfg.Bot.Cooldown.Std())
	assert.Equal(t, "https://mlobd.online/data/", cfg.Store.URL)
	assert.Len(t, cfg.Shortener.Endpoints, 2)
	// Untouched sections keep their defaults.
	assert.Equal(t, DefaultDownloadsDir, cfg.Relay.DownloadsDir)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[bot]\nverify_window = \"soon\"\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
