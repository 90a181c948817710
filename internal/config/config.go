// Package config loads and exposes application configuration (TOML).
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath   = "config.toml"
	DefaultHTTPAddr     = ":3000"
	DefaultStorePath    = "data.json"
	DefaultDownloadsDir = "downloads"
	DefaultResolverURL  = "https://st.ronok.workers.dev/"
	DefaultVerifyWindow = 12 * time.Hour
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultJanitorSpec  = "@every 5m"
	DefaultJanitorAge   = time.Hour
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log       LogConfig       `toml:"log"`
	Server    ServerConfig    `toml:"server"`
	Bot       BotConfig       `toml:"bot"`
	Store     StoreConfig     `toml:"store"`
	Resolver  ResolverConfig  `toml:"resolver"`
	Shortener ShortenerConfig `toml:"shortener"`
	Relay     RelayConfig     `toml:"relay"`
	Janitor   JanitorConfig   `toml:"janitor"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds the health HTTP server listen address.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// BotConfig holds the Telegram credentials and gating parameters.
type BotConfig struct {
	Token           string   `toml:"token"`
	ChannelUsername string   `toml:"channel_username"`
	AdminIDs        []string `toml:"admin_ids"`
	TutorialURL     string   `toml:"tutorial_url"`
	VerifyWindow    duration `toml:"verify_window"`
	// Cooldown between downloads per user; zero disables the limiter.
	Cooldown duration `toml:"cooldown"`
}

// StoreConfig selects the persistence backend. URL wins over Path when both
// are set, matching the remote-store deployment variant.
type StoreConfig struct {
	Path string `toml:"path"`
	URL  string `toml:"url"`
}

// ResolverConfig holds the link resolver endpoint.
type ResolverConfig struct {
	URL     string   `toml:"url"`
	Timeout duration `toml:"timeout"`
}

// ShortenerConfig holds the rotating shortening endpoint templates.
type ShortenerConfig struct {
	Endpoints []string `toml:"endpoints"`
	Timeout   duration `toml:"timeout"`
}

// RelayConfig holds the transient download directory.
type RelayConfig struct {
	DownloadsDir string   `toml:"downloads_dir"`
	Timeout      duration `toml:"timeout"`
}

// JanitorConfig holds the downloads-directory sweep schedule.
type JanitorConfig struct {
	Spec   string   `toml:"spec"`
	MaxAge duration `toml:"max_age"`
}

// duration is a time.Duration that decodes from TOML strings like "12h".
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

// Std returns d as a time.Duration.
func (d duration) Std() time.Duration { return time.Duration(d) }

// Load reads and parses the TOML config file at path and applies default
// values for missing fields. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Bot: BotConfig{
			VerifyWindow: duration(DefaultVerifyWindow),
		},
		Store: StoreConfig{
			Path: DefaultStorePath,
		},
		Resolver: ResolverConfig{
			URL:     DefaultResolverURL,
			Timeout: duration(DefaultHTTPTimeout),
		},
		Shortener: ShortenerConfig{
			Timeout: duration(DefaultHTTPTimeout),
		},
		Relay: RelayConfig{
			DownloadsDir: DefaultDownloadsDir,
			Timeout:      duration(DefaultHTTPTimeout),
		},
		Janitor: JanitorConfig{
			Spec:   DefaultJanitorSpec,
			MaxAge: duration(DefaultJanitorAge),
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
