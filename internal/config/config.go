package config

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tnetkit/tnet/internal/errors"
)

const (
	// ConfigFileName is the default name of the configuration file.
	ConfigFileName = "tnet.toml"

	// DefaultListen is the default relay listen address.
	DefaultListen = ":7777"

	// DefaultUpstream is the default game server address.
	DefaultUpstream = "127.0.0.1:7778"

	// DefaultAdminListen is the default admin HTTP listen address.
	DefaultAdminListen = ":9090"
)

// Decode error policies for RelayConfig.OnDecodeError.
const (
	OnDecodeErrorForward = "forward"
	OnDecodeErrorDrop    = "drop"
	OnDecodeErrorClose   = "close"
)

// Environment variables read by Load.
const (
	EnvLogLevel = "TNET_LOG_LEVEL"
	EnvUpstream = "TNET_UPSTREAM"
)

// Config represents the complete tnet.toml configuration.
type Config struct {
	Relay   RelayConfig   `toml:"relay"`
	Admin   AdminConfig   `toml:"admin"`
	Capture CaptureConfig `toml:"capture"`
	Log     LogConfig     `toml:"log"`

	// path stores the path where the config was loaded from.
	path string
}

// RelayConfig contains the proxy settings.
type RelayConfig struct {
	// Listen is the address clients connect to.
	Listen string `toml:"listen"`

	// Upstream is the game server address dialed for every client.
	Upstream string `toml:"upstream"`

	// OnDecodeError is what the relay does with a frame it cannot decode.
	OnDecodeError string `toml:"on_decode_error"`

	// BlockIDs lists message ids dropped in both directions.
	BlockIDs []int `toml:"block_ids"`
}

// AdminConfig contains the admin HTTP server settings.
type AdminConfig struct {
	// Listen is the admin address. Empty disables the admin server.
	Listen string `toml:"listen"`
}

// CaptureConfig contains frame capture settings.
type CaptureConfig struct {
	Enabled bool     `toml:"enabled"`
	Dir     string   `toml:"dir"`
	S3      S3Config `toml:"s3"`
}

// S3Config describes where finished captures are uploaded. An empty Bucket
// disables uploading.
type S3Config struct {
	Bucket   string `toml:"bucket"`
	Prefix   string `toml:"prefix"`
	Region   string `toml:"region"`
	Endpoint string `toml:"endpoint"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`

	// Format is text or json.
	Format string `toml:"format"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Relay: RelayConfig{
			Listen:        DefaultListen,
			Upstream:      DefaultUpstream,
			OnDecodeError: OnDecodeErrorForward,
		},
		Admin: AdminConfig{
			Listen: DefaultAdminListen,
		},
		Capture: CaptureConfig{
			Dir: "captures",
			S3: S3Config{
				Prefix: "tnet/",
				Region: "us-east-1",
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from path, applies environment overrides and
// validates the result. An empty path returns the defaults with overrides
// applied.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		meta, err := toml.DecodeFile(path, cfg)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, errors.New("T100").Wrap(err).
					WithDetail("No config file at " + path)
			}
			return nil, errors.New("T101").Wrap(err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.New("T101").
				WithDetail("Unknown keys: " + strings.Join(keys, ", "))
		}
		cfg.path = path
	}

	cfg.applyEnv(os.LookupEnv)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvUpstream); ok && v != "" {
		c.Relay.Upstream = v
	}
}

// applyDefaults fills in values the file set to empty strings.
func (c *Config) applyDefaults() {
	if c.Relay.Listen == "" {
		c.Relay.Listen = DefaultListen
	}
	if c.Relay.OnDecodeError == "" {
		c.Relay.OnDecodeError = OnDecodeErrorForward
	}
	if c.Capture.Dir == "" {
		c.Capture.Dir = "captures"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Relay.Listen); err != nil {
		return invalid("relay.listen %q: %v", c.Relay.Listen, err)
	}
	if _, _, err := net.SplitHostPort(c.Relay.Upstream); err != nil {
		return invalid("relay.upstream %q: %v", c.Relay.Upstream, err)
	}
	switch c.Relay.OnDecodeError {
	case OnDecodeErrorForward, OnDecodeErrorDrop, OnDecodeErrorClose:
	default:
		return invalid("relay.on_decode_error must be forward, drop or close, got %q", c.Relay.OnDecodeError)
	}
	for _, id := range c.Relay.BlockIDs {
		if id < 0 || id > 255 {
			return invalid("relay.block_ids: %d is not a message id", id)
		}
	}
	if c.Admin.Listen != "" {
		if _, _, err := net.SplitHostPort(c.Admin.Listen); err != nil {
			return invalid("admin.listen %q: %v", c.Admin.Listen, err)
		}
	}
	if _, err := c.Log.level(); err != nil {
		return invalid("log.level: %v", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return invalid("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New("T102").WithDetail(fmt.Sprintf(format, args...))
}

// BlockedIDs returns relay.block_ids as message ids.
func (c *Config) BlockedIDs() []uint8 {
	ids := make([]uint8, 0, len(c.Relay.BlockIDs))
	for _, id := range c.Relay.BlockIDs {
		ids = append(ids, uint8(id))
	}
	return ids
}

func (l LogConfig) level() (slog.Level, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(l.Level))
	return lvl, err
}

// NewLogger builds a slog.Logger writing to w with the configured level and
// format.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	lvl, err := l.level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
