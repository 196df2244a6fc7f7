// Package config loads the bridge's JSON configuration document and
// parses its listener bindings, mirroring the teacher's config.Config
// struct-with-validation shape but sourced from the JSON file spec.md
// §6 mandates instead of environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
)

// Config is the top-level JSON configuration document.
type Config struct {
	ServerHostname   string   `json:"server_hostname"`
	Bindings         []string `json:"bindings"`
	LoggingVerbosity string   `json:"logging_verbosity"`
	ICBEndpoint      string   `json:"icb_endpoint"`
}

// Load reads and parses the JSON configuration document at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &c, nil
}

// Validate checks that required fields are present.
func (c *Config) Validate() error {
	if c.ServerHostname == "" {
		return fmt.Errorf("server_hostname is required")
	}
	if len(c.Bindings) == 0 {
		return fmt.Errorf("at least one binding is required")
	}
	if c.ICBEndpoint == "" {
		return fmt.Errorf("icb_endpoint is required")
	}
	for _, b := range c.Bindings {
		if _, err := ParseBinding(b); err != nil {
			return err
		}
	}
	return nil
}

// LevelFatal is one step above slog's built-in LevelError, matching
// spec.md's logging_verbosity enum {debug, info, warning, error,
// fatal}, the same way the teacher's middleware package adds a custom
// LevelTrace below slog.LevelDebug.
const LevelFatal = slog.Level(12)

// LogLevel maps the logging_verbosity string onto an slog.Level,
// defaulting to info for an unrecognized or empty value.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.LoggingVerbosity) {
	case "debug":
		return slog.LevelDebug
	case "warning", "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "fatal":
		return LevelFatal
	case "info", "":
		fallthrough
	default:
		return slog.LevelInfo
	}
}

// Binding describes one listener spec.md §6 allows: plain TCP or
// TLS-wrapped TCP with a certificate and key path.
type Binding struct {
	Scheme  string // "tcp" or "tcps"
	Address string // host:port
	Cert    string
	Key     string
}

// ParseBinding parses one of the bindings list entries. TLS bindings
// require cert and key query parameters; anything other than tcp/tcps
// is an unsupported-protocol error, per spec.md §4.6.
func ParseBinding(raw string) (Binding, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Binding{}, fmt.Errorf("invalid binding %q: %w", raw, err)
	}

	switch u.Scheme {
	case "tcp":
		return Binding{Scheme: "tcp", Address: u.Host}, nil
	case "tcps":
		cert := u.Query().Get("cert")
		key := u.Query().Get("key")
		if cert == "" || key == "" {
			return Binding{}, fmt.Errorf("tls binding %q requires cert and key query parameters", raw)
		}
		return Binding{Scheme: "tcps", Address: u.Host, Cert: cert, Key: key}, nil
	default:
		return Binding{}, fmt.Errorf("unsupported binding protocol %q in %q", u.Scheme, raw)
	}
}
