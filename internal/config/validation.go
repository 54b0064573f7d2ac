package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ncsound919/OG-Glass/internal/logging"
	"github.com/ncsound919/OG-Glass/internal/presets"
)

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validatePresetsConfig(&config.Presets); err != nil {
		return fmt.Errorf("presets config: %w", err)
	}

	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := validateRateLimitConfig(&config.RateLimit); err != nil {
		return fmt.Errorf("rate_limit config: %w", err)
	}

	if config.Watcher.Debounce < 0 {
		return fmt.Errorf("watcher config: debounce %v must not be negative", config.Watcher.Debounce)
	}

	if err := validateMCPConfig(&config.MCP); err != nil {
		return fmt.Errorf("mcp config: %w", err)
	}

	if err := validateLogConfig(&config.Log); err != nil {
		return fmt.Errorf("log config: %w", err)
	}

	return nil
}

func validatePresetsConfig(config *PresetsConfig) error {
	if strings.ContainsRune(config.Root, 0) {
		return fmt.Errorf("root contains a NUL byte")
	}
	if filepath.Clean(config.Root) == "/" {
		return fmt.Errorf("root must not be the filesystem root")
	}
	if !presets.ValidPresetID(config.DefaultExtends) {
		return fmt.Errorf("default_extends %q is not a valid preset id", config.DefaultExtends)
	}
	return nil
}

// validateServerConfig validates server configuration values
func validateServerConfig(config *ServerConfig) error {
	// Allow 0 for system-assigned ports in testing
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\", " "}
	for _, char := range dangerousChars {
		if strings.Contains(config.Host, char) {
			return fmt.Errorf("host contains dangerous character: %q", char)
		}
	}

	for _, origin := range config.AllowedOrigins {
		if origin == "*" {
			return fmt.Errorf("wildcard origin is not allowed, list origins explicitly")
		}
		u, err := url.Parse(origin)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("allowed origin %q must be an http(s) origin", origin)
		}
	}

	return nil
}

func validateRateLimitConfig(config *RateLimitConfig) error {
	if config.WriteRequestsPerMinute < 0 {
		return fmt.Errorf("write_requests_per_minute %d must be positive", config.WriteRequestsPerMinute)
	}
	return nil
}

func validateMCPConfig(config *MCPConfig) error {
	if !slices.Contains([]string{TransportStdio, TransportHTTP}, config.Transport) {
		return fmt.Errorf("transport %q must be %s or %s", config.Transport, TransportStdio, TransportHTTP)
	}
	return nil
}

func validateLogConfig(config *LogConfig) error {
	if _, err := logging.ParseLevel(config.Level); err != nil {
		return err
	}
	if config.Format != "text" && config.Format != "json" {
		return fmt.Errorf("format %q must be text or json", config.Format)
	}
	return nil
}

// LoggerConfig converts the log section into a logger configuration.
func (c *Config) LoggerConfig() *logging.LoggerConfig {
	level, _ := logging.ParseLevel(c.Log.Level)

	cfg := logging.DefaultConfig()
	cfg.Level = level
	cfg.Format = c.Log.Format
	return cfg
}
