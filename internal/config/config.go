// Package config provides configuration management for the preset server
// using Viper for loading from files, environment variables and command-line
// flags.
//
// Values come from flags, OGGLASS_<SECTION>_<KEY> environment variables and
// a YAML file (.ogglass.yml by default), in that order of precedence. The
// environment variables understood by earlier deployments (WATCH_PRESETS,
// PORT, TRANSPORT, PRESETS_DIR) are honoured as aliases.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	apperrors "github.com/ncsound919/OG-Glass/internal/errors"
)

// EnvPrefix prefixes every environment variable read by the server.
const EnvPrefix = "OGGLASS"

// FileName is the default configuration file name, searched for in the
// working directory and the user's home directory.
const FileName = ".ogglass"

type Config struct {
	Presets   PresetsConfig   `mapstructure:"presets" yaml:"presets"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit"`
	Watcher   WatcherConfig   `mapstructure:"watcher" yaml:"watcher"`
	MCP       MCPConfig       `mapstructure:"mcp" yaml:"mcp"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

type PresetsConfig struct {
	Root           string `mapstructure:"root" yaml:"root"`
	Watch          bool   `mapstructure:"watch" yaml:"watch"`
	DefaultExtends string `mapstructure:"default_extends" yaml:"default_extends"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host" yaml:"host"`
	Port           int      `mapstructure:"port" yaml:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type RateLimitConfig struct {
	Enabled                bool `mapstructure:"enabled" yaml:"enabled"`
	WriteRequestsPerMinute int  `mapstructure:"write_requests_per_minute" yaml:"write_requests_per_minute"`
}

type WatcherConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

type MCPConfig struct {
	Transport string `mapstructure:"transport" yaml:"transport"`
	Name      string `mapstructure:"name" yaml:"name"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Transports accepted by mcp.transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Defaults, also registered with viper by SetDefaults.
const (
	DefaultPresetsRoot            = "./presets"
	DefaultExtends                = "glassmorphic-base"
	DefaultHost                   = "localhost"
	DefaultPort                   = 3000
	DefaultWriteRequestsPerMinute = 20
	DefaultDebounce               = 300 * time.Millisecond
	DefaultMCPName                = "ogglass"
)

// legacyEnv maps environment variables used by earlier deployments to keys.
var legacyEnv = map[string]string{
	"presets.watch": "WATCH_PRESETS",
	"server.port":   "PORT",
	"mcp.transport": "TRANSPORT",
	"presets.root":  "PRESETS_DIR",
}

// SetDefaults registers every default with v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("presets.root", DefaultPresetsRoot)
	v.SetDefault("presets.watch", false)
	v.SetDefault("presets.default_extends", DefaultExtends)
	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.write_requests_per_minute", DefaultWriteRequestsPerMinute)
	v.SetDefault("watcher.debounce", DefaultDebounce)
	v.SetDefault("mcp.transport", TransportStdio)
	v.SetDefault("mcp.name", DefaultMCPName)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// BindEnv wires OGGLASS_* variables and the legacy aliases into v. The
// prefixed variable wins when both are set.
func BindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.NewReplacer(".", "_").Replace(key))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}
	return nil
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom unmarshals v, fills in defaults for values left empty and
// validates the result.
func LoadFrom(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, apperrors.NewConfigError(apperrors.ErrCodeConfigInvalid, "decoding configuration: "+err.Error())
	}

	// Origins may arrive as one comma-separated env value
	var origins []string
	for _, origin := range config.Server.AllowedOrigins {
		origins = append(origins, splitList(origin)...)
	}
	config.Server.AllowedOrigins = origins

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, apperrors.NewConfigError(apperrors.ErrCodeConfigInvalid, "invalid configuration: "+err.Error())
	}

	return &config, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	config, err := LoadFrom(v)
	if err != nil {
		panic(err)
	}
	return config
}

func applyDefaults(config *Config) {
	if config.Presets.Root == "" {
		config.Presets.Root = DefaultPresetsRoot
	}
	if config.Presets.DefaultExtends == "" {
		config.Presets.DefaultExtends = DefaultExtends
	}
	if config.Server.Host == "" {
		config.Server.Host = DefaultHost
	}
	if config.RateLimit.WriteRequestsPerMinute == 0 {
		config.RateLimit.WriteRequestsPerMinute = DefaultWriteRequestsPerMinute
	}
	if config.Watcher.Debounce == 0 {
		config.Watcher.Debounce = DefaultDebounce
	}
	if config.MCP.Transport == "" {
		config.MCP.Transport = TransportStdio
	}
	config.MCP.Transport = strings.ToLower(config.MCP.Transport)
	if config.MCP.Name == "" {
		config.MCP.Name = DefaultMCPName
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}
	if config.Server.AllowedOrigins == nil {
		config.Server.AllowedOrigins = []string{}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
