// Package cmd provides the ogglass command-line interface.
//
// Configuration is read, highest priority first, from command-line flags,
// OGGLASS_* environment variables (plus the legacy PORT, TRANSPORT,
// PRESETS_DIR and WATCH_PRESETS), the file named by --config or
// OGGLASS_CONFIG_FILE, and finally .ogglass.yml in the working directory.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ncsound919/OG-Glass/internal/config"
	"github.com/ncsound919/OG-Glass/internal/logging"
	"github.com/ncsound919/OG-Glass/internal/presets"
	"github.com/ncsound919/OG-Glass/internal/services"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ogglass",
	Short: "Design-token preset server for glassmorphic UI",
	Long: `ogglass serves design-token presets to coding assistants and browsers.

It loads preset bundles (tokens, component templates and layouts) with
inheritance, resolves {{token:path}} placeholders, exports tokens as CSS,
JS, JSON or Tailwind, and validates or corrects component code against the
active preset.

Quick Start:
  ogglass serve                       Start the REST API, dashboard and /mcp endpoint
  ogglass mcp                         Speak MCP over stdio
  ogglass presets list                List available presets
  ogglass tokens export glassmorphic-base --format css
  ogglass validate glassmorphic-base ./Sidebar.tsx`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Assigned here rather than in the literal to avoid an initialization
	// cycle (initConfig refers to rootCmd).
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return initConfig()
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is .ogglass.yml, can also use OGGLASS_CONFIG_FILE)")
	rootCmd.PersistentFlags().String("presets", "", "presets root directory")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
}

// initConfig wires defaults, environment and the optional config file into
// the global viper instance. A missing default file is not an error; a
// missing explicit one is.
func initConfig() error {
	for key, name := range map[string]string{"presets.root": "presets", "log.level": "log-level"} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}

	config.SetDefaults(viper.GetViper())
	if err := config.BindEnv(viper.GetViper()); err != nil {
		return err
	}

	explicit := cfgFile
	if explicit == "" {
		explicit = os.Getenv(config.EnvPrefix + "_CONFIG_FILE")
	}

	if explicit != "" {
		viper.SetConfigFile(explicit)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(config.FileName)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound && explicit == "" {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

// app bundles what most commands need.
type app struct {
	config *config.Config
	logger logging.Logger
	studio *services.Studio
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := logging.NewLogger(cfg.LoggerConfig())

	store, err := presets.NewStore(cfg.Presets.Root, logger)
	if err != nil {
		return nil, err
	}

	studio := services.NewStudio(store, services.Options{
		DefaultExtends: cfg.Presets.DefaultExtends,
		Logger:         logger,
	})

	return &app{config: cfg, logger: logger, studio: studio}, nil
}

// newAppWithPreset is newApp followed by activating id.
func newAppWithPreset(ctx context.Context, id string) (*app, error) {
	a, err := newApp()
	if err != nil {
		return nil, err
	}
	if _, err := a.studio.LoadPreset(ctx, id, false); err != nil {
		return nil, err
	}
	return a, nil
}
