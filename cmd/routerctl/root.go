package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"intent-router/config"
	"intent-router/internal/bootstrap"
	"intent-router/pkg/log"
)

var (
	flagConfig  string
	flagVerbose bool
	flagJSON    bool
)

var rootCmd = &cobra.Command{
	Use:          "routerctl",
	Short:        "Route queries and manage the intent router index",
	SilenceUsage: true,
	Long: `routerctl loads the same config.yaml as the API server and runs the
router in-process: route or answer a query, list routes, or resync the index.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", os.Getenv("CONFIG_PATH"), "path to config.yaml")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log with the configured logger")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "print JSON instead of text")
}

// openApp loads config and builds the assistant. The caller closes it.
func openApp(cmd *cobra.Command) (*bootstrap.App, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w", err)
	}

	logger := log.NewNop()
	if flagVerbose {
		logger = log.Init(log.ZapConfig{
			Level:        cfg.Logger.Level,
			Mode:         cfg.Logger.Mode,
			Encoding:     cfg.Logger.Encoding,
			ColorEnabled: cfg.Logger.ColorEnabled,
		})
	}
	return bootstrap.Build(cmd.Context(), cfg, logger)
}

// openWarmApp is openApp followed by the startup sync.
func openWarmApp(cmd *cobra.Command) (*bootstrap.App, error) {
	app, err := openApp(cmd)
	if err != nil {
		return nil, err
	}
	if err := app.Warmup(cmd.Context()); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
