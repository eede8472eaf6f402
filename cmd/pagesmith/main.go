// Package main is the entry point for the Pagesmith server and its
// maintenance commands.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"pagesmith/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "pagesmith",
	Short: "AI website generator",
	Long: `Pagesmith turns a short business description into a complete website
by filling a curated HTML template with generated content, photos and
the customer's brand colors.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "pagesmith.yaml", "config file path (optional)")
	rootCmd.AddCommand(serveCmd, migrateCmd, injectCmd, cacheCmd, creditsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and installs the default logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	slog.SetDefault(newLogger(cfg))
	return cfg, nil
}

// newLogger outputs JSON in production, text in development.
func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.IsDev() {
		opts.Level = slog.LevelDebug
	}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
