package main

import (
	"fmt"
	"log/slog"
	"os"

	"zonajp/internal/config"
	"zonajp/internal/content"

	"github.com/spf13/cobra"
)

var (
	version     = "1.0.0"
	logger      *slog.Logger
	envFile     string // overridable via --env-file
	contentPath string // overridable via --content, falls back to CONTENT_FILE
)

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := newRootCmd().Execute(); err != nil {
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "zonajp",
		Short: "Zona JP Bot: Telegram auto-replies and scheduled broadcasts",
		Long: "Runs the Zona JP Telegram bot. With no subcommand it behaves like 'serve':\n" +
			"answers commands and keywords, sends the daily broadcasts and serves GET / for uptime checks.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadDotEnv(envFile)
		},
		RunE: runServe,
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "dotenv file loaded before reading the environment")
	root.PersistentFlags().StringVar(&contentPath, "content", "", "YAML file overriding reply and broadcast texts (default: $CONTENT_FILE)")

	root.AddCommand(serveCmd())
	root.AddCommand(scheduleCmd())
	root.AddCommand(triggerCmd())
	root.AddCommand(versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "zonajp v%s\n", version)
		},
	}
}

// loadContent resolves the content file from --content or the config.
func loadContent(cfg *config.Config) (*content.Catalog, error) {
	path := contentPath
	if path == "" {
		path = cfg.ContentFile
	}
	cat, err := content.Load(path)
	if err != nil {
		return nil, err
	}
	if path != "" {
		logger.Info("content loaded", "path", path)
	}
	return cat, nil
}
