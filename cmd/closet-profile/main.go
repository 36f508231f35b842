package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/terra-clan/closet-profile/internal/config"
)

func main() {
	root := &cobra.Command{
		Use:   "closet-profile",
		Short: "Closet design questionnaire with PDF summaries",
		Long: `closet-profile serves the closet design questionnaire, keeps client
sessions and turns completed answers into a one-page PDF summary.`,
		SilenceUsage: true,
	}

	root.AddCommand(serveCmd())
	root.AddCommand(renderCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging installs the process-wide slog handler
func setupLogging(cfg config.LogConfig) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
