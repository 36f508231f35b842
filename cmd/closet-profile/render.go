package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/terra-clan/closet-profile/internal/catalog"
	"github.com/terra-clan/closet-profile/internal/config"
	"github.com/terra-clan/closet-profile/internal/delivery"
	"github.com/terra-clan/closet-profile/internal/export"
	"github.com/terra-clan/closet-profile/internal/models"
)

func renderCmd() *cobra.Command {
	var (
		answersPath string
		outPath     string
		catalogPath string
		fontDir     string
		logoPath    string
		signature   string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a PDF summary from an answers file",
		Long: `Render a PDF summary offline from a JSON answers file, the same
document a client receives after finishing the questionnaire.

The answers file holds the form state as stored with a session:
  {"ranked": ["Shoes"], "balance": 30, "single": "Natural Oak", ...}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(config.LogConfig{Level: "warn", Format: "text"})

			cat, err := catalog.Load(catalogPath)
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}

			form, err := readAnswers(cat, answersPath)
			if err != nil {
				return err
			}

			engineCfg := export.EngineConfig{FontDir: fontDir, LogoPath: logoPath, Signature: signature}
			if hw, ok := cat.DualCategories(); ok {
				engineCfg.Hardware = hw
			}

			now := time.Now()
			doc, err := export.NewEngine(engineCfg).Export(cmd.Context(), form, now)
			if err != nil {
				return fmt.Errorf("failed to render summary: %w", err)
			}

			if outPath == "" {
				outPath = delivery.Filename(form.Contact.Name, now)
			}
			if err := os.WriteFile(outPath, doc.Bytes, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", outPath, len(doc.Bytes))
			return nil
		},
	}

	cmd.Flags().StringVar(&answersPath, "answers", "", "JSON answers file (required)")
	cmd.Flags().StringVar(&outPath, "out", "", "output PDF path (default: \"<name> - <date>.pdf\")")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML or TOML flow file (default: built-in flow)")
	cmd.Flags().StringVar(&fontDir, "font-dir", "", "directory with Regular/Bold/Italic.ttf")
	cmd.Flags().StringVar(&logoPath, "logo", "", "PNG logo for the header")
	cmd.Flags().StringVar(&signature, "signature", "", "signature line under the summary")
	cmd.MarkFlagRequired("answers")

	return cmd
}

// readAnswers decodes an answers file over the catalog defaults
func readAnswers(cat *catalog.Catalog, path string) (*models.FormState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answers: %w", err)
	}

	form := cat.NewFormState()
	if err := json.Unmarshal(data, form); err != nil {
		return nil, fmt.Errorf("failed to parse answers: %w", err)
	}
	form.Normalize(cat.MaxPicks(), cat.TextMax())

	slog.Debug("answers loaded", "path", path, "ranked", len(form.Ranked))
	return form, nil
}
