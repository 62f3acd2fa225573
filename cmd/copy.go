package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/kawaiicleanup/assetcopier/internal/config"
	"github.com/kawaiicleanup/assetcopier/internal/copier"
	"github.com/kawaiicleanup/assetcopier/internal/manifest"
	"github.com/spf13/cobra"
)

func newCopyCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy every mapped asset from the FluentUI Emoji checkout",
		Long: `Copy every asset listed in the mapping file into the target directory.

Every run recopies everything; existing files are overwritten. Entries whose
source folder or 3D PNG cannot be found are reported as missing and the run
continues. A missing source directory, target directory or mapping file stops
the run before anything is written.`,
		Example: `  # Copy using the defaults (/tmp/fluentui-emoji/assets -> ./assets)
  assetcopier copy

  # Use a different checkout and record what was copied
  assetcopier copy --source ~/src/fluentui-emoji/assets --manifest build/assets-manifest.json

  # Show what would be copied without writing anything
  assetcopier copy --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			return executeCopy(cmd, cfg, dryRun)
		},
	}

	cmd.Flags().String("manifest", "", "Write a run manifest (.json, .jsonl, .yaml or .parquet)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve every entry without copying")

	return cmd
}

func executeCopy(cmd *cobra.Command, cfg *config.Config, dryRun bool) error {
	c := copier.New(*cfg, cmd.OutOrStdout(), copier.WithDryRun(dryRun))

	result, err := c.Run(cmd.Context())
	if errors.Is(err, copier.ErrSourceNotFound) {
		return fmt.Errorf("%w\n\nPlease ensure the FluentUI Emoji repository is cloned:\n  git clone https://github.com/microsoft/fluentui-emoji %s",
			err, filepath.Dir(cfg.SourceDir))
	}
	if err != nil {
		return err
	}

	if cfg.ManifestPath == "" || dryRun {
		return nil
	}

	if err := manifest.Save(manifest.New(*cfg, result), cfg.ManifestPath); err != nil {
		return fmt.Errorf("failed to save manifest: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nManifest saved to: %s\n", cfg.ManifestPath)

	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	return config.Load(configFile, cmd.Flags())
}
