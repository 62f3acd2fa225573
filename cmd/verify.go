package cmd

import (
	"fmt"

	"github.com/kawaiicleanup/assetcopier/internal/copier"
	"github.com/kawaiicleanup/assetcopier/internal/manifest"
	"github.com/kawaiicleanup/assetcopier/internal/mapping"
	"github.com/spf13/cobra"
)

func newVerifyCmd() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that every mapped asset exists in the target directory",
		Long: `Check that <target>/<category>/<id>.png exists for every mapping entry.

Nothing is copied. With --manifest, files recorded as copied in an earlier run
are also re-hashed to detect edits or deletions since that run.`,
		Example: `  # Check the default asset directory
  assetcopier verify

  # Also compare against the manifest written by copy
  assetcopier verify --manifest build/assets-manifest.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			m, err := mapping.NewLoader(cfg.MappingPath()).Load()
			if err != nil {
				return fmt.Errorf("failed to load mapping: %w", err)
			}

			result := copier.Verify(cfg.TargetDir, m)
			copier.PrintVerify(cmd.OutOrStdout(), result)

			stale := 0
			if manifestPath != "" {
				stale, err = checkManifest(cmd, manifestPath)
				if err != nil {
					return err
				}
			}

			if !result.OK() || stale > 0 {
				return fmt.Errorf("verification failed: %d missing, %d changed since last copy", result.Missing, stale)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "Manifest written by copy to compare against")

	return cmd
}

func checkManifest(cmd *cobra.Command, path string) (int, error) {
	records, err := manifest.LoadRecords(path)
	if err != nil {
		return 0, fmt.Errorf("failed to load manifest: %w", err)
	}

	stale, err := manifest.Stale(records)
	if err != nil {
		return 0, err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nManifest: %s (%d records)\n", path, len(records))
	for _, r := range stale {
		fmt.Fprintf(out, "   ✗ Changed: %s (from %s)\n", r.Destination, r.Source)
	}
	fmt.Fprintf(out, "  Changed since last copy: %d\n", len(stale))

	return len(stale), nil
}
