package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "assetcopier",
		Short: "Copy FluentUI Emoji 3D assets into the project asset directory",
		Long: `Assetcopier copies the emoji PNG files named in asset-mapping.json from a
local FluentUI Emoji checkout into the project's assets directory.

Each mapping entry pairs a category and id with a FluentUI asset folder. The
image found in <source>/<folder>/3D is copied to <target>/<category>/<id>.png.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().String("config", "", "Config file (default: .assetcopier.yaml in the working directory)")
	cmd.PersistentFlags().String("source", "", "FluentUI Emoji assets directory (env ASSETCOPIER_SOURCE_DIR)")
	cmd.PersistentFlags().String("target", "", "Project asset directory (env ASSETCOPIER_TARGET_DIR)")
	cmd.PersistentFlags().String("mapping", "", "Mapping file, relative to the target directory (env ASSETCOPIER_MAPPING)")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	cmd.AddCommand(newCopyCmd())
	cmd.AddCommand(newVerifyCmd())

	return cmd
}
