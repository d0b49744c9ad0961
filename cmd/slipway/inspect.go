package slipway

import (
	"context"
	"fmt"

	"github.com/slipway-sh/slipway/internal/blueprint"
	"github.com/slipway-sh/slipway/internal/export"
	"github.com/slipway-sh/slipway/internal/filesystems"
	"github.com/slipway-sh/slipway/internal/schema"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [source-path]",
	Short: "Show the normalized view of discovered manifests",
	Long: `Inspect parses each discovered manifest and prints the normalized
project model: services with their runtimes, commands and resolved
environment, plus managed databases.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		return runInspect(cmd.Context(), sourcePathFromArgs(args), format)
	},
}

func runInspect(ctx context.Context, sourcePath, format string) error {
	exporter := export.ByName(format)
	if exporter == nil {
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	filesystem, err := filesystems.NewFileSystem(sourcePath)
	if err != nil {
		return err
	}

	manifests, err := findManifests(ctx, filesystem, sourcePath)
	if err != nil {
		return err
	}
	if len(manifests) == 0 {
		return fmt.Errorf("no deployment manifests found under %s", sourcePath)
	}

	for _, manifest := range manifests {
		bp, err := blueprint.ParseFile(filesystem, manifest.Path)
		if err != nil {
			fmt.Printf("skipping %s: %v\n", manifest.Path, err)
			continue
		}

		project := schema.FromBlueprint(filesystem.Base(manifest.Dir), bp)
		output, err := exporter.Export(project)
		if err != nil {
			return fmt.Errorf("%s export failed: %w", exporter.Name(), err)
		}

		fmt.Println(string(output))
	}

	return nil
}

func init() {
	inspectCmd.Flags().String("format", "json", "output format (json, yaml)")
	rootCmd.AddCommand(inspectCmd)
}
