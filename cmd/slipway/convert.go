package slipway

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/slipway-sh/slipway/internal/blueprint"
	"github.com/slipway-sh/slipway/internal/filesystems"
	"github.com/slipway-sh/slipway/internal/importers"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [source-path]",
	Short: "Generate a blueprint from other deployment configs",
	Long: `Convert scans the source tree for deployment configs it understands
(docker-compose, fly.toml, skaffold.yaml, Procfile, app.json) and emits an
equivalent render.yaml blueprint. Sensitive and unset env vars come out as
sync: false declarations, never as literal values.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		from, _ := cmd.Flags().GetString("from")
		return runConvert(cmd.Context(), sourcePathFromArgs(args), out, from)
	},
}

func runConvert(ctx context.Context, sourcePath, out, from string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	selected, err := selectImporters(from)
	if err != nil {
		return err
	}

	filesystem, err := filesystems.NewFileSystem(sourcePath)
	if err != nil {
		return err
	}

	bp, err := importers.Scan(ctx, filesystem, filesystems.BasePath(sourcePath), selected)
	if err != nil {
		return err
	}

	output, err := blueprint.Marshal(bp)
	if err != nil {
		return err
	}

	if out == "" || out == "-" {
		fmt.Print(string(output))
		return nil
	}

	if err := os.WriteFile(out, output, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Printf("wrote %d service(s) to %s\n", len(bp.Services), out)
	return nil
}

// selectImporters narrows the importer set to a single named format, or
// returns all of them when from is empty.
func selectImporters(from string) ([]importers.Importer, error) {
	if from == "" {
		return nil, nil
	}

	var known []string
	for _, importer := range importers.DefaultImporters() {
		if importer.Name() == from {
			return []importers.Importer{importer}, nil
		}
		known = append(known, importer.Name())
	}

	return nil, fmt.Errorf("unknown format %q (want one of %s)", from, strings.Join(known, ", "))
}

func init() {
	convertCmd.Flags().String("out", "", "write the blueprint to this file instead of stdout")
	convertCmd.Flags().String("from", "", "only import this format (docker-compose, fly, skaffold, procfile, heroku-app-json)")
	rootCmd.AddCommand(convertCmd)
}
