package slipway

import (
	"context"
	"fmt"

	"github.com/slipway-sh/slipway/internal/blueprint"
	"github.com/slipway-sh/slipway/internal/environment"
	"github.com/slipway-sh/slipway/internal/filesystems"
	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "env [source-path]",
	Short: "Report the environment each declared service needs",
	Long: `Env joins three views of a service's environment: what the manifest
declares (including sync: false vars that must be supplied out-of-band),
what nearby .env files and Dockerfiles set, and what the application source
actually reads. Variables the source reads without a matching declaration
are called out.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEnv(cmd.Context(), sourcePathFromArgs(args))
	},
}

func runEnv(ctx context.Context, sourcePath string) error {
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

		reports, err := environment.BuildReports(ctx, filesystem, manifest.Dir, bp)
		if err != nil {
			return err
		}

		for _, report := range reports {
			printReport(report)
		}
	}

	return nil
}

func printReport(report environment.Report) {
	fmt.Printf("=== %s ===\n", report.Service)

	if len(report.Declared) == 0 {
		fmt.Println("  no declared environment variables")
	}
	for _, declared := range report.Declared {
		marker := ""
		if declared.Required {
			marker = " [REQUIRED AT DEPLOY]"
		} else if declared.Sensitive {
			marker = " [SENSITIVE]"
		}
		fmt.Printf("  %s  (%s)%s\n", declared.Key, declared.Source, marker)
	}

	if len(report.Undeclared) > 0 {
		fmt.Println("  read by source but not declared:")
		for _, result := range report.Undeclared {
			fmt.Printf("    %s  (%s)\n", result.VarName, result.Source)
		}
	}

	fmt.Println()
}

func init() {
	rootCmd.AddCommand(envCmd)
}
