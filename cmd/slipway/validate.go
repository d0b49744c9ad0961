package slipway

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/slipway-sh/slipway/internal/blueprint"
	"github.com/slipway-sh/slipway/internal/discovery"
	"github.com/slipway-sh/slipway/internal/filesystems"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var validateCmd = &cobra.Command{
	Use:   "validate [source-path]",
	Short: "Check deployment manifests against the platform's schema rules",
	Long: `Validate finds every render.yaml under the source tree, parses each
one strictly, and runs the full rule set: service shape, runtime and command
requirements, env var sources, cross-references and Dockerfile resolution.

With --env-file, variables marked sync: false are additionally checked
against the given file, since their values must exist out-of-band before a
service can start.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd, sourcePathFromArgs(args))
	},
}

func addValidateFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("strict", false, "treat warnings as errors")
	cmd.Flags().String("env-file", "", "check sync: false vars against this dotenv file")
	cmd.Flags().String("format", "text", "output format (text, json)")
}

type manifestResult struct {
	Path     string              `json:"path"`
	Findings []blueprint.Finding `json:"findings"`
	ParseErr string              `json:"parseError,omitempty"`
}

func runValidate(cmd *cobra.Command, sourcePath string) error {
	strict, _ := cmd.Flags().GetBool("strict")
	envFile, _ := cmd.Flags().GetString("env-file")
	format, _ := cmd.Flags().GetString("format")

	var provided map[string]string
	if envFile != "" {
		env, err := godotenv.Read(envFile)
		if err != nil {
			return fmt.Errorf("failed to read env file: %w", err)
		}
		provided = env
	}

	filesystem, err := filesystems.NewFileSystem(sourcePath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	manifests, err := findManifests(ctx, filesystem, sourcePath)
	if err != nil {
		return err
	}
	if len(manifests) == 0 {
		return fmt.Errorf("no deployment manifests found under %s", sourcePath)
	}

	results := make([]manifestResult, len(manifests))

	// Manifests validate independently; check them concurrently.
	group, groupCtx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	for i, manifest := range manifests {
		group.Go(func() error {
			result := validateManifest(groupCtx, filesystem, manifest, provided)
			mu.Lock()
			results[i] = result
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	if format == "json" {
		output, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
	} else {
		printResults(results)
	}

	return summarize(results, strict)
}

func validateManifest(ctx context.Context, filesystem filesystems.FileSystem, manifest discovery.Manifest, provided map[string]string) manifestResult {
	result := manifestResult{Path: manifest.Path}

	bp, err := blueprint.ParseFile(filesystem, manifest.Path)
	if err != nil {
		result.ParseErr = err.Error()
		return result
	}

	validator := blueprint.NewValidator(filesystem, manifest.Dir)
	result.Findings = validator.Validate(ctx, bp)

	if provided != nil {
		result.Findings = append(result.Findings, blueprint.CheckEnvFile(bp, provided)...)
	}

	return result
}

// findManifests resolves the source path to manifests: a direct file path
// is taken as-is, a directory is walked.
func findManifests(ctx context.Context, filesystem filesystems.FileSystem, sourcePath string) ([]discovery.Manifest, error) {
	basePath := filesystems.BasePath(sourcePath)

	if info, err := filesystem.Stat(basePath); err == nil && !info.IsDir() {
		return []discovery.Manifest{{Path: basePath, Dir: filesystem.Dir(basePath)}}, nil
	}

	return discovery.NewFinder(filesystem).Find(ctx, basePath)
}

func printResults(results []manifestResult) {
	for _, result := range results {
		if result.ParseErr != "" {
			fmt.Printf("%s\n  error: %s\n", result.Path, result.ParseErr)
			continue
		}

		if len(result.Findings) == 0 {
			fmt.Printf("%s: ok\n", result.Path)
			continue
		}

		fmt.Println(result.Path)
		for _, finding := range result.Findings {
			fmt.Printf("  %s\n", finding)
		}
	}
}

func summarize(results []manifestResult, strict bool) error {
	errors, warnings := 0, 0
	for _, result := range results {
		if result.ParseErr != "" {
			errors++
		}
		for _, finding := range result.Findings {
			if finding.Severity == blueprint.SeverityError {
				errors++
			} else {
				warnings++
			}
		}
	}

	if errors > 0 || (strict && warnings > 0) {
		return fmt.Errorf("%d error(s), %d warning(s)", errors, warnings)
	}

	if warnings > 0 {
		fmt.Printf("%d warning(s)\n", warnings)
	}
	return nil
}

func init() {
	addValidateFlags(validateCmd)
	rootCmd.AddCommand(validateCmd)
}
