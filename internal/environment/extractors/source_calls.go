package extractors

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/slipway-sh/slipway/internal/environment/types"
)

// SourceCallExtractor finds environment variables that application source
// reads at runtime. Usage reveals what a service actually needs, which the
// report cross-references against the blueprint's declarations.
type SourceCallExtractor struct{}

func NewSourceCallExtractor() *SourceCallExtractor {
	return &SourceCallExtractor{}
}

var sourceExts = map[string]bool{
	".js": true, ".ts": true, ".jsx": true, ".tsx": true, ".mjs": true,
	".py": true, ".rb": true, ".php": true, ".java": true,
	".go": true, ".rs": true, ".cs": true,
	".sh": true, ".bash": true,
}

func (s *SourceCallExtractor) CanHandle(filename string) bool {
	return sourceExts[strings.ToLower(filepath.Ext(filename))]
}

func (s *SourceCallExtractor) Confidence() int {
	return 50 // usage patterns, not declarations
}

var sourceCallPatterns = []*regexp.Regexp{
	// process.env.VAR_NAME (JavaScript/TypeScript)
	regexp.MustCompile(`process\.env\.([A-Z_][A-Z0-9_]*)`),

	// os.getenv('VAR_NAME') / os.environ['VAR_NAME'] (Python)
	regexp.MustCompile(`os\.getenv\(\s*['"]([A-Z_][A-Z0-9_]*)['"]`),
	regexp.MustCompile(`os\.environ\[['"]([A-Z_][A-Z0-9_]*)['"]\]`),

	// ENV['VAR_NAME'] (Ruby)
	regexp.MustCompile(`ENV\[['"]([A-Z_][A-Z0-9_]*)['"]\]`),

	// System.getenv("VAR_NAME") (Java)
	regexp.MustCompile(`System\.getenv\("([A-Z_][A-Z0-9_]*)"\)`),

	// os.Getenv("VAR_NAME") / os.LookupEnv("VAR_NAME") (Go)
	regexp.MustCompile(`os\.(?:Getenv|LookupEnv)\("([A-Z_][A-Z0-9_]*)"\)`),

	// std::env::var("VAR_NAME") (Rust)
	regexp.MustCompile(`std::env::var\("([A-Z_][A-Z0-9_]*)"\)`),

	// $VAR_NAME (shell) - not in comments or strings
	regexp.MustCompile(`(?:^|[^#"'$])\$\{?([A-Z_][A-Z0-9_]{2,})\}?`),
}

func (s *SourceCallExtractor) Extract(ctx context.Context, filename string, content []byte) ([]types.EnvResult, error) {
	if isTestFile(filename) {
		return nil, nil
	}

	contentStr := string(content)
	found := make(map[string]bool)
	var results []types.EnvResult

	for _, pattern := range sourceCallPatterns {
		for _, match := range pattern.FindAllStringSubmatch(contentStr, -1) {
			if len(match) < 2 {
				continue
			}

			varName := match[1]
			if found[varName] || types.ShouldIgnore(varName) {
				continue
			}
			found[varName] = true

			envType, sensitive := types.ClassifyEnvVar(varName, "")
			results = append(results, types.EnvResult{
				VarName:    varName,
				Type:       envType,
				Sensitive:  sensitive,
				Source:     fmt.Sprintf("usage:%s", filename),
				Confidence: s.Confidence(),
			})
		}
	}

	return results, nil
}

func isTestFile(filename string) bool {
	name := strings.ToLower(filepath.Base(filename))
	return strings.Contains(name, "_test") ||
		strings.Contains(name, ".test.") ||
		strings.Contains(name, ".spec.") ||
		strings.HasPrefix(name, "test_")
}
