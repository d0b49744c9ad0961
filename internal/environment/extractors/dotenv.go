package extractors

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/slipway-sh/slipway/internal/environment/types"
)

type DotEnvExtractor struct{}

func NewDotEnvExtractor() *DotEnvExtractor {
	return &DotEnvExtractor{}
}

func (d *DotEnvExtractor) CanHandle(filename string) bool {
	base := strings.ToLower(filepath.Base(filename))
	return strings.HasPrefix(base, ".env")
}

func (d *DotEnvExtractor) Confidence() int {
	return 85 // explicit env files
}

func (d *DotEnvExtractor) Extract(ctx context.Context, filename string, content []byte) ([]types.EnvResult, error) {
	env, err := godotenv.Unmarshal(string(content))
	if err != nil {
		return nil, err
	}

	var results []types.EnvResult
	confidence := d.fileConfidence(filepath.Base(filename))

	for key, value := range env {
		if types.ShouldIgnore(key) {
			continue
		}

		envType, sensitive := types.ClassifyEnvVar(key, value)
		results = append(results, types.EnvResult{
			VarName:    key,
			Value:      value,
			Type:       envType,
			Sensitive:  sensitive,
			Source:     fmt.Sprintf("dotenv:%s", filename),
			Confidence: confidence,
		})
	}

	return results, nil
}

func (d *DotEnvExtractor) fileConfidence(filename string) int {
	switch {
	case filename == ".env":
		return 85
	case strings.Contains(filename, "production"):
		return 90
	case strings.Contains(filename, "example") || strings.Contains(filename, "sample"):
		return 30 // templates, values are placeholders
	default:
		return 75
	}
}
