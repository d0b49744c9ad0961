package extractors

import (
	"context"

	"github.com/slipway-sh/slipway/internal/environment/types"
)

// ContentExtractor pulls environment variables out of one kind of file.
type ContentExtractor interface {
	// Extract environment variables from file content
	Extract(ctx context.Context, filename string, content []byte) ([]types.EnvResult, error)

	// CanHandle returns true if this extractor can process the given file
	CanHandle(filename string) bool

	// Confidence returns the confidence level for this extractor (0-100)
	Confidence() int
}
