package environment

import (
	"context"

	"github.com/slipway-sh/slipway/internal/environment/extractors"
	"github.com/slipway-sh/slipway/internal/environment/types"
	"github.com/slipway-sh/slipway/internal/filesystems"
)

type Extractor struct {
	filesystem filesystems.FileSystem
	extractors []extractors.ContentExtractor
}

func NewExtractor(filesystem filesystems.FileSystem) *Extractor {
	return &Extractor{
		filesystem: filesystem,
		extractors: []extractors.ContentExtractor{
			extractors.NewDotEnvExtractor(),
			extractors.NewDockerfileExtractor(),
			extractors.NewSourceCallExtractor(),
		},
	}
}

// Extract applies every extractor that can handle the file and streams the
// results. Extractor errors on individual files are skipped.
func (e *Extractor) Extract(ctx context.Context, filename string, content []byte) <-chan types.EnvResult {
	results := make(chan types.EnvResult, 32)

	go func() {
		defer close(results)

		for _, extractor := range e.extractors {
			if !extractor.CanHandle(filename) {
				continue
			}

			envResults, err := extractor.Extract(ctx, filename, content)
			if err != nil {
				continue
			}

			for _, result := range envResults {
				select {
				case results <- result:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return results
}
