package importers

import (
	"context"
	"fmt"

	"github.com/slipway-sh/slipway/internal/blueprint"
	"github.com/slipway-sh/slipway/internal/discovery"
	"github.com/slipway-sh/slipway/internal/filesystems"
)

const maxDepth = 4

// Scan walks rootPath, imports every recognized deployment config and
// aggregates the fragments into a blueprint. Broken configs are skipped;
// Scan fails only when nothing at all could be imported.
func Scan(ctx context.Context, filesystem filesystems.FileSystem, rootPath string, importers []Importer) (*blueprint.Blueprint, error) {
	if len(importers) == 0 {
		importers = DefaultImporters()
	}

	var fragments []Fragment
	var lastErr error

	type walkItem struct {
		path  string
		depth int
	}
	stack := []walkItem{{path: rootPath, depth: 0}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if current.depth > maxDepth {
			continue
		}
		if current.depth > 0 && discovery.IgnoreDirectory(filesystem.Base(current.path)) {
			continue
		}

		for entry, err := range filesystem.ReadDir(current.path) {
			if err != nil {
				if current.depth == 0 {
					return nil, fmt.Errorf("failed to read %s: %w", current.path, err)
				}
				continue
			}

			if entry.IsDir() {
				stack = append(stack, walkItem{
					path:  filesystem.Join(current.path, entry.Name()),
					depth: current.depth + 1,
				})
				continue
			}

			for _, importer := range importers {
				if !importer.CanImport(entry.Name()) {
					continue
				}

				path := filesystem.Join(current.path, entry.Name())
				fragment, err := importer.Import(ctx, filesystem, path)
				if err != nil {
					lastErr = fmt.Errorf("%s: %w", path, err)
					continue // skip broken configs
				}
				fragments = append(fragments, fragment)
				break // first matching importer wins
			}
		}
	}

	if len(fragments) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, fmt.Errorf("no deployment configs found under %s", rootPath)
	}

	return Aggregate(fragments)
}
