package discovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/slipway-sh/slipway/internal/filesystems"
)

// Manifest is a blueprint file located during a tree walk.
type Manifest struct {
	Path string // path to the render.yaml
	Dir  string // directory containing it, the base for relative references
}

// manifestNames are the filenames the platform recognizes, matched
// case-insensitively.
var manifestNames = []string{"render.yaml", "render.yml"}

var excludePatterns = []string{
	// Dependencies
	"node_modules", "vendor", "bower_components",
	"venv", "env",
	"target", "deps", "_build",

	// Build outputs
	"dist", "build", "out", ".next", ".nuxt", ".output",
	"bin", "obj",

	// Temporary
	"tmp", "temp", "cache", "logs", "coverage",
}

const maxDepth = 4

// Finder walks a source tree and collects deployment manifests.
type Finder struct {
	filesystem filesystems.FileSystem
}

func NewFinder(filesystem filesystems.FileSystem) *Finder {
	return &Finder{filesystem: filesystem}
}

type walkItem struct {
	path  string
	depth int
}

// Find walks rootPath up to a fixed depth and returns every manifest it
// encounters, skipping dependency and build directories. Unreadable
// directories are skipped rather than failing the whole walk.
func (f *Finder) Find(ctx context.Context, rootPath string) ([]Manifest, error) {
	var manifests []Manifest

	// Stack-based walk instead of recursion
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

		if current.depth > 0 && IgnoreDirectory(f.filesystem.Base(current.path)) {
			continue
		}

		for entry, err := range f.filesystem.ReadDir(current.path) {
			if err != nil {
				if current.depth == 0 {
					return nil, fmt.Errorf("failed to read %s: %w", current.path, err)
				}
				continue
			}

			if entry.IsDir() {
				stack = append(stack, walkItem{
					path:  f.filesystem.Join(current.path, entry.Name()),
					depth: current.depth + 1,
				})
				continue
			}

			if isManifestName(entry.Name()) {
				path := f.filesystem.Join(current.path, entry.Name())
				manifests = append(manifests, Manifest{Path: path, Dir: current.path})
			}
		}
	}

	return manifests, nil
}

func isManifestName(name string) bool {
	for _, candidate := range manifestNames {
		if strings.EqualFold(name, candidate) {
			return true
		}
	}
	return false
}

// IgnoreDirectory reports whether a directory name should be skipped
// during tree walks (dependencies, build outputs, hidden directories).
func IgnoreDirectory(dirName string) bool {
	for _, pattern := range excludePatterns {
		if strings.EqualFold(dirName, pattern) {
			return true
		}
	}

	// Ignore hidden and underscore-prefixed directories
	if strings.HasPrefix(dirName, "_") || (strings.HasPrefix(dirName, ".") && len(dirName) > 1) {
		return true
	}

	return false
}
