package filesystems

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// NewFileSystem creates a filesystem for the given source. Plain paths and
// file:// URIs map to the local filesystem; anything else is rejected so
// callers get a clear error instead of a silent empty walk.
func NewFileSystem(source string) (FileSystem, error) {
	if !strings.Contains(source, "://") {
		if _, err := filepath.Abs(source); err != nil {
			return nil, fmt.Errorf("failed to resolve path %s: %w", source, err)
		}
		return NewLocalFS(), nil
	}

	parsed, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("invalid source %s: %w", source, err)
	}

	switch parsed.Scheme {
	case "file":
		return NewLocalFS(), nil
	default:
		return nil, fmt.Errorf("unsupported scheme: %s", parsed.Scheme)
	}
}

// BasePath returns the walk root for the given source.
func BasePath(source string) string {
	if !strings.Contains(source, "://") {
		return source
	}

	parsed, err := url.Parse(source)
	if err != nil {
		return source
	}
	if parsed.Scheme == "file" {
		return parsed.Path
	}
	return source
}

// FindFile looks for a file with the given name (case-insensitive) in dir.
// Returns the path with its on-disk case, or empty string when absent.
func FindFile(filesystem FileSystem, dir, filename string) (string, error) {
	for entry, err := range filesystem.ReadDir(dir) {
		if err != nil {
			return "", err
		}
		if !entry.IsDir() && strings.EqualFold(entry.Name(), filename) {
			return filesystem.Join(dir, entry.Name()), nil
		}
	}

	return "", nil
}
