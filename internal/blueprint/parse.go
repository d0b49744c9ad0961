package blueprint

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/slipway-sh/slipway/internal/filesystems"
	"gopkg.in/yaml.v3"
)

// Parse decodes a render.yaml document. Decoding is strict: unknown keys
// are errors, so typos like "startComand" surface at parse time instead of
// being silently dropped by the platform.
func Parse(data []byte) (*Blueprint, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var bp Blueprint
	if err := decoder.Decode(&bp); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty blueprint document")
		}
		return nil, fmt.Errorf("invalid blueprint: %w", err)
	}

	return &bp, nil
}

// ParseFile reads and parses a blueprint through the filesystem abstraction.
func ParseFile(filesystem filesystems.FileSystem, path string) (*Blueprint, error) {
	data, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	bp, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return bp, nil
}
