package blueprint

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Marshal emits a blueprint as canonical render.yaml: two-space indent,
// declaration order preserved.
func Marshal(bp *Blueprint) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(bp); err != nil {
		return nil, fmt.Errorf("failed to encode blueprint: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
