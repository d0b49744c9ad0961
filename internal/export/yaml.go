package export

import (
	"bytes"

	"github.com/slipway-sh/slipway/internal/schema"
	"gopkg.in/yaml.v3"
)

type YAMLExporter struct{}

func NewYAMLExporter() *YAMLExporter {
	return &YAMLExporter{}
}

func (e *YAMLExporter) Name() string {
	return "yaml"
}

func (e *YAMLExporter) Export(project *schema.Project) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(project); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
