package export

import "github.com/slipway-sh/slipway/internal/schema"

// Exporter serializes a normalized project to an output format.
type Exporter interface {
	// Export converts a project to the target format
	Export(project *schema.Project) ([]byte, error)

	// Name returns the exporter name (e.g. "json", "yaml")
	Name() string
}

// ByName returns the exporter for the given format name, or nil.
func ByName(name string) Exporter {
	switch name {
	case "json":
		return NewJSONExporter()
	case "yaml":
		return NewYAMLExporter()
	default:
		return nil
	}
}
