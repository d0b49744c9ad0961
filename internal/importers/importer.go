package importers

import (
	"context"
	"fmt"

	"github.com/slipway-sh/slipway/internal/blueprint"
	"github.com/slipway-sh/slipway/internal/filesystems"
)

// Fragment is a partial blueprint produced from a single foreign config.
type Fragment struct {
	Services  []blueprint.Service
	Databases []blueprint.Database
	Source    string // which config file this came from
}

// Importer converts one deployment config format into blueprint
// declarations.
type Importer interface {
	// Name returns the source format name (e.g. "docker-compose", "fly")
	Name() string

	// CanImport returns true if this importer handles the given filename
	CanImport(filename string) bool

	// Import parses the config at path into a blueprint fragment
	Import(ctx context.Context, filesystem filesystems.FileSystem, path string) (Fragment, error)

	// Confidence for picking between formats that describe the same service
	Confidence() int
}

func DefaultImporters() []Importer {
	return []Importer{
		NewComposeImporter(),
		NewFlyImporter(),
		NewSkaffoldImporter(),
		NewProcfileImporter(),
		NewAppJSONImporter(),
	}
}

// Aggregate merges fragments into a single blueprint, rejecting duplicate
// service names across sources.
func Aggregate(fragments []Fragment) (*blueprint.Blueprint, error) {
	if len(fragments) == 0 {
		return nil, fmt.Errorf("no deployment configs to import")
	}

	bp := &blueprint.Blueprint{}

	serviceNames := make(map[string]string) // name -> source
	for _, fragment := range fragments {
		for _, service := range fragment.Services {
			if prior, exists := serviceNames[service.Name]; exists {
				return nil, fmt.Errorf("service %q declared by both %s and %s", service.Name, prior, fragment.Source)
			}
			serviceNames[service.Name] = fragment.Source
			bp.Services = append(bp.Services, service)
		}
	}

	databaseNames := make(map[string]bool)
	for _, fragment := range fragments {
		for _, db := range fragment.Databases {
			if databaseNames[db.Name] {
				continue // same database referenced from multiple sources
			}
			databaseNames[db.Name] = true
			bp.Databases = append(bp.Databases, db)
		}
	}

	return bp, nil
}
