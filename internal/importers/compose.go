package importers

import (
	"context"
	"sort"
	"strings"

	"github.com/compose-spec/compose-go/v2/loader"
	composeTypes "github.com/compose-spec/compose-go/v2/types"
	"github.com/slipway-sh/slipway/internal/blueprint"
	envtypes "github.com/slipway-sh/slipway/internal/environment/types"
	"github.com/slipway-sh/slipway/internal/filesystems"
)

type ComposeImporter struct{}

func NewComposeImporter() *ComposeImporter {
	return &ComposeImporter{}
}

func (c *ComposeImporter) Name() string {
	return "docker-compose"
}

func (c *ComposeImporter) Confidence() int {
	return 90 // compose files explicitly define services
}

var composeFilenames = map[string]bool{
	"docker-compose.yml":  true,
	"docker-compose.yaml": true,
	"compose.yml":         true,
	"compose.yaml":        true,
}

func (c *ComposeImporter) CanImport(filename string) bool {
	return composeFilenames[strings.ToLower(filename)]
}

func (c *ComposeImporter) Import(ctx context.Context, filesystem filesystems.FileSystem, path string) (Fragment, error) {
	content, err := filesystem.ReadFile(path)
	if err != nil {
		return Fragment{}, err
	}

	workingDir := filesystem.Dir(path)
	configDetails := composeTypes.ConfigDetails{
		WorkingDir: workingDir,
		ConfigFiles: []composeTypes.ConfigFile{
			{Filename: path, Content: content},
		},
	}

	project, err := loader.LoadWithContext(ctx, configDetails, func(options *loader.Options) {
		options.SetProjectName(filesystem.Base(workingDir), true)
		options.SkipConsistencyCheck = true
	})
	if err != nil {
		return Fragment{}, err
	}

	fragment := Fragment{Source: path}

	// Map iteration order is random; emit services deterministically.
	names := make([]string, 0, len(project.Services))
	for name := range project.Services {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		composeService := project.Services[name]

		if db, ok := composeDatabase(name, composeService); ok {
			fragment.Databases = append(fragment.Databases, db)
			continue
		}

		fragment.Services = append(fragment.Services, c.convertService(name, composeService))
	}

	return fragment, nil
}

// composeDatabase maps managed-database images onto blueprint database
// declarations instead of services.
func composeDatabase(name string, service composeTypes.ServiceConfig) (blueprint.Database, bool) {
	image := strings.Split(service.Image, ":")[0]
	if image == "postgres" || strings.HasSuffix(image, "/postgres") {
		return blueprint.Database{Name: name}, true
	}
	return blueprint.Database{}, false
}

func (c *ComposeImporter) convertService(name string, composeService composeTypes.ServiceConfig) blueprint.Service {
	service := blueprint.Service{
		Name: name,
		Type: composeServiceType(composeService),
	}

	if composeService.Build != nil {
		service.Runtime = "docker"
		if composeService.Build.Dockerfile != "" && composeService.Build.Dockerfile != "Dockerfile" {
			service.DockerfilePath = composeService.Build.Dockerfile
		}
		if composeService.Build.Context != "" && composeService.Build.Context != "." {
			service.DockerContext = composeService.Build.Context
		}
	} else if composeService.Image != "" {
		service.Runtime = "image"
		service.Image = &blueprint.Image{URL: composeService.Image}
	}

	service.EnvVars = composeEnvVars(composeService)
	return service
}

func composeServiceType(service composeTypes.ServiceConfig) string {
	if len(service.Ports) > 0 {
		return "web"
	}
	if len(service.Expose) > 0 {
		return "pserv" // reachable by other services only
	}
	return "worker"
}

// composeEnvVars converts the environment block. Unset and sensitive
// values become sync: false declarations so secrets never land in the
// generated manifest.
func composeEnvVars(service composeTypes.ServiceConfig) []blueprint.EnvVar {
	if len(service.Environment) == 0 {
		return nil
	}

	keys := make([]string, 0, len(service.Environment))
	for key := range service.Environment {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	noSync := false
	var envVars []blueprint.EnvVar
	for _, key := range keys {
		value := service.Environment[key]

		if value == nil {
			envVars = append(envVars, blueprint.EnvVar{Key: key, Sync: &noSync})
			continue
		}

		if _, sensitive := envtypes.ClassifyEnvVar(key, *value); sensitive {
			envVars = append(envVars, blueprint.EnvVar{Key: key, Sync: &noSync})
			continue
		}

		envVars = append(envVars, blueprint.EnvVar{Key: key, Value: *value})
	}

	return envVars
}
