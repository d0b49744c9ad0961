package importers

import (
	"context"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/slipway-sh/slipway/internal/blueprint"
	envtypes "github.com/slipway-sh/slipway/internal/environment/types"
	"github.com/slipway-sh/slipway/internal/filesystems"
)

type FlyImporter struct{}

func NewFlyImporter() *FlyImporter {
	return &FlyImporter{}
}

func (f *FlyImporter) Name() string {
	return "fly"
}

func (f *FlyImporter) Confidence() int {
	return 95 // fly.toml is an explicit production deployment spec
}

func (f *FlyImporter) CanImport(filename string) bool {
	return strings.EqualFold(filename, "fly.toml")
}

// flyConfig covers the fly.toml fields that map onto a blueprint.
type flyConfig struct {
	App         string            `toml:"app"`
	Build       *flyBuild         `toml:"build"`
	Env         map[string]string `toml:"env"`
	Services    []flyService      `toml:"services"`
	HTTPService *flyHTTPService   `toml:"http_service"`
	Processes   map[string]string `toml:"processes"`
}

type flyBuild struct {
	Image      string `toml:"image"`
	Dockerfile string `toml:"dockerfile"`
}

type flyService struct {
	InternalPort int    `toml:"internal_port"`
	Protocol     string `toml:"protocol"`
}

type flyHTTPService struct {
	InternalPort int  `toml:"internal_port"`
	ForceHTTPS   bool `toml:"force_https"`
}

func (f *FlyImporter) Import(ctx context.Context, filesystem filesystems.FileSystem, path string) (Fragment, error) {
	content, err := filesystem.ReadFile(path)
	if err != nil {
		return Fragment{}, err
	}

	var config flyConfig
	if err := toml.Unmarshal(content, &config); err != nil {
		return Fragment{}, err
	}

	name := config.App
	if name == "" {
		name = filesystem.Base(filesystem.Dir(path))
	}

	service := blueprint.Service{
		Name: name,
		Type: flyServiceType(config),
	}

	// Fly apps build from a Dockerfile unless a prebuilt image is pinned.
	if config.Build != nil && config.Build.Image != "" {
		service.Runtime = "image"
		service.Image = &blueprint.Image{URL: config.Build.Image}
	} else {
		service.Runtime = "docker"
		if config.Build != nil && config.Build.Dockerfile != "" {
			service.DockerfilePath = config.Build.Dockerfile
		}
	}

	// The default process group's command maps to startCommand.
	if cmd, ok := config.Processes["app"]; ok {
		service.StartCommand = cmd
	}

	service.EnvVars = flyEnvVars(config.Env)

	return Fragment{Services: []blueprint.Service{service}, Source: path}, nil
}

func flyServiceType(config flyConfig) string {
	if config.HTTPService != nil {
		return "web"
	}
	for _, svc := range config.Services {
		if svc.InternalPort > 0 {
			return "web"
		}
	}
	return "worker"
}

func flyEnvVars(env map[string]string) []blueprint.EnvVar {
	if len(env) == 0 {
		return nil
	}

	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	noSync := false
	var envVars []blueprint.EnvVar
	for _, key := range keys {
		if _, sensitive := envtypes.ClassifyEnvVar(key, env[key]); sensitive {
			envVars = append(envVars, blueprint.EnvVar{Key: key, Sync: &noSync})
			continue
		}
		envVars = append(envVars, blueprint.EnvVar{Key: key, Value: env[key]})
	}

	return envVars
}
