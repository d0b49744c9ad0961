package importers

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/slipway-sh/slipway/internal/blueprint"
	"github.com/slipway-sh/slipway/internal/filesystems"
)

type AppJSONImporter struct{}

func NewAppJSONImporter() *AppJSONImporter {
	return &AppJSONImporter{}
}

func (a *AppJSONImporter) Name() string {
	return "heroku-app-json"
}

func (a *AppJSONImporter) Confidence() int {
	return 85
}

func (a *AppJSONImporter) CanImport(filename string) bool {
	return strings.EqualFold(filename, "app.json")
}

// herokuApp covers the app.json fields that map onto a blueprint.
type herokuApp struct {
	Name       string                  `json:"name"`
	Stack      string                  `json:"stack"`
	Buildpacks []herokuBuildpack       `json:"buildpacks"`
	Env        map[string]herokuEnvVar `json:"env"`
	Formation  map[string]struct {
		Quantity int    `json:"quantity"`
		Size     string `json:"size"`
	} `json:"formation"`
	Addons []json.RawMessage `json:"addons"`
}

type herokuBuildpack struct {
	URL string `json:"url"`
}

type herokuEnvVar struct {
	Description string `json:"description"`
	Value       string `json:"value"`
	Required    *bool  `json:"required"`
	Generator   string `json:"generator"`
}

func (a *AppJSONImporter) Import(ctx context.Context, filesystem filesystems.FileSystem, path string) (Fragment, error) {
	content, err := filesystem.ReadFile(path)
	if err != nil {
		return Fragment{}, err
	}

	var app herokuApp
	if err := json.Unmarshal(content, &app); err != nil {
		return Fragment{}, err
	}

	name := app.Name
	if name == "" {
		name = filesystem.Base(filesystem.Dir(path))
	}

	service := blueprint.Service{
		Name:    name,
		Type:    "web", // app.json describes a Heroku web app
		Runtime: runtimeFromBuildpacks(app.Buildpacks),
		EnvVars: herokuEnvVars(app.Env),
	}

	fragment := Fragment{Services: []blueprint.Service{service}, Source: path}

	// Postgres addons become managed databases.
	for _, raw := range app.Addons {
		var plan string
		if err := json.Unmarshal(raw, &plan); err != nil {
			var obj struct {
				Plan string `json:"plan"`
			}
			if err := json.Unmarshal(raw, &obj); err != nil {
				continue
			}
			plan = obj.Plan
		}
		if strings.HasPrefix(plan, "heroku-postgresql") {
			fragment.Databases = append(fragment.Databases, blueprint.Database{Name: name + "-db"})
		}
	}

	return fragment, nil
}

func runtimeFromBuildpacks(buildpacks []herokuBuildpack) string {
	for _, bp := range buildpacks {
		url := strings.ToLower(bp.URL)
		for _, runtime := range []string{"python", "nodejs", "go", "ruby", "rust", "elixir"} {
			if strings.Contains(url, runtime) {
				if runtime == "nodejs" {
					return "node"
				}
				return runtime
			}
		}
	}
	return ""
}

// herokuEnvVars converts the env block. Generators map to generateValue;
// required vars without values must arrive out-of-band, which is exactly
// sync: false.
func herokuEnvVars(env map[string]herokuEnvVar) []blueprint.EnvVar {
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
		spec := env[key]

		switch {
		case spec.Generator == "secret":
			envVars = append(envVars, blueprint.EnvVar{Key: key, GenerateValue: true})
		case spec.Value != "":
			envVars = append(envVars, blueprint.EnvVar{Key: key, Value: spec.Value})
		default:
			envVars = append(envVars, blueprint.EnvVar{Key: key, Sync: &noSync})
		}
	}

	return envVars
}
