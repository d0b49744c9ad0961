package schema

import (
	"fmt"

	"github.com/slipway-sh/slipway/internal/blueprint"
)

// Project is the normalized view of a deployment manifest, the shape
// inspect and the exporters work with.
type Project struct {
	Name      string     `json:"name" yaml:"name"`
	Services  []Service  `json:"services" yaml:"services"`
	Databases []Database `json:"databases,omitempty" yaml:"databases,omitempty"`
}

type Service struct {
	Name         string            `json:"name" yaml:"name"`
	Type         string            `json:"type" yaml:"type"`
	Runtime      string            `json:"runtime,omitempty" yaml:"runtime,omitempty"`
	Plan         string            `json:"plan,omitempty" yaml:"plan,omitempty"`
	Image        string            `json:"image,omitempty" yaml:"image,omitempty"`
	BuildCommand string            `json:"buildCommand,omitempty" yaml:"buildCommand,omitempty"`
	StartCommand string            `json:"startCommand,omitempty" yaml:"startCommand,omitempty"`
	Schedule     string            `json:"schedule,omitempty" yaml:"schedule,omitempty"`
	Environment  map[string]EnvVar `json:"environment,omitempty" yaml:"environment,omitempty"`
}

// EnvVar is an environment variable with resolution metadata.
type EnvVar struct {
	Value     string `json:"value,omitempty" yaml:"value,omitempty"`
	Source    string `json:"source" yaml:"source"`
	Sensitive bool   `json:"sensitive" yaml:"sensitive"`
	Required  bool   `json:"required,omitempty" yaml:"required,omitempty"` // supplied out-of-band at deploy time
}

type Database struct {
	Name string `json:"name" yaml:"name"`
	Plan string `json:"plan,omitempty" yaml:"plan,omitempty"`
}

// FromBlueprint flattens a parsed manifest into the normalized project
// model, resolving env var groups into each service's environment.
func FromBlueprint(name string, bp *blueprint.Blueprint) *Project {
	project := &Project{Name: name}

	groups := make(map[string][]blueprint.EnvVar)
	for _, group := range bp.EnvVarGroups {
		groups[group.Name] = group.EnvVars
	}

	for _, svc := range bp.Services {
		service := Service{
			Name:         svc.Name,
			Type:         svc.Type,
			Runtime:      svc.RuntimeSelector(),
			Plan:         svc.Plan,
			BuildCommand: svc.BuildCommand,
			StartCommand: svc.StartCommand,
			Schedule:     svc.Schedule,
		}
		if svc.UsesImage() {
			service.Image = svc.Image.URL
		}

		service.Environment = make(map[string]EnvVar)
		for _, ev := range svc.EnvVars {
			if ev.FromGroup != "" {
				for _, groupVar := range groups[ev.FromGroup] {
					service.Environment[groupVar.Key] = convertEnvVar(groupVar, fmt.Sprintf("group:%s", ev.FromGroup))
				}
				continue
			}
			if ev.Key != "" {
				service.Environment[ev.Key] = convertEnvVar(ev, "")
			}
		}

		project.Services = append(project.Services, service)
	}

	for _, db := range bp.Databases {
		project.Databases = append(project.Databases, Database{Name: db.Name, Plan: db.Plan})
	}

	return project
}

func convertEnvVar(ev blueprint.EnvVar, source string) EnvVar {
	out := EnvVar{Value: ev.Value, Source: source}

	switch {
	case source != "":
		// group vars keep their group source label
	case ev.GenerateValue:
		out.Source = "generated"
		out.Sensitive = true
	case ev.FromDatabase != nil:
		out.Source = fmt.Sprintf("database:%s.%s", ev.FromDatabase.Name, ev.FromDatabase.Property)
	case ev.FromService != nil:
		out.Source = fmt.Sprintf("service:%s", ev.FromService.Name)
	case !ev.Synced():
		out.Source = "deploy-time"
		out.Sensitive = true
		out.Required = true
	default:
		out.Source = "literal"
	}

	return out
}
