package importers

import (
	"context"
	"strings"

	"github.com/GoogleContainerTools/skaffold/pkg/skaffold/schema/latest"
	"github.com/slipway-sh/slipway/internal/blueprint"
	"github.com/slipway-sh/slipway/internal/filesystems"
	"gopkg.in/yaml.v3"
)

type SkaffoldImporter struct{}

func NewSkaffoldImporter() *SkaffoldImporter {
	return &SkaffoldImporter{}
}

func (s *SkaffoldImporter) Name() string {
	return "skaffold"
}

func (s *SkaffoldImporter) Confidence() int {
	return 80 // explicit build config, but deploy shape is kubernetes-specific
}

func (s *SkaffoldImporter) CanImport(filename string) bool {
	return strings.EqualFold(filename, "skaffold.yaml") || strings.EqualFold(filename, "skaffold.yml")
}

func (s *SkaffoldImporter) Import(ctx context.Context, filesystem filesystems.FileSystem, path string) (Fragment, error) {
	content, err := filesystem.ReadFile(path)
	if err != nil {
		return Fragment{}, err
	}

	var config latest.SkaffoldConfig
	if err := yaml.Unmarshal(content, &config); err != nil {
		return Fragment{}, err
	}

	fragment := Fragment{Source: path}

	for _, artifact := range config.Build.Artifacts {
		service := blueprint.Service{
			Name: serviceNameFromImage(artifact.ImageName, filesystem.Base(filesystem.Dir(path))),
			// Kubernetes manifests would say whether this is public;
			// private service is the conservative mapping.
			Type: "pserv",
		}

		if artifact.DockerArtifact != nil {
			service.Runtime = "docker"
			if artifact.DockerArtifact.DockerfilePath != "" && artifact.DockerArtifact.DockerfilePath != "Dockerfile" {
				service.DockerfilePath = artifact.DockerArtifact.DockerfilePath
			}
			if artifact.Workspace != "" && artifact.Workspace != "." {
				service.DockerContext = artifact.Workspace
			}
		} else {
			service.Runtime = "image"
			service.Image = &blueprint.Image{URL: artifact.ImageName}
		}

		fragment.Services = append(fragment.Services, service)
	}

	return fragment, nil
}

// serviceNameFromImage derives a service name from the artifact's image
// (e.g. "myapp" from "gcr.io/project/myapp"), falling back to the config
// directory name.
func serviceNameFromImage(imageName, fallback string) string {
	if imageName == "" {
		return fallback
	}
	parts := strings.Split(imageName, "/")
	name := parts[len(parts)-1]
	return strings.Split(name, ":")[0]
}
