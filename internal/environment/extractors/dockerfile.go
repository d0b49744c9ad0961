package extractors

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/moby/buildkit/frontend/dockerfile/parser"
	"github.com/slipway-sh/slipway/internal/environment/types"
)

type DockerfileExtractor struct{}

func NewDockerfileExtractor() *DockerfileExtractor {
	return &DockerfileExtractor{}
}

func (d *DockerfileExtractor) CanHandle(filename string) bool {
	return strings.Contains(strings.ToLower(filepath.Base(filename)), "dockerfile")
}

func (d *DockerfileExtractor) Confidence() int {
	return 60
}

func (d *DockerfileExtractor) Extract(ctx context.Context, filename string, content []byte) ([]types.EnvResult, error) {
	ast, err := parser.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, err
	}

	var results []types.EnvResult
	for _, child := range ast.AST.Children {
		switch strings.ToUpper(child.Value) {
		case "ENV", "ARG":
			results = append(results, d.parseAssignments(child, filename)...)
		}
	}

	return results, nil
}

// parseAssignments handles both `ENV key=value [key=value...]` and the
// legacy `ENV key value` form.
func (d *DockerfileExtractor) parseAssignments(node *parser.Node, dockerfilePath string) []types.EnvResult {
	var args []string
	for n := node.Next; n != nil; n = n.Next {
		args = append(args, n.Value)
	}
	if len(args) == 0 {
		return nil
	}

	var results []types.EnvResult
	add := func(name, value string) {
		if types.ShouldIgnore(name) {
			return
		}
		envType, sensitive := types.ClassifyEnvVar(name, value)
		results = append(results, types.EnvResult{
			VarName:    name,
			Value:      value,
			Type:       envType,
			Sensitive:  sensitive,
			Source:     fmt.Sprintf("dockerfile:%s", dockerfilePath),
			Confidence: d.Confidence(),
		})
	}

	if strings.Contains(args[0], "=") {
		for _, arg := range args {
			parts := strings.SplitN(arg, "=", 2)
			if len(parts) == 2 {
				add(parts[0], parts[1])
			}
		}
	} else if len(args) >= 2 {
		add(args[0], strings.Join(args[1:], " "))
	} else {
		add(args[0], "") // bare ARG
	}

	return results
}
