package environment

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/slipway-sh/slipway/internal/blueprint"
	"github.com/slipway-sh/slipway/internal/environment/types"
	"github.com/slipway-sh/slipway/internal/filesystems"
)

// DeclaredVar is an env var the blueprint declares for a service, with its
// value source spelled out.
type DeclaredVar struct {
	Key       string
	Source    string // "literal", "generated", "deploy-time (sync: false)", reference, or group name
	Sensitive bool
	Required  bool // must be supplied out-of-band before the service starts
}

// Report describes one service's environment: what the blueprint declares,
// what the surrounding files mention, and what the source reads without a
// matching declaration.
type Report struct {
	Service    string
	Declared   []DeclaredVar
	Observed   []types.EnvResult
	Undeclared []types.EnvResult // read by source code but declared nowhere
}

// BuildReports walks the manifest's directory once, extracts env vars from
// every file, and joins them against each service's declarations.
func BuildReports(ctx context.Context, filesystem filesystems.FileSystem, manifestDir string, bp *blueprint.Blueprint) ([]Report, error) {
	observed, err := observeTree(ctx, filesystem, manifestDir)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]blueprint.EnvVar)
	for _, group := range bp.EnvVarGroups {
		groups[group.Name] = group.EnvVars
	}

	var reports []Report
	for _, service := range bp.Services {
		declared := declaredVars(service, groups)

		declaredKeys := make(map[string]bool)
		for _, dv := range declared {
			declaredKeys[dv.Key] = true
		}

		var undeclared []types.EnvResult
		for _, result := range observed {
			if strings.HasPrefix(result.Source, "usage:") && !declaredKeys[result.VarName] {
				undeclared = append(undeclared, result)
			}
		}

		reports = append(reports, Report{
			Service:    service.Name,
			Declared:   declared,
			Observed:   observed,
			Undeclared: undeclared,
		})
	}

	return reports, nil
}

var skipDirs = map[string]bool{
	"node_modules": true, "vendor": true, "venv": true,
	".git": true, "dist": true, "build": true, "target": true,
	"__pycache__": true,
}

// observeTree extracts env vars from every file under root, keeping the
// highest confidence result per variable name.
func observeTree(ctx context.Context, filesystem filesystems.FileSystem, root string) ([]types.EnvResult, error) {
	extractor := NewExtractor(filesystem)
	best := make(map[string]types.EnvResult)

	err := filesystem.Walk(root, func(path string, info filesystems.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}

		if info.IsDir() {
			if path != root && skipDirs[filesystem.Base(path)] {
				return filesystems.SkipDir
			}
			return nil
		}

		content, err := filesystem.ReadFile(path)
		if err != nil {
			return nil
		}

		for result := range extractor.Extract(ctx, path, content) {
			existing, exists := best[result.VarName]
			if !exists || result.Confidence > existing.Confidence {
				best[result.VarName] = result
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	results := make([]types.EnvResult, 0, len(best))
	for _, result := range best {
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].VarName < results[j].VarName
	})

	return results, nil
}

func declaredVars(service blueprint.Service, groups map[string][]blueprint.EnvVar) []DeclaredVar {
	var declared []DeclaredVar

	appendVar := func(ev blueprint.EnvVar, groupName string) {
		if ev.Key == "" {
			return
		}

		dv := DeclaredVar{Key: ev.Key}
		envType, sensitive := types.ClassifyEnvVar(ev.Key, ev.Value)
		dv.Sensitive = sensitive || envType == types.EnvTypeSecret

		switch {
		case groupName != "":
			dv.Source = fmt.Sprintf("group %s", groupName)
		case ev.GenerateValue:
			dv.Source = "generated"
			dv.Sensitive = true
		case ev.FromDatabase != nil:
			dv.Source = fmt.Sprintf("fromDatabase %s.%s", ev.FromDatabase.Name, ev.FromDatabase.Property)
		case ev.FromService != nil:
			dv.Source = fmt.Sprintf("fromService %s", ev.FromService.Name)
		case !ev.Synced():
			dv.Source = "deploy-time (sync: false)"
			dv.Required = true
			dv.Sensitive = true // out-of-band values are secrets by convention
		default:
			dv.Source = "literal"
		}

		declared = append(declared, dv)
	}

	for _, ev := range service.EnvVars {
		if ev.FromGroup != "" {
			for _, groupVar := range groups[ev.FromGroup] {
				appendVar(groupVar, ev.FromGroup)
			}
			continue
		}
		appendVar(ev, "")
	}

	return declared
}
