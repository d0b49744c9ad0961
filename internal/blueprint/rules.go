package blueprint

import (
	"context"
	"fmt"
	"strings"

	"github.com/moby/buildkit/frontend/dockerfile/parser"
)

var serviceTypes = map[string]bool{
	"web":    true,
	"worker": true,
	"pserv":  true,
	"cron":   true,
	"static": true,
}

var runtimes = map[string]bool{
	"docker": true,
	"image":  true,
	"node":   true,
	"python": true,
	"go":     true,
	"ruby":   true,
	"rust":   true,
	"elixir": true,
	"static": true,
}

// Runtimes that build and launch from shell commands rather than a
// Dockerfile or prebuilt image.
var nativeRuntimes = map[string]bool{
	"node":   true,
	"python": true,
	"go":     true,
	"ruby":   true,
	"rust":   true,
	"elixir": true,
}

var plans = map[string]bool{
	"free":      true,
	"starter":   true,
	"standard":  true,
	"pro":       true,
	"pro plus":  true,
	"pro max":   true,
	"pro ultra": true,
}

func checkServices(bp *Blueprint) []Finding {
	var findings []Finding

	if len(bp.Services) == 0 {
		findings = append(findings, Finding{
			Rule:     "no-services",
			Severity: SeverityError,
			Message:  "blueprint declares no services",
		})
		return findings
	}

	seen := make(map[string]bool)
	for i, service := range bp.Services {
		if strings.TrimSpace(service.Name) == "" {
			findings = append(findings, Finding{
				Rule:     "service-name",
				Severity: SeverityError,
				Message:  fmt.Sprintf("service %d has no name", i+1),
			})
			continue
		}

		if seen[service.Name] {
			findings = append(findings, Finding{
				Rule:     "duplicate-name",
				Severity: SeverityError,
				Service:  service.Name,
				Message:  "service name declared more than once",
			})
		}
		seen[service.Name] = true

		if service.Type == "" {
			findings = append(findings, Finding{
				Rule:     "service-type",
				Severity: SeverityError,
				Service:  service.Name,
				Message:  "service has no type",
			})
		} else if !serviceTypes[service.Type] {
			findings = append(findings, Finding{
				Rule:     "service-type",
				Severity: SeverityError,
				Service:  service.Name,
				Message:  fmt.Sprintf("unknown service type %q", service.Type),
			})
		}
	}

	return findings
}

func checkRuntimes(bp *Blueprint) []Finding {
	var findings []Finding

	for _, service := range bp.Services {
		if service.Env != "" && service.Runtime != "" {
			findings = append(findings, Finding{
				Rule:     "runtime-selector",
				Severity: SeverityWarning,
				Service:  service.Name,
				Message:  "both env and runtime are set; env is the legacy key and runtime wins",
			})
		}

		selector := service.RuntimeSelector()
		if selector == "" {
			// Prebuilt images and static sites don't need a runtime selector.
			if !service.UsesImage() && service.Type != "static" {
				findings = append(findings, Finding{
					Rule:     "runtime-required",
					Severity: SeverityError,
					Service:  service.Name,
					Message:  "service declares neither a runtime nor a prebuilt image",
				})
			}
			continue
		}

		if !runtimes[selector] {
			findings = append(findings, Finding{
				Rule:     "runtime-unknown",
				Severity: SeverityError,
				Service:  service.Name,
				Message:  fmt.Sprintf("unknown runtime %q", selector),
			})
		}

		if selector == "image" && !service.UsesImage() {
			findings = append(findings, Finding{
				Rule:     "image-url",
				Severity: SeverityError,
				Service:  service.Name,
				Message:  "image runtime requires image.url",
			})
		}
	}

	return findings
}

func checkCommands(bp *Blueprint) []Finding {
	var findings []Finding

	for _, service := range bp.Services {
		selector := service.RuntimeSelector()

		if nativeRuntimes[selector] {
			if strings.TrimSpace(service.BuildCommand) == "" {
				findings = append(findings, Finding{
					Rule:     "build-command",
					Severity: SeverityError,
					Service:  service.Name,
					Message:  fmt.Sprintf("%s services require a non-empty buildCommand", selector),
				})
			}
			if service.Type != "static" && strings.TrimSpace(service.StartCommand) == "" {
				findings = append(findings, Finding{
					Rule:     "start-command",
					Severity: SeverityError,
					Service:  service.Name,
					Message:  fmt.Sprintf("%s services require a non-empty startCommand", selector),
				})
			}
		}

		if service.UsesDocker() && strings.TrimSpace(service.BuildCommand) != "" {
			findings = append(findings, Finding{
				Rule:     "docker-build-command",
				Severity: SeverityWarning,
				Service:  service.Name,
				Message:  "docker services build from their Dockerfile; buildCommand is ignored",
			})
		}

		if service.UsesImage() && strings.TrimSpace(service.BuildCommand) != "" {
			findings = append(findings, Finding{
				Rule:     "image-build-command",
				Severity: SeverityWarning,
				Service:  service.Name,
				Message:  "prebuilt image services never build; buildCommand is ignored",
			})
		}

		if service.Type == "static" && strings.TrimSpace(service.StaticPublishPath) == "" && strings.TrimSpace(service.BuildCommand) == "" {
			findings = append(findings, Finding{
				Rule:     "static-publish",
				Severity: SeverityWarning,
				Service:  service.Name,
				Message:  "static site has neither a buildCommand nor a staticPublishPath",
			})
		}
	}

	return findings
}

func checkSchedules(bp *Blueprint) []Finding {
	var findings []Finding

	for _, service := range bp.Services {
		if service.Type == "cron" {
			if strings.TrimSpace(service.Schedule) == "" {
				findings = append(findings, Finding{
					Rule:     "cron-schedule",
					Severity: SeverityError,
					Service:  service.Name,
					Message:  "cron services require a schedule",
				})
			} else if len(strings.Fields(service.Schedule)) != 5 {
				findings = append(findings, Finding{
					Rule:     "cron-schedule",
					Severity: SeverityError,
					Service:  service.Name,
					Message:  fmt.Sprintf("schedule %q is not a five-field cron expression", service.Schedule),
				})
			}
		} else if service.Schedule != "" {
			findings = append(findings, Finding{
				Rule:     "schedule-ignored",
				Severity: SeverityWarning,
				Service:  service.Name,
				Message:  fmt.Sprintf("schedule is only honored on cron services, not %s", service.Type),
			})
		}
	}

	return findings
}

func checkPlans(bp *Blueprint) []Finding {
	var findings []Finding

	for _, service := range bp.Services {
		if service.Plan != "" && !plans[strings.ToLower(service.Plan)] {
			findings = append(findings, Finding{
				Rule:     "plan-unknown",
				Severity: SeverityWarning,
				Service:  service.Name,
				Message:  fmt.Sprintf("unknown plan %q", service.Plan),
			})
		}
	}

	for _, db := range bp.Databases {
		if db.Plan != "" && !plans[strings.ToLower(db.Plan)] {
			findings = append(findings, Finding{
				Rule:     "plan-unknown",
				Severity: SeverityWarning,
				Service:  db.Name,
				Message:  fmt.Sprintf("unknown plan %q", db.Plan),
			})
		}
	}

	return findings
}

func checkScaling(bp *Blueprint) []Finding {
	var findings []Finding

	for _, service := range bp.Services {
		if service.Scaling == nil {
			continue
		}

		scaling := service.Scaling
		if scaling.MinInstances < 1 {
			findings = append(findings, Finding{
				Rule:     "scaling-bounds",
				Severity: SeverityError,
				Service:  service.Name,
				Message:  "scaling.minInstances must be at least 1",
			})
		}
		if scaling.MaxInstances < scaling.MinInstances {
			findings = append(findings, Finding{
				Rule:     "scaling-bounds",
				Severity: SeverityError,
				Service:  service.Name,
				Message:  "scaling.maxInstances must be >= scaling.minInstances",
			})
		}
		if scaling.TargetCPUPercent < 0 || scaling.TargetCPUPercent > 100 {
			findings = append(findings, Finding{
				Rule:     "scaling-target",
				Severity: SeverityError,
				Service:  service.Name,
				Message:  "scaling.targetCPUPercent must be between 0 and 100",
			})
		}
		if scaling.TargetMemoryPercent < 0 || scaling.TargetMemoryPercent > 100 {
			findings = append(findings, Finding{
				Rule:     "scaling-target",
				Severity: SeverityError,
				Service:  service.Name,
				Message:  "scaling.targetMemoryPercent must be between 0 and 100",
			})
		}

		if service.NumInstances > 0 {
			findings = append(findings, Finding{
				Rule:     "scaling-conflict",
				Severity: SeverityWarning,
				Service:  service.Name,
				Message:  "numInstances is ignored when autoscaling is configured",
			})
		}
	}

	return findings
}

func checkDisks(bp *Blueprint) []Finding {
	var findings []Finding

	for _, service := range bp.Services {
		if service.Disk == nil {
			continue
		}

		if strings.TrimSpace(service.Disk.MountPath) == "" {
			findings = append(findings, Finding{
				Rule:     "disk-mount",
				Severity: SeverityError,
				Service:  service.Name,
				Message:  "disk requires a mountPath",
			})
		}
		if service.Disk.SizeGB != nil && *service.Disk.SizeGB < 1 {
			findings = append(findings, Finding{
				Rule:     "disk-size",
				Severity: SeverityError,
				Service:  service.Name,
				Message:  fmt.Sprintf("disk.sizeGB must be at least 1, not %d", *service.Disk.SizeGB),
			})
		}
		if service.Type == "cron" || service.Type == "static" {
			findings = append(findings, Finding{
				Rule:     "disk-service-type",
				Severity: SeverityWarning,
				Service:  service.Name,
				Message:  fmt.Sprintf("%s services cannot mount persistent disks", service.Type),
			})
		}
	}

	return findings
}

func checkEnvVars(bp *Blueprint) []Finding {
	var findings []Finding

	for _, service := range bp.Services {
		seen := make(map[string]bool)
		for i, ev := range service.EnvVars {
			findings = append(findings, checkEnvVar(service.Name, i, ev, false)...)

			if ev.Key != "" {
				if seen[ev.Key] {
					findings = append(findings, Finding{
						Rule:     "envvar-duplicate",
						Severity: SeverityWarning,
						Service:  service.Name,
						Message:  fmt.Sprintf("env var %s declared more than once", ev.Key),
					})
				}
				seen[ev.Key] = true
			}
		}
	}

	return findings
}

// checkEnvVar validates a single declaration. An env var is either a group
// include (fromGroup, nothing else) or a keyed variable with exactly one
// value source.
func checkEnvVar(owner string, index int, ev EnvVar, inGroup bool) []Finding {
	var findings []Finding

	label := ev.Key
	if label == "" {
		label = fmt.Sprintf("entry %d", index+1)
	}

	if ev.FromGroup != "" {
		if inGroup {
			findings = append(findings, Finding{
				Rule:     "envvar-group-nesting",
				Severity: SeverityError,
				Service:  owner,
				Message:  fmt.Sprintf("%s: env var groups cannot include other groups", label),
			})
		}
		if ev.Key != "" || ev.Value != "" || ev.GenerateValue || ev.Sync != nil || ev.FromDatabase != nil || ev.FromService != nil {
			findings = append(findings, Finding{
				Rule:     "envvar-source",
				Severity: SeverityError,
				Service:  owner,
				Message:  fmt.Sprintf("%s: fromGroup cannot be combined with other fields", label),
			})
		}
		return findings
	}

	if ev.Key == "" {
		findings = append(findings, Finding{
			Rule:     "envvar-key",
			Severity: SeverityError,
			Service:  owner,
			Message:  fmt.Sprintf("%s: env var has neither a key nor a fromGroup", label),
		})
		return findings
	}

	sources := 0
	if ev.Value != "" {
		sources++
	}
	if ev.GenerateValue {
		sources++
	}
	if !ev.Synced() {
		sources++ // value arrives out-of-band at deploy time
	}
	if ev.FromDatabase != nil {
		sources++
	}
	if ev.FromService != nil {
		sources++
	}

	if sources > 1 {
		findings = append(findings, Finding{
			Rule:     "envvar-source",
			Severity: SeverityError,
			Service:  owner,
			Message:  fmt.Sprintf("%s: env var declares multiple value sources", label),
		})
	}
	if sources == 0 {
		findings = append(findings, Finding{
			Rule:     "envvar-source",
			Severity: SeverityWarning,
			Service:  owner,
			Message:  fmt.Sprintf("%s: env var has no value source; it resolves to the empty string", label),
		})
	}

	return findings
}

func checkReferences(bp *Blueprint) []Finding {
	var findings []Finding

	databases := make(map[string]bool)
	for _, db := range bp.Databases {
		databases[db.Name] = true
	}

	groups := make(map[string]bool)
	for _, group := range bp.EnvVarGroups {
		groups[group.Name] = true
	}

	serviceTypesByName := make(map[string]string)
	for _, service := range bp.Services {
		serviceTypesByName[service.Name] = service.Type
	}

	checkTargets := func(owner string, ev EnvVar) {
		if ev.FromDatabase != nil && !databases[ev.FromDatabase.Name] {
			findings = append(findings, Finding{
				Rule:     "unresolved-reference",
				Severity: SeverityError,
				Service:  owner,
				Message:  fmt.Sprintf("%s references undeclared database %q", ev.Key, ev.FromDatabase.Name),
			})
		}

		if ev.FromService != nil {
			declaredType, ok := serviceTypesByName[ev.FromService.Name]
			if !ok {
				findings = append(findings, Finding{
					Rule:     "unresolved-reference",
					Severity: SeverityError,
					Service:  owner,
					Message:  fmt.Sprintf("%s references undeclared service %q", ev.Key, ev.FromService.Name),
				})
			} else if ev.FromService.Type != "" && ev.FromService.Type != declaredType {
				findings = append(findings, Finding{
					Rule:     "unresolved-reference",
					Severity: SeverityError,
					Service:  owner,
					Message:  fmt.Sprintf("%s references service %q as %s, but it is declared as %s", ev.Key, ev.FromService.Name, ev.FromService.Type, declaredType),
				})
			}
		}
	}

	for _, service := range bp.Services {
		for _, ev := range service.EnvVars {
			checkTargets(service.Name, ev)

			if ev.FromGroup != "" && !groups[ev.FromGroup] {
				findings = append(findings, Finding{
					Rule:     "unresolved-reference",
					Severity: SeverityError,
					Service:  service.Name,
					Message:  fmt.Sprintf("references undeclared env var group %q", ev.FromGroup),
				})
			}
		}
	}

	// Group members reference databases and services the same way service
	// env vars do.
	for _, group := range bp.EnvVarGroups {
		for _, ev := range group.EnvVars {
			checkTargets(group.Name, ev)
		}
	}

	return findings
}

func checkEnvVarGroups(bp *Blueprint) []Finding {
	var findings []Finding

	seen := make(map[string]bool)
	for _, group := range bp.EnvVarGroups {
		if strings.TrimSpace(group.Name) == "" {
			findings = append(findings, Finding{
				Rule:     "group-name",
				Severity: SeverityError,
				Message:  "env var group has no name",
			})
			continue
		}

		if seen[group.Name] {
			findings = append(findings, Finding{
				Rule:     "duplicate-name",
				Severity: SeverityError,
				Service:  group.Name,
				Message:  "env var group name declared more than once",
			})
		}
		seen[group.Name] = true

		for i, ev := range group.EnvVars {
			findings = append(findings, checkEnvVar(group.Name, i, ev, true)...)
		}
	}

	return findings
}

func checkPreviews(bp *Blueprint) []Finding {
	if bp.Previews == nil || bp.Previews.Generation == "" {
		return nil
	}

	switch bp.Previews.Generation {
	case "off", "manual", "automatic":
		return nil
	}

	return []Finding{{
		Rule:     "previews-generation",
		Severity: SeverityError,
		Message:  fmt.Sprintf("previews.generation must be off, manual or automatic, not %q", bp.Previews.Generation),
	}}
}

// CheckEnvFile verifies that every non-synced env var is present in the
// provided out-of-band environment (typically a parsed .env file). This is
// the deploy-time half of the sync: false contract.
func CheckEnvFile(bp *Blueprint, provided map[string]string) []Finding {
	var findings []Finding

	for _, service := range bp.Services {
		for _, ev := range service.RequiredEnvVars() {
			if _, ok := provided[ev.Key]; !ok {
				findings = append(findings, Finding{
					Rule:     "envvar-unprovided",
					Severity: SeverityError,
					Service:  service.Name,
					Message:  fmt.Sprintf("%s is marked sync: false but is not provided out-of-band", ev.Key),
				})
			}
		}
	}

	return findings
}

// checkDockerfiles resolves each docker service's Dockerfile and runs it
// through the buildkit parser. Web services whose Dockerfile never EXPOSEs
// a port get a warning since the platform cannot infer one.
func (v *Validator) checkDockerfiles(ctx context.Context, bp *Blueprint) []Finding {
	var findings []Finding

	for _, service := range bp.Services {
		if !service.UsesDocker() {
			continue
		}

		path := service.DockerfilePath
		if path == "" {
			path = "Dockerfile"
		}

		resolved := v.filesystem.Join(v.baseDir, service.RootDir, path)
		content, err := v.filesystem.ReadFile(resolved)
		if err != nil {
			findings = append(findings, Finding{
				Rule:     "dockerfile-missing",
				Severity: SeverityError,
				Service:  service.Name,
				Message:  fmt.Sprintf("Dockerfile not found at %s", resolved),
			})
			continue
		}

		ast, err := parser.Parse(strings.NewReader(string(content)))
		if err != nil {
			findings = append(findings, Finding{
				Rule:     "dockerfile-syntax",
				Severity: SeverityError,
				Service:  service.Name,
				Message:  fmt.Sprintf("%s does not parse: %v", resolved, err),
			})
			continue
		}

		if service.Type == "web" {
			exposes := false
			for _, child := range ast.AST.Children {
				if strings.EqualFold(child.Value, "EXPOSE") {
					exposes = true
					break
				}
			}
			if !exposes {
				findings = append(findings, Finding{
					Rule:     "dockerfile-expose",
					Severity: SeverityWarning,
					Service:  service.Name,
					Message:  fmt.Sprintf("%s never EXPOSEs a port; web services should declare one", resolved),
				})
			}
		}
	}

	return findings
}
