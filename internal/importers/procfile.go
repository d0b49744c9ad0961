package importers

import (
	"bufio"
	"context"
	"sort"
	"strings"

	"github.com/slipway-sh/slipway/internal/blueprint"
	"github.com/slipway-sh/slipway/internal/filesystems"
)

type ProcfileImporter struct{}

func NewProcfileImporter() *ProcfileImporter {
	return &ProcfileImporter{}
}

func (p *ProcfileImporter) Name() string {
	return "procfile"
}

func (p *ProcfileImporter) Confidence() int {
	return 85 // explicit process types, but no runtime or env information
}

func (p *ProcfileImporter) CanImport(filename string) bool {
	return strings.EqualFold(filename, "Procfile")
}

func (p *ProcfileImporter) Import(ctx context.Context, filesystem filesystems.FileSystem, path string) (Fragment, error) {
	content, err := filesystem.ReadFile(path)
	if err != nil {
		return Fragment{}, err
	}

	processes, err := parseProcfile(string(content))
	if err != nil {
		return Fragment{}, err
	}

	appName := filesystem.Base(filesystem.Dir(path))

	processTypes := make([]string, 0, len(processes))
	for processType := range processes {
		processTypes = append(processTypes, processType)
	}
	sort.Strings(processTypes)

	fragment := Fragment{Source: path}
	for _, processType := range processTypes {
		command := processes[processType]

		name := appName
		if processType != "web" {
			name = appName + "-" + processType
		}

		// Procfiles carry no runtime or schedule information; cron
		// services come out schedule-less and validation flags the gap.
		fragment.Services = append(fragment.Services, blueprint.Service{
			Name:         name,
			Type:         procfileServiceType(processType, command),
			StartCommand: command,
		})
	}

	return fragment, nil
}

func parseProcfile(content string) (map[string]string, error) {
	processes := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(content))

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}

		processType := strings.TrimSpace(parts[0])
		command := strings.TrimSpace(parts[1])
		if processType != "" && command != "" {
			processes[processType] = command
		}
	}

	return processes, scanner.Err()
}

func procfileServiceType(processType, command string) string {
	if processType == "web" {
		return "web"
	}
	if processType == "cron" || processType == "scheduler" ||
		strings.Contains(command, "cron") || strings.Contains(command, "schedule") {
		return "cron"
	}
	return "worker"
}
