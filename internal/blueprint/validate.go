package blueprint

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/slipway-sh/slipway/internal/filesystems"
)

type Severity int

const (
	SeverityWarning Severity = iota // suspicious but deployable
	SeverityError                   // the platform would reject or fail to start this
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalJSON emits the severity name so JSON reports are self-describing.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Finding is a single validation result tied to a named rule.
type Finding struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Service  string   `json:"service,omitempty"`
	Message  string   `json:"message"`
}

func (f Finding) String() string {
	if f.Service != "" {
		return fmt.Sprintf("%s: [%s] %s: %s", f.Severity, f.Rule, f.Service, f.Message)
	}
	return fmt.Sprintf("%s: [%s] %s", f.Severity, f.Rule, f.Message)
}

// HasErrors reports whether any finding is error severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validator checks a parsed Blueprint against the platform's schema rules.
// File-backed rules (dockerfilePath resolution) read through the filesystem,
// relative to the directory containing the manifest.
type Validator struct {
	filesystem filesystems.FileSystem
	baseDir    string
}

func NewValidator(filesystem filesystems.FileSystem, baseDir string) *Validator {
	return &Validator{filesystem: filesystem, baseDir: baseDir}
}

// Validate runs every rule and returns the accumulated findings. A nil
// result means the blueprint is clean.
func (v *Validator) Validate(ctx context.Context, bp *Blueprint) []Finding {
	var findings []Finding

	findings = append(findings, checkServices(bp)...)
	findings = append(findings, checkRuntimes(bp)...)
	findings = append(findings, checkCommands(bp)...)
	findings = append(findings, checkSchedules(bp)...)
	findings = append(findings, checkPlans(bp)...)
	findings = append(findings, checkScaling(bp)...)
	findings = append(findings, checkDisks(bp)...)
	findings = append(findings, checkEnvVars(bp)...)
	findings = append(findings, checkReferences(bp)...)
	findings = append(findings, checkEnvVarGroups(bp)...)
	findings = append(findings, checkPreviews(bp)...)

	if v.filesystem != nil {
		findings = append(findings, v.checkDockerfiles(ctx, bp)...)
	}

	return findings
}
