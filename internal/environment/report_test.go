package environment

import (
	"context"
	"testing"

	"github.com/slipway-sh/slipway/internal/blueprint"
	"github.com/slipway-sh/slipway/internal/filesystems"
)

func botBlueprint(t *testing.T) *blueprint.Blueprint {
	t.Helper()
	bp, err := blueprint.Parse([]byte(`services:
  - type: web
    name: crypto-alert-bot
    env: python
    buildCommand: pip install -r requirements.txt
    startCommand: python main.py
    plan: free
    envVars:
      - key: BOT_TOKEN
        sync: false
`))
	if err != nil {
		t.Fatalf("fixture did not parse: %v", err)
	}
	return bp
}

func TestBuildReports_DeclaredAndRequired(t *testing.T) {
	mfs := filesystems.NewMemoryFS()
	mfs.AddDir("repo")
	bp := botBlueprint(t)

	reports, err := BuildReports(context.Background(), mfs, "repo", bp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("expected one report, got %d", len(reports))
	}

	report := reports[0]
	if report.Service != "crypto-alert-bot" {
		t.Errorf("expected service name in report, got %q", report.Service)
	}
	if len(report.Declared) != 1 {
		t.Fatalf("expected one declared var, got %v", report.Declared)
	}

	declared := report.Declared[0]
	if declared.Key != "BOT_TOKEN" || !declared.Required || !declared.Sensitive {
		t.Errorf("expected BOT_TOKEN required and sensitive, got %+v", declared)
	}
	if declared.Source != "deploy-time (sync: false)" {
		t.Errorf("unexpected source %q", declared.Source)
	}
}

func TestBuildReports_UndeclaredUsage(t *testing.T) {
	mfs := filesystems.NewMemoryFS()
	mfs.AddFile("repo/main.py", []byte(`
import os

token = os.getenv('BOT_TOKEN')
chat = os.getenv('CHAT_ID')
`))
	bp := botBlueprint(t)

	reports, err := BuildReports(context.Background(), mfs, "repo", bp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report := reports[0]
	if len(report.Undeclared) != 1 || report.Undeclared[0].VarName != "CHAT_ID" {
		t.Fatalf("expected only CHAT_ID to be undeclared, got %v", report.Undeclared)
	}
}

func TestBuildReports_ObservesDotEnvAndSkipsVendored(t *testing.T) {
	mfs := filesystems.NewMemoryFS()
	mfs.AddFile("repo/.env", []byte("LOG_LEVEL=debug\n"))
	mfs.AddFile("repo/node_modules/pkg/index.js", []byte("process.env.IGNORED_VAR"))
	bp := botBlueprint(t)

	reports, err := BuildReports(context.Background(), mfs, "repo", bp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var names []string
	for _, result := range reports[0].Observed {
		names = append(names, result.VarName)
	}
	if len(names) != 1 || names[0] != "LOG_LEVEL" {
		t.Fatalf("expected only LOG_LEVEL to be observed, got %v", names)
	}
}

func TestBuildReports_GroupResolution(t *testing.T) {
	mfs := filesystems.NewMemoryFS()
	mfs.AddDir("repo")

	bp, err := blueprint.Parse([]byte(`services:
  - type: web
    name: app
    env: python
    buildCommand: pip install -r requirements.txt
    startCommand: python main.py
    envVars:
      - fromGroup: shared
envVarGroups:
  - name: shared
    envVars:
      - key: LOG_LEVEL
        value: info
`))
	if err != nil {
		t.Fatalf("fixture did not parse: %v", err)
	}

	reports, err := BuildReports(context.Background(), mfs, "repo", bp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	declared := reports[0].Declared
	if len(declared) != 1 || declared[0].Key != "LOG_LEVEL" || declared[0].Source != "group shared" {
		t.Fatalf("expected LOG_LEVEL via group shared, got %v", declared)
	}
}
