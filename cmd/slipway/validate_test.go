package slipway

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

const botManifest = `services:
  - type: web
    name: crypto-alert-bot
    env: python
    buildCommand: pip install -r requirements.txt
    startCommand: python main.py
    plan: free
    envVars:
      - key: BOT_TOKEN
        sync: false
`

func newValidateTestCmd() *cobra.Command {
	cmd := &cobra.Command{}
	addValidateFlags(cmd)
	return cmd
}

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestRunValidate_CleanTree(t *testing.T) {
	dir := writeFixture(t, "render.yaml", botManifest)

	if err := runValidate(newValidateTestCmd(), dir); err != nil {
		t.Errorf("expected clean manifest to pass, got %v", err)
	}
}

func TestRunValidate_DirectFilePath(t *testing.T) {
	dir := writeFixture(t, "render.yaml", botManifest)

	if err := runValidate(newValidateTestCmd(), filepath.Join(dir, "render.yaml")); err != nil {
		t.Errorf("expected file path validation to pass, got %v", err)
	}
}

func TestRunValidate_ErrorsFail(t *testing.T) {
	dir := writeFixture(t, "render.yaml", `services:
  - type: web
    name: app
`)

	if err := runValidate(newValidateTestCmd(), dir); err == nil {
		t.Error("expected missing runtime to fail validation")
	}
}

func TestRunValidate_StrictPromotesWarnings(t *testing.T) {
	manifest := `services:
  - type: web
    name: app
    env: python
    buildCommand: pip install -r requirements.txt
    startCommand: python main.py
    envVars:
      - key: OPTIONAL_FLAG
`
	dir := writeFixture(t, "render.yaml", manifest)

	cmd := newValidateTestCmd()
	if err := runValidate(cmd, dir); err != nil {
		t.Errorf("expected warnings to pass without --strict, got %v", err)
	}

	strictCmd := newValidateTestCmd()
	if err := strictCmd.Flags().Set("strict", "true"); err != nil {
		t.Fatal(err)
	}
	if err := runValidate(strictCmd, dir); err == nil {
		t.Error("expected --strict to fail on warnings")
	}
}

func TestRunValidate_EnvFile(t *testing.T) {
	dir := writeFixture(t, "render.yaml", botManifest)

	emptyEnv := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(emptyEnv, []byte("OTHER=1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := newValidateTestCmd()
	if err := cmd.Flags().Set("env-file", emptyEnv); err != nil {
		t.Fatal(err)
	}
	if err := runValidate(cmd, dir); err == nil {
		t.Error("expected missing BOT_TOKEN in env file to fail")
	}

	fullEnv := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(fullEnv, []byte("BOT_TOKEN=123456:abc\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd = newValidateTestCmd()
	if err := cmd.Flags().Set("env-file", fullEnv); err != nil {
		t.Fatal(err)
	}
	if err := runValidate(cmd, dir); err != nil {
		t.Errorf("expected provided BOT_TOKEN to pass, got %v", err)
	}
}

func TestRunValidate_NoManifests(t *testing.T) {
	if err := runValidate(newValidateTestCmd(), t.TempDir()); err == nil {
		t.Error("expected error when no manifests are found")
	}
}
