package blueprint

import (
	"strings"
	"testing"
)

func TestMarshal_RoundTrip(t *testing.T) {
	original := mustParse(t, botManifest)

	encoded, err := Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	reparsed, err := Parse(encoded)
	if err != nil {
		t.Fatalf("emitted yaml did not parse back: %v\n%s", err, encoded)
	}

	if len(reparsed.Services) != 1 {
		t.Fatalf("round trip lost services: %s", encoded)
	}
	service := reparsed.Services[0]
	if service.Name != "crypto-alert-bot" || service.Type != "web" {
		t.Errorf("round trip changed service identity: %+v", service)
	}
	if len(service.EnvVars) != 1 || service.EnvVars[0].Synced() {
		t.Errorf("round trip lost the sync: false declaration: %+v", service.EnvVars)
	}
}

func TestMarshal_OmitsUnsetFields(t *testing.T) {
	encoded, err := Marshal(&Blueprint{Services: []Service{{
		Type:         "web",
		Name:         "app",
		Runtime:      "python",
		BuildCommand: "pip install -r requirements.txt",
		StartCommand: "python main.py",
	}}})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	out := string(encoded)
	for _, absent := range []string{"schedule", "disk", "scaling", "image", "databases"} {
		if strings.Contains(out, absent) {
			t.Errorf("expected %q to be omitted, got:\n%s", absent, out)
		}
	}
	if !strings.Contains(out, "  - type: web") {
		t.Errorf("expected two-space indent, got:\n%s", out)
	}
}
