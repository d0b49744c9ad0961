package types

import "testing"

func TestClassifyEnvVar(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantType  EnvType
		sensitive bool
	}{
		{"BOT_TOKEN", "", EnvTypeSecret, true},
		{"API_KEY", "", EnvTypeSecret, true},
		{"SECRET_SAUCE", "", EnvTypeSecret, true},
		{"DATABASE_URL", "postgres://localhost/app", EnvTypeDatabase, true},
		{"REDIS_URL", "", EnvTypeDatabase, true},
		{"WEBSITE_URL", "https://example.com", EnvTypeURL, false},
		{"FEATURE_ENABLED", "true", EnvTypeBoolean, false},
		{"PORT", "8080", EnvTypeNumeric, false},
		{"APP_NAME", "crypto-alert-bot", EnvTypeConfig, false},
	}

	for _, tt := range tests {
		gotType, gotSensitive := ClassifyEnvVar(tt.name, tt.value)
		if gotType != tt.wantType {
			t.Errorf("ClassifyEnvVar(%q, %q) type = %v, want %v", tt.name, tt.value, gotType, tt.wantType)
		}
		if gotSensitive != tt.sensitive {
			t.Errorf("ClassifyEnvVar(%q, %q) sensitive = %v, want %v", tt.name, tt.value, gotSensitive, tt.sensitive)
		}
	}
}

func TestClassifyEnvVar_GeneratedValues(t *testing.T) {
	uuid := "123e4567-e89b-12d3-a456-426614174000"
	envType, sensitive := ClassifyEnvVar("REQUEST_ID", uuid)
	if envType != EnvTypeGenerated || !sensitive {
		t.Errorf("uuid value classified as %v/%v, want generated/sensitive", envType, sensitive)
	}
}

func TestShouldIgnore(t *testing.T) {
	for _, name := range []string{"PATH", "HOME", "SHELL", "term"} {
		if !ShouldIgnore(name) {
			t.Errorf("expected %q to be ignored", name)
		}
	}
	for _, name := range []string{"BOT_TOKEN", "DATABASE_URL", "PORT"} {
		if ShouldIgnore(name) {
			t.Errorf("expected %q to be kept", name)
		}
	}
}
