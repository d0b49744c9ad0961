package types

import (
	"strconv"
	"strings"
	"unicode"
)

var secretPatterns = []string{
	"secret", "key", "token", "password", "pass", "pwd",
	"auth", "authorization", "credential", "cred",
	"private", "priv", "cert", "certificate",
	"api_key", "apikey", "access_key", "secret_key",
	"client_secret", "oauth",
	"bearer", "jwt", "session", "cookie",
	"salt", "signature", "signing",
	"webhook", "vault",
}

var databasePatterns = []string{
	"database_url", "db_url", "dsn", "connection_string",
	"postgres_url", "mysql_url", "mongodb_url", "redis_url",
}

// Shell and OS variables that never belong in a deployment manifest.
var systemEnvVars = []string{
	"path", "home", "user", "shell", "pwd", "lang", "term", "tmpdir",
	"ps1", "ps2", "ifs", "editor", "pager", "browser", "display",
	"oldpwd", "shlvl", "hostname", "logname", "uid", "gid",
}

// ShouldIgnore reports whether a variable name is an OS-level variable
// that extractors should drop.
func ShouldIgnore(name string) bool {
	nameLower := strings.ToLower(name)
	for _, sysVar := range systemEnvVars {
		if nameLower == sysVar {
			return true
		}
	}
	return false
}

// ClassifyEnvVar buckets a variable by name and value patterns and reports
// whether it should be treated as sensitive.
func ClassifyEnvVar(name, value string) (EnvType, bool) {
	nameLower := strings.ToLower(name)

	if looksGenerated(value) {
		return EnvTypeGenerated, true
	}

	for _, pattern := range databasePatterns {
		if strings.Contains(nameLower, pattern) {
			return EnvTypeDatabase, true
		}
	}

	for _, pattern := range secretPatterns {
		if strings.Contains(nameLower, pattern) {
			return EnvTypeSecret, true
		}
	}

	if strings.HasPrefix(value, "http") || strings.Contains(nameLower, "url") {
		return EnvTypeURL, false
	}

	if value == "true" || value == "false" || strings.Contains(nameLower, "enable") ||
		strings.Contains(nameLower, "flag") {
		return EnvTypeBoolean, false
	}

	if _, err := strconv.Atoi(value); err == nil && value != "" {
		return EnvTypeNumeric, false
	}

	return EnvTypeConfig, false
}

func looksGenerated(value string) bool {
	if len(value) < 8 {
		return false
	}

	// UUID: 36 chars with four dashes
	if len(value) == 36 && strings.Count(value, "-") == 4 {
		return true
	}

	// JWT: three base64 parts separated by dots
	if strings.Count(value, ".") == 2 && len(value) > 50 {
		return true
	}

	// Nanoid-ish: long URL-safe base64
	if len(value) >= 16 && isURLSafeBase64(value) && hasHighEntropy(value) && containsMixedCase(value) {
		return true
	}

	return false
}

func isURLSafeBase64(s string) bool {
	for _, r := range s {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_') {
			return false
		}
	}
	return true
}

func hasHighEntropy(value string) bool {
	charCount := make(map[rune]int)
	for _, r := range value {
		charCount[r]++
	}
	return float64(len(charCount))/float64(len(value)) > 0.5
}

func containsMixedCase(value string) bool {
	hasUpper := false
	hasLower := false
	for _, r := range value {
		if unicode.IsUpper(r) {
			hasUpper = true
		}
		if unicode.IsLower(r) {
			hasLower = true
		}
		if hasUpper && hasLower {
			return true
		}
	}
	return false
}
