package extractors

import (
	"context"
	"testing"

	"github.com/slipway-sh/slipway/internal/environment/types"
)

func resultByName(results []types.EnvResult, name string) *types.EnvResult {
	for i := range results {
		if results[i].VarName == name {
			return &results[i]
		}
	}
	return nil
}

func TestDotEnvExtractor(t *testing.T) {
	extractor := NewDotEnvExtractor()

	if !extractor.CanHandle(".env") || !extractor.CanHandle("app/.env.production") {
		t.Error("expected extractor to handle .env files")
	}
	if extractor.CanHandle("main.py") {
		t.Error("expected extractor to reject source files")
	}

	results, err := extractor.Extract(context.Background(), ".env", []byte(`
BOT_TOKEN=123456:abcdef
PORT=8080
# comment
PATH=/usr/bin
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token := resultByName(results, "BOT_TOKEN")
	if token == nil {
		t.Fatal("expected BOT_TOKEN to be extracted")
	}
	if !token.Sensitive || token.Type != types.EnvTypeSecret {
		t.Errorf("expected BOT_TOKEN to classify as secret, got %v", token)
	}
	if token.Confidence != 85 {
		t.Errorf("expected .env confidence 85, got %d", token.Confidence)
	}

	if resultByName(results, "PATH") != nil {
		t.Error("expected OS variables to be dropped")
	}
}

func TestDotEnvExtractor_ExampleFilesRankLow(t *testing.T) {
	extractor := NewDotEnvExtractor()

	results, err := extractor.Extract(context.Background(), ".env.example", []byte("BOT_TOKEN=changeme\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Confidence != 30 {
		t.Fatalf("expected example files at confidence 30, got %v", results)
	}
}
