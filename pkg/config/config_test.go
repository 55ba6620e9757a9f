package config

import (
	"os"
	"path/filepath"
	"testing"
)

const minimalYAML = `
environment: development
engine:
  symbol: XAUUSD
gateway:
  url: ws://localhost:9100
kafka:
  brokers: ["localhost:9092"]
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMetricsEnabledByDefault(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Metrics.Enabled {
		t.Fatalf("metrics must default to enabled when the section is omitted")
	}
}

func TestLoadMetricsExplicitDisable(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML+`
metrics:
  enabled: false
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Metrics.Enabled {
		t.Fatalf("explicit metrics.enabled=false must be honored")
	}
}

func TestLoadRejectsMissingSymbol(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: development
gateway:
  url: ws://localhost:9100
kafka:
  brokers: ["localhost:9092"]
`))
	if err == nil {
		t.Fatalf("expected validation error for missing engine.symbol")
	}
}
