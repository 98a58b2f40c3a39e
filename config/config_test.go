package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kilianp07/fleetalloc/core/runlog"
)

//nolint:gocyclo
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `allocation:
  current_time: 5
  max_rounds: 20
runlog:
  backend: sqlite
  path: "runs.db"
metrics:
  sinks:
    - type: "nop"
mqtt:
  enabled: true
  broker: "tcp://localhost:1883"
  client_id: "cli"
  topic_prefix: "ops"
  qos:
    plan: 1
http:
  address: ":9000"
  rate_limit: 2.5
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"current_time", cfg.Allocation.CurrentTime, 5.0},
		{"max_rounds", cfg.Allocation.MaxRounds, 20},
		{"runlog.backend", cfg.RunLog.Backend, runlog.BackendSQLite},
		{"runlog.path", cfg.RunLog.Path, "runs.db"},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"client_id", cfg.MQTT.ClientID, "cli"},
		{"topic_prefix", cfg.MQTT.TopicPrefix, "ops"},
		{"qos.plan", cfg.MQTT.QoS["plan"], byte(1)},
		{"http.address", cfg.HTTP.Address, ":9000"},
		{"http.burst", cfg.HTTP.Burst, 3},
		{"http.max_body", cfg.HTTP.MaxBodyBytes, int64(4 << 20)},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: got %v want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoadJSONWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"http":{"address":":7000"}}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("K_HTTP__ADDRESS", ":7100")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Address != ":7100" {
		t.Fatalf("env override not applied: %s", cfg.HTTP.Address)
	}
	if cfg.RunLog.Backend != runlog.BackendJSONL || cfg.RunLog.Path != "allocations.jsonl" {
		t.Fatalf("runlog defaults not applied: %+v", cfg.RunLog)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "config.toml")); err == nil {
		t.Fatalf("expected unsupported format error")
	}
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("runlog:\n  backend: tape\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(bad); err == nil {
		t.Fatalf("expected unknown backend error")
	}
	neg := filepath.Join(dir, "neg.yaml")
	if err := os.WriteFile(neg, []byte("allocation:\n  max_rounds: -1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(neg); err == nil {
		t.Fatalf("expected max_rounds error")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.HTTP.Address != ":8080" || cfg.MQTT.Enabled {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadEnvOnly(t *testing.T) {
	t.Setenv("K_HTTP__AUTH__TOKEN", "secret")
	t.Setenv("K_HTTP__RATE_LIMIT", "2.5")
	t.Setenv("K_RUNLOG__BACKEND", "memory")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.HTTP.Auth.Enabled() || cfg.HTTP.Auth.Token != "secret" {
		t.Fatalf("auth token not applied: %+v", cfg.HTTP.Auth)
	}
	if cfg.HTTP.RateLimit != 2.5 || cfg.HTTP.Burst != 3 {
		t.Fatalf("rate limit defaults: %+v", cfg.HTTP)
	}
	if cfg.HTTP.RequestTimeoutSeconds != 30 {
		t.Fatalf("request timeout default: %d", cfg.HTTP.RequestTimeoutSeconds)
	}
}
