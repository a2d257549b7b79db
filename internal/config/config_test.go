package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kabaddi-live/scoring-service/internal/config"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestConfigLoad_FromYAMLAndEnv(t *testing.T) {
	yaml := `
logger:
  level: info
  format: json
  output_target: stdout
  time_format: rfc3339

server:
  addr: ":18080"

postgres:
  host: 127.0.0.1
  port: 5432
  user: placeholder
  password: placeholder
  dbname: kabaddi
  sslmode: disable
  max_conns: 5
  min_conns: 1
  max_conn_lifetime: 60
  max_conn_idle_time: 30
  health_check_period: 15

match:
  super_tackle_threshold: 4
  raid_duration: 25
`
	path := writeTempConfig(t, yaml)

	// Secrets come from ENV using the canonical APP_* names.
	t.Setenv("APP_POSTGRES_USER", "testuser")
	t.Setenv("APP_POSTGRES_PASSWORD", "testpass")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":18080" {
		t.Fatalf("server addr = %q", cfg.Server.Addr)
	}
	if cfg.Postgres.User != "testuser" || cfg.Postgres.Password != "testpass" {
		t.Fatalf("env override not applied: %q/%q", cfg.Postgres.User, cfg.Postgres.Password)
	}
	if cfg.Match.SuperTackleThreshold != 4 || cfg.Match.RaidDuration != 25 {
		t.Fatalf("match overrides not applied: %+v", cfg.Match)
	}

	// Omitted match fields fall back to the rulebook defaults.
	if cfg.Match.RotationPolicy != "alternate" {
		t.Fatalf("rotation policy default = %q", cfg.Match.RotationPolicy)
	}
	if cfg.Match.HalfDuration != 1200 || cfg.Match.NumberOfHalves != 2 {
		t.Fatalf("timing defaults wrong: %+v", cfg.Match)
	}
	if cfg.Match.BreakDuration != 300 || cfg.Match.TimeoutsPerHalf != 2 {
		t.Fatalf("break/timeout defaults wrong: %+v", cfg.Match)
	}
}

func TestConfigLoad_MissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
