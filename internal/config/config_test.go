package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /var/lib/career-forecast/refdata.db
  seedfile: seed.yaml
server:
  address: ":9090"
engine:
  homecountry: Pakistan
  baselinesalaryk: 12.0
  baselinegrowth: 0.10
logging:
  level: debug
  format: console
output:
  format: csv
`)

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if conf.Database.Path != "/var/lib/career-forecast/refdata.db" {
		t.Errorf("Database.Path = %q", conf.Database.Path)
	}
	if conf.Server.Address != ":9090" {
		t.Errorf("Server.Address = %q", conf.Server.Address)
	}
	if conf.Engine.BaselineSalaryK != 12.0 || conf.Engine.BaselineGrowth != 0.10 {
		t.Errorf("engine defaults = %+v", conf.Engine)
	}
	if conf.Logging.Level != "debug" || conf.Logging.Format != "console" {
		t.Errorf("logging = %+v", conf.Logging)
	}
	if conf.Output.Format != "csv" {
		t.Errorf("Output.Format = %q", conf.Output.Format)
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	path := writeConfig(t, "database:\n  path: test.db\n")

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if conf.Server.Address != ":8080" {
		t.Errorf("default Server.Address = %q", conf.Server.Address)
	}
	if conf.Engine.HomeCountry != "Pakistan" {
		t.Errorf("default Engine.HomeCountry = %q", conf.Engine.HomeCountry)
	}
	if conf.Engine.FamilyTransitionYear != 5 {
		t.Errorf("default Engine.FamilyTransitionYear = %d", conf.Engine.FamilyTransitionYear)
	}
	if conf.Engine.BaselineSalaryK != 9.5 {
		t.Errorf("default Engine.BaselineSalaryK = %v", conf.Engine.BaselineSalaryK)
	}
	if conf.Logging.Level != "info" || conf.Logging.Format != "json" {
		t.Errorf("default logging = %+v", conf.Logging)
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
