package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedDefaults(t *testing.T) {
	cfg, err := parseConfig(defaultConfig)
	if err != nil {
		t.Fatalf("parseConfig(defaults) returned error: %v", err)
	}
	if cfg.Defaults.Family != "v4" || cfg.Defaults.Separator != "\n" {
		t.Fatalf("unexpected defaults: %+v", cfg.Defaults)
	}
	if cfg.Limits.MaxInputBytes <= 0 {
		t.Fatalf("max input bytes is %d, want a positive limit", cfg.Limits.MaxInputBytes)
	}
}

func TestReadSettingsCreatesDefaultFile(t *testing.T) {
	orig := GetConfig()
	t.Cleanup(func() { configValue.Store(orig) })

	path := filepath.Join(t.TempDir(), "data", "settings.json")
	if err := ReadSettings(path); err != nil {
		t.Fatalf("ReadSettings returned error: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("settings file was not created: %v", err)
	}
	if got := GetConfig().Cache.KeyPrefix; got != "netcalc:convert:" {
		t.Fatalf("cache key prefix is %q, want netcalc:convert:", got)
	}
}

func TestReadSettingsAppliesFile(t *testing.T) {
	orig := GetConfig()
	t.Cleanup(func() { configValue.Store(orig) })

	path := filepath.Join(t.TempDir(), "settings.json")
	content := `{"defaults":{"family":"v6","separator":","},"cache":{"enabled":true}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	if err := ReadSettings(path); err != nil {
		t.Fatalf("ReadSettings returned error: %v", err)
	}

	cfg := GetConfig()
	if cfg.Defaults.Family != "v6" || cfg.Defaults.Separator != "," || !cfg.Cache.Enabled {
		t.Fatalf("settings not applied: %+v", cfg)
	}
	if cfg.Limits.MaxInputBytes != defaultMaxInputBytes {
		t.Fatalf("max input bytes is %d, want default %d", cfg.Limits.MaxInputBytes, defaultMaxInputBytes)
	}
}

func TestReadSettingsRejectsInvalidFamily(t *testing.T) {
	orig := GetConfig()
	t.Cleanup(func() { configValue.Store(orig) })

	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"defaults":{"family":"v5"}}`), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	err := ReadSettings(path)
	if err == nil || !strings.Contains(err.Error(), "v5") {
		t.Fatalf("ReadSettings returned %v, want an error naming v5", err)
	}
	if GetConfig().Defaults.Family != orig.Defaults.Family {
		t.Fatal("invalid settings replaced the active configuration")
	}
}

func TestSetConfigPersists(t *testing.T) {
	orig := GetConfig()
	t.Cleanup(func() { configValue.Store(orig) })

	path := filepath.Join(t.TempDir(), "settings.json")
	cfg := orig
	cfg.Server.StaticDir = "./public"
	if err := SetConfig(cfg, path); err != nil {
		t.Fatalf("SetConfig returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read persisted settings: %v", err)
	}
	if !strings.Contains(string(data), `"static_dir": "./public"`) {
		t.Fatalf("persisted settings missing static_dir: %s", data)
	}
}
