package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

type Config struct {
	Defaults struct {
		Family    string `json:"family"`
		Separator string `json:"separator"`
	} `json:"defaults"`

	Limits struct {
		MaxInputBytes int `json:"max_input_bytes"`
	} `json:"limits"`

	Cache struct {
		Enabled   bool   `json:"enabled"`
		KeyPrefix string `json:"key_prefix"`
		TTL       Timer  `json:"ttl"`
	} `json:"cache"`

	Server struct {
		CORSOrigin string `json:"cors_origin"`
		StaticDir  string `json:"static_dir"`
	} `json:"server"`
}

type Timer struct {
	Days    uint32 `json:"days"`
	Hours   uint32 `json:"hours"`
	Minutes uint32 `json:"minutes"`
	Seconds uint32 `json:"seconds"`
}

const (
	DefaultSettingsFilePath = "data/settings.json"
	defaultMaxInputBytes    = 4 << 20
)

var (
	//go:embed default_settings.json
	defaultConfig []byte

	configValue atomic.Value
	configMu    sync.Mutex
)

func init() {
	cfg, err := parseConfig(defaultConfig)
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	configValue.Store(cfg)
}

// ReadSettings loads the settings file at path, writing the embedded defaults
// there first if it does not exist yet.
func ReadSettings(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("read settings file: %w", err)
		}

		log.Warn("Settings file not found, creating with default configuration", "path", path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create settings directory: %w", err)
		}
		if err := os.WriteFile(path, defaultConfig, 0o644); err != nil {
			return fmt.Errorf("write default settings file: %w", err)
		}
		data = defaultConfig
	}

	cfg, err := parseConfig(data)
	if err != nil {
		return fmt.Errorf("parse settings file: %w", err)
	}

	applyConfig(cfg, "file")
	log.Debug("Settings file loaded successfully", "path", path)
	return nil
}

// SetConfig replaces the active configuration and persists it to path when
// path is not empty.
func SetConfig(newConfig Config, path string) error {
	newConfig = withDefaults(newConfig)
	applyConfig(newConfig, "local")

	if path == "" {
		return nil
	}

	data, err := json.MarshalIndent(newConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal configuration: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write configuration: %w", err)
	}
	return nil
}

func GetConfig() Config {
	return configValue.Load().(Config)
}

func applyConfig(cfg Config, source string) {
	configMu.Lock()
	defer configMu.Unlock()

	configValue.Store(cfg)
	log.Debug("Configuration applied", "source", source)
}

func parseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return withDefaults(cfg), nil
}

func validate(cfg Config) error {
	var errs []error
	if cfg.Limits.MaxInputBytes < 0 {
		errs = append(errs, errors.New("limits.max_input_bytes must not be negative"))
	}
	switch cfg.Defaults.Family {
	case "", "v4", "v6":
	default:
		errs = append(errs, fmt.Errorf("defaults.family %q is not v4 or v6", cfg.Defaults.Family))
	}
	return errors.Join(errs...)
}

func withDefaults(cfg Config) Config {
	if cfg.Defaults.Family == "" {
		cfg.Defaults.Family = "v4"
	}
	if cfg.Defaults.Separator == "" {
		cfg.Defaults.Separator = "\n"
	}
	if cfg.Limits.MaxInputBytes == 0 {
		cfg.Limits.MaxInputBytes = defaultMaxInputBytes
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = "netcalc:convert:"
	}
	if cfg.Server.CORSOrigin == "" {
		cfg.Server.CORSOrigin = "*"
	}
	return cfg
}
