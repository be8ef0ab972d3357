package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/leonardotrapani/scribe/internal/logging"
)

func ConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	scribeDir := filepath.Join(dir, "scribe")
	if err := os.MkdirAll(scribeDir, 0o755); err != nil {
		return "", fmt.Errorf("create config dir %s: %w", scribeDir, err)
	}
	return filepath.Join(scribeDir, "config.toml"), nil
}

// Load reads and decodes the config file onto DefaultConfig's values, so an
// absent file, or a file missing whole sections, still yields a usable
// Config. Unknown keys are logged as warnings per spec.md §6, never errors.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logging.Infof("config: %s not found, using defaults", path)
		return cfg, nil
	} else if err != nil {
		return nil, fmt.Errorf("stat config file %s: %w", path, err)
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	for _, key := range meta.Undecoded() {
		logging.Warnf("config: warning: unrecognized key %q in %s", key, path)
	}

	return cfg, nil
}

// Save writes cfg to the config file as TOML, overwriting it in place.
// Used by `scribe model set` to persist the active model without making
// the user hand-edit config.toml.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file %s: %w", path, err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("encode config file %s: %w", path, err)
	}
	return nil
}
