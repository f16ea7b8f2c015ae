package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// Marshal renders cfg as YAML, with durations written as strings.
func Marshal(cfg *Config) ([]byte, error) {
	m, err := structToMap(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	stringifyDurations(m)
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// stringifyDurations rewrites nested time.Duration values as "24h0m0s".
func stringifyDurations(m map[string]interface{}) {
	for k, v := range m {
		switch x := v.(type) {
		case time.Duration:
			m[k] = x.String()
		case map[string]interface{}:
			stringifyDurations(x)
		}
	}
}

// SaveConfig writes cfg to path atomically, creating parent directories if
// needed. An existing file is only replaced when overwrite is set.
func SaveConfig(path string, cfg *Config, overwrite bool) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
