// Package config provides configuration helpers and config file parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileConfig represents the configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice" yaml:"practice"`
	Log      LogConfig      `toml:"log" yaml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Lang        *string  `toml:"lang" yaml:"lang"`
	Dict        *string  `toml:"dict" yaml:"dict"`
	Words       *int     `toml:"words" yaml:"words"`
	Seconds     *int     `toml:"seconds" yaml:"seconds"`
	CapsPct     *float64 `toml:"caps" yaml:"caps"`
	PunctPct    *float64 `toml:"punct" yaml:"punct"`
	PunctSet    *string  `toml:"punct-set" yaml:"punct-set"`
	StopOnError *bool    `toml:"stop-on-error" yaml:"stop-on-error"`
	FocusWeak   *bool    `toml:"focus-weak" yaml:"focus-weak"`
	WeakTop     *int     `toml:"weak-top" yaml:"weak-top"`
	WeakFactor  *float64 `toml:"weak-factor" yaml:"weak-factor"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level  *string `toml:"level" yaml:"level"`
	Format *string `toml:"format" yaml:"format"`
	File   *string `toml:"file" yaml:"file"`
}

// LoadConfig reads a TOML or YAML config from the given path, chosen by file
// extension. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	}
	return cfg, nil
}

// ResolveConfigPath returns the first existing config file among the TOML
// path and its YAML siblings, or the TOML path when none exists.
func ResolveConfigPath(tomlPath string) string {
	base := strings.TrimSuffix(tomlPath, filepath.Ext(tomlPath))
	for _, candidate := range []string{tomlPath, base + ".yaml", base + ".yml"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return tomlPath
}
