package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadSimon loads the game configuration.
// Search order: customPath -> ~/.simon/configs/simon.yaml -> ./configs/simon.yaml -> embedded default
// Keys absent from a file keep their default values.
func LoadSimon(customPath string) (SimonConfig, error) {
	cfg := DefaultSimonConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory
	if userCfgPath := userConfigPath("simon.yaml"); userCfgPath != "" {
		if loaded, ok := tryLoad(userCfgPath); ok {
			return loaded, nil
		}
	}

	// Try local configs directory
	if loaded, ok := tryLoad(filepath.Join("configs", "simon.yaml")); ok {
		return loaded, nil
	}

	// Use embedded default YAML
	embedded := DefaultSimonConfig()
	if err := yaml.Unmarshal(defaultSimonYAML, &embedded); err != nil {
		return DefaultSimonConfig(), nil // Fallback to hardcoded if embed fails
	}
	return embedded, nil
}

// tryLoad reads an optional config file. Unreadable or invalid files are
// skipped so the next location is tried.
func tryLoad(path string) (SimonConfig, bool) {
	cfg := DefaultSimonConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, false
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	if err := cfg.Validate(); err != nil {
		return cfg, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".simon", "configs", filename)
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultSimonYAML...)
}
