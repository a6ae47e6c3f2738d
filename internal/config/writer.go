package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// SetGlobalValue writes key=value into ~/.planwise/config.yaml, creating the
// file if needed, and returns the file path.
func SetGlobalValue(key string, value any) (string, error) {
	path, err := GlobalConfigFile()
	if err != nil {
		return "", err
	}
	return path, SetFileValue(path, key, value)
}

// SetFileValue writes key=value into the YAML config file at path, keeping
// its other keys.
func SetFileValue(path, key string, value any) error {
	if key == "" {
		return fmt.Errorf("config key cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}
	v.Set(key, value)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	// API keys may live here.
	return os.Chmod(path, 0600)
}

// SaveAPIKeyForProvider stores a provider API key in the global config.
func SaveAPIKeyForProvider(provider, key string) (string, error) {
	if provider == "" {
		return "", fmt.Errorf("provider cannot be empty")
	}
	if key == "" {
		return "", fmt.Errorf("API key cannot be empty")
	}
	return SetGlobalValue(fmt.Sprintf("llm.apiKeys.%s", provider), key)
}
