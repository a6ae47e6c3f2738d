package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// GetGlobalConfigDir returns the path to the global configuration directory (~/.planwise).
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".planwise"), nil
}

// HistoryPath returns the plan history database location.
// Resolution order (first match wins):
// 1. Explicit config via "history.path" (Viper/env/flag)
// 2. Local project directory: .planwise/history.db (if .planwise exists)
// 3. XDG_DATA_HOME/planwise/history.db (if XDG_DATA_HOME is set)
// 4. Global fallback: ~/.planwise/history.db
func HistoryPath(v *viper.Viper) string {
	if path := v.GetString("history.path"); path != "" {
		return path
	}

	if info, err := os.Stat(ProjectDir); err == nil && info.IsDir() {
		return filepath.Join(ProjectDir, "history.db")
	}

	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "planwise", "history.db")
	}

	dir, err := GetGlobalConfigDir()
	if err != nil {
		return filepath.Join(ProjectDir, "history.db")
	}
	return filepath.Join(dir, "history.db")
}

// PromptsDir returns the prompt override directory: "prompts.dir" when set,
// otherwise ~/.planwise/prompts.
func PromptsDir(v *viper.Viper) string {
	if dir := v.GetString("prompts.dir"); dir != "" {
		return dir
	}
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "prompts")
}

// GlobalConfigFile returns ~/.planwise/config.yaml.
func GlobalConfigFile() (string, error) {
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
