package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Init prepares v: loads .env if present, binds PLANWISE_* environment
// variables, registers defaults and reads the config file. cfgFile, when
// set, must exist. The search order otherwise is ./.planwise/.planwise.yaml,
// ~/.planwise/config.yaml, $HOME/.planwise.yaml and ./.planwise.yaml.
func Init(v *viper.Viper, cfgFile string) error {
	// It's okay if .env file doesn't exist.
	_ = godotenv.Load()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if cfgFile != "" {
		return readFile(v, cfgFile)
	}

	if info, err := os.Stat(ProjectDir); err == nil && info.IsDir() {
		v.AddConfigPath(ProjectDir)
	}
	if !hasProjectConfig() {
		if global, err := GlobalConfigFile(); err == nil {
			if _, err := os.Stat(global); err == nil {
				return readFile(v, global)
			}
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")
	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			slog.Debug("no config file found, using defaults and environment")
			return nil
		}
		return fmt.Errorf("read config %s: %w", v.ConfigFileUsed(), err)
	}
	slog.Debug("using config file", "path", v.ConfigFileUsed())
	return nil
}

func readFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	slog.Debug("using config file", "path", v.ConfigFileUsed())
	return nil
}

func hasProjectConfig() bool {
	for _, ext := range []string{".yaml", ".yml"} {
		if _, err := os.Stat(filepath.Join(ProjectDir, ConfigName+ext)); err == nil {
			return true
		}
	}
	return false
}
