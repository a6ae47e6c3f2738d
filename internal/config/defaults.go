// Package config resolves PlanWise settings from flags, environment
// variables, .env files and .planwise.yaml through Viper.
// All default values are defined here.
package config

import (
	"github.com/josephgoksu/PlanWise/internal/llm"
	"github.com/spf13/viper"
)

const (
	// ConfigName is the config file base name searched for (.planwise.yaml).
	ConfigName = ".planwise"
	// EnvPrefix prefixes every environment override, e.g. PLANWISE_LLM_PROVIDER.
	EnvPrefix = "PLANWISE"
	// ProjectDir is the per-project directory checked before $HOME.
	ProjectDir = ".planwise"
)

// Render defaults
const (
	DefaultMarkers = "emoji"
	DefaultFormat  = "terminal"
	DefaultPort    = 8080
)

// SetDefaults registers every default on v. llm.provider has no Viper
// default so that a configured model can select its own provider.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("llm.temperature", llm.DefaultTemperature)
	v.SetDefault("llm.topK", llm.DefaultTopK)
	v.SetDefault("llm.topP", llm.DefaultTopP)
	v.SetDefault("llm.maxOutputTokens", llm.DefaultMaxOutputTokens)
	v.SetDefault("llm.timeoutSeconds", int(llm.DefaultTimeout.Seconds()))

	v.SetDefault("render.markers", DefaultMarkers)
	v.SetDefault("render.format", DefaultFormat)
	v.SetDefault("render.width", 0)

	v.SetDefault("server.port", DefaultPort)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.maxSizeMB", 10)
	v.SetDefault("log.maxBackups", 3)
	v.SetDefault("log.maxAgeDays", 28)
}
