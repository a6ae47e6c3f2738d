package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/josephgoksu/PlanWise/internal/llm"
	"github.com/spf13/viper"
)

// AppConfig is the validated view of the resolved configuration.
type AppConfig struct {
	LLM       LLMSection       `mapstructure:"llm"`
	Render    RenderSection    `mapstructure:"render"`
	History   HistorySection   `mapstructure:"history"`
	Prompts   PromptsSection   `mapstructure:"prompts"`
	Server    ServerSection    `mapstructure:"server"`
	Log       LogSection       `mapstructure:"log"`
	Telemetry TelemetrySection `mapstructure:"telemetry"`
}

type LLMSection struct {
	Provider        string            `mapstructure:"provider" validate:"required,oneof=gemini openai anthropic ollama"`
	Model           string            `mapstructure:"model"`
	APIKeys         map[string]string `mapstructure:"apiKeys"`
	BaseURL         string            `mapstructure:"baseURL" validate:"omitempty,url"`
	Temperature     float32           `mapstructure:"temperature" validate:"gte=0,lte=2"`
	TopK            int               `mapstructure:"topK" validate:"gte=0"`
	TopP            float32           `mapstructure:"topP" validate:"gte=0,lte=1"`
	MaxOutputTokens int               `mapstructure:"maxOutputTokens" validate:"gte=1"`
	TimeoutSeconds  int               `mapstructure:"timeoutSeconds" validate:"gte=1"`
}

type RenderSection struct {
	Markers string `mapstructure:"markers" validate:"oneof=emoji markdown"`
	Format  string `mapstructure:"format" validate:"required"`
	Width   int    `mapstructure:"width" validate:"gte=0"`
}

type HistorySection struct {
	Path     string `mapstructure:"path"`
	Disabled bool   `mapstructure:"disabled"`
}

type PromptsSection struct {
	Dir string `mapstructure:"dir"`
}

type ServerSection struct {
	Port int `mapstructure:"port" validate:"gte=0,lte=65535"`
}

type LogSection struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"maxSizeMB" validate:"gte=0"`
	MaxBackups int    `mapstructure:"maxBackups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"maxAgeDays" validate:"gte=0"`
}

type TelemetrySection struct {
	APIKey string `mapstructure:"apiKey"`
}

// validate is a single instance of Validate, it caches struct info
var validate = validator.New()

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = llm.DefaultProvider
		if inferred, ok := llm.InferProvider(cfg.LLM.Model); ok {
			cfg.LLM.Provider = inferred
		}
	}
	cfg.Render.Markers = strings.ToLower(strings.TrimSpace(cfg.Render.Markers))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field rule and reports all failures at once.
func (c *AppConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", configKey(fe.Namespace()), describe(fe)))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// configKey turns "AppConfig.LLM.Provider" into "llm.provider".
func configKey(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = strings.ToLower(p[:1]) + p[1:]
	}
	if len(parts) > 0 {
		parts[0] = strings.ToLower(parts[0])
	}
	return strings.Join(parts, ".")
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s (got %v)", fe.Param(), fe.Value())
	case "url":
		return fmt.Sprintf("must be a URL (got %v)", fe.Value())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
