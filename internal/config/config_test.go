package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/josephgoksu/PlanWise/internal/llm"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	return v
}

func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, names := range ProviderEnvVars {
		for _, n := range names {
			t.Setenv(n, "")
		}
	}
}

func TestLoadLLMConfig_Defaults(t *testing.T) {
	clearKeyEnv(t)
	v := newTestViper(t)

	cfg, err := LoadLLMConfig(v)
	require.NoError(t, err)
	assert.Equal(t, llm.Provider(llm.ProviderGemini), cfg.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Model)
	assert.Empty(t, cfg.APIKey)
	assert.InDelta(t, 0.7, cfg.Temperature, 1e-6)
	assert.Equal(t, 1, cfg.TopK)
	assert.Equal(t, 2048, cfg.MaxOutputTokens)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
}

func TestLoadLLMConfig_InfersProviderFromModel(t *testing.T) {
	clearKeyEnv(t)
	v := newTestViper(t)
	v.Set("llm.model", "claude-sonnet-4-5")

	cfg, err := LoadLLMConfig(v)
	require.NoError(t, err)
	assert.Equal(t, llm.Provider(llm.ProviderAnthropic), cfg.Provider)
	assert.Equal(t, "claude-sonnet-4-5", cfg.Model)
}

func TestLoadLLMConfig_Ollama(t *testing.T) {
	v := newTestViper(t)
	v.Set("llm.provider", "ollama")

	cfg, err := LoadLLMConfig(v)
	require.NoError(t, err)
	assert.Equal(t, llm.DefaultOllamaURL, cfg.BaseURL)
	assert.Equal(t, "llama3.2", cfg.Model)
}

func TestLoadLLMConfig_InvalidProvider(t *testing.T) {
	v := newTestViper(t)
	v.Set("llm.provider", "bedrock")
	_, err := LoadLLMConfig(v)
	assert.Error(t, err)
}

func TestResolveAPIKey(t *testing.T) {
	clearKeyEnv(t)
	v := newTestViper(t)

	assert.Empty(t, ResolveAPIKey(v, llm.ProviderGemini))

	t.Setenv("GOOGLE_API_KEY", "google-key")
	assert.Equal(t, "google-key", ResolveAPIKey(v, llm.ProviderGemini))

	t.Setenv("GEMINI_API_KEY", "gemini-key")
	assert.Equal(t, "gemini-key", ResolveAPIKey(v, llm.ProviderGemini), "GEMINI_API_KEY wins over GOOGLE_API_KEY")

	v.Set("llm.apiKeys.gemini", " config-key ")
	assert.Equal(t, "config-key", ResolveAPIKey(v, llm.ProviderGemini), "config wins over env")

	t.Setenv("OPENAI_API_KEY", "sk-openai")
	assert.Equal(t, "sk-openai", ResolveAPIKey(v, llm.ProviderOpenAI))
	assert.Empty(t, ResolveAPIKey(v, llm.ProviderOllama))
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "", MaskKey(""))
	assert.Equal(t, "****", MaskKey("abc"))
	assert.Equal(t, "****wxyz", MaskKey("sk-abcdwxyz"))
}

func TestLoad_ValidatesAllFields(t *testing.T) {
	v := newTestViper(t)
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "emoji", cfg.Render.Markers)
	assert.Equal(t, DefaultPort, cfg.Server.Port)

	v.Set("llm.provider", "bedrock")
	v.Set("render.markers", "HTML")
	v.Set("llm.topP", 3)
	_, err = Load(v)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "llm.provider")
	assert.Contains(t, msg, "render.markers")
	assert.Contains(t, msg, "llm.topP")
}

func TestLoad_MarkersCaseInsensitive(t *testing.T) {
	v := newTestViper(t)
	v.Set("render.markers", " Markdown ")
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "markdown", cfg.Render.Markers)
}

func TestInit_ReadsExplicitFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  provider: openai\n  model: gpt-4o\nrender:\n  markers: markdown\n"), 0o644))
	t.Setenv("PLANWISE_RENDER_WIDTH", "72")

	v := viper.New()
	require.NoError(t, Init(v, path))
	assert.Equal(t, "openai", v.GetString("llm.provider"))
	assert.Equal(t, "markdown", v.GetString("render.markers"))
	assert.Equal(t, 72, v.GetInt("render.width"))

	assert.Error(t, Init(viper.New(), filepath.Join(dir, "missing.yaml")))
}

func withGlobalDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig := GetGlobalConfigDir
	GetGlobalConfigDir = func() (string, error) { return dir, nil }
	t.Cleanup(func() { GetGlobalConfigDir = orig })
	return dir
}

func TestPaths(t *testing.T) {
	global := withGlobalDir(t)
	t.Chdir(t.TempDir())
	t.Setenv("XDG_DATA_HOME", "")

	v := viper.New()
	assert.Equal(t, filepath.Join(global, "history.db"), HistoryPath(v))
	assert.Equal(t, filepath.Join(global, "prompts"), PromptsDir(v))

	t.Setenv("XDG_DATA_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "planwise", "history.db"), HistoryPath(v))

	require.NoError(t, os.Mkdir(ProjectDir, 0o755))
	assert.Equal(t, filepath.Join(ProjectDir, "history.db"), HistoryPath(v))

	v.Set("history.path", "/tmp/h.db")
	v.Set("prompts.dir", "/tmp/prompts")
	assert.Equal(t, "/tmp/h.db", HistoryPath(v))
	assert.Equal(t, "/tmp/prompts", PromptsDir(v))
}

func TestSetGlobalValue(t *testing.T) {
	global := withGlobalDir(t)

	path, err := SaveAPIKeyForProvider("gemini", "g-key: with colon")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(global, "config.yaml"), path)

	_, err = SetGlobalValue("render.markers", "markdown")
	require.NoError(t, err)

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	assert.Equal(t, "g-key: with colon", v.GetString("llm.apiKeys.gemini"))
	assert.Equal(t, "markdown", v.GetString("render.markers"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	_, err = SaveAPIKeyForProvider("", "x")
	assert.Error(t, err)
	assert.Error(t, SetFileValue(path, "", "x"))
}

func TestConfigKey(t *testing.T) {
	assert.Equal(t, "llm.maxOutputTokens", configKey("AppConfig.LLM.MaxOutputTokens"))
	assert.Equal(t, "render.markers", configKey("AppConfig.Render.Markers"))
	assert.True(t, strings.HasPrefix(configKey("AppConfig.Server.Port"), "server."))
}
