package telemetry

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_NewConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.False(t, cfg.Enabled)
	assert.True(t, cfg.NeedsConsent())
	assert.Len(t, cfg.AnonymousID, 36)
	assert.Equal(t, filepath.Join(dir, ConfigFileName), cfg.Path())

	_, err = os.Stat(cfg.Path())
	assert.True(t, os.IsNotExist(err), "Load must not create the file")
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", ".planwise")
	cfg, err := Load(dir)
	require.NoError(t, err)
	cfg.Enable()
	require.NoError(t, cfg.Save())

	info, err := os.Stat(cfg.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	again, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, again.IsEnabled())
	assert.False(t, again.NeedsConsent())
	assert.Equal(t, cfg.AnonymousID, again.AnonymousID)
}

func TestLoad_GeneratesIDWhenMissing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(ConfigPath(dir), []byte(`{"enabled":true,"consent_asked":true}`), 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.NotEmpty(t, cfg.AnonymousID)
}

func TestLoad_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(ConfigPath(dir), []byte("{"), 0600))
	_, err := Load(dir)
	assert.ErrorContains(t, err, "parse telemetry config")
}

func TestEnableDisable(t *testing.T) {
	cfg := &Config{}
	cfg.Enable()
	assert.True(t, cfg.IsEnabled())
	cfg.Disable()
	assert.False(t, cfg.IsEnabled())
	assert.True(t, cfg.ConsentAsked)

	var nilCfg *Config
	assert.False(t, nilCfg.IsEnabled())
}

func TestSave_NoPath(t *testing.T) {
	assert.Error(t, (&Config{}).Save())
}

func TestPromptForConsent(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			cfg, err := Load(t.TempDir())
			require.NoError(t, err)

			var out bytes.Buffer
			got, err := PromptForConsent(cfg, strings.NewReader(tt.input), &out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "never sent")
			assert.False(t, cfg.NeedsConsent())

			_, err = os.Stat(cfg.Path())
			assert.NoError(t, err)
		})
	}
}
