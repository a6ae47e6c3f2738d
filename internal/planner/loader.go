package planner

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// promptFile is the on-disk shape of a prompt override.
type promptFile struct {
	Description string `yaml:"description,omitempty"`
	Template    string `yaml:"template"`
}

// PromptLoader resolves prompt templates, preferring <dir>/<key>.yaml over
// the built-in defaults. It uses an afero.Fs so tests can run in memory.
type PromptLoader struct {
	fs  afero.Fs
	dir string
}

// NewPromptLoader creates a loader over fs. An empty dir disables overrides.
func NewPromptLoader(fs afero.Fs, dir string) *PromptLoader {
	return &PromptLoader{fs: fs, dir: dir}
}

// NewOsPromptLoader creates a PromptLoader using the real filesystem.
func NewOsPromptLoader(dir string) *PromptLoader {
	return NewPromptLoader(afero.NewOsFs(), dir)
}

// Path returns the override file location for key, or "" without a dir.
func (l *PromptLoader) Path(key PromptKey) string {
	if l == nil || strings.TrimSpace(l.dir) == "" {
		return ""
	}
	return filepath.Join(l.dir, string(key)+".yaml")
}

// Source returns the raw template text for key.
func (l *PromptLoader) Source(key PromptKey) (string, error) {
	def, ok := defaultPrompts[key]
	if !ok {
		return "", fmt.Errorf("unrecognized prompt key: %s", key)
	}

	path := l.Path(key)
	if path == "" {
		return def, nil
	}
	exists, err := afero.Exists(l.fs, path)
	if err != nil {
		return "", fmt.Errorf("check prompt override %s: %w", path, err)
	}
	if !exists {
		return def, nil
	}

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return "", fmt.Errorf("read prompt override %s: %w", path, err)
	}
	var pf promptFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return "", fmt.Errorf("parse prompt override %s: %w", path, err)
	}
	if strings.TrimSpace(pf.Template) == "" {
		return "", fmt.Errorf("prompt override %s: template is empty", path)
	}
	slog.Debug("using prompt override", "key", key, "path", path)
	return pf.Template, nil
}

// Template parses the template for key.
func (l *PromptLoader) Template(key PromptKey) (*template.Template, error) {
	src, err := l.Source(key)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New(string(key)).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse %s template: %w", key, err)
	}
	return tmpl, nil
}

// Render executes the template for key with data.
func (l *PromptLoader) Render(key PromptKey, data any) (string, error) {
	tmpl, err := l.Template(key)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("execute %s template: %w", key, err)
	}
	return b.String(), nil
}

// WriteDefaults writes every built-in prompt to the override directory,
// skipping files that already exist. It returns the paths written.
func (l *PromptLoader) WriteDefaults() ([]string, error) {
	if l.Path(KeySummarize) == "" {
		return nil, fmt.Errorf("no prompts directory configured")
	}
	if err := l.fs.MkdirAll(l.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create prompts directory: %w", err)
	}
	var written []string
	for _, key := range PromptKeys {
		path := l.Path(key)
		exists, err := afero.Exists(l.fs, path)
		if err != nil {
			return written, err
		}
		if exists {
			continue
		}
		data, err := yaml.Marshal(promptFile{
			Description: fmt.Sprintf("PlanWise %s prompt", key),
			Template:    defaultPrompts[key],
		})
		if err != nil {
			return written, err
		}
		if err := afero.WriteFile(l.fs, path, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
