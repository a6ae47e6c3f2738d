package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/josephgoksu/PlanWise/internal/config"
	"github.com/josephgoksu/PlanWise/internal/history"
	"github.com/josephgoksu/PlanWise/internal/llm"
	"github.com/josephgoksu/PlanWise/internal/logger"
	"github.com/josephgoksu/PlanWise/internal/planner"
	"github.com/josephgoksu/PlanWise/internal/plantext"
	"github.com/josephgoksu/PlanWise/internal/render"
	"github.com/josephgoksu/PlanWise/internal/telemetry"
	"github.com/josephgoksu/PlanWise/internal/ui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	// appFs is the filesystem commands read plan files and prompt overrides from.
	appFs = afero.NewOsFs()

	// newGenerator creates the generation client. Tests replace it.
	newGenerator = llm.NewGenerator
)

// runtime is the per-invocation state shared by commands.
type runtime struct {
	cfg       *config.AppConfig
	vocab     *plantext.Vocabulary
	configDir string
	telemetry telemetry.Client
	closeLog  func() error

	history *history.Store
	once    sync.Once
}

func newRuntime(cmd *cobra.Command) (*runtime, error) {
	if err := config.Init(v, cfgFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	closeLog := logger.Init(logger.Options{
		Level:      level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Console:    cmd.ErrOrStderr(),
	})

	dir, err := config.GetGlobalConfigDir()
	if err != nil {
		dir = config.ProjectDir
	}
	logger.SetCrashDir(dir)
	logger.SetVersion(version)
	logger.SetCommand(cmd.CommandPath(), os.Args[1:])

	vocab, err := plantext.VocabularyByName(cfg.Render.Markers)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	rt := &runtime{
		cfg:       cfg,
		vocab:     vocab,
		configDir: dir,
		closeLog:  closeLog,
		telemetry: telemetry.NoopClient{},
	}
	rt.initTelemetry()
	return rt, nil
}

func (rt *runtime) initTelemetry() {
	tcfg, err := telemetry.Load(rt.configDir)
	if err != nil {
		slog.Debug("telemetry config unreadable", "error", err)
		return
	}
	client, err := telemetry.New(telemetry.ClientConfig{
		APIKey:  rt.cfg.Telemetry.APIKey,
		Version: version,
		Config:  tcfg,
	})
	if err != nil {
		slog.Debug("telemetry disabled", "error", err)
		return
	}
	rt.telemetry = client
}

// askTelemetryConsent prompts once, on an interactive terminal, when a
// telemetry key is configured but the user has not chosen yet.
func (rt *runtime) askTelemetryConsent(cmd *cobra.Command) {
	if rt.cfg.Telemetry.APIKey == "" || !ui.IsInteractive() {
		return
	}
	tcfg, err := telemetry.Load(rt.configDir)
	if err != nil || !tcfg.NeedsConsent() {
		return
	}
	if _, err := telemetry.PromptForConsent(tcfg, cmd.InOrStdin(), cmd.ErrOrStderr()); err != nil {
		slog.Debug("save telemetry consent", "error", err)
		return
	}
	rt.initTelemetry()
}

// History opens the plan history on first use.
func (rt *runtime) History() (*history.Store, error) {
	if rt.cfg.History.Disabled {
		return nil, fmt.Errorf("plan history is disabled (history.disabled = true)")
	}
	var err error
	rt.once.Do(func() {
		path := config.HistoryPath(v)
		slog.Debug("opening plan history", "path", path)
		rt.history, err = history.Open(path)
	})
	if err != nil {
		return nil, err
	}
	if rt.history == nil {
		return nil, fmt.Errorf("plan history could not be opened")
	}
	return rt.history, nil
}

// Planner builds the planning service. withHistory attaches the history
// store so results are saved.
func (rt *runtime) Planner(ctx context.Context, withHistory bool) (*planner.Service, *recordingGenerator, error) {
	llmCfg, err := config.LoadLLMConfig(v)
	if err != nil {
		return nil, nil, err
	}
	if llm.RequiresAPIKey(llmCfg.Provider) && llmCfg.APIKey == "" {
		return nil, nil, missingKeyError(llmCfg.Provider)
	}

	gen, err := newGenerator(ctx, llmCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s client: %w", llmCfg.Provider, err)
	}
	rec := &recordingGenerator{Generator: gen, provider: string(llmCfg.Provider), model: llmCfg.Model}

	opts := []planner.Option{
		planner.WithPrompts(planner.NewPromptLoader(appFs, config.PromptsDir(v))),
	}
	if withHistory {
		store, err := rt.History()
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, planner.WithStore(store))
	}
	return planner.NewService(rec, rt.vocab, opts...), rec, nil
}

func missingKeyError(provider llm.Provider) error {
	vars := config.ProviderEnvVars[provider]
	return fmt.Errorf("no API key for %s: set %s or run 'planwise config set llm.apiKeys.%s <key>'",
		provider, strings.Join(vars, " or "), provider)
}

// RenderOptions returns renderer options for format. Terminal output
// follows the terminal width unless render.width is set.
func (rt *runtime) RenderOptions(vocab *plantext.Vocabulary, title string) render.Options {
	width := rt.cfg.Render.Width
	if width == 0 {
		width = ui.TerminalWidth(render.DefaultWidth)
	}
	if vocab == nil {
		vocab = rt.vocab
	}
	return render.Options{Vocabulary: vocab, Width: width, Title: title, Standalone: true}
}

// Close flushes telemetry, closes the history database and the log file.
func (rt *runtime) Close() {
	_ = rt.telemetry.Close()
	if rt.history != nil {
		_ = rt.history.Close()
		rt.history = nil
	}
	if rt.closeLog != nil {
		_ = rt.closeLog()
		rt.closeLog = nil
	}
}

// recordingGenerator remembers the last prompt for crash reports and
// totals the exchanged text for the cost estimate.
type recordingGenerator struct {
	llm.Generator
	provider string
	model    string

	mu       sync.Mutex
	prompt   strings.Builder
	response strings.Builder
}

func (g *recordingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	logger.SetLastPrompt(prompt)
	text, err := g.Generator.Generate(ctx, prompt)
	g.mu.Lock()
	g.prompt.WriteString(prompt)
	g.response.WriteString(text)
	g.mu.Unlock()
	return text, err
}

// Usage returns estimated tokens in and out and the estimated cost.
func (g *recordingGenerator) Usage() (in, out int, cost float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, r := g.prompt.String(), g.response.String()
	return llm.EstimateTokens(p), llm.EstimateTokens(r), llm.EstimateCost(g.model, p, r)
}

func (g *recordingGenerator) logUsage() {
	in, out, cost := g.Usage()
	slog.Debug("estimated usage", "provider", g.provider, "model", g.model,
		"input_tokens", in, "output_tokens", out, "cost_usd", fmt.Sprintf("%.5f", cost))
}

// readInput reads a plan from path, or from stdin when path is "" or "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := afero.ReadFile(appFs, path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// writePlan renders blocks in format to outPath, or to stdout when outPath
// is empty.
func writePlan(cmd *cobra.Command, blocks []plantext.Block, format, outPath string, opts render.Options) error {
	if format == "" {
		format = app.cfg.Render.Format
	}
	if outPath != "" && format == render.FormatTerminal {
		format = formatForPath(outPath)
	}
	r, err := render.ForFormat(format, opts)
	if err != nil {
		return err
	}

	if outPath == "" {
		if format == render.FormatPDF && ui.IsTerminal(cmd.OutOrStdout()) {
			return fmt.Errorf("pdf output is binary: use --out <file.pdf>")
		}
		return r.Render(cmd.OutOrStdout(), blocks)
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := appFs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := appFs.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	if err := r.Render(f, blocks); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), ui.Success("wrote "+outPath))
	return nil
}

// formatForPath picks a format from a file extension.
func formatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return render.FormatMarkdown
	case ".html", ".htm":
		return render.FormatHTML
	case ".json":
		return render.FormatJSON
	case ".yaml", ".yml":
		return render.FormatYAML
	case ".pdf":
		return render.FormatPDF
	default:
		return render.FormatPlain
	}
}
