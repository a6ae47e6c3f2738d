package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	// CrashReportDir is the directory for crash reports under the config dir
	CrashReportDir = "crash_logs"

	// MaxCrashReports is the maximum number of crash reports to keep
	MaxCrashReports = 10
)

// crashState is what a crash report records about the run in progress.
type crashState struct {
	mu         sync.RWMutex
	baseDir    string
	version    string
	command    string
	args       []string
	lastPrompt string
	planID     string
}

var crash = &crashState{}

// SetCrashDir sets the directory crash reports are written under.
func SetCrashDir(dir string) {
	crash.mu.Lock()
	defer crash.mu.Unlock()
	crash.baseDir = dir
}

// SetVersion sets the application version for crash reports.
func SetVersion(version string) {
	crash.mu.Lock()
	defer crash.mu.Unlock()
	crash.version = version
}

// SetCommand records the command line being executed.
func SetCommand(cmd string, args []string) {
	crash.mu.Lock()
	defer crash.mu.Unlock()
	crash.command = cmd
	crash.args = append([]string(nil), args...)
}

// SetLastPrompt records the last prompt sent to the model.
func SetLastPrompt(prompt string) {
	crash.mu.Lock()
	defer crash.mu.Unlock()
	crash.lastPrompt = truncate(prompt, 2000)
}

// SetPlanID records the plan being worked on.
func SetPlanID(id string) {
	crash.mu.Lock()
	defer crash.mu.Unlock()
	crash.planID = id
}

func truncate(value string, maxLen int) string {
	if len(value) <= maxLen {
		return value
	}
	return value[:maxLen] + "... [truncated]"
}

// CrashReport is the JSON document written when PlanWise panics.
type CrashReport struct {
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version"`
	Command    string    `json:"command"`
	Args       []string  `json:"args,omitempty"`
	PlanID     string    `json:"plan_id,omitempty"`
	PanicValue string    `json:"panic_value"`
	StackTrace string    `json:"stack_trace"`
	LastPrompt string    `json:"last_prompt,omitempty"`
	GoVersion  string    `json:"go_version"`
	OS         string    `json:"os"`
	Arch       string    `json:"arch"`
}

// HandlePanic recovers a panic, writes a crash report and exits 1.
// Usage: defer logger.HandlePanic()
func HandlePanic() {
	r := recover()
	if r == nil {
		return
	}
	report := newCrashReport(r)
	path, err := writeCrashReport(report)
	printCrashNotice(os.Stderr, report, path, err)
	os.Exit(1)
}

func printCrashNotice(w io.Writer, report CrashReport, path string, writeErr error) {
	if writeErr != nil {
		fmt.Fprintf(w, "\n[CRASH] Failed to write crash report: %v\n", writeErr)
		fmt.Fprintf(w, "[CRASH] Panic: %s\n%s\n", report.PanicValue, report.StackTrace)
		return
	}
	fmt.Fprintf(w, "\n🔴 PlanWise encountered an unexpected error.\n\n")
	fmt.Fprintf(w, "A crash report has been saved to:\n  %s\n\n", path)
	fmt.Fprintf(w, "Please report this issue at:\n  https://github.com/josephgoksu/PlanWise/issues\n")
}

func newCrashReport(panicValue any) CrashReport {
	crash.mu.RLock()
	defer crash.mu.RUnlock()

	return CrashReport{
		Timestamp:  time.Now().UTC(),
		Version:    crash.version,
		Command:    crash.command,
		Args:       crash.args,
		PlanID:     crash.planID,
		PanicValue: fmt.Sprintf("%v", panicValue),
		StackTrace: string(debug.Stack()),
		LastPrompt: crash.lastPrompt,
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}
}

// writeCrashReport writes report and prunes old reports, returning its path.
func writeCrashReport(report CrashReport) (string, error) {
	dir := crashDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create crash report dir: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode crash report: %w", err)
	}
	path := crashReportPath(report.Timestamp)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write crash report: %w", err)
	}

	if err := pruneCrashReports(dir, MaxCrashReports); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] Failed to clean old crash reports: %v\n", err)
	}
	return path, nil
}

func crashDir() string {
	crash.mu.RLock()
	base := crash.baseDir
	crash.mu.RUnlock()

	if base == "" {
		base = ".planwise"
	}
	return filepath.Join(base, CrashReportDir)
}

func crashReportPath(t time.Time) string {
	return filepath.Join(crashDir(), fmt.Sprintf("crash_%s.json", t.UTC().Format("20060102_150405.000")))
}

func isCrashReport(name string) bool {
	return strings.HasPrefix(name, "crash_") && strings.HasSuffix(name, ".json")
}

// pruneCrashReports keeps the newest keep reports in dir. Report names sort
// chronologically.
func pruneCrashReports(dir string, keep int) error {
	reports, err := listReports(dir)
	if err != nil || len(reports) <= keep {
		return err
	}
	for _, path := range reports[:len(reports)-keep] {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove old crash report %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

func listReports(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && isCrashReport(e.Name()) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// ListCrashReports returns crash report paths, oldest first.
func ListCrashReports() ([]string, error) {
	return listReports(crashDir())
}

// ReadCrashReport decodes the crash report at path.
func ReadCrashReport(path string) (*CrashReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r CrashReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode crash report %s: %w", path, err)
	}
	return &r, nil
}
