package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetCrash(t *testing.T, dir string) {
	t.Helper()
	crash = &crashState{baseDir: dir}
	t.Cleanup(func() { crash = &crashState{} })
}

func TestCrashContext(t *testing.T) {
	resetCrash(t, "")
	SetVersion("1.0.0-test")
	SetCommand("generate", []string{"--topic", "Study"})
	SetPlanID("plan-1")
	SetLastPrompt(strings.Repeat("a", 3000))

	r := newCrashReport("boom")
	assert.Equal(t, "boom", r.PanicValue)
	assert.Equal(t, "1.0.0-test", r.Version)
	assert.Equal(t, "generate", r.Command)
	assert.Equal(t, []string{"--topic", "Study"}, r.Args)
	assert.Equal(t, "plan-1", r.PlanID)
	assert.LessOrEqual(t, len(r.LastPrompt), 2100)
	assert.Contains(t, r.LastPrompt, "[truncated]")
	assert.NotEmpty(t, r.StackTrace)
	assert.NotEmpty(t, r.GoVersion)
}

func TestWriteCrashReport(t *testing.T) {
	base := filepath.Join(t.TempDir(), ".planwise")
	resetCrash(t, base)
	SetCommand("render", nil)

	path, err := writeCrashReport(newCrashReport("nil map"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, CrashReportDir), filepath.Dir(path))

	reports, err := ListCrashReports()
	require.NoError(t, err)
	require.Len(t, reports, 1)

	got, err := ReadCrashReport(reports[0])
	require.NoError(t, err)
	assert.Equal(t, "nil map", got.PanicValue)
	assert.Equal(t, "render", got.Command)
}

func TestPruneCrashReports(t *testing.T) {
	base := t.TempDir()
	resetCrash(t, base)
	dir := filepath.Join(base, CrashReportDir)
	require.NoError(t, os.MkdirAll(dir, 0755))

	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := range MaxCrashReports + 5 {
		name := filepath.Base(crashReportPath(start.Add(time.Duration(i) * time.Minute)))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	require.NoError(t, pruneCrashReports(dir, MaxCrashReports))

	reports, err := ListCrashReports()
	require.NoError(t, err)
	require.Len(t, reports, MaxCrashReports)
	assert.Contains(t, reports[0], "crash_20250101_120500")
	_, err = os.Stat(filepath.Join(dir, "notes.txt"))
	assert.NoError(t, err)
}

func TestCrashReportPath(t *testing.T) {
	resetCrash(t, "/tmp/test")
	path := crashReportPath(time.Date(2025, 1, 15, 14, 30, 45, 0, time.UTC))
	assert.Equal(t, "/tmp/test/crash_logs/crash_20250115_143045.000.json", path)

	crash.baseDir = ""
	assert.Equal(t, filepath.Join(".planwise", "crash_logs"), crashDir())
}

func TestPrintCrashNotice(t *testing.T) {
	var buf bytes.Buffer
	printCrashNotice(&buf, CrashReport{PanicValue: "x"}, "/tmp/crash.json", nil)
	assert.Contains(t, buf.String(), "/tmp/crash.json")

	buf.Reset()
	printCrashNotice(&buf, CrashReport{PanicValue: "x", StackTrace: "stack"}, "", errors.New("disk full"))
	assert.Contains(t, buf.String(), "disk full")
	assert.Contains(t, buf.String(), "stack")
}
