package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/benchviz/pkg/collect"
)

// goTestJSON is a two-package run: one package passes with a subtest, the
// other fails after a 400ms break.
var goTestJSON = strings.Join([]string{
	`{"Time":"2024-01-01T00:00:00Z","Action":"start","Package":"example.com/api"}`,
	`{"Time":"2024-01-01T00:00:00Z","Action":"run","Package":"example.com/api","Test":"TestCreate"}`,
	`{"Time":"2024-01-01T00:00:00Z","Action":"run","Package":"example.com/api","Test":"TestCreate/valid"}`,
	`{"Time":"2024-01-01T00:00:00.05Z","Action":"pass","Package":"example.com/api","Test":"TestCreate/valid","Elapsed":0.05}`,
	`{"Time":"2024-01-01T00:00:00.1Z","Action":"pass","Package":"example.com/api","Test":"TestCreate","Elapsed":0.1}`,
	`{"Time":"2024-01-01T00:00:00.1Z","Action":"run","Package":"example.com/api","Test":"TestList"}`,
	`{"Time":"2024-01-01T00:00:00.7Z","Action":"pass","Package":"example.com/api","Test":"TestList","Elapsed":0.6}`,
	`{"Time":"2024-01-01T00:00:01Z","Action":"pass","Package":"example.com/api","Elapsed":1}`,
	`{"Time":"2024-01-01T00:00:01.4Z","Action":"start","Package":"example.com/db"}`,
	`{"Time":"2024-01-01T00:00:01.4Z","Action":"run","Package":"example.com/db","Test":"TestMigrate"}`,
	`{"Time":"2024-01-01T00:00:02.6Z","Action":"fail","Package":"example.com/db","Test":"TestMigrate","Elapsed":1.2}`,
	`{"Time":"2024-01-01T00:00:03.4Z","Action":"fail","Package":"example.com/db","Elapsed":2}`,
}, "\n") + "\n"

// isolate keeps user config and color settings out of the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, key := range []string{"NO_COLOR", "BENCHVIZ_NO_COLOR", "BENCHVIZ_THEME", "BENCHVIZ_DEBUG"} {
		t.Setenv(key, "")
	}
}

func TestRun_RendersReport_When_InputIsGoTestJSON(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer
	code := run(nil, strings.NewReader(goTestJSON), &stdout, &stderr)

	output := stdout.String()
	assert.Equal(t, exitFailed, code, "stderr: %s", stderr.String())
	assert.Contains(t, output, "Recorded 3 tests and 1 commands in 2 runs")
	assert.Contains(t, output, "Total break time 0.400s")
	assert.Contains(t, output, "Total run time 3.000s")
	assert.Contains(t, output, "Relative break time 0.1333")
	assert.Contains(t, output, "Slowest 3")
	assert.Contains(t, output, "│ TestMigrate │ 1200     │")
	assert.Contains(t, output, "Bar")
	assert.Contains(t, output, "┴")
	assert.NotContains(t, output, "\x1B[", "piped output must not be colored")

	// Rows are ordered slowest first.
	assert.Less(t, strings.Index(output, "TestMigrate"), strings.Index(output, "TestList"))
	assert.Less(t, strings.Index(output, "TestList"), strings.Index(output, "TestCreate"))
}

func TestRun_ColorsRows_When_ColorAlways(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer
	code := run([]string{"--color", "always", "--theme", "ansi"}, strings.NewReader(goTestJSON), &stdout, &stderr)

	require.Equal(t, exitFailed, code, "stderr: %s", stderr.String())
	assert.Contains(t, stdout.String(), "\x1B[31m│ TestMigrate")
	assert.Contains(t, stdout.String(), "\x1B[93m│ TestList")
}

func TestRun_ReturnsZero_When_AllTestsPass(t *testing.T) {
	isolate(t)
	input := strings.Join([]string{
		`{"Time":"2024-01-01T00:00:00Z","Action":"run","Package":"p","Test":"TestA"}`,
		`{"Time":"2024-01-01T00:00:00.01Z","Action":"pass","Package":"p","Test":"TestA","Elapsed":0.01}`,
	}, "\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--top", "1"}, strings.NewReader(input), &stdout, &stderr)

	assert.Equal(t, exitOK, code, "stderr: %s", stderr.String())
	assert.Contains(t, stdout.String(), "Slowest 1")
}

func TestRun_SkipsChart_When_NoTests(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer
	code := run(nil, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout.String(), "(no tests recorded)")
	assert.Contains(t, stderr.String(), "skipping bar chart")
}

func TestRun_WritesCSV_When_OutputDirSet(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	var stdout, stderr bytes.Buffer
	code := run([]string{"--output-dir", dir}, strings.NewReader(goTestJSON), &stdout, &stderr)
	require.Equal(t, exitFailed, code, "stderr: %s", stderr.String())

	matches, err := filepath.Glob(filepath.Join(dir, "tmp", "*", "tests.csv"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "name|duration|state|suite|testId", lines[0])
	assert.Len(t, lines, 4)
}

func TestRun_ReadsInputFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, os.WriteFile(path, []byte(goTestJSON), 0o600))

	var stdout, stderr bytes.Buffer
	code := run([]string{"--input", path}, strings.NewReader(""), &stdout, &stderr)

	require.Equal(t, exitFailed, code, "stderr: %s", stderr.String())
	assert.Contains(t, stdout.String(), "TestMigrate")
}

func TestReadInput_KeepsRecording_When_StdinInterrupted(t *testing.T) {
	t.Parallel()
	log, hook := test.NewNullLogger()
	rec := collect.NewRecorder(log)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, readInput(ctx, rec, log, "", strings.NewReader(goTestJSON)))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "input interrupted, reporting what was recorded", hook.LastEntry().Message)
}

func TestReadInput_ReadsFileToEnd_When_ContextCancelled(t *testing.T) {
	t.Parallel()
	log, _ := test.NewNullLogger()
	rec := collect.NewRecorder(log)
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, os.WriteFile(path, []byte(goTestJSON), 0o600))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, readInput(ctx, rec, log, path, strings.NewReader("")))
	run := rec.Finalize(time.Now())
	assert.Len(t, run.Tests, 3)
	assert.Len(t, run.Runs, 2)
}

func TestRun_ReturnsUsage_When_FlagsInvalid(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown flag", args: []string{"--bogus"}, want: "unknown flag"},
		{name: "bad thresholds", args: []string{"--thresholds", "1000,500"}, want: "thresholds must ascend"},
		{name: "zero ok threshold", args: []string{"--thresholds", "0,500,1000"}, want: "ok 0 must be positive"},
		{name: "bad color", args: []string{"--color", "sometimes"}, want: "unknown color mode"},
		{name: "bad height", args: []string{"--height", "0"}, want: "height must be positive"},
		{name: "missing input", args: []string{"--input", "does-not-exist.json"}, want: "opening input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, strings.NewReader(""), &stdout, &stderr)

			assert.Equal(t, exitUsage, code)
			assert.Contains(t, stderr.String(), "benchviz: ")
			assert.Contains(t, stderr.String(), tt.want)
		})
	}
}

func TestRun_PrintsVersion(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer
	code := run([]string{"--version"}, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(stdout.String(), "benchviz dev"))
}
