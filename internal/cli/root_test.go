package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/yololtest/internal/harness"
	"github.com/roach88/yololtest/internal/store"
)

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeScript(t *testing.T, dir, name, source string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(source), 0644))
	return path
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "yololtest", cmd.Name())
	assert.Contains(t, cmd.Long, ":output")

	sub, _, err := cmd.Find([]string{"history"})
	require.NoError(t, err)
	assert.Equal(t, "history", sub.Name())
}

func TestRootFlags(t *testing.T) {
	cmd := NewRootCommand()

	defaults := map[string]string{
		"max-lines":         "20",
		"max-string-length": "1024",
		"max-ticks":         "1048576",
		"dir":               ".",
		"config":            "",
		"record":            "",
	}
	for name, want := range defaults {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, want, flag.DefValue, name)
	}

	assert.Equal(t, "d", cmd.Flags().Lookup("dir").Shorthand)

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
}

func TestRun_DiscoversAndReports(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "a_pass.yolol", `:output="ok"`)
	writeScript(t, dir, "b_fail.yolol", `:output="expected 2, got " + (1+2)`)
	writeScript(t, dir, "c_silent.yolol", "a=1")
	writeScript(t, dir, "notes.txt", "not a test")

	stdout, _, err := execute(t, "-d", dir)
	require.NoError(t, err, "failing tests do not change the exit code")
	assert.Equal(t, ExitSuccess, GetExitCode(err))

	assert.Contains(t, stdout, " - [ ] "+filepath.Join(dir, "a_pass.yolol"))
	assert.Contains(t, stdout, " - [✓] "+filepath.Join(dir, "a_pass.yolol"))
	assert.Contains(t, stdout, " - [✗] "+filepath.Join(dir, "b_fail.yolol")+"\n    expected 2, got 3\n")
	assert.Contains(t, stdout, "    Test never assigns ':output'\n")
	assert.NotContains(t, stdout, "notes.txt")
}

func TestRun_ExplicitFiles(t *testing.T) {
	dir := t.TempDir()
	pass := writeScript(t, dir, "pass.yolol", `:output="ok"`)
	missing := filepath.Join(dir, "missing.yolol")

	stdout, _, err := execute(t, pass, missing)
	require.NoError(t, err)

	assert.Contains(t, stdout, " - [✓] "+pass)
	assert.Contains(t, stdout, " - [✗] "+missing+"\n    File not found!\n")
}

func TestRun_ExplicitFilesRecordTheirDirectory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))
	a := writeScript(t, dir, "a.yolol", `:output="ok"`)
	b := writeScript(t, sub, "b.yolol", `:output="ok"`)
	db := filepath.Join(t.TempDir(), "history.db")

	_, _, err := execute(t, "-d", t.TempDir(), "--record", db, a, b)
	require.NoError(t, err)

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()
	runs, err := st.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, dir, runs[0].Dir)
}

func TestCommonDir(t *testing.T) {
	sep := string(filepath.Separator)
	tests := []struct {
		name  string
		paths []string
		want  string
	}{
		{"none", nil, ""},
		{"single file", []string{filepath.Join("a", "b", "t.yolol")}, filepath.Join("a", "b")},
		{"siblings", []string{filepath.Join("a", "x.yolol"), filepath.Join("a", "y.yolol")}, "a"},
		{"nested", []string{filepath.Join("a", "x.yolol"), filepath.Join("a", "b", "y.yolol")}, "a"},
		{"disjoint relative", []string{filepath.Join("a", "x.yolol"), filepath.Join("b", "y.yolol")}, "."},
		{"absolute", []string{sep + filepath.Join("p", "q", "x.yolol"), sep + filepath.Join("p", "r", "y.yolol")}, sep + "p"},
		{"outside the working directory", []string{"x.yolol", filepath.Join("..", "y.yolol")}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, commonDir(tt.paths))
		})
	}
}

func TestRun_ParseError(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "paren.yolol", ":output=(1+2")

	stdout, _, err := execute(t, path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "    line 1, column 13: expected ')', found end of line\n")
}

func TestRun_MaxTicks(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "loop.yolol", ":output=5 goto 1")

	stdout, _, err := execute(t, "-d", dir, "--max-ticks", "100")
	require.NoError(t, err)
	assert.Contains(t, stdout, "    Executed MaxTicks but ':output' was never set to 'ok'\n")
}

func TestRun_MaxLinesFlag(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "long.yolol", "a=1\na=2\na=3\n:output=\"ok\"")

	stdout, _, err := execute(t, "--max-lines", "3", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "    program has 4 lines, the limit is 3\n")
}

// recordedTicks runs the harness on dir with --record and returns the
// ticks stored for the single test.
func recordedTicks(t *testing.T, dir string, extra ...string) int64 {
	t.Helper()
	db := filepath.Join(t.TempDir(), "history.db")
	args := append([]string{"-d", dir, "--record", db}, extra...)
	_, _, err := execute(t, args...)
	require.NoError(t, err)

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	runs, err := st.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	results, err := st.RunResults(context.Background(), runs[0].ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, harness.KindTicksExhausted, results[0].Result.Kind)
	return results[0].Result.Ticks
}

func TestRun_ConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "loop.yolol", ":output=5 goto 1")
	writeScript(t, dir, "yololtest.yaml", "max_ticks: 50\n")

	assert.Equal(t, int64(50), recordedTicks(t, dir), "config file overrides the default")
	assert.Equal(t, int64(70), recordedTicks(t, dir, "--max-ticks", "70"), "explicit flag overrides the config file")
}

func TestRun_ExplicitConfig(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "loop.yolol", ":output=5 goto 1")
	cfg := writeScript(t, t.TempDir(), "limits.toml", "max_ticks = 30\n")

	assert.Equal(t, int64(30), recordedTicks(t, dir, "--config", cfg))
}

func TestRun_CommandErrors(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "bad.yaml", "max_ticks: [")

	tests := []struct {
		name string
		args []string
	}{
		{"non-numeric flag", []string{"-d", dir, "--max-ticks", "abc"}},
		{"unknown flag", []string{"-d", dir, "--max-tick", "5"}},
		{"zero max lines", []string{"-d", dir, "--max-lines", "0"}},
		{"negative ticks", []string{"-d", dir, "--max-ticks=-1"}},
		{"missing dir", []string{"-d", filepath.Join(dir, "nope")}},
		{"missing config", []string{"-d", dir, "--config", filepath.Join(dir, "nope.yaml")}},
		{"malformed config", []string{"-d", dir, "--config", filepath.Join(dir, "bad.yaml")}},
		{"unopenable history", []string{"-d", dir, "--record", filepath.Join(dir, "no", "such", "dir.db")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Empty(t, stdout, "no test runs after a command error")
		})
	}
}

func TestRun_VerboseLogging(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "a.yolol", `:output="ok"`)

	_, quiet, err := execute(t, "-d", dir)
	require.NoError(t, err)
	assert.Empty(t, quiet)

	_, verbose, err := execute(t, "-d", dir, "-v")
	require.NoError(t, err)
	assert.Contains(t, verbose, "tests discovered")
	assert.Contains(t, verbose, "test finished")
}

func TestRun_EmptyDirectory(t *testing.T) {
	stdout, _, err := execute(t, "-d", t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, stdout)
}
