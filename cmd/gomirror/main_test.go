// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navwar/gomirror/pkg/fs"
)

type testDirectories struct {
	source  string
	replica string
	logFile string
}

func newTestDirectories(t *testing.T) *testDirectories {
	t.Helper()
	root := t.TempDir()
	d := &testDirectories{
		source:  filepath.Join(root, "source"),
		replica: filepath.Join(root, "replica"),
		logFile: filepath.Join(root, "gomirror.log"),
	}
	require.NoError(t, os.MkdirAll(d.source, 0755))
	return d
}

func execute(ctx context.Context, args ...string) (string, error) {
	stdout := &bytes.Buffer{}
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), err
}

func TestRunOnce(t *testing.T) {
	d := newTestDirectories(t)
	require.NoError(t, os.MkdirAll(filepath.Join(d.source, "a"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(d.source, "a", "notes.txt"), []byte("hello"), 0644))

	stdout, err := execute(context.Background(), "--once", d.source, d.replica, "10", d.logFile)
	require.NoError(t, err)

	contents, err := os.ReadFile(filepath.Join(d.replica, "a", "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(contents))

	logContents, err := os.ReadFile(d.logFile)
	require.NoError(t, err)
	assert.Equal(t, stdout, string(logContents))

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], " - Starting synchronization...")
	assert.Contains(t, lines[1], " - Directory created: "+filepath.Join(d.replica, "a"))
	assert.Contains(t, lines[2], " - File copied: "+filepath.Join(d.replica, "a", "notes.txt"))
	assert.Contains(t, lines[3], " - Synchronization completed.")
	assert.NotContains(t, lines[3], "Waiting for the next interval")
}

func TestRunOnceAppendsToLog(t *testing.T) {
	d := newTestDirectories(t)

	_, err := execute(context.Background(), "--once", d.source, d.replica, "0", d.logFile)
	require.NoError(t, err)
	_, err = execute(context.Background(), "--once", d.source, d.replica, "0", d.logFile)
	require.NoError(t, err)

	logContents, err := os.ReadFile(d.logFile)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(logContents), "Starting synchronization..."))
	assert.Equal(t, 2, strings.Count(string(logContents), "Synchronization completed."))
}

func TestRunJSONLFromEnvironment(t *testing.T) {
	t.Setenv("GOMIRROR_LOG_FORMAT", "jsonl")
	d := newTestDirectories(t)

	stdout, err := execute(context.Background(), "--once", d.source, d.replica, "1", d.logFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	obj := map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &obj))
	assert.Equal(t, "Starting synchronization...", obj["msg"])
}

func TestRunCancelled(t *testing.T) {
	d := newTestDirectories(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := execute(ctx, d.source, d.replica, "1", d.logFile)
	assert.NoError(t, err)
}

func TestRunStopsOnSignal(t *testing.T) {
	d := newTestDirectories(t)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := execute(ctx, d.source, d.replica, "3600", d.logFile)
	assert.NoError(t, err)

	logContents, err := os.ReadFile(d.logFile)
	require.NoError(t, err)
	assert.Contains(t, string(logContents), "Starting synchronization...")
}

func TestConfigErrors(t *testing.T) {
	d := newTestDirectories(t)
	file := filepath.Join(d.source, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	tests := []struct {
		name string
		args []string
	}{
		{name: "arguments", args: []string{d.source, d.replica, "10"}},
		{name: "missing source", args: []string{filepath.Join(d.source, "missing"), d.replica, "10", d.logFile}},
		{name: "source is a file", args: []string{file, d.replica, "10", d.logFile}},
		{name: "same directory", args: []string{d.source, d.source, "10", d.logFile}},
		{name: "replica inside source", args: []string{d.source, filepath.Join(d.source, "replica"), "10", d.logFile}},
		{name: "source inside replica", args: []string{d.source, filepath.Dir(d.source), "10", d.logFile}},
		{name: "negative interval", args: []string{"--", d.source, d.replica, "-1", d.logFile}},
		{name: "interval", args: []string{d.source, d.replica, "ten", d.logFile}},
		{name: "log directory", args: []string{d.source, d.replica, "10", filepath.Join(filepath.Dir(d.logFile), "missing", "gomirror.log")}},
		{name: "log file in replica", args: []string{d.source, d.replica, "10", filepath.Join(d.replica, "gomirror.log")}},
		{name: "log file in source", args: []string{d.source, d.replica, "10", filepath.Join(d.source, "logs", "..", "gomirror.log")}},
		{name: "threads", args: []string{"--threads", "0", d.source, d.replica, "10", d.logFile}},
		{name: "log format", args: []string{"--log-format", "xml", d.source, d.replica, "10", d.logFile}},
		{name: "log perm", args: []string{"--log-perm", "rw", d.source, d.replica, "10", d.logFile}},
		{name: "time zone", args: []string{"--time-zone", "Nowhere/Special", d.source, d.replica, "10", d.logFile}},
		{name: "exclude", args: []string{"--exclude", "[a-", d.source, d.replica, "10", d.logFile}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := execute(context.Background(), test.args...)
			require.Error(t, err)
			var configError *fs.ConfigError
			assert.True(t, errors.As(err, &configError), err.Error())
		})
	}
}

func TestConfigErrorLogFileThroughLink(t *testing.T) {
	d := newTestDirectories(t)
	require.NoError(t, os.MkdirAll(d.replica, 0755))
	link := filepath.Join(filepath.Dir(d.logFile), "logs")
	if err := os.Symlink(d.replica, link); err != nil {
		t.Skipf("symbolic links are not supported: %v", err)
	}

	_, err := execute(context.Background(), "--once", d.source, d.replica, "10", filepath.Join(link, "gomirror.log"))
	require.Error(t, err)
	var configError *fs.ConfigError
	assert.True(t, errors.As(err, &configError), err.Error())
	_, err = os.Stat(filepath.Join(d.replica, "gomirror.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunSymlinkedRoots(t *testing.T) {
	d := newTestDirectories(t)
	require.NoError(t, os.MkdirAll(d.replica, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(d.source, "notes.txt"), []byte("hello"), 0644))
	sourceLink := filepath.Join(filepath.Dir(d.source), "source-link")
	replicaLink := filepath.Join(filepath.Dir(d.replica), "replica-link")
	if err := os.Symlink(d.source, sourceLink); err != nil {
		t.Skipf("symbolic links are not supported: %v", err)
	}
	require.NoError(t, os.Symlink(d.replica, replicaLink))

	stdout, err := execute(context.Background(), "--once", sourceLink, replicaLink, "10", d.logFile)
	require.NoError(t, err)
	assert.NotContains(t, stdout, "Conflicting entry removed")
	assert.Contains(t, stdout, "File copied: "+filepath.Join(replicaLink, "notes.txt"))

	fi, err := os.Lstat(replicaLink)
	require.NoError(t, err)
	assert.True(t, fi.Mode()&os.ModeSymlink != 0)
	contents, err := os.ReadFile(filepath.Join(d.replica, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(contents))
}

func TestConfigErrorReplicaLinkInsideSource(t *testing.T) {
	d := newTestDirectories(t)
	link := filepath.Join(filepath.Dir(d.source), "replica-link")
	if err := os.Symlink(filepath.Join(d.source, "nested"), link); err != nil {
		t.Skipf("symbolic links are not supported: %v", err)
	}
	require.NoError(t, os.MkdirAll(filepath.Join(d.source, "nested"), 0755))

	_, err := execute(context.Background(), "--once", d.source, link, "10", d.logFile)
	require.Error(t, err)
	var configError *fs.ConfigError
	assert.True(t, errors.As(err, &configError), err.Error())
}

func TestRunSourceNamedLikeCommand(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "version"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "version", "notes.txt"), []byte("hello"), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(root))
	defer func() {
		_ = os.Chdir(wd)
	}()

	stdout, err := execute(context.Background(), "--once", "--", "version", "replica", "10", "gomirror.log")
	require.NoError(t, err)
	assert.NotEqual(t, GoMirrorVersion+"\n", stdout)

	contents, err := os.ReadFile(filepath.Join(root, "replica", "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(contents))
}

func TestParseInterval(t *testing.T) {
	interval, err := parseInterval("0")
	assert.NoError(t, err)
	assert.Equal(t, time.Duration(0), interval)

	interval, err = parseInterval("90")
	assert.NoError(t, err)
	assert.Equal(t, 90*time.Second, interval)

	_, err = parseInterval("1.5")
	assert.Error(t, err)
	_, err = parseInterval("-3")
	assert.Error(t, err)
}

func TestParseExclude(t *testing.T) {
	assert.Equal(t, []string{}, parseExclude(""))
	assert.Equal(t, []string{"*.tmp", "cache/**"}, parseExclude("*.tmp::cache/** "))
}

func TestParseThreads(t *testing.T) {
	assert.Equal(t, 4, parseThreads(4))
	assert.Equal(t, runtime.NumCPU(), parseThreads(-1))
}

func TestLayoutsCommand(t *testing.T) {
	stdout, err := execute(context.Background(), "layouts")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Log: 2006-01-02 15:04:05,000\n")
	assert.Contains(t, stdout, "RFC3339: "+time.RFC3339+"\n")
}

func TestVersionCommand(t *testing.T) {
	stdout, err := execute(context.Background(), "version")
	require.NoError(t, err)
	assert.Equal(t, GoMirrorVersion+"\n", stdout)
}
