package hooks

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir, name, marker string) {
	t.Helper()
	path := filepath.Join(dir, name)
	var body string
	if runtime.GOOS == "windows" {
		body = "@echo off\r\necho " + marker + " >> \"" + filepath.Join(dir, "ran.log") + "\"\r\n"
	} else {
		body = "#!/bin/sh\necho " + marker + " >> \"" + filepath.Join(dir, "ran.log") + "\"\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
}

func TestRunnerEmptyDirDisablesHooks(t *testing.T) {
	r := New("", nil)
	defer r.Close()
	r.RunUserEvent(context.Background(), "alice", 1000, 1000, "/home/alice", "normal")
	// No panic and nothing to assert: an empty Dir is a no-op by contract.
}

func TestRunnerRunsScriptsInSortedOrder(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script execution assumed for this test")
	}
	dir := t.TempDir()
	writeScript(t, dir, "20-second", "second")
	writeScript(t, dir, "10-first", "first")

	r := New(dir, nil)
	defer r.Close()

	r.RunUserEvent(context.Background(), "alice", 1000, 1000, "/home/alice", "normal")

	data, err := os.ReadFile(filepath.Join(dir, "ran.log"))
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}

func TestRunnerMissingDirIsNotAnError(t *testing.T) {
	r := New(filepath.Join(t.TempDir(), "does-not-exist"), nil)
	defer r.Close()
	r.RunGroupEvent(context.Background(), "wheel", 10)
}

func TestRunnerHotReloadsNewScript(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fsnotify timing assumptions differ on windows")
	}
	dir := t.TempDir()
	r := New(dir, nil)
	defer r.Close()

	require.Eventually(t, func() bool {
		return r.watcher != nil
	}, 2*time.Second, 10*time.Millisecond, "watcher should start once Dir exists")

	writeScript(t, dir, "10-late", "late")

	assert.Eventually(t, func() bool {
		names, err := r.sortedScripts()
		return err == nil && len(names) == 1 && names[0] == "10-late"
	}, 2*time.Second, 20*time.Millisecond, "cached script list should pick up the new file")

	r.RunGroupEvent(context.Background(), "wheel", 10)
	data, err := os.ReadFile(filepath.Join(dir, "ran.log"))
	require.NoError(t, err)
	assert.Equal(t, "late\n", string(data))
}
