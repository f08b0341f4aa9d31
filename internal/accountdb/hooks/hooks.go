// Package hooks runs a directory of executable scripts, in lexicographic
// file-name order, on user/group lifecycle events. A failing script is logged and
// otherwise ignored: hooks are an informational side channel, never a
// gate on the enclosing transaction.
package hooks

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Runner executes every script under Dir against one lifecycle event.
type Runner struct {
	Dir     string
	Log     *slog.Logger
	Timeout time.Duration

	mu      sync.RWMutex
	cached  []string
	watcher *fsnotify.Watcher
}

// New builds a Runner rooted at dir. A zero dir disables hook execution.
// When dir is set, New starts an fsnotify watch on it so a script dropped
// in or removed while the daemon is running takes effect on the next
// lifecycle event without a restart; if the watch cannot be established
// (e.g. dir does not exist yet), the Runner falls back to scanning dir on
// every event instead.
func New(dir string, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	r := &Runner{Dir: dir, Log: log, Timeout: 10 * time.Second}
	if dir != "" {
		r.refresh()
		r.startWatch()
	}
	return r
}

// Close stops the hot-reload watcher, if one was started.
func (r *Runner) Close() error {
	if r.watcher == nil {
		return nil
	}
	return r.watcher.Close()
}

func (r *Runner) startWatch() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		r.Log.Warn("hook directory hot-reload disabled", "dir", r.Dir, "error", err)
		return
	}
	if err := watcher.Add(r.Dir); err != nil {
		r.Log.Warn("hook directory hot-reload disabled", "dir", r.Dir, "error", err)
		_ = watcher.Close()
		return
	}
	r.watcher = watcher
	go r.watchLoop()
}

func (r *Runner) watchLoop() {
	for {
		select {
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) != 0 {
				r.refresh()
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.Log.Warn("hook directory watch error", "dir", r.Dir, "error", err)
		}
	}
}

func (r *Runner) refresh() {
	names, err := scanScripts(r.Dir)
	if err != nil {
		r.Log.Warn("failed to enumerate hook scripts", "dir", r.Dir, "error", err)
		return
	}
	r.mu.Lock()
	r.cached = names
	r.mu.Unlock()
}

// RunUserEvent invokes every hook script with the fixed positional
// arguments for user events: username, uid, gid, home, usertype.
func (r *Runner) RunUserEvent(ctx context.Context, username string, uid, gid uint32, home, usertype string) {
	r.run(ctx, username, itoa(uid), itoa(gid), home, usertype)
}

// RunGroupEvent invokes every hook script with the fixed positional
// arguments for group events: groupname, gid.
func (r *Runner) RunGroupEvent(ctx context.Context, groupname string, gid uint32) {
	r.run(ctx, groupname, itoa(gid))
}

func (r *Runner) run(ctx context.Context, args ...string) {
	if r.Dir == "" {
		return
	}
	scripts, err := r.sortedScripts()
	if err != nil {
		r.Log.Warn("failed to enumerate hook scripts", "dir", r.Dir, "error", err)
		return
	}
	for _, script := range scripts {
		r.runOne(ctx, script, args)
	}
}

// sortedScripts returns the watcher-maintained cache when hot-reload is
// active, otherwise scans Dir directly.
func (r *Runner) sortedScripts() ([]string, error) {
	if r.watcher == nil {
		return scanScripts(r.Dir)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cached, nil
}

func scanScripts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (r *Runner) runOne(ctx context.Context, name string, args []string) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	path := filepath.Join(r.Dir, name)
	cmd := exec.CommandContext(runCtx, path, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Run(); err != nil {
		r.Log.Warn("hook script failed", "script", path, "error", err)
	}
}

func itoa(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
