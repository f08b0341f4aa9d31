// Package txn implements the four-phase transaction required to rewrite
// one account file: acquire the account-DB lock, stream the
// rewrite through a temp sibling file, commit via fsync+rename (so readers
// only ever observe the pre- or post-transaction row set), or abort leaving
// the original untouched.
package txn

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/accountd/accountd/internal/accountdb/lock"
	"github.com/accountd/accountd/pkg/accounterr"
)

// Txn represents one in-flight rewrite of a single account file.
type Txn struct {
	db *lock.DB
	path string
	tmpPath string
	original *os.File
	tmp *os.File
	log *slog.Logger
}

// CommitObserver receives one notification per Commit/Abort outcome, keyed
// by the account file path. A caller that wants per-file counts (e.g. a
// metrics middleware) installs one with SetCommitObserver; nil (the
// default) means no observer is called.
type CommitObserver func(path string, committed bool)

var observer CommitObserver

// SetCommitObserver installs the process-wide commit/abort observer. Pass
// nil to remove it.
func SetCommitObserver(o CommitObserver) {
	observer = o
}

func notify(path string, committed bool) {
	if observer != nil {
		observer(path, committed)
	}
}

// Open acquires db, opens path read-only, and creates a sibling temp file
// with mode/owner copied from the original. Callers must call Commit or
// Abort exactly once.
func Open(db *lock.DB, path string, log *slog.Logger) (*Txn, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := db.Acquire(); err != nil {
		return nil, err
	}

	orig, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		db.Release()
		return nil, accounterr.Wrap(accounterr.FileOpen, err)
	}

	info, err := orig.Stat()
	if err != nil {
		orig.Close()
		db.Release()
		return nil, accounterr.Wrap(accounterr.FileOpen, err)
	}

	tmpPath := fmt.Sprintf("%s-tmp.%d", path, os.Getpid())
	tmp, err := os.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		orig.Close()
		db.Release()
		return nil, accounterr.Wrap(accounterr.FileOpen, err)
	}

	if stat, ok := info.Sys().(*unix.Stat_t); ok {
		if err := unix.Fchown(int(tmp.Fd()), int(stat.Uid), int(stat.Gid)); err != nil {
			log.Warn("failed to copy owner to temp account file", "path", tmpPath, "error", err)
		}
	}

	return &Txn{db: db, path: path, tmpPath: tmpPath, original: orig, tmp: tmp, log: log}, nil
}

// Reader returns the original file for the rewrite callback to scan.
func (t *Txn) Reader() io.Reader { return t.original }

// Writer returns the temp file for the rewrite callback to emit into.
func (t *Txn) Writer() io.Writer { return t.tmp }

// Commit flushes and fsyncs the temp file, best-effort links the original
// to "<path>.old", then atomically renames the temp file over the
// original. Lock release always happens, even on error.
func (t *Txn) Commit() error {
	defer t.db.Release()

	if err := t.tmp.Sync(); err != nil {
		t.abortFiles()
		notify(t.path, false)
		return accounterr.Wrap(accounterr.FileWrite, err)
	}
	if err := t.tmp.Close(); err != nil {
		t.abortFiles()
		notify(t.path, false)
		return accounterr.Wrap(accounterr.FileWrite, err)
	}
	_ = t.original.Close()

	oldPath := t.path + ".old"
	_ = os.Remove(oldPath)
	if err := os.Link(t.path, oldPath); err != nil && !os.IsNotExist(err) {
		t.log.Warn("failed to link .old backup", "path", oldPath, "error", err)
	}

	if err := os.Rename(t.tmpPath, t.path); err != nil {
		notify(t.path, false)
		return accounterr.Wrap(accounterr.FileMove, err)
	}
	notify(t.path, true)
	return nil
}

// Abort closes the temp file and removes it, leaving the original
// untouched.
func (t *Txn) Abort() {
	defer t.db.Release()
	t.abortFiles()
	notify(t.path, false)
}

func (t *Txn) abortFiles() {
	_ = t.tmp.Close()
	_ = os.Remove(t.tmpPath)
	_ = t.original.Close()
}

// RestoreFromOld is used by multi-file operations on a second-file
// failure: it best-effort restores path from path.old before the caller
// returns PartialCommit.
func RestoreFromOld(path string, log *slog.Logger) {
	old := path + ".old"
	if _, err := os.Stat(old); err != nil {
		return
	}
	if err := os.Rename(old, path); err != nil {
		log.Warn("failed to restore file from .old backup", "path", path, "error", err)
	}
}

// TempPath is exposed for tests that want to assert on temp file naming.
func TempPath(path string) string {
	return fmt.Sprintf("%s-tmp.%d", filepath.Clean(path), os.Getpid())
}
