// Package lock implements the process-wide account-DB lock: a
// reference-counted guard around an OS-level file lock, so nested
// acquisitions within one request don't re-lock, and so privilege
// elevation is scoped exactly to the period the lock is held.
package lock

import (
	"sync"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"github.com/accountd/accountd/pkg/accounterr"
)

// DB is the process-wide account-database lock. One DB is shared by every
// FileTxn in a process; acquisition is reference-counted so a request that
// touches passwd then shadow then group does not contend with itself.
type DB struct {
	path string

	mu sync.Mutex
	fl *flock.Flock
	refCount int
	savedUID int
}

// New creates a DB bound to the given lock file path.
func New(path string) *DB {
	return &DB{path: path}
}

// Acquire increments the reference count. At the 0→1 transition it takes
// the OS-level lock and raises privilege (effective uid → 0); nested calls
// within the same process just bump the counter. A second process
// contending for the same lock file fails immediately with
// DbAlreadyLocked rather than blocking.
func (d *DB) Acquire() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.refCount > 0 {
		d.refCount++
		return nil
	}

	fl := flock.New(d.path)
	locked, err := fl.TryLock()
	if err != nil {
		return accounterr.Wrap(accounterr.LockFailure, err)
	}
	if !locked {
		return accounterr.New(accounterr.DbAlreadyLocked, "account database is already locked by another process")
	}

	if err := elevate(); err != nil {
		_ = fl.Unlock()
		return accounterr.Wrap(accounterr.PermissionDenied, err)
	}

	d.fl = fl
	d.refCount = 1
	return nil
}

// Release decrements the reference count; at the 1→0 transition it drops
// the OS lock and restores the process's real uid as its effective uid.
func (d *DB) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.refCount == 0 {
		return
	}
	d.refCount--
	if d.refCount > 0 {
		return
	}

	_ = d.fl.Unlock()
	d.fl = nil
	deelevate()
}

// elevate raises the effective uid to root for the duration the lock is
// held. Outside the lock the process runs as its real uid.
// Failure to elevate (e.g. the daemon is not setuid-root in a test
// environment) is tolerated: callers that don't need real privilege
// escalation — tests against a temp sysroot — still function.
func elevate() error {
	if unix.Geteuid() == 0 {
		return nil
	}
	if err := unix.Seteuid(0); err != nil && err != unix.EPERM {
		return err
	}
	return nil
}

func deelevate() {
	_ = unix.Seteuid(unix.Getuid())
}
