// Package session defines the SessionTerminator capability: a callable
// used by UserEngine.Delete to forcibly end an about-to-be-deleted
// user's active sessions before the account rows are removed. The core
// depends only on the interface; session-manager integration itself is
// out of scope.
package session

import (
	"context"
	"os/exec"
	"time"

	"github.com/accountd/accountd/pkg/accounterr"
)

// Terminator ends every active session belonging to uid.
type Terminator interface {
	Terminate(ctx context.Context, uid uint32) error
}

// NoOp is a Terminator that always succeeds without doing anything,
// suitable for offline-mode tooling and tests where no session manager
// is present.
type NoOp struct{}

// Terminate implements Terminator.
func (NoOp) Terminate(ctx context.Context, uid uint32) error { return nil }

// Exec is a Terminator that shells out to a configured command,
// grounded on the os/exec.CommandContext wrapper pattern used elsewhere
// in the corpus for invoking an external administrative tool. The
// command is invoked as "<cmd> <uid>"; a non-zero exit is reported as
// accounterr.SessionTerminate.
type Exec struct {
	Command string
	Timeout time.Duration
}

// NewExec builds an Exec terminator. A zero timeout defaults to 10s.
func NewExec(command string, timeout time.Duration) *Exec {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Exec{Command: command, Timeout: timeout}
}

// Terminate implements Terminator.
func (e *Exec) Terminate(ctx context.Context, uid uint32) error {
	if e.Command == "" {
		return nil
	}
	runCtx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, e.Command, itoa(uid))
	if err := cmd.Run(); err != nil {
		return accounterr.Wrap(accounterr.SessionTerminate, err)
	}
	return nil
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
