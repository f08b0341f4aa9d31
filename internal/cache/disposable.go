package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// Disposable implements the per-handle idle-timer/pin-count lifecycle: a
// handle is pinned for the duration of an in-flight call, and once the
// last pin is released an idle timer schedules disposal. delete_later
// forces immediate disposal regardless of pin state.
type Disposable struct {
	timeoutSeconds uint32
	pinCount atomic.Int32
	mu sync.Mutex
	timer *time.Timer
	deleteLater bool
	onDispose func()
	disposeOnce sync.Once
}

// NewDisposable builds a Disposable with the given idle timeout (0 means
// "never auto-dispose") and a callback invoked exactly once when the
// handle is finally disposed.
func NewDisposable(timeoutSeconds uint32, onDispose func()) *Disposable {
	return &Disposable{timeoutSeconds: timeoutSeconds, onDispose: onDispose}
}

// Pin increments the pin count. If the count transitions from 0 to 1, a
// pending idle timer is cancelled; a disposal scheduled by DeleteLater
// is not.
func (d *Disposable) Pin() {
	if d.pinCount.Add(1) == 1 {
		d.mu.Lock()
		if d.timer != nil && !d.deleteLater {
			d.timer.Stop()
			d.timer = nil
		}
		d.mu.Unlock()
	}
}

// Unpin decrements the pin count. If it reaches zero and a nonzero timeout
// is configured, a one-shot disposal timer is scheduled; delete_later
// bypasses the timer and disposes immediately.
func (d *Disposable) Unpin() {
	if d.pinCount.Add(-1) != 0 {
		return
	}
	d.mu.Lock()
	deleteLater := d.deleteLater
	d.mu.Unlock()

	if deleteLater {
		d.dispose()
		return
	}
	if d.timeoutSeconds == 0 {
		return
	}
	d.mu.Lock()
	d.timer = time.AfterFunc(time.Duration(d.timeoutSeconds)*time.Second, d.dispose)
	d.mu.Unlock()
}

// DeleteLater unconditionally schedules disposal on the next tick and
// marks the handle so further Pin calls are ignored for timer purposes.
func (d *Disposable) DeleteLater() {
	d.mu.Lock()
	d.deleteLater = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(0, d.dispose)
	d.mu.Unlock()
}

func (d *Disposable) dispose() {
	d.disposeOnce.Do(func() {
		if d.onDispose != nil {
			d.onDispose()
		}
	})
}

// PinCount reports the current pin count, for tests and diagnostics.
func (d *Disposable) PinCount() int32 {
	return d.pinCount.Load()
}
