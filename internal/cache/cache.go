// Package cache implements the per-process ObjectCache and Disposable
// handle lifecycle: a weak-reference registry keyed by uid/gid so repeated
// lookups of the same account return the same handle while it is strongly
// referenced somewhere, without pinning it in memory once every caller has
// let go.
//
// Go has no first-class weak reference type before the 1.24 `weak`
// package; this cache uses weak.Pointer and reaps nil-resolving entries
// lazily on the next Get instead of holding a plain strong map guarded by
// sync.RWMutex, so a handle can actually be collected once unpinned and
// dereferenced.
package cache

import (
	"sync"
	"weak"

	"github.com/accountd/accountd/internal/accountdb/model"
)

// ObjectCache is the process-wide singleton that backs UserHandle and
// GroupHandle lookups. Tests construct their own instance via New rather
// than using a package-level singleton, so engine tests never share state
// across parallel subtests.
type ObjectCache struct {
	mu sync.Mutex
	users map[uint32]weak.Pointer[UserHandle]
	groups map[uint32]weak.Pointer[GroupHandle]
	bus eventBus
	userTimeout uint32
	groupTimeout uint32
}

// New builds an empty ObjectCache. userTimeout/groupTimeout are the idle
// dispose timeouts, in seconds, applied to newly constructed handles (0 =
// never dispose).
func New(userTimeout, groupTimeout uint32) *ObjectCache {
	return &ObjectCache{
		users: make(map[uint32]weak.Pointer[UserHandle]),
		groups: make(map[uint32]weak.Pointer[GroupHandle]),
		userTimeout: userTimeout,
		groupTimeout: groupTimeout,
	}
}

var (
	singletonOnce sync.Once
	singleton *ObjectCache
)

// Singleton returns the process-wide ObjectCache, constructing it on
// first use with the given timeouts. Subsequent calls ignore the
// arguments and return the already-constructed instance.
func Singleton(userTimeout, groupTimeout uint32) *ObjectCache {
	singletonOnce.Do(func() {
		singleton = New(userTimeout, groupTimeout)
	})
	return singleton
}

// Subscribe registers a lifecycle event listener.
func (c *ObjectCache) Subscribe(l Listener) {
	c.bus.Subscribe(l)
}

// GetUser returns the cached UserHandle for uid if one is live, else nil.
// It never reads from disk; callers construct and Insert a fresh handle
// on a miss.
func (c *ObjectCache) GetUser(uid uint32) *UserHandle {
	c.mu.Lock()
	defer c.mu.Unlock()

	wp, ok := c.users[uid]
	if !ok {
		return nil
	}
	h := wp.Value()
	if h == nil {
		delete(c.users, uid)
		return nil
	}
	return h
}

// InsertUser builds a UserHandle for record, registers a weak reference
// to it, and returns the strong reference the caller should pin for the
// duration of its work.
func (c *ObjectCache) InsertUser(record model.UserRecord) *UserHandle {
	c.mu.Lock()
	defer c.mu.Unlock()

	h := &UserHandle{UID: record.UID, Record: record}
	h.Disposable = NewDisposable(c.userTimeout, func() {
		c.mu.Lock()
		delete(c.users, h.UID)
		c.mu.Unlock()
	})
	c.users[record.UID] = weak.Make(h)
	return h
}

// GetGroup returns the cached GroupHandle for gid if one is live, else nil.
func (c *ObjectCache) GetGroup(gid uint32) *GroupHandle {
	c.mu.Lock()
	defer c.mu.Unlock()

	wp, ok := c.groups[gid]
	if !ok {
		return nil
	}
	h := wp.Value()
	if h == nil {
		delete(c.groups, gid)
		return nil
	}
	return h
}

// InsertGroup builds a GroupHandle for record, registers a weak reference
// to it, and returns the strong reference.
func (c *ObjectCache) InsertGroup(record model.GroupRecord) *GroupHandle {
	c.mu.Lock()
	defer c.mu.Unlock()

	h := &GroupHandle{GID: record.GID, Record: record}
	h.Disposable = NewDisposable(c.groupTimeout, func() {
		c.mu.Lock()
		delete(c.groups, h.GID)
		c.mu.Unlock()
	})
	c.groups[record.GID] = weak.Make(h)
	return h
}

// InvalidateUser drops any cached handle for uid without waiting for its
// idle timer — used after UserEngine.Delete so a ghost handle can't serve
// a stale record to a concurrent reader.
func (c *ObjectCache) InvalidateUser(uid uint32) {
	c.mu.Lock()
	wp, ok := c.users[uid]
	delete(c.users, uid)
	c.mu.Unlock()
	if ok {
		if h := wp.Value(); h != nil {
			h.DeleteLater()
		}
	}
}

// InvalidateGroup drops any cached handle for gid without waiting for its
// idle timer.
func (c *ObjectCache) InvalidateGroup(gid uint32) {
	c.mu.Lock()
	wp, ok := c.groups[gid]
	delete(c.groups, gid)
	c.mu.Unlock()
	if ok {
		if h := wp.Value(); h != nil {
			h.DeleteLater()
		}
	}
}

// EmitUserEvent notifies subscribers of a user lifecycle event.
func (c *ObjectCache) EmitUserEvent(kind EventKind, uid uint32) {
	c.bus.Emit(Event{Kind: kind, ID: uid})
}

// EmitGroupEvent notifies subscribers of a group lifecycle event.
func (c *ObjectCache) EmitGroupEvent(kind EventKind, gid uint32) {
	c.bus.Emit(Event{Kind: kind, ID: gid})
}
