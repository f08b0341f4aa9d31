// Package accountapi exposes the typed, transport-agnostic operation
// interface a daemon front-end or an offline tool binds to: one method
// per user/group lifecycle operation, each backed by UserEngine/
// GroupEngine and kept in sync with the per-process ObjectCache. Nothing
// here knows about D-Bus, HTTP, or gRPC — a transport wraps API and
// marshals its typed results.
package accountapi

import (
	"context"
	"log/slog"

	"github.com/accountd/accountd/internal/accountdb/model"
	"github.com/accountd/accountd/internal/cache"
	"github.com/accountd/accountd/internal/engine/group"
	"github.com/accountd/accountd/internal/engine/user"
	"github.com/accountd/accountd/pkg/accounterr"
)

// API is the process's single instantiation of the account engines plus
// the object cache that every call keeps in sync. Safe for concurrent
// use: the underlying engines serialize actual mutation through the
// account-DB lock.
type API struct {
	Users  *user.Engine
	Groups *group.Engine
	cache  *cache.ObjectCache
	log    *slog.Logger
	m      *metrics
}

// New builds an API bound to the given engines and object cache. cache
// may be nil, in which case handle lookups and lifecycle events are
// skipped; the offline adapter always passes a cache.
func New(users *user.Engine, groups *group.Engine, objCache *cache.ObjectCache) *API {
	return &API{
		Users:  users,
		Groups: groups,
		cache:  objCache,
		log:    slog.Default().With("component", "accountapi"),
	}
}

// EnableMetrics wires Prometheus counters into every call this API
// serves, plus the FileTxn commit/abort counters across the whole
// process (txn.SetCommitObserver is a package-level hook). Call at most
// once per process.
func (a *API) EnableMetrics() {
	a.m = newMetrics()
}

// AddUser creates a user and, when one is not already configured, its
// primary group. Returns the allocated uid and the username actually
// stored (which may differ from u.Username when only a nickname was
// given).
func (a *API) AddUser(ctx context.Context, u model.UserRecord) (uint32, string, error) {
	uid, username, err := a.Users.Add(ctx, u)
	a.observe("add_user", err)
	if err != nil {
		return 0, "", err
	}
	if a.cache != nil {
		a.cache.EmitUserEvent(cache.UserAdded, uid)
	}
	return uid, username, nil
}

// DeleteUser removes a user, optionally its home directory, and
// invalidates any cached handle.
func (a *API) DeleteUser(ctx context.Context, uid uint32, removeHome bool) error {
	err := a.Users.Delete(ctx, uid, removeHome)
	a.observe("delete_user", err)
	if err != nil {
		return err
	}
	if a.cache != nil {
		a.cache.InvalidateUser(uid)
		a.cache.EmitUserEvent(cache.UserDeleted, uid)
	}
	return nil
}

// UpdateUser changes a user's mutable fields.
func (a *API) UpdateUser(ctx context.Context, u model.UserRecord) error {
	err := a.Users.Update(ctx, u)
	a.observe("update_user", err)
	if err != nil {
		return err
	}
	if a.cache != nil {
		a.cache.InvalidateUser(u.UID)
		a.cache.EmitUserEvent(cache.UserUpdated, u.UID)
	}
	return nil
}

// GetUser reads a user by uid, consulting the cache first when present.
func (a *API) GetUser(uid uint32) (model.UserRecord, error) {
	if a.cache != nil {
		if h := a.cache.GetUser(uid); h != nil {
			h.Pin()
			defer h.Unpin()
			return h.Record, nil
		}
	}
	rec, err := a.Users.Read(uid)
	a.observe("get_user", err)
	if err != nil {
		return model.UserRecord{}, err
	}
	if a.cache != nil {
		h := a.cache.InsertUser(rec)
		h.Pin()
		h.Unpin()
	}
	return rec, nil
}

// GetUserByName reads a user by username.
func (a *API) GetUserByName(name string) (model.UserRecord, error) {
	rec, err := a.Users.ReadByName(name)
	a.observe("get_user_by_name", err)
	return rec, err
}

// ListUsers returns every uid whose effective type intersects typeMask.
func (a *API) ListUsers(typeMask uint32) ([]uint32, error) {
	uids, err := a.Users.List(typeMask)
	a.observe("list_users", err)
	return uids, err
}

// AddGroup creates a group, with preferredGID honored when free and in
// range.
func (a *API) AddGroup(ctx context.Context, g model.GroupRecord, preferredGID uint32) (uint32, error) {
	gid, err := a.Groups.Add(ctx, g, preferredGID)
	a.observe("add_group", err)
	if err != nil {
		return 0, err
	}
	if a.cache != nil {
		a.cache.EmitGroupEvent(cache.GroupAdded, gid)
	}
	return gid, nil
}

// DeleteGroup removes a group and invalidates any cached handle.
func (a *API) DeleteGroup(ctx context.Context, gid uint32) error {
	err := a.Groups.Delete(ctx, gid)
	a.observe("delete_group", err)
	if err != nil {
		return err
	}
	if a.cache != nil {
		a.cache.InvalidateGroup(gid)
		a.cache.EmitGroupEvent(cache.GroupDeleted, gid)
	}
	return nil
}

// UpdateGroup changes a group's secret.
func (a *API) UpdateGroup(ctx context.Context, g model.GroupRecord) error {
	err := a.Groups.Update(ctx, g)
	a.observe("update_group", err)
	if err != nil {
		return err
	}
	if a.cache != nil {
		a.cache.InvalidateGroup(g.GID)
		a.cache.EmitGroupEvent(cache.GroupUpdated, g.GID)
	}
	return nil
}

// GetGroup reads a group by gid.
func (a *API) GetGroup(gid uint32) (model.GroupRecord, error) {
	if a.cache != nil {
		if h := a.cache.GetGroup(gid); h != nil {
			h.Pin()
			defer h.Unpin()
			return h.Record, nil
		}
	}
	rec, err := a.Groups.Read(gid)
	a.observe("get_group", err)
	if err != nil {
		return model.GroupRecord{}, err
	}
	if a.cache != nil {
		h := a.cache.InsertGroup(rec)
		h.Pin()
		h.Unpin()
	}
	return rec, nil
}

// GetGroupByName reads a group by name.
func (a *API) GetGroupByName(name string) (model.GroupRecord, error) {
	rec, err := a.Groups.ReadByName(name)
	a.observe("get_group_by_name", err)
	return rec, err
}

// AddMember adds uid to gid's member list.
func (a *API) AddMember(ctx context.Context, gid, uid uint32, addAsAdmin bool) error {
	err := a.Groups.AddMember(ctx, gid, uid, addAsAdmin)
	a.observe("add_member", err)
	if err == nil && a.cache != nil {
		a.cache.InvalidateGroup(gid)
		a.cache.EmitGroupEvent(cache.GroupUpdated, gid)
	}
	return err
}

// DeleteMember removes uid from gid's member and admin lists.
func (a *API) DeleteMember(ctx context.Context, gid, uid uint32) error {
	err := a.Groups.DeleteMember(ctx, gid, uid)
	a.observe("delete_member", err)
	if err == nil && a.cache != nil {
		a.cache.InvalidateGroup(gid)
		a.cache.EmitGroupEvent(cache.GroupUpdated, gid)
	}
	return err
}

// IsAdmin reports whether username is an admin of gid.
func (a *API) IsAdmin(gid uint32, username string) (bool, error) {
	ok, err := a.Groups.IsAdmin(gid, username)
	a.observe("is_admin", err)
	return ok, err
}

func (a *API) observe(op string, err error) {
	if a.m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
		if ae, ok := err.(*accounterr.Error); ok {
			status = ae.Code.String()
		}
	}
	a.m.calls.WithLabelValues(op, status).Inc()
}
