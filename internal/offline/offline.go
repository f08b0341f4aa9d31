// Package offline provides the synchronous, in-process adapter that lets
// a client run the account engines without a transport: it instantiates
// the shared account-DB lock, the secret hasher, both engines, and the
// object cache directly, and hands back a ready-to-use accountapi.API.
// Used by every cmd/accountctl subcommand, by `accountd serve`, and by
// library callers. Locking is identical to the daemon
// path (the same on-disk lock file), so concurrent offline and daemon
// use of the same account database is safe.
package offline

import (
	"github.com/accountd/accountd/internal/accountdb/lock"
	"github.com/accountd/accountd/internal/accountdb/secret"
	"github.com/accountd/accountd/internal/cache"
	"github.com/accountd/accountd/internal/config"
	"github.com/accountd/accountd/internal/engine/group"
	"github.com/accountd/accountd/internal/engine/user"
	"github.com/accountd/accountd/pkg/accountapi"
	"github.com/accountd/accountd/pkg/session"
)

// Adapter owns one process's worth of account engine state: the
// account-DB lock, the hasher, both engines, and the object cache.
type Adapter struct {
	Config *config.Config
	DB     *lock.DB
	Cache  *cache.ObjectCache
	API    *accountapi.API
}

// New builds an Adapter bound to cfg. sessions may be nil, in which case
// user deletion uses session.NoOp{} (appropriate for offline tooling,
// which has no session manager to call into).
func New(cfg *config.Config, sessions session.Terminator) (*Adapter, error) {
	hasher, err := secret.New(secret.Scheme(cfg.SecretScheme), cfg.SecretSaltLength)
	if err != nil {
		return nil, err
	}

	db := lock.New(cfg.DBLockFile)
	groups := group.New(cfg, db, hasher)
	users := user.New(cfg, db, hasher, groups, sessions)
	objCache := cache.New(cfg.Timeout.User, cfg.Timeout.Group)

	return &Adapter{
		Config: cfg,
		DB:     db,
		Cache:  objCache,
		API:    accountapi.New(users, groups, objCache),
	}, nil
}
