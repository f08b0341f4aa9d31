// Package group implements GroupEngine: add/delete/
// update/read a group record across the group and gshadow files,
// membership add/remove, and the cascade UserEngine drives on user
// deletion.
package group

import (
	"context"
	"log/slog"
	"os"

	"github.com/accountd/accountd/internal/accountdb/codec"
	"github.com/accountd/accountd/internal/accountdb/hooks"
	"github.com/accountd/accountd/internal/accountdb/idalloc"
	"github.com/accountd/accountd/internal/accountdb/lock"
	"github.com/accountd/accountd/internal/accountdb/model"
	"github.com/accountd/accountd/internal/accountdb/secret"
	"github.com/accountd/accountd/internal/accountdb/txn"
	"github.com/accountd/accountd/internal/accountdb/validate"
	"github.com/accountd/accountd/internal/config"
	"github.com/accountd/accountd/internal/logger"
	"github.com/accountd/accountd/pkg/accounterr"
)

// Engine orchestrates group lifecycle operations over the group and
// gshadow files.
type Engine struct {
	cfg *config.Config
	db *lock.DB
	hasher *secret.Hasher
	addHook *hooks.Runner
	delHook *hooks.Runner
	log *slog.Logger
}

// New builds a GroupEngine bound to cfg and the shared account-DB lock.
func New(cfg *config.Config, db *lock.DB, hasher *secret.Hasher) *Engine {
	return &Engine{
		cfg: cfg,
		db: db,
		hasher: hasher,
		addHook: hooks.New(cfg.Hooks.GroupAdd, nil),
		delHook: hooks.New(cfg.Hooks.GroupDelete, nil),
		log: slog.Default().With("component", "group_engine"),
	}
}

func (e *Engine) rangeFor(t model.GroupType) (idalloc.Range, error) {
	switch t {
	case model.GroupTypeSystem:
		return idalloc.Range{Min: e.cfg.GID.System.Min, Max: e.cfg.GID.System.Max}, nil
	case model.GroupTypeUser:
		return idalloc.Range{Min: e.cfg.GID.User.Min, Max: e.cfg.GID.User.Max}, nil
	default:
		return idalloc.Range{}, accounterr.New(accounterr.InvalidGroupType, "group type must be set")
	}
}

func gshadowPresent(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Add creates a new group row (and gshadow row, if that file exists).
// preferredGID, when non-zero, is used if free and in range.
func (e *Engine) Add(ctx context.Context, g model.GroupRecord, preferredGID uint32) (uint32, error) {
	if g.Type == model.GroupTypeNone {
		return 0, accounterr.New(accounterr.InvalidGroupType, "grouptype must be set")
	}
	if err := validate.Name(g.Groupname); err != nil {
		return 0, err
	}

	r, err := e.rangeFor(g.Type)
	if err != nil {
		return 0, err
	}

	if err := e.db.Acquire(); err != nil {
		return 0, err
	}
	defer e.db.Release()

	inUse, existingNames, err := e.scanGroupIDs()
	if err != nil {
		return 0, err
	}
	if existingNames[g.Groupname] {
		return 0, accounterr.Newf(accounterr.GroupAlreadyExists, "group %q already exists", g.Groupname)
	}

	alloc := idalloc.New(r.Min, r.Max)
	gid, err := alloc.Next(inUse, preferredGID)
	if err != nil {
		return 0, accounterr.Wrap(accounterr.GidNotAvailable, err)
	}

	hash, err := e.hashForGroup(g.Secret)
	if err != nil {
		return 0, accounterr.Wrap(accounterr.GroupSecretEncryptFailure, err)
	}

	groupTxn, err := txn.Open(e.db, e.cfg.Files.Group, e.log)
	if err != nil {
		return 0, err
	}
	if err := codec.InsertGroup(groupTxn.Reader(), groupTxn.Writer(), codec.GroupRow{
		Name: g.Groupname, Passwd: "x", GID: gid, Members: g.Members,
	}); err != nil {
		groupTxn.Abort()
		return 0, err
	}
	if err := groupTxn.Commit(); err != nil {
		return 0, err
	}

	if gshadowPresent(e.cfg.Files.GShadow) {
		gsTxn, err := txn.Open(e.db, e.cfg.Files.GShadow, e.log)
		if err != nil {
			txn.RestoreFromOld(e.cfg.Files.Group, e.log)
			return 0, err
		}
		if err := codec.AppendGShadow(gsTxn.Reader(), gsTxn.Writer(), codec.GShadowRow{
			Name: g.Groupname, Secret: hash, Admins: g.Admins, Members: g.Members,
		}); err != nil {
			gsTxn.Abort()
			txn.RestoreFromOld(e.cfg.Files.Group, e.log)
			return 0, accounterr.Wrap(accounterr.PartialCommit, err)
		}
		if err := gsTxn.Commit(); err != nil {
			txn.RestoreFromOld(e.cfg.Files.Group, e.log)
			return 0, accounterr.Wrap(accounterr.PartialCommit, err)
		}
	}

	e.addHook.RunGroupEvent(ctx, g.Groupname, gid)
	e.log.Info("group added", logger.Groupname(g.Groupname), logger.GID(gid))
	return gid, nil
}

// Delete removes group's row (and gshadow row).
func (e *Engine) Delete(ctx context.Context, gid uint32) error {
	if uint32(os.Getgid()) == gid {
		return accounterr.Newf(accounterr.GroupSelfDestruction, "cannot delete the caller's own gid %d", gid)
	}

	if err := e.db.Acquire(); err != nil {
		return err
	}
	defer e.db.Release()

	groupRow, err := e.lookupGroupByGID(gid)
	if err != nil {
		return err
	}

	if hasUser, err := e.groupHasPrimaryUser(gid); err != nil {
		return err
	} else if hasUser {
		return accounterr.Newf(accounterr.GroupHasUser, "group %q is the primary group of an existing user", groupRow.Name)
	}

	e.delHook.RunGroupEvent(ctx, groupRow.Name, gid)

	groupTxn, err := txn.Open(e.db, e.cfg.Files.Group, e.log)
	if err != nil {
		return err
	}
	found, err := codec.DeleteGroupByName(groupTxn.Reader(), groupTxn.Writer(), groupRow.Name)
	if err != nil {
		groupTxn.Abort()
		return err
	}
	if !found {
		groupTxn.Abort()
		return accounterr.Newf(accounterr.GroupNotFound, "group %q disappeared before delete", groupRow.Name)
	}
	if err := groupTxn.Commit(); err != nil {
		return err
	}

	if gshadowPresent(e.cfg.Files.GShadow) {
		gsTxn, err := txn.Open(e.db, e.cfg.Files.GShadow, e.log)
		if err != nil {
			return accounterr.Wrap(accounterr.PartialCommit, err)
		}
		if _, err := codec.DeleteGShadowByName(gsTxn.Reader(), gsTxn.Writer(), groupRow.Name); err != nil {
			gsTxn.Abort()
			txn.RestoreFromOld(e.cfg.Files.Group, e.log)
			return accounterr.Wrap(accounterr.PartialCommit, err)
		}
		if err := gsTxn.Commit(); err != nil {
			txn.RestoreFromOld(e.cfg.Files.Group, e.log)
			return accounterr.Wrap(accounterr.PartialCommit, err)
		}
	}

	e.log.Info("group deleted", logger.Groupname(groupRow.Name), logger.GID(gid))
	return nil
}

// Update changes a group's secret only; every field of g other than GID
// and Secret is ignored. An unchanged secret yields GroupNoChanges.
func (e *Engine) Update(ctx context.Context, g model.GroupRecord) error {
	if err := e.db.Acquire(); err != nil {
		return err
	}
	defer e.db.Release()

	current, err := e.lookupGroupByGID(g.GID)
	if err != nil {
		return err
	}

	hash, err := e.hashForGroup(g.Secret)
	if err != nil {
		return accounterr.Wrap(accounterr.GroupSecretEncryptFailure, err)
	}

	if !gshadowPresent(e.cfg.Files.GShadow) {
		return accounterr.New(accounterr.GroupNoChanges, "no gshadow file present, nothing to update")
	}

	currentHash, err := e.currentGShadowSecret(current.Name)
	if err != nil {
		return err
	}
	if currentHash == hash {
		return accounterr.New(accounterr.GroupNoChanges, "secret unchanged")
	}

	gsTxn, err := txn.Open(e.db, e.cfg.Files.GShadow, e.log)
	if err != nil {
		return err
	}
	found, err := codec.ModifyGShadowByName(gsTxn.Reader(), gsTxn.Writer(), current.Name, func(row *codec.GShadowRow) {
		row.Secret = hash
	})
	if err != nil {
		gsTxn.Abort()
		return err
	}
	if !found {
		gsTxn.Abort()
		return accounterr.Newf(accounterr.GroupNotFound, "group %q disappeared before update", current.Name)
	}
	if err := gsTxn.Commit(); err != nil {
		return err
	}

	e.log.Info("group updated", logger.Groupname(current.Name), logger.GID(g.GID))
	return nil
}

// Read returns the current GroupRecord for gid.
func (e *Engine) Read(gid uint32) (model.GroupRecord, error) {
	groupRow, err := e.lookupGroupByGID(gid)
	if err != nil {
		return model.GroupRecord{}, err
	}
	return e.toRecord(groupRow)
}

// ReadByName returns the current GroupRecord for name.
func (e *Engine) ReadByName(name string) (model.GroupRecord, error) {
	f, err := os.Open(e.cfg.Files.Group)
	if err != nil {
		return model.GroupRecord{}, accounterr.Wrap(accounterr.FileOpen, err)
	}
	defer f.Close()
	row, err := codec.LookupGroupByName(f, name)
	if err != nil {
		return model.GroupRecord{}, err
	}
	return e.toRecord(row)
}

// AddMember adds the user owning uid to group gid's member list (and
// gshadow admins, when addAsAdmin and the gshadow file exists).
func (e *Engine) AddMember(ctx context.Context, gid, uid uint32, addAsAdmin bool) error {
	if err := e.db.Acquire(); err != nil {
		return err
	}
	defer e.db.Release()

	groupRow, err := e.lookupGroupByGID(gid)
	if err != nil {
		return err
	}
	username, err := e.resolveUsername(uid)
	if err != nil {
		return err
	}
	for _, m := range groupRow.Members {
		if m == username {
			return accounterr.Newf(accounterr.AlreadyMember, "%q is already a member of %q", username, groupRow.Name)
		}
	}

	groupTxn, err := txn.Open(e.db, e.cfg.Files.Group, e.log)
	if err != nil {
		return err
	}
	found, err := codec.ModifyGroupByName(groupTxn.Reader(), groupTxn.Writer(), groupRow.Name, func(row *codec.GroupRow) {
		row.Members = append(append([]string{}, row.Members...), username)
	})
	if err != nil {
		groupTxn.Abort()
		return err
	}
	if !found {
		groupTxn.Abort()
		return accounterr.Newf(accounterr.GroupNotFound, "group %q disappeared before add-member", groupRow.Name)
	}
	if err := groupTxn.Commit(); err != nil {
		return err
	}

	if gshadowPresent(e.cfg.Files.GShadow) {
		gsTxn, err := txn.Open(e.db, e.cfg.Files.GShadow, e.log)
		if err != nil {
			return accounterr.Wrap(accounterr.PartialCommit, err)
		}
		if _, err := codec.ModifyGShadowByName(gsTxn.Reader(), gsTxn.Writer(), groupRow.Name, func(row *codec.GShadowRow) {
			row.Members = append(append([]string{}, row.Members...), username)
			if addAsAdmin {
				row.Admins = append(append([]string{}, row.Admins...), username)
			}
		}); err != nil {
			gsTxn.Abort()
			return accounterr.Wrap(accounterr.PartialCommit, err)
		}
		if err := gsTxn.Commit(); err != nil {
			return accounterr.Wrap(accounterr.PartialCommit, err)
		}
	}

	e.log.Info("group member added", logger.Groupname(groupRow.Name), logger.Username(username))
	return nil
}

// DeleteMember removes the user owning uid from group gid's member and
// admin lists.
func (e *Engine) DeleteMember(ctx context.Context, gid, uid uint32) error {
	if err := e.db.Acquire(); err != nil {
		return err
	}
	defer e.db.Release()

	groupRow, err := e.lookupGroupByGID(gid)
	if err != nil {
		return err
	}
	username, err := e.resolveUsername(uid)
	if err != nil {
		return err
	}
	present := false
	for _, m := range groupRow.Members {
		if m == username {
			present = true
			break
		}
	}
	if !present {
		return accounterr.Newf(accounterr.GroupNotFound, "%q is not a member of %q", username, groupRow.Name)
	}

	groupTxn, err := txn.Open(e.db, e.cfg.Files.Group, e.log)
	if err != nil {
		return err
	}
	if _, err := codec.ModifyGroupByName(groupTxn.Reader(), groupTxn.Writer(), groupRow.Name, func(row *codec.GroupRow) {
		row.Members = removeString(row.Members, username)
	}); err != nil {
		groupTxn.Abort()
		return err
	}
	if err := groupTxn.Commit(); err != nil {
		return err
	}

	if gshadowPresent(e.cfg.Files.GShadow) {
		gsTxn, err := txn.Open(e.db, e.cfg.Files.GShadow, e.log)
		if err != nil {
			return accounterr.Wrap(accounterr.PartialCommit, err)
		}
		if _, err := codec.ModifyGShadowByName(gsTxn.Reader(), gsTxn.Writer(), groupRow.Name, func(row *codec.GShadowRow) {
			row.Members = removeString(row.Members, username)
			row.Admins = removeString(row.Admins, username)
		}); err != nil {
			gsTxn.Abort()
			return accounterr.Wrap(accounterr.PartialCommit, err)
		}
		if err := gsTxn.Commit(); err != nil {
			return accounterr.Wrap(accounterr.PartialCommit, err)
		}
	}

	e.log.Info("group member deleted", logger.Groupname(groupRow.Name), logger.Username(username))
	return nil
}

// IsAdmin reports whether username is an admin of group gid, per the
// supplemented gumd daemon accessor.
func (e *Engine) IsAdmin(gid uint32, username string) (bool, error) {
	if !gshadowPresent(e.cfg.Files.GShadow) {
		return false, nil
	}
	f, err := os.Open(e.cfg.Files.GShadow)
	if err != nil {
		return false, accounterr.Wrap(accounterr.FileOpen, err)
	}
	defer f.Close()
	groupRow, err := e.lookupGroupByGID(gid)
	if err != nil {
		return false, err
	}
	row, err := lookupGShadowByName(f, groupRow.Name)
	if err != nil {
		return false, nil
	}
	for _, a := range row.Admins {
		if a == username {
			return true, nil
		}
	}
	return false, nil
}

// DeleteUserMembership removes username from every group's member and
// admin lists, used by UserEngine's delete cascade.
func (e *Engine) DeleteUserMembership(ctx context.Context, username string) error {
	if err := e.db.Acquire(); err != nil {
		return err
	}
	defer e.db.Release()

	groupTxn, err := txn.Open(e.db, e.cfg.Files.Group, e.log)
	if err != nil {
		return err
	}
	for row, err := range codec.IterGroup(groupTxn.Reader()) {
		if err != nil {
			groupTxn.Abort()
			return err
		}
		row.Members = removeString(row.Members, username)
		if werr := codec.WriteGroup(groupTxn.Writer(), row); werr != nil {
			groupTxn.Abort()
			return werr
		}
	}
	if err := groupTxn.Commit(); err != nil {
		return err
	}

	if gshadowPresent(e.cfg.Files.GShadow) {
		gsTxn, err := txn.Open(e.db, e.cfg.Files.GShadow, e.log)
		if err != nil {
			return accounterr.Wrap(accounterr.PartialCommit, err)
		}
		for row, err := range codec.IterGShadow(gsTxn.Reader()) {
			if err != nil {
				gsTxn.Abort()
				return err
			}
			row.Members = removeString(row.Members, username)
			row.Admins = removeString(row.Admins, username)
			if werr := codec.WriteGShadow(gsTxn.Writer(), row); werr != nil {
				gsTxn.Abort()
				return werr
			}
		}
		if err := gsTxn.Commit(); err != nil {
			return accounterr.Wrap(accounterr.PartialCommit, err)
		}
	}
	return nil
}

// --- internal helpers ---

func (e *Engine) scanGroupIDs() (map[uint32]bool, map[string]bool, error) {
	f, err := os.Open(e.cfg.Files.Group)
	if err != nil {
		return nil, nil, accounterr.Wrap(accounterr.FileOpen, err)
	}
	defer f.Close()

	inUse := map[uint32]bool{}
	names := map[string]bool{}
	for row, err := range codec.IterGroup(f) {
		if err != nil {
			return nil, nil, err
		}
		inUse[row.GID] = true
		names[row.Name] = true
	}
	return inUse, names, nil
}

func (e *Engine) lookupGroupByGID(gid uint32) (codec.GroupRow, error) {
	f, err := os.Open(e.cfg.Files.Group)
	if err != nil {
		return codec.GroupRow{}, accounterr.Wrap(accounterr.FileOpen, err)
	}
	defer f.Close()
	return codec.LookupGroupByGID(f, gid)
}

func (e *Engine) groupHasPrimaryUser(gid uint32) (bool, error) {
	f, err := os.Open(e.cfg.Files.Passwd)
	if err != nil {
		return false, accounterr.Wrap(accounterr.FileOpen, err)
	}
	defer f.Close()
	_, found, err := codec.FindUserByPrimaryGID(f, gid)
	return found, err
}

func (e *Engine) resolveUsername(uid uint32) (string, error) {
	f, err := os.Open(e.cfg.Files.Passwd)
	if err != nil {
		return "", accounterr.Wrap(accounterr.FileOpen, err)
	}
	defer f.Close()
	row, err := codec.LookupPasswdByUID(f, uid)
	if err != nil {
		return "", err
	}
	return row.Name, nil
}

func (e *Engine) currentGShadowSecret(name string) (string, error) {
	f, err := os.Open(e.cfg.Files.GShadow)
	if err != nil {
		return "", accounterr.Wrap(accounterr.FileOpen, err)
	}
	defer f.Close()
	row, err := lookupGShadowByName(f, name)
	if err != nil {
		return "", err
	}
	return row.Secret, nil
}

func lookupGShadowByName(r *os.File, name string) (codec.GShadowRow, error) {
	for row, err := range codec.IterGShadow(r) {
		if err != nil {
			return codec.GShadowRow{}, err
		}
		if row.Name == name {
			return row, nil
		}
	}
	return codec.GShadowRow{}, accounterr.Newf(accounterr.GroupNotFound, "no such group in gshadow: %s", name)
}

func (e *Engine) hashForGroup(s model.SecretState) (string, error) {
	switch s.Kind {
	case model.SecretDisabled:
		return "*", nil
	case model.SecretLocked:
		return "!" + s.Hash, nil
	case model.SecretHashed:
		if s.Hash == "" {
			return "", nil
		}
		hash, err := e.hasher.Hash(s.Hash)
		if err != nil {
			return "", err
		}
		return hash, nil
	default:
		return "*", nil
	}
}

func (e *Engine) toRecord(row codec.GroupRow) (model.GroupRecord, error) {
	rec := model.GroupRecord{
		GID: row.GID,
		Groupname: row.Name,
		Members: row.Members,
	}
	if row.GID >= e.cfg.GID.System.Min && row.GID <= e.cfg.GID.System.Max {
		rec.Type = model.GroupTypeSystem
	} else {
		rec.Type = model.GroupTypeUser
	}
	if gshadowPresent(e.cfg.Files.GShadow) {
		if gsRow, err := e.currentGShadowRow(row.Name); err == nil {
			rec.Secret = model.ParseSecretState(gsRow.Secret)
			rec.Admins = gsRow.Admins
		}
	} else {
		rec.Secret = model.SecretState{Kind: model.SecretDisabled}
	}
	rec.Secret.Hash = "" // never surface the live hash to a client
	return rec, nil
}

func (e *Engine) currentGShadowRow(name string) (codec.GShadowRow, error) {
	f, err := os.Open(e.cfg.Files.GShadow)
	if err != nil {
		return codec.GShadowRow{}, err
	}
	defer f.Close()
	return lookupGShadowByName(f, name)
}

func removeString(list []string, s string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
