// Package user implements UserEngine: add/delete/update/
// read/list a user record across the passwd, shadow, and extra_info
// sidecar files, orchestrating the codec, txn, validate, secret,
// idalloc, homedir, and hooks components plus the GroupEngine and a
// SessionTerminator.
package user

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/accountd/accountd/internal/accountdb/codec"
	"github.com/accountd/accountd/internal/accountdb/homedir"
	"github.com/accountd/accountd/internal/accountdb/hooks"
	"github.com/accountd/accountd/internal/accountdb/idalloc"
	"github.com/accountd/accountd/internal/accountdb/lock"
	"github.com/accountd/accountd/internal/accountdb/model"
	"github.com/accountd/accountd/internal/accountdb/secret"
	"github.com/accountd/accountd/internal/accountdb/sidecar"
	"github.com/accountd/accountd/internal/accountdb/txn"
	"github.com/accountd/accountd/internal/accountdb/validate"
	"github.com/accountd/accountd/internal/config"
	"github.com/accountd/accountd/internal/engine/group"
	"github.com/accountd/accountd/internal/logger"
	"github.com/accountd/accountd/pkg/accounterr"
	"github.com/accountd/accountd/pkg/session"
)

// Engine orchestrates user lifecycle operations over the passwd, shadow,
// and extra_info sidecar files.
type Engine struct {
	cfg *config.Config
	db *lock.DB
	hasher *secret.Hasher
	groups *group.Engine
	sessions session.Terminator
	addHook *hooks.Runner
	delHook *hooks.Runner
	modHook *hooks.Runner
	log *slog.Logger
}

// New builds a UserEngine bound to cfg, the shared account-DB lock, a
// GroupEngine for primary-group creation and cascade, and a
// SessionTerminator for the delete path.
func New(cfg *config.Config, db *lock.DB, hasher *secret.Hasher, groups *group.Engine, sessions session.Terminator) *Engine {
	if sessions == nil {
		sessions = session.NoOp{}
	}
	return &Engine{
		cfg: cfg,
		db: db,
		hasher: hasher,
		groups: groups,
		sessions: sessions,
		addHook: hooks.New(cfg.Hooks.UserAdd, nil),
		delHook: hooks.New(cfg.Hooks.UserDelete, nil),
		modHook: hooks.New(cfg.Hooks.UserModify, nil),
		log: slog.Default().With("component", "user_engine"),
	}
}

func (e *Engine) uidRangeFor(t model.UserType) (idalloc.Range, error) {
	switch t {
	case model.UserTypeSystem:
		return idalloc.Range{Min: e.cfg.UID.System.Min, Max: e.cfg.UID.System.Max}, nil
	case model.UserTypeAdmin:
		return idalloc.Range{Min: e.cfg.UID.Admin.Min, Max: e.cfg.UID.Admin.Max}, nil
	case model.UserTypeGuest:
		return idalloc.Range{Min: e.cfg.UID.Guest.Min, Max: e.cfg.UID.Guest.Max}, nil
	case model.UserTypeNormal:
		return idalloc.Range{Min: e.cfg.UID.Normal.Min, Max: e.cfg.UID.Normal.Max}, nil
	case model.UserTypeSecurity:
		return idalloc.Range{Min: e.cfg.UID.Security.Min, Max: e.cfg.UID.Security.Max}, nil
	default:
		return idalloc.Range{}, accounterr.New(accounterr.InvalidUserType, "usertype must be set")
	}
}

func (e *Engine) defaultShell(t model.UserType) string {
	switch t {
	case model.UserTypeSystem:
		return e.cfg.Shell.System
	case model.UserTypeAdmin:
		return e.cfg.Shell.Admin
	case model.UserTypeGuest:
		return e.cfg.Shell.Guest
	case model.UserTypeSecurity:
		return e.cfg.Shell.Security
	default:
		return e.cfg.Shell.Normal
	}
}

func (e *Engine) defaultGroups(t model.UserType) []string {
	switch t {
	case model.UserTypeSystem:
		return e.cfg.DefaultGroups.System
	case model.UserTypeAdmin:
		return e.cfg.DefaultGroups.Admin
	case model.UserTypeGuest:
		return e.cfg.DefaultGroups.Guest
	case model.UserTypeSecurity:
		return e.cfg.DefaultGroups.Security
	default:
		return e.cfg.DefaultGroups.Normal
	}
}

// Add creates a new user and, when none is configured or found, its
// primary group. It returns the allocated uid and the username actually
// stored — which may differ from u.Username when only a nickname was
// supplied.
func (e *Engine) Add(ctx context.Context, u model.UserRecord) (uint32, string, error) {
	if u.Type == model.UserTypeNone {
		return 0, "", accounterr.New(accounterr.InvalidUserType, "usertype must be set")
	}

	username := u.Username
	if username == "" {
		if u.Nickname == "" {
			return 0, "", accounterr.New(accounterr.InvalidName, "username or nickname must be set")
		}
		generated, err := validate.GenerateUsername(u.Nickname)
		if err != nil {
			return 0, "", err
		}
		username = generated
	}
	if u.Type == model.UserTypeSystem && u.Username == "" {
		return 0, "", accounterr.New(accounterr.InvalidName, "system users require an explicit username")
	}
	if err := validate.Name(username); err != nil {
		return 0, "", err
	}

	shell := u.Shell
	if shell == "" {
		shell = e.defaultShell(u.Type)
	}

	r, err := e.uidRangeFor(u.Type)
	if err != nil {
		return 0, "", err
	}

	if err := e.db.Acquire(); err != nil {
		return 0, "", err
	}
	defer e.db.Release()

	inUse, existingNames, err := e.scanUserIDs()
	if err != nil {
		return 0, "", err
	}
	if existingNames[username] {
		return 0, "", accounterr.Newf(accounterr.UserAlreadyExists, "user %q already exists", username)
	}

	alloc := idalloc.New(r.Min, r.Max)
	uid, err := alloc.Next(inUse, 0)
	if err != nil {
		return 0, "", accounterr.Wrap(accounterr.UidNotAvailable, err)
	}

	homeDir := u.HomeDir
	if homeDir == "" && u.Type != model.UserTypeSystem {
		homeDir = e.cfg.HomeDirPrefix + "/" + username
	}

	gid, err := e.resolvePrimaryGroup(ctx, u.Type, username, uid)
	if err != nil {
		return 0, "", err
	}

	shadowRow, err := e.buildShadowRow(username, u.Type, u.Secret)
	if err != nil {
		return 0, "", accounterr.Wrap(accounterr.SecretEncryptFailure, err)
	}

	desc := u.Description
	desc.UserTypeName = u.Type.String()

	passwdTxn, err := txn.Open(e.db, e.cfg.Files.Passwd, e.log)
	if err != nil {
		return 0, "", err
	}
	if err := codec.InsertPasswd(passwdTxn.Reader(), passwdTxn.Writer(), codec.PasswdRow{
		Name: username, Passwd: "x", UID: uid, GID: gid,
		Gecos: joinGecos(desc), Dir: homeDir, Shell: shell,
	}); err != nil {
		passwdTxn.Abort()
		return 0, "", err
	}
	if err := passwdTxn.Commit(); err != nil {
		return 0, "", err
	}

	shadowTxn, err := txn.Open(e.db, e.cfg.Files.Shadow, e.log)
	if err != nil {
		txn.RestoreFromOld(e.cfg.Files.Passwd, e.log)
		return 0, "", accounterr.Wrap(accounterr.PartialCommit, err)
	}
	if err := codec.AppendShadow(shadowTxn.Reader(), shadowTxn.Writer(), shadowRow); err != nil {
		shadowTxn.Abort()
		txn.RestoreFromOld(e.cfg.Files.Passwd, e.log)
		return 0, "", accounterr.Wrap(accounterr.PartialCommit, err)
	}
	if err := shadowTxn.Commit(); err != nil {
		txn.RestoreFromOld(e.cfg.Files.Passwd, e.log)
		return 0, "", accounterr.Wrap(accounterr.PartialCommit, err)
	}

	if u.Icon != "" {
		if err := sidecar.Save(e.cfg.ExtraInfoDir, uid, map[string]string{"Icon": u.Icon}); err != nil {
			e.log.Warn("failed to write extra_info sidecar", logger.UID(uid), logger.Err(err))
		}
	}

	for _, groupName := range e.defaultGroups(u.Type) {
		if groupName == "" {
			continue
		}
		if rec, err := e.groups.ReadByName(groupName); err == nil {
			if err := e.groups.AddMember(ctx, rec.GID, uid, false); err != nil && !accounterr.Is(err, accounterr.AlreadyMember) {
				e.log.Warn("failed to enroll new user into default group", logger.Username(username), logger.Groupname(groupName), logger.Err(err))
			}
		}
	}

	if homeDir != "" && u.Type != model.UserTypeSystem {
		if err := homedir.Create(e.cfg.HomeDirSkel, homeDir, uid, gid); err != nil {
			e.log.Warn("failed to create home directory", logger.Username(username), logger.Path(homeDir), logger.Err(err))
		}
	}

	e.addHook.RunUserEvent(ctx, username, uid, gid, homeDir, u.Type.String())
	e.log.Info("user added", logger.Username(username), logger.UID(uid), logger.GID(gid))
	return uid, username, nil
}

// resolvePrimaryGroup picks the new user's primary group: the configured
// usr_primary_grpname group if it exists, otherwise a freshly created
// group named after the username with preferred gid = uid.
func (e *Engine) resolvePrimaryGroup(ctx context.Context, t model.UserType, username string, uid uint32) (uint32, error) {
	if e.cfg.PrimaryGroupName != "" {
		if rec, err := e.groups.ReadByName(e.cfg.PrimaryGroupName); err == nil {
			return rec.GID, nil
		}
	}

	groupType := model.GroupTypeUser
	if t == model.UserTypeSystem {
		groupType = model.GroupTypeSystem
	}
	groupName := e.cfg.PrimaryGroupName
	if groupName == "" {
		groupName = username
	}
	gid, err := e.groups.Add(ctx, model.GroupRecord{
		Groupname: groupName,
		Type: groupType,
		Secret: model.SecretState{Kind: model.SecretDisabled},
	}, uid)
	if err != nil {
		return 0, accounterr.Wrap(accounterr.GroupAddFailure, err)
	}
	return gid, nil
}

// buildShadowRow constructs the shadow row written for a newly added user.
func (e *Engine) buildShadowRow(username string, t model.UserType, secretState model.SecretState) (codec.ShadowRow, error) {
	placeholder, err := e.secretPlaceholder(t, secretState)
	if err != nil {
		return codec.ShadowRow{}, err
	}
	meta := model.DefaultShadowMetadata(e.cfg.Shadow.MinDays, e.cfg.Shadow.MaxDays, e.cfg.Shadow.WarnDays)
	meta.LastChangeDay = time.Now().Unix() / 86400
	return codec.ShadowRow{
		Name: username, Secret: placeholder,
		LastChangeDay: meta.LastChangeDay, MinDays: meta.MinDays, MaxDays: meta.MaxDays,
		WarnDays: meta.WarnDays, InactiveDays: meta.InactiveDays, ExpireDay: meta.ExpireDay,
		Reserved: -1,
	}, nil
}

// secretPlaceholder resolves the per-type secret column policy:
// System -> "*", Guest -> "", others -> "!" for no secret, or the hash
// otherwise.
func (e *Engine) secretPlaceholder(t model.UserType, s model.SecretState) (string, error) {
	switch s.Kind {
	case model.SecretDisabled:
		return "*", nil
	case model.SecretLocked:
		return "!" + s.Hash, nil
	case model.SecretEmpty:
		return "", nil
	case model.SecretHashed:
		if s.Hash == "" {
			switch t {
			case model.UserTypeSystem:
				return "*", nil
			case model.UserTypeGuest:
				return "", nil
			default:
				return "!", nil
			}
		}
		return e.hasher.Hash(s.Hash)
	default:
		switch t {
		case model.UserTypeSystem:
			return "*", nil
		case model.UserTypeGuest:
			return "", nil
		default:
			return "!", nil
		}
	}
}

// Delete removes a user's passwd/shadow rows, cascades group membership
// and primary-group cleanup, and optionally removes the home directory.
func (e *Engine) Delete(ctx context.Context, uid uint32, removeHome bool) error {
	if uint32(os.Geteuid()) == uid {
		return accounterr.Newf(accounterr.SelfDestruction, "cannot delete the caller's own uid %d", uid)
	}

	if err := e.db.Acquire(); err != nil {
		return err
	}
	defer e.db.Release()

	passwdRow, err := e.lookupPasswdByUID(uid)
	if err != nil {
		return err
	}

	if err := e.lockShadowSecret(passwdRow.Name); err != nil {
		return err
	}

	if err := e.sessions.Terminate(ctx, uid); err != nil {
		e.unlockShadowSecret(passwdRow.Name)
		return accounterr.Wrap(accounterr.SessionTerminate, err)
	}

	e.delHook.RunUserEvent(ctx, passwdRow.Name, uid, passwdRow.GID, passwdRow.Dir, e.effectiveType(passwdRow))

	if err := sidecar.Delete(e.cfg.ExtraInfoDir, uid); err != nil {
		e.log.Warn("failed to delete extra_info sidecar", logger.UID(uid), logger.Err(err))
	}

	passwdTxn, err := txn.Open(e.db, e.cfg.Files.Passwd, e.log)
	if err != nil {
		e.unlockShadowSecret(passwdRow.Name)
		return err
	}
	found, err := codec.DeletePasswdByName(passwdTxn.Reader(), passwdTxn.Writer(), passwdRow.Name)
	if err != nil {
		passwdTxn.Abort()
		e.unlockShadowSecret(passwdRow.Name)
		return err
	}
	if !found {
		passwdTxn.Abort()
		e.unlockShadowSecret(passwdRow.Name)
		return accounterr.Newf(accounterr.UserNotFound, "user %q disappeared before delete", passwdRow.Name)
	}
	if err := passwdTxn.Commit(); err != nil {
		e.unlockShadowSecret(passwdRow.Name)
		return err
	}

	shadowTxn, err := txn.Open(e.db, e.cfg.Files.Shadow, e.log)
	if err != nil {
		return accounterr.Wrap(accounterr.PartialCommit, err)
	}
	if _, err := codec.DeleteShadowByName(shadowTxn.Reader(), shadowTxn.Writer(), passwdRow.Name); err != nil {
		shadowTxn.Abort()
		txn.RestoreFromOld(e.cfg.Files.Passwd, e.log)
		return accounterr.Wrap(accounterr.PartialCommit, err)
	}
	if err := shadowTxn.Commit(); err != nil {
		txn.RestoreFromOld(e.cfg.Files.Passwd, e.log)
		return accounterr.Wrap(accounterr.PartialCommit, err)
	}

	if rec, err := e.groups.ReadByName(passwdRow.Name); err == nil && rec.GID == passwdRow.GID && len(rec.Members) == 0 {
		if err := e.groups.Delete(ctx, rec.GID); err != nil {
			e.log.Warn("failed to delete primary group on user delete", logger.Username(passwdRow.Name), logger.GID(rec.GID), logger.Err(err))
		}
	}

	if err := e.groups.DeleteUserMembership(ctx, passwdRow.Name); err != nil {
		e.log.Warn("failed to cascade user removal from group membership", logger.Username(passwdRow.Name), logger.Err(err))
	}

	if removeHome && passwdRow.Dir != "" {
		if err := homedir.Delete(passwdRow.Dir); err != nil {
			e.log.Warn("failed to remove home directory", logger.Username(passwdRow.Name), logger.Path(passwdRow.Dir), logger.Err(err))
		}
	}

	e.log.Info("user deleted", logger.Username(passwdRow.Name), logger.UID(uid))
	return nil
}

func (e *Engine) lockShadowSecret(name string) error {
	shadowTxn, err := txn.Open(e.db, e.cfg.Files.Shadow, e.log)
	if err != nil {
		return err
	}
	found, err := codec.ModifyShadowByName(shadowTxn.Reader(), shadowTxn.Writer(), name, func(row *codec.ShadowRow) {
		row.Secret = model.ParseSecretState(row.Secret).Locked().Placeholder()
	})
	if err != nil {
		shadowTxn.Abort()
		return err
	}
	if !found {
		shadowTxn.Abort()
		return accounterr.Newf(accounterr.UserNotFound, "no such user in shadow: %s", name)
	}
	return shadowTxn.Commit()
}

// unlockShadowSecret is the best-effort revert of the shadow lock applied
// when a deletion fails after the lock step.
func (e *Engine) unlockShadowSecret(name string) {
	shadowTxn, err := txn.Open(e.db, e.cfg.Files.Shadow, e.log)
	if err != nil {
		e.log.Warn("failed to reopen shadow for delete revert", logger.Username(name), logger.Err(err))
		return
	}
	_, err = codec.ModifyShadowByName(shadowTxn.Reader(), shadowTxn.Writer(), name, func(row *codec.ShadowRow) {
		row.Secret = model.ParseSecretState(row.Secret).Unlocked().Placeholder()
	})
	if err != nil {
		shadowTxn.Abort()
		e.log.Warn("failed to revert shadow lock after aborted delete", logger.Username(name), logger.Err(err))
		return
	}
	if err := shadowTxn.Commit(); err != nil {
		e.log.Warn("failed to commit shadow lock revert", logger.Username(name), logger.Err(err))
	}
}

// Update changes a user's secret, description sub-fields, shell, or
// icon. usertype is immutable.
func (e *Engine) Update(ctx context.Context, u model.UserRecord) error {
	if err := e.db.Acquire(); err != nil {
		return err
	}
	defer e.db.Release()

	current, err := e.lookupPasswdByUID(u.UID)
	if err != nil {
		return err
	}
	currentTypeEnum := e.effectiveTypeRow(current)
	currentType := currentTypeEnum.String()
	if u.Type != model.UserTypeNone && u.Type.String() != currentType {
		return accounterr.New(accounterr.InvalidUserType, "usertype cannot be changed")
	}

	desc := parseGecos(current.Gecos)
	newDesc := u.Description
	newDesc.UserTypeName = desc.UserTypeName
	if newDesc == (model.Description{UserTypeName: desc.UserTypeName}) {
		newDesc = desc
	}

	newShell := u.Shell
	if newShell == "" {
		newShell = current.Shell
	}

	changed := newDesc != desc || newShell != current.Shell

	var newSecretPlaceholder string
	secretChanged := false
	secretRequested := u.Secret.Kind != model.SecretHashed || u.Secret.Hash != ""
	if secretRequested {
		placeholder, err := e.secretPlaceholder(currentTypeEnum, u.Secret)
		if err == nil {
			newSecretPlaceholder = placeholder
			currentShadow, serr := e.lookupShadowByName(current.Name)
			if serr == nil && currentShadow.Secret != newSecretPlaceholder {
				secretChanged = true
			}
		}
	}

	iconChanged := false
	existingExtra, _ := sidecar.Load(e.cfg.ExtraInfoDir, u.UID)
	if u.Icon != "" && existingExtra["Icon"] != u.Icon {
		iconChanged = true
	}

	if !changed && !secretChanged && !iconChanged {
		return accounterr.New(accounterr.NoChanges, "no fields differ from the stored record")
	}

	if changed {
		gecos := joinGecos(newDesc)
		passwdTxn, err := txn.Open(e.db, e.cfg.Files.Passwd, e.log)
		if err != nil {
			return err
		}
		found, err := codec.ModifyPasswdByName(passwdTxn.Reader(), passwdTxn.Writer(), current.Name, func(row *codec.PasswdRow) {
			row.Gecos = gecos
			row.Shell = newShell
		})
		if err != nil {
			passwdTxn.Abort()
			return err
		}
		if !found {
			passwdTxn.Abort()
			return accounterr.Newf(accounterr.UserNotFound, "user %q disappeared before update", current.Name)
		}
		if err := passwdTxn.Commit(); err != nil {
			return err
		}
	}

	if secretChanged {
		shadowTxn, err := txn.Open(e.db, e.cfg.Files.Shadow, e.log)
		if err != nil {
			return accounterr.Wrap(accounterr.PartialCommit, err)
		}
		if _, err := codec.ModifyShadowByName(shadowTxn.Reader(), shadowTxn.Writer(), current.Name, func(row *codec.ShadowRow) {
			row.Secret = newSecretPlaceholder
			row.LastChangeDay = time.Now().Unix() / 86400
		}); err != nil {
			shadowTxn.Abort()
			return accounterr.Wrap(accounterr.PartialCommit, err)
		}
		if err := shadowTxn.Commit(); err != nil {
			return accounterr.Wrap(accounterr.PartialCommit, err)
		}
	}

	if iconChanged {
		merged := map[string]string{}
		for k, v := range existingExtra {
			merged[k] = v
		}
		merged["Icon"] = u.Icon
		if err := sidecar.Save(e.cfg.ExtraInfoDir, u.UID, merged); err != nil {
			e.log.Warn("failed to write extra_info sidecar on update", logger.UID(u.UID), logger.Err(err))
		}
	}

	e.modHook.RunUserEvent(ctx, current.Name, u.UID, current.GID, current.Dir, currentType)
	e.log.Info("user updated", logger.Username(current.Name), logger.UID(u.UID))
	return nil
}

// Read returns the current UserRecord for uid. The shadow secret is
// never copied into the result (invariant 6): Secret is reported as
// SecretHashed with an empty Hash, not as the placeholder "x".
func (e *Engine) Read(uid uint32) (model.UserRecord, error) {
	row, err := e.lookupPasswdByUID(uid)
	if err != nil {
		return model.UserRecord{}, err
	}
	return e.toRecord(row)
}

// ReadByName returns the current UserRecord for name.
func (e *Engine) ReadByName(name string) (model.UserRecord, error) {
	f, err := os.Open(e.cfg.Files.Passwd)
	if err != nil {
		return model.UserRecord{}, accounterr.Wrap(accounterr.FileOpen, err)
	}
	defer f.Close()
	row, err := codec.LookupPasswdByName(f, name)
	if err != nil {
		return model.UserRecord{}, err
	}
	return e.toRecord(row)
}

// List returns every uid whose effective type intersects typeMask (a
// bitmask of 1<<UserType).
func (e *Engine) List(typeMask uint32) ([]uint32, error) {
	f, err := os.Open(e.cfg.Files.Passwd)
	if err != nil {
		return nil, accounterr.Wrap(accounterr.FileOpen, err)
	}
	defer f.Close()

	var out []uint32
	for row, err := range codec.IterPasswd(f) {
		if err != nil {
			return nil, err
		}
		t := e.effectiveTypeRow(row)
		if typeMask&(1<<uint(t)) != 0 {
			out = append(out, row.UID)
		}
	}
	return out, nil
}

func (e *Engine) toRecord(row codec.PasswdRow) (model.UserRecord, error) {
	desc := parseGecos(row.Gecos)
	t := e.effectiveTypeRow(row)
	extra, _ := sidecar.Load(e.cfg.ExtraInfoDir, row.UID)
	return model.UserRecord{
		UID: row.UID, PrimaryGID: row.GID, Username: row.Name,
		Type: t, Description: desc, HomeDir: row.Dir, Shell: row.Shell,
		Secret: model.SecretState{Kind: model.SecretHashed, Hash: ""},
		Icon: extra["Icon"],
	}, nil
}

func (e *Engine) effectiveType(row codec.PasswdRow) string {
	return e.effectiveTypeRow(row).String()
}

func (e *Engine) effectiveTypeRow(row codec.PasswdRow) model.UserType {
	desc := parseGecos(row.Gecos)
	if t, ok := model.ParseUserType(desc.UserTypeName); ok {
		return t
	}
	if row.UID >= e.cfg.UID.System.Min && row.UID <= e.cfg.UID.System.Max {
		return model.UserTypeSystem
	}
	return model.UserTypeNormal
}

func (e *Engine) scanUserIDs() (map[uint32]bool, map[string]bool, error) {
	f, err := os.Open(e.cfg.Files.Passwd)
	if err != nil {
		return nil, nil, accounterr.Wrap(accounterr.FileOpen, err)
	}
	defer f.Close()

	inUse := map[uint32]bool{}
	names := map[string]bool{}
	for row, err := range codec.IterPasswd(f) {
		if err != nil {
			return nil, nil, err
		}
		inUse[row.UID] = true
		names[row.Name] = true
	}
	return inUse, names, nil
}

func (e *Engine) lookupPasswdByUID(uid uint32) (codec.PasswdRow, error) {
	f, err := os.Open(e.cfg.Files.Passwd)
	if err != nil {
		return codec.PasswdRow{}, accounterr.Wrap(accounterr.FileOpen, err)
	}
	defer f.Close()
	return codec.LookupPasswdByUID(f, uid)
}

func (e *Engine) lookupShadowByName(name string) (codec.ShadowRow, error) {
	f, err := os.Open(e.cfg.Files.Shadow)
	if err != nil {
		return codec.ShadowRow{}, accounterr.Wrap(accounterr.FileOpen, err)
	}
	defer f.Close()
	for row, err := range codec.IterShadow(f) {
		if err != nil {
			return codec.ShadowRow{}, err
		}
		if row.Name == name {
			return row, nil
		}
	}
	return codec.ShadowRow{}, accounterr.Newf(accounterr.UserNotFound, "no such user in shadow: %s", name)
}

// joinGecos renders the five-field GECOS sub-tuple; writes always emit
// all five fields even when some are empty.
func joinGecos(d model.Description) string {
	return strings.Join([]string{d.RealName, d.Office, d.OfficePhone, d.HomePhone, d.UserTypeName}, ",")
}

// parseGecos recovers a Description, treating a row with fewer than five
// comma fields as having empty trailing fields.
func parseGecos(s string) model.Description {
	fields := strings.Split(s, ",")
	get := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}
	return model.Description{
		RealName: get(0), Office: get(1), OfficePhone: get(2),
		HomePhone: get(3), UserTypeName: get(4),
	}
}
