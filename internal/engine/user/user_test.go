package user

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accountd/accountd/internal/accountdb/codec"
	"github.com/accountd/accountd/internal/accountdb/lock"
	"github.com/accountd/accountd/internal/accountdb/model"
	"github.com/accountd/accountd/internal/accountdb/secret"
	"github.com/accountd/accountd/internal/config"
	"github.com/accountd/accountd/internal/engine/group"
	"github.com/accountd/accountd/pkg/accounterr"
	"github.com/accountd/accountd/pkg/session"
)

// harness builds a UserEngine and its backing GroupEngine over a set of
// empty passwd/shadow/group/gshadow files under t.TempDir(), matching the
// on-disk layout accountd operates against. The account files must exist
// before any scan (the engines open them read-only outside of a
// transaction), so they are touched here rather than left absent.
func harness(t *testing.T) (*Engine, *group.Engine, *config.Config) {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{
		UID: config.UIDRanges{
			System: config.Range{Min: 1, Max: 999},
			Normal: config.Range{Min: 1000, Max: 60000},
			Admin:  config.Range{Min: 1000, Max: 60000},
			Guest:  config.Range{Min: 61000, Max: 65000},
		},
		GID: config.GIDRanges{
			System: config.Range{Min: 1, Max: 999},
			User:   config.Range{Min: 1000, Max: 60000},
		},
		HomeDirPrefix: filepath.Join(dir, "home"),
		HomeDirSkel:   filepath.Join(dir, "skel"),
		Shell: config.ShellDefaults{
			System: "/usr/sbin/nologin",
			Admin:  "/bin/bash",
			Guest:  "/usr/sbin/nologin",
			Normal: "/bin/bash",
		},
		SecretScheme:     "sha512",
		SecretSaltLength: 16,
		Shadow: config.ShadowAging{
			MinDays:  0,
			MaxDays:  99999,
			WarnDays: 7,
		},
		Files: config.Files{
			Passwd:  filepath.Join(dir, "passwd"),
			Shadow:  filepath.Join(dir, "shadow"),
			Group:   filepath.Join(dir, "group"),
			GShadow: filepath.Join(dir, "gshadow"),
		},
		DBLockFile:   filepath.Join(dir, "db.lock"),
		ExtraInfoDir: filepath.Join(dir, "extra_info"),
	}

	for _, f := range []string{cfg.Files.Passwd, cfg.Files.Shadow, cfg.Files.Group, cfg.Files.GShadow} {
		require.NoError(t, os.WriteFile(f, nil, 0644))
	}

	db := lock.New(cfg.DBLockFile)
	hasher, err := secret.New(secret.SchemeSHA512, 16)
	require.NoError(t, err)

	groups := group.New(cfg, db, hasher)
	users := New(cfg, db, hasher, groups, session.NoOp{})
	return users, groups, cfg
}

func normalUser(name string) model.UserRecord {
	return model.UserRecord{
		Username: name,
		Type:     model.UserTypeNormal,
		Secret:   model.SecretState{Kind: model.SecretHashed, Hash: "hunter2"},
	}
}

// add-normal-user: a normal user is assigned a uid from the normal range,
// gets a freshly created same-named primary group, and can be read back.
func TestAddNormalUser(t *testing.T) {
	users, groups, cfg := harness(t)
	ctx := context.Background()

	uid, name, err := users.Add(ctx, normalUser("alice"))
	require.NoError(t, err)
	assert.Equal(t, "alice", name)
	assert.GreaterOrEqual(t, uid, cfg.UID.Normal.Min)
	assert.LessOrEqual(t, uid, cfg.UID.Normal.Max)

	rec, err := users.Read(uid)
	require.NoError(t, err)
	assert.Equal(t, "alice", rec.Username)
	assert.Equal(t, model.UserTypeNormal, rec.Type)
	assert.Equal(t, "/bin/bash", rec.Shell)
	assert.NotEmpty(t, rec.HomeDir)

	grp, err := groups.ReadByName("alice")
	require.NoError(t, err)
	assert.Equal(t, rec.PrimaryGID, grp.GID)
	assert.Empty(t, grp.Members)
}

// delete-locks-first: deleting a user locks its shadow secret (terminates
// sessions) before the passwd/shadow rows are actually removed. A
// Terminator that observes the shadow row mid-call sees it prefixed "!".
type observingTerminator struct {
	cfg      *config.Config
	username string
	sawLock  bool
}

func (o *observingTerminator) Terminate(ctx context.Context, uid uint32) error {
	f, err := os.Open(o.cfg.Files.Shadow)
	if err != nil {
		return err
	}
	defer f.Close()
	for row, err := range codec.IterShadow(f) {
		if err != nil {
			return err
		}
		if row.Name == o.username {
			o.sawLock = model.ParseSecretState(row.Secret).Kind == model.SecretLocked
			break
		}
	}
	return nil
}

func TestDeleteLocksShadowBeforeTerminatingSessions(t *testing.T) {
	users, _, cfg := harness(t)
	ctx := context.Background()

	uid, _, err := users.Add(ctx, normalUser("bob"))
	require.NoError(t, err)

	term := &observingTerminator{cfg: cfg, username: "bob"}
	users.sessions = term

	require.NoError(t, users.Delete(ctx, uid, false))
	assert.True(t, term.sawLock, "shadow secret should be locked before session termination runs")

	_, err = users.Read(uid)
	assert.True(t, accounterr.Is(err, accounterr.UserNotFound))
}

// update-no-changes: updating a user with a record identical to the
// stored one returns NoChanges and leaves the row untouched.
func TestUpdateNoChangesReturnsError(t *testing.T) {
	users, _, _ := harness(t)
	ctx := context.Background()

	uid, _, err := users.Add(ctx, normalUser("carol"))
	require.NoError(t, err)

	current, err := users.Read(uid)
	require.NoError(t, err)

	err = users.Update(ctx, model.UserRecord{
		UID:         uid,
		Description: current.Description,
		Shell:       current.Shell,
	})
	assert.True(t, accounterr.Is(err, accounterr.NoChanges))
}

// update-idempotence: applying the same Update twice succeeds once and
// then reports NoChanges, never re-writing an already-current row.
func TestUpdateIsIdempotent(t *testing.T) {
	users, _, _ := harness(t)
	ctx := context.Background()

	uid, _, err := users.Add(ctx, normalUser("erin"))
	require.NoError(t, err)

	update := model.UserRecord{UID: uid, Shell: "/bin/zsh"}
	require.NoError(t, users.Update(ctx, update))

	err = users.Update(ctx, update)
	assert.True(t, accounterr.Is(err, accounterr.NoChanges))

	rec, err := users.Read(uid)
	require.NoError(t, err)
	assert.Equal(t, "/bin/zsh", rec.Shell)
}

func TestUpdateChangesShell(t *testing.T) {
	users, _, _ := harness(t)
	ctx := context.Background()

	uid, _, err := users.Add(ctx, normalUser("dave"))
	require.NoError(t, err)

	require.NoError(t, users.Update(ctx, model.UserRecord{UID: uid, Shell: "/bin/zsh"}))

	rec, err := users.Read(uid)
	require.NoError(t, err)
	assert.Equal(t, "/bin/zsh", rec.Shell)
}

// id-exhaustion: once every uid in a range is taken, Add fails with
// IdExhausted (wrapped as UidNotAvailable by the engine).
func TestAddIDExhaustion(t *testing.T) {
	users, _, cfg := harness(t)
	ctx := context.Background()

	cfg.UID.Normal = config.Range{Min: 2000, Max: 2001}

	_, _, err := users.Add(ctx, normalUser("u1"))
	require.NoError(t, err)
	_, _, err = users.Add(ctx, normalUser("u2"))
	require.NoError(t, err)

	_, _, err = users.Add(ctx, normalUser("u3"))
	require.Error(t, err)
	assert.True(t, accounterr.Is(err, accounterr.UidNotAvailable))
}
