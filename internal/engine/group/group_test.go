package group

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
	"github.com/accountd/accountd/pkg/accounterr"
)

// harness builds a GroupEngine over empty group/gshadow/passwd files under
// t.TempDir(). The gshadow file is created (empty) so gshadowPresent
// reports true and the admin/member-list paths run.
func harness(t *testing.T) (*Engine, *config.Config) {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{
		GID: config.GIDRanges{
			System: config.Range{Min: 1, Max: 999},
			User:   config.Range{Min: 1000, Max: 60000},
		},
		SecretScheme:     "sha512",
		SecretSaltLength: 16,
		Files: config.Files{
			Passwd:  filepath.Join(dir, "passwd"),
			Shadow:  filepath.Join(dir, "shadow"),
			Group:   filepath.Join(dir, "group"),
			GShadow: filepath.Join(dir, "gshadow"),
		},
		DBLockFile: filepath.Join(dir, "db.lock"),
	}

	for _, f := range []string{cfg.Files.Passwd, cfg.Files.Shadow, cfg.Files.Group, cfg.Files.GShadow} {
		require.NoError(t, os.WriteFile(f, nil, 0644))
	}

	db := lock.New(cfg.DBLockFile)
	hasher, err := secret.New(secret.SchemeSHA512, 16)
	require.NoError(t, err)

	return New(cfg, db, hasher), cfg
}

func addPasswdRow(t *testing.T, cfg *config.Config, row codec.PasswdRow) {
	t.Helper()
	f, err := os.OpenFile(cfg.Files.Passwd, os.O_RDWR|os.O_APPEND, 0644)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, codec.WritePasswd(f, row))
}

func userGroup(name string) model.GroupRecord {
	return model.GroupRecord{
		Groupname: name,
		Type:      model.GroupTypeUser,
		Secret:    model.SecretState{Kind: model.SecretDisabled},
	}
}

func TestAddGroup(t *testing.T) {
	groups, cfg := harness(t)
	ctx := context.Background()

	gid, err := groups.Add(ctx, userGroup("eng"), 0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, gid, cfg.GID.User.Min)

	rec, err := groups.ReadByName("eng")
	require.NoError(t, err)
	assert.Equal(t, gid, rec.GID)
}

// add-member-duplicate: adding the same member twice fails the second
// time with AlreadyMember and leaves the membership list unchanged.
func TestAddMemberDuplicate(t *testing.T) {
	groups, cfg := harness(t)
	ctx := context.Background()

	gid, err := groups.Add(ctx, userGroup("eng"), 0)
	require.NoError(t, err)

	addPasswdRow(t, cfg, codec.PasswdRow{Name: "alice", UID: 1000, GID: gid, Shell: "/bin/bash", Dir: "/home/alice"})

	require.NoError(t, groups.AddMember(ctx, gid, 1000, false))

	err = groups.AddMember(ctx, gid, 1000, false)
	assert.True(t, accounterr.Is(err, accounterr.AlreadyMember))

	rec, err := groups.Read(gid)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, rec.Members)
}

func TestDeleteMemberThenIsAdmin(t *testing.T) {
	groups, cfg := harness(t)
	ctx := context.Background()

	gid, err := groups.Add(ctx, userGroup("eng"), 0)
	require.NoError(t, err)
	addPasswdRow(t, cfg, codec.PasswdRow{Name: "alice", UID: 1000, GID: gid})

	require.NoError(t, groups.AddMember(ctx, gid, 1000, true))
	isAdmin, err := groups.IsAdmin(gid, "alice")
	require.NoError(t, err)
	assert.True(t, isAdmin)

	require.NoError(t, groups.DeleteMember(ctx, gid, 1000))
	rec, err := groups.Read(gid)
	require.NoError(t, err)
	assert.Empty(t, rec.Members)

	isAdmin, err = groups.IsAdmin(gid, "alice")
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

// delete-group-with-primary-user: a group that is some user's primary gid
// cannot be deleted until that user is gone.
func TestDeleteGroupWithPrimaryUserFails(t *testing.T) {
	groups, cfg := harness(t)
	ctx := context.Background()

	gid, err := groups.Add(ctx, userGroup("alice"), 0)
	require.NoError(t, err)
	addPasswdRow(t, cfg, codec.PasswdRow{Name: "alice", UID: 1000, GID: gid, Shell: "/bin/bash", Dir: "/home/alice"})

	err = groups.Delete(ctx, gid)
	assert.True(t, accounterr.Is(err, accounterr.GroupHasUser))

	// Remove the user, then the group deletes cleanly.
	passwdData, rerr := os.ReadFile(cfg.Files.Passwd)
	require.NoError(t, rerr)
	require.NotEmpty(t, passwdData)
	require.NoError(t, os.WriteFile(cfg.Files.Passwd, nil, 0644))

	require.NoError(t, groups.Delete(ctx, gid))
	_, err = groups.ReadByName("alice")
	assert.True(t, accounterr.Is(err, accounterr.GroupNotFound))
}

func TestUpdateGroupSecret(t *testing.T) {
	groups, _ := harness(t)
	ctx := context.Background()

	gid, err := groups.Add(ctx, userGroup("eng"), 0)
	require.NoError(t, err)

	// The group was created with a disabled secret ("*"); re-applying the
	// same disabled state hashes deterministically and is a no-op.
	err = groups.Update(ctx, model.GroupRecord{GID: gid, Secret: model.SecretState{Kind: model.SecretDisabled}})
	assert.True(t, accounterr.Is(err, accounterr.GroupNoChanges))

	// A hashed secret, whose salt is random per call, always registers as
	// a change relative to the previous ("*") value.
	err = groups.Update(ctx, model.GroupRecord{GID: gid, Secret: model.SecretState{Kind: model.SecretHashed, Hash: "s3cret"}})
	require.NoError(t, err)
}
