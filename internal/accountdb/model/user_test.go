package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUserType(t *testing.T) {
	cases := []struct {
		in   string
		want UserType
		ok   bool
	}{
		{"system", UserTypeSystem, true},
		{"admin", UserTypeAdmin, true},
		{"guest", UserTypeGuest, true},
		{"normal", UserTypeNormal, true},
		{"security", UserTypeSecurity, true},
		{"bogus", UserTypeNone, false},
		{"", UserTypeNone, false},
	}
	for _, c := range cases {
		got, ok := ParseUserType(c.in)
		assert.Equal(t, c.want, got)
		assert.Equal(t, c.ok, ok)
	}
}

func TestUserTypeStringRoundTrip(t *testing.T) {
	for _, ut := range []UserType{UserTypeSystem, UserTypeAdmin, UserTypeGuest, UserTypeNormal, UserTypeSecurity} {
		got, ok := ParseUserType(ut.String())
		assert.True(t, ok)
		assert.Equal(t, ut, got)
	}
}

func TestParseGroupType(t *testing.T) {
	cases := []struct {
		in   string
		want GroupType
		ok   bool
	}{
		{"system", GroupTypeSystem, true},
		{"user", GroupTypeUser, true},
		{"bogus", GroupTypeNone, false},
	}
	for _, c := range cases {
		got, ok := ParseGroupType(c.in)
		assert.Equal(t, c.want, got)
		assert.Equal(t, c.ok, ok)
	}
}

func TestGroupTypeStringRoundTrip(t *testing.T) {
	for _, gt := range []GroupType{GroupTypeSystem, GroupTypeUser} {
		got, ok := ParseGroupType(gt.String())
		assert.True(t, ok)
		assert.Equal(t, gt, got)
	}
}

func TestParseSecretState(t *testing.T) {
	assert.Equal(t, SecretState{Kind: SecretDisabled}, ParseSecretState("*"))
	assert.Equal(t, SecretState{Kind: SecretEmpty}, ParseSecretState(""))
	assert.Equal(t, SecretState{Kind: SecretLocked, Hash: "$6$abc$hash"}, ParseSecretState("!$6$abc$hash"))
	assert.Equal(t, SecretState{Kind: SecretHashed, Hash: "$6$abc$hash"}, ParseSecretState("$6$abc$hash"))
}

func TestSecretStatePlaceholder(t *testing.T) {
	assert.Equal(t, "*", SecretState{Kind: SecretDisabled}.Placeholder())
	assert.Equal(t, "", SecretState{Kind: SecretEmpty}.Placeholder())
	assert.Equal(t, "!hash", SecretState{Kind: SecretLocked, Hash: "hash"}.Placeholder())
	assert.Equal(t, "hash", SecretState{Kind: SecretHashed, Hash: "hash"}.Placeholder())
}

func TestSecretStateLockedAndUnlocked(t *testing.T) {
	hashed := SecretState{Kind: SecretHashed, Hash: "hash"}
	locked := hashed.Locked()
	assert.Equal(t, SecretState{Kind: SecretLocked, Hash: "hash"}, locked)
	assert.Equal(t, locked, locked.Locked(), "locking an already-locked state is a no-op")

	unlocked := locked.Unlocked()
	assert.Equal(t, hashed, unlocked)

	assert.Equal(t, hashed, hashed.Unlocked(), "unlocking a non-locked state is unchanged")
}
