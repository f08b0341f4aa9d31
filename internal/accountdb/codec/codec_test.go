package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// round-trip property: writing a row and parsing it back yields the same
// row, for every one of the four record formats.
func TestPasswdRoundTrip(t *testing.T) {
	row := PasswdRow{Name: "alice", Passwd: "x", UID: 1000, GID: 1000, Gecos: "Alice A,,,,normal", Dir: "/home/alice", Shell: "/bin/bash"}
	var buf strings.Builder
	require.NoError(t, WritePasswd(&buf, row))

	var got PasswdRow
	for r, err := range IterPasswd(strings.NewReader(buf.String())) {
		require.NoError(t, err)
		got = r
	}
	assert.Equal(t, row, got)
}

func TestShadowRoundTrip(t *testing.T) {
	row := ShadowRow{Name: "alice", Secret: "$6$abc$def", LastChangeDay: 19723, MinDays: 0, MaxDays: 99999, WarnDays: 7, InactiveDays: -1, ExpireDay: -1, Reserved: -1}
	var buf strings.Builder
	require.NoError(t, WriteShadow(&buf, row))

	var got ShadowRow
	for r, err := range IterShadow(strings.NewReader(buf.String())) {
		require.NoError(t, err)
		got = r
	}
	assert.Equal(t, row, got)
}

func TestGroupRoundTrip(t *testing.T) {
	row := GroupRow{Name: "eng", Passwd: "x", GID: 1000, Members: []string{"alice", "bob"}}
	var buf strings.Builder
	require.NoError(t, WriteGroup(&buf, row))

	var got GroupRow
	for r, err := range IterGroup(strings.NewReader(buf.String())) {
		require.NoError(t, err)
		got = r
	}
	assert.Equal(t, row, got)
}

func TestGroupRoundTripNoMembers(t *testing.T) {
	row := GroupRow{Name: "eng", Passwd: "x", GID: 1000}
	var buf strings.Builder
	require.NoError(t, WriteGroup(&buf, row))

	var got GroupRow
	for r, err := range IterGroup(strings.NewReader(buf.String())) {
		require.NoError(t, err)
		got = r
	}
	assert.Equal(t, row, got)
}

func TestGShadowRoundTrip(t *testing.T) {
	row := GShadowRow{Name: "eng", Secret: "!", Admins: []string{"alice"}, Members: []string{"alice", "bob"}}
	var buf strings.Builder
	require.NoError(t, WriteGShadow(&buf, row))

	var got GShadowRow
	for r, err := range IterGShadow(strings.NewReader(buf.String())) {
		require.NoError(t, err)
		got = r
	}
	assert.Equal(t, row, got)
}

func TestInsertPasswdKeepsUIDOrder(t *testing.T) {
	existing := "alice:x:1000:1000::/home/alice:/bin/bash\ncarol:x:1002:1002::/home/carol:/bin/bash\n"
	var out strings.Builder
	require.NoError(t, InsertPasswd(strings.NewReader(existing), &out, PasswdRow{
		Name: "bob", Passwd: "x", UID: 1001, GID: 1001, Dir: "/home/bob", Shell: "/bin/bash",
	}))

	var names []string
	for row, err := range IterPasswd(strings.NewReader(out.String())) {
		require.NoError(t, err)
		names = append(names, row.Name)
	}
	assert.Equal(t, []string{"alice", "bob", "carol"}, names)
}

func TestDeletePasswdByName(t *testing.T) {
	existing := "alice:x:1000:1000::/home/alice:/bin/bash\nbob:x:1001:1001::/home/bob:/bin/bash\n"
	var out strings.Builder
	found, err := DeletePasswdByName(strings.NewReader(existing), &out, "alice")
	require.NoError(t, err)
	assert.True(t, found)

	var names []string
	for row, err := range IterPasswd(strings.NewReader(out.String())) {
		require.NoError(t, err)
		names = append(names, row.Name)
	}
	assert.Equal(t, []string{"bob"}, names)
}

func TestIterPasswdRejectsMalformedLine(t *testing.T) {
	for _, err := range IterPasswd(strings.NewReader("not:enough:fields\n")) {
		assert.Error(t, err)
	}
}

func TestFindUserByPrimaryGID(t *testing.T) {
	existing := "alice:x:1000:2000::/home/alice:/bin/bash\n"
	row, found, err := FindUserByPrimaryGID(strings.NewReader(existing), 2000)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "alice", row.Name)

	_, found, err = FindUserByPrimaryGID(strings.NewReader(existing), 9999)
	require.NoError(t, err)
	assert.False(t, found)
}
