package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accountd/accountd/pkg/accounterr"
)

func TestName(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple lowercase", "alice", false},
		{"leading underscore", "_daemon", false},
		{"digits and dash", "user-1.local", false},
		{"trailing dollar", "samba$", false},
		{"empty", "", true},
		{"leading digit", "1alice", true},
		{"too long", strings.Repeat("a", UTNameSize+1), true},
		{"contains space", "al ice", true},
		{"contains colon", "al:ice", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := Name(c.input)
			if c.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestStringField(t *testing.T) {
	assert.NoError(t, StringField("Some Office 3"))
	assert.Error(t, StringField("bad,field"))
	assert.Error(t, StringField("bad:field"))
	assert.Error(t, StringField("bad\x01field"))
}

func TestSecretField(t *testing.T) {
	assert.NoError(t, SecretField("$6$salt$hash,withcomma"))
	assert.Error(t, SecretField("bad:field"))
	assert.Error(t, SecretField("bad\x7ffield"))
}

func TestGenerateUsername(t *testing.T) {
	name, err := GenerateUsername("Jane Doe")
	require.NoError(t, err)
	require.NoError(t, Name(name))
	assert.LessOrEqual(t, len(name), UTNameSize)

	again, err := GenerateUsername("Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, name, again, "generation must be deterministic for the same nickname")

	other, err := GenerateUsername("John Doe")
	require.NoError(t, err)
	assert.NotEqual(t, name, other)
}

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, IsPlaceholder("*"))
	assert.True(t, IsPlaceholder(""))
	assert.True(t, IsPlaceholder("x"))
	assert.True(t, IsPlaceholder("!locked-hash"))
	assert.False(t, IsPlaceholder("$6$salt$hash"))
}

func TestNameErrorCode(t *testing.T) {
	err := Name("")
	assert.True(t, accounterr.Is(err, accounterr.InvalidStringLen))

	err = Name("1bad")
	assert.True(t, accounterr.Is(err, accounterr.InvalidName))
}
