// Package validate implements the syntactic checks required for names,
// GECOS sub-fields, secrets, and nickname-derived usernames.
package validate

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"

	"github.com/accountd/accountd/pkg/accounterr"
)

// UTNameSize is the maximum username/groupname length (UT_NAMESIZE).
const UTNameSize = 32

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*[A-Za-z0-9_.$-]?$`)

// Name checks length 1..UTNameSize and the username/groupname pattern.
func Name(s string) error {
	if len(s) < 1 || len(s) > UTNameSize {
		return accounterr.Newf(accounterr.InvalidStringLen, "name length must be 1..%d, got %d", UTNameSize, len(s))
	}
	if !namePattern.MatchString(s) {
		return accounterr.Newf(accounterr.InvalidName, "name %q does not match the required pattern", s)
	}
	return nil
}

// StringField rejects control characters, commas, and colons — the GECOS
// sub-field and group-row constraints.
func StringField(s string) error {
	for _, r := range s {
		if isControl(r) {
			return accounterr.Newf(accounterr.InvalidString, "field contains a control character")
		}
		if r == ',' || r == ':' {
			return accounterr.Newf(accounterr.InvalidString, "field must not contain ',' or ':'")
		}
	}
	return nil
}

// SecretField is like StringField but commas are allowed, since a crypt
// hash's "$id$salt$hash" form never contains a colon but the wider secret
// value (e.g. a DES-style hash) is otherwise unconstrained aside from
// control characters and colons.
func SecretField(s string) error {
	for _, r := range s {
		if isControl(r) {
			return accounterr.Newf(accounterr.InvalidSecret, "secret contains a control character")
		}
		if r == ':' {
			return accounterr.Newf(accounterr.InvalidSecret, "secret must not contain ':'")
		}
	}
	return nil
}

func isControl(r rune) bool {
	return (r >= 0x00 && r <= 0x1F) || r == 0x7F
}

// GenerateUsername synthesizes a username from a nickname: a hex digest of
// a cryptographic hash over the nickname bytes, with the first character
// forced to 'U' when it would not otherwise be an ASCII letter, then
// re-validated against Name.
func GenerateUsername(nickname string) (string, error) {
	sum := sha256.Sum256([]byte(nickname))
	digest := hex.EncodeToString(sum[:])
	// Truncate to leave room under UTNameSize while keeping entropy.
	if len(digest) > UTNameSize {
		digest = digest[:UTNameSize]
	}
	runes := []rune(digest)
	if len(runes) == 0 || !unicode.IsLetter(runes[0]) {
		runes[0] = 'U'
	}
	candidate := string(runes)
	if err := Name(candidate); err != nil {
		return "", accounterr.Newf(accounterr.InvalidName, "generated username %q is invalid: %v", candidate, err)
	}
	return candidate, nil
}

// IsPlaceholder reports whether s is one of the non-hash placeholder
// secret-column values.
func IsPlaceholder(s string) bool {
	return s == "*" || s == "" || s == "x" || strings.HasPrefix(s, "!")
}
