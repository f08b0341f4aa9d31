// Package model holds the logical record types the account engines read,
// mutate, and write back across the passwd/shadow/group/gshadow files.
package model

import "math"

// UserType classifies a user for id-range allocation, default shell, and
// whether a home directory is materialized. It is encoded as the fifth
// comma-separated field of the passwd gecos string.
type UserType int

const (
	UserTypeNone UserType = iota
	UserTypeSystem
	UserTypeAdmin
	UserTypeGuest
	UserTypeNormal
	UserTypeSecurity
)

// String renders the type the way it is stored in the gecos field.
func (t UserType) String() string {
	switch t {
	case UserTypeSystem:
		return "system"
	case UserTypeAdmin:
		return "admin"
	case UserTypeGuest:
		return "guest"
	case UserTypeNormal:
		return "normal"
	case UserTypeSecurity:
		return "security"
	default:
		return ""
	}
}

// ParseUserType recovers a UserType from its on-disk gecos representation.
// An unrecognized or empty string is not resolved here — callers fall back
// to uid-range inference per the UserType invariant in the data model.
func ParseUserType(s string) (UserType, bool) {
	switch s {
	case "system":
		return UserTypeSystem, true
	case "admin":
		return UserTypeAdmin, true
	case "guest":
		return UserTypeGuest, true
	case "normal":
		return UserTypeNormal, true
	case "security":
		return UserTypeSecurity, true
	default:
		return UserTypeNone, false
	}
}

// GroupType selects the gid allocation range only.
type GroupType int

const (
	GroupTypeNone GroupType = iota
	GroupTypeSystem
	GroupTypeUser
)

func (t GroupType) String() string {
	switch t {
	case GroupTypeSystem:
		return "system"
	case GroupTypeUser:
		return "user"
	default:
		return ""
	}
}

// ParseGroupType recovers a GroupType from its CLI/config string form.
func ParseGroupType(s string) (GroupType, bool) {
	switch s {
	case "system":
		return GroupTypeSystem, true
	case "user":
		return GroupTypeUser, true
	default:
		return GroupTypeNone, false
	}
}

// InvalidID is the sentinel uid/gid meaning "no id" / "invalid".
const InvalidID uint32 = math.MaxUint32

// SecretKind distinguishes the placeholder meaning of a stored secret from
// an actual hash, independent of which hash the placeholder hides.
type SecretKind int

const (
	SecretHashed SecretKind = iota
	SecretDisabled           // "*"
	SecretEmpty              // ""
	SecretLocked             // "!" or "!"+hash
)

// SecretState is the live secret column of a shadow/gshadow row. Hash is
// populated only for SecretHashed and SecretLocked (where it holds the
// hash beneath the "!" prefix); it is never copied into a client-visible
// UserRecord/GroupRecord returned from a read.
type SecretState struct {
	Kind SecretKind
	Hash string
}

// Placeholder renders the secret column exactly as it is written to the
// shadow/gshadow file.
func (s SecretState) Placeholder() string {
	switch s.Kind {
	case SecretDisabled:
		return "*"
	case SecretEmpty:
		return ""
	case SecretLocked:
		return "!" + s.Hash
	default:
		return s.Hash
	}
}

// ParseSecretState recovers a SecretState from a shadow/gshadow secret
// column value.
func ParseSecretState(field string) SecretState {
	switch {
	case field == "*":
		return SecretState{Kind: SecretDisabled}
	case field == "":
		return SecretState{Kind: SecretEmpty}
	case len(field) > 0 && field[0] == '!':
		return SecretState{Kind: SecretLocked, Hash: field[1:]}
	default:
		return SecretState{Kind: SecretHashed, Hash: field}
	}
}

// Locked returns a copy of the secret state with a "!" prepended, per the
// deletion-in-progress invariant. Locking an already-locked state is a
// no-op.
func (s SecretState) Locked() SecretState {
	if s.Kind == SecretLocked {
		return s
	}
	return SecretState{Kind: SecretLocked, Hash: s.Placeholder()}
}

// Unlocked strips a leading "!" best-effort, used to revert a failed
// deletion. Non-locked states are returned unchanged.
func (s SecretState) Unlocked() SecretState {
	if s.Kind != SecretLocked {
		return s
	}
	return ParseSecretState(s.Hash)
}

// ShadowMetadata carries the POSIX shadow aging fields.
type ShadowMetadata struct {
	LastChangeDay int64 // days since epoch, -1 if unset
	MinDays       int64
	MaxDays       int64
	WarnDays      int64
	InactiveDays  int64 // default -1
	ExpireDay     int64 // default -1
	Reserved      uint64 // default all-ones
}

// DefaultShadowMetadata returns the defaults spec'd for newly created users:
// inactive = expire = -1, reserved = all-ones.
func DefaultShadowMetadata(minDays, maxDays, warnDays int64) ShadowMetadata {
	return ShadowMetadata{
		MinDays:      minDays,
		MaxDays:      maxDays,
		WarnDays:     warnDays,
		InactiveDays: -1,
		ExpireDay:    -1,
		Reserved:     math.MaxUint64,
	}
}

// Description is the semantic sub-tuple joined by commas in the gecos
// field: realname,office,office_phone,home_phone,usertype.
type Description struct {
	RealName     string
	Office       string
	OfficePhone  string
	HomePhone    string
	UserTypeName string
}

// UserRecord is the logical union of one user's passwd+shadow+sidecar rows.
type UserRecord struct {
	UID         uint32
	PrimaryGID  uint32
	Username    string
	Nickname    string
	Type        UserType
	Description Description
	HomeDir     string
	Shell       string
	Secret      SecretState
	Shadow      ShadowMetadata
	Icon        string
}

// GroupRecord is the logical union of one group's group+gshadow rows.
type GroupRecord struct {
	GID       uint32
	Groupname string
	Type      GroupType
	Secret    SecretState
	Members   []string
	Admins    []string
}

// HasMember reports whether username is already a member.
func (g *GroupRecord) HasMember(username string) bool {
	for _, m := range g.Members {
		if m == username {
			return true
		}
	}
	return false
}

// HasAdmin reports whether username is already an admin.
func (g *GroupRecord) HasAdmin(username string) bool {
	for _, m := range g.Admins {
		if m == username {
			return true
		}
	}
	return false
}
