package logger

import (
	"log/slog"
)

// Standard field keys for structured logging across the engine, CLI, and
// daemon. Use these keys consistently so log lines stay greppable/
// aggregable across components.
const (
	KeyOperation = "operation"  // add/delete/update/get/list, etc.
	KeyUID       = "uid"        // user ID
	KeyGID       = "gid"        // group ID
	KeyUsername  = "username"
	KeyGroupname = "groupname"
	KeyUserType  = "usertype"
	KeyGroupType = "grouptype"
	KeyPath      = "path"       // account file or home directory path
	KeyHookPath  = "hook"       // hook script path
	KeyErrorCode = "error_code" // accounterr.Code
	KeyError     = "error"
	KeyDurationMs = "duration_ms"
	KeySysroot   = "sysroot"
)

// Operation returns a slog.Attr naming the engine operation in progress.
func Operation(op string) slog.Attr { return slog.String(KeyOperation, op) }

// UID returns a slog.Attr for a user ID.
func UID(uid uint32) slog.Attr { return slog.Any(KeyUID, uid) }

// GID returns a slog.Attr for a group ID.
func GID(gid uint32) slog.Attr { return slog.Any(KeyGID, gid) }

// Username returns a slog.Attr for a username.
func Username(name string) slog.Attr { return slog.String(KeyUsername, name) }

// Groupname returns a slog.Attr for a groupname.
func Groupname(name string) slog.Attr { return slog.String(KeyGroupname, name) }

// UserType returns a slog.Attr for a user type name.
func UserType(t string) slog.Attr { return slog.String(KeyUserType, t) }

// GroupType returns a slog.Attr for a group type name.
func GroupType(t string) slog.Attr { return slog.String(KeyGroupType, t) }

// Path returns a slog.Attr for an account file or home directory path.
func Path(p string) slog.Attr { return slog.String(KeyPath, p) }

// HookPath returns a slog.Attr for a hook script path.
func HookPath(p string) slog.Attr { return slog.String(KeyHookPath, p) }

// ErrorCode returns a slog.Attr for a numeric accounterr code.
func ErrorCode(code int) slog.Attr { return slog.Int(KeyErrorCode, code) }

// Err returns a slog.Attr for an error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// DurationMs returns a slog.Attr for an operation duration in milliseconds.
func DurationMs(ms float64) slog.Attr { return slog.Float64(KeyDurationMs, ms) }

// Sysroot returns a slog.Attr for the active --sysroot prefix.
func Sysroot(s string) slog.Attr { return slog.String(KeySysroot, s) }
