// Package accounterr defines the wire-stable error taxonomy returned by
// every account engine operation. A transport serializes Code plus Message;
// nothing else in this package is transport-specific.
package accounterr

import "fmt"

// Code identifies the kind of failure that occurred. Values are wire-stable:
// once assigned, a Code's meaning never changes across releases.
type Code int

const (
	// Generic
	Unknown Code = iota + 1
	InternalServer
	InternalCommunication
	PermissionDenied
	InvalidInput

	// User
	UserAlreadyExists
	GroupAddFailure
	UidNotAvailable
	InvalidUserType
	SecretEncryptFailure
	UserNotFound
	UserInvalidData
	GroupDeleteFailure
	SelfDestruction
	SessionTerminate
	NoChanges
	LockFailure

	// Group
	GroupAlreadyExists
	GidNotAvailable
	InvalidGroupType
	GroupSecretEncryptFailure
	GroupNotFound
	AlreadyMember
	GroupInvalidData
	GroupSelfDestruction
	GroupHasUser
	GroupNoChanges

	// Filesystem
	DbAlreadyLocked
	FileOpen
	FileAttribute
	FileMove
	FileWrite
	InvalidFileContent
	HomeDirCreate
	HomeDirDelete
	HomeDirCopy

	// Validation
	InvalidName
	InvalidNickname
	InvalidSecret
	InvalidString
	InvalidStringLen

	// Id allocation
	IdExhausted

	// Multi-file commit
	PartialCommit
)

var codeNames = map[Code]string{
	Unknown:                   "Unknown",
	InternalServer:            "InternalServer",
	InternalCommunication:     "InternalCommunication",
	PermissionDenied:          "PermissionDenied",
	InvalidInput:              "InvalidInput",
	UserAlreadyExists:         "UserAlreadyExists",
	GroupAddFailure:           "GroupAddFailure",
	UidNotAvailable:           "UidNotAvailable",
	InvalidUserType:           "InvalidUserType",
	SecretEncryptFailure:      "SecretEncryptFailure",
	UserNotFound:              "UserNotFound",
	UserInvalidData:           "UserInvalidData",
	GroupDeleteFailure:        "GroupDeleteFailure",
	SelfDestruction:           "SelfDestruction",
	SessionTerminate:          "SessionTerminate",
	NoChanges:                 "NoChanges",
	LockFailure:               "LockFailure",
	GroupAlreadyExists:        "GroupAlreadyExists",
	GidNotAvailable:           "GidNotAvailable",
	InvalidGroupType:          "InvalidGroupType",
	GroupSecretEncryptFailure: "GroupSecretEncryptFailure",
	GroupNotFound:             "GroupNotFound",
	AlreadyMember:             "AlreadyMember",
	GroupInvalidData:          "GroupInvalidData",
	GroupSelfDestruction:      "GroupSelfDestruction",
	GroupHasUser:              "GroupHasUser",
	GroupNoChanges:            "GroupNoChanges",
	DbAlreadyLocked:           "DbAlreadyLocked",
	FileOpen:                  "FileOpen",
	FileAttribute:             "FileAttribute",
	FileMove:                  "FileMove",
	FileWrite:                 "FileWrite",
	InvalidFileContent:        "InvalidFileContent",
	HomeDirCreate:             "HomeDirCreate",
	HomeDirDelete:             "HomeDirDelete",
	HomeDirCopy:               "HomeDirCopy",
	InvalidName:               "InvalidName",
	InvalidNickname:           "InvalidNickname",
	InvalidSecret:             "InvalidSecret",
	InvalidString:             "InvalidString",
	InvalidStringLen:          "InvalidStringLen",
	IdExhausted:               "IdExhausted",
	PartialCommit:             "PartialCommit",
}

// String returns a human-readable name for the code.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int(c))
}

// Error is the concrete error type returned by every account engine
// operation. Field, when set, names the record field a validation error
// applies to.
type Error struct {
	Code    Code
	Message string
	Field   string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap allows errors.Is/errors.As to see through to the wrapped cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error with the given code that wraps an underlying cause.
func Wrap(code Code, cause error) *Error {
	if cause == nil {
		return &Error{Code: code, Message: code.String()}
	}
	return &Error{Code: code, Message: cause.Error(), cause: cause}
}

// WithField annotates the error with the record field it applies to.
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// Is reports whether err is an *Error with the given code.
func Is(err error, code Code) bool {
	var ae *Error
	if e, ok := err.(*Error); ok {
		ae = e
	} else if !asError(err, &ae) {
		return false
	}
	return ae.Code == code
}

func asError(err error, target **Error) bool {
	type unwrapper interface{ Unwrap() error }
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(unwrapper)
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
