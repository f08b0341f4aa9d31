// Package codec streams the four POSIX account-file record formats —
// passwd, shadow, group, gshadow — line by line, without buffering whole
// files. It is grounded on the line-splitting approach used by POSIX
// account tooling elsewhere in the corpus (scan a line, split on the
// field separator, validate field count) but promoted to lazy iterators
// so a multi-thousand-line file is never held in memory twice during a
// rewrite.
package codec

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/accountd/accountd/pkg/accounterr"
)

// PasswdRow is one line of the passwd file.
type PasswdRow struct {
	Name   string
	Passwd string
	UID    uint32
	GID    uint32
	Gecos  string
	Dir    string
	Shell  string
}

// ShadowRow is one line of the shadow file. Unset integer fields are -1.
type ShadowRow struct {
	Name          string
	Secret        string
	LastChangeDay int64
	MinDays       int64
	MaxDays       int64
	WarnDays      int64
	InactiveDays  int64
	ExpireDay     int64
	Reserved      int64
}

// GroupRow is one line of the group file.
type GroupRow struct {
	Name    string
	Passwd  string
	GID     uint32
	Members []string
}

// GShadowRow is one line of the gshadow file.
type GShadowRow struct {
	Name    string
	Secret  string
	Admins  []string
	Members []string
}

func scanLines(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			if !yield(line, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield("", err)
		}
	}
}

func splitFields(line string, n int) ([]string, error) {
	fields := strings.Split(line, ":")
	if len(fields) != n {
		return nil, accounterr.Newf(accounterr.InvalidFileContent,
			"expected %d fields, got %d: %q", n, len(fields), line)
	}
	return fields, nil
}

func parseOptionalInt(s string) (int64, error) {
	if s == "" {
		return -1, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func formatOptionalInt(v int64) string {
	if v < 0 {
		return ""
	}
	return strconv.FormatInt(v, 10)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// IterPasswd streams passwd rows from reader.
func IterPasswd(r io.Reader) iter.Seq2[PasswdRow, error] {
	return func(yield func(PasswdRow, error) bool) {
		for line, err := range scanLines(r) {
			if err != nil {
				yield(PasswdRow{}, err)
				return
			}
			fields, ferr := splitFields(line, 7)
			if ferr != nil {
				if !yield(PasswdRow{}, ferr) {
					return
				}
				continue
			}
			uid, uerr := strconv.ParseUint(fields[2], 10, 32)
			if uerr != nil {
				if !yield(PasswdRow{}, accounterr.Wrap(accounterr.InvalidFileContent, uerr)) {
					return
				}
				continue
			}
			gid, gerr := strconv.ParseUint(fields[3], 10, 32)
			if gerr != nil {
				if !yield(PasswdRow{}, accounterr.Wrap(accounterr.InvalidFileContent, gerr)) {
					return
				}
				continue
			}
			row := PasswdRow{
				Name: fields[0], Passwd: fields[1], UID: uint32(uid), GID: uint32(gid),
				Gecos: fields[4], Dir: fields[5], Shell: fields[6],
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

// WritePasswd writes a single passwd row, newline-terminated.
func WritePasswd(w io.Writer, row PasswdRow) error {
	_, err := fmt.Fprintf(w, "%s:%s:%d:%d:%s:%s:%s\n",
		row.Name, row.Passwd, row.UID, row.GID, row.Gecos, row.Dir, row.Shell)
	return err
}

// IterShadow streams shadow rows from reader.
func IterShadow(r io.Reader) iter.Seq2[ShadowRow, error] {
	return func(yield func(ShadowRow, error) bool) {
		for line, err := range scanLines(r) {
			if err != nil {
				yield(ShadowRow{}, err)
				return
			}
			fields, ferr := splitFields(line, 9)
			if ferr != nil {
				if !yield(ShadowRow{}, ferr) {
					return
				}
				continue
			}
			row := ShadowRow{Name: fields[0], Secret: fields[1]}
			ints := [6]*int64{&row.LastChangeDay, &row.MinDays, &row.MaxDays, &row.WarnDays, &row.InactiveDays, &row.ExpireDay}
			bad := false
			for i, dst := range ints {
				v, perr := parseOptionalInt(fields[2+i])
				if perr != nil {
					if !yield(ShadowRow{}, accounterr.Wrap(accounterr.InvalidFileContent, perr)) {
						return
					}
					bad = true
					break
				}
				*dst = v
			}
			if bad {
				continue
			}
			reserved, rerr := parseOptionalInt(fields[8])
			if rerr != nil {
				if !yield(ShadowRow{}, accounterr.Wrap(accounterr.InvalidFileContent, rerr)) {
					return
				}
				continue
			}
			row.Reserved = reserved
			if !yield(row, nil) {
				return
			}
		}
	}
}

// WriteShadow writes a single shadow row, newline-terminated.
func WriteShadow(w io.Writer, row ShadowRow) error {
	_, err := fmt.Fprintf(w, "%s:%s:%s:%s:%s:%s:%s:%s:%s\n",
		row.Name, row.Secret,
		formatOptionalInt(row.LastChangeDay), formatOptionalInt(row.MinDays),
		formatOptionalInt(row.MaxDays), formatOptionalInt(row.WarnDays),
		formatOptionalInt(row.InactiveDays), formatOptionalInt(row.ExpireDay),
		formatOptionalInt(row.Reserved))
	return err
}

// IterGroup streams group rows from reader.
func IterGroup(r io.Reader) iter.Seq2[GroupRow, error] {
	return func(yield func(GroupRow, error) bool) {
		for line, err := range scanLines(r) {
			if err != nil {
				yield(GroupRow{}, err)
				return
			}
			fields, ferr := splitFields(line, 4)
			if ferr != nil {
				if !yield(GroupRow{}, ferr) {
					return
				}
				continue
			}
			gid, gerr := strconv.ParseUint(fields[2], 10, 32)
			if gerr != nil {
				if !yield(GroupRow{}, accounterr.Wrap(accounterr.InvalidFileContent, gerr)) {
					return
				}
				continue
			}
			row := GroupRow{Name: fields[0], Passwd: fields[1], GID: uint32(gid), Members: splitList(fields[3])}
			if !yield(row, nil) {
				return
			}
		}
	}
}

// WriteGroup writes a single group row, newline-terminated.
func WriteGroup(w io.Writer, row GroupRow) error {
	_, err := fmt.Fprintf(w, "%s:%s:%d:%s\n", row.Name, row.Passwd, row.GID, strings.Join(row.Members, ","))
	return err
}

// IterGShadow streams gshadow rows from reader.
func IterGShadow(r io.Reader) iter.Seq2[GShadowRow, error] {
	return func(yield func(GShadowRow, error) bool) {
		for line, err := range scanLines(r) {
			if err != nil {
				yield(GShadowRow{}, err)
				return
			}
			fields, ferr := splitFields(line, 4)
			if ferr != nil {
				if !yield(GShadowRow{}, ferr) {
					return
				}
				continue
			}
			row := GShadowRow{Name: fields[0], Secret: fields[1], Admins: splitList(fields[2]), Members: splitList(fields[3])}
			if !yield(row, nil) {
				return
			}
		}
	}
}

// WriteGShadow writes a single gshadow row, newline-terminated.
func WriteGShadow(w io.Writer, row GShadowRow) error {
	_, err := fmt.Fprintf(w, "%s:%s:%s:%s\n", row.Name, row.Secret, strings.Join(row.Admins, ","), strings.Join(row.Members, ","))
	return err
}

// LookupPasswdByName scans r once and returns the first matching row.
func LookupPasswdByName(r io.Reader, name string) (PasswdRow, error) {
	for row, err := range IterPasswd(r) {
		if err != nil {
			return PasswdRow{}, err
		}
		if row.Name == name {
			return row, nil
		}
	}
	return PasswdRow{}, accounterr.New(accounterr.UserNotFound, "no such user: "+name)
}

// LookupPasswdByUID scans r once and returns the first matching row.
func LookupPasswdByUID(r io.Reader, uid uint32) (PasswdRow, error) {
	for row, err := range IterPasswd(r) {
		if err != nil {
			return PasswdRow{}, err
		}
		if row.UID == uid {
			return row, nil
		}
	}
	return PasswdRow{}, accounterr.Newf(accounterr.UserNotFound, "no such uid: %d", uid)
}

// LookupGroupByName scans r once and returns the first matching row.
func LookupGroupByName(r io.Reader, name string) (GroupRow, error) {
	for row, err := range IterGroup(r) {
		if err != nil {
			return GroupRow{}, err
		}
		if row.Name == name {
			return row, nil
		}
	}
	return GroupRow{}, accounterr.New(accounterr.GroupNotFound, "no such group: "+name)
}

// LookupGroupByGID scans r once and returns the first matching row.
func LookupGroupByGID(r io.Reader, gid uint32) (GroupRow, error) {
	for row, err := range IterGroup(r) {
		if err != nil {
			return GroupRow{}, err
		}
		if row.GID == gid {
			return row, nil
		}
	}
	return GroupRow{}, accounterr.Newf(accounterr.GroupNotFound, "no such gid: %d", gid)
}

// FindUserByPrimaryGID scans passwd for the first row whose gid matches,
// used by GroupEngine's "group has user" check before deletion.
func FindUserByPrimaryGID(r io.Reader, gid uint32) (PasswdRow, bool, error) {
	for row, err := range IterPasswd(r) {
		if err != nil {
			return PasswdRow{}, false, err
		}
		if row.GID == gid {
			return row, true, nil
		}
	}
	return PasswdRow{}, false, nil
}
