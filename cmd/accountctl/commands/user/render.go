package user

import (
	"fmt"

	"github.com/accountd/accountd/internal/accountdb/model"
	"github.com/accountd/accountd/internal/cli/timeutil"
)

// parseUsertype maps spec.md's CLI --usertype integers onto model.UserType.
func parseUsertype(n int) (model.UserType, error) {
	switch n {
	case 1:
		return model.UserTypeSystem, nil
	case 2:
		return model.UserTypeAdmin, nil
	case 3:
		return model.UserTypeGuest, nil
	case 4:
		return model.UserTypeNormal, nil
	case 5:
		return model.UserTypeSecurity, nil
	default:
		return model.UserTypeNone, fmt.Errorf("invalid --usertype %d (want 1=system, 2=admin, 3=guest, 4=normal, 5=security)", n)
	}
}

func usertypeInt(t model.UserType) int {
	switch t {
	case model.UserTypeSystem:
		return 1
	case model.UserTypeAdmin:
		return 2
	case model.UserTypeGuest:
		return 3
	case model.UserTypeNormal:
		return 4
	case model.UserTypeSecurity:
		return 5
	default:
		return 0
	}
}

// Record wraps a single model.UserRecord for table/JSON/YAML rendering.
type Record struct {
	UID         uint32 `json:"uid" yaml:"uid"`
	PrimaryGID  uint32 `json:"primary_gid" yaml:"primary_gid"`
	Username    string `json:"username" yaml:"username"`
	UserType    int    `json:"usertype" yaml:"usertype"`
	RealName    string `json:"realname" yaml:"realname"`
	Office      string `json:"office" yaml:"office"`
	OfficePhone string `json:"office_phone" yaml:"office_phone"`
	HomePhone   string `json:"home_phone" yaml:"home_phone"`
	HomeDir     string `json:"homedir" yaml:"homedir"`
	Shell       string `json:"shell" yaml:"shell"`
	LastChange  string `json:"last_change" yaml:"last_change"`
}

// NewRecord converts an engine record into its CLI presentation.
func NewRecord(u model.UserRecord) Record {
	return Record{
		UID:         u.UID,
		PrimaryGID:  u.PrimaryGID,
		Username:    u.Username,
		UserType:    usertypeInt(u.Type),
		RealName:    u.Description.RealName,
		Office:      u.Description.Office,
		OfficePhone: u.Description.OfficePhone,
		HomePhone:   u.Description.HomePhone,
		HomeDir:     u.HomeDir,
		Shell:       u.Shell,
		LastChange:  timeutil.FormatEpochDay(u.Shadow.LastChangeDay),
	}
}

// Headers implements output.TableRenderer.
func (r Record) Headers() []string {
	return []string{"UID", "GID", "USERNAME", "TYPE", "REALNAME", "HOMEDIR", "SHELL", "LAST CHANGE"}
}

// Rows implements output.TableRenderer.
func (r Record) Rows() [][]string {
	return [][]string{{
		fmt.Sprintf("%d", r.UID), fmt.Sprintf("%d", r.PrimaryGID), r.Username,
		fmt.Sprintf("%d", r.UserType), r.RealName, r.HomeDir, r.Shell, r.LastChange,
	}}
}

// List is a list of users for table rendering.
type List []Record

// Headers implements output.TableRenderer.
func (l List) Headers() []string { return Record{}.Headers() }

// Rows implements output.TableRenderer.
func (l List) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, r := range l {
		rows = append(rows, r.Rows()[0])
	}
	return rows
}
