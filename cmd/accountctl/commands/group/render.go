package group

import (
	"fmt"
	"strings"

	"github.com/accountd/accountd/internal/accountdb/model"
)

// parseGrouptype maps spec.md's CLI --grouptype integers onto model.GroupType.
func parseGrouptype(n int) (model.GroupType, error) {
	switch n {
	case 1:
		return model.GroupTypeSystem, nil
	case 2:
		return model.GroupTypeUser, nil
	default:
		return model.GroupTypeNone, fmt.Errorf("invalid --grouptype %d (want 1=system, 2=user)", n)
	}
}

func grouptypeInt(t model.GroupType) int {
	switch t {
	case model.GroupTypeSystem:
		return 1
	case model.GroupTypeUser:
		return 2
	default:
		return 0
	}
}

// Record wraps a single model.GroupRecord for table/JSON/YAML rendering.
type Record struct {
	GID       uint32   `json:"gid" yaml:"gid"`
	Groupname string   `json:"groupname" yaml:"groupname"`
	GroupType int      `json:"grouptype" yaml:"grouptype"`
	Members   []string `json:"members" yaml:"members"`
	Admins    []string `json:"admins" yaml:"admins"`
}

// NewRecord converts an engine record into its CLI presentation.
func NewRecord(g model.GroupRecord) Record {
	return Record{
		GID:       g.GID,
		Groupname: g.Groupname,
		GroupType: grouptypeInt(g.Type),
		Members:   g.Members,
		Admins:    g.Admins,
	}
}

// Headers implements output.TableRenderer.
func (r Record) Headers() []string {
	return []string{"GID", "GROUPNAME", "TYPE", "MEMBERS", "ADMINS"}
}

// Rows implements output.TableRenderer.
func (r Record) Rows() [][]string {
	return [][]string{{
		fmt.Sprintf("%d", r.GID), r.Groupname, fmt.Sprintf("%d", r.GroupType),
		strings.Join(r.Members, ","), strings.Join(r.Admins, ","),
	}}
}

// List is a list of groups for table rendering.
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
