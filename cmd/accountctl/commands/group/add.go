package group

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/accountd/accountd/cmd/accountctl/cmdutil"
	"github.com/accountd/accountd/internal/accountdb/model"
)

var (
	addGroupname string
	addGrouptype int
	addGID       uint32
	addSecret    string
	addMemberUID []uint32
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a group",
	Long: `Add a group to the account database. --gid requests a preferred gid
within the grouptype's allocation range; the engine falls back to the
next free gid in range when it is already taken.`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addGroupname, "groupname", "", "Group name (required)")
	addCmd.Flags().IntVar(&addGrouptype, "grouptype", 0, grouptypeUsage()+" (required)")
	addCmd.Flags().Uint32Var(&addGID, "gid", 0, "Preferred gid (0 lets the engine pick one)")
	addCmd.Flags().StringVar(&addSecret, "gsecret", "", "Plaintext group secret to hash (omit for an empty group secret)")
	addCmd.Flags().Uint32SliceVar(&addMemberUID, "mem_uid", nil, "Initial member uid (repeatable)")
	_ = addCmd.MarkFlagRequired("groupname")
	_ = addCmd.MarkFlagRequired("grouptype")
}

func runAdd(cmd *cobra.Command, args []string) error {
	grouptype, err := parseGrouptype(addGrouptype)
	if err != nil {
		return err
	}

	adapter, err := cmdutil.GetAdapter()
	if err != nil {
		return err
	}

	members := make([]string, 0, len(addMemberUID))
	for _, uid := range addMemberUID {
		u, err := adapter.API.GetUser(uid)
		if err != nil {
			return fmt.Errorf("failed to resolve --mem_uid %d: %w", uid, err)
		}
		members = append(members, u.Username)
	}

	g := model.GroupRecord{
		Groupname: addGroupname,
		Type:      grouptype,
		Members:   members,
	}
	if addSecret != "" {
		g.Secret = model.SecretState{Kind: model.SecretHashed, Hash: addSecret}
	}

	gid, err := adapter.API.AddGroup(context.Background(), g, addGID)
	if err != nil {
		return fmt.Errorf("failed to add group: %w", err)
	}

	out := NewRecord(g)
	out.GID = gid
	return cmdutil.PrintResource(os.Stdout, out, out)
}
