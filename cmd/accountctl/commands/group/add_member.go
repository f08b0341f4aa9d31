package group

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/accountd/accountd/cmd/accountctl/cmdutil"
)

var (
	addMemberGID     uint32
	addMemberMemUID  uint32
	addMemberIsAdmin bool
)

var addMemberCmd = &cobra.Command{
	Use:   "add-member",
	Short: "Add a user to a group",
	Long:  `Adds a user to a group's member list, optionally also as a group admin. Requires the operator passphrase.`,
	RunE:  runAddMember,
}

func init() {
	addMemberCmd.Flags().Uint32Var(&addMemberGID, "gid", 0, "GID of the group (required)")
	addMemberCmd.Flags().Uint32Var(&addMemberMemUID, "mem_uid", 0, "UID of the user to add (required)")
	addMemberCmd.Flags().BoolVar(&addMemberIsAdmin, "admin", false, "Also add the user as a group admin")
	_ = addMemberCmd.MarkFlagRequired("gid")
	_ = addMemberCmd.MarkFlagRequired("mem_uid")
}

func runAddMember(cmd *cobra.Command, args []string) error {
	if err := cmdutil.RequireOperator(); err != nil {
		return err
	}

	adapter, err := cmdutil.GetAdapter()
	if err != nil {
		return err
	}

	if err := adapter.API.AddMember(context.Background(), addMemberGID, addMemberMemUID, addMemberIsAdmin); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	cmdutil.PrintSuccess(fmt.Sprintf("uid %d added to group %d", addMemberMemUID, addMemberGID))
	return nil
}
