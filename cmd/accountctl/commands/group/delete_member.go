package group

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/accountd/accountd/cmd/accountctl/cmdutil"
)

var (
	deleteMemberGID    uint32
	deleteMemberMemUID uint32
)

var deleteMemberCmd = &cobra.Command{
	Use:   "delete-member",
	Short: "Remove a user from a group",
	Long:  `Removes a user from a group's member and admin lists. Requires the operator passphrase.`,
	RunE:  runDeleteMember,
}

func init() {
	deleteMemberCmd.Flags().Uint32Var(&deleteMemberGID, "gid", 0, "GID of the group (required)")
	deleteMemberCmd.Flags().Uint32Var(&deleteMemberMemUID, "mem_uid", 0, "UID of the user to remove (required)")
	_ = deleteMemberCmd.MarkFlagRequired("gid")
	_ = deleteMemberCmd.MarkFlagRequired("mem_uid")
}

func runDeleteMember(cmd *cobra.Command, args []string) error {
	if err := cmdutil.RequireOperator(); err != nil {
		return err
	}

	adapter, err := cmdutil.GetAdapter()
	if err != nil {
		return err
	}

	if err := adapter.API.DeleteMember(context.Background(), deleteMemberGID, deleteMemberMemUID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	cmdutil.PrintSuccess(fmt.Sprintf("uid %d removed from group %d", deleteMemberMemUID, deleteMemberGID))
	return nil
}
