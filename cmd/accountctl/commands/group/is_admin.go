package group

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/accountd/accountd/cmd/accountctl/cmdutil"
)

var (
	isAdminGID    uint32
	isAdminMemUID uint32
)

var isAdminCmd = &cobra.Command{
	Use:   "is-admin",
	Short: "Check whether a user is an admin of a group",
	RunE:  runIsAdmin,
}

func init() {
	isAdminCmd.Flags().Uint32Var(&isAdminGID, "gid", 0, "GID of the group (required)")
	isAdminCmd.Flags().Uint32Var(&isAdminMemUID, "mem_uid", 0, "UID to check (required)")
	_ = isAdminCmd.MarkFlagRequired("gid")
	_ = isAdminCmd.MarkFlagRequired("mem_uid")
}

func runIsAdmin(cmd *cobra.Command, args []string) error {
	adapter, err := cmdutil.GetAdapter()
	if err != nil {
		return err
	}

	u, err := adapter.API.GetUser(isAdminMemUID)
	if err != nil {
		return fmt.Errorf("failed to resolve --mem_uid %d: %w", isAdminMemUID, err)
	}

	isAdmin, err := adapter.API.IsAdmin(isAdminGID, u.Username)
	if err != nil {
		return fmt.Errorf("failed to check admin status: %w", err)
	}

	if isAdmin {
		fmt.Printf("uid %d is an admin of group %d\n", isAdminMemUID, isAdminGID)
	} else {
		fmt.Printf("uid %d is not an admin of group %d\n", isAdminMemUID, isAdminGID)
	}
	return nil
}
