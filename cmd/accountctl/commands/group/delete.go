package group

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/accountd/accountd/cmd/accountctl/cmdutil"
)

var (
	deleteGID   uint32
	deleteForce bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a group",
	Long: `Delete a group from the account database. Refused when the gid is
the caller's own primary gid or any user's primary gid. This action is
irreversible and requires the operator passphrase.`,
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().Uint32Var(&deleteGID, "gid", 0, "GID of the group to delete (required)")
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip the confirmation prompt")
	_ = deleteCmd.MarkFlagRequired("gid")
}

func runDelete(cmd *cobra.Command, args []string) error {
	adapter, err := cmdutil.GetAdapter()
	if err != nil {
		return err
	}

	return cmdutil.RunDestructiveWithConfirmation("group", fmt.Sprintf("%d", deleteGID), deleteForce, func() error {
		return adapter.API.DeleteGroup(context.Background(), deleteGID)
	})
}
