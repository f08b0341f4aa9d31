package user

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/accountd/accountd/cmd/accountctl/cmdutil"
)

var (
	deleteUID        uint32
	deleteForce      bool
	deleteRemoveHome bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a user",
	Long: `Delete a user from the account database. This action is irreversible
and requires the operator passphrase.`,
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().Uint32Var(&deleteUID, "uid", 0, "UID of the user to delete (required)")
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip the confirmation prompt")
	deleteCmd.Flags().BoolVar(&deleteRemoveHome, "remove-home", false, "Also remove the user's home directory")
	_ = deleteCmd.MarkFlagRequired("uid")
}

func runDelete(cmd *cobra.Command, args []string) error {
	adapter, err := cmdutil.GetAdapter()
	if err != nil {
		return err
	}

	return cmdutil.RunDestructiveWithConfirmation("user", fmt.Sprintf("%d", deleteUID), deleteForce, func() error {
		return adapter.API.DeleteUser(context.Background(), deleteUID, deleteRemoveHome)
	})
}
