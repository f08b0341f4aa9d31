package user

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/accountd/accountd/cmd/accountctl/cmdutil"
)

var getUID uint32

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Look up a user by uid",
	RunE:  runGet,
}

func init() {
	getCmd.Flags().Uint32Var(&getUID, "uid", 0, "UID to look up (required)")
	_ = getCmd.MarkFlagRequired("uid")
}

func runGet(cmd *cobra.Command, args []string) error {
	adapter, err := cmdutil.GetAdapter()
	if err != nil {
		return err
	}

	rec, err := adapter.API.GetUser(getUID)
	if err != nil {
		return fmt.Errorf("failed to read user: %w", err)
	}

	out := NewRecord(rec)
	return cmdutil.PrintResource(os.Stdout, out, out)
}
