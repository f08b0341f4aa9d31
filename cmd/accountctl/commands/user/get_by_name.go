package user

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/accountd/accountd/cmd/accountctl/cmdutil"
)

var getByNameUsername string

var getByNameCmd = &cobra.Command{
	Use:   "get-by-name",
	Short: "Look up a user by username",
	RunE:  runGetByName,
}

func init() {
	getByNameCmd.Flags().StringVar(&getByNameUsername, "username", "", "Username to look up (required)")
	_ = getByNameCmd.MarkFlagRequired("username")
}

func runGetByName(cmd *cobra.Command, args []string) error {
	adapter, err := cmdutil.GetAdapter()
	if err != nil {
		return err
	}

	rec, err := adapter.API.GetUserByName(getByNameUsername)
	if err != nil {
		return fmt.Errorf("failed to read user: %w", err)
	}

	out := NewRecord(rec)
	return cmdutil.PrintResource(os.Stdout, out, out)
}
