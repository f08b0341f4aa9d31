package group

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/accountd/accountd/cmd/accountctl/cmdutil"
)

var getGID uint32

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Look up a group by gid",
	RunE:  runGet,
}

func init() {
	getCmd.Flags().Uint32Var(&getGID, "gid", 0, "GID to look up (required)")
	_ = getCmd.MarkFlagRequired("gid")
}

func runGet(cmd *cobra.Command, args []string) error {
	adapter, err := cmdutil.GetAdapter()
	if err != nil {
		return err
	}

	rec, err := adapter.API.GetGroup(getGID)
	if err != nil {
		return fmt.Errorf("failed to read group: %w", err)
	}

	out := NewRecord(rec)
	return cmdutil.PrintResource(os.Stdout, out, out)
}
