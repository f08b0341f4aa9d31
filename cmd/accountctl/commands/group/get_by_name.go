package group

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/accountd/accountd/cmd/accountctl/cmdutil"
)

var getByNameGroupname string

var getByNameCmd = &cobra.Command{
	Use:   "get-by-name",
	Short: "Look up a group by name",
	RunE:  runGetByName,
}

func init() {
	getByNameCmd.Flags().StringVar(&getByNameGroupname, "groupname", "", "Group name to look up (required)")
	_ = getByNameCmd.MarkFlagRequired("groupname")
}

func runGetByName(cmd *cobra.Command, args []string) error {
	adapter, err := cmdutil.GetAdapter()
	if err != nil {
		return err
	}

	rec, err := adapter.API.GetGroupByName(getByNameGroupname)
	if err != nil {
		return fmt.Errorf("failed to read group: %w", err)
	}

	out := NewRecord(rec)
	return cmdutil.PrintResource(os.Stdout, out, out)
}
