package user

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/accountd/accountd/cmd/accountctl/cmdutil"
)

var listUsertype int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List users, optionally filtered by usertype",
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVar(&listUsertype, "usertype", 0, usertypeUsage()+" (omit to list every type)")
}

func runList(cmd *cobra.Command, args []string) error {
	mask := ^uint32(0)
	if listUsertype != 0 {
		t, err := parseUsertype(listUsertype)
		if err != nil {
			return err
		}
		mask = 1 << uint(t)
	}

	adapter, err := cmdutil.GetAdapter()
	if err != nil {
		return err
	}

	uids, err := adapter.API.ListUsers(mask)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	records := make(List, 0, len(uids))
	for _, uid := range uids {
		rec, err := adapter.API.GetUser(uid)
		if err != nil {
			continue
		}
		records = append(records, NewRecord(rec))
	}

	return cmdutil.PrintOutput(os.Stdout, records, len(records) == 0, "No users found.", records)
}
