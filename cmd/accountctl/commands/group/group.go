// Package group implements accountctl's group management commands.
package group

import "github.com/spf13/cobra"

// Cmd is the parent command for group management.
var Cmd = &cobra.Command{
	Use:   "group",
	Short: "Manage POSIX groups",
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(getCmd)
	Cmd.AddCommand(getByNameCmd)
	Cmd.AddCommand(addMemberCmd)
	Cmd.AddCommand(deleteMemberCmd)
	Cmd.AddCommand(isAdminCmd)
}

func grouptypeUsage() string {
	return "Group type: 1=system, 2=user"
}
