// Package user implements accountctl's user management commands.
package user

import "github.com/spf13/cobra"

// Cmd is the parent command for user management.
var Cmd = &cobra.Command{
	Use:   "user",
	Short: "Manage POSIX user accounts",
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(getCmd)
	Cmd.AddCommand(getByNameCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(validateNameCmd)
}

func usertypeUsage() string {
	return "User type: 1=system, 2=admin, 3=guest, 4=normal, 5=security"
}
