// Package operator implements accountctl's operator-credential commands.
package operator

import "github.com/spf13/cobra"

// Cmd is the parent command for operator credential management.
var Cmd = &cobra.Command{
	Use:   "operator",
	Short: "Manage the operator credential guarding destructive commands",
}

func init() {
	Cmd.AddCommand(setPassphraseCmd)
}
