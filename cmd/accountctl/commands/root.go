// Package commands implements accountctl's cobra command tree.
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/accountd/accountd/cmd/accountctl/cmdutil"
	groupcmd "github.com/accountd/accountd/cmd/accountctl/commands/group"
	operatorcmd "github.com/accountd/accountd/cmd/accountctl/commands/operator"
	usercmd "github.com/accountd/accountd/cmd/accountctl/commands/user"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "accountctl",
	Short: "Command-line client for the account/group lifecycle manager",
	Long: `accountctl mutates and inspects the local account database (passwd,
shadow, group, gshadow) directly, sharing the same on-disk lock file a
running accountd uses, so the two may interleave safely.

Use "accountctl [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cmdutil.Flags.ConfigFile, _ = cmd.Flags().GetString("config")
		cmdutil.Flags.Sysroot, _ = cmd.Flags().GetString("sysroot")
		cmdutil.Flags.Output, _ = cmd.Flags().GetString("output")
		cmdutil.Flags.NoColor, _ = cmd.Flags().GetBool("no-color")
		cmdutil.Flags.OperatorFile, _ = cmd.Flags().GetString("operator-file")
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to accountd config file (default: /etc/accountd/config.yaml)")
	rootCmd.PersistentFlags().String("sysroot", "", "Prefix every configured account file/homedir path with this directory")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format (table|json|yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().String("operator-file", "", "Path to the operator credential file (default: /etc/accountd/operator.json)")

	rootCmd.AddCommand(usercmd.Cmd)
	rootCmd.AddCommand(groupcmd.Cmd)
	rootCmd.AddCommand(operatorcmd.Cmd)
}

// PrintErr prints an error message to stderr.
func PrintErr(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
}

// Exit prints an error and exits with code 1.
func Exit(format string, args ...any) {
	PrintErr(format, args...)
	os.Exit(1)
}
