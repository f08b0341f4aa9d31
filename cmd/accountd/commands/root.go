// Package commands implements the accountd daemon's cobra command tree.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	configFile string
	sysroot    string
)

var rootCmd = &cobra.Command{
	Use:   "accountd",
	Short: "Privileged POSIX account/group lifecycle manager",
	Long: `accountd mediates every mutation of the local account database: the
password, shadow, group, and group-shadow tables, plus user home
directories, on behalf of unprivileged clients.

Use "accountd serve" to run the daemon.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to accountd config file (default: /etc/accountd/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&sysroot, "sysroot", "", "Prefix every configured account file/homedir path with this directory")
	rootCmd.AddCommand(serveCmd)
}
