package user

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/accountd/accountd/cmd/accountctl/cmdutil"
	"github.com/accountd/accountd/internal/accountdb/model"
)

var (
	updateUID         uint32
	updateSecret      string
	updateRealname    string
	updateOffice      string
	updateOfficePhone string
	updateHomePhone   string
	updateShell       string
	updateIcon        string
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update a user's mutable fields",
	Long: `Update a user's secret, GECOS sub-fields, shell, or icon. usertype and
username cannot be changed. Omitted flags leave the corresponding field
at its current stored value.`,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().Uint32Var(&updateUID, "uid", 0, "UID of the user to update (required)")
	updateCmd.Flags().StringVar(&updateSecret, "usecret", "", "New plaintext secret to hash")
	updateCmd.Flags().StringVar(&updateRealname, "realname", "", "New GECOS real name")
	updateCmd.Flags().StringVar(&updateOffice, "office", "", "New GECOS office")
	updateCmd.Flags().StringVar(&updateOfficePhone, "officephone", "", "New GECOS office phone")
	updateCmd.Flags().StringVar(&updateHomePhone, "homephone", "", "New GECOS home phone")
	updateCmd.Flags().StringVar(&updateShell, "shell", "", "New login shell")
	updateCmd.Flags().StringVar(&updateIcon, "icon", "", "New icon path, stored in the per-user extra_info sidecar")
	_ = updateCmd.MarkFlagRequired("uid")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	adapter, err := cmdutil.GetAdapter()
	if err != nil {
		return err
	}

	current, err := adapter.API.GetUser(updateUID)
	if err != nil {
		return fmt.Errorf("failed to read current user record: %w", err)
	}

	rec := current
	rec.Secret = model.SecretState{}
	if cmd.Flags().Changed("realname") {
		rec.Description.RealName = updateRealname
	}
	if cmd.Flags().Changed("office") {
		rec.Description.Office = updateOffice
	}
	if cmd.Flags().Changed("officephone") {
		rec.Description.OfficePhone = updateOfficePhone
	}
	if cmd.Flags().Changed("homephone") {
		rec.Description.HomePhone = updateHomePhone
	}
	if cmd.Flags().Changed("shell") {
		rec.Shell = updateShell
	}
	if cmd.Flags().Changed("icon") {
		rec.Icon = updateIcon
	}
	if updateSecret != "" {
		rec.Secret = model.SecretState{Kind: model.SecretHashed, Hash: updateSecret}
	}

	if err := adapter.API.UpdateUser(context.Background(), rec); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	cmdutil.PrintSuccess(fmt.Sprintf("user %d updated", updateUID))
	return nil
}
