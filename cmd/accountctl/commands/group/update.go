package group

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/accountd/accountd/cmd/accountctl/cmdutil"
	"github.com/accountd/accountd/internal/accountdb/model"
)

var (
	updateGID    uint32
	updateSecret string
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change a group's secret",
	Long: `Group update only ever changes the group's secret; groupname,
membership and admin lists are managed through dedicated commands
(add-member, delete-member).`,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().Uint32Var(&updateGID, "gid", 0, "GID of the group to update (required)")
	updateCmd.Flags().StringVar(&updateSecret, "gsecret", "", "New plaintext group secret to hash (required)")
	_ = updateCmd.MarkFlagRequired("gid")
	_ = updateCmd.MarkFlagRequired("gsecret")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	adapter, err := cmdutil.GetAdapter()
	if err != nil {
		return err
	}

	g := model.GroupRecord{
		GID:    updateGID,
		Secret: model.SecretState{Kind: model.SecretHashed, Hash: updateSecret},
	}

	if err := adapter.API.UpdateGroup(context.Background(), g); err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}

	cmdutil.PrintSuccess(fmt.Sprintf("group %d updated", updateGID))
	return nil
}
