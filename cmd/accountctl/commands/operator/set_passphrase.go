package operator

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/accountd/accountd/cmd/accountctl/cmdutil"
	"github.com/accountd/accountd/internal/cli/prompt"
	internaloperator "github.com/accountd/accountd/internal/operator"
)

var setPassphraseCmd = &cobra.Command{
	Use:   "set-passphrase",
	Short: "Set or change the operator passphrase",
	Long: `Writes a bcrypt-hashed operator passphrase to the operator credential
file. Every delete-user, delete-group, add-member, and delete-member
invocation prompts for this passphrase before it runs.`,
	RunE: runSetPassphrase,
}

func runSetPassphrase(cmd *cobra.Command, args []string) error {
	passphrase, err := prompt.PasswordWithConfirmation("New operator passphrase", "Confirm passphrase", internaloperator.MinPassphraseLength)
	if err != nil {
		return cmdutil.HandleAbort(err)
	}

	store := internaloperator.NewStore(cmdutil.Flags.OperatorFile)
	if err := store.Save(passphrase); err != nil {
		return fmt.Errorf("failed to save operator credential: %w", err)
	}

	cmdutil.PrintSuccess("Operator passphrase set")
	return nil
}
