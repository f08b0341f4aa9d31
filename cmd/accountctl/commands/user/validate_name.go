package user

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/accountd/accountd/internal/accountdb/validate"
)

var validateNameCmd = &cobra.Command{
	Use:   "validate-name <name>",
	Short: "Check whether a username is syntactically valid",
	Long: `Runs the same length and character-pattern check the engines apply
to a username before creating or looking one up, without touching the
account database. Useful for offline tooling that wants to pre-check a
candidate name.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidateName,
}

func runValidateName(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := validate.Name(name); err != nil {
		return fmt.Errorf("%q is not a valid name: %w", name, err)
	}
	fmt.Printf("%q is a valid name\n", name)
	return nil
}
