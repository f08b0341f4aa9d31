// Package cmdutil provides shared utilities for accountctl commands: the
// global flag values every subcommand reads, the offline adapter those
// subcommands operate through, output-format dispatch, and the
// operator-passphrase gate in front of destructive operations.
package cmdutil

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/accountd/accountd/internal/cli/output"
	"github.com/accountd/accountd/internal/cli/prompt"
	"github.com/accountd/accountd/internal/config"
	"github.com/accountd/accountd/internal/offline"
	"github.com/accountd/accountd/internal/operator"
	"github.com/accountd/accountd/pkg/session"
)

// Flags stores the global flag values subcommands read.
var Flags = &GlobalFlags{}

// GlobalFlags holds accountctl's persistent flag values, synced from the
// root command's PersistentPreRun.
type GlobalFlags struct {
	ConfigFile   string
	Sysroot      string
	Output       string
	NoColor      bool
	OperatorFile string
}

// GetAdapter builds the offline adapter accountctl's subcommands operate
// through. accountctl has no daemon/transport mode (spec.md externalizes
// the RPC transport entirely); every invocation runs against the
// account files directly, under the same lock file a running accountd
// would use, so the two may safely interleave.
func GetAdapter() (*offline.Adapter, error) {
	cfg, err := config.Load(Flags.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load accountd config: %w", err)
	}
	cfg = config.Rebase(cfg, Flags.Sysroot)

	return offline.New(cfg, session.NoOp{})
}

// GetOutputFormatParsed returns the parsed --output format.
func GetOutputFormatParsed() (output.Format, error) {
	return output.ParseFormat(Flags.Output)
}

// PrintOutput prints data in the configured format. For table format it
// shows emptyMsg when isEmpty, otherwise renders via tableRenderer.
func PrintOutput(w io.Writer, data any, isEmpty bool, emptyMsg string, tableRenderer output.TableRenderer) error {
	format, err := GetOutputFormatParsed()
	if err != nil {
		return err
	}
	switch format {
	case output.FormatJSON:
		return output.PrintJSON(w, data)
	case output.FormatYAML:
		return output.PrintYAML(w, data)
	default:
		if isEmpty {
			_, _ = fmt.Fprintln(w, emptyMsg)
			return nil
		}
		return output.PrintTable(w, tableRenderer)
	}
}

// PrintResource prints a single resource: the table renderer for table
// format, the resource itself for JSON/YAML.
func PrintResource(w io.Writer, data any, tableRenderer output.TableRenderer) error {
	format, err := GetOutputFormatParsed()
	if err != nil {
		return err
	}
	switch format {
	case output.FormatJSON:
		return output.PrintJSON(w, data)
	case output.FormatYAML:
		return output.PrintYAML(w, data)
	default:
		return output.PrintTable(w, tableRenderer)
	}
}

// PrintSuccess prints a success message, only in table format (JSON/YAML
// callers get their confirmation from the printed resource instead).
func PrintSuccess(msg string) {
	format, err := GetOutputFormatParsed()
	if err != nil || format != output.FormatTable {
		return
	}
	output.NewPrinter(os.Stdout, format, !Flags.NoColor).Success(msg)
}

// RequireOperator prompts for the operator passphrase and verifies it
// against the configured operator credential file, gating a destructive
// operation. Anyone who can invoke accountctl as root can already mutate
// the account database directly; this is a deliberate second factor for
// operators who want one, not a substitute for OS-level access control.
func RequireOperator() error {
	store := operator.NewStore(Flags.OperatorFile)
	passphrase, err := prompt.Password("Operator passphrase")
	if err != nil {
		return HandleAbort(err)
	}
	if err := store.VerifyPassphrase(passphrase); err != nil {
		return err
	}
	return nil
}

// RunDestructiveWithConfirmation prompts for confirmation (unless force
// is true), then the operator passphrase, then runs fn.
func RunDestructiveWithConfirmation(resourceType, name string, force bool, fn func() error) error {
	confirmed, err := prompt.ConfirmWithForce(fmt.Sprintf("Delete %s %q?", resourceType, name), force)
	if err != nil {
		return HandleAbort(err)
	}
	if !confirmed {
		fmt.Println("Aborted.")
		return nil
	}

	if err := RequireOperator(); err != nil {
		return err
	}

	if err := fn(); err != nil {
		return err
	}
	PrintSuccess(fmt.Sprintf("%s %q deleted", resourceType, name))
	return nil
}

// HandleAbort reports nil (treated as a clean exit) for a user-aborted
// prompt, otherwise returns err unchanged.
func HandleAbort(err error) error {
	if prompt.IsAborted(err) {
		fmt.Println("\nAborted.")
		return nil
	}
	return err
}

// ParseCommaSeparatedList splits and trims a comma-separated flag value.
func ParseCommaSeparatedList(s string) []string {
	if s == "" {
		return nil
	}
	var result []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

// EmptyOr returns value, or fallback when value is empty — used for "-"
// placeholders in table cells.
func EmptyOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// BoolToYesNo renders a bool as "yes"/"no" for table cells.
func BoolToYesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
