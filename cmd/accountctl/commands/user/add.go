package user

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/accountd/accountd/cmd/accountctl/cmdutil"
	"github.com/accountd/accountd/internal/accountdb/model"
)

var (
	addUsername    string
	addNickname    string
	addUsertype    int
	addSecret      string
	addRealname    string
	addOffice      string
	addOfficePhone string
	addHomePhone   string
	addHomeDir     string
	addShell       string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a user",
	Long: `Add a user to the account database.

Either --username or --nickname must be given; when only --nickname is
given, a username is synthesized from it and echoed back on success.`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addUsername, "username", "", "Username")
	addCmd.Flags().StringVar(&addNickname, "nickname", "", "Nickname to synthesize a username from, when --username is omitted")
	addCmd.Flags().IntVar(&addUsertype, "usertype", 0, usertypeUsage()+" (required)")
	addCmd.Flags().StringVar(&addSecret, "usecret", "", "Plaintext secret to hash (omit for the usertype's placeholder: system *, guest empty, others locked)")
	addCmd.Flags().StringVar(&addRealname, "realname", "", "GECOS real name")
	addCmd.Flags().StringVar(&addOffice, "office", "", "GECOS office")
	addCmd.Flags().StringVar(&addOfficePhone, "officephone", "", "GECOS office phone")
	addCmd.Flags().StringVar(&addHomePhone, "homephone", "", "GECOS home phone")
	addCmd.Flags().StringVar(&addHomeDir, "homedir", "", "Home directory (default: <homedir_prefix>/<username>)")
	addCmd.Flags().StringVar(&addShell, "shell", "", "Login shell (default: per-usertype configured shell)")
	_ = addCmd.MarkFlagRequired("usertype")
}

func runAdd(cmd *cobra.Command, args []string) error {
	usertype, err := parseUsertype(addUsertype)
	if err != nil {
		return err
	}

	rec := model.UserRecord{
		Username: addUsername,
		Nickname: addNickname,
		Type:     usertype,
		Description: model.Description{
			RealName:    addRealname,
			Office:      addOffice,
			OfficePhone: addOfficePhone,
			HomePhone:   addHomePhone,
		},
		HomeDir: addHomeDir,
		Shell:   addShell,
	}
	if addSecret != "" {
		rec.Secret = model.SecretState{Kind: model.SecretHashed, Hash: addSecret}
	}

	adapter, err := cmdutil.GetAdapter()
	if err != nil {
		return err
	}

	uid, username, err := adapter.API.AddUser(context.Background(), rec)
	if err != nil {
		return fmt.Errorf("failed to add user: %w", err)
	}

	out := NewRecord(rec)
	out.UID = uid
	out.Username = username
	return cmdutil.PrintResource(os.Stdout, out, out)
}
