package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var unlockFlags struct {
	email string
	code  string
}

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Mark an email as paid using the admin unlock code",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := initAccounts(st).Unlock(ctx, unlockFlags.email, unlockFlags.code); err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Unlocked %s\n", unlockFlags.email)
		return nil
	},
}

func init() {
	unlockCmd.Flags().StringVar(&unlockFlags.email, "email", "", "email to unlock")
	unlockCmd.Flags().StringVar(&unlockFlags.code, "code", "", "admin unlock code")
	_ = unlockCmd.MarkFlagRequired("email")
	_ = unlockCmd.MarkFlagRequired("code")

	rootCmd.AddCommand(unlockCmd)
}
