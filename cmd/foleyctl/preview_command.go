package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"soundstage.systems/foleydeck/pkg/utils/passwords"
)

func newPreviewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Manage the preview gate",
	}

	cmd.AddCommand(newPreviewHashCommand())

	return cmd
}

func newPreviewHashCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <password>",
		Short: "Hash a preview password for PREVIEW_PASSWORD_HASH",
		Long: `Hash a preview password with argon2id. The web service accepts the output
as PREVIEW_PASSWORD_HASH. Pass "-" to read the password from stdin and
keep it out of shell history.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password := args[0]
			if password == "-" {
				sc := bufio.NewScanner(cmd.InOrStdin())
				if !sc.Scan() {
					if err := sc.Err(); err != nil {
						return err
					}
					return fmt.Errorf("no password on stdin")
				}
				password = strings.TrimSpace(sc.Text())
			}

			hash, err := passwords.NewPassword(passwords.PasswordInput{Password: password})
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), hash.String())
			return nil
		},
	}
}
