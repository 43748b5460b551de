// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/voting"
)

func AdminCmd(cfg *cliparse.Config) *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrators",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an administrator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}
			if len(password) < 8 || len(password) > 72 {
				return fmt.Errorf("password must be 8 to 72 bytes")
			}

			conn, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			ident, err := voting.NewIdentityStore(conn).Register(cmd.Context(), email, password, models.RoleAdmin)
			if errors.Is(err, voting.ErrDuplicateIdentity) {
				return fmt.Errorf("an identity with email %s already exists", voting.FoldEmail(email))
			}
			if err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Created admin %s (%s)\n", ok, ident.Email, ident.ID)
			return nil
		},
	}
	createCmd.Flags().String("email", "", "Administrator email")
	createCmd.Flags().String("password", "", "Administrator password (8 to 72 bytes)")

	adminCmd.AddCommand(createCmd)
	return adminCmd
}
