// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/seed"
)

func SeedCmd(cfg *cliparse.Config) *cobra.Command {
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Load administrators and ballots from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			if path == "" {
				return fmt.Errorf("--file is required")
			}

			f, err := seed.Load(path)
			if err != nil {
				return err
			}

			conn, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			report, err := seed.Apply(cmd.Context(), conn, f)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Admins created: %d\n", ok, report.AdminsCreated)
			if report.AdminsSkipped > 0 {
				fmt.Fprintf(out, "%s Admins skipped (already exist): %d\n", skip, report.AdminsSkipped)
			}
			fmt.Fprintf(out, "%s Ballots created: %d\n", ok, report.BallotsCreated)
			return err
		},
	}
	seedCmd.Flags().String("file", "", "Seed file (YAML)")

	return seedCmd
}
