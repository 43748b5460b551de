// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"database/sql"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/db"
)

var (
	ok   = color.New(color.FgGreen).Sprint("✓")
	skip = color.New(color.FgYellow).Sprint("!")
)

// RootCmd returns the ballotbox command with all subcommands.
func RootCmd() *cobra.Command {
	var cfg cliparse.Config

	rootCmd := &cobra.Command{
		Use:   "ballotbox",
		Short: "Ballotbox - online voting with one vote per voter",
		Long: `Ballotbox serves ballots with a voting window, records at most one
vote per voter and ballot, and shows tallies and winners.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cliparse.LoadDotEnv(".env"); err != nil {
				return err
			}
			return cliparse.Resolve(cmd.Flags(), &cfg)
		},
	}

	cliparse.RegisterFlags(rootCmd.PersistentFlags(), &cfg)

	rootCmd.AddCommand(ServeCmd(&cfg))
	rootCmd.AddCommand(MigrateCmd(&cfg))
	rootCmd.AddCommand(AdminCmd(&cfg))
	rootCmd.AddCommand(SeedCmd(&cfg))

	return rootCmd
}

// openDatabase connects and makes sure the schema exists.
func openDatabase(cfg *cliparse.Config) (*sql.DB, error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, err
	}

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	return conn, nil
}
