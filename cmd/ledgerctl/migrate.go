package main

import (
	"fmt"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/ruralpay/webbank/internal/database"
	"github.com/spf13/cobra"
)

func migrateCommands(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "apply or roll back schema migrations",
	}

	cmd.AddCommand(migrateCommand(a, "up", migrate.Up, "Applied %d migrations!\n"))
	cmd.AddCommand(migrateCommand(a, "down", migrate.Down, "Rolled back %d migrations!\n"))

	return cmd
}

func migrateCommand(a *app, use string, dir migrate.MigrationDirection, done string) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:  use,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB(a.cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := database.Migrate(db, a.cfg.Database.Driver, dir, steps)
			if err != nil {
				return fmt.Errorf("error migrating %s: %w", use, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), done, n)
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 0, "maximum number of migrations to run (0 means all)")

	return cmd
}
