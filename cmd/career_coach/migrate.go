package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-coach/internal/db"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	var printOnly bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Long:  "Apply the embedded PostgreSQL schema. Every statement is idempotent, so running it twice is safe.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if printOnly {
				_, err := fmt.Fprint(cmd.OutOrStdout(), db.Schema())
				return err
			}

			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if err := cfg.RequireDatabase(); err != nil {
				return err
			}

			database, err := db.Connect(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := database.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema applied")
			return nil
		},
	}
	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the schema instead of applying it")
	return cmd
}
