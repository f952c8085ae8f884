package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/career-coach/internal/config"
	"github.com/jonathan/career-coach/internal/server"
)

func newTokenCmd(opts *rootOptions) *cobra.Command {
	var userFlag string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for local development",
		Long:  "Mint an HS256 bearer token signed with JWT_SECRET for the given user, or for a new random user.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID := uuid.New()
			if userFlag != "" {
				parsed, err := uuid.Parse(userFlag)
				if err != nil {
					return fmt.Errorf("invalid --user: %w", err)
				}
				userID = parsed
			}

			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			jwtCfg, err := config.NewJWTConfig(cfg.Auth)
			if err != nil {
				return err
			}
			token, err := server.NewJWTService(jwtCfg).GenerateToken(userID)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userFlag, "user", "", "User ID (UUID) to put in the token")
	return cmd
}
