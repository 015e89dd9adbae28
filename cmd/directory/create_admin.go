package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/staffdesk/employee-directory/internal/core/service"
	"github.com/staffdesk/employee-directory/internal/infrastructure/db/mongo"
)

func newCreateAdminCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Register an admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if name == "" || email == "" || password == "" {
				return errors.New("--name, --email and --password are required")
			}

			ctx := cmd.Context()
			cfg, log, err := bootstrap(ctx)
			if err != nil {
				return err
			}

			client, db, err := connectMongo(ctx, cfg)
			if err != nil {
				return err
			}
			defer disconnectMongo(client, cfg, log)

			if err := mongo.EnsureIndexes(ctx, db); err != nil {
				return err
			}

			auth := service.NewAuthService(mongo.NewAccountRepository(db), nil, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, log)
			account, err := auth.Register(ctx, name, email, password)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", account.Email, account.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "initial password")

	return cmd
}
