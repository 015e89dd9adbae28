package main

import (
	"github.com/spf13/cobra"

	"github.com/staffdesk/employee-directory/internal/infrastructure/db/mongo"
)

func newIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the unique email indexes and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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
			log.Info().Str("database", cfg.Mongo.Database).Msg("indexes ensured")
			return nil
		},
	}
}
