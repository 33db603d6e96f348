package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrEthical07/sessionauth/directory"
	"github.com/MrEthical07/sessionauth/internal/config"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	var status bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the users table migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dsn, err := databaseURL(opts)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), startupTimeout)
			defer cancel()
			db, err := directory.Open(ctx, dsn)
			if err != nil {
				return err
			}
			defer db.Close()

			if !status {
				if err := directory.Migrate(ctx, db); err != nil {
					return err
				}
			}
			version, err := directory.MigrationVersion(ctx, db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
			return nil
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "print the current version without migrating")
	return cmd
}

// databaseURL loads only what migrate needs, so it works without JWT or bcrypt
// settings.
func databaseURL(opts *rootOptions) (string, error) {
	v := config.NewViper()
	v.SetDefault(config.KeyJWTSecret, "unused")
	v.SetDefault(config.KeySaltRounds, "10")
	cfg, err := config.Load(config.Options{EnvFiles: opts.envFiles, ConfigFile: opts.configFile, Viper: v})
	if err != nil {
		return "", err
	}
	return cfg.DatabaseURL, nil
}
