// Command sessionauth serves the authentication API and manages its database.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configFile string
	envFiles   []string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "sessionauth",
		Short: "Login, refresh and access checks backed by Postgres and Redis.",
		Long: `sessionauth issues short-lived access tokens and one refresh token per
user. The refresh token is kept in Redis; logging in again replaces it.

Settings come from .env files, the environment and an optional YAML file.`,
		SilenceUsage: true,
		Version:      version,
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file")
	cmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", []string{".env"}, "dotenv files to load before reading the environment")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newLoadtestCmd())
	return cmd
}
