package main

import (
	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/sessionauth/internal/auth/app"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the authd CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authd",
		Short: "authd - session based email and password authentication",
		Long: `authd registers users, issues opaque session cookies and handles
password resets by single use token, backed by SQLite or PostgreSQL.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: $AUTH_CONFIG)")
	cmd.PersistentFlags().AddFlagSet(app.Flags())

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

// loadConfig resolves configuration for cmd from file, env and flags.
func loadConfig(cmd *cobra.Command) (app.Config, error) {
	return app.LoadConfig(cmd.Flags(), configFile)
}
