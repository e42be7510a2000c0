package main

import (
	"os"

	"github.com/spf13/cobra"

	"fastighet/internal/interfaces/cli/migrate"
	"fastighet/internal/interfaces/cli/seed"
	"fastighet/internal/interfaces/cli/server"
	"fastighet/internal/interfaces/cli/token"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fastighet",
		Short: "Fastighet - property maintenance tickets",
		Long:  `Fastighet tracks maintenance tickets for housing cooperatives: an HTTP API server, migration tools, seed data and token issuing.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		seed.NewCommand(),
		token.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
