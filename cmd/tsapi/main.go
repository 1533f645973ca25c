package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/interfaces/cli/migrate"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tsapi",
		Short: "The Spreadsheet API",
		Long:  `Hockey stat sheets behind a premium tier: the API server, migrations, plan seeding and data release tools.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
