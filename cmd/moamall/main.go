// Command moamall is the single entry point for the storefront: the HTTP
// server plus the operational commands (migrations, seeding, queue workers).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Register all migrations and seeders at startup.
	_ "github.com/sujinlee/moamall/database/migrations"
	_ "github.com/sujinlee/moamall/database/seeders"
)

func main() {
	root := &cobra.Command{
		Use:           "moamall",
		Short:         "moamall storefront backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		serveCmd(),
		migrateCmd(),
		migrateRollbackCmd(),
		migrateStatusCmd(),
		seedCmd(),
		queueWorkCmd(),
		routeListCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
