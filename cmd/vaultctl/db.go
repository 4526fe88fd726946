package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/vault-in-go/pkg/db"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the database",
}

// dbMigrateCmd represents the db migrate command
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and/or upgrade the database schema",
	Long: `Create and/or upgrade the database schema.

This command runs all pending database migrations to bring the schema
up to date.

Example:
  vaultctl db migrate`,
	Run: func(cmd *cobra.Command, args []string) {
		gormDB, err := db.Connect(db.Config{URL: db.URL()})
		if err != nil {
			fmt.Println("Unable to connect to DB:", err)
			os.Exit(1)
		}

		if err := db.Migrate(gormDB); err != nil {
			fmt.Println("Migration failed:", err)
			os.Exit(1)
		}
		fmt.Println("Database schema is up to date")
	},
}

// dbResetCmd represents the db reset command
var dbResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop and recreate the database schema",
	Long: `Drop and recreate the database schema.

All data is lost. Intended for development and test environments only.`,
	Run: func(cmd *cobra.Command, args []string) {
		gormDB, err := db.Connect(db.Config{URL: db.URL()})
		if err != nil {
			fmt.Println("Unable to connect to DB:", err)
			os.Exit(1)
		}

		if err := db.Reset(gormDB); err != nil {
			fmt.Println("Reset failed:", err)
			os.Exit(1)
		}
		fmt.Println("Database schema has been reset")
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbResetCmd)
}
