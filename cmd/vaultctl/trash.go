package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/vault-in-go/pkg/db"
	"github.com/doodlesbykumbi/vault-in-go/pkg/identity"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store/gorm"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/trash"
)

// trashCmd represents the trash command
var trashCmd = &cobra.Command{
	Use:   "trash",
	Short: "Administer a tenant's trash",
}

// trashEmptyCmd represents the trash empty command
var trashEmptyCmd = &cobra.Command{
	Use:   "empty",
	Short: "Permanently purge all pending trash items of a tenant",
	Long: `Permanently purge all pending trash items of a tenant.

Restored items are untouched. Purged entities cannot be recovered.

Example:
  vaultctl trash empty --tenant acme --user root`,
	Run: func(cmd *cobra.Command, args []string) {
		tenantID, _ := cmd.Flags().GetString("tenant")
		userID, _ := cmd.Flags().GetString("user")
		if tenantID == "" || userID == "" {
			fmt.Println("--tenant and --user are required")
			os.Exit(1)
		}

		gormDB, err := db.Connect(db.Config{URL: db.URL()})
		if err != nil {
			fmt.Println("Unable to connect to DB:", err)
			os.Exit(1)
		}

		mgr := trash.NewManager(gorm.NewStore(gormDB))
		admin := &identity.Identity{UserID: userID, TenantID: tenantID, Admin: true}

		count, err := mgr.EmptyAll(admin)
		if err != nil {
			fmt.Printf("Purged %d items before failing: %v\n", count, err)
			os.Exit(1)
		}
		fmt.Printf("Purged %d items\n", count)
	},
}

func init() {
	rootCmd.AddCommand(trashCmd)
	trashCmd.AddCommand(trashEmptyCmd)

	trashEmptyCmd.Flags().String("tenant", "", "tenant whose trash is emptied")
	trashEmptyCmd.Flags().String("user", "", "admin user recorded in the audit trail")
}
