package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/vault-in-go/pkg/config"
	"github.com/doodlesbykumbi/vault-in-go/pkg/identity"
)

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage API tokens",
}

// tokenIssueCmd represents the token issue command
var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a signed API token for a user",
	Long: `Issue a signed API token for a user.

The token is signed with VAULT_TOKEN_SIGNING_KEY and accepted by the
server as a bearer token until it expires. Lifetime defaults to the
configured token TTL.

Example:
  vaultctl token issue --user root --tenant acme --admin`,
	Run: func(cmd *cobra.Command, args []string) {
		signingKey := os.Getenv("VAULT_TOKEN_SIGNING_KEY")
		if signingKey == "" {
			fmt.Println("VAULT_TOKEN_SIGNING_KEY is required")
			os.Exit(1)
		}

		userID, _ := cmd.Flags().GetString("user")
		tenantID, _ := cmd.Flags().GetString("tenant")
		admin, _ := cmd.Flags().GetBool("admin")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		if userID == "" || tenantID == "" {
			fmt.Println("--user and --tenant are required")
			os.Exit(1)
		}
		if ttl == 0 {
			ttl = config.Get().TokenLifetime()
		}

		token, err := identity.IssueToken(&identity.Identity{
			UserID:   userID,
			TenantID: tenantID,
			Login:    userID,
			Admin:    admin,
		}, []byte(signingKey), ttl)
		if err != nil {
			fmt.Println("Unable to issue token:", err)
			os.Exit(1)
		}
		fmt.Println(token)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenIssueCmd)

	tokenIssueCmd.Flags().String("user", "", "user id the token authenticates")
	tokenIssueCmd.Flags().String("tenant", "", "tenant the user belongs to")
	tokenIssueCmd.Flags().Bool("admin", false, "issue a tenant admin token")
	tokenIssueCmd.Flags().Duration("ttl", 0, "token lifetime, e.g. 30m (default: configured TTL)")
}
