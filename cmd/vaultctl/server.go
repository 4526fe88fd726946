package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/vault-in-go/pkg/attachment"
	"github.com/doodlesbykumbi/vault-in-go/pkg/audit"
	"github.com/doodlesbykumbi/vault-in-go/pkg/config"
	"github.com/doodlesbykumbi/vault-in-go/pkg/crypto/keyprovider"
	"github.com/doodlesbykumbi/vault-in-go/pkg/db"
	"github.com/doodlesbykumbi/vault-in-go/pkg/server"
	"github.com/doodlesbykumbi/vault-in-go/pkg/server/endpoints"
	gormstore "github.com/doodlesbykumbi/vault-in-go/pkg/vault/store/gorm"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the vault API server",
	Long: `Run the vault API server.

The server requires a PostgreSQL database (DATABASE_URL), a data key
(VAULT_DATA_KEY or --data-key-file) and a token signing key
(VAULT_TOKEN_SIGNING_KEY). Pending database migrations run on start
unless --no-migrate is given.

Example:
  export VAULT_DATA_KEY="$(vaultctl data-key generate)"
  export VAULT_TOKEN_SIGNING_KEY=some-long-random-string
  vaultctl server`,
	Run: func(cmd *cobra.Command, args []string) {
		conf := config.Get()
		if err := conf.Validate(); err != nil {
			fmt.Println("Invalid configuration:", err)
			os.Exit(1)
		}
		audit.SetEnabled(conf.AuditEnabled)

		keys, err := loadKeyProvider(cmd)
		if err != nil {
			fmt.Println("Unable to load data key:", err)
			os.Exit(1)
		}

		signingKey := os.Getenv("VAULT_TOKEN_SIGNING_KEY")
		if signingKey == "" {
			fmt.Println("VAULT_TOKEN_SIGNING_KEY is required")
			os.Exit(1)
		}

		gormDB, err := db.Connect(db.Config{URL: db.URL()})
		if err != nil {
			fmt.Println("Unable to connect to DB:", err)
			os.Exit(1)
		}

		if noMigrate, _ := cmd.Flags().GetBool("no-migrate"); !noMigrate {
			if err := db.Migrate(gormDB); err != nil {
				fmt.Println("Migration failed:", err)
				os.Exit(1)
			}
		}

		resolver, err := loadResolver(cmd.Context())
		if err != nil {
			fmt.Println("Unable to configure attachment storage:", err)
			os.Exit(1)
		}

		srv := server.NewServer(gormstore.NewStore(gormDB), keys, resolver, conf, []byte(signingKey), gormDB)
		endpoints.RegisterAll(srv)

		log.Printf("Running server at http://%s...\n", conf.ListenAddr())
		log.Fatal(srv.Start())
	},
}

func loadKeyProvider(cmd *cobra.Command) (keyprovider.Provider, error) {
	if path, _ := cmd.Flags().GetString("data-key-file"); path != "" {
		return keyprovider.NewFile(path)
	}
	return keyprovider.NewStaticFromEnv("VAULT_DATA_KEY")
}

// loadResolver picks S3 when a bucket is configured, otherwise plain
// URLs under the local base for development.
func loadResolver(ctx context.Context) (attachment.Resolver, error) {
	s3Conf := attachment.S3ConfigFromEnv()
	if s3Conf.Bucket != "" {
		return attachment.NewS3Resolver(ctx, s3Conf)
	}

	base := os.Getenv("VAULT_ATTACHMENT_BASE_URL")
	if base == "" {
		base = "http://localhost:9000/vault-attachments"
	}
	return attachment.NewLocalResolver(base)
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().String("data-key-file", "", "read the data key from a file, hot-reloaded on change")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
