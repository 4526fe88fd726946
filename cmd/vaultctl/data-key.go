package main

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/vault-in-go/pkg/crypto"
	"github.com/doodlesbykumbi/vault-in-go/pkg/crypto/keyprovider"
)

// dataKeyCmd represents the data-key command
var dataKeyCmd = &cobra.Command{
	Use:   "data-key",
	Short: "Manage the data encryption key",
}

// dataKeyGenerateCmd represents the data-key > generate command
var dataKeyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a data encryption key",
	Long: `
Generate a data encryption key

Use this command to generate a new Base64-encoded 256 bit data encryption key.
Once generated, this key should be placed into the environment of the vault
server. Per-tenant encryption keys are derived from it, so losing the key
makes every stored secret unrecoverable.

Example:

$ export VAULT_DATA_KEY="$(vaultctl data-key generate)"
`,
	Run: func(cmd *cobra.Command, args []string) {
		bytes, _ := crypto.RandomBytes(keyprovider.DataKeySize)
		fmt.Printf("%s", base64.StdEncoding.Strict().EncodeToString(bytes))
	},
}

func init() {
	rootCmd.AddCommand(dataKeyCmd)
	dataKeyCmd.AddCommand(dataKeyGenerateCmd)
}
