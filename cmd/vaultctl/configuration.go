package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/vault-in-go/pkg/config"
)

// configurationCmd represents the configuration command
var configurationCmd = &cobra.Command{
	Use:     "configuration",
	Aliases: []string{"config"},
	Short:   "Manage the vault configuration",
}

// configurationShowCmd represents the configuration show command
var configurationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show vault configuration attributes and their sources",
	Long: `Show vault configuration attributes and their sources.

The values displayed by this command reflect the current state of the
configuration sources, the environment variables and config file. These
may not reflect the values used by a running vault server.

Config file location: /etc/vault/vault.yml (or VAULT_CONFIG_PATH)

Example:
  vaultctl configuration show
  vaultctl configuration show --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		if err := showConfiguration(output); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to show configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

func showConfiguration(output string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if output == "json" {
		jsonOutput, err := cfg.FormatJSON()
		if err != nil {
			return err
		}
		fmt.Println(jsonOutput)
		return nil
	}

	fmt.Print(cfg.FormatText())
	return nil
}

func init() {
	rootCmd.AddCommand(configurationCmd)
	configurationCmd.AddCommand(configurationShowCmd)
	configurationShowCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}
