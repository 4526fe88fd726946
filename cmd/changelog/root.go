package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Keep a Changelog parser and validator",
	Long: `A tool for parsing and validating Keep a Changelog formatted markdown files.

Used by the vault release flow: validate gates CI on CHANGELOG.md,
extract produces the release notes for a tagged version, and render
turns an entry into HTML for the release page.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
