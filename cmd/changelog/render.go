package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a version's changelog entry as HTML",
	Long: `Render the changelog content for a specific version as HTML,
suitable for release announcements.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		version, _ := cmd.Flags().GetString("version")

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		changelog, err := Parse(content)
		if err != nil {
			return fmt.Errorf("parsing changelog: %w", err)
		}

		entry := changelog.FindVersion(version)
		if entry == nil {
			return fmt.Errorf("version %s not found in changelog", version)
		}

		md := goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		)

		source := stripLinkDefinitions(entry.Content)
		var buf bytes.Buffer
		if err := md.Convert([]byte(source), &buf); err != nil {
			return fmt.Errorf("rendering changelog entry: %w", err)
		}

		fmt.Print(buf.String())
		return nil
	},
}

func init() {
	renderCmd.Flags().StringP("file", "f", "CHANGELOG.md", "Path to the changelog file")
	renderCmd.Flags().StringP("version", "v", "", "Version to render (with or without 'v' prefix)")
	_ = renderCmd.MarkFlagRequired("version")

	rootCmd.AddCommand(renderCmd)
}
