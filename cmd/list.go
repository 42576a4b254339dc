package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/marcus/docview/internal/output"
)

var listCmd = &cobra.Command{
	Use:     "list <manifest.json>...",
	Aliases: []string{"ls"},
	Short:   "List documents by directory",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := loadDocuments(args)
		if err != nil {
			return err
		}

		entries := make([]output.DocumentEntry, len(docs))
		for i, d := range docs {
			entries[i] = output.DocumentEntry{
				Dir:       filepath.Dir(d.Manifest.Path),
				Label:     fmt.Sprintf("%s (%s)", d.Manifest.DisplayTitle(), filepath.Base(d.Manifest.Path)),
				Protected: d.Manifest.Protected(),
			}
		}
		for _, line := range output.RenderTreeLines(output.GroupByDir(entries)) {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
