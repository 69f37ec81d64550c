package cmd

import (
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every category and link",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc := session.Document()
		printCategories(doc.Categories)
		_, _ = muted.Printf("%d categories, %d links\n", len(doc.Categories), doc.LinkCount())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
