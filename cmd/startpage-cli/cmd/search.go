package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/startpage/internal/domain"
)

var searchEngine string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Filter links, or build a web search URL",
	Long: `Filter the links whose title or URL contains the query, or print the
search URL of a web engine.

Examples:
  startpage-cli search git
  startpage-cli search --engine baidu "go chi router"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := session.Search(strings.Join(args, " "), searchEngine)
		if err != nil {
			return err
		}
		if res.URL != "" {
			fmt.Println(res.URL)
			return nil
		}
		printCategories(res.Categories)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchEngine, "engine", "e", domain.EngineLocal,
		"local, google, bing or baidu")
}
