package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/startpage/internal/domain"
)

var (
	linkTitle       string
	linkURL         string
	linkIcon        string
	linkDescription string
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Add, edit or delete links",
}

var linkAddCmd = &cobra.Command{
	Use:   "add <category-id> <title> <url>",
	Short: "Append a link to a category",
	Long: `Append a link to a category. Without --icon the icon is the site favicon.

Examples:
  startpage-cli link add c1 GitHub https://github.com
  startpage-cli link add c1 Notes https://notes.example.com --description "team wiki"`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		edit := domain.AddLink{
			CategoryID: args[0],
			Link: domain.Link{
				Title:       args[1],
				URL:         args[2],
				Icon:        linkIcon,
				Description: linkDescription,
			},
		}
		return applyEdit(edit, fmt.Sprintf("added %s", args[1]))
	},
}

var linkEditCmd = &cobra.Command{
	Use:   "edit <category-id> <link-id>",
	Short: "Change the fields of a link",
	Long: `Change the fields of a link. Only the flags given are changed.

Examples:
  startpage-cli link edit c1 l2 --title "Bilibili TV"
  startpage-cli link edit c1 l2 --url https://bilibili.tv --icon ""`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		link, err := findLink(args[0], args[1])
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("title") {
			link.Title = linkTitle
		}
		if flags.Changed("url") {
			link.URL = linkURL
		}
		if flags.Changed("icon") {
			link.Icon = linkIcon
		}
		if flags.Changed("description") {
			link.Description = linkDescription
		}

		return applyEdit(domain.EditLink{CategoryID: args[0], Link: link}, fmt.Sprintf("updated %s", link.Title))
	},
}

var linkDeleteCmd = &cobra.Command{
	Use:     "delete <category-id> <link-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a link",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyEdit(domain.DeleteLink{CategoryID: args[0], LinkID: args[1]}, "link deleted")
	},
}

func findLink(categoryID, linkID string) (domain.Link, error) {
	doc := session.Document()
	i := doc.CategoryIndex(categoryID)
	if i < 0 {
		return domain.Link{}, fmt.Errorf("%w: %s", domain.ErrCategoryNotFound, categoryID)
	}
	for _, l := range doc.Categories[i].Items {
		if l.ID == linkID {
			return l, nil
		}
	}
	return domain.Link{}, fmt.Errorf("%w: %s", domain.ErrLinkNotFound, linkID)
}

func init() {
	rootCmd.AddCommand(linkCmd)
	linkCmd.AddCommand(linkAddCmd)
	linkCmd.AddCommand(linkEditCmd)
	linkCmd.AddCommand(linkDeleteCmd)

	for _, c := range []*cobra.Command{linkAddCmd, linkEditCmd} {
		c.Flags().StringVar(&linkIcon, "icon", "", "icon URL (favicon when empty)")
		c.Flags().StringVar(&linkDescription, "description", "", "short description")
	}
	linkEditCmd.Flags().StringVar(&linkTitle, "title", "", "new title")
	linkEditCmd.Flags().StringVar(&linkURL, "url", "", "new URL")
}
