package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/startpage/internal/domain"
)

var (
	categoryTitle string
	categoryIcon  string
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"cat"},
	Short:   "Add, edit, delete or reorder categories",
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Append an empty category",
	Long: fmt.Sprintf(`Append an empty category. Unknown icons fall back to %s.

Known icons: %s`, domain.DefaultIcon, strings.Join(domain.Icons, ", ")),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyEdit(domain.AddCategory{Title: args[0], IconName: categoryIcon}, fmt.Sprintf("added category %s", args[0]))
	},
}

var categoryEditCmd = &cobra.Command{
	Use:   "edit <category-id>",
	Short: "Rename a category or change its icon",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc := session.Document()
		i := doc.CategoryIndex(args[0])
		if i < 0 {
			return fmt.Errorf("%w: %s", domain.ErrCategoryNotFound, args[0])
		}

		edit := domain.EditCategory{ID: args[0], Title: doc.Categories[i].Title, IconName: doc.Categories[i].IconName}
		if cmd.Flags().Changed("title") {
			edit.Title = categoryTitle
		}
		if cmd.Flags().Changed("icon") {
			edit.IconName = categoryIcon
		}
		return applyEdit(edit, fmt.Sprintf("updated category %s", edit.Title))
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:     "delete <category-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a category and all of its links",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyEdit(domain.DeleteCategory{ID: args[0]}, "category deleted")
	},
}

var categoryMoveCmd = &cobra.Command{
	Use:   "move <category-id> <up|down>",
	Short: "Swap a category with its neighbour",
	Long: `Swap a category with the one above or below it. Moving the first
category up or the last one down changes nothing.

Examples:
  startpage-cli category move c2 up`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := domain.ParseDirection(args[1])
		if err != nil {
			return err
		}
		i := session.Document().CategoryIndex(args[0])
		if i < 0 {
			return fmt.Errorf("%w: %s", domain.ErrCategoryNotFound, args[0])
		}
		return applyEdit(domain.MoveCategory{Index: i, Direction: dir}, fmt.Sprintf("moved %s %s", args[0], dir))
	},
}

func init() {
	rootCmd.AddCommand(categoryCmd)
	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryEditCmd)
	categoryCmd.AddCommand(categoryDeleteCmd)
	categoryCmd.AddCommand(categoryMoveCmd)

	for _, c := range []*cobra.Command{categoryAddCmd, categoryEditCmd} {
		c.Flags().StringVar(&categoryIcon, "icon", domain.DefaultIcon, "icon name")
	}
	categoryEditCmd.Flags().StringVar(&categoryTitle, "title", "", "new title")
}
