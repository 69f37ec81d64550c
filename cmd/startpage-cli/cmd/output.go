package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/MrSnakeDoc/startpage/internal/domain"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen)
	caution = color.New(color.FgYellow)
	failure = color.New(color.FgRed, color.Bold)
	muted   = color.New(color.FgHiBlack)
)

func ok(format string, args ...any) {
	_, _ = success.Println("✓ " + fmt.Sprintf(format, args...))
}

func warn(format string, args ...any) {
	_, _ = caution.Fprintln(os.Stderr, "! "+fmt.Sprintf(format, args...))
}

func printCategories(categories []domain.Category) {
	if len(categories) == 0 {
		_, _ = muted.Println("(nothing to show)")
		return
	}
	for i, c := range categories {
		_, _ = heading.Printf("%d. %s", i+1, c.Title)
		_, _ = muted.Printf("  [%s] %s\n", c.ID, c.IconName)
		for _, l := range c.Items {
			fmt.Printf("   - %s ", l.Title)
			_, _ = muted.Printf("%s [%s]\n", l.URL, l.ID)
		}
	}
}
