package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/syncclient"
)

var (
	importHomepage bool
	importYes      bool
)

// errImportDeclined is returned when a full replacement was not confirmed.
var errImportDeclined = errors.New("import cancelled: replacing the document needs confirmation (answer y or pass --yes)")

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a backup, a bookmark export or a Homepage config",
	Long: `Import a file into the start page.

- a JSON backup (from export) replaces the whole document, after a y/N
  prompt unless --yes is given
- a browser bookmark HTML export is appended, one category per folder
- with --homepage, a Homepage services.yaml or bookmarks.yaml is appended

Examples:
  startpage-cli import flatnav-backup-2026-10-17.json
  startpage-cli import --yes flatnav-backup-2026-10-17.json
  startpage-cli import bookmarks.html
  startpage-cli import --homepage services.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		if err := requireAdmin(); err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		var res syncclient.ImportResult
		if importHomepage {
			res, err = session.ImportHomepage(ctx, data)
		} else {
			edit, perr := syncclient.ParseImport(data)
			if perr != nil {
				return perr
			}
			if replace, isReplace := edit.(domain.ReplaceAll); isReplace && !importYes {
				question := fmt.Sprintf("Replace all %d categories with the %d from %s?",
					len(session.Document().Categories), len(replace.Document.Categories), args[0])
				if !confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), question) {
					return errImportDeclined
				}
			}
			res, err = session.Import(ctx, data)
		}
		if err != nil {
			return explainSave(err)
		}
		ok("%s: %d categories, %d links", res.Mode, res.Categories, res.Links)
		return nil
	},
}

// confirm asks a y/N question. Anything but y or yes, EOF included, is a no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	_, _ = fmt.Fprintf(out, "%s [y/N] ", caution.Sprint(question))
	answer, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolVar(&importHomepage, "homepage", false, "read a Homepage services.yaml or bookmarks.yaml")
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "replace the document without asking")
}
