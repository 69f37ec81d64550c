package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/startpage/internal/syncclient"
	"github.com/MrSnakeDoc/startpage/internal/utils"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the document as a JSON backup",
	Long: `Write the document as a JSON backup that import can restore.
The default file name is flatnav-backup-YYYY-MM-DD.json; use -o - for stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if loadErr != nil {
			return fmt.Errorf("document not loaded: %w", loadErr)
		}
		if exportOutput == "-" {
			return session.Export(os.Stdout)
		}

		name := exportOutput
		if name == "" {
			name = syncclient.ExportFilename(time.Now())
		}
		f, err := os.Create(name)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}
		defer utils.Close(f)

		if err := session.Export(f); err != nil {
			return err
		}
		if err := f.Sync(); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		ok("exported to %s", name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file, - for stdout")
}
