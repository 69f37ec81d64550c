package cmd

import (
	"github.com/spf13/cobra"
)

var passwdCmd = &cobra.Command{
	Use:   "passwd <new-password>",
	Short: "Change the admin password",
	Long: `Change the admin password. The current one is given with --password.
The new password must be at least 4 characters long.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAdmin(); err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		if err := session.ChangePassword(ctx, args[0]); err != nil {
			return explainSave(err)
		}
		ok("password changed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(passwdCmd)
}
