package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/syncclient"
	"github.com/MrSnakeDoc/startpage/internal/version"
)

var (
	serverURL string
	password  string
	timeout   time.Duration
	verbose   bool

	remote  *syncclient.HTTPRemote
	session *syncclient.Session
	loadErr error
)

var rootCmd = &cobra.Command{
	Use:   "startpage-cli",
	Short: "Command-line client for a startpage server",
	Long: `startpage-cli reads and edits the start page document of a running
startpage server.

Every edit is applied locally, then pushed as a whole document with the
admin password. A rejected push reloads the server state.`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		log := logger.Nop()
		if verbose {
			log = logger.New("debug", true)
		}

		remote = syncclient.NewHTTPRemote(serverURL, &http.Client{Timeout: timeout})
		session = syncclient.New(remote, log)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if loadErr = session.Load(ctx); loadErr != nil {
			warn("could not load the document from %s, showing defaults: %v", serverURL, loadErr)
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, failure.Sprint("error: ")+err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", envOr("STARTPAGE_SERVER", "http://localhost:3000"), "startpage server URL")
	rootCmd.PersistentFlags().StringVarP(&password, "password", "p", os.Getenv("STARTPAGE_PASSWORD"), "admin password (required for edits)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "timeout of each server call")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log client activity")
}

// requireAdmin enters admin mode. Edits are refused when the document
// could not be loaded, so the seed is never pushed over a stored document.
func requireAdmin() error {
	if loadErr != nil {
		return fmt.Errorf("document not loaded: %w", loadErr)
	}
	if password == "" {
		return errors.New("admin password required (--password or STARTPAGE_PASSWORD)")
	}
	if !session.Login(password) {
		return domain.ErrUnauthorized
	}
	return nil
}

// commandContext bounds one command, pushes included.
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// applyEdit runs edit through the session and reports a rejected push.
func applyEdit(edit domain.Edit, done string) error {
	if err := requireAdmin(); err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()

	if err := session.Apply(ctx, edit); err != nil {
		return explainSave(err)
	}
	ok("%s", done)
	return nil
}

func explainSave(err error) error {
	if syncclient.IsSaveError(err) {
		warn("the server rejected the change, local state was reloaded")
	}
	return err
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
