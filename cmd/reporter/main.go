// Command reporter is a terminal front-end for the ChildGuard report form.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"childguard/backend/internal/apiclient"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	lang    string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "reporter",
	Short: "File and manage ChildGuard incident reports from a terminal",
	Long: `reporter walks a report through the same three steps as the mobile form
(perpetrator, incident, victim), shows the applicable laws for review, and
sends it to the ChildGuard backend.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", apiclient.DefaultBaseURL, "backend base URL")
	rootCmd.PersistentFlags().StringVar(&lang, "lang", "en", "message language (en, fil)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(signupCmd, loginCmd, logoutCmd, submitCmd, lawsCmd, resourcesCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		if errors.Is(err, errReported) {
			os.Exit(1)
		}
		os.Stderr.WriteString(errStyle.Render("Error: "+err.Error()) + "\n")
		os.Exit(1)
	}
}
