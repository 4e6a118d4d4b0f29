// Package main provides the CLI entry point for the Drupal content
// revision agent.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/savaslabs/drupal-editor-agent/internal/domain"
)

var (
	authMethod string
	site       string
	envName    string
	timeout    time.Duration
	retries    int
	verbose    bool
	noConfig   bool
)

func main() {
	os.Exit(run())
}

func run() int {
	// Credentials commonly live in a .env next to the working directory.
	// A missing file is not an error.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "drupal-editor",
		Short: "Stage reviewable edits to Drupal content",
		Long: `Stage non-destructive, reviewable edits to Drupal content.

Every change lands as a new unpublished revision in the "suggestion"
moderation state; publishing is always a human decision made in the
Drupal admin UI.

Auth is auto-detected: Terminus (PANTHEON_MACHINE_TOKEN + PANTHEON_SITE)
is preferred, browser automation (DRUPAL_BASE_URL + DRUPAL_USERNAME +
DRUPAL_PASSWORD) is the fallback.

Exit codes:
  0 - Success
  1 - Error
  2 - Configuration error
  3 - Authentication failed
  4 - Not authorized
  5 - Content not found
  6 - Find text not present
  7 - Transition requires a human
  8 - Transient I/O failure
  130 - Interrupted`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       buildVersionString(),
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&authMethod, "auth", "a", "",
		"Auth method: terminus or browser (default: auto-detect)")
	pf.StringVarP(&site, "site", "s", "",
		"Pantheon site machine name (env: PANTHEON_SITE)")
	pf.StringVarP(&envName, "env", "e", "",
		"Pantheon environment (default: live, env: PANTHEON_ENV)")
	pf.DurationVarP(&timeout, "timeout", "t", 0,
		"Timeout per remote command (default: 2m)")
	pf.IntVarP(&retries, "retries", "R", 0,
		"Retry transient failures N times (default: 3)")
	pf.BoolVarP(&verbose, "verbose", "v", false,
		"Print debug output")
	pf.BoolVar(&noConfig, "no-config", false,
		"Skip loading .drupal-editor.yaml config file")

	rootCmd.AddCommand(
		newTestAuthCmd(),
		newGetNodeCmd(),
		newUpdateNodeCmd(),
		newFindReplaceCmd(),
		newTransitionCmd(),
		newUpdateTermCmd(),
		newUpdateMediaAltCmd(),
		newSummaryCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		// Check if this is an exit code wrapper (not a real error)
		if exitErr, ok := err.(exitCodeError); ok {
			return exitErr.code.Int()
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return domain.ExitError.Int()
	}

	return 0
}
