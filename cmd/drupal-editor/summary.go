package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/savaslabs/drupal-editor-agent/internal/config"
	"github.com/savaslabs/drupal-editor-agent/internal/domain"
	"github.com/savaslabs/drupal-editor-agent/internal/terminal"
	"github.com/savaslabs/drupal-editor-agent/internal/tracking"
)

func newSummaryCmd() *cobra.Command {
	var (
		changelogPath string
		markdown      bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Render the summary of a saved session changelog",
		Long: `Render the summary of a saved session changelog.

The changelog path comes from --changelog or the changelog_path config
key. Use --markdown for output ready to paste into an issue or PR.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()

			path := changelogPath
			if path == "" && !noConfig {
				result, err := config.LoadWithWarnings()
				if err != nil {
					logger.Logf(terminal.StyleError, "Config error: %v", err)
					return exitCode(domain.ExitConfiguration)
				}
				if result.Config != nil && result.Config.ChangelogPath != nil {
					path = *result.Config.ChangelogPath
				}
			}
			if path == "" {
				return fail(logger, &domain.ConfigurationError{
					Reason: "no changelog path: pass --changelog or set changelog_path in .drupal-editor.yaml",
				})
			}

			log, err := tracking.Load(path)
			if err != nil {
				return fail(logger, err)
			}

			if markdown {
				fmt.Print(tracking.RenderMarkdown(log))
				return nil
			}
			fmt.Println(tracking.RenderSummary(log))
			return nil
		},
	}

	cmd.Flags().StringVar(&changelogPath, "changelog", "",
		"Path to a saved changelog JSON file")
	cmd.Flags().BoolVar(&markdown, "markdown", false,
		"Render as markdown instead of the terminal report")

	return cmd
}
