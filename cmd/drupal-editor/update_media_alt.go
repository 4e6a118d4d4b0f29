package main

import (
	"github.com/spf13/cobra"

	"github.com/savaslabs/drupal-editor-agent/internal/terminal"
)

func newUpdateMediaAltCmd() *cobra.Command {
	var (
		alt    string
		reason string
	)

	cmd := &cobra.Command{
		Use:   "update-media-alt <mid>",
		Short: "Update the alt text on a media item's source image",
		Long: `Update the alt text on a media item's source image field.

Staged as a new revision when the media type supports revisions.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx, cancel := commandContext(logger)
			defer cancel()

			mid, err := parseID("mid", args[0])
			if err != nil {
				return fail(logger, err)
			}

			s, err := newSession(cmd, logger)
			if err != nil {
				return err
			}

			revision, err := s.client.UpdateMediaAlt(ctx, mid, alt, reason)
			if err != nil {
				return s.finish(ctx, err)
			}

			logger.Logf(terminal.StyleSuccess, "Updated alt text on %s: %s",
				revision.Ref, revision.ReviewURL)
			return s.finish(ctx, nil)
		},
	}

	cmd.Flags().StringVar(&alt, "alt", "",
		"New alt text")
	cmd.Flags().StringVarP(&reason, "reason", "m", "",
		"Revision log message explaining the change")
	_ = cmd.MarkFlagRequired("alt")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}
