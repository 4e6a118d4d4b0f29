package main

import (
	"github.com/spf13/cobra"

	"github.com/savaslabs/drupal-editor-agent/internal/domain"
	"github.com/savaslabs/drupal-editor-agent/internal/terminal"
)

func newUpdateNodeCmd() *cobra.Command {
	var (
		nid      int
		field    string
		value    string
		setPairs []string
		reason   string
	)

	cmd := &cobra.Command{
		Use:   "update-node [nid]",
		Short: "Stage field changes on a node as an unpublished revision",
		Long: `Stage field changes on a node.

The changes land as a new revision in the suggestion moderation state.
The published revision is never modified; a human reviews and publishes
the suggestion in the Drupal admin UI.

A single change is --field body --value "new text". Multiple fields in
one revision use repeated --set field=value pairs.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx, cancel := commandContext(logger)
			defer cancel()

			id, err := resolveNID(cmd, args, nid)
			if err != nil {
				return fail(logger, err)
			}
			changes, err := parseFieldArgs(setPairs)
			if err != nil {
				return fail(logger, err)
			}
			if field != "" {
				changes[field] = value
			} else if cmd.Flags().Changed("value") {
				return fail(logger, &domain.ConfigurationError{
					Reason: "--value requires --field",
				})
			}
			if len(changes) == 0 {
				return fail(logger, &domain.ConfigurationError{
					Reason: "no changes: pass --field and --value, or --set field=value",
				})
			}

			s, err := newSession(cmd, logger)
			if err != nil {
				return err
			}

			revision, err := s.client.UpdateNode(ctx, id, changes, reason)
			if err != nil {
				return s.finish(ctx, err)
			}

			logger.Logf(terminal.StyleSuccess, "Staged revision on %s for review: %s",
				revision.Ref, revision.ReviewURL)
			return s.finish(ctx, nil)
		},
	}

	cmd.Flags().IntVar(&nid, "nid", 0,
		"Node ID to update")
	cmd.Flags().StringVarP(&field, "field", "f", "",
		"Machine name of the field to change")
	cmd.Flags().StringVar(&value, "value", "",
		"New value for --field")
	cmd.Flags().StringArrayVar(&setPairs, "set", nil,
		"Field change as field=value (repeatable)")
	cmd.Flags().StringVarP(&reason, "reason", "m", "Ava: Updated content",
		"Revision log message explaining the change")

	return cmd
}
