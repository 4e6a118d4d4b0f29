package main

import (
	"github.com/spf13/cobra"

	"github.com/savaslabs/drupal-editor-agent/internal/terminal"
)

func newFindReplaceCmd() *cobra.Command {
	var (
		nid     int
		field   string
		find    string
		replace string
		reason  string
	)

	cmd := &cobra.Command{
		Use:   "find-replace [nid]",
		Short: "Replace text in a node field and stage the result",
		Long: `Replace every occurrence of the find text in a node field and stage
the result as a suggestion revision.

Fails with exit code 6 when the find text is not present, without
creating a revision.`,
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

			s, err := newSession(cmd, logger)
			if err != nil {
				return err
			}

			revision, err := s.client.FindReplaceNode(ctx, id, field, find, replace, reason)
			if err != nil {
				return s.finish(ctx, err)
			}

			logger.Logf(terminal.StyleSuccess, "Staged revision on %s for review: %s",
				revision.Ref, revision.ReviewURL)
			return s.finish(ctx, nil)
		},
	}

	cmd.Flags().IntVar(&nid, "nid", 0,
		"Node ID to edit")
	cmd.Flags().StringVarP(&field, "field", "f", "body",
		"Machine name of the field to edit")
	cmd.Flags().StringVar(&find, "find", "",
		"Text to find (exact match)")
	cmd.Flags().StringVar(&replace, "replace", "",
		"Replacement text")
	cmd.Flags().StringVarP(&reason, "reason", "m", "Ava: Text replacement",
		"Revision log message explaining the change")
	_ = cmd.MarkFlagRequired("find")

	return cmd
}
