package main

import (
	"github.com/spf13/cobra"

	"github.com/savaslabs/drupal-editor-agent/internal/terminal"
)

func newUpdateTermCmd() *cobra.Command {
	var (
		field  string
		value  string
		reason string
	)

	cmd := &cobra.Command{
		Use:   "update-term <tid>",
		Short: "Record a change proposal for a taxonomy term",
		Long: `Record a change proposal for a taxonomy term.

Core taxonomy terms do not carry revisions, so there is no way to stage
a reviewable edit. The proposal is written to the changelog for a human
to apply by hand; the term itself is never modified.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx, cancel := commandContext(logger)
			defer cancel()

			tid, err := parseID("tid", args[0])
			if err != nil {
				return fail(logger, err)
			}

			s, err := newSession(cmd, logger)
			if err != nil {
				return err
			}

			proposal, err := s.client.ProposeTermChange(ctx, tid, field, value, reason)
			if err != nil {
				return s.finish(ctx, err)
			}

			logger.Logf(terminal.StyleSuccess,
				"Recorded proposal for %s: %s %q -> %q (terms are not revisioned, apply by hand)",
				proposal.Ref, proposal.Field,
				terminal.Truncate(proposal.OldValue, 40), terminal.Truncate(proposal.NewValue, 40))
			return s.finish(ctx, nil)
		},
	}

	cmd.Flags().StringVarP(&field, "field", "f", "name",
		"Machine name of the term field")
	cmd.Flags().StringVar(&value, "value", "",
		"Proposed new value")
	cmd.Flags().StringVarP(&reason, "reason", "m", "",
		"Why the change is proposed")
	_ = cmd.MarkFlagRequired("value")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}
