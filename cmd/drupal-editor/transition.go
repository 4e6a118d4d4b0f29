package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/savaslabs/drupal-editor-agent/internal/domain"
	"github.com/savaslabs/drupal-editor-agent/internal/moderation"
	"github.com/savaslabs/drupal-editor-agent/internal/terminal"
)

func newTransitionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transition <nid> <name>",
		Short: "Request a moderation transition on a node",
		Long: fmt.Sprintf(`Request a moderation transition on a node.

The agent may only request %q, which re-stages the current content as a
suggestion revision. Accepting, rejecting, and publishing are human-only
transitions performed in the Drupal admin UI; requesting one fails with
exit code 7.

Known transitions: %s`,
			moderation.TransitionSuggest, strings.Join(moderation.TransitionNames(), ", ")),
		Args:          cobra.ExactArgs(2),
		RunE:          runTransition,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func runTransition(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	ctx, cancel := commandContext(logger)
	defer cancel()

	nid, err := parseID("nid", args[0])
	if err != nil {
		return fail(logger, err)
	}

	s, err := newSession(cmd, logger)
	if err != nil {
		return err
	}

	revision, err := s.client.RequestTransition(ctx, domain.NodeRef(nid), args[1])
	if err != nil {
		return s.finish(ctx, err)
	}

	logger.Logf(terminal.StyleSuccess, "Staged %s for review: %s",
		revision.Ref, revision.ReviewURL)
	return s.finish(ctx, nil)
}
