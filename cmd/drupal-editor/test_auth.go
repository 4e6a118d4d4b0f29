package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/savaslabs/drupal-editor-agent/internal/terminal"
)

func newTestAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test-auth",
		Short: "Verify credentials and site access",
		Long: `Authenticate with the selected method and probe the site.

Succeeds only when the credentials are accepted and the site responds to
an admin-level request.`,
		Args:          cobra.NoArgs,
		RunE:          runTestAuth,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func runTestAuth(cmd *cobra.Command, _ []string) error {
	logger := newLogger()
	ctx, cancel := commandContext(logger)
	defer cancel()

	s, err := newSession(cmd, logger)
	if err != nil {
		return err
	}

	provider := s.client.Provider()

	spinCtx, spinDone := context.WithCancel(ctx)
	go terminal.NewPhaseSpinner("Authenticating via " + provider.Method()).Run(spinCtx)
	err = provider.Authenticate(ctx)
	spinDone()
	if err != nil {
		return s.finish(ctx, err)
	}

	if err := provider.Probe(ctx); err != nil {
		return s.finish(ctx, err)
	}

	siteURL, err := provider.SiteURL(ctx)
	if err != nil {
		return s.finish(ctx, err)
	}

	logger.Logf(terminal.StyleSuccess, "Authenticated (%s): %s", provider.Method(), siteURL)
	return s.finish(ctx, nil)
}
