package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/savaslabs/drupal-editor-agent/internal/auth"
	"github.com/savaslabs/drupal-editor-agent/internal/client"
	"github.com/savaslabs/drupal-editor-agent/internal/config"
	"github.com/savaslabs/drupal-editor-agent/internal/domain"
	"github.com/savaslabs/drupal-editor-agent/internal/terminal"
	"github.com/savaslabs/drupal-editor-agent/internal/tracking"
)

// exitCodeError is a wrapper type for returning exit codes via error interface.
type exitCodeError struct {
	code domain.ExitCode
}

func (e exitCodeError) Error() string {
	switch e.code {
	case domain.ExitConfiguration:
		return "configuration error"
	case domain.ExitAuthentication:
		return "authentication failed"
	case domain.ExitAuthorization:
		return "not authorized"
	case domain.ExitNotFound:
		return "content not found"
	case domain.ExitNoMatch:
		return "find text not present"
	case domain.ExitForbiddenTransition:
		return "transition requires a human"
	case domain.ExitTransient:
		return "transient failure persisted through retries"
	case domain.ExitInterrupted:
		return "interrupted"
	default:
		return fmt.Sprintf("exit code %d", e.code)
	}
}

func exitCode(code domain.ExitCode) error {
	if code == domain.ExitOK {
		return nil
	}
	return exitCodeError{code: code}
}

// fail logs err and converts it to its category exit code.
func fail(logger *terminal.Logger, err error) error {
	logger.Logf(terminal.StyleError, "%v", err)
	return exitCode(domain.CodeFor(err))
}

// newLogger prepares a logger honoring --verbose and non-TTY output.
func newLogger() *terminal.Logger {
	if !terminal.IsStdoutTTY() {
		terminal.DisableColors()
	}
	logger := terminal.NewLogger()
	logger.SetVerbose(verbose)
	return logger
}

// commandContext returns a context cancelled on SIGINT or SIGTERM.
func commandContext(logger *terminal.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr)
		logger.Log("Interrupted, shutting down...", terminal.StyleWarning)
		cancel()
	}()

	return ctx, cancel
}

// session bundles what a subcommand needs once configuration is resolved.
type session struct {
	logger   *terminal.Logger
	resolved config.Resolved
	client   *client.Client
}

// newSession loads configuration, resolves precedence, selects the auth
// provider, and builds the client with a fresh changelog.
func newSession(cmd *cobra.Command, logger *terminal.Logger) (*session, error) {
	var cfg *config.Config
	if !noConfig {
		result, err := config.LoadWithWarnings()
		if err != nil {
			logger.Logf(terminal.StyleError, "Config error: %v", err)
			return nil, exitCode(domain.ExitConfiguration)
		}
		cfg = result.Config
		for _, warning := range result.Warnings {
			logger.Logf(terminal.StyleWarning, "Warning: %s", warning)
		}
	}

	flagState := config.FlagState{
		SiteSet:    cmd.Flags().Changed("site"),
		EnvSet:     cmd.Flags().Changed("env"),
		TimeoutSet: cmd.Flags().Changed("timeout"),
		RetriesSet: cmd.Flags().Changed("retries"),
	}
	flagValues := config.Resolved{
		Site:           site,
		Env:            envName,
		CommandTimeout: timeout,
		Retries:        retries,
	}
	resolved := config.Resolve(cfg, config.LoadEnvState(), flagState, flagValues)

	provider, err := auth.Select(authMethod, resolved, logger)
	if err != nil {
		return nil, fail(logger, err)
	}
	logger.Debugf("using %s auth", provider.Method())

	c := client.New(provider, tracking.NewChangeLog(),
		client.WithSuggestionState(resolved.ModerationState))

	return &session{logger: logger, resolved: resolved, client: c}, nil
}

// finish releases the provider, reports the session, and converts err into
// the process exit status. Interruption wins over other failures.
func (s *session) finish(ctx context.Context, err error) error {
	_ = s.client.Close()

	log := s.client.Changelog()
	if log.Attempted() > 0 {
		fmt.Println(tracking.RenderSummary(log))
	}
	if s.resolved.ChangelogPath != "" {
		if serr := log.Save(s.resolved.ChangelogPath); serr != nil {
			s.logger.Logf(terminal.StyleWarning, "Could not save changelog: %v", serr)
		} else {
			s.logger.Debugf("changelog saved: %s", s.resolved.ChangelogPath)
		}
	}

	if ctx.Err() != nil {
		return exitCode(domain.ExitInterrupted)
	}
	if err != nil {
		return fail(s.logger, err)
	}
	return nil
}

// parseID parses a positional numeric entity ID.
func parseID(kind, arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, &domain.ConfigurationError{
			Reason: fmt.Sprintf("invalid %s %q, expected a positive integer", kind, arg),
		}
	}
	return id, nil
}

// resolveNID returns the target node ID from --nid or a positional argument.
func resolveNID(cmd *cobra.Command, args []string, nid int) (int, error) {
	if cmd.Flags().Changed("nid") {
		if nid <= 0 {
			return 0, &domain.ConfigurationError{
				Reason: fmt.Sprintf("invalid --nid %d, expected a positive integer", nid),
			}
		}
		return nid, nil
	}
	if len(args) == 1 {
		return parseID("nid", args[0])
	}
	return 0, &domain.ConfigurationError{
		Reason: "node ID required: pass --nid or a positional id",
	}
}

// parseFieldArgs parses repeated "field=value" pairs.
func parseFieldArgs(pairs []string) (map[string]string, error) {
	changes := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		field, value, ok := strings.Cut(pair, "=")
		if !ok || field == "" {
			return nil, &domain.ConfigurationError{
				Reason: fmt.Sprintf("invalid --set %q, expected field=value", pair),
			}
		}
		changes[field] = value
	}
	return changes, nil
}
