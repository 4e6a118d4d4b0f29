package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/savaslabs/drupal-editor-agent/internal/domain"
	"github.com/savaslabs/drupal-editor-agent/internal/terminal"
)

// Compile-time interface check
var (
	_ Provider       = (*TerminusProvider)(nil)
	_ AltTextUpdater = (*TerminusProvider)(nil)
)

// TerminusConfig configures the CLI-bridge provider.
type TerminusConfig struct {
	// Site is the Pantheon site name, e.g. "savas-labs".
	Site string
	// Env is the target environment: "live", "dev", "test", or a multidev name.
	Env string
	// MachineToken authenticates `terminus auth:login` when no system-level
	// session exists.
	MachineToken string
	// CommandTimeout bounds each terminus invocation.
	CommandTimeout time.Duration
	// Retry controls bounded retries for transient channel failures.
	Retry RetryConfig

	Logger *terminal.Logger
}

// TerminusProvider issues content operations over Pantheon's Terminus CLI,
// using Drush php:eval as the execution channel.
type TerminusProvider struct {
	cfg           TerminusConfig
	authenticated bool
	siteURL       string
}

// NewTerminusProvider creates a Terminus-backed provider.
func NewTerminusProvider(cfg TerminusConfig) *TerminusProvider {
	if cfg.Env == "" {
		cfg.Env = "live"
	}
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = 120 * time.Second
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = DefaultRetryConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = terminal.NewLogger()
	}
	return &TerminusProvider{cfg: cfg}
}

// Method returns the provider identifier.
func (p *TerminusProvider) Method() string {
	return MethodTerminus
}

// siteEnv returns the site.env target string for terminus commands.
func (p *TerminusProvider) siteEnv() string {
	return p.cfg.Site + "." + p.cfg.Env
}

// Authenticate establishes a Terminus session. A system-level session
// (`terminus auth:login` run previously) is honored; otherwise the machine
// token is required.
func (p *TerminusProvider) Authenticate(ctx context.Context) error {
	if _, err := exec.LookPath("terminus"); err != nil {
		return &domain.ConfigurationError{Reason: "terminus CLI not found in PATH"}
	}
	if p.cfg.Site == "" {
		return &domain.ConfigurationError{Reason: "no Pantheon site specified (--site or PANTHEON_SITE)"}
	}

	whoami, err := runCommand(ctx, p.cfg.CommandTimeout, "terminus", "auth:whoami")
	if err == nil && whoami.Success() && strings.TrimSpace(whoami.Stdout) != "" {
		p.cfg.Logger.Debugf("already authenticated as %s", strings.TrimSpace(whoami.Stdout))
		p.authenticated = true
		return nil
	}

	if p.cfg.MachineToken == "" {
		return &domain.AuthenticationError{
			Method: MethodTerminus,
			Reason: "not authenticated and PANTHEON_MACHINE_TOKEN not set",
		}
	}

	p.cfg.Logger.Log("Authenticating with Pantheon...", terminal.StyleInfo)
	login, err := runCommand(ctx, p.cfg.CommandTimeout, "terminus", "auth:login", "--machine-token", p.cfg.MachineToken)
	if err != nil {
		return &domain.AuthenticationError{Method: MethodTerminus, Reason: err.Error()}
	}
	if !login.Success() {
		return &domain.AuthenticationError{
			Method: MethodTerminus,
			Reason: strings.TrimSpace(login.Stderr),
		}
	}

	p.authenticated = true
	return nil
}

// Probe confirms the Drush channel works end to end.
func (p *TerminusProvider) Probe(ctx context.Context) error {
	return Retry(ctx, p.cfg.Retry, func() error {
		_, err := p.drush(ctx, "probe", "status", "--format=json")
		return err
	})
}

// drush runs a Drush command via terminus: terminus drush site.env -- <args>.
// Non-zero exits are classified against the error taxonomy; operation names
// label the failure for classification and logging.
func (p *TerminusProvider) drush(ctx context.Context, operation string, args ...string) (commandResult, error) {
	if !p.authenticated {
		if err := p.Authenticate(ctx); err != nil {
			return commandResult{}, err
		}
	}

	cmdArgs := append([]string{"drush", p.siteEnv(), "--"}, args...)
	p.cfg.Logger.Debugf("$ terminus %s", strings.Join(cmdArgs, " "))

	result, err := runCommand(ctx, p.cfg.CommandTimeout, "terminus", cmdArgs...)
	if err != nil {
		return result, &domain.TransientIOError{Op: operation, Err: err}
	}
	if !result.Success() {
		return result, classifyCommandFailure(operation, result.Stderr,
			fmt.Errorf("drush %s failed: %s", operation, strings.TrimSpace(result.Stderr)))
	}
	return result, nil
}

// phpEval executes a PHP snippet on the target site and returns its output.
func (p *TerminusProvider) phpEval(ctx context.Context, operation, code string) (string, error) {
	result, err := p.drush(ctx, operation, "php:eval", wrapPHP(code))
	if err != nil {
		return "", err
	}
	return result.Stdout, nil
}

// Entity fetches identity and moderation state for a content record.
func (p *TerminusProvider) Entity(ctx context.Context, ref domain.EntityRef) (*domain.Entity, error) {
	var out string
	err := Retry(ctx, p.cfg.Retry, func() error {
		var evalErr error
		out, evalErr = p.phpEval(ctx, "get "+ref.String(), loadEntitySnippet(ref))
		return evalErr
	})
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(out)
	if trimmed == "" || trimmed == "null" {
		return nil, &domain.NotFoundError{Target: ref.String()}
	}

	var payload struct {
		ID              int    `json:"id"`
		UUID            string `json:"uuid"`
		Bundle          string `json:"bundle"`
		Label           string `json:"label"`
		Published       *bool  `json:"published"`
		ModerationState string `json:"moderation_state"`
	}
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return nil, fmt.Errorf("invalid response for %s: %w", ref, err)
	}

	entity := &domain.Entity{
		Ref:             ref,
		UUID:            payload.UUID,
		Bundle:          payload.Bundle,
		Title:           payload.Label,
		ModerationState: payload.ModerationState,
		Fields:          map[string]string{},
	}
	if payload.Published != nil {
		entity.Published = *payload.Published
	}
	return entity, nil
}

// FieldValue fetches the current raw value of one field.
func (p *TerminusProvider) FieldValue(ctx context.Context, ref domain.EntityRef, field string) (string, error) {
	var out string
	err := Retry(ctx, p.cfg.Retry, func() error {
		var evalErr error
		out, evalErr = p.phpEval(ctx, "read "+ref.String(), fieldValueSnippet(ref, field))
		return evalErr
	})
	if err != nil {
		return "", err
	}

	var payload struct {
		Found    bool   `json:"found"`
		HasField bool   `json:"has_field"`
		Value    string `json:"value"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &payload); err != nil {
		return "", fmt.Errorf("invalid response for %s: %w", ref, err)
	}
	if !payload.Found {
		return "", &domain.NotFoundError{Target: ref.String()}
	}
	if !payload.HasField {
		return "", fmt.Errorf("%s has no field %q", ref, field)
	}
	return payload.Value, nil
}

// StageRevision submits the changes as a new unpublished revision. The
// currently published revision is left untouched; the returned review URL
// points at the specific new revision.
func (p *TerminusProvider) StageRevision(ctx context.Context, ref domain.EntityRef, changes map[string]string, reason, state string) (*domain.Revision, error) {
	snippet, err := stageRevisionSnippet(ref, changes, reason, state)
	if err != nil {
		return nil, err
	}

	var out string
	err = Retry(ctx, p.cfg.Retry, func() error {
		var evalErr error
		out, evalErr = p.phpEval(ctx, "stage "+ref.String(), snippet)
		return evalErr
	})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Success         bool   `json:"success"`
		Error           string `json:"error"`
		ID              int    `json:"id"`
		RevisionID      int    `json:"revision_id"`
		ModerationState string `json:"moderation_state"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &payload); err != nil {
		return nil, fmt.Errorf("invalid response for %s: %w", ref, err)
	}
	if !payload.Success {
		if strings.Contains(payload.Error, "not found") {
			return nil, &domain.NotFoundError{Target: ref.String()}
		}
		return nil, fmt.Errorf("failed to stage revision for %s: %s", ref, payload.Error)
	}

	siteURL, err := p.SiteURL(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.Revision{
		Ref:             ref,
		RevisionID:      payload.RevisionID,
		ModerationState: payload.ModerationState,
		ReviewURL:       siteURL + ref.RevisionPath(payload.RevisionID),
		Reason:          reason,
	}, nil
}

// UpdateMediaAlt updates the alt text on a media entity's source image
// field, revisioned when the media type supports it.
func (p *TerminusProvider) UpdateMediaAlt(ctx context.Context, mid int, alt, reason string) (*domain.Revision, error) {
	ref := domain.MediaRef(mid)

	var out string
	err := Retry(ctx, p.cfg.Retry, func() error {
		var evalErr error
		out, evalErr = p.phpEval(ctx, "update "+ref.String(), mediaAltSnippet(mid, alt, reason))
		return evalErr
	})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Success    bool   `json:"success"`
		Error      string `json:"error"`
		ID         int    `json:"id"`
		RevisionID int    `json:"revision_id"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &payload); err != nil {
		return nil, fmt.Errorf("invalid response for %s: %w", ref, err)
	}
	if !payload.Success {
		if strings.Contains(payload.Error, "not found") {
			return nil, &domain.NotFoundError{Target: ref.String()}
		}
		return nil, fmt.Errorf("failed to update alt text for %s: %s", ref, payload.Error)
	}

	siteURL, err := p.SiteURL(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.Revision{
		Ref:        ref,
		RevisionID: payload.RevisionID,
		ReviewURL:  fmt.Sprintf("%s/media/%d/edit", siteURL, mid),
		Reason:     reason,
	}, nil
}

// SiteURL resolves the environment URL, falling back to the predictable
// pantheonsite.io address when `terminus env:view` is unavailable.
func (p *TerminusProvider) SiteURL(ctx context.Context) (string, error) {
	if p.siteURL != "" {
		return p.siteURL, nil
	}

	result, err := runCommand(ctx, p.cfg.CommandTimeout, "terminus", "env:view", p.siteEnv(), "--print")
	if err == nil && result.Success() && strings.TrimSpace(result.Stdout) != "" {
		p.siteURL = strings.TrimRight(strings.TrimSpace(result.Stdout), "/")
		return p.siteURL, nil
	}

	p.siteURL = fmt.Sprintf("https://%s-%s.pantheonsite.io", p.cfg.Env, p.cfg.Site)
	return p.siteURL, nil
}

// Close releases the provider. The Terminus channel holds no exclusive
// resources, so this is a no-op.
func (p *TerminusProvider) Close() error {
	return nil
}
