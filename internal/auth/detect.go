package auth

import (
	"fmt"

	"github.com/savaslabs/drupal-editor-agent/internal/config"
	"github.com/savaslabs/drupal-editor-agent/internal/domain"
	"github.com/savaslabs/drupal-editor-agent/internal/terminal"
)

// Select constructs the provider for the run. An explicitly requested
// method wins; otherwise detection checks Terminus credentials before
// browser credentials. The precedence is deterministic: when both
// credential sets are present, Terminus is selected.
func Select(method string, resolved config.Resolved, logger *terminal.Logger) (Provider, error) {
	switch method {
	case MethodTerminus:
		if resolved.Site == "" {
			return nil, &domain.ConfigurationError{
				Reason: "terminus auth requires a site (--site or PANTHEON_SITE)",
			}
		}
		return newTerminus(resolved, logger), nil

	case MethodBrowser:
		if resolved.BaseURL == "" || resolved.Username == "" || resolved.Password == "" {
			return nil, &domain.ConfigurationError{
				Reason: "browser auth requires DRUPAL_BASE_URL, DRUPAL_USERNAME and DRUPAL_PASSWORD",
			}
		}
		return newBrowser(resolved, logger), nil

	case "":
		// Terminus first: site plus either a machine token or an existing
		// terminus session is enough to prefer the CLI bridge.
		if resolved.Site != "" {
			return newTerminus(resolved, logger), nil
		}
		if resolved.BaseURL != "" && resolved.Username != "" && resolved.Password != "" {
			return newBrowser(resolved, logger), nil
		}
		return nil, &domain.ConfigurationError{
			Reason: "no auth configuration found: set PANTHEON_MACHINE_TOKEN + PANTHEON_SITE " +
				"or DRUPAL_BASE_URL + DRUPAL_USERNAME + DRUPAL_PASSWORD",
		}

	default:
		return nil, &domain.ConfigurationError{
			Reason: fmt.Sprintf("unknown auth method %q, supported: %s, %s", method, MethodTerminus, MethodBrowser),
		}
	}
}

func newTerminus(resolved config.Resolved, logger *terminal.Logger) *TerminusProvider {
	return NewTerminusProvider(TerminusConfig{
		Site:           resolved.Site,
		Env:            resolved.Env,
		MachineToken:   resolved.MachineToken,
		CommandTimeout: resolved.CommandTimeout,
		Retry:          DefaultRetryConfig().WithAttempts(resolved.Retries),
		Logger:         logger,
	})
}

func newBrowser(resolved config.Resolved, logger *terminal.Logger) *BrowserProvider {
	return NewBrowserProvider(BrowserConfig{
		BaseURL:        resolved.BaseURL,
		Username:       resolved.Username,
		Password:       resolved.Password,
		Headless:       resolved.Headless,
		LoginTimeout:   resolved.LoginTimeout,
		NavTimeout:     resolved.CommandTimeout,
		ScreenshotsDir: resolved.ScreenshotsDir,
		Logger:         logger,
	})
}
