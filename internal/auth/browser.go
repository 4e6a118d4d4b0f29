package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/savaslabs/drupal-editor-agent/internal/domain"
	"github.com/savaslabs/drupal-editor-agent/internal/terminal"
)

// Compile-time interface checks
var (
	_ Provider       = (*BrowserProvider)(nil)
	_ AltTextUpdater = (*BrowserProvider)(nil)
)

// BrowserConfig configures the browser-automation provider.
type BrowserConfig struct {
	// BaseURL is the Drupal site URL, e.g. "https://savaslabs.com".
	BaseURL string
	// Username and Password are admin credentials for the standard
	// /user/login form.
	Username string
	Password string
	// Headless runs Chrome without a visible window.
	Headless bool
	// LoginTimeout bounds the interactive login flow. Exceeding it fails
	// authentication with a timeout error and releases the browser.
	LoginTimeout time.Duration
	// NavTimeout bounds each page navigation after login.
	NavTimeout time.Duration
	// ScreenshotsDir receives before/after screenshots for the audit trail.
	// Empty disables screenshots.
	ScreenshotsDir string

	Logger *terminal.Logger
}

// BrowserProvider drives a real browser session against the site's admin UI.
// It is the universal fallback: no hosting CLI or API access required, only
// an admin login. The session is an exclusive resource and must not be
// shared across concurrent clients.
type BrowserProvider struct {
	cfg           BrowserConfig
	lnch          *launcher.Launcher
	browser       *rod.Browser
	page          *rod.Page
	authenticated bool
}

// NewBrowserProvider creates a browser-automation provider.
func NewBrowserProvider(cfg BrowserConfig) *BrowserProvider {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.LoginTimeout <= 0 {
		cfg.LoginTimeout = 60 * time.Second
	}
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = terminal.NewLogger()
	}
	return &BrowserProvider{cfg: cfg}
}

// Method returns the provider identifier.
func (p *BrowserProvider) Method() string {
	return MethodBrowser
}

// Authenticate launches Chrome and completes the site's standard login flow.
// The whole flow is bounded by LoginTimeout; on failure the browser is
// released before returning.
func (p *BrowserProvider) Authenticate(ctx context.Context) error {
	if p.cfg.BaseURL == "" || p.cfg.Username == "" || p.cfg.Password == "" {
		return &domain.ConfigurationError{
			Reason: "DRUPAL_BASE_URL, DRUPAL_USERNAME and DRUPAL_PASSWORD are required for browser auth",
		}
	}

	loginCtx, cancel := context.WithTimeout(ctx, p.cfg.LoginTimeout)
	defer cancel()

	p.lnch = launcher.New().Headless(p.cfg.Headless)
	controlURL, err := p.lnch.Launch()
	if err != nil {
		p.release()
		return &domain.ConfigurationError{Reason: fmt.Sprintf("failed to launch browser: %v", err)}
	}

	p.browser = rod.New().ControlURL(controlURL)
	if err := p.browser.Connect(); err != nil {
		p.release()
		return p.loginFailure(loginCtx, fmt.Errorf("failed to connect to browser: %w", err))
	}

	page, err := stealth.Page(p.browser)
	if err != nil {
		p.release()
		return p.loginFailure(loginCtx, fmt.Errorf("failed to open page: %w", err))
	}
	p.page = page

	loginURL := p.cfg.BaseURL + "/user/login"
	p.cfg.Logger.Debugf("navigating to %s", loginURL)

	scoped := page.Context(loginCtx)
	if err := scoped.Navigate(loginURL); err != nil {
		p.release()
		return p.loginFailure(loginCtx, fmt.Errorf("failed to load login page: %w", err))
	}
	if err := scoped.WaitLoad(); err != nil {
		p.release()
		return p.loginFailure(loginCtx, fmt.Errorf("login page did not load: %w", err))
	}

	if err := p.fillLoginForm(scoped); err != nil {
		p.saveScreenshot("login_failed")
		p.release()
		return p.loginFailure(loginCtx, err)
	}

	// Success is a logout link or the admin toolbar on the landing page.
	loggedIn, _, err := scoped.Has(`a[href*="/user/logout"], #toolbar-administration`)
	if err != nil {
		p.release()
		return p.loginFailure(loginCtx, fmt.Errorf("failed to verify login: %w", err))
	}
	if !loggedIn {
		p.saveScreenshot("login_failed")
		p.release()
		return &domain.AuthenticationError{
			Method: MethodBrowser,
			Reason: "login rejected: no logout link or admin toolbar after submit",
		}
	}

	p.authenticated = true
	return nil
}

// fillLoginForm fills and submits the standard Drupal login form.
func (p *BrowserProvider) fillLoginForm(page *rod.Page) error {
	nameEl, err := page.Element(`input[name="name"]`)
	if err != nil {
		return fmt.Errorf("username field not found: %w", err)
	}
	if err := nameEl.Input(p.cfg.Username); err != nil {
		return fmt.Errorf("failed to fill username: %w", err)
	}

	passEl, err := page.Element(`input[name="pass"]`)
	if err != nil {
		return fmt.Errorf("password field not found: %w", err)
	}
	if err := passEl.Input(p.cfg.Password); err != nil {
		return fmt.Errorf("failed to fill password: %w", err)
	}

	submitEl, err := page.Element(`input[type="submit"], button[type="submit"]`)
	if err != nil {
		return fmt.Errorf("submit button not found: %w", err)
	}
	if err := submitEl.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("failed to submit login form: %w", err)
	}

	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("post-login page did not load: %w", err)
	}
	return nil
}

// loginFailure classifies a login-flow error, distinguishing the timeout
// subtype from a rejection.
func (p *BrowserProvider) loginFailure(loginCtx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(loginCtx.Err(), context.DeadlineExceeded) {
		return &domain.AuthenticationError{
			Method:  MethodBrowser,
			Reason:  fmt.Sprintf("login did not complete within %s", p.cfg.LoginTimeout),
			Timeout: true,
		}
	}
	return &domain.AuthenticationError{Method: MethodBrowser, Reason: err.Error()}
}

// ensureAuthenticated lazily authenticates before the first operation.
func (p *BrowserProvider) ensureAuthenticated(ctx context.Context) error {
	if p.authenticated {
		return nil
	}
	return p.Authenticate(ctx)
}

// Probe verifies the session can reach the admin content overview.
func (p *BrowserProvider) Probe(ctx context.Context) error {
	if err := p.ensureAuthenticated(ctx); err != nil {
		return err
	}
	_, err := p.navigate(ctx, p.cfg.BaseURL+"/admin/content")
	return err
}

// navigate opens a URL in the session page with a bounded timeout.
func (p *BrowserProvider) navigate(ctx context.Context, url string) (*rod.Page, error) {
	navCtx, cancel := context.WithTimeout(ctx, p.cfg.NavTimeout)
	defer cancel()

	scoped := p.page.Context(navCtx)
	if err := scoped.Navigate(url); err != nil {
		return nil, &domain.TransientIOError{Op: "navigate " + url, Err: err}
	}
	if err := scoped.WaitLoad(); err != nil {
		return nil, &domain.TransientIOError{Op: "load " + url, Err: err}
	}
	// Re-scope to the caller's context: navCtx ends with this function.
	return p.page.Context(ctx), nil
}

// labelSelector returns the form input holding the entity's label.
func labelSelector(ref domain.EntityRef) string {
	switch ref.Type {
	case domain.EntityNode:
		return `input[name="title[0][value]"]`
	default:
		return `input[name="name[0][value]"]`
	}
}

// Entity reads identity and moderation state off the entity's edit form.
// Less efficient than the Drush channel but works on any site.
func (p *BrowserProvider) Entity(ctx context.Context, ref domain.EntityRef) (*domain.Entity, error) {
	if err := p.ensureAuthenticated(ctx); err != nil {
		return nil, err
	}

	page, err := p.navigate(ctx, p.cfg.BaseURL+ref.EditPath())
	if err != nil {
		return nil, err
	}

	// A missing entity renders a 404 page without the edit form.
	found, labelEl, err := page.Has(labelSelector(ref))
	if err != nil {
		return nil, &domain.TransientIOError{Op: "read " + ref.String(), Err: err}
	}
	if !found {
		return nil, &domain.NotFoundError{Target: ref.String()}
	}

	label, err := labelEl.Property("value")
	if err != nil {
		return nil, fmt.Errorf("failed to read label for %s: %w", ref, err)
	}

	entity := &domain.Entity{
		Ref:    ref,
		Title:  label.Str(),
		Fields: map[string]string{},
	}

	hasState, stateEl, err := page.Has(`select[name="moderation_state[0][state]"]`)
	if err == nil && hasState {
		if state, perr := stateEl.Property("value"); perr == nil {
			entity.ModerationState = state.Str()
			entity.Published = state.Str() == "published"
		}
	}

	return entity, nil
}

// fieldSelectors lists the form controls a field's value may live in,
// most specific first.
func fieldSelectors(field string) []string {
	return []string{
		fmt.Sprintf(`textarea[name="%s[0][value]"]`, field),
		fmt.Sprintf(`input[name="%s[0][value]"]`, field),
		fmt.Sprintf(`textarea[name="%s"]`, field),
		fmt.Sprintf(`input[name="%s"]`, field),
	}
}

// FieldValue reads the current value of a field off the edit form.
func (p *BrowserProvider) FieldValue(ctx context.Context, ref domain.EntityRef, field string) (string, error) {
	if err := p.ensureAuthenticated(ctx); err != nil {
		return "", err
	}

	page, err := p.navigate(ctx, p.cfg.BaseURL+ref.EditPath())
	if err != nil {
		return "", err
	}

	if found, _, herr := page.Has(labelSelector(ref)); herr == nil && !found {
		return "", &domain.NotFoundError{Target: ref.String()}
	}

	for _, selector := range fieldSelectors(field) {
		found, el, herr := page.Has(selector)
		if herr != nil || !found {
			continue
		}
		value, perr := el.Property("value")
		if perr != nil {
			return "", fmt.Errorf("failed to read field %q on %s: %w", field, ref, perr)
		}
		return value.Str(), nil
	}

	return "", fmt.Errorf("%s has no editable field %q", ref, field)
}

// StageRevision fills the edit form, selects the target moderation state,
// records the reason in the revision log, and saves. Screenshots before and
// after the save are kept for the audit trail.
func (p *BrowserProvider) StageRevision(ctx context.Context, ref domain.EntityRef, changes map[string]string, reason, state string) (*domain.Revision, error) {
	if err := p.ensureAuthenticated(ctx); err != nil {
		return nil, err
	}

	page, err := p.navigate(ctx, p.cfg.BaseURL+ref.EditPath())
	if err != nil {
		return nil, err
	}

	if found, _, herr := page.Has(labelSelector(ref)); herr == nil && !found {
		return nil, &domain.NotFoundError{Target: ref.String()}
	}

	p.saveScreenshot(fmt.Sprintf("%s_%d_before", ref.Type, ref.ID))

	for field, value := range changes {
		if err := p.fillField(page, field, value); err != nil {
			return nil, fmt.Errorf("failed to fill %q on %s: %w", field, ref, err)
		}
	}

	// Moderation state select only exists when content moderation is enabled.
	hasState, stateEl, err := page.Has(`select[name="moderation_state[0][state]"]`)
	if err == nil && hasState {
		selector := fmt.Sprintf(`[value=%q]`, state)
		if serr := stateEl.Select([]string{selector}, true, rod.SelectorTypeCSSSector); serr != nil {
			return nil, fmt.Errorf("failed to select moderation state %q on %s: %w", state, ref, serr)
		}
	}

	hasLog, logEl, err := page.Has(`textarea[name="revision_log[0][value]"]`)
	if err == nil && hasLog {
		if lerr := p.replaceText(logEl, reason); lerr != nil {
			p.cfg.Logger.Debugf("could not set revision log: %v", lerr)
		}
	}

	submitEl, err := page.Element(`input[type="submit"][value="Save"], button[type="submit"]`)
	if err != nil {
		return nil, fmt.Errorf("save button not found on %s: %w", ref, err)
	}
	if err := submitEl.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", ref, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, &domain.TransientIOError{Op: "save " + ref.String(), Err: err}
	}

	screenshot := p.saveScreenshot(fmt.Sprintf("%s_%d_after", ref.Type, ref.ID))

	saved, _, err := page.Has(`.messages--status, .messages.status`)
	if err != nil || !saved {
		return nil, fmt.Errorf("no success message after saving %s", ref)
	}

	// The edit form does not expose the new revision ID; the review URL
	// falls back to the entity itself.
	return &domain.Revision{
		Ref:             ref,
		ModerationState: state,
		ReviewURL:       p.cfg.BaseURL + "/" + ref.String(),
		Reason:          reason,
		ScreenshotPath:  screenshot,
	}, nil
}

// UpdateMediaAlt fills the alt text on the media edit form. The alt input
// name depends on the image field machine name; the common defaults are
// tried in order.
func (p *BrowserProvider) UpdateMediaAlt(ctx context.Context, mid int, alt, reason string) (*domain.Revision, error) {
	if err := p.ensureAuthenticated(ctx); err != nil {
		return nil, err
	}

	ref := domain.MediaRef(mid)
	page, err := p.navigate(ctx, p.cfg.BaseURL+ref.EditPath())
	if err != nil {
		return nil, err
	}

	if found, _, herr := page.Has(labelSelector(ref)); herr == nil && !found {
		return nil, &domain.NotFoundError{Target: ref.String()}
	}

	altSelectors := []string{
		`input[name="field_media_image[0][alt]"]`,
		`input[name="image[0][alt]"]`,
		`input[name$="[0][alt]"]`,
	}
	var altEl *rod.Element
	for _, selector := range altSelectors {
		found, el, herr := page.Has(selector)
		if herr != nil || !found {
			continue
		}
		altEl = el
		break
	}
	if altEl == nil {
		return nil, fmt.Errorf("%s has no alt text input", ref)
	}

	p.saveScreenshot(fmt.Sprintf("media_%d_before", mid))

	if err := p.replaceText(altEl, alt); err != nil {
		return nil, fmt.Errorf("failed to fill alt text on %s: %w", ref, err)
	}

	hasLog, logEl, err := page.Has(`textarea[name="revision_log_message[0][value]"], textarea[name="revision_log[0][value]"]`)
	if err == nil && hasLog {
		if lerr := p.replaceText(logEl, reason); lerr != nil {
			p.cfg.Logger.Debugf("could not set revision log: %v", lerr)
		}
	}

	submitEl, err := page.Element(`input[type="submit"][value="Save"], button[type="submit"]`)
	if err != nil {
		return nil, fmt.Errorf("save button not found on %s: %w", ref, err)
	}
	if err := submitEl.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", ref, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, &domain.TransientIOError{Op: "save " + ref.String(), Err: err}
	}

	screenshot := p.saveScreenshot(fmt.Sprintf("media_%d_after", mid))

	saved, _, err := page.Has(`.messages--status, .messages.status`)
	if err != nil || !saved {
		return nil, fmt.Errorf("no success message after saving %s", ref)
	}

	return &domain.Revision{
		Ref:            ref,
		ReviewURL:      p.cfg.BaseURL + ref.EditPath(),
		Reason:         reason,
		ScreenshotPath: screenshot,
	}, nil
}

// fillField replaces the value of the first matching form control.
func (p *BrowserProvider) fillField(page *rod.Page, field, value string) error {
	for _, selector := range fieldSelectors(field) {
		found, el, err := page.Has(selector)
		if err != nil || !found {
			continue
		}
		return p.replaceText(el, value)
	}
	return fmt.Errorf("no editable control found")
}

// replaceText clears an input and types the new value.
func (p *BrowserProvider) replaceText(el *rod.Element, value string) error {
	if err := el.SelectAllText(); err != nil {
		return err
	}
	return el.Input(value)
}

// saveScreenshot captures the current page for the audit trail and returns
// the saved path. Failures are logged and ignored: screenshots are
// evidence, not a dependency.
func (p *BrowserProvider) saveScreenshot(name string) string {
	if p.cfg.ScreenshotsDir == "" || p.page == nil {
		return ""
	}

	data, err := p.page.Screenshot(false, nil)
	if err != nil {
		p.cfg.Logger.Debugf("screenshot failed: %v", err)
		return ""
	}

	if err := os.MkdirAll(p.cfg.ScreenshotsDir, 0o750); err != nil {
		p.cfg.Logger.Debugf("screenshot dir: %v", err)
		return ""
	}

	path := filepath.Join(p.cfg.ScreenshotsDir, name+".png")
	if err := os.WriteFile(path, data, 0o640); err != nil {
		p.cfg.Logger.Debugf("screenshot write: %v", err)
		return ""
	}
	p.cfg.Logger.Debugf("screenshot saved: %s", path)
	return path
}

// SiteURL returns the configured base URL.
func (p *BrowserProvider) SiteURL(_ context.Context) (string, error) {
	return p.cfg.BaseURL, nil
}

// Close releases the browser session. Safe to call multiple times and after
// a failed Authenticate.
func (p *BrowserProvider) Close() error {
	p.release()
	return nil
}

func (p *BrowserProvider) release() {
	p.authenticated = false
	p.page = nil
	if p.browser != nil {
		_ = p.browser.Close()
		p.browser = nil
	}
	if p.lnch != nil {
		p.lnch.Cleanup()
		p.lnch = nil
	}
}
