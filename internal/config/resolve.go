package config

import (
	"os"
	"time"
)

// Environment variables recognized by the agent.
const (
	EnvPantheonToken = "PANTHEON_MACHINE_TOKEN"
	EnvPantheonSite  = "PANTHEON_SITE"
	EnvPantheonEnv   = "PANTHEON_ENV"
	EnvDrupalBaseURL = "DRUPAL_BASE_URL"
	EnvDrupalUser    = "DRUPAL_USERNAME"
	EnvDrupalPass    = "DRUPAL_PASSWORD"
)

// Default values applied when neither flags, env vars, nor the config file
// specify a setting.
const (
	DefaultEnv             = "live"
	DefaultModerationState = "suggestion"
	DefaultCommandTimeout  = 120 * time.Second
	DefaultLoginTimeout    = 60 * time.Second
	DefaultRetries         = 3
	DefaultHeadless        = true
	DefaultScreenshotsDir  = "./screenshots"
)

// EnvState captures the recognized environment variables at startup.
type EnvState struct {
	MachineToken string
	Site         string
	Env          string
	BaseURL      string
	Username     string
	Password     string
}

// LoadEnvState reads the recognized environment variables.
func LoadEnvState() EnvState {
	return EnvState{
		MachineToken: os.Getenv(EnvPantheonToken),
		Site:         os.Getenv(EnvPantheonSite),
		Env:          os.Getenv(EnvPantheonEnv),
		BaseURL:      os.Getenv(EnvDrupalBaseURL),
		Username:     os.Getenv(EnvDrupalUser),
		Password:     os.Getenv(EnvDrupalPass),
	}
}

// HasTerminusCredentials reports whether the CLI-bridge credential set is present.
func (e EnvState) HasTerminusCredentials() bool {
	return e.MachineToken != "" && e.Site != ""
}

// HasBrowserCredentials reports whether the browser credential set is present.
func (e EnvState) HasBrowserCredentials() bool {
	return e.BaseURL != "" && e.Username != "" && e.Password != ""
}

// FlagState tracks which flags were explicitly set on the command line.
type FlagState struct {
	SiteSet    bool
	EnvSet     bool
	TimeoutSet bool
	RetriesSet bool
}

// Resolved is the final configuration after precedence resolution.
type Resolved struct {
	Site            string
	Env             string
	BaseURL         string
	Username        string
	Password        string
	MachineToken    string
	ModerationState string
	CommandTimeout  time.Duration
	LoginTimeout    time.Duration
	Retries         int
	Headless        bool
	ScreenshotsDir  string
	ChangelogPath   string
}

// Resolve merges configuration sources with precedence:
// flags > env vars > config file > defaults.
// flagValues carries the raw flag values; flags tracks which were set.
func Resolve(cfg *Config, env EnvState, flags FlagState, flagValues Resolved) Resolved {
	if cfg == nil {
		cfg = &Config{}
	}

	r := Resolved{
		Env:             DefaultEnv,
		ModerationState: DefaultModerationState,
		CommandTimeout:  DefaultCommandTimeout,
		LoginTimeout:    DefaultLoginTimeout,
		Retries:         DefaultRetries,
		Headless:        DefaultHeadless,
		ScreenshotsDir:  DefaultScreenshotsDir,
	}

	// Config file layer
	if cfg.Site != nil {
		r.Site = *cfg.Site
	}
	if cfg.Env != nil {
		r.Env = *cfg.Env
	}
	if cfg.BaseURL != nil {
		r.BaseURL = *cfg.BaseURL
	}
	if cfg.ModerationState != nil {
		r.ModerationState = *cfg.ModerationState
	}
	if cfg.CommandTimeout != nil {
		r.CommandTimeout = cfg.CommandTimeout.AsDuration()
	}
	if cfg.LoginTimeout != nil {
		r.LoginTimeout = cfg.LoginTimeout.AsDuration()
	}
	if cfg.Retries != nil {
		r.Retries = *cfg.Retries
	}
	if cfg.Headless != nil {
		r.Headless = *cfg.Headless
	}
	if cfg.ScreenshotsDir != nil {
		r.ScreenshotsDir = *cfg.ScreenshotsDir
	}
	if cfg.ChangelogPath != nil {
		r.ChangelogPath = *cfg.ChangelogPath
	}

	// Env var layer
	if env.Site != "" {
		r.Site = env.Site
	}
	if env.Env != "" {
		r.Env = env.Env
	}
	if env.BaseURL != "" {
		r.BaseURL = env.BaseURL
	}
	r.Username = env.Username
	r.Password = env.Password
	r.MachineToken = env.MachineToken

	// Flag layer
	if flags.SiteSet {
		r.Site = flagValues.Site
	}
	if flags.EnvSet {
		r.Env = flagValues.Env
	}
	if flags.TimeoutSet {
		r.CommandTimeout = flagValues.CommandTimeout
	}
	if flags.RetriesSet {
		r.Retries = flagValues.Retries
	}

	return r
}
