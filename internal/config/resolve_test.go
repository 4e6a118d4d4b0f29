package config

import (
	"testing"
	"time"
)

func strPtr(s string) *string  { return &s }
func intPtr(i int) *int        { return &i }
func durPtr(d Duration) *Duration { return &d }

func TestResolve_Defaults(t *testing.T) {
	r := Resolve(nil, EnvState{}, FlagState{}, Resolved{})

	if r.Env != DefaultEnv {
		t.Errorf("Env = %q, want %q", r.Env, DefaultEnv)
	}
	if r.ModerationState != DefaultModerationState {
		t.Errorf("ModerationState = %q, want %q", r.ModerationState, DefaultModerationState)
	}
	if r.CommandTimeout != DefaultCommandTimeout {
		t.Errorf("CommandTimeout = %v, want %v", r.CommandTimeout, DefaultCommandTimeout)
	}
	if r.Retries != DefaultRetries {
		t.Errorf("Retries = %d, want %d", r.Retries, DefaultRetries)
	}
	if !r.Headless {
		t.Error("Headless should default to true")
	}
}

func TestResolve_ConfigLayer(t *testing.T) {
	cfg := &Config{
		Site:            strPtr("savas-labs"),
		ModerationState: strPtr("ava_suggestion"),
		Retries:         intPtr(1),
		CommandTimeout:  durPtr(Duration(30 * time.Second)),
	}

	r := Resolve(cfg, EnvState{}, FlagState{}, Resolved{})
	if r.Site != "savas-labs" {
		t.Errorf("Site = %q, want savas-labs", r.Site)
	}
	if r.ModerationState != "ava_suggestion" {
		t.Errorf("ModerationState = %q, want ava_suggestion", r.ModerationState)
	}
	if r.Retries != 1 {
		t.Errorf("Retries = %d, want 1", r.Retries)
	}
	if r.CommandTimeout != 30*time.Second {
		t.Errorf("CommandTimeout = %v, want 30s", r.CommandTimeout)
	}
}

func TestResolve_EnvOverridesConfig(t *testing.T) {
	cfg := &Config{Site: strPtr("from-config"), Env: strPtr("dev")}
	env := EnvState{Site: "from-env", Env: "test", MachineToken: "token", Username: "admin", Password: "secret"}

	r := Resolve(cfg, env, FlagState{}, Resolved{})
	if r.Site != "from-env" {
		t.Errorf("Site = %q, want from-env", r.Site)
	}
	if r.Env != "test" {
		t.Errorf("Env = %q, want test", r.Env)
	}
	if r.MachineToken != "token" || r.Username != "admin" || r.Password != "secret" {
		t.Error("credentials not carried from env state")
	}
}

func TestResolve_FlagsOverrideEnv(t *testing.T) {
	env := EnvState{Site: "from-env"}
	flags := FlagState{SiteSet: true, EnvSet: true, TimeoutSet: true, RetriesSet: true}
	values := Resolved{
		Site:           "from-flag",
		Env:            "multidev-1",
		CommandTimeout: 10 * time.Second,
		Retries:        7,
	}

	r := Resolve(nil, env, flags, values)
	if r.Site != "from-flag" {
		t.Errorf("Site = %q, want from-flag", r.Site)
	}
	if r.Env != "multidev-1" {
		t.Errorf("Env = %q, want multidev-1", r.Env)
	}
	if r.CommandTimeout != 10*time.Second {
		t.Errorf("CommandTimeout = %v, want 10s", r.CommandTimeout)
	}
	if r.Retries != 7 {
		t.Errorf("Retries = %d, want 7", r.Retries)
	}
}

func TestResolve_UnsetFlagsIgnored(t *testing.T) {
	// Zero flag values without the Set markers must not clobber env vars.
	env := EnvState{Site: "from-env"}
	r := Resolve(nil, env, FlagState{}, Resolved{Site: "", Retries: 0})
	if r.Site != "from-env" {
		t.Errorf("Site = %q, want from-env", r.Site)
	}
	if r.Retries != DefaultRetries {
		t.Errorf("Retries = %d, want default %d", r.Retries, DefaultRetries)
	}
}

func TestEnvState_CredentialChecks(t *testing.T) {
	e := EnvState{MachineToken: "t", Site: "s"}
	if !e.HasTerminusCredentials() {
		t.Error("expected terminus credentials to be detected")
	}
	if e.HasBrowserCredentials() {
		t.Error("browser credentials should be absent")
	}

	e = EnvState{BaseURL: "https://example.com", Username: "u", Password: "p"}
	if !e.HasBrowserCredentials() {
		t.Error("expected browser credentials to be detected")
	}
	if e.HasTerminusCredentials() {
		t.Error("terminus credentials should be absent")
	}
}
