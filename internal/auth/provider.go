// Package auth provides authentication backends for issuing content
// operations against a Drupal site.
//
// Two interchangeable providers exist:
//
//  1. TerminusProvider (primary) - bridges to Pantheon's Terminus CLI and
//     issues operations through Drush over the remote-execution channel.
//  2. BrowserProvider (fallback) - drives a real browser session against the
//     site's admin UI. Works on any Drupal site with admin login access.
//
// A provider is selected explicitly or auto-detected from the environment
// (Terminus credentials take precedence). Providers are bound to exactly one
// client for their lifetime and released on Close.
package auth

import (
	"context"

	"github.com/savaslabs/drupal-editor-agent/internal/domain"
)

// Method names for the two provider variants.
const (
	MethodTerminus = "terminus"
	MethodBrowser  = "browser"
)

// Provider is the capability contract both backends satisfy.
// All blocking operations take a context and are timeout-bounded.
type Provider interface {
	// Method returns the provider's identifier: "terminus" or "browser".
	Method() string

	// Authenticate establishes a session. Fails with
	// domain.AuthenticationError when credentials are rejected or the login
	// flow exceeds its timeout.
	Authenticate(ctx context.Context) error

	// Probe confirms the authenticated channel can issue operations.
	Probe(ctx context.Context) error

	// Entity fetches a point-in-time read of a content record.
	// Fails with domain.NotFoundError when the identifier does not resolve.
	Entity(ctx context.Context, ref domain.EntityRef) (*domain.Entity, error)

	// FieldValue fetches the current value of a single field.
	FieldValue(ctx context.Context, ref domain.EntityRef, field string) (string, error)

	// StageRevision submits changes as a new unpublished revision in the
	// given moderation state, never mutating the published revision.
	// Repeated calls with identical input create distinct revisions.
	StageRevision(ctx context.Context, ref domain.EntityRef, changes map[string]string, reason, state string) (*domain.Revision, error)

	// SiteURL returns the base URL for building review links.
	SiteURL(ctx context.Context) (string, error)

	// Close releases the session and any exclusive resources it holds.
	Close() error
}

// AltTextUpdater is an optional capability for providers that can update
// the alt text on a media entity's source image field. Alt text lives in a
// sub-property, which the generic field-change path cannot address.
type AltTextUpdater interface {
	UpdateMediaAlt(ctx context.Context, mid int, alt, reason string) (*domain.Revision, error)
}
