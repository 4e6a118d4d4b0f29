// Package client exposes the content operations the agent may perform:
// reading entities and staging reviewable, non-destructive revisions.
package client

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/savaslabs/drupal-editor-agent/internal/auth"
	"github.com/savaslabs/drupal-editor-agent/internal/domain"
	"github.com/savaslabs/drupal-editor-agent/internal/moderation"
	"github.com/savaslabs/drupal-editor-agent/internal/tracking"
)

// Client binds one authentication provider to one session changelog for its
// lifetime. Close releases the provider regardless of how operations fared.
type Client struct {
	provider auth.Provider
	log      *tracking.ChangeLog

	// suggestionState is the host-side name of the suggestion moderation
	// state (sites may use a custom name such as "ava_suggestion").
	suggestionState string
}

// Option configures a Client.
type Option func(*Client)

// WithSuggestionState overrides the host-side suggestion state name.
func WithSuggestionState(state string) Option {
	return func(c *Client) {
		if state != "" {
			c.suggestionState = state
		}
	}
}

// New creates a client bound to the given provider and changelog.
func New(provider auth.Provider, log *tracking.ChangeLog, opts ...Option) *Client {
	c := &Client{
		provider:        provider,
		log:             log,
		suggestionState: string(moderation.Suggestion),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the bound provider.
func (c *Client) Provider() auth.Provider {
	return c.provider
}

// Changelog returns the session changelog.
func (c *Client) Changelog() *tracking.ChangeLog {
	return c.log
}

// Close releases the provider and its resources.
func (c *Client) Close() error {
	return c.provider.Close()
}

// Entity fetches a point-in-time read of a content record.
func (c *Client) Entity(ctx context.Context, ref domain.EntityRef) (*domain.Entity, error) {
	entity, err := c.provider.Entity(ctx, ref)
	if err != nil {
		c.record(tracking.Record{
			Operation: "get_" + ref.Type,
			Target:    ref.String(),
			Error:     err.Error(),
		})
		return nil, err
	}

	c.record(tracking.Record{
		Operation: "get_" + ref.Type,
		Target:    ref.String(),
		Success:   true,
	})
	return entity, nil
}

// StageChange reads the current entity, validates the suggest transition
// through the moderation workflow, and submits the changes as a new
// unpublished revision for human review. The published revision is never
// mutated. Repeated identical calls create distinct revisions: revisions
// are an audit trail, not a cache.
func (c *Client) StageChange(ctx context.Context, ref domain.EntityRef, changes map[string]string, reason string) (*domain.Revision, error) {
	opName := "update_" + ref.Type

	entity, err := c.provider.Entity(ctx, ref)
	if err != nil {
		c.recordChangeFailure(opName, ref, changes, reason, err)
		return nil, err
	}

	current := moderation.Normalize(entity.ModerationState, c.suggestionState)
	if _, err := moderation.Suggest(current); err != nil {
		c.recordChangeFailure(opName, ref, changes, reason, err)
		return nil, err
	}

	revision, err := c.provider.StageRevision(ctx, ref, changes, reason, c.suggestionState)
	if err != nil {
		c.recordChangeFailure(opName, ref, changes, reason, err)
		return nil, err
	}
	revision.ModerationState = string(moderation.Suggestion)

	rec := tracking.Record{
		Method:      c.provider.Method(),
		Operation:   opName,
		Target:      ref.String(),
		Field:       changedFields(changes),
		Reason:      reason,
		RevisionID:  revision.RevisionID,
		RevisionURL: revision.ReviewURL,
		Screenshot:  revision.ScreenshotPath,
		Success:     true,
	}
	if len(changes) == 1 {
		for _, value := range changes {
			rec.NewValue = value
		}
	}
	c.record(rec)

	return revision, nil
}

// FindReplace fetches the current field value, replaces every occurrence of
// find, and stages the result. A find string absent from the current value
// fails with domain.NoMatchError and creates no revision.
func (c *Client) FindReplace(ctx context.Context, ref domain.EntityRef, field, find, replace, reason string) (*domain.Revision, error) {
	current, err := c.provider.FieldValue(ctx, ref, field)
	if err != nil {
		c.record(tracking.Record{
			Method:    c.provider.Method(),
			Operation: "find_replace",
			Target:    ref.String(),
			Field:     field,
			Reason:    reason,
			Error:     err.Error(),
		})
		return nil, err
	}

	if !strings.Contains(current, find) {
		err := &domain.NoMatchError{Field: field, Find: find}
		c.record(tracking.Record{
			Method:    c.provider.Method(),
			Operation: "find_replace",
			Target:    ref.String(),
			Field:     field,
			OldValue:  current,
			Reason:    reason,
			Error:     err.Error(),
		})
		return nil, err
	}

	updated := strings.ReplaceAll(current, find, replace)

	revision, err := c.StageChange(ctx, ref, map[string]string{field: updated}, reason)
	if err != nil {
		return nil, err
	}
	return revision, nil
}

// RequestTransition routes a moderation transition through the workflow
// with the agent as initiator. Human-only transitions fail with
// domain.ForbiddenTransitionError for every state; the only transition that
// proceeds is "suggest", which re-stages the current content as an
// empty-change revision for review.
func (c *Client) RequestTransition(ctx context.Context, ref domain.EntityRef, transition string) (*domain.Revision, error) {
	entity, err := c.provider.Entity(ctx, ref)
	if err != nil {
		c.record(tracking.Record{
			Operation: "transition_" + transition,
			Target:    ref.String(),
			Error:     err.Error(),
		})
		return nil, err
	}

	current := moderation.Normalize(entity.ModerationState, c.suggestionState)
	if _, err := moderation.Apply(current, transition, moderation.ByAgent); err != nil {
		c.record(tracking.Record{
			Operation: "transition_" + transition,
			Target:    ref.String(),
			Error:     err.Error(),
		})
		return nil, err
	}

	reason := fmt.Sprintf("Re-staged %s for review", ref)
	return c.StageChange(ctx, ref, map[string]string{}, reason)
}

func (c *Client) record(r tracking.Record) {
	if r.Method == "" {
		r.Method = c.provider.Method()
	}
	c.log.Add(r)
}

func (c *Client) recordChangeFailure(operation string, ref domain.EntityRef, changes map[string]string, reason string, err error) {
	rec := tracking.Record{
		Operation: operation,
		Target:    ref.String(),
		Field:     changedFields(changes),
		Reason:    reason,
		Error:     err.Error(),
	}
	if len(changes) == 1 {
		for _, value := range changes {
			rec.NewValue = value
		}
	}
	c.record(rec)
}

// changedFields lists the changed field names, sorted for stable output.
func changedFields(changes map[string]string) string {
	fields := make([]string, 0, len(changes))
	for field := range changes {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return strings.Join(fields, ", ")
}
