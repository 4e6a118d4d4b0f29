package client

import (
	"context"
	"fmt"

	"github.com/savaslabs/drupal-editor-agent/internal/domain"
	"github.com/savaslabs/drupal-editor-agent/internal/tracking"
)

// TermProposal is a recorded change request against a taxonomy term.
type TermProposal struct {
	Ref      domain.EntityRef
	Field    string
	OldValue string
	NewValue string
	Reason   string
}

// ProposeTermChange records a change proposal for a taxonomy term without
// modifying it. Core taxonomy terms do not carry revisions, so there is no
// way to stage a reviewable edit; the proposal goes into the changelog for
// a human to apply by hand.
func (c *Client) ProposeTermChange(ctx context.Context, tid int, field, value, reason string) (*TermProposal, error) {
	ref := domain.TermRef(tid)

	entity, err := c.provider.Entity(ctx, ref)
	if err != nil {
		c.record(tracking.Record{
			Operation: "propose_term_change",
			Target:    ref.String(),
			Field:     field,
			Error:     err.Error(),
		})
		return nil, err
	}

	old, err := c.provider.FieldValue(ctx, ref, field)
	if err != nil {
		old = ""
	}

	proposal := &TermProposal{
		Ref:      ref,
		Field:    field,
		OldValue: old,
		NewValue: value,
		Reason:   reason,
	}

	c.record(tracking.Record{
		Method:    c.provider.Method(),
		Operation: "propose_term_change",
		Target:    ref.String(),
		Field:     field,
		OldValue:  old,
		NewValue:  value,
		Reason:    fmt.Sprintf("PROPOSAL for %q: %s", entity.Title, reason),
		Success:   true,
	})
	return proposal, nil
}
