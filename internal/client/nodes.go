package client

import (
	"context"

	"github.com/savaslabs/drupal-editor-agent/internal/domain"
)

// GetNode fetches a node by nid.
func (c *Client) GetNode(ctx context.Context, nid int) (*domain.Entity, error) {
	return c.Entity(ctx, domain.NodeRef(nid))
}

// UpdateNode stages field changes on a node as an unpublished revision.
func (c *Client) UpdateNode(ctx context.Context, nid int, changes map[string]string, reason string) (*domain.Revision, error) {
	return c.StageChange(ctx, domain.NodeRef(nid), changes, reason)
}

// FindReplaceNode replaces every occurrence of find in a node field and
// stages the result.
func (c *Client) FindReplaceNode(ctx context.Context, nid int, field, find, replace, reason string) (*domain.Revision, error) {
	return c.FindReplace(ctx, domain.NodeRef(nid), field, find, replace, reason)
}
