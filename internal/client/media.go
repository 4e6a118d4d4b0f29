package client

import (
	"context"
	"fmt"

	"github.com/savaslabs/drupal-editor-agent/internal/auth"
	"github.com/savaslabs/drupal-editor-agent/internal/domain"
	"github.com/savaslabs/drupal-editor-agent/internal/tracking"
)

// UpdateMediaAlt updates the alt text on a media entity's source image
// field. The provider must support alt text updates; both built-in
// providers do.
func (c *Client) UpdateMediaAlt(ctx context.Context, mid int, alt, reason string) (*domain.Revision, error) {
	ref := domain.MediaRef(mid)

	updater, ok := c.provider.(auth.AltTextUpdater)
	if !ok {
		err := fmt.Errorf("%s auth does not support media alt text updates", c.provider.Method())
		c.record(tracking.Record{
			Operation: "update_media_alt",
			Target:    ref.String(),
			Error:     err.Error(),
		})
		return nil, err
	}

	revision, err := updater.UpdateMediaAlt(ctx, mid, alt, reason)
	if err != nil {
		c.record(tracking.Record{
			Operation: "update_media_alt",
			Target:    ref.String(),
			Field:     "alt",
			NewValue:  alt,
			Reason:    reason,
			Error:     err.Error(),
		})
		return nil, err
	}

	c.record(tracking.Record{
		Method:      c.provider.Method(),
		Operation:   "update_media_alt",
		Target:      ref.String(),
		Field:       "alt",
		NewValue:    alt,
		Reason:      reason,
		RevisionID:  revision.RevisionID,
		RevisionURL: revision.ReviewURL,
		Screenshot:  revision.ScreenshotPath,
		Success:     true,
	})
	return revision, nil
}
