package client

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/savaslabs/drupal-editor-agent/internal/domain"
)

func TestProposeTermChange_RecordsWithoutModifying(t *testing.T) {
	fake := newFakeProvider()
	ref := domain.TermRef(7)
	fake.entities[ref.String()] = &domain.Entity{Ref: ref, Title: "Old Category"}
	fake.fields[ref.String()+".name"] = "Old Category"
	c := newTestClient(fake)

	proposal, err := c.ProposeTermChange(context.Background(), 7, "name", "New Category", "rename vocabulary")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proposal.OldValue != "Old Category" || proposal.NewValue != "New Category" {
		t.Errorf("proposal = %+v", proposal)
	}

	// Terms are never modified; only the proposal is logged.
	if len(fake.staged) != 0 {
		t.Error("a term proposal must not stage anything")
	}

	log := c.Changelog()
	if log.Succeeded() != 1 {
		t.Fatalf("Succeeded() = %d, want 1", log.Succeeded())
	}
	r := log.Records()[0]
	if r.Operation != "propose_term_change" {
		t.Errorf("Operation = %q", r.Operation)
	}
	if !strings.Contains(r.Reason, "PROPOSAL") {
		t.Errorf("Reason = %q, want proposal marker", r.Reason)
	}
}

func TestProposeTermChange_NotFound(t *testing.T) {
	c := newTestClient(newFakeProvider())

	_, err := c.ProposeTermChange(context.Background(), 999, "name", "x", "reason")
	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if c.Changelog().Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", c.Changelog().Failed())
	}
}
