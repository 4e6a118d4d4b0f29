package domain

import "fmt"

// Entity type names understood by the Drupal entity API.
const (
	EntityNode  = "node"
	EntityTerm  = "taxonomy_term"
	EntityMedia = "media"
)

// EntityRef identifies a single content record on the target site.
type EntityRef struct {
	Type string
	ID   int
}

// String renders the canonical target form, e.g. "node/123".
func (r EntityRef) String() string {
	return fmt.Sprintf("%s/%d", r.Type, r.ID)
}

// EditPath returns the admin edit-form path for the entity.
func (r EntityRef) EditPath() string {
	switch r.Type {
	case EntityTerm:
		return fmt.Sprintf("/taxonomy/term/%d/edit", r.ID)
	case EntityMedia:
		return fmt.Sprintf("/media/%d/edit", r.ID)
	default:
		return fmt.Sprintf("/%s/%d/edit", r.Type, r.ID)
	}
}

// RevisionPath returns the review path for a specific revision.
func (r EntityRef) RevisionPath(revisionID int) string {
	switch r.Type {
	case EntityTerm:
		return fmt.Sprintf("/taxonomy/term/%d/revisions/%d/view", r.ID, revisionID)
	case EntityMedia:
		return fmt.Sprintf("/media/%d/revisions/%d/view", r.ID, revisionID)
	default:
		return fmt.Sprintf("/%s/%d/revisions/%d/view", r.Type, r.ID, revisionID)
	}
}

// NodeRef returns an EntityRef for a node ID.
func NodeRef(nid int) EntityRef {
	return EntityRef{Type: EntityNode, ID: nid}
}

// TermRef returns an EntityRef for a taxonomy term ID.
func TermRef(tid int) EntityRef {
	return EntityRef{Type: EntityTerm, ID: tid}
}

// MediaRef returns an EntityRef for a media entity ID.
func MediaRef(mid int) EntityRef {
	return EntityRef{Type: EntityMedia, ID: mid}
}

// Entity is a point-in-time read of a content record. The agent never holds
// a persistent copy; every operation re-fetches.
type Entity struct {
	Ref             EntityRef
	UUID            string
	Bundle          string
	Title           string
	Published       bool
	ModerationState string
	Fields          map[string]string
}

// FieldChange is a proposed mutation of a single field. Constructed
// per-operation and discarded after submission.
type FieldChange struct {
	Field  string
	Value  string
	Reason string
}

// Revision is the result of successfully staging changes as a new
// unpublished revision awaiting human review.
type Revision struct {
	Ref             EntityRef
	RevisionID      int
	ModerationState string
	ReviewURL       string
	Reason          string
	// ScreenshotPath is set by the browser provider when audit screenshots
	// are enabled.
	ScreenshotPath string
}
