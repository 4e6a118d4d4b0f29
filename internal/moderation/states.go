// Package moderation encodes the content moderation workflow the agent's
// output must remain compatible with: the legal states a revision may occupy
// and which actor is allowed to invoke each transition.
package moderation

import (
	"fmt"
	"slices"

	"github.com/savaslabs/drupal-editor-agent/internal/domain"
)

// State is a named stage in a content item's publication lifecycle.
type State string

const (
	Draft      State = "draft"
	Published  State = "published"
	Suggestion State = "suggestion"
)

// States lists all known moderation states.
var States = []State{Draft, Published, Suggestion}

// Initiator identifies who is invoking a transition.
type Initiator int

const (
	// ByAgent marks transitions invoked through the agent's interface.
	ByAgent Initiator = iota
	// ByHuman marks transitions reserved for human review actions.
	ByHuman
)

// Transition names.
const (
	TransitionSuggest           = "suggest"
	TransitionAcceptSuggestion  = "accept_suggestion"
	TransitionRejectSuggestion  = "reject_suggestion"
	TransitionApproveAndPublish = "approve_and_publish"
)

// Transition defines one edge of the moderation workflow.
type Transition struct {
	Name string
	From []State
	To   State
	// AllowedInitiators is the explicit allowed-initiator set. The table is
	// complete and auditable: human-only transitions are listed here and
	// rejected for the agent rather than omitted.
	AllowedInitiators []Initiator
}

// Transitions is the authoritative transition table. The agent's write path
// only ever exercises "suggest"; every other transition is human-only.
//
// "suggest" is also legal from Suggestion so repeated staging produces a
// fresh revision each time (revisions are an audit trail, not a cache).
var Transitions = []Transition{
	{
		Name:              TransitionSuggest,
		From:              []State{Draft, Published, Suggestion},
		To:                Suggestion,
		AllowedInitiators: []Initiator{ByAgent, ByHuman},
	},
	{
		Name:              TransitionAcceptSuggestion,
		From:              []State{Suggestion},
		To:                Draft,
		AllowedInitiators: []Initiator{ByHuman},
	},
	{
		Name:              TransitionRejectSuggestion,
		From:              []State{Suggestion},
		To:                Draft,
		AllowedInitiators: []Initiator{ByHuman},
	},
	{
		Name:              TransitionApproveAndPublish,
		From:              []State{Suggestion},
		To:                Published,
		AllowedInitiators: []Initiator{ByHuman},
	},
}

// TransitionNames returns the known transition names in table order.
func TransitionNames() []string {
	names := make([]string, len(Transitions))
	for i, t := range Transitions {
		names[i] = t.Name
	}
	return names
}

// Lookup returns the transition with the given name.
func Lookup(name string) (Transition, bool) {
	for _, t := range Transitions {
		if t.Name == name {
			return t, true
		}
	}
	return Transition{}, false
}

// Apply validates that the named transition is legal from the given state for
// the given initiator and returns the resulting state.
//
// An agent invoking a human-only transition fails with
// domain.ForbiddenTransitionError regardless of the source state.
func Apply(from State, name string, by Initiator) (State, error) {
	t, ok := Lookup(name)
	if !ok {
		return "", fmt.Errorf("unknown moderation transition %q", name)
	}

	if by == ByAgent && !slices.Contains(t.AllowedInitiators, ByAgent) {
		return "", &domain.ForbiddenTransitionError{
			From:       string(from),
			Transition: name,
		}
	}

	if !slices.Contains(t.From, from) {
		return "", fmt.Errorf("transition %q is not legal from state %q", name, from)
	}

	return t.To, nil
}

// Suggest applies the one agent-legal transition and returns the resulting
// state. The resulting state is always Suggestion: an unpublished,
// non-default revision pending human review.
func Suggest(from State) (State, error) {
	return Apply(from, TransitionSuggest, ByAgent)
}

// Normalize maps a host-side state name onto a canonical State.
// suggestionState is the site's configured suggestion state name
// (e.g. "ava_suggestion"). Unknown names pass through unchanged; Apply
// rejects transitions from states outside the workflow.
func Normalize(hostState, suggestionState string) State {
	switch hostState {
	case "", "draft":
		return Draft
	case "published":
		return Published
	case suggestionState, string(Suggestion):
		return Suggestion
	default:
		return State(hostState)
	}
}
