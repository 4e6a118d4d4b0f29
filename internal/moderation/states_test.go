package moderation

import (
	"errors"
	"testing"

	"github.com/savaslabs/drupal-editor-agent/internal/domain"
)

func TestApply_AgentSuggest(t *testing.T) {
	// The agent may suggest from every state, including Suggestion itself
	// so repeated staging yields fresh revisions.
	for _, from := range States {
		got, err := Apply(from, TransitionSuggest, ByAgent)
		if err != nil {
			t.Errorf("Apply(%s, suggest, ByAgent) failed: %v", from, err)
			continue
		}
		if got != Suggestion {
			t.Errorf("Apply(%s, suggest, ByAgent) = %s, want %s", from, got, Suggestion)
		}
	}
}

func TestApply_AgentForbiddenTransitions(t *testing.T) {
	humanOnly := []string{
		TransitionAcceptSuggestion,
		TransitionRejectSuggestion,
		TransitionApproveAndPublish,
	}

	// Human-only transitions are rejected for the agent from every source
	// state, even states the transition would otherwise be illegal from.
	for _, name := range humanOnly {
		for _, from := range States {
			_, err := Apply(from, name, ByAgent)
			var forbidden *domain.ForbiddenTransitionError
			if !errors.As(err, &forbidden) {
				t.Errorf("Apply(%s, %s, ByAgent) = %v, want ForbiddenTransitionError", from, name, err)
				continue
			}
			if forbidden.Transition != name {
				t.Errorf("forbidden.Transition = %q, want %q", forbidden.Transition, name)
			}
		}
	}
}

func TestApply_HumanTransitions(t *testing.T) {
	tests := []struct {
		name string
		from State
		want State
	}{
		{TransitionAcceptSuggestion, Suggestion, Draft},
		{TransitionRejectSuggestion, Suggestion, Draft},
		{TransitionApproveAndPublish, Suggestion, Published},
		{TransitionSuggest, Published, Suggestion},
	}

	for _, tt := range tests {
		got, err := Apply(tt.from, tt.name, ByHuman)
		if err != nil {
			t.Errorf("Apply(%s, %s, ByHuman) failed: %v", tt.from, tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Apply(%s, %s, ByHuman) = %s, want %s", tt.from, tt.name, got, tt.want)
		}
	}
}

func TestApply_IllegalSourceState(t *testing.T) {
	_, err := Apply(Draft, TransitionApproveAndPublish, ByHuman)
	if err == nil {
		t.Fatal("expected error for approve_and_publish from draft")
	}
	var forbidden *domain.ForbiddenTransitionError
	if errors.As(err, &forbidden) {
		t.Error("illegal source state for a human should not be a ForbiddenTransitionError")
	}
}

func TestApply_UnknownTransition(t *testing.T) {
	_, err := Apply(Draft, "archive", ByHuman)
	if err == nil {
		t.Fatal("expected error for unknown transition")
	}
}

func TestSuggest(t *testing.T) {
	got, err := Suggest(Published)
	if err != nil {
		t.Fatalf("Suggest(Published) failed: %v", err)
	}
	if got != Suggestion {
		t.Errorf("Suggest(Published) = %s, want %s", got, Suggestion)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		hostState       string
		suggestionState string
		want            State
	}{
		{"", "suggestion", Draft},
		{"draft", "suggestion", Draft},
		{"published", "suggestion", Published},
		{"suggestion", "suggestion", Suggestion},
		{"ava_suggestion", "ava_suggestion", Suggestion},
		{"needs_review", "suggestion", State("needs_review")},
	}

	for _, tt := range tests {
		if got := Normalize(tt.hostState, tt.suggestionState); got != tt.want {
			t.Errorf("Normalize(%q, %q) = %s, want %s", tt.hostState, tt.suggestionState, got, tt.want)
		}
	}
}

func TestNormalize_UnknownStateRejectedByApply(t *testing.T) {
	state := Normalize("needs_review", "suggestion")
	if _, err := Apply(state, TransitionSuggest, ByAgent); err == nil {
		t.Error("expected suggest from an unknown state to fail")
	}
}

func TestTransitionNames(t *testing.T) {
	names := TransitionNames()
	if len(names) != len(Transitions) {
		t.Fatalf("TransitionNames() returned %d names, want %d", len(names), len(Transitions))
	}
	if names[0] != TransitionSuggest {
		t.Errorf("names[0] = %q, want %q", names[0], TransitionSuggest)
	}
}
