package auth

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/savaslabs/drupal-editor-agent/internal/domain"
)

func TestPhpString_Base64Encodes(t *testing.T) {
	got := phpString(`o'reilly "quoted" $var`)
	if strings.ContainsAny(got, "'$") && !strings.HasPrefix(got, "base64_decode(") {
		t.Fatalf("phpString leaked raw characters: %q", got)
	}

	encoded := base64.StdEncoding.EncodeToString([]byte(`o'reilly "quoted" $var`))
	if !strings.Contains(got, encoded) {
		t.Errorf("phpString output %q does not contain encoded payload", got)
	}
}

func TestWrapPHP(t *testing.T) {
	code := `print 'hello';`
	wrapped := wrapPHP(code)

	if !strings.HasPrefix(wrapped, "eval(base64_decode(") {
		t.Errorf("wrapPHP output does not eval a base64 payload: %q", wrapped)
	}
	if strings.Contains(wrapped, "hello") {
		t.Errorf("wrapPHP leaked raw code: %q", wrapped)
	}

	encoded := base64.StdEncoding.EncodeToString([]byte(code))
	if !strings.Contains(wrapped, encoded) {
		t.Errorf("wrapPHP output missing encoded code")
	}
}

func TestLoadEntitySnippet(t *testing.T) {
	snippet := loadEntitySnippet(domain.NodeRef(123))

	for _, want := range []string{"->load(123)", "moderation_state", "print 'null'"} {
		if !strings.Contains(snippet, want) {
			t.Errorf("snippet missing %q", want)
		}
	}
}

func TestStageRevisionSnippet(t *testing.T) {
	changes := map[string]string{"body": "new text with 'quotes'"}
	snippet, err := stageRevisionSnippet(domain.NodeRef(42), changes, "fix typo", "suggestion")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"setNewRevision(TRUE)",
		"setRevisionLogMessage",
		"text_with_summary",
		"moderation_state",
		"->load(42)",
	} {
		if !strings.Contains(snippet, want) {
			t.Errorf("snippet missing %q", want)
		}
	}

	// Field values travel base64-encoded, never as raw PHP string literals.
	if strings.Contains(snippet, "new text with") {
		t.Error("snippet contains raw field value")
	}
}

func TestMediaAltSnippet(t *testing.T) {
	snippet := mediaAltSnippet(55, "A red bicycle", "improve accessibility")

	for _, want := range []string{
		"getStorage('media')->load(55)",
		"source_field",
		"isRevisionable()",
	} {
		if !strings.Contains(snippet, want) {
			t.Errorf("snippet missing %q", want)
		}
	}
	if strings.Contains(snippet, "A red bicycle") {
		t.Error("snippet contains raw alt text")
	}
}
