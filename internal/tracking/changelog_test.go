package tracking

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestChangeLog_Counters(t *testing.T) {
	log := NewChangeLog()
	if log.SessionID() == "" {
		t.Error("expected a session ID")
	}

	log.Add(Record{Operation: "update_node", Target: "node/1", Success: true})
	log.Add(Record{Operation: "find_replace", Target: "node/2", Error: "no match"})
	log.Add(Record{Operation: "update_node", Target: "node/3", Success: true})

	if log.Attempted() != 3 {
		t.Errorf("Attempted() = %d, want 3", log.Attempted())
	}
	if log.Succeeded() != 2 {
		t.Errorf("Succeeded() = %d, want 2", log.Succeeded())
	}
	if log.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", log.Failed())
	}
	if len(log.Successful()) != 2 {
		t.Errorf("Successful() returned %d records, want 2", len(log.Successful()))
	}
	if len(log.FailedRecords()) != 1 {
		t.Errorf("FailedRecords() returned %d records, want 1", len(log.FailedRecords()))
	}
}

func TestChangeLog_AddStampsAndTruncates(t *testing.T) {
	log := NewChangeLog()
	long := strings.Repeat("x", 500)
	log.Add(Record{Operation: "update_node", Target: "node/1", OldValue: long, NewValue: long})

	r := log.Records()[0]
	if r.Timestamp.IsZero() {
		t.Error("expected timestamp to be stamped")
	}
	if len(r.NewValue) >= 500 {
		t.Errorf("NewValue not truncated: %d chars", len(r.NewValue))
	}
	if !strings.HasSuffix(r.NewValue, "...") {
		t.Errorf("truncated value should end with ellipsis: %q", r.NewValue[len(r.NewValue)-10:])
	}
}

func TestChangeLog_JSON(t *testing.T) {
	log := NewChangeLog()
	log.Add(Record{
		Method:      "terminus",
		Operation:   "update_node",
		Target:      "node/1",
		Field:       "title",
		NewValue:    "New Title",
		RevisionID:  77,
		RevisionURL: "https://example.com/node/1/revisions/77/view",
		Success:     true,
	})

	data, err := log.JSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded struct {
		SessionID string   `json:"session_id"`
		Attempted int      `json:"attempted"`
		Succeeded int      `json:"succeeded"`
		Records   []Record `json:"records"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.SessionID != log.SessionID() {
		t.Errorf("session_id = %q, want %q", decoded.SessionID, log.SessionID())
	}
	if decoded.Attempted != 1 || decoded.Succeeded != 1 {
		t.Errorf("counts = %d/%d, want 1/1", decoded.Attempted, decoded.Succeeded)
	}
	if decoded.Records[0].RevisionID != 77 {
		t.Errorf("revision_id = %d, want 77", decoded.Records[0].RevisionID)
	}
}

func TestChangeLog_SaveAndLoad(t *testing.T) {
	log := NewChangeLog()
	log.Add(Record{Operation: "update_node", Target: "node/1", Success: true})
	log.Add(Record{Operation: "find_replace", Target: "node/2", Error: "no match"})

	path := filepath.Join(t.TempDir(), "audit", "changelog.json")
	if err := log.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.SessionID() != log.SessionID() {
		t.Errorf("SessionID = %q, want %q", loaded.SessionID(), log.SessionID())
	}
	if loaded.Attempted() != 2 || loaded.Succeeded() != 1 {
		t.Errorf("counts = %d/%d, want 2/1", loaded.Attempted(), loaded.Succeeded())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
