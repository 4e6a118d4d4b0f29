// Package tracking records every operation the agent attempts during one
// session, for auditing and the end-of-run report.
package tracking

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// maxValueLen bounds stored field values so the changelog stays readable.
const maxValueLen = 100

// Record is a single attempted operation, successful or not.
type Record struct {
	Timestamp   time.Time `json:"timestamp"`
	Method      string    `json:"method"`    // "terminus" or "browser"
	Operation   string    `json:"operation"` // e.g. "update_node", "find_replace"
	Target      string    `json:"target"`    // e.g. "node/123"
	Field       string    `json:"field,omitempty"`
	OldValue    string    `json:"old_value,omitempty"`
	NewValue    string    `json:"new_value,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	RevisionID  int       `json:"revision_id,omitempty"`
	RevisionURL string    `json:"revision_url,omitempty"`
	Screenshot  string    `json:"screenshot,omitempty"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
}

// ChangeLog accumulates the records for one agent session. It is owned by
// exactly one client; the single-threaded execution model means no locking
// is required.
type ChangeLog struct {
	sessionID string
	started   time.Time
	records   []Record
}

// NewChangeLog creates an empty changelog with a fresh session ID.
func NewChangeLog() *ChangeLog {
	return &ChangeLog{
		sessionID: uuid.NewString(),
		started:   time.Now(),
	}
}

// SessionID returns the session identifier.
func (c *ChangeLog) SessionID() string {
	return c.sessionID
}

// Add appends a record, stamping it with the current time and truncating
// stored values.
func (c *ChangeLog) Add(r Record) {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	r.OldValue = truncate(r.OldValue, maxValueLen)
	r.NewValue = truncate(r.NewValue, maxValueLen)
	c.records = append(c.records, r)
}

// Records returns the ordered records of the session.
func (c *ChangeLog) Records() []Record {
	return c.records
}

// Attempted returns the total number of recorded operations.
func (c *ChangeLog) Attempted() int {
	return len(c.records)
}

// Succeeded returns the number of successful operations.
func (c *ChangeLog) Succeeded() int {
	n := 0
	for _, r := range c.records {
		if r.Success {
			n++
		}
	}
	return n
}

// Failed returns the number of failed operations.
func (c *ChangeLog) Failed() int {
	return c.Attempted() - c.Succeeded()
}

// Successful returns only the successful records, in order.
func (c *ChangeLog) Successful() []Record {
	var out []Record
	for _, r := range c.records {
		if r.Success {
			out = append(out, r)
		}
	}
	return out
}

// FailedRecords returns only the failed records, in order.
func (c *ChangeLog) FailedRecords() []Record {
	var out []Record
	for _, r := range c.records {
		if !r.Success {
			out = append(out, r)
		}
	}
	return out
}

// export is the JSON shape of a saved changelog.
type export struct {
	SessionID string    `json:"session_id"`
	Started   time.Time `json:"started"`
	Attempted int       `json:"attempted"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Records   []Record  `json:"records"`
}

// JSON renders the changelog for persistence or downstream tooling.
func (c *ChangeLog) JSON() ([]byte, error) {
	return json.MarshalIndent(export{
		SessionID: c.sessionID,
		Started:   c.started,
		Attempted: c.Attempted(),
		Succeeded: c.Succeeded(),
		Failed:    c.Failed(),
		Records:   c.records,
	}, "", "  ")
}

// Save writes the changelog JSON to path, creating parent directories.
func (c *ChangeLog) Save(path string) error {
	data, err := c.JSON()
	if err != nil {
		return fmt.Errorf("failed to encode changelog: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create changelog dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return fmt.Errorf("failed to write changelog: %w", err)
	}
	return nil
}

// Load reads a previously saved changelog from path.
func Load(path string) (*ChangeLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read changelog: %w", err)
	}
	var saved export
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("failed to parse changelog: %w", err)
	}
	return &ChangeLog{
		sessionID: saved.SessionID,
		started:   saved.Started,
		records:   saved.Records,
	}, nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
