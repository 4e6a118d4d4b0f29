// Package integration provides end-to-end tests for the drupal-editor
// binary using a mock terminus CLI.
//
// The mock replaces Pantheon's real CLI with a shell script that returns
// canned Drush responses (zero cost, fast, deterministic), so the tests
// cover the full binary: build, exec, output, and exit codes for the
// success and failure paths.
package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

const mockTerminus = `#!/bin/sh
cmd="$1"
case "$cmd" in
auth:whoami)
	if [ -n "$MOCK_WHOAMI_FAIL" ]; then exit 1; fi
	echo "dev@example.com"
	exit 0 ;;
auth:login)
	echo "Logged in via machine token."
	exit 0 ;;
env:view)
	echo "https://live-demo.pantheonsite.io"
	exit 0 ;;
drush)
	shift
	shift
	if [ "$1" = "--" ]; then shift; fi
	case "$1" in
	status)
		echo '{"drupal-version":"10.2.0"}'
		exit 0 ;;
	php:eval)
		n=0
		[ -f "$MOCK_COUNT_FILE" ] && n=$(cat "$MOCK_COUNT_FILE")
		n=$((n+1))
		printf '%s' "$n" > "$MOCK_COUNT_FILE"
		sed -n "${n}p" "$MOCK_RESPONSES"
		exit 0 ;;
	esac ;;
esac
echo "unexpected terminus invocation: $*" >&2
exit 1
`

// testEnv holds paths for one integration test execution.
type testEnv struct {
	bin       string // built drupal-editor binary
	mockDir   string // directory holding the mock terminus
	workDir   string // cwd for the binary (no config file, no .env)
	countFile string
	responses string
}

func findRepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("go.mod not found above working directory")
		}
		dir = parent
	}
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	rootDir := findRepoRoot(t)
	bin := filepath.Join(t.TempDir(), "drupal-editor")
	build := exec.Command("go", "build", "-o", bin, "./cmd/drupal-editor")
	build.Dir = rootDir
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("failed to build drupal-editor: %v\n%s", err, out)
	}

	mockDir := t.TempDir()
	mockPath := filepath.Join(mockDir, "terminus")
	if err := os.WriteFile(mockPath, []byte(mockTerminus), 0755); err != nil {
		t.Fatal(err)
	}

	workDir := t.TempDir()
	return &testEnv{
		bin:       bin,
		mockDir:   mockDir,
		workDir:   workDir,
		countFile: filepath.Join(workDir, "mock-count"),
		responses: filepath.Join(workDir, "mock-responses"),
	}
}

// setResponses writes the canned php:eval outputs, one per invocation.
func (e *testEnv) setResponses(t *testing.T, lines ...string) {
	t.Helper()
	_ = os.Remove(e.countFile)
	if err := os.WriteFile(e.responses, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

// run executes the binary with a clean environment pointing at the mock.
func (e *testEnv) run(t *testing.T, extraEnv []string, args ...string) (string, int) {
	t.Helper()

	cmd := exec.Command(e.bin, args...)
	cmd.Dir = e.workDir
	cmd.Env = append([]string{
		"PATH=" + e.mockDir + ":" + os.Getenv("PATH"),
		"HOME=" + e.workDir,
		"PANTHEON_SITE=demo",
		"PANTHEON_ENV=live",
		"MOCK_COUNT_FILE=" + e.countFile,
		"MOCK_RESPONSES=" + e.responses,
	}, extraEnv...)

	out, err := cmd.CombinedOutput()
	code := 0
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			t.Fatalf("failed to run binary: %v\n%s", err, out)
		}
		code = exitErr.ExitCode()
	}
	return string(out), code
}

const entityJSON = `{"id":12,"uuid":"b32e-77","bundle":"page","label":"About Us","published":true,"moderation_state":"published"}`

func TestTestAuth_Success(t *testing.T) {
	env := setupTestEnv(t)
	env.setResponses(t)

	out, code := env.run(t, nil, "test-auth")
	if code != 0 {
		t.Fatalf("exit code %d, output:\n%s", code, out)
	}
	if !strings.Contains(out, "Authenticated (terminus)") {
		t.Errorf("missing success message:\n%s", out)
	}
	if !strings.Contains(out, "https://live-demo.pantheonsite.io") {
		t.Errorf("missing site URL:\n%s", out)
	}
}

func TestTestAuth_NotLoggedIn(t *testing.T) {
	env := setupTestEnv(t)
	env.setResponses(t)

	// whoami fails and no machine token is available.
	out, code := env.run(t, []string{"MOCK_WHOAMI_FAIL=1"}, "test-auth")
	if code != 3 {
		t.Fatalf("exit code %d, want 3, output:\n%s", code, out)
	}
}

func TestGetNode(t *testing.T) {
	env := setupTestEnv(t)
	env.setResponses(t, entityJSON)

	out, code := env.run(t, nil, "get-node", "12")
	if code != 0 {
		t.Fatalf("exit code %d, output:\n%s", code, out)
	}
	for _, want := range []string{"node/12", "About Us", "published: true"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGetNode_NotFound(t *testing.T) {
	env := setupTestEnv(t)
	env.setResponses(t, "null")

	out, code := env.run(t, nil, "get-node", "999")
	if code != 5 {
		t.Fatalf("exit code %d, want 5, output:\n%s", code, out)
	}
	if !strings.Contains(out, "not found") {
		t.Errorf("output missing not-found message:\n%s", out)
	}
}

func TestGetNode_NidFlag(t *testing.T) {
	env := setupTestEnv(t)
	env.setResponses(t, entityJSON)

	out, code := env.run(t, nil, "get-node", "--nid", "12")
	if code != 0 {
		t.Fatalf("exit code %d, output:\n%s", code, out)
	}
	if !strings.Contains(out, "node/12") {
		t.Errorf("output missing node ref:\n%s", out)
	}
}

func TestGetNode_NidFlagNotFound(t *testing.T) {
	env := setupTestEnv(t)
	env.setResponses(t, "null")

	out, code := env.run(t, nil, "get-node", "--nid", "123")
	if code != 5 {
		t.Fatalf("exit code %d, want 5, output:\n%s", code, out)
	}
}

func TestGetNode_InvalidID(t *testing.T) {
	env := setupTestEnv(t)
	env.setResponses(t)

	_, code := env.run(t, nil, "get-node", "abc")
	if code != 2 {
		t.Fatalf("exit code %d, want 2", code)
	}
}

func TestFindReplace_Success(t *testing.T) {
	env := setupTestEnv(t)
	env.setResponses(t,
		`{"found":true,"has_field":true,"value":"Contact old-name for details."}`,
		entityJSON,
		`{"success":true,"id":12,"revision_id":77,"moderation_state":"suggestion"}`,
	)

	out, code := env.run(t, nil,
		"find-replace", "12", "--field", "body",
		"--find", "old-name", "--replace", "new-name", "-m", "rebrand")
	if code != 0 {
		t.Fatalf("exit code %d, output:\n%s", code, out)
	}
	if !strings.Contains(out, "/node/12/revisions/77/view") {
		t.Errorf("output missing review URL:\n%s", out)
	}
	if !strings.Contains(out, "1 succeeded") {
		t.Errorf("output missing session summary:\n%s", out)
	}
}

func TestFindReplace_NoMatch(t *testing.T) {
	env := setupTestEnv(t)
	env.setResponses(t,
		`{"found":true,"has_field":true,"value":"nothing relevant"}`,
	)

	out, code := env.run(t, nil,
		"find-replace", "12", "--field", "body",
		"--find", "absent", "--replace", "x", "-m", "edit")
	if code != 6 {
		t.Fatalf("exit code %d, want 6, output:\n%s", code, out)
	}
}

func TestUpdateNode_Success(t *testing.T) {
	env := setupTestEnv(t)
	env.setResponses(t,
		entityJSON,
		`{"success":true,"id":12,"revision_id":78,"moderation_state":"suggestion"}`,
	)

	out, code := env.run(t, nil,
		"update-node", "12", "--set", "title=New Title", "-m", "retitle")
	if code != 0 {
		t.Fatalf("exit code %d, output:\n%s", code, out)
	}
	if !strings.Contains(out, "/node/12/revisions/78/view") {
		t.Errorf("output missing review URL:\n%s", out)
	}
}

func TestUpdateNode_FieldValueFlags(t *testing.T) {
	env := setupTestEnv(t)
	env.setResponses(t,
		entityJSON,
		`{"success":true,"id":12,"revision_id":79,"moderation_state":"suggestion"}`,
	)

	// No --reason: the default revision log message applies.
	out, code := env.run(t, nil,
		"update-node", "--nid", "12", "--field", "body", "--value", "Fresh copy")
	if code != 0 {
		t.Fatalf("exit code %d, output:\n%s", code, out)
	}
	if !strings.Contains(out, "/node/12/revisions/79/view") {
		t.Errorf("output missing review URL:\n%s", out)
	}
}

func TestUpdateNode_NoChanges(t *testing.T) {
	env := setupTestEnv(t)
	env.setResponses(t)

	_, code := env.run(t, nil, "update-node", "--nid", "12")
	if code != 2 {
		t.Fatalf("exit code %d, want 2", code)
	}
}

func TestTransition_HumanOnlyForbidden(t *testing.T) {
	env := setupTestEnv(t)
	env.setResponses(t, entityJSON)

	out, code := env.run(t, nil, "transition", "12", "approve_and_publish")
	if code != 7 {
		t.Fatalf("exit code %d, want 7, output:\n%s", code, out)
	}
	if !strings.Contains(out, "not permitted for the agent") {
		t.Errorf("output missing forbidden message:\n%s", out)
	}
}

func TestSummary_RendersSavedChangelog(t *testing.T) {
	env := setupTestEnv(t)

	changelog := filepath.Join(env.workDir, "changelog.json")
	data := fmt.Sprintf(`{
  "session_id": "abc-123",
  "started": "2026-08-01T10:00:00Z",
  "attempted": 1,
  "succeeded": 1,
  "failed": 0,
  "records": [
    {"timestamp": "2026-08-01T10:00:01Z", "method": "terminus", "operation": "update_node",
     "target": "node/12", "field": "title", "new_value": "New Title",
     "revision_id": 77, "revision_url": "%s", "success": true}
  ]
}`, "https://live-demo.pantheonsite.io/node/12/revisions/77/view")
	if err := os.WriteFile(changelog, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	out, code := env.run(t, nil, "summary", "--changelog", changelog, "--markdown")
	if code != 0 {
		t.Fatalf("exit code %d, output:\n%s", code, out)
	}
	for _, want := range []string{"## Content Changes Summary", "node/12", "[Review]("} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSummary_NoPath(t *testing.T) {
	env := setupTestEnv(t)

	_, code := env.run(t, nil, "summary")
	if code != 2 {
		t.Fatalf("exit code %d, want 2", code)
	}
}

func TestUnknownAuthMethod(t *testing.T) {
	env := setupTestEnv(t)
	env.setResponses(t)

	_, code := env.run(t, nil, "--auth", "ssh", "test-auth")
	if code != 2 {
		t.Fatalf("exit code %d, want 2", code)
	}
}
