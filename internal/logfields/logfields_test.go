package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RecordID", KeyRecordID, "game-1", RecordID("game-1")},
		{"JobHandle", KeyJobHandle, "h1", JobHandle("h1")},
		{"JobStatus", KeyJobStatus, "downloading", JobStatus("downloading")},
		{"RepoPath", KeyRepoPath, "/data/repo", RepoPath("/data/repo")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"Action", KeyAction, "silent_reload", Action("silent_reload")},
		{"Version", KeyVersion, "1.2.0", Version("1.2.0")},
		{"Step", KeyStep, "copy_runtime", Step("copy_runtime")},
		{"URL", KeyURL, "nats://x", URL("nats://x")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if tc.attr.Value.String() != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %s", tc.name, tc.attrVal, tc.attr.Value.String())
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if got := Generation(7); got.Key != KeyGeneration || got.Value.Int64() != 7 {
		t.Fatalf("unexpected generation attr: %v", got)
	}
	if got := Count(3); got.Key != KeyCount || got.Value.Int64() != 3 {
		t.Fatalf("unexpected count attr: %v", got)
	}
}

func TestError(t *testing.T) {
	if got := Error(nil); got.Value.String() != "" {
		t.Fatalf("nil error should render empty, got %q", got.Value.String())
	}
	if got := Error(errors.New("boom")); got.Value.String() != "boom" {
		t.Fatalf("unexpected error value %q", got.Value.String())
	}
}
