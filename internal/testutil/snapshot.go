package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// MatchSnapshot compares content against a standalone snapshot file,
// byte for byte.
//
// go-snaps' MatchStandaloneSnapshot passes content through pretty.Sprint
// (github.com/kr/pretty) whose tabwriter expands tab bytes into spaces,
// which breaks reporter output that aligns with tabs or trailing blanks.
//
// Tracking issue: https://github.com/gkampitakis/go-snaps/issues/153
//
// Follows go-snaps' naming convention for standalone snapshots:
//
//	__snapshots__/<TestName>_1.snap<ext>
//
// Set UPDATE_SNAPS=true to create or update snapshot files.
func MatchSnapshot(tb testing.TB, ext, content string) {
	tb.Helper()

	_, callerFile, _, ok := runtime.Caller(1)
	if !ok {
		tb.Fatal("testutil.MatchSnapshot: unable to determine caller")
	}

	name := strings.ReplaceAll(tb.Name(), "/", "_")
	snapFile := filepath.Join(filepath.Dir(callerFile), "__snapshots__", name+"_1.snap"+ext)

	if os.Getenv("UPDATE_SNAPS") == "true" {
		if err := os.MkdirAll(filepath.Dir(snapFile), 0o750); err != nil {
			tb.Fatalf("mkdir snapshot dir: %v", err)
		}
		if err := os.WriteFile(snapFile, []byte(content), 0o644); err != nil { //nolint:gosec // test-only snapshot
			tb.Fatalf("write snapshot: %v", err)
		}
		return
	}

	prev, err := os.ReadFile(snapFile)
	if err != nil {
		tb.Fatalf("snapshot not found: %s\nRun with UPDATE_SNAPS=true to create", snapFile)
	}
	if string(prev) != content {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffCleanupSemanticLossless(dmp.DiffMain(string(prev), content, true))
		tb.Errorf("snapshot mismatch: %s\n%s", snapFile, dmp.PatchToText(dmp.PatchMake(string(prev), diffs)))
	}
}
