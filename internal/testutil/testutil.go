// Package testutil provides testing utilities for regsweep tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/akhildatla/regsweep/pkg/sweep"
)

// TempFile creates a temporary file with the given content and extension.
// The file is automatically cleaned up when the test finishes.
func TempFile(t *testing.T, content, ext string) string {
	t.Helper()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test"+ext)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

// TempPath returns a path with the given extension inside a fresh temp dir.
func TempPath(t *testing.T, ext string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "report"+ext)
}

// ReportCSV returns a small report in CSV form.
func ReportCSV() string {
	return `candidate,reg0,reg1,steps,aborted
0,2,1,19,0
25734,6,5,0,0
7,0,1,-1,1`
}

// Results returns the rows of ReportCSV as results.
func Results() []sweep.Result {
	return []sweep.Result{
		{Candidate: 0, Reg0: 2, Reg1: 1, Steps: 19},
		{Candidate: 25734, Reg0: 6, Reg1: 5},
		{Candidate: 7, Reg0: 0, Reg1: 1, Steps: -1, Aborted: true},
	}
}

// AssertInt64Equal checks if two int64 values are equal.
func AssertInt64Equal(t *testing.T, expected, actual int64) {
	t.Helper()
	if expected != actual {
		t.Errorf("expected %d, got %d", expected, actual)
	}
}
