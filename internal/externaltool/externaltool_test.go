package externaltool

import (
	"strings"
	"testing"
)

// fakeRunner lets tests exercise Collaborators without requiring diff/diff3
// to be installed, per the testable-collaborator property.
type fakeRunner struct {
	stdout   []byte
	exitCode int
	err      error
	lastName string
	lastArgs []string
}

func (f *fakeRunner) Run(name string, args ...string) ([]byte, int, error) {
	f.lastName = name
	f.lastArgs = args
	return f.stdout, f.exitCode, f.err
}

func TestDiff_TreatsExitCode1AsSuccess(t *testing.T) {
	fr := &fakeRunner{stdout: []byte("--- a\n+++ b\n"), exitCode: 1}
	c := Collaborators{Runner: fr, DiffBin: "diff"}

	out, err := c.Diff("a.txt", []byte("old\n"), []byte("new\n"))
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if string(out) != "--- a\n+++ b\n" {
		t.Fatalf("Diff output = %q", out)
	}
	if !contains(fr.lastArgs, "a/a.txt") || !contains(fr.lastArgs, "b/a.txt") {
		t.Fatalf("expected a/ and b/ labels in args, got %v", fr.lastArgs)
	}
}

func TestDiff_RejectsRealFailure(t *testing.T) {
	fr := &fakeRunner{exitCode: 2}
	c := Collaborators{Runner: fr, DiffBin: "diff"}
	if _, err := c.Diff("a.txt", []byte("a"), []byte("b")); err == nil {
		t.Fatal("expected error for exit code 2, got nil")
	}
}

func TestMerge3_ConflictedOnExitCode1(t *testing.T) {
	fr := &fakeRunner{stdout: []byte("<<<<<<< HEAD\n"), exitCode: 1}
	c := Collaborators{Runner: fr, Diff3Bin: "diff3"}

	out, status, err := c.Merge3([]byte("base\n"), []byte("head\n"), []byte("other\n"))
	if err != nil {
		t.Fatalf("Merge3: %v", err)
	}
	if status != MergeConflicted {
		t.Fatalf("status = %v, want MergeConflicted", status)
	}
	if !strings.Contains(string(out), "<<<<<<<") {
		t.Fatalf("expected conflict markers in output, got %q", out)
	}
}

func TestMerge3_CleanOnExitCode0(t *testing.T) {
	fr := &fakeRunner{stdout: []byte("merged\n"), exitCode: 0}
	c := Collaborators{Runner: fr, Diff3Bin: "diff3"}

	_, status, err := c.Merge3([]byte("base\n"), []byte("head\n"), []byte("head\n"))
	if err != nil {
		t.Fatalf("Merge3: %v", err)
	}
	if status != MergeClean {
		t.Fatalf("status = %v, want MergeClean", status)
	}
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
