package core

import (
	"strings"
	"testing"
)

func TestEncodeDecodeCommit_RoundTrip(t *testing.T) {
	c := Commit{
		Tree:    mustID(t, "1111111111111111111111111111111111111111"),
		Parents: []ID{mustID(t, "2222222222222222222222222222222222222222")},
		Message: "first commit\n",
	}

	payload := EncodeCommit(c)
	got, err := DecodeCommit(payload)
	if err != nil {
		t.Fatalf("DecodeCommit: %v", err)
	}
	if got.Tree != c.Tree || len(got.Parents) != 1 || got.Parents[0] != c.Parents[0] {
		t.Fatalf("DecodeCommit(EncodeCommit(c)) = %+v, want %+v", got, c)
	}
	if got.Message != c.Message {
		t.Fatalf("message = %q, want %q", got.Message, c.Message)
	}
}

func TestDecodeCommit_RejectsUnknownHeader(t *testing.T) {
	payload := []byte("tree 1111111111111111111111111111111111111111\nauthor someone\n\nmsg\n")
	if _, err := DecodeCommit(payload); err == nil {
		t.Fatal("expected error for unknown header, got nil")
	}
}

func TestDecodeCommit_RequiresTree(t *testing.T) {
	payload := []byte("parent 1111111111111111111111111111111111111111\n\nmsg\n")
	if _, err := DecodeCommit(payload); err == nil {
		t.Fatal("expected error for missing tree header, got nil")
	}
}

func TestEncodeCommit_NoParents(t *testing.T) {
	c := Commit{Tree: mustID(t, "1111111111111111111111111111111111111111"), Message: "root"}
	payload := EncodeCommit(c)
	if !strings.HasPrefix(string(payload), "tree 1111111111111111111111111111111111111111\n\nroot\n") {
		t.Fatalf("unexpected payload: %q", payload)
	}
}
