package core

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ID is a 40-character lowercase hex SHA-1 object id. Callers that obtain an
// ID from untrusted input (CLI args, remote repositories) must go through
// ParseID, which normalizes case and validates length/encoding; every other
// path that produces an ID does so by hashing content and is correct by
// construction.
type ID string

// ZeroID is the empty id, used to mean "no object" (e.g. a root commit's
// missing parent tree, or an absent branch).
const ZeroID ID = ""

// ParseID validates and normalizes a candidate object id. Uppercase hex is
// accepted and normalized, per spec: "callers supplying uppercase must be
// rejected or normalized consistently — the core normalizes on lookup."
func ParseID(s string) (ID, error) {
	if len(s) != 40 {
		return "", newErr("core.ParseID", KindCorrupt, fmt.Errorf("invalid id length: %d", len(s)))
	}
	lower := strings.ToLower(s)
	if _, err := hex.DecodeString(lower); err != nil {
		return "", newErr("core.ParseID", KindCorrupt, err)
	}
	return ID(lower), nil
}

// Short returns the first 7 characters, or the full id if shorter.
func (id ID) Short() string {
	if len(id) < 7 {
		return string(id)
	}
	return string(id)[:7]
}

func (id ID) String() string { return string(id) }

// IsHex40 reports whether s has the exact shape of an object id (used by
// name resolution, which falls back to treating a name as a literal id).
func IsHex40(s string) bool {
	if len(s) != 40 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		default:
			return false
		}
	}
	return true
}
