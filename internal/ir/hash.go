package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed hashes.
// The version suffix allows the algorithm to change later.
const (
	DomainState  = "entrada/state/v1"
	DomainChange = "entrada/change/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data) as lowercase hex.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// StateHash returns the content hash of a state. Equal states (same items in
// the same order, same overlay) hash equal.
func StateHash(s AppState) (string, error) {
	canonical, err := MarshalCanonical(s.Value())
	if err != nil {
		return "", fmt.Errorf("StateHash: %w", err)
	}
	return hashWithDomain(DomainState, canonical), nil
}

// ChangeID returns the identity of the change applied at seq within a
// session. It is stable across replays of the same session.
func ChangeID(session string, seq int64, c Change) (string, error) {
	cv := ChangeValue(c)
	if cv == nil {
		return "", fmt.Errorf("ChangeID: nil change: %w", ErrNotCanonical)
	}
	obj := Object{
		"session": String(session),
		"seq":     Int(seq),
		"change":  cv,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("ChangeID: %w", err)
	}
	return hashWithDomain(DomainChange, canonical), nil
}
