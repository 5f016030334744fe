package core

import (
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

// ContentFingerprint returns a deterministic hex digest of text using BLAKE2b.
// Identical embedding input always yields the same fingerprint, which lets a
// sync pass detect records whose vector entry is already current.
func ContentFingerprint(text string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
