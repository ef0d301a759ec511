package common

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateRandByteArray returns size cryptographically random bytes.
// Entropy exhaustion is not a recoverable condition, so a read failure panics.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// MakeRandHexString returns a random hex string of 2*size characters.
func MakeRandHexString(size int) string {
	return hex.EncodeToString(GenerateRandByteArray(size))
}

// WipeByteArray overwrites b with zeros. Use it to scrub passwords and key
// material once they are no longer needed. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
