package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is a SHA-256 sum of declaration content.
type Digest [32]byte

// Combine hashes content followed by deps. deps must come in a
// deterministic order for the result to be stable.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Short renders the first bytes of d in hex.
func (d Digest) Short() string { return hex.EncodeToString(d[:6]) }
