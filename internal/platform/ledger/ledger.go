// Package ledger produces the "blockchain" transaction hashes and block
// numbers displayed next to evidence, transfers and audit entries. The values
// look like ledger references but nothing records or verifies them.
package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
)

// Digest hashes newline-joined, trimmed fields into lowercase SHA-256 hex.
func Digest(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			_, _ = h.Write([]byte("\n"))
		}
		_, _ = h.Write([]byte(strings.TrimSpace(p)))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// TxHash is Digest formatted as a 0x-prefixed transaction hash.
func TxHash(parts ...string) string {
	return "0x" + Digest(parts...)
}

// Blocks hands out increasing block numbers.
type Blocks struct {
	mu   sync.Mutex
	last int64
}

// NewBlocks starts numbering after start.
func NewBlocks(start int64) *Blocks {
	return &Blocks{last: start}
}

// Observe moves the counter past n.
func (b *Blocks) Observe(n int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n > b.last {
		b.last = n
	}
}

// Next returns the next block number.
func (b *Blocks) Next() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.last++
	return b.last
}
