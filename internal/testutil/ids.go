package testutil

import (
	"fmt"
	"sync"
)

// SequenceIDs returns an entry ID generator producing "prefix-001",
// "prefix-002", ... in call order.
//
// Production entry IDs are UUIDv7; tests inject this via
// store.WithIDGenerator so rows, reconcile proposals and golden output
// stay byte-identical across runs.
//
// The returned func is safe for concurrent use.
func SequenceIDs(prefix string) func() string {
	var mu sync.Mutex
	var seq int
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		seq++
		return fmt.Sprintf("%s-%03d", prefix, seq)
	}
}
