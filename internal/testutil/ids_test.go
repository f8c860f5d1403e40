package testutil

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceIDs(t *testing.T) {
	gen := SequenceIDs("entry")
	assert.Equal(t, "entry-001", gen())
	assert.Equal(t, "entry-002", gen())

	// Independent generators restart from 1.
	assert.Equal(t, "other-001", SequenceIDs("other")())
}

func TestSequenceIDsConcurrent(t *testing.T) {
	gen := SequenceIDs("entry")

	const n = 100
	ids := make([]string, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(idx int) {
			defer wg.Done()
			ids[idx] = gen()
		}(i)
	}
	wg.Wait()

	sort.Strings(ids)
	for i := 1; i < n; i++ {
		assert.NotEqual(t, ids[i-1], ids[i], "ids must be unique")
	}
}
