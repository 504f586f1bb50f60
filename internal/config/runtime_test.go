package config

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntimeSwapPublishesWholeSnapshot(t *testing.T) {
	first := &Config{JWT: JWTConfig{Secret: "first-secret"}}
	rt := NewRuntime(first)
	require.Same(t, first, rt.Load())

	next := *first
	next.JWT.Secret = "second-secret"
	rt.Swap(&next)

	assert.Equal(t, "second-secret", rt.Load().JWT.Secret)
	// The old snapshot stays intact for readers still holding it.
	assert.Equal(t, "first-secret", first.JWT.Secret)
}

func TestRuntimeConcurrentReadsDuringSwap(t *testing.T) {
	rt := NewRuntime(&Config{JWT: JWTConfig{Secret: "first-secret"}})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				secret := rt.Load().JWT.Secret
				// Every reader sees one of the published snapshots whole.
				assert.Contains(t, []string{"first-secret", "second-secret"}, secret)
			}
		}()
	}

	next := *rt.Load()
	next.JWT.Secret = "second-secret"
	rt.Swap(&next)
	wg.Wait()
}
