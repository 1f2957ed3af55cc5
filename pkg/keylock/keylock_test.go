package keylock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyLockSerializesSameKey(t *testing.T) {
	kl := New()
	const workers = 50
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			kl.Lock("shared")
			counter++
			kl.Unlock("shared")
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestKeyLockIndependentKeys(t *testing.T) {
	kl := New()
	kl.Lock("a")

	done := make(chan struct{})
	go func() {
		kl.Lock("b")
		kl.Unlock("b")
		close(done)
	}()

	// A held lock on "a" must not block "b".
	<-done
	kl.Unlock("a")
}

func TestKeyLockReleasesEntries(t *testing.T) {
	kl := New()
	kl.Lock("k")
	kl.Unlock("k")

	kl.mu.Lock()
	defer kl.mu.Unlock()
	assert.Empty(t, kl.locks)
}

func TestKeyLockUnlockUnheldPanics(t *testing.T) {
	kl := New()
	require.Panics(t, func() { kl.Unlock("never-locked") })
}
