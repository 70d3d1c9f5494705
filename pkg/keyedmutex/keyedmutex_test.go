package keyedmutex

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMutualExclusionPerKey(t *testing.T) {
	km := New()

	const goroutines = 16
	const iterations = 100

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				km.Lock("F1")
				counter++
				km.Unlock("F1")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines*iterations, counter)
}

func TestIndependentKeys(t *testing.T) {
	km := New()

	km.Lock("F1")

	// Другой ключ не должен блокироваться
	done := make(chan struct{})
	go func() {
		km.Lock("F2")
		km.Unlock("F2")
		close(done)
	}()
	<-done

	km.Unlock("F1")
}

func TestEntriesDroppedAfterUnlock(t *testing.T) {
	km := New()

	km.Lock("F1")
	km.Unlock("F1")
	km.Lock("F2")
	km.Unlock("F2")

	km.mu.Lock()
	defer km.mu.Unlock()
	assert.Empty(t, km.locks)
}

func TestUnlockUnheldKeyPanics(t *testing.T) {
	km := New()

	assert.Panics(t, func() { km.Unlock("missing") })
}

func TestReLockAfterUnlock(t *testing.T) {
	km := New()

	km.Lock("F1")
	km.Unlock("F1")
	km.Lock("F1")
	km.Unlock("F1")
}
