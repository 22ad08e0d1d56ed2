package utils

import (
	"context"
	"sync"
	"testing"
	"time"

	"carbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("vehicle-1")
			defer unlock()
			v := counter
			v++
			counter = v
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, km.Len())
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := NewKeyedMutex()
	unlockA := km.Lock("a")
	done := make(chan struct{})
	go func() {
		unlock := km.Lock("b")
		unlock()
		close(done)
	}()
	<-done
	unlockA()
	assert.Equal(t, 0, km.Len())
}

func TestKeyedMutexLockContextGivesUp(t *testing.T) {
	km := NewKeyedMutex()
	unlock := km.Lock("session-1")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := km.LockContext(ctx, "session-1")
	assert.ErrorIs(t, err, models.ErrUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, km.Len(), "the waiter released its reference")

	unlock()
	again, err := km.LockContext(context.Background(), "session-1")
	require.NoError(t, err)
	again()
	assert.Equal(t, 0, km.Len())
}
