package lock_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/relief-anchor/internal/lock"
)

func TestLocalLocker_MutualExclusion(t *testing.T) {
	locker := lock.NewLocalLocker()
	ctx := context.Background()

	counter := 0
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := locker.Acquire(ctx, "record:a@x.com")
			require.NoError(t, err)
			defer release()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestLocalLocker_IndependentKeys(t *testing.T) {
	locker := lock.NewLocalLocker()
	ctx := context.Background()

	releaseA, err := locker.Acquire(ctx, "record:a@x.com")
	require.NoError(t, err)
	defer releaseA()

	// Другой ключ не блокируется первым.
	releaseB, err := locker.Acquire(ctx, "record:b@y.com")
	require.NoError(t, err)
	releaseB()
}
