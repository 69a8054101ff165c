// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFIFOCacheEviction(t *testing.T) {
	tests := []struct {
		name          string
		key           string
		expectedCount int
		cached        []string
	}{
		{"fresh cache, fetch", "a", 1, []string{"a"}},
		{"hit, no fetch", "a", 1, []string{"a"}},
		{"second key", "b", 2, []string{"a", "b"}},
		{"third key evicts oldest", "c", 3, []string{"b", "c"}},
		{"evicted key refetched", "a", 4, []string{"c", "a"}},
	}

	c := NewFIFOCache[int](2)
	fetches := 0
	fetch := func(key string) (int, error) {
		fetches++
		return len(key), nil
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			val, err := c.Get(tt.key, fetch)
			require.NoError(err)
			require.Equal(1, val)
			require.Equal(tt.expectedCount, fetches)
			require.Equal(len(tt.cached), c.Len())
			for _, k := range tt.cached {
				require.True(c.Contains(k))
			}
		})
	}
}

func TestFIFOCacheErrorsNotCached(t *testing.T) {
	require := require.New(t)

	c := NewFIFOCache[int](4)
	errDecode := errors.New("decode failed")
	_, err := c.Get("k", func(string) (int, error) { return 0, errDecode })
	require.ErrorIs(err, errDecode)
	require.False(c.Contains("k"))
	require.Zero(c.Len())
}

func TestFIFOCacheSingleFlight(t *testing.T) {
	require := require.New(t)

	c := NewFIFOCache[int](4)
	var fetches atomic.Int32
	release := make(chan struct{})
	fetch := func(string) (int, error) {
		fetches.Add(1)
		<-release
		return 7, nil
	}

	var wg sync.WaitGroup
	values := make([]int, 8)
	errs := make([]error, 8)
	for i := range values {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			values[i], errs[i] = c.Get("k", fetch)
		}(i)
	}
	close(release)
	wg.Wait()

	for i := range values {
		require.NoError(errs[i])
		require.Equal(7, values[i])
	}

	// late arrivals may miss the in-flight call but must then hit the cache
	require.LessOrEqual(fetches.Load(), int32(8))
	require.True(c.Contains("k"))
}
