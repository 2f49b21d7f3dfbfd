// Copyright © 2021 Io FinNet Group, Inc.

package common_test

import (
	"bytes"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/iofinnet/primegrowth/common"
)

func TestSampleRangeBounds(t *testing.T) {
	t.Parallel()
	sources := map[string]RangeSource{
		"crypto": CryptoRangeSource{},
		"seeded": NewSeededRangeSource(1),
	}
	lo, hi := big.NewInt(2), big.NewInt(9)
	for name, src := range sources {
		seen := make(map[int64]bool)
		for i := 0; i < 2000; i++ {
			n, err := src.Sample(lo, hi)
			require.NoError(t, err, name)
			assert.True(t, n.Cmp(lo) >= 0 && n.Cmp(hi) <= 0, "%s: %s out of range", name, n)
			seen[n.Int64()] = true
		}
		// both endpoints are reachable
		assert.Len(t, seen, 8, name)
	}
}

func TestSampleRangeSingleton(t *testing.T) {
	t.Parallel()
	n, err := CryptoRangeSource{}.Sample(big.NewInt(5), big.NewInt(5))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n.Int64())
}

func TestSampleRangeEmpty(t *testing.T) {
	t.Parallel()
	_, err := CryptoRangeSource{}.Sample(big.NewInt(6), big.NewInt(5))
	assert.Error(t, err)
	_, err = SampleRange(bytes.NewReader(nil), nil, big.NewInt(5))
	assert.Error(t, err)
}

func TestSampleRangeReaderFailure(t *testing.T) {
	t.Parallel()
	_, err := SampleRange(bytes.NewReader(nil), big.NewInt(0), big.NewInt(1000))
	assert.Error(t, err)
}

func TestSeededRangeSourceIsReproducible(t *testing.T) {
	t.Parallel()
	a, b, c := NewSeededRangeSource(99), NewSeededRangeSource(99), NewSeededRangeSource(100)
	lo, hi := big.NewInt(0), new(big.Int).Lsh(big.NewInt(1), 100)
	same, differ := true, false
	for i := 0; i < 32; i++ {
		x, y, z := mustSample(t, a, lo, hi), mustSample(t, b, lo, hi), mustSample(t, c, lo, hi)
		same = same && x.Cmp(y) == 0
		differ = differ || x.Cmp(z) != 0
	}
	assert.True(t, same)
	assert.True(t, differ)
}

func TestSeededRangeSourceConcurrentUse(t *testing.T) {
	t.Parallel()
	src := NewSeededRangeSource(5)
	lo, hi := big.NewInt(10), big.NewInt(20)
	wg := sync.WaitGroup{}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				n, err := src.Sample(lo, hi)
				assert.NoError(t, err)
				assert.True(t, n.Cmp(lo) >= 0 && n.Cmp(hi) <= 0)
			}
		}()
	}
	wg.Wait()
}

func mustSample(t *testing.T, src RangeSource, lo, hi *big.Int) *big.Int {
	t.Helper()
	n, err := src.Sample(lo, hi)
	require.NoError(t, err)
	return n
}
