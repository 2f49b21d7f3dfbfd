// Copyright © 2021 Io FinNet Group, Inc.

package pocklington

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWitnessVerdict(t *testing.T) {
	t.Parallel()
	n := big.NewInt(221) // 13·17
	nMinus1 := big.NewInt(220)

	res, d := witnessVerdict(big.NewInt(2), big.NewInt(20), n, nMinus1)
	assert.Equal(t, Composite, res)
	assert.Nil(t, d)

	// 18 ≡ 5 (mod 13) and 18 ≡ 1 (mod 17): 18^22 - 1 is divisible by 17 only
	res, d = witnessVerdict(big.NewInt(18), big.NewInt(22), n, nMinus1)
	assert.Equal(t, Composite, res)
	assert.Equal(t, int64(17), d.Int64())

	// 174 has order 4 modulo both factors. With r = 22 the criterion's gcd test passes, which is
	// exactly why r = 22 (cofactor 10) is rejected before any witness is drawn.
	res, _ = witnessVerdict(big.NewInt(174), big.NewInt(22), n, nMinus1)
	assert.Equal(t, Prime, res)

	res, _ = witnessVerdict(big.NewInt(8), big.NewInt(4), big.NewInt(9), big.NewInt(8))
	assert.Equal(t, Inconclusive, res)
}

func TestCheckFactorSize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		q, n int64
		ok   bool
	}{
		{2, 5, true},    // F = 4, 5² > 5
		{2, 17, true},   // F = 16
		{2, 9, true},    // F = 8
		{3, 19, true},   // F = 9, lcm = 18
		{5, 221, false}, // F = 5, 11² < 221
		{11, 221, true},
		{997, 997*2000 + 1, true},
		{997, 997*3988 + 1, true},
	}
	for _, tt := range tests {
		err := checkFactorSize(big.NewInt(tt.q), big.NewInt(tt.n))
		assert.Equal(t, tt.ok, err == nil, "q=%d n=%d: %v", tt.q, tt.n, err)
	}
}
