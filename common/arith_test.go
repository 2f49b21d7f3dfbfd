// Copyright © 2021 Io FinNet Group, Inc.

package common_test

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/iofinnet/primegrowth/common"
	"github.com/iofinnet/primegrowth/internal"
)

func referencePowMod(base, exp, m *big.Int) *big.Int {
	full := new(big.Int).Exp(base, exp, nil)
	return full.Mod(full, m)
}

func TestPowMod(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		base, exp, m int64
		want         int64
	}{
		{"small", 4, 13, 497, 445},
		{"zero exponent", 7, 0, 13, 1},
		{"zero exponent, base divisible by modulus", 26, 0, 13, 1},
		{"base divisible by modulus", 26, 5, 13, 0},
		{"zero base", 0, 9, 11, 0},
		{"modulus one", 5, 3, 1, 0},
		{"modulus one, zero exponent", 5, 0, 1, 0},
		{"fermat", 2, 996, 997, 1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := PowMod(big.NewInt(tt.base), big.NewInt(tt.exp), big.NewInt(tt.m))
			assert.Equal(t, tt.want, got.Int64())
		})
	}
}

func TestPowModMatchesReference(t *testing.T) {
	t.Parallel()
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		base := big.NewInt(rnd.Int63n(1 << 40))
		exp := big.NewInt(rnd.Int63n(200))
		m := big.NewInt(rnd.Int63n(1<<40) + 1)
		switch i % 10 {
		case 0:
			exp.SetInt64(0)
		case 1:
			base.Mul(m, big.NewInt(rnd.Int63n(5)))
		case 2:
			m.SetInt64(1)
		}
		assert.Equal(t, 0, referencePowMod(base, exp, m).Cmp(PowMod(base, exp, m)),
			"%s^%s mod %s", base, exp, m)
	}
}

func TestPowModLargeOperands(t *testing.T) {
	t.Parallel()
	// 2^127 - 1 is prime, so Fermat holds for any base coprime to it
	m := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	exp := new(big.Int).Sub(m, big.NewInt(1))
	base, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	assert.Equal(t, int64(1), PowMod(base, exp, m).Int64())
	assert.Equal(t, 0, new(big.Int).Exp(base, big.NewInt(65537), m).Cmp(PowMod(base, big.NewInt(65537), m)))
}

func TestPowModDoesNotMutateArguments(t *testing.T) {
	t.Parallel()
	base, exp, m := big.NewInt(1234), big.NewInt(56), big.NewInt(789)
	PowMod(base, exp, m)
	assert.Equal(t, int64(1234), base.Int64())
	assert.Equal(t, int64(56), exp.Int64())
	assert.Equal(t, int64(789), m.Int64())
}

func TestPowModPanics(t *testing.T) {
	t.Parallel()
	for _, m := range []int64{0, -7} {
		m := m
		ok, err := internal.ExpectPanic(nil, func() {
			PowMod(big.NewInt(2), big.NewInt(3), big.NewInt(m))
		})
		assert.True(t, ok, "modulus %d: %v", m, err)
	}
	ok, err := internal.ExpectPanic(nil, func() {
		PowMod(big.NewInt(-2), big.NewInt(3), big.NewInt(5))
	})
	assert.True(t, ok, err)
}

func TestGCD(t *testing.T) {
	t.Parallel()
	tests := []struct {
		a, b, want int64
	}{
		{12, 8, 4},
		{8, 12, 4},
		{17, 12, 1},
		{0, 9, 9},
		{9, 0, 9},
		{221, 13, 13},
		{1, 1, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GCD(big.NewInt(tt.a), big.NewInt(tt.b)).Int64(), "gcd(%d, %d)", tt.a, tt.b)
	}
}

func TestGCDProperties(t *testing.T) {
	t.Parallel()
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		a, b := big.NewInt(rnd.Int63n(100000)), big.NewInt(rnd.Int63n(100000))
		if a.Sign() == 0 && b.Sign() == 0 {
			continue
		}
		d := GCD(a, b)
		assert.Zero(t, new(big.Int).Mod(a, d).Sign())
		assert.Zero(t, new(big.Int).Mod(b, d).Sign())
		assert.Equal(t, 0, new(big.Int).GCD(nil, nil, a, b).Cmp(d), "gcd(%s, %s)", a, b)
	}
}

func TestGCDPanics(t *testing.T) {
	t.Parallel()
	ok, err := internal.ExpectPanic(nil, func() { GCD(big.NewInt(0), big.NewInt(0)) })
	assert.True(t, ok, err)
	ok, err = internal.ExpectPanic(nil, func() { GCD(big.NewInt(-4), big.NewInt(2)) })
	assert.True(t, ok, err)
}
