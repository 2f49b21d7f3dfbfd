// Copyright © 2021 Io FinNet Group, Inc.

package common

import (
	"math/big"

	"github.com/pkg/errors"
)

var (
	zero = big.NewInt(0)
	one  = big.NewInt(1)
	two  = big.NewInt(2)
)

// PowMod computes base^exp mod m by binary square-and-multiply.
// Every intermediate product is reduced mod m, and big.Int gives the squaring step the room it needs.
// x^0 mod m is 1 mod m, so the result is 0 only when m == 1 or base ≡ 0 (mod m) with exp > 0.
// PowMod panics if m < 1 or if base or exp are negative.
func PowMod(base, exp, m *big.Int) *big.Int {
	if base == nil || exp == nil || m == nil {
		panic(errors.New("PowMod() received a nil argument"))
	}
	if m.Sign() <= 0 {
		panic(errors.New("PowMod() requires a modulus >= 1"))
	}
	if base.Sign() < 0 || exp.Sign() < 0 {
		panic(errors.New("PowMod() requires a non-negative base and exponent"))
	}

	result := new(big.Int).Mod(one, m)
	b := new(big.Int).Mod(base, m)
	if b.Sign() == 0 && exp.Sign() > 0 {
		return b
	}
	for i, n := 0, exp.BitLen(); i < n; i++ {
		if exp.Bit(i) == 1 {
			result.Mul(result, b)
			result.Mod(result, m)
		}
		b.Mul(b, b)
		b.Mod(b, m)
	}
	return result
}

// GCD computes the greatest common divisor of a and b with the Euclidean algorithm.
// GCD panics if either argument is negative or both are zero.
func GCD(a, b *big.Int) *big.Int {
	if a == nil || b == nil {
		panic(errors.New("GCD() received a nil argument"))
	}
	if a.Sign() < 0 || b.Sign() < 0 {
		panic(errors.New("GCD() requires non-negative arguments"))
	}
	if a.Sign() == 0 && b.Sign() == 0 {
		panic(errors.New("GCD() is undefined when both arguments are zero"))
	}
	x, y := new(big.Int).Set(a), new(big.Int).Set(b)
	t := new(big.Int)
	for y.Sign() != 0 {
		t.Mod(x, y)
		x, y, t = y, t, x
	}
	return x
}
