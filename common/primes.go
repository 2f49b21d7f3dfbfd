// Copyright © 2021 Io FinNet Group, Inc.

package common

import (
	"math/big"
	"math/bits"

	"github.com/pkg/errors"
)

// MaxSieveBound caps the marking buffer at roughly 1 GiB.
const MaxSieveBound = 1 << 30

type (
	// PrimeList is an ascending, duplicate-free list of small primes.
	// It is never mutated after construction and is safe to share between goroutines.
	PrimeList struct {
		primes []uint64
		blocks []primeBlock
	}

	// primeBlock is a run of consecutive list primes whose product fits in a uint64,
	// so a single big.Int reduction serves every prime in the run.
	primeBlock struct {
		product uint64
		lo, hi  int
	}
)

// GetPrimesBelow returns every prime q with 2 <= q < bound using the Sieve of Eratosthenes.
// A bound below 2 would leave the caller without a seed prime, so it is rejected with ErrInvalidBound.
func GetPrimesBelow(bound uint64) (*PrimeList, error) {
	if bound < 2 {
		return nil, errors.Wrapf(ErrInvalidBound, "got %d", bound)
	}
	if bound > MaxSieveBound {
		return nil, errors.Wrapf(ErrInvalidBound, "got %d, the maximum is %d", bound, MaxSieveBound)
	}

	// the marking buffer is owned by this call only
	isComposite := make([]bool, bound+1)
	isComposite[0] = true
	isComposite[1] = true
	for p := uint64(2); p*p < bound; p++ {
		if isComposite[p] {
			continue
		}
		for i := p * p; i < bound; i += p {
			isComposite[i] = true
		}
	}

	var primes []uint64
	for i := uint64(2); i < bound; i++ {
		if !isComposite[i] {
			primes = append(primes, i)
		}
	}
	return NewPrimeList(primes), nil
}

// GetFirstNPrimes returns the first n prime numbers.
func GetFirstNPrimes(n int) []uint64 {
	if n <= 0 {
		return []uint64{}
	}
	// For n >= 6: p_n < n * (ln(n) + ln(ln(n))); n*20 overestimates it comfortably for small n.
	limit := uint64(n) * 20
	if n > 100 {
		limit = uint64(n) * 15
	}
	for {
		list, err := GetPrimesBelow(limit)
		if err != nil {
			panic(err)
		}
		if list.Len() >= n {
			return list.Values()[:n]
		}
		limit *= 2
	}
}

// NewPrimeList wraps an ascending list of primes. The slice is copied.
func NewPrimeList(primes []uint64) *PrimeList {
	l := &PrimeList{primes: append([]uint64(nil), primes...)}
	start, product := 0, uint64(1)
	for i, q := range l.primes {
		hi, lo := bits.Mul64(product, q)
		if hi != 0 {
			l.blocks = append(l.blocks, primeBlock{product: product, lo: start, hi: i})
			start, product = i, q
			continue
		}
		product = lo
	}
	if start < len(l.primes) {
		l.blocks = append(l.blocks, primeBlock{product: product, lo: start, hi: len(l.primes)})
	}
	return l
}

func (l *PrimeList) Len() int {
	return len(l.primes)
}

func (l *PrimeList) At(i int) uint64 {
	return l.primes[i]
}

// Last returns the largest prime in the list, or 0 when it is empty.
func (l *PrimeList) Last() uint64 {
	if len(l.primes) == 0 {
		return 0
	}
	return l.primes[len(l.primes)-1]
}

// Values returns a copy of the list.
func (l *PrimeList) Values() []uint64 {
	out := make([]uint64, len(l.primes))
	copy(out, l.primes)
	return out
}

func (l *PrimeList) Contains(q uint64) bool {
	lo, hi := 0, len(l.primes)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		switch {
		case l.primes[mid] == q:
			return true
		case l.primes[mid] < q:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return false
}

// TrialDivide reports the smallest list prime that exactly divides n, skipping the case where n is that prime itself.
// A false result means n has no factor in the list.
func (l *PrimeList) TrialDivide(n *big.Int) (uint64, bool) {
	if n == nil || n.Sign() < 0 {
		panic(errors.New("TrialDivide() requires a non-negative n"))
	}
	self := uint64(0)
	if n.IsUint64() {
		self = n.Uint64()
	}
	m, bp := new(big.Int), new(big.Int)
	for _, b := range l.blocks {
		mod := m.Mod(n, bp.SetUint64(b.product)).Uint64()
		for _, q := range l.primes[b.lo:b.hi] {
			if mod%q == 0 && q != self {
				return q, true
			}
		}
	}
	return 0, false
}
