// Copyright © 2021 Io FinNet Group, Inc.

// Package pocklington certifies primality with Pocklington's criterion.
//
// Let n be odd with n - 1 = r·q, where q is prime. If some witness a satisfies
//
//	a^(n-1) ≡ 1 (mod n)  and  gcd(a^r - 1, n) = 1
//
// then every prime factor s of n satisfies s ≡ 1 (mod F), where F is the largest power of q dividing n - 1.
// Since n is odd, s ≡ 1 (mod lcm(2, F)) as well, so when (lcm(2, F) + 1)² > n the number n has no room for
// two prime factors and is prime. For the candidates built by the grower, n = r·p + 1 with 2p <= r <= 4p,
// the smallest admissible factor is at least 2p + 1 and (2p + 1)² > 4p² + 1 >= n, so the bound always holds.
//
// A witness with a^(n-1) ≢ 1 proves n composite (Fermat). A gcd strictly between 1 and n is a factor of n.
// A gcd equal to n says nothing, and the witness is discarded.
package pocklington

import (
	"context"
	"math/big"

	"github.com/pkg/errors"

	"github.com/iofinnet/primegrowth/common"
)

// Result is the outcome of a certification.
type Result int

const (
	Inconclusive Result = iota
	Prime
	Composite
)

// DefaultMaxWitnesses bounds the inconclusive-witness retries. For a prime n at most a 1/q fraction of
// witnesses are inconclusive, so hitting this bound on an honest input is practically impossible.
const DefaultMaxWitnesses = 1 << 16

// cofactorTestN is passed to big.Int.ProbablyPrime when Certify has to check a caller-supplied cofactor.
// ProbablyPrime is exact below 2^64.
const cofactorTestN = 20

var (
	zero  = big.NewInt(0)
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

type (
	Certifier struct {
		src          common.RangeSource
		maxWitnesses int
	}

	Option func(*Certifier)
)

func (r Result) String() string {
	switch r {
	case Prime:
		return "prime"
	case Composite:
		return "composite"
	default:
		return "inconclusive"
	}
}

// WithMaxWitnesses bounds the number of witnesses drawn per certification. Zero means no bound.
func WithMaxWitnesses(n int) Option {
	return func(c *Certifier) {
		c.maxWitnesses = n
	}
}

func NewCertifier(src common.RangeSource, opts ...Option) *Certifier {
	if src == nil {
		panic(errors.New("NewCertifier() requires a RangeSource"))
	}
	c := &Certifier{src: src, maxWitnesses: DefaultMaxWitnesses}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Certify decides whether n is prime given r with r | n - 1. The cofactor q = (n - 1) / r must be prime
// and large enough for the criterion to apply; both are checked and reported as common.ErrPrecondition.
// The cofactor is checked with big.Int.ProbablyPrime; callers that already hold a proof that q is prime
// should use CertifyWithPrime.
//
// On Prime, the returned certificate names the deciding witness. Inconclusive is only returned
// together with an error: either an *common.ExhaustionError or the context's error.
func (c *Certifier) Certify(ctx context.Context, r, n *big.Int) (Result, *Certificate, error) {
	q, err := cofactor(r, n)
	if err != nil {
		return Inconclusive, nil, err
	}
	if !q.ProbablyPrime(cofactorTestN) {
		return Inconclusive, nil, errors.Wrapf(common.ErrPrecondition, "cofactor (n-1)/r = %s is not prime", q)
	}
	return c.certify(ctx, q, r, n)
}

// CertifyWithPrime is Certify for a caller that has already certified q, such as the previous link of a growth chain.
// n must equal r·q + 1.
func (c *Certifier) CertifyWithPrime(ctx context.Context, q, r, n *big.Int) (Result, *Certificate, error) {
	if q == nil || r == nil || n == nil {
		return Inconclusive, nil, errors.Wrap(common.ErrPrecondition, "nil argument")
	}
	want := new(big.Int).Mul(r, q)
	if want.Add(want, one).Cmp(n) != 0 {
		return Inconclusive, nil, errors.Wrapf(common.ErrPrecondition, "n = %s is not r·q + 1", n)
	}
	if _, err := cofactor(r, n); err != nil {
		return Inconclusive, nil, err
	}
	return c.certify(ctx, q, r, n)
}

func (c *Certifier) certify(ctx context.Context, q, r, n *big.Int) (Result, *Certificate, error) {
	if err := checkFactorSize(q, n); err != nil {
		return Inconclusive, nil, err
	}
	nMinus1 := new(big.Int).Sub(n, one)
	for attempt := 1; c.maxWitnesses == 0 || attempt <= c.maxWitnesses; attempt++ {
		if err := ctx.Err(); err != nil {
			return Inconclusive, nil, err
		}
		a, err := c.src.Sample(two, nMinus1)
		if err != nil {
			return Inconclusive, nil, errors.Wrap(err, "drawing a witness")
		}
		switch res, d := witnessVerdict(a, r, n, nMinus1); res {
		case Prime:
			return Prime, newCertificate(q, r, n, a), nil
		case Composite:
			if d == nil {
				common.Logger.Debugf("pocklington: witness %s violates Fermat for n=%s", common.FormatBigInt(a), common.FormatBigInt(n))
			} else {
				common.Logger.Debugf("pocklington: witness %s exposes factor %s of n=%s", common.FormatBigInt(a), d, common.FormatBigInt(n))
			}
			return Composite, nil, nil
		default:
			common.Logger.Debugf("pocklington: witness %s is inconclusive for n=%s (attempt %d)", common.FormatBigInt(a), common.FormatBigInt(n), attempt)
		}
	}
	common.Logger.Warnf("pocklington: no decisive witness for n=%s after %d draws", common.FormatBigInt(n), c.maxWitnesses)
	return Inconclusive, nil, common.NewExhaustionError("pocklington", c.maxWitnesses, nil)
}

// witnessVerdict applies one witness. A Composite verdict carries the exposed factor when the gcd found one,
// and nil when a broke Fermat. Prime is only meaningful once the factor-size bound has been checked.
func witnessVerdict(a, r, n, nMinus1 *big.Int) (Result, *big.Int) {
	if common.PowMod(a, nMinus1, n).Cmp(one) != 0 {
		return Composite, nil
	}
	// (a^r - 1) mod n, kept non-negative for the gcd
	ar := common.PowMod(a, r, n)
	ar.Sub(ar, one)
	ar.Mod(ar, n)
	if ar.Sign() == 0 {
		return Inconclusive, nil
	}
	d := common.GCD(ar, n)
	if d.Cmp(one) == 0 {
		return Prime, nil
	}
	return Composite, d
}

// cofactor returns (n - 1) / r after checking the shape of n and r.
func cofactor(r, n *big.Int) (*big.Int, error) {
	if r == nil || n == nil {
		return nil, errors.Wrap(common.ErrPrecondition, "nil argument")
	}
	if n.Cmp(three) <= 0 || n.Bit(0) == 0 {
		return nil, errors.Wrapf(common.ErrPrecondition, "n = %s must be odd and greater than 3", n)
	}
	if r.Cmp(one) < 0 {
		return nil, errors.Wrapf(common.ErrPrecondition, "r = %s must be positive", r)
	}
	q, m := new(big.Int).DivMod(new(big.Int).Sub(n, one), r, new(big.Int))
	if m.Sign() != 0 {
		return nil, errors.Wrapf(common.ErrPrecondition, "r = %s does not divide n-1", r)
	}
	return q, nil
}

// checkFactorSize enforces the factor-size bound (lcm(2, F) + 1)² > n, where F is the power of q in n - 1.
func checkFactorSize(q, n *big.Int) error {
	if q.Cmp(two) < 0 {
		return errors.Wrapf(common.ErrPrecondition, "cofactor %s is too small", q)
	}
	rest := new(big.Int).Sub(n, one)
	f, m := big.NewInt(1), new(big.Int)
	for {
		quo, rem := new(big.Int).DivMod(rest, q, m)
		if rem.Sign() != 0 {
			break
		}
		f.Mul(f, q)
		rest = quo
	}
	if f.Bit(0) == 1 {
		f.Lsh(f, 1)
	}
	f.Add(f, one)
	if f.Mul(f, f).Cmp(n) <= 0 {
		return errors.Wrapf(common.ErrPrecondition, "cofactor %s is too small to certify n = %s", q, n)
	}
	return nil
}
