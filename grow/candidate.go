// Copyright © 2021 Io FinNet Group, Inc.

package grow

import (
	"context"
	"math/big"

	"github.com/pkg/errors"

	"github.com/iofinnet/primegrowth/common"
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

type (
	// Candidate is n = r·p + 1 built from the certified prime p with an even multiplier r in [2p, 4p].
	Candidate struct {
		N, R, P *big.Int
	}

	// Generator draws candidates and discards those with a factor in the small-prime list.
	Generator struct {
		primes        *common.PrimeList
		src           common.RangeSource
		maxCandidates int
		onReject      func(n *big.Int, divisor uint64)
	}
)

func NewGenerator(primes *common.PrimeList, src common.RangeSource, maxCandidates int) *Generator {
	if primes == nil || src == nil {
		panic(errors.New("NewGenerator() requires a prime list and a RangeSource"))
	}
	return &Generator{primes: primes, src: src, maxCandidates: maxCandidates}
}

// Next returns the first drawn candidate with no factor in the small-prime list.
// p must be at least 2; the grower checks this before calling.
func (g *Generator) Next(ctx context.Context, p *big.Int) (*Candidate, error) {
	hi := new(big.Int).Lsh(p, 1)
	rejected := 0
	for g.maxCandidates == 0 || rejected < g.maxCandidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		k, err := g.src.Sample(p, hi)
		if err != nil {
			return nil, errors.Wrap(err, "drawing a multiplier")
		}
		c := newCandidate(p, k)
		if divisor, found := g.primes.TrialDivide(c.N); found {
			rejected++
			if g.onReject != nil {
				g.onReject(c.N, divisor)
			}
			continue
		}
		if rejected > 0 {
			common.Logger.Debugf("grow: candidate found after %d trial-division rejections", rejected)
		}
		return c, nil
	}
	return nil, common.NewExhaustionError("candidate generation", rejected, nil)
}

// newCandidate doubles k into the even multiplier r and forms n = r·p + 1.
func newCandidate(p, k *big.Int) *Candidate {
	r := new(big.Int).Lsh(k, 1)
	n := new(big.Int).Mul(r, p)
	n.Add(n, one)
	return &Candidate{N: n, R: r, P: new(big.Int).Set(p)}
}
