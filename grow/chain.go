// Copyright © 2021 Io FinNet Group, Inc.

package grow

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/iofinnet/primegrowth/common"
	"github.com/iofinnet/primegrowth/pocklington"
)

// Chain is a seed prime followed by the certificates of each prime grown from it.
// Link i certifies a prime whose cofactor Q is the prime certified by link i-1, or the root for i = 0.
type Chain struct {
	Root  *big.Int                   `json:"root"`
	Links []*pocklington.Certificate `json:"links"`
}

func NewChain(root *big.Int) *Chain {
	return &Chain{Root: new(big.Int).Set(root)}
}

// Last returns the largest prime in the chain.
func (c *Chain) Last() *big.Int {
	if len(c.Links) == 0 {
		return c.Root
	}
	return c.Links[len(c.Links)-1].N
}

// Primes lists the root followed by every grown prime.
func (c *Chain) Primes() []*big.Int {
	out := make([]*big.Int, 0, len(c.Links)+1)
	out = append(out, c.Root)
	for _, l := range c.Links {
		out = append(out, l.N)
	}
	return out
}

// Verify checks that the root is a listed small prime and that every link certifies a strictly larger prime
// from its predecessor.
func (c *Chain) Verify(primes *common.PrimeList) error {
	if c.Root == nil || !c.Root.IsUint64() || !primes.Contains(c.Root.Uint64()) {
		return errors.Wrapf(common.ErrInvalidSeed, "chain root %v is not in the small-prime list", c.Root)
	}
	prev := c.Root
	for i, l := range c.Links {
		if l == nil || l.Q == nil || l.Q.Cmp(prev) != 0 {
			return errors.Errorf("link %d does not continue from %s", i, prev)
		}
		if err := l.Verify(); err != nil {
			return errors.Wrapf(err, "link %d", i)
		}
		if l.N.Cmp(prev) <= 0 {
			return errors.Errorf("link %d does not grow the chain", i)
		}
		prev = l.N
	}
	return nil
}
