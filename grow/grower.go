// Copyright © 2021 Io FinNet Group, Inc.

package grow

import (
	"context"
	"math/big"

	"github.com/pkg/errors"

	"github.com/iofinnet/primegrowth/common"
	"github.com/iofinnet/primegrowth/pocklington"
)

// seedTestN is passed to big.Int.ProbablyPrime for seeds beyond the sieve's range.
const seedTestN = 20

// State is a stage of a single growth step.
type State int

const (
	Generating State = iota
	Filtering
	Certifying
	Accepted
)

type (
	// Hooks observe a growth step. They may be called from several goroutines when Concurrency > 1.
	Hooks struct {
		OnState  func(s State, c *Candidate)
		OnReject func(n *big.Int, divisor uint64)
	}

	// SourceFactory hands each concurrent worker its own RangeSource.
	SourceFactory func(worker int) common.RangeSource

	Option func(*Grower)

	// Grower turns a certified prime into a larger certified prime.
	Grower struct {
		primes  *common.PrimeList
		src     common.RangeSource
		sources SourceFactory
		hooks   Hooks
		cfg     Config
	}
)

func (s State) String() string {
	switch s {
	case Generating:
		return "generating"
	case Filtering:
		return "filtering"
	case Certifying:
		return "certifying"
	case Accepted:
		return "accepted"
	}
	return "unknown"
}

func WithHooks(h Hooks) Option {
	return func(g *Grower) {
		g.hooks = h
	}
}

// WithSourceFactory sets the per-worker RangeSource used when Concurrency > 1.
// Without it every worker draws from crypto/rand.
func WithSourceFactory(f SourceFactory) Option {
	return func(g *Grower) {
		g.sources = f
	}
}

func NewGrower(primes *common.PrimeList, src common.RangeSource, cfg Config, opts ...Option) (*Grower, error) {
	if primes == nil || primes.Len() == 0 {
		return nil, errors.Wrap(common.ErrInvalidBound, "the small-prime list is empty")
	}
	if src == nil {
		return nil, errors.New("NewGrower() requires a RangeSource")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &Grower{
		primes: primes,
		src:    src,
		cfg:    cfg,
		sources: func(int) common.RangeSource {
			return common.CryptoRangeSource{}
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *Grower) Config() Config {
	return g.cfg
}

// ValidateSeed rejects anything but a prime >= 2. Seeds within the sieve's range are looked up in the list.
func (g *Grower) ValidateSeed(p *big.Int) error {
	if p == nil || p.Cmp(two) < 0 {
		return errors.Wrapf(common.ErrInvalidSeed, "got %v", p)
	}
	if p.IsUint64() && p.Uint64() <= g.primes.Last() {
		if !g.primes.Contains(p.Uint64()) {
			return errors.Wrapf(common.ErrInvalidSeed, "%s is not prime", p)
		}
		return nil
	}
	if !p.ProbablyPrime(seedTestN) {
		return errors.Wrapf(common.ErrInvalidSeed, "%s is not prime", p)
	}
	return nil
}

// Grow performs one growth step from the prime p and returns the certificate of the new prime.
// The new prime is strictly greater than p.
func (g *Grower) Grow(ctx context.Context, p *big.Int) (*pocklington.Certificate, error) {
	if err := g.ValidateSeed(p); err != nil {
		return nil, err
	}
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()
	return g.step(ctx, p)
}

// GrowN chains steps growth steps starting from p.
func (g *Grower) GrowN(ctx context.Context, p *big.Int, steps int) (*Chain, error) {
	if steps < 1 {
		return nil, errors.Errorf("GrowN() requires at least one step, got %d", steps)
	}
	return g.chain(ctx, p, func(c *Chain) bool { return len(c.Links) >= steps })
}

// GrowBits chains growth steps from p until the current prime has at least bits bits.
// A seed that is already large enough yields an empty chain.
func (g *Grower) GrowBits(ctx context.Context, p *big.Int, bits int) (*Chain, error) {
	if bits < 2 {
		return nil, errors.Errorf("GrowBits() requires at least 2 bits, got %d", bits)
	}
	return g.chain(ctx, p, func(c *Chain) bool { return c.Last().BitLen() >= bits })
}

func (g *Grower) chain(ctx context.Context, p *big.Int, done func(*Chain) bool) (*Chain, error) {
	if err := g.ValidateSeed(p); err != nil {
		return nil, err
	}
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	c := NewChain(p)
	for !done(c) {
		cert, err := g.step(ctx, c.Last())
		if err != nil {
			return c, errors.Wrapf(err, "growth step %d", len(c.Links)+1)
		}
		c.Links = append(c.Links, cert)
	}
	return c, nil
}

func (g *Grower) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, g.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

// step runs one growth step from an already validated prime.
func (g *Grower) step(ctx context.Context, p *big.Int) (*pocklington.Certificate, error) {
	if g.cfg.Concurrency > 1 {
		return g.stepConcurrent(ctx, p)
	}
	cert, attempts, err := g.attempt(ctx, p, g.src)
	if err != nil {
		return nil, asExhaustion(err, attempts)
	}
	return cert, nil
}

// attempt is the Generating → Filtering → Certifying loop of one worker.
// A composite candidate is dropped and the loop restarts from the unchanged p.
func (g *Grower) attempt(ctx context.Context, p *big.Int, src common.RangeSource) (*pocklington.Certificate, int, error) {
	gen := NewGenerator(g.primes, src, g.cfg.MaxCandidates)
	gen.onReject = g.hooks.OnReject
	cert := pocklington.NewCertifier(src, pocklington.WithMaxWitnesses(g.cfg.MaxWitnesses))

	attempts := 0
	for g.cfg.MaxAttempts == 0 || attempts < g.cfg.MaxAttempts {
		g.enter(Generating, nil)
		c, err := gen.Next(ctx, p)
		if err != nil {
			return nil, attempts, err
		}
		attempts++
		g.enter(Filtering, c)
		g.enter(Certifying, c)
		res, crt, err := cert.CertifyWithPrime(ctx, c.P, c.R, c.N)
		if err != nil {
			return nil, attempts, err
		}
		if res == pocklington.Prime {
			g.enter(Accepted, c)
			common.Logger.Infof("grow: certified %s (%d bits) from %s after %d candidates",
				common.FormatBigInt(c.N), c.N.BitLen(), common.FormatBigInt(p), attempts)
			return crt, attempts, nil
		}
	}
	common.Logger.Warnf("grow: no prime found from %s after %d candidates", common.FormatBigInt(p), attempts)
	return nil, attempts, common.NewExhaustionError("grow", attempts, nil)
}

func (g *Grower) enter(s State, c *Candidate) {
	if c != nil {
		common.Logger.Debugf("grow: %s n=%s", s, common.FormatBigInt(c.N))
	}
	if g.hooks.OnState != nil {
		g.hooks.OnState(s, c)
	}
}

// asExhaustion reports a wall-clock timeout as an exhausted budget; other errors pass through.
func asExhaustion(err error, attempts int) error {
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, common.ErrExhausted) {
		return common.NewExhaustionError("grow", attempts, err)
	}
	return err
}
