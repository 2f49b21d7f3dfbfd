// Copyright © 2021 Io FinNet Group, Inc.

package grow

import (
	"time"

	"github.com/pkg/errors"

	"github.com/iofinnet/primegrowth/pocklington"
)

const (
	// DefaultMaxCandidates bounds trial-division redraws per candidate. With a sieve bound of 1000 roughly one
	// odd draw in six survives the filter, so the bound is far from tight.
	DefaultMaxCandidates = 1 << 20
	// DefaultMaxAttempts bounds the certified candidates per growth step. A surviving candidate near 2^k is prime
	// with probability of order 1/k, so this covers growth well past 2^100000.
	DefaultMaxAttempts = 1 << 17
	DefaultTimeout     = 5 * time.Minute
)

// Config bounds every retry loop of a growth step. A zero bound means unbounded; a zero timeout means none.
type Config struct {
	MaxCandidates int
	MaxAttempts   int
	MaxWitnesses  int
	Timeout       time.Duration
	Concurrency   int
}

func DefaultConfig() Config {
	return Config{
		MaxCandidates: DefaultMaxCandidates,
		MaxAttempts:   DefaultMaxAttempts,
		MaxWitnesses:  pocklington.DefaultMaxWitnesses,
		Timeout:       DefaultTimeout,
		Concurrency:   1,
	}
}

func (cfg Config) Validate() error {
	if cfg.MaxCandidates < 0 {
		return errors.New("grow config: MaxCandidates < 0")
	}
	if cfg.MaxAttempts < 0 {
		return errors.New("grow config: MaxAttempts < 0")
	}
	if cfg.MaxWitnesses < 0 {
		return errors.New("grow config: MaxWitnesses < 0")
	}
	if cfg.Timeout < 0 {
		return errors.New("grow config: Timeout < 0")
	}
	if cfg.Concurrency < 1 {
		return errors.New("grow config: Concurrency < 1")
	}
	return nil
}
