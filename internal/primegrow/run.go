// Copyright © 2021 Io FinNet Group, Inc.

package primegrow

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/pkg/errors"

	"github.com/iofinnet/primegrowth/common"
	"github.com/iofinnet/primegrowth/grow"
)

// Run executes the configured mode, writing results to stdout. stdin feeds the gcd mode when no operands were given.
func Run(ctx context.Context, cfg *Config, stdin io.Reader, stdout io.Writer) error {
	if cfg.Mode == ModeGCD {
		return runGCD(cfg, stdin, stdout)
	}

	primes, err := common.GetPrimesBelow(cfg.Bound)
	if err != nil {
		return err
	}
	if primes.Len() == 0 {
		return errors.Wrapf(common.ErrInvalidBound, "no prime below %d to start from", cfg.Bound)
	}
	seed, err := cfg.seed()
	if err != nil {
		return err
	}
	if seed == nil {
		seed = new(big.Int).SetUint64(primes.Last())
	}

	var (
		src  common.RangeSource = common.CryptoRangeSource{}
		opts []grow.Option
	)
	if rs, ok, err := cfg.randSeed(); err != nil {
		return err
	} else if ok {
		src = common.NewSeededRangeSource(rs)
		opts = append(opts, grow.WithSourceFactory(func(worker int) common.RangeSource {
			return common.NewSeededRangeSource(rs + uint64(worker) + 1)
		}))
	}
	g, err := grow.NewGrower(primes, src, cfg.GrowConfig(), opts...)
	if err != nil {
		return err
	}

	common.Logger.Infof("primegrow: %d small primes below %d, seed %s", primes.Len(), cfg.Bound, common.FormatBigInt(seed))
	var chain *grow.Chain
	if cfg.Bits > 0 {
		chain, err = g.GrowBits(ctx, seed, cfg.Bits)
	} else {
		chain, err = g.GrowN(ctx, seed, cfg.Steps)
	}
	if err != nil {
		return err
	}
	return Render(stdout, chain, cfg.Format)
}

func runGCD(cfg *Config, stdin io.Reader, stdout io.Writer) error {
	operands := cfg.GCDArgs
	if len(operands) == 0 {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return errors.Wrap(err, "reading gcd operands")
		}
		operands = strings.Fields(line)
	}
	if len(operands) < 2 {
		return errors.Errorf("gcd needs two operands, got %d", len(operands))
	}
	a, b := new(big.Int), new(big.Int)
	for i, x := range []*big.Int{a, b} {
		if _, ok := x.SetString(operands[i], 10); !ok || x.Sign() < 0 {
			return errors.Errorf("gcd operand %q is not a non-negative integer", operands[i])
		}
	}
	if a.Sign() == 0 && b.Sign() == 0 {
		return errors.New("gcd(0, 0) is undefined")
	}
	_, err := fmt.Fprintln(stdout, common.GCD(a, b))
	return err
}
