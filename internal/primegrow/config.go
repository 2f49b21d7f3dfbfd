// Copyright © 2021 Io FinNet Group, Inc.

package primegrow

import (
	"flag"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/iofinnet/primegrowth/common"
	"github.com/iofinnet/primegrowth/grow"
	"github.com/iofinnet/primegrowth/internal/config"
)

type (
	Mode   string
	Format string
)

const (
	ModeGrow Mode = "grow"
	ModeGCD  Mode = "gcd"

	FormatTable  Format = "table"
	FormatPlain  Format = "plain"
	FormatBase58 Format = "base58"
	FormatJSON   Format = "json"
)

var validate = validator.New()

// Config is loaded from PRIMEGROW_* variables first; flags override it.
type Config struct {
	Bound         uint64        `env:"PRIMEGROW_BOUND" envDefault:"1000"`
	Seed          string        `env:"PRIMEGROW_SEED"`
	Steps         int           `env:"PRIMEGROW_STEPS" envDefault:"2"`
	Bits          int           `env:"PRIMEGROW_BITS" validate:"gte=0"`
	Workers       int           `env:"PRIMEGROW_WORKERS" envDefault:"1" validate:"gte=1"`
	Timeout       time.Duration `env:"PRIMEGROW_TIMEOUT" envDefault:"5m" validate:"gte=0"`
	MaxCandidates int           `env:"PRIMEGROW_MAX_CANDIDATES" envDefault:"1048576" validate:"gte=0"`
	MaxAttempts   int           `env:"PRIMEGROW_MAX_ATTEMPTS" envDefault:"131072" validate:"gte=0"`
	MaxWitnesses  int           `env:"PRIMEGROW_MAX_WITNESSES" envDefault:"65536" validate:"gte=0"`
	RandSeed      string        `env:"PRIMEGROW_RAND_SEED" validate:"omitempty,number"`
	Format        Format        `env:"PRIMEGROW_FORMAT" envDefault:"table" validate:"oneof=table plain base58 json"`
	LogLevel      string        `env:"PRIMEGROW_LOG_LEVEL" envDefault:"warn" validate:"oneof=debug info warn error dpanic panic fatal"`

	Mode Mode
	// GCDArgs holds the operands of the gcd mode; when empty they are read from stdin.
	GCDArgs []string
}

func ParseFlags(args []string, stderr io.Writer) (*Config, error) {
	cfg := &Config{}
	if err := config.ParseEnv(cfg); err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("primegrow", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: primegrow [flags]\n       primegrow [flags] gcd [a b]\n\nflags:\n")
		fs.PrintDefaults()
	}
	fs.Uint64Var(&cfg.Bound, "bound", cfg.Bound, "sieve bound; small primes below it filter candidates")
	fs.StringVar(&cfg.Seed, "seed", cfg.Seed, "starting prime (decimal); defaults to the largest prime below -bound")
	fs.IntVar(&cfg.Steps, "steps", cfg.Steps, "number of growth steps")
	fs.IntVar(&cfg.Bits, "bits", cfg.Bits, "grow until the prime has at least this many bits (overrides -steps)")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent workers per growth step")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "wall-clock budget for the whole run (0 = none)")
	fs.IntVar(&cfg.MaxCandidates, "max-candidates", cfg.MaxCandidates, "trial-division redraws per candidate (0 = unbounded)")
	fs.IntVar(&cfg.MaxAttempts, "max-attempts", cfg.MaxAttempts, "certified candidates per growth step (0 = unbounded)")
	fs.IntVar(&cfg.MaxWitnesses, "max-witnesses", cfg.MaxWitnesses, "witnesses per certification (0 = unbounded)")
	fs.StringVar(&cfg.RandSeed, "rand-seed", cfg.RandSeed, "seed a deterministic random source instead of crypto/rand")
	format := fs.String("format", string(cfg.Format), "output format: table|plain|base58|json")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug|info|warn|error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	var err error
	if cfg.Format, err = parseFormat(*format); err != nil {
		return nil, err
	}

	cfg.Mode = ModeGrow
	if rest := fs.Args(); len(rest) > 0 {
		if Mode(rest[0]) != ModeGCD {
			return nil, errors.Errorf("unknown command %q", rest[0])
		}
		cfg.Mode = ModeGCD
		cfg.GCDArgs = rest[1:]
		if n := len(cfg.GCDArgs); n != 0 && n != 2 {
			return nil, errors.Errorf("gcd takes two operands, got %d", n)
		}
	}
	return cfg, cfg.Validate()
}

// Validate rejects bad settings before any sieving or growth work starts.
func (cfg *Config) Validate() error {
	if cfg.Bound < 2 {
		return errors.Wrapf(common.ErrInvalidBound, "-bound %d", cfg.Bound)
	}
	if cfg.Bits == 0 && cfg.Steps < 1 {
		return errors.Errorf("-steps must be at least 1, got %d", cfg.Steps)
	}
	if err := validate.Struct(cfg); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	if _, err := cfg.seed(); err != nil {
		return err
	}
	if _, _, err := cfg.randSeed(); err != nil {
		return err
	}
	return cfg.GrowConfig().Validate()
}

func (cfg *Config) GrowConfig() grow.Config {
	return grow.Config{
		MaxCandidates: cfg.MaxCandidates,
		MaxAttempts:   cfg.MaxAttempts,
		MaxWitnesses:  cfg.MaxWitnesses,
		Timeout:       cfg.Timeout,
		Concurrency:   cfg.Workers,
	}
}

// seed returns the configured starting prime, or nil when it should come from the sieve.
func (cfg *Config) seed() (*big.Int, error) {
	s := strings.TrimSpace(cfg.Seed)
	if s == "" {
		return nil, nil
	}
	p, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Wrapf(common.ErrInvalidSeed, "-seed %q is not an integer", cfg.Seed)
	}
	if p.Sign() <= 0 {
		return nil, errors.Wrapf(common.ErrInvalidSeed, "-seed %s is not positive", p)
	}
	return p, nil
}

func (cfg *Config) randSeed() (uint64, bool, error) {
	s := strings.TrimSpace(cfg.RandSeed)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false, errors.Wrapf(err, "-rand-seed %q", cfg.RandSeed)
	}
	return v, true, nil
}

func parseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatPlain, FormatBase58, FormatJSON:
		return f, nil
	}
	return "", errors.Errorf("invalid -format %q (want table|plain|base58|json)", s)
}
