// Copyright © 2021 Io FinNet Group, Inc.

package common

import (
	"fmt"

	"github.com/pkg/errors"
)

// Configuration errors are fatal and are returned before any sieving or growth work begins.
var (
	ErrInvalidBound = errors.New("sieve bound must be at least 2")
	ErrInvalidSeed  = errors.New("seed must be a prime greater than or equal to 2")
	ErrPrecondition = errors.New("pocklington precondition violated")
)

// ErrExhausted is matched by every *ExhaustionError via errors.Is.
var ErrExhausted = errors.New("attempt budget exhausted")

// ExhaustionError reports that a bounded retry loop gave up without a decision.
// It never stands in for a successful certification.
type ExhaustionError struct {
	Stage    string
	Attempts int
	Cause    error
}

func NewExhaustionError(stage string, attempts int, cause error) *ExhaustionError {
	return &ExhaustionError{Stage: stage, Attempts: attempts, Cause: cause}
}

func (e *ExhaustionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: gave up after %d attempts: %v", e.Stage, e.Attempts, e.Cause)
	}
	return fmt.Sprintf("%s: gave up after %d attempts", e.Stage, e.Attempts)
}

func (e *ExhaustionError) Is(target error) bool {
	return target == ErrExhausted
}

func (e *ExhaustionError) Unwrap() error {
	return e.Cause
}
