// Copyright © 2021 Io FinNet Group, Inc.
// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	"fmt"
	"math/big"

	"github.com/ipfs/go-log"
)

const LoggerName = "primegrowth"

var Logger = log.Logger(LoggerName)

// SetLogLevel adjusts the verbosity of the package logger, e.g. "debug" or "warn".
func SetLogLevel(level string) error {
	return log.SetLogLevel(LoggerName, level)
}

// FormatBigInt renders a short form of a for log lines: small values in full,
// large values as their leading and trailing digits plus the digit count.
func FormatBigInt(a *big.Int) string {
	if a == nil {
		return "<nil>"
	}
	s := a.Text(10)
	if len(s) <= 24 {
		return s
	}
	return fmt.Sprintf("%s..%s(%d digits)", s[:8], s[len(s)-8:], len(s))
}

func BigIntsToString(array []*big.Int) string {
	r := ""
	for a, b := range array {
		r = fmt.Sprintf("%s %d:%s ", r, a, FormatBigInt(b))
	}
	return r
}
