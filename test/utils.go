// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package test

import (
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"github.com/iofinnet/primegrowth/common"
)

// ErrScriptExhausted is returned once a ScriptedRangeSource without a fallback runs out of draws.
var ErrScriptExhausted = errors.New("scripted range source has no draws left")

// ScriptedRangeSource replays a fixed sequence of draws, so a growth run can be reproduced exactly.
// A scripted value outside the requested range is an error, which keeps scripts honest about what they model.
// Once the script is used up, draws come from Fallback if it is set.
type ScriptedRangeSource struct {
	Fallback common.RangeSource

	mtx    sync.Mutex
	script []*big.Int
	calls  [][2]*big.Int
}

var _ common.RangeSource = (*ScriptedRangeSource)(nil)

func NewScriptedRangeSource(draws ...int64) *ScriptedRangeSource {
	script := make([]*big.Int, len(draws))
	for i, d := range draws {
		script[i] = big.NewInt(d)
	}
	return &ScriptedRangeSource{script: script}
}

func NewScriptedRangeSourceBig(draws ...*big.Int) *ScriptedRangeSource {
	script := make([]*big.Int, len(draws))
	for i, d := range draws {
		script[i] = new(big.Int).Set(d)
	}
	return &ScriptedRangeSource{script: script}
}

func (s *ScriptedRangeSource) Sample(lo, hi *big.Int) (*big.Int, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.calls = append(s.calls, [2]*big.Int{new(big.Int).Set(lo), new(big.Int).Set(hi)})
	if len(s.script) == 0 {
		if s.Fallback != nil {
			return s.Fallback.Sample(lo, hi)
		}
		return nil, ErrScriptExhausted
	}
	next := s.script[0]
	s.script = s.script[1:]
	if next.Cmp(lo) < 0 || next.Cmp(hi) > 0 {
		return nil, errors.Errorf("scripted draw %s is outside [%s, %s]", next, lo, hi)
	}
	return new(big.Int).Set(next), nil
}

// Remaining is the number of scripted draws not yet consumed.
func (s *ScriptedRangeSource) Remaining() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return len(s.script)
}

// Calls returns the [lo, hi] range of every draw requested so far.
func (s *ScriptedRangeSource) Calls() [][2]*big.Int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return append([][2]*big.Int(nil), s.calls...)
}
