// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	"math/big"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20"
)

type (
	// RangeSource yields integers uniformly distributed in the closed range [lo, hi].
	RangeSource interface {
		Sample(lo, hi *big.Int) (*big.Int, error)
	}

	// CryptoRangeSource draws from crypto/rand. It is safe for concurrent use.
	CryptoRangeSource struct{}

	// SeededRangeSource draws from a ChaCha20 keystream keyed by a 64-bit seed, so a run can be replayed.
	// Give each goroutine its own instance; a shared one serialises every draw behind its mutex.
	SeededRangeSource struct {
		mtx    sync.Mutex
		stream keystream
	}

	// keystream reads raw ChaCha20 output.
	keystream struct {
		c *chacha20.Cipher
	}
)

var _ RangeSource = CryptoRangeSource{}
var _ RangeSource = (*SeededRangeSource)(nil)

func (CryptoRangeSource) Sample(lo, hi *big.Int) (*big.Int, error) {
	return SampleRange(rand.Reader, lo, hi)
}

func NewSeededRangeSource(seed uint64) *SeededRangeSource {
	key := make([]byte, chacha20.KeySize)
	binary.LittleEndian.PutUint64(key, seed)
	nonce := make([]byte, chacha20.NonceSize)
	stream, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		// key and nonce sizes are fixed above
		panic(errors.Wrap(err, "chacha20.NewUnauthenticatedCipher failure in NewSeededRangeSource!"))
	}
	return &SeededRangeSource{stream: keystream{stream}}
}

func (s *SeededRangeSource) Sample(lo, hi *big.Int) (*big.Int, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return SampleRange(s.stream, lo, hi)
}

func (k keystream) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	k.c.XORKeyStream(p, p)
	return len(p), nil
}

// SampleRange draws a uniform integer in [lo, hi] from r by rejection sampling.
func SampleRange(r io.Reader, lo, hi *big.Int) (*big.Int, error) {
	if lo == nil || hi == nil {
		return nil, errors.New("SampleRange() received a nil bound")
	}
	if lo.Cmp(hi) > 0 {
		return nil, errors.Errorf("SampleRange() got an empty range [%s, %s]", lo, hi)
	}
	width := new(big.Int).Sub(hi, lo)
	width.Add(width, one)
	n, err := rand.Int(r, width)
	if err != nil {
		return nil, errors.Wrap(err, "rand.Int failure in SampleRange!")
	}
	return n.Add(n, lo), nil
}
