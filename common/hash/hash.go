// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package hash

import (
	"crypto"
	_ "crypto/sha256"
	"encoding/binary"
	"math/big"

	"github.com/iofinnet/primegrowth/common"
)

const (
	hashInputDelimiter = byte('$')
)

// SHA256i hashes a list of non-nil integers. Each input is followed by a delimiter and its length,
// and the whole message is prefixed with the input count, so distinct lists never share an encoding.
func SHA256i(in ...*big.Int) *big.Int {
	bz := SHA256iBytes(in...)
	if bz == nil {
		return nil
	}
	return new(big.Int).SetBytes(bz)
}

func SHA256iBytes(in ...*big.Int) []byte {
	inLen := len(in)
	if inLen == 0 {
		return nil
	}
	state := crypto.SHA256.New()
	bzSize := 0
	// prevent hash collisions with this prefix containing the block count
	inLenBz := make([]byte, 8) // 64-bits
	binary.LittleEndian.PutUint64(inLenBz, uint64(inLen))
	ptrs := make([][]byte, inLen)
	for i, n := range in {
		if n == nil {
			return nil
		}
		ptrs[i] = append(n.Bytes(), byte(n.Sign()))
		bzSize += len(ptrs[i])
	}
	data := make([]byte, 0, len(inLenBz)+bzSize+inLen+(inLen*8))
	data = append(data, inLenBz...)
	for i := range in {
		data = append(data, ptrs[i]...)
		data = append(data, hashInputDelimiter) // safety delimiter
		dataLen := make([]byte, 8)              // 64-bits
		binary.LittleEndian.PutUint64(dataLen, uint64(len(ptrs[i])))
		data = append(data, dataLen...)
	}
	// n < len(data) or an error will never happen.
	// see: https://golang.org/pkg/hash/#Hash and https://github.com/golang/go/wiki/Hashing#the-hashhash-interface
	if _, err := state.Write(data); err != nil {
		common.Logger.Errorf("SHA256i Write() failed: %v", err)
		return nil
	}
	return state.Sum(nil)
}
