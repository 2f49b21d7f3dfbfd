// Copyright © 2021 Io FinNet Group, Inc.

package pocklington

import (
	"encoding/hex"
	"encoding/json"
	"math/big"

	"github.com/pkg/errors"

	"github.com/iofinnet/primegrowth/common"
	"github.com/iofinnet/primegrowth/common/hash"
)

// Certificate records why N is prime: N = R·Q + 1 with Q prime, and Witness satisfies Pocklington's criterion.
// It proves N only relative to Q; a chain of certificates ending at a known small prime proves the whole chain.
type Certificate struct {
	Q       *big.Int `json:"q"`
	R       *big.Int `json:"r"`
	N       *big.Int `json:"n"`
	Witness *big.Int `json:"witness"`
	Digest  []byte   `json:"digest"`
}

func newCertificate(q, r, n, a *big.Int) *Certificate {
	c := &Certificate{
		Q:       new(big.Int).Set(q),
		R:       new(big.Int).Set(r),
		N:       new(big.Int).Set(n),
		Witness: new(big.Int).Set(a),
	}
	c.Digest = c.digest()
	return c
}

func (c *Certificate) digest() []byte {
	return hash.SHA256iBytes(c.Q, c.R, c.N, c.Witness)
}

// DigestHex is a short printable fingerprint of the certificate.
func (c *Certificate) DigestHex() string {
	return hex.EncodeToString(c.Digest)
}

// Verify re-checks the certificate without drawing any randomness.
func (c *Certificate) Verify() error {
	if c == nil || c.Q == nil || c.R == nil || c.N == nil || c.Witness == nil {
		return errors.New("certificate is incomplete")
	}
	if _, err := cofactor(c.R, c.N); err != nil {
		return err
	}
	nq := new(big.Int).Mul(c.R, c.Q)
	if nq.Add(nq, one).Cmp(c.N) != 0 {
		return errors.Wrap(common.ErrPrecondition, "n is not r·q + 1")
	}
	if err := checkFactorSize(c.Q, c.N); err != nil {
		return err
	}
	nMinus1 := new(big.Int).Sub(c.N, one)
	if c.Witness.Cmp(two) < 0 || c.Witness.Cmp(nMinus1) > 0 {
		return errors.New("witness is outside [2, n-1]")
	}
	if res, _ := witnessVerdict(c.Witness, c.R, c.N, nMinus1); res != Prime {
		return errors.Errorf("witness %s does not certify n (%s)", c.Witness, res)
	}
	if string(c.digest()) != string(c.Digest) {
		return errors.New("certificate digest mismatch")
	}
	return nil
}

// ValidateBasic is a cheap shape check used before Verify when decoding untrusted input.
func (c *Certificate) ValidateBasic() bool {
	return c != nil && c.Q != nil && c.R != nil && c.N != nil && c.Witness != nil && len(c.Digest) == 32
}

func (c *Certificate) UnmarshalJSON(b []byte) error {
	type plain Certificate
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*c = Certificate(p)
	if !c.ValidateBasic() {
		return errors.New("certificate JSON is missing fields")
	}
	return nil
}
