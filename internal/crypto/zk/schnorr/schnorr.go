// Package schnorr proves knowledge of a discrete logarithm on a curve group:
// the prover knows x with X = x*G. The proof is made non-interactive with
// Fiat-Shamir over SHA-256, and the caller binds it to a context such as a
// session identifier.
package schnorr

import (
	"crypto/sha256"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyu/go-ntcore/internal/crypto/curves"
	"github.com/smallyu/go-ntcore/pkg/ntheory"
)

// Proof represents a Schnorr proof of knowledge of a discrete logarithm.
type Proof struct {
	R curves.Point // Commitment R = k * G
	S *big.Int     // Response s = k + e * x
}

// Prove generates a proof for the secret x of X = x*G. random supplies the
// nonce; nil selects crypto/rand.
func Prove(random io.Reader, g curves.Group, x *big.Int, X curves.Point, context []byte) (*Proof, error) {
	if g == nil || x == nil {
		return nil, errors.Wrap(ntheory.ErrInvalidInput, "schnorr: inputs cannot be nil")
	}
	if X.IsInfinity() || !g.IsOnCurve(X) {
		return nil, errors.Wrap(ntheory.ErrInvalidInput, "schnorr: public value must be an affine curve point")
	}
	n := g.Order()

	// 1. nonce k in [1, n-1], R = k*G
	k, err := g.NewScalar(random)
	if err != nil {
		return nil, errors.Wrap(err, "schnorr: draw nonce")
	}
	R := g.ScalarBaseMult(k)

	// 2. e = H(ctx, X, R) mod n
	e := challenge(g, X, R, context)

	// 3. s = k + e*x mod n
	s := new(big.Int).Mul(e, x)
	s.Add(s, k)
	s.Mod(s, n)

	return &Proof{R: R, S: s}, nil
}

// Verify checks s*G == R + e*X.
func (p *Proof) Verify(g curves.Group, X curves.Point, context []byte) bool {
	if p == nil || p.S == nil || g == nil {
		return false
	}
	if X.IsInfinity() || p.R.IsInfinity() || !g.IsOnCurve(X) || !g.IsOnCurve(p.R) {
		return false
	}
	n := g.Order()
	if p.S.Sign() < 0 || p.S.Cmp(n) >= 0 {
		return false
	}

	e := challenge(g, X, p.R, context)
	lhs := g.ScalarBaseMult(p.S)
	rhs := g.Add(p.R, g.ScalarMult(X, e))
	return lhs.Equal(rhs)
}

// Marshal encodes the proof as R || s at fixed widths for g.
func (p *Proof) Marshal(g curves.Group) []byte {
	out := curves.Marshal(g, p.R)
	return append(out, curves.MarshalScalar(g, p.S)...)
}

// Unmarshal decodes a proof produced by Marshal.
func Unmarshal(g curves.Group, data []byte) (*Proof, error) {
	pointLen := 2 * g.ByteLen()
	scalarLen := (g.Order().BitLen() + 7) / 8
	if len(data) != pointLen+scalarLen {
		return nil, errors.Wrapf(ntheory.ErrInvalidInput, "schnorr: proof must be %d bytes, got %d", pointLen+scalarLen, len(data))
	}
	R, err := curves.Unmarshal(g, data[:pointLen])
	if err != nil {
		return nil, err
	}
	return &Proof{R: R, S: new(big.Int).SetBytes(data[pointLen:])}, nil
}

func challenge(g curves.Group, X, R curves.Point, context []byte) *big.Int {
	h := sha256.New()
	h.Write([]byte(g.Name()))
	h.Write(context)
	h.Write(curves.Marshal(g, X))
	h.Write(curves.Marshal(g, R))

	e := new(big.Int).SetBytes(h.Sum(nil))
	return e.Mod(e, g.Order())
}
