package exchange

import (
	"fmt"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyu/go-ntcore/internal/crypto/curves"
	"github.com/smallyu/go-ntcore/internal/crypto/zk/schnorr"
	"github.com/smallyu/go-ntcore/pkg/ntheory"
)

// ECDH is elliptic-curve Diffie-Hellman over a curve group. Public values are
// encoded points (X || Y); the shared secret is the X coordinate of priv*peer.
type ECDH struct {
	group curves.Group
}

// NewECDH returns ECDH over g.
func NewECDH(g curves.Group) (*ECDH, error) {
	if g == nil {
		return nil, errors.Wrap(ntheory.ErrInvalidInput, "ecdh: group cannot be nil")
	}
	return &ECDH{group: g}, nil
}

// NewNamedECDH returns ECDH over a registered curve.
func NewNamedECDH(name string) (*ECDH, error) {
	c, err := curves.Named(name)
	if err != nil {
		return nil, err
	}
	return NewECDH(c)
}

func (e *ECDH) Name() string {
	return fmt.Sprintf("ecdh-%s", e.group.Name())
}

// Group returns the underlying curve group.
func (e *ECDH) Group() curves.Group {
	return e.group
}

// GeneratePrivate draws a scalar uniformly from [1, n-1].
func (e *ECDH) GeneratePrivate(random io.Reader) (*big.Int, error) {
	k, err := e.group.NewScalar(random)
	if err != nil {
		return nil, errors.Wrap(err, "ecdh: draw private scalar")
	}
	return k, nil
}

// Public returns the encoding of priv*G.
func (e *ECDH) Public(priv *big.Int) ([]byte, error) {
	if err := e.checkPrivate(priv); err != nil {
		return nil, err
	}
	return curves.Marshal(e.group, e.group.ScalarBaseMult(priv)), nil
}

// Shared returns the X coordinate of priv*peer. Peer points off the curve
// and products landing on the point at infinity are rejected.
func (e *ECDH) Shared(priv *big.Int, peerPublic []byte) ([]byte, error) {
	if err := e.checkPrivate(priv); err != nil {
		return nil, err
	}
	peer, err := curves.Unmarshal(e.group, peerPublic)
	if err != nil {
		return nil, err
	}
	s := e.group.ScalarMult(peer, priv)
	if s.IsInfinity() {
		return nil, ntheory.NewOpError("ecdh shared", errors.Wrap(ntheory.ErrInvalidInput, "shared point is the point at infinity"))
	}
	return s.X.FillBytes(make([]byte, e.group.ByteLen())), nil
}

// Prove returns a Schnorr proof that the holder of priv owns its public value,
// bound to context.
func (e *ECDH) Prove(random io.Reader, priv *big.Int, context []byte) ([]byte, error) {
	if err := e.checkPrivate(priv); err != nil {
		return nil, err
	}
	proof, err := schnorr.Prove(random, e.group, priv, e.group.ScalarBaseMult(priv), context)
	if err != nil {
		return nil, ntheory.NewOpError("ecdh prove", err)
	}
	return proof.Marshal(e.group), nil
}

// Verify checks a proof produced by Prove against an encoded public value.
func (e *ECDH) Verify(public, proof, context []byte) error {
	X, err := curves.Unmarshal(e.group, public)
	if err != nil {
		return err
	}
	p, err := schnorr.Unmarshal(e.group, proof)
	if err != nil {
		return err
	}
	if !p.Verify(e.group, X, context) {
		return errors.Wrap(ntheory.ErrInvalidInput, "ecdh: proof of possession does not verify")
	}
	return nil
}

func (e *ECDH) checkPrivate(priv *big.Int) error {
	if priv == nil || priv.Sign() <= 0 || priv.Cmp(e.group.Order()) >= 0 {
		return errors.Wrapf(ntheory.ErrInvalidInput, "ecdh: private scalar must lie in [1, %s)", e.group.Order())
	}
	return nil
}
