package curves

import (
	"crypto/rand"
	"io"
	"math/big"

	"filippo.io/edwards25519"
	"github.com/pkg/errors"

	"github.com/smallyu/go-ntcore/pkg/ntheory"
)

// l = 2^252 + 27742317777372353535851937790883648493
var ed25519Order, _ = new(big.Int).SetString("7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)

// Ed25519Curve exposes the scalar field of edwards25519 as a ScalarField.
type Ed25519Curve struct{}

func (c *Ed25519Curve) Name() string {
	return Ed25519FieldName
}

func (c *Ed25519Curve) Order() *big.Int {
	return new(big.Int).Set(ed25519Order)
}

func (c *Ed25519Curve) NewScalar(random io.Reader) (Scalar, error) {
	if random == nil {
		random = rand.Reader
	}
	var b [64]byte
	if _, err := io.ReadFull(random, b[:]); err != nil {
		return nil, err
	}

	s, err := edwards25519.NewScalar().SetUniformBytes(b[:])
	if err != nil {
		return nil, err
	}
	return &Ed25519Scalar{s: s}, nil
}

func (c *Ed25519Curve) NewScalarFromBigInt(n *big.Int) Scalar {
	// edwards25519 is little-endian, big.Int.Bytes() is big-endian.
	reduced := new(big.Int).Mod(n, ed25519Order)
	be := reduced.FillBytes(make([]byte, 32))

	var buf [32]byte
	for i := 0; i < 32; i++ {
		buf[i] = be[31-i]
	}

	s, err := edwards25519.NewScalar().SetCanonicalBytes(buf[:])
	if err != nil {
		// Unreachable: reduced < l is always canonical.
		panic(err)
	}
	return &Ed25519Scalar{s: s}
}

// Ed25519Scalar implements Scalar
type Ed25519Scalar struct {
	s *edwards25519.Scalar
}

func (s *Ed25519Scalar) Bytes() []byte {
	return s.s.Bytes()
}

func (s *Ed25519Scalar) BigInt() *big.Int {
	b := s.s.Bytes()
	buf := make([]byte, len(b))
	for i := range b {
		buf[len(b)-1-i] = b[i]
	}
	return new(big.Int).SetBytes(buf)
}

func (s *Ed25519Scalar) Add(other Scalar) Scalar {
	o, ok := other.(*Ed25519Scalar)
	if !ok {
		panic("type mismatch")
	}
	res := edwards25519.NewScalar().Add(s.s, o.s)
	return &Ed25519Scalar{s: res}
}

func (s *Ed25519Scalar) Mul(other Scalar) Scalar {
	o, ok := other.(*Ed25519Scalar)
	if !ok {
		panic("type mismatch")
	}
	res := edwards25519.NewScalar().Multiply(s.s, o.s)
	return &Ed25519Scalar{s: res}
}

func (s *Ed25519Scalar) Invert() (Scalar, error) {
	if s.s.Equal(edwards25519.NewScalar()) == 1 {
		return nil, errors.Wrap(ntheory.ErrNoInverse, "curves: zero has no inverse in the ed25519 scalar field")
	}
	res := edwards25519.NewScalar().Invert(s.s)
	return &Ed25519Scalar{s: res}, nil
}
