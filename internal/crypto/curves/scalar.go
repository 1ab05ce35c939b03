package curves

import (
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyu/go-ntcore/internal/crypto/modarith"
	"github.com/smallyu/go-ntcore/pkg/ntheory"
)

// Scalar represents a value in a prime-order scalar field.
type Scalar interface {
	// Bytes returns the serialization of the scalar.
	Bytes() []byte

	// BigInt returns the scalar as a big integer.
	BigInt() *big.Int

	// Add adds this scalar to another scalar.
	Add(s Scalar) Scalar

	// Mul multiplies this scalar by another scalar.
	Mul(s Scalar) Scalar

	// Invert returns the modular inverse of the scalar, or
	// ntheory.ErrNoInverse for zero.
	Invert() (Scalar, error)
}

// ScalarField creates scalars modulo a group order.
type ScalarField interface {
	// Name returns the name of the field.
	Name() string

	// Order returns the field modulus.
	Order() *big.Int

	// NewScalar generates a random scalar.
	NewScalar(random io.Reader) (Scalar, error)

	// NewScalarFromBigInt reduces n into the field.
	NewScalarFromBigInt(n *big.Int) Scalar
}

// Ed25519FieldName selects the edwards25519-backed scalar field.
const Ed25519FieldName = "ed25519"

// LookupField returns the scalar field for a name: "ed25519" for the
// edwards25519 backend, or any named curve for the field modulo its order.
func LookupField(name string) (ScalarField, error) {
	if name == Ed25519FieldName {
		return &Ed25519Curve{}, nil
	}
	c, err := Named(name)
	if err != nil {
		return nil, err
	}
	return NewModField(c.Name(), c.N)
}

// ModField is a scalar field over an arbitrary modulus, computed with modarith.
type ModField struct {
	name string
	n    *big.Int
}

// NewModField returns the field Z_n. n must be positive.
func NewModField(name string, n *big.Int) (*ModField, error) {
	if n == nil || n.Sign() <= 0 {
		return nil, errors.Wrapf(ntheory.ErrInvalidInput, "curves: field order %v must be positive", n)
	}
	return &ModField{name: name, n: new(big.Int).Set(n)}, nil
}

func (f *ModField) Name() string {
	return f.name
}

func (f *ModField) Order() *big.Int {
	return new(big.Int).Set(f.n)
}

func (f *ModField) NewScalar(random io.Reader) (Scalar, error) {
	k, err := randScalar(random, f.n)
	if err != nil {
		return nil, err
	}
	return &ModScalar{v: k, n: f.n}, nil
}

func (f *ModField) NewScalarFromBigInt(n *big.Int) Scalar {
	return &ModScalar{v: new(big.Int).Mod(n, f.n), n: f.n}
}

// ModScalar implements Scalar over a ModField.
type ModScalar struct {
	v *big.Int
	n *big.Int
}

func (s *ModScalar) Bytes() []byte {
	b := make([]byte, (s.n.BitLen()+7)/8)
	return s.v.FillBytes(b)
}

func (s *ModScalar) BigInt() *big.Int {
	return new(big.Int).Set(s.v)
}

func (s *ModScalar) Add(other Scalar) Scalar {
	o, ok := other.(*ModScalar)
	if !ok {
		panic("type mismatch")
	}
	res := new(big.Int).Add(s.v, o.v)
	return &ModScalar{v: res.Mod(res, s.n), n: s.n}
}

func (s *ModScalar) Mul(other Scalar) Scalar {
	o, ok := other.(*ModScalar)
	if !ok {
		panic("type mismatch")
	}
	res := new(big.Int).Mul(s.v, o.v)
	return &ModScalar{v: res.Mod(res, s.n), n: s.n}
}

func (s *ModScalar) Invert() (Scalar, error) {
	inv, err := modarith.ModInverse(s.v, s.n)
	if err != nil {
		return nil, err
	}
	return &ModScalar{v: inv, n: s.n}, nil
}
