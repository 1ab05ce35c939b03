package curves

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Group defines the elliptic curve operations needed by key agreement.
type Group interface {
	// Name returns the curve name, e.g. "secp256k1".
	Name() string

	// Order returns the order N of the generator.
	Order() *big.Int

	// Generator returns the base point G.
	Generator() Point

	// NewScalar generates a random scalar in [1, N-1]
	NewScalar(random io.Reader) (*big.Int, error)

	// ScalarBaseMult computes k * G (base point multiplication)
	ScalarBaseMult(k *big.Int) Point

	// ScalarMult computes k * P
	ScalarMult(p Point, k *big.Int) Point

	// Add combines two points
	Add(p, q Point) Point

	// IsOnCurve reports curve membership
	IsOnCurve(p Point) bool

	// FieldModulus returns the prime p of the underlying field; canonical
	// coordinates lie in [0, p).
	FieldModulus() *big.Int

	// ByteLen is the fixed width of one encoded coordinate.
	ByteLen() int
}

// Curve is a short Weierstrass curve with a base point, computed with the
// generic affine arithmetic in this package.
type Curve struct {
	*Params
	name string
	G    Point
	N    *big.Int // Order of G
}

// NewCurve binds a name, base point and its order to curve parameters.
func NewCurve(name string, params *Params, g Point, n *big.Int) *Curve {
	return &Curve{
		Params: params,
		name:   name,
		G:      g,
		N:      new(big.Int).Set(n),
	}
}

func (c *Curve) Name() string {
	return c.name
}

func (c *Curve) Order() *big.Int {
	return new(big.Int).Set(c.N)
}

func (c *Curve) Generator() Point {
	return c.G
}

func (c *Curve) NewScalar(random io.Reader) (*big.Int, error) {
	return randScalar(random, c.N)
}

func (c *Curve) ScalarBaseMult(k *big.Int) Point {
	return c.Params.ScalarMult(k, c.G)
}

func (c *Curve) ScalarMult(p Point, k *big.Int) Point {
	return c.Params.ScalarMult(k, p)
}

func (c *Curve) FieldModulus() *big.Int {
	return new(big.Int).Set(c.P)
}

func (c *Curve) ByteLen() int {
	return (c.P.BitLen() + 7) / 8
}

// Secp256k1 is the reference backend for secp256k1, delegating to decred's
// Jacobian-coordinate implementation.
type Secp256k1 struct{}

// NewSecp256k1 returns a new instance of the Secp256k1 curve wrapper
func NewSecp256k1() Group {
	return &Secp256k1{}
}

func (c *Secp256k1) Name() string {
	return "secp256k1-ref"
}

func (c *Secp256k1) Order() *big.Int {
	return new(big.Int).Set(secp256k1.S256().Params().N)
}

func (c *Secp256k1) Generator() Point {
	params := secp256k1.S256().Params()
	return NewPoint(params.Gx, params.Gy)
}

func (c *Secp256k1) NewScalar(random io.Reader) (*big.Int, error) {
	return randScalar(random, secp256k1.S256().Params().N)
}

func (c *Secp256k1) ScalarBaseMult(k *big.Int) Point {
	if k.Sign() < 0 {
		return c.ScalarMult(c.Generator(), k)
	}
	return fromAffine(secp256k1.S256().ScalarBaseMult(k.Bytes()))
}

func (c *Secp256k1) ScalarMult(p Point, k *big.Int) Point {
	if p.IsInfinity() || k.Sign() == 0 {
		return Infinity()
	}
	if k.Sign() < 0 {
		k = new(big.Int).Neg(k)
		p = NewPoint(p.X, new(big.Int).Sub(secp256k1.S256().Params().P, p.Y))
	}
	return fromAffine(secp256k1.S256().ScalarMult(p.X, p.Y, k.Bytes()))
}

func (c *Secp256k1) Add(p, q Point) Point {
	if p.IsInfinity() {
		return q
	}
	if q.IsInfinity() {
		return p
	}
	return fromAffine(secp256k1.S256().Add(p.X, p.Y, q.X, q.Y))
}

func (c *Secp256k1) IsOnCurve(p Point) bool {
	if p.IsInfinity() {
		return true
	}
	return secp256k1.S256().IsOnCurve(p.X, p.Y)
}

func (c *Secp256k1) FieldModulus() *big.Int {
	return new(big.Int).Set(secp256k1.S256().Params().P)
}

func (c *Secp256k1) ByteLen() int {
	return 32
}

// fromAffine maps the crypto/elliptic convention, where (0, 0) stands for
// the point at infinity, onto Point.
func fromAffine(x, y *big.Int) Point {
	if x.Sign() == 0 && y.Sign() == 0 {
		return Infinity()
	}
	return NewPoint(x, y)
}

// randScalar draws a uniform integer in [1, n-1].
func randScalar(random io.Reader, n *big.Int) (*big.Int, error) {
	if random == nil {
		random = rand.Reader
	}
	k, err := rand.Int(random, new(big.Int).Sub(n, big.NewInt(1)))
	if err != nil {
		return nil, err
	}
	return k.Add(k, big.NewInt(1)), nil
}
