package curves

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyu/go-ntcore/internal/crypto/modarith"
	"github.com/smallyu/go-ntcore/pkg/ntheory"
)

var (
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// Point is an affine point (X, Y) or the point at infinity, the group identity.
// The zero value is the point at infinity. Points are values: operations
// never mutate their inputs and always return freshly allocated coordinates,
// so copies may be shared freely.
//
// Build affine points with NewPoint or Params.Point. A composite literal such
// as Point{X: x, Y: y} leaves the affine tag unset and is the point at infinity.
type Point struct {
	X, Y   *big.Int
	affine bool
}

// Infinity returns the point at infinity.
func Infinity() Point {
	return Point{}
}

// NewPoint returns the affine point (x, y). The coordinates are copied.
func NewPoint(x, y *big.Int) Point {
	return Point{X: new(big.Int).Set(x), Y: new(big.Int).Set(y), affine: true}
}

// IsInfinity reports whether p is the identity.
func (p Point) IsInfinity() bool {
	return !p.affine
}

// Equal reports whether p and q are the same point.
func (p Point) Equal(q Point) bool {
	if !p.affine || !q.affine {
		return p.affine == q.affine
	}
	return p.X.Cmp(q.X) == 0 && p.Y.Cmp(q.Y) == 0
}

func (p Point) String() string {
	if !p.affine {
		return "O"
	}
	return fmt.Sprintf("(%s, %s)", p.X, p.Y)
}

// Params describes the curve y^2 = x^3 + a*x + b over GF(p).
//
// P is assumed prime and 4a^3 + 27b^2 != 0 (mod p); neither is enforced by
// the group operations. Call Validate once at an input boundary if needed.
type Params struct {
	A, B, P *big.Int
}

// NewParams builds curve parameters, rejecting a non-positive modulus.
func NewParams(a, b, p *big.Int) (*Params, error) {
	if p == nil || p.Sign() <= 0 {
		return nil, errors.Wrapf(ntheory.ErrInvalidInput, "curves: modulus %v must be positive", p)
	}
	return &Params{
		A: new(big.Int).Set(a),
		B: new(big.Int).Set(b),
		P: new(big.Int).Set(p),
	}, nil
}

func (c *Params) String() string {
	return fmt.Sprintf("y^2 = x^3 + %sx + %s (mod %s)", c.A, c.B, c.P)
}

// Validate checks that the modulus exceeds 3 and the discriminant
// 4a^3 + 27b^2 is non-zero mod p. Primality of p is not checked.
func (c *Params) Validate() error {
	if c.P.Cmp(three) <= 0 {
		return errors.Wrapf(ntheory.ErrInvalidInput, "curves: modulus %s must be a prime > 3", c.P)
	}
	a3 := new(big.Int).Exp(c.A, three, nil)
	a3.Mul(a3, big.NewInt(4))
	b2 := new(big.Int).Mul(c.B, c.B)
	b2.Mul(b2, big.NewInt(27))
	if modarith.IsZero(a3.Add(a3, b2), c.P) {
		return errors.Wrapf(ntheory.ErrInvalidInput, "curves: singular curve %s", c)
	}
	return nil
}

// Point reduces (x, y) modulo p and returns the affine point.
func (c *Params) Point(x, y *big.Int) Point {
	return Point{X: c.mod(x), Y: c.mod(y), affine: true}
}

func (c *Params) mod(v *big.Int) *big.Int {
	return new(big.Int).Mod(v, c.P)
}

// IsOnCurve reports whether pt satisfies the curve equation.
// The point at infinity is always on the curve.
func (c *Params) IsOnCurve(pt Point) bool {
	if pt.IsInfinity() {
		return true
	}
	// y^2 - x^3 - a*x - b
	lhs := new(big.Int).Mul(pt.Y, pt.Y)
	x3 := new(big.Int).Exp(pt.X, three, nil)
	ax := new(big.Int).Mul(c.A, pt.X)
	lhs.Sub(lhs, x3)
	lhs.Sub(lhs, ax)
	lhs.Sub(lhs, c.B)
	return modarith.IsZero(lhs, c.P)
}

// Neg returns -pt.
func (c *Params) Neg(pt Point) Point {
	if pt.IsInfinity() {
		return Infinity()
	}
	return Point{X: c.mod(pt.X), Y: c.mod(new(big.Int).Neg(pt.Y)), affine: true}
}

// Add returns p + q under the chord-and-tangent group law.
//
// Membership is not checked: off-curve inputs yield a well-defined but
// meaningless result. When a slope denominator has no inverse (only possible
// for a composite modulus) the result is the point at infinity.
func (c *Params) Add(p, q Point) Point {
	if p.IsInfinity() {
		return c.Point(q.X, q.Y)
	}
	if q.IsInfinity() {
		return c.Point(p.X, p.Y)
	}

	x1, y1 := c.mod(p.X), c.mod(p.Y)
	x2, y2 := c.mod(q.X), c.mod(q.Y)

	// P + (-P) = O
	sum := new(big.Int).Add(y1, y2)
	if x1.Cmp(x2) == 0 && modarith.IsZero(sum, c.P) {
		return Infinity()
	}

	var lambda *big.Int
	if x1.Cmp(x2) != 0 || y1.Cmp(y2) != 0 {
		// (y2 - y1) / (x2 - x1)
		inv, err := modarith.ModInverse(new(big.Int).Sub(x2, x1), c.P)
		if err != nil {
			return Infinity()
		}
		lambda = new(big.Int).Sub(y2, y1)
		lambda.Mul(lambda, inv)
	} else {
		var ok bool
		lambda, ok = c.tangent(x1, y1)
		if !ok {
			return Infinity()
		}
	}
	lambda.Mod(lambda, c.P)

	return c.chord(lambda, x1, y1, x2)
}

// Double returns 2p.
func (c *Params) Double(p Point) Point {
	if p.IsInfinity() {
		return p
	}
	x1, y1 := c.mod(p.X), c.mod(p.Y)
	lambda, ok := c.tangent(x1, y1)
	if !ok {
		return Infinity()
	}
	lambda.Mod(lambda, c.P)
	return c.chord(lambda, x1, y1, x1)
}

// tangent returns (3x^2 + a) / 2y, or false when the tangent is vertical.
func (c *Params) tangent(x, y *big.Int) (*big.Int, bool) {
	if y.Sign() == 0 {
		return nil, false
	}
	inv, err := modarith.ModInverse(new(big.Int).Mul(two, y), c.P)
	if err != nil {
		return nil, false
	}
	num := new(big.Int).Mul(x, x)
	num.Mul(num, three)
	num.Add(num, c.A)
	return num.Mul(num, inv), true
}

// chord finishes the group law for a given slope:
// x3 = lambda^2 - x1 - x2, y3 = lambda*(x1 - x3) - y1.
func (c *Params) chord(lambda, x1, y1, x2 *big.Int) Point {
	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, x1)
	x3.Sub(x3, x2)
	x3.Mod(x3, c.P)

	y3 := new(big.Int).Sub(x1, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, y1)
	y3.Mod(y3, c.P)

	return Point{X: x3, Y: y3, affine: true}
}

// ScalarMult computes k*p by right-to-left double-and-add in O(log |k|)
// group operations. Negative k multiplies -p by |k|.
//
// The sequence of operations depends on the bits of k, so the running time
// leaks k. Do not use it with secret scalars where timing is observable.
func (c *Params) ScalarMult(k *big.Int, p Point) Point {
	if k.Sign() == 0 || p.IsInfinity() {
		return Infinity()
	}
	if k.Sign() < 0 {
		return c.ScalarMult(new(big.Int).Neg(k), c.Neg(p))
	}

	result := Infinity()
	addend := p
	for i := 0; i < k.BitLen(); i++ {
		if k.Bit(i) == 1 {
			result = c.Add(result, addend)
		}
		addend = c.Double(addend)
	}
	return result
}

// RequireOnCurve returns ntheory.ErrInvalidInput when pt is not on the curve.
// It is meant for input boundaries; the group operations never call it.
func (c *Params) RequireOnCurve(pt Point) error {
	if !c.IsOnCurve(pt) {
		return errors.Wrapf(ntheory.ErrInvalidInput, "curves: point %s is not on %s", pt, c)
	}
	return nil
}
