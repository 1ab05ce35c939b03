package curves

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-ntcore/pkg/ntheory"
)

func demoParams(t *testing.T) *Params {
	t.Helper()
	params, err := NewParams(big.NewInt(2), big.NewInt(3), big.NewInt(97))
	require.NoError(t, err)
	return params
}

func pt(x, y int64) Point {
	return NewPoint(big.NewInt(x), big.NewInt(y))
}

// allPoints enumerates every affine point of a small curve.
func allPoints(c *Params) []Point {
	var pts []Point
	p := c.P.Int64()
	for x := int64(0); x < p; x++ {
		for y := int64(0); y < p; y++ {
			candidate := pt(x, y)
			if c.IsOnCurve(candidate) {
				pts = append(pts, candidate)
			}
		}
	}
	return pts
}

func TestIsOnCurve(t *testing.T) {
	c := demoParams(t)

	assert.True(t, c.IsOnCurve(pt(3, 6)))
	assert.False(t, c.IsOnCurve(pt(3, 7)))
	assert.True(t, c.IsOnCurve(Infinity()))
	assert.True(t, c.IsOnCurve(Point{}), "zero value is the point at infinity")

	assert.NoError(t, c.RequireOnCurve(pt(3, 6)))
	assert.ErrorIs(t, c.RequireOnCurve(pt(3, 7)), ntheory.ErrInvalidInput)

	// The full group has 100 elements including infinity.
	assert.Len(t, allPoints(c), 99)
}

func TestGroupLaw(t *testing.T) {
	c := demoParams(t)
	p := pt(3, 6)

	t.Run("doubling", func(t *testing.T) {
		p2 := c.Add(p, p)
		assert.True(t, p2.Equal(pt(80, 10)), "got %s", p2)
		assert.True(t, p2.Equal(c.Double(p)))
		assert.True(t, p2.Equal(c.ScalarMult(big.NewInt(2), p)))
	})

	t.Run("associativity sample", func(t *testing.T) {
		left := c.Add(c.Add(p, p), p)
		right := c.Add(p, c.Add(p, p))
		assert.True(t, left.Equal(right))
		assert.True(t, left.Equal(pt(80, 87)), "got %s", left)
	})

	t.Run("order of (3, 6) is 5", func(t *testing.T) {
		assert.True(t, c.ScalarMult(big.NewInt(5), p).IsInfinity())
		assert.False(t, c.ScalarMult(big.NewInt(4), p).IsInfinity())
		assert.True(t, c.ScalarMult(big.NewInt(6), p).Equal(p))
	})

	t.Run("identity laws", func(t *testing.T) {
		assert.True(t, c.Add(p, Infinity()).Equal(p))
		assert.True(t, c.Add(Infinity(), p).Equal(p))
		assert.True(t, c.Add(Infinity(), Infinity()).IsInfinity())
		assert.True(t, c.ScalarMult(big.NewInt(0), p).IsInfinity())
		assert.True(t, c.ScalarMult(big.NewInt(7), Infinity()).IsInfinity())
		assert.True(t, c.Neg(Infinity()).IsInfinity())
		assert.True(t, c.Double(Infinity()).IsInfinity())
	})

	t.Run("vertical tangent", func(t *testing.T) {
		// A point with y = 0 has order 2.
		for _, q := range allPoints(c) {
			if q.Y.Sign() == 0 {
				assert.True(t, c.Add(q, q).IsInfinity())
				assert.True(t, c.Double(q).IsInfinity())
			}
		}
	})

	t.Run("unreduced coordinates", func(t *testing.T) {
		shifted := NewPoint(big.NewInt(3+97), big.NewInt(6-97))
		assert.True(t, c.Add(shifted, p).Equal(pt(80, 10)))
		assert.True(t, c.Point(big.NewInt(100), big.NewInt(-91)).Equal(p))
	})
}

func TestGroupLawExhaustive(t *testing.T) {
	params, err := NewParams(big.NewInt(0), big.NewInt(7), big.NewInt(37))
	require.NoError(t, err)
	pts := append(allPoints(params), Infinity())
	require.Len(t, pts, 39)

	for _, p := range pts {
		neg := params.Neg(p)
		assert.True(t, params.IsOnCurve(neg))
		assert.True(t, params.Neg(neg).Equal(p), "double negation of %s", p)
		assert.True(t, params.Add(p, neg).IsInfinity(), "P + (-P) for %s", p)

		for _, q := range pts {
			sum := params.Add(p, q)
			assert.True(t, params.IsOnCurve(sum), "%s + %s = %s off curve", p, q, sum)
			assert.True(t, sum.Equal(params.Add(q, p)), "commutativity for %s, %s", p, q)
		}
	}

	// Associativity on a sample of triples.
	for i := 0; i < len(pts); i += 5 {
		for j := 1; j < len(pts); j += 7 {
			for k := 2; k < len(pts); k += 11 {
				a, b, c := pts[i], pts[j], pts[k]
				left := params.Add(params.Add(a, b), c)
				right := params.Add(a, params.Add(b, c))
				assert.True(t, left.Equal(right), "(%s + %s) + %s", a, b, c)
			}
		}
	}
}

func TestScalarMult(t *testing.T) {
	params, err := NewParams(big.NewInt(0), big.NewInt(7), big.NewInt(37))
	require.NoError(t, err)
	g := pt(3, 16)

	acc := Infinity()
	for k := int64(0); k <= 80; k++ {
		got := params.ScalarMult(big.NewInt(k), g)
		assert.True(t, got.Equal(acc), "%d*G: got %s, want %s", k, got, acc)
		acc = params.Add(acc, g)
	}

	t.Run("negative scalar", func(t *testing.T) {
		for k := int64(1); k < 45; k++ {
			neg := params.ScalarMult(big.NewInt(-k), g)
			want := params.Neg(params.ScalarMult(big.NewInt(k), g))
			assert.True(t, neg.Equal(want), "k=%d", k)
		}
	})

	t.Run("distributes over scalar addition", func(t *testing.T) {
		a, b := big.NewInt(123456789), big.NewInt(987654321)
		left := params.ScalarMult(new(big.Int).Add(a, b), g)
		right := params.Add(params.ScalarMult(a, g), params.ScalarMult(b, g))
		assert.True(t, left.Equal(right))
	})
}

func TestValidate(t *testing.T) {
	assert.NoError(t, demoParams(t).Validate())

	// y^2 = x^3 has a zero discriminant.
	singular, err := NewParams(big.NewInt(0), big.NewInt(0), big.NewInt(97))
	require.NoError(t, err)
	assert.ErrorIs(t, singular.Validate(), ntheory.ErrInvalidInput)

	small, err := NewParams(big.NewInt(1), big.NewInt(1), big.NewInt(3))
	require.NoError(t, err)
	assert.ErrorIs(t, small.Validate(), ntheory.ErrInvalidInput)

	_, err = NewParams(big.NewInt(1), big.NewInt(1), big.NewInt(0))
	assert.ErrorIs(t, err, ntheory.ErrInvalidInput)
}

func TestCompositeModulus(t *testing.T) {
	// Over Z/15 the chord slope can hit a zero divisor; the result is the
	// point at infinity rather than a panic.
	params, err := NewParams(big.NewInt(1), big.NewInt(1), big.NewInt(15))
	require.NoError(t, err)
	got := params.Add(pt(1, 2), pt(4, 5))
	assert.True(t, got.IsInfinity())
}

func TestPointString(t *testing.T) {
	assert.Equal(t, "O", Infinity().String())
	assert.Equal(t, "(3, 6)", pt(3, 6).String())
	assert.Equal(t, "y^2 = x^3 + 2x + 3 (mod 97)", demoParams(t).String())
}

func TestOutputsAreReduced(t *testing.T) {
	c := demoParams(t)
	g := pt(3, 6)
	unreduced := pt(100, 6)

	assert.True(t, g.Equal(c.Add(Infinity(), unreduced)))
	assert.True(t, g.Equal(c.Add(unreduced, Infinity())))
	assert.True(t, g.Equal(c.ScalarMult(big.NewInt(1), unreduced)))
	assert.True(t, c.ScalarMult(big.NewInt(2), g).Equal(c.ScalarMult(big.NewInt(2), unreduced)))
}

func TestPointLiteralIsInfinity(t *testing.T) {
	literal := Point{X: big.NewInt(3), Y: big.NewInt(6)}
	assert.True(t, literal.IsInfinity())
	assert.False(t, pt(3, 6).IsInfinity())
	assert.False(t, demoParams(t).Point(big.NewInt(3), big.NewInt(6)).IsInfinity())
}
