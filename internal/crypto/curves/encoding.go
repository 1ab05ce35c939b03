package curves

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyu/go-ntcore/pkg/ntheory"
)

// Marshal encodes an affine point as X || Y, each coordinate left-padded to
// g.ByteLen() bytes. The point at infinity has no encoding and yields nil.
func Marshal(g Group, p Point) []byte {
	if p.IsInfinity() {
		return nil
	}
	w := g.ByteLen()
	out := make([]byte, 2*w)
	p.X.FillBytes(out[:w])
	p.Y.FillBytes(out[w:])
	return out
}

// Unmarshal decodes a point produced by Marshal. It rejects wrong lengths,
// coordinates outside [0, p) and points that are not on the curve.
func Unmarshal(g Group, data []byte) (Point, error) {
	w := g.ByteLen()
	if len(data) != 2*w {
		return Infinity(), errors.Wrapf(ntheory.ErrInvalidInput, "curves: encoded point must be %d bytes, got %d", 2*w, len(data))
	}
	x, y := new(big.Int).SetBytes(data[:w]), new(big.Int).SetBytes(data[w:])
	if fp := g.FieldModulus(); x.Cmp(fp) >= 0 || y.Cmp(fp) >= 0 {
		return Infinity(), errors.Wrapf(ntheory.ErrInvalidInput, "curves: coordinates of %x are not reduced modulo the field prime", data)
	}
	p := NewPoint(x, y)
	if !g.IsOnCurve(p) {
		return Infinity(), errors.Wrapf(ntheory.ErrInvalidInput, "curves: point %s is not on %s", p, g.Name())
	}
	return p, nil
}

// MarshalScalar encodes k, reduced modulo the group order, at the order's byte width.
func MarshalScalar(g Group, k *big.Int) []byte {
	n := g.Order()
	out := make([]byte, (n.BitLen()+7)/8)
	new(big.Int).Mod(k, n).FillBytes(out)
	return out
}
