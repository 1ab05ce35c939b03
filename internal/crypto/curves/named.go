package curves

import (
	"crypto/elliptic"
	"math/big"
	"sort"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"

	"github.com/smallyu/go-ntcore/pkg/ntheory"
)

// Named curve identifiers.
const (
	Secp256k1Name = "secp256k1"
	P256Name      = "p256"
	Demo97Name    = "demo97"
	Demo37Name    = "ecdh37"
)

var registry = map[string]func() *Curve{
	Secp256k1Name: newSecp256k1Curve,
	P256Name:      newP256Curve,
	Demo97Name:    newDemo97Curve,
	Demo37Name:    newDemo37Curve,
}

// Named returns a fresh instance of a registered curve.
func Named(name string) (*Curve, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, errors.Wrapf(ntheory.ErrInvalidInput, "curves: unknown curve %q", name)
	}
	return ctor(), nil
}

// Names lists the registered curves in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// secp256k1: y^2 = x^3 + 7, parameters taken from decred.
func newSecp256k1Curve() *Curve {
	p := secp256k1.S256().Params()
	return &Curve{
		Params: &Params{A: big.NewInt(0), B: new(big.Int).Set(p.B), P: new(big.Int).Set(p.P)},
		name:   Secp256k1Name,
		G:      NewPoint(p.Gx, p.Gy),
		N:      new(big.Int).Set(p.N),
	}
}

// NIST P-256: y^2 = x^3 - 3x + b.
func newP256Curve() *Curve {
	p := elliptic.P256().Params()
	a := new(big.Int).Sub(p.P, big.NewInt(3))
	return &Curve{
		Params: &Params{A: a, B: new(big.Int).Set(p.B), P: new(big.Int).Set(p.P)},
		name:   P256Name,
		G:      NewPoint(p.Gx, p.Gy),
		N:      new(big.Int).Set(p.N),
	}
}

// Teaching curve y^2 = x^3 + 2x + 3 over GF(97). The group has 100 points;
// (3, 6) generates a subgroup of order 5.
func newDemo97Curve() *Curve {
	return &Curve{
		Params: &Params{A: big.NewInt(2), B: big.NewInt(3), P: big.NewInt(97)},
		name:   Demo97Name,
		G:      NewPoint(big.NewInt(3), big.NewInt(6)),
		N:      big.NewInt(5),
	}
}

// Teaching curve y^2 = x^3 + 7 over GF(37). The group is cyclic of order 39
// and (3, 16) generates it.
func newDemo37Curve() *Curve {
	return &Curve{
		Params: &Params{A: big.NewInt(0), B: big.NewInt(7), P: big.NewInt(37)},
		name:   Demo37Name,
		G:      NewPoint(big.NewInt(3), big.NewInt(16)),
		N:      big.NewInt(39),
	}
}
