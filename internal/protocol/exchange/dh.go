package exchange

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyu/go-ntcore/internal/crypto/modarith"
	"github.com/smallyu/go-ntcore/pkg/ntheory"
)

var (
	two  = big.NewInt(2)
	five = big.NewInt(5)
)

// Default Diffie-Hellman group: 5 generates Z_23*.
var (
	DefaultP = big.NewInt(23)
	DefaultG = big.NewInt(5)
)

// DH is finite-field Diffie-Hellman in Z_p*. Public values and shared
// secrets are big-endian integers left-padded to the byte length of p.
type DH struct {
	p, g *big.Int
}

// NewDH returns Diffie-Hellman over Z_p* with generator g.
// p must be at least 5 and g must lie in [2, p).
func NewDH(p, g *big.Int) (*DH, error) {
	if p == nil || g == nil {
		return nil, errors.Wrap(ntheory.ErrInvalidInput, "dh: p and g cannot be nil")
	}
	if p.Cmp(five) < 0 {
		return nil, errors.Wrapf(ntheory.ErrInvalidInput, "dh: modulus %s must be a prime >= 5", p)
	}
	if g.Cmp(two) < 0 || g.Cmp(p) >= 0 {
		return nil, errors.Wrapf(ntheory.ErrInvalidInput, "dh: generator %s must lie in [2, p)", g)
	}
	return &DH{p: new(big.Int).Set(p), g: new(big.Int).Set(g)}, nil
}

// DefaultDH returns the p=23, g=5 group.
func DefaultDH() *DH {
	return &DH{p: new(big.Int).Set(DefaultP), g: new(big.Int).Set(DefaultG)}
}

func (d *DH) Name() string {
	return fmt.Sprintf("dh-%s", d.p)
}

// Modulus returns p.
func (d *DH) Modulus() *big.Int {
	return new(big.Int).Set(d.p)
}

// Generator returns g.
func (d *DH) Generator() *big.Int {
	return new(big.Int).Set(d.g)
}

// GeneratePrivate draws a private exponent uniformly from [2, p-2].
func (d *DH) GeneratePrivate(random io.Reader) (*big.Int, error) {
	if random == nil {
		random = rand.Reader
	}
	span := new(big.Int).Sub(d.p, big.NewInt(3))
	k, err := rand.Int(random, span)
	if err != nil {
		return nil, errors.Wrap(err, "dh: draw private exponent")
	}
	return k.Add(k, two), nil
}

// Public returns g^priv mod p.
func (d *DH) Public(priv *big.Int) ([]byte, error) {
	if err := d.checkPrivate(priv); err != nil {
		return nil, err
	}
	y, err := modarith.FastPow(d.g, priv, d.p)
	if err != nil {
		return nil, ntheory.NewOpError("dh public", err)
	}
	return d.encode(y), nil
}

// Shared returns peer^priv mod p. The peer value must lie in [2, p).
func (d *DH) Shared(priv *big.Int, peerPublic []byte) ([]byte, error) {
	if err := d.checkPrivate(priv); err != nil {
		return nil, err
	}
	peer, err := d.Decode(peerPublic)
	if err != nil {
		return nil, err
	}
	s, err := modarith.FastPow(peer, priv, d.p)
	if err != nil {
		return nil, ntheory.NewOpError("dh shared", err)
	}
	return d.encode(s), nil
}

// Decode parses a public value produced by Public.
func (d *DH) Decode(data []byte) (*big.Int, error) {
	if len(data) != d.byteLen() {
		return nil, errors.Wrapf(ntheory.ErrInvalidInput, "dh: public value must be %d bytes, got %d", d.byteLen(), len(data))
	}
	v := new(big.Int).SetBytes(data)
	if v.Cmp(two) < 0 || v.Cmp(d.p) >= 0 {
		return nil, errors.Wrapf(ntheory.ErrInvalidInput, "dh: public value %s outside [2, %s)", v, d.p)
	}
	return v, nil
}

func (d *DH) checkPrivate(priv *big.Int) error {
	if priv == nil || priv.Sign() <= 0 {
		return errors.Wrap(ntheory.ErrInvalidInput, "dh: private exponent must be positive")
	}
	return nil
}

func (d *DH) byteLen() int {
	return (d.p.BitLen() + 7) / 8
}

func (d *DH) encode(v *big.Int) []byte {
	return v.FillBytes(make([]byte, d.byteLen()))
}
