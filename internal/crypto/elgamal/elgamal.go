// Package elgamal implements ElGamal encryption over Z_p*.
//
// Randomness is always injected. The private key x and the per-message
// session key k are drawn from the io.Reader passed by the caller, so tests
// can be deterministic while real use passes crypto/rand.Reader.
package elgamal

import (
	"crypto/rand"
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

// PublicKey is (p, g, y = g^x mod p).
type PublicKey struct {
	P *big.Int
	G *big.Int
	Y *big.Int
}

// PrivateKey holds the secret exponent x.
type PrivateKey struct {
	PublicKey
	X *big.Int
}

// Ciphertext is the pair (c1, c2) = (g^k, m*y^k).
type Ciphertext struct {
	C1 *big.Int
	C2 *big.Int
}

// GenerateKey picks x uniformly in [2, p-2] and returns the key pair.
// p must be a prime of at least 5; g should generate a large subgroup of Z_p*.
func GenerateKey(random io.Reader, p, g *big.Int) (*PrivateKey, error) {
	if err := checkGroup(p, g); err != nil {
		return nil, err
	}
	x, err := randExponent(random, p)
	if err != nil {
		return nil, err
	}
	return NewKey(p, g, x)
}

// NewKey builds a key pair from an explicit private exponent.
func NewKey(p, g, x *big.Int) (*PrivateKey, error) {
	if err := checkGroup(p, g); err != nil {
		return nil, err
	}
	y, err := modarith.FastPow(g, x, p)
	if err != nil {
		return nil, ntheory.NewOpError("elgamal keygen", err)
	}
	return &PrivateKey{
		PublicKey: PublicKey{
			P: new(big.Int).Set(p),
			G: new(big.Int).Set(g),
			Y: y,
		},
		X: new(big.Int).Set(x),
	}, nil
}

// Encrypt encrypts m in [1, p-1] with a fresh session key from random.
func (pk *PublicKey) Encrypt(random io.Reader, m *big.Int) (*Ciphertext, error) {
	k, err := randExponent(random, pk.P)
	if err != nil {
		return nil, err
	}
	return pk.EncryptWithK(m, k)
}

// EncryptWithK encrypts m using the given session key k.
// Reusing k across messages reveals their ratio.
func (pk *PublicKey) EncryptWithK(m, k *big.Int) (*Ciphertext, error) {
	if m.Sign() <= 0 || m.Cmp(pk.P) >= 0 {
		return nil, errors.Wrapf(ntheory.ErrInvalidInput, "elgamal: message must be in range [1, %s)", pk.P)
	}

	c1, err := modarith.FastPow(pk.G, k, pk.P)
	if err != nil {
		return nil, ntheory.NewOpError("elgamal encrypt", err)
	}
	// Shared secret s = y^k
	s, err := modarith.FastPow(pk.Y, k, pk.P)
	if err != nil {
		return nil, ntheory.NewOpError("elgamal encrypt", err)
	}

	c2 := new(big.Int).Mul(m, s)
	c2.Mod(c2, pk.P)

	return &Ciphertext{C1: c1, C2: c2}, nil
}

// Decrypt recovers m = c2 * (c1^x)^-1 mod p.
func (priv *PrivateKey) Decrypt(ct *Ciphertext) (*big.Int, error) {
	if ct == nil || ct.C1 == nil || ct.C2 == nil {
		return nil, errors.Wrap(ntheory.ErrInvalidInput, "elgamal: ciphertext cannot be nil")
	}

	s, err := modarith.FastPow(ct.C1, priv.X, priv.P)
	if err != nil {
		return nil, ntheory.NewOpError("elgamal decrypt", err)
	}
	sInv, err := modarith.ModInverseFermat(s, priv.P)
	if err != nil {
		return nil, ntheory.NewOpError("elgamal decrypt", err)
	}

	m := new(big.Int).Mul(ct.C2, sInv)
	return m.Mod(m, priv.P), nil
}

func checkGroup(p, g *big.Int) error {
	if p == nil || g == nil {
		return errors.Wrap(ntheory.ErrInvalidInput, "elgamal: p and g cannot be nil")
	}
	if p.Cmp(five) < 0 {
		return errors.Wrapf(ntheory.ErrInvalidInput, "elgamal: modulus %s must be a prime >= 5", p)
	}
	if g.Cmp(two) < 0 || g.Cmp(p) >= 0 {
		return errors.Wrapf(ntheory.ErrInvalidInput, "elgamal: generator %s must lie in [2, p)", g)
	}
	return nil
}

// randExponent draws uniformly from [2, p-2].
func randExponent(random io.Reader, p *big.Int) (*big.Int, error) {
	if random == nil {
		random = rand.Reader
	}
	// p-3 values: [0, p-4] shifted by 2
	span := new(big.Int).Sub(p, big.NewInt(3))
	k, err := rand.Int(random, span)
	if err != nil {
		return nil, err
	}
	return k.Add(k, two), nil
}
