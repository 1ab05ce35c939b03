// Package rsa implements textbook RSA on top of modarith, with decryption
// through the Chinese Remainder Theorem. There is no padding: it is meant for
// demonstrating the arithmetic, not for protecting data.
package rsa

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyu/go-ntcore/internal/crypto/modarith"
	"github.com/smallyu/go-ntcore/pkg/ntheory"
)

var (
	one = big.NewInt(1)
)

// DefaultExponent is the public exponent used by GenerateKey when e is nil.
var DefaultExponent = big.NewInt(65537)

// primalityRounds is the Miller-Rabin round count for NewKey's prime checks.
const primalityRounds = 20

// PublicKey represents an RSA public key (n, e).
type PublicKey struct {
	N *big.Int // Modulus n = p * q
	E *big.Int // Public exponent
}

// PrivateKey represents an RSA private key together with its CRT values.
type PrivateKey struct {
	PublicKey
	D *big.Int // e^-1 mod phi(n)
	P *big.Int
	Q *big.Int

	Dp   *big.Int // d mod (p-1)
	Dq   *big.Int // d mod (q-1)
	QInv *big.Int // q^-1 mod p
}

// NewKey derives a private key from two distinct primes and a public exponent.
// It returns ntheory.ErrNoInverse when gcd(e, phi(n)) != 1.
func NewKey(p, q, e *big.Int) (*PrivateKey, error) {
	if p.Cmp(one) <= 0 || q.Cmp(one) <= 0 {
		return nil, errors.Wrap(ntheory.ErrInvalidInput, "rsa: p and q must be greater than 1")
	}
	if !p.ProbablyPrime(primalityRounds) || !q.ProbablyPrime(primalityRounds) {
		return nil, errors.Wrapf(ntheory.ErrInvalidInput, "rsa: p=%s and q=%s must be prime", p, q)
	}
	if p.Cmp(q) == 0 {
		return nil, errors.Wrap(ntheory.ErrInvalidInput, "rsa: p and q must differ")
	}

	// 1. n = p * q, phi = (p-1)(q-1)
	n := new(big.Int).Mul(p, q)
	pMinus1 := new(big.Int).Sub(p, one)
	qMinus1 := new(big.Int).Sub(q, one)
	phi := new(big.Int).Mul(pMinus1, qMinus1)

	if e.Cmp(one) <= 0 || e.Cmp(phi) >= 0 {
		return nil, errors.Wrapf(ntheory.ErrInvalidInput, "rsa: e=%s must lie in (1, phi=%s)", e, phi)
	}

	// 2. d = e^-1 mod phi
	d, err := modarith.ModInverse(e, phi)
	if err != nil {
		return nil, ntheory.NewOpError("rsa keygen", err)
	}

	// 3. CRT values
	qInv, err := modarith.ModInverse(q, p)
	if err != nil {
		return nil, ntheory.NewOpError("rsa keygen", err)
	}

	return &PrivateKey{
		PublicKey: PublicKey{
			N: n,
			E: new(big.Int).Set(e),
		},
		D:    d,
		P:    new(big.Int).Set(p),
		Q:    new(big.Int).Set(q),
		Dp:   new(big.Int).Mod(d, pMinus1),
		Dq:   new(big.Int).Mod(d, qMinus1),
		QInv: qInv,
	}, nil
}

// GenerateKey generates a key pair with the given bit length for the modulus n.
// A nil e selects DefaultExponent. bits must be at least 64.
func GenerateKey(random io.Reader, bits int, e *big.Int) (*PrivateKey, error) {
	if bits < 64 {
		return nil, errors.Wrapf(ntheory.ErrInvalidInput, "rsa: bits must be at least 64, got %d", bits)
	}
	if random == nil {
		random = rand.Reader
	}
	if e == nil {
		e = DefaultExponent
	}

	for {
		p, err := rand.Prime(random, bits/2)
		if err != nil {
			return nil, err
		}
		q, err := rand.Prime(random, bits-bits/2)
		if err != nil {
			return nil, err
		}
		if p.Cmp(q) == 0 {
			continue
		}

		key, err := NewKey(p, q, e)
		if errors.Is(err, ntheory.ErrNoInverse) {
			// e shares a factor with phi; draw new primes.
			continue
		}
		return key, err
	}
}

// Encrypt computes c = m^e mod n. m must be in the range [0, n).
func (pk *PublicKey) Encrypt(m *big.Int) (*big.Int, error) {
	if m.Sign() == -1 || m.Cmp(pk.N) >= 0 {
		return nil, errors.Wrapf(ntheory.ErrInvalidInput, "rsa: message must be in range [0, %s)", pk.N)
	}
	return modarith.FastPow(m, pk.E, pk.N)
}

// Decrypt computes m = c^d mod n directly.
func (priv *PrivateKey) Decrypt(c *big.Int) (*big.Int, error) {
	if err := priv.checkCiphertext(c); err != nil {
		return nil, err
	}
	return modarith.FastPow(c, priv.D, priv.N)
}

// DecryptCRT decrypts with two half-size exponentiations:
// mp = c^dp mod p, mq = c^dq mod q, h = qInv*(mp - mq) mod p, m = mq + h*q.
func (priv *PrivateKey) DecryptCRT(c *big.Int) (*big.Int, error) {
	if err := priv.checkCiphertext(c); err != nil {
		return nil, err
	}

	mp, err := modarith.FastPow(c, priv.Dp, priv.P)
	if err != nil {
		return nil, err
	}
	mq, err := modarith.FastPow(c, priv.Dq, priv.Q)
	if err != nil {
		return nil, err
	}

	h := new(big.Int).Sub(mp, mq)
	h.Mul(h, priv.QInv)
	h.Mod(h, priv.P)

	m := h.Mul(h, priv.Q)
	return m.Add(m, mq), nil
}

func (priv *PrivateKey) checkCiphertext(c *big.Int) error {
	if c.Sign() == -1 || c.Cmp(priv.N) >= 0 {
		return errors.Wrapf(ntheory.ErrInvalidInput, "rsa: ciphertext must be in range [0, %s)", priv.N)
	}
	return nil
}
