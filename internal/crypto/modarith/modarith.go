// Package modarith implements the integer arithmetic the rest of the module
// is built on: the extended Euclidean algorithm, modular inverses and modular
// exponentiation by repeated squaring.
//
// Nothing here is constant-time. FastPow and ModInverse leak the bit pattern
// of their inputs through timing and must not be used with secret exponents
// in an adversarial setting.
package modarith

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyu/go-ntcore/pkg/ntheory"
)

var (
	zero = big.NewInt(0)
	one  = big.NewInt(1)
	two  = big.NewInt(2)
)

// ExtendedGCD returns g = gcd(|a|, |b|) and Bezout coefficients x, y such that
// a*x + b*y = g. Any integers are accepted, including negatives and zero;
// ExtendedGCD(a, 0) = (|a|, sign(a), 0) with sign(0) taken as 1.
//
// The loop carries (old_r, r), (old_s, s), (old_t, t) forward with floored
// division, so coefficients agree with the classic recursive formulation
// without its recursion depth.
func ExtendedGCD(a, b *big.Int) (g, x, y *big.Int) {
	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldS, s := big.NewInt(1), big.NewInt(0)
	oldT, t := big.NewInt(0), big.NewInt(1)

	q := new(big.Int)
	tmp := new(big.Int)
	for r.Sign() != 0 {
		floorDiv(q, oldR, r)

		// (old_r, r) = (r, old_r - q*r)
		tmp.Mul(q, r)
		tmp.Sub(oldR, tmp)
		oldR, r = r, new(big.Int).Set(tmp)

		tmp.Mul(q, s)
		tmp.Sub(oldS, tmp)
		oldS, s = s, new(big.Int).Set(tmp)

		tmp.Mul(q, t)
		tmp.Sub(oldT, tmp)
		oldT, t = t, new(big.Int).Set(tmp)
	}

	// The base case normalises to a non-negative gcd; flipping every sign
	// keeps a*x + b*y = g.
	if oldR.Sign() < 0 {
		oldR.Neg(oldR)
		oldS.Neg(oldS)
		oldT.Neg(oldT)
	}
	return oldR, oldS, oldT
}

// floorDiv sets q = floor(a / b). big.Int.Div is Euclidean, which differs
// from floored division when b is negative and the remainder is non-zero.
func floorDiv(q, a, b *big.Int) *big.Int {
	m := new(big.Int)
	q.DivMod(a, b, m)
	if b.Sign() < 0 && m.Sign() != 0 {
		q.Sub(q, one)
	}
	return q
}

// ModInverse returns the unique i in [0, m-1] with a*i = 1 (mod m).
// a is reduced modulo m first, so negative values are fine.
// It returns ntheory.ErrNoInverse when gcd(a mod m, m) != 1 and
// ntheory.ErrInvalidInput when m is not positive.
func ModInverse(a, m *big.Int) (*big.Int, error) {
	if m.Sign() <= 0 {
		return nil, errors.Wrapf(ntheory.ErrInvalidInput, "modarith: modulus %s must be positive", m)
	}

	ar := new(big.Int).Mod(a, m)
	g, x, _ := ExtendedGCD(ar, m)
	if g.Cmp(one) != 0 {
		return nil, errors.Wrapf(ntheory.ErrNoInverse, "modarith: gcd(%s, %s) = %s", ar, m, g)
	}
	return x.Mod(x, m), nil
}

// FastPow computes base^exp mod m by right-to-left repeated squaring.
// exp must be non-negative and m positive; the result lies in [0, m-1].
func FastPow(base, exp, m *big.Int) (*big.Int, error) {
	if exp.Sign() < 0 {
		return nil, errors.Wrapf(ntheory.ErrInvalidInput, "modarith: negative exponent %s", exp)
	}
	if m.Sign() <= 0 {
		return nil, errors.Wrapf(ntheory.ErrInvalidInput, "modarith: modulus %s must be positive", m)
	}

	result := new(big.Int).Mod(one, m)
	b := new(big.Int).Mod(base, m)

	for i := 0; i < exp.BitLen(); i++ {
		if exp.Bit(i) == 1 {
			result.Mul(result, b)
			result.Mod(result, m)
		}
		b.Mul(b, b)
		b.Mod(b, m)
	}
	return result, nil
}

// MustFastPow is FastPow for callers that have already validated exp >= 0
// and m > 0. It panics otherwise.
func MustFastPow(base, exp, m *big.Int) *big.Int {
	r, err := FastPow(base, exp, m)
	if err != nil {
		panic(err)
	}
	return r
}

// ModInverseFermat computes a^(p-2) mod p, the inverse of a for a prime p.
// The primality of p is not checked; for composite p the result is garbage.
func ModInverseFermat(a, p *big.Int) (*big.Int, error) {
	if p.Cmp(two) < 0 {
		return nil, errors.Wrapf(ntheory.ErrInvalidInput, "modarith: modulus %s must be a prime >= 2", p)
	}
	if new(big.Int).Mod(a, p).Sign() == 0 {
		return nil, errors.Wrapf(ntheory.ErrNoInverse, "modarith: %s is 0 mod %s", a, p)
	}
	return FastPow(a, new(big.Int).Sub(p, two), p)
}

// GCD returns gcd(|a|, |b|).
func GCD(a, b *big.Int) *big.Int {
	g, _, _ := ExtendedGCD(a, b)
	return g
}

// IsCoprime reports whether gcd(a, b) = 1.
func IsCoprime(a, b *big.Int) bool {
	return GCD(a, b).Cmp(one) == 0
}

// IsZero reports whether a = 0 (mod m).
func IsZero(a, m *big.Int) bool {
	return new(big.Int).Mod(a, m).Cmp(zero) == 0
}
