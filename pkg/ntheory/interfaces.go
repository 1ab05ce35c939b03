package ntheory

import (
	"io"
	"math/big"
)

// KeyAgreement is a two-party key exchange built on the arithmetic core.
// Diffie-Hellman over Z_p* and ECDH over a short Weierstrass curve both
// implement it.
type KeyAgreement interface {
	// Name returns a human-readable identifier (e.g. "dh-23", "ecdh-secp256k1").
	Name() string

	// GeneratePrivate draws a private scalar from rand.
	// Callers handling real key material must pass a CSPRNG such as crypto/rand.Reader.
	GeneratePrivate(rand io.Reader) (*big.Int, error)

	// Public derives the public value for a private scalar.
	Public(priv *big.Int) ([]byte, error)

	// Shared combines a local private scalar with the peer's public value.
	Shared(priv *big.Int, peerPublic []byte) ([]byte, error)
}

// Parameters holds the caller-facing settings for a computation session.
type Parameters struct {
	Curve      string // Named curve for EC operations (e.g., "secp256k1", "demo97")
	DlogBudget int64  // Iteration budget for discrete-log searches, 0 means unbounded
	Method     string // Discrete-log method, "bsgs" or "brute"
}
