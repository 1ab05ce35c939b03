// Package exchange runs two-party key agreements built on the arithmetic
// core: finite-field Diffie-Hellman and ECDH. Run and Agree compute both
// sides independently and fail with ntheory.ErrSecretMismatch when the two
// shared values differ. Session wraps an agreement in a commit-then-reveal
// message flow for parties that only exchange messages.
package exchange

import (
	"crypto/subtle"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyu/go-ntcore/internal/crypto/digest"
	"github.com/smallyu/go-ntcore/pkg/ntheory"
)

// KeyInfo is the HKDF info label used when deriving symmetric keys.
const KeyInfo = "ntcore|exchange"

// Transcript is the outcome of a two-sided agreement.
type Transcript struct {
	Scheme      string
	AlicePublic []byte
	BobPublic   []byte
	AliceSecret []byte
	BobSecret   []byte
}

// Secret returns the agreed shared value.
func (t *Transcript) Secret() []byte {
	return t.AliceSecret
}

// Key derives n bytes of key material from the shared value.
func (t *Transcript) Key(n int) ([]byte, error) {
	return digest.DeriveKey(t.AliceSecret, nil, KeyInfo, n)
}

// Run draws both private scalars from random and runs Agree.
func Run(random io.Reader, ka ntheory.KeyAgreement) (*Transcript, error) {
	a, err := ka.GeneratePrivate(random)
	if err != nil {
		return nil, ntheory.NewOpError("exchange", err)
	}
	b, err := ka.GeneratePrivate(random)
	if err != nil {
		return nil, ntheory.NewOpError("exchange", err)
	}
	return Agree(ka, a, b)
}

// Agree computes the public values of both parties and each side's view of
// the shared secret.
func Agree(ka ntheory.KeyAgreement, alicePriv, bobPriv *big.Int) (*Transcript, error) {
	if ka == nil {
		return nil, errors.Wrap(ntheory.ErrInvalidInput, "exchange: key agreement cannot be nil")
	}
	t := &Transcript{Scheme: ka.Name()}

	var err error
	if t.AlicePublic, err = ka.Public(alicePriv); err != nil {
		return nil, ntheory.NewOpError("exchange alice public", err)
	}
	if t.BobPublic, err = ka.Public(bobPriv); err != nil {
		return nil, ntheory.NewOpError("exchange bob public", err)
	}
	if t.AliceSecret, err = ka.Shared(alicePriv, t.BobPublic); err != nil {
		return nil, ntheory.NewOpError("exchange alice shared", err)
	}
	if t.BobSecret, err = ka.Shared(bobPriv, t.AlicePublic); err != nil {
		return nil, ntheory.NewOpError("exchange bob shared", err)
	}

	if err := compare(t.AliceSecret, t.BobSecret); err != nil {
		return t, err
	}
	return t, nil
}

func compare(a, b []byte) error {
	if len(a) != len(b) || subtle.ConstantTimeCompare(a, b) != 1 {
		return ntheory.NewOpError("exchange", ntheory.ErrSecretMismatch)
	}
	return nil
}
