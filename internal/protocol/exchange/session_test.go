package exchange

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/smallyu/go-ntcore/internal/crypto/curves"
	"github.com/smallyu/go-ntcore/pkg/ntheory"
)

func newPair(t *testing.T, ka ntheory.KeyAgreement) (*Session, *Message, *Session, *Message) {
	t.Helper()
	sid := []byte("session-42")
	alice, m1a, err := NewSession(SessionConfig{ID: "alice", Peer: "bob", SessionID: sid, Agreement: ka, Random: rand.Reader})
	require.NoError(t, err)
	bob, m1b, err := NewSession(SessionConfig{ID: "bob", Peer: "alice", SessionID: sid, Agreement: ka, Random: rand.Reader})
	require.NoError(t, err)
	return alice, m1a, bob, m1b
}

func runPair(t *testing.T, ka ntheory.KeyAgreement) (*Result, *Result) {
	t.Helper()
	alice, m1a, bob, m1b := newPair(t, ka)
	assert.Equal(t, TypeCommit, m1a.Type)
	assert.Equal(t, uint32(1), m1a.Round)

	m2a, err := alice.Update(m1b)
	require.NoError(t, err)
	m2b, err := bob.Update(m1a)
	require.NoError(t, err)
	assert.Equal(t, TypeReveal, m2a.Type)
	assert.Nil(t, alice.Result())

	out, err := alice.Update(m2b)
	require.NoError(t, err)
	assert.Nil(t, out)
	out, err = bob.Update(m2a)
	require.NoError(t, err)
	assert.Nil(t, out)

	require.NotNil(t, alice.Result())
	require.NotNil(t, bob.Result())
	return alice.Result(), bob.Result()
}

func TestSessionDH(t *testing.T) {
	a, b := runPair(t, DefaultDH())
	assert.Equal(t, a.Secret, b.Secret)
	assert.Equal(t, a.Key, b.Key)
	assert.Len(t, a.Key, 32)
	assert.Equal(t, a.Public, b.PeerPublic)
	assert.Equal(t, "dh-23", a.Scheme)
}

func TestSessionECDHWithProof(t *testing.T) {
	for _, name := range []string{curves.Secp256k1Name, curves.P256Name} {
		t.Run(name, func(t *testing.T) {
			ecdh, err := NewNamedECDH(name)
			require.NoError(t, err)
			a, b := runPair(t, ecdh)
			assert.Equal(t, a.Secret, b.Secret)
			assert.Equal(t, a.Key, b.Key)
		})
	}
}

func TestSessionRejectsTamperedReveal(t *testing.T) {
	ecdh, err := NewNamedECDH(curves.Secp256k1Name)
	require.NoError(t, err)
	alice, m1a, bob, m1b := newPair(t, ecdh)

	_, err = alice.Update(m1b)
	require.NoError(t, err)
	m2b, err := bob.Update(m1a)
	require.NoError(t, err)

	forged := *m2b
	forged.Payload = append([]byte(nil), m2b.Payload...)
	forged.Payload[0] ^= 0xFF // salt
	_, err = alice.Update(&forged)
	assert.ErrorIs(t, err, ntheory.ErrInvalidMsg)
	assert.Nil(t, alice.Result())

	forged.Payload = append([]byte(nil), m2b.Payload...)
	forged.Payload[len(forged.Payload)-1] ^= 0x01 // proof scalar
	_, err = alice.Update(&forged)
	assert.ErrorIs(t, err, ntheory.ErrInvalidMsg)

	_, err = alice.Update(&Message{From: "bob", Round: 2, Type: TypeReveal, Payload: []byte{1}})
	assert.ErrorIs(t, err, ntheory.ErrInvalidMsg)
}

func TestSessionMessageChecks(t *testing.T) {
	alice, m1a, _, m1b := newPair(t, DefaultDH())
	assert.Equal(t, "Exchange dh-23 Round 1", alice.Details())

	_, err := alice.Update(nil)
	assert.ErrorIs(t, err, ntheory.ErrInvalidMsg)

	// Own message looped back.
	_, err = alice.Update(m1a)
	assert.ErrorIs(t, err, ntheory.ErrInvalidMsg)

	wrongRound := *m1b
	wrongRound.Round = 2
	_, err = alice.Update(&wrongRound)
	assert.ErrorIs(t, err, ntheory.ErrInvalidMsg)

	wrongType := *m1b
	wrongType.Type = TypeReveal
	_, err = alice.Update(&wrongType)
	assert.ErrorIs(t, err, ntheory.ErrInvalidMsg)

	_, err = alice.Update(m1b)
	require.NoError(t, err)
	assert.Equal(t, "Exchange dh-23 Round 2", alice.Details())

	_, err = alice.Update(m1b)
	assert.ErrorIs(t, err, ntheory.ErrInvalidMsg)
}

func TestSessionDone(t *testing.T) {
	alice, m1a, bob, m1b := newPair(t, DefaultDH())
	m2a, err := alice.Update(m1b)
	require.NoError(t, err)
	m2b, err := bob.Update(m1a)
	require.NoError(t, err)
	_, err = alice.Update(m2b)
	require.NoError(t, err)
	_, err = bob.Update(m2a)
	require.NoError(t, err)

	assert.Equal(t, "Exchange dh-23 done", alice.Details())
	_, err = alice.Update(m2b)
	assert.ErrorIs(t, err, ntheory.ErrProtocolDone)
}

func TestNewSessionValidation(t *testing.T) {
	_, _, err := NewSession(SessionConfig{ID: "a", Peer: "b"})
	assert.ErrorIs(t, err, ntheory.ErrInvalidInput)
	_, _, err = NewSession(SessionConfig{ID: "a", Peer: "a", Agreement: DefaultDH()})
	assert.ErrorIs(t, err, ntheory.ErrInvalidInput)
	_, _, err = NewSession(SessionConfig{Peer: "b", Agreement: DefaultDH()})
	assert.ErrorIs(t, err, ntheory.ErrInvalidInput)
}

func TestSessionLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	_, _, err := NewSession(SessionConfig{
		ID: "alice", Peer: "bob", Agreement: DefaultDH(), Logger: zap.New(core),
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("committed to public value").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].ContextMap()["party"])
}
