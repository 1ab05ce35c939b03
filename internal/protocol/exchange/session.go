package exchange

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/smallyu/go-ntcore/internal/crypto/digest"
	"github.com/smallyu/go-ntcore/pkg/ntheory"
)

const (
	saltLen       = 32
	defaultKeyLen = 32
)

// Prover is implemented by agreements that can prove ownership of a public
// value. Sessions over such agreements attach and check the proof.
type Prover interface {
	Prove(random io.Reader, priv *big.Int, context []byte) ([]byte, error)
	Verify(public, proof, context []byte) error
}

// SessionConfig configures one side of a Session.
type SessionConfig struct {
	ID        string               // local party
	Peer      string               // remote party
	SessionID []byte               // binds commitments and proofs to this run
	Agreement ntheory.KeyAgreement
	Random    io.Reader            // nil selects crypto/rand
	Logger    *zap.Logger          // nil disables logging
	KeyLen    int                  // derived key length, 0 selects 32
}

// Session runs one side of a two-round exchange.
//
// Round 1: each side broadcasts a commitment to its public value.
// Round 2: each side reveals the public value and the commitment salt,
// plus a proof of possession when the agreement is a Prover.
// After the peer's reveal opens its commitment the shared secret and a
// derived key are available from Result.
type Session struct {
	cfg    SessionConfig
	logger *zap.Logger

	// Current round number (1-based); 3 once finished
	round int

	priv   *big.Int
	public []byte
	commit *digest.Commitment

	peerCommit []byte
	result     *Result
}

// NewSession initializes a Session and executes round 1, returning the
// commitment message for the peer.
func NewSession(cfg SessionConfig) (*Session, *Message, error) {
	if cfg.Agreement == nil {
		return nil, nil, errors.Wrap(ntheory.ErrInvalidInput, "session: agreement cannot be nil")
	}
	if cfg.ID == "" || cfg.Peer == "" || cfg.ID == cfg.Peer {
		return nil, nil, errors.Wrap(ntheory.ErrInvalidInput, "session: party ids must be distinct and non-empty")
	}
	if cfg.KeyLen == 0 {
		cfg.KeyLen = defaultKeyLen
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Session{
		cfg:    cfg,
		logger: logger.With(zap.String("party", cfg.ID), zap.String("scheme", cfg.Agreement.Name())),
		round:  1,
	}
	msg, err := s.round1()
	if err != nil {
		return nil, nil, err
	}
	return s, msg, nil
}

func (s *Session) round1() (*Message, error) {
	priv, err := s.cfg.Agreement.GeneratePrivate(s.cfg.Random)
	if err != nil {
		return nil, ntheory.NewOpError("session round 1", err)
	}
	public, err := s.cfg.Agreement.Public(priv)
	if err != nil {
		return nil, ntheory.NewOpError("session round 1", err)
	}
	comm, err := digest.Commit(s.cfg.Random, s.cfg.SessionID, []byte(s.cfg.ID), public)
	if err != nil {
		return nil, ntheory.NewOpError("session round 1", err)
	}

	s.priv, s.public, s.commit = priv, public, comm
	s.logger.Debug("committed to public value", zap.String("fingerprint", digest.Fingerprint(public)))

	return &Message{From: s.cfg.ID, Round: 1, Type: TypeCommit, Payload: comm.C}, nil
}

// Update applies the peer's next message and returns the message to send
// back, if any.
func (s *Session) Update(msg *Message) (*Message, error) {
	if s.result != nil {
		return nil, ntheory.ErrProtocolDone
	}
	if msg == nil {
		return nil, errors.Wrap(ntheory.ErrInvalidMsg, "session: nil message")
	}
	if msg.From != s.cfg.Peer {
		return nil, errors.Wrapf(ntheory.ErrInvalidMsg, "session: message from %q, expected %q", msg.From, s.cfg.Peer)
	}
	if msg.Round != uint32(s.round) {
		return nil, errors.Wrapf(ntheory.ErrInvalidMsg, "session: received message for round %d, expected %d", msg.Round, s.round)
	}

	switch s.round {
	case 1:
		return s.round2(msg)
	case 2:
		return nil, s.finish(msg)
	default:
		return nil, fmt.Errorf("session: unknown round %d", s.round)
	}
}

func (s *Session) round2(msg *Message) (*Message, error) {
	if msg.Type != TypeCommit || len(msg.Payload) == 0 {
		return nil, errors.Wrap(ntheory.ErrInvalidMsg, "session: expected a commitment")
	}
	s.peerCommit = append([]byte(nil), msg.Payload...)

	var proof []byte
	if p, ok := s.cfg.Agreement.(Prover); ok {
		var err error
		proof, err = p.Prove(s.cfg.Random, s.priv, s.proofContext(s.cfg.ID))
		if err != nil {
			return nil, ntheory.NewOpError("session round 2", err)
		}
	}

	s.round = 2
	s.logger.Debug("revealing public value")
	return &Message{
		From:    s.cfg.ID,
		Round:   2,
		Type:    TypeReveal,
		Payload: encodeReveal(s.commit.Salt, s.public, proof),
	}, nil
}

func (s *Session) finish(msg *Message) error {
	if msg.Type != TypeReveal {
		return errors.Wrap(ntheory.ErrInvalidMsg, "session: expected a reveal")
	}
	salt, peerPublic, proof, err := decodeReveal(msg.Payload)
	if err != nil {
		return err
	}

	peerComm := &digest.Commitment{C: s.peerCommit, Salt: salt}
	if !peerComm.Open(s.cfg.SessionID, []byte(s.cfg.Peer), peerPublic) {
		return errors.Wrap(ntheory.ErrInvalidMsg, "session: reveal does not open the peer commitment")
	}
	if p, ok := s.cfg.Agreement.(Prover); ok {
		if err := p.Verify(peerPublic, proof, s.proofContext(s.cfg.Peer)); err != nil {
			return errors.Wrap(ntheory.ErrInvalidMsg, err.Error())
		}
	}

	secret, err := s.cfg.Agreement.Shared(s.priv, peerPublic)
	if err != nil {
		return ntheory.NewOpError("session finish", err)
	}
	key, err := digest.DeriveKey(secret, s.cfg.SessionID, KeyInfo, s.cfg.KeyLen)
	if err != nil {
		return ntheory.NewOpError("session finish", err)
	}

	s.round = 3
	s.result = &Result{
		Scheme:     s.cfg.Agreement.Name(),
		Public:     s.public,
		PeerPublic: peerPublic,
		Secret:     secret,
		Key:        key,
	}
	s.logger.Debug("exchange complete", zap.String("key", digest.Fingerprint(key)))
	return nil
}

// Result returns the outcome, or nil while the exchange is still running.
func (s *Session) Result() *Result {
	return s.result
}

func (s *Session) Details() string {
	if s.result != nil {
		return fmt.Sprintf("Exchange %s done", s.cfg.Agreement.Name())
	}
	return fmt.Sprintf("Exchange %s Round %d", s.cfg.Agreement.Name(), s.round)
}

func (s *Session) proofContext(party string) []byte {
	ctx := append([]byte(nil), s.cfg.SessionID...)
	return append(ctx, party...)
}

// Reveal payload: salt || len(public) as uint16 || public || proof.
func encodeReveal(salt, public, proof []byte) []byte {
	out := make([]byte, 0, saltLen+2+len(public)+len(proof))
	out = append(out, salt...)
	out = binary.BigEndian.AppendUint16(out, uint16(len(public)))
	out = append(out, public...)
	return append(out, proof...)
}

func decodeReveal(data []byte) (salt, public, proof []byte, err error) {
	if len(data) < saltLen+2 {
		return nil, nil, nil, errors.Wrap(ntheory.ErrInvalidMsg, "session: reveal too short")
	}
	salt = data[:saltLen]
	n := int(binary.BigEndian.Uint16(data[saltLen:]))
	rest := data[saltLen+2:]
	if len(rest) < n {
		return nil, nil, nil, errors.Wrap(ntheory.ErrInvalidMsg, "session: truncated public value")
	}
	return salt, rest[:n], rest[n:], nil
}
