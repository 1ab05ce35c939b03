// Package digest is the narrow hash and MAC collaborator used by the key
// exchange demos. It exposes digests and tags of byte sequences, a salted hash
// commitment, and HKDF-SHA256 for turning a shared secret into key bytes.
package digest

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"hash"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/hkdf"

	"github.com/smallyu/go-ntcore/pkg/ntheory"
)

// Algorithm names accepted by Sum and MAC.
const (
	MD5    = "md5"
	SHA1   = "sha1"
	SHA256 = "sha256"
	SHA512 = "sha512"
)

// fingerprintLen is the number of SHA-256 bytes kept by Fingerprint.
const fingerprintLen = 10

var algorithms = map[string]func() hash.Hash{
	MD5:    md5.New,
	SHA1:   sha1.New,
	SHA256: sha256.New,
	SHA512: sha512.New,
}

// Algorithms lists the supported algorithm names in sorted order.
func Algorithms() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookup(alg string) (func() hash.Hash, error) {
	h, ok := algorithms[strings.ToLower(alg)]
	if !ok {
		return nil, errors.Wrapf(ntheory.ErrInvalidInput, "digest: unknown algorithm %q", alg)
	}
	return h, nil
}

// Sum returns the digest of data under alg.
func Sum(alg string, data []byte) ([]byte, error) {
	newHash, err := lookup(alg)
	if err != nil {
		return nil, err
	}
	h := newHash()
	h.Write(data)
	return h.Sum(nil), nil
}

// MAC returns HMAC-alg(key, data).
func MAC(alg string, key, data []byte) ([]byte, error) {
	newHash, err := lookup(alg)
	if err != nil {
		return nil, err
	}
	m := hmac.New(newHash, key)
	m.Write(data)
	return m.Sum(nil), nil
}

// VerifyMAC reports whether tag is HMAC-alg(key, data), comparing in constant time.
func VerifyMAC(alg string, key, data, tag []byte) (bool, error) {
	want, err := MAC(alg, key, data)
	if err != nil {
		return false, err
	}
	return hmac.Equal(want, tag), nil
}

// Fingerprint is a short hex label for a public value: the first ten bytes
// of its SHA-256 digest.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:fingerprintLen])
}

// DeriveKey expands a shared secret into n bytes of key material with
// HKDF-SHA256. salt may be nil.
func DeriveKey(secret, salt []byte, info string, n int) ([]byte, error) {
	if len(secret) == 0 {
		return nil, errors.Wrap(ntheory.ErrInvalidInput, "digest: secret cannot be empty")
	}
	if n <= 0 || n > 255*sha256.Size {
		return nil, errors.Wrapf(ntheory.ErrInvalidInput, "digest: key length %d out of range", n)
	}
	r := hkdf.New(sha256.New, secret, salt, []byte(info))
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, errors.Wrap(err, "digest: hkdf expand")
	}
	return out, nil
}

// Commitment is a salted SHA-256 commitment C = H(salt || data).
type Commitment struct {
	C    []byte
	Salt []byte
}

// Commit commits to the concatenation of parts under a fresh 32-byte salt.
// A nil random uses crypto/rand.
func Commit(random io.Reader, parts ...[]byte) (*Commitment, error) {
	if random == nil {
		random = rand.Reader
	}
	salt := make([]byte, 32)
	if _, err := io.ReadFull(random, salt); err != nil {
		return nil, errors.Wrap(err, "digest: read salt")
	}
	return &Commitment{C: commit(salt, parts), Salt: salt}, nil
}

// Open reports whether c commits to parts.
func (c *Commitment) Open(parts ...[]byte) bool {
	if c == nil || len(c.C) != sha256.Size || len(c.Salt) != 32 {
		return false
	}
	return subtle.ConstantTimeCompare(commit(c.Salt, parts), c.C) == 1
}

func commit(salt []byte, parts [][]byte) []byte {
	h := sha256.New()
	h.Write(salt)
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}
