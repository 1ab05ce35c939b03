package digest

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-ntcore/pkg/ntheory"
)

func TestSumKnownVectors(t *testing.T) {
	cases := []struct {
		alg  string
		want string
	}{
		{MD5, "900150983cd24fb0d6963f7d28e17f72"},
		{SHA1, "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{SHA256, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{SHA512, "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f"},
	}
	for _, tc := range cases {
		t.Run(tc.alg, func(t *testing.T) {
			got, err := Sum(tc.alg, []byte("abc"))
			require.NoError(t, err)
			assert.Equal(t, tc.want, hex.EncodeToString(got))
		})
	}

	upper, err := Sum("SHA256", []byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, cases[2].want, hex.EncodeToString(upper))

	_, err = Sum("whirlpool", nil)
	assert.ErrorIs(t, err, ntheory.ErrInvalidInput)
}

func TestMAC(t *testing.T) {
	// RFC 4231 test case 2.
	tag, err := MAC(SHA256, []byte("Jefe"), []byte("what do ya want for nothing?"))
	require.NoError(t, err)
	assert.Equal(t, "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843", hex.EncodeToString(tag))

	ok, err := VerifyMAC(SHA256, []byte("Jefe"), []byte("what do ya want for nothing?"), tag)
	require.NoError(t, err)
	assert.True(t, ok)

	tag[0] ^= 0x01
	ok, err = VerifyMAC(SHA256, []byte("Jefe"), []byte("what do ya want for nothing?"), tag)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = MAC("crc32", nil, nil)
	assert.ErrorIs(t, err, ntheory.ErrInvalidInput)
	assert.Equal(t, []string{MD5, SHA1, SHA256, SHA512}, Algorithms())
}

func TestFingerprint(t *testing.T) {
	fp := Fingerprint([]byte("abc"))
	assert.Len(t, fp, 2*fingerprintLen)
	assert.Equal(t, "ba7816bf8f01cfea4141", fp)
	assert.NotEqual(t, fp, Fingerprint([]byte("abd")))
}

func TestDeriveKey(t *testing.T) {
	// RFC 5869 test case 1.
	ikm := bytes.Repeat([]byte{0x0b}, 22)
	salt, _ := hex.DecodeString("000102030405060708090a0b0c")
	info, _ := hex.DecodeString("f0f1f2f3f4f5f6f7f8f9")

	okm, err := DeriveKey(ikm, salt, string(info), 42)
	require.NoError(t, err)
	assert.Equal(t,
		"3cb25f25faacd57a90434f64d0362f2a2d2d0a90cf1a5a4c5db02d56ecc4c5bf34007208d5b887185865",
		hex.EncodeToString(okm))

	a, err := DeriveKey([]byte{0x08}, nil, "ntcore", 32)
	require.NoError(t, err)
	b, err := DeriveKey([]byte{0x08}, nil, "ntcore", 32)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	c, err := DeriveKey([]byte{0x08}, nil, "other", 32)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	_, err = DeriveKey(nil, nil, "", 32)
	assert.ErrorIs(t, err, ntheory.ErrInvalidInput)
	_, err = DeriveKey([]byte{1}, nil, "", 0)
	assert.ErrorIs(t, err, ntheory.ErrInvalidInput)
	_, err = DeriveKey([]byte{1}, nil, "", 255*32+1)
	assert.ErrorIs(t, err, ntheory.ErrInvalidInput)
}

func TestCommitment(t *testing.T) {
	msg := []byte("Hello, p=23")

	comm, err := Commit(nil, msg)
	require.NoError(t, err)
	assert.Len(t, comm.C, 32)
	assert.Len(t, comm.Salt, 32)
	assert.True(t, comm.Open(msg))

	assert.False(t, comm.Open([]byte("Wrong Message")))

	wrongSalt := &Commitment{C: comm.C, Salt: append([]byte(nil), comm.Salt...)}
	wrongSalt.Salt[0] ^= 0xFF
	assert.False(t, wrongSalt.Open(msg))

	wrongC := &Commitment{C: append([]byte(nil), comm.C...), Salt: comm.Salt}
	wrongC.C[0] ^= 0xFF
	assert.False(t, wrongC.Open(msg))

	var nilComm *Commitment
	assert.False(t, nilComm.Open(msg))
}

func TestCommitParts(t *testing.T) {
	seed := bytes.Repeat([]byte{0x07}, 32)
	part := []byte{0x30, 0x39}
	comm, err := Commit(bytes.NewReader(seed), []byte("x"), part, []byte("y"))
	require.NoError(t, err)
	assert.Equal(t, seed, comm.Salt)

	assert.True(t, comm.Open([]byte("x"), part, []byte("y")))
	assert.False(t, comm.Open([]byte("x"), []byte{0x30, 0x3a}, []byte("y")))

	_, err = Commit(bytes.NewReader([]byte{1, 2}), []byte("short"))
	assert.Error(t, err)
}
