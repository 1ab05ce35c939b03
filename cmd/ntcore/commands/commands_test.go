package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-ntcore/pkg/ntheory"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestArithmeticCommands(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want []string
	}{
		{"egcd", []string{"egcd", "30", "50"}, []string{"gcd: 10\n", "x: 2\n", "y: -1\n"}},
		{"inverse", []string{"inverse", "3", "7"}, []string{"inverse: 5\n"}},
		{"inverse fermat", []string{"inverse", "--fermat", "3", "7"}, []string{"inverse: 5\n"}},
		{"inverse field", []string{"inverse", "--field", "demo97", "2"}, []string{"field: demo97\n", "inverse: 3\n"}},
		{"inverse hex", []string{"inverse", "0x3", "0x7"}, []string{"inverse: 5\n"}},
		{"pow", []string{"pow", "5", "6", "23"}, []string{"result: 8\n"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := run(t, tc.args...)
			require.NoError(t, err)
			for _, w := range tc.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestArithmeticErrors(t *testing.T) {
	_, err := run(t, "inverse", "4", "8")
	assert.ErrorIs(t, err, ntheory.ErrNoInverse)

	_, err = run(t, "pow", "2", "-1", "7")
	assert.ErrorIs(t, err, ntheory.ErrInvalidInput)

	_, err = run(t, "egcd", "ten", "5")
	assert.ErrorIs(t, err, ntheory.ErrInvalidInput)

	_, err = run(t, "inverse", "3")
	assert.ErrorIs(t, err, ntheory.ErrInvalidInput)
}

func TestDlogCommand(t *testing.T) {
	out, err := run(t, "dlog", "5", "8", "23")
	require.NoError(t, err)
	assert.Contains(t, out, "x: 6\n")
	assert.Contains(t, out, "method: bsgs\n")

	out, err = run(t, "dlog", "--method", "brute", "5", "8", "23")
	require.NoError(t, err)
	assert.Contains(t, out, "x: 6\n")
	assert.Contains(t, out, "method: brute\n")

	_, err = run(t, "dlog", "4", "3", "7")
	assert.ErrorIs(t, err, ntheory.ErrNotFound)

	_, err = run(t, "dlog", "--budget", "2", "2", "3", "65537")
	assert.ErrorIs(t, err, ntheory.ErrCancelled)

	_, err = run(t, "dlog", "--method", "brute", "--limit", "3", "5", "8", "23")
	assert.ErrorIs(t, err, ntheory.ErrNotFound)

	_, err = run(t, "dlog", "--method", "pollard", "5", "8", "23")
	assert.ErrorIs(t, err, ntheory.ErrInvalidInput)
}

func TestECCommands(t *testing.T) {
	out, err := run(t, "ec", "oncurve", "3,6")
	require.NoError(t, err)
	assert.Equal(t, "on curve: true\n", out)

	out, err = run(t, "ec", "oncurve", "(3,7)")
	require.NoError(t, err)
	assert.Equal(t, "on curve: false\n", out)

	out, err = run(t, "ec", "add", "3,6", "3,6")
	require.NoError(t, err)
	assert.Equal(t, "sum: (80, 10)\n", out)

	out, err = run(t, "ec", "add", "O", "3,6")
	require.NoError(t, err)
	assert.Equal(t, "sum: (3, 6)\n", out)

	out, err = run(t, "ec", "mul", "3")
	require.NoError(t, err)
	assert.Equal(t, "result: (80, 87)\n", out)

	out, err = run(t, "ec", "mul", "5")
	require.NoError(t, err)
	assert.Equal(t, "result: O\n", out)

	out, err = run(t, "ec", "--a", "2", "--b", "3", "--p", "97", "mul", "2", "3,6")
	require.NoError(t, err)
	assert.Equal(t, "result: (80, 10)\n", out)

	_, err = run(t, "ec", "--a", "2", "--b", "3", "--p", "97", "mul", "2")
	assert.ErrorIs(t, err, ntheory.ErrInvalidInput)

	_, err = run(t, "ec", "--curve", "nope", "mul", "2")
	assert.ErrorIs(t, err, ntheory.ErrInvalidInput)

	out, err = run(t, "ec", "curves")
	require.NoError(t, err)
	assert.Contains(t, out, "demo97: y^2 = x^3 + 2x + 3 (mod 97) G=(3, 6) n=5\n")
	assert.Contains(t, out, "secp256k1: ")
}

func TestExchangeCommands(t *testing.T) {
	out, err := run(t, "dh", "--alice", "6", "--bob", "15")
	require.NoError(t, err)
	assert.Contains(t, out, "scheme: dh-23\n")
	assert.Contains(t, out, "alice public: 08\n")
	assert.Contains(t, out, "bob public: 13\n")
	assert.Contains(t, out, "shared: 2\n")

	out, err = run(t, "ecdh", "--curve", "ecdh37", "--alice", "5", "--bob", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "alice public: 161f\n")
	assert.Contains(t, out, "shared: 5\n")

	out, err = run(t, "ecdh", "--curve", "secp256k1")
	require.NoError(t, err)
	assert.Contains(t, out, "scheme: ecdh-secp256k1\n")

	_, err = run(t, "dh", "--alice", "0")
	assert.ErrorIs(t, err, ntheory.ErrInvalidInput)
}

func TestCipherCommands(t *testing.T) {
	out, err := run(t, "rsa", "--p", "61", "--q", "53", "--e", "17", "65")
	require.NoError(t, err)
	assert.Contains(t, out, "n: 3233\n")
	assert.Contains(t, out, "d: 2753\n")
	assert.Contains(t, out, "ciphertext: 2790\n")
	assert.Contains(t, out, "decrypted: 65\n")
	assert.Contains(t, out, "decrypted crt: 65\n")

	out, err = run(t, "rsa", "--bits", "128", "12345")
	require.NoError(t, err)
	assert.Contains(t, out, "decrypted crt: 12345\n")

	out, err = run(t, "elgamal", "--x", "6", "--k", "3", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "public y: 8\n")
	assert.Contains(t, out, "c1: 10\n")
	assert.Contains(t, out, "c2: 14\n")
	assert.Contains(t, out, "decrypted: 10\n")

	out, err = run(t, "elgamal", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "decrypted: 7\n")
}

func TestHashCommand(t *testing.T) {
	out, err := run(t, "hash", "sha256", "abc")
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad\n", out)

	out, err = run(t, "hash", "--key", "Jefe", "sha256", "what do ya want for nothing?")
	require.NoError(t, err)
	assert.Equal(t, "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843\n", out)

	_, err = run(t, "hash", "md4", "abc")
	assert.ErrorIs(t, err, ntheory.ErrInvalidInput)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ntcore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("curve:\n  default: ecdh37\ndlog:\n  method: brute\n"), 0o600))

	out, err := run(t, "--config", path, "ec", "mul", "1")
	require.NoError(t, err)
	assert.Equal(t, "result: (3, 16)\n", out)

	out, err = run(t, "--config", path, "dlog", "5", "8", "23")
	require.NoError(t, err)
	assert.Contains(t, out, "method: brute\n")

	_, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "pow", "2", "3", "5")
	assert.Error(t, err)
}

func TestConfigFileParameters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ntcore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("curve:\n  default: ecdh37\ndlog:\n  budget: 2\n"), 0o600))

	_, err := run(t, "--config", path, "dlog", "2", "3", "65537")
	assert.ErrorIs(t, err, ntheory.ErrCancelled)

	out, err := run(t, "--config", path, "ecdh", "--alice", "5", "--bob", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "scheme: ecdh-ecdh37\n")
	assert.Contains(t, out, "alice public: 161f\n")
	assert.Contains(t, out, "shared: 5\n")
}
