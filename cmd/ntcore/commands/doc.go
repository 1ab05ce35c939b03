// Package commands defines the ntcore CLI. Every command is non-interactive:
// integers come in as arguments or flags (decimal, or 0x-prefixed hex) and
// results are printed one field per line.
//
// Commands
//
//   - egcd       Extended Euclid: gcd and Bezout coefficients
//   - inverse    Modular inverse, or inverse in a named scalar field
//   - pow        Modular exponentiation
//   - dlog       Discrete logarithm by BSGS or brute force
//   - ec         Curve membership, point addition and scalar multiplication
//   - dh, ecdh   Two-party key agreement with a mismatch check
//   - rsa        Textbook RSA with CRT decryption
//   - elgamal    ElGamal encryption over Z_p*
//   - hash       Digests and HMAC tags
//
// # Implementation
//
// The root command resolves settings (defaults, --config file, NTCORE_*
// environment, flags) through internal/config and builds a zap logger before
// any subcommand runs.
package commands
