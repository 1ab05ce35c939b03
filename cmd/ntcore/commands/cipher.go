package commands

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smallyu/go-ntcore/internal/crypto/elgamal"
	"github.com/smallyu/go-ntcore/internal/crypto/rsa"
)

// rsa <m>: key from --p/--q/--e, or a fresh --bits key when --p is empty.
func rsaCmd(a *app) *cobra.Command {
	var (
		p, q, e string
		bits    int
	)
	cmd := &cobra.Command{
		Use:   "rsa <m>",
		Short: "Encrypt m with textbook RSA and decrypt it plainly and with CRT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseInt("m", args[0])
			if err != nil {
				return err
			}
			exp, err := parseOptionalInt("e", e)
			if err != nil {
				return err
			}

			var key *rsa.PrivateKey
			if p == "" && q == "" {
				key, err = rsa.GenerateKey(rand.Reader, bits, exp)
			} else {
				var v []*big.Int
				if v, err = parseInts([]string{"p", "q"}, []string{p, q}); err != nil {
					return err
				}
				if exp == nil {
					exp = rsa.DefaultExponent
				}
				key, err = rsa.NewKey(v[0], v[1], exp)
			}
			if err != nil {
				return err
			}

			c, err := key.Encrypt(m)
			if err != nil {
				return err
			}
			plain, err := key.Decrypt(c)
			if err != nil {
				return err
			}
			crt, err := key.DecryptCRT(c)
			if err != nil {
				return err
			}
			a.logger.Debug("rsa", zap.Int("n_bits", key.N.BitLen()))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "n: %s\n", key.N)
			fmt.Fprintf(out, "e: %s\n", key.E)
			fmt.Fprintf(out, "d: %s\n", key.D)
			fmt.Fprintf(out, "ciphertext: %s\n", c)
			fmt.Fprintf(out, "decrypted: %s\n", plain)
			fmt.Fprintf(out, "decrypted crt: %s\n", crt)
			return nil
		},
	}
	cmd.Flags().StringVar(&p, "p", "", "first prime")
	cmd.Flags().StringVar(&q, "q", "", "second prime")
	cmd.Flags().StringVar(&e, "e", "", "public exponent (default 65537)")
	cmd.Flags().IntVar(&bits, "bits", 512, "modulus size when generating primes")
	return cmd
}

// elgamal <m>: encrypt and decrypt m in Z_p*.
func elgamalCmd(a *app) *cobra.Command {
	var p, g, x, k string
	cmd := &cobra.Command{
		Use:   "elgamal <m>",
		Short: "Encrypt m with ElGamal over Z_p* and decrypt it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseInts([]string{"m", "p", "g"}, []string{args[0], p, g})
			if err != nil {
				return err
			}
			m, pp, gg := v[0], v[1], v[2]

			var key *elgamal.PrivateKey
			if x == "" {
				key, err = elgamal.GenerateKey(rand.Reader, pp, gg)
			} else {
				var xx *big.Int
				if xx, err = parseInt("x", x); err != nil {
					return err
				}
				key, err = elgamal.NewKey(pp, gg, xx)
			}
			if err != nil {
				return err
			}

			var ct *elgamal.Ciphertext
			if k == "" {
				ct, err = key.Encrypt(rand.Reader, m)
			} else {
				var kk *big.Int
				if kk, err = parseInt("k", k); err != nil {
					return err
				}
				ct, err = key.EncryptWithK(m, kk)
			}
			if err != nil {
				return err
			}
			plain, err := key.Decrypt(ct)
			if err != nil {
				return err
			}
			a.logger.Debug("elgamal", zap.Int("p_bits", key.P.BitLen()))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "public y: %s\n", key.Y)
			fmt.Fprintf(out, "c1: %s\n", ct.C1)
			fmt.Fprintf(out, "c2: %s\n", ct.C2)
			fmt.Fprintf(out, "decrypted: %s\n", plain)
			return nil
		},
	}
	cmd.Flags().StringVar(&p, "p", "23", "prime modulus")
	cmd.Flags().StringVar(&g, "g", "5", "generator")
	cmd.Flags().StringVar(&x, "x", "", "private exponent (random when empty)")
	cmd.Flags().StringVar(&k, "k", "", "session exponent (random when empty)")
	return cmd
}
