package commands

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smallyu/go-ntcore/internal/crypto/digest"
	"github.com/smallyu/go-ntcore/internal/protocol/exchange"
	"github.com/smallyu/go-ntcore/pkg/ntheory"
)

// privateKeys are the two sides' scalars; empty flags are drawn at random.
type privateKeys struct {
	alice, bob string
}

func (k *privateKeys) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&k.alice, "alice", "", "Alice's private scalar (random when empty)")
	cmd.Flags().StringVar(&k.bob, "bob", "", "Bob's private scalar (random when empty)")
}

func (k *privateKeys) resolve(ka ntheory.KeyAgreement, random io.Reader) (*big.Int, *big.Int, error) {
	pick := func(name, s string) (*big.Int, error) {
		if s == "" {
			return ka.GeneratePrivate(random)
		}
		return parseInt(name, s)
	}
	a, err := pick("alice", k.alice)
	if err != nil {
		return nil, nil, err
	}
	b, err := pick("bob", k.bob)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func dhCmd(a *app) *cobra.Command {
	var (
		keys privateKeys
		p, g string
	)
	cmd := &cobra.Command{
		Use:   "dh",
		Short: "Diffie-Hellman over Z_p* with both sides computed locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseInts([]string{"p", "g"}, []string{p, g})
			if err != nil {
				return err
			}
			dh, err := exchange.NewDH(v[0], v[1])
			if err != nil {
				return err
			}
			return runAgreement(cmd, a, dh, &keys)
		},
	}
	cmd.Flags().StringVar(&p, "p", exchange.DefaultP.String(), "prime modulus")
	cmd.Flags().StringVar(&g, "g", exchange.DefaultG.String(), "generator")
	keys.register(cmd)
	return cmd
}

func ecdhCmd(a *app) *cobra.Command {
	var keys privateKeys
	cmd := &cobra.Command{
		Use:   "ecdh",
		Short: "Elliptic-curve Diffie-Hellman on the selected curve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ecdh, err := exchange.NewNamedECDH(a.params.Curve)
			if err != nil {
				return err
			}
			return runAgreement(cmd, a, ecdh, &keys)
		},
	}
	keys.register(cmd)
	return cmd
}

func runAgreement(cmd *cobra.Command, a *app, ka ntheory.KeyAgreement, keys *privateKeys) error {
	alice, bob, err := keys.resolve(ka, rand.Reader)
	if err != nil {
		return err
	}
	tr, err := exchange.Agree(ka, alice, bob)
	if err != nil {
		return err
	}
	key, err := tr.Key(32)
	if err != nil {
		return err
	}
	a.logger.Debug("agreement complete", zap.String("scheme", tr.Scheme), zap.String("key", digest.Fingerprint(key)))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "scheme: %s\n", tr.Scheme)
	fmt.Fprintf(out, "alice public: %s\n", hex.EncodeToString(tr.AlicePublic))
	fmt.Fprintf(out, "bob public: %s\n", hex.EncodeToString(tr.BobPublic))
	fmt.Fprintf(out, "shared: %s\n", new(big.Int).SetBytes(tr.Secret()))
	fmt.Fprintf(out, "key: %s\n", hex.EncodeToString(key))
	return nil
}
