package commands

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smallyu/go-ntcore/internal/crypto/curves"
	"github.com/smallyu/go-ntcore/internal/crypto/modarith"
	"github.com/smallyu/go-ntcore/pkg/ntheory"
)

func egcdCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "egcd <a> <b>",
		Short: "Extended Euclid: g = gcd(a, b) and a*x + b*y = g",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseInts([]string{"a", "b"}, args)
			if err != nil {
				return err
			}
			g, x, y := modarith.ExtendedGCD(v[0], v[1])
			a.logger.Debug("egcd", zap.Stringer("a", v[0]), zap.Stringer("b", v[1]))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "gcd: %s\n", g)
			fmt.Fprintf(out, "x: %s\n", x)
			fmt.Fprintf(out, "y: %s\n", y)
			return nil
		},
	}
}

// inverse <a> <m>, or inverse --field <name> <a>
func inverseCmd(a *app) *cobra.Command {
	var (
		field  string
		fermat bool
	)
	cmd := &cobra.Command{
		Use:   "inverse <a> [m]",
		Short: "Modular inverse of a modulo m, or in a named scalar field",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if field != "" {
				if len(args) != 1 {
					return errors.Wrap(ntheory.ErrInvalidInput, "--field takes exactly one argument")
				}
				return fieldInverse(cmd, field, args[0])
			}
			if len(args) != 2 {
				return errors.Wrap(ntheory.ErrInvalidInput, "inverse needs <a> and <m>")
			}

			v, err := parseInts([]string{"a", "m"}, args)
			if err != nil {
				return err
			}
			inverse := modarith.ModInverse
			if fermat {
				inverse = modarith.ModInverseFermat
			}
			inv, err := inverse(v[0], v[1])
			if err != nil {
				return err
			}
			a.logger.Debug("inverse", zap.Stringer("a", v[0]), zap.Stringer("m", v[1]), zap.Bool("fermat", fermat))
			fmt.Fprintf(cmd.OutOrStdout(), "inverse: %s\n", inv)
			return nil
		},
	}
	cmd.Flags().StringVar(&field, "field", "", "scalar field: ed25519 or a curve name (order of its generator)")
	cmd.Flags().BoolVar(&fermat, "fermat", false, "use a^(m-2) mod m (m must be prime)")
	return cmd
}

func fieldInverse(cmd *cobra.Command, name, arg string) error {
	f, err := curves.LookupField(name)
	if err != nil {
		return err
	}
	n, err := parseInt("a", arg)
	if err != nil {
		return err
	}
	inv, err := f.NewScalarFromBigInt(n).Invert()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "field: %s\n", f.Name())
	fmt.Fprintf(cmd.OutOrStdout(), "inverse: %s\n", inv.BigInt())
	return nil
}

func powCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pow <base> <exp> <m>",
		Short: "Modular exponentiation base^exp mod m",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseInts([]string{"base", "exp", "m"}, args)
			if err != nil {
				return err
			}
			r, err := modarith.FastPow(v[0], v[1], v[2])
			if err != nil {
				return err
			}
			a.logger.Debug("pow", zap.Int("exp_bits", v[1].BitLen()))
			fmt.Fprintf(cmd.OutOrStdout(), "result: %s\n", r)
			return nil
		},
	}
}
