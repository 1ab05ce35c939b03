package commands

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smallyu/go-ntcore/internal/crypto/curves"
	"github.com/smallyu/go-ntcore/pkg/ntheory"
)

// ecFlags selects a custom curve; when all are empty the configured named
// curve is used.
type ecFlags struct {
	a, b, p string
}

func ecCmd(a *app) *cobra.Command {
	f := &ecFlags{}
	cmd := &cobra.Command{
		Use:   "ec",
		Short: "Short Weierstrass curve arithmetic",
	}
	cmd.PersistentFlags().StringVar(&f.a, "a", "", "custom curve coefficient a")
	cmd.PersistentFlags().StringVar(&f.b, "b", "", "custom curve coefficient b")
	cmd.PersistentFlags().StringVar(&f.p, "p", "", "custom curve field prime p")

	cmd.AddCommand(
		ecCurvesCmd(),
		ecOnCurveCmd(a, f),
		ecAddCmd(a, f),
		ecMulCmd(a, f),
	)
	return cmd
}

// resolve returns the curve parameters and, for named curves, the curve itself.
func (f *ecFlags) resolve(a *app) (*curves.Params, *curves.Curve, error) {
	if f.a == "" && f.b == "" && f.p == "" {
		c, err := curves.Named(a.params.Curve)
		if err != nil {
			return nil, nil, err
		}
		return c.Params, c, nil
	}
	v, err := parseInts([]string{"a", "b", "p"}, []string{f.a, f.b, f.p})
	if err != nil {
		return nil, nil, errors.Wrap(err, "custom curves need --a, --b and --p")
	}
	params, err := curves.NewParams(v[0], v[1], v[2])
	if err != nil {
		return nil, nil, err
	}
	if err := params.Validate(); err != nil {
		a.logger.Warn("curve is singular or p is too small; results may not form a group", zap.Error(err))
	}
	return params, nil, nil
}

func ecCurvesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "curves",
		Short: "List named curves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range curves.Names() {
				c, err := curves.Named(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s G=%s n=%s\n", name, c.Params, c.G, c.N)
			}
			return nil
		},
	}
}

func ecOnCurveCmd(a *app, f *ecFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "oncurve <x,y>",
		Short: "Report whether a point satisfies the curve equation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, _, err := f.resolve(a)
			if err != nil {
				return err
			}
			pt, err := parsePoint(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "on curve: %t\n", params.IsOnCurve(pt))
			return nil
		},
	}
}

func ecAddCmd(a *app, f *ecFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <x1,y1> <x2,y2>",
		Short: "Add two points (O is the point at infinity)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, _, err := f.resolve(a)
			if err != nil {
				return err
			}
			p, err := parsePoint(args[0])
			if err != nil {
				return err
			}
			q, err := parsePoint(args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sum: %s\n", params.Add(p, q))
			return nil
		},
	}
}

// mul <k> [x,y]: without a point, multiplies the named curve's generator.
func ecMulCmd(a *app, f *ecFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mul <k> [x,y]",
		Short: "Scalar multiplication k*P by double-and-add",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, named, err := f.resolve(a)
			if err != nil {
				return err
			}
			k, err := parseInt("k", args[0])
			if err != nil {
				return err
			}

			var pt curves.Point
			switch {
			case len(args) == 2:
				if pt, err = parsePoint(args[1]); err != nil {
					return err
				}
			case named != nil:
				pt = named.G
			default:
				return errors.Wrap(ntheory.ErrInvalidInput, "custom curves need an explicit point")
			}

			a.logger.Debug("scalar mult", zap.Int("k_bits", k.BitLen()), zap.Stringer("point", pt))
			fmt.Fprintf(cmd.OutOrStdout(), "result: %s\n", params.ScalarMult(k, pt))
			return nil
		},
	}
}
