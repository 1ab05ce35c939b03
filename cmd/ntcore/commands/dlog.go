package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smallyu/go-ntcore/internal/config"
	"github.com/smallyu/go-ntcore/internal/crypto/dlog"
)

// dlog <g> <h> <p>: smallest x with g^x = h (mod p).
func dlogCmd(a *app) *cobra.Command {
	var (
		limit   string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "dlog <g> <h> <p>",
		Short: "Discrete logarithm: smallest x with g^x = h (mod p)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseInts([]string{"g", "h", "p"}, args)
			if err != nil {
				return err
			}
			method, err := dlog.ParseMethod(a.params.Method)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			opts := append(config.DlogOptions(a.params, a.logger), dlog.WithContext(ctx))
			lim, err := parseOptionalInt("limit", limit)
			if err != nil {
				return err
			}
			if lim != nil {
				opts = append(opts, dlog.WithLimit(lim))
			}

			sol, err := dlog.Solve(method, v[0], v[1], v[2], opts...)
			if err != nil {
				return err
			}
			a.logger.Debug("dlog solved", zap.String("method", string(sol.Method)), zap.Int64("steps", sol.Steps))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "x: %s\n", sol.X)
			fmt.Fprintf(out, "method: %s\n", sol.Method)
			fmt.Fprintf(out, "steps: %d\n", sol.Steps)
			if sol.Degenerate {
				fmt.Fprintln(out, "degenerate: true")
			}
			return nil
		},
	}
	cmd.Flags().String("method", "", "bsgs or brute")
	cmd.Flags().Int64("budget", 0, "maximum group multiplications, 0 for unbounded")
	cmd.Flags().StringVar(&limit, "limit", "", "brute force: try exponents below this bound")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "abort the search after this long")
	_ = a.v.BindPFlag(config.KeyDlogMethod, cmd.Flags().Lookup("method"))
	_ = a.v.BindPFlag(config.KeyDlogBudget, cmd.Flags().Lookup("budget"))
	return cmd
}
