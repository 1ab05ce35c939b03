// Package dlog solves the discrete logarithm problem g^x = h (mod p) by
// brute force and by baby-step/giant-step (BSGS).
//
// Brute force costs O(p) time and O(1) space; BSGS costs O(sqrt(p)) of both.
// Callers pick a method based on the expected size of p. Every call is a
// fresh, self-contained computation and safe to run concurrently.
package dlog

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/smallyu/go-ntcore/internal/crypto/modarith"
	"github.com/smallyu/go-ntcore/pkg/ntheory"
)

var (
	one = big.NewInt(1)
)

// Method selects the discrete-log algorithm.
type Method string

const (
	MethodBSGS  Method = "bsgs"
	MethodBrute Method = "brute"
)

// ParseMethod maps a user-supplied name to a Method.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodBSGS, "":
		return MethodBSGS, nil
	case MethodBrute:
		return MethodBrute, nil
	default:
		return "", errors.Wrapf(ntheory.ErrInvalidInput, "dlog: unknown method %q, choose bsgs or brute", s)
	}
}

// Solution is the outcome of a successful search.
type Solution struct {
	X      *big.Int // Smallest verified exponent found
	Method Method   // Algorithm that produced X
	Steps  int64    // Group multiplications performed

	// Degenerate is set when BSGS could not invert g^m mod p and fell back
	// to a brute-force scan, degrading from O(sqrt(p)) to O(p).
	Degenerate bool
}

// BruteForce returns the smallest x in [0, limit) with g^x = h (mod p),
// testing candidates by iterative multiplication. A nil limit means p-1.
func BruteForce(g, h, p, limit *big.Int) (*big.Int, error) {
	s := &search{options: newOptions(nil)}
	x, err := s.bruteForce(g, h, p, limit)
	if err != nil {
		return nil, err
	}
	return x, nil
}

// BSGS solves g^x = h (mod p) with baby-step/giant-step. When g^m has no
// inverse mod p it silently falls back to BruteForce; use Solve to observe
// that through Solution.Degenerate.
func BSGS(g, h, p *big.Int) (*big.Int, error) {
	sol, err := Solve(MethodBSGS, g, h, p)
	if err != nil {
		return nil, err
	}
	return sol.X, nil
}

// Solve runs the chosen method with optional budget, cancellation and logging.
// Without WithLimit the brute-force method stops after DefaultBruteLimit
// candidates.
func Solve(method Method, g, h, p *big.Int, opts ...Option) (*Solution, error) {
	s := &search{options: newOptions(opts)}

	switch method {
	case MethodBrute:
		limit := s.limit
		if limit == nil {
			limit = big.NewInt(DefaultBruteLimit)
		}
		x, err := s.bruteForce(g, h, p, limit)
		if err != nil {
			return nil, err
		}
		return &Solution{X: x, Method: MethodBrute, Steps: s.steps}, nil
	case MethodBSGS:
		return s.bsgs(g, h, p)
	default:
		return nil, errors.Wrapf(ntheory.ErrInvalidInput, "dlog: unknown method %q", method)
	}
}

// search carries the per-call step counter; it is never shared.
type search struct {
	*options
	steps int64
}

func (s *search) step() error {
	s.steps++
	if s.budget > 0 && s.steps > s.budget {
		return errors.Wrapf(ntheory.ErrCancelled, "dlog: step budget %d exhausted", s.budget)
	}
	if s.steps%ctxCheckInterval == 0 {
		if err := s.ctx.Err(); err != nil {
			return errors.Wrapf(ntheory.ErrCancelled, "dlog: %v", err)
		}
	}
	return nil
}

func validateModulus(op string, p *big.Int) error {
	if p == nil || p.Sign() <= 0 {
		return ntheory.NewOpError(op, errors.Wrapf(ntheory.ErrInvalidInput, "modulus %v must be positive", p))
	}
	return nil
}

func notFound(op string, g, h, p *big.Int) error {
	return ntheory.NewOpError(op, errors.Wrap(ntheory.ErrNotFound, fmt.Sprintf("%s^x = %s (mod %s)", g, h, p)))
}

func (s *search) bruteForce(g, h, p, limit *big.Int) (*big.Int, error) {
	if err := validateModulus("brute_force_log", p); err != nil {
		return nil, err
	}
	if limit == nil {
		limit = new(big.Int).Sub(p, one)
	}
	if limit.Sign() < 0 {
		return nil, ntheory.NewOpError("brute_force_log", errors.Wrapf(ntheory.ErrInvalidInput, "negative limit %s", limit))
	}

	gr := new(big.Int).Mod(g, p)
	hr := new(big.Int).Mod(h, p)
	cur := new(big.Int).Mod(one, p)

	for x := big.NewInt(0); x.Cmp(limit) < 0; x.Add(x, one) {
		if cur.Cmp(hr) == 0 {
			return x, nil
		}
		if err := s.step(); err != nil {
			return nil, err
		}
		cur.Mul(cur, gr)
		cur.Mod(cur, p)
	}
	return nil, notFound("brute_force_log", g, h, p)
}

// ceilSqrt returns the smallest m with m*m >= n, for n >= 0.
func ceilSqrt(n *big.Int) *big.Int {
	m := new(big.Int).Sqrt(n)
	if new(big.Int).Mul(m, m).Cmp(n) < 0 {
		m.Add(m, one)
	}
	return m
}

func tableKey(v *big.Int) string {
	return string(v.Bytes())
}

func (s *search) bsgs(g, h, p *big.Int) (*Solution, error) {
	if err := validateModulus("bsgs", p); err != nil {
		return nil, err
	}

	gr := new(big.Int).Mod(g, p)
	hr := new(big.Int).Mod(h, p)

	if p.Cmp(one) == 0 {
		// Every residue is 0 mod 1.
		return &Solution{X: big.NewInt(0), Method: MethodBSGS}, nil
	}

	m := ceilSqrt(p)
	if !m.IsInt64() {
		return nil, ntheory.NewOpError("bsgs", errors.Wrapf(ntheory.ErrInvalidInput, "modulus %s too large for a baby-step table", p))
	}
	steps := m.Int64()

	// Baby steps: g^j -> j, keeping the smallest j for repeated values.
	capHint := steps
	if capHint > 1<<16 {
		capHint = 1 << 16
	}
	table := make(map[string]int64, capHint)
	val := big.NewInt(1)
	for j := int64(0); j < steps; j++ {
		key := tableKey(val)
		if _, ok := table[key]; !ok {
			table[key] = j
		}
		if err := s.step(); err != nil {
			return nil, err
		}
		val.Mul(val, gr)
		val.Mod(val, p)
	}

	gm := modarith.MustFastPow(gr, m, p)
	factor, err := modarith.ModInverse(gm, p)
	if err != nil {
		if !errors.Is(err, ntheory.ErrNoInverse) {
			return nil, err
		}
		s.logger.Warn("bsgs giant-step factor has no inverse, falling back to brute force",
			zap.String("g", gr.String()),
			zap.String("p", p.String()),
			zap.String("g^m", gm.String()),
		)
		x, err := s.bruteForce(gr, hr, p, nil)
		if err != nil {
			return nil, err
		}
		return &Solution{X: x, Method: MethodBrute, Steps: s.steps, Degenerate: true}, nil
	}

	// Giant steps: gamma = h * (g^-m)^i.
	gamma := new(big.Int).Set(hr)
	x := new(big.Int)
	for i := int64(0); i < steps; i++ {
		if j, ok := table[tableKey(gamma)]; ok {
			x.SetInt64(i)
			x.Mul(x, m)
			x.Add(x, big.NewInt(j))
			// The search space is sized by p, not the order of g, so a
			// collision is only a candidate.
			if modarith.MustFastPow(gr, x, p).Cmp(hr) == 0 {
				return &Solution{X: x, Method: MethodBSGS, Steps: s.steps}, nil
			}
		}
		if err := s.step(); err != nil {
			return nil, err
		}
		gamma.Mul(gamma, factor)
		gamma.Mod(gamma, p)
	}

	return nil, notFound("bsgs", g, h, p)
}
