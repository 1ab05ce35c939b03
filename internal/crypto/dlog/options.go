package dlog

import (
	"context"
	"math/big"

	"go.uber.org/zap"
)

// DefaultBruteLimit caps the brute-force method when Solve is used without
// an explicit limit.
const DefaultBruteLimit = 1000000

// ctxCheckInterval is how many steps run between context checks.
const ctxCheckInterval = 1024

type options struct {
	ctx    context.Context
	budget int64
	limit  *big.Int
	logger *zap.Logger
}

// Option configures Solve.
type Option func(*options)

// WithContext lets the caller cancel a long search. The search returns
// ntheory.ErrCancelled once ctx is done.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		o.ctx = ctx
	}
}

// WithBudget bounds the number of group multiplications a search may perform.
// Zero or negative means unbounded.
func WithBudget(steps int64) Option {
	return func(o *options) {
		o.budget = steps
	}
}

// WithLimit sets the brute-force search limit: exponents 0..limit-1 are tried.
func WithLimit(limit *big.Int) Option {
	return func(o *options) {
		o.limit = limit
	}
}

// WithLogger sets the logger used to report degenerate fallbacks.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		ctx:    context.Background(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.ctx == nil {
		o.ctx = context.Background()
	}
	return o
}
