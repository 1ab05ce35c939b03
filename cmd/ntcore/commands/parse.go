package commands

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"

	"github.com/smallyu/go-ntcore/internal/crypto/curves"
	"github.com/smallyu/go-ntcore/pkg/ntheory"
)

// parseInt accepts decimal or 0x-prefixed hexadecimal, with an optional sign.
func parseInt(name, s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 0)
	if !ok {
		return nil, errors.Wrapf(ntheory.ErrInvalidInput, "%s: %q is not an integer", name, s)
	}
	return n, nil
}

func parseInts(names []string, args []string) ([]*big.Int, error) {
	out := make([]*big.Int, len(args))
	for i, s := range args {
		n, err := parseInt(names[i], s)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// parseOptionalInt returns nil for an empty flag value.
func parseOptionalInt(name, s string) (*big.Int, error) {
	if s == "" {
		return nil, nil
	}
	return parseInt(name, s)
}

// parsePoint reads "x,y" or "O" for the point at infinity.
func parsePoint(s string) (curves.Point, error) {
	s = strings.TrimSpace(s)
	if s == "O" || s == "o" || s == "inf" {
		return curves.Infinity(), nil
	}
	parts := strings.Split(strings.Trim(s, "()"), ",")
	if len(parts) != 2 {
		return curves.Infinity(), errors.Wrapf(ntheory.ErrInvalidInput, "point %q must be x,y or O", s)
	}
	x, err := parseInt("x", parts[0])
	if err != nil {
		return curves.Infinity(), err
	}
	y, err := parseInt("y", parts[1])
	if err != nil {
		return curves.Infinity(), err
	}
	return curves.NewPoint(x, y), nil
}
