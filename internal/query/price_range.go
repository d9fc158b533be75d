package query

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidPriceRange = errors.New("invalid price range")

// PriceRange is a closed interval. Max is +Inf for open-ended "N+" selectors.
type PriceRange struct {
	Min float64
	Max float64
	set bool
}

// ParsePriceRange accepts "", "min-max" (inclusive) or "min+" such as "200+".
func ParsePriceRange(s string) (PriceRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PriceRange{}, nil
	}

	if lower, ok := strings.CutSuffix(s, "+"); ok {
		lo, err := parseBound(lower)
		if err != nil {
			return PriceRange{}, fmt.Errorf("%w: %q", ErrInvalidPriceRange, s)
		}
		return PriceRange{Min: lo, Max: math.Inf(1), set: true}, nil
	}

	lower, upper, ok := strings.Cut(s, "-")
	if !ok {
		return PriceRange{}, fmt.Errorf("%w: %q", ErrInvalidPriceRange, s)
	}
	lo, err := parseBound(lower)
	if err != nil {
		return PriceRange{}, fmt.Errorf("%w: %q", ErrInvalidPriceRange, s)
	}
	hi, err := parseBound(upper)
	if err != nil || hi < lo {
		return PriceRange{}, fmt.Errorf("%w: %q", ErrInvalidPriceRange, s)
	}
	return PriceRange{Min: lo, Max: hi, set: true}, nil
}

func parseBound(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, errors.New("bound out of range")
	}
	return v, nil
}

// Contains reports whether price falls in the range. An unset range contains
// every price.
func (r PriceRange) Contains(price float64) bool {
	if !r.set {
		return true
	}
	return price >= r.Min && price <= r.Max
}

func (r PriceRange) IsSet() bool {
	return r.set
}
