package market

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Price is a fixed-point amount: one unit of currency is Multiplier.
// Cash, equity, commissions and PnL share the same scale.
type Price = int64

// Multiplier is the fixed-point scale, so 0.10 is stored as 1_000_000.
const Multiplier int64 = 10_000_000

// DisplayPlaces is the precision used for reports and the trade log.
const DisplayPlaces int32 = 2

var ErrParsePrice = errors.New("parse price")

var multiplier = decimal.NewFromInt(Multiplier)

// ToInternal scales a human decimal into a Price. Digits beyond the
// seventh decimal place are truncated toward zero.
func ToInternal(d decimal.Decimal) Price {
	return d.Mul(multiplier).IntPart()
}

// ParsePrice parses a decimal string such as "74.78" without going
// through float64.
func ParsePrice(s string) (Price, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrParsePrice, s, err)
	}
	return ToInternal(d), nil
}

// MustParse is ParsePrice for literals known to be valid.
func MustParse(s string) Price {
	p, err := ParsePrice(s)
	if err != nil {
		panic(err)
	}
	return p
}

// FromFloat converts using the shortest decimal representation of f,
// so FromFloat(566.56) == MustParse("566.56").
func FromFloat(f float64) Price {
	return ToInternal(decimal.NewFromFloat(f))
}

// ToDisplay converts p back to a decimal rounded half away from zero.
func ToDisplay(p Price, places int32) decimal.Decimal {
	return decimal.New(p, -7).Round(places)
}

// Display is ToDisplay at DisplayPlaces as a float, for statistics.
func Display(p Price) float64 {
	return ToDisplay(p, DisplayPlaces).InexactFloat64()
}

// Format renders p with exactly places decimals.
func Format(p Price, places int32) string {
	return ToDisplay(p, places).StringFixed(places)
}

// FloorDiv divides rounding toward negative infinity. Every average
// price and midpoint in the ledger goes through it.
func FloorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Sign returns -1, 0 or 1.
func Sign(x int64) int64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// Abs returns |x|.
func Abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
