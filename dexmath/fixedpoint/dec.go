// Package fixedpoint provides the arbitrary-precision decimal type used
// throughout the pool engine. It wraps shopspring/decimal rather than
// native floating point, and exposes the explicit rounding controls the
// pricing path requires: a caller always states whether an amount owed
// by a user rounds up or an amount paid to a user rounds down.
package fixedpoint

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RoundingMode selects how DivRound resolves a division that does not
// terminate at the configured precision.
type RoundingMode int

const (
	// RoundDown truncates toward zero. Used for amounts paid to a user.
	RoundDown RoundingMode = iota
	// RoundUp rounds away from zero. Used for amounts owed by a user.
	RoundUp
	// RoundBankers rounds half-to-even. Used for fee-growth accumulators
	// where neither party should be systematically favored.
	RoundBankers
)

// Q8 and Q18 are the two truncation depths the reference decimal type
// exposes (f8, f18 in the spec's vocabulary).
const (
	Q8  = 8
	Q18 = 18
)

// Dec is an arbitrary-precision decimal value.
type Dec struct {
	d decimal.Decimal
}

// Zero is the additive identity.
var Zero = Dec{d: decimal.Zero}

// NewFromString parses a base-10 decimal string.
func NewFromString(s string) (Dec, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Dec{}, fmt.Errorf("fixedpoint: invalid decimal %q: %w", s, err)
	}
	return Dec{d: d}, nil
}

// MustNewFromString is NewFromString, panicking on error. Reserved for
// constants known to be valid at compile time (test fixtures, literals).
func MustNewFromString(s string) Dec {
	d, err := NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// NewFromInt64 builds a Dec from an integer.
func NewFromInt64(v int64) Dec {
	return Dec{d: decimal.NewFromInt(v)}
}

// NewFromShopspring adapts a decimal.Decimal value. Used at the seams
// where third-party math (e.g. a parsed RPC payload) hands back a raw
// shopspring value.
func NewFromShopspring(d decimal.Decimal) Dec {
	return Dec{d: d}
}

// Shopspring exposes the underlying decimal.Decimal for callers that need
// to interoperate with other shopspring-based code (e.g. the CLI harness).
func (a Dec) Shopspring() decimal.Decimal {
	return a.d
}

func (a Dec) String() string { return a.d.String() }

// MarshalJSON serializes the underlying decimal as a JSON string, so a
// Dec round-trips through ledger.PutJSON/GetJSON without losing
// precision to float64.
func (a Dec) MarshalJSON() ([]byte, error) {
	return a.d.MarshalJSON()
}

// UnmarshalJSON parses the JSON string produced by MarshalJSON.
func (a *Dec) UnmarshalJSON(b []byte) error {
	return a.d.UnmarshalJSON(b)
}

func (a Dec) Add(b Dec) Dec { return Dec{d: a.d.Add(b.d)} }
func (a Dec) Sub(b Dec) Dec { return Dec{d: a.d.Sub(b.d)} }
func (a Dec) Mul(b Dec) Dec { return Dec{d: a.d.Mul(b.d)} }
func (a Dec) Neg() Dec      { return Dec{d: a.d.Neg()} }
func (a Dec) Abs() Dec      { return Dec{d: a.d.Abs()} }

// Div performs exact-precision division (32 places), matching
// shopspring's default DivisionPrecision for quotients callers intend to
// round explicitly afterwards via DivRound.
func (a Dec) Div(b Dec) Dec { return Dec{d: a.d.DivRound(b.d, 32)} }

// DivRound divides and rounds the result to places decimal digits using
// mode. This is the primitive the spec calls out as mandatory: no
// division in the pricing path may rely on an implicit rounding mode.
func (a Dec) DivRound(b Dec, places int32, mode RoundingMode) Dec {
	switch mode {
	case RoundUp:
		q := a.d.DivRound(b.d, places+1)
		return Dec{d: roundAwayFromZero(q, places)}
	case RoundBankers:
		q, r := a.d.QuoRem(b.d, places)
		unit := decimal.New(1, -places)
		c := r.Abs().Mul(decimal.NewFromInt(2)).Cmp(b.d.Abs().Mul(unit))
		if c < 0 || (c == 0 && q.Shift(places).Mod(decimal.NewFromInt(2)).IsZero()) {
			return Dec{d: q}
		}
		if a.d.Sign()*b.d.Sign() < 0 {
			return Dec{d: q.Sub(unit)}
		}
		return Dec{d: q.Add(unit)}
	default: // RoundDown
		q := a.d.DivRound(b.d, places+2)
		return Dec{d: q.Truncate(places)}
	}
}

// MulRound multiplies then rounds to places using mode, for the fee and
// liquidity computations that must not silently use banker's rounding.
func (a Dec) MulRound(b Dec, places int32, mode RoundingMode) Dec {
	p := a.d.Mul(b.d)
	switch mode {
	case RoundUp:
		return Dec{d: roundAwayFromZero(p, places)}
	case RoundBankers:
		return Dec{d: p.RoundBank(places)}
	default:
		return Dec{d: p.Truncate(places)}
	}
}

func roundAwayFromZero(d decimal.Decimal, places int32) decimal.Decimal {
	truncated := d.Truncate(places)
	if truncated.Equal(d) {
		return truncated
	}
	step := decimal.New(1, -places)
	if d.IsNegative() {
		return truncated.Sub(step)
	}
	return truncated.Add(step)
}

// Sqrt returns the square root using Newton's method seeded from
// shopspring's float64 approximation, refined to 36 decimal digits. The
// tick/price conversions that build on this call TickToSqrtPrice /
// SqrtPriceToTick, which apply their own monotone correction on top.
func (a Dec) Sqrt() Dec {
	if a.IsZero() || a.IsNegative() {
		return Zero
	}
	const precision = 36
	guess := decimal.NewFromFloat(sqrtFloat64(a.d))
	two := decimal.NewFromInt(2)
	for i := 0; i < 64; i++ {
		next := guess.Add(a.d.DivRound(guess, precision+4)).DivRound(two, precision+4)
		if next.Sub(guess).Abs().LessThan(decimal.New(1, -precision)) {
			guess = next
			break
		}
		guess = next
	}
	return Dec{d: guess.Truncate(precision)}
}

func sqrtFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	if f <= 0 {
		return 1
	}
	// Babylonian seed.
	x := f
	for i := 0; i < 20; i++ {
		x = 0.5 * (x + f/x)
	}
	return x
}

// Pow raises a to an integer power (may be negative) via exponentiation
// by squaring, used by tick<->price conversion (1.0001^tick).
func (a Dec) Pow(n int64) Dec {
	if n == 0 {
		return NewFromInt64(1)
	}
	neg := n < 0
	if neg {
		n = -n
	}
	result := NewFromInt64(1)
	base := a
	for n > 0 {
		if n&1 == 1 {
			result = result.MulRound(base, 60, RoundBankers)
		}
		base = base.MulRound(base, 60, RoundBankers)
		n >>= 1
	}
	if neg {
		return NewFromInt64(1).DivRound(result, 60, RoundBankers)
	}
	return result
}

func (a Dec) IsZero() bool     { return a.d.IsZero() }
func (a Dec) IsNegative() bool { return a.d.IsNegative() }
func (a Dec) IsPositive() bool { return a.d.IsPositive() }

func (a Dec) Equal(b Dec) bool        { return a.d.Equal(b.d) }
func (a Dec) GreaterThan(b Dec) bool  { return a.d.GreaterThan(b.d) }
func (a Dec) GreaterThanOrEqual(b Dec) bool {
	return a.d.GreaterThanOrEqual(b.d)
}
func (a Dec) LessThan(b Dec) bool        { return a.d.LessThan(b.d) }
func (a Dec) LessThanOrEqual(b Dec) bool { return a.d.LessThanOrEqual(b.d) }

// Min and Max are convenience wrappers used throughout collect/burn to
// clamp a requested amount to what is actually available.
func Min(a, b Dec) Dec {
	if a.LessThanOrEqual(b) {
		return a
	}
	return b
}

func Max(a, b Dec) Dec {
	if a.GreaterThanOrEqual(b) {
		return a
	}
	return b
}

// TruncateAt8 and TruncateAt18 are the spec's f8/f18 helpers: an explicit
// truncation to 8 or 18 decimal places respectively, used both for
// display/dust thresholds and for the swap loop's zero-progress guard.
func (a Dec) TruncateAt8() Dec  { return Dec{d: a.d.Truncate(Q8)} }
func (a Dec) TruncateAt18() Dec { return Dec{d: a.d.Truncate(Q18)} }

// IsZeroAt reports whether a is effectively zero once truncated to
// places decimal digits — the swap stepper's dust-termination guard.
func (a Dec) IsZeroAt(places int32) bool {
	return a.d.Truncate(places).IsZero()
}
