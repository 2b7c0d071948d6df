// Package tickmath converts between tick indices and sqrt prices, and
// between a liquidity amount and the token quantities it represents over
// a price range. Ticks are base-1.0001 price exponents; sqrtPrice is the
// quantity actually carried in pool state to save one layer of rounding.
package tickmath

import (
	"fmt"
	"math"

	"github.com/GalaChain/dex-sub000/dexmath/fixedpoint"
)

const (
	// MinTick and MaxTick bound every tick index accepted anywhere in
	// the engine: position bounds, bitmap positions, swap termination.
	MinTick int32 = -887272
	MaxTick int32 = 887272
)

var (
	tickBase = fixedpoint.MustNewFromString("1.0001")

	// MinSqrtPrice and MaxSqrtPrice are computed once at package init
	// from TickToSqrtPrice(MinTick/MaxTick) and used to bound createPool
	// and the swap price-limit preconditions.
	MinSqrtPrice fixedpoint.Dec
	MaxSqrtPrice fixedpoint.Dec
)

func init() {
	MinSqrtPrice, _ = TickToSqrtPrice(MinTick)
	MaxSqrtPrice, _ = TickToSqrtPrice(MaxTick)
}

// TickOutOfRangeError is returned whenever a tick index falls outside
// [MinTick, MaxTick].
type TickOutOfRangeError struct {
	Tick int32
}

func (e TickOutOfRangeError) Error() string {
	return fmt.Sprintf("tick %d out of range [%d, %d]", e.Tick, MinTick, MaxTick)
}

// SqrtPriceOutOfRangeError is returned whenever a sqrtPrice value falls
// outside [MinSqrtPrice, MaxSqrtPrice].
type SqrtPriceOutOfRangeError struct {
	SqrtPrice fixedpoint.Dec
}

func (e SqrtPriceOutOfRangeError) Error() string {
	return fmt.Sprintf("sqrtPrice %s out of range [%s, %s]", e.SqrtPrice, MinSqrtPrice, MaxSqrtPrice)
}

// TickToSqrtPrice returns (1.0001^tick)^(1/2) as an arbitrary-precision
// decimal. Fails with TickOutOfRangeError if tick is outside bounds.
func TickToSqrtPrice(tick int32) (fixedpoint.Dec, error) {
	if tick < MinTick || tick > MaxTick {
		return fixedpoint.Dec{}, TickOutOfRangeError{Tick: tick}
	}
	price := tickBase.Pow(int64(tick))
	return price.Sqrt(), nil
}

// SqrtPriceToTick returns the largest integer t such that
// TickToSqrtPrice(t) <= sqrtPrice. TickToSqrtPrice is monotone in t, so
// a log-based initial estimate followed by a linear correction scan
// converges in a handful of steps.
func SqrtPriceToTick(sqrtPrice fixedpoint.Dec) (int32, error) {
	if sqrtPrice.LessThanOrEqual(fixedpoint.Zero) {
		return 0, fmt.Errorf("tickmath: sqrtPrice must be positive, got %s", sqrtPrice)
	}
	if sqrtPrice.LessThan(MinSqrtPrice) || sqrtPrice.GreaterThan(MaxSqrtPrice) {
		return 0, SqrtPriceOutOfRangeError{SqrtPrice: sqrtPrice}
	}

	priceF, _ := sqrtPrice.Shopspring().Float64()
	// price = sqrtPrice^2 = 1.0001^tick  =>  tick = log(price^2) / log(1.0001)
	estimate := int32(math.Floor(2 * math.Log(priceF) / math.Log(1.0001)))
	if estimate < MinTick {
		estimate = MinTick
	}
	if estimate > MaxTick {
		estimate = MaxTick
	}

	// Correct the float estimate by walking in the direction that keeps
	// TickToSqrtPrice(t) <= sqrtPrice, honoring the "largest such t"
	// contract exactly rather than trusting the float log.
	at, err := TickToSqrtPrice(estimate)
	if err != nil {
		return 0, err
	}

	for at.GreaterThan(sqrtPrice) && estimate > MinTick {
		estimate--
		at, err = TickToSqrtPrice(estimate)
		if err != nil {
			return 0, err
		}
	}
	for estimate < MaxTick {
		next, err := TickToSqrtPrice(estimate + 1)
		if err != nil {
			break
		}
		if next.GreaterThan(sqrtPrice) {
			break
		}
		estimate++
		at = next
	}
	_ = at
	return estimate, nil
}

// LiquidityForAmounts computes the liquidity a deposit of amount0/amount1
// supports at the given range and current sqrt price, following the
// three-region split of spec.md section 4.1.
func LiquidityForAmounts(sqrtPrice, sqrtLower, sqrtUpper, amount0, amount1 fixedpoint.Dec) fixedpoint.Dec {
	if sqrtLower.GreaterThan(sqrtUpper) {
		sqrtLower, sqrtUpper = sqrtUpper, sqrtLower
	}
	switch {
	case sqrtPrice.LessThanOrEqual(sqrtLower):
		return liquidityFromAmount0(sqrtLower, sqrtUpper, amount0)
	case sqrtPrice.GreaterThanOrEqual(sqrtUpper):
		return liquidityFromAmount1(sqrtLower, sqrtUpper, amount1)
	default:
		l0 := liquidityFromAmount0(sqrtPrice, sqrtUpper, amount0)
		l1 := liquidityFromAmount1(sqrtLower, sqrtPrice, amount1)
		return fixedpoint.Min(l0, l1)
	}
}

func liquidityFromAmount0(sqrtA, sqrtB fixedpoint.Dec, amount0 fixedpoint.Dec) fixedpoint.Dec {
	// amount0 = L * (1/sqrtA - 1/sqrtB)  =>  L = amount0 / (1/sqrtA - 1/sqrtB)
	invA := fixedpoint.NewFromInt64(1).DivRound(sqrtA, fixedpoint.Q18, fixedpoint.RoundBankers)
	invB := fixedpoint.NewFromInt64(1).DivRound(sqrtB, fixedpoint.Q18, fixedpoint.RoundBankers)
	denom := invA.Sub(invB)
	if denom.IsZero() {
		return fixedpoint.Zero
	}
	return amount0.DivRound(denom, fixedpoint.Q18, fixedpoint.RoundDown)
}

func liquidityFromAmount1(sqrtA, sqrtB fixedpoint.Dec, amount1 fixedpoint.Dec) fixedpoint.Dec {
	// amount1 = L * (sqrtB - sqrtA)  =>  L = amount1 / (sqrtB - sqrtA)
	denom := sqrtB.Sub(sqrtA)
	if denom.IsZero() {
		return fixedpoint.Zero
	}
	return amount1.DivRound(denom, fixedpoint.Q18, fixedpoint.RoundDown)
}

// AmountsForLiquidity is the inverse of LiquidityForAmounts: given a
// liquidity amount and a range, returns the token0/token1 quantities it
// represents at the current price. Rounding is direction-aware: roundUp
// selects amounts owed by the user (mint), false selects amounts paid to
// the user (burn).
func AmountsForLiquidity(sqrtPrice, sqrtLower, sqrtUpper, liquidity fixedpoint.Dec, roundUp bool) (amount0, amount1 fixedpoint.Dec) {
	if sqrtLower.GreaterThan(sqrtUpper) {
		sqrtLower, sqrtUpper = sqrtUpper, sqrtLower
	}
	mode := fixedpoint.RoundDown
	if roundUp {
		mode = fixedpoint.RoundUp
	}

	switch {
	case sqrtPrice.LessThanOrEqual(sqrtLower):
		amount0 = amount0Delta(sqrtLower, sqrtUpper, liquidity, mode)
		amount1 = fixedpoint.Zero
	case sqrtPrice.GreaterThanOrEqual(sqrtUpper):
		amount0 = fixedpoint.Zero
		amount1 = amount1Delta(sqrtLower, sqrtUpper, liquidity, mode)
	default:
		amount0 = amount0Delta(sqrtPrice, sqrtUpper, liquidity, mode)
		amount1 = amount1Delta(sqrtLower, sqrtPrice, liquidity, mode)
	}
	return amount0, amount1
}

// amount0Delta = L * (1/sqrtA - 1/sqrtB), sqrtA <= sqrtB.
func amount0Delta(sqrtA, sqrtB, liquidity fixedpoint.Dec, mode fixedpoint.RoundingMode) fixedpoint.Dec {
	invA := fixedpoint.NewFromInt64(1).DivRound(sqrtA, fixedpoint.Q18, fixedpoint.RoundBankers)
	invB := fixedpoint.NewFromInt64(1).DivRound(sqrtB, fixedpoint.Q18, fixedpoint.RoundBankers)
	diff := invA.Sub(invB)
	return liquidity.MulRound(diff, fixedpoint.Q18, mode)
}

// amount1Delta = L * (sqrtB - sqrtA), sqrtA <= sqrtB.
func amount1Delta(sqrtA, sqrtB, liquidity fixedpoint.Dec, mode fixedpoint.RoundingMode) fixedpoint.Dec {
	diff := sqrtB.Sub(sqrtA)
	return liquidity.MulRound(diff, fixedpoint.Q18, mode)
}
