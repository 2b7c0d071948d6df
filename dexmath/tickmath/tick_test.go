package tickmath_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GalaChain/dex-sub000/dexmath/fixedpoint"
	"github.com/GalaChain/dex-sub000/dexmath/tickmath"
)

// TestSqrtPriceToTickRoundTrip is property P4: sqrtPriceToTick(tickToSqrtPrice(t)) == t.
func TestSqrtPriceToTickRoundTrip(t *testing.T) {
	ticks := []int32{
		tickmath.MinTick, tickmath.MaxTick, 0, 1, -1,
		100, -100, 75920, 76110, 887270, -887270, 200000, -200000,
	}
	for _, tick := range ticks {
		sqrtPrice, err := tickmath.TickToSqrtPrice(tick)
		require.NoError(t, err)

		got, err := tickmath.SqrtPriceToTick(sqrtPrice)
		require.NoError(t, err)
		require.Equalf(t, tick, got, "round trip failed for tick %d (sqrtPrice %s)", tick, sqrtPrice)
	}
}

func TestTickToSqrtPriceOutOfRange(t *testing.T) {
	_, err := tickmath.TickToSqrtPrice(tickmath.MinTick - 1)
	require.ErrorAs(t, err, &tickmath.TickOutOfRangeError{})

	_, err = tickmath.TickToSqrtPrice(tickmath.MaxTick + 1)
	require.ErrorAs(t, err, &tickmath.TickOutOfRangeError{})
}

// TestSqrtPriceToTickBoundaryAcceptsExactBounds is the tick-math side of
// scenario B1: SqrtPriceToTick accepts sqrtPrice(MIN_TICK) and
// sqrtPrice(MAX_TICK) but rejects values outside that range.
func TestSqrtPriceToTickBoundaryAcceptsExactBounds(t *testing.T) {
	_, err := tickmath.SqrtPriceToTick(tickmath.MinSqrtPrice)
	require.NoError(t, err)

	_, err = tickmath.SqrtPriceToTick(tickmath.MaxSqrtPrice)
	require.NoError(t, err)

	below := tickmath.MinSqrtPrice.Div(fixedpoint.NewFromInt64(1000))
	_, err = tickmath.SqrtPriceToTick(below)
	require.ErrorAs(t, err, &tickmath.SqrtPriceOutOfRangeError{})

	above := tickmath.MaxSqrtPrice.Mul(fixedpoint.NewFromInt64(1000))
	_, err = tickmath.SqrtPriceToTick(above)
	require.ErrorAs(t, err, &tickmath.SqrtPriceOutOfRangeError{})

	_, err = tickmath.SqrtPriceToTick(fixedpoint.Zero)
	require.Error(t, err)

	_, err = tickmath.SqrtPriceToTick(fixedpoint.NewFromInt64(-1))
	require.Error(t, err)
}

func TestAmountsForLiquidityRegions(t *testing.T) {
	lower, err := tickmath.TickToSqrtPrice(-1000)
	require.NoError(t, err)
	upper, err := tickmath.TickToSqrtPrice(1000)
	require.NoError(t, err)
	liquidity := fixedpoint.NewFromInt64(1_000_000)

	// Below the range: all token0, no token1.
	belowPrice, err := tickmath.TickToSqrtPrice(-2000)
	require.NoError(t, err)
	a0, a1 := tickmath.AmountsForLiquidity(belowPrice, lower, upper, liquidity, true)
	require.True(t, a0.IsPositive())
	require.True(t, a1.IsZero())

	// Above the range: all token1, no token0.
	abovePrice, err := tickmath.TickToSqrtPrice(2000)
	require.NoError(t, err)
	a0, a1 = tickmath.AmountsForLiquidity(abovePrice, lower, upper, liquidity, true)
	require.True(t, a0.IsZero())
	require.True(t, a1.IsPositive())

	// Inside the range: both tokens.
	midPrice, err := tickmath.TickToSqrtPrice(0)
	require.NoError(t, err)
	a0, a1 = tickmath.AmountsForLiquidity(midPrice, lower, upper, liquidity, true)
	require.True(t, a0.IsPositive())
	require.True(t, a1.IsPositive())
}

func TestAmountsForLiquidityRoundingDirection(t *testing.T) {
	lower, err := tickmath.TickToSqrtPrice(-1000)
	require.NoError(t, err)
	upper, err := tickmath.TickToSqrtPrice(1000)
	require.NoError(t, err)
	mid, err := tickmath.TickToSqrtPrice(0)
	require.NoError(t, err)
	liquidity := fixedpoint.MustNewFromString("123456.789")

	a0Up, a1Up := tickmath.AmountsForLiquidity(mid, lower, upper, liquidity, true)
	a0Down, a1Down := tickmath.AmountsForLiquidity(mid, lower, upper, liquidity, false)

	require.True(t, a0Up.GreaterThanOrEqual(a0Down))
	require.True(t, a1Up.GreaterThanOrEqual(a1Down))
}
