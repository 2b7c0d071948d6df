package concentrated_liquidity_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	cl "github.com/GalaChain/dex-sub000/concentrated_liquidity"
	"github.com/GalaChain/dex-sub000/concentrated_liquidity/types"
	"github.com/GalaChain/dex-sub000/dexmath/fixedpoint"
	"github.com/GalaChain/dex-sub000/dexmath/tickmath"
)

func allTicks(t *testing.T, ctx context.Context, k *cl.Keeper, poolHash string) []*types.TickInfo {
	t.Helper()
	var out []*types.TickInfo
	seq, err := k.Store.RangeByPartialKey(ctx, types.TickRangePrefix(poolHash))
	require.NoError(t, err)
	for key, raw := range seq {
		require.True(t, strings.HasPrefix(key, types.TickRangePrefix(poolHash)))
		var ti types.TickInfo
		require.NoError(t, json.Unmarshal(raw, &ti))
		out = append(out, &ti)
	}
	return out
}

// TestSumOfLiquidityNetIsZero is property P2: across every initialised
// tick in a pool, the signed liquidityNet values sum to zero, since
// every position contributes +delta at its lower tick and -delta at its
// upper tick.
func TestSumOfLiquidityNetIsZero(t *testing.T) {
	ctx := context.Background()
	k := newTestKeeper()
	mustCreatePool(t, ctx, k, "1.0", 30)
	fund(t, ctx, k, "lp1", mustDec(t, "1000000"), mustDec(t, "1000000"))
	fund(t, ctx, k, "lp2", mustDec(t, "1000000"), mustDec(t, "1000000"))

	_, _, err := k.AddLiquidity(ctx, cl.AddLiquidityRequest{
		PositionRequest: cl.PositionRequest{
			Token0ClassKey: token0, Token1ClassKey: token1, FeeTier: 30,
			Owner: "lp1", PositionID: "a", TickLower: -600, TickUpper: 1200,
		},
		LiquidityDelta: mustDec(t, "500"),
	})
	require.NoError(t, err)

	_, _, err = k.AddLiquidity(ctx, cl.AddLiquidityRequest{
		PositionRequest: cl.PositionRequest{
			Token0ClassKey: token0, Token1ClassKey: token1, FeeTier: 30,
			Owner: "lp2", PositionID: "b", TickLower: -1800, TickUpper: 600,
		},
		LiquidityDelta: mustDec(t, "1300"),
	})
	require.NoError(t, err)

	pool, err := k.GetPool(ctx, token0, token1, 30)
	require.NoError(t, err)

	sum := fixedpoint.Zero
	for _, ti := range allTicks(t, ctx, k, pool.Hash()) {
		sum = sum.Add(ti.LiquidityNet)
	}
	require.True(t, sum.IsZero(), "expected liquidityNet to sum to zero, got %s", sum.String())
}

// TestBitmapBitMatchesTickInitialisation is property P3: a tick's bitmap
// bit is set if and only if the tick is persisted with Initialised=true.
func TestBitmapBitMatchesTickInitialisation(t *testing.T) {
	ctx := context.Background()
	k := newTestKeeper()
	mustCreatePool(t, ctx, k, "1.0", 30)
	fund(t, ctx, k, "lp", mustDec(t, "1000000"), mustDec(t, "1000000"))

	_, _, err := k.AddLiquidity(ctx, cl.AddLiquidityRequest{
		PositionRequest: cl.PositionRequest{
			Token0ClassKey: token0, Token1ClassKey: token1, FeeTier: 30,
			Owner: "lp", PositionID: "a", TickLower: -600, TickUpper: 600,
		},
		LiquidityDelta: mustDec(t, "1000"),
	})
	require.NoError(t, err)

	pool, err := k.GetPool(ctx, token0, token1, 30)
	require.NoError(t, err)

	for _, ti := range allTicks(t, ctx, k, pool.Hash()) {
		bitSet := pool.Bitmap.IsInitialized(ti.Tick, pool.TickSpacing)
		require.Equal(t, ti.Initialised, bitSet, "tick %d: persisted Initialised=%v but bitmap bit=%v", ti.Tick, ti.Initialised, bitSet)
	}

	// -600 and 600 are the only two ticks touched; both must be set.
	require.True(t, pool.Bitmap.IsInitialized(-600, pool.TickSpacing))
	require.True(t, pool.Bitmap.IsInitialized(600, pool.TickSpacing))
	// An untouched tick several spacings away must be clear.
	require.False(t, pool.Bitmap.IsInitialized(60000, pool.TickSpacing))
}

// TestSwapRoundTripApproximatelyIdentity is property P6: a swap on the
// cheapest fee tier immediately followed by an opposite-direction swap
// for the same nominal input returns the pool close to its starting
// price, modulo fees and rounding.
func TestSwapRoundTripApproximatelyIdentity(t *testing.T) {
	ctx := context.Background()
	k := newTestKeeper()
	mustCreatePool(t, ctx, k, "1.0", 5) // 0.05% is the cheapest available tier
	fund(t, ctx, k, "lp", mustDec(t, "1000000000"), mustDec(t, "1000000000"))
	_, _, err := k.AddLiquidity(ctx, cl.AddLiquidityRequest{
		PositionRequest: cl.PositionRequest{
			Token0ClassKey: token0, Token1ClassKey: token1, FeeTier: 5,
			Owner: "lp", PositionID: "wide", TickLower: -60000, TickUpper: 60000,
		},
		LiquidityDelta: mustDec(t, "1000000000"),
	})
	require.NoError(t, err)
	fund(t, ctx, k, "trader", mustDec(t, "1000"), fixedpoint.Zero)

	before, err := k.GetPool(ctx, token0, token1, 5)
	require.NoError(t, err)

	amount0Out, amount1Out, err := k.Swap(ctx, cl.SwapRequest{
		Token0ClassKey: token0, Token1ClassKey: token1, FeeTier: 5,
		Trader: "trader", ZeroForOne: true,
		AmountSpecified: mustDec(t, "10"),
		SqrtPriceLimit:  tickmath.MinSqrtPrice,
	})
	require.NoError(t, err)

	// Swap the token1 proceeds back for token0.
	_, _, err = k.Swap(ctx, cl.SwapRequest{
		Token0ClassKey: token0, Token1ClassKey: token1, FeeTier: 5,
		Trader: "trader", ZeroForOne: false,
		AmountSpecified: amount1Out.Abs(),
		SqrtPriceLimit:  tickmath.MaxSqrtPrice,
	})
	require.NoError(t, err)

	after, err := k.GetPool(ctx, token0, token1, 5)
	require.NoError(t, err)

	diff := after.SqrtPrice.Sub(before.SqrtPrice).Abs()
	tolerance := mustDec(t, "0.0001")
	require.True(t, diff.LessThanOrEqual(tolerance), "round trip drifted sqrtPrice by %s (amount0Out=%s)", diff.String(), amount0Out.String())
}
