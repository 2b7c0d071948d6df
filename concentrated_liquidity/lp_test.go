package concentrated_liquidity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	cl "github.com/GalaChain/dex-sub000/concentrated_liquidity"
	"github.com/GalaChain/dex-sub000/concentrated_liquidity/types"
	"github.com/GalaChain/dex-sub000/dexmath/fixedpoint"
)

func mustCreatePool(t *testing.T, ctx context.Context, k *cl.Keeper, sqrtPrice string, feeTier uint32) {
	t.Helper()
	_, err := k.CreatePool(ctx, cl.CreatePoolRequest{
		Token0ClassKey: token0, Token1ClassKey: token1, FeeTier: feeTier,
		SqrtPrice: mustDec(t, sqrtPrice), Creator: "creator",
	})
	require.NoError(t, err)
}

// TestAddLiquidityThenBurnAll is property P5: mint followed by immediate
// burn of the same liquidity in the same price regime returns amounts
// less than or equal to the deposited amounts.
func TestAddLiquidityThenBurnAll(t *testing.T) {
	ctx := context.Background()
	k := newTestKeeper()
	mustCreatePool(t, ctx, k, "1.0", 30)
	fund(t, ctx, k, "lp", mustDec(t, "1000000"), mustDec(t, "1000000"))

	liquidity := mustDec(t, "75646")
	addReq := cl.AddLiquidityRequest{
		PositionRequest: cl.PositionRequest{
			Token0ClassKey: token0, Token1ClassKey: token1, FeeTier: 30,
			Owner: "lp", PositionID: "pos-1", TickLower: -600, TickUpper: 600,
		},
		LiquidityDelta: liquidity,
	}
	deposit0, deposit1, err := k.AddLiquidity(ctx, addReq)
	require.NoError(t, err)
	require.True(t, deposit0.IsPositive())
	require.True(t, deposit1.IsPositive())

	burnReq := cl.BurnRequest{PositionRequest: addReq.PositionRequest, LiquidityDelta: liquidity}
	withdraw0, withdraw1, err := k.Burn(ctx, burnReq)
	require.NoError(t, err)

	require.True(t, withdraw0.LessThanOrEqual(deposit0))
	require.True(t, withdraw1.LessThanOrEqual(deposit1))
}

// TestBurnZeroSucceeds is scenario B3: burn with amount = 0 succeeds and
// returns (0, 0). Burn returns early on a zero liquidityDelta, before
// reading the pool or calling modifyPosition.
func TestBurnZeroSucceeds(t *testing.T) {
	ctx := context.Background()
	k := newTestKeeper()
	mustCreatePool(t, ctx, k, "1.0", 30)
	fund(t, ctx, k, "lp", mustDec(t, "1000000"), mustDec(t, "1000000"))

	addReq := cl.AddLiquidityRequest{
		PositionRequest: cl.PositionRequest{
			Token0ClassKey: token0, Token1ClassKey: token1, FeeTier: 30,
			Owner: "lp", PositionID: "pos-1", TickLower: -600, TickUpper: 600,
		},
		LiquidityDelta: mustDec(t, "1000"),
	}
	_, _, err := k.AddLiquidity(ctx, addReq)
	require.NoError(t, err)

	amount0, amount1, err := k.Burn(ctx, cl.BurnRequest{PositionRequest: addReq.PositionRequest, LiquidityDelta: fixedpoint.Zero})
	require.NoError(t, err)
	require.True(t, amount0.IsZero())
	require.True(t, amount1.IsZero())
}

// TestBurnExceedsPositionLiquidityFails is scenario B4: burning more
// liquidity than a position holds fails with InsufficientLiquidity and
// reports a maximum permissible fraction.
func TestBurnExceedsPositionLiquidityFails(t *testing.T) {
	ctx := context.Background()
	k := newTestKeeper()
	mustCreatePool(t, ctx, k, "1.0", 30)
	fund(t, ctx, k, "lp", mustDec(t, "1000000"), mustDec(t, "1000000"))

	addReq := cl.AddLiquidityRequest{
		PositionRequest: cl.PositionRequest{
			Token0ClassKey: token0, Token1ClassKey: token1, FeeTier: 30,
			Owner: "lp", PositionID: "pos-1", TickLower: -600, TickUpper: 600,
		},
		LiquidityDelta: mustDec(t, "900"),
	}
	_, _, err := k.AddLiquidity(ctx, addReq)
	require.NoError(t, err)

	_, _, err = k.Burn(ctx, cl.BurnRequest{PositionRequest: addReq.PositionRequest, LiquidityDelta: mustDec(t, "6000")})
	require.Error(t, err)
	insufficient, ok := err.(types.InsufficientLiquidityError)
	require.True(t, ok)
	require.True(t, insufficient.MaxFraction.IsPositive())
	require.True(t, insufficient.MaxFraction.LessThan(fixedpoint.NewFromInt64(100)))
}

// TestGrossPoolLiquidityTracksPositions is property P1:
// grossPoolLiquidity == sum of position liquidity across every position.
func TestGrossPoolLiquidityTracksPositions(t *testing.T) {
	ctx := context.Background()
	k := newTestKeeper()
	mustCreatePool(t, ctx, k, "1.0", 30)
	fund(t, ctx, k, "lp1", mustDec(t, "1000000"), mustDec(t, "1000000"))
	fund(t, ctx, k, "lp2", mustDec(t, "1000000"), mustDec(t, "1000000"))

	_, _, err := k.AddLiquidity(ctx, cl.AddLiquidityRequest{
		PositionRequest: cl.PositionRequest{
			Token0ClassKey: token0, Token1ClassKey: token1, FeeTier: 30,
			Owner: "lp1", PositionID: "a", TickLower: -600, TickUpper: 600,
		},
		LiquidityDelta: mustDec(t, "1000"),
	})
	require.NoError(t, err)

	_, _, err = k.AddLiquidity(ctx, cl.AddLiquidityRequest{
		PositionRequest: cl.PositionRequest{
			Token0ClassKey: token0, Token1ClassKey: token1, FeeTier: 30,
			Owner: "lp2", PositionID: "b", TickLower: -1200, TickUpper: -600,
		},
		LiquidityDelta: mustDec(t, "2500"),
	})
	require.NoError(t, err)

	pool, err := k.GetPool(ctx, token0, token1, 30)
	require.NoError(t, err)
	require.True(t, pool.GrossPoolLiquidity.Equal(mustDec(t, "3500")))

	// lp2's range [-1200,-600) does not bracket tick 0, so only lp1's
	// liquidity is active.
	require.True(t, pool.Liquidity.Equal(mustDec(t, "1000")))
}

func TestAddLiquidityRejectsMisalignedTicks(t *testing.T) {
	ctx := context.Background()
	k := newTestKeeper()
	mustCreatePool(t, ctx, k, "1.0", 30)
	fund(t, ctx, k, "lp", mustDec(t, "1000000"), mustDec(t, "1000000"))

	_, _, err := k.AddLiquidity(ctx, cl.AddLiquidityRequest{
		PositionRequest: cl.PositionRequest{
			Token0ClassKey: token0, Token1ClassKey: token1, FeeTier: 30,
			Owner: "lp", PositionID: "a", TickLower: -5, TickUpper: 600,
		},
		LiquidityDelta: mustDec(t, "1000"),
	})
	require.Error(t, err)
	require.IsType(t, types.TickSpacingError{}, err)
}

func TestCollectPaysOutMinOfOwedAndMax(t *testing.T) {
	ctx := context.Background()
	k := newTestKeeper()
	mustCreatePool(t, ctx, k, "1.0", 30)
	fund(t, ctx, k, "lp", mustDec(t, "1000000"), mustDec(t, "1000000"))

	posReq := cl.PositionRequest{
		Token0ClassKey: token0, Token1ClassKey: token1, FeeTier: 30,
		Owner: "lp", PositionID: "a", TickLower: -600, TickUpper: 600,
	}
	_, _, err := k.AddLiquidity(ctx, cl.AddLiquidityRequest{PositionRequest: posReq, LiquidityDelta: mustDec(t, "1000")})
	require.NoError(t, err)
	_, _, err = k.Burn(ctx, cl.BurnRequest{PositionRequest: posReq, LiquidityDelta: mustDec(t, "1000")})
	require.NoError(t, err)

	amount0, amount1, err := k.Collect(ctx, cl.CollectRequest{
		PositionRequest: posReq, Max0: fixedpoint.NewFromInt64(1 << 30), Max1: fixedpoint.NewFromInt64(1 << 30), Recipient: "lp",
	})
	require.NoError(t, err)
	require.True(t, amount0.IsPositive())
	require.True(t, amount1.IsPositive())

	// A second collect with the same max finds nothing left owed.
	amount0, amount1, err = k.Collect(ctx, cl.CollectRequest{
		PositionRequest: posReq, Max0: fixedpoint.NewFromInt64(1 << 30), Max1: fixedpoint.NewFromInt64(1 << 30), Recipient: "lp",
	})
	require.NoError(t, err)
	require.True(t, amount0.IsZero())
	require.True(t, amount1.IsZero())
}
