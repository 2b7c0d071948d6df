package concentrated_liquidity

import (
	"context"

	"github.com/GalaChain/dex-sub000/concentrated_liquidity/types"
	"github.com/GalaChain/dex-sub000/dexmath/fixedpoint"
	"github.com/GalaChain/dex-sub000/dexmath/tickmath"
)

// PositionRequest identifies the pool and position a liquidity
// operation targets.
type PositionRequest struct {
	Token0ClassKey, Token1ClassKey string
	FeeTier                        uint32
	Owner                          string
	PositionID                     string
	TickLower, TickUpper           int32
}

func (k *Keeper) validateRange(pool *types.Pool, tickLower, tickUpper int32) error {
	if tickLower >= tickUpper {
		return types.InvalidLowerUpperTickError{LowerTick: tickLower, UpperTick: tickUpper}
	}
	if tickLower%pool.TickSpacing != 0 || tickUpper%pool.TickSpacing != 0 {
		return types.TickSpacingError{TickSpacing: pool.TickSpacing, LowerTick: tickLower, UpperTick: tickUpper}
	}
	if tickLower < tickmath.MinTick || tickUpper > tickmath.MaxTick {
		if tickLower < tickmath.MinTick {
			return types.TickOutOfRangeError{Tick: tickLower}
		}
		return types.TickOutOfRangeError{Tick: tickUpper}
	}
	return nil
}

// modifyPosition applies liquidityDelta (signed) to the position and its
// boundary ticks, flipping bitmap bits on 0<->positive liquidityGross
// transitions, and returns the token amounts the change represents.
// roundUp selects mint (amounts owed by the user) vs burn (amounts owed
// to the user) rounding.
func (k *Keeper) modifyPosition(ctx context.Context, pool *types.Pool, req PositionRequest, liquidityDelta fixedpoint.Dec, roundUp bool) (amount0, amount1 fixedpoint.Dec, err error) {
	poolHash := pool.Hash()
	currentTick, err := pool.CurrentTick()
	if err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}

	lowerTick, err := k.getTick(ctx, poolHash, req.TickLower)
	if err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	upperTick, err := k.getTick(ctx, poolHash, req.TickUpper)
	if err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}

	flippedLower, err := lowerTick.Update(currentTick, liquidityDelta, false, pool.MaxLiquidityPerTick, pool.FeeGrowthGlobal0, pool.FeeGrowthGlobal1)
	if err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	flippedUpper, err := upperTick.Update(currentTick, liquidityDelta, true, pool.MaxLiquidityPerTick, pool.FeeGrowthGlobal0, pool.FeeGrowthGlobal1)
	if err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}

	if flippedLower {
		pool.Bitmap.Flip(req.TickLower, pool.TickSpacing)
	}
	if flippedUpper {
		pool.Bitmap.Flip(req.TickUpper, pool.TickSpacing)
	}

	feeGrowthInside0, feeGrowthInside1 := types.FeeGrowthInside(currentTick, lowerTick, upperTick, pool.FeeGrowthGlobal0, pool.FeeGrowthGlobal1)

	position, err := k.getPosition(ctx, poolHash, req.TickLower, req.TickUpper, req.PositionID)
	if err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	if position == nil {
		position = types.NewPosition(poolHash, req.Owner, req.PositionID, req.TickLower, req.TickUpper)
	} else if position.Owner != req.Owner {
		return fixedpoint.Zero, fixedpoint.Zero, types.UnauthorizedError{Caller: req.Owner, Reason: "not position owner"}
	}
	position.Update(liquidityDelta, feeGrowthInside0, feeGrowthInside1)
	if position.Liquidity.IsNegative() {
		return fixedpoint.Zero, fixedpoint.Zero, types.InsufficientLiquidityError{
			Requested: liquidityDelta.Abs(), Available: position.Liquidity.Sub(liquidityDelta).Abs(), MaxFraction: fixedpoint.Zero,
		}
	}

	sqrtLower, err := tickmath.TickToSqrtPrice(req.TickLower)
	if err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	sqrtUpper, err := tickmath.TickToSqrtPrice(req.TickUpper)
	if err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	amount0, amount1 = tickmath.AmountsForLiquidity(pool.SqrtPrice, sqrtLower, sqrtUpper, liquidityDelta.Abs(), roundUp)

	if req.TickLower <= currentTick && currentTick < req.TickUpper {
		pool.Liquidity = pool.Liquidity.Add(liquidityDelta)
	}
	pool.GrossPoolLiquidity = pool.GrossPoolLiquidity.Add(liquidityDelta)

	if err := k.putTick(ctx, lowerTick); err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	if err := k.putTick(ctx, upperTick); err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	if err := k.putPosition(ctx, req.Owner, position); err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	return amount0, amount1, nil
}

// AddLiquidityRequest mints new liquidity into a position.
type AddLiquidityRequest struct {
	PositionRequest
	LiquidityDelta fixedpoint.Dec
}

// AddLiquidity grows the position by LiquidityDelta (>0), returning the
// token amounts the caller must pay into the pool.
func (k *Keeper) AddLiquidity(ctx context.Context, req AddLiquidityRequest) (amount0, amount1 fixedpoint.Dec, err error) {
	if req.LiquidityDelta.IsZero() || req.LiquidityDelta.IsNegative() {
		return fixedpoint.Zero, fixedpoint.Zero, types.NegativeAmountError{Amount: req.LiquidityDelta}
	}

	pool, err := k.GetPool(ctx, req.Token0ClassKey, req.Token1ClassKey, req.FeeTier)
	if err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	if pool.Paused {
		return fixedpoint.Zero, fixedpoint.Zero, types.UnauthorizedError{Caller: req.Owner, Reason: "pool paused"}
	}
	if !pool.IsWhitelisted(req.Owner) {
		return fixedpoint.Zero, fixedpoint.Zero, types.UnauthorizedError{Caller: req.Owner, Reason: "pool is private"}
	}
	if err := k.validateRange(pool, req.TickLower, req.TickUpper); err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}

	amount0, amount1, err = k.modifyPosition(ctx, pool, req.PositionRequest, req.LiquidityDelta, true)
	if err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}

	alias := pool.Alias()
	if err := k.Tokens.Transfer(ctx, tokenTransfer(req.Token0ClassKey, req.Owner, alias, amount0)); err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	if err := k.Tokens.Transfer(ctx, tokenTransfer(req.Token1ClassKey, req.Owner, alias, amount1)); err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}

	if err := k.putPool(ctx, pool); err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	k.emit(ctx, types.MintedEvent{
		PoolHash: pool.Hash(), Owner: req.Owner, PositionID: req.PositionID,
		TickLower: req.TickLower, TickUpper: req.TickUpper,
		LiquidityDelta: req.LiquidityDelta, Amount0: amount0, Amount1: amount1,
	})
	if k.Logger != nil {
		k.Logger.Debug("liquidity minted", "pool", pool.Hash(), "owner", req.Owner, "position", req.PositionID,
			"amount0", amount0.String(), "amount1", amount1.String())
	}
	return amount0, amount1, nil
}

// BurnRequest removes liquidity from a position, crediting the owed
// amounts into TokensOwed for a later Collect.
type BurnRequest struct {
	PositionRequest
	LiquidityDelta fixedpoint.Dec
}

// Burn reduces the position by LiquidityDelta (>0), crediting the
// withdrawn token amounts to the position's tokensOwed.
func (k *Keeper) Burn(ctx context.Context, req BurnRequest) (amount0, amount1 fixedpoint.Dec, err error) {
	if req.LiquidityDelta.IsNegative() {
		return fixedpoint.Zero, fixedpoint.Zero, types.NegativeAmountError{Amount: req.LiquidityDelta}
	}
	if req.LiquidityDelta.IsZero() {
		// Boundary case: burning zero liquidity is a no-op success, not an
		// input error (unlike AddLiquidity, where a zero delta has no
		// useful meaning).
		return fixedpoint.Zero, fixedpoint.Zero, nil
	}

	pool, err := k.GetPool(ctx, req.Token0ClassKey, req.Token1ClassKey, req.FeeTier)
	if err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	existing, err := k.getPosition(ctx, pool.Hash(), req.TickLower, req.TickUpper, req.PositionID)
	if err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	if existing == nil {
		return fixedpoint.Zero, fixedpoint.Zero, types.PositionNotFoundError{PoolHash: pool.Hash(), TickLower: req.TickLower, TickUpper: req.TickUpper, PositionID: req.PositionID}
	}
	if existing.Owner != req.Owner {
		return fixedpoint.Zero, fixedpoint.Zero, types.UnauthorizedError{Caller: req.Owner, Reason: "not position owner"}
	}
	if req.LiquidityDelta.GreaterThan(existing.Liquidity) {
		return fixedpoint.Zero, fixedpoint.Zero, types.InsufficientLiquidityError{
			Requested: req.LiquidityDelta, Available: existing.Liquidity,
			MaxFraction: existing.Liquidity.DivRound(req.LiquidityDelta, 4, fixedpoint.RoundDown).Mul(fixedpoint.NewFromInt64(100)),
		}
	}

	amount0, amount1, err = k.modifyPosition(ctx, pool, req.PositionRequest, req.LiquidityDelta.Neg(), false)
	if err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}

	position, err := k.getPosition(ctx, pool.Hash(), req.TickLower, req.TickUpper, req.PositionID)
	if err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	position.TokensOwed0 = position.TokensOwed0.Add(amount0)
	position.TokensOwed1 = position.TokensOwed1.Add(amount1)
	if err := k.putPosition(ctx, req.Owner, position); err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}

	if err := k.putPool(ctx, pool); err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	k.emit(ctx, types.BurnedEvent{
		PoolHash: pool.Hash(), Owner: req.Owner, PositionID: req.PositionID,
		TickLower: req.TickLower, TickUpper: req.TickUpper,
		LiquidityDelta: req.LiquidityDelta, Amount0: amount0, Amount1: amount1,
	})
	if k.Logger != nil {
		k.Logger.Debug("liquidity burned", "pool", pool.Hash(), "owner", req.Owner, "position", req.PositionID,
			"amount0", amount0.String(), "amount1", amount1.String())
	}
	return amount0, amount1, nil
}

// CollectRequest withdraws up to Max0/Max1 of a position's tokensOwed to
// Recipient.
type CollectRequest struct {
	PositionRequest
	Max0, Max1 fixedpoint.Dec
	Recipient  string
}

// Collect pays out min(tokensOwed, max) for each token and decrements
// tokensOwed accordingly.
func (k *Keeper) Collect(ctx context.Context, req CollectRequest) (amount0, amount1 fixedpoint.Dec, err error) {
	pool, err := k.GetPool(ctx, req.Token0ClassKey, req.Token1ClassKey, req.FeeTier)
	if err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	position, err := k.getPosition(ctx, pool.Hash(), req.TickLower, req.TickUpper, req.PositionID)
	if err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	if position == nil {
		return fixedpoint.Zero, fixedpoint.Zero, types.PositionNotFoundError{PoolHash: pool.Hash(), TickLower: req.TickLower, TickUpper: req.TickUpper, PositionID: req.PositionID}
	}
	if position.Owner != req.Owner {
		return fixedpoint.Zero, fixedpoint.Zero, types.UnauthorizedError{Caller: req.Owner, Reason: "not position owner"}
	}

	amount0 = fixedpoint.Min(position.TokensOwed0, req.Max0)
	amount1 = fixedpoint.Min(position.TokensOwed1, req.Max1)

	position.TokensOwed0 = position.TokensOwed0.Sub(amount0)
	position.TokensOwed1 = position.TokensOwed1.Sub(amount1)
	if err := k.putPosition(ctx, req.Owner, position); err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}

	alias := pool.Alias()
	if err := k.Tokens.Transfer(ctx, tokenTransfer(req.Token0ClassKey, alias, req.Recipient, amount0)); err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	if err := k.Tokens.Transfer(ctx, tokenTransfer(req.Token1ClassKey, alias, req.Recipient, amount1)); err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}

	k.emit(ctx, types.FeesCollectedEvent{
		PoolHash: pool.Hash(), Owner: req.Owner, PositionID: req.PositionID,
		Amount0: amount0, Amount1: amount1, Recipient: req.Recipient,
	})
	return amount0, amount1, nil
}

// CollectProtocolFeesRequest withdraws accrued protocol fees, bounded by
// the pool's actual held balance of each token.
type CollectProtocolFeesRequest struct {
	Token0ClassKey, Token1ClassKey string
	FeeTier                        uint32
	Recipient                      string
}

// CollectProtocolFees pays out min(protocolFees, pool-held-balance) for
// each token to Recipient.
func (k *Keeper) CollectProtocolFees(ctx context.Context, req CollectProtocolFeesRequest) (amount0, amount1 fixedpoint.Dec, err error) {
	pool, err := k.GetPool(ctx, req.Token0ClassKey, req.Token1ClassKey, req.FeeTier)
	if err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	alias := pool.Alias()

	bal0, err := k.Tokens.BalanceOf(ctx, alias, req.Token0ClassKey)
	if err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	bal1, err := k.Tokens.BalanceOf(ctx, alias, req.Token1ClassKey)
	if err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}

	amount0 = fixedpoint.Min(pool.ProtocolFees0, bal0)
	amount1 = fixedpoint.Min(pool.ProtocolFees1, bal1)

	pool.ProtocolFees0 = pool.ProtocolFees0.Sub(amount0)
	pool.ProtocolFees1 = pool.ProtocolFees1.Sub(amount1)

	if err := k.Tokens.Transfer(ctx, tokenTransfer(req.Token0ClassKey, alias, req.Recipient, amount0)); err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	if err := k.Tokens.Transfer(ctx, tokenTransfer(req.Token1ClassKey, alias, req.Recipient, amount1)); err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	if err := k.putPool(ctx, pool); err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}

	k.emit(ctx, types.ProtocolFeesCollectedEvent{PoolHash: pool.Hash(), Amount0: amount0, Amount1: amount1, Recipient: req.Recipient})
	return amount0, amount1, nil
}
