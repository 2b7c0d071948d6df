package concentrated_liquidity

import (
	"context"

	"github.com/GalaChain/dex-sub000/concentrated_liquidity/types"
	"github.com/GalaChain/dex-sub000/dexmath/fixedpoint"
	"github.com/GalaChain/dex-sub000/dexmath/tickmath"
	"github.com/GalaChain/dex-sub000/ledger"
	"github.com/GalaChain/dex-sub000/tokenledger"
)

// SwapRequest describes one swap against a pool. AmountSpecified follows
// the exact-input/exact-output convention: positive means exactInput
// (AmountSpecified is denominated in the token the trader sends),
// negative means exactOutput (denominated in the token the trader
// wants to receive). Amount0Min/Amount1Min are slippage floors; zero
// disables the corresponding check.
type SwapRequest struct {
	Token0ClassKey, Token1ClassKey string
	FeeTier                        uint32
	Trader                         string
	ZeroForOne                     bool
	AmountSpecified                fixedpoint.Dec
	SqrtPriceLimit                 fixedpoint.Dec
	Amount0Min, Amount1Min         fixedpoint.Dec
}

type swapState struct {
	remaining          fixedpoint.Dec
	calculated         fixedpoint.Dec
	sqrtPrice          fixedpoint.Dec
	tick               int32
	liquidity          fixedpoint.Dec
	feeGrowthGlobalIn  fixedpoint.Dec
	protocolFeeAccrued fixedpoint.Dec
}

// Swap executes the swap stepper described in spec.md section 4.6 over
// pool state loaded from the ledger, writes back the mutated pool (and
// every tick it crossed), moves token balances, and returns the signed
// amounts applied to the pool (positive: paid in by the trader;
// negative: paid out by the pool).
func (k *Keeper) Swap(ctx context.Context, req SwapRequest) (amount0, amount1 fixedpoint.Dec, err error) {
	pool, err := k.GetPool(ctx, req.Token0ClassKey, req.Token1ClassKey, req.FeeTier)
	if err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	if pool.Paused {
		return fixedpoint.Zero, fixedpoint.Zero, types.UnauthorizedError{Caller: req.Trader, Reason: "pool paused"}
	}
	if !pool.IsWhitelisted(req.Trader) {
		return fixedpoint.Zero, fixedpoint.Zero, types.UnauthorizedError{Caller: req.Trader, Reason: "pool is private"}
	}

	st, exactIn, err := k.initSwapState(pool, req)
	if err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}

	feeFraction := fixedpoint.NewFromInt64(int64(pool.FeeTier)).DivRound(fixedpoint.NewFromInt64(10000), 6, fixedpoint.RoundBankers)

	steps := 0
	for !st.remaining.TruncateAt8().IsZero() && !st.sqrtPrice.Equal(req.SqrtPriceLimit) {
		if err := k.Scheduler.Yield(ctx, steps); err != nil {
			return fixedpoint.Zero, fixedpoint.Zero, err
		}
		steps++

		if err := k.swapStep(ctx, pool, req.ZeroForOne, exactIn, feeFraction, req.SqrtPriceLimit, st); err != nil {
			return fixedpoint.Zero, fixedpoint.Zero, err
		}
	}

	pool.SqrtPrice = st.sqrtPrice
	pool.Liquidity = st.liquidity
	if req.ZeroForOne {
		pool.FeeGrowthGlobal0 = st.feeGrowthGlobalIn
		pool.ProtocolFees0 = pool.ProtocolFees0.Add(st.protocolFeeAccrued)
	} else {
		pool.FeeGrowthGlobal1 = st.feeGrowthGlobalIn
		pool.ProtocolFees1 = pool.ProtocolFees1.Add(st.protocolFeeAccrued)
	}

	consumed := req.AmountSpecified.Abs().Sub(st.remaining)
	amount0, amount1 = signedSwapAmounts(req.ZeroForOne, exactIn, consumed, st.calculated)

	if err := k.checkSlippage(req, amount0, amount1); err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}

	if err := k.settleSwap(ctx, pool, req.Trader, amount0, amount1); err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	if err := k.putPool(ctx, pool); err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}

	k.emit(ctx, types.SwappedEvent{
		PoolHash: pool.Hash(), Trader: req.Trader, ZeroForOne: req.ZeroForOne,
		AmountIn: consumed, AmountOut: st.calculated,
		SqrtPriceAfter: pool.SqrtPrice, LiquidityAfter: pool.Liquidity, TickAfter: st.tick,
	})
	if k.Logger != nil {
		k.Logger.Debug("swap executed", "pool", pool.Hash(), "trader", req.Trader, "zeroForOne", req.ZeroForOne,
			"amountIn", consumed.String(), "amountOut", st.calculated.String(), "sqrtPriceAfter", pool.SqrtPrice.String())
	}
	return amount0, amount1, nil
}

func (k *Keeper) initSwapState(pool *types.Pool, req SwapRequest) (*swapState, bool, error) {
	exactIn := req.AmountSpecified.IsPositive()

	if req.ZeroForOne {
		if req.SqrtPriceLimit.GreaterThanOrEqual(pool.SqrtPrice) || req.SqrtPriceLimit.LessThan(tickmath.MinSqrtPrice) {
			return nil, false, types.SqrtPriceOutOfRangeError{SqrtPrice: req.SqrtPriceLimit}
		}
	} else {
		if req.SqrtPriceLimit.LessThanOrEqual(pool.SqrtPrice) || req.SqrtPriceLimit.GreaterThan(tickmath.MaxSqrtPrice) {
			return nil, false, types.SqrtPriceOutOfRangeError{SqrtPrice: req.SqrtPriceLimit}
		}
	}

	tick, err := pool.CurrentTick()
	if err != nil {
		return nil, false, err
	}

	feeGrowthIn := pool.FeeGrowthGlobal1
	if req.ZeroForOne {
		feeGrowthIn = pool.FeeGrowthGlobal0
	}

	return &swapState{
		remaining:          req.AmountSpecified.Abs(),
		calculated:         fixedpoint.Zero,
		sqrtPrice:          pool.SqrtPrice,
		tick:               tick,
		liquidity:          pool.Liquidity,
		feeGrowthGlobalIn:  feeGrowthIn,
		protocolFeeAccrued: fixedpoint.Zero,
	}, exactIn, nil
}

func (k *Keeper) swapStep(ctx context.Context, pool *types.Pool, zeroForOne, exactIn bool, feeFraction, sqrtPriceLimit fixedpoint.Dec, st *swapState) error {
	nextTick, initialised := pool.Bitmap.NextInitializedTickWithinOneWord(st.tick, pool.TickSpacing, zeroForOne)
	atBound := nextTick <= tickmath.MinTick || nextTick >= tickmath.MaxTick
	if nextTick < tickmath.MinTick {
		nextTick = tickmath.MinTick
	}
	if nextTick > tickmath.MaxTick {
		nextTick = tickmath.MaxTick
	}
	if atBound && !initialised && st.liquidity.IsZero() {
		return types.InsufficientPoolLiquidityError{Tick: st.tick}
	}

	sqrtPriceNext, err := tickmath.TickToSqrtPrice(nextTick)
	if err != nil {
		return err
	}

	target := sqrtPriceNext
	// clamp(sqrtPriceNext, sqrtPriceLimit): walk no further than the
	// caller's limit even if the next initialised tick is beyond it.
	if zeroForOne {
		if target.LessThan(sqrtPriceLimit) {
			target = sqrtPriceLimit
		}
	} else {
		if target.GreaterThan(sqrtPriceLimit) {
			target = sqrtPriceLimit
		}
	}

	result := tickmath.ComputeSwapStep(st.sqrtPrice, target, st.liquidity, st.remaining, feeFraction, zeroForOne, exactIn)

	if exactIn {
		st.remaining = st.remaining.Sub(result.AmountIn.Add(result.FeeAmount))
		st.calculated = st.calculated.Add(result.AmountOut)
	} else {
		st.remaining = st.remaining.Sub(result.AmountOut)
		st.calculated = st.calculated.Add(result.AmountIn.Add(result.FeeAmount))
	}

	feeAmount := result.FeeAmount
	if pool.ProtocolFeeFraction.IsPositive() {
		delta := feeAmount.Mul(pool.ProtocolFeeFraction)
		feeAmount = feeAmount.Sub(delta)
		st.protocolFeeAccrued = st.protocolFeeAccrued.Add(delta)
	}
	if st.liquidity.IsPositive() {
		st.feeGrowthGlobalIn = st.feeGrowthGlobalIn.Add(feeAmount.DivRound(st.liquidity, fixedpoint.Q18, fixedpoint.RoundBankers))
	}

	sqrtPriceStart := st.sqrtPrice
	if result.SqrtPriceNext.Equal(sqrtPriceNext) {
		if initialised {
			tickInfo, err := k.getTick(ctx, pool.Hash(), nextTick)
			if err != nil {
				return err
			}
			var g0, g1 fixedpoint.Dec
			if zeroForOne {
				g0, g1 = st.feeGrowthGlobalIn, pool.FeeGrowthGlobal1
			} else {
				g0, g1 = pool.FeeGrowthGlobal0, st.feeGrowthGlobalIn
			}
			liquidityNet := tickInfo.Cross(g0, g1)
			if zeroForOne {
				liquidityNet = liquidityNet.Neg()
			}
			st.liquidity = st.liquidity.Add(liquidityNet)
			if err := k.putTick(ctx, tickInfo); err != nil {
				return err
			}
		}
		if zeroForOne {
			st.tick = nextTick - 1
		} else {
			st.tick = nextTick
		}
	} else if !result.SqrtPriceNext.Equal(sqrtPriceStart) {
		newTick, err := tickmath.SqrtPriceToTick(result.SqrtPriceNext)
		if err != nil {
			return err
		}
		st.tick = newTick
	}
	st.sqrtPrice = result.SqrtPriceNext
	return nil
}

func signedSwapAmounts(zeroForOne, exactIn bool, consumed, calculated fixedpoint.Dec) (amount0, amount1 fixedpoint.Dec) {
	if zeroForOne {
		if exactIn {
			return consumed, calculated.Neg()
		}
		return calculated, consumed.Neg()
	}
	if exactIn {
		return calculated.Neg(), consumed
	}
	return consumed.Neg(), calculated
}

func (k *Keeper) checkSlippage(req SwapRequest, amount0, amount1 fixedpoint.Dec) error {
	if req.ZeroForOne {
		received := amount1.Neg()
		if req.Amount1Min.IsPositive() && received.LessThan(req.Amount1Min) {
			return types.SlippageToleranceExceededError{Received: received, Required: req.Amount1Min}
		}
		return nil
	}
	received := amount0.Neg()
	if req.Amount0Min.IsPositive() && received.LessThan(req.Amount0Min) {
		return types.SlippageToleranceExceededError{Received: received, Required: req.Amount0Min}
	}
	return nil
}

func (k *Keeper) settleSwap(ctx context.Context, pool *types.Pool, trader string, amount0, amount1 fixedpoint.Dec) error {
	alias := pool.Alias()
	if amount0.IsPositive() {
		if err := k.Tokens.Transfer(ctx, tokenTransfer(pool.Token0ClassKey, trader, alias, amount0)); err != nil {
			return err
		}
	} else if amount0.IsNegative() {
		if err := k.Tokens.Transfer(ctx, tokenTransfer(pool.Token0ClassKey, alias, trader, amount0.Abs())); err != nil {
			return err
		}
	}
	if amount1.IsPositive() {
		if err := k.Tokens.Transfer(ctx, tokenTransfer(pool.Token1ClassKey, trader, alias, amount1)); err != nil {
			return err
		}
	} else if amount1.IsNegative() {
		if err := k.Tokens.Transfer(ctx, tokenTransfer(pool.Token1ClassKey, alias, trader, amount1.Abs())); err != nil {
			return err
		}
	}
	return nil
}

// QuoteExactAmountRequest mirrors SwapRequest for a read-only quote.
type QuoteExactAmountRequest struct {
	Token0ClassKey, Token1ClassKey string
	FeeTier                        uint32
	ZeroForOne                     bool
	AmountSpecified                fixedpoint.Dec
	SqrtPriceLimit                 fixedpoint.Dec
}

// QuoteExactAmount runs the swap stepper against an in-memory clone of
// the pool's composite-key state (the pool record plus every persisted
// tick), never touching the real ledger, and reports the amounts and
// resulting price a real Swap with the same parameters would produce.
// This supplements spec.md section 6's request surface, which names the
// operation without specifying its mechanism — the "optional composite
// snapshot" the section alludes to.
func (k *Keeper) QuoteExactAmount(ctx context.Context, req QuoteExactAmountRequest) (amount0, amount1, newSqrtPrice fixedpoint.Dec, err error) {
	poolHash := types.PoolHash(req.Token0ClassKey, req.Token1ClassKey, req.FeeTier)
	snapshot := ledger.NewMemStore()

	if err := copyKey(ctx, k.Store, snapshot, types.PoolKey(req.Token0ClassKey, req.Token1ClassKey, req.FeeTier)); err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, fixedpoint.Zero, err
	}
	if err := copyPrefix(ctx, k.Store, snapshot, types.TickRangePrefix(poolHash)); err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, fixedpoint.Zero, err
	}

	quoteKeeper := &Keeper{
		Store:     snapshot,
		Tokens:    discardSubledger{},
		Scheduler: k.Scheduler,
		Events:    NoopEventSink{},
		Logger:    k.Logger,
	}

	amount0, amount1, err = quoteKeeper.Swap(ctx, SwapRequest{
		Token0ClassKey: req.Token0ClassKey, Token1ClassKey: req.Token1ClassKey, FeeTier: req.FeeTier,
		Trader: "quote", ZeroForOne: req.ZeroForOne, AmountSpecified: req.AmountSpecified, SqrtPriceLimit: req.SqrtPriceLimit,
	})
	if err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, fixedpoint.Zero, err
	}
	quotedPool, err := quoteKeeper.GetPool(ctx, req.Token0ClassKey, req.Token1ClassKey, req.FeeTier)
	if err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, fixedpoint.Zero, err
	}
	return amount0, amount1, quotedPool.SqrtPrice, nil
}

// discardSubledger backs QuoteExactAmount's dry-run keeper: it never
// moves real balances, so a quote can never have a side effect on the
// token subledger regardless of what the swap stepper computes.
type discardSubledger struct{}

func (discardSubledger) BalanceOf(context.Context, string, string) (fixedpoint.Dec, error) {
	return fixedpoint.Zero, nil
}
func (discardSubledger) Transfer(context.Context, tokenledger.TransferRequest) error { return nil }
func (discardSubledger) FetchAllowances(context.Context, tokenledger.AllowanceQuery) (tokenledger.AllowancePage, error) {
	return tokenledger.AllowancePage{}, nil
}
func (discardSubledger) GrantAllowance(context.Context, tokenledger.GrantAllowanceRequest) error {
	return nil
}
func (discardSubledger) DeleteAllowances(context.Context, tokenledger.DeleteAllowancesRequest) error {
	return nil
}
func (discardSubledger) Mint(context.Context, string, string, fixedpoint.Dec) error { return nil }

func copyKey(ctx context.Context, from, to ledger.Store, key string) error {
	v, ok, err := from.Get(ctx, key)
	if err != nil || !ok {
		return err
	}
	return to.Put(ctx, key, append([]byte{}, v...))
}

func copyPrefix(ctx context.Context, from, to ledger.Store, prefix string) error {
	it, err := from.RangeByPartialKey(ctx, prefix)
	if err != nil {
		return err
	}
	for key, value := range it {
		if err := to.Put(ctx, key, append([]byte{}, value...)); err != nil {
			return err
		}
	}
	return nil
}
