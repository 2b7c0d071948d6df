package types

import "github.com/GalaChain/dex-sub000/dexmath/fixedpoint"

// TickInfo is the per-tick accumulator, keyed by (poolHash, tick) and
// created lazily on first mint touching the tick.
type TickInfo struct {
	PoolHash string
	Tick     int32

	// LiquidityGross sums |net-liquidity-change| attributable at this
	// tick across every position boundary that touches it.
	LiquidityGross fixedpoint.Dec

	// LiquidityNet is signed: added when crossing left-to-right,
	// subtracted right-to-left.
	LiquidityNet fixedpoint.Dec

	FeeGrowthOutside0 fixedpoint.Dec
	FeeGrowthOutside1 fixedpoint.Dec

	Initialised bool

	// Version is the optimistic-concurrency stamp ledger.PutJSONVersioned
	// checks at write time; see Pool.Version for the composite-key this
	// protects against concurrent writers.
	Version uint64
}

// GetVersion and SetVersion satisfy ledger.Versioned.
func (t *TickInfo) GetVersion() uint64  { return t.Version }
func (t *TickInfo) SetVersion(v uint64) { t.Version = v }

// NewTickInfo returns a zero-value tick accumulator for (poolHash, tick).
func NewTickInfo(poolHash string, tick int32) *TickInfo {
	return &TickInfo{
		PoolHash:          poolHash,
		Tick:              tick,
		LiquidityGross:    fixedpoint.Zero,
		LiquidityNet:      fixedpoint.Zero,
		FeeGrowthOutside0: fixedpoint.Zero,
		FeeGrowthOutside1: fixedpoint.Zero,
	}
}

// Update applies a mint/burn liquidity delta at this tick. upper reports
// whether this tick is the position's upper bound (liquidityNet moves
// the opposite direction of the lower bound); tickCurrent, global0/1 are
// used to seed feeGrowthOutside on the tick's first initialisation, per
// the convention that the "below" side already holds the accumulated
// growth. Returns (flipped, error): flipped reports whether this tick's
// initialised state changed (0<->positive liquidityGross), the signal
// the caller uses to flip the bitmap bit.
func (t *TickInfo) Update(tickCurrent int32, liquidityDelta fixedpoint.Dec, upper bool, maxLiquidityPerTick, feeGrowthGlobal0, feeGrowthGlobal1 fixedpoint.Dec) (bool, error) {
	grossBefore := t.LiquidityGross
	grossAfter := grossBefore.Add(liquidityDelta)
	if grossAfter.GreaterThan(maxLiquidityPerTick) {
		return false, LiquidityExceedsMaxError{Tick: t.Tick, Requested: grossAfter, Max: maxLiquidityPerTick}
	}

	flipped := grossBefore.IsZero() != grossAfter.IsZero()

	if upper {
		t.LiquidityNet = t.LiquidityNet.Sub(liquidityDelta)
	} else {
		t.LiquidityNet = t.LiquidityNet.Add(liquidityDelta)
	}
	t.LiquidityGross = grossAfter

	if flipped {
		if grossAfter.IsPositive() {
			if t.Tick <= tickCurrent {
				t.FeeGrowthOutside0 = feeGrowthGlobal0
				t.FeeGrowthOutside1 = feeGrowthGlobal1
			} else {
				t.FeeGrowthOutside0 = fixedpoint.Zero
				t.FeeGrowthOutside1 = fixedpoint.Zero
			}
			t.Initialised = true
		} else {
			t.FeeGrowthOutside0 = fixedpoint.Zero
			t.FeeGrowthOutside1 = fixedpoint.Zero
			t.Initialised = false
		}
	}
	return flipped, nil
}

// Cross flips feeGrowthOutside to the other side of the tick as the
// swap stepper walks across it, and returns liquidityNet for the
// stepper to apply (negated by the caller when zeroForOne).
func (t *TickInfo) Cross(feeGrowthGlobal0, feeGrowthGlobal1 fixedpoint.Dec) fixedpoint.Dec {
	t.FeeGrowthOutside0 = feeGrowthGlobal0.Sub(t.FeeGrowthOutside0)
	t.FeeGrowthOutside1 = feeGrowthGlobal1.Sub(t.FeeGrowthOutside1)
	return t.LiquidityNet
}

// FeeGrowthInside derives the fee growth accrued inside [lower, upper]
// from the pool's global accumulators and the two boundary ticks'
// outside snapshots.
func FeeGrowthInside(currentTick int32, lower, upper *TickInfo, feeGrowthGlobal0, feeGrowthGlobal1 fixedpoint.Dec) (fixedpoint.Dec, fixedpoint.Dec) {
	var below0, below1 fixedpoint.Dec
	if currentTick >= lower.Tick {
		below0 = feeGrowthGlobal0.Sub(lower.FeeGrowthOutside0)
		below1 = feeGrowthGlobal1.Sub(lower.FeeGrowthOutside1)
	} else {
		below0, below1 = lower.FeeGrowthOutside0, lower.FeeGrowthOutside1
	}

	var above0, above1 fixedpoint.Dec
	if currentTick < upper.Tick {
		above0 = feeGrowthGlobal0.Sub(upper.FeeGrowthOutside0)
		above1 = feeGrowthGlobal1.Sub(upper.FeeGrowthOutside1)
	} else {
		above0, above1 = upper.FeeGrowthOutside0, upper.FeeGrowthOutside1
	}

	inside0 := feeGrowthGlobal0.Sub(below0).Sub(above0)
	inside1 := feeGrowthGlobal1.Sub(below1).Sub(above1)
	return inside0, inside1
}
