package types

import (
	"github.com/GalaChain/dex-sub000/dexmath/fixedpoint"
	"github.com/GalaChain/dex-sub000/dexmath/tickmath"
)

// TickSpacingForFeeTier is the closed fee-tier to tick-spacing mapping.
// Fee tiers are basis-of-ten-thousandths (5 = 0.05%, 30 = 0.3%,
// 100 = 1%).
var TickSpacingForFeeTier = map[uint32]int32{
	5:   10,
	30:  60,
	100: 200,
}

// ValidFeeTier reports whether feeTier is one of the closed set this
// engine supports.
func ValidFeeTier(feeTier uint32) bool {
	_, ok := TickSpacingForFeeTier[feeTier]
	return ok
}

// MaxLiquidityPerTick derives the per-tick liquidity ceiling from tick
// spacing: the total addressable tick range divided evenly across every
// tick a position boundary could land on, following the convention also
// used by hoanguyenkh-uniswap-v3-simulator's TickSpacingToMaxLiquidityPerTick.
func MaxLiquidityPerTick(tickSpacing int32) fixedpoint.Dec {
	minUsable := (tickmath.MinTick / tickSpacing) * tickSpacing
	maxUsable := (tickmath.MaxTick / tickSpacing) * tickSpacing
	numTicks := int64(maxUsable-minUsable)/int64(tickSpacing) + 1
	maxUint128, _ := fixedpoint.NewFromString("340282366920938463463374607431768211455")
	return maxUint128.DivRound(fixedpoint.NewFromInt64(numTicks), 0, fixedpoint.RoundDown)
}
