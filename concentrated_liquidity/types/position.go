package types

import "github.com/GalaChain/dex-sub000/dexmath/fixedpoint"

// Position is one LP's liquidity claim over a fixed tick range in one
// pool, keyed by (poolHash, tickLower, tickUpper, positionID). Multiple
// positions may share the same range; each is tracked independently so
// two owners minting the same range do not merge fee accounting.
type Position struct {
	PoolHash   string
	Owner      string
	PositionID string

	TickLower int32
	TickUpper int32

	Liquidity fixedpoint.Dec

	// FeeGrowthInsideLast0/1 snapshot feeGrowthInside at the last time
	// this position's liquidity or owed tokens were touched, so the next
	// touch can derive the fee accrued since by subtraction.
	FeeGrowthInsideLast0 fixedpoint.Dec
	FeeGrowthInsideLast1 fixedpoint.Dec

	// TokensOwed0/1 accumulate fees (and, after a burn, principal)
	// credited to this position but not yet collected.
	TokensOwed0 fixedpoint.Dec
	TokensOwed1 fixedpoint.Dec
}

// NewPosition returns a zero-liquidity position anchored at the given
// range, ready for its first mint.
func NewPosition(poolHash, owner, positionID string, tickLower, tickUpper int32) *Position {
	return &Position{
		PoolHash:             poolHash,
		Owner:                owner,
		PositionID:           positionID,
		TickLower:            tickLower,
		TickUpper:            tickUpper,
		Liquidity:            fixedpoint.Zero,
		FeeGrowthInsideLast0: fixedpoint.Zero,
		FeeGrowthInsideLast1: fixedpoint.Zero,
		TokensOwed0:          fixedpoint.Zero,
		TokensOwed1:          fixedpoint.Zero,
	}
}

// Update applies a liquidity delta and the fee growth accrued inside the
// position's range since the last touch, crediting the accrued fee to
// TokensOwed before moving the snapshot forward. liquidityDelta may be
// negative (a burn); feeGrowthInside0/1 are the pool's current
// feeGrowthInside values for this position's range, already adjusted for
// tick-crossing accounting (I-FEE).
func (p *Position) Update(liquidityDelta, feeGrowthInside0, feeGrowthInside1 fixedpoint.Dec) {
	owed0 := feeGrowthInside0.Sub(p.FeeGrowthInsideLast0).Mul(p.Liquidity)
	owed1 := feeGrowthInside1.Sub(p.FeeGrowthInsideLast1).Mul(p.Liquidity)

	p.TokensOwed0 = p.TokensOwed0.Add(owed0)
	p.TokensOwed1 = p.TokensOwed1.Add(owed1)

	p.Liquidity = p.Liquidity.Add(liquidityDelta)
	p.FeeGrowthInsideLast0 = feeGrowthInside0
	p.FeeGrowthInsideLast1 = feeGrowthInside1
}
