package types

import (
	"github.com/GalaChain/dex-sub000/dexmath/fixedpoint"
	"github.com/GalaChain/dex-sub000/dexmath/tickbitmap"
	"github.com/GalaChain/dex-sub000/dexmath/tickmath"
)

// Pool is the aggregate state of one concentrated-liquidity market,
// uniquely keyed by (token0ClassKey, token1ClassKey, feeTier) with
// token0ClassKey sorting before token1ClassKey by canonical
// stringification. The pool exclusively owns its bitmap and aggregate
// counters; it never mutates another pool's records.
type Pool struct {
	Token0ClassKey string
	Token1ClassKey string
	FeeTier        uint32
	TickSpacing    int32

	SqrtPrice fixedpoint.Dec

	// Liquidity is the active liquidity: the sum of position liquidity
	// over positions whose range currently brackets CurrentTick.
	Liquidity fixedpoint.Dec

	// GrossPoolLiquidity sums position liquidity over every position in
	// the pool, regardless of range.
	GrossPoolLiquidity fixedpoint.Dec

	Bitmap tickbitmap.Bitmap

	FeeGrowthGlobal0 fixedpoint.Dec
	FeeGrowthGlobal1 fixedpoint.Dec

	ProtocolFees0 fixedpoint.Dec
	ProtocolFees1 fixedpoint.Dec

	// ProtocolFeeFraction is the portion of the LP fee routed to the
	// protocol, fixed at creation from the global DexFeeConfig.
	ProtocolFeeFraction fixedpoint.Dec

	MaxLiquidityPerTick fixedpoint.Dec

	Creator string

	IsPrivate bool
	Whitelist []string

	// Paused honors the EmergencyPause/Resume events named in the
	// request surface but left unbacked by state in the distilled spec;
	// AddLiquidity/Swap/FillLimitOrder all refuse to proceed while set.
	Paused bool

	// Version supports optimistic concurrency: ledger.PutJSONVersioned
	// rejects a write whose Version does not match what is currently
	// stored for this composite key, the signal a host that submits
	// concurrent requests touching the same pool uses to detect and
	// retry a write conflict at commit time.
	Version uint64
}

// GetVersion and SetVersion satisfy ledger.Versioned.
func (p *Pool) GetVersion() uint64  { return p.Version }
func (p *Pool) SetVersion(v uint64) { p.Version = v }

// Hash derives the pool's canonical identifier.
func (p *Pool) Hash() string {
	return PoolHash(p.Token0ClassKey, p.Token1ClassKey, p.FeeTier)
}

// Alias is the token-holder address this pool transacts balances under.
func (p *Pool) Alias() string {
	return PoolAlias(p.Hash())
}

// CurrentTick returns floor(log_1.0001(sqrtPrice^2)), the tick implied
// by the pool's stored sqrt price (invariant I1).
func (p *Pool) CurrentTick() (int32, error) {
	return tickmath.SqrtPriceToTick(p.SqrtPrice)
}

// IsWhitelisted reports whether owner may interact with a private pool.
// Public pools (IsPrivate=false) permit any caller.
func (p *Pool) IsWhitelisted(owner string) bool {
	if !p.IsPrivate {
		return true
	}
	if owner == p.Creator {
		return true
	}
	for _, w := range p.Whitelist {
		if w == owner {
			return true
		}
	}
	return false
}
