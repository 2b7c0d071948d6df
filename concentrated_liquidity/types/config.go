package types

import "github.com/GalaChain/dex-sub000/dexmath/fixedpoint"

// DexFeeConfig is the singleton record governing protocol-fee routing
// across every pool. New pools snapshot ProtocolFeeFraction at creation
// time so a later config change never retroactively alters an existing
// pool's split.
type DexFeeConfig struct {
	ProtocolFeeFraction fixedpoint.Dec
	FeeCollector        string

	// AdminWallets gates who may call SetDexFeeConfig once a config has
	// been bootstrapped: the first setter (no config stored yet) is
	// always accepted, establishing this initial set; every later call
	// must come from a wallet already on it.
	AdminWallets []string
}

// DefaultDexFeeConfig returns the configuration a fresh ledger is
// bootstrapped with: no protocol skim until an admin opts in.
func DefaultDexFeeConfig() *DexFeeConfig {
	return &DexFeeConfig{
		ProtocolFeeFraction: fixedpoint.Zero,
		FeeCollector:        "",
	}
}

// IsAdmin reports whether wallet is a configured dex-fee-config admin.
func (c *DexFeeConfig) IsAdmin(wallet string) bool {
	for _, w := range c.AdminWallets {
		if w == wallet {
			return true
		}
	}
	return false
}

// LimitOrderConfig is the singleton record governing commit/reveal limit
// orders: the set of admin identities permitted to cancel or fill on
// behalf of any owner, plus supplemented bookkeeping (expiry horizon,
// fill fan-out cap) the distilled spec names only informally.
type LimitOrderConfig struct {
	AdminWallets []string

	// ExpiryBlocks and MaxPoolsPerFill are operational settings stored
	// with the config and returned by SetGlobalLimitOrderConfig. Place
	// does not derive or bound a commitment's Expires from ExpiryBlocks,
	// and Fill does not read MaxPoolsPerFill: it probes every fee tier.
	ExpiryBlocks    uint64
	MaxPoolsPerFill uint32
}

// DefaultLimitOrderConfig returns conservative defaults: no admins until
// one is granted, a week's worth of blocks at roughly one per six
// seconds, and MaxPoolsPerFill set to four.
func DefaultLimitOrderConfig() *LimitOrderConfig {
	return &LimitOrderConfig{
		AdminWallets:    nil,
		ExpiryBlocks:    100_800,
		MaxPoolsPerFill: 4,
	}
}

// IsAdmin reports whether wallet is a configured limit-order admin.
func (c *LimitOrderConfig) IsAdmin(wallet string) bool {
	for _, w := range c.AdminWallets {
		if w == wallet {
			return true
		}
	}
	return false
}
