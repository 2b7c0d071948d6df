package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Composite-key prefixes. A pure function builds every key from
// (prefix, attribute...) so writes and range scans never drift apart —
// the design note in spec.md section 9 that forbids relying on
// reflection to assemble keys.
const (
	keySeparator = "|"

	poolPrefix            = "POOL"
	tickPrefix            = "TICK"
	positionPrefix        = "POSITION"
	positionOwnerPrefix   = "POSITION_OWNER"
	commitmentPrefix      = "COMMITMENT"
	fulfilledOrderPrefix  = "FULFILLED_ORDER"
	limitOrderConfigKey   = "LIMIT_ORDER_CONFIG"
	dexFeeConfigKey       = "DEX_FEE_CONFIG"
)

// buildKey joins a prefix and its attributes into one composite key
// string. Every attribute is stringified explicitly by the caller before
// reaching this function — no reflection, no implicit formatting.
func buildKey(prefix string, attrs ...string) string {
	parts := make([]string, 0, len(attrs)+1)
	parts = append(parts, prefix)
	parts = append(parts, attrs...)
	return strings.Join(parts, keySeparator)
}

// PoolKey returns the composite key for a pool identified by its token
// pair and fee tier.
func PoolKey(token0, token1 string, feeTier uint32) string {
	return buildKey(poolPrefix, token0, token1, strconv.FormatUint(uint64(feeTier), 10))
}

// TickKey returns the composite key for a tick's per-pool accumulator.
func TickKey(poolHash string, tick int32) string {
	return buildKey(tickPrefix, poolHash, strconv.FormatInt(int64(tick), 10))
}

// TickRangePrefix returns the prefix that selects every tick belonging
// to a pool, for range scans (e.g. enumerating all initialised ticks).
func TickRangePrefix(poolHash string) string {
	return buildKey(tickPrefix, poolHash) + keySeparator
}

// PositionKey returns the composite key for a single position.
func PositionKey(poolHash string, tickLower, tickUpper int32, positionID string) string {
	return buildKey(positionPrefix, poolHash, strconv.FormatInt(int64(tickLower), 10), strconv.FormatInt(int64(tickUpper), 10), positionID)
}

// PositionOwnerKey indexes a position by owner so an owner's positions in
// a pool can be range-scanned without knowing tick ranges up front.
func PositionOwnerKey(owner, poolHash, positionID string) string {
	return buildKey(positionOwnerPrefix, owner, poolHash, positionID)
}

// PositionOwnerPrefix returns the prefix selecting every position owned
// by owner within poolHash.
func PositionOwnerPrefix(owner, poolHash string) string {
	return buildKey(positionOwnerPrefix, owner, poolHash) + keySeparator
}

// CommitmentKey returns the composite key for a limit-order commitment.
func CommitmentKey(hash string) string {
	return buildKey(commitmentPrefix, hash)
}

// FulfilledOrderKey returns the composite key for a filled order's
// audit record, keyed by the commitment hash plus its nonce.
func FulfilledOrderKey(commitmentHash, nonce string) string {
	return buildKey(fulfilledOrderPrefix, commitmentHash, nonce)
}

// LimitOrderConfigKey and DexFeeConfigKey are singleton keys.
func LimitOrderConfigKey() string { return limitOrderConfigKey }
func DexFeeConfigKey() string     { return dexFeeConfigKey }

// PoolHash derives the deterministic pool identifier from its key
// components. It does not need cryptographic strength (it is a lookup
// index, not a commitment); a stable textual join is sufficient and
// keeps the pool's alias human-inspectable.
func PoolHash(token0, token1 string, feeTier uint32) string {
	return fmt.Sprintf("%s_%s_%d", token0, token1, feeTier)
}

// PoolAlias is the token-holder address this pool transacts balances
// under, derived from its hash.
func PoolAlias(poolHash string) string {
	return "pool_" + poolHash
}
