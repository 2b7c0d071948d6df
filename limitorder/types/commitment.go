// Package types holds the limit-order engine's data model: the
// commit/reveal commitment record and its post-fill audit trail.
package types

import "github.com/GalaChain/dex-sub000/dexmath/fixedpoint"

// Preimage is everything a caller reveals on cancel/fill; hashing it
// must reproduce the hash supplied to Place.
type Preimage struct {
	Owner                string
	SellingToken         string
	BuyingToken          string
	SellingAmount        fixedpoint.Dec
	BuyingMinimum        fixedpoint.Dec
	BuyingToSellingRatio fixedpoint.Dec
	Expires              int64
	CommitmentNonce      string
}

// Commitment is the on-ledger record keyed by hash; only the hash and
// expiry are visible until a matching preimage is revealed. ID is an
// opaque session identifier a caller can use to track a pending order
// (in logs, in a UI) without exposing anything about its terms — unlike
// Hash, it carries no commitment to the preimage.
type Commitment struct {
	ID      string
	Hash    string
	Expires int64
}

// FulfilledOrder is the audit record persisted after a successful fill.
type FulfilledOrder struct {
	CommitmentHash string
	Nonce          string
	Owner          string
	SellingToken   string
	BuyingToken    string
	QuantitySold   fixedpoint.Dec
	QuantityBought fixedpoint.Dec
	PoolsTouched   []string
}
