// Package limitorder implements the commit/reveal limit-order engine:
// place, cancel, and fill over one or more concentrated-liquidity pools.
package limitorder

import (
	"context"
	"sort"

	"cosmossdk.io/log"
	"github.com/google/uuid"

	cl "github.com/GalaChain/dex-sub000/concentrated_liquidity"
	cltypes "github.com/GalaChain/dex-sub000/concentrated_liquidity/types"
	"github.com/GalaChain/dex-sub000/clock"
	"github.com/GalaChain/dex-sub000/dexmath/fixedpoint"
	"github.com/GalaChain/dex-sub000/ledger"
	"github.com/GalaChain/dex-sub000/limitorder/types"
	"github.com/GalaChain/dex-sub000/tokenledger"
)

// Keeper is the receiver for Place/Cancel/Fill. It shares its backing
// Store with the concentrated_liquidity Keeper so a per-pool staged
// fill attempt can sandbox both pool state and token balances in one
// ledger.StagedView.
type Keeper struct {
	Store  ledger.Store
	Logger log.Logger
	Clock  clock.Clock
}

// NewKeeper wires a Keeper over the shared composite-key store,
// defaulting clk to clock.System{} when nil.
func NewKeeper(store ledger.Store, logger log.Logger, clk clock.Clock) *Keeper {
	if clk == nil {
		clk = clock.System{}
	}
	return &Keeper{Store: store, Logger: logger, Clock: clk}
}

// getConfig loads the global limit-order config, defaulting when the
// ledger has never been bootstrapped with one.
func (k *Keeper) getConfig(ctx context.Context) (*cltypes.LimitOrderConfig, error) {
	cfg, _, err := k.getConfigStored(ctx)
	return cfg, err
}

// getConfigStored reports (config, found, error): found distinguishes a
// genuinely stored config from the conservative default, which
// SetGlobalLimitOrderConfig uses to decide whether a caller is
// bootstrapping the admin set for the first time.
func (k *Keeper) getConfigStored(ctx context.Context) (*cltypes.LimitOrderConfig, bool, error) {
	var cfg cltypes.LimitOrderConfig
	ok, err := ledger.GetJSON(ctx, k.Store, cltypes.LimitOrderConfigKey(), &cfg)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return cltypes.DefaultLimitOrderConfig(), false, nil
	}
	return &cfg, true, nil
}

// SetGlobalLimitOrderConfigRequest replaces the global limit-order
// config (admin wallets, expiry horizon, fill fan-out cap).
type SetGlobalLimitOrderConfigRequest struct {
	Caller          string
	AdminWallets    []string
	ExpiryBlocks    uint64
	MaxPoolsPerFill uint32
}

// SetGlobalLimitOrderConfig installs a new LimitOrderConfig. The first
// caller to set it (no config stored yet) bootstraps the admin set
// unconditionally; every later call must come from a wallet already in
// the stored config's AdminWallets. This is the operation spec.md
// names but never wires a writer for: without it, AdminWallets can
// never be populated and the admin-authorization path in authorized()
// stays permanently unreachable.
func (k *Keeper) SetGlobalLimitOrderConfig(ctx context.Context, req SetGlobalLimitOrderConfigRequest) (*cltypes.LimitOrderConfig, error) {
	existing, found, err := k.getConfigStored(ctx)
	if err != nil {
		return nil, err
	}
	if found && !existing.IsAdmin(req.Caller) {
		return nil, cltypes.UnauthorizedError{Caller: req.Caller, Reason: "not a limit-order admin"}
	}
	cfg := &cltypes.LimitOrderConfig{
		AdminWallets:    req.AdminWallets,
		ExpiryBlocks:    req.ExpiryBlocks,
		MaxPoolsPerFill: req.MaxPoolsPerFill,
	}
	if err := ledger.PutJSON(ctx, k.Store, cltypes.LimitOrderConfigKey(), cfg); err != nil {
		return nil, err
	}
	if k.Logger != nil {
		k.Logger.Info("limit order config updated", "caller", req.Caller, "admins", len(cfg.AdminWallets))
	}
	return cfg, nil
}

// checkNotExpired rejects a commitment whose Expires has already
// passed per k.Clock. Expires<=0 is the sentinel for "never expires",
// preserved for commitments placed before this horizon existed.
func (k *Keeper) checkNotExpired(ctx context.Context, commitment *types.Commitment) error {
	if commitment.Expires <= 0 {
		return nil
	}
	now := k.Clock.Now(ctx)
	if now >= commitment.Expires {
		return cltypes.CommitmentExpiredError{Hash: commitment.Hash, Expires: commitment.Expires, Now: now}
	}
	return nil
}

// PlaceRequest stores a new commitment.
type PlaceRequest struct {
	Hash    string
	Expires int64
}

// Place stores Commitment{hash, expires}, rejecting a duplicate hash,
// and returns a fresh session ID the caller can use to refer to the
// pending order without exposing its terms or its hash.
func (k *Keeper) Place(ctx context.Context, req PlaceRequest) (string, error) {
	if _, ok, err := k.Store.Get(ctx, cltypes.CommitmentKey(req.Hash)); err != nil {
		return "", err
	} else if ok {
		return "", cltypes.DuplicateCommitmentError{Hash: req.Hash}
	}
	id := uuid.NewString()
	commitment := types.Commitment{ID: id, Hash: req.Hash, Expires: req.Expires}
	if err := ledger.PutJSON(ctx, k.Store, cltypes.CommitmentKey(req.Hash), commitment); err != nil {
		return "", err
	}
	if k.Logger != nil {
		k.Logger.Info("limit order placed", "id", id, "hash", req.Hash, "expires", req.Expires)
	}
	return id, nil
}

func (k *Keeper) loadCommitment(ctx context.Context, preimage types.Preimage) (*types.Commitment, error) {
	hash := hashPreimage(preimage)
	var c types.Commitment
	ok, err := ledger.GetJSON(ctx, k.Store, cltypes.CommitmentKey(hash), &c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, cltypes.CommitmentNotFoundError{Hash: hash}
	}
	return &c, nil
}

func (k *Keeper) authorized(ctx context.Context, caller string, owner string) (bool, error) {
	if caller == owner {
		return true, nil
	}
	cfg, err := k.getConfig(ctx)
	if err != nil {
		return false, err
	}
	return cfg.IsAdmin(caller), nil
}

// CancelRequest reveals a preimage to cancel the commitment it hashes
// to.
type CancelRequest struct {
	Caller   string
	Preimage types.Preimage
}

// Cancel verifies H(preimage) matches a stored commitment and, if the
// caller is the owner or a configured admin, deletes it.
func (k *Keeper) Cancel(ctx context.Context, req CancelRequest) error {
	commitment, err := k.loadCommitment(ctx, req.Preimage)
	if err != nil {
		return err
	}
	if err := k.checkNotExpired(ctx, commitment); err != nil {
		return err
	}
	ok, err := k.authorized(ctx, req.Caller, req.Preimage.Owner)
	if err != nil {
		return err
	}
	if !ok {
		return cltypes.UnauthorizedError{Caller: req.Caller, Reason: "neither owner nor limit-order admin"}
	}
	if err := k.Store.Delete(ctx, cltypes.CommitmentKey(commitment.Hash)); err != nil {
		return err
	}
	if k.Logger != nil {
		k.Logger.Info("limit order cancelled", "hash", commitment.Hash, "caller", req.Caller)
	}
	return nil
}

func sortedFeeTiers() []uint32 {
	tiers := make([]uint32, 0, len(cltypes.TickSpacingForFeeTier))
	for tier := range cltypes.TickSpacingForFeeTier {
		tiers = append(tiers, tier)
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i] < tiers[j] })
	return tiers
}

// FillRequest reveals a preimage to execute the order it commits to.
type FillRequest struct {
	Caller   string
	Preimage types.Preimage
}

type poolAttempt struct {
	staged *ledger.StagedView
	pool   string
	sold   fixedpoint.Dec
	bought fixedpoint.Dec
}

// Fill walks every pool for the selling/buying token pair in ascending
// fee-tier order, running each candidate swap inside its own
// ledger.StagedView so a pool that cannot honor the revealed price
// limit leaves no trace. Promotion of every attempted pool is deferred
// until the accumulated purchase meets buyingMinimum, so a fill that
// falls short commits nothing.
func (k *Keeper) Fill(ctx context.Context, req FillRequest) (quantityBought fixedpoint.Dec, err error) {
	commitment, err := k.loadCommitment(ctx, req.Preimage)
	if err != nil {
		return fixedpoint.Zero, err
	}
	if err := k.checkNotExpired(ctx, commitment); err != nil {
		return fixedpoint.Zero, err
	}
	ok, err := k.authorized(ctx, req.Caller, req.Preimage.Owner)
	if err != nil {
		return fixedpoint.Zero, err
	}
	if !ok {
		return fixedpoint.Zero, cltypes.UnauthorizedError{Caller: req.Caller, Reason: "neither owner nor limit-order admin"}
	}

	token0, token1 := req.Preimage.SellingToken, req.Preimage.BuyingToken
	zeroForOne := true
	if token0 > token1 {
		token0, token1 = token1, token0
		zeroForOne = false
	}

	sqrtLimit := req.Preimage.BuyingToSellingRatio.Sqrt()
	if !zeroForOne {
		sqrtLimit = fixedpoint.NewFromInt64(1).DivRound(sqrtLimit, fixedpoint.Q18, fixedpoint.RoundBankers)
	}

	remaining := req.Preimage.SellingAmount
	quantityBought = fixedpoint.Zero
	var attempts []poolAttempt

	for _, tier := range sortedFeeTiers() {
		if remaining.TruncateAt8().IsZero() {
			break
		}

		poolHash := cltypes.PoolHash(token0, token1, tier)
		staged := ledger.NewStagedView(k.Store)
		clKeeper := &cl.Keeper{
			Store:     staged,
			Tokens:    tokenledger.NewMemSubledger(staged),
			Scheduler: cl.NewDefaultScheduler(10),
			Events:    cl.NoopEventSink{},
			Logger:    k.Logger,
		}

		if _, poolErr := clKeeper.GetPool(ctx, token0, token1, tier); poolErr != nil {
			if k.Logger != nil {
				k.Logger.Debug("fill skipping pool: no such pool", "pool", poolHash)
			}
			continue
		}

		amount0, amount1, swapErr := clKeeper.Swap(ctx, cl.SwapRequest{
			Token0ClassKey:  token0,
			Token1ClassKey:  token1,
			FeeTier:         tier,
			Trader:          req.Preimage.Owner,
			ZeroForOne:      zeroForOne,
			AmountSpecified: remaining,
			SqrtPriceLimit:  sqrtLimit,
		})
		if swapErr != nil {
			// This pool cannot make progress within the revealed price
			// limit; leave it untouched and try the next fee tier.
			if k.Logger != nil {
				k.Logger.Debug("fill skipping pool: swap failed", "pool", poolHash, "error", swapErr)
			}
			continue
		}

		var paid, bought fixedpoint.Dec
		if zeroForOne {
			paid, bought = amount0, amount1.Neg()
		} else {
			paid, bought = amount1, amount0.Neg()
		}
		if !bought.IsPositive() || !paid.IsPositive() {
			continue
		}

		quantityBought = quantityBought.Add(bought)
		remaining = remaining.Sub(paid)
		attempts = append(attempts, poolAttempt{staged: staged, pool: poolHash, sold: paid, bought: bought})
	}

	if quantityBought.LessThan(req.Preimage.BuyingMinimum) {
		return fixedpoint.Zero, cltypes.LimitOrderMinimumNotMetError{Bought: quantityBought, Minimum: req.Preimage.BuyingMinimum}
	}

	poolsTouched := make([]string, 0, len(attempts))
	for _, a := range attempts {
		if err := a.staged.Promote(ctx); err != nil {
			return fixedpoint.Zero, err
		}
		poolsTouched = append(poolsTouched, a.pool)
	}

	if err := k.Store.Delete(ctx, cltypes.CommitmentKey(commitment.Hash)); err != nil {
		return fixedpoint.Zero, err
	}
	fulfilled := types.FulfilledOrder{
		CommitmentHash: commitment.Hash,
		Nonce:          req.Preimage.CommitmentNonce,
		Owner:          req.Preimage.Owner,
		SellingToken:   req.Preimage.SellingToken,
		BuyingToken:    req.Preimage.BuyingToken,
		QuantitySold:   req.Preimage.SellingAmount.Sub(remaining),
		QuantityBought: quantityBought,
		PoolsTouched:   poolsTouched,
	}
	if err := ledger.PutJSON(ctx, k.Store, cltypes.FulfilledOrderKey(commitment.Hash, req.Preimage.CommitmentNonce), fulfilled); err != nil {
		return fixedpoint.Zero, err
	}
	if k.Logger != nil {
		k.Logger.Info("limit order filled", "hash", commitment.Hash, "bought", quantityBought.String(), "pools", poolsTouched)
	}
	return quantityBought, nil
}
