package concentrated_liquidity

import (
	"context"

	"github.com/GalaChain/dex-sub000/concentrated_liquidity/types"
	"github.com/GalaChain/dex-sub000/dexmath/fixedpoint"
	"github.com/GalaChain/dex-sub000/dexmath/tickbitmap"
	"github.com/GalaChain/dex-sub000/dexmath/tickmath"
	"github.com/GalaChain/dex-sub000/ledger"
)

// CreatePoolRequest describes a new market.
type CreatePoolRequest struct {
	Token0ClassKey, Token1ClassKey string
	FeeTier                        uint32
	SqrtPrice                      fixedpoint.Dec
	Creator                        string
	IsPrivate                      bool
	Whitelist                      []string
}

// CreatePool stores a fresh pool with empty bitmap and zero liquidity.
func (k *Keeper) CreatePool(ctx context.Context, req CreatePoolRequest) (*types.Pool, error) {
	if req.Token0ClassKey >= req.Token1ClassKey {
		return nil, types.TokenOrderInvalidError{Token0: req.Token0ClassKey, Token1: req.Token1ClassKey}
	}
	if !types.ValidFeeTier(req.FeeTier) {
		return nil, types.InvalidFeeTierError{FeeTier: req.FeeTier}
	}
	if req.SqrtPrice.LessThan(tickmath.MinSqrtPrice) || req.SqrtPrice.GreaterThan(tickmath.MaxSqrtPrice) {
		return nil, types.SqrtPriceOutOfRangeError{SqrtPrice: req.SqrtPrice}
	}

	key := types.PoolKey(req.Token0ClassKey, req.Token1ClassKey, req.FeeTier)
	if _, ok, err := k.Store.Get(ctx, key); err != nil {
		return nil, err
	} else if ok {
		return nil, types.PoolExistsError{Token0: req.Token0ClassKey, Token1: req.Token1ClassKey, FeeTier: req.FeeTier}
	}

	whitelist := req.Whitelist
	if req.IsPrivate {
		found := false
		for _, w := range whitelist {
			if w == req.Creator {
				found = true
				break
			}
		}
		if !found {
			whitelist = append(append([]string{}, whitelist...), req.Creator)
		}
	}

	feeConfig, _, err := k.getDexFeeConfig(ctx)
	if err != nil {
		return nil, err
	}

	tickSpacing := types.TickSpacingForFeeTier[req.FeeTier]
	pool := &types.Pool{
		Token0ClassKey:      req.Token0ClassKey,
		Token1ClassKey:      req.Token1ClassKey,
		FeeTier:             req.FeeTier,
		TickSpacing:         tickSpacing,
		SqrtPrice:           req.SqrtPrice,
		Liquidity:           fixedpoint.Zero,
		GrossPoolLiquidity:  fixedpoint.Zero,
		Bitmap:              tickbitmap.Bitmap{},
		FeeGrowthGlobal0:    fixedpoint.Zero,
		FeeGrowthGlobal1:    fixedpoint.Zero,
		ProtocolFees0:       fixedpoint.Zero,
		ProtocolFees1:       fixedpoint.Zero,
		ProtocolFeeFraction: feeConfig.ProtocolFeeFraction,
		MaxLiquidityPerTick: types.MaxLiquidityPerTick(tickSpacing),
		Creator:             req.Creator,
		IsPrivate:           req.IsPrivate,
		Whitelist:           whitelist,
	}

	if err := k.putPool(ctx, pool); err != nil {
		return nil, err
	}
	k.emit(ctx, types.PoolCreatedEvent{
		PoolHash: pool.Hash(), Token0: pool.Token0ClassKey, Token1: pool.Token1ClassKey,
		FeeTier: pool.FeeTier, Creator: pool.Creator,
	})
	if k.Logger != nil {
		k.Logger.Info("pool created", "pool", pool.Hash(), "creator", pool.Creator, "protocolFeeFraction", pool.ProtocolFeeFraction.String())
	}
	return pool, nil
}

// getDexFeeConfig loads the global protocol-fee config, reporting
// (config, found, error); a not-yet-bootstrapped ledger returns the
// conservative default with found=false, which SetDexFeeConfig uses to
// decide whether the caller is setting it for the first time.
func (k *Keeper) getDexFeeConfig(ctx context.Context) (*types.DexFeeConfig, bool, error) {
	var cfg types.DexFeeConfig
	ok, err := ledger.GetJSON(ctx, k.Store, types.DexFeeConfigKey(), &cfg)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return types.DefaultDexFeeConfig(), false, nil
	}
	return &cfg, true, nil
}

// SetDexFeeConfigRequest replaces the global protocol-fee config.
// Pools already created keep the ProtocolFeeFraction they snapshotted
// at creation time; only pools created after this call see the change.
type SetDexFeeConfigRequest struct {
	Caller              string
	ProtocolFeeFraction fixedpoint.Dec
	FeeCollector        string
	AdminWallets        []string
}

// SetDexFeeConfig installs a new DexFeeConfig. The first caller to set
// it (no config stored yet) bootstraps the admin set unconditionally;
// every later call must come from a wallet already in the stored
// config's AdminWallets.
func (k *Keeper) SetDexFeeConfig(ctx context.Context, req SetDexFeeConfigRequest) (*types.DexFeeConfig, error) {
	existing, found, err := k.getDexFeeConfig(ctx)
	if err != nil {
		return nil, err
	}
	if found && !existing.IsAdmin(req.Caller) {
		return nil, types.UnauthorizedError{Caller: req.Caller, Reason: "not a dex-fee-config admin"}
	}
	cfg := &types.DexFeeConfig{
		ProtocolFeeFraction: req.ProtocolFeeFraction,
		FeeCollector:        req.FeeCollector,
		AdminWallets:        req.AdminWallets,
	}
	if err := ledger.PutJSON(ctx, k.Store, types.DexFeeConfigKey(), cfg); err != nil {
		return nil, err
	}
	if k.Logger != nil {
		k.Logger.Info("dex fee config updated", "caller", req.Caller, "protocolFeeFraction", cfg.ProtocolFeeFraction.String())
	}
	return cfg, nil
}

func (k *Keeper) putPool(ctx context.Context, pool *types.Pool) error {
	return ledger.PutJSONVersioned(ctx, k.Store, types.PoolKey(pool.Token0ClassKey, pool.Token1ClassKey, pool.FeeTier), pool)
}

// GetPool loads a pool by its token pair and fee tier.
func (k *Keeper) GetPool(ctx context.Context, token0, token1 string, feeTier uint32) (*types.Pool, error) {
	var pool types.Pool
	ok, err := ledger.GetJSON(ctx, k.Store, types.PoolKey(token0, token1, feeTier), &pool)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, types.PoolNotFoundError{Token0: token0, Token1: token1, FeeTier: feeTier}
	}
	return &pool, nil
}

func (k *Keeper) getTick(ctx context.Context, poolHash string, tick int32) (*types.TickInfo, error) {
	var ti types.TickInfo
	ok, err := ledger.GetJSON(ctx, k.Store, types.TickKey(poolHash, tick), &ti)
	if err != nil {
		return nil, err
	}
	if !ok {
		return types.NewTickInfo(poolHash, tick), nil
	}
	return &ti, nil
}

func (k *Keeper) putTick(ctx context.Context, ti *types.TickInfo) error {
	return ledger.PutJSONVersioned(ctx, k.Store, types.TickKey(ti.PoolHash, ti.Tick), ti)
}

func (k *Keeper) deleteTick(ctx context.Context, poolHash string, tick int32) error {
	return k.Store.Delete(ctx, types.TickKey(poolHash, tick))
}

func (k *Keeper) getPosition(ctx context.Context, poolHash string, tickLower, tickUpper int32, positionID string) (*types.Position, error) {
	var p types.Position
	ok, err := ledger.GetJSON(ctx, k.Store, types.PositionKey(poolHash, tickLower, tickUpper, positionID), &p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (k *Keeper) putPosition(ctx context.Context, owner string, p *types.Position) error {
	positionKey := types.PositionKey(p.PoolHash, p.TickLower, p.TickUpper, p.PositionID)
	if err := ledger.PutJSON(ctx, k.Store, positionKey, p); err != nil {
		return err
	}
	// The owner index stores the full position key, not just the bare
	// positionID, so ListPositions can dereference straight from a
	// PositionOwnerPrefix range scan without already knowing the range.
	return k.Store.Put(ctx, types.PositionOwnerKey(owner, p.PoolHash, p.PositionID), []byte(positionKey))
}

// GetPosition loads a single position by its full identity. Returns
// types.PositionNotFoundError if no such position exists.
func (k *Keeper) GetPosition(ctx context.Context, token0, token1 string, feeTier uint32, tickLower, tickUpper int32, positionID string) (*types.Position, error) {
	pool, err := k.GetPool(ctx, token0, token1, feeTier)
	if err != nil {
		return nil, err
	}
	position, err := k.getPosition(ctx, pool.Hash(), tickLower, tickUpper, positionID)
	if err != nil {
		return nil, err
	}
	if position == nil {
		return nil, types.PositionNotFoundError{PoolHash: pool.Hash(), TickLower: tickLower, TickUpper: tickUpper, PositionID: positionID}
	}
	return position, nil
}

// ListPositions returns every position owner holds in the pool
// identified by (token0, token1, feeTier), in ascending key order.
func (k *Keeper) ListPositions(ctx context.Context, token0, token1 string, feeTier uint32, owner string) ([]*types.Position, error) {
	pool, err := k.GetPool(ctx, token0, token1, feeTier)
	if err != nil {
		return nil, err
	}
	it, err := k.Store.RangeByPartialKey(ctx, types.PositionOwnerPrefix(owner, pool.Hash()))
	if err != nil {
		return nil, err
	}
	var positions []*types.Position
	for _, value := range it {
		var p types.Position
		ok, err := ledger.GetJSON(ctx, k.Store, string(value), &p)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		positions = append(positions, &p)
	}
	return positions, nil
}
