package limitorder

import (
	"context"
	"testing"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"

	cl "github.com/GalaChain/dex-sub000/concentrated_liquidity"
	cltypes "github.com/GalaChain/dex-sub000/concentrated_liquidity/types"
	"github.com/GalaChain/dex-sub000/clock"
	"github.com/GalaChain/dex-sub000/dexmath/fixedpoint"
	"github.com/GalaChain/dex-sub000/ledger"
	"github.com/GalaChain/dex-sub000/limitorder/types"
	"github.com/GalaChain/dex-sub000/tokenledger"
)

const (
	sell = "GALA"
	buy  = "GUSDC"
)

// testClock is well below any fixture's Expires (1_000_000), so nothing
// in these tests expires unless a test explicitly advances it.
var testClock = clock.Fixed{Time: 0}

func newHarness(t *testing.T) (*Keeper, *cl.Keeper, ledger.Store) {
	t.Helper()
	store := ledger.NewMemStore()
	tokens := tokenledger.NewMemSubledger(store)
	clKeeper := cl.NewKeeper(store, tokens, log.NewNopLogger())
	loKeeper := NewKeeper(store, log.NewNopLogger(), testClock)
	return loKeeper, clKeeper, store
}

func mustDecL(t *testing.T, s string) fixedpoint.Dec {
	t.Helper()
	d, err := fixedpoint.NewFromString(s)
	require.NoError(t, err)
	return d
}

func seedPool(t *testing.T, ctx context.Context, clKeeper *cl.Keeper, tokens *tokenledger.MemSubledger, feeTier uint32, sqrtPrice, liquidity string) {
	t.Helper()
	_, err := clKeeper.CreatePool(ctx, cl.CreatePoolRequest{
		Token0ClassKey: sell, Token1ClassKey: buy, FeeTier: feeTier,
		SqrtPrice: mustDecL(t, sqrtPrice), Creator: "lp",
	})
	require.NoError(t, err)
	require.NoError(t, tokens.Mint(ctx, sell, "lp", mustDecL(t, "10000000000")))
	require.NoError(t, tokens.Mint(ctx, buy, "lp", mustDecL(t, "10000000000")))
	_, _, err = clKeeper.AddLiquidity(ctx, cl.AddLiquidityRequest{
		PositionRequest: cl.PositionRequest{
			Token0ClassKey: sell, Token1ClassKey: buy, FeeTier: feeTier,
			Owner: "lp", PositionID: "wide", TickLower: -60000, TickUpper: 60000,
		},
		LiquidityDelta: mustDecL(t, liquidity),
	})
	require.NoError(t, err)
}

func samplePreimage(owner string) types.Preimage {
	ratio, _ := fixedpoint.NewFromString("0.9")
	minimum, _ := fixedpoint.NewFromString("1")
	amount, _ := fixedpoint.NewFromString("100")
	return types.Preimage{
		Owner: owner, SellingToken: sell, BuyingToken: buy,
		SellingAmount: amount, BuyingMinimum: minimum, BuyingToSellingRatio: ratio,
		Expires: 1_000_000, CommitmentNonce: "nonce-1",
	}
}

func TestPlaceRejectsDuplicateHash(t *testing.T) {
	ctx := context.Background()
	loKeeper, _, _ := newHarness(t)
	preimage := samplePreimage("alice")
	hash := hashPreimage(preimage)

	id, err := loKeeper.Place(ctx, PlaceRequest{Hash: hash, Expires: preimage.Expires})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = loKeeper.Place(ctx, PlaceRequest{Hash: hash, Expires: preimage.Expires})
	require.Error(t, err)
	require.IsType(t, cltypes.DuplicateCommitmentError{}, err)
}

func TestCancelRequiresMatchingPreimage(t *testing.T) {
	ctx := context.Background()
	loKeeper, _, _ := newHarness(t)
	preimage := samplePreimage("alice")
	hash := hashPreimage(preimage)
	_, err := loKeeper.Place(ctx, PlaceRequest{Hash: hash, Expires: preimage.Expires})
	require.NoError(t, err)

	wrong := preimage
	wrong.SellingAmount = mustDecL(t, "999")
	err = loKeeper.Cancel(ctx, CancelRequest{Caller: "alice", Preimage: wrong})
	require.Error(t, err)
	require.IsType(t, cltypes.CommitmentNotFoundError{}, err)

	require.NoError(t, loKeeper.Cancel(ctx, CancelRequest{Caller: "alice", Preimage: preimage}))

	_, err = loKeeper.loadCommitment(ctx, preimage)
	require.Error(t, err)
}

func TestCancelRejectsNonOwnerNonAdmin(t *testing.T) {
	ctx := context.Background()
	loKeeper, _, _ := newHarness(t)
	preimage := samplePreimage("alice")
	hash := hashPreimage(preimage)
	_, err := loKeeper.Place(ctx, PlaceRequest{Hash: hash, Expires: preimage.Expires})
	require.NoError(t, err)

	err = loKeeper.Cancel(ctx, CancelRequest{Caller: "mallory", Preimage: preimage})
	require.Error(t, err)
	require.IsType(t, cltypes.UnauthorizedError{}, err)
}

// TestFillAcrossFeeTiersSkipsUnfavorablePools exercises scenario 6: a
// fill order walks fee tiers 5, 30, 100 in ascending order. A pool whose
// current price already sits past the revealed price limit cannot make
// progress and is skipped untouched, while pools that can contribute
// toward buyingMinimum are swapped against and promoted.
func TestFillAcrossFeeTiersSkipsUnfavorablePools(t *testing.T) {
	ctx := context.Background()
	loKeeper, clKeeper, store := newHarness(t)
	tokens := clKeeper.Tokens.(*tokenledger.MemSubledger)

	// The fee-5 pool sits at sqrtPrice 0.9, already below the order's
	// sqrt price limit sqrt(0.9), so it is the unfavorable one.
	seedPool(t, ctx, clKeeper, tokens, 5, "0.9", "1000000000")
	seedPool(t, ctx, clKeeper, tokens, 30, "1.0", "1000000000")
	seedPool(t, ctx, clKeeper, tokens, 100, "1.0", "1000000000")

	require.NoError(t, tokens.Mint(ctx, sell, "alice", mustDecL(t, "1000")))

	preimage := samplePreimage("alice")
	hash := hashPreimage(preimage)
	_, err := loKeeper.Place(ctx, PlaceRequest{Hash: hash, Expires: preimage.Expires})
	require.NoError(t, err)

	bought, err := loKeeper.Fill(ctx, FillRequest{Caller: "alice", Preimage: preimage})
	require.NoError(t, err)
	require.True(t, bought.GreaterThanOrEqual(preimage.BuyingMinimum))

	// Commitment consumed; a second fill attempt can't find it.
	_, err = loKeeper.loadCommitment(ctx, preimage)
	require.Error(t, err)
	require.IsType(t, cltypes.CommitmentNotFoundError{}, err)

	var fulfilled types.FulfilledOrder
	ok, err := ledger.GetJSON(ctx, store, cltypes.FulfilledOrderKey(hash, preimage.CommitmentNonce), &fulfilled)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "alice", fulfilled.Owner)
	require.True(t, fulfilled.QuantityBought.Equal(bought))
	require.NotEmpty(t, fulfilled.PoolsTouched)
	require.NotContains(t, fulfilled.PoolsTouched, cltypes.PoolHash(sell, buy, 5))
}

// TestFillFailsBelowMinimumLeavesNoTrace is the inverse of the above:
// when no combination of pools can satisfy buyingMinimum, the fill fails
// and every staged attempt is discarded, leaving the commitment intact.
func TestFillFailsBelowMinimumLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	loKeeper, clKeeper, _ := newHarness(t)
	tokens := clKeeper.Tokens.(*tokenledger.MemSubledger)
	seedPool(t, ctx, clKeeper, tokens, 30, "1.0", "100")

	require.NoError(t, tokens.Mint(ctx, sell, "alice", mustDecL(t, "1000")))

	ratio, _ := fixedpoint.NewFromString("0.9")
	unreasonable, _ := fixedpoint.NewFromString("1000000000")
	amount, _ := fixedpoint.NewFromString("100")
	preimage := types.Preimage{
		Owner: "alice", SellingToken: sell, BuyingToken: buy,
		SellingAmount: amount, BuyingMinimum: unreasonable, BuyingToSellingRatio: ratio,
		Expires: 1_000_000, CommitmentNonce: "nonce-2",
	}
	hash := hashPreimage(preimage)
	_, err := loKeeper.Place(ctx, PlaceRequest{Hash: hash, Expires: preimage.Expires})
	require.NoError(t, err)

	_, err = loKeeper.Fill(ctx, FillRequest{Caller: "alice", Preimage: preimage})
	require.Error(t, err)
	require.IsType(t, cltypes.LimitOrderMinimumNotMetError{}, err)

	// Commitment survives a failed fill.
	c, err := loKeeper.loadCommitment(ctx, preimage)
	require.NoError(t, err)
	require.Equal(t, hash, c.Hash)
}

// TestCancelRejectsExpiredCommitment exercises the Clock capability: a
// commitment whose Expires has already passed per the keeper's clock
// cannot be cancelled (or filled), even by its owner.
func TestCancelRejectsExpiredCommitment(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewMemStore()
	tokens := tokenledger.NewMemSubledger(store)
	_ = cl.NewKeeper(store, tokens, log.NewNopLogger())
	loKeeper := NewKeeper(store, log.NewNopLogger(), clock.Fixed{Time: 2_000_000})

	preimage := samplePreimage("alice")
	hash := hashPreimage(preimage)
	_, err := loKeeper.Place(ctx, PlaceRequest{Hash: hash, Expires: preimage.Expires})
	require.NoError(t, err)

	err = loKeeper.Cancel(ctx, CancelRequest{Caller: "alice", Preimage: preimage})
	require.Error(t, err)
	require.IsType(t, cltypes.CommitmentExpiredError{}, err)
}

// TestSetGlobalLimitOrderConfigGatesOnExistingAdmins exercises the
// bootstrap-then-admin-gated setter: the first caller bootstraps the
// admin set unconditionally, and a later caller not on that set is
// rejected.
func TestSetGlobalLimitOrderConfigGatesOnExistingAdmins(t *testing.T) {
	ctx := context.Background()
	loKeeper, _, _ := newHarness(t)

	cfg, err := loKeeper.SetGlobalLimitOrderConfig(ctx, SetGlobalLimitOrderConfigRequest{
		Caller: "root-admin", AdminWallets: []string{"root-admin"}, ExpiryBlocks: 1000, MaxPoolsPerFill: 2,
	})
	require.NoError(t, err)
	require.True(t, cfg.IsAdmin("root-admin"))

	_, err = loKeeper.SetGlobalLimitOrderConfig(ctx, SetGlobalLimitOrderConfigRequest{
		Caller: "mallory", AdminWallets: []string{"mallory"},
	})
	require.Error(t, err)
	require.IsType(t, cltypes.UnauthorizedError{}, err)

	// Now an admin wallet cancels on behalf of a different owner,
	// exercising the admin-authorization branch of authorized() that
	// was previously unreachable.
	preimage := samplePreimage("alice")
	hash := hashPreimage(preimage)
	_, err = loKeeper.Place(ctx, PlaceRequest{Hash: hash, Expires: preimage.Expires})
	require.NoError(t, err)
	require.NoError(t, loKeeper.Cancel(ctx, CancelRequest{Caller: "root-admin", Preimage: preimage}))
}
