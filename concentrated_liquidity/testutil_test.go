package concentrated_liquidity_test

import (
	"context"
	"testing"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"

	cl "github.com/GalaChain/dex-sub000/concentrated_liquidity"
	"github.com/GalaChain/dex-sub000/dexmath/fixedpoint"
	"github.com/GalaChain/dex-sub000/ledger"
	"github.com/GalaChain/dex-sub000/tokenledger"
)

const (
	token0 = "GALA"
	token1 = "GUSDC"
)

func newTestKeeper() *cl.Keeper {
	store := ledger.NewMemStore()
	tokens := tokenledger.NewMemSubledger(store)
	return cl.NewKeeper(store, tokens, log.NewNopLogger())
}

func fund(t *testing.T, ctx context.Context, k *cl.Keeper, holder string, amt0, amt1 fixedpoint.Dec) {
	t.Helper()
	sub := k.Tokens.(*tokenledger.MemSubledger)
	require.NoError(t, sub.Mint(ctx, token0, holder, amt0))
	require.NoError(t, sub.Mint(ctx, token1, holder, amt1))
}

func mustDec(t *testing.T, s string) fixedpoint.Dec {
	t.Helper()
	d, err := fixedpoint.NewFromString(s)
	require.NoError(t, err)
	return d
}
