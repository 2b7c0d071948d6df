package concentrated_liquidity

import (
	"github.com/GalaChain/dex-sub000/dexmath/fixedpoint"
	"github.com/GalaChain/dex-sub000/tokenledger"
)

func tokenTransfer(classKey, from, to string, amount fixedpoint.Dec) tokenledger.TransferRequest {
	return tokenledger.TransferRequest{TokenClass: classKey, From: from, To: to, Amount: amount}
}
