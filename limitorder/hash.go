package limitorder

import (
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/GalaChain/dex-sub000/limitorder/types"
)

// HashPreimage exposes hashPreimage for callers that need to commit a
// hash before they can reveal the preimage it comes from (the CLI
// harness's place-order command, most notably: a real caller hashes the
// preimage client-side and only ever submits Place with the hash).
func HashPreimage(p types.Preimage) string {
	return hashPreimage(p)
}

// hashPreimage derives the commitment hash H(owner, sellingToken,
// buyingToken, sellingAmount, buyingMinimum, buyingToSellingRatio,
// expires, commitmentNonce) spec.md section 3 names, over blake3 the
// way parsdao-pars/dex/liquid.go derives its accountKey.
func hashPreimage(p types.Preimage) string {
	payload := fmt.Sprintf("%s|%s|%s|%s|%s|%s|%d|%s",
		p.Owner, p.SellingToken, p.BuyingToken,
		p.SellingAmount.String(), p.BuyingMinimum.String(), p.BuyingToSellingRatio.String(),
		p.Expires, p.CommitmentNonce,
	)
	sum := blake3.Sum256([]byte(payload))
	return fmt.Sprintf("%x", sum)
}
