package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GalaChain/dex-sub000/dexmath/fixedpoint"
	"github.com/GalaChain/dex-sub000/tokenledger"
)

// newMintCmd funds a simulated account out of nothing. tokenledger.Mint
// exists only for fixtures like this one; no real token-contract caller
// ever reaches it.
func newMintCmd() *cobra.Command {
	var tokenClass, holder, amount string
	c := &cobra.Command{
		Use:   "mint",
		Short: "Credit a simulated account with tokens (test fixture only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := fixedpoint.NewFromString(amount)
			if err != nil {
				return err
			}
			mintable, ok := sess.Tokens.(*tokenledger.MemSubledger)
			if !ok {
				return fmt.Errorf("session subledger does not support minting")
			}
			if err := mintable.Mint(cmd.Context(), tokenClass, holder, amt); err != nil {
				logField(cmd).WithError(err).Error("mint failed")
				return err
			}
			printResult(cmd, "minted %s %s to %s", amt.String(), tokenClass, holder)
			return nil
		},
	}
	c.Flags().StringVar(&tokenClass, "token", "", "token class key")
	c.Flags().StringVar(&holder, "holder", "", "recipient identity")
	c.Flags().StringVar(&amount, "amount", "", "amount to mint")
	c.MarkFlagRequired("token")
	c.MarkFlagRequired("holder")
	c.MarkFlagRequired("amount")
	return c
}
