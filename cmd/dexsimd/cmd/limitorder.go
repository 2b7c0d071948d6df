package cmd

import (
	"github.com/spf13/cobra"

	"github.com/GalaChain/dex-sub000/dexmath/fixedpoint"
	"github.com/GalaChain/dex-sub000/limitorder"
	lotypes "github.com/GalaChain/dex-sub000/limitorder/types"
)

func preimageFlags(c *cobra.Command) (owner, sellingToken, buyingToken, sellingAmount, buyingMinimum, ratio *string, expires *int64, nonce *string) {
	owner = c.Flags().String("owner", "", "order owner identity")
	sellingToken = c.Flags().String("selling-token", "", "token the owner sells")
	buyingToken = c.Flags().String("buying-token", "", "token the owner buys")
	sellingAmount = c.Flags().String("selling-amount", "", "amount offered")
	buyingMinimum = c.Flags().String("buying-minimum", "", "minimum amount the owner will accept")
	ratio = c.Flags().String("ratio", "", "buying/selling price ratio revealed at fill time")
	expires = c.Flags().Int64("expires", 0, "Unix time in seconds from which the commitment may no longer be cancelled or filled (0: never expires)")
	nonce = c.Flags().String("nonce", "", "commitment nonce, unique per owner")
	c.MarkFlagRequired("owner")
	c.MarkFlagRequired("selling-token")
	c.MarkFlagRequired("buying-token")
	c.MarkFlagRequired("selling-amount")
	c.MarkFlagRequired("buying-minimum")
	c.MarkFlagRequired("ratio")
	c.MarkFlagRequired("nonce")
	return
}

func buildPreimage(owner, sellingToken, buyingToken, sellingAmount, buyingMinimum, ratio *string, expires *int64, nonce *string) (lotypes.Preimage, error) {
	amount, err := fixedpoint.NewFromString(*sellingAmount)
	if err != nil {
		return lotypes.Preimage{}, err
	}
	minimum, err := fixedpoint.NewFromString(*buyingMinimum)
	if err != nil {
		return lotypes.Preimage{}, err
	}
	r, err := fixedpoint.NewFromString(*ratio)
	if err != nil {
		return lotypes.Preimage{}, err
	}
	return lotypes.Preimage{
		Owner: *owner, SellingToken: *sellingToken, BuyingToken: *buyingToken,
		SellingAmount: amount, BuyingMinimum: minimum, BuyingToSellingRatio: r,
		Expires: *expires, CommitmentNonce: *nonce,
	}, nil
}

func newPlaceOrderCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "place-order",
		Short: "Commit a limit order by hash, without revealing its terms",
	}
	owner, sellingToken, buyingToken, sellingAmount, buyingMinimum, ratio, expires, nonce := preimageFlags(c)

	c.RunE = func(cmd *cobra.Command, args []string) error {
		preimage, err := buildPreimage(owner, sellingToken, buyingToken, sellingAmount, buyingMinimum, ratio, expires, nonce)
		if err != nil {
			return err
		}
		hash := limitorder.HashPreimage(preimage)
		id, err := sess.LimitOrders.Place(cmd.Context(), limitorder.PlaceRequest{Hash: hash, Expires: preimage.Expires})
		if err != nil {
			logField(cmd).WithError(err).Error("place-order failed")
			return err
		}
		printResult(cmd, "committed order id=%s hash=%s (keep your order details secret until fill/cancel)", id, hash)
		return nil
	}
	return c
}

func newCancelOrderCmd() *cobra.Command {
	var caller string
	c := &cobra.Command{
		Use:   "cancel-order",
		Short: "Reveal a commitment's preimage to cancel it",
	}
	owner, sellingToken, buyingToken, sellingAmount, buyingMinimum, ratio, expires, nonce := preimageFlags(c)
	c.Flags().StringVar(&caller, "caller", "", "caller identity (defaults to owner)")

	c.RunE = func(cmd *cobra.Command, args []string) error {
		preimage, err := buildPreimage(owner, sellingToken, buyingToken, sellingAmount, buyingMinimum, ratio, expires, nonce)
		if err != nil {
			return err
		}
		who := caller
		if who == "" {
			who = *owner
		}
		if err := sess.LimitOrders.Cancel(cmd.Context(), limitorder.CancelRequest{Caller: who, Preimage: preimage}); err != nil {
			logField(cmd).WithError(err).Error("cancel-order failed")
			return err
		}
		printResult(cmd, "cancelled order")
		return nil
	}
	return c
}

func newFillOrderCmd() *cobra.Command {
	var caller string
	c := &cobra.Command{
		Use:   "fill-order",
		Short: "Reveal a commitment's preimage and execute it across eligible pools",
	}
	owner, sellingToken, buyingToken, sellingAmount, buyingMinimum, ratio, expires, nonce := preimageFlags(c)
	c.Flags().StringVar(&caller, "caller", "", "caller identity (defaults to owner)")

	c.RunE = func(cmd *cobra.Command, args []string) error {
		preimage, err := buildPreimage(owner, sellingToken, buyingToken, sellingAmount, buyingMinimum, ratio, expires, nonce)
		if err != nil {
			return err
		}
		who := caller
		if who == "" {
			who = *owner
		}
		bought, err := sess.LimitOrders.Fill(cmd.Context(), limitorder.FillRequest{Caller: who, Preimage: preimage})
		if err != nil {
			logField(cmd).WithError(err).Error("fill-order failed")
			return err
		}
		printResult(cmd, "filled order: bought %s", bought.String())
		return nil
	}
	return c
}

func newSetLimitOrderConfigCmd() *cobra.Command {
	var (
		caller          string
		adminWallets    []string
		expiryBlocks    uint64
		maxPoolsPerFill uint32
	)

	c := &cobra.Command{
		Use:   "set-order-config",
		Short: "Install the global limit-order config (admin wallets, default expiry, pool fan-out)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sess.LimitOrders.SetGlobalLimitOrderConfig(cmd.Context(), limitorder.SetGlobalLimitOrderConfigRequest{
				Caller:          caller,
				AdminWallets:    adminWallets,
				ExpiryBlocks:    expiryBlocks,
				MaxPoolsPerFill: maxPoolsPerFill,
			})
			if err != nil {
				logField(cmd).WithError(err).Error("set-order-config failed")
				return err
			}
			printResult(cmd, "order config updated: expiryBlocks=%d maxPoolsPerFill=%d admins=%v", cfg.ExpiryBlocks, cfg.MaxPoolsPerFill, cfg.AdminWallets)
			return nil
		},
	}

	c.Flags().StringVar(&caller, "caller", "", "caller identity; must already be an admin unless no config is set yet")
	c.Flags().StringSliceVar(&adminWallets, "admin-wallets", nil, "comma-separated identities authorized to call this again")
	c.Flags().Uint64Var(&expiryBlocks, "expiry-blocks", 0, "commitment lifetime in blocks, stored in the config (place-order does not apply it)")
	c.Flags().Uint32Var(&maxPoolsPerFill, "max-pools-per-fill", 0, "fee-tier fan-out cap, stored in the config (fill-order walks every fee tier)")
	c.MarkFlagRequired("caller")

	return c
}
