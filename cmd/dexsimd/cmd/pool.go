package cmd

import (
	"github.com/spf13/cobra"

	cl "github.com/GalaChain/dex-sub000/concentrated_liquidity"
	"github.com/GalaChain/dex-sub000/dexmath/fixedpoint"
)

func newCreatePoolCmd() *cobra.Command {
	var (
		token0, token1 string
		feeTier        uint32
		sqrtPrice      string
		creator        string
		private        bool
		whitelist      []string
	)

	c := &cobra.Command{
		Use:   "create-pool",
		Short: "Create a new concentrated-liquidity pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			sqrt, err := fixedpoint.NewFromString(sqrtPrice)
			if err != nil {
				return err
			}

			pool, err := sess.Pools.CreatePool(cmd.Context(), cl.CreatePoolRequest{
				Token0ClassKey: token0,
				Token1ClassKey: token1,
				FeeTier:        feeTier,
				SqrtPrice:      sqrt,
				Creator:        creator,
				IsPrivate:      private,
				Whitelist:      whitelist,
			})
			if err != nil {
				logField(cmd).WithError(err).Error("create-pool failed")
				return err
			}
			logField(cmd).WithField("hash", pool.Hash()).Info("pool created")
			printResult(cmd, "pool %s created: tickSpacing=%d sqrtPrice=%s protocolFeeFraction=%s", pool.Hash(), pool.TickSpacing, pool.SqrtPrice.String(), pool.ProtocolFeeFraction.String())
			return nil
		},
	}

	c.Flags().StringVar(&token0, "token0", "", "token0 class key (must sort before token1)")
	c.Flags().StringVar(&token1, "token1", "", "token1 class key")
	c.Flags().Uint32Var(&feeTier, "fee-tier", 30, "fee tier in basis-of-ten-thousandths (5, 30, 100)")
	c.Flags().StringVar(&sqrtPrice, "sqrt-price", "1.0", "initial sqrt price")
	c.Flags().StringVar(&creator, "creator", "", "pool creator identity")
	c.Flags().BoolVar(&private, "private", false, "restrict minting/swapping to a whitelist")
	c.Flags().StringSliceVar(&whitelist, "whitelist", nil, "comma-separated whitelisted identities (private pools only)")
	c.MarkFlagRequired("token0")
	c.MarkFlagRequired("token1")
	c.MarkFlagRequired("creator")

	return c
}

func newSetDexFeeConfigCmd() *cobra.Command {
	var (
		caller              string
		protocolFeeFraction string
		feeCollector        string
		adminWallets        []string
	)

	c := &cobra.Command{
		Use:   "set-fee-config",
		Short: "Install the global protocol-fee config new pools snapshot at creation",
		RunE: func(cmd *cobra.Command, args []string) error {
			frac, err := fixedpoint.NewFromString(protocolFeeFraction)
			if err != nil {
				return err
			}
			cfg, err := sess.Pools.SetDexFeeConfig(cmd.Context(), cl.SetDexFeeConfigRequest{
				Caller:              caller,
				ProtocolFeeFraction: frac,
				FeeCollector:        feeCollector,
				AdminWallets:        adminWallets,
			})
			if err != nil {
				logField(cmd).WithError(err).Error("set-fee-config failed")
				return err
			}
			printResult(cmd, "fee config updated: protocolFeeFraction=%s collector=%s admins=%v", cfg.ProtocolFeeFraction.String(), cfg.FeeCollector, cfg.AdminWallets)
			return nil
		},
	}

	c.Flags().StringVar(&caller, "caller", "", "caller identity; must already be an admin unless no config is set yet")
	c.Flags().StringVar(&protocolFeeFraction, "protocol-fee-fraction", "0", "fraction of swap fees skimmed to protocol")
	c.Flags().StringVar(&feeCollector, "fee-collector", "", "identity the protocol fee share is credited to")
	c.Flags().StringSliceVar(&adminWallets, "admin-wallets", nil, "comma-separated identities authorized to call this again")
	c.MarkFlagRequired("caller")

	return c
}
