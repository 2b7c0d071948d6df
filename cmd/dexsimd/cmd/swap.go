package cmd

import (
	"github.com/spf13/cobra"

	cl "github.com/GalaChain/dex-sub000/concentrated_liquidity"
	"github.com/GalaChain/dex-sub000/dexmath/fixedpoint"
	"github.com/GalaChain/dex-sub000/dexmath/tickmath"
)

func newSwapCmd() *cobra.Command {
	var (
		token0, token1         string
		feeTier                uint32
		trader                 string
		zeroForOne             bool
		amountSpecified        string
		sqrtPriceLimit         string
		amount0Min, amount1Min string
		quote                  bool
	)

	c := &cobra.Command{
		Use:   "swap",
		Short: "Execute (or quote) a swap against a pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := fixedpoint.NewFromString(amountSpecified)
			if err != nil {
				return err
			}

			limit := tickmath.MaxSqrtPrice
			if zeroForOne {
				limit = tickmath.MinSqrtPrice
			}
			if sqrtPriceLimit != "" {
				limit, err = fixedpoint.NewFromString(sqrtPriceLimit)
				if err != nil {
					return err
				}
			}

			if quote {
				amount0, amount1, newSqrtPrice, err := sess.Pools.QuoteExactAmount(cmd.Context(), cl.QuoteExactAmountRequest{
					Token0ClassKey: token0, Token1ClassKey: token1, FeeTier: feeTier,
					ZeroForOne: zeroForOne, AmountSpecified: amount, SqrtPriceLimit: limit,
				})
				if err != nil {
					logField(cmd).WithError(err).Error("quote failed")
					return err
				}
				printResult(cmd, "quote: amount0=%s amount1=%s resultingSqrtPrice=%s", amount0.String(), amount1.String(), newSqrtPrice.String())
				return nil
			}

			min0, err := parseOptionalDec(amount0Min)
			if err != nil {
				return err
			}
			min1, err := parseOptionalDec(amount1Min)
			if err != nil {
				return err
			}

			amount0, amount1, err := sess.Pools.Swap(cmd.Context(), cl.SwapRequest{
				Token0ClassKey: token0, Token1ClassKey: token1, FeeTier: feeTier,
				Trader: trader, ZeroForOne: zeroForOne, AmountSpecified: amount,
				SqrtPriceLimit: limit, Amount0Min: min0, Amount1Min: min1,
			})
			if err != nil {
				logField(cmd).WithError(err).Error("swap failed")
				return err
			}
			printResult(cmd, "swapped: amount0=%s amount1=%s", amount0.String(), amount1.String())
			return nil
		},
	}

	c.Flags().StringVar(&token0, "token0", "", "token0 class key")
	c.Flags().StringVar(&token1, "token1", "", "token1 class key")
	c.Flags().Uint32Var(&feeTier, "fee-tier", 30, "pool fee tier")
	c.Flags().StringVar(&trader, "trader", "", "trader identity")
	c.Flags().BoolVar(&zeroForOne, "zero-for-one", true, "sell token0 for token1 (false: sell token1 for token0)")
	c.Flags().StringVar(&amountSpecified, "amount", "", "exact-input amount (positive) or exact-output amount (negative)")
	c.Flags().StringVar(&sqrtPriceLimit, "sqrt-price-limit", "", "price limit; defaults to the global MIN/MAX sqrt price for the swap direction")
	c.Flags().StringVar(&amount0Min, "amount0-min", "", "slippage floor on amount0 received (one-for-zero swaps)")
	c.Flags().StringVar(&amount1Min, "amount1-min", "", "slippage floor on amount1 received (zero-for-one swaps)")
	c.Flags().BoolVar(&quote, "quote", false, "dry-run against a snapshot instead of mutating the pool")
	c.MarkFlagRequired("token0")
	c.MarkFlagRequired("token1")
	c.MarkFlagRequired("amount")

	return c
}

func parseOptionalDec(s string) (fixedpoint.Dec, error) {
	if s == "" {
		return fixedpoint.Zero, nil
	}
	return fixedpoint.NewFromString(s)
}
