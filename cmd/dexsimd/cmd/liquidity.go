package cmd

import (
	"github.com/spf13/cobra"

	cl "github.com/GalaChain/dex-sub000/concentrated_liquidity"
	"github.com/GalaChain/dex-sub000/dexmath/fixedpoint"
)

func positionFlags(c *cobra.Command) (token0, token1 *string, feeTier *uint32, owner, positionID *string, tickLower, tickUpper *int32) {
	token0 = c.Flags().String("token0", "", "token0 class key")
	token1 = c.Flags().String("token1", "", "token1 class key")
	feeTier = c.Flags().Uint32("fee-tier", 30, "pool fee tier")
	owner = c.Flags().String("owner", "", "position owner identity")
	positionID = c.Flags().String("position-id", "default", "position identifier, unique within the pool and range; only its owner can change it")
	tickLower = c.Flags().Int32("tick-lower", 0, "lower tick bound (inclusive)")
	tickUpper = c.Flags().Int32("tick-upper", 0, "upper tick bound (exclusive)")
	c.MarkFlagRequired("token0")
	c.MarkFlagRequired("token1")
	c.MarkFlagRequired("owner")
	return
}

func newAddLiquidityCmd() *cobra.Command {
	var liquidityDelta string
	c := &cobra.Command{
		Use:   "add-liquidity",
		Short: "Mint a new position or grow an existing one",
	}
	token0, token1, feeTier, owner, positionID, tickLower, tickUpper := positionFlags(c)
	c.Flags().StringVar(&liquidityDelta, "liquidity", "", "liquidity units to add")
	c.MarkFlagRequired("liquidity")

	c.RunE = func(cmd *cobra.Command, args []string) error {
		delta, err := fixedpoint.NewFromString(liquidityDelta)
		if err != nil {
			return err
		}
		amount0, amount1, err := sess.Pools.AddLiquidity(cmd.Context(), cl.AddLiquidityRequest{
			PositionRequest: cl.PositionRequest{
				Token0ClassKey: *token0, Token1ClassKey: *token1, FeeTier: *feeTier,
				Owner: *owner, PositionID: *positionID, TickLower: *tickLower, TickUpper: *tickUpper,
			},
			LiquidityDelta: delta,
		})
		if err != nil {
			logField(cmd).WithError(err).Error("add-liquidity failed")
			return err
		}
		printResult(cmd, "deposited amount0=%s amount1=%s", amount0.String(), amount1.String())
		return nil
	}
	return c
}

func newBurnCmd() *cobra.Command {
	var liquidityDelta string
	c := &cobra.Command{
		Use:   "burn",
		Short: "Withdraw liquidity from an existing position",
	}
	token0, token1, feeTier, owner, positionID, tickLower, tickUpper := positionFlags(c)
	c.Flags().StringVar(&liquidityDelta, "liquidity", "", "liquidity units to remove")
	c.MarkFlagRequired("liquidity")

	c.RunE = func(cmd *cobra.Command, args []string) error {
		delta, err := fixedpoint.NewFromString(liquidityDelta)
		if err != nil {
			return err
		}
		amount0, amount1, err := sess.Pools.Burn(cmd.Context(), cl.BurnRequest{
			PositionRequest: cl.PositionRequest{
				Token0ClassKey: *token0, Token1ClassKey: *token1, FeeTier: *feeTier,
				Owner: *owner, PositionID: *positionID, TickLower: *tickLower, TickUpper: *tickUpper,
			},
			LiquidityDelta: delta,
		})
		if err != nil {
			logField(cmd).WithError(err).Error("burn failed")
			return err
		}
		printResult(cmd, "withdrew amount0=%s amount1=%s (credited to the position's tokens owed)", amount0.String(), amount1.String())
		return nil
	}
	return c
}

func newGetPositionCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "get-position",
		Short: "Look up a single position by pool, range, and position id",
	}
	token0, token1, feeTier, _, positionID, tickLower, tickUpper := positionFlags(c)

	c.RunE = func(cmd *cobra.Command, args []string) error {
		position, err := sess.Pools.GetPosition(cmd.Context(), *token0, *token1, *feeTier, *tickLower, *tickUpper, *positionID)
		if err != nil {
			logField(cmd).WithError(err).Error("get-position failed")
			return err
		}
		printResult(cmd, "position %s owner=%s liquidity=%s [%d, %d]", position.PositionID, position.Owner, position.Liquidity.String(), position.TickLower, position.TickUpper)
		return nil
	}
	return c
}

func newListPositionsCmd() *cobra.Command {
	var (
		token0, token1 string
		feeTier        uint32
		owner          string
	)
	c := &cobra.Command{
		Use:   "list-positions",
		Short: "List every position an owner holds in a pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			positions, err := sess.Pools.ListPositions(cmd.Context(), token0, token1, feeTier, owner)
			if err != nil {
				logField(cmd).WithError(err).Error("list-positions failed")
				return err
			}
			for _, p := range positions {
				printResult(cmd, "position %s liquidity=%s [%d, %d]", p.PositionID, p.Liquidity.String(), p.TickLower, p.TickUpper)
			}
			return nil
		},
	}
	c.Flags().StringVar(&token0, "token0", "", "token0 class key")
	c.Flags().StringVar(&token1, "token1", "", "token1 class key")
	c.Flags().Uint32Var(&feeTier, "fee-tier", 30, "pool fee tier")
	c.Flags().StringVar(&owner, "owner", "", "position owner identity")
	c.MarkFlagRequired("token0")
	c.MarkFlagRequired("token1")
	c.MarkFlagRequired("owner")
	return c
}
