package tickmath

import "github.com/GalaChain/dex-sub000/dexmath/fixedpoint"

// SwapStepResult is the outcome of one computeSwapStep call: the price
// the step actually reached, and the amounts moved.
type SwapStepResult struct {
	SqrtPriceNext fixedpoint.Dec
	AmountIn      fixedpoint.Dec
	AmountOut     fixedpoint.Dec
	FeeAmount     fixedpoint.Dec
}

// ComputeSwapStep advances sqrtPrice toward target by at most
// amountRemaining (always non-negative; exactIn selects whether it is
// denominated in the input or output token), charging feeFraction of
// the input token, and reports how far the step actually reached. This
// is the Uniswap-V3 single-step closed form spec.md section 4.6
// describes: if the step would consume all of amountRemaining before
// reaching target, solve for the resulting sqrtPrice; otherwise walk
// exactly to target.
func ComputeSwapStep(sqrtPrice, target, liquidity, amountRemaining, feeFraction fixedpoint.Dec, zeroForOne, exactIn bool) SwapStepResult {
	lo, hi := target, sqrtPrice
	if sqrtPrice.LessThan(target) {
		lo, hi = sqrtPrice, target
	}

	var sqrtPriceNext fixedpoint.Dec
	reachesTarget := false

	if exactIn {
		remainingLessFee := amountRemaining.Mul(fixedpoint.NewFromInt64(1).Sub(feeFraction))
		var amountIn fixedpoint.Dec
		if zeroForOne {
			amountIn = amount0Delta(lo, hi, liquidity, fixedpoint.RoundUp)
		} else {
			amountIn = amount1Delta(lo, hi, liquidity, fixedpoint.RoundUp)
		}
		if remainingLessFee.GreaterThanOrEqual(amountIn) {
			sqrtPriceNext = target
			reachesTarget = true
		} else {
			sqrtPriceNext = nextSqrtPriceFromInput(sqrtPrice, liquidity, remainingLessFee, zeroForOne)
		}
	} else {
		var amountOut fixedpoint.Dec
		if zeroForOne {
			amountOut = amount1Delta(lo, hi, liquidity, fixedpoint.RoundDown)
		} else {
			amountOut = amount0Delta(lo, hi, liquidity, fixedpoint.RoundDown)
		}
		if amountRemaining.GreaterThanOrEqual(amountOut) {
			sqrtPriceNext = target
			reachesTarget = true
		} else {
			sqrtPriceNext = nextSqrtPriceFromOutput(sqrtPrice, liquidity, amountRemaining, zeroForOne)
		}
	}

	stepLo, stepHi := sqrtPriceNext, sqrtPrice
	if sqrtPrice.LessThan(sqrtPriceNext) {
		stepLo, stepHi = sqrtPrice, sqrtPriceNext
	}

	var amountIn, amountOut fixedpoint.Dec
	if zeroForOne {
		amountIn = amount0Delta(stepLo, stepHi, liquidity, fixedpoint.RoundUp)
		amountOut = amount1Delta(stepLo, stepHi, liquidity, fixedpoint.RoundDown)
	} else {
		amountIn = amount1Delta(stepLo, stepHi, liquidity, fixedpoint.RoundUp)
		amountOut = amount0Delta(stepLo, stepHi, liquidity, fixedpoint.RoundDown)
	}

	if !exactIn && amountOut.GreaterThan(amountRemaining) {
		amountOut = amountRemaining
	}

	var feeAmount fixedpoint.Dec
	if exactIn && !reachesTarget {
		feeAmount = amountRemaining.Sub(amountIn)
	} else {
		oneMinusFee := fixedpoint.NewFromInt64(1).Sub(feeFraction)
		if oneMinusFee.IsZero() {
			feeAmount = fixedpoint.Zero
		} else {
			feeAmount = amountIn.MulRound(feeFraction, fixedpoint.Q18, fixedpoint.RoundUp).DivRound(oneMinusFee, fixedpoint.Q18, fixedpoint.RoundUp)
		}
	}
	if feeAmount.IsNegative() {
		feeAmount = fixedpoint.Zero
	}

	return SwapStepResult{
		SqrtPriceNext: sqrtPriceNext,
		AmountIn:      amountIn,
		AmountOut:     amountOut,
		FeeAmount:     feeAmount,
	}
}

// nextSqrtPriceFromInput solves for the sqrt price reached after adding
// amountIn of the input token at constant liquidity.
func nextSqrtPriceFromInput(sqrtPrice, liquidity, amountIn fixedpoint.Dec, zeroForOne bool) fixedpoint.Dec {
	if zeroForOne {
		// token0 added: price decreases. newSqrtPrice = L*sqrtPrice / (L + amountIn*sqrtPrice)
		numerator := liquidity.Mul(sqrtPrice)
		denominator := liquidity.Add(amountIn.Mul(sqrtPrice))
		return numerator.DivRound(denominator, fixedpoint.Q18, fixedpoint.RoundUp)
	}
	// token1 added: price increases. newSqrtPrice = sqrtPrice + amountIn/L
	return sqrtPrice.Add(amountIn.DivRound(liquidity, fixedpoint.Q18, fixedpoint.RoundDown))
}

// nextSqrtPriceFromOutput solves for the sqrt price reached after
// removing amountOut of the output token at constant liquidity.
func nextSqrtPriceFromOutput(sqrtPrice, liquidity, amountOut fixedpoint.Dec, zeroForOne bool) fixedpoint.Dec {
	if zeroForOne {
		// token1 removed from the pool: price decreases. newSqrtPrice = sqrtPrice - amountOut/L
		return sqrtPrice.Sub(amountOut.DivRound(liquidity, fixedpoint.Q18, fixedpoint.RoundUp))
	}
	// token0 removed from the pool: price increases. newSqrtPrice = L*sqrtPrice / (L - amountOut*sqrtPrice)
	numerator := liquidity.Mul(sqrtPrice)
	denominator := liquidity.Sub(amountOut.Mul(sqrtPrice))
	return numerator.DivRound(denominator, fixedpoint.Q18, fixedpoint.RoundDown)
}
