package types

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"

	"github.com/GalaChain/dex-sub000/dexmath/fixedpoint"
)

// codespace groups every sentinel this package registers, the way the
// teacher's types package registers its own codespace for
// cosmossdk.io/errors.
const codespace = "dex"

// Sentinel errors, one per kind in the taxonomy. Each rich error struct
// below returns its kind's sentinel from Unwrap, so errors.Is matches the
// kind while the struct carries the request-specific detail.
var (
	ErrInputValidation          = errorsmod.Register(codespace, 2, "input validation failed")
	ErrNotFound                 = errorsmod.Register(codespace, 3, "not found")
	ErrUnauthorized             = errorsmod.Register(codespace, 4, "unauthorized")
	ErrStateConflict            = errorsmod.Register(codespace, 5, "state conflict")
	ErrInsufficientLiquidity    = errorsmod.Register(codespace, 6, "insufficient liquidity")
	ErrSlippageToleranceExceeded = errorsmod.Register(codespace, 7, "slippage tolerance exceeded")
	ErrLimitOrderMinimumNotMet  = errorsmod.Register(codespace, 8, "limit order minimum not met")
)

// PoolNotFoundError carries the pool key a lookup failed to resolve.
type PoolNotFoundError struct {
	Token0, Token1 string
	FeeTier        uint32
}

func (e PoolNotFoundError) Error() string {
	return fmt.Sprintf("pool not found for (%s, %s, fee %d)", e.Token0, e.Token1, e.FeeTier)
}
func (e PoolNotFoundError) Unwrap() error { return ErrNotFound }

// PoolExistsError is returned when createPool targets an existing key.
type PoolExistsError struct {
	Token0, Token1 string
	FeeTier        uint32
}

func (e PoolExistsError) Error() string {
	return fmt.Sprintf("pool already exists for (%s, %s, fee %d)", e.Token0, e.Token1, e.FeeTier)
}
func (e PoolExistsError) Unwrap() error { return ErrStateConflict }

// TokenOrderInvalidError is returned when token0 does not canonically
// sort before token1.
type TokenOrderInvalidError struct {
	Token0, Token1 string
}

func (e TokenOrderInvalidError) Error() string {
	return fmt.Sprintf("token0 %q must sort before token1 %q", e.Token0, e.Token1)
}
func (e TokenOrderInvalidError) Unwrap() error { return ErrInputValidation }

// InvalidFeeTierError is returned for any fee tier outside the closed
// set {5, 30, 100}.
type InvalidFeeTierError struct {
	FeeTier uint32
}

func (e InvalidFeeTierError) Error() string {
	return fmt.Sprintf("invalid fee tier %d, expected one of {5, 30, 100}", e.FeeTier)
}
func (e InvalidFeeTierError) Unwrap() error { return ErrInputValidation }

// TickOutOfRangeError is returned for a tick outside [MinTick, MaxTick].
type TickOutOfRangeError struct {
	Tick int32
}

func (e TickOutOfRangeError) Error() string {
	return fmt.Sprintf("tick %d out of range", e.Tick)
}
func (e TickOutOfRangeError) Unwrap() error { return ErrInputValidation }

// TickSpacingError is returned when a tick is not a multiple of the
// pool's tick spacing.
type TickSpacingError struct {
	TickSpacing         int32
	LowerTick, UpperTick int32
}

func (e TickSpacingError) Error() string {
	return fmt.Sprintf("ticks [%d, %d] not divisible by tick spacing %d", e.LowerTick, e.UpperTick, e.TickSpacing)
}
func (e TickSpacingError) Unwrap() error { return ErrInputValidation }

// InvalidLowerUpperTickError is returned when tickLower >= tickUpper.
type InvalidLowerUpperTickError struct {
	LowerTick, UpperTick int32
}

func (e InvalidLowerUpperTickError) Error() string {
	return fmt.Sprintf("lower tick %d must be less than upper tick %d", e.LowerTick, e.UpperTick)
}
func (e InvalidLowerUpperTickError) Unwrap() error { return ErrInputValidation }

// SqrtPriceOutOfRangeError is returned for a sqrtPrice outside
// [MinSqrtPrice, MaxSqrtPrice].
type SqrtPriceOutOfRangeError struct {
	SqrtPrice fixedpoint.Dec
}

func (e SqrtPriceOutOfRangeError) Error() string {
	return fmt.Sprintf("sqrtPrice %s out of range", e.SqrtPrice)
}
func (e SqrtPriceOutOfRangeError) Unwrap() error { return ErrInputValidation }

// LiquidityExceedsMaxError is returned when a tick's liquidityGross
// would exceed the pool's per-tick maximum.
type LiquidityExceedsMaxError struct {
	Tick             int32
	Requested, Max   fixedpoint.Dec
}

func (e LiquidityExceedsMaxError) Error() string {
	return fmt.Sprintf("liquidity %s at tick %d exceeds max %s", e.Requested, e.Tick, e.Max)
}
func (e LiquidityExceedsMaxError) Unwrap() error { return ErrInputValidation }

// PositionNotFoundError is returned when a position lookup misses.
type PositionNotFoundError struct {
	PoolHash              string
	TickLower, TickUpper  int32
	PositionID            string
}

func (e PositionNotFoundError) Error() string {
	return fmt.Sprintf("position %q not found in pool %s [%d, %d]", e.PositionID, e.PoolHash, e.TickLower, e.TickUpper)
}
func (e PositionNotFoundError) Unwrap() error { return ErrNotFound }

// UnauthorizedError is returned when the caller is neither the owner of
// a position nor an authorized collector/admin.
type UnauthorizedError struct {
	Caller string
	Reason string
}

func (e UnauthorizedError) Error() string {
	return fmt.Sprintf("caller %q unauthorized: %s", e.Caller, e.Reason)
}
func (e UnauthorizedError) Unwrap() error { return ErrUnauthorized }

// InsufficientLiquidityError is returned when a burn or swap cannot be
// satisfied by the pool's holdings; MaxFraction reports the largest
// fraction of the request that could have succeeded, expressed as a
// percentage (e.g. 6.67 for 6.67%).
type InsufficientLiquidityError struct {
	Requested, Available fixedpoint.Dec
	MaxFraction          fixedpoint.Dec
}

func (e InsufficientLiquidityError) Error() string {
	return fmt.Sprintf("insufficient liquidity: requested %s, available %s (max permissible %s%%)", e.Requested, e.Available, e.MaxFraction)
}
func (e InsufficientLiquidityError) Unwrap() error { return ErrInsufficientLiquidity }

// InsufficientPoolLiquidityError is returned when a swap runs out of
// initialised ticks before it can make progress.
type InsufficientPoolLiquidityError struct {
	Tick int32
}

func (e InsufficientPoolLiquidityError) Error() string {
	return fmt.Sprintf("insufficient pool liquidity beyond tick %d", e.Tick)
}
func (e InsufficientPoolLiquidityError) Unwrap() error { return ErrInsufficientLiquidity }

// SlippageToleranceExceededError carries both the amount the caller
// actually would have received and the bound they supplied.
type SlippageToleranceExceededError struct {
	Received, Required fixedpoint.Dec
}

func (e SlippageToleranceExceededError) Error() string {
	return fmt.Sprintf("slippage tolerance exceeded: received %s, required %s", e.Received, e.Required)
}
func (e SlippageToleranceExceededError) Unwrap() error { return ErrSlippageToleranceExceeded }

// NegativeAmountError is returned when an amount that must be
// non-negative is negative.
type NegativeAmountError struct {
	Amount fixedpoint.Dec
}

func (e NegativeAmountError) Error() string {
	return fmt.Sprintf("amount %s must be non-negative", e.Amount)
}
func (e NegativeAmountError) Unwrap() error { return ErrInputValidation }

// DuplicateCommitmentError is returned when place() targets a hash that
// already has a stored commitment.
type DuplicateCommitmentError struct {
	Hash string
}

func (e DuplicateCommitmentError) Error() string {
	return fmt.Sprintf("commitment %q already exists", e.Hash)
}
func (e DuplicateCommitmentError) Unwrap() error { return ErrStateConflict }

// CommitmentNotFoundError is returned when cancel/fill can't resolve the
// supplied preimage to a stored commitment.
type CommitmentNotFoundError struct {
	Hash string
}

func (e CommitmentNotFoundError) Error() string {
	return fmt.Sprintf("commitment %q not found", e.Hash)
}
func (e CommitmentNotFoundError) Unwrap() error { return ErrNotFound }

// CommitmentExpiredError is returned when cancel/fill resolves a
// preimage to a commitment whose Expires has already passed per the
// clock.Clock the keeper was wired with.
type CommitmentExpiredError struct {
	Hash         string
	Expires, Now int64
}

func (e CommitmentExpiredError) Error() string {
	return fmt.Sprintf("commitment %q expired at %d, now %d", e.Hash, e.Expires, e.Now)
}
func (e CommitmentExpiredError) Unwrap() error { return ErrNotFound }

// LimitOrderMinimumNotMetError is returned when a fill accrues less than
// the configured buying minimum across all candidate pools.
type LimitOrderMinimumNotMetError struct {
	Bought, Minimum fixedpoint.Dec
}

func (e LimitOrderMinimumNotMetError) Error() string {
	return fmt.Sprintf("fill accrued %s, below minimum %s", e.Bought, e.Minimum)
}
func (e LimitOrderMinimumNotMetError) Unwrap() error { return ErrLimitOrderMinimumNotMet }
