package types

import "github.com/GalaChain/dex-sub000/dexmath/fixedpoint"

// Event is the common interface every emitted event satisfies, mirroring
// the teacher's typed-event convention (one struct per event, emitted
// through an EventSink rather than assembled ad hoc at call sites).
type Event interface {
	EventType() string
}

type PoolCreatedEvent struct {
	PoolHash       string
	Token0, Token1 string
	FeeTier        uint32
	Creator        string
}

func (PoolCreatedEvent) EventType() string { return "pool_created" }

type MintedEvent struct {
	PoolHash             string
	Owner                string
	PositionID           string
	TickLower, TickUpper int32
	LiquidityDelta       fixedpoint.Dec
	Amount0, Amount1     fixedpoint.Dec
}

func (MintedEvent) EventType() string { return "minted" }

type BurnedEvent struct {
	PoolHash             string
	Owner                string
	PositionID           string
	TickLower, TickUpper int32
	LiquidityDelta       fixedpoint.Dec
	Amount0, Amount1     fixedpoint.Dec
}

func (BurnedEvent) EventType() string { return "burned" }

type SwappedEvent struct {
	PoolHash         string
	Trader           string
	ZeroForOne       bool
	AmountIn         fixedpoint.Dec
	AmountOut        fixedpoint.Dec
	SqrtPriceAfter   fixedpoint.Dec
	LiquidityAfter   fixedpoint.Dec
	TickAfter        int32
}

func (SwappedEvent) EventType() string { return "swapped" }

type FeesCollectedEvent struct {
	PoolHash             string
	Owner                string
	PositionID           string
	Amount0, Amount1     fixedpoint.Dec
	Recipient            string
}

func (FeesCollectedEvent) EventType() string { return "fees_collected" }

type ProtocolFeesCollectedEvent struct {
	PoolHash         string
	Amount0, Amount1 fixedpoint.Dec
	Recipient        string
}

func (ProtocolFeesCollectedEvent) EventType() string { return "protocol_fees_collected" }

type LimitOrderPlacedEvent struct {
	CommitmentHash string
	Owner          string
}

func (LimitOrderPlacedEvent) EventType() string { return "limit_order_placed" }

type LimitOrderCancelledEvent struct {
	CommitmentHash string
	Owner          string
}

func (LimitOrderCancelledEvent) EventType() string { return "limit_order_cancelled" }

type LimitOrderFilledEvent struct {
	CommitmentHash string
	Owner          string
	Bought, Sold   fixedpoint.Dec
	PoolsTouched   []string
}

func (LimitOrderFilledEvent) EventType() string { return "limit_order_filled" }

type EmergencyPauseEvent struct {
	PoolHash string
	Admin    string
}

func (EmergencyPauseEvent) EventType() string { return "emergency_pause" }

type EmergencyResumeEvent struct {
	PoolHash string
	Admin    string
}

func (EmergencyResumeEvent) EventType() string { return "emergency_resume" }
