// Package concentrated_liquidity is the pool engine: pool lifecycle,
// liquidity provision, fee collection, and swap execution over the
// composite-key ledger and token subledger. The package name mirrors
// the teacher module's own x/concentrated-liquidity, carried forward
// deliberately so the lineage of the design is legible.
package concentrated_liquidity

import (
	"context"

	"cosmossdk.io/log"

	"github.com/GalaChain/dex-sub000/concentrated_liquidity/types"
	"github.com/GalaChain/dex-sub000/ledger"
	"github.com/GalaChain/dex-sub000/tokenledger"
)

// EventSink receives every event this package's operations emit.
// spec.md names the events but not a delivery mechanism; a host wires
// this to its own event bus, while tests use the in-memory recorder.
type EventSink interface {
	Emit(ctx context.Context, event types.Event)
}

// NoopEventSink discards every event. The zero value is ready to use.
type NoopEventSink struct{}

func (NoopEventSink) Emit(context.Context, types.Event) {}

// RecordingEventSink appends every emitted event to Events, for
// assertions in tests.
type RecordingEventSink struct {
	Events []types.Event
}

func (s *RecordingEventSink) Emit(_ context.Context, event types.Event) {
	s.Events = append(s.Events, event)
}

// Keeper is the receiver every pool-engine operation hangs off, in the
// teacher's Keeper-struct-with-store-and-subledger-fields convention.
type Keeper struct {
	Store     ledger.Store
	Tokens    tokenledger.Subledger
	Scheduler Scheduler
	Events    EventSink
	Logger    log.Logger
}

// NewKeeper wires a Keeper over the given store and subledger, setting
// the scheduler to the cooperative 10-step yield and the event sink to a
// no-op.
func NewKeeper(store ledger.Store, tokens tokenledger.Subledger, logger log.Logger) *Keeper {
	return &Keeper{
		Store:     store,
		Tokens:    tokens,
		Scheduler: NewDefaultScheduler(10),
		Events:    NoopEventSink{},
		Logger:    logger,
	}
}

func (k *Keeper) emit(ctx context.Context, event types.Event) {
	if k.Events == nil {
		return
	}
	k.Events.Emit(ctx, event)
}
