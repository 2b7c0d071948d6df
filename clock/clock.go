// Package clock provides the third polymorphic capability the pool
// engine is built against, alongside ledger.Store and
// tokenledger.Subledger: a source of the current tx-time a keeper
// compares commitment/order expiry against. A real host backs this with
// its block height or block timestamp; the in-memory/CLI harness runs
// against either System (wall-clock) or a Fixed value in tests.
package clock

import (
	"context"
	"time"
)

// Clock reports the current instant a caller's operation should be
// evaluated against. The unit is up to the host: GalaChain-style hosts
// treat it as a block height, a wall-clock host treats it as Unix
// seconds. Every caller in this module only ever compares it against a
// caller-supplied expiry of the same unit.
type Clock interface {
	Now(ctx context.Context) int64
}

// System reports the real wall-clock time as Unix seconds.
type System struct{}

func (System) Now(context.Context) int64 { return time.Now().Unix() }

// Fixed reports a constant value, for tests and dry-run quoting that
// must not depend on wall-clock time to stay reproducible.
type Fixed struct {
	Time int64
}

func (f Fixed) Now(context.Context) int64 { return f.Time }
