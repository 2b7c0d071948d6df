package concentrated_liquidity

import (
	"context"
	"runtime"
)

// Scheduler is the cooperative yield point the swap stepper calls
// between steps, per spec.md section 5's single-threaded cooperative
// scheduling model: a long-running swap across many initialised ticks
// periodically hands control back to the host event loop rather than
// running to completion uninterruptibly.
type Scheduler interface {
	// Yield is called before each step of the swap stepper loop, with
	// the number of steps this swap has already taken (0 on the first
	// call). Implementations
	// decide whether and how to actually relinquish the goroutine;
	// returning a non-nil error (e.g. from ctx) aborts the swap.
	Yield(ctx context.Context, stepsSinceYield int) error
}

// DefaultScheduler yields every chunkSize steps via runtime.Gosched and
// otherwise only checks ctx for cancellation. No pack library models a
// single-threaded cooperative event loop of this shape, so this piece
// is intentionally stdlib (context, runtime) — see DESIGN.md.
type DefaultScheduler struct {
	chunkSize int
}

// NewDefaultScheduler returns a scheduler that yields every chunkSize
// steps; spec.md's default chunk size is 10.
func NewDefaultScheduler(chunkSize int) *DefaultScheduler {
	if chunkSize <= 0 {
		chunkSize = 10
	}
	return &DefaultScheduler{chunkSize: chunkSize}
}

func (s *DefaultScheduler) Yield(ctx context.Context, stepsSinceYield int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if stepsSinceYield > 0 && stepsSinceYield%s.chunkSize == 0 {
		runtime.Gosched()
	}
	return nil
}
