// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

// Cursored exposes the producer cursor of a sequencer or ring buffer.
type Cursored interface {
	// CursorSequence returns the cursor itself, for use as a dependency.
	CursorSequence() *Sequence
}

// Alerter reports whether a cooperative halt has been requested.
// Wait strategies check it on every loop iteration.
type Alerter interface {
	IsAlerted() bool
}

// Sequencer coordinates claiming and publishing of sequences and tracks
// the gating sequences producers must not overrun.
//
// Two implementations exist: SingleProducerSequencer, for a single
// publishing goroutine, and MultiProducerSequencer, which is safe for any
// number of concurrent publishers.
type Sequencer interface {
	Cursored

	// Cursor returns the current cursor value.
	Cursor() int64

	// BufferSize returns the capacity of the underlying ring.
	BufferSize() int

	// HasAvailableCapacity reports whether required sequences could be
	// claimed right now without wrapping over a gating sequence.
	HasAvailableCapacity(required int) bool

	// RemainingCapacity returns the number of unclaimed slots.
	RemainingCapacity() int64

	// Next claims the next sequence, spinning until the slot is free.
	Next() int64

	// NextN claims the next n sequences and returns the highest.
	// Panics if n < 1 or n > BufferSize().
	NextN(n int) int64

	// TryNext claims the next sequence without waiting.
	// Returns ErrInsufficientCapacity when the ring is full.
	TryNext() (int64, error)

	// TryNextN claims the next n sequences without waiting and returns
	// the highest. Returns ErrInsufficientCapacity when they do not fit.
	TryNextN(n int) (int64, error)

	// Publish makes sequence available to consumers.
	Publish(sequence int64)

	// PublishRange makes every sequence in [lo, hi] available.
	PublishRange(lo, hi int64)

	// IsAvailable reports whether sequence has been published.
	IsAvailable(sequence int64) bool

	// HighestPublishedSequence returns the highest sequence in
	// [lowerBound, availableSequence] such that it and every sequence
	// below it are published, or lowerBound-1 if none is.
	HighestPublishedSequence(lowerBound, availableSequence int64) int64

	// Claim moves the cursor to sequence. Only for initialization, while
	// no producer or consumer is active.
	Claim(sequence int64)

	// AddGatingSequences registers consumer sequences the producer must
	// stay behind. A SequenceGroup counts as one sequence.
	AddGatingSequences(seqs ...SequenceReader)

	// RemoveGatingSequence unregisters seq and reports whether it was found.
	RemoveGatingSequence(seq SequenceReader) bool

	// MinimumSequence returns the minimum of the gating sequences, or the
	// cursor when there are none.
	MinimumSequence() int64

	// NewBarrier creates a barrier over the cursor and the given
	// upstream sequences.
	NewBarrier(deps ...SequenceReader) *SequenceBarrier

	// WaitStrategy returns the strategy consumers block with.
	WaitStrategy() WaitStrategy
}

// EventProcessor is a consumer loop that owns one Sequence.
//
// Run blocks the calling goroutine until Halt is called or a fatal error
// occurs; callers typically start it with `go p.Run()` or hand it to an
// Executor.
type EventProcessor interface {
	// Run processes events until halted. Returns ErrAlreadyRunning if
	// another Run is active, or the fatal error that stopped the loop.
	Run() error

	// Halt requests the loop to stop after the current event.
	Halt()

	// IsRunning reports whether Run is active.
	IsRunning() bool

	// Sequence returns the processor's progress, for gating and
	// downstream barriers.
	Sequence() *Sequence
}
