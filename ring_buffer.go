// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

// EventFactory creates the value that pre-fills one ring buffer slot.
type EventFactory[E any] func() E

// RingBuffer is a fixed-size array of pre-allocated events addressed by
// sequence.
//
// Slots are mutated in place. A producer owns the slot of a sequence from
// the moment it is claimed until it is published; after that the slot is
// readable by any consumer whose barrier has released the sequence. No
// lock protects the slots: all coordination happens in the Sequencer.
//
// Typical producer:
//
//	seq := rb.Next()
//	ev := rb.Get(seq)
//	ev.Value = 42
//	rb.Publish(seq)
//
// or, with publish guaranteed even if the translator panics:
//
//	rb.PublishEvent(func(ev *Event, seq int64) { ev.Value = 42 })
type RingBuffer[E any] struct {
	_         pad
	entries   []E
	mask      int64
	sequencer Sequencer
	_         pad
}

// NewRingBuffer creates a ring buffer with a sequencer of the given
// producer type. bufferSize must be a power of 2 and >= 1.
func NewRingBuffer[E any](producer ProducerType, factory EventFactory[E], bufferSize int, ws WaitStrategy) (*RingBuffer[E], error) {
	if factory == nil {
		return nil, ErrNilArgument
	}
	sequencer, err := NewSequencer(producer, bufferSize, ws)
	if err != nil {
		return nil, err
	}
	return NewRingBufferWithSequencer(factory, sequencer)
}

// CreateSingleProducer creates a ring buffer for one publishing goroutine.
func CreateSingleProducer[E any](factory EventFactory[E], bufferSize int, ws WaitStrategy) (*RingBuffer[E], error) {
	return NewRingBuffer(SingleProducer, factory, bufferSize, ws)
}

// CreateMultiProducer creates a ring buffer safe for concurrent publishers.
func CreateMultiProducer[E any](factory EventFactory[E], bufferSize int, ws WaitStrategy) (*RingBuffer[E], error) {
	return NewRingBuffer(MultiProducer, factory, bufferSize, ws)
}

// NewRingBufferWithSequencer creates a ring buffer over an existing
// sequencer and fills every slot from factory.
func NewRingBufferWithSequencer[E any](factory EventFactory[E], sequencer Sequencer) (*RingBuffer[E], error) {
	if factory == nil || sequencer == nil {
		return nil, ErrNilArgument
	}
	size := sequencer.BufferSize()
	if !isPowerOf2(size) {
		return nil, ErrInvalidBufferSize
	}

	rb := &RingBuffer[E]{
		entries:   make([]E, size),
		mask:      int64(size - 1),
		sequencer: sequencer,
	}
	for i := range rb.entries {
		rb.entries[i] = factory()
	}
	return rb, nil
}

// Get returns the slot for sequence. Only valid for sequences the caller
// has claimed, or that a barrier has released.
func (rb *RingBuffer[E]) Get(sequence int64) *E {
	return &rb.entries[sequence&rb.mask]
}

// Next claims the next sequence, spinning while the ring is full.
func (rb *RingBuffer[E]) Next() int64 {
	return rb.sequencer.Next()
}

// NextN claims n sequences and returns the highest.
//
//	hi := rb.NextN(10)
//	lo := hi - 9
//	for seq := lo; seq <= hi; seq++ {
//	    rb.Get(seq).Value = seq
//	}
//	rb.PublishRange(lo, hi)
func (rb *RingBuffer[E]) NextN(n int) int64 {
	return rb.sequencer.NextN(n)
}

// TryNext claims the next sequence without waiting.
// Returns ErrInsufficientCapacity when the ring is full.
func (rb *RingBuffer[E]) TryNext() (int64, error) {
	return rb.sequencer.TryNext()
}

// TryNextN claims n sequences without waiting.
// Returns ErrInsufficientCapacity when they do not fit.
func (rb *RingBuffer[E]) TryNextN(n int) (int64, error) {
	return rb.sequencer.TryNextN(n)
}

// Publish makes sequence visible to consumers.
func (rb *RingBuffer[E]) Publish(sequence int64) {
	rb.sequencer.Publish(sequence)
}

// PublishRange makes every sequence in [lo, hi] visible to consumers.
func (rb *RingBuffer[E]) PublishRange(lo, hi int64) {
	rb.sequencer.PublishRange(lo, hi)
}

// ResetTo moves the cursor to sequence and publishes it.
//
// Only for initialization or recovery while no producer or consumer is
// active; gating sequences must be moved by the caller.
func (rb *RingBuffer[E]) ResetTo(sequence int64) {
	rb.sequencer.Claim(sequence)
	rb.sequencer.Publish(sequence)
}

// ClaimAndGetPreallocated moves the producer to sequence and returns its
// slot. Initialization only; the caller must Publish the sequence.
func (rb *RingBuffer[E]) ClaimAndGetPreallocated(sequence int64) *E {
	rb.sequencer.Claim(sequence)
	return rb.Get(sequence)
}

// IsPublished reports whether sequence has been published.
func (rb *RingBuffer[E]) IsPublished(sequence int64) bool {
	return rb.sequencer.IsAvailable(sequence)
}

// HasAvailableCapacity reports whether required slots can be claimed now.
func (rb *RingBuffer[E]) HasAvailableCapacity(required int) bool {
	return rb.sequencer.HasAvailableCapacity(required)
}

// RemainingCapacity returns the number of slots that can still be claimed.
func (rb *RingBuffer[E]) RemainingCapacity() int64 {
	return rb.sequencer.RemainingCapacity()
}

// Cursor returns the current cursor value.
func (rb *RingBuffer[E]) Cursor() int64 {
	return rb.sequencer.Cursor()
}

// CursorSequence returns the producer cursor.
func (rb *RingBuffer[E]) CursorSequence() *Sequence {
	return rb.sequencer.CursorSequence()
}

// BufferSize returns the number of slots.
func (rb *RingBuffer[E]) BufferSize() int {
	return len(rb.entries)
}

// AddGatingSequences registers consumer sequences producers must not
// overrun. Sequences, SequenceGroups and FixedSequenceGroups are accepted.
func (rb *RingBuffer[E]) AddGatingSequences(seqs ...SequenceReader) {
	rb.sequencer.AddGatingSequences(seqs...)
}

// RemoveGatingSequence unregisters seq and reports whether it was found.
func (rb *RingBuffer[E]) RemoveGatingSequence(seq SequenceReader) bool {
	return rb.sequencer.RemoveGatingSequence(seq)
}

// MinimumGatingSequence returns the slowest gating sequence, or the cursor
// when none is registered.
func (rb *RingBuffer[E]) MinimumGatingSequence() int64 {
	return rb.sequencer.MinimumSequence()
}

// NewBarrier creates a barrier over the cursor and deps.
func (rb *RingBuffer[E]) NewBarrier(deps ...SequenceReader) *SequenceBarrier {
	return rb.sequencer.NewBarrier(deps...)
}

// NewPoller creates a Poller gated on deps, or on the cursor when deps is
// empty. The poller's own sequence is not registered as a gating sequence;
// use AddGatingSequences(p.Sequence()) for that.
func (rb *RingBuffer[E]) NewPoller(deps ...SequenceReader) *Poller[E] {
	return newPoller(rb, rb.sequencer, deps)
}

// Sequencer returns the underlying sequencer.
func (rb *RingBuffer[E]) Sequencer() Sequencer {
	return rb.sequencer
}
