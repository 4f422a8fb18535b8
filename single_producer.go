// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

import "code.hybscloud.com/spin"

// SingleProducerSequencer is a Sequencer for exactly one publishing
// goroutine.
//
// The producer keeps its last claimed sequence and a cached view of the
// slowest gating sequence in plain fields. The gating sequences are only
// scanned when the cache says the claim might wrap.
//
// Claim and publish methods must be called from the producer goroutine
// only. Violating this causes undefined behavior.
type SingleProducerSequencer struct {
	sequencerCore
	_           pad
	nextValue   int64 // Last claimed sequence
	cachedValue int64 // Producer's cached view of the slowest consumer
	_           pad
}

// NewSingleProducerSequencer creates a single-producer sequencer.
// bufferSize must be a power of 2.
func NewSingleProducerSequencer(bufferSize int, ws WaitStrategy) (*SingleProducerSequencer, error) {
	if err := validateSequencerArgs(bufferSize, ws); err != nil {
		return nil, err
	}
	s := &SingleProducerSequencer{
		nextValue:   InitialSequenceValue,
		cachedValue: InitialSequenceValue,
	}
	s.init(bufferSize, ws)
	return s, nil
}

// HasAvailableCapacity reports whether required slots can be claimed now.
func (s *SingleProducerSequencer) HasAvailableCapacity(required int) bool {
	nextValue := s.nextValue
	wrapPoint := nextValue + int64(required) - int64(s.bufferSize)
	cached := s.cachedValue

	if wrapPoint > cached || cached > nextValue {
		minSequence := MinimumSequence(s.gating.load(), nextValue)
		s.cachedValue = minSequence
		if wrapPoint > minSequence {
			return false
		}
	}
	return true
}

// Next claims the next sequence.
func (s *SingleProducerSequencer) Next() int64 {
	return s.NextN(1)
}

// NextN claims n sequences and returns the highest. Spins while the claim
// would overwrite a slot a gating consumer has not processed.
func (s *SingleProducerSequencer) NextN(n int) int64 {
	s.checkBatch(n)

	nextValue := s.nextValue
	nextSequence := nextValue + int64(n)
	wrapPoint := nextSequence - int64(s.bufferSize)
	cached := s.cachedValue

	// cached > nextValue happens after Claim moved the producer backward.
	if wrapPoint > cached || cached > nextValue {
		sw := spin.Wait{}
		minSequence := MinimumSequence(s.gating.load(), nextValue)
		for wrapPoint > minSequence {
			sw.Once()
			minSequence = MinimumSequence(s.gating.load(), nextValue)
		}
		s.cachedValue = minSequence
	}

	s.nextValue = nextSequence
	return nextSequence
}

// TryNext claims the next sequence without waiting.
func (s *SingleProducerSequencer) TryNext() (int64, error) {
	return s.TryNextN(1)
}

// TryNextN claims n sequences without waiting.
// Returns ErrInsufficientCapacity if they do not fit.
func (s *SingleProducerSequencer) TryNextN(n int) (int64, error) {
	s.checkBatch(n)
	if !s.HasAvailableCapacity(n) {
		return 0, ErrInsufficientCapacity
	}
	s.nextValue += int64(n)
	return s.nextValue, nil
}

// RemainingCapacity returns the number of slots that can still be claimed.
func (s *SingleProducerSequencer) RemainingCapacity() int64 {
	nextValue := s.nextValue
	consumed := MinimumSequence(s.gating.load(), nextValue)
	return int64(s.bufferSize) - (nextValue - consumed)
}

// Claim sets the last claimed sequence. Initialization only.
func (s *SingleProducerSequencer) Claim(sequence int64) {
	s.nextValue = sequence
}

// Publish moves the cursor to sequence and wakes blocked consumers.
func (s *SingleProducerSequencer) Publish(sequence int64) {
	s.cursor.Set(sequence)
	s.waitStrategy.SignalAllWhenBlocking()
}

// PublishRange publishes [lo, hi]. A single producer publishes in order, so
// moving the cursor to hi covers the whole range.
func (s *SingleProducerSequencer) PublishRange(_, hi int64) {
	s.Publish(hi)
}

// IsAvailable reports whether sequence has been published.
func (s *SingleProducerSequencer) IsAvailable(sequence int64) bool {
	return sequence <= s.cursor.Get()
}

// HighestPublishedSequence returns availableSequence: everything up to the
// cursor is published in order.
func (s *SingleProducerSequencer) HighestPublishedSequence(_, availableSequence int64) int64 {
	return availableSequence
}

// NewBarrier creates a barrier over the cursor and deps.
func (s *SingleProducerSequencer) NewBarrier(deps ...SequenceReader) *SequenceBarrier {
	return newSequenceBarrier(s, deps)
}
