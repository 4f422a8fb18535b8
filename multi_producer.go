// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

import (
	"math/bits"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// MultiProducerSequencer is a Sequencer safe for concurrent publishers.
//
// Producers claim by CAS on the cursor. Because claims can be published
// out of order, each slot records the lap (sequence >> log2(size)) that
// last published it, in the same way per-slot cycles validate slots in the
// FAA queues. Consumers only ever see the contiguous published prefix via
// HighestPublishedSequence.
//
// Memory: one int32 lap flag per slot, plus a padded gating cache.
type MultiProducerSequencer struct {
	sequencerCore
	gatingCache     Sequence // Cached minimum gating sequence (padded)
	availableBuffer []atomix.Int32
	indexMask       int64
	indexShift      uint
}

// NewMultiProducerSequencer creates a multi-producer sequencer.
// bufferSize must be a power of 2.
func NewMultiProducerSequencer(bufferSize int, ws WaitStrategy) (*MultiProducerSequencer, error) {
	if err := validateSequencerArgs(bufferSize, ws); err != nil {
		return nil, err
	}
	s := &MultiProducerSequencer{
		availableBuffer: make([]atomix.Int32, bufferSize),
		indexMask:       int64(bufferSize - 1),
		indexShift:      uint(bits.TrailingZeros(uint(bufferSize))),
	}
	s.init(bufferSize, ws)
	s.gatingCache.SetRelaxed(InitialSequenceValue)

	for i := range s.availableBuffer {
		s.availableBuffer[i].StoreRelaxed(-1)
	}
	return s, nil
}

// HasAvailableCapacity reports whether required slots can be claimed now.
func (s *MultiProducerSequencer) HasAvailableCapacity(required int) bool {
	return s.hasAvailableCapacity(required, s.cursor.Get())
}

func (s *MultiProducerSequencer) hasAvailableCapacity(required int, cursorValue int64) bool {
	wrapPoint := cursorValue + int64(required) - int64(s.bufferSize)
	cached := s.gatingCache.Get()

	if wrapPoint > cached || cached > cursorValue {
		minSequence := MinimumSequence(s.gating.load(), cursorValue)
		s.gatingCache.Set(minSequence)
		if wrapPoint > minSequence {
			return false
		}
	}
	return true
}

// Next claims the next sequence.
func (s *MultiProducerSequencer) Next() int64 {
	return s.NextN(1)
}

// NextN claims n sequences and returns the highest. Spins while the claim
// would overwrite a slot a gating consumer has not processed.
func (s *MultiProducerSequencer) NextN(n int) int64 {
	s.checkBatch(n)

	sw := spin.Wait{}
	for {
		current := s.cursor.Get()
		next := current + int64(n)
		wrapPoint := next - int64(s.bufferSize)
		cached := s.gatingCache.Get()

		if wrapPoint > cached || cached > current {
			gatingSequence := MinimumSequence(s.gating.load(), current)
			if wrapPoint > gatingSequence {
				sw.Once()
				continue
			}
			s.gatingCache.Set(gatingSequence)
		} else if s.cursor.CompareAndSwap(current, next) {
			return next
		}
	}
}

// TryNext claims the next sequence without waiting.
func (s *MultiProducerSequencer) TryNext() (int64, error) {
	return s.TryNextN(1)
}

// TryNextN claims n sequences without waiting.
// Returns ErrInsufficientCapacity if they do not fit.
func (s *MultiProducerSequencer) TryNextN(n int) (int64, error) {
	s.checkBatch(n)

	for {
		current := s.cursor.Get()
		next := current + int64(n)
		if !s.hasAvailableCapacity(n, current) {
			return 0, ErrInsufficientCapacity
		}
		if s.cursor.CompareAndSwap(current, next) {
			return next, nil
		}
	}
}

// RemainingCapacity returns the number of slots that can still be claimed.
func (s *MultiProducerSequencer) RemainingCapacity() int64 {
	produced := s.cursor.Get()
	consumed := MinimumSequence(s.gating.load(), produced)
	return int64(s.bufferSize) - (produced - consumed)
}

// Claim sets the cursor. Initialization only.
func (s *MultiProducerSequencer) Claim(sequence int64) {
	s.cursor.Set(sequence)
}

// Publish marks sequence available and wakes blocked consumers.
func (s *MultiProducerSequencer) Publish(sequence int64) {
	s.setAvailable(sequence)
	s.waitStrategy.SignalAllWhenBlocking()
}

// PublishRange marks every sequence in [lo, hi] available.
func (s *MultiProducerSequencer) PublishRange(lo, hi int64) {
	for seq := lo; seq <= hi; seq++ {
		s.setAvailable(seq)
	}
	s.waitStrategy.SignalAllWhenBlocking()
}

// setAvailable stores the lap of sequence into its slot flag. The release
// store orders the producer's slot writes before the flag.
func (s *MultiProducerSequencer) setAvailable(sequence int64) {
	s.availableBuffer[sequence&s.indexMask].StoreRelease(s.lap(sequence))
}

func (s *MultiProducerSequencer) lap(sequence int64) int32 {
	return int32(uint64(sequence) >> s.indexShift)
}

// IsAvailable reports whether sequence has been published in its lap.
func (s *MultiProducerSequencer) IsAvailable(sequence int64) bool {
	return s.availableBuffer[sequence&s.indexMask].LoadAcquire() == s.lap(sequence)
}

// HighestPublishedSequence scans upward from lowerBound and returns the
// sequence before the first unpublished one, or availableSequence if all
// are published.
func (s *MultiProducerSequencer) HighestPublishedSequence(lowerBound, availableSequence int64) int64 {
	for seq := lowerBound; seq <= availableSequence; seq++ {
		if !s.IsAvailable(seq) {
			return seq - 1
		}
	}
	return availableSequence
}

// NewBarrier creates a barrier over the cursor and deps.
func (s *MultiProducerSequencer) NewBarrier(deps ...SequenceReader) *SequenceBarrier {
	return newSequenceBarrier(s, deps)
}
