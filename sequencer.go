// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

// ProducerType selects the claim strategy of a sequencer.
type ProducerType uint8

const (
	// SingleProducer is for exactly one publishing goroutine. Claims need
	// no CAS and publication order equals claim order.
	SingleProducer ProducerType = iota
	// MultiProducer is safe for any number of publishing goroutines.
	MultiProducer
)

func (p ProducerType) String() string {
	if p == SingleProducer {
		return "single-producer"
	}
	return "multi-producer"
}

// NewSequencer creates a sequencer of the given type.
// Returns ErrInvalidBufferSize or ErrNilArgument on bad configuration.
func NewSequencer(producer ProducerType, bufferSize int, ws WaitStrategy) (Sequencer, error) {
	if producer == SingleProducer {
		s, err := NewSingleProducerSequencer(bufferSize, ws)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := NewMultiProducerSequencer(bufferSize, ws)
	if err != nil {
		return nil, err
	}
	return s, nil
}

var (
	_ Sequencer = (*SingleProducerSequencer)(nil)
	_ Sequencer = (*MultiProducerSequencer)(nil)
)

// sequencerCore holds the state shared by both sequencer variants: the
// producer cursor, the gating sequences and the wait strategy.
type sequencerCore struct {
	bufferSize   int
	waitStrategy WaitStrategy
	cursor       *Sequence
	gating       sequenceSet[SequenceReader]
}

func validateSequencerArgs(bufferSize int, ws WaitStrategy) error {
	if !isPowerOf2(bufferSize) {
		return ErrInvalidBufferSize
	}
	if ws == nil {
		return ErrNilArgument
	}
	return nil
}

func (s *sequencerCore) init(bufferSize int, ws WaitStrategy) {
	s.bufferSize = bufferSize
	s.waitStrategy = ws
	s.cursor = NewSequence(InitialSequenceValue)
}

func (s *sequencerCore) checkBatch(n int) {
	if n < 1 || n > s.bufferSize {
		panic("disruptor: n must be > 0 and <= buffer size")
	}
}

// CursorSequence returns the producer cursor.
func (s *sequencerCore) CursorSequence() *Sequence {
	return s.cursor
}

// Cursor returns the current cursor value.
func (s *sequencerCore) Cursor() int64 {
	return s.cursor.Get()
}

// BufferSize returns the ring capacity.
func (s *sequencerCore) BufferSize() int {
	return s.bufferSize
}

// WaitStrategy returns the strategy consumers wait with.
func (s *sequencerCore) WaitStrategy() WaitStrategy {
	return s.waitStrategy
}

// AddGatingSequences registers seqs. Each settable one is first moved to
// the current cursor.
func (s *sequencerCore) AddGatingSequences(seqs ...SequenceReader) {
	s.gating.add(s.cursor, seqs...)
}

// RemoveGatingSequence unregisters seq.
func (s *sequencerCore) RemoveGatingSequence(seq SequenceReader) bool {
	return s.gating.remove(seq)
}

// MinimumSequence returns the slowest gating sequence, or the cursor when
// none is registered.
func (s *sequencerCore) MinimumSequence() int64 {
	return MinimumSequence(s.gating.load(), s.cursor.Get())
}

// isPowerOf2 reports whether n is a positive power of 2.
func isPowerOf2(n int) bool {
	return n > 0 && n&(n-1) == 0
}
