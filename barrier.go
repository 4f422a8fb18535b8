// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

import "code.hybscloud.com/atomix"

// SequenceBarrier is what a consumer waits on. It combines the producer
// cursor with the sequences of upstream consumers, so a consumer never
// passes the producer or any consumer it depends on.
//
// A barrier is immutable after construction except for its alert flag,
// which carries cooperative halt requests to a waiting consumer.
type SequenceBarrier struct {
	_            pad
	alerted      atomix.Bool
	_            pad
	sequencer    Sequencer
	waitStrategy WaitStrategy
	cursor       *Sequence
	dependent    SequenceReader
}

func newSequenceBarrier(sequencer Sequencer, deps []SequenceReader) *SequenceBarrier {
	b := &SequenceBarrier{
		sequencer:    sequencer,
		waitStrategy: sequencer.WaitStrategy(),
		cursor:       sequencer.CursorSequence(),
	}
	switch len(deps) {
	case 0:
		b.dependent = b.cursor
	case 1:
		b.dependent = deps[0]
	default:
		b.dependent = NewFixedSequenceGroup(deps...)
	}
	return b
}

// WaitFor waits until sequence is available and returns the highest
// sequence that is safe to read, which may be below sequence if a
// multi-producer publication is still in flight, or above it if more has
// been published.
//
// Returns WaitAlerted if the barrier is or becomes alerted, and
// WaitTimedOut if the wait strategy gives up.
func (b *SequenceBarrier) WaitFor(sequence int64) (int64, WaitStatus) {
	if b.alerted.Load() {
		return InitialSequenceValue, WaitAlerted
	}

	available, status := b.waitStrategy.WaitFor(sequence, b.cursor, b.dependent, b)
	if status != WaitOK {
		return available, status
	}
	// An empty SequenceGroup dependency reads as math.MaxInt64.
	if cursor := b.cursor.Get(); available > cursor {
		available = cursor
	}
	if available < sequence {
		return available, WaitOK
	}
	return b.sequencer.HighestPublishedSequence(sequence, available), WaitOK
}

// Cursor returns the value of the dependent sequence, the cursor when the
// barrier has no upstream consumers.
func (b *SequenceBarrier) Cursor() int64 {
	return b.dependent.Get()
}

// IsAlerted reports whether Alert has been called since the last
// ClearAlert.
func (b *SequenceBarrier) IsAlerted() bool {
	return b.alerted.Load()
}

// Alert raises the alert flag and wakes any goroutine blocked in WaitFor.
func (b *SequenceBarrier) Alert() {
	b.alerted.Store(true)
	b.waitStrategy.SignalAllWhenBlocking()
}

// ClearAlert lowers the alert flag.
func (b *SequenceBarrier) ClearAlert() {
	b.alerted.Store(false)
}

// CheckAlert reports whether the barrier is alerted. It is the status
// form of the check WaitFor performs on entry.
func (b *SequenceBarrier) CheckAlert() WaitStatus {
	if b.alerted.Load() {
		return WaitAlerted
	}
	return WaitOK
}
