// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

import "fmt"

// PollState is the outcome of a Poll call.
type PollState uint8

const (
	// PollProcessing means at least one event was handed to the handler.
	PollProcessing PollState = iota
	// PollGating means events are published but an upstream gating
	// sequence has not released them yet.
	PollGating
	// PollIdle means nothing new has been published.
	PollIdle
)

func (s PollState) String() string {
	switch s {
	case PollProcessing:
		return "processing"
	case PollGating:
		return "gating"
	case PollIdle:
		return "idle"
	default:
		return fmt.Sprintf("PollState(%d)", uint8(s))
	}
}

// PollHandler receives polled events. Returning false stops the current
// Poll after this event; the remaining events are delivered by the next
// Poll.
type PollHandler[E any] func(event *E, sequence int64, endOfBatch bool) (more bool, err error)

// Poller is a non-blocking consumer: each Poll drains what is available
// right now and returns instead of waiting.
//
// Useful when the consuming goroutine has other work, such as an event
// loop that services several sources.
type Poller[E any] struct {
	ringBuffer *RingBuffer[E]
	sequencer  Sequencer
	sequence   *Sequence
	gating     SequenceReader
}

func newPoller[E any](rb *RingBuffer[E], sequencer Sequencer, deps []SequenceReader) *Poller[E] {
	p := &Poller[E]{
		ringBuffer: rb,
		sequencer:  sequencer,
		sequence:   NewSequence(InitialSequenceValue),
	}
	switch len(deps) {
	case 0:
		p.gating = sequencer.CursorSequence()
	case 1:
		p.gating = deps[0]
	default:
		p.gating = NewFixedSequenceGroup(deps...)
	}
	return p
}

// Sequence returns the poller's progress, for gating.
func (p *Poller[E]) Sequence() *Sequence {
	return p.sequence
}

// Poll hands every available event to handler until it returns false or
// an error, or the available range is exhausted. Progress up to the last
// event the handler accepted is committed even when the handler fails; the
// failed event is delivered again by the next Poll.
func (p *Poller[E]) Poll(handler PollHandler[E]) (PollState, error) {
	current := p.sequence.Get()
	next := current + 1
	available := min(p.gating.Get(), p.sequencer.Cursor())
	available = p.sequencer.HighestPublishedSequence(next, available)

	if next <= available {
		processed := current
		defer func() { p.sequence.Set(processed) }()

		for next <= available {
			more, err := handler(p.ringBuffer.Get(next), next, next == available)
			if err != nil {
				return PollProcessing, err
			}
			processed = next
			next++
			if !more {
				break
			}
		}
		return PollProcessing, nil
	}

	if p.sequencer.Cursor() >= next {
		return PollGating, nil
	}
	return PollIdle, nil
}
