// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

// EventTranslator writes a claimed slot.
type EventTranslator[E any] func(event *E, sequence int64)

// EventTranslatorOneArg writes a claimed slot from one argument.
type EventTranslatorOneArg[E, A any] func(event *E, sequence int64, a A)

// EventTranslatorTwoArg writes a claimed slot from two arguments.
type EventTranslatorTwoArg[E, A, B any] func(event *E, sequence int64, a A, b B)

// EventTranslatorThreeArg writes a claimed slot from three arguments.
type EventTranslatorThreeArg[E, A, B, C any] func(event *E, sequence int64, a A, b B, c C)

// EventTranslatorVarArg writes a claimed slot from any number of arguments.
type EventTranslatorVarArg[E any] func(event *E, sequence int64, args ...any)

// The publish helpers claim, translate and publish. Publish runs in a
// deferred call, so a panicking translator still releases its sequences
// and cannot stall consumers.

func (rb *RingBuffer[E]) translateAndPublish(sequence int64, fill func(event *E, sequence int64)) {
	defer rb.sequencer.Publish(sequence)
	fill(rb.Get(sequence), sequence)
}

func (rb *RingBuffer[E]) translateAndPublishBatch(n int, finalSequence int64, fill func(event *E, sequence int64, i int)) {
	initial := finalSequence - int64(n-1)
	defer rb.sequencer.PublishRange(initial, finalSequence)
	for i := range n {
		seq := initial + int64(i)
		fill(rb.Get(seq), seq, i)
	}
}

// PublishEvent claims the next slot, fills it with tr and publishes it.
func (rb *RingBuffer[E]) PublishEvent(tr EventTranslator[E]) {
	rb.translateAndPublish(rb.sequencer.Next(), tr)
}

// TryPublishEvent is PublishEvent without waiting.
// Returns ErrInsufficientCapacity when the ring is full.
func (rb *RingBuffer[E]) TryPublishEvent(tr EventTranslator[E]) error {
	seq, err := rb.sequencer.TryNext()
	if err != nil {
		return err
	}
	rb.translateAndPublish(seq, tr)
	return nil
}

// PublishEvents claims one slot per translator and publishes them as a
// batch.
func (rb *RingBuffer[E]) PublishEvents(trs ...EventTranslator[E]) {
	if len(trs) == 0 {
		return
	}
	final := rb.sequencer.NextN(len(trs))
	rb.translateAndPublishBatch(len(trs), final, func(ev *E, seq int64, i int) {
		trs[i](ev, seq)
	})
}

// TryPublishEvents is PublishEvents without waiting.
func (rb *RingBuffer[E]) TryPublishEvents(trs ...EventTranslator[E]) error {
	if len(trs) == 0 {
		return nil
	}
	final, err := rb.sequencer.TryNextN(len(trs))
	if err != nil {
		return err
	}
	rb.translateAndPublishBatch(len(trs), final, func(ev *E, seq int64, i int) {
		trs[i](ev, seq)
	})
	return nil
}

// PublishEventVarArgs claims the next slot and fills it with tr(args...).
func (rb *RingBuffer[E]) PublishEventVarArgs(tr EventTranslatorVarArg[E], args ...any) {
	rb.translateAndPublish(rb.sequencer.Next(), func(ev *E, seq int64) {
		tr(ev, seq, args...)
	})
}

// TryPublishEventVarArgs is PublishEventVarArgs without waiting.
func (rb *RingBuffer[E]) TryPublishEventVarArgs(tr EventTranslatorVarArg[E], args ...any) error {
	seq, err := rb.sequencer.TryNext()
	if err != nil {
		return err
	}
	rb.translateAndPublish(seq, func(ev *E, seq int64) {
		tr(ev, seq, args...)
	})
	return nil
}

// PublishEventsVarArgs publishes one event per element of args.
func (rb *RingBuffer[E]) PublishEventsVarArgs(tr EventTranslatorVarArg[E], args ...[]any) {
	if len(args) == 0 {
		return
	}
	final := rb.sequencer.NextN(len(args))
	rb.translateAndPublishBatch(len(args), final, func(ev *E, seq int64, i int) {
		tr(ev, seq, args[i]...)
	})
}

// TryPublishEventsVarArgs is PublishEventsVarArgs without waiting.
func (rb *RingBuffer[E]) TryPublishEventsVarArgs(tr EventTranslatorVarArg[E], args ...[]any) error {
	if len(args) == 0 {
		return nil
	}
	final, err := rb.sequencer.TryNextN(len(args))
	if err != nil {
		return err
	}
	rb.translateAndPublishBatch(len(args), final, func(ev *E, seq int64, i int) {
		tr(ev, seq, args[i]...)
	})
	return nil
}

// PublishEventArg claims the next slot and fills it with tr(a).
//
// Methods cannot declare type parameters, so the typed argument helpers
// are package functions.
func PublishEventArg[E, A any](rb *RingBuffer[E], tr EventTranslatorOneArg[E, A], a A) {
	rb.translateAndPublish(rb.sequencer.Next(), func(ev *E, seq int64) {
		tr(ev, seq, a)
	})
}

// TryPublishEventArg is PublishEventArg without waiting.
func TryPublishEventArg[E, A any](rb *RingBuffer[E], tr EventTranslatorOneArg[E, A], a A) error {
	seq, err := rb.sequencer.TryNext()
	if err != nil {
		return err
	}
	rb.translateAndPublish(seq, func(ev *E, seq int64) {
		tr(ev, seq, a)
	})
	return nil
}

// PublishEventsArg publishes one event per element of as.
func PublishEventsArg[E, A any](rb *RingBuffer[E], tr EventTranslatorOneArg[E, A], as []A) {
	if len(as) == 0 {
		return
	}
	final := rb.sequencer.NextN(len(as))
	rb.translateAndPublishBatch(len(as), final, func(ev *E, seq int64, i int) {
		tr(ev, seq, as[i])
	})
}

// TryPublishEventsArg is PublishEventsArg without waiting.
func TryPublishEventsArg[E, A any](rb *RingBuffer[E], tr EventTranslatorOneArg[E, A], as []A) error {
	if len(as) == 0 {
		return nil
	}
	final, err := rb.sequencer.TryNextN(len(as))
	if err != nil {
		return err
	}
	rb.translateAndPublishBatch(len(as), final, func(ev *E, seq int64, i int) {
		tr(ev, seq, as[i])
	})
	return nil
}

// PublishEventArgs2 claims the next slot and fills it with tr(a, b).
func PublishEventArgs2[E, A, B any](rb *RingBuffer[E], tr EventTranslatorTwoArg[E, A, B], a A, b B) {
	rb.translateAndPublish(rb.sequencer.Next(), func(ev *E, seq int64) {
		tr(ev, seq, a, b)
	})
}

// TryPublishEventArgs2 is PublishEventArgs2 without waiting.
func TryPublishEventArgs2[E, A, B any](rb *RingBuffer[E], tr EventTranslatorTwoArg[E, A, B], a A, b B) error {
	seq, err := rb.sequencer.TryNext()
	if err != nil {
		return err
	}
	rb.translateAndPublish(seq, func(ev *E, seq int64) {
		tr(ev, seq, a, b)
	})
	return nil
}

// PublishEventsArgs2 publishes one event per index of as and bs.
// Panics if the slices differ in length.
func PublishEventsArgs2[E, A, B any](rb *RingBuffer[E], tr EventTranslatorTwoArg[E, A, B], as []A, bs []B) {
	checkBatchArgs(len(as), len(bs))
	if len(as) == 0 {
		return
	}
	final := rb.sequencer.NextN(len(as))
	rb.translateAndPublishBatch(len(as), final, func(ev *E, seq int64, i int) {
		tr(ev, seq, as[i], bs[i])
	})
}

// TryPublishEventsArgs2 is PublishEventsArgs2 without waiting.
func TryPublishEventsArgs2[E, A, B any](rb *RingBuffer[E], tr EventTranslatorTwoArg[E, A, B], as []A, bs []B) error {
	checkBatchArgs(len(as), len(bs))
	if len(as) == 0 {
		return nil
	}
	final, err := rb.sequencer.TryNextN(len(as))
	if err != nil {
		return err
	}
	rb.translateAndPublishBatch(len(as), final, func(ev *E, seq int64, i int) {
		tr(ev, seq, as[i], bs[i])
	})
	return nil
}

// PublishEventArgs3 claims the next slot and fills it with tr(a, b, c).
func PublishEventArgs3[E, A, B, C any](rb *RingBuffer[E], tr EventTranslatorThreeArg[E, A, B, C], a A, b B, c C) {
	rb.translateAndPublish(rb.sequencer.Next(), func(ev *E, seq int64) {
		tr(ev, seq, a, b, c)
	})
}

// TryPublishEventArgs3 is PublishEventArgs3 without waiting.
func TryPublishEventArgs3[E, A, B, C any](rb *RingBuffer[E], tr EventTranslatorThreeArg[E, A, B, C], a A, b B, c C) error {
	seq, err := rb.sequencer.TryNext()
	if err != nil {
		return err
	}
	rb.translateAndPublish(seq, func(ev *E, seq int64) {
		tr(ev, seq, a, b, c)
	})
	return nil
}

// PublishEventsArgs3 publishes one event per index of as, bs and cs.
// Panics if the slices differ in length.
func PublishEventsArgs3[E, A, B, C any](rb *RingBuffer[E], tr EventTranslatorThreeArg[E, A, B, C], as []A, bs []B, cs []C) {
	checkBatchArgs(len(as), len(bs), len(cs))
	if len(as) == 0 {
		return
	}
	final := rb.sequencer.NextN(len(as))
	rb.translateAndPublishBatch(len(as), final, func(ev *E, seq int64, i int) {
		tr(ev, seq, as[i], bs[i], cs[i])
	})
}

// TryPublishEventsArgs3 is PublishEventsArgs3 without waiting.
func TryPublishEventsArgs3[E, A, B, C any](rb *RingBuffer[E], tr EventTranslatorThreeArg[E, A, B, C], as []A, bs []B, cs []C) error {
	checkBatchArgs(len(as), len(bs), len(cs))
	if len(as) == 0 {
		return nil
	}
	final, err := rb.sequencer.TryNextN(len(as))
	if err != nil {
		return err
	}
	rb.translateAndPublishBatch(len(as), final, func(ev *E, seq int64, i int) {
		tr(ev, seq, as[i], bs[i], cs[i])
	})
	return nil
}

func checkBatchArgs(n int, others ...int) {
	for _, m := range others {
		if m != n {
			panic("disruptor: batch argument slices must have equal length")
		}
	}
}
