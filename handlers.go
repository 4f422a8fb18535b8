// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

// EventHandler receives every event published to the ring buffer, in
// sequence order. endOfBatch is true for the last event released by the
// current wait, a natural point to flush buffered work.
//
// A non-nil error is passed to the processor's ExceptionHandler.
type EventHandler[E any] interface {
	OnEvent(event *E, sequence int64, endOfBatch bool) error
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc[E any] func(event *E, sequence int64, endOfBatch bool) error

// OnEvent calls f.
func (f EventHandlerFunc[E]) OnEvent(event *E, sequence int64, endOfBatch bool) error {
	return f(event, sequence, endOfBatch)
}

// WorkHandler receives the events claimed by one worker of a WorkerPool.
// Each event reaches exactly one WorkHandler of the pool.
type WorkHandler[E any] interface {
	OnEvent(event *E) error
}

// WorkHandlerFunc adapts a function to WorkHandler.
type WorkHandlerFunc[E any] func(event *E) error

// OnEvent calls f.
func (f WorkHandlerFunc[E]) OnEvent(event *E) error {
	return f(event)
}

// LifecycleAware handlers are notified when their processor starts and
// stops. Errors go to the ExceptionHandler and do not stop the processor.
type LifecycleAware interface {
	OnStart() error
	OnShutdown() error
}

// TimeoutHandler handlers are notified when a TimeoutBlockingWaitStrategy
// wait expires. sequence is the processor's current position.
type TimeoutHandler interface {
	OnTimeout(sequence int64) error
}

// BatchStartAware handlers are told the size of each batch before its
// first event.
type BatchStartAware interface {
	OnBatchStart(batchSize int64)
}

// SequenceReportingEventHandler handlers receive the processor's Sequence
// and may advance it themselves to release slots before a batch ends.
type SequenceReportingEventHandler[E any] interface {
	EventHandler[E]
	SetSequenceCallback(sequence *Sequence)
}
