// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package disruptor provides a lock-free, pre-allocated ring buffer for
// passing events between goroutines of one process.
//
// Producers claim sequence numbers from a [Sequencer], write into the slot
// the sequence maps to, and publish it. Consumers wait on a
// [SequenceBarrier] for the sequence to become available, process the
// event in place, and advance their own [Sequence]. The producer never
// laps a consumer: it gates on the consumers' sequences.
//
// # Quick Start
//
// Builder API:
//
//	rb, err := disruptor.Build(disruptor.New(1024), newEvent)                      // multi producer, blocking
//	rb, err := disruptor.Build(disruptor.New(1024).SingleProducer(), newEvent)     // single producer
//	rb, err := disruptor.Build(disruptor.New(1024).WaitStrategy(disruptor.BusySpin), newEvent)
//
// Direct constructors:
//
//	rb, err := disruptor.CreateSingleProducer(newEvent, 1024, disruptor.NewYieldingWaitStrategy())
//	rb, err := disruptor.CreateMultiProducer(newEvent, 1024, disruptor.NewBlockingWaitStrategy())
//
// Sizes must be powers of 2. Every slot is filled by the factory up front
// and reused for the lifetime of the ring buffer.
//
// # Publishing
//
// Two-phase claim and publish:
//
//	seq := rb.Next()
//	ev := rb.Get(seq)
//	ev.Value = 42
//	rb.Publish(seq)
//
// Translators do the same and publish even if the translator panics, so a
// claimed sequence never stalls consumers:
//
//	rb.PublishEvent(func(ev *Event, seq int64) { ev.Value = 42 })
//	disruptor.PublishEventArg(rb, setValue, 42)
//
// Non-blocking claims return [ErrInsufficientCapacity], which wraps
// [iox.ErrWouldBlock]:
//
//	if err := rb.TryPublishEvent(fill); disruptor.IsWouldBlock(err) {
//	    // ring is full - apply backpressure
//	}
//
// # Consuming
//
// Broadcast (every handler sees every event, in order):
//
//	p, _ := disruptor.NewBatchEventProcessor(rb, rb.NewBarrier(), handler)
//	rb.AddGatingSequences(p.Sequence())
//	go p.Run()
//
// Pipeline (stage B sees an event only after stage A processed it):
//
//	a, _ := disruptor.NewBatchEventProcessor(rb, rb.NewBarrier(), stageA)
//	b, _ := disruptor.NewBatchEventProcessor(rb, rb.NewBarrier(a.Sequence()), stageB)
//	rb.AddGatingSequences(b.Sequence())
//
// Competing consumers (each event handled by exactly one worker):
//
//	pool, _ := disruptor.NewWorkerPoolWithFactory(newEvent, nil, w1, w2, w3)
//	rb, _ := pool.Start(nil)
//
// Polling (no goroutine of its own):
//
//	poller := rb.NewPoller()
//	rb.AddGatingSequences(poller.Sequence())
//	state, err := poller.Poll(func(ev *Event, seq int64, end bool) (bool, error) {
//	    return true, nil
//	})
//
// # Wait Strategies
//
// Consumers wait using one of:
//
//	Blocking           - mutex and condition variable, lowest CPU
//	LiteBlocking       - Blocking that skips the lock when nobody waits
//	TimeoutBlocking    - Blocking with a deadline, reports WaitTimedOut
//	BusySpin           - tight loop, lowest latency, burns a core
//	Yielding           - spin, then yield the processor
//	Sleeping           - spin, yield, then sleep briefly
//	PhasedBackoff      - spin, yield, then fall back to a blocking strategy
//
// A wait strategy belongs to one sequencer. [NewWaitStrategy] and the
// Builder construct a fresh instance each time.
//
// # Error Handling
//
// Handlers return errors. Processors route them through an
// [ExceptionHandler]: returning nil skips the event and continues, a
// non-nil error stops the processor and is returned from Run. The default
// is [FatalExceptionHandler].
//
// Barrier waits do not fail: [SequenceBarrier.WaitFor] returns a
// [WaitStatus] of WaitOK, WaitAlerted or WaitTimedOut.
//
// For semantic error classification (delegates to iox):
//
//	disruptor.IsWouldBlock(err)  // true if the ring is full
//	disruptor.IsSemantic(err)    // true if control flow signal
//	disruptor.IsNonFailure(err)  // true if nil or ErrWouldBlock
//
// # Logging
//
// Processors and pools log through [code.hybscloud.com/disruptor/logging],
// a zap-backed logger configured by DISRUPTOR_LOGGING_LEVEL and
// DISRUPTOR_LOGGING_FILE.
//
// # Race Detection
//
// Event slots are plain memory protected by acquire-release ordering on
// sequences. The race detector cannot observe that ordering and may report
// false positives on slot contents. Concurrent tests skip when
// [RaceEnabled] is true.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for atomic primitives with
// explicit memory ordering, [code.hybscloud.com/spin] for CPU pause
// instructions, [code.hybscloud.com/iox] for semantic errors and backoff,
// and [github.com/panjf2000/ants/v2] to run worker pools.
package disruptor
