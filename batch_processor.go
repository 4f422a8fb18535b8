// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

import "code.hybscloud.com/atomix"

// Processor run states.
const (
	stateIdle int32 = iota
	stateHalted
	stateRunning
)

// runState is the padded idle/halted/running flag shared by the processor
// loops. Only a CAS from idle enters running, which is the sole protection
// against concurrent Run calls.
type runState struct {
	_ pad
	v atomix.Int32
	_ padShort
}

func (s *runState) enter() (entered bool, err error) {
	if s.v.CompareAndSwapAcqRel(stateIdle, stateRunning) {
		return true, nil
	}
	if s.v.Load() == stateRunning {
		return false, ErrAlreadyRunning
	}
	return false, nil
}

func (s *runState) halt()           { s.v.Store(stateHalted) }
func (s *runState) reset()          { s.v.Store(stateIdle) }
func (s *runState) isRunning() bool { return s.v.Load() == stateRunning }
func (s *runState) isActive() bool  { return s.v.Load() != stateIdle }

// BatchEventProcessor delivers every published event to one EventHandler,
// in sequence order and in batches.
//
// The processor waits on its barrier for the next sequence, hands every
// released event to the handler, then advances its own Sequence to the
// end of the batch. Other consumers and the producer gate on that
// Sequence.
//
// Example:
//
//	p, _ := disruptor.NewBatchEventProcessor(rb, rb.NewBarrier(), handler)
//	rb.AddGatingSequences(p.Sequence())
//	go p.Run()
//	// ...
//	p.Halt()
type BatchEventProcessor[E any] struct {
	state            runState
	sequence         *Sequence
	ringBuffer       *RingBuffer[E]
	barrier          *SequenceBarrier
	handler          EventHandler[E]
	exceptionHandler ExceptionHandler[E]

	// Optional capabilities of handler, resolved once.
	batchStart BatchStartAware
	timeout    TimeoutHandler
	lifecycle  LifecycleAware
}

// NewBatchEventProcessor creates a processor reading rb through barrier.
// Returns ErrNilArgument if any argument is nil.
func NewBatchEventProcessor[E any](rb *RingBuffer[E], barrier *SequenceBarrier, handler EventHandler[E]) (*BatchEventProcessor[E], error) {
	if rb == nil || barrier == nil || handler == nil {
		return nil, ErrNilArgument
	}

	p := &BatchEventProcessor[E]{
		sequence:         NewSequence(InitialSequenceValue),
		ringBuffer:       rb,
		barrier:          barrier,
		handler:          handler,
		exceptionHandler: NewFatalExceptionHandler[E](nil),
	}
	p.batchStart, _ = handler.(BatchStartAware)
	p.timeout, _ = handler.(TimeoutHandler)
	p.lifecycle, _ = handler.(LifecycleAware)
	if r, ok := handler.(SequenceReportingEventHandler[E]); ok {
		r.SetSequenceCallback(p.sequence)
	}
	return p, nil
}

// Sequence returns the processor's progress.
func (p *BatchEventProcessor[E]) Sequence() *Sequence {
	return p.sequence
}

// SetExceptionHandler replaces the exception handler. Must be called
// before Run. A nil handler restores the default FatalExceptionHandler.
func (p *BatchEventProcessor[E]) SetExceptionHandler(h ExceptionHandler[E]) {
	if h == nil {
		h = NewFatalExceptionHandler[E](nil)
	}
	p.exceptionHandler = h
}

// Halt asks the loop to stop and wakes it if it is waiting. Run returns
// once the event in progress completes.
func (p *BatchEventProcessor[E]) Halt() {
	p.state.halt()
	p.barrier.Alert()
}

// IsRunning reports whether the processor is running or halting.
func (p *BatchEventProcessor[E]) IsRunning() bool {
	return p.state.isActive()
}

// Run processes events until Halt is called or the exception handler
// returns an error, which Run returns. After Halt, Run may be called again
// and resumes after the last processed sequence.
//
// Returns ErrAlreadyRunning if another Run is in progress.
func (p *BatchEventProcessor[E]) Run() error {
	entered, err := p.state.enter()
	if err != nil {
		return err
	}
	defer p.state.reset()

	if !entered {
		// Halted before it ever ran.
		p.notifyStart()
		p.notifyShutdown()
		return nil
	}

	p.barrier.ClearAlert()
	p.notifyStart()
	// A Halt racing with ClearAlert leaves the state halted; do not wait.
	if p.state.isRunning() {
		err = p.processEvents()
	}
	p.notifyShutdown()
	return err
}

func (p *BatchEventProcessor[E]) processEvents() error {
	nextSequence := p.sequence.Get() + 1

	for {
		available, status := p.barrier.WaitFor(nextSequence)
		switch status {
		case WaitAlerted:
			if !p.state.isRunning() {
				return nil
			}
			continue
		case WaitTimedOut:
			if err := p.notifyTimeout(p.sequence.Get()); err != nil {
				return err
			}
			continue
		}

		if p.batchStart != nil && available >= nextSequence {
			p.batchStart.OnBatchStart(available - nextSequence + 1)
		}

		for nextSequence <= available {
			event := p.ringBuffer.Get(nextSequence)
			if err := p.handler.OnEvent(event, nextSequence, nextSequence == available); err != nil {
				if err = p.exceptionHandler.HandleEventException(err, nextSequence, event); err != nil {
					p.sequence.SetLazy(nextSequence - 1)
					return err
				}
			}
			nextSequence++
		}

		// The next WaitFor fences, so a release store is enough here.
		p.sequence.SetLazy(available)
	}
}

func (p *BatchEventProcessor[E]) notifyTimeout(sequence int64) error {
	if p.timeout == nil {
		return nil
	}
	if err := p.timeout.OnTimeout(sequence); err != nil {
		return p.exceptionHandler.HandleEventException(err, sequence, nil)
	}
	return nil
}

func (p *BatchEventProcessor[E]) notifyStart() {
	if p.lifecycle == nil {
		return
	}
	if err := p.lifecycle.OnStart(); err != nil {
		p.exceptionHandler.HandleOnStartException(err)
	}
}

func (p *BatchEventProcessor[E]) notifyShutdown() {
	if p.lifecycle == nil {
		return
	}
	if err := p.lifecycle.OnShutdown(); err != nil {
		p.exceptionHandler.HandleOnShutdownException(err)
	}
}
