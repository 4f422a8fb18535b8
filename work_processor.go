// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

import "math"

// WorkProcessor is one competing consumer of a WorkerPool.
//
// All processors of a pool share a work sequence. Each one claims the next
// sequence by CAS on it, so every event is handled by exactly one
// processor. The processor's own Sequence trails its claim by one and
// gates the producer.
type WorkProcessor[E any] struct {
	state            runState
	sequence         *Sequence
	workSequence     *Sequence
	ringBuffer       *RingBuffer[E]
	barrier          *SequenceBarrier
	handler          WorkHandler[E]
	exceptionHandler ExceptionHandler[E]

	timeout   TimeoutHandler
	lifecycle LifecycleAware

	// Set by WorkerPool, which clears the barrier its workers share.
	sharedBarrier bool
}

// NewWorkProcessor creates a processor claiming from workSequence.
// A nil exception handler selects FatalExceptionHandler.
func NewWorkProcessor[E any](rb *RingBuffer[E], barrier *SequenceBarrier, handler WorkHandler[E], exh ExceptionHandler[E], workSequence *Sequence) (*WorkProcessor[E], error) {
	if rb == nil || barrier == nil || handler == nil || workSequence == nil {
		return nil, ErrNilArgument
	}
	if exh == nil {
		exh = NewFatalExceptionHandler[E](nil)
	}

	p := &WorkProcessor[E]{
		sequence:         NewSequence(InitialSequenceValue),
		workSequence:     workSequence,
		ringBuffer:       rb,
		barrier:          barrier,
		handler:          handler,
		exceptionHandler: exh,
	}
	p.timeout, _ = handler.(TimeoutHandler)
	p.lifecycle, _ = handler.(LifecycleAware)
	return p, nil
}

// Sequence returns the processor's progress.
func (p *WorkProcessor[E]) Sequence() *Sequence {
	return p.sequence
}

// Halt asks the loop to stop and wakes it if it is waiting.
func (p *WorkProcessor[E]) Halt() {
	p.state.halt()
	p.barrier.Alert()
}

// IsRunning reports whether the processor is running or halting.
func (p *WorkProcessor[E]) IsRunning() bool {
	return p.state.isActive()
}

// Run claims and processes events until halted or until the exception
// handler returns an error, which Run returns.
func (p *WorkProcessor[E]) Run() error {
	entered, err := p.state.enter()
	if err != nil {
		return err
	}
	defer p.state.reset()

	if !entered {
		p.notifyStart()
		p.notifyShutdown()
		return nil
	}

	if !p.sharedBarrier {
		p.barrier.ClearAlert()
	}
	p.notifyStart()
	if p.state.isRunning() {
		err = p.processEvents()
	}
	p.notifyShutdown()
	return err
}

func (p *WorkProcessor[E]) processEvents() error {
	processed := true
	cachedAvailable := int64(math.MinInt64)
	nextSequence := p.sequence.Get()

	for {
		if processed {
			if !p.state.isRunning() {
				return nil
			}
			processed = false
			for {
				nextSequence = p.workSequence.Get() + 1
				p.sequence.Set(nextSequence - 1)
				if p.workSequence.CompareAndSwap(nextSequence-1, nextSequence) {
					break
				}
			}
		}

		if cachedAvailable >= nextSequence {
			event := p.ringBuffer.Get(nextSequence)
			if err := p.handler.OnEvent(event); err != nil {
				if err = p.exceptionHandler.HandleEventException(err, nextSequence, event); err != nil {
					return err
				}
			}
			processed = true
			continue
		}

		available, status := p.barrier.WaitFor(nextSequence)
		switch status {
		case WaitOK:
			cachedAvailable = available
		case WaitTimedOut:
			if err := p.notifyTimeout(p.sequence.Get()); err != nil {
				return err
			}
		case WaitAlerted:
			if !p.state.isRunning() {
				return nil
			}
		}
	}
}

func (p *WorkProcessor[E]) notifyTimeout(sequence int64) error {
	if p.timeout == nil {
		return nil
	}
	if err := p.timeout.OnTimeout(sequence); err != nil {
		return p.exceptionHandler.HandleEventException(err, sequence, nil)
	}
	return nil
}

func (p *WorkProcessor[E]) notifyStart() {
	if p.lifecycle == nil {
		return
	}
	if err := p.lifecycle.OnStart(); err != nil {
		p.exceptionHandler.HandleOnStartException(err)
	}
}

func (p *WorkProcessor[E]) notifyShutdown() {
	if p.lifecycle == nil {
		return
	}
	if err := p.lifecycle.OnShutdown(); err != nil {
		p.exceptionHandler.HandleOnShutdownException(err)
	}
}

var (
	_ EventProcessor = (*BatchEventProcessor[struct{}])(nil)
	_ EventProcessor = (*WorkProcessor[struct{}])(nil)
)
