// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

import (
	"math"
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"github.com/panjf2000/ants/v2"

	"code.hybscloud.com/disruptor/logging"
)

// defaultWorkerPoolBufferSize is the ring size of pools created from a
// factory.
const defaultWorkerPoolBufferSize = 1024

// WorkerPool is a group of WorkProcessors competing for the events of one
// ring buffer. Each event is handled by exactly one worker.
//
// Example:
//
//	pool, _ := disruptor.NewWorkerPoolWithFactory(newEvent, nil, h1, h2, h3)
//	rb, _ := pool.Start(nil)
//	rb.PublishEvent(fill)
//	pool.DrainAndHalt()
//	err := pool.Wait()
type WorkerPool[E any] struct {
	_            pad
	started      atomix.Int32
	_            padShort
	workSequence *Sequence
	ringBuffer   *RingBuffer[E]
	barrier      *SequenceBarrier
	processors   []*WorkProcessor[E]
	stopped      []atomix.Bool
	logger       logging.Logger

	wg        sync.WaitGroup
	mu        sync.Mutex
	err       error
	ownedPool *ants.Pool
}

// NewWorkerPool creates a pool consuming rb through barrier, one worker
// per handler. The caller registers WorkerSequences as gating sequences of
// rb. A nil exception handler selects FatalExceptionHandler.
func NewWorkerPool[E any](rb *RingBuffer[E], barrier *SequenceBarrier, exh ExceptionHandler[E], handlers ...WorkHandler[E]) (*WorkerPool[E], error) {
	if rb == nil || barrier == nil || len(handlers) == 0 {
		return nil, ErrNilArgument
	}

	p := &WorkerPool[E]{
		workSequence: NewSequence(InitialSequenceValue),
		ringBuffer:   rb,
		barrier:      barrier,
		processors:   make([]*WorkProcessor[E], len(handlers)),
		stopped:      make([]atomix.Bool, len(handlers)),
	}
	for i, h := range handlers {
		wp, err := NewWorkProcessor(rb, barrier, h, exh, p.workSequence)
		if err != nil {
			return nil, err
		}
		wp.sharedBarrier = true
		p.processors[i] = wp
	}
	return p, nil
}

// NewWorkerPoolWithFactory creates a pool that owns a multi-producer ring
// buffer with a blocking wait strategy, gated on the workers.
func NewWorkerPoolWithFactory[E any](factory EventFactory[E], exh ExceptionHandler[E], handlers ...WorkHandler[E]) (*WorkerPool[E], error) {
	rb, err := CreateMultiProducer(factory, defaultWorkerPoolBufferSize, NewBlockingWaitStrategy())
	if err != nil {
		return nil, err
	}
	p, err := NewWorkerPool(rb, rb.NewBarrier(), exh, handlers...)
	if err != nil {
		return nil, err
	}
	rb.AddGatingSequences(p.WorkerSequences()...)
	return p, nil
}

// SetLogger sets the logger used to report worker failures.
// A nil logger selects logging.GetDefaultLogger.
func (p *WorkerPool[E]) SetLogger(l logging.Logger) {
	p.logger = l
}

func (p *WorkerPool[E]) log() logging.Logger {
	if p.logger != nil {
		return p.logger
	}
	return logging.GetDefaultLogger()
}

// WorkerSequences returns the sequence of every worker followed by the
// shared work sequence. Producers must gate on all of them.
func (p *WorkerPool[E]) WorkerSequences() []SequenceReader {
	seqs := make([]SequenceReader, 0, len(p.processors)+1)
	for _, wp := range p.processors {
		seqs = append(seqs, wp.Sequence())
	}
	return append(seqs, p.workSequence)
}

// Start moves every worker to the current cursor and runs each on exec.
// A nil exec runs the workers on an ants pool sized to the worker count,
// released by Wait.
//
// Returns ErrPoolStarted if the pool is running.
func (p *WorkerPool[E]) Start(exec Executor) (*RingBuffer[E], error) {
	if !p.started.CompareAndSwapAcqRel(0, 1) {
		return nil, ErrPoolStarted
	}
	// A previous run may still be unwinding.
	if err := p.Wait(); err != nil {
		p.log().Warnf("worker pool restarted after failure: %v", err)
	}

	if exec == nil {
		pool, err := NewPoolExecutor(len(p.processors))
		if err != nil {
			p.started.Store(0)
			return nil, err
		}
		p.mu.Lock()
		p.ownedPool = pool
		p.mu.Unlock()
		exec = pool
	}

	// No worker is running past this point. Workers never clear the shared
	// barrier themselves: a late ClearAlert could swallow a Halt meant for
	// a sibling.
	p.barrier.ClearAlert()
	cursor := p.ringBuffer.Cursor()
	p.workSequence.Set(cursor)
	for i, wp := range p.processors {
		wp.state.reset()
		wp.Sequence().Set(cursor)
		p.stopped[i].Store(true)
	}

	for i, wp := range p.processors {
		p.wg.Add(1)
		p.stopped[i].Store(false)
		err := exec.Submit(func() {
			defer p.wg.Done()
			if err := wp.Run(); err != nil {
				p.log().Errorf("worker %d stopped: %v", i, err)
				p.setErr(err)
			}
			p.stopped[i].Store(true)
		})
		if err != nil {
			p.stopped[i].Store(true)
			p.wg.Done()
			p.Halt()
			return nil, err
		}
	}
	p.log().Debugf("worker pool started with %d workers at sequence %d", len(p.processors), cursor)
	return p.ringBuffer, nil
}

func (p *WorkerPool[E]) setErr(err error) {
	p.mu.Lock()
	if p.err == nil {
		p.err = err
	}
	p.mu.Unlock()
}

// DrainAndHalt waits until every published event has been processed and
// then halts the workers. Producers must have stopped publishing.
//
// Workers that have already stopped are not waited for: the event a
// failed worker had claimed stays unprocessed and its error is reported
// by Wait. DrainAndHalt gives up once no worker is left.
func (p *WorkerPool[E]) DrainAndHalt() {
	backoff := iox.Backoff{}
	for p.ringBuffer.Cursor() > p.liveMinimum() {
		backoff.Wait()
	}
	p.Halt()
}

// liveMinimum returns the slowest of the shared work sequence and the
// sequences of running workers, or math.MaxInt64 when every worker has
// stopped.
func (p *WorkerPool[E]) liveMinimum() int64 {
	minimum := int64(math.MaxInt64)
	live := false
	for i, wp := range p.processors {
		if p.stopped[i].Load() {
			continue
		}
		live = true
		minimum = min(minimum, wp.Sequence().Get())
	}
	if !live {
		return math.MaxInt64
	}
	return min(minimum, p.workSequence.Get())
}

// Halt stops every worker after its current event, without draining.
func (p *WorkerPool[E]) Halt() {
	for _, wp := range p.processors {
		wp.state.halt()
	}
	p.barrier.Alert()
	p.started.Store(0)
}

// IsRunning reports whether the pool has been started and not halted.
func (p *WorkerPool[E]) IsRunning() bool {
	return p.started.Load() == 1
}

// Wait blocks until every worker has returned, releases the pool's own
// goroutine pool, and returns the first fatal worker error.
func (p *WorkerPool[E]) Wait() error {
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ownedPool != nil {
		p.ownedPool.Release()
		p.ownedPool = nil
	}
	err := p.err
	p.err = nil
	return err
}
