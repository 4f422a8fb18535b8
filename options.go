// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

import "time"

// Options configures ring buffer creation.
type Options struct {
	// Claim strategy
	producer ProducerType

	// Wait strategy: an explicit instance wins over kind
	waitKind WaitStrategyKind
	wait     WaitStrategy
	waitCfg  WaitConfig

	// Slot count (power of 2)
	size int
}

// Builder creates ring buffers with fluent configuration.
//
// Each build constructs a fresh wait strategy, so two ring buffers built
// from the same Builder never share one.
//
// Example:
//
//	// Single producer, consumers spin then yield
//	rb, err := disruptor.Build(disruptor.New(1024).SingleProducer().WaitStrategy(disruptor.Yielding), newEvent)
//
//	// Multi producer with a deadline on every wait
//	rb, err := disruptor.Build(disruptor.New(4096).
//	    WaitStrategy(disruptor.TimeoutBlocking).
//	    Timeout(5*time.Millisecond), newEvent)
type Builder struct {
	opts Options
}

// New creates a builder for a ring buffer of size slots.
// Defaults to MultiProducer with the Blocking wait strategy.
//
// size must be a power of 2; Build reports ErrInvalidBufferSize otherwise.
func New(size int) *Builder {
	return &Builder{opts: Options{
		producer: MultiProducer,
		waitKind: Blocking,
		size:     size,
	}}
}

// SingleProducer declares that only one goroutine will publish.
func (b *Builder) SingleProducer() *Builder {
	b.opts.producer = SingleProducer
	return b
}

// MultiProducer declares that any number of goroutines may publish.
func (b *Builder) MultiProducer() *Builder {
	b.opts.producer = MultiProducer
	return b
}

// WaitStrategy selects how consumers wait for events.
func (b *Builder) WaitStrategy(kind WaitStrategyKind) *Builder {
	b.opts.waitKind = kind
	b.opts.wait = nil
	return b
}

// WithWaitStrategy uses ws as is, for custom strategies.
// ws must not be shared with another sequencer.
func (b *Builder) WithWaitStrategy(ws WaitStrategy) *Builder {
	b.opts.wait = ws
	return b
}

// Timeout sets the deadline of TimeoutBlocking.
func (b *Builder) Timeout(d time.Duration) *Builder {
	b.opts.waitCfg.Timeout = d
	return b
}

// SpinTimeout sets the spin phase of the phased backoff strategies.
func (b *Builder) SpinTimeout(d time.Duration) *Builder {
	b.opts.waitCfg.SpinTimeout = d
	return b
}

// YieldTimeout sets the yield phase of the phased backoff strategies.
func (b *Builder) YieldTimeout(d time.Duration) *Builder {
	b.opts.waitCfg.YieldTimeout = d
	return b
}

// SleepTime sets the park interval of Sleeping.
func (b *Builder) SleepTime(d time.Duration) *Builder {
	b.opts.waitCfg.SleepTime = d
	return b
}

func (b *Builder) waitStrategy() WaitStrategy {
	if b.opts.wait != nil {
		return b.opts.wait
	}
	return NewWaitStrategy(b.opts.waitKind, b.opts.waitCfg)
}

// BuildSequencer creates a sequencer without a ring buffer, for callers
// that keep their own storage indexed by sequence.
func (b *Builder) BuildSequencer() (Sequencer, error) {
	return NewSequencer(b.opts.producer, b.opts.size, b.waitStrategy())
}

// Build creates a RingBuffer[E] from b, filling every slot with factory.
//
// Returns ErrInvalidBufferSize if the size is not a power of 2, or
// ErrNilArgument if factory is nil.
func Build[E any](b *Builder, factory EventFactory[E]) (*RingBuffer[E], error) {
	if factory == nil {
		return nil, ErrNilArgument
	}
	seq, err := b.BuildSequencer()
	if err != nil {
		return nil, err
	}
	return NewRingBufferWithSequencer(factory, seq)
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// padShort is padding to fill cache line after 8-byte field.
type padShort [64 - 8]byte
