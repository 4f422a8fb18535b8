// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

import (
	"fmt"
	"time"
)

// WaitStatus is the outcome of a wait on a sequence barrier.
type WaitStatus uint8

const (
	// WaitOK means the returned sequence is available.
	WaitOK WaitStatus = iota
	// WaitAlerted means the barrier was alerted; the caller should check
	// whether it has been halted.
	WaitAlerted
	// WaitTimedOut means the strategy gave up after its configured timeout.
	WaitTimedOut
)

func (s WaitStatus) String() string {
	switch s {
	case WaitOK:
		return "ok"
	case WaitAlerted:
		return "alerted"
	case WaitTimedOut:
		return "timed out"
	default:
		return fmt.Sprintf("WaitStatus(%d)", uint8(s))
	}
}

// WaitStrategy decides how a consumer waits for a sequence to become
// available.
//
// Strategies trade CPU for latency. Every implementation re-checks
// barrier.IsAlerted on each iteration so a halt is never missed.
type WaitStrategy interface {
	// WaitFor waits until dependent reaches sequence and returns the
	// highest value observed, which may exceed sequence. The cursor is
	// the producer cursor; blocking strategies park on it before spinning
	// on dependent.
	WaitFor(sequence int64, cursor, dependent SequenceReader, barrier Alerter) (int64, WaitStatus)

	// SignalAllWhenBlocking wakes goroutines parked by a blocking strategy.
	// Called by producers on every publish.
	SignalAllWhenBlocking()
}

// WaitStrategyKind selects a wait strategy implementation.
type WaitStrategyKind uint8

const (
	// Blocking parks consumers on a mutex and condition variable.
	Blocking WaitStrategyKind = iota
	// LiteBlocking is Blocking that skips the lock on publish when no
	// consumer is parked.
	LiteBlocking
	// TimeoutBlocking is Blocking with a deadline per wait.
	TimeoutBlocking
	// BusySpin re-reads the dependent sequence in a tight loop.
	BusySpin
	// Yielding spins and then yields the processor.
	Yielding
	// Sleeping spins, yields, then sleeps for a short interval.
	Sleeping
	// PhasedBackoff spins, then yields, then falls back to Blocking.
	PhasedBackoff
	// PhasedBackoffLite spins, then yields, then falls back to LiteBlocking.
	PhasedBackoffLite
	// PhasedBackoffSleep spins, then yields, then falls back to Sleeping.
	PhasedBackoffSleep
)

func (k WaitStrategyKind) String() string {
	switch k {
	case Blocking:
		return "blocking"
	case LiteBlocking:
		return "lite-blocking"
	case TimeoutBlocking:
		return "timeout-blocking"
	case BusySpin:
		return "busy-spin"
	case Yielding:
		return "yielding"
	case Sleeping:
		return "sleeping"
	case PhasedBackoff:
		return "phased-backoff"
	case PhasedBackoffLite:
		return "phased-backoff-lite"
	case PhasedBackoffSleep:
		return "phased-backoff-sleep"
	default:
		return fmt.Sprintf("WaitStrategyKind(%d)", uint8(k))
	}
}

// WaitConfig carries the tunables of the timed strategies.
// Zero fields take the defaults below.
type WaitConfig struct {
	Timeout      time.Duration // TimeoutBlocking deadline
	SpinTimeout  time.Duration // PhasedBackoff spin phase
	YieldTimeout time.Duration // PhasedBackoff yield phase
	SleepTime    time.Duration // Sleeping park interval
}

const (
	defaultWaitTimeout  = time.Millisecond
	defaultSpinTimeout  = time.Microsecond
	defaultYieldTimeout = 1000 * time.Microsecond
	defaultSleepTime    = 100 * time.Nanosecond
)

// NewWaitStrategy constructs a fresh strategy of the given kind.
// Every sequencer should own its own instance.
func NewWaitStrategy(kind WaitStrategyKind, cfg WaitConfig) WaitStrategy {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultWaitTimeout
	}
	if cfg.SpinTimeout <= 0 {
		cfg.SpinTimeout = defaultSpinTimeout
	}
	if cfg.YieldTimeout <= 0 {
		cfg.YieldTimeout = defaultYieldTimeout
	}
	if cfg.SleepTime <= 0 {
		cfg.SleepTime = defaultSleepTime
	}

	switch kind {
	case Blocking:
		return NewBlockingWaitStrategy()
	case LiteBlocking:
		return NewLiteBlockingWaitStrategy()
	case TimeoutBlocking:
		return NewTimeoutBlockingWaitStrategy(cfg.Timeout)
	case BusySpin:
		return NewBusySpinWaitStrategy()
	case Yielding:
		return NewYieldingWaitStrategy()
	case Sleeping:
		return NewSleepingWaitStrategyWithTime(cfg.SleepTime)
	case PhasedBackoff:
		return NewPhasedBackoffWithLock(cfg.SpinTimeout, cfg.YieldTimeout)
	case PhasedBackoffLite:
		return NewPhasedBackoffWithLiteLock(cfg.SpinTimeout, cfg.YieldTimeout)
	case PhasedBackoffSleep:
		return NewPhasedBackoffWithSleep(cfg.SpinTimeout, cfg.YieldTimeout)
	default:
		panic(fmt.Sprintf("disruptor: unknown wait strategy %d", uint8(kind)))
	}
}
