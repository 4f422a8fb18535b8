// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

import (
	"runtime"
	"time"
)

// BusySpinWaitStrategy re-reads the dependent sequence in a tight loop.
//
// Lowest latency at the cost of a fully busy core. Only use it when the
// number of consumers is below the number of physical cores.
type BusySpinWaitStrategy struct{}

// NewBusySpinWaitStrategy creates a BusySpinWaitStrategy.
func NewBusySpinWaitStrategy() *BusySpinWaitStrategy {
	return &BusySpinWaitStrategy{}
}

// WaitFor implements WaitStrategy.
func (*BusySpinWaitStrategy) WaitFor(sequence int64, _, dependent SequenceReader, barrier Alerter) (int64, WaitStatus) {
	for {
		available := dependent.Get()
		if available >= sequence {
			return available, WaitOK
		}
		if barrier.IsAlerted() {
			return available, WaitAlerted
		}
	}
}

// SignalAllWhenBlocking implements WaitStrategy.
func (*BusySpinWaitStrategy) SignalAllWhenBlocking() {}

const yieldingSpinTries = 100

// YieldingWaitStrategy spins for a while and then yields the processor on
// every further iteration.
//
// A good compromise between latency and CPU when consumers can run on
// hyperthreads.
type YieldingWaitStrategy struct{}

// NewYieldingWaitStrategy creates a YieldingWaitStrategy.
func NewYieldingWaitStrategy() *YieldingWaitStrategy {
	return &YieldingWaitStrategy{}
}

// WaitFor implements WaitStrategy.
func (*YieldingWaitStrategy) WaitFor(sequence int64, _, dependent SequenceReader, barrier Alerter) (int64, WaitStatus) {
	counter := yieldingSpinTries
	for {
		available := dependent.Get()
		if available >= sequence {
			return available, WaitOK
		}
		if barrier.IsAlerted() {
			return available, WaitAlerted
		}
		if counter == 0 {
			runtime.Gosched()
		} else {
			counter--
		}
	}
}

// SignalAllWhenBlocking implements WaitStrategy.
func (*YieldingWaitStrategy) SignalAllWhenBlocking() {}

const sleepingRetries = 200

// SleepingWaitStrategy spins, then yields, then sleeps for the configured
// interval between checks.
//
// Suited to consumers where latency is not critical, e.g. asynchronous
// logging.
type SleepingWaitStrategy struct {
	retries   int
	sleepTime time.Duration
}

// NewSleepingWaitStrategy creates a SleepingWaitStrategy with the default
// sleep interval.
func NewSleepingWaitStrategy() *SleepingWaitStrategy {
	return NewSleepingWaitStrategyWithTime(defaultSleepTime)
}

// NewSleepingWaitStrategyWithTime creates a SleepingWaitStrategy sleeping
// for d once spinning and yielding are exhausted.
func NewSleepingWaitStrategyWithTime(d time.Duration) *SleepingWaitStrategy {
	return &SleepingWaitStrategy{retries: sleepingRetries, sleepTime: d}
}

// WaitFor implements WaitStrategy.
func (s *SleepingWaitStrategy) WaitFor(sequence int64, _, dependent SequenceReader, barrier Alerter) (int64, WaitStatus) {
	counter := s.retries
	for {
		available := dependent.Get()
		if available >= sequence {
			return available, WaitOK
		}
		if barrier.IsAlerted() {
			return available, WaitAlerted
		}
		switch {
		case counter > 100:
			counter--
		case counter > 0:
			counter--
			runtime.Gosched()
		default:
			time.Sleep(s.sleepTime)
		}
	}
}

// SignalAllWhenBlocking implements WaitStrategy.
func (*SleepingWaitStrategy) SignalAllWhenBlocking() {}

const phasedSpinTries = 10000

// PhasedBackoffWaitStrategy spins, then yields, then hands over to a
// fallback strategy once yieldTimeout has elapsed.
//
// Useful when throughput and low latency matter but CPU should be given
// back during idle periods.
type PhasedBackoffWaitStrategy struct {
	spinTimeout  time.Duration
	yieldTimeout time.Duration
	fallback     WaitStrategy
}

// NewPhasedBackoffWaitStrategy creates a PhasedBackoffWaitStrategy. It
// spins until spinTimeout, yields until yieldTimeout, then delegates to
// fallback.
func NewPhasedBackoffWaitStrategy(spinTimeout, yieldTimeout time.Duration, fallback WaitStrategy) *PhasedBackoffWaitStrategy {
	return &PhasedBackoffWaitStrategy{
		spinTimeout:  spinTimeout,
		yieldTimeout: yieldTimeout + spinTimeout,
		fallback:     fallback,
	}
}

// NewPhasedBackoffWithLock falls back to a BlockingWaitStrategy.
func NewPhasedBackoffWithLock(spinTimeout, yieldTimeout time.Duration) *PhasedBackoffWaitStrategy {
	return NewPhasedBackoffWaitStrategy(spinTimeout, yieldTimeout, NewBlockingWaitStrategy())
}

// NewPhasedBackoffWithLiteLock falls back to a LiteBlockingWaitStrategy.
func NewPhasedBackoffWithLiteLock(spinTimeout, yieldTimeout time.Duration) *PhasedBackoffWaitStrategy {
	return NewPhasedBackoffWaitStrategy(spinTimeout, yieldTimeout, NewLiteBlockingWaitStrategy())
}

// NewPhasedBackoffWithSleep falls back to a SleepingWaitStrategy that
// parks without an initial spin phase.
func NewPhasedBackoffWithSleep(spinTimeout, yieldTimeout time.Duration) *PhasedBackoffWaitStrategy {
	fallback := &SleepingWaitStrategy{retries: 0, sleepTime: defaultSleepTime}
	return NewPhasedBackoffWaitStrategy(spinTimeout, yieldTimeout, fallback)
}

// WaitFor implements WaitStrategy.
func (s *PhasedBackoffWaitStrategy) WaitFor(sequence int64, cursor, dependent SequenceReader, barrier Alerter) (int64, WaitStatus) {
	var start time.Time
	counter := phasedSpinTries
	for {
		available := dependent.Get()
		if available >= sequence {
			return available, WaitOK
		}
		if barrier.IsAlerted() {
			return available, WaitAlerted
		}

		counter--
		if counter > 0 {
			continue
		}
		counter = phasedSpinTries

		if start.IsZero() {
			start = time.Now()
			continue
		}
		elapsed := time.Since(start)
		if elapsed > s.yieldTimeout {
			return s.fallback.WaitFor(sequence, cursor, dependent, barrier)
		}
		if elapsed > s.spinTimeout {
			runtime.Gosched()
		}
	}
}

// SignalAllWhenBlocking implements WaitStrategy.
func (s *PhasedBackoffWaitStrategy) SignalAllWhenBlocking() {
	s.fallback.SignalAllWhenBlocking()
}
