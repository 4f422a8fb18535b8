// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

import (
	"sync"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// waitOnDependent spins until dependent reaches sequence. Blocking
// strategies park on the cursor and finish here, since upstream consumers
// do not signal.
func waitOnDependent(sequence int64, dependent SequenceReader, barrier Alerter) (int64, WaitStatus) {
	sw := spin.Wait{}
	for {
		available := dependent.Get()
		if available >= sequence {
			return available, WaitOK
		}
		if barrier.IsAlerted() {
			return available, WaitAlerted
		}
		sw.Once()
	}
}

// BlockingWaitStrategy parks consumers on a condition variable until the
// producer publishes.
//
// Lowest CPU usage, highest latency. Use it when throughput and latency
// matter less than leaving cores for other work.
type BlockingWaitStrategy struct {
	mu   sync.Mutex
	cond sync.Cond
}

// NewBlockingWaitStrategy creates a BlockingWaitStrategy.
func NewBlockingWaitStrategy() *BlockingWaitStrategy {
	s := &BlockingWaitStrategy{}
	s.cond.L = &s.mu
	return s
}

// WaitFor implements WaitStrategy.
func (s *BlockingWaitStrategy) WaitFor(sequence int64, cursor, dependent SequenceReader, barrier Alerter) (int64, WaitStatus) {
	if cursor.Get() < sequence {
		s.mu.Lock()
		for cursor.Get() < sequence {
			if barrier.IsAlerted() {
				s.mu.Unlock()
				return InitialSequenceValue, WaitAlerted
			}
			s.cond.Wait()
		}
		s.mu.Unlock()
	}
	return waitOnDependent(sequence, dependent, barrier)
}

// SignalAllWhenBlocking implements WaitStrategy.
func (s *BlockingWaitStrategy) SignalAllWhenBlocking() {
	s.mu.Lock()
	s.cond.Broadcast()
	s.mu.Unlock()
}

// LiteBlockingWaitStrategy is a BlockingWaitStrategy that only takes the
// lock on publish when a consumer has announced it is about to park.
type LiteBlockingWaitStrategy struct {
	mu           sync.Mutex
	cond         sync.Cond
	_            pad
	signalNeeded atomix.Bool
	_            pad
}

// NewLiteBlockingWaitStrategy creates a LiteBlockingWaitStrategy.
func NewLiteBlockingWaitStrategy() *LiteBlockingWaitStrategy {
	s := &LiteBlockingWaitStrategy{}
	s.cond.L = &s.mu
	return s
}

// WaitFor implements WaitStrategy.
func (s *LiteBlockingWaitStrategy) WaitFor(sequence int64, cursor, dependent SequenceReader, barrier Alerter) (int64, WaitStatus) {
	if cursor.Get() < sequence {
		s.mu.Lock()
		for {
			// Announce before re-reading the cursor; paired with the
			// publisher's cursor store then flag load.
			s.signalNeeded.Store(true)
			if cursor.Get() >= sequence {
				break
			}
			if barrier.IsAlerted() {
				s.mu.Unlock()
				return InitialSequenceValue, WaitAlerted
			}
			s.cond.Wait()
		}
		s.mu.Unlock()
	}
	return waitOnDependent(sequence, dependent, barrier)
}

// SignalAllWhenBlocking implements WaitStrategy.
func (s *LiteBlockingWaitStrategy) SignalAllWhenBlocking() {
	if !s.signalNeeded.Load() {
		return
	}
	s.signalNeeded.Store(false)
	s.mu.Lock()
	s.cond.Broadcast()
	s.mu.Unlock()
}

// TimeoutBlockingWaitStrategy blocks like BlockingWaitStrategy but gives up
// after a timeout, returning WaitTimedOut. Processors route the timeout to
// a TimeoutHandler and keep running.
type TimeoutBlockingWaitStrategy struct {
	timeout time.Duration
	mu      sync.Mutex
	notify  chan struct{}
	_       pad
	waiters atomix.Int64
	_       pad
}

// NewTimeoutBlockingWaitStrategy creates a TimeoutBlockingWaitStrategy.
func NewTimeoutBlockingWaitStrategy(timeout time.Duration) *TimeoutBlockingWaitStrategy {
	return &TimeoutBlockingWaitStrategy{
		timeout: timeout,
		notify:  make(chan struct{}),
	}
}

func (s *TimeoutBlockingWaitStrategy) wakeup() <-chan struct{} {
	s.mu.Lock()
	ch := s.notify
	s.mu.Unlock()
	return ch
}

// WaitFor implements WaitStrategy.
func (s *TimeoutBlockingWaitStrategy) WaitFor(sequence int64, cursor, dependent SequenceReader, barrier Alerter) (int64, WaitStatus) {
	if cursor.Get() < sequence {
		s.waiters.Add(1)
		timer := time.NewTimer(s.timeout)
		for {
			// Take the channel before the check so a publish in between
			// closes the channel we are about to wait on.
			ch := s.wakeup()
			if cursor.Get() >= sequence {
				break
			}
			if barrier.IsAlerted() {
				timer.Stop()
				s.waiters.Add(-1)
				return InitialSequenceValue, WaitAlerted
			}
			select {
			case <-ch:
			case <-timer.C:
				s.waiters.Add(-1)
				return InitialSequenceValue, WaitTimedOut
			}
		}
		timer.Stop()
		s.waiters.Add(-1)
	}
	return waitOnDependent(sequence, dependent, barrier)
}

// SignalAllWhenBlocking implements WaitStrategy.
func (s *TimeoutBlockingWaitStrategy) SignalAllWhenBlocking() {
	if s.waiters.Load() == 0 {
		return
	}
	s.mu.Lock()
	close(s.notify)
	s.notify = make(chan struct{})
	s.mu.Unlock()
}
