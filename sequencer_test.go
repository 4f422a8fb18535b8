// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"github.com/valyala/fastrand"

	"code.hybscloud.com/disruptor"
)

// =============================================================================
// Test Helpers
// =============================================================================

// testEvent is the slot type used throughout the tests.
type testEvent struct {
	Value int64
	Stage int64
}

func newTestEvent() testEvent { return testEvent{Value: -1, Stage: -1} }

var producerTypes = []disruptor.ProducerType{
	disruptor.SingleProducer,
	disruptor.MultiProducer,
}

// waitForSequence waits until seq reaches target or timeout expires.
func waitForSequence(t *testing.T, timeout time.Duration, seq *disruptor.Sequence, target int64, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	backoff := iox.Backoff{}
	for seq.Get() < target {
		if time.Now().After(deadline) {
			t.Fatalf("timeout after %v: %s (got %d, want %d)", timeout, msg, seq.Get(), target)
		}
		backoff.Wait()
	}
}

// waitForCount waits until counter reaches target or timeout expires.
func waitForCount(t *testing.T, timeout time.Duration, counter *atomix.Int64, target int64, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	backoff := iox.Backoff{}
	for counter.Load() < target {
		if time.Now().After(deadline) {
			t.Fatalf("timeout after %v: %s (got %d, want %d)", timeout, msg, counter.Load(), target)
		}
		backoff.Wait()
	}
}

// retryWithTimeout retries f until it returns true or timeout expires.
func retryWithTimeout(t *testing.T, timeout time.Duration, f func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	backoff := iox.Backoff{}
	for !f() {
		if time.Now().After(deadline) {
			t.Fatalf("timeout after %v: %s", timeout, msg)
		}
		backoff.Wait()
	}
}

// mustPanic fails the test unless f panics.
func mustPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic", name)
		}
	}()
	f()
}

// =============================================================================
// Construction
// =============================================================================

// TestNewSequencerInvalidArguments tests the configuration errors.
func TestNewSequencerInvalidArguments(t *testing.T) {
	ws := disruptor.NewBlockingWaitStrategy()
	for _, pt := range producerTypes {
		for _, size := range []int{0, -4, 3, 12} {
			if _, err := disruptor.NewSequencer(pt, size, ws); !errors.Is(err, disruptor.ErrInvalidBufferSize) {
				t.Fatalf("%v size %d: got %v, want ErrInvalidBufferSize", pt, size, err)
			}
		}
		if _, err := disruptor.NewSequencer(pt, 8, nil); !errors.Is(err, disruptor.ErrNilArgument) {
			t.Fatalf("%v nil wait strategy: got %v, want ErrNilArgument", pt, err)
		}
		s, err := disruptor.NewSequencer(pt, 1, ws)
		if err != nil {
			t.Fatalf("%v size 1: %v", pt, err)
		}
		if s.BufferSize() != 1 {
			t.Fatalf("%v BufferSize: got %d, want 1", pt, s.BufferSize())
		}
	}
}

// =============================================================================
// Claim and Publish
// =============================================================================

// TestSequencerClaimPublish tests that a claimed sequence becomes
// available only once published.
func TestSequencerClaimPublish(t *testing.T) {
	for _, pt := range producerTypes {
		t.Run(pt.String(), func(t *testing.T) {
			s, err := disruptor.NewSequencer(pt, 8, disruptor.NewBlockingWaitStrategy())
			if err != nil {
				t.Fatalf("NewSequencer: %v", err)
			}
			if s.Cursor() != -1 {
				t.Fatalf("initial Cursor: got %d, want -1", s.Cursor())
			}

			seq := s.Next()
			if seq != 0 {
				t.Fatalf("Next: got %d, want 0", seq)
			}
			if s.IsAvailable(0) {
				t.Fatalf("IsAvailable(0) before Publish: got true")
			}

			s.Publish(seq)
			if !s.IsAvailable(0) {
				t.Fatalf("IsAvailable(0) after Publish: got false")
			}
			if s.Cursor() != 0 {
				t.Fatalf("Cursor: got %d, want 0", s.Cursor())
			}

			hi := s.NextN(3)
			if hi != 3 {
				t.Fatalf("NextN(3): got %d, want 3", hi)
			}
			s.PublishRange(1, hi)
			if v := s.HighestPublishedSequence(1, hi); v != 3 {
				t.Fatalf("HighestPublishedSequence: got %d, want 3", v)
			}
		})
	}
}

// TestSequencerTryNextOnFull tests that non-blocking claims report
// ErrInsufficientCapacity once the gating sequence is a full ring behind.
func TestSequencerTryNextOnFull(t *testing.T) {
	for _, pt := range producerTypes {
		t.Run(pt.String(), func(t *testing.T) {
			s, err := disruptor.NewSequencer(pt, 4, disruptor.NewBlockingWaitStrategy())
			if err != nil {
				t.Fatalf("NewSequencer: %v", err)
			}
			gate := disruptor.NewSequence(disruptor.InitialSequenceValue)
			s.AddGatingSequences(gate)

			if s.RemainingCapacity() != 4 {
				t.Fatalf("RemainingCapacity: got %d, want 4", s.RemainingCapacity())
			}
			for i := range 4 {
				seq, err := s.TryNext()
				if err != nil {
					t.Fatalf("TryNext(%d): %v", i, err)
				}
				s.Publish(seq)
			}

			_, err = s.TryNext()
			if !errors.Is(err, disruptor.ErrInsufficientCapacity) {
				t.Fatalf("TryNext on full: got %v, want ErrInsufficientCapacity", err)
			}
			if !errors.Is(err, iox.ErrWouldBlock) || !disruptor.IsWouldBlock(err) {
				t.Fatalf("TryNext on full: %v does not classify as would-block", err)
			}
			if s.HasAvailableCapacity(1) {
				t.Fatalf("HasAvailableCapacity(1) on full: got true")
			}
			if s.RemainingCapacity() != 0 {
				t.Fatalf("RemainingCapacity on full: got %d, want 0", s.RemainingCapacity())
			}

			gate.Set(1)
			if s.RemainingCapacity() != 2 {
				t.Fatalf("RemainingCapacity: got %d, want 2", s.RemainingCapacity())
			}
			if _, err := s.TryNextN(3); !errors.Is(err, disruptor.ErrInsufficientCapacity) {
				t.Fatalf("TryNextN(3): got %v, want ErrInsufficientCapacity", err)
			}
			hi, err := s.TryNextN(2)
			if err != nil {
				t.Fatalf("TryNextN(2): %v", err)
			}
			if hi != 5 {
				t.Fatalf("TryNextN(2): got %d, want 5", hi)
			}
		})
	}
}

// TestSequencerBatchBoundsPanic tests that claiming zero or more than the
// buffer size panics.
func TestSequencerBatchBoundsPanic(t *testing.T) {
	for _, pt := range producerTypes {
		s, err := disruptor.NewSequencer(pt, 4, disruptor.NewBlockingWaitStrategy())
		if err != nil {
			t.Fatalf("NewSequencer: %v", err)
		}
		mustPanic(t, pt.String()+" NextN(0)", func() { s.NextN(0) })
		mustPanic(t, pt.String()+" NextN(5)", func() { s.NextN(5) })
		mustPanic(t, pt.String()+" TryNextN(0)", func() { s.TryNextN(0) })
		mustPanic(t, pt.String()+" TryNextN(5)", func() { s.TryNextN(5) })
	}
}

// TestSequencerNextBlocksUntilGatingAdvances tests that the producer never
// laps the slowest gating sequence.
func TestSequencerNextBlocksUntilGatingAdvances(t *testing.T) {
	for _, pt := range producerTypes {
		t.Run(pt.String(), func(t *testing.T) {
			s, err := disruptor.NewSequencer(pt, 4, disruptor.NewBlockingWaitStrategy())
			if err != nil {
				t.Fatalf("NewSequencer: %v", err)
			}
			gate := disruptor.NewSequence(disruptor.InitialSequenceValue)
			s.AddGatingSequences(gate)
			for range 4 {
				s.Publish(s.Next())
			}

			var claimed atomix.Int64
			claimed.Store(-1)
			done := make(chan struct{})
			go func() {
				defer close(done)
				claimed.Store(s.Next())
			}()

			time.Sleep(20 * time.Millisecond)
			if v := claimed.Load(); v != -1 {
				t.Fatalf("Next returned %d while the ring was full", v)
			}

			gate.Set(0)
			select {
			case <-done:
			case <-time.After(5 * time.Second):
				t.Fatalf("timeout: Next did not return after gating advanced")
			}
			if v := claimed.Load(); v != 4 {
				t.Fatalf("Next: got %d, want 4", v)
			}
		})
	}
}

// TestRingBufferResetToDoesNotWrap tests that after ResetTo the producer
// measures capacity from the new cursor, not from the old one.
func TestRingBufferResetToDoesNotWrap(t *testing.T) {
	for _, pt := range producerTypes {
		t.Run(pt.String(), func(t *testing.T) {
			rb, err := disruptor.NewRingBuffer(pt, newTestEvent, 4, disruptor.NewBlockingWaitStrategy())
			if err != nil {
				t.Fatalf("NewRingBuffer: %v", err)
			}
			seq := disruptor.NewSequence(disruptor.InitialSequenceValue)
			rb.AddGatingSequences(seq)

			for range 128 {
				rb.Publish(rb.Next())
				seq.IncrementAndGet()
			}
			if rb.Cursor() != 127 {
				t.Fatalf("Cursor: got %d, want 127", rb.Cursor())
			}

			rb.ResetTo(31)
			seq.Set(31)
			for range 4 {
				rb.Publish(rb.Next())
			}
			if rb.HasAvailableCapacity(1) {
				t.Fatalf("HasAvailableCapacity(1) after ResetTo: got true, want false")
			}
		})
	}
}

// =============================================================================
// Multi-Producer Availability
// =============================================================================

// TestMultiProducerHighestPublished tests that out-of-order publication is
// reported only up to the first gap.
func TestMultiProducerHighestPublished(t *testing.T) {
	s, err := disruptor.NewMultiProducerSequencer(8, disruptor.NewBlockingWaitStrategy())
	if err != nil {
		t.Fatalf("NewMultiProducerSequencer: %v", err)
	}

	hi := s.NextN(4)
	if hi != 3 {
		t.Fatalf("NextN(4): got %d, want 3", hi)
	}
	s.Publish(0)
	s.Publish(2)
	if v := s.HighestPublishedSequence(0, hi); v != 0 {
		t.Fatalf("gap at 1: got %d, want 0", v)
	}
	s.Publish(1)
	if v := s.HighestPublishedSequence(0, hi); v != 2 {
		t.Fatalf("gap at 3: got %d, want 2", v)
	}
	s.Publish(3)
	if v := s.HighestPublishedSequence(0, hi); v != 3 {
		t.Fatalf("no gap: got %d, want 3", v)
	}
	if v := s.HighestPublishedSequence(4, hi); v != 3 {
		t.Fatalf("empty range: got %d, want 3", v)
	}
}

// TestMultiProducerAvailabilityLaps tests that a slot published on an
// earlier lap does not read as available for a later sequence.
func TestMultiProducerAvailabilityLaps(t *testing.T) {
	s, err := disruptor.NewMultiProducerSequencer(4, disruptor.NewBlockingWaitStrategy())
	if err != nil {
		t.Fatalf("NewMultiProducerSequencer: %v", err)
	}
	for range 4 {
		s.Publish(s.Next())
	}
	if !s.IsAvailable(3) {
		t.Fatalf("IsAvailable(3): got false")
	}
	if s.IsAvailable(7) {
		t.Fatalf("IsAvailable(7) on previous lap: got true")
	}

	for range 4 {
		s.Publish(s.Next())
	}
	if !s.IsAvailable(7) {
		t.Fatalf("IsAvailable(7): got false")
	}
	if s.IsAvailable(3) {
		t.Fatalf("IsAvailable(3) after overwrite: got true")
	}
}

// TestMultiProducerConcurrentClaims tests that concurrent batch claims are
// disjoint, contiguous and all delivered once.
func TestMultiProducerConcurrentClaims(t *testing.T) {
	if disruptor.RaceEnabled {
		t.Skip("skip: slot contents are ordered by sequence atomics")
	}
	const producers, batchesPerProducer = 4, 2000

	rb, err := disruptor.CreateMultiProducer(newTestEvent, 64, disruptor.NewYieldingWaitStrategy())
	if err != nil {
		t.Fatalf("CreateMultiProducer: %v", err)
	}
	consumer := disruptor.NewSequence(disruptor.InitialSequenceValue)
	rb.AddGatingSequences(consumer)
	barrier := rb.NewBarrier()

	var total atomix.Int64
	var wg sync.WaitGroup
	for range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range batchesPerProducer {
				n := int(fastrand.Uint32n(4)) + 1
				hi := rb.NextN(n)
				lo := hi - int64(n) + 1
				for seq := lo; seq <= hi; seq++ {
					rb.Get(seq).Value = seq
				}
				rb.PublishRange(lo, hi)
				total.Add(int64(n))
			}
		}()
	}

	// Single consumer checking every slot carries its own sequence.
	errc := make(chan error, 1)
	stop := make(chan struct{})
	go func() {
		next := int64(0)
		for {
			select {
			case <-stop:
				errc <- nil
				return
			default:
			}
			available, status := barrier.WaitFor(next)
			if status != disruptor.WaitOK {
				continue
			}
			for ; next <= available; next++ {
				if v := rb.Get(next).Value; v != next {
					errc <- errors.New("slot value does not match its sequence")
					return
				}
			}
			consumer.SetLazy(available)
		}
	}()

	wg.Wait()
	waitForSequence(t, 10*time.Second, consumer, total.Load()-1, "consumer drain")
	close(stop)
	barrier.Alert()
	if err := <-errc; err != nil {
		t.Fatalf("consumer: %v", err)
	}
	if rb.Cursor() != total.Load()-1 {
		t.Fatalf("Cursor: got %d, want %d", rb.Cursor(), total.Load()-1)
	}
}
