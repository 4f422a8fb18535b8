// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/disruptor"
)

// collect returns a poll handler appending to *out, stopping after limit
// events when limit > 0.
func collect(out *[]int64, limit int) disruptor.PollHandler[testEvent] {
	return func(ev *testEvent, seq int64, endOfBatch bool) (bool, error) {
		*out = append(*out, ev.Value)
		return limit <= 0 || len(*out) < limit, nil
	}
}

// TestPollerStates tests the idle, processing and gating outcomes.
func TestPollerStates(t *testing.T) {
	rb, err := disruptor.CreateSingleProducer(newTestEvent, 8, disruptor.NewBlockingWaitStrategy())
	if err != nil {
		t.Fatalf("CreateSingleProducer: %v", err)
	}
	upstream := disruptor.NewSequence(disruptor.InitialSequenceValue)
	poller := rb.NewPoller(upstream)
	rb.AddGatingSequences(poller.Sequence())

	var got []int64
	state, err := poller.Poll(collect(&got, 0))
	if err != nil || state != disruptor.PollIdle {
		t.Fatalf("empty ring: got (%v, %v), want idle", state, err)
	}

	publishValues(rb, 3)
	state, err = poller.Poll(collect(&got, 0))
	if err != nil || state != disruptor.PollGating {
		t.Fatalf("upstream behind: got (%v, %v), want gating", state, err)
	}

	upstream.Set(rb.Cursor())
	state, err = poller.Poll(collect(&got, 0))
	if err != nil || state != disruptor.PollProcessing {
		t.Fatalf("upstream caught up: got (%v, %v), want processing", state, err)
	}
	if len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Fatalf("polled: got %v, want [0 1 2]", got)
	}
	if poller.Sequence().Get() != 2 {
		t.Fatalf("Sequence: got %d, want 2", poller.Sequence().Get())
	}

	state, _ = poller.Poll(collect(&got, 0))
	if state != disruptor.PollIdle {
		t.Fatalf("drained: got %v, want idle", state)
	}
}

// TestPollerEndOfBatch tests that endOfBatch marks the last available
// event of each poll.
func TestPollerEndOfBatch(t *testing.T) {
	rb, _ := disruptor.CreateSingleProducer(newTestEvent, 8, disruptor.NewBlockingWaitStrategy())
	poller := rb.NewPoller()
	publishValues(rb, 4)

	var ends []int64
	poller.Poll(func(_ *testEvent, seq int64, endOfBatch bool) (bool, error) {
		if endOfBatch {
			ends = append(ends, seq)
		}
		return true, nil
	})
	if len(ends) != 1 || ends[0] != 3 {
		t.Fatalf("endOfBatch: got %v, want [3]", ends)
	}
}

// TestPollerStopsWhenHandlerDeclines tests that returning false ends the
// poll and the rest is delivered by the next one.
func TestPollerStopsWhenHandlerDeclines(t *testing.T) {
	rb, _ := disruptor.CreateSingleProducer(newTestEvent, 8, disruptor.NewBlockingWaitStrategy())
	poller := rb.NewPoller()
	publishValues(rb, 5)

	var got []int64
	poller.Poll(collect(&got, 2))
	if len(got) != 2 {
		t.Fatalf("first poll: got %v, want 2 events", got)
	}
	if poller.Sequence().Get() != 1 {
		t.Fatalf("Sequence: got %d, want 1", poller.Sequence().Get())
	}

	poller.Poll(collect(&got, 0))
	if len(got) != 5 || got[4] != 4 {
		t.Fatalf("second poll: got %v, want [0 1 2 3 4]", got)
	}
}

// TestPollerHandlerError tests that a failing event is not committed and
// is delivered again by the next poll.
func TestPollerHandlerError(t *testing.T) {
	rb, _ := disruptor.CreateSingleProducer(newTestEvent, 8, disruptor.NewBlockingWaitStrategy())
	poller := rb.NewPoller()
	publishValues(rb, 3)

	calls := 0
	state, err := poller.Poll(func(_ *testEvent, seq int64, _ bool) (bool, error) {
		calls++
		if seq == 1 {
			return false, errBoom
		}
		return true, nil
	})
	if !errors.Is(err, errBoom) || state != disruptor.PollProcessing {
		t.Fatalf("Poll: got (%v, %v), want (processing, errBoom)", state, err)
	}
	if calls != 2 {
		t.Fatalf("handler calls: got %d, want 2", calls)
	}
	if poller.Sequence().Get() != 0 {
		t.Fatalf("Sequence after error: got %d, want 0", poller.Sequence().Get())
	}

	var got []int64
	poller.Poll(collect(&got, 0))
	if len(got) != 2 || got[0] != 1 {
		t.Fatalf("retry: got %v, want [1 2]", got)
	}
}

// TestPollerMultiProducerUnpublished tests that a claimed but unpublished
// sequence reads as gating, not idle.
func TestPollerMultiProducerUnpublished(t *testing.T) {
	rb, _ := disruptor.CreateMultiProducer(newTestEvent, 8, disruptor.NewBlockingWaitStrategy())
	poller := rb.NewPoller()
	rb.AddGatingSequences(poller.Sequence())

	seq := rb.Next()
	var got []int64
	state, _ := poller.Poll(collect(&got, 0))
	if state != disruptor.PollGating {
		t.Fatalf("claimed only: got %v, want gating", state)
	}

	rb.Get(seq).Value = 42
	rb.Publish(seq)
	state, _ = poller.Poll(collect(&got, 0))
	if state != disruptor.PollProcessing || len(got) != 1 || got[0] != 42 {
		t.Fatalf("published: got (%v, %v), want processing [42]", state, got)
	}
}
