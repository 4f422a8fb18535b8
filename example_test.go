// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !race

// Examples hand event slots between goroutines through sequence atomics,
// which the race detector cannot follow. They are excluded from race runs.

package disruptor_test

import (
	"fmt"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"

	"code.hybscloud.com/disruptor"
)

type Trade struct {
	Symbol string
	Qty    int64
}

func newTrade() Trade { return Trade{} }

// ExampleBuild demonstrates a single-producer ring buffer consumed by a
// BatchEventProcessor.
func ExampleBuild() {
	rb, err := disruptor.Build(disruptor.New(8).SingleProducer().WaitStrategy(disruptor.Yielding), newTrade)
	if err != nil {
		panic(err)
	}

	p, _ := disruptor.NewBatchEventProcessor(rb, rb.NewBarrier(),
		disruptor.EventHandlerFunc[Trade](func(tr *Trade, seq int64, endOfBatch bool) error {
			fmt.Println(seq, tr.Symbol, tr.Qty)
			return nil
		}))
	rb.AddGatingSequences(p.Sequence())

	done := make(chan error, 1)
	go func() { done <- p.Run() }()

	for i, sym := range []string{"ABC", "XYZ", "QRS"} {
		disruptor.PublishEventArgs2(rb, func(tr *Trade, _ int64, sym string, qty int64) {
			tr.Symbol, tr.Qty = sym, qty
		}, sym, int64(i+1)*100)
	}

	backoff := iox.Backoff{}
	for p.Sequence().Get() < rb.Cursor() {
		backoff.Wait()
	}
	p.Halt()
	<-done

	// Output:
	// 0 ABC 100
	// 1 XYZ 200
	// 2 QRS 300
}

// ExampleRingBuffer_NewPoller demonstrates polling from the caller's own
// goroutine.
func ExampleRingBuffer_NewPoller() {
	rb, _ := disruptor.CreateMultiProducer(newTrade, 8, disruptor.NewBlockingWaitStrategy())
	poller := rb.NewPoller()
	rb.AddGatingSequences(poller.Sequence())

	state, _ := poller.Poll(func(*Trade, int64, bool) (bool, error) { return true, nil })
	fmt.Println(state)

	rb.PublishEvent(func(tr *Trade, _ int64) { tr.Symbol, tr.Qty = "ABC", 5 })
	rb.PublishEvent(func(tr *Trade, _ int64) { tr.Symbol, tr.Qty = "XYZ", 7 })

	state, _ = poller.Poll(func(tr *Trade, seq int64, endOfBatch bool) (bool, error) {
		fmt.Println(seq, tr.Symbol, tr.Qty, endOfBatch)
		return true, nil
	})
	fmt.Println(state)

	// Output:
	// idle
	// 0 ABC 5 false
	// 1 XYZ 7 true
	// processing
}

// ExampleRingBuffer_TryNext demonstrates backpressure with non-blocking
// claims.
func ExampleRingBuffer_TryNext() {
	rb, _ := disruptor.CreateSingleProducer(newTrade, 2, disruptor.NewBusySpinWaitStrategy())
	consumer := disruptor.NewSequence(disruptor.InitialSequenceValue)
	rb.AddGatingSequences(consumer)

	for range 3 {
		seq, err := rb.TryNext()
		if disruptor.IsWouldBlock(err) {
			fmt.Println("full")
			continue
		}
		rb.Publish(seq)
		fmt.Println("published", seq)
	}

	consumer.Set(0)
	fmt.Println("remaining", rb.RemainingCapacity())

	// Output:
	// published 0
	// published 1
	// full
	// remaining 1
}

// ExampleNewWorkerPoolWithFactory demonstrates competing consumers
// sharing the events of one ring buffer.
func ExampleNewWorkerPoolWithFactory() {
	var total atomix.Int64
	worker := disruptor.WorkHandlerFunc[Trade](func(tr *Trade) error {
		total.Add(tr.Qty)
		return nil
	})

	pool, _ := disruptor.NewWorkerPoolWithFactory(newTrade, nil, worker, worker, worker)
	rb, _ := pool.Start(nil)

	for i := range 100 {
		disruptor.PublishEventArg(rb, func(tr *Trade, _ int64, qty int64) {
			tr.Qty = qty
		}, int64(i+1))
	}

	pool.DrainAndHalt()
	if err := pool.Wait(); err != nil {
		panic(err)
	}
	fmt.Println(total.Load())

	// Output:
	// 5050
}
