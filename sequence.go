// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

import (
	"strconv"

	"code.hybscloud.com/atomix"
)

// InitialSequenceValue is the value of a Sequence that has not yet
// observed any event.
const InitialSequenceValue int64 = -1

// SequenceReader is a read-only view of a progress counter.
//
// Sequence, FixedSequenceGroup and SequenceGroup implement it, which lets a
// barrier depend on one upstream consumer or on the slowest of several.
type SequenceReader interface {
	Get() int64
}

// Sequence is a cache-line padded 64-bit progress counter.
//
// A Sequence is owned by the component whose progress it tracks (a
// sequencer cursor, a processor, a worker pool claim counter) and read by
// many goroutines. It must not be copied after first use.
type Sequence struct {
	_     pad
	value atomix.Int64
	_     padShort
}

// NewSequence creates a Sequence holding initial.
func NewSequence(initial int64) *Sequence {
	s := &Sequence{}
	s.value.StoreRelaxed(initial)
	return s
}

// Get returns the current value with a full fence.
func (s *Sequence) Get() int64 {
	return s.value.Load()
}

// GetAcquire returns the current value with acquire ordering.
func (s *Sequence) GetAcquire() int64 {
	return s.value.LoadAcquire()
}

// GetRelaxed returns the current value without ordering guarantees.
// Only valid when the caller already holds ordering by other means.
func (s *Sequence) GetRelaxed() int64 {
	return s.value.LoadRelaxed()
}

// Set stores value with a full fence.
func (s *Sequence) Set(value int64) {
	s.value.Store(value)
}

// SetRelaxed stores value without ordering guarantees.
func (s *Sequence) SetRelaxed(value int64) {
	s.value.StoreRelaxed(value)
}

// SetLazy stores value with release ordering. Prior writes become visible
// to any goroutine that observes value through an acquiring read, but no
// store-load fence is issued.
func (s *Sequence) SetLazy(value int64) {
	s.value.StoreRelease(value)
}

// CompareAndSwap sets the sequence to next if it currently holds expected.
func (s *Sequence) CompareAndSwap(expected, next int64) bool {
	return s.value.CompareAndSwapAcqRel(expected, next)
}

// IncrementAndGet atomically adds 1 and returns the new value.
func (s *Sequence) IncrementAndGet() int64 {
	return s.value.AddAcqRel(1)
}

// AddAndGet atomically adds delta and returns the new value.
func (s *Sequence) AddAndGet(delta int64) int64 {
	return s.value.AddAcqRel(delta)
}

func (s *Sequence) String() string {
	return strconv.FormatInt(s.Get(), 10)
}
