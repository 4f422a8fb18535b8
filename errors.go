// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrInsufficientCapacity indicates a non-blocking claim could not be
// satisfied because the ring buffer has no room for the requested
// sequences.
//
// ErrInsufficientCapacity is a control flow signal, not a failure. It wraps
// [iox.ErrWouldBlock], so [IsWouldBlock] reports true for it. The caller
// decides whether to retry, back off or drop the event.
//
// Example:
//
//	backoff := iox.Backoff{}
//	for {
//	    seq, err := rb.TryNext()
//	    if err == nil {
//	        backoff.Reset()
//	        // write rb.Get(seq), then rb.Publish(seq)
//	        break
//	    }
//	    if disruptor.IsWouldBlock(err) {
//	        backoff.Wait()
//	        continue
//	    }
//	    return err
//	}
var ErrInsufficientCapacity = fmt.Errorf("disruptor: insufficient capacity: %w", iox.ErrWouldBlock)

var (
	// ErrInvalidBufferSize is returned when a buffer size is not a power of 2
	// or is less than 1.
	ErrInvalidBufferSize = errors.New("disruptor: buffer size must be a power of 2 and >= 1")

	// ErrNilArgument is returned when a required constructor argument is nil.
	ErrNilArgument = errors.New("disruptor: required argument is nil")

	// ErrAlreadyRunning is returned by Run when the processor is already
	// running on another goroutine.
	ErrAlreadyRunning = errors.New("disruptor: processor is already running")

	// ErrPoolStarted is returned by WorkerPool.Start when the pool is
	// already running.
	ErrPoolStarted = errors.New("disruptor: worker pool has already been started")
)

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
