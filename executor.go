// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

import (
	"time"

	"github.com/panjf2000/ants/v2"
)

// Executor runs processor loops on goroutines.
//
// *ants.Pool satisfies Executor. A processor loop occupies its goroutine
// until halted, so a bounded executor needs at least one free worker per
// processor submitted to it.
type Executor interface {
	Submit(task func()) error
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(task func()) error

// Submit calls f.
func (f ExecutorFunc) Submit(task func()) error {
	return f(task)
}

// GoExecutor starts one goroutine per task.
var GoExecutor Executor = ExecutorFunc(func(task func()) error {
	go task()
	return nil
})

// executorExpiry is how long an idle pool goroutine is kept.
const executorExpiry = 10 * time.Second

// NewPoolExecutor creates an ants goroutine pool with room for size
// processor loops. The caller releases it with Release once the
// processors have stopped.
func NewPoolExecutor(size int) (*ants.Pool, error) {
	return ants.NewPool(size, ants.WithOptions(ants.Options{
		ExpiryDuration: executorExpiry,
		PreAlloc:       true,
	}))
}
