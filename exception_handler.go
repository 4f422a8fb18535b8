// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

import (
	"fmt"

	"code.hybscloud.com/disruptor/logging"
)

// ExceptionHandler decides what happens when a handler returns an error.
//
// HandleEventException returning nil swallows the fault: the processor
// moves past the failed sequence and continues. A non-nil return is fatal:
// the processor stops and Run returns it.
type ExceptionHandler[E any] interface {
	HandleEventException(err error, sequence int64, event *E) error
	HandleOnStartException(err error)
	HandleOnShutdownException(err error)
}

// FatalExceptionHandler logs event faults at error level and makes them
// fatal. It is the default handler of every processor.
type FatalExceptionHandler[E any] struct {
	logger logging.Logger
}

// NewFatalExceptionHandler creates a FatalExceptionHandler. A nil logger
// selects logging.GetDefaultLogger.
func NewFatalExceptionHandler[E any](logger logging.Logger) *FatalExceptionHandler[E] {
	return &FatalExceptionHandler[E]{logger: logger}
}

func (h *FatalExceptionHandler[E]) log() logging.Logger {
	if h.logger != nil {
		return h.logger
	}
	return logging.GetDefaultLogger()
}

// HandleEventException logs err and returns it wrapped with the sequence.
func (h *FatalExceptionHandler[E]) HandleEventException(err error, sequence int64, event *E) error {
	h.log().Errorf("exception processing sequence %d (%+v): %v", sequence, eventString(event), err)
	return fmt.Errorf("disruptor: fatal error at sequence %d: %w", sequence, err)
}

// HandleOnStartException logs err.
func (h *FatalExceptionHandler[E]) HandleOnStartException(err error) {
	h.log().Errorf("exception during OnStart: %v", err)
}

// HandleOnShutdownException logs err.
func (h *FatalExceptionHandler[E]) HandleOnShutdownException(err error) {
	h.log().Errorf("exception during OnShutdown: %v", err)
}

// IgnoreExceptionHandler logs event faults at info level and lets the
// processor continue with the next sequence.
type IgnoreExceptionHandler[E any] struct {
	logger logging.Logger
}

// NewIgnoreExceptionHandler creates an IgnoreExceptionHandler. A nil
// logger selects logging.GetDefaultLogger.
func NewIgnoreExceptionHandler[E any](logger logging.Logger) *IgnoreExceptionHandler[E] {
	return &IgnoreExceptionHandler[E]{logger: logger}
}

func (h *IgnoreExceptionHandler[E]) log() logging.Logger {
	if h.logger != nil {
		return h.logger
	}
	return logging.GetDefaultLogger()
}

// HandleEventException logs err and returns nil.
func (h *IgnoreExceptionHandler[E]) HandleEventException(err error, sequence int64, event *E) error {
	h.log().Infof("ignoring exception at sequence %d (%+v): %v", sequence, eventString(event), err)
	return nil
}

// HandleOnStartException logs err.
func (h *IgnoreExceptionHandler[E]) HandleOnStartException(err error) {
	h.log().Infof("ignoring exception during OnStart: %v", err)
}

// HandleOnShutdownException logs err.
func (h *IgnoreExceptionHandler[E]) HandleOnShutdownException(err error) {
	h.log().Infof("ignoring exception during OnShutdown: %v", err)
}

func eventString[E any](event *E) any {
	if event == nil {
		return "<nil>"
	}
	return *event
}
