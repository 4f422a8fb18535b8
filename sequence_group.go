// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package disruptor

import (
	"math"
	"sync/atomic"
)

// MinimumSequence returns the smallest value among seqs, or def when seqs
// is empty.
func MinimumSequence[S SequenceReader](seqs []S, def int64) int64 {
	minimum := def
	for _, s := range seqs {
		if v := s.Get(); v < minimum {
			minimum = v
		}
	}
	return minimum
}

// sequenceMember is what a sequenceSet can hold. Members are matched by
// identity on removal.
type sequenceMember interface {
	comparable
	SequenceReader
}

// lazySetter is implemented by members that can be moved to the cursor
// when they join a set: Sequence and SequenceGroup.
type lazySetter interface {
	SetLazy(value int64)
}

// sequenceSet is a copy-on-write snapshot of sequences.
//
// Readers load the pointer once and iterate a slice that is never mutated.
// Writers build a new slice and publish it with CAS, retrying on conflict.
type sequenceSet[T sequenceMember] struct {
	p atomic.Pointer[[]T]
}

func (s *sequenceSet[T]) load() []T {
	if p := s.p.Load(); p != nil {
		return *p
	}
	return nil
}

// add appends seqs and moves each settable one to the cursor value, so a
// new gating sequence never appears behind the producer and stalls it.
// Read-only members such as FixedSequenceGroup join as they are.
func (s *sequenceSet[T]) add(cursor SequenceReader, seqs ...T) {
	for {
		old := s.p.Load()
		var current []T
		if old != nil {
			current = *old
		}
		updated := make([]T, 0, len(current)+len(seqs))
		updated = append(updated, current...)

		cursorSequence := cursor.Get()
		for _, seq := range seqs {
			moveTo(seq, cursorSequence)
			updated = append(updated, seq)
		}

		if s.p.CompareAndSwap(old, &updated) {
			break
		}
	}

	// The cursor may have advanced between the snapshot and the swap.
	cursorSequence := cursor.Get()
	for _, seq := range seqs {
		moveTo(seq, cursorSequence)
	}
}

func moveTo(seq SequenceReader, value int64) {
	if s, ok := seq.(lazySetter); ok {
		s.SetLazy(value)
	}
}

// remove drops every occurrence of seq and reports whether any was found.
func (s *sequenceSet[T]) remove(seq T) bool {
	for {
		old := s.p.Load()
		if old == nil {
			return false
		}
		current := *old

		n := 0
		for _, v := range current {
			if v == seq {
				n++
			}
		}
		if n == 0 {
			return false
		}

		updated := make([]T, 0, len(current)-n)
		for _, v := range current {
			if v != seq {
				updated = append(updated, v)
			}
		}

		if s.p.CompareAndSwap(old, &updated) {
			return true
		}
	}
}

// FixedSequenceGroup presents a fixed set of sequences as a single
// read-only sequence whose value is the minimum of the set.
type FixedSequenceGroup struct {
	seqs []SequenceReader
}

// NewFixedSequenceGroup creates a group over a copy of seqs.
func NewFixedSequenceGroup(seqs ...SequenceReader) *FixedSequenceGroup {
	return &FixedSequenceGroup{seqs: append([]SequenceReader(nil), seqs...)}
}

// Get returns the minimum value in the group.
func (g *FixedSequenceGroup) Get() int64 {
	return MinimumSequence(g.seqs, math.MaxInt64)
}

// SequenceGroup is a dynamic set of sequences that can be used as one
// dependency or gating sequence while members are added and removed.
//
// An empty group reads as math.MaxInt64, so it never holds a producer
// back. Barriers and pollers still bound what they return by the cursor.
//
//	group := disruptor.NewSequenceGroup()
//	rb.AddGatingSequences(group)
//	group.AddWhileRunning(rb, p.Sequence())
type SequenceGroup struct {
	set sequenceSet[*Sequence]
}

// NewSequenceGroup creates an empty group.
func NewSequenceGroup() *SequenceGroup {
	return &SequenceGroup{}
}

// Get returns the minimum value of the members, math.MaxInt64 when the
// group is empty.
func (g *SequenceGroup) Get() int64 {
	return MinimumSequence(g.set.load(), math.MaxInt64)
}

// Set stores value into every member.
func (g *SequenceGroup) Set(value int64) {
	for _, s := range g.set.load() {
		s.Set(value)
	}
}

// SetLazy stores value into every member with release ordering.
func (g *SequenceGroup) SetLazy(value int64) {
	for _, s := range g.set.load() {
		s.SetLazy(value)
	}
}

// Add adds seq without touching its value. Use AddWhileRunning when the
// ring buffer is already in use.
func (g *SequenceGroup) Add(seq *Sequence) {
	for {
		old := g.set.p.Load()
		var current []*Sequence
		if old != nil {
			current = *old
		}
		updated := make([]*Sequence, len(current)+1)
		copy(updated, current)
		updated[len(current)] = seq
		if g.set.p.CompareAndSwap(old, &updated) {
			return
		}
	}
}

// AddWhileRunning adds seq after moving it to the cursor of c, so it does
// not appear to lag behind events published before it joined.
func (g *SequenceGroup) AddWhileRunning(c Cursored, seq *Sequence) {
	g.set.add(c.CursorSequence(), seq)
}

// Remove removes every occurrence of seq and reports whether any was
// found.
func (g *SequenceGroup) Remove(seq *Sequence) bool {
	return g.set.remove(seq)
}

// Size returns the number of members.
func (g *SequenceGroup) Size() int {
	return len(g.set.load())
}
