package ifs

import (
	"sync"

	"github.com/mitchellh/hashstructure"
)

// SolutionListener is notified synchronously, in registration order, after
// every successful Neighbour application.
type SolutionListener interface {
	// BestSaved fires when Solution's running value strictly improves on
	// the previous best (within Epsilon) and the Assignment snapshot has
	// just been saved.
	BestSaved(s *Solution)

	// IterationDone fires after every apply, improving or not, and after
	// idle ticks (where the Solver applied nothing this iteration).
	IterationDone(s *Solution)
}

// Epsilon is the tolerance used when comparing a candidate value against
// the current best (typically 1.0 on domain-scaled scores).
const Epsilon = 1.0

// Solution pairs a Model with an Assignment and tracks the bookkeeping
// that goes with it: current iteration, current value, best value,
// best iteration, and registered listeners.
//
// Invariant: BestValue() <= every snapshotted value (minimization).
type Solution struct {
	Model      Model
	Assignment *Assignment

	mu            sync.Mutex
	bestValue     float64
	hasBest       bool
	bestIteration int
	bestSnapshot  map[Identifier]Value
	bestHash      uint64

	firstCompleteIteration int
	sawFirstComplete       bool

	listeners []SolutionListener

	skipLog  []SkipEvent
	skipHead int
}

// SkipEvent is one entry in a Solution's constraint-violation log: a
// neighbourhood selection that declined to propose a move for variable
// because its domain was empty, or every candidate it considered
// conflicted with a committed assignment or exhausted its retry budget.
type SkipEvent struct {
	Iteration int
	Variable  Identifier
	Reason    string
}

// skipLogCapacity bounds the ring buffer RecordSkip writes into; callers
// diagnosing a stalled phase only ever need the most recent handful of
// declines, not a full history.
const skipLogCapacity = 32

// RecordSkip appends a SkipEvent to the Solution's ring buffer, overwriting
// the oldest entry once the buffer is full. Neighbourhood selections call
// this when they decline to propose a move so a caller can inspect why a
// phase stalled without re-deriving it from log lines.
func (s *Solution) RecordSkip(variable Identifier, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	evt := SkipEvent{Iteration: s.Assignment.Iteration(), Variable: variable, Reason: reason}
	if len(s.skipLog) < skipLogCapacity {
		s.skipLog = append(s.skipLog, evt)
		return
	}
	s.skipLog[s.skipHead] = evt
	s.skipHead = (s.skipHead + 1) % skipLogCapacity
}

// RecentSkips returns the skip log's current contents, oldest first.
func (s *Solution) RecentSkips() []SkipEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.skipLog) < skipLogCapacity {
		out := make([]SkipEvent, len(s.skipLog))
		copy(out, s.skipLog)
		return out
	}
	out := make([]SkipEvent, skipLogCapacity)
	for i := 0; i < skipLogCapacity; i++ {
		out[i] = s.skipLog[(s.skipHead+i)%skipLogCapacity]
	}
	return out
}

// NewSolution returns a Solution over model and assignment with no best
// value recorded yet.
func NewSolution(model Model, assignment *Assignment) *Solution {
	return &Solution{Model: model, Assignment: assignment, firstCompleteIteration: -1}
}

// AddListener registers l to be notified on BestSaved/IterationDone. Order
// of registration is the order of notification.
func (s *Solution) AddListener(l SolutionListener) {
	s.listeners = append(s.listeners, l)
}

// Value returns the Model's current total value over this Solution's
// Assignment.
func (s *Solution) Value() float64 {
	return s.Model.GetTotalValue(s.Assignment)
}

// BestValue returns the best total value ever observed on this Solution.
func (s *Solution) BestValue() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasBest {
		return s.Value()
	}
	return s.bestValue
}

// BestIteration returns the iteration at which the current best was saved.
func (s *Solution) BestIteration() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bestIteration
}

// BestAssignment returns a copy of the best-ever Assignment snapshot, or
// nil if no best has been saved yet.
func (s *Solution) BestAssignment() map[Identifier]Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bestSnapshot == nil {
		return nil
	}
	out := make(map[Identifier]Value, len(s.bestSnapshot))
	for k, v := range s.bestSnapshot {
		out[k] = v
	}
	return out
}

// BestSnapshotHash returns the hashstructure fingerprint of the current
// best-saved Assignment snapshot, or 0 if no best has been saved.
func (s *Solution) BestSnapshotHash() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bestHash
}

// CheckFirstComplete records, the first time it becomes true, that
// allAssigned holds: when the number of unassigned variables decreases to
// 0 for the first time, that moment is recorded as "first complete".
// Returns true the first time this is called with allAssigned == true.
func (s *Solution) CheckFirstComplete(allAssigned bool) bool {
	if !allAssigned || s.sawFirstComplete {
		return false
	}
	s.sawFirstComplete = true
	s.firstCompleteIteration = s.Assignment.Iteration()
	return true
}

// FirstCompleteIteration returns the iteration recorded by
// CheckFirstComplete, or -1 if the assignment has never been complete.
func (s *Solution) FirstCompleteIteration() int {
	return s.firstCompleteIteration
}

// TrySaveBest compares the Solution's current value against the best-ever
// value and, if it strictly improves (within Epsilon), snapshots the
// Assignment and notifies BestSaved listeners. Returns true iff a new best
// was saved.
//
// Saving best twice in a row without an intervening improvement is a
// no-op.
func (s *Solution) TrySaveBest() bool {
	current := s.Value()

	s.mu.Lock()
	if s.hasBest && current >= s.bestValue-Epsilon {
		s.mu.Unlock()
		return false
	}

	snapshot := s.Assignment.Snapshot()
	// hashstructure fingerprints the snapshot; BestSnapshotHash exposes it
	// so callers can compare two saved bests cheaply instead of
	// deep-comparing the whole variable -> value map.
	hash, err := hashstructure.Hash(snapshotKeys(snapshot), nil)

	s.bestValue = current
	s.hasBest = true
	s.bestIteration = s.Assignment.Iteration()
	s.bestSnapshot = snapshot
	if err == nil {
		s.bestHash = hash
	}
	s.mu.Unlock()

	s.Model.SetBestValue(current)
	for _, l := range s.listeners {
		l.BestSaved(s)
	}
	return true
}

// NotifyIterationDone calls IterationDone on every registered listener, in
// registration order.
func (s *Solution) NotifyIterationDone() {
	for _, l := range s.listeners {
		l.IterationDone(s)
	}
}

// snapshotKeys turns a snapshot into a stable, hashable representation:
// variable identifier -> value identifier pairs, sorted is unnecessary
// since hashstructure hashes maps order-independently.
func snapshotKeys(snapshot map[Identifier]Value) map[Identifier]ValueIdentifier {
	out := make(map[Identifier]ValueIdentifier, len(snapshot))
	for k, v := range snapshot {
		out[k] = v.Identifier()
	}
	return out
}
