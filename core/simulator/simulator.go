// Package simulator implements the priority-queue-driven state-space walk
// described in §4.5/§9: a binary min-heap of MachineStates ordered by
// (priority clock, insertion index), popped and advanced one step at a
// time until a terminal state is reached.
package simulator

import (
	"container/heap"
	"errors"

	"github.com/luxfi/puppetmaster/core/pmtypes"
)

// Scheduler is the contract schedulers.Greedy/Maximal/Tournament satisfy.
// Defined here, in the consumer package, rather than in a shared interface
// package: nothing in core/schedulers needs to know this type exists.
type Scheduler interface {
	Run(state *pmtypes.MachineState) ([]*pmtypes.MachineState, error)
}

// Executor is the contract executors.Random/Optimal satisfy.
type Executor interface {
	Run(state *pmtypes.MachineState) ([]*pmtypes.MachineState, error)
}

// Observer receives step-by-step notifications as the driver walks the
// state space. All methods are optional: NopObserver implements a no-op
// default so callers only override what they care about (instrumentation,
// trace logging, ...).
type Observer interface {
	StateExplored(state *pmtypes.MachineState)
	BatchScheduled(state *pmtypes.MachineState, n int)
	CapacityDeferred(state *pmtypes.MachineState)
}

// NopObserver is the zero-cost default Observer.
type NopObserver struct{}

func (NopObserver) StateExplored(*pmtypes.MachineState)       {}
func (NopObserver) BatchScheduled(*pmtypes.MachineState, int) {}
func (NopObserver) CapacityDeferred(*pmtypes.MachineState)    {}

// ErrStateSpaceExhausted is returned if the driver's priority queue empties
// without ever reaching a terminal state -- it should not happen for a
// correctly configured run (every branch either progresses or is fatal),
// and signals a bug in a Scheduler/Executor/Source implementation instead.
var ErrStateSpaceExhausted = errors.New("puppetmaster: state space exhausted without a terminal state")

// Result is the outcome of a completed run.
type Result struct {
	FinalClock int
	StatesExplored int
	Path []*pmtypes.MachineState
}

// node is one entry of the explored tree; Path is reconstructed by walking
// parent pointers backward from the terminal node, so intermediate states
// are never copied more than the Clone their own step already required.
type node struct {
	state  *pmtypes.MachineState
	parent *node
}

// Driver owns one (Scheduler, Executor) pair and runs the decision rule in
// §4.5 step 2 at every pop: hand off to the Executor if a core is free and
// work is scheduled, retire the earliest-completing core if one is due,
// otherwise ask the Scheduler for more batches.
type Driver struct {
	Scheduler Scheduler
	Executor  Executor
	Observer  Observer
}

// NewDriver builds a Driver. obs may be nil, in which case NopObserver is
// used.
func NewDriver(scheduler Scheduler, executor Executor, obs Observer) *Driver {
	if obs == nil {
		obs = NopObserver{}
	}
	return &Driver{Scheduler: scheduler, Executor: executor, Observer: obs}
}

// Run walks the state space from initial until a terminal MachineState is
// found, returning its clock (and, in Result.Path, the chain of states that
// reached it).
func (d *Driver) Run(initial *pmtypes.MachineState) (*Result, error) {
	pq := &priorityQueue{}
	heap.Init(pq)
	heap.Push(pq, &pqItem{priority: initial.Priority(), node: &node{state: initial}})

	explored := 0
	for pq.Len() > 0 {
		item := heap.Pop(pq).(*pqItem)
		st := item.node.state
		explored++
		d.Observer.StateExplored(st)

		if st.IsTerminal() {
			return &Result{FinalClock: st.Clock, StatesExplored: explored, Path: reconstruct(item.node)}, nil
		}

		successors, err := d.step(st)
		if err != nil {
			return nil, err
		}
		for _, succ := range successors {
			n := &node{state: succ, parent: item.node}
			heap.Push(pq, &pqItem{priority: succ.Priority(), node: n})
		}
	}
	return nil, ErrStateSpaceExhausted
}

func (d *Driver) step(st *pmtypes.MachineState) ([]*pmtypes.MachineState, error) {
	completion, coreRunning := st.EarliestCompletion()

	switch {
	case len(st.Cores) < st.CoreCount && st.Scheduled.Len() > 0:
		succs, err := d.Executor.Run(st)
		if err == nil {
			d.Observer.BatchScheduled(st, st.Scheduled.Len())
		}
		return succs, err
	case coreRunning && completion <= st.Clock:
		return []*pmtypes.MachineState{completeCore(st)}, nil
	default:
		succs, err := d.Scheduler.Run(st)
		if err != nil {
			d.Observer.CapacityDeferred(st)
		}
		return succs, err
	}
}

// completeCore retires the earliest-finishing core: advances the clock to
// its completion time and releases its transaction's address sets back to
// the maker.
func completeCore(st *pmtypes.MachineState) *pmtypes.MachineState {
	next := st.Clone()
	popped := heap.Pop(&next.Cores).(*pmtypes.Core)
	if popped.Clock > next.Clock {
		next.Clock = popped.Clock
	}
	next.Maker.Free(popped.Transaction.ReadSet, popped.Transaction.WriteSet)
	return next
}

func reconstruct(n *node) []*pmtypes.MachineState {
	var path []*pmtypes.MachineState
	for cur := n; cur != nil; cur = cur.parent {
		path = append([]*pmtypes.MachineState{cur.state}, path...)
	}
	return path
}
