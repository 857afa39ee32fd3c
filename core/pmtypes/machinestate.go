package pmtypes

import "github.com/luxfi/puppetmaster/core/sets"

// MachineState is one point in the driver's state space: a simulated clock,
// a source of transactions not yet drawn (Incoming), a pool of drawn-but-not-yet
// scheduled transactions (Pending), a pool of scheduled-but-not-yet-running
// transactions (Scheduled), and the set of cores currently executing.
// Every scheduler/executor step works by cloning the predecessor state and
// mutating the clone, never the original -- the original stays reachable
// from any sibling branch still on the driver's priority queue.
type MachineState struct {
	Incoming  Source
	Maker     sets.Maker
	Pending   *TransactionSet
	Scheduled *TransactionSet
	Cores     CoreHeap
	CoreCount int
	Clock     int
}

// NewMachineState builds the initial state for a run.
func NewMachineState(incoming Source, maker sets.Maker, coreCount int) *MachineState {
	return &MachineState{
		Incoming:  incoming,
		Maker:     maker,
		Pending:   NewTransactionSet(),
		Scheduled: NewTransactionSet(),
		Cores:     nil,
		CoreCount: coreCount,
		Clock:     0,
	}
}

// Clone returns a successor state sharing no mutable data with its
// predecessor: Pending/Scheduled/Incoming/Maker are all independently
// cloned, and the core heap is copied (its *Core entries are immutable once
// built, so sharing those pointers is safe).
func (s *MachineState) Clone() *MachineState {
	cores := make(CoreHeap, len(s.Cores))
	copy(cores, s.Cores)
	return &MachineState{
		Incoming:  s.Incoming.Clone(),
		Maker:     s.Maker.Clone(),
		Pending:   s.Pending.Clone(),
		Scheduled: s.Scheduled.Clone(),
		Cores:     cores,
		CoreCount: s.CoreCount,
		Clock:     s.Clock,
	}
}

// IsTerminal reports whether every collection the run tracks is empty: no
// more transactions to draw, nothing pending, nothing scheduled, no core
// running. That is the only condition under which the simulation can stop.
func (s *MachineState) IsTerminal() bool {
	return s.Incoming.Empty() && s.Pending.Len() == 0 && s.Scheduled.Len() == 0 && len(s.Cores) == 0
}

// EarliestCompletion returns the clock of the soonest-finishing core and
// true, or (0, false) if no core is running.
func (s *MachineState) EarliestCompletion() (int, bool) {
	if len(s.Cores) == 0 {
		return 0, false
	}
	return s.Cores[0].Clock, true
}

// Priority is the key the driver's priority queue orders states by: the
// clock at which this state could next make progress, i.e. the earlier of
// its own clock and its earliest core completion.
func (s *MachineState) Priority() int {
	if clock, ok := s.EarliestCompletion(); ok && clock < s.Clock {
		return clock
	}
	return s.Clock
}
