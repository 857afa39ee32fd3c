// Package executors implements the two TransactionExecutor strategies:
// Random (one greedy assignment of scheduled work to free cores) and
// Optimal (every distinct assignment as a separate successor state).
package executors

import (
	"container/heap"

	"github.com/luxfi/puppetmaster/core/pmtypes"
)

// Random assigns scheduled transactions to free cores in the order
// TransactionSet iterates them, stopping once cores are full. It always
// produces exactly one successor state.
type Random struct{}

func (Random) Run(state *pmtypes.MachineState) ([]*pmtypes.MachineState, error) {
	next := state.Clone()
	// Transactions() returns TransactionSet's live backing slice, and Remove
	// mutates that same slice in place -- ranging over it while removing
	// would skip and duplicate entries. Snapshot it first.
	txs := append([]*pmtypes.Transaction(nil), next.Scheduled.Transactions()...)
	for _, tr := range txs {
		if len(next.Cores) >= next.CoreCount {
			break
		}
		heap.Push(&next.Cores, &pmtypes.Core{Clock: next.Clock + tr.Time, Transaction: tr})
		next.Scheduled.Remove(tr)
	}
	return []*pmtypes.MachineState{next}, nil
}
