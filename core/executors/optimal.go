package executors

import (
	"container/heap"

	"github.com/luxfi/puppetmaster/core/pmtypes"
)

// Optimal branches over every distinct way of filling the free cores from
// Scheduled: if there's room for everything, that's the one assignment;
// otherwise every C(len(scheduled), free) combination becomes its own
// successor state, leaving the driver's priority queue to decide which
// branch is worth continuing.
type Optimal struct{}

func (Optimal) Run(state *pmtypes.MachineState) ([]*pmtypes.MachineState, error) {
	free := state.CoreCount - len(state.Cores)
	txs := state.Scheduled.Transactions()

	if free <= 0 || len(txs) == 0 {
		next := state.Clone()
		return []*pmtypes.MachineState{next}, nil
	}

	if len(txs) <= free {
		next := state.Clone()
		assign(next, txs)
		return []*pmtypes.MachineState{next}, nil
	}

	out := make([]*pmtypes.MachineState, 0, len(combinations(len(txs), free)))
	for _, combo := range combinations(len(txs), free) {
		next := state.Clone()
		picked := make([]*pmtypes.Transaction, len(combo))
		for i, idx := range combo {
			picked[i] = txs[idx]
		}
		assign(next, picked)
		out = append(out, next)
	}
	return out, nil
}

func assign(state *pmtypes.MachineState, txs []*pmtypes.Transaction) {
	for _, tr := range txs {
		heap.Push(&state.Cores, &pmtypes.Core{Clock: state.Clock + tr.Time, Transaction: tr})
		state.Scheduled.Remove(tr)
	}
}

// combinations returns every k-sized, order-preserving subset of indices
// [0, n) as an index slice, in lexicographic order.
func combinations(n, k int) [][]int {
	if k <= 0 || k > n {
		return nil
	}
	var out [][]int
	combo := make([]int, k)
	var rec func(start, depth int)
	rec = func(start, depth int) {
		if depth == k {
			picked := make([]int, k)
			copy(picked, combo)
			out = append(out, picked)
			return
		}
		for i := start; i <= n-(k-depth); i++ {
			combo[depth] = i
			rec(i+1, depth+1)
		}
	}
	rec(0, 0)
	return out
}
