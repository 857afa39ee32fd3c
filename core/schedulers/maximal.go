package schedulers

import (
	"sort"

	"github.com/luxfi/puppetmaster/core/pmtypes"
)

// Maximal is the enumerative oracle: it considers every compatible subset
// of pending (bounded by maxNew) and keeps the NSchedules largest as
// distinct successor states. It exists as a ceiling to measure Greedy and
// Tournament against, not as something meant to scale -- the candidate
// enumeration is exponential in len(pending).
type Maximal struct {
	common
	NSchedules int
}

// NewMaximal builds a Maximal scheduler keeping the top nSchedules batches
// per decision (nSchedules <= 0 behaves as 1).
func NewMaximal(opTime int, poolSize, queueSize *int, nSchedules int) *Maximal {
	return &Maximal{common{OpTime: opTime, PoolSize: poolSize, QueueSize: queueSize}, nSchedules}
}

func (m *Maximal) Run(state *pmtypes.MachineState) ([]*pmtypes.MachineState, error) {
	return m.common.run(state, m)
}

func (m *Maximal) schedule(ongoing *pmtypes.TransactionSet, pending []*pmtypes.Transaction, maxNew int) ([]batch, error) {
	var candidates []*pmtypes.TransactionSet
	var explore func(prefix *pmtypes.TransactionSet, i int)
	explore = func(prefix *pmtypes.TransactionSet, i int) {
		if i == len(pending) {
			candidates = append(candidates, prefix)
			return
		}
		explore(prefix, i+1)
		tr := pending[i]
		if prefix.Len() < maxNew && ongoing.Compatible(tr) && prefix.Compatible(tr) {
			next := prefix.Clone()
			next.Add(tr)
			explore(next, i+1)
		}
	}
	explore(pmtypes.NewTransactionSet(), 0)

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Len() > candidates[j].Len() })

	n := m.NSchedules
	if n <= 0 {
		n = 1
	}
	if n > len(candidates) {
		n = len(candidates)
	}

	out := make([]batch, n)
	for i := 0; i < n; i++ {
		out[i] = batch{Set: candidates[i], Elapsed: m.OpTime}
	}
	return out, nil
}
