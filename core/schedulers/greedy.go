package schedulers

import "github.com/luxfi/puppetmaster/core/pmtypes"

// Greedy walks pending once in order, adding each transaction that doesn't
// conflict with what's already running/scheduled or with the batch being
// built so far, stopping once the batch hits maxNew. A single, deterministic
// pass: the cheapest of the three strategies and the baseline the others
// are measured against.
type Greedy struct {
	common
}

// NewGreedy builds a Greedy scheduler. opTime is the fixed cost charged for
// a scheduling decision; poolSize/queueSize are nil for unbounded.
func NewGreedy(opTime int, poolSize, queueSize *int) *Greedy {
	return &Greedy{common{OpTime: opTime, PoolSize: poolSize, QueueSize: queueSize}}
}

func (g *Greedy) Run(state *pmtypes.MachineState) ([]*pmtypes.MachineState, error) {
	return g.common.run(state, g)
}

func (g *Greedy) schedule(ongoing *pmtypes.TransactionSet, pending []*pmtypes.Transaction, maxNew int) ([]batch, error) {
	picked := pmtypes.NewTransactionSet()
	for _, tr := range pending {
		if picked.Len() >= maxNew {
			break
		}
		if ongoing.Compatible(tr) && picked.Compatible(tr) {
			picked.Add(tr)
		}
	}
	return []batch{{Set: picked, Elapsed: g.OpTime}}, nil
}
