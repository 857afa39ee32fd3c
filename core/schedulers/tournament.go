package schedulers

import "github.com/luxfi/puppetmaster/core/pmtypes"

// Tournament seeds one singleton set per pending transaction compatible with
// ongoing work, then repeatedly merges adjacent pairs: a pair merges into
// their union when the two sides don't conflict with each other, otherwise
// the first side survives the round unchanged and the second is dropped.
// Halving continues until one set remains. IsPipelined controls whether the
// rounds overlap (one OpTime total) or run back to back (OpTime * rounds).
type Tournament struct {
	common
	IsPipelined bool
}

// NewTournament builds a Tournament scheduler.
func NewTournament(opTime int, poolSize, queueSize *int, isPipelined bool) *Tournament {
	return &Tournament{common{OpTime: opTime, PoolSize: poolSize, QueueSize: queueSize}, isPipelined}
}

func (t *Tournament) Run(state *pmtypes.MachineState) ([]*pmtypes.MachineState, error) {
	return t.common.run(state, t)
}

func (t *Tournament) schedule(ongoing *pmtypes.TransactionSet, pending []*pmtypes.Transaction, maxNew int) ([]batch, error) {
	sets := make([]*pmtypes.TransactionSet, 0, len(pending))
	for _, tr := range pending {
		if ongoing.Compatible(tr) {
			sets = append(sets, pmtypes.NewTransactionSetWith(tr))
		}
	}

	rounds := 0
	for len(sets) > 1 {
		merged := make([]*pmtypes.TransactionSet, 0, (len(sets)+1)/2)
		for i := 0; i < len(sets); i += 2 {
			if i+1 >= len(sets) {
				merged = append(merged, sets[i])
				continue
			}
			a, b := sets[i], sets[i+1]
			if a.Len()+b.Len() <= maxNew && a.CompatibleWith(b) {
				merged = append(merged, a.Union(b))
			} else {
				merged = append(merged, a)
			}
		}
		sets = merged
		rounds++
	}

	result := pmtypes.NewTransactionSet()
	if len(sets) == 1 {
		result = sets[0]
	}

	elapsed := t.OpTime
	if !t.IsPipelined {
		r := rounds
		if r < 1 {
			r = 1
		}
		elapsed = t.OpTime * r
	}
	return []batch{{Set: result, Elapsed: elapsed}}, nil
}
