// Package schedulers implements the three TransactionScheduler strategies:
// Greedy (one deterministic pass), Maximal (exhaustive oracle) and
// Tournament (pairwise merge tree). All three share the same refill /
// queue-bound / fatal-deferral contract; only the batch-selection step
// (schedule) differs between them, so that shared contract lives once in
// base.go and each variant supplies a strategy implementing it.
package schedulers

import (
	"math"

	"github.com/luxfi/puppetmaster/core/model"
	"github.com/luxfi/puppetmaster/core/pmtypes"
)

// batch is one candidate set of pending transactions a variant proposes to
// move into Scheduled, plus how many cycles making that decision costs.
type batch struct {
	Set     *pmtypes.TransactionSet
	Elapsed int
}

// strategy is what distinguishes Greedy/Maximal/Tournament: given the
// footprint already committed (ongoing) and the candidates available
// (pending), propose up to maxNew-sized batches.
type strategy interface {
	schedule(ongoing *pmtypes.TransactionSet, pending []*pmtypes.Transaction, maxNew int) ([]batch, error)
}

// common holds the configuration every variant shares: the fixed per-batch
// decision cost, and the run's pool/queue bounds (nil means unbounded).
type common struct {
	OpTime    int
	PoolSize  *int
	QueueSize *int
}

// run implements spec step 1-7 of the scheduler contract:
//  1. start from a clone of state;
//  2. if the execution queue is already at capacity, advance the clock to
//     the next core completion (if any) and return, doing nothing else;
//  3. refill Pending from Incoming up to PoolSize, tracking deferrals;
//  4. if Pending is still empty, either this is a dead end (fatal, if the
//     source has deferred work it can never place) or it's just a clock
//     advance waiting on a running core;
//  5. build the ongoing footprint from running and already-scheduled work;
//  6. ask the variant to propose batches bounded by remaining queue room;
//  7. for each proposed batch, build one successor state moving the batch
//     from Pending to Scheduled and advancing the clock by its cost.
func (c *common) run(state *pmtypes.MachineState, v strategy) ([]*pmtypes.MachineState, error) {
	next := state.Clone()

	if c.QueueSize != nil && next.Scheduled.Len() >= *c.QueueSize {
		if clock, ok := next.EarliestCompletion(); ok && clock > next.Clock {
			next.Clock = clock
		}
		return []*pmtypes.MachineState{next}, nil
	}

	target := math.MaxInt
	if c.PoolSize != nil {
		target = *c.PoolSize
	}
	// maxRefillAttempts bounds how many times a single refill asks the
	// source for one more transaction. A deferral does not end the refill:
	// TemplateSource re-queues a deferred entry that still cannot be placed,
	// so while capacity is short a refill keeps retrying until it reaches
	// this bound, which also stops a Source that reports the same deferral
	// forever without ever going Empty.
	const maxRefillAttempts = 1 << 16
	for attempts := 0; next.Pending.Len() < target && attempts < maxRefillAttempts; attempts++ {
		if next.Incoming.Empty() {
			break
		}
		tr, status, _ := next.Incoming.TryNext(next.Maker)
		if status == pmtypes.SourceOK {
			next.Pending.Add(tr)
		}
	}

	if next.Pending.Len() == 0 {
		if len(next.Cores) == 0 {
			if next.Incoming.HasDeferred() {
				return nil, &model.RenamingTableTooSmallError{Deferred: next.Incoming.DeferredCount()}
			}
			return []*pmtypes.MachineState{next}, nil
		}
		if clock, ok := next.EarliestCompletion(); ok && clock > next.Clock {
			next.Clock = clock
		}
		return []*pmtypes.MachineState{next}, nil
	}

	ongoing := pmtypes.NewTransactionSet()
	for _, core := range next.Cores {
		ongoing.Add(core.Transaction)
	}
	for _, tr := range next.Scheduled.Transactions() {
		ongoing.Add(tr)
	}

	maxNew := math.MaxInt
	if c.QueueSize != nil {
		maxNew = *c.QueueSize - next.Scheduled.Len()
	}

	batches, err := v.schedule(ongoing, next.Pending.Transactions(), maxNew)
	if err != nil {
		return nil, err
	}

	out := make([]*pmtypes.MachineState, 0, len(batches))
	for _, b := range batches {
		succ := next.Clone()
		succ.Clock += b.Elapsed
		for _, tr := range b.Set.Transactions() {
			succ.Scheduled.Add(tr)
			succ.Pending.Remove(tr)
		}
		if b.Set.Len() == 0 {
			if clock, ok := succ.EarliestCompletion(); ok && clock > succ.Clock {
				succ.Clock = clock
			}
		}
		out = append(out, succ)
	}
	return out, nil
}
