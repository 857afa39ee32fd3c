package schedulers_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/puppetmaster/core/pmtypes"
	"github.com/luxfi/puppetmaster/core/schedulers"
	"github.com/luxfi/puppetmaster/core/sets"
	"github.com/luxfi/puppetmaster/core/source"
)

func mustTx(t *testing.T, reads, writes []int, time int) *pmtypes.Transaction {
	t.Helper()
	rs, err := sets.NewIdeal(reads)
	require.NoError(t, err)
	ws, err := sets.NewIdeal(writes)
	require.NoError(t, err)
	return pmtypes.NewTransaction(rs, ws, time)
}

func stateWith(txs ...*pmtypes.Transaction) *pmtypes.MachineState {
	return pmtypes.NewMachineState(source.NewFixed(txs...), sets.IdealMaker{}, 4)
}

func TestGreedySchedulesAllCompatible(t *testing.T) {
	t1 := mustTx(t, []int{1}, []int{2}, 5)
	t2 := mustTx(t, []int{3}, []int{4}, 5)
	g := schedulers.NewGreedy(0, nil, nil)
	succ, err := g.Run(stateWith(t1, t2))
	require.NoError(t, err)
	require.Len(t, succ, 1)
	require.Equal(t, 2, succ[0].Scheduled.Len())
	require.Equal(t, 0, succ[0].Pending.Len())
}

func TestGreedySkipsConflicting(t *testing.T) {
	t1 := mustTx(t, nil, []int{1}, 5)
	t2 := mustTx(t, []int{1}, nil, 5)
	g := schedulers.NewGreedy(0, nil, nil)
	succ, err := g.Run(stateWith(t1, t2))
	require.NoError(t, err)
	require.Len(t, succ, 1)
	require.Equal(t, 1, succ[0].Scheduled.Len())
	require.Equal(t, 1, succ[0].Pending.Len())
}

func TestGreedyRespectsQueueSize(t *testing.T) {
	t1 := mustTx(t, []int{1}, []int{2}, 5)
	t2 := mustTx(t, []int{3}, []int{4}, 5)
	limit := 1
	g := schedulers.NewGreedy(0, nil, &limit)
	succ, err := g.Run(stateWith(t1, t2))
	require.NoError(t, err)
	require.Len(t, succ, 1)
	require.Equal(t, 1, succ[0].Scheduled.Len())
	require.Equal(t, 1, succ[0].Pending.Len())
}

func TestMaximalKeepsTopNSchedules(t *testing.T) {
	t1 := mustTx(t, []int{1}, []int{2}, 5)
	t2 := mustTx(t, []int{3}, []int{4}, 5)
	m := schedulers.NewMaximal(0, nil, nil, 2)
	succ, err := m.Run(stateWith(t1, t2))
	require.NoError(t, err)
	require.Len(t, succ, 2)
	// Both compatible transactions together is the single largest batch, so
	// the best candidate must schedule both.
	require.Equal(t, 2, succ[0].Scheduled.Len())
}

func TestMaximalNSchedulesClampedToCandidateCount(t *testing.T) {
	t1 := mustTx(t, []int{1}, []int{2}, 5)
	m := schedulers.NewMaximal(0, nil, nil, 100)
	succ, err := m.Run(stateWith(t1))
	require.NoError(t, err)
	// Only two candidates exist for a single pending transaction: {} and {t1}.
	require.Len(t, succ, 2)
}

func TestTournamentMergesCompatiblePair(t *testing.T) {
	t1 := mustTx(t, []int{1}, []int{2}, 5)
	t2 := mustTx(t, []int{3}, []int{4}, 5)
	tour := schedulers.NewTournament(1, nil, nil, true)
	succ, err := tour.Run(stateWith(t1, t2))
	require.NoError(t, err)
	require.Len(t, succ, 1)
	require.Equal(t, 2, succ[0].Scheduled.Len())
}

func TestTournamentPipelinedVsNotChargesDifferentElapsed(t *testing.T) {
	t1 := mustTx(t, []int{1}, []int{2}, 5)
	t2 := mustTx(t, []int{3}, []int{4}, 5)
	t3 := mustTx(t, []int{5}, []int{6}, 5)
	t4 := mustTx(t, []int{7}, []int{8}, 5)

	pipelined := schedulers.NewTournament(1, nil, nil, true)
	succPipelined, err := pipelined.Run(stateWith(t1, t2, t3, t4))
	require.NoError(t, err)

	notPipelined := schedulers.NewTournament(1, nil, nil, false)
	succSerial, err := notPipelined.Run(stateWith(t1, t2, t3, t4))
	require.NoError(t, err)

	// Four singleton sets take two merge rounds to collapse to one. Pipelined
	// charges one OpTime total; serial charges one per round.
	require.Equal(t, 1, succPipelined[0].Clock)
	require.Equal(t, 2, succSerial[0].Clock)
}

func TestTournamentLeavesIncompatiblePairUnmerged(t *testing.T) {
	t1 := mustTx(t, nil, []int{1}, 5)
	t2 := mustTx(t, []int{1}, nil, 5)
	tour := schedulers.NewTournament(0, nil, nil, true)
	succ, err := tour.Run(stateWith(t1, t2))
	require.NoError(t, err)
	require.Len(t, succ, 1)
	require.Equal(t, 1, succ[0].Scheduled.Len())
}
