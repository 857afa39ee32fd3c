package simulator_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/puppetmaster/core/executors"
	"github.com/luxfi/puppetmaster/core/pmtypes"
	"github.com/luxfi/puppetmaster/core/schedulers"
	"github.com/luxfi/puppetmaster/core/sets"
	"github.com/luxfi/puppetmaster/core/simulator"
	"github.com/luxfi/puppetmaster/core/source"
)

// tx builds a Transaction over the Ideal (exact) representation directly,
// bypassing template expansion, so each scenario's read/write addresses and
// timing are exactly what the test states.
func tx(t *testing.T, reads, writes []int, time int) *pmtypes.Transaction {
	t.Helper()
	rs, err := sets.NewIdeal(reads)
	require.NoError(t, err)
	ws, err := sets.NewIdeal(writes)
	require.NoError(t, err)
	return pmtypes.NewTransaction(rs, ws, time)
}

// runScenario drives txs to completion with a Greedy scheduler, a Random
// executor and an exact AddressSet representation -- the simplest
// combination, sufficient for scenarios with no capacity pressure.
func runScenario(t *testing.T, coreCount int, txs ...*pmtypes.Transaction) int {
	t.Helper()
	src := source.NewFixed(txs...)
	maker := sets.IdealMaker{}
	driver := simulator.NewDriver(schedulers.NewGreedy(0, nil, nil), executors.Random{}, nil)
	initial := pmtypes.NewMachineState(src, maker, coreCount)
	res, err := driver.Run(initial)
	require.NoError(t, err)
	return res.FinalClock
}

func TestScenarioSingleTransaction(t *testing.T) {
	final := runScenario(t, 1, tx(t, nil, nil, 42))
	require.Equal(t, 42, final)
}

func TestScenarioSingleTransactionWithFootprint(t *testing.T) {
	final := runScenario(t, 1, tx(t, []int{1, 2}, []int{3}, 77))
	require.Equal(t, 77, final)
}

func TestScenarioCompatiblePairOneCoreSerializes(t *testing.T) {
	t1 := tx(t, []int{1}, []int{2}, 12)
	t2 := tx(t, []int{3}, []int{4}, 23)
	final := runScenario(t, 1, t1, t2)
	require.Equal(t, 35, final)
}

func TestScenarioCompatiblePairTwoCoresParallelizes(t *testing.T) {
	t1 := tx(t, []int{1}, []int{2}, 12)
	t2 := tx(t, []int{3}, []int{4}, 23)
	final := runScenario(t, 2, t1, t2)
	require.Equal(t, 23, final)
}

func TestScenarioSharedReaderIsCompatible(t *testing.T) {
	t1 := tx(t, []int{1, 2}, []int{3}, 31)
	t2 := tx(t, []int{1, 4}, []int{5}, 26)
	final := runScenario(t, 2, t1, t2)
	require.Equal(t, 31, final)
}

func TestScenarioWriteWriteConflictSerializes(t *testing.T) {
	t1 := tx(t, []int{1, 2}, []int{3, 4}, 31)
	t2 := tx(t, []int{5}, []int{3}, 26)
	final := runScenario(t, 2, t1, t2)
	require.Equal(t, 57, final)
}
