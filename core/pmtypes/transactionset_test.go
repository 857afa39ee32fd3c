package pmtypes_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/puppetmaster/core/pmtypes"
	"github.com/luxfi/puppetmaster/core/sets"
)

func mustTx(t *testing.T, reads, writes []int, time int) *pmtypes.Transaction {
	t.Helper()
	rs, err := sets.NewIdeal(reads)
	require.NoError(t, err)
	ws, err := sets.NewIdeal(writes)
	require.NoError(t, err)
	return pmtypes.NewTransaction(rs, ws, time)
}

func TestTransactionSetEmptyAcceptsAnything(t *testing.T) {
	s := pmtypes.NewTransactionSet()
	tr := mustTx(t, []int{1}, []int{2}, 5)
	require.True(t, s.Compatible(tr))
}

func TestTransactionSetReadReadIsCompatible(t *testing.T) {
	s := pmtypes.NewTransactionSetWith(mustTx(t, []int{1}, nil, 1))
	other := mustTx(t, []int{1}, nil, 1)
	require.True(t, s.Compatible(other))
}

func TestTransactionSetWriteReadConflicts(t *testing.T) {
	s := pmtypes.NewTransactionSetWith(mustTx(t, nil, []int{1}, 1))
	reader := mustTx(t, []int{1}, nil, 1)
	require.False(t, s.Compatible(reader))
}

func TestTransactionSetReadWriteConflicts(t *testing.T) {
	s := pmtypes.NewTransactionSetWith(mustTx(t, []int{1}, nil, 1))
	writer := mustTx(t, nil, []int{1}, 1)
	require.False(t, s.Compatible(writer))
}

func TestTransactionSetWriteWriteConflicts(t *testing.T) {
	s := pmtypes.NewTransactionSetWith(mustTx(t, nil, []int{1}, 1))
	other := mustTx(t, nil, []int{1}, 1)
	require.False(t, s.Compatible(other))
}

func TestTransactionSetAddIsIdempotent(t *testing.T) {
	s := pmtypes.NewTransactionSet()
	tr := mustTx(t, []int{1}, []int{2}, 1)
	s.Add(tr)
	s.Add(tr)
	require.Equal(t, 1, s.Len())
}

func TestTransactionSetRemove(t *testing.T) {
	tr1 := mustTx(t, []int{1}, nil, 1)
	tr2 := mustTx(t, []int{2}, nil, 1)
	s := pmtypes.NewTransactionSetWith(tr1, tr2)
	require.Equal(t, 2, s.Len())
	s.Remove(tr1)
	require.Equal(t, 1, s.Len())
	require.Equal(t, []*pmtypes.Transaction{tr2}, s.Transactions())
}

func TestTransactionSetCompatibleWith(t *testing.T) {
	a := pmtypes.NewTransactionSetWith(mustTx(t, nil, []int{1}, 1))
	b := pmtypes.NewTransactionSetWith(mustTx(t, []int{1}, nil, 1))
	require.False(t, a.CompatibleWith(b))

	c := pmtypes.NewTransactionSetWith(mustTx(t, []int{9}, []int{10}, 1))
	require.True(t, a.CompatibleWith(c))
}

func TestTransactionSetCloneIsIndependent(t *testing.T) {
	tr1 := mustTx(t, []int{1}, nil, 1)
	s := pmtypes.NewTransactionSetWith(tr1)
	clone := s.Clone()

	tr2 := mustTx(t, []int{2}, nil, 1)
	clone.Add(tr2)

	require.Equal(t, 1, s.Len())
	require.Equal(t, 2, clone.Len())
}

func TestTransactionSetUnion(t *testing.T) {
	tr1 := mustTx(t, []int{1}, nil, 1)
	tr2 := mustTx(t, []int{2}, nil, 1)
	a := pmtypes.NewTransactionSetWith(tr1)
	b := pmtypes.NewTransactionSetWith(tr2)
	u := a.Union(b)
	require.Equal(t, 2, u.Len())
	require.Equal(t, 1, a.Len(), "Union must not mutate its receiver")
}

func TestNewTransactionAssignsDistinctIDs(t *testing.T) {
	rs, _ := sets.NewIdeal([]int{1})
	ws, _ := sets.NewIdeal([]int{2})
	t1 := pmtypes.NewTransaction(rs, ws, 1)
	t2 := pmtypes.NewTransaction(rs, ws, 1)
	require.NotEqual(t, t1.ID, t2.ID)
}

func TestNewTransactionOptions(t *testing.T) {
	rs, _ := sets.NewIdeal(nil)
	ws, _ := sets.NewIdeal(nil)
	tr := pmtypes.NewTransaction(rs, ws, 1, pmtypes.WithLabel("small-read"), pmtypes.WithRenameSteps(3))
	require.Equal(t, "small-read", tr.Label)
	require.Equal(t, 3, tr.RenameSteps)
}
