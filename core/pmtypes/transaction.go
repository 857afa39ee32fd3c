// Package pmtypes holds the data model shared by every scheduler, executor
// and the driver itself: Transaction, Core, TransactionSet and MachineState.
package pmtypes

import (
	"sync/atomic"

	"github.com/luxfi/puppetmaster/core/sets"
)

var nextTransactionID int64

// Transaction is an immutable unit of work: a read footprint, a write
// footprint and the cycles it occupies a core for once scheduled. IDs are
// assigned from a process-wide monotonic counter so that two transactions
// built from identical addresses still compare distinct.
type Transaction struct {
	ID          int64
	ReadSet     sets.AddressSet
	WriteSet    sets.AddressSet
	Time        int
	Label       string
	RenameSteps int
}

// Option customizes a Transaction at construction.
type Option func(*Transaction)

// WithLabel attaches a human-readable label (the template name it was
// expanded from, typically).
func WithLabel(label string) Option {
	return func(t *Transaction) { t.Label = label }
}

// WithRenameSteps records how many probe attempts the Renaming maker needed
// across this transaction's read and write sets, for diagnostics.
func WithRenameSteps(steps int) Option {
	return func(t *Transaction) { t.RenameSteps = steps }
}

// NewTransaction builds a Transaction over already-constructed read/write
// AddressSets.
func NewTransaction(readSet, writeSet sets.AddressSet, time int, opts ...Option) *Transaction {
	id := atomic.AddInt64(&nextTransactionID, 1) - 1
	t := &Transaction{ID: id, ReadSet: readSet, WriteSet: writeSet, Time: time}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
