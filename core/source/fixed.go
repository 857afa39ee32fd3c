// Package source implements pmtypes.Source: the lazy collaborator a
// MachineState's Incoming field holds, producing transactions on demand as
// the driver refills its pending pool.
package source

import (
	"github.com/luxfi/puppetmaster/core/pmtypes"
	"github.com/luxfi/puppetmaster/core/sets"
)

// Fixed replays a predetermined, already-built sequence of transactions
// in order. It never defers -- useful for the concrete scenario tests that
// want full control over read/write sets and timing without going through
// template expansion.
type Fixed struct {
	txs []*pmtypes.Transaction
	idx int
}

// NewFixed returns a Source that replays txs in order, then reports itself
// exhausted.
func NewFixed(txs ...*pmtypes.Transaction) *Fixed {
	return &Fixed{txs: txs}
}

func (f *Fixed) TryNext(sets.Maker) (*pmtypes.Transaction, pmtypes.SourceResult, error) {
	if f.idx >= len(f.txs) {
		return nil, pmtypes.SourceExhausted, nil
	}
	tr := f.txs[f.idx]
	f.idx++
	return tr, pmtypes.SourceOK, nil
}

func (f *Fixed) HasDeferred() bool { return false }

func (f *Fixed) DeferredCount() int { return 0 }

func (f *Fixed) Empty() bool { return f.idx >= len(f.txs) }

func (f *Fixed) Clone() pmtypes.Source {
	return &Fixed{txs: f.txs, idx: f.idx}
}
