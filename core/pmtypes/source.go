package pmtypes

import "github.com/luxfi/puppetmaster/core/sets"

// SourceResult reports the outcome of one TryNext call.
type SourceResult int

const (
	// SourceOK means a Transaction was produced.
	SourceOK SourceResult = iota
	// SourceDeferred means the next template's addresses couldn't be
	// placed in the current AddressSetMaker (CapacityExceeded); the caller
	// should try again on a future refill.
	SourceDeferred
	// SourceExhausted means there is nothing left to produce, ever.
	SourceExhausted
)

// Source is the lazy, coroutine-like collaborator MachineState.Incoming
// holds: "try to produce one more transaction, using maker to build its
// address sets." A MachineState clone clones its Source too, so that two
// branches of the driver's state space can each advance it independently.
type Source interface {
	TryNext(maker sets.Maker) (*Transaction, SourceResult, error)
	// HasDeferred reports whether the source is holding back any
	// transactions it could not place on a previous attempt.
	HasDeferred() bool
	// DeferredCount reports how many transactions are currently held back,
	// for diagnostics (a fatal RenamingTableTooSmallError reports this).
	DeferredCount() int
	// Empty reports whether the source can produce nothing more at all,
	// counting both its primary cursor and any deferred backlog.
	Empty() bool
	Clone() Source
}
