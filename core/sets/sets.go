// Package sets implements the three AddressSet representations a Core's
// read/write footprint can be tracked with: Ideal (exact), Approximate
// (bit-vector, false positives only) and Renaming (finite shared table).
// Each representation is paired with a Maker that knows how to build one
// from a raw address slice and how to release it once a transaction
// completes, plus a MakerFactory that a run's configuration constructs once.
package sets

// AddressSet is the common contract every representation satisfies: union
// and intersection against another set of the same representation, and an
// emptiness test. Conflict detection (TransactionSet.Compatible) is built
// entirely out of these three primitives.
type AddressSet interface {
	Union(other AddressSet) AddressSet
	Intersect(other AddressSet) AddressSet
	IsEmpty() bool
}

// Maker allocates AddressSets for a single simulation run and owns whatever
// shared state the representation needs (the Renaming variant's table, in
// particular). Free releases the resources an AddressSet held once its
// owning transaction's core finishes; Ideal and Approximate makers treat
// this as a no-op since they hold no shared state.
type Maker interface {
	// New builds an AddressSet over addrs. A CapacityExceededError means the
	// representation couldn't place one of the addresses; the caller (the
	// transaction source) is responsible for rolling back any sets it
	// already built for the same transaction via Free.
	New(addrs []int) (AddressSet, error)

	// Free releases whatever shared state the given sets occupied.
	Free(sets ...AddressSet)

	// Clone duplicates the maker's mutable state so that two branches of the
	// driver's state space can diverge without clobbering each other's
	// renaming table.
	Clone() Maker

	// History reports, oldest first, the number of probe attempts each of
	// the maker's last insertions needed. Representations with no probing
	// concept (Ideal, Approximate) return nil.
	History() []int
}

// MakerFactory constructs a Maker with a run's fixed parameters (table
// size, hash-function count, ...). Validation of those parameters happens
// once here, at construction, per the IllegalConfiguration contract.
type MakerFactory interface {
	New() (Maker, error)
	Name() string
}
