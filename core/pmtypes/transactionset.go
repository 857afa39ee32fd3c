package pmtypes

import "github.com/luxfi/puppetmaster/core/sets"

// TransactionSet is an insertion-ordered collection of Transactions that
// tracks the union of their read and write footprints incrementally, so
// compatibility against a candidate transaction is three intersection tests
// against already-computed unions rather than a scan of every member.
// readUnion/writeUnion are nil until the first member is added: a nil union
// is treated as the empty AddressSet without needing a maker to construct
// one.
type TransactionSet struct {
	order      []*Transaction
	present    map[int64]*Transaction
	readUnion  sets.AddressSet
	writeUnion sets.AddressSet
}

// NewTransactionSet returns an empty set.
func NewTransactionSet() *TransactionSet {
	return &TransactionSet{present: make(map[int64]*Transaction)}
}

// NewTransactionSetWith returns a set seeded with the given transactions.
func NewTransactionSetWith(txs ...*Transaction) *TransactionSet {
	s := NewTransactionSet()
	for _, t := range txs {
		s.Add(t)
	}
	return s
}

// Add inserts tr if it isn't already a member and folds its footprints into
// the running unions. A no-op if tr is already present.
func (s *TransactionSet) Add(tr *Transaction) {
	if _, ok := s.present[tr.ID]; ok {
		return
	}
	s.present[tr.ID] = tr
	s.order = append(s.order, tr)
	if s.readUnion == nil {
		s.readUnion = tr.ReadSet
	} else {
		s.readUnion = s.readUnion.Union(tr.ReadSet)
	}
	if s.writeUnion == nil {
		s.writeUnion = tr.WriteSet
	} else {
		s.writeUnion = s.writeUnion.Union(tr.WriteSet)
	}
}

// Remove drops tr from the set. The running unions are left as-is: they are
// only ever used as an over-approximation for compatibility checks against
// the *other* members still in the set, and rebuilding them on every
// removal would make removal O(n) for no behavioral gain here since a
// removed transaction's conflicts with its former set-mates are moot once
// it has moved to a different collection.
func (s *TransactionSet) Remove(tr *Transaction) {
	if _, ok := s.present[tr.ID]; !ok {
		return
	}
	delete(s.present, tr.ID)
	for i, t := range s.order {
		if t.ID == tr.ID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Len reports the number of members.
func (s *TransactionSet) Len() int { return len(s.order) }

// Transactions returns the members in insertion order. The caller must not
// mutate the returned slice.
func (s *TransactionSet) Transactions() []*Transaction { return s.order }

// Compatible reports whether tr can join this set without a read-write,
// write-read or write-write conflict against any current member.
func (s *TransactionSet) Compatible(tr *Transaction) bool {
	if s.writeUnion != nil {
		if !tr.ReadSet.Intersect(s.writeUnion).IsEmpty() {
			return false
		}
		if !tr.WriteSet.Intersect(s.writeUnion).IsEmpty() {
			return false
		}
	}
	if s.readUnion != nil {
		if !tr.WriteSet.Intersect(s.readUnion).IsEmpty() {
			return false
		}
	}
	return true
}

// CompatibleWith reports whether every member of other can join this set
// without conflict, checked via the two sets' unions rather than pairwise.
func (s *TransactionSet) CompatibleWith(other *TransactionSet) bool {
	if s.writeUnion != nil && other.readUnion != nil && !s.writeUnion.Intersect(other.readUnion).IsEmpty() {
		return false
	}
	if s.readUnion != nil && other.writeUnion != nil && !s.readUnion.Intersect(other.writeUnion).IsEmpty() {
		return false
	}
	if s.writeUnion != nil && other.writeUnion != nil && !s.writeUnion.Intersect(other.writeUnion).IsEmpty() {
		return false
	}
	return true
}

// Union returns a new set containing every member of s and other.
func (s *TransactionSet) Union(other *TransactionSet) *TransactionSet {
	out := s.Clone()
	for _, t := range other.order {
		out.Add(t)
	}
	return out
}

// Clone returns a shallow copy: same Transaction pointers (immutable once
// built), fresh backing slice/map so the copy and the original can diverge.
func (s *TransactionSet) Clone() *TransactionSet {
	present := make(map[int64]*Transaction, len(s.present))
	for k, v := range s.present {
		present[k] = v
	}
	order := make([]*Transaction, len(s.order))
	copy(order, s.order)
	return &TransactionSet{order: order, present: present, readUnion: s.readUnion, writeUnion: s.writeUnion}
}
