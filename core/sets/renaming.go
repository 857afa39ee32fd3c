package sets

import (
	"github.com/bits-and-blooms/bitset"
	lru "github.com/hashicorp/golang-lru"
	"github.com/luxfi/puppetmaster/core/model"
)

// renameSlot is one entry of the shared renaming table: the address
// currently occupying the slot and how many live AddressSets reference it.
type renameSlot struct {
	addr     int
	present  bool
	refcount int
}

// renamingSet is a bit vector over table slot indices: bit i set means this
// transaction's footprint includes whatever address currently occupies
// slot i. Union/Intersect operate on slot membership, which is exact as
// long as the table hasn't wrapped an address out from under a live set --
// the maker's refcounting is what prevents that.
type renamingSet struct {
	bits *bitset.BitSet
}

func (s *renamingSet) Union(other AddressSet) AddressSet {
	o := other.(*renamingSet)
	return &renamingSet{bits: s.bits.Union(o.bits)}
}

func (s *renamingSet) Intersect(other AddressSet) AddressSet {
	o := other.(*renamingSet)
	return &renamingSet{bits: s.bits.Intersection(o.bits)}
}

func (s *renamingSet) IsEmpty() bool {
	return s.bits.None()
}

// RenamingMaker owns the shared renaming table. Every AddressSet it builds
// reserves a slot per address (incrementing the slot's refcount); Free
// releases a set's slots, decrementing and vacating a slot once nothing
// references it. History reports how many probes recent insertions needed,
// bounded by a small LRU so the run doesn't retain an unbounded log.
type RenamingMaker struct {
	size    uint
	nFuncs  uint
	slots   []renameSlot
	history *lru.Cache
	seq     int
}

func newRenamingMaker(size, nFuncs uint) (*RenamingMaker, error) {
	historyCap := 64
	c, err := lru.New(historyCap)
	if err != nil {
		return nil, err
	}
	return &RenamingMaker{
		size:    size,
		nFuncs:  nFuncs,
		slots:   make([]renameSlot, size),
		history: c,
	}, nil
}

func (m *RenamingMaker) New(addrs []int) (AddressSet, error) {
	bs := bitset.New(m.size)
	inserted := make([]uint, 0, len(addrs))
	// The bit vector can only record one bit per distinct address -- a
	// repeated address must reserve (and later release) its slot exactly
	// once, or Free's one-decrement-per-set-bit walk would leave behind the
	// extra count a duplicate bumped, and the slot would never be vacated.
	seen := make(map[int]bool, len(addrs))
	for _, a := range addrs {
		if seen[a] {
			continue
		}
		seen[a] = true
		idx, probes, err := m.insert(a)
		m.record(probes)
		if err != nil {
			m.release(inserted)
			return nil, err
		}
		bs.Set(idx)
		inserted = append(inserted, idx)
	}
	return &renamingSet{bits: bs}, nil
}

// insert finds the first of up to m.nFuncs probe positions, via the (x+i)
// mod size hash family, that is either empty or already holds addr.
func (m *RenamingMaker) insert(addr int) (idx uint, probes int, err error) {
	for i := uint(0); i < m.nFuncs; i++ {
		pos := hashInto(addr, i, m.size)
		slot := &m.slots[pos]
		if !slot.present {
			slot.present = true
			slot.addr = addr
			slot.refcount = 1
			return pos, int(i) + 1, nil
		}
		if slot.addr == addr {
			slot.refcount++
			return pos, int(i) + 1, nil
		}
	}
	return 0, int(m.nFuncs), &model.CapacityExceededError{Addr: addr}
}

func (m *RenamingMaker) release(indices []uint) {
	for _, idx := range indices {
		m.vacate(idx)
	}
}

func (m *RenamingMaker) vacate(idx uint) {
	slot := &m.slots[idx]
	if !slot.present {
		return
	}
	slot.refcount--
	if slot.refcount <= 0 {
		slot.present = false
		slot.addr = 0
		slot.refcount = 0
	}
}

func (m *RenamingMaker) Free(sets ...AddressSet) {
	for _, s := range sets {
		rs, ok := s.(*renamingSet)
		if !ok {
			continue
		}
		for i, ok := rs.bits.NextSet(0); ok; i, ok = rs.bits.NextSet(i + 1) {
			m.vacate(i)
		}
	}
}

func (m *RenamingMaker) Clone() Maker {
	slots := make([]renameSlot, len(m.slots))
	copy(slots, m.slots)
	history, _ := lru.New(64)
	for _, k := range m.history.Keys() {
		if v, ok := m.history.Peek(k); ok {
			history.Add(k, v)
		}
	}
	return &RenamingMaker{size: m.size, nFuncs: m.nFuncs, slots: slots, history: history, seq: m.seq}
}

func (m *RenamingMaker) record(probes int) {
	m.seq++
	m.history.Add(m.seq, probes)
}

func (m *RenamingMaker) History() []int {
	keys := m.history.Keys()
	out := make([]int, 0, len(keys))
	for _, k := range keys {
		if v, ok := m.history.Peek(k); ok {
			out = append(out, v.(int))
		}
	}
	return out
}

// RenamingFactory constructs RenamingMakers sharing a fixed table Size and
// NFuncs probe bound.
type RenamingFactory struct {
	Size   uint
	NFuncs uint
}

func (f RenamingFactory) New() (Maker, error) {
	if f.Size < 1 {
		return nil, &model.IllegalConfigurationError{Reason: "renaming table size must be >= 1"}
	}
	if f.NFuncs < 1 {
		return nil, &model.IllegalConfigurationError{Reason: "renaming n_hash_funcs must be >= 1"}
	}
	return newRenamingMaker(f.Size, f.NFuncs)
}

func (f RenamingFactory) Name() string { return "renaming" }
