package sets

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/luxfi/puppetmaster/core/model"
)

// approximateSet is the Bloom-filter-like representation: a fixed-width bit
// vector, each address hashed into n_hash_funcs positions via the (x+i) mod
// W family. Union and intersection are the vector's own bitwise operations,
// so the representation can report false positives (two disjoint address
// sets whose bit vectors happen to collide) but never a false negative.
type approximateSet struct {
	bits   *bitset.BitSet
	size   uint
	nFuncs uint
}

func (s *approximateSet) Union(other AddressSet) AddressSet {
	o := other.(*approximateSet)
	return &approximateSet{bits: s.bits.Union(o.bits), size: s.size, nFuncs: s.nFuncs}
}

func (s *approximateSet) Intersect(other AddressSet) AddressSet {
	o := other.(*approximateSet)
	return &approximateSet{bits: s.bits.Intersection(o.bits), size: s.size, nFuncs: s.nFuncs}
}

func (s *approximateSet) IsEmpty() bool {
	return s.bits.None()
}

// ApproximateMaker builds approximateSets against a fixed table width and
// hash-function count. It holds no per-transaction shared state, so Free is
// a no-op: nothing is reclaimed, the representation simply tolerates drift
// toward more false positives over a run's lifetime.
type ApproximateMaker struct {
	size   uint
	nFuncs uint
}

func (m *ApproximateMaker) New(addrs []int) (AddressSet, error) {
	bs := bitset.New(m.size)
	for _, a := range addrs {
		for i := uint(0); i < m.nFuncs; i++ {
			bs.Set(hashInto(a, i, m.size))
		}
	}
	return &approximateSet{bits: bs, size: m.size, nFuncs: m.nFuncs}, nil
}

func (m *ApproximateMaker) Free(sets ...AddressSet) {}

func (m *ApproximateMaker) Clone() Maker {
	return &ApproximateMaker{size: m.size, nFuncs: m.nFuncs}
}

func (m *ApproximateMaker) History() []int { return nil }

// hashInto computes the i'th probe position for address a over a table of
// the given size, using the (x+i) mod size hash family from the original
// simulator.
func hashInto(addr int, i, size uint) uint {
	return (uint(addr) + i) % size
}

// ApproximateFactory constructs ApproximateMakers for a fixed Size (bit
// vector width) and NFuncs (hash-function count).
type ApproximateFactory struct {
	Size   uint
	NFuncs uint
}

func (f ApproximateFactory) New() (Maker, error) {
	if f.Size < 1 {
		return nil, &model.IllegalConfigurationError{Reason: "approximate set size must be >= 1"}
	}
	if f.NFuncs < 1 {
		return nil, &model.IllegalConfigurationError{Reason: "approximate set n_hash_funcs must be >= 1"}
	}
	return &ApproximateMaker{size: f.Size, nFuncs: f.NFuncs}, nil
}

func (f ApproximateFactory) Name() string { return "approximate" }
