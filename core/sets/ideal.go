package sets

import mapset "github.com/deckarep/golang-set/v2"

// idealSet is the exact representation: wraps a thread-unsafe golang-set
// (the driver is single-threaded per the concurrency model, so there is
// nothing to buy by paying for the synchronized variant).
type idealSet struct {
	s mapset.Set[int]
}

// NewIdeal builds an exact AddressSet over addrs. It never fails.
func NewIdeal(addrs []int) (AddressSet, error) {
	return &idealSet{s: mapset.NewThreadUnsafeSet(addrs...)}, nil
}

func (s *idealSet) Union(other AddressSet) AddressSet {
	o := other.(*idealSet)
	return &idealSet{s: s.s.Union(o.s)}
}

func (s *idealSet) Intersect(other AddressSet) AddressSet {
	o := other.(*idealSet)
	return &idealSet{s: s.s.Intersect(o.s)}
}

func (s *idealSet) IsEmpty() bool {
	return s.s.Cardinality() == 0
}

// IdealMaker allocates idealSets. It holds no shared state, so Free and
// Clone are trivial.
type IdealMaker struct{}

func (IdealMaker) New(addrs []int) (AddressSet, error) { return NewIdeal(addrs) }
func (IdealMaker) Free(sets ...AddressSet)             {}
func (IdealMaker) Clone() Maker                        { return IdealMaker{} }
func (IdealMaker) History() []int                      { return nil }

// IdealFactory constructs IdealMakers. There is nothing to validate: the
// exact representation takes no size parameters.
type IdealFactory struct{}

func (IdealFactory) New() (Maker, error) { return IdealMaker{}, nil }
func (IdealFactory) Name() string        { return "ideal" }
