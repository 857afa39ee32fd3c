package source

import (
	"math/rand"

	"github.com/luxfi/puppetmaster/core/model"
	"github.com/luxfi/puppetmaster/core/pmtypes"
	"github.com/luxfi/puppetmaster/core/sets"
)

// TxTemplate is the external shape §6 of the specification describes for a
// transaction template: how many addresses it reads and writes, how long it
// occupies a core, and its relative weight when drawing from a mix of
// templates.
type TxTemplate struct {
	Reads  int `mapstructure:"reads"`
	Writes int `mapstructure:"writes"`
	Time   int `mapstructure:"time"`
	Weight int `mapstructure:"weight"`
}

// instance is one fully-drawn transaction-to-be: addresses already sampled,
// waiting only to be placed into AddressSets by whichever Maker is active
// when it's finally consumed.
type instance struct {
	name  string
	reads []int
	writes []int
	time  int
}

// TemplateSource expands a weighted mix of templates into a deterministic
// sequence of n draws up front (the address draws are what's random, not
// the order of consumption), then lazily hands them out via TryNext,
// deferring and retrying the ones a Maker can't currently place.
type TemplateSource struct {
	all      []instance
	idx      int
	deferred []instance
}

// NewTemplateSource draws n transactions from templates, each address drawn
// independently over [0, memSize) with the given skew parameter: zipfParam
// == 0 draws uniformly, zipfParam > 1 draws from a Zipf distribution skewed
// toward low addresses (higher skews harder). Seeded for reproducibility.
func NewTemplateSource(templates map[string]TxTemplate, n, memSize int, zipfParam float64, seed int64) (*TemplateSource, error) {
	if memSize < 1 {
		return nil, &model.IllegalConfigurationError{Reason: "mem_size must be >= 1"}
	}
	if len(templates) == 0 {
		return nil, &model.IllegalConfigurationError{Reason: "at least one transaction template is required"}
	}
	if zipfParam < 0 {
		return nil, &model.IllegalConfigurationError{Reason: "zipf_param must be >= 0"}
	}

	names := make([]string, 0, len(templates))
	totalWeight := 0
	for name, tmpl := range templates {
		if tmpl.Weight <= 0 {
			return nil, &model.IllegalConfigurationError{Reason: "template weight must be > 0: " + name}
		}
		names = append(names, name)
		totalWeight += tmpl.Weight
	}
	sortStrings(names)

	rng := rand.New(rand.NewSource(seed))
	draw, err := addressDrawer(rng, zipfParam, memSize)
	if err != nil {
		return nil, err
	}

	all := make([]instance, 0, n)
	for i := 0; i < n; i++ {
		name := pickWeighted(rng, names, templates, totalWeight)
		tmpl := templates[name]
		all = append(all, instance{
			name:   name,
			reads:  drawAddrs(draw, tmpl.Reads),
			writes: drawAddrs(draw, tmpl.Writes),
			time:   tmpl.Time,
		})
	}

	return &TemplateSource{all: all}, nil
}

// addressDrawer builds the per-address draw function: uniform for
// zipfParam == 0 (and, as the closest sane fallback, any skew <= 1 --
// rand.NewZipf requires s > 1 and a 0 draw is the natural reading of "no
// skew"), Zipf-distributed otherwise.
func addressDrawer(rng *rand.Rand, zipfParam float64, memSize int) (func() uint64, error) {
	if zipfParam <= 1.0 {
		return func() uint64 { return uint64(rng.Intn(memSize)) }, nil
	}
	zipf := rand.NewZipf(rng, zipfParam, 1, uint64(memSize-1))
	if zipf == nil {
		return nil, &model.IllegalConfigurationError{Reason: "zipf_param/mem_size combination is invalid"}
	}
	return zipf.Uint64, nil
}

func pickWeighted(rng *rand.Rand, names []string, templates map[string]TxTemplate, totalWeight int) string {
	r := rng.Intn(totalWeight)
	for _, name := range names {
		r -= templates[name].Weight
		if r < 0 {
			return name
		}
	}
	return names[len(names)-1]
}

func drawAddrs(draw func() uint64, count int) []int {
	addrs := make([]int, count)
	for i := range addrs {
		addrs[i] = int(draw())
	}
	return addrs
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// build attempts to turn an instance into a Transaction using maker, rolling
// back its read set if the write set can't be placed.
func build(maker sets.Maker, in instance) (*pmtypes.Transaction, error) {
	readSet, err := maker.New(in.reads)
	if err != nil {
		return nil, err
	}
	writeSet, err := maker.New(in.writes)
	if err != nil {
		maker.Free(readSet)
		return nil, err
	}
	return pmtypes.NewTransaction(readSet, writeSet, in.time, pmtypes.WithLabel(in.name)), nil
}

func (t *TemplateSource) TryNext(maker sets.Maker) (*pmtypes.Transaction, pmtypes.SourceResult, error) {
	if t.idx < len(t.all) {
		in := t.all[t.idx]
		t.idx++
		tr, err := build(maker, in)
		if err != nil {
			t.deferred = append(t.deferred, in)
			return nil, pmtypes.SourceDeferred, err
		}
		return tr, pmtypes.SourceOK, nil
	}

	if len(t.deferred) > 0 {
		in := t.deferred[0]
		t.deferred = t.deferred[1:]
		tr, err := build(maker, in)
		if err != nil {
			t.deferred = append(t.deferred, in)
			return nil, pmtypes.SourceDeferred, err
		}
		return tr, pmtypes.SourceOK, nil
	}

	return nil, pmtypes.SourceExhausted, nil
}

func (t *TemplateSource) HasDeferred() bool { return len(t.deferred) > 0 }

func (t *TemplateSource) DeferredCount() int { return len(t.deferred) }

func (t *TemplateSource) Empty() bool { return t.idx >= len(t.all) && len(t.deferred) == 0 }

func (t *TemplateSource) Clone() pmtypes.Source {
	deferred := make([]instance, len(t.deferred))
	copy(deferred, t.deferred)
	return &TemplateSource{all: t.all, idx: t.idx, deferred: deferred}
}
